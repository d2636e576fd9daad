package integration

import (
	"encoding/json"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"ai-triage-be/internal/bootstrap"
	"ai-triage-be/internal/config"
	"ai-triage-be/internal/dto"
	"ai-triage-be/internal/model"
	"ai-triage-be/internal/server"
	"ai-triage-be/pkg/database"
	"ai-triage-be/pkg/triage"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func staffToken(t *testing.T, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": uuid.New().String(),
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return signed
}

func TestTriageFlow(t *testing.T) {
	// Load .env from root (2 levels up) because tests run in package dir
	if err := godotenv.Load("../../.env"); err != nil {
		t.Logf("Warning: Could not load ../../.env: %v", err)
	}
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}
	if os.Getenv("JWT_SECRET") == "" {
		os.Setenv("JWT_SECRET", "integration-test-secret")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	container := bootstrap.NewContainer(db, cfg)
	srv := server.New(cfg, container)
	app := srv.GetApp()

	contact := "+55119" + uuid.New().String()[:8]
	var triageCode string

	defer func() {
		db.Where("contact = ?", contact).Delete(&model.TriageRecord{})
	}()

	t.Run("Submit intake", func(t *testing.T) {
		reqBody := dto.IntakeRequest{
			Contact:      contact,
			SymptomsText: "dor de cabeça leve desde ontem",
			Channel:      "web",
		}
		body, _ := json.Marshal(reqBody)

		req := httptest.NewRequest("POST", "/api/triage", strings.NewReader(string(body)))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req, -1)
		assert.Equal(t, 200, resp.StatusCode)

		var result envelope
		json.NewDecoder(resp.Body).Decode(&result)
		assert.True(t, result.Success)

		var data dto.TriageResponse
		assert.NoError(t, json.Unmarshal(result.Data, &data))
		assert.NotEmpty(t, data.TriageCode)
		_, ok := triage.ParseRiskLevel(data.RiskLevel)
		assert.True(t, ok)
		triageCode = data.TriageCode
	})

	t.Run("Look up by code", func(t *testing.T) {
		if triageCode == "" {
			t.Skip("no code from submit")
		}
		req := httptest.NewRequest("GET", "/api/triage/code/"+triageCode, nil)
		resp, _ := app.Test(req, -1)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("Empty symptoms rejected", func(t *testing.T) {
		reqBody := dto.IntakeRequest{
			Contact:      contact,
			SymptomsText: "   ",
			Channel:      "web",
		}
		body, _ := json.Marshal(reqBody)

		req := httptest.NewRequest("POST", "/api/triage", strings.NewReader(string(body)))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req, -1)
		assert.Equal(t, 400, resp.StatusCode)
	})

	t.Run("Staff list requires token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/triage", nil)
		resp, _ := app.Test(req, -1)
		assert.Equal(t, 401, resp.StatusCode)
	})

	t.Run("Staff list with nurse token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/triage?limit=5", nil)
		req.Header.Set("Authorization", "Bearer "+staffToken(t, "nurse"))
		resp, _ := app.Test(req, -1)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("Review queue denied for patient role", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/review/queue", nil)
		req.Header.Set("Authorization", "Bearer "+staffToken(t, "patient"))
		resp, _ := app.Test(req, -1)
		assert.Equal(t, 403, resp.StatusCode)
	})

	t.Run("Conversation message gets a reply", func(t *testing.T) {
		convContact := "+55118" + uuid.New().String()[:8]
		defer func() {
			db.Where("contact = ?", convContact).Delete(&model.ConversationSession{})
			db.Where("contact = ?", convContact).Delete(&model.TriageRecord{})
		}()

		reqBody := dto.InboundMessageRequest{
			Contact: convContact,
			Message: "estou com febre há dois dias",
		}
		body, _ := json.Marshal(reqBody)

		req := httptest.NewRequest("POST", "/api/webhook/message", strings.NewReader(string(body)))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req, -1)
		assert.Equal(t, 200, resp.StatusCode)

		var result envelope
		json.NewDecoder(resp.Body).Decode(&result)
		assert.True(t, result.Success)

		var reply dto.ConversationReply
		assert.NoError(t, json.Unmarshal(result.Data, &reply))
		assert.NotEmpty(t, reply.Reply)
	})
}
