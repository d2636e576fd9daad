package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"ai-triage-be/internal/entity"
	"ai-triage-be/internal/repository/specification"
	"ai-triage-be/internal/repository/unitofwork"
	"ai-triage-be/pkg/database"
	"ai-triage-be/pkg/triage"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.TriageRepository())
	assert.NotNil(t, uow.SessionRepository())
	assert.NotNil(t, uow.ReviewRepository())
	assert.NotNil(t, uow.NotificationRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Check Triage Repository", func(t *testing.T) {
		count, err := uow.TriageRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Triage record count: %d", count)
	})

	t.Run("Check Transactional Triage Flow", func(t *testing.T) {
		ctx := context.Background()

		err := uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		contact := "+55119" + uuid.New().String()[:8]
		record := &entity.TriageRecord{
			Id:              uuid.New(),
			Contact:         contact,
			Channel:         triage.ChannelWeb,
			SymptomsText:    "dor de cabeça leve desde ontem",
			RiskLevel:       triage.RiskGreen,
			Confidence:      90,
			PriorityScore:   15,
			Action:          triage.ActionDirect,
			Status:          triage.StatusFinalized,
			TriageCode:      "TRI-GW-0042",
			Recommendation:  "Procure atendimento quando possível.",
			SymptomsSummary: "cefaleia leve",
			Degradation:     triage.DegradationNone,
		}

		err = uow.TriageRepository().Create(ctx, record)
		assert.NoError(t, err)

		analysis := &entity.TriageAnalysis{
			Id:         uuid.New(),
			TriageId:   record.Id,
			Turn:       1,
			RiskLevel:  triage.RiskGreen,
			Confidence: 90,
		}
		err = uow.TriageRepository().CreateAnalysis(ctx, analysis)
		assert.NoError(t, err)

		msg := &entity.TriageMessage{
			Id:        uuid.New(),
			TriageId:  record.Id,
			Direction: entity.MessageInbound,
			Content:   record.SymptomsText,
		}
		err = uow.TriageRepository().CreateMessage(ctx, msg)
		assert.NoError(t, err)

		// Read back inside the same transaction
		found, err := uow.TriageRepository().FindOne(ctx, specification.Filter("triage_code", record.TriageCode))
		assert.NoError(t, err)
		if assert.NotNil(t, found) {
			assert.Equal(t, triage.RiskGreen, found.RiskLevel)
			assert.Equal(t, contact, found.Contact)
		}

		exists, err := uow.TriageRepository().ExistsByCode(ctx, record.TriageCode)
		assert.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("Check Conversation Session Queries", func(t *testing.T) {
		ctx := context.Background()

		err := uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		contact := "+55118" + uuid.New().String()[:8]
		record := &entity.TriageRecord{
			Id:      uuid.New(),
			Contact: contact,
			Channel: triage.ChannelMessaging,
			Status:  triage.StatusPending,
		}
		err = uow.TriageRepository().Create(ctx, record)
		assert.NoError(t, err)

		sess := &entity.ConversationSession{
			Id:              uuid.New(),
			TriageId:        record.Id,
			Contact:         contact,
			Step:            "collecting_symptoms",
			AccumulatedText: "febre há dois dias",
			Turns:           1,
			LastMessageAt:   time.Now().Add(-time.Hour),
		}
		err = uow.SessionRepository().Create(ctx, sess)
		assert.NoError(t, err)

		active, err := uow.SessionRepository().FindOne(ctx,
			specification.ByContact{Contact: contact},
			specification.ActiveSteps{},
		)
		assert.NoError(t, err)
		if assert.NotNil(t, active) {
			assert.Equal(t, 1, active.Turns)
		}

		idle, err := uow.SessionRepository().FindAll(ctx,
			specification.ActiveSteps{},
			specification.IdleSince{Cutoff: time.Now().Add(-30 * time.Minute)},
		)
		assert.NoError(t, err)
		assert.NotEmpty(t, idle)
	})
}
