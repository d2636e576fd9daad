package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ai-triage-be/internal/dto"
	"ai-triage-be/internal/pkg/serverutils"
)

func TestIntakeRequestChannels(t *testing.T) {
	base := func(channel string) *dto.IntakeRequest {
		return &dto.IntakeRequest{
			Contact:      "+5511999990000",
			SymptomsText: "febre alta há dois dias",
			Channel:      channel,
		}
	}

	// Form channels are accepted; empty defaults to web downstream.
	for _, channel := range []string{"", "web", "kiosk"} {
		assert.NoError(t, serverutils.ValidateRequest(base(channel)), channel)
	}

	// The messaging channel only enters through the webhook conversation
	// flow, never the single-shot intake form.
	assert.Error(t, serverutils.ValidateRequest(base("messaging")))
	assert.Error(t, serverutils.ValidateRequest(base("sms")))
}
