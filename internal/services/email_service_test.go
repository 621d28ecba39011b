package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BradenHooton/emporium/internal/models"
)

func TestSESLockoutNotifier_SendsToAccountEmail(t *testing.T) {
	var sent *ses.SendEmailInput
	client := &MockSESClient{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			sent = params
			return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
		},
	}
	n := NewSESLockoutNotifierWithClient(client, "security@shop.example", 30*time.Minute, testLogger())

	n.NotifyLockout(context.Background(), &models.User{ID: "u1", Email: "ada@shop.example"}, 5)

	require.NotNil(t, sent)
	assert.Equal(t, "security@shop.example", aws.ToString(sent.Source))
	assert.Equal(t, []string{"ada@shop.example"}, sent.Destination.ToAddresses)
	assert.Contains(t, aws.ToString(sent.Message.Body.Text.Data), "5 failed sign-in attempts")
	assert.Contains(t, aws.ToString(sent.Message.Body.Text.Data), "30m0s")
}

func TestSESLockoutNotifier_SendFailureIsSwallowed(t *testing.T) {
	client := &MockSESClient{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			return nil, errors.New("throttled")
		},
	}
	n := NewSESLockoutNotifierWithClient(client, "security@shop.example", time.Minute, testLogger())

	assert.NotPanics(t, func() {
		n.NotifyLockout(context.Background(), &models.User{ID: "u1", Email: "ada@shop.example"}, 5)
	})
}
