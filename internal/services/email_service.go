package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/BradenHooton/emporium/internal/models"
	pkglogger "github.com/BradenHooton/emporium/pkg/logger"
)

// SESClient is the subset of the SES API used to send alerts
type SESClient interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESLockoutNotifier emails the account owner when their login is locked.
type SESLockoutNotifier struct {
	client      SESClient
	fromAddress string
	window      time.Duration
	logger      *slog.Logger
}

// NewSESLockoutNotifier loads the default AWS credential chain for region
func NewSESLockoutNotifier(ctx context.Context, region, fromAddress string, window time.Duration, logger *slog.Logger) (*SESLockoutNotifier, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewSESLockoutNotifierWithClient(ses.NewFromConfig(cfg), fromAddress, window, logger), nil
}

func NewSESLockoutNotifierWithClient(client SESClient, fromAddress string, window time.Duration, logger *slog.Logger) *SESLockoutNotifier {
	return &SESLockoutNotifier{
		client:      client,
		fromAddress: fromAddress,
		window:      window,
		logger:      logger,
	}
}

// NotifyLockout sends the alert. Failures are logged and swallowed since the
// login outcome has already been decided.
// The alert goes to the address stored on the account, never to the typed identity.
func (n *SESLockoutNotifier) NotifyLockout(ctx context.Context, account *models.User, failures int) {
	textBody := fmt.Sprintf(`Sign-in temporarily locked

We received %d failed sign-in attempts for your account. Sign-in has been locked for %s.

If this was you, wait and try again. If not, consider changing your password once you can sign in.

This is an automated message. Please do not reply to this email.
`, failures, n.window)

	input := &ses.SendEmailInput{
		Source: aws.String(n.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{account.Email},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String("Sign-in to your account was locked"),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data: aws.String(textBody),
				},
			},
		},
	}

	result, err := n.client.SendEmail(ctx, input)
	if err != nil {
		n.logger.Error("failed to send lockout alert via SES",
			slog.String("user_id", account.ID),
			slog.Any("error", err))
		return
	}

	n.logger.Info("lockout alert sent",
		slog.String("user_id", account.ID),
		slog.String("message_id", aws.ToString(result.MessageId)))
}

// LogLockoutNotifier records lockouts in the log when email alerts are off.
type LogLockoutNotifier struct {
	logger *slog.Logger
}

func NewLogLockoutNotifier(logger *slog.Logger) *LogLockoutNotifier {
	return &LogLockoutNotifier{logger: logger}
}

func (n *LogLockoutNotifier) NotifyLockout(_ context.Context, account *models.User, failures int) {
	n.logger.Warn("login locked out",
		slog.String("user_id", account.ID),
		slog.String("email", pkglogger.SanitizedEmail(account.Email)),
		slog.Int("failures", failures))
}
