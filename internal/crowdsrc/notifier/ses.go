package notifier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"crowdsrc/internal/crowdsrc/models"
	"crowdsrc/internal/crowdsrc/ports"
	"crowdsrc/pkg/platform/sentinel"
)

// EmailSender is the subset of the SES v2 client used to send mail.
type EmailSender interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SES emails a welcome message to each new user. Send failures are logged and
// dropped.
type SES struct {
	client EmailSender
	from   string
	logger *slog.Logger
}

// NewSES returns an email notifier sending from the given address.
func NewSES(client EmailSender, from string, logger *slog.Logger) (*SES, error) {
	if client == nil || from == "" {
		return nil, fmt.Errorf("ses notifier: client and sender address required: %w", sentinel.ErrUnavailable)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SES{client: client, from: from, logger: logger}, nil
}

var _ ports.UserNotifier = (*SES)(nil)

func (s *SES) UserCreated(ctx context.Context, user models.User) {
	msg := WelcomeFor(user)
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from),
		Destination:      &types.Destination{ToAddresses: []string{user.Email().String()}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(msg.Body), Charset: aws.String("UTF-8")},
				},
			},
		},
		EmailTags: []types.MessageTag{
			{Name: aws.String("event"), Value: aws.String("user_created")},
		},
	}

	out, err := s.client.SendEmail(ctx, input)
	if err != nil {
		s.logger.WarnContext(ctx, "welcome email failed",
			"user_id", user.ID().String(),
			"error", err,
		)
		return
	}
	s.logger.DebugContext(ctx, "welcome email sent",
		"user_id", user.ID().String(),
		"message_id", aws.ToString(out.MessageId),
	)
}
