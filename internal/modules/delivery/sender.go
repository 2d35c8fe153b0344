package delivery

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"tripplanner/internal/logger"
)

// Sender hands a rendered message to a transport.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SESService is the part of *ses.Client used here.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SESSender struct {
	client SESService
	from   string
}

func NewSESSender(client SESService, from string) *SESSender {
	return &SESSender{client: client, from: from}
}

func (s *SESSender) Send(ctx context.Context, msg Message) error {
	_, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(msg.Text), Charset: aws.String("UTF-8")},
				Html: &types.Content{Data: aws.String(msg.HTML), Charset: aws.String("UTF-8")},
			},
		},
		Source: aws.String(s.from),
	})
	return err
}

// LogSender accepts every message and only logs it; used when SES is disabled.
type LogSender struct {
	log logger.Logger
}

func NewLogSender(log logger.Logger) *LogSender {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &LogSender{log: log}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.log.Info("email delivery disabled; message not sent", map[string]interface{}{
		"to": msg.To, "subject": msg.Subject,
	})
	return nil
}
