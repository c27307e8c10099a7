package utils

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// EmailSender is the slice of the SES client the mailer needs.
type EmailSender interface {
	SendEmail(ctx context.Context, in *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type Mailer struct {
	client EmailSender
	sender string
}

func NewMailer(client EmailSender, sender string) *Mailer {
	return &Mailer{client: client, sender: sender}
}

func (m *Mailer) sendEmail(ctx context.Context, to, subject, body string) error {
	input := &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(m.sender),
	}

	if _, err := m.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("email send failed: %w", err)
	}
	return nil
}

// SendAlertEmail mails a health alert to the user.
func (m *Mailer) SendAlertEmail(ctx context.Context, to, name, message string) error {
	subject := "WhichFood health alert"
	body := fmt.Sprintf("Hi %s,\n\n%s\n\nOpen WhichFood to review your recent readings.", name, message)
	return m.sendEmail(ctx, to, subject, body)
}
