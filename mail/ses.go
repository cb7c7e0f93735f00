package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESAPI is the part of the SES client used here; *ses.Client satisfies it
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

/* SESSender mails reminders through Amazon SES
 * Uses pointer semantics as it's an API, not data
 */
type SESSender struct {
	client SESAPI
	from   string
}

// NewSESClient loads the default AWS credential chain for region
func NewSESClient(ctx context.Context, region string) (*ses.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return ses.NewFromConfig(cfg), nil
}

func NewSESSender(client SESAPI, from string) (*SESSender, error) {
	if from == "" {
		return nil, errors.New("ses sender requires a from address")
	}
	return &SESSender{client: client, from: from}, nil
}

func (s *SESSender) SendDeadlineReminder(ctx context.Context, r Reminder) error {
	if err := r.Validate(); err != nil {
		return err
	}
	subject, body, err := Render(r)
	if err != nil {
		return err
	}

	_, err = s.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{r.RecipientEmail},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body), Charset: aws.String("UTF-8")},
			},
		},
		Source: aws.String(s.from),
	})
	if err != nil {
		return fmt.Errorf("sending reminder to %s: %w", r.RecipientEmail, err)
	}
	return nil
}
