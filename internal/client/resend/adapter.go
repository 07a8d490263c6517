package resendclient

import (
	"context"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/GregMSThompson/ledger-backend/internal/dto"
	"github.com/GregMSThompson/ledger-backend/internal/errs"
)

type Adapter struct {
	client *resend.Client
	from   string
}

func NewAdapter(apiKey, from string) *Adapter {
	return &Adapter{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

// Send delivers one email and returns the provider message id.
func (a *Adapter) Send(ctx context.Context, email dto.Email) (string, error) {
	resp, err := a.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    a.from,
		To:      []string{email.To},
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
	})
	if err != nil {
		return "", errs.NewExternalServiceError("resend", !isPermanentError(err), err)
	}
	return resp.Id, nil
}

// 4xx other than rate limiting will fail again on retry
func isPermanentError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{"401", "403", "422", "unauthorized", "forbidden", "validation", "invalid"} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
