// Package notify renders and sends the emails the service produces.
package notify

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/GregMSThompson/ledger-backend/internal/dto"
	"github.com/GregMSThompson/ledger-backend/internal/models"
	"github.com/GregMSThompson/ledger-backend/pkg/logger"
)

type mailer interface {
	Send(ctx context.Context, email dto.Email) (string, error)
}

type Notifier struct {
	mailer     mailer
	renderer   *renderer
	appBaseURL string
}

func New(m mailer, appBaseURL string) (*Notifier, error) {
	r, err := newRenderer()
	if err != nil {
		return nil, err
	}
	return &Notifier{
		mailer:     m,
		renderer:   r,
		appBaseURL: strings.TrimRight(appBaseURL, "/"),
	}, nil
}

type billReminderData struct {
	UserName string
	BillName string
	DueDate  string
	Amount   string
	Overdue  bool
	BillsURL string
}

// BillReminder sends one reminder for bill. The subject marks overdue bills.
func (n *Notifier) BillReminder(ctx context.Context, to, name string, bill *models.Bill, now time.Time) error {
	overdue := bill.DueDate.Before(now)
	data := billReminderData{
		UserName: name,
		BillName: bill.Name,
		DueDate:  bill.DueDate.Format("2 Jan 2006"),
		Amount:   fmt.Sprintf("%.2f", bill.Amount),
		Overdue:  overdue,
		BillsURL: n.appBaseURL + "/bills",
	}

	subject := fmt.Sprintf("Reminder: %s bill due soon", bill.Name)
	if overdue {
		subject = fmt.Sprintf("OVERDUE: %s bill payment", bill.Name)
	}
	return n.send(ctx, "bill_reminder", to, subject, data)
}

type passwordResetData struct {
	UserName  string
	ResetURL  string
	ExpiresIn string
}

func (n *Notifier) PasswordReset(ctx context.Context, to, name, token string, ttl time.Duration) error {
	data := passwordResetData{
		UserName:  name,
		ResetURL:  n.appBaseURL + "/reset-password?token=" + url.QueryEscape(token),
		ExpiresIn: fmt.Sprintf("%d minutes", int(ttl.Minutes())),
	}
	return n.send(ctx, "password_reset", to, "Password reset", data)
}

func (n *Notifier) send(ctx context.Context, template, to, subject string, data any) error {
	html, text, err := n.renderer.render(template, data)
	if err != nil {
		return err
	}
	id, err := n.mailer.Send(ctx, dto.Email{To: to, Subject: subject, HTML: html, Text: text})
	if err != nil {
		return err
	}
	logger.FromContext(ctx).Info("email sent", "template", template, "message_id", id)
	return nil
}

// LogMailer stands in for a real provider when no API key is configured.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, email dto.Email) (string, error) {
	logger.FromContext(ctx).Warn("email delivery disabled, dropping message", "subject", email.Subject)
	return "", nil
}
