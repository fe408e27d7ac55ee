// internal/notify/mailer.go
package notify

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"puppy-admin/internal/common/config"
	"puppy-admin/internal/common/logger"
	"puppy-admin/internal/common/metrics"
	"puppy-admin/internal/models"
)

// EmailSender delivers plain-text email.
type EmailSender interface {
	SendTextEmail(ctx context.Context, from, to, subject, body string) (string, error)
}

// SMSSender delivers a text message to a phone number.
type SMSSender interface {
	SendSMS(ctx context.Context, phoneNumber, message, senderID string) (string, error)
}

// DecisionMailer tells applicants about the outcome of their application.
// Delivery runs in the background; failures are logged and counted, never
// returned.
type DecisionMailer struct {
	cfg      config.NotificationConfig
	email    EmailSender
	sms      SMSSender
	log      logger.Logger
	inflight sync.WaitGroup
}

// NewDecisionMailer builds a mailer. A nil sender disables its channel.
func NewDecisionMailer(cfg config.NotificationConfig, email EmailSender, sms SMSSender, log logger.Logger) *DecisionMailer {
	return &DecisionMailer{
		cfg:   cfg,
		email: email,
		sms:   sms,
		log:   logger.Component(log, "decision-mailer"),
	}
}

// Notices renders the messages an application's decision produces.
func (m *DecisionMailer) Notices(app models.WaitlistApplication) []models.DecisionNotice {
	if !app.Status.Terminal() {
		return nil
	}

	var notices []models.DecisionNotice
	if m.cfg.Email.Enabled && m.email != nil && app.Email != "" {
		subject, body := emailContent(app)
		notices = append(notices, models.DecisionNotice{
			ApplicationID: app.ID,
			Recipient:     app.Email,
			Channel:       "email",
			Status:        app.Status,
			Subject:       subject,
			Body:          body,
		})
	}
	if m.cfg.SMS.Enabled && m.sms != nil && strings.TrimSpace(app.PhoneNumber) != "" {
		notices = append(notices, models.DecisionNotice{
			ApplicationID: app.ID,
			Recipient:     strings.TrimSpace(app.PhoneNumber),
			Channel:       "sms",
			Status:        app.Status,
			Body:          smsContent(app),
		})
	}
	return notices
}

// OnDecision matches waitlist.DecisionHook. It returns once delivery has
// been queued; the sends outlive the caller's cancellation.
func (m *DecisionMailer) OnDecision(ctx context.Context, app models.WaitlistApplication) {
	notices := m.Notices(app)
	if len(notices) == 0 {
		return
	}

	m.inflight.Add(1)
	go func() {
		defer m.inflight.Done()
		m.deliver(context.WithoutCancel(ctx), notices)
	}()
}

// Wait blocks until every queued notice has been attempted.
func (m *DecisionMailer) Wait() {
	m.inflight.Wait()
}

func (m *DecisionMailer) deliver(ctx context.Context, notices []models.DecisionNotice) {
	for _, n := range notices {
		var err error
		switch n.Channel {
		case "email":
			_, err = m.email.SendTextEmail(ctx, m.cfg.Email.FromEmail, n.Recipient, n.Subject, n.Body)
		case "sms":
			_, err = m.sms.SendSMS(ctx, n.Recipient, n.Body, m.cfg.SMS.SenderID)
		}

		fields := map[string]interface{}{
			"applicationId": n.ApplicationID,
			"channel":       n.Channel,
			"status":        string(n.Status),
		}
		if err != nil {
			metrics.NotificationsSent.WithLabelValues(n.Channel, "failure").Inc()
			m.log.WithError(err).Warn("Failed to send decision notice", fields)
			continue
		}
		metrics.NotificationsSent.WithLabelValues(n.Channel, "success").Inc()
		m.log.Info("Decision notice sent", fields)
	}
}

func emailContent(app models.WaitlistApplication) (string, string) {
	if app.Status == models.StatusApproved {
		return "Your puppy adoption application was approved",
			fmt.Sprintf("Hi %s,\n\nGreat news: your application to adopt a puppy has been approved. "+
				"We will be in touch shortly to arrange the next steps.\n", app.FirstName)
	}
	return "Update on your puppy adoption application",
		fmt.Sprintf("Hi %s,\n\nThank you for applying to adopt a puppy. "+
			"Unfortunately we are unable to move forward with your application at this time.\n", app.FirstName)
}

func smsContent(app models.WaitlistApplication) string {
	if app.Status == models.StatusApproved {
		return fmt.Sprintf("Hi %s, your puppy adoption application has been approved! We'll contact you soon.", app.FirstName)
	}
	return fmt.Sprintf("Hi %s, we're unable to approve your puppy adoption application at this time.", app.FirstName)
}
