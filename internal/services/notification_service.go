// Файл: internal/services/notification_service.go
package services

import (
	"context"
	"fmt"

	"github.com/microcosm-cc/bluemonday"

	"repair-tracker/internal/entities"
	"repair-tracker/pkg/mailer"
)

// NotificationServiceInterface - письма клиенту и администратору.
type NotificationServiceInterface interface {
	SendQuoteConfirmation(ctx context.Context, quote entities.Quote) error
	SendAdminNotification(ctx context.Context, quote entities.Quote) error
	SendStatusUpdate(ctx context.Context, quote entities.Quote, status string) error
}

type NotificationService struct {
	sender     mailer.Sender
	adminEmail string
	baseURL    string
	policy     *bluemonday.Policy
}

func NewNotificationService(sender mailer.Sender, adminEmail, baseURL string) NotificationServiceInterface {
	return &NotificationService{
		sender:     sender,
		adminEmail: adminEmail,
		baseURL:    baseURL,
		policy:     bluemonday.StrictPolicy(),
	}
}

// esc убирает разметку из текста клиента перед вставкой в HTML письма.
func (s *NotificationService) esc(v string) string {
	return s.policy.Sanitize(v)
}

func (s *NotificationService) SendQuoteConfirmation(ctx context.Context, q entities.Quote) error {
	html := fmt.Sprintf(`
		<html>
		<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
			<h2>Q Solutions - Quote Confirmation</h2>
			<p>Hello %s,</p>
			<p>Your quote request has been received. Use the tracking code below to follow your repair:</p>
			<h3>Tracking Code: <span style="color: #e74c3c;">%s</span></h3>
			<p><strong>Next steps:</strong></p>
			<ul>
				<li>Your request will be reviewed</li>
				<li>We will get back to you</li>
				<li>The repair process will start</li>
			</ul>
			<p><a href="%s">Track your repair</a></p>
		</body>
		</html>
	`, s.esc(q.FullName), q.TrackingCode, s.baseURL)

	plain := fmt.Sprintf(`Hello %s,

Your quote request has been received.
Tracking code: %s

Track your repair at %s
`, q.FullName, q.TrackingCode, s.baseURL)

	return s.sender.Send(ctx, mailer.Message{
		To:      q.Email,
		Subject: "Q Solutions - Quote Confirmation",
		HTML:    html,
		Plain:   plain,
	})
}

func (s *NotificationService) SendAdminNotification(ctx context.Context, q entities.Quote) error {
	if s.adminEmail == "" {
		return nil
	}

	html := fmt.Sprintf(`
		<html>
		<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
			<h2>New Quote Request</h2>
			<p><strong>Tracking Code:</strong> %s</p>
			<p><strong>Customer:</strong> %s</p>
			<p><strong>Email:</strong> %s</p>
			<p><strong>Phone:</strong> %s</p>
			<p><strong>City:</strong> %s</p>
			<p><strong>Device:</strong> %s %s %s</p>
			<p><strong>Issue:</strong> %s</p>
			<p style="color: #e74c3c; font-weight: bold;">This quote is waiting for review.</p>
		</body>
		</html>
	`, q.TrackingCode, s.esc(q.FullName), s.esc(q.Email), s.esc(q.Phone), s.esc(q.City),
		s.esc(q.DeviceType), s.esc(q.Brand), s.esc(q.Model), s.esc(q.IssueDescription))

	plain := fmt.Sprintf(`New quote request %s

Customer: %s <%s>, %s
City: %s
Device: %s %s %s
Issue: %s
`, q.TrackingCode, q.FullName, q.Email, q.Phone, q.City, q.DeviceType, q.Brand, q.Model, q.IssueDescription)

	return s.sender.Send(ctx, mailer.Message{
		To:      s.adminEmail,
		Subject: "New Quote Request - " + q.TrackingCode,
		HTML:    html,
		Plain:   plain,
	})
}

func (s *NotificationService) SendStatusUpdate(ctx context.Context, q entities.Quote, status string) error {
	html := fmt.Sprintf(`
		<html>
		<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
			<h2>Status Update</h2>
			<p>Hello %s,</p>
			<p>There is an update for tracking code <strong>%s</strong>:</p>
			<p style="font-size: 18px; font-weight: bold;">%s</p>
			<p><a href="%s">Track your repair</a></p>
		</body>
		</html>
	`, s.esc(q.FullName), q.TrackingCode, s.esc(status), s.baseURL)

	plain := fmt.Sprintf(`Hello %s,

Status update for tracking code %s:
%s

Track your repair at %s
`, q.FullName, q.TrackingCode, status, s.baseURL)

	return s.sender.Send(ctx, mailer.Message{
		To:      q.Email,
		Subject: "Status Update - " + q.TrackingCode,
		HTML:    html,
		Plain:   plain,
	})
}
