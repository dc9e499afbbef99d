package service

import (
	"context"
	"fmt"

	"locadora-erp-backend/internal/domain"
	"locadora-erp-backend/internal/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

// NewEmailService returns a SendGrid backed sender. With an empty API key
// notices are logged and dropped.
func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) SendInvoiceNotice(ctx context.Context, client *domain.Client, payment *domain.Payment) error {
	if client == nil || client.Email == "" {
		return nil
	}
	if s.apiKey == "" {
		logger.InfoContext(ctx, "Email disabled, skipping invoice notice", "payment_id", payment.ID)
		return nil
	}

	message := s.invoiceMessage(client, payment)
	logger.ExternalServiceCall("sendgrid", "Send", "payment_id", payment.ID)
	response, err := sendgrid.NewSendClient(s.apiKey).Send(message)
	if err != nil {
		err = fmt.Errorf("failed to send invoice notice: %w", err)
		logger.ExternalServiceResult("sendgrid", "Send", err)
		return err
	}
	if response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
		logger.ExternalServiceResult("sendgrid", "Send", err)
		return err
	}

	logger.ExternalServiceResult("sendgrid", "Send", nil, "status", response.StatusCode)
	return nil
}

func (s *emailService) invoiceMessage(client *domain.Client, payment *domain.Payment) *mail.SGMailV3 {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(client.Name, client.Email)

	due := "on receipt"
	if payment.DueDate != nil {
		due = payment.DueDate.Format("02/01/2006")
	}
	subject := fmt.Sprintf("Invoice for order %s", payment.OrderID)
	plainText := fmt.Sprintf("Hello %s,\n\nAn invoice of R$ %s was issued for your order %s. Due: %s.\n\nThank you.",
		client.Name, payment.Amount.StringFixed(2), payment.OrderID, due)
	htmlContent := fmt.Sprintf(`<html><body>
<p>Hello %s,</p>
<p>An invoice of <strong>R$ %s</strong> was issued for your order %s.</p>
<p>Due: %s</p>
</body></html>`, client.Name, payment.Amount.StringFixed(2), payment.OrderID, due)

	return mail.NewSingleEmail(from, subject, to, plainText, htmlContent)
}
