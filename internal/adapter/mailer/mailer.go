package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"

	"github.com/bricklane/storefront/internal/domain/model"
)

// Mailer delivers customer-facing order emails.
type Mailer interface {
	SendOrderCreated(order *model.Order, user *model.User) error
	SendOrderStatus(order *model.Order, user *model.User) error
}

const orderCreatedTemplate = `<html><body>
<p>Hi {{.Name}},</p>
<p>Thanks for your order <strong>{{.Number}}</strong>.</p>
<p>Total: {{printf "%.2f" .Total}}</p>
<p>We will let you know when it ships.</p>
</body></html>`

const orderStatusTemplate = `<html><body>
<p>Hi {{.Name}},</p>
<p>Your order <strong>{{.Number}}</strong> is now <strong>{{.Status}}</strong>.</p>
{{if .TrackingNumber}}<p>Tracking number: {{.TrackingNumber}} ({{.Carrier}})</p>{{end}}
</body></html>`

type emailData struct {
	Name           string
	Number         string
	Status         string
	Total          float64
	TrackingNumber string
	Carrier        string
}

// SMTPMailer sends emails through a plain-auth SMTP relay.
type SMTPMailer struct {
	addr     string
	host     string
	from     string
	password string
	logger   *slog.Logger

	created *template.Template
	status  *template.Template

	// send is smtp.SendMail unless replaced in tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPMailer constructs SMTPMailer.
func NewSMTPMailer(addr, host, from, password string, logger *slog.Logger) (*SMTPMailer, error) {
	created, err := template.New("order_created").Parse(orderCreatedTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse order created template: %w", err)
	}
	status, err := template.New("order_status").Parse(orderStatusTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse order status template: %w", err)
	}
	return &SMTPMailer{
		addr:     addr,
		host:     host,
		from:     from,
		password: password,
		logger:   logger,
		created:  created,
		status:   status,
		send:     smtp.SendMail,
	}, nil
}

// SendOrderCreated emails the order confirmation.
func (m *SMTPMailer) SendOrderCreated(order *model.Order, user *model.User) error {
	data := emailData{Name: user.Name, Number: order.Number, Total: order.Summary.Total}
	subject := fmt.Sprintf("Order %s confirmed", order.Number)
	return m.deliver(user.Email, subject, m.created, data)
}

// SendOrderStatus emails a status change notice.
func (m *SMTPMailer) SendOrderStatus(order *model.Order, user *model.User) error {
	data := emailData{Name: user.Name, Number: order.Number, Status: string(order.Status)}
	if order.Tracking != nil {
		data.TrackingNumber = order.Tracking.TrackingNumber
		data.Carrier = order.Tracking.Carrier
	}
	subject := fmt.Sprintf("Order %s is %s", order.Number, order.Status)
	return m.deliver(user.Email, subject, m.status, data)
}

func (m *SMTPMailer) deliver(to, subject string, tmpl *template.Template, data emailData) error {
	if to == "" {
		return fmt.Errorf("recipient address is empty")
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("render email: %w", err)
	}

	message := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n%s",
		m.from, to, subject, body.String(),
	)

	auth := smtp.PlainAuth("", m.from, m.password, m.host)
	if err := m.send(m.addr, auth, m.from, []string{to}, []byte(message)); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

// NoopMailer is used when SMTP is not configured.
type NoopMailer struct {
	logger *slog.Logger
}

// NewNoopMailer constructs NoopMailer.
func NewNoopMailer(logger *slog.Logger) *NoopMailer {
	return &NoopMailer{logger: logger}
}

// SendOrderCreated logs and drops the notification.
func (m *NoopMailer) SendOrderCreated(order *model.Order, _ *model.User) error {
	m.logger.Debug("smtp not configured, dropping order created email", slog.String("order", order.Number))
	return nil
}

// SendOrderStatus logs and drops the notification.
func (m *NoopMailer) SendOrderStatus(order *model.Order, _ *model.User) error {
	m.logger.Debug("smtp not configured, dropping order status email", slog.String("order", order.Number))
	return nil
}
