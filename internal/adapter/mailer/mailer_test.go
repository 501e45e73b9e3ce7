package mailer

import (
	"io"
	"log/slog"
	"net/smtp"
	"strings"
	"testing"

	"github.com/bricklane/storefront/internal/domain/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestMailer(t *testing.T) (*SMTPMailer, *[][]byte) {
	t.Helper()
	m, err := NewSMTPMailer("smtp.example.com:587", "smtp.example.com", "shop@example.com", "secret", testLogger())
	if err != nil {
		t.Fatal(err)
	}
	var sent [][]byte
	m.send = func(_ string, _ smtp.Auth, _ string, _ []string, msg []byte) error {
		sent = append(sent, msg)
		return nil
	}
	return m, &sent
}

func TestSendOrderCreated(t *testing.T) {
	m, sent := newTestMailer(t)

	order := &model.Order{Number: "ORD-20260829-000001", Summary: model.OrderSummary{Total: 286}}
	user := &model.User{Name: "Buyer", Email: "buyer@example.com"}

	if err := m.SendOrderCreated(order, user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(*sent) != 1 {
		t.Fatalf("expected one message, got %d", len(*sent))
	}
	body := string((*sent)[0])
	for _, want := range []string{"ORD-20260829-000001", "286.00", "Subject: Order ORD-20260829-000001 confirmed", "To: buyer@example.com"} {
		if !strings.Contains(body, want) {
			t.Errorf("message missing %q:\n%s", want, body)
		}
	}
}

func TestSendOrderStatusIncludesTracking(t *testing.T) {
	m, sent := newTestMailer(t)

	order := &model.Order{
		Number:   "ORD-20260829-000002",
		Status:   model.OrderStatusShipped,
		Tracking: &model.Tracking{TrackingNumber: "TRK-99", Carrier: "FastShip"},
	}
	user := &model.User{Name: "Buyer", Email: "buyer@example.com"}

	if err := m.SendOrderStatus(order, user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body := string((*sent)[0])
	if !strings.Contains(body, "TRK-99") || !strings.Contains(body, "FastShip") {
		t.Errorf("tracking details missing:\n%s", body)
	}
	if !strings.Contains(body, "shipped") {
		t.Errorf("status missing:\n%s", body)
	}
}

func TestDeliverRejectsEmptyRecipient(t *testing.T) {
	m, _ := newTestMailer(t)

	order := &model.Order{Number: "ORD-1"}
	if err := m.SendOrderCreated(order, &model.User{Name: "NoMail"}); err == nil {
		t.Fatal("expected error for empty recipient")
	}
}

func TestNoopMailer(t *testing.T) {
	m := NewNoopMailer(testLogger())
	order := &model.Order{Number: "ORD-1"}
	if err := m.SendOrderCreated(order, &model.User{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.SendOrderStatus(order, &model.User{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
