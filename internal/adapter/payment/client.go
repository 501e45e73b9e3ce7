package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	domainErrors "github.com/bricklane/storefront/internal/domain/errors"
	"github.com/bricklane/storefront/internal/domain/model"
)

// ErrTransactionUnknown indicates the gateway has no record of the transaction.
var ErrTransactionUnknown = errors.New("transaction unknown")

// Verifier confirms payments against the gateway.
type Verifier interface {
	Verify(ctx context.Context, method model.PaymentMethod, transactionID string) (model.PaymentStatus, error)
}

// GatewayClient implements Verifier via the gateway HTTP API.
type GatewayClient struct {
	http   *resty.Client
	logger *slog.Logger
}

type verifyRequest struct {
	TransactionID string `json:"transaction_id"`
	Method        string `json:"method"`
}

type verifyResponse struct {
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
}

// NewGatewayClient creates a gateway client with a default timeout.
func NewGatewayClient(baseURL string, logger *slog.Logger) (*GatewayClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse gateway url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("gateway url must be absolute")
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetHeader("Accept", "application/json")
	return &GatewayClient{http: client, logger: logger}, nil
}

// Verify asks the gateway for the authoritative status of a transaction.
func (c *GatewayClient) Verify(ctx context.Context, method model.PaymentMethod, transactionID string) (model.PaymentStatus, error) {
	if transactionID == "" {
		return "", fmt.Errorf("transaction id is required: %w", domainErrors.ErrValidation)
	}

	var result verifyResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(verifyRequest{TransactionID: transactionID, Method: string(method)}).
		SetResult(&result).
		Post("/api/payments/verify")
	if err != nil {
		return "", fmt.Errorf("gateway request: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		status := model.PaymentStatus(result.Status)
		if !model.ValidPaymentStatus(status) {
			return "", fmt.Errorf("gateway returned unknown status %q", result.Status)
		}
		return status, nil
	case http.StatusNotFound:
		return "", ErrTransactionUnknown
	default:
		c.logger.Error("gateway verify failed",
			slog.Int("status", resp.StatusCode()),
			slog.String("body", string(resp.Body())))
		return "", fmt.Errorf("gateway error: %s", resp.Status())
	}
}

// NoopVerifier is used when no gateway is configured. Every non-COD payment
// stays pending until reconciled out of band.
type NoopVerifier struct {
	logger *slog.Logger
}

// NewNoopVerifier constructs NoopVerifier.
func NewNoopVerifier(logger *slog.Logger) *NoopVerifier {
	return &NoopVerifier{logger: logger}
}

// Verify always reports a pending payment.
func (v *NoopVerifier) Verify(_ context.Context, method model.PaymentMethod, transactionID string) (model.PaymentStatus, error) {
	v.logger.Debug("payment gateway not configured, keeping payment pending",
		slog.String("method", string(method)),
		slog.String("transaction", transactionID))
	return model.PaymentStatusPending, nil
}
