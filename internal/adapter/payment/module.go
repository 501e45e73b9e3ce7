package payment

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/bricklane/storefront/internal/config"
	"github.com/bricklane/storefront/internal/usecase"
)

// Module exposes the payment verifier implementation to the fx graph.
var Module = fx.Provide(newVerifier)

type verifierParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newVerifier(p verifierParams) (usecase.PaymentVerifier, error) {
	if p.Config.PaymentGatewayAddress == "" {
		return NewNoopVerifier(p.Logger), nil
	}
	return NewGatewayClient(p.Config.PaymentGatewayAddress, p.Logger)
}
