package mailer

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/bricklane/storefront/internal/config"
)

// Module exposes the mailer implementation to the fx graph.
var Module = fx.Provide(newMailer)

type mailerParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newMailer(p mailerParams) (Mailer, error) {
	if p.Config.SMTPAddress == "" {
		return NewNoopMailer(p.Logger), nil
	}
	return NewSMTPMailer(p.Config.SMTPAddress, p.Config.SMTPHost, p.Config.FromEmail, p.Config.FromPassword, p.Logger)
}
