package worker

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/bricklane/storefront/internal/adapter/mailer"
	"github.com/bricklane/storefront/internal/config"
	"github.com/bricklane/storefront/internal/usecase"
)

// Module wires the notification worker pool into the fx graph.
var Module = fx.Options(
	fx.Provide(newNotifier),
	fx.Provide(func(n *Notifier) usecase.NotificationDispatcher { return n }),
)

type notifierParams struct {
	fx.In

	Mailer mailer.Mailer
	Config *config.Config
	Logger *slog.Logger
}

func newNotifier(p notifierParams) *Notifier {
	return NewNotifier(p.Mailer, p.Config.NotifyWorkers, p.Config.NotifyQueueSize, p.Logger)
}
