package di

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"go.uber.org/fx"

	"github.com/bricklane/storefront/internal/adapter/cache"
	"github.com/bricklane/storefront/internal/adapter/mailer"
	"github.com/bricklane/storefront/internal/app"
	"github.com/bricklane/storefront/internal/config"
	"github.com/bricklane/storefront/internal/domain/repository"
	"github.com/bricklane/storefront/internal/storage/postgres"
	"github.com/bricklane/storefront/internal/test"
	"github.com/bricklane/storefront/internal/usecase"
)

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	cfg := &config.Config{
		RunAddress:      ":0",
		DatabaseURI:     "postgres://stub",
		TokenSecret:     "secret",
		ShutdownTimeout: time.Millisecond,
		StatsCacheTTL:   time.Minute,
		NotifyWorkers:   1,
		NotifyQueueSize: 8,
		TopProductsN:    5,
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	userRepo := test.NewUserRepositoryStub()
	productRepo := test.NewProductRepositoryStub()
	orderRepo := &test.OrderRepositoryStub{}
	ticketRepo := &test.TicketRepositoryStub{}

	var facade *app.StorefrontFacade
	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(context.Background()),
		Module(
			fx.Replace(cfg),
			fx.Replace(logger),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(repository.UserRepository(userRepo)),
			fx.Replace(repository.ProductRepository(productRepo)),
			fx.Replace(repository.OrderRepository(orderRepo)),
			fx.Replace(repository.TicketRepository(ticketRepo)),
			fx.Replace(usecase.PaymentVerifier(&test.PaymentVerifierStub{})),
			fx.Replace(mailer.Mailer(mailer.NewNoopMailer(logger))),
			fx.Replace(cache.Cache(cache.NoopCache{})),
		),
		fx.Populate(&facade),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })
	if facade == nil {
		t.Fatal("expected storefront facade instance")
	}
}
