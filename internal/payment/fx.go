package payment

import (
	"github.com/waslahq/wasla/internal/config"
	"github.com/waslahq/wasla/internal/payment/adapters/stripe"
	"github.com/waslahq/wasla/internal/payment/domain"
	"github.com/waslahq/wasla/internal/payment/repository"
	"github.com/waslahq/wasla/internal/payment/service"
	"go.uber.org/fx"
)

func provideAdapter(cfg config.Config) domain.WebhookAdapter {
	return stripe.NewAdapter(cfg.StripeWebhookSecret)
}

func provideIntentClient(cfg config.Config) domain.IntentClient {
	return stripe.NewClient(cfg.StripeSecretKey)
}

var Module = fx.Module("payment",
	fx.Provide(
		repository.New,
		provideAdapter,
		provideIntentClient,
		service.New,
	),
)
