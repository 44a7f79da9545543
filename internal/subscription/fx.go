package subscription

import (
	"github.com/waslahq/wasla/internal/subscription/activation"
	"github.com/waslahq/wasla/internal/subscription/repository"
	"github.com/waslahq/wasla/internal/subscription/service"
	"go.uber.org/fx"
)

var Module = fx.Module("subscription",
	fx.Provide(
		repository.New,
		service.New,
		activation.New,
	),
)
