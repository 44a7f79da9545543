package dashboard

import (
	"github.com/waslahq/wasla/internal/dashboard/repository"
	"github.com/waslahq/wasla/internal/dashboard/service"
	"go.uber.org/fx"
)

var Module = fx.Module("dashboard",
	fx.Provide(
		repository.New,
		service.New,
	),
)
