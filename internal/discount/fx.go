package discount

import (
	"github.com/waslahq/wasla/internal/discount/repository"
	"github.com/waslahq/wasla/internal/discount/service"
	"go.uber.org/fx"
)

var Module = fx.Module("discount",
	fx.Provide(
		repository.New,
		service.New,
	),
)
