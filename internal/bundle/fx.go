package bundle

import (
	"github.com/waslahq/wasla/internal/bundle/repository"
	"github.com/waslahq/wasla/internal/bundle/service"
	"go.uber.org/fx"
)

var Module = fx.Module("bundle",
	fx.Provide(
		repository.New,
		service.New,
	),
)
