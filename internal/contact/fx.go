package contact

import (
	"go.uber.org/fx"

	"github.com/waslahq/wasla/internal/contact/repository"
	"github.com/waslahq/wasla/internal/contact/service"
)

var Module = fx.Module("contact",
	fx.Provide(
		repository.New,
		service.New,
	),
)
