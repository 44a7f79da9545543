package auth

import (
	"github.com/waslahq/wasla/internal/auth/repository"
	"github.com/waslahq/wasla/internal/auth/service"
	"github.com/waslahq/wasla/internal/auth/session"
	"go.uber.org/fx"
)

var Module = fx.Module("auth",
	fx.Provide(
		repository.New,
		service.New,
		session.NewManager,
	),
)
