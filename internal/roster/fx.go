package roster

import (
	"github.com/sadhanahub/sadhana/internal/roster/repository"
	"github.com/sadhanahub/sadhana/internal/roster/service"
	"go.uber.org/fx"
)

var Module = fx.Module("roster.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
