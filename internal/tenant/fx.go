package tenant

import (
	"github.com/sadhanahub/sadhana/internal/tenant/repository"
	"github.com/sadhanahub/sadhana/internal/tenant/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tenant.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
