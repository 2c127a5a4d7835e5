package ledger

import (
	"github.com/sadhanahub/sadhana/internal/ledger/repository"
	"github.com/sadhanahub/sadhana/internal/ledger/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ledger.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
