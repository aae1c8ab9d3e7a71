package modules

import (
	"github.com/iota-uz/atlas/modules/geo"
	"github.com/iota-uz/atlas/modules/programs"
	"github.com/iota-uz/atlas/pkg/application"
)

// BuiltInModules lists the modules the server boots with. Order matters:
// programs resolves geo services from the registry at registration time.
var BuiltInModules = []application.Module{
	geo.NewModule(),
	programs.NewModule(),
}

func Load(app application.Application, modules ...application.Module) error {
	for _, module := range modules {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
