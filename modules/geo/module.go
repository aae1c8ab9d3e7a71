package geo

import (
	"embed"

	"github.com/google/uuid"

	"github.com/iota-uz/atlas/modules/geo/infrastructure/persistence"
	"github.com/iota-uz/atlas/modules/geo/presentation/controllers"
	"github.com/iota-uz/atlas/modules/geo/services"
	"github.com/iota-uz/atlas/pkg/application"
	"github.com/iota-uz/atlas/pkg/configuration"
	"github.com/iota-uz/atlas/pkg/ensure"
	"github.com/iota-uz/atlas/pkg/scope"
)

//go:embed presentation/locales/*.json
var LocaleFiles embed.FS

//go:embed infrastructure/persistence/schema/geo-schema.sql
var MigrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	cfg := configuration.Use()
	app.RegisterSchema(&MigrationFiles)
	app.RegisterLocaleFiles(&LocaleFiles)

	areaService := services.NewAreaService(persistence.NewAreaRepository(), app.EventPublisher())
	ruleService := services.NewRuleService(persistence.NewRuleRepository(), areaService)
	resolver := services.NewAccessResolver()

	coordinator := scope.NewCoordinator(areaService, ruleService, resolver, app.EventPublisher())
	search := scope.NewSearchProvider(areaService, cfg.Logger(), cfg.Scope.SearchDebounce, cfg.Scope.SearchPageSize)
	selections := ensure.NewCache(func(r scope.SearchResult) uuid.UUID { return r.Area.ID() }, cfg.Logger())

	app.RegisterServices(
		areaService,
		ruleService,
		resolver,
		coordinator,
		search,
		selections,
	)
	app.RegisterControllers(controllers.NewGeoAPIController(app))
	return nil
}

func (m *Module) Name() string {
	return "geo"
}
