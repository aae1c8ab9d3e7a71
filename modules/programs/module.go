package programs

import (
	"embed"

	"github.com/google/uuid"

	geoservices "github.com/iota-uz/atlas/modules/geo/services"
	"github.com/iota-uz/atlas/modules/programs/domain/entities/participant"
	"github.com/iota-uz/atlas/modules/programs/domain/entities/venue"
	"github.com/iota-uz/atlas/modules/programs/infrastructure/persistence"
	"github.com/iota-uz/atlas/modules/programs/presentation/controllers"
	"github.com/iota-uz/atlas/modules/programs/services"
	"github.com/iota-uz/atlas/pkg/application"
	"github.com/iota-uz/atlas/pkg/configuration"
	"github.com/iota-uz/atlas/pkg/ensure"
	"github.com/iota-uz/atlas/pkg/scope"
)

//go:embed presentation/locales/*.json
var LocaleFiles embed.FS

//go:embed infrastructure/persistence/schema/programs-schema.sql
var MigrationFiles embed.FS

// NewModule wires the scoped entity lists. Depends on the geo module
// being registered first.
func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	cfg := configuration.Use()
	app.RegisterSchema(&MigrationFiles)
	app.RegisterLocaleFiles(&LocaleFiles)

	areas := app.Service(geoservices.AreaService{}).(*geoservices.AreaService)
	coordinator := app.Service(scope.Coordinator{}).(*scope.Coordinator)

	venueRepo := persistence.NewVenueRepository()
	participantRepo := persistence.NewParticipantRepository()
	activityRepo := persistence.NewActivityRepository()

	app.RegisterServices(
		services.NewVenueService(venueRepo, areas, coordinator, app.EventPublisher()),
		services.NewParticipantService(participantRepo, areas, coordinator, app.EventPublisher()),
		services.NewActivityService(activityRepo, venueRepo, areas, coordinator, app.EventPublisher()),
		ensure.NewCache(func(v venue.Venue) uuid.UUID { return v.ID() }, cfg.Logger()),
		ensure.NewCache(func(p participant.Participant) uuid.UUID { return p.ID() }, cfg.Logger()),
	)
	app.RegisterControllers(controllers.NewProgramsAPIController(app))
	return nil
}

func (m *Module) Name() string {
	return "programs"
}
