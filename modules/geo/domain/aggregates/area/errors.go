package area

import "github.com/iota-uz/atlas/pkg/serrors"

var (
	ErrNotFound = serrors.NewError("GEO_AREA_NOT_FOUND", "geographic area not found", "Geo.Errors.AreaNotFound")

	// ErrCycleRejected is raised by the local guard before a re-parent
	// is submitted, and again when the store's authoritative check
	// rejects a write that raced past the guard.
	ErrCycleRejected = serrors.NewError("GEO_CYCLE_REJECTED", "parent change would create a cycle", "Geo.Errors.CycleRejected")

	ErrVersionConflict = serrors.NewError("GEO_VERSION_CONFLICT", "area was modified concurrently", "Geo.Errors.VersionConflict")
)
