package activity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/iota-uz/atlas/pkg/constants"
	"github.com/iota-uz/atlas/pkg/serrors"
)

type CreateDTO struct {
	Title            string `json:"title" validate:"required"`
	VenueID          string `json:"venue_id"`
	GeographicAreaID string `json:"geographic_area_id" validate:"required"`
	StartsAt         string `json:"starts_at" validate:"required"`
}

func (d *CreateDTO) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.VenueID = strings.TrimSpace(d.VenueID)
	d.GeographicAreaID = strings.TrimSpace(d.GeographicAreaID)
	d.StartsAt = strings.TrimSpace(d.StartsAt)
}

func (d *CreateDTO) Ok(ctx context.Context) (serrors.ValidationErrors, bool) {
	d.Normalize()

	validationErrors := make(serrors.ValidationErrors)
	if errs := constants.Validate.Struct(d); errs != nil {
		localeKeyFor := func(field string) string {
			return fmt.Sprintf("Programs.Activities.Fields.%s", field)
		}
		for field, err := range serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors), localeKeyFor) {
			validationErrors[field] = err
		}
	}
	if d.GeographicAreaID != "" {
		if _, err := uuid.Parse(d.GeographicAreaID); err != nil {
			validationErrors["GeographicAreaID"] = serrors.NewError("GEO_INVALID_AREA_ID", "geographic area id is not a valid uuid", "Geo.Errors.InvalidAreaID")
		}
	}
	if d.VenueID != "" {
		if _, err := uuid.Parse(d.VenueID); err != nil {
			validationErrors["VenueID"] = serrors.NewError("PROGRAMS_INVALID_VENUE_ID", "venue id is not a valid uuid", "Programs.Errors.InvalidVenueID")
		}
	}
	if d.StartsAt != "" {
		if _, err := time.Parse(time.RFC3339, d.StartsAt); err != nil {
			validationErrors["StartsAt"] = serrors.NewError("PROGRAMS_INVALID_STARTS_AT", "starts_at must be an RFC 3339 timestamp", "Programs.Errors.InvalidStartsAt")
		}
	}
	return validationErrors, len(validationErrors) == 0
}

func (d *CreateDTO) AreaID() uuid.UUID {
	id, err := uuid.Parse(d.GeographicAreaID)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func (d *CreateDTO) Venue() uuid.UUID {
	if d.VenueID == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(d.VenueID)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func (d *CreateDTO) Start() time.Time {
	t, err := time.Parse(time.RFC3339, d.StartsAt)
	if err != nil {
		return time.Time{}
	}
	return t
}
