package venue

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/iota-uz/atlas/pkg/constants"
	"github.com/iota-uz/atlas/pkg/serrors"
)

type CreateDTO struct {
	Name             string `json:"name" validate:"required"`
	Address          string `json:"address"`
	GeographicAreaID string `json:"geographic_area_id" validate:"required"`
}

func (d *CreateDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Address = strings.TrimSpace(d.Address)
	d.GeographicAreaID = strings.TrimSpace(d.GeographicAreaID)
}

func (d *CreateDTO) Ok(ctx context.Context) (serrors.ValidationErrors, bool) {
	d.Normalize()

	validationErrors := make(serrors.ValidationErrors)
	if errs := constants.Validate.Struct(d); errs != nil {
		localeKeyFor := func(field string) string {
			return fmt.Sprintf("Programs.Venues.Fields.%s", field)
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
	return validationErrors, len(validationErrors) == 0
}

func (d *CreateDTO) AreaID() uuid.UUID {
	id, err := uuid.Parse(d.GeographicAreaID)
	if err != nil {
		return uuid.Nil
	}
	return id
}
