package participant

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
	FullName         string `json:"full_name" validate:"required"`
	Email            string `json:"email" validate:"omitempty,email"`
	GeographicAreaID string `json:"geographic_area_id" validate:"required"`
}

func (d *CreateDTO) Normalize() {
	d.FullName = strings.TrimSpace(d.FullName)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.GeographicAreaID = strings.TrimSpace(d.GeographicAreaID)
}

func (d *CreateDTO) Ok(ctx context.Context) (serrors.ValidationErrors, bool) {
	d.Normalize()

	validationErrors := make(serrors.ValidationErrors)
	if errs := constants.Validate.Struct(d); errs != nil {
		localeKeyFor := func(field string) string {
			return fmt.Sprintf("Programs.Participants.Fields.%s", field)
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
