package arearule

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
	GeographicAreaID string `json:"geographic_area_id" validate:"required"`
	RuleType         string `json:"rule_type" validate:"required"`
}

func (d *CreateDTO) Normalize() {
	d.GeographicAreaID = strings.TrimSpace(d.GeographicAreaID)
	d.RuleType = strings.ToUpper(strings.TrimSpace(d.RuleType))
}

func (d *CreateDTO) Ok(ctx context.Context) (serrors.ValidationErrors, bool) {
	d.Normalize()

	validationErrors := make(serrors.ValidationErrors)
	if errs := constants.Validate.Struct(d); errs != nil {
		localeKeyFor := func(field string) string {
			return fmt.Sprintf("Geo.Rules.Fields.%s", field)
		}
		for field, err := range serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors), localeKeyFor) {
			validationErrors[field] = err
		}
	}
	if d.RuleType != "" && !Type(d.RuleType).Valid() {
		validationErrors["RuleType"] = serrors.NewError("GEO_INVALID_RULE_TYPE", fmt.Sprintf("rule type must be ALLOW or DENY, got %q", d.RuleType), "Geo.Errors.InvalidRuleType")
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
