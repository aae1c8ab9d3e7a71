package area

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
	Name     string `json:"name" validate:"required"`
	Kind     string `json:"kind" validate:"required"`
	ParentID string `json:"parent_id"`
}

type UpdateDTO struct {
	Name     string `json:"name" validate:"required"`
	ParentID string `json:"parent_id"`
	Version  int64  `json:"version" validate:"required"`
}

func (d *CreateDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Kind = strings.ToLower(strings.TrimSpace(d.Kind))
	d.ParentID = strings.TrimSpace(d.ParentID)
}

func (d *UpdateDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.ParentID = strings.TrimSpace(d.ParentID)
}

func geoFieldLocaleKey(field string) string {
	switch field {
	case "Name", "Kind", "ParentID", "Version":
		return fmt.Sprintf("Geo.Fields.%s", field)
	default:
		return ""
	}
}

func (d *CreateDTO) Ok(ctx context.Context) (serrors.ValidationErrors, bool) {
	d.Normalize()

	validationErrors := make(serrors.ValidationErrors)
	if errs := constants.Validate.Struct(d); errs != nil {
		for field, err := range serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors), geoFieldLocaleKey) {
			validationErrors[field] = err
		}
	}
	if d.Kind != "" && !Kind(d.Kind).Valid() {
		validationErrors["Kind"] = serrors.NewError("GEO_INVALID_KIND", fmt.Sprintf("unknown area kind %q", d.Kind), "Geo.Errors.InvalidKind")
	}
	if _, err := d.Parent(); err != nil {
		validationErrors["ParentID"] = serrors.NewError("GEO_INVALID_PARENT", "parent id is not a valid uuid", "Geo.Errors.InvalidParent")
	}
	return validationErrors, len(validationErrors) == 0
}

func (d *UpdateDTO) Ok(ctx context.Context) (serrors.ValidationErrors, bool) {
	d.Normalize()

	validationErrors := make(serrors.ValidationErrors)
	if errs := constants.Validate.Struct(d); errs != nil {
		for field, err := range serrors.ProcessValidatorErrors(errs.(validator.ValidationErrors), geoFieldLocaleKey) {
			validationErrors[field] = err
		}
	}
	if _, err := d.Parent(); err != nil {
		validationErrors["ParentID"] = serrors.NewError("GEO_INVALID_PARENT", "parent id is not a valid uuid", "Geo.Errors.InvalidParent")
	}
	return validationErrors, len(validationErrors) == 0
}

// Parent parses the optional parent id; empty means root.
func (d *CreateDTO) Parent() (uuid.UUID, error) {
	return parseOptionalID(d.ParentID)
}

func (d *UpdateDTO) Parent() (uuid.UUID, error) {
	return parseOptionalID(d.ParentID)
}

func parseOptionalID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(raw)
}
