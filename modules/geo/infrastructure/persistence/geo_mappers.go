package persistence

import (
	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/iota-uz/atlas/modules/geo/domain/aggregates/area"
	"github.com/iota-uz/atlas/modules/geo/domain/entities/arearule"
	"github.com/iota-uz/atlas/modules/geo/infrastructure/persistence/models"
)

func toDomainArea(m *models.GeographicArea) (area.Area, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return area.Area{}, errors.Wrap(err, "invalid area id")
	}
	tenantID, err := uuid.Parse(m.TenantID)
	if err != nil {
		return area.Area{}, errors.Wrap(err, "invalid tenant id")
	}
	parentID := uuid.Nil
	if m.ParentID.Valid {
		parentID, err = uuid.Parse(m.ParentID.String)
		if err != nil {
			return area.Area{}, errors.Wrap(err, "invalid parent id")
		}
	}
	return area.Hydrate(
		tenantID,
		id,
		m.Name,
		area.Kind(m.Kind),
		parentID,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainRule(m *models.AuthorizationRule) (arearule.Rule, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return arearule.Rule{}, errors.Wrap(err, "invalid rule id")
	}
	tenantID, err := uuid.Parse(m.TenantID)
	if err != nil {
		return arearule.Rule{}, errors.Wrap(err, "invalid tenant id")
	}
	userID, err := uuid.Parse(m.UserID)
	if err != nil {
		return arearule.Rule{}, errors.Wrap(err, "invalid user id")
	}
	areaID, err := uuid.Parse(m.GeographicAreaID)
	if err != nil {
		return arearule.Rule{}, errors.Wrap(err, "invalid area id")
	}
	return arearule.Hydrate(tenantID, id, userID, areaID, arearule.Type(m.RuleType), m.CreatedAt), nil
}

func nullableID(id uuid.UUID) interface{} {
	if id == uuid.Nil {
		return nil
	}
	return id.String()
}
