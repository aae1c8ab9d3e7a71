package persistence

import (
	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/iota-uz/atlas/modules/programs/domain/aggregates/activity"
	"github.com/iota-uz/atlas/modules/programs/domain/entities/participant"
	"github.com/iota-uz/atlas/modules/programs/domain/entities/venue"
	"github.com/iota-uz/atlas/modules/programs/infrastructure/persistence/models"
)

func toDomainActivity(m *models.Activity) (activity.Activity, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return activity.Activity{}, errors.Wrap(err, "invalid activity id")
	}
	tenantID, err := uuid.Parse(m.TenantID)
	if err != nil {
		return activity.Activity{}, errors.Wrap(err, "invalid tenant id")
	}
	areaID, err := uuid.Parse(m.AreaID)
	if err != nil {
		return activity.Activity{}, errors.Wrap(err, "invalid area id")
	}
	venueID := uuid.Nil
	if m.VenueID.Valid {
		venueID, err = uuid.Parse(m.VenueID.String)
		if err != nil {
			return activity.Activity{}, errors.Wrap(err, "invalid venue id")
		}
	}
	return activity.Hydrate(tenantID, id, m.Title, venueID, areaID, m.StartsAt, m.CreatedAt, m.UpdatedAt), nil
}

func toDomainVenue(m *models.Venue) (venue.Venue, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return venue.Venue{}, errors.Wrap(err, "invalid venue id")
	}
	tenantID, err := uuid.Parse(m.TenantID)
	if err != nil {
		return venue.Venue{}, errors.Wrap(err, "invalid tenant id")
	}
	areaID, err := uuid.Parse(m.AreaID)
	if err != nil {
		return venue.Venue{}, errors.Wrap(err, "invalid area id")
	}
	return venue.Hydrate(tenantID, id, m.Name, m.Address, areaID, m.CreatedAt), nil
}

func toDomainParticipant(m *models.Participant) (participant.Participant, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return participant.Participant{}, errors.Wrap(err, "invalid participant id")
	}
	tenantID, err := uuid.Parse(m.TenantID)
	if err != nil {
		return participant.Participant{}, errors.Wrap(err, "invalid tenant id")
	}
	areaID, err := uuid.Parse(m.AreaID)
	if err != nil {
		return participant.Participant{}, errors.Wrap(err, "invalid area id")
	}
	email := ""
	if m.Email.Valid {
		email = m.Email.String
	}
	return participant.Hydrate(tenantID, id, m.FullName, email, areaID, m.CreatedAt), nil
}

func nullableID(id uuid.UUID) interface{} {
	if id == uuid.Nil {
		return nil
	}
	return id.String()
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
