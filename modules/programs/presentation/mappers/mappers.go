package mappers

import (
	"time"

	"github.com/google/uuid"

	"github.com/iota-uz/atlas/modules/programs/domain/aggregates/activity"
	"github.com/iota-uz/atlas/modules/programs/domain/entities/participant"
	"github.com/iota-uz/atlas/modules/programs/domain/entities/venue"
	"github.com/iota-uz/atlas/modules/programs/presentation/viewmodels"
)

func ActivityToViewModel(a activity.Activity) viewmodels.Activity {
	venueID := ""
	if a.VenueID() != uuid.Nil {
		venueID = a.VenueID().String()
	}
	return viewmodels.Activity{
		ID:               a.ID().String(),
		Title:            a.Title(),
		VenueID:          venueID,
		GeographicAreaID: a.AreaID().String(),
		StartsAt:         a.StartsAt().UTC().Format(time.RFC3339),
		CreatedAt:        a.CreatedAt().UTC().Format(time.RFC3339),
		UpdatedAt:        a.UpdatedAt().UTC().Format(time.RFC3339),
	}
}

func ActivitiesToViewModels(activities []activity.Activity) []viewmodels.Activity {
	out := make([]viewmodels.Activity, 0, len(activities))
	for _, a := range activities {
		out = append(out, ActivityToViewModel(a))
	}
	return out
}

func VenueToViewModel(v venue.Venue) viewmodels.Venue {
	return viewmodels.Venue{
		ID:               v.ID().String(),
		Name:             v.Name(),
		Address:          v.Address(),
		GeographicAreaID: v.AreaID().String(),
		CreatedAt:        v.CreatedAt().UTC().Format(time.RFC3339),
	}
}

func VenuesToViewModels(venues []venue.Venue) []viewmodels.Venue {
	out := make([]viewmodels.Venue, 0, len(venues))
	for _, v := range venues {
		out = append(out, VenueToViewModel(v))
	}
	return out
}

func ParticipantToViewModel(p participant.Participant) viewmodels.Participant {
	return viewmodels.Participant{
		ID:               p.ID().String(),
		FullName:         p.FullName(),
		Email:            p.Email(),
		GeographicAreaID: p.AreaID().String(),
		CreatedAt:        p.CreatedAt().UTC().Format(time.RFC3339),
	}
}

func ParticipantsToViewModels(participants []participant.Participant) []viewmodels.Participant {
	out := make([]viewmodels.Participant, 0, len(participants))
	for _, p := range participants {
		out = append(out, ParticipantToViewModel(p))
	}
	return out
}
