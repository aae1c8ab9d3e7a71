package viewmodels

type Activity struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	VenueID          string `json:"venue_id,omitempty"`
	GeographicAreaID string `json:"geographic_area_id"`
	StartsAt         string `json:"starts_at"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
}

type Venue struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Address          string `json:"address,omitempty"`
	GeographicAreaID string `json:"geographic_area_id"`
	CreatedAt        string `json:"created_at"`
}

type Participant struct {
	ID               string `json:"id"`
	FullName         string `json:"full_name"`
	Email            string `json:"email,omitempty"`
	GeographicAreaID string `json:"geographic_area_id"`
	CreatedAt        string `json:"created_at"`
}

type PaginatedActivities struct {
	Items []Activity `json:"items"`
	Total int64      `json:"total"`
	Page  int        `json:"page"`
	Limit int        `json:"limit"`
}

type PaginatedVenues struct {
	Items []Venue `json:"items"`
	Total int64   `json:"total"`
	Page  int     `json:"page"`
	Limit int     `json:"limit"`
}

type PaginatedParticipants struct {
	Items []Participant `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

// VenueOptions and ParticipantOptions are picker candidate lists; the
// ensured selection leads the list when the filter would hide it.
type VenueOptions struct {
	Items []Venue `json:"items"`
	Empty bool    `json:"empty"`
}

type ParticipantOptions struct {
	Items []Participant `json:"items"`
	Empty bool          `json:"empty"`
}
