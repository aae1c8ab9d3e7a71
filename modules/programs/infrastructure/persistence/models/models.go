package models

import (
	"database/sql"
	"time"
)

type Activity struct {
	ID        string
	TenantID  string
	Title     string
	VenueID   sql.NullString
	AreaID    string
	StartsAt  time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Venue struct {
	ID        string
	TenantID  string
	Name      string
	Address   string
	AreaID    string
	CreatedAt time.Time
}

type Participant struct {
	ID        string
	TenantID  string
	FullName  string
	Email     sql.NullString
	AreaID    string
	CreatedAt time.Time
}
