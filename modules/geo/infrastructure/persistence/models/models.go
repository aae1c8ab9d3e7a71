package models

import (
	"database/sql"
	"time"
)

type GeographicArea struct {
	ID        string
	TenantID  string
	Name      string
	Kind      string
	ParentID  sql.NullString
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

type AuthorizationRule struct {
	ID               string
	TenantID         string
	UserID           string
	GeographicAreaID string
	RuleType         string
	CreatedAt        time.Time
}
