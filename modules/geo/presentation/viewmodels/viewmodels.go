package viewmodels

type Area struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	ParentID  string `json:"parent_id,omitempty"`
	Version   int64  `json:"version"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// AreaWithPath carries the ancestry path (closest parent first) next to
// the node for selector rendering.
type AreaWithPath struct {
	Area      Area   `json:"area"`
	Ancestors []Area `json:"ancestors"`
}

type AuthorizationRule struct {
	ID               string `json:"id"`
	UserID           string `json:"user_id"`
	GeographicAreaID string `json:"geographic_area_id"`
	RuleType         string `json:"rule_type"`
	CreatedAt        string `json:"created_at"`
}

type ScopeState struct {
	Global       bool  `json:"global"`
	SelectedArea *Area `json:"selected_area,omitempty"`
}

type BreadcrumbItem struct {
	AreaID     string `json:"area_id"`
	Label      string `json:"label"`
	Authorized bool   `json:"authorized"`
}

type PaginatedAreas struct {
	Items []Area `json:"items"`
	Total int64  `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

// AreaOptions is the selector option list: server matches for the
// current search text, with the ensured selection prepended when the
// filter would otherwise hide it.
type AreaOptions struct {
	Items []AreaWithPath `json:"items"`
	Empty bool           `json:"empty"`
}
