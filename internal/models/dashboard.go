package models

// Widget is one metric card on the dashboard.
type Widget struct {
	Key   string      `json:"key"`
	Label string      `json:"label"`
	Value interface{} `json:"value"`
	Route Route       `json:"route,omitempty"`
}

// QuickAction is a shortcut offered to the principal.
type QuickAction struct {
	Label  string `json:"label"`
	Route  Route  `json:"route"`
	Action Action `json:"action,omitempty"`
}

// Dashboard is the role-specific overview.
type Dashboard struct {
	Title        string        `json:"title"`
	Role         Role          `json:"role"`
	Widgets      []Widget      `json:"widgets"`
	QuickActions []QuickAction `json:"quick_actions"`
}
