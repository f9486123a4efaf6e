package models

// TechStackItem is one technology recommendation. Category follows a
// recommended but non-exhaustive set (Frontend, Backend, Database,
// Auth, Deployment, AI-ML, Styling, ...). Reason is short by
// convention, not mechanically enforced.
type TechStackItem struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Reason   string `json:"reason"`
}

// MvpPlan is a three-bucket task breakdown. The buckets may be empty;
// the generation prompt only requests approximate sizes.
type MvpPlan struct {
	Todo       []string `json:"todo"`
	InProgress []string `json:"inProgress"`
	Done       []string `json:"done"`
}

// DevPrompt is a single long-form prompt intended for a separate
// code-generation tool.
type DevPrompt struct {
	Prompt string `json:"prompt"`
}
