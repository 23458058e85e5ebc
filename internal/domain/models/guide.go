// internal/domain/models/guide.go
package models

// Guide categories. Core and onboarding guides always belong to the core path.
const (
	CategoryCore       = "core"
	CategoryOnboarding = "onboarding"
	CategoryRoles      = "roles"
	CategoryAgents     = "agents"
	CategoryWorkflows  = "workflows"
	CategoryPractical  = "practical"
	CategoryFAQ        = "faq"
	CategoryResources  = "resources"
)

// Guide difficulties.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
	DifficultyExpert       = "expert"
)

// Guide is one entry of the static guide catalog. Guides are read-only and
// keyed by ID; they are never stored in the database.
type Guide struct {
	ID               string   `yaml:"id" json:"id"`
	Title            string   `yaml:"title" json:"title"`
	Description      string   `yaml:"description" json:"description"`
	Category         string   `yaml:"category" json:"category"`
	Difficulty       string   `yaml:"difficulty" json:"difficulty"`
	EstimatedMinutes int      `yaml:"estimated_minutes" json:"estimated_minutes"`
	Icon             string   `yaml:"icon" json:"icon"`
	Tags             []string `yaml:"tags" json:"tags"`
	ContentPath      string   `yaml:"content_path" json:"content_path"`
}
