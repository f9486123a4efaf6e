package models

import "time"

// Branch role labels. Every processed idea carries exactly these five
// branches, one per role.
const (
	RoleUserJourney     = "User Journey"
	RoleCoreFunctions   = "Core Functions"
	RoleDataOutput      = "Data & Output"
	RoleInternalEngine  = "Internal Engine"
	RoleAutomationLogic = "Automation & Logic"
)

// BranchRoles lists the five required branch labels in display order.
var BranchRoles = []string{
	RoleUserJourney,
	RoleCoreFunctions,
	RoleDataOutput,
	RoleInternalEngine,
	RoleAutomationLogic,
}

// Branch is one themed slice of the idea map: a role label plus 3-5
// short descriptive strings.
type Branch struct {
	Label    string   `json:"label"`
	Children []string `json:"children"`
}

// Root is the labeled tree at the center of an idea map. Label holds
// the generated product name.
type Root struct {
	Label    string   `json:"label"`
	Branches []Branch `json:"branches"`
}

// Insight is the model's free-text read on the idea.
type Insight struct {
	Summary   string   `json:"summary"`
	Themes    []string `json:"themes"`
	NextSteps []string `json:"nextSteps"`
}

// Idea is the stored record produced by the Process flow. It is
// immutable once written to the registry.
type Idea struct {
	ID            string    `json:"id"`
	OriginalText  string    `json:"originalText"`
	MemoryContext string    `json:"memoryContext,omitempty"`
	GeneratedAt   time.Time `json:"generatedAt"`
	Root          Root      `json:"root"`
	Insight       Insight   `json:"insight"`
}

// Branch returns the children of the branch with the given role label,
// or nil if the idea has no such branch.
func (i *Idea) Branch(label string) []string {
	for _, b := range i.Root.Branches {
		if b.Label == label {
			return b.Children
		}
	}
	return nil
}

// IdeaSummary is the listing projection of an Idea.
type IdeaSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Summary     string    `json:"summary"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// Summarize projects an Idea into its listing form.
func (i *Idea) Summarize() IdeaSummary {
	return IdeaSummary{
		ID:          i.ID,
		Name:        i.Root.Label,
		Summary:     i.Insight.Summary,
		GeneratedAt: i.GeneratedAt,
	}
}
