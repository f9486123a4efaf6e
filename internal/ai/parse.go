package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"ideaforge/internal/apperr"
	"ideaforge/internal/models"
)

// IdeaMap is the decoded idea-map artifact.
type IdeaMap struct {
	Root    models.Root    `json:"root"`
	Insight models.Insight `json:"insight"`
}

// decode runs the two parsing stages shared by every artifact kind.
// Stage one decodes the sanitized text as arbitrary JSON; failure there
// means the model produced non-JSON and is reported as a parse error
// carrying the original raw text. Stage two decodes into the typed
// target; failure there means the JSON is structurally wrong for this
// kind and is reported as a shape error carrying the decoded value.
func decode(sanitized, raw string, target any) (any, error) {
	var generic any
	if err := json.Unmarshal([]byte(sanitized), &generic); err != nil {
		return nil, apperr.NewAiParse("model output is not valid JSON", raw, err)
	}
	if err := json.Unmarshal([]byte(sanitized), target); err != nil {
		return nil, apperr.NewResponseValidation(
			fmt.Sprintf("model output does not match expected structure: %v", err), generic)
	}
	return generic, nil
}

// ParseIdeaMap parses and shape-checks an idea-map response.
// raw is the unsanitized model output, kept for diagnostics.
func ParseIdeaMap(sanitized, raw string) (*IdeaMap, error) {
	var m IdeaMap
	generic, err := decode(sanitized, raw, &m)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(m.Root.Label) == "" {
		return nil, apperr.NewResponseValidation("idea map is missing root.label", generic)
	}
	if len(m.Root.Branches) != 5 {
		return nil, apperr.NewResponseValidation(
			fmt.Sprintf("idea map must have exactly 5 branches, got %d", len(m.Root.Branches)), generic)
	}

	seen := make(map[string]bool, 5)
	for _, b := range m.Root.Branches {
		if !isBranchRole(b.Label) {
			return nil, apperr.NewResponseValidation(
				fmt.Sprintf("unknown branch label %q", b.Label), generic)
		}
		if seen[b.Label] {
			return nil, apperr.NewResponseValidation(
				fmt.Sprintf("duplicate branch label %q", b.Label), generic)
		}
		seen[b.Label] = true

		if len(b.Children) < 3 || len(b.Children) > 5 {
			return nil, apperr.NewResponseValidation(
				fmt.Sprintf("branch %q must have 3-5 children, got %d", b.Label, len(b.Children)), generic)
		}
		for _, c := range b.Children {
			if strings.TrimSpace(c) == "" {
				return nil, apperr.NewResponseValidation(
					fmt.Sprintf("branch %q contains an empty child", b.Label), generic)
			}
		}
	}

	if strings.TrimSpace(m.Insight.Summary) == "" {
		return nil, apperr.NewResponseValidation("insight.summary is empty", generic)
	}
	if len(m.Insight.Themes) == 0 {
		return nil, apperr.NewResponseValidation("insight.themes is empty", generic)
	}
	if len(m.Insight.NextSteps) == 0 {
		return nil, apperr.NewResponseValidation("insight.nextSteps is empty", generic)
	}

	return &m, nil
}

func isBranchRole(label string) bool {
	for _, role := range models.BranchRoles {
		if label == role {
			return true
		}
	}
	return false
}

// ParseTechStack parses and shape-checks a tech-stack response.
func ParseTechStack(sanitized, raw string) ([]models.TechStackItem, error) {
	var items []models.TechStackItem
	generic, err := decode(sanitized, raw, &items)
	if err != nil {
		return nil, err
	}

	if len(items) < 5 || len(items) > 7 {
		return nil, apperr.NewResponseValidation(
			fmt.Sprintf("tech stack must have 5-7 items, got %d", len(items)), generic)
	}
	for i, item := range items {
		if strings.TrimSpace(item.Name) == "" ||
			strings.TrimSpace(item.Category) == "" ||
			strings.TrimSpace(item.Reason) == "" {
			return nil, apperr.NewResponseValidation(
				fmt.Sprintf("tech stack item %d is missing name, category or reason", i), generic)
		}
	}

	return items, nil
}

// ParseMvpPlan parses and shape-checks an MVP-plan response. The three
// buckets must be present as arrays; empty arrays are accepted.
func ParseMvpPlan(sanitized, raw string) (*models.MvpPlan, error) {
	var plan models.MvpPlan
	generic, err := decode(sanitized, raw, &plan)
	if err != nil {
		return nil, err
	}

	// A typed decode cannot distinguish a missing bucket from an empty
	// one, so presence is checked on the generic value.
	obj, ok := generic.(map[string]any)
	if !ok {
		return nil, apperr.NewResponseValidation("mvp plan must be a JSON object", generic)
	}
	for _, key := range []string{"todo", "inProgress", "done"} {
		v, present := obj[key]
		if !present {
			return nil, apperr.NewResponseValidation(
				fmt.Sprintf("mvp plan is missing %q", key), generic)
		}
		if _, isArray := v.([]any); !isArray {
			return nil, apperr.NewResponseValidation(
				fmt.Sprintf("mvp plan field %q must be an array", key), generic)
		}
	}

	// Buckets may legitimately be empty; normalize nil away so callers
	// always serialize [] rather than null.
	if plan.Todo == nil {
		plan.Todo = []string{}
	}
	if plan.InProgress == nil {
		plan.InProgress = []string{}
	}
	if plan.Done == nil {
		plan.Done = []string{}
	}

	return &plan, nil
}

// ParseDevPrompt parses and shape-checks a dev-prompt response.
func ParseDevPrompt(sanitized, raw string) (*models.DevPrompt, error) {
	var dp models.DevPrompt
	generic, err := decode(sanitized, raw, &dp)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(dp.Prompt) == "" {
		return nil, apperr.NewResponseValidation("dev prompt response is missing \"prompt\"", generic)
	}

	return &dp, nil
}
