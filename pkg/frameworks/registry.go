// Package frameworks holds the content framework registry: named, ordered
// component templates used to scaffold structured draft entry bodies.
package frameworks

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"
)

var (
	// ErrFrameworkNotFound is returned when no framework matches the requested id.
	ErrFrameworkNotFound = errors.New("framework not found")

	// ErrInvalidFrameworkFile is returned when a framework definition file
	// fails schema validation.
	ErrInvalidFrameworkFile = errors.New("invalid framework definition file")
)

// Component is one named, labeled section template with a guiding prompt.
type Component struct {
	Name        string `json:"name" validate:"required"`
	Label       string `json:"label" validate:"required"`
	Description string `json:"description"`
	Prompt      string `json:"prompt"`
}

// Framework is an ordered list of components plus the templating hooks the
// synthesizer uses for titles and descriptions.
type Framework struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`

	// TitlePrefix replaces the generic "Work Summary" title prefix
	TitlePrefix string `json:"title_prefix"`

	// DescriptionTemplate is a fmt template with one %s verb for the
	// comma-separated tool list
	DescriptionTemplate string `json:"description_template"`

	Components []Component `json:"components"`
}

// Registry maps framework identifiers to their component lists.
type Registry struct {
	frameworks map[string]Framework
}

// NewRegistry creates a registry preloaded with the built-in frameworks.
func NewRegistry() *Registry {
	registry := &Registry{frameworks: make(map[string]Framework)}

	for _, framework := range builtins {
		registry.frameworks[framework.ID] = framework
	}

	return registry
}

// Register adds or replaces a framework.
func (r *Registry) Register(framework Framework) {
	r.frameworks[framework.ID] = framework
}

// ByID looks up a framework. The boolean reports whether it exists.
func (r *Registry) ByID(id string) (Framework, bool) {
	framework, ok := r.frameworks[id]

	return framework, ok
}

// IDs returns the registered framework identifiers.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.frameworks))
	for id := range r.frameworks {
		ids = append(ids, id)
	}

	return ids
}

// LoadFile registers frameworks from a JSON definition file after validating
// it against the framework schema.
func (r *Registry) LoadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read framework file %s: %w", path, err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(frameworkSchema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return fmt.Errorf("failed to validate framework file %s: %w", path, err)
	}

	if !result.Valid() {
		details := ""
		for _, desc := range result.Errors() {
			details += "; " + desc.String()
		}

		return fmt.Errorf("%w: %s%s", ErrInvalidFrameworkFile, path, details)
	}

	var loaded []Framework
	if err := json.Unmarshal(raw, &loaded); err != nil {
		return fmt.Errorf("failed to parse framework file %s: %w", path, err)
	}

	for _, framework := range loaded {
		r.Register(framework)
	}

	return nil
}

var builtins = []Framework{
	{
		ID:                  "star",
		Name:                "STAR",
		TitlePrefix:         "STAR Reflection",
		DescriptionTemplate: "A STAR-structured reflection on work captured from %s.",
		Components: []Component{
			{Name: "situation", Label: "Situation", Description: "The context you were working in.", Prompt: "What was the background? Who was involved?"},
			{Name: "task", Label: "Task", Description: "What needed to be done.", Prompt: "What goal or responsibility did you own?"},
			{Name: "action", Label: "Action", Description: "The steps you took.", Prompt: "What did you actually do, and why that way?"},
			{Name: "result", Label: "Result", Description: "The outcome of your actions.", Prompt: "What changed? Can you quantify it?"},
		},
	},
	{
		ID:                  "reflective",
		Name:                "Reflective Practice",
		TitlePrefix:         "Reflective Journal",
		DescriptionTemplate: "A reflective-practice entry built from activity in %s.",
		Components: []Component{
			{Name: "what", Label: "What happened", Description: "A factual account of the period.", Prompt: "Describe the events without judgement."},
			{Name: "so_what", Label: "So what", Description: "Why it mattered.", Prompt: "What did you learn? What surprised you?"},
			{Name: "now_what", Label: "Now what", Description: "What you will do next.", Prompt: "What will you change or repeat next time?"},
		},
	},
}
