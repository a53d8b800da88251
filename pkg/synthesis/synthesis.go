// Package synthesis turns fetched activity data, extracted signals and an
// optional framework scaffold into draft entry content plus its structured
// metadata payload. It is a pure templating pass; no generative-AI backend
// is involved.
package synthesis

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/daybookhq/daybook/pkg/frameworks"
	"github.com/daybookhq/daybook/pkg/models"
)

// GenericTitlePrefix is used when no framework is configured.
const GenericTitlePrefix = "Work Summary"

const titleDateFormat = "January 2, 2006"

// Input carries everything one synthesis pass needs.
type Input struct {
	// Subscription provides defaults and the focus prompt
	Subscription *models.Subscription

	// Activities maps tool identifiers to their fetched activities, in
	// fetch order
	Activities map[string][]models.Activity

	// Signals is the extracted heuristic summary
	Signals models.ActivitySignals

	// Framework optionally scaffolds the body; nil produces the generic layout
	Framework *frameworks.Framework

	// Groups is the optional grouping breakdown
	Groups []models.ActivityGroup

	// GeneratedAt stamps the title and bounds empty date ranges
	GeneratedAt time.Time
}

// Synthesize produces the draft title, description, body and metadata.
func Synthesize(in Input) models.DraftContent {
	tools := toolOrder(in.Activities)

	return models.DraftContent{
		Title:       title(in),
		Description: description(in, tools),
		Body:        body(in, tools),
		Metadata:    metadata(in, tools),
	}
}

func title(in Input) string {
	prefix := GenericTitlePrefix
	if in.Framework != nil && in.Framework.TitlePrefix != "" {
		prefix = in.Framework.TitlePrefix
	}

	return fmt.Sprintf("%s: %s", prefix, in.GeneratedAt.UTC().Format(titleDateFormat))
}

func description(in Input, tools []string) string {
	toolList := strings.Join(tools, ", ")
	if toolList == "" {
		toolList = "your connected tools"
	}

	if in.Framework != nil && in.Framework.DescriptionTemplate != "" {
		return fmt.Sprintf(in.Framework.DescriptionTemplate, toolList)
	}

	return fmt.Sprintf("Auto-generated summary of recent activity from %s.", toolList)
}

func body(in Input, tools []string) string {
	var b strings.Builder

	if in.Framework != nil {
		for _, component := range in.Framework.Components {
			b.WriteString("## " + component.Label + "\n\n")

			if component.Description != "" {
				b.WriteString("*" + component.Description + "*\n\n")
			}

			if component.Prompt != "" {
				b.WriteString("<!-- " + component.Prompt + " -->\n")
			}

			b.WriteString("- _Add your notes here_\n\n")
		}

		b.WriteString("## Activity Summary\n\n")
	} else {
		b.WriteString("## Daily Work Summary\n\n")
	}

	writeSummary(&b, in, tools)

	if prompt := focusPrompt(in); prompt != "" {
		b.WriteString("\n> **Focus:** " + prompt + "\n")
	}

	return b.String()
}

// writeSummary lists per-group counts when grouping is enabled, always
// followed by the per-tool breakdown.
func writeSummary(b *strings.Builder, in Input, tools []string) {
	if len(in.Groups) > 0 {
		for _, group := range in.Groups {
			fmt.Fprintf(b, "- **%s**: %d %s\n", group.Key, len(group.ActivityIDs), pluralize(len(group.ActivityIDs)))
		}

		b.WriteString("\nPer tool:\n\n")
	}

	for _, tool := range tools {
		count := len(in.Activities[tool])
		fmt.Fprintf(b, "- **%s**: %d %s recorded\n", tool, count, pluralize(count))
	}
}

func metadata(in Input, tools []string) models.EntryMetadata {
	meta := models.EntryMetadata{
		PeriodStart: in.GeneratedAt.UTC(),
		PeriodEnd:   in.GeneratedAt.UTC(),
		ToolCounts:  make(map[string]int, len(tools)),
		Signals:     in.Signals,
		Groups:      in.Groups,
	}

	first := true

	for _, tool := range tools {
		meta.ToolCounts[tool] = len(in.Activities[tool])
		meta.ActivityCount += len(in.Activities[tool])

		for _, activity := range in.Activities[tool] {
			timestamp := activity.Timestamp.UTC()
			if first || timestamp.Before(meta.PeriodStart) {
				meta.PeriodStart = timestamp
			}

			if first || timestamp.After(meta.PeriodEnd) {
				meta.PeriodEnd = timestamp
			}

			first = false

			meta.Evidence = append(meta.Evidence, models.EvidenceRecord{
				ActivityID: activity.ID,
				Tool:       activity.Tool,
				Title:      activity.Title,
				Timestamp:  timestamp,
			})
		}
	}

	if in.Framework != nil {
		for _, component := range in.Framework.Components {
			meta.Framework = append(meta.Framework, models.FrameworkSlot{
				Name:   component.Name,
				Label:  component.Label,
				Prompt: component.Prompt,
			})
		}
	}

	return meta
}

func focusPrompt(in Input) string {
	if in.Subscription == nil {
		return ""
	}

	return in.Subscription.FocusPrompt
}

func toolOrder(activities map[string][]models.Activity) []string {
	tools := make([]string, 0, len(activities))
	for tool := range activities {
		tools = append(tools, tool)
	}

	sort.Strings(tools)

	return tools
}

func pluralize(count int) string {
	if count == 1 {
		return "activity"
	}

	return "activities"
}
