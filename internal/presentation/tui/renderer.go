package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/errand/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)
	if err != nil {
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// PlanMarkdown formats a compiled plan as a markdown document.
// The subgoal at cursor is marked as current; a negative cursor marks none.
func PlanMarkdown(task domain.TaskSpec, plan domain.Plan, cursor int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", task.Type)
	fmt.Fprintf(&sb, "- **object**: `%s`\n", task.ObjectTarget)
	if task.ParentTarget != "" {
		fmt.Fprintf(&sb, "- **parent**: `%s`\n", task.ParentTarget)
	}
	if task.ToggleTarget != "" {
		fmt.Fprintf(&sb, "- **toggle**: `%s`\n", task.ToggleTarget)
	}
	sb.WriteString("\n## Plan\n\n")
	for i, sg := range plan {
		marker := ""
		if i == cursor {
			marker = " **<- current**"
		}
		fmt.Fprintf(&sb, "%d. `%s`%s\n", i+1, sg, marker)
	}
	return sb.String()
}
