package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/errand/internal/presentation/graph"
	"github.com/aretw0/errand/internal/presentation/tui"
	"github.com/aretw0/errand/pkg/ports"
)

// Inspect formats.
const (
	FormatJSON  = "json"
	FormatPlan  = "plan"
	FormatGraph = "graph"
)

// ListEpisodes prints the stored episode IDs with their status.
func ListEpisodes(ctx context.Context, store ports.StateStore, w io.Writer) error {
	ids, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("error listing episodes: %w", err)
	}
	if len(ids) == 0 {
		fmt.Fprintln(w, "No episodes found.")
		return nil
	}

	fmt.Fprintln(w, "Episodes:")
	for _, id := range ids {
		state, err := store.Load(ctx, id)
		if err != nil {
			fmt.Fprintf(w, "- %s (unreadable: %v)\n", id, err)
			continue
		}
		fmt.Fprintf(w, "- %s [%s] %s, %d steps\n", id, tui.StatusColor(string(state.Status)), state.Task.Type, len(state.History))
	}
	return nil
}

// InspectEpisode prints one episode as JSON, as a rendered plan, or as a Mermaid graph.
func InspectEpisode(ctx context.Context, store ports.StateStore, id, format string, w io.Writer) error {
	state, err := store.Load(ctx, id)
	if err != nil {
		return fmt.Errorf("error loading episode '%s': %w", id, err)
	}

	switch strings.ToLower(format) {
	case "", FormatJSON:
		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling state: %w", err)
		}
		fmt.Fprintln(w, string(data))
	case FormatGraph:
		fmt.Fprint(w, graph.GenerateMermaid(state.Plan, graph.OverlayFor(state)))
	case FormatPlan:
		cursor := -1
		if !state.Status.Terminal() && state.Memory != nil {
			cursor = state.Memory.SubgoalIndex
		}
		return renderMarkdown(w, tui.PlanMarkdown(state.Task, state.Plan, cursor))
	default:
		return fmt.Errorf("unknown format %q (want json, plan or graph)", format)
	}
	return nil
}

// RemoveEpisodes deletes every given episode and reports failures at the end.
func RemoveEpisodes(ctx context.Context, store ports.StateStore, ids []string, w io.Writer) error {
	failed := 0
	for _, id := range ids {
		if err := store.Delete(ctx, id); err != nil {
			fmt.Fprintf(w, "Error removing '%s': %v\n", id, err)
			failed++
			continue
		}
		fmt.Fprintf(w, "Removed episode '%s'\n", id)
	}
	if failed > 0 {
		return fmt.Errorf("failed to remove %d episodes", failed)
	}
	return nil
}

// renderMarkdown renders through glamour on a terminal and prints raw markdown otherwise.
func renderMarkdown(w io.Writer, markdown string) error {
	if !isTerminalWriter(w) {
		_, err := io.WriteString(w, markdown)
		return err
	}
	out, err := tui.NewRenderer()(markdown)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
