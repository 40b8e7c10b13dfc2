package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/errand/internal/logging"
	"github.com/aretw0/errand/internal/testutils"
	"github.com/aretw0/errand/pkg/domain"
	"github.com/aretw0/errand/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const appleTraj = `{"task_type": "pick_and_place_simple", "pddl_params": {"object_target": "Apple", "parent_target": "CounterTop"}}`

func TestEvaluate(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	script, err := os.ReadFile(appleScript)
	require.NoError(t, err)

	root := t.TempDir()
	testutils.WriteFiles(t, root, map[string]string{
		"valid_seen/apple/traj_data.json":     appleTraj,
		"valid_seen/apple/transcript.yaml":    string(script),
		"valid_seen/stuck/traj_data.json":     appleTraj,
		"valid_seen/stuck/transcript.yaml":    "intro: \"Welcome! You see a countertop_1.\"\nmax_steps: 2\n",
		"valid_seen/no_script/traj_data.json": appleTraj,
	})

	report, err := Evaluate(context.Background(), EvalOptions{Root: root}, logging.NewNop())
	require.NoError(t, err)

	assert.Equal(t, map[string]runner.Outcome{
		"valid_seen/apple": runner.OutcomeSucceeded,
		"valid_seen/stuck": runner.OutcomeSimulatorDone,
	}, report.Outcomes)
	assert.Equal(t, []string{"valid_seen/no_script"}, report.Skipped)
	assert.Equal(t, 2, report.Summary.Episodes)
	assert.Equal(t, 1, report.Summary.ByStatus[domain.StatusSucceeded])
	assert.InDelta(t, 0.5, report.Summary.SuccessRate(), 1e-9)
	assert.InDelta(t, 3.0, report.Summary.MeanSteps, 1e-9)

	var out bytes.Buffer
	PrintReport(&out, report)
	assert.Contains(t, out.String(), "valid_seen/no_script")
	assert.Contains(t, out.String(), ">>> 2 episodes, 50% succeeded, 3.0 mean steps.")
}

func TestEvaluate_MissingRoot(t *testing.T) {
	_, err := Evaluate(context.Background(), EvalOptions{Root: filepath.Join(t.TempDir(), "nope")}, logging.NewNop())
	assert.Error(t, err)
}
