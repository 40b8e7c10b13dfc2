// Package trajectory reads ALFRED trajectory files (traj_data.json) into task specifications.
package trajectory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/aretw0/errand/internal/compiler"
	"github.com/aretw0/errand/pkg/domain"
	"github.com/aretw0/errand/pkg/ports"
	"github.com/mitchellh/mapstructure"
)

// FileName is the name ALFRED gives trajectory files.
const FileName = "traj_data.json"

// PDDLParams are the goal parameters of a trajectory.
type PDDLParams struct {
	ObjectTarget string `mapstructure:"object_target"`
	ParentTarget string `mapstructure:"parent_target"`
	ToggleTarget string `mapstructure:"toggle_target"`
	MRecepTarget string `mapstructure:"mrecep_target"`
	ObjectSliced bool   `mapstructure:"object_sliced"`
}

// Trajectory is the subset of traj_data.json the engine needs.
type Trajectory struct {
	TaskID     string     `mapstructure:"task_id"`
	TaskType   string     `mapstructure:"task_type"`
	PDDLParams PDDLParams `mapstructure:"pddl_params"`
}

// Spec returns the normalised task specification. Class names are lower-cased.
func (t Trajectory) Spec() domain.TaskSpec {
	return compiler.Normalize(domain.TaskSpec{
		Type:         domain.TaskType(t.TaskType),
		ObjectTarget: t.PDDLParams.ObjectTarget,
		ParentTarget: t.PDDLParams.ParentTarget,
		ToggleTarget: t.PDDLParams.ToggleTarget,
	})
}

// Parse decodes a traj_data.json document. Unknown keys are ignored.
func Parse(data []byte) (Trajectory, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Trajectory{}, fmt.Errorf("%w: %v", domain.ErrInvalidTask, err)
	}

	var traj Trajectory
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &traj,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Trajectory{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Trajectory{}, fmt.Errorf("%w: %v", domain.ErrInvalidTask, err)
	}
	if traj.TaskType == "" {
		return Trajectory{}, fmt.Errorf("%w: missing task_type", domain.ErrInvalidTask)
	}
	return traj, nil
}

// Load reads a trajectory file. A directory path is resolved to its traj_data.json.
func Load(path string) (Trajectory, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, FileName)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Trajectory{}, fmt.Errorf("failed to read trajectory: %w", err)
	}
	traj, err := Parse(data)
	if err != nil {
		return Trajectory{}, fmt.Errorf("%s: %w", path, err)
	}
	return traj, nil
}

// Catalog exposes every traj_data.json under a root directory as a task.
// Task IDs are the slash-separated directory paths relative to the root.
type Catalog struct {
	root string
}

// NewCatalog creates a catalog rooted at dir.
func NewCatalog(dir string) *Catalog {
	return &Catalog{root: dir}
}

// Get loads the task with the given ID.
func (c *Catalog) Get(ctx context.Context, id string) (domain.TaskSpec, error) {
	if err := ctx.Err(); err != nil {
		return domain.TaskSpec{}, err
	}
	path := filepath.Join(c.root, filepath.FromSlash(id), FileName)
	traj, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.TaskSpec{}, fmt.Errorf("%w: %s", ports.ErrTaskNotFound, id)
	}
	if err != nil {
		return domain.TaskSpec{}, err
	}
	return traj.Spec(), nil
}

// List walks the root and returns the IDs of all trajectories, sorted.
func (c *Catalog) List(ctx context.Context) ([]string, error) {
	var ids []string
	err := filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || d.Name() != FileName {
			return nil
		}
		rel, err := filepath.Rel(c.root, filepath.Dir(path))
		if err != nil {
			return err
		}
		ids = append(ids, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list trajectories: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}
