package compiler

import (
	"fmt"
	"strings"

	"github.com/aretw0/errand/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DecodeTask decodes a loose task mapping (task_type, object_target, parent_target,
// toggle_target) and normalises class values to lower case. Unknown keys are ignored.
func DecodeTask(raw map[string]any) (domain.TaskSpec, error) {
	var spec domain.TaskSpec
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &spec,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return spec, err
	}
	if err := dec.Decode(raw); err != nil {
		return spec, fmt.Errorf("%w: %v", domain.ErrInvalidTask, err)
	}
	return Normalize(spec), nil
}

// ParseTask decodes a task document in YAML or JSON form.
func ParseTask(data []byte) (domain.TaskSpec, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return domain.TaskSpec{}, fmt.Errorf("failed to parse task: %w", err)
	}
	if raw == nil {
		return domain.TaskSpec{}, fmt.Errorf("%w: empty task document", domain.ErrInvalidTask)
	}
	return DecodeTask(raw)
}

// Normalize trims and lower-cases every field of spec.
func Normalize(spec domain.TaskSpec) domain.TaskSpec {
	return domain.TaskSpec{
		Type:         domain.TaskType(norm(string(spec.Type))),
		ObjectTarget: norm(spec.ObjectTarget),
		ParentTarget: norm(spec.ParentTarget),
		ToggleTarget: norm(spec.ToggleTarget),
	}
}

func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
