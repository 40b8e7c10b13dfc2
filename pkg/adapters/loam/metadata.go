package loam

import "github.com/aretw0/errand/pkg/domain"

// TaskMetadata is the frontmatter of a task document.
// It uses "mapstructure" tags to match the ALFRED-style keys.
type TaskMetadata struct {
	ID           string `json:"id" mapstructure:"id"`
	TaskType     string `json:"task_type" mapstructure:"task_type"`
	ObjectTarget string `json:"object_target" mapstructure:"object_target"`
	ParentTarget string `json:"parent_target" mapstructure:"parent_target"`
	ToggleTarget string `json:"toggle_target" mapstructure:"toggle_target"`

	// Tags are free-form labels used to filter catalogs.
	Tags []string `json:"tags,omitempty" mapstructure:"tags"`
}

// Spec converts the metadata into a task specification.
func (m TaskMetadata) Spec() domain.TaskSpec {
	return domain.TaskSpec{
		Type:         domain.TaskType(m.TaskType),
		ObjectTarget: m.ObjectTarget,
		ParentTarget: m.ParentTarget,
		ToggleTarget: m.ToggleTarget,
	}
}
