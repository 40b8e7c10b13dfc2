package domain

// TaskType tags one of the supported task templates.
type TaskType string

const (
	TaskPickAndPlaceSimple TaskType = "pick_and_place_simple"
	TaskLookAtObjInLight   TaskType = "look_at_obj_in_light"
	TaskPickHeatThenPlace  TaskType = "pick_heat_then_place_in_recep"
	TaskPickCoolThenPlace  TaskType = "pick_cool_then_place_in_recep"
	TaskPickCleanThenPlace TaskType = "pick_clean_then_place_in_recep"
)

// TaskTypes lists the supported task types in a stable order.
func TaskTypes() []TaskType {
	return []TaskType{
		TaskPickAndPlaceSimple,
		TaskLookAtObjInLight,
		TaskPickHeatThenPlace,
		TaskPickCoolThenPlace,
		TaskPickCleanThenPlace,
	}
}

// TaskSpec is a resolved task specification.
// Class values are expected to be normalized (lower case) before compilation.
type TaskSpec struct {
	Type         TaskType `json:"task_type" yaml:"task_type" mapstructure:"task_type"`
	ObjectTarget string   `json:"object_target,omitempty" yaml:"object_target,omitempty" mapstructure:"object_target"`
	ParentTarget string   `json:"parent_target,omitempty" yaml:"parent_target,omitempty" mapstructure:"parent_target"`
	ToggleTarget string   `json:"toggle_target,omitempty" yaml:"toggle_target,omitempty" mapstructure:"toggle_target"`
}
