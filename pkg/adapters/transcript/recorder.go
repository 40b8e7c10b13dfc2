package transcript

import (
	"fmt"
	"os"
	"sync"

	"github.com/aretw0/errand/pkg/ports"
	"gopkg.in/yaml.v3"
)

// Recorder captures a live episode as a Script that can be replayed later.
type Recorder struct {
	mu     sync.Mutex
	script Script
}

// NewRecorder starts a recording with the intro observation.
func NewRecorder(intro string) *Recorder {
	return &Recorder{script: Script{Intro: intro, Responses: make(map[string]string)}}
}

// Record stores the answer to a command. The first answer to a command wins,
// so replays of loops stay deterministic.
func (r *Recorder) Record(command string, fb ports.Feedback) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.script.Responses[command]; !ok {
		r.script.Responses[command] = fb.Observation
	}
	if fb.Won {
		r.script.Win = command
	}
}

// Script returns a copy of the recording.
func (r *Recorder) Script() *Script {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.script
	out.Responses = make(map[string]string, len(r.script.Responses))
	for k, v := range r.script.Responses {
		out.Responses[k] = v
	}
	return &out
}

// Save writes the recording as YAML.
func (r *Recorder) Save(path string) error {
	data, err := yaml.Marshal(r.Script())
	if err != nil {
		return fmt.Errorf("failed to marshal transcript: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
