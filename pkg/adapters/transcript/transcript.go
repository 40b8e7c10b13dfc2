// Package transcript provides a deterministic simulator that replays a scripted game.
//
// A script maps commands to observations. It is meant for tests, demos and replaying
// recorded episodes without a real environment.
package transcript

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/aretw0/errand/pkg/ports"
	"gopkg.in/yaml.v3"
)

// DefaultObservation answers commands the script does not know.
const DefaultObservation = "Nothing happens."

// Script is the YAML form of a replayable game.
type Script struct {
	Intro      string            `yaml:"intro"`
	Responses  map[string]string `yaml:"responses"`
	Win        string            `yaml:"win,omitempty"`
	Default    string            `yaml:"default,omitempty"`
	Admissible []string          `yaml:"admissible,omitempty"`
	// MaxSteps ends the game after that many commands. Zero means unlimited.
	MaxSteps int `yaml:"max_steps,omitempty"`
}

// Parse decodes a YAML script.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("invalid transcript: %w", err)
	}
	if s.Intro == "" {
		return nil, fmt.Errorf("invalid transcript: missing intro")
	}
	return &s, nil
}

// Load reads a YAML script from disk.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}
	return Parse(data)
}

// Simulator replays a Script. It is safe for concurrent use.
type Simulator struct {
	script *Script

	mu    sync.Mutex
	steps int
	done  bool
}

// NewSimulator creates a simulator for the script.
func NewSimulator(script *Script) *Simulator {
	return &Simulator{script: script}
}

// Reset restarts the game and returns the intro.
func (s *Simulator) Reset(ctx context.Context) (ports.Feedback, error) {
	if err := ctx.Err(); err != nil {
		return ports.Feedback{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps = 0
	s.done = false
	return ports.Feedback{Observation: s.script.Intro, Admissible: s.script.Admissible}, nil
}

// Step answers one command.
func (s *Simulator) Step(ctx context.Context, command string) (ports.Feedback, error) {
	if err := ctx.Err(); err != nil {
		return ports.Feedback{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return ports.Feedback{}, fmt.Errorf("game is over")
	}
	s.steps++

	obs, ok := s.script.Responses[command]
	if !ok {
		obs = s.script.Default
		if obs == "" {
			obs = DefaultObservation
		}
	}

	fb := ports.Feedback{Observation: obs, Admissible: s.script.Admissible}
	if s.script.Win != "" && command == s.script.Win {
		fb.Won, fb.Done, fb.Score = true, true, 1
	}
	if s.script.MaxSteps > 0 && s.steps >= s.script.MaxSteps {
		fb.Done = true
	}
	s.done = fb.Done
	return fb, nil
}

// Steps returns the number of commands answered since the last reset.
func (s *Simulator) Steps() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.steps
}
