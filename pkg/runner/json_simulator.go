package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aretw0/errand/pkg/ports"
)

// Request is the NDJSON message sent to a JSON simulator.
type Request struct {
	Command string `json:"command,omitempty"`
	Reset   bool   `json:"reset,omitempty"`
}

// JSONSimulator speaks to a simulator in NDJSON: one Request per line out,
// one ports.Feedback per line in.
type JSONSimulator struct {
	mu      sync.Mutex
	encoder *json.Encoder
	pump    *linePump
}

// NewJSONSimulator creates a simulator reading feedback from in and writing requests to out.
func NewJSONSimulator(in io.Reader, out io.Writer) *JSONSimulator {
	return &JSONSimulator{
		encoder: json.NewEncoder(out),
		pump:    newLinePump(in),
	}
}

// Reset sends a reset request and reads the introductory feedback.
func (s *JSONSimulator) Reset(ctx context.Context) (ports.Feedback, error) {
	fb, err := s.exchange(ctx, Request{Reset: true})
	if errors.Is(err, io.EOF) {
		return ports.Feedback{}, fmt.Errorf("no introductory feedback: %w", io.ErrUnexpectedEOF)
	}
	return fb, err
}

// Step sends the command and reads the resulting feedback.
func (s *JSONSimulator) Step(ctx context.Context, command string) (ports.Feedback, error) {
	fb, err := s.exchange(ctx, Request{Command: command})
	if errors.Is(err, io.EOF) {
		return ports.Feedback{Done: true}, nil
	}
	return fb, err
}

func (s *JSONSimulator) exchange(ctx context.Context, req Request) (ports.Feedback, error) {
	s.mu.Lock()
	err := s.encoder.Encode(req)
	s.mu.Unlock()
	if err != nil {
		return ports.Feedback{}, err
	}

	for {
		text, err := s.pump.next(ctx)
		if err != nil {
			return ports.Feedback{}, err
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		var fb ports.Feedback
		if err := json.Unmarshal([]byte(text), &fb); err != nil {
			return ports.Feedback{}, fmt.Errorf("invalid feedback line: %w", err)
		}
		return fb, nil
	}
}
