package runner

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxObservationSize is 16KB. Simulator observations are longer than user input.
	DefaultMaxObservationSize = 16384
	// EnvMaxObservationSize is the environment variable to override the default
	EnvMaxObservationSize = "ERRAND_MAX_OBSERVATION_SIZE"
)

var (
	ErrObservationTooLarge = errors.New("observation exceeds maximum allowed size")
	ErrInvalidUTF8         = errors.New("observation contains invalid UTF-8 sequences")
)

// SanitizeObservation cleans simulator text by enforcing size limits,
// validating UTF-8, and stripping dangerous control characters.
func SanitizeObservation(input string) (string, error) {
	limit := getMaxObservationSize()
	if len(input) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrObservationTooLarge, len(input), limit)
	}

	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	// Newline, tab and carriage return are kept.
	// ANSI escapes, NULL and BEL are removed.
	clean := true
	for _, r := range input {
		if unicode.IsControl(r) && !isSafeControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return input, nil
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !unicode.IsControl(r) || isSafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t' || r == '\r'
}

func getMaxObservationSize() int {
	if val := os.Getenv(EnvMaxObservationSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxObservationSize
}
