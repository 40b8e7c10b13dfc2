package runner

import (
	"bufio"
	"context"
	"io"
	"sync"
)

// DefaultInputBufferSize is the number of lines buffered ahead of the simulator reader.
const DefaultInputBufferSize = 64

type line struct {
	text string
	err  error
}

// linePump reads lines from r in a goroutine so that reads can honour context cancellation.
type linePump struct {
	r     io.Reader
	once  sync.Once
	lines chan line
}

func newLinePump(r io.Reader) *linePump {
	return &linePump{r: r, lines: make(chan line, DefaultInputBufferSize)}
}

func (p *linePump) start() {
	go func() {
		defer close(p.lines)
		scanner := bufio.NewScanner(p.r)
		scanner.Buffer(make([]byte, 0, 64*1024), DefaultMaxObservationSize*4)
		for scanner.Scan() {
			p.lines <- line{text: scanner.Text()}
		}
		if err := scanner.Err(); err != nil {
			p.lines <- line{err: err}
		}
	}()
}

// next returns the next line, io.EOF once the reader is drained, or the context error.
func (p *linePump) next(ctx context.Context) (string, error) {
	p.once.Do(p.start)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l, ok := <-p.lines:
		if !ok {
			return "", io.EOF
		}
		return l.text, l.err
	}
}
