package importer

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

type lineResult struct {
	line string
	err  error
}

// promptReader reads one line per request so nothing is consumed from the
// input beyond the last prompt.
type promptReader struct {
	reader   *bufio.Reader
	requests chan struct{}
	lines    chan lineResult
	once     sync.Once
}

func newPromptReader(r io.Reader) *promptReader {
	return &promptReader{
		reader:   bufio.NewReader(r),
		requests: make(chan struct{}),
		lines:    make(chan lineResult, 1),
	}
}

func (p *promptReader) loop() {
	for range p.requests {
		line, err := p.reader.ReadString('\n')
		if errors.Is(err, io.EOF) && line != "" {
			err = nil
		}
		p.lines <- lineResult{line: strings.TrimRight(line, "\r\n"), err: err}
	}
}

// readLine returns the next input line without its terminator. End of input
// yields io.EOF; a done context yields ctx.Err().
func (p *promptReader) readLine(ctx context.Context) (string, error) {
	p.once.Do(func() { go p.loop() })
	select {
	case p.requests <- struct{}{}:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	select {
	case res := <-p.lines:
		return res.line, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
