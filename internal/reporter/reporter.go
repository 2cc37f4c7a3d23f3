package reporter

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"bookconv/internal/batch"
)

// Header describes the run shown at the top of the display.
type Header struct {
	Title       string
	InputDir    string
	OutputDir   string
	SourceLabel string
}

// Reporter renders a batch run. It receives per-file progress through the
// embedded batch.Observer.
type Reporter interface {
	batch.Observer
	Start(header Header)
	NoFiles(dir string)
	Summary(state batch.State)
	WaitForKey() error
	Close() error
}

// Options tunes the renderers.
type Options struct {
	BarWidth int
	LogLines int
	Color    bool
	// Width and Height override terminal size detection when positive.
	Width  int
	Height int
	Now    func() time.Time
}

func (o Options) withDefaults() Options {
	if o.BarWidth <= 0 {
		o.BarWidth = 50
	}
	if o.LogLines <= 0 {
		o.LogLines = 9
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Mode selects a renderer.
type Mode int

const (
	ModeAuto Mode = iota
	ModePlain
	ModeTerminal
)

// New picks a renderer. ModeAuto uses the full-screen Terminal only when
// both out and in are terminals.
func New(mode Mode, out, in *os.File, opts Options) Reporter {
	if mode == ModeAuto {
		mode = ModePlain
		if IsTerminal(out) && IsTerminal(in) {
			mode = ModeTerminal
		}
	}
	if mode == ModeTerminal {
		return NewTerminal(out, in, opts)
	}
	return NewPlain(out, opts)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ResolveColor applies a display.color setting (auto, always, never) to the
// given output.
func ResolveColor(setting string, out io.Writer) bool {
	switch strings.ToLower(strings.TrimSpace(setting)) {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := out.(*os.File)
	return ok && IsTerminal(f)
}

// Nop discards all output.
type Nop struct{}

func (Nop) Start(Header)                            {}
func (Nop) Listing(int)                             {}
func (Nop) NoFiles(string)                          {}
func (Nop) Processing(int, batch.Task, batch.State) {}
func (Nop) Progress(batch.State)                    {}
func (Nop) Log(string)                              {}
func (Nop) Summary(batch.State)                     {}
func (Nop) WaitForKey() error                       { return nil }
func (Nop) Close() error                            { return nil }
