package reporter

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/term"

	"bookconv/internal/batch"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	maxRuleWidth  = 80

	ansiHideCursor = "\x1b[?25l"
	ansiShowCursor = "\x1b[?25h"
	ansiClear      = "\x1b[2J\x1b[H"
)

// Fixed rows, 1-based.
const (
	rowRuleTop      = 1
	rowTitle        = 2
	rowRuleTitle    = 3
	rowInput        = 4
	rowOutput       = 5
	rowRuleDirs     = 6
	rowStatus       = 7
	rowStatusDetail = 8
	rowProcessing   = 10
	rowProgress     = 11
	rowCounts       = 12
	rowComplete     = 14
)

var (
	styleHeader  = text.Colors{text.FgCyan}
	styleTitle   = text.Colors{text.FgCyan, text.Bold}
	styleBold    = text.Colors{text.Bold}
	styleInfo    = text.Colors{text.FgYellow, text.Bold}
	styleSuccess = text.Colors{text.FgGreen, text.Bold}
	styleError   = text.Colors{text.FgRed, text.Bold}
)

// Terminal is the full-screen renderer.
type Terminal struct {
	out     io.Writer
	in      *os.File
	opts    Options
	width   int
	height  int
	logs    *LogBuffer
	label   string
	logRow  int
	logRows int
}

// NewTerminal builds a full-screen renderer writing to out and reading the
// final key press from in. Size comes from out when it is a terminal.
func NewTerminal(out io.Writer, in *os.File, opts Options) *Terminal {
	opts = opts.withDefaults()
	width, height := opts.Width, opts.Height
	if width <= 0 || height <= 0 {
		w, h := detectSize(out)
		if width <= 0 {
			width = w
		}
		if height <= 0 {
			height = h
		}
	}
	t := &Terminal{
		out:    out,
		in:     in,
		opts:   opts,
		width:  width,
		height: height,
		logs:   NewLogBuffer(opts.LogLines, opts.Now),
		label:  "EPUB",
	}
	// The log header sits above LogLines rows at the bottom, never above
	// the completion message. On short screens fewer rows are shown so
	// nothing is drawn past the last row.
	t.logRow = max(height-opts.LogLines-1, rowComplete+2)
	t.logRows = max(min(opts.LogLines, height-t.logRow), 1)
	return t
}

func detectSize(out io.Writer) (int, int) {
	if f, ok := out.(*os.File); ok {
		if w, h, err := term.GetSize(int(f.Fd())); err == nil && w > 0 && h > 0 {
			return w, h
		}
	}
	return defaultWidth, defaultHeight
}

func (t *Terminal) paint(style text.Colors, s string) string {
	if !t.opts.Color {
		return s
	}
	return style.Sprint(s)
}

func (t *Terminal) fit(s string) string {
	return text.Trim(s, max(t.width-1, 1))
}

func (t *Terminal) rule(ch string) string {
	return strings.Repeat(ch, min(t.width-1, maxRuleWidth))
}

// drawRow moves to row, erases it, and writes content.
func (t *Terminal) drawRow(row int, style text.Colors, content string) {
	line := t.fit(content)
	if len(style) > 0 {
		line = t.paint(style, line)
	}
	fmt.Fprintf(t.out, "\x1b[%d;1H%s%s", row, text.EraseLine.Sprint(), line)
}

func (t *Terminal) Start(header Header) {
	if header.SourceLabel != "" {
		t.label = header.SourceLabel
	}
	io.WriteString(t.out, ansiHideCursor+ansiClear)
	t.drawRow(rowRuleTop, styleHeader, t.rule("="))
	title := header.Title
	if pad := (t.width - len([]rune(title))) / 2; pad > 0 {
		title = strings.Repeat(" ", pad) + title
	}
	t.drawRow(rowTitle, styleTitle, title)
	t.drawRow(rowRuleTitle, styleHeader, t.rule("="))
	t.drawRow(rowInput, styleBold, "Input Directory:  "+header.InputDir)
	t.drawRow(rowOutput, styleBold, "Output Directory: "+header.OutputDir)
	t.drawRow(rowRuleDirs, nil, t.rule("-"))
}

func (t *Terminal) Listing(total int) {
	t.drawRow(rowStatus, styleInfo, fmt.Sprintf("Found %d %s file(s) to process", total, t.label))
	t.drawRow(rowStatusDetail, nil, t.rule("-"))
	t.drawRow(t.logRow-1, nil, t.rule("-"))
	t.drawRow(t.logRow, styleBold, "Conversion Log:")
}

func (t *Terminal) NoFiles(string) {
	t.drawRow(rowStatus, styleInfo, fmt.Sprintf("No %s files found in input directory.", t.label))
	t.drawRow(rowStatusDetail, nil, fmt.Sprintf("Place %s files in the input directory and run again.", t.label))
	t.drawRow(rowProcessing, nil, "Press any key to exit...")
}

func (t *Terminal) Processing(_ int, task batch.Task, state batch.State) {
	t.drawRow(rowProcessing, styleInfo, "Processing: "+task.SourceName)
	t.Progress(state)
}

func (t *Terminal) Progress(state batch.State) {
	t.drawRow(rowProgress, styleBold, ProgressLine(state, t.opts.BarWidth))
	t.drawRow(rowCounts, styleBold, CountsLine(state))
}

func (t *Terminal) Log(message string) {
	t.logs.Add(message)
	lines := t.logs.Lines()
	if len(lines) > t.logRows {
		lines = lines[len(lines)-t.logRows:]
	}
	for i := range t.logRows {
		row := t.logRow + 1 + i
		if i < len(lines) {
			t.drawRow(row, nil, lines[i])
		} else {
			t.drawRow(row, nil, "")
		}
	}
}

func (t *Terminal) Summary(state batch.State) {
	final := state
	final.Processed = final.Total
	t.drawRow(rowProgress, styleSuccess, ProgressLine(final, t.opts.BarWidth))
	t.drawRow(rowCounts, styleSuccess, CountsLine(state))
	t.drawRow(rowComplete, styleSuccess, "Conversion complete! Press any key to exit...")
}

// WaitForKey blocks until one byte arrives on the input, switching the
// terminal to raw mode for the read when possible.
func (t *Terminal) WaitForKey() error {
	if t.in == nil {
		return nil
	}
	fd := int(t.in.Fd())
	if term.IsTerminal(fd) {
		state, err := term.MakeRaw(fd)
		if err == nil {
			defer term.Restore(fd, state)
		}
	}
	buf := make([]byte, 1)
	if _, err := t.in.Read(buf); err != nil && err != io.EOF {
		return fmt.Errorf("read key: %w", err)
	}
	return nil
}

// Close restores the cursor and leaves it below the display.
func (t *Terminal) Close() error {
	_, err := fmt.Fprintf(t.out, "\x1b[%d;1H%s\n", t.height, ansiShowCursor)
	return err
}
