package reporter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"bookconv/internal/batch"
)

// Plain writes line-oriented progress for non-interactive output.
type Plain struct {
	out   io.Writer
	opts  Options
	label string
}

// NewPlain builds a line renderer writing to out.
func NewPlain(out io.Writer, opts Options) *Plain {
	return &Plain{out: out, opts: opts.withDefaults(), label: "EPUB"}
}

func (p *Plain) line(message string) {
	fmt.Fprintln(p.out, FormatLogEntry(p.opts.Now(), message))
}

func (p *Plain) paint(style text.Colors, s string) string {
	if !p.opts.Color {
		return s
	}
	return style.Sprint(s)
}

func (p *Plain) Start(header Header) {
	if header.SourceLabel != "" {
		p.label = header.SourceLabel
	}
	fmt.Fprintln(p.out, p.paint(styleTitle, header.Title))
	fmt.Fprintf(p.out, "Input Directory:  %s\n", header.InputDir)
	fmt.Fprintf(p.out, "Output Directory: %s\n", header.OutputDir)
}

func (p *Plain) Listing(total int) {
	p.line(fmt.Sprintf("Found %d %s file(s) to process", total, p.label))
}

func (p *Plain) NoFiles(dir string) {
	p.line(fmt.Sprintf("No %s files found in input directory %s", p.label, dir))
	p.line(fmt.Sprintf("Place %s files in the input directory and run again.", p.label))
}

func (p *Plain) Processing(index int, task batch.Task, state batch.State) {
	p.line(fmt.Sprintf("[%d/%d] Processing: %s", index+1, state.Total, task.SourceName))
}

func (p *Plain) Progress(batch.State) {}

func (p *Plain) Log(message string) {
	switch {
	case strings.HasPrefix(message, "✓"):
		message = p.paint(styleSuccess, message)
	case strings.HasPrefix(message, "✗"):
		message = p.paint(styleError, message)
	}
	p.line(message)
}

func (p *Plain) Summary(state batch.State) {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Result", "Files"})
	tw.AppendRows([]table.Row{
		{"Success", strconv.Itoa(state.Successful)},
		{"Skipped", strconv.Itoa(state.Skipped)},
		{"Failed", strconv.Itoa(state.Failed)},
	})
	tw.AppendFooter(table.Row{"Total", strconv.Itoa(state.Total)})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	p.line("Conversion complete!")
	fmt.Fprintln(p.out, tw.Render())
}

func (p *Plain) WaitForKey() error { return nil }

func (p *Plain) Close() error { return nil }
