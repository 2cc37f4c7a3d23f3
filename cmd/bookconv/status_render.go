package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"bookconv/internal/deps"
	"bookconv/internal/preflight"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	statusLabelWidth = 20
	statusIndent     = "  "
)

var statusColors = map[statusKind]text.Colors{
	statusInfo:  {text.FgBlue},
	statusOK:    {text.FgGreen},
	statusWarn:  {text.FgYellow},
	statusError: {text.FgRed},
}

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	statusText := fmt.Sprintf("[%s]", statusKindLabel(kind))
	if message != "" {
		statusText += " " + message
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", statusText)
	if colorize {
		return paint(statusColors[kind], base)
	}
	return base
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = paint(statusColors[statusInfo], line)
		rule = paint(statusColors[statusInfo], rule)
	}
	return []string{line, rule}
}

// paint applies colors regardless of go-pretty's global NO_COLOR detection;
// callers decide via shouldColorize.
func paint(colors text.Colors, s string) string {
	if len(colors) == 0 {
		return s
	}
	return colors.EscapeSeq() + s + text.Reset.EscapeSeq()
}

func shouldColorize(writer io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func preflightLine(result preflight.Result, failKind statusKind, colorize bool) string {
	kind := statusOK
	if !result.Passed {
		kind = failKind
	}
	return renderStatusLine(result.Name, kind, result.Detail, colorize)
}

func dependencyLines(statuses []deps.Status, colorize bool) []string {
	lines := make([]string, 0, len(statuses)+1)
	for _, dep := range statuses {
		if dep.Available {
			lines = append(lines, renderStatusLine(dep.Name, statusOK, fmt.Sprintf("Ready (command: %s)", dep.Path), colorize))
			continue
		}
		kind := statusError
		if dep.Optional {
			kind = statusWarn
		}
		detail := dep.Detail
		if detail == "" {
			detail = "not available"
		}
		lines = append(lines, renderStatusLine(dep.Name, kind, detail, colorize))
	}
	if missing := deps.MissingRequired(statuses); len(missing) > 0 {
		commands := make([]string, 0, len(missing))
		for _, dep := range missing {
			commands = append(commands, dep.Command)
		}
		lines = append(lines, renderStatusLine("Missing dependencies", statusWarn, strings.Join(commands, ", "), colorize))
	}
	return lines
}
