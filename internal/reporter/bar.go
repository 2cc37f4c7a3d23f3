package reporter

import (
	"fmt"
	"strings"

	"bookconv/internal/batch"
)

// RenderBar draws a bracketed bar of width cells filled in proportion to
// processed/total. An unfinished bar ends its fill with ">".
func RenderBar(processed, total, width int) string {
	if width <= 0 {
		width = 1
	}
	fill := width
	if total > 0 && processed < total {
		fill = max(processed, 0) * width / total
	}
	if fill >= width {
		return "[" + strings.Repeat("=", width) + "]"
	}
	return "[" + strings.Repeat("=", fill) + ">" + strings.Repeat(" ", width-fill-1) + "]"
}

// ProgressLine renders "Progress: [====>   ] k/n".
func ProgressLine(state batch.State, width int) string {
	return fmt.Sprintf("Progress: %s %d/%d", RenderBar(state.Processed, state.Total, width), state.Processed, state.Total)
}

// CountsLine renders "Success: a | Skipped: b | Failed: c".
func CountsLine(state batch.State) string {
	return fmt.Sprintf("Success: %d | Skipped: %d | Failed: %d", state.Successful, state.Skipped, state.Failed)
}
