/*
 * Copyright (c) 2026 Firefly Software Solutions Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

/*
Package cli provides terminal output helpers for the SakayDB command-line
tools: ANSI color wrappers, status-line printers, output formats, and a
column-aligned table renderer.
*/
package cli

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"golang.org/x/term"
)

// ANSI color codes.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

// colorsEnabled controls whether the wrappers emit ANSI codes. Colors
// default to on for terminals and off for pipes.
var colorsEnabled atomic.Bool

func init() {
	colorsEnabled.Store(term.IsTerminal(int(os.Stdout.Fd())))
}

// SetColorsEnabled overrides color auto-detection.
func SetColorsEnabled(enabled bool) {
	colorsEnabled.Store(enabled)
}

func colorize(color, s string) string {
	if !colorsEnabled.Load() {
		return s
	}
	return color + s + colorReset
}

// Success wraps a string in the success color.
func Success(s string) string { return colorize(colorGreen, s) }

// Info wraps a string in the info color.
func Info(s string) string { return colorize(colorCyan, s) }

// Warning wraps a string in the warning color.
func Warning(s string) string { return colorize(colorYellow, s) }

// Error wraps a string in the error color.
func Error(s string) string { return colorize(colorRed, s) }

// Dimmed wraps a string in the dim style.
func Dimmed(s string) string { return colorize(colorDim, s) }

// Highlight wraps a string in bold.
func Highlight(s string) string { return colorize(colorBold, s) }

// SuccessIcon returns a colored check mark for status lines.
func SuccessIcon() string { return Success("✓") }

// InfoIcon returns a colored arrow for status lines.
func InfoIcon() string { return Info("→") }

// WarningIcon returns a colored exclamation mark for status lines.
func WarningIcon() string { return Warning("!") }

// ErrorIcon returns a colored cross for status lines.
func ErrorIcon() string { return Error("✗") }

// PrintSuccess prints a success status line.
func PrintSuccess(format string, args ...interface{}) {
	fmt.Println(Success("✓ " + fmt.Sprintf(format, args...)))
}

// PrintInfo prints an informational status line.
func PrintInfo(format string, args ...interface{}) {
	fmt.Println(Info(fmt.Sprintf(format, args...)))
}

// PrintWarning prints a warning status line.
func PrintWarning(format string, args ...interface{}) {
	fmt.Println(Warning("! " + fmt.Sprintf(format, args...)))
}

// PrintError prints an error status line to stderr.
func PrintError(format string, args ...interface{}) {
	fmt.Fprintln(os.Stderr, Error("✗ "+fmt.Sprintf(format, args...)))
}

// Separator returns a horizontal rule.
func Separator(width int) string {
	if width <= 0 {
		width = 60
	}
	return Dimmed(strings.Repeat("─", width))
}

// OutputFormat selects how result sets are rendered.
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatPlain OutputFormat = "plain"
)

// ParseOutputFormat parses an output format name, defaulting to table.
func ParseOutputFormat(s string) OutputFormat {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON
	case "plain":
		return FormatPlain
	default:
		return FormatTable
	}
}

// RenderTable writes a column-aligned table with a header rule.
func RenderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var sb strings.Builder
	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				sb.WriteString("  ")
			}
			sb.WriteString(cell)
			if pad := widths[i] - len(cell); pad > 0 {
				sb.WriteString(strings.Repeat(" ", pad))
			}
		}
		sb.WriteString("\n")
	}

	writeRow(headers)
	total := 0
	for _, w := range widths {
		total += w
	}
	total += 2 * (len(widths) - 1)
	sb.WriteString(strings.Repeat("-", total))
	sb.WriteString("\n")
	for _, row := range rows {
		writeRow(row)
	}
	return sb.String()
}
