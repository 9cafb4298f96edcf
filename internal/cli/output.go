package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"options-dashboard/internal/models"
	"options-dashboard/internal/table"
)

// Terminal styles
var (
	styleGreen  = color.New(color.FgGreen)
	styleRed    = color.New(color.FgRed)
	styleYellow = color.New(color.FgYellow)
	styleCyan   = color.New(color.FgCyan)
	styleBold   = color.New(color.Bold)
	styleDim    = color.New(color.Faint)
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// Output handles formatted output for the CLI.
type Output struct {
	writer       io.Writer
	jsonMode     bool
	colorEnabled bool
}

// NewOutput creates a new Output instance.
func NewOutput(cmd *cobra.Command) *Output {
	jsonMode, _ := cmd.Flags().GetBool("json")
	w := cmd.OutOrStdout()
	return &Output{
		writer:       w,
		jsonMode:     jsonMode,
		colorEnabled: !jsonMode && w == os.Stdout && !color.NoColor,
	}
}

// IsJSON returns true if JSON output mode is enabled.
func (o *Output) IsJSON() bool {
	return o.jsonMode
}

// JSON outputs data as JSON.
func (o *Output) JSON(data interface{}) error {
	encoder := json.NewEncoder(o.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Println prints a message with newline.
func (o *Output) Println(args ...interface{}) {
	fmt.Fprintln(o.writer, args...)
}

// Printf prints a formatted message.
func (o *Output) Printf(format string, args ...interface{}) {
	fmt.Fprintf(o.writer, format, args...)
}

// Success prints a success message in green.
func (o *Output) Success(format string, args ...interface{}) {
	o.line(styleGreen, format, args...)
}

// Error prints an error message in red.
func (o *Output) Error(format string, args ...interface{}) {
	o.line(styleRed, format, args...)
}

// Warning prints a warning message in yellow.
func (o *Output) Warning(format string, args ...interface{}) {
	o.line(styleYellow, format, args...)
}

// Info prints an info message in cyan.
func (o *Output) Info(format string, args ...interface{}) {
	o.line(styleCyan, format, args...)
}

// Bold prints a bold message.
func (o *Output) Bold(format string, args ...interface{}) {
	o.line(styleBold, format, args...)
}

// Dim prints a dimmed message.
func (o *Output) Dim(format string, args ...interface{}) {
	o.line(styleDim, format, args...)
}

func (o *Output) line(style *color.Color, format string, args ...interface{}) {
	fmt.Fprintln(o.writer, o.paint(style, fmt.Sprintf(format, args...)))
}

func (o *Output) paint(style *color.Color, text string) string {
	if !o.colorEnabled {
		return text
	}
	style.EnableColor()
	return style.Sprint(text)
}

// Arrow returns the direction arrow, green for up and red for down.
func (o *Output) Arrow(d models.Direction) string {
	switch d {
	case models.DirectionUp:
		return o.paint(styleGreen, string(d))
	case models.DirectionDown:
		return o.paint(styleRed, string(d))
	default:
		return o.paint(styleDim, string(d))
	}
}

// Signed colours a signed number by its sign.
func (o *Output) Signed(v float64, text string) string {
	switch {
	case v > 0:
		return o.paint(styleGreen, text)
	case v < 0:
		return o.paint(styleRed, text)
	default:
		return text
	}
}

// Table represents a simple table for output.
type Table struct {
	headers []string
	rows    [][]string
	output  *Output
}

// NewTable creates a new table.
func NewTable(output *Output, headers ...string) *Table {
	return &Table{
		headers: headers,
		rows:    make([][]string, 0),
		output:  output,
	}
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Render renders the table.
func (t *Table) Render() {
	if len(t.headers) == 0 {
		return
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = visibleLen(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && visibleLen(cell) > widths[i] {
				widths[i] = visibleLen(cell)
			}
		}
	}

	t.printRow(t.headers, widths, true)
	t.printSeparator(widths)
	for _, row := range t.rows {
		t.printRow(row, widths, false)
	}
}

func (t *Table) printRow(cells []string, widths []int, isHeader bool) {
	parts := make([]string, 0, len(cells))
	for i, cell := range cells {
		if i >= len(widths) {
			break
		}
		padded := cell + strings.Repeat(" ", widths[i]-visibleLen(cell))
		if isHeader {
			padded = t.output.paint(styleBold, padded)
		}
		parts = append(parts, padded)
	}
	t.output.Println(strings.TrimRight(strings.Join(parts, "  "), " "))
}

func (t *Table) printSeparator(widths []int) {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("─", w)
	}
	t.output.Println(t.output.paint(styleDim, strings.Join(parts, "──")))
}

// RenderFrame prints a data table, every cell formatted for display.
func RenderFrame(output *Output, frame *table.Table) {
	names := frame.Names()
	t := NewTable(output, names...)
	for r := 0; r < frame.Len(); r++ {
		cells := make([]string, len(names))
		for i, name := range names {
			cells[i] = FormatCell(frame.Value(r, name))
		}
		t.AddRow(cells...)
	}
	t.Render()
}

// visibleLen is the printed width of s, ignoring colour codes.
func visibleLen(s string) int {
	return len([]rune(ansiPattern.ReplaceAllString(s, "")))
}
