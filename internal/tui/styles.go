// Package tui implements a terminal visualizer for a flashcard template
// run: a live list of generation tasks and their state transitions,
// streamed from the Flow Executor's trace events.
package tui

import "github.com/charmbracelet/lipgloss"

// Step status glyphs — convey meaning without relying on color alone.
const (
	GlyphPending   = "○"
	GlyphRunning   = "▸"
	GlyphWaiting   = "…"
	GlyphDone      = "✓"
	GlyphFailed    = "✗"
	GlyphCancelled = "⦸"
)

var (
	colorGreen  = lipgloss.Color("42")
	colorRed    = lipgloss.Color("196")
	colorYellow = lipgloss.Color("214")
	colorCyan   = lipgloss.Color("51")
	colorDim    = lipgloss.Color("240")
	colorWhite  = lipgloss.Color("255")
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Padding(0, 1)

	stepPending   = lipgloss.NewStyle().Foreground(colorDim)
	stepRunning   = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	stepWaiting   = lipgloss.NewStyle().Foreground(colorYellow)
	stepDone      = lipgloss.NewStyle().Foreground(colorGreen)
	stepFailed    = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	stepCancelled = lipgloss.NewStyle().Faint(true)

	panelBorder = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
	panelTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Padding(0, 1)

	detailStyle = lipgloss.NewStyle().Foreground(colorWhite)
)
