package view

import "github.com/charmbracelet/lipgloss"

// Row markers.
const (
	markerCollapsed = "▸"
	markerExpanded  = "▾"
	markerLeaf      = "·"
	markerShared    = "↺"
)

// indentUnit is written once per level of depth.
const indentUnit = "  "

// Styles.
var (
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	keywordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	unnamedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	sharedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	markerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	matchStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	cursorStyle  = lipgloss.NewStyle().Reverse(true)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
)
