package main

import "github.com/charmbracelet/lipgloss"

var (
	kindStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")) // cyan
	okStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))            // green
	warnStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))            // yellow
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))            // red
	dimStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))            // gray
	nameStyle       = lipgloss.NewStyle().Bold(true)
	textBlock       = lipgloss.NewStyle().PaddingLeft(2)
	tweetIndexStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")) // blue
)
