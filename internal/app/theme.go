package app

import "charm.land/lipgloss/v2"

var (
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusWarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	statusErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	statusPlayerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
)

func styleForStatus(level statusLevel) lipgloss.Style {
	switch level {
	case statusLevelWarning:
		return statusWarningStyle
	case statusLevelError:
		return statusErrorStyle
	default:
		return statusStyle
	}
}
