package app

import (
	"strings"
	"time"
)

type statusLevel int

const (
	statusLevelInfo statusLevel = iota
	statusLevelWarning
	statusLevelError
)

const statusDuration = 5 * time.Second

func (m *Model) setStatus(level statusLevel, message string) {
	message = strings.TrimSpace(message)
	if message == "" {
		return
	}
	m.status = message
	m.statusLevel = level
	m.statusUntil = m.now().Add(statusDuration)
}

func (m *Model) setStatusInfo(message string)    { m.setStatus(statusLevelInfo, message) }
func (m *Model) setStatusWarning(message string) { m.setStatus(statusLevelWarning, message) }
func (m *Model) setStatusError(message string)   { m.setStatus(statusLevelError, message) }

// expireStatus clears info messages once they are stale. Warnings and errors
// stay until replaced.
func (m *Model) expireStatus(at time.Time) {
	if m.status == "" || m.statusLevel != statusLevelInfo {
		return
	}
	if !m.statusUntil.IsZero() && at.After(m.statusUntil) {
		m.status = ""
		m.statusUntil = time.Time{}
	}
}

func (m *Model) Status() string {
	return m.status
}
