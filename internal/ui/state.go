package ui

import (
	"fmt"
	"sync"
)

// StateSnapshot captures a copy of the state data for rendering without
// requiring the UI to hold locks while laying out widgets.
type StateSnapshot struct {
	Status     string
	LastError  error
	AppVersion string
	ServerURL  string

	Logs []string
}

// AppState tracks the mutable state shared between the Gio event loop and
// the background goroutines loading image tiers.
type AppState struct {
	mu sync.RWMutex

	status     string
	lastError  error
	appVersion string
	serverURL  string

	logs     []string
	logLimit int
}

// NewState returns a baseline AppState with safe defaults.
func NewState() *AppState {
	return &AppState{
		status:     "Idle",
		appVersion: "dev",
		logLimit:   200,
	}
}

// Snapshot returns a copy of the mutable state for rendering.
func (s *AppState) Snapshot() StateSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	logCopy := make([]string, len(s.logs))
	copy(logCopy, s.logs)

	return StateSnapshot{
		Status:     s.status,
		LastError:  s.lastError,
		AppVersion: s.appVersion,
		ServerURL:  s.serverURL,
		Logs:       logCopy,
	}
}

// SetStatus updates the status line.
func (s *AppState) SetStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

// SetError records the most recent error; nil clears it.
func (s *AppState) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = err
}

// AppendLog adds a line to the log, dropping the oldest lines past the limit.
func (s *AppState) AppendLog(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logs = append(s.logs, msg)
	if s.logLimit > 0 && len(s.logs) > s.logLimit {
		offset := len(s.logs) - s.logLimit
		s.logs = append([]string(nil), s.logs[offset:]...)
	}
}

// Logf formats and appends a log line.
func (s *AppState) Logf(format string, args ...any) {
	s.AppendLog(fmt.Sprintf(format, args...))
}

// SetAppVersion records the build version shown in the status bar.
func (s *AppState) SetAppVersion(version string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if version == "" {
		version = "dev"
	}
	s.appVersion = version
}

// SetServerURL records the image server shown in the status bar.
func (s *AppState) SetServerURL(u string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.serverURL = u
}
