package session

import (
	"sync"

	"github.com/SoonerRobotics/SusScope/internal/logging"
)

// Session tracks the filesystem path of the currently selected archive.
type Session struct {
	mu          sync.Mutex
	archivePath string
}

// Selection is the outcome of the archive-selection collaborator (the
// native file dialog). Chosen is false when the dialog was dismissed.
type Selection struct {
	Path   string `json:"path"`
	Chosen bool   `json:"chosen"`
}

// New returns an empty session with no archive selected.
func New() *Session {
	return &Session{}
}

// SetActiveArchive replaces the active archive path. The path is not
// validated here; readers report an empty result if it cannot be opened.
// An empty path clears the selection.
func (s *Session) SetActiveArchive(path string) {
	s.mu.Lock()
	s.archivePath = path
	s.mu.Unlock()
}

// ActiveArchive returns a copy of the active path and whether one is set.
func (s *Session) ActiveArchive() (string, bool) {
	s.mu.Lock()
	path := s.archivePath
	s.mu.Unlock()
	return path, path != ""
}

// Clear drops the active archive.
func (s *Session) Clear() {
	s.SetActiveArchive("")
}

// Apply stores a dialog result. A dismissed dialog leaves the current
// selection untouched and reports false.
func (s *Session) Apply(sel Selection) bool {
	if !sel.Chosen {
		logging.Debug("Archive selection dismissed, keeping current session")
		return false
	}
	s.SetActiveArchive(sel.Path)
	logging.Info("Active archive set to %q", sel.Path)
	return true
}
