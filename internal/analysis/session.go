package analysis

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Session identifies one analysis run. Every uploaded statement gets a
// fresh session so results and log lines can be correlated later
type Session struct {
	// ID is a random UUID assigned at session start
	ID string `json:"id"`

	// FileName is the base name of the analyzed statement
	FileName string `json:"file_name"`

	// StartedAt is when the session was opened
	StartedAt time.Time `json:"started_at"`
}

// NewSession opens a new analysis session for the given statement file
func NewSession(fileName string) *Session {
	return &Session{
		ID:        uuid.NewString(),
		FileName:  fileName,
		StartedAt: time.Now(),
	}
}

// Duration returns the time elapsed since the session was opened
func (s *Session) Duration() time.Duration {
	return time.Since(s.StartedAt)
}

// String returns a human-readable session description
func (s *Session) String() string {
	return fmt.Sprintf("Session{ID: %s, File: %s}", s.ID, s.FileName)
}
