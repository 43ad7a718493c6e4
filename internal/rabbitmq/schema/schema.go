package schema

import (
	"encoding/json"
	"time"
)

// PasswordResetLink is queued by the HTTP server and delivered by the mailer.
type PasswordResetLink struct {
	Email      string    `json:"email"`
	Secret     string    `json:"secret"`
	URL        string    `json:"url"`
	EnqueuedAt time.Time `json:"enqueuedAt"`
}

func (l *PasswordResetLink) Marshal() ([]byte, error) {
	return json.Marshal(l)
}

func (l *PasswordResetLink) Unmarshal(data []byte) error {
	return json.Unmarshal(data, l)
}
