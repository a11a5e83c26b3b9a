package script

import "time"

// InitialVersion is the version of a freshly provisioned script.
const InitialVersion int64 = 1

// Script is the live, mutable script of a presenter (one per presenter).
// Version increases by exactly one on every accepted write.
type Script struct {
	ID          string    `json:"id" db:"id"`
	PresenterID string    `json:"presenter_id" db:"presenter_id"`
	Content     string    `json:"content" db:"content"`
	Language    string    `json:"language" db:"language"`
	Version     int64     `json:"version" db:"version"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
	UpdatedBy   string    `json:"updated_by" db:"updated_by"`
}

// ContentUpdate describes one versioned write to a script.
//
// When BaseVersion is set the write only applies if the stored version still
// equals it. When nil the write applies unconditionally (force overwrite).
// Either way the stored version becomes the previous version plus one.
type ContentUpdate struct {
	ScriptID    string
	Content     string
	Language    *string // nil keeps the current language
	BaseVersion *int64
	UpdatedBy   string
	UpdatedAt   time.Time
}
