package script

import (
	"fmt"
	"time"
)

// HistorySource records why a history entry was written.
type HistorySource string

const (
	HistorySourceManual      HistorySource = "manual"
	HistorySourceAutosave    HistorySource = "autosave"
	HistorySourceGenerated   HistorySource = "generated"
	HistorySourceTransformed HistorySource = "transformed"
	HistorySourceRestore     HistorySource = "restore"
	HistorySourceBootstrap   HistorySource = "bootstrap"
)

// AllHistorySources lists every valid source, in display order.
var AllHistorySources = []HistorySource{
	HistorySourceManual,
	HistorySourceAutosave,
	HistorySourceGenerated,
	HistorySourceTransformed,
	HistorySourceRestore,
	HistorySourceBootstrap,
}

// Valid reports whether s is a known source.
func (s HistorySource) Valid() bool {
	for _, known := range AllHistorySources {
		if s == known {
			return true
		}
	}
	return false
}

// ParseHistorySource converts a stored value back into a HistorySource.
func ParseHistorySource(v string) (HistorySource, error) {
	s := HistorySource(v)
	if !s.Valid() {
		return "", fmt.Errorf("unknown history source %q", v)
	}
	return s, nil
}

// Metadata keys written by the script service.
const (
	MetaReason      = "reason"
	MetaLabel       = "label"
	MetaPhase       = "phase"
	MetaInstruction = "instruction"
	MetaPreset      = "preset"
	MetaProvider    = "provider"
	MetaModel       = "model"
	MetaFromEntryID = "from_entry_id"
	MetaFromVersion = "from_version"
)

// HistoryEntry is an immutable full-content snapshot of a script at one version.
// (ScriptID, Version) is unique.
type HistoryEntry struct {
	ID        string                 `json:"id" db:"id"`
	ScriptID  string                 `json:"script_id" db:"script_id"`
	Version   int64                  `json:"version" db:"version"`
	Content   string                 `json:"content" db:"content"`
	Source    HistorySource          `json:"source" db:"source"`
	Metadata  map[string]interface{} `json:"metadata" db:"metadata"`
	CreatedAt time.Time              `json:"created_at" db:"created_at"`
	CreatedBy string                 `json:"created_by" db:"created_by"`

	// Truncated is set on listing results whose content was cut to a preview.
	Truncated bool `json:"truncated,omitempty" db:"-"`
}
