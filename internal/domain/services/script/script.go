package script

import (
	"context"

	models "idive/internal/domain/models/script"
)

// ScriptService owns the live script of each presenter and its history.
// Every method checks that userID owns the presenter behind the script;
// a script the caller does not own is reported as not found.
type ScriptService interface {
	// EnsureScript returns the presenter's script, creating it (version 1,
	// empty content, bootstrap history entry) on first access.
	EnsureScript(ctx context.Context, userID, presenterID string) (*models.Script, error)

	// GetScript retrieves the current script
	GetScript(ctx context.Context, userID, scriptID string) (*models.Script, error)

	// SaveScript writes client supplied content as the next version.
	// A stale ExpectedVersion without Force returns *domain.ScriptConflictError.
	SaveScript(ctx context.Context, req *SaveScriptRequest) (*models.Script, error)

	// Snapshot records the current version as a manual history entry.
	// Returns the already stored entry when that version is in history.
	Snapshot(ctx context.Context, req *SnapshotRequest) (*models.HistoryEntry, error)

	// ListHistory returns entries newest first with long content truncated
	ListHistory(ctx context.Context, userID, scriptID string, limit int) ([]models.HistoryEntry, error)

	// GetHistoryEntry returns one entry with full content. Entries of other
	// scripts are not found.
	GetHistoryEntry(ctx context.Context, userID, scriptID, entryID string) (*models.HistoryEntry, error)

	// Restore writes the content of a history entry as a new version
	Restore(ctx context.Context, userID, scriptID, entryID string) (*models.Script, error)

	// Transform rewrites the script with the text generator following an
	// instruction or preset name.
	Transform(ctx context.Context, req *TransformRequest) (*models.Script, error)

	// Generate writes a new script from a brief with the text generator
	Generate(ctx context.Context, req *GenerateRequest) (*models.Script, error)
}

// SaveScriptRequest represents a script save request
type SaveScriptRequest struct {
	ScriptID        string  `json:"-"` // From URL path
	UserID          string  `json:"-"` // Set by handler from auth context, not from request body
	Content         string  `json:"content"`
	Language        *string `json:"language,omitempty"`
	ExpectedVersion *int64  `json:"expected_version,omitempty"`
	Force           bool    `json:"force,omitempty"`
	// Source is "autosave" (default) or "manual"
	Source string `json:"source,omitempty"`
}

// SnapshotRequest represents a manual checkpoint request
type SnapshotRequest struct {
	ScriptID string `json:"-"`
	UserID   string `json:"-"`
	Label    string `json:"label,omitempty"`
}

// TransformRequest represents an AI rewrite of the current content
type TransformRequest struct {
	ScriptID        string `json:"-"`
	UserID          string `json:"-"`
	Instruction     string `json:"instruction"` // Free text or a preset name ("shorten", "translate:es")
	ExpectedVersion *int64 `json:"expected_version,omitempty"`
}

// GenerateRequest represents an AI generation of a new script from a brief
type GenerateRequest struct {
	ScriptID        string `json:"-"`
	UserID          string `json:"-"`
	Brief           string `json:"brief"`
	ExpectedVersion *int64 `json:"expected_version,omitempty"`
}
