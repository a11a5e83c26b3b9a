package config

import "time"

const (
	// MaxPresenterNameLength is the maximum length for presenter names.
	MaxPresenterNameLength = 100

	// MaxScriptContentLength bounds a single script body (in runes).
	// A spoken script of this size is well over an hour of video; anything
	// longer is almost certainly a paste accident.
	MaxScriptContentLength = 100_000

	// MaxInstructionLength bounds transform instructions and generation briefs.
	MaxInstructionLength = 2000

	// MaxSnapshotLabelLength bounds the optional label on manual snapshots.
	MaxSnapshotLabelLength = 200

	// MinGeneratedContentChars is the shortest generated script we accept,
	// counted in runes after whitespace normalization.
	MinGeneratedContentChars = 80

	// DefaultHistoryLimit is used when a history listing asks for no limit.
	DefaultHistoryLimit = 50

	// MaxHistoryLimit caps history listings regardless of what was asked for.
	MaxHistoryLimit = 200

	// HistoryPreviewChars is the content length (in runes) embedded in history
	// listings. Longer entries are truncated and must be fetched individually.
	HistoryPreviewChars = 2000

	// DefaultGenerationTimeout bounds one call to the text generator.
	DefaultGenerationTimeout = 60 * time.Second
)
