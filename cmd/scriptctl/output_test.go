package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "idive/internal/domain/models/script"
)

func TestOneLine(t *testing.T) {
	assert.Equal(t, "a b c", oneLine("a\n  b\tc", 10))
	assert.Equal(t, "abcd…", oneLine("abcdefgh", 5))
	assert.Equal(t, "héllo", oneLine("héllo", 5))
}

func TestPrintHistory_Table(t *testing.T) {
	entries := []models.HistoryEntry{
		{ID: "e2", Version: 2, Source: models.HistorySourceManual, Content: "second\ndraft", CreatedAt: time.Unix(0, 0).UTC()},
		{ID: "e1", Version: 1, Source: models.HistorySourceBootstrap, CreatedAt: time.Unix(0, 0).UTC()},
	}

	var buf bytes.Buffer
	require.NoError(t, printHistory(&buf, entries, "table"))

	out := buf.String()
	assert.Contains(t, out, "VERSION")
	assert.Contains(t, out, "second draft")
	assert.Contains(t, out, "bootstrap")
}

func TestPrintHistory_JSON(t *testing.T) {
	entries := []models.HistoryEntry{{ID: "e1", Version: 1, Source: models.HistorySourceBootstrap}}

	var buf bytes.Buffer
	require.NoError(t, printHistory(&buf, entries, "json"))

	var decoded []models.HistoryEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "e1", decoded[0].ID)
}

func TestPrintEntry_UnknownFormat(t *testing.T) {
	err := printEntry(&bytes.Buffer{}, &models.HistoryEntry{}, "yaml")
	assert.ErrorContains(t, err, "unknown output format")
}
