package sqlite

import (
	"time"

	"gorm.io/datatypes"

	models "idive/internal/domain/models/script"
)

type presenterRow struct {
	ID        string `gorm:"primaryKey"`
	UserID    string `gorm:"not null;index"`
	Name      string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type scriptRow struct {
	ID          string `gorm:"primaryKey"`
	PresenterID string `gorm:"not null;uniqueIndex"`
	Content     string `gorm:"not null"`
	Language    string `gorm:"not null"`
	Version     int64  `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	UpdatedBy   string `gorm:"not null"`
}

type historyRow struct {
	ID        string            `gorm:"primaryKey"`
	ScriptID  string            `gorm:"not null;uniqueIndex:idx_script_history_version,priority:1"`
	Version   int64             `gorm:"not null;uniqueIndex:idx_script_history_version,priority:2"`
	Content   string            `gorm:"not null"`
	Source    string            `gorm:"not null"`
	Metadata  datatypes.JSONMap `gorm:"not null"`
	CreatedAt time.Time
	CreatedBy string `gorm:"not null"`
}

func (r *presenterRow) toModel() *models.Presenter {
	return &models.Presenter{
		ID:        r.ID,
		UserID:    r.UserID,
		Name:      r.Name,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (r *scriptRow) toModel() *models.Script {
	return &models.Script{
		ID:          r.ID,
		PresenterID: r.PresenterID,
		Content:     r.Content,
		Language:    r.Language,
		Version:     r.Version,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		UpdatedBy:   r.UpdatedBy,
	}
}

func (r *historyRow) toModel() (*models.HistoryEntry, error) {
	source, err := models.ParseHistorySource(r.Source)
	if err != nil {
		return nil, err
	}

	metadata := map[string]interface{}(r.Metadata)
	if metadata == nil {
		metadata = map[string]interface{}{}
	}

	return &models.HistoryEntry{
		ID:        r.ID,
		ScriptID:  r.ScriptID,
		Version:   r.Version,
		Content:   r.Content,
		Source:    source,
		Metadata:  metadata,
		CreatedAt: r.CreatedAt,
		CreatedBy: r.CreatedBy,
	}, nil
}
