package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dreschagin/rai-dashboard/internal/domain/entity"
	"github.com/dreschagin/rai-dashboard/internal/domain/valueobject"
)

// SectionChangeDBModel представляет смену раздела в БД
type SectionChangeDBModel struct {
	ID          string
	FromSection string
	ToSection   string
	Source      string
	OccurredAt  time.Time
	CreatedAt   time.Time
}

// ToDBModel конвертирует Domain Entity в DB Model
func ToDBModel(change *entity.SectionChange, now time.Time) *SectionChangeDBModel {
	return &SectionChangeDBModel{
		ID:          change.ID(),
		FromSection: change.From().String(),
		ToSection:   change.To().String(),
		Source:      string(change.Source()),
		OccurredAt:  change.OccurredAt().UTC(),
		CreatedAt:   now.UTC(),
	}
}

// ToEntity конвертирует DB Model в Domain Entity
func ToEntity(model *SectionChangeDBModel) (*entity.SectionChange, error) {
	from, err := valueobject.ParseSection(model.FromSection)
	if err != nil {
		return nil, fmt.Errorf("invalid from_section in row %s: %w", model.ID, err)
	}
	to, err := valueobject.ParseSection(model.ToSection)
	if err != nil {
		return nil, fmt.Errorf("invalid to_section in row %s: %w", model.ID, err)
	}

	return entity.ReconstructSectionChange(
		model.ID,
		from,
		to,
		entity.ChangeSource(model.Source),
		model.OccurredAt.UTC(),
	), nil
}

// ScanSectionChangeRow сканирует строку из sql.Rows
func ScanSectionChangeRow(rows *sql.Rows) (*SectionChangeDBModel, error) {
	var model SectionChangeDBModel
	err := rows.Scan(
		&model.ID,
		&model.FromSection,
		&model.ToSection,
		&model.Source,
		&model.OccurredAt,
		&model.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &model, nil
}
