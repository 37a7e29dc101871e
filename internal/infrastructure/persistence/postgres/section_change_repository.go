package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/dreschagin/rai-dashboard/internal/domain/entity"
	"github.com/dreschagin/rai-dashboard/internal/domain/repository"
)

const schema = `
CREATE TABLE IF NOT EXISTS section_changes (
	id           UUID PRIMARY KEY,
	from_section TEXT NOT NULL,
	to_section   TEXT NOT NULL,
	source       TEXT NOT NULL,
	occurred_at  TIMESTAMPTZ NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_section_changes_occurred_at ON section_changes (occurred_at DESC);
`

// PostgresSectionChangeRepository реализует repository.SectionChangeRepository для PostgreSQL.
// Таблица только дополняется.
type PostgresSectionChangeRepository struct {
	db  *sql.DB
	now func() time.Time
}

var _ repository.SectionChangeRepository = (*PostgresSectionChangeRepository)(nil)

// NewPostgresSectionChangeRepository создает новый PostgreSQL repository
func NewPostgresSectionChangeRepository(db *sql.DB) *PostgresSectionChangeRepository {
	return &PostgresSectionChangeRepository{
		db:  db,
		now: time.Now,
	}
}

// Open открывает пул соединений и проверяет доступность БД
func Open(ctx context.Context, dsn string, maxOpen, maxIdle int, maxLifetime time.Duration) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(maxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// EnsureSchema создает таблицу журнала, если ее нет
func (r *PostgresSectionChangeRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create section_changes schema: %w", err)
	}
	return nil
}

// Save сохраняет одно событие
func (r *PostgresSectionChangeRepository) Save(ctx context.Context, change *entity.SectionChange) error {
	model := ToDBModel(change, r.now())

	query := `
		INSERT INTO section_changes (id, from_section, to_section, source, occurred_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query,
		model.ID,
		model.FromSection,
		model.ToSection,
		model.Source,
		model.OccurredAt,
		model.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert section change: %w", err)
	}

	return nil
}

// FindRecent возвращает последние события, новые первыми
func (r *PostgresSectionChangeRepository) FindRecent(ctx context.Context, limit int) ([]*entity.SectionChange, error) {
	query := `
		SELECT id, from_section, to_section, source, occurred_at, created_at
		FROM section_changes
		ORDER BY occurred_at DESC, created_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query section changes: %w", err)
	}
	defer rows.Close()

	changes := make([]*entity.SectionChange, 0, limit)
	for rows.Next() {
		model, err := ScanSectionChangeRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan section change: %w", err)
		}

		change, err := ToEntity(model)
		if err != nil {
			return nil, err
		}
		changes = append(changes, change)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return changes, nil
}
