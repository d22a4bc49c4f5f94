package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/kanso-plan-engine/internal/core/domain"
)

var _ domain.SnapshotStore = (*PostgresSnapshotStore)(nil)

// PostgresSnapshotStore keeps snapshots in the plan_snapshots key/value
// table created by the embedded migrations.
type PostgresSnapshotStore struct {
	db  *sqlx.DB
	key string
	now func() time.Time
}

type snapshotRow struct {
	Key       string    `db:"key"`
	Data      []byte    `db:"data"`
	UpdatedAt time.Time `db:"updated_at"`
}

func NewPostgresSnapshotStore(db *sqlx.DB, key string) *PostgresSnapshotStore {
	if key == "" {
		key = DefaultSnapshotKey
	}
	return &PostgresSnapshotStore{
		db:  db,
		key: key,
		now: time.Now,
	}
}

func (s *PostgresSnapshotStore) Load(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `
		SELECT key, data, updated_at
		FROM plan_snapshots
		WHERE key = $1
	`

	var row snapshotRow
	if err := s.db.GetContext(ctx, &row, query, s.key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("postgres snapshot: load %s: %w", s.key, err)
	}

	return row.Data, nil
}

func (s *PostgresSnapshotStore) Save(ctx context.Context, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `
		INSERT INTO plan_snapshots (key, data, updated_at)
		VALUES (:key, :data, :updated_at)
		ON CONFLICT (key) DO UPDATE
		SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at
	`

	row := snapshotRow{
		Key:       s.key,
		Data:      data,
		UpdatedAt: s.now().UTC(),
	}

	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("postgres snapshot: save %s: %w", s.key, err)
	}
	return nil
}
