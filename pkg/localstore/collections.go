package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/vectordb"
)

// collectionStatus is what a healthy server reports; an embedded store has
// no optimizer states to surface.
const collectionStatus = "green"

type collectionRow struct {
	vectorSize int
	distance   vectordb.Distance
	onDisk     bool
}

func notFound(name string) error {
	return fmt.Errorf("collection `%s` doesn't exist: %w", name, vectordb.ErrBackendNotFound)
}

// ListCollections implements vectordb.Backend.
func (s *Store) ListCollections(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM collections ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// CollectionExists implements vectordb.Backend.
func (s *Store) CollectionExists(ctx context.Context, name string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM collections WHERE name = ?`, name).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (s *Store) collection(ctx context.Context, q querier, name string) (collectionRow, error) {
	var (
		row    collectionRow
		dist   string
		onDisk int
	)
	err := q.QueryRowContext(ctx,
		`SELECT vector_size, distance, on_disk FROM collections WHERE name = ?`, name,
	).Scan(&row.vectorSize, &dist, &onDisk)
	if errors.Is(err, sql.ErrNoRows) {
		return row, notFound(name)
	}
	if err != nil {
		return row, err
	}
	row.distance = vectordb.Distance(dist)
	row.onDisk = onDisk != 0
	return row, nil
}

// GetCollection implements vectordb.Backend.
func (s *Store) GetCollection(ctx context.Context, name string) (vectordb.Collection, error) {
	row, err := s.collection(ctx, s.db, name)
	if err != nil {
		return vectordb.Collection{}, err
	}

	var count uint64
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM points WHERE collection = ?`, name,
	).Scan(&count); err != nil {
		return vectordb.Collection{}, err
	}

	return vectordb.Collection{
		Name:         name,
		VectorSize:   row.vectorSize,
		Distance:     row.distance,
		OnDisk:       row.onDisk,
		Status:       collectionStatus,
		VectorsCount: count,
		PointsCount:  count,
	}, nil
}

// CreateCollection implements vectordb.Backend.
func (s *Store) CreateCollection(ctx context.Context, spec vectordb.CollectionSpec) error {
	if spec.VectorSize <= 0 {
		return fmt.Errorf("wrong input: vector size must be positive: %w", vectordb.ErrBackendInvalid)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO collections (name, vector_size, distance, on_disk) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO NOTHING`,
		spec.Name, spec.VectorSize, string(spec.Distance), boolInt(spec.OnDisk),
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("collection `%s` already exists: %w", spec.Name, vectordb.ErrBackendConflict)
	}
	return nil
}

// DeleteCollection implements vectordb.Backend.
func (s *Store) DeleteCollection(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM collections WHERE name = ?`, name)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound(name)
	}
	return nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
