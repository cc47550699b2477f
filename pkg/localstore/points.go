package localstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/vectordb"
)

// Upsert implements vectordb.Backend. The batch is written in one
// transaction; a dimension error on any point writes nothing.
func (s *Store) Upsert(ctx context.Context, collection string, points []vectordb.Point) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	row, err := s.collection(ctx, tx, collection)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO points (collection, id, vector, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE SET
			vector = excluded.vector,
			payload = excluded.payload,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range points {
		if len(p.Vector) != row.vectorSize {
			return fmt.Errorf("wrong input: vector dimension error: expected dim: %d, got %d: %w",
				row.vectorSize, len(p.Vector), vectordb.ErrBackendInvalid)
		}
		payload, err := encodePayload(p.Payload)
		if err != nil {
			return fmt.Errorf("wrong input: payload of point %s: %v: %w", p.ID, err, vectordb.ErrBackendInvalid)
		}
		if _, err := stmt.ExecContext(ctx, collection, encodeID(p.ID), encodeFloat32s(p.Vector), payload); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Retrieve implements vectordb.Backend.
func (s *Store) Retrieve(ctx context.Context, collection string, ids []vectordb.PointID, withPayload, withVector bool) ([]vectordb.Point, error) {
	if _, err := s.collection(ctx, s.db, collection); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []vectordb.Point{}, nil
	}

	query, args := inClause(`SELECT id, vector, payload FROM points WHERE collection = ? AND id IN (%s)`, collection, ids)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := make([]vectordb.Point, 0, len(ids))
	for rows.Next() {
		var (
			key     string
			blob    []byte
			payload sql.NullString
		)
		if err := rows.Scan(&key, &blob, &payload); err != nil {
			return nil, err
		}
		p := vectordb.Point{ID: decodeID(key)}
		if withVector {
			p.Vector = decodeFloat32s(blob)
		}
		if withPayload {
			if p.Payload, err = decodePayload(payload.String); err != nil {
				return nil, err
			}
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// Delete implements vectordb.Backend.
func (s *Store) Delete(ctx context.Context, collection string, ids []vectordb.PointID) error {
	if _, err := s.collection(ctx, s.db, collection); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	query, args := inClause(`DELETE FROM points WHERE collection = ? AND id IN (%s)`, collection, ids)
	_, err := s.db.ExecContext(ctx, query, args...)
	return err
}

func inClause(format, collection string, ids []vectordb.PointID) (string, []any) {
	args := make([]any, 0, len(ids)+1)
	args = append(args, collection)
	for _, id := range ids {
		args = append(args, encodeID(id))
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	return fmt.Sprintf(format, placeholders), args
}
