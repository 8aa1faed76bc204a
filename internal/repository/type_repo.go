package repository

import (
	"context"
	"fmt"

	"github.com/ahmedhrayyan/phonebook-backend/internal/model"
)

// TypeRepository reads the seeded phone types
type TypeRepository interface {
	List(ctx context.Context) ([]model.Type, error)
	ExistingIDs(ctx context.Context, ids []int) (map[int]bool, error)
}

type typeRepository struct {
	db DBTX
}

// NewTypeRepository creates a new TypeRepository
func NewTypeRepository(db DBTX) TypeRepository {
	return &typeRepository{db: db}
}

// List returns every type ordered by ID
func (r *typeRepository) List(ctx context.Context) ([]model.Type, error) {
	rows, err := r.db.Query(ctx, `SELECT id, value FROM types ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query types: %w", err)
	}
	defer rows.Close()

	types := []model.Type{}
	for rows.Next() {
		var t model.Type
		if err := rows.Scan(&t.ID, &t.Value); err != nil {
			return nil, fmt.Errorf("failed to scan type row: %w", err)
		}
		types = append(types, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating type rows: %w", err)
	}
	return types, nil
}

// ExistingIDs reports which of ids are present in the types table
func (r *typeRepository) ExistingIDs(ctx context.Context, ids []int) (map[int]bool, error) {
	found := make(map[int]bool, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	rows, err := r.db.Query(ctx, `SELECT id FROM types WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query type ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan type id: %w", err)
		}
		found[id] = true
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating type ids: %w", err)
	}
	return found, nil
}
