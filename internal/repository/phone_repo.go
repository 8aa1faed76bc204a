package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmedhrayyan/phonebook-backend/internal/model"

	"github.com/jackc/pgx/v5"
)

// PhoneRepository defines operations for phone data
type PhoneRepository interface {
	Repository[model.Phone]
}

type phoneRepository struct {
	db DBTX
}

// NewPhoneRepository creates a new PhoneRepository
func NewPhoneRepository(db DBTX) PhoneRepository {
	return &phoneRepository{db: db}
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertPhone(ctx context.Context, q querier, p *model.Phone) error {
	sql := `INSERT INTO phones (value, type_id, contact_id) VALUES ($1, $2, $3) RETURNING id`
	if err := q.QueryRow(ctx, sql, p.Value, p.TypeID, p.ContactID).Scan(&p.ID); err != nil {
		return fmt.Errorf("failed to create phone: %w", translate(err))
	}
	return nil
}

// Create inserts a standalone phone. Unknown type or contact yields ErrInvalidReference.
func (r *phoneRepository) Create(ctx context.Context, p *model.Phone) error {
	return insertPhone(ctx, r.db, p)
}

// FindByID retrieves a phone by its ID
func (r *phoneRepository) FindByID(ctx context.Context, id int) (*model.Phone, error) {
	p := &model.Phone{}
	sql := `SELECT id, value, type_id, contact_id FROM phones WHERE id = $1`
	err := r.db.QueryRow(ctx, sql, id).Scan(&p.ID, &p.Value, &p.TypeID, &p.ContactID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find phone by ID: %w", err)
	}
	return p, nil
}

// Update modifies value and type; the owning contact never changes.
func (r *phoneRepository) Update(ctx context.Context, p *model.Phone) error {
	sql := `UPDATE phones SET value = $1, type_id = $2 WHERE id = $3`
	tag, err := r.db.Exec(ctx, sql, p.Value, p.TypeID, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update phone: %w", translate(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a phone
func (r *phoneRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM phones WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete phone: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
