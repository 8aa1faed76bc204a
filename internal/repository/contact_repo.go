package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmedhrayyan/phonebook-backend/internal/model"

	"github.com/jackc/pgx/v5"
)

// ContactRepository defines operations for contact data
type ContactRepository interface {
	Repository[model.Contact]
	FindByUser(ctx context.Context, userID int) ([]model.Contact, error)
}

type contactRepository struct {
	db DBTX
}

// NewContactRepository creates a new ContactRepository
func NewContactRepository(db DBTX) ContactRepository {
	return &contactRepository{db: db}
}

// Create inserts the contact and all of its phones in one transaction.
// Nothing is persisted unless every insert succeeds.
func (r *contactRepository) Create(ctx context.Context, c *model.Contact) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := insertContact(ctx, tx, c); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit contact: %w", err)
	}
	return nil
}

func insertContact(ctx context.Context, tx pgx.Tx, c *model.Contact) error {
	sql := `INSERT INTO contacts (user_id, name, email, avatar, created_at)
            VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := tx.QueryRow(ctx, sql, c.UserID, c.Name, c.Email, c.Avatar, c.CreatedAt).Scan(&c.ID); err != nil {
		return fmt.Errorf("failed to create contact: %w", translate(err))
	}

	for i := range c.Phones {
		p := &c.Phones[i]
		p.ContactID = c.ID
		if err := insertPhone(ctx, tx, p); err != nil {
			return err
		}
	}
	return nil
}

// FindByID retrieves a contact with its phones
func (r *contactRepository) FindByID(ctx context.Context, id int) (*model.Contact, error) {
	c := &model.Contact{}
	sql := `SELECT id, user_id, name, email, avatar, created_at FROM contacts WHERE id = $1`
	err := r.db.QueryRow(ctx, sql, id).Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.Avatar, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find contact by ID: %w", err)
	}

	phones, err := r.phonesFor(ctx, []int{c.ID})
	if err != nil {
		return nil, err
	}
	c.Phones = phones[c.ID]
	if c.Phones == nil {
		c.Phones = []model.Phone{}
	}
	return c, nil
}

// FindByUser lists a user's contacts newest first, phones included
func (r *contactRepository) FindByUser(ctx context.Context, userID int) ([]model.Contact, error) {
	sql := `SELECT id, user_id, name, email, avatar, created_at FROM contacts WHERE user_id = $1 ORDER BY id DESC`
	rows, err := r.db.Query(ctx, sql, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts by user: %w", err)
	}
	defer rows.Close()

	contacts := []model.Contact{}
	var ids []int
	for rows.Next() {
		var c model.Contact
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.Avatar, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact row: %w", err)
		}
		contacts = append(contacts, c)
		ids = append(ids, c.ID)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contact rows: %w", err)
	}
	if len(ids) == 0 {
		return contacts, nil
	}

	phones, err := r.phonesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range contacts {
		contacts[i].Phones = phones[contacts[i].ID]
		if contacts[i].Phones == nil {
			contacts[i].Phones = []model.Phone{}
		}
	}
	return contacts, nil
}

// Update modifies name, email and avatar of an existing contact
func (r *contactRepository) Update(ctx context.Context, c *model.Contact) error {
	sql := `UPDATE contacts SET name = $1, email = $2, avatar = $3 WHERE id = $4`
	tag, err := r.db.Exec(ctx, sql, c.Name, c.Email, c.Avatar, c.ID)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a contact; its phones are removed by ON DELETE CASCADE.
func (r *contactRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *contactRepository) phonesFor(ctx context.Context, contactIDs []int) (map[int][]model.Phone, error) {
	sql := `SELECT id, value, type_id, contact_id FROM phones WHERE contact_id = ANY($1) ORDER BY id`
	rows, err := r.db.Query(ctx, sql, contactIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query phones: %w", err)
	}
	defer rows.Close()

	byContact := make(map[int][]model.Phone, len(contactIDs))
	for rows.Next() {
		var p model.Phone
		if err := rows.Scan(&p.ID, &p.Value, &p.TypeID, &p.ContactID); err != nil {
			return nil, fmt.Errorf("failed to scan phone row: %w", err)
		}
		byContact[p.ContactID] = append(byContact[p.ContactID], p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating phone rows: %w", err)
	}
	return byContact, nil
}
