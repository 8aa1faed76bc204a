package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmedhrayyan/phonebook-backend/internal/model"
	"github.com/ahmedhrayyan/phonebook-backend/internal/repository"
	"github.com/ahmedhrayyan/phonebook-backend/internal/validation"

	"github.com/sirupsen/logrus"
)

const (
	msgTypeMissing    = "Type does not exist."
	msgContactMissing = "Contact does not exist."
)

// ContactService defines operations on a user's contacts
type ContactService interface {
	List(ctx context.Context, userID int) ([]model.Contact, error)
	Create(ctx context.Context, userID int, req model.CreateContactRequest) (*model.Contact, error)
	Update(ctx context.Context, contactID, userID int, req model.UpdateContactRequest) (map[string]any, error)
	Delete(ctx context.Context, contactID, userID int) error
}

type contactService struct {
	contacts repository.ContactRepository
	types    repository.TypeRepository
	log      logrus.FieldLogger
}

// NewContactService creates a new ContactService
func NewContactService(contacts repository.ContactRepository, types repository.TypeRepository, log logrus.FieldLogger) ContactService {
	return &contactService{contacts: contacts, types: types, log: log}
}

func (s *contactService) List(ctx context.Context, userID int) ([]model.Contact, error) {
	contacts, err := s.contacts.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return contacts, nil
}

// Create stores the contact and its phones atomically. Every phone's type must exist.
func (s *contactService) Create(ctx context.Context, userID int, req model.CreateContactRequest) (*model.Contact, error) {
	ids := make([]int, 0, len(req.Phones))
	for _, p := range req.Phones {
		ids = append(ids, p.TypeID)
	}
	found, err := s.types.ExistingIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to check phone types: %w", err)
	}

	errs := validation.Errors{}
	phones := make([]model.Phone, 0, len(req.Phones))
	for i, p := range req.Phones {
		if !found[p.TypeID] {
			errs.Add(fmt.Sprintf("phones[%d].type_id", i), msgTypeMissing)
		}
		phones = append(phones, model.Phone{Value: strings.TrimSpace(p.Value), TypeID: p.TypeID})
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	contact := &model.Contact{
		UserID:    userID,
		Name:      strings.TrimSpace(req.Name),
		Email:     model.Nullable(req.Email),
		Avatar:    model.Nullable(req.Avatar),
		CreatedAt: time.Now(),
		Phones:    phones,
	}
	if err := s.contacts.Create(ctx, contact); err != nil {
		if errors.Is(err, repository.ErrInvalidReference) {
			return nil, validation.Field("phones", msgTypeMissing)
		}
		return nil, fmt.Errorf("failed to create contact in repo: %w", err)
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "contact_id": contact.ID}).Info("contact created")
	return contact, nil
}

// owned loads a contact and checks it belongs to userID. Existence is checked first.
func (s *contactService) owned(ctx context.Context, contactID, userID int) (*model.Contact, error) {
	contact, err := s.contacts.FindByID(ctx, contactID)
	if err != nil {
		return nil, fmt.Errorf("failed to find contact by ID: %w", err)
	}
	if contact == nil {
		return nil, ErrContactNotFound
	}
	if contact.UserID != userID {
		return nil, ErrForbidden
	}
	return contact, nil
}

// Update applies the supplied fields only and returns them with the contact id.
func (s *contactService) Update(ctx context.Context, contactID, userID int, req model.UpdateContactRequest) (map[string]any, error) {
	contact, err := s.owned(ctx, contactID, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		req.Name = &name
		contact.Name = name
	}
	if req.Email != nil {
		contact.Email = model.Nullable(req.Email)
	}
	if req.Avatar != nil {
		contact.Avatar = model.Nullable(req.Avatar)
	}

	if err := s.contacts.Update(ctx, contact); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to update contact in repo: %w", err)
	}
	return req.Changes(contact.ID), nil
}

// Delete removes the contact; its phones are removed with it.
func (s *contactService) Delete(ctx context.Context, contactID, userID int) error {
	if _, err := s.owned(ctx, contactID, userID); err != nil {
		return err
	}
	if err := s.contacts.Delete(ctx, contactID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrContactNotFound
		}
		return fmt.Errorf("failed to delete contact in repo: %w", err)
	}
	s.log.WithFields(logrus.Fields{"user_id": userID, "contact_id": contactID}).Info("contact deleted")
	return nil
}
