package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmedhrayyan/phonebook-backend/internal/model"
	"github.com/ahmedhrayyan/phonebook-backend/internal/repository"
	"github.com/ahmedhrayyan/phonebook-backend/internal/validation"

	"github.com/sirupsen/logrus"
)

// PhoneService defines operations on phones; a phone is owned through its contact
type PhoneService interface {
	Create(ctx context.Context, userID int, req model.CreatePhoneRequest) (*model.Phone, error)
	Update(ctx context.Context, phoneID, userID int, req model.UpdatePhoneRequest) (map[string]any, error)
	Delete(ctx context.Context, phoneID, userID int) (contactID int, err error)
}

type phoneService struct {
	phones   repository.PhoneRepository
	contacts repository.ContactRepository
	types    repository.TypeRepository
	log      logrus.FieldLogger
}

// NewPhoneService creates a new PhoneService
func NewPhoneService(phones repository.PhoneRepository, contacts repository.ContactRepository, types repository.TypeRepository, log logrus.FieldLogger) PhoneService {
	return &phoneService{phones: phones, contacts: contacts, types: types, log: log}
}

func (s *phoneService) typeExists(ctx context.Context, typeID int) (bool, error) {
	found, err := s.types.ExistingIDs(ctx, []int{typeID})
	if err != nil {
		return false, fmt.Errorf("failed to check phone type: %w", err)
	}
	return found[typeID], nil
}

// Create adds a phone to one of the user's contacts.
// Unknown type or contact is a validation error; someone else's contact is forbidden.
func (s *phoneService) Create(ctx context.Context, userID int, req model.CreatePhoneRequest) (*model.Phone, error) {
	errs := validation.Errors{}

	ok, err := s.typeExists(ctx, req.TypeID)
	if err != nil {
		return nil, err
	}
	if !ok {
		errs.Add("type_id", msgTypeMissing)
	}

	contact, err := s.contacts.FindByID(ctx, req.ContactID)
	if err != nil {
		return nil, fmt.Errorf("failed to find contact by ID: %w", err)
	}
	if contact == nil {
		errs.Add("contact_id", msgContactMissing)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	if contact.UserID != userID {
		return nil, ErrForbidden
	}

	phone := &model.Phone{
		Value:     strings.TrimSpace(req.Value),
		TypeID:    req.TypeID,
		ContactID: contact.ID,
	}
	if err := s.phones.Create(ctx, phone); err != nil {
		if errors.Is(err, repository.ErrInvalidReference) {
			return nil, validation.Field("contact_id", msgContactMissing)
		}
		return nil, fmt.Errorf("failed to create phone in repo: %w", err)
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "phone_id": phone.ID, "contact_id": contact.ID}).Info("phone created")
	return phone, nil
}

// owned loads a phone and checks its contact belongs to userID.
func (s *phoneService) owned(ctx context.Context, phoneID, userID int) (*model.Phone, error) {
	phone, err := s.phones.FindByID(ctx, phoneID)
	if err != nil {
		return nil, fmt.Errorf("failed to find phone by ID: %w", err)
	}
	if phone == nil {
		return nil, ErrPhoneNotFound
	}

	contact, err := s.contacts.FindByID(ctx, phone.ContactID)
	if err != nil {
		return nil, fmt.Errorf("failed to find phone's contact: %w", err)
	}
	if contact == nil {
		return nil, ErrPhoneNotFound
	}
	if contact.UserID != userID {
		return nil, ErrForbidden
	}
	return phone, nil
}

// Update applies the supplied fields only. The contact of a phone never changes.
func (s *phoneService) Update(ctx context.Context, phoneID, userID int, req model.UpdatePhoneRequest) (map[string]any, error) {
	phone, err := s.owned(ctx, phoneID, userID)
	if err != nil {
		return nil, err
	}

	if req.TypeID != nil {
		ok, err := s.typeExists(ctx, *req.TypeID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, validation.Field("type_id", msgTypeMissing)
		}
		phone.TypeID = *req.TypeID
	}
	if req.Value != nil {
		value := strings.TrimSpace(*req.Value)
		req.Value = &value
		phone.Value = value
	}

	if err := s.phones.Update(ctx, phone); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrPhoneNotFound
		case errors.Is(err, repository.ErrInvalidReference):
			return nil, validation.Field("type_id", msgTypeMissing)
		}
		return nil, fmt.Errorf("failed to update phone in repo: %w", err)
	}
	return req.Changes(phone.ID), nil
}

// Delete removes the phone and returns the contact it belonged to.
func (s *phoneService) Delete(ctx context.Context, phoneID, userID int) (int, error) {
	phone, err := s.owned(ctx, phoneID, userID)
	if err != nil {
		return 0, err
	}
	if err := s.phones.Delete(ctx, phoneID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrPhoneNotFound
		}
		return 0, fmt.Errorf("failed to delete phone in repo: %w", err)
	}
	s.log.WithFields(logrus.Fields{"user_id": userID, "phone_id": phoneID, "contact_id": phone.ContactID}).Info("phone deleted")
	return phone.ContactID, nil
}
