package service

import (
	"context"
	"fmt"

	"github.com/ahmedhrayyan/phonebook-backend/internal/model"
	"github.com/ahmedhrayyan/phonebook-backend/internal/repository"
)

type TypeService interface {
	List(ctx context.Context) ([]model.Type, error)
}

type typeService struct {
	repo repository.TypeRepository
}

func NewTypeService(repo repository.TypeRepository) TypeService {
	return &typeService{repo: repo}
}

func (s *typeService) List(ctx context.Context) ([]model.Type, error) {
	types, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list types: %w", err)
	}
	return types, nil
}
