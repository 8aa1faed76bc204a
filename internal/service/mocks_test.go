package service

import (
	"context"
	"io"

	"github.com/ahmedhrayyan/phonebook-backend/internal/model"

	"github.com/stretchr/testify/mock"
)

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, u *model.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id int) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, u *model.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

type mockContactRepo struct{ mock.Mock }

func (m *mockContactRepo) Create(ctx context.Context, c *model.Contact) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockContactRepo) FindByID(ctx context.Context, id int) (*model.Contact, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*model.Contact)
	return c, args.Error(1)
}

func (m *mockContactRepo) FindByUser(ctx context.Context, userID int) ([]model.Contact, error) {
	args := m.Called(ctx, userID)
	cs, _ := args.Get(0).([]model.Contact)
	return cs, args.Error(1)
}

func (m *mockContactRepo) Update(ctx context.Context, c *model.Contact) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockContactRepo) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

type mockPhoneRepo struct{ mock.Mock }

func (m *mockPhoneRepo) Create(ctx context.Context, p *model.Phone) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPhoneRepo) FindByID(ctx context.Context, id int) (*model.Phone, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*model.Phone)
	return p, args.Error(1)
}

func (m *mockPhoneRepo) Update(ctx context.Context, p *model.Phone) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPhoneRepo) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

type mockTypeRepo struct{ mock.Mock }

func (m *mockTypeRepo) List(ctx context.Context) ([]model.Type, error) {
	args := m.Called(ctx)
	ts, _ := args.Get(0).([]model.Type)
	return ts, args.Error(1)
}

func (m *mockTypeRepo) ExistingIDs(ctx context.Context, ids []int) (map[int]bool, error) {
	args := m.Called(ctx, ids)
	found, _ := args.Get(0).(map[int]bool)
	return found, args.Error(1)
}

type mockStore struct{ mock.Mock }

func (m *mockStore) Save(ctx context.Context, name, contentType string, r io.Reader) error {
	return m.Called(ctx, name, contentType, r).Error(0)
}

func (m *mockStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	args := m.Called(ctx, name)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Error(1)
}
