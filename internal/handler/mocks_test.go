package handler

import (
	"context"
	"io"
	"mime/multipart"

	"github.com/ahmedhrayyan/phonebook-backend/internal/model"

	"github.com/stretchr/testify/mock"
)

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, string, error) {
	args := m.Called(ctx, req)
	u, _ := args.Get(0).(*model.User)
	return u, args.String(1), args.Error(2)
}

func (m *mockAuthService) Login(ctx context.Context, req model.LoginRequest) (*model.User, string, error) {
	args := m.Called(ctx, req)
	u, _ := args.Get(0).(*model.User)
	return u, args.String(1), args.Error(2)
}

type mockContactService struct{ mock.Mock }

func (m *mockContactService) List(ctx context.Context, userID int) ([]model.Contact, error) {
	args := m.Called(ctx, userID)
	cs, _ := args.Get(0).([]model.Contact)
	return cs, args.Error(1)
}

func (m *mockContactService) Create(ctx context.Context, userID int, req model.CreateContactRequest) (*model.Contact, error) {
	args := m.Called(ctx, userID, req)
	c, _ := args.Get(0).(*model.Contact)
	return c, args.Error(1)
}

func (m *mockContactService) Update(ctx context.Context, contactID, userID int, req model.UpdateContactRequest) (map[string]any, error) {
	args := m.Called(ctx, contactID, userID, req)
	out, _ := args.Get(0).(map[string]any)
	return out, args.Error(1)
}

func (m *mockContactService) Delete(ctx context.Context, contactID, userID int) error {
	return m.Called(ctx, contactID, userID).Error(0)
}

type mockPhoneService struct{ mock.Mock }

func (m *mockPhoneService) Create(ctx context.Context, userID int, req model.CreatePhoneRequest) (*model.Phone, error) {
	args := m.Called(ctx, userID, req)
	p, _ := args.Get(0).(*model.Phone)
	return p, args.Error(1)
}

func (m *mockPhoneService) Update(ctx context.Context, phoneID, userID int, req model.UpdatePhoneRequest) (map[string]any, error) {
	args := m.Called(ctx, phoneID, userID, req)
	out, _ := args.Get(0).(map[string]any)
	return out, args.Error(1)
}

func (m *mockPhoneService) Delete(ctx context.Context, phoneID, userID int) (int, error) {
	args := m.Called(ctx, phoneID, userID)
	return args.Int(0), args.Error(1)
}

type mockTypeService struct{ mock.Mock }

func (m *mockTypeService) List(ctx context.Context) ([]model.Type, error) {
	args := m.Called(ctx)
	ts, _ := args.Get(0).([]model.Type)
	return ts, args.Error(1)
}

type mockUploadService struct{ mock.Mock }

func (m *mockUploadService) Upload(ctx context.Context, userID int, file *multipart.FileHeader) (string, error) {
	args := m.Called(ctx, userID, file)
	return args.String(0), args.Error(1)
}

func (m *mockUploadService) Open(ctx context.Context, name string) (io.ReadCloser, string, error) {
	args := m.Called(ctx, name)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.String(1), args.Error(2)
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }
