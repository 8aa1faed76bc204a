package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ahmedhrayyan/phonebook-backend/internal/middleware"
	"github.com/ahmedhrayyan/phonebook-backend/internal/model"
	"github.com/ahmedhrayyan/phonebook-backend/internal/service"
	"github.com/ahmedhrayyan/phonebook-backend/internal/utils"
	"github.com/ahmedhrayyan/phonebook-backend/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testJWT = utils.NewJWTUtil("handler-secret", time.Hour)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Setup()
}

type testServer struct {
	router   *gin.Engine
	auth     *mockAuthService
	contacts *mockContactService
	phones   *mockPhoneService
	types    *mockTypeService
	uploads  *mockUploadService
	hook     *test.Hook
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger, hook := test.NewNullLogger()
	s := &testServer{
		auth:     &mockAuthService{},
		contacts: &mockContactService{},
		phones:   &mockPhoneService{},
		types:    &mockTypeService{},
		uploads:  &mockUploadService{},
		hook:     hook,
	}

	r := gin.New()
	RegisterFallbacks(r)
	api := r.Group("/api")
	authMW := middleware.JWTAuthMiddleware(testJWT)
	NewAuthHandler(s.auth, logger).RegisterAuthRoutes(api)
	NewContactHandler(s.contacts, logger).RegisterContactRoutes(api, authMW)
	NewPhoneHandler(s.phones, logger).RegisterPhoneRoutes(api, authMW)
	NewTypeHandler(s.types, logger).RegisterTypeRoutes(api)
	NewUploadHandler(s.uploads, logger).RegisterUploadRoutes(api, r, authMW, middleware.BodyLimit(1024))
	s.router = r

	t.Cleanup(func() {
		s.auth.AssertExpectations(t)
		s.contacts.AssertExpectations(t)
		s.phones.AssertExpectations(t)
		s.types.AssertExpectations(t)
		s.uploads.AssertExpectations(t)
	})
	return s
}

// do sends a JSON request; userID 0 means unauthenticated.
func (s *testServer) do(t *testing.T, method, path, body string, userID int) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID > 0 {
		token, err := testJWT.GenerateToken(userID)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

type body struct {
	Message   string              `json:"message"`
	Errors    map[string][]string `json:"errors"`
	Token     string              `json:"token"`
	Path      string              `json:"path"`
	DeletedID int                 `json:"deleted_id"`
	ContactID int                 `json:"contact_id"`
	Data      json.RawMessage     `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) body {
	t.Helper()
	var b body
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b), rec.Body.String())
	return b
}

func TestRegister(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		s := newTestServer(t)
		req := model.RegisterRequest{Name: "Ali", Email: "ali@example.com", Password: "secret123"}
		s.auth.On("Register", mock.Anything, req).Return(&model.User{ID: 1}, "tok", nil)

		rec := s.do(t, http.MethodPost, "/api/register", `{"name":"Ali","email":"ali@example.com","password":"secret123"}`, 0)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "tok", decode(t, rec).Token)
	})

	t.Run("field errors", func(t *testing.T) {
		s := newTestServer(t)
		rec := s.do(t, http.MethodPost, "/api/register", `{"name":"  ","email":"nope","password":"short"}`, 0)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		b := decode(t, rec)
		assert.Equal(t, validation.Message, b.Message)
		assert.Equal(t, []string{"Field may not be blank."}, b.Errors["name"])
		assert.Equal(t, []string{"Not a valid email address."}, b.Errors["email"])
		assert.Equal(t, []string{"Shorter than minimum length 8."}, b.Errors["password"])
	})

	t.Run("password over 72 bytes", func(t *testing.T) {
		s := newTestServer(t)
		password := strings.Repeat("é", 40)
		rec := s.do(t, http.MethodPost, "/api/register", `{"name":"Ali","email":"ali@example.com","password":"`+password+`"}`, 0)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, []string{"Longer than maximum length 72 bytes."}, decode(t, rec).Errors["password"])
	})

	t.Run("overlong name", func(t *testing.T) {
		s := newTestServer(t)
		rec := s.do(t, http.MethodPost, "/api/register", `{"name":"`+strings.Repeat("a", 256)+`","email":"ali@example.com","password":"secret123"}`, 0)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, []string{"Longer than maximum length 255."}, decode(t, rec).Errors["name"])
	})

	t.Run("empty body", func(t *testing.T) {
		s := newTestServer(t)
		rec := s.do(t, http.MethodPost, "/api/register", "", 0)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		b := decode(t, rec)
		for _, field := range []string{"name", "email", "password"} {
			assert.Equal(t, []string{"Missing data for required field."}, b.Errors[field], field)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		s := newTestServer(t)
		rec := s.do(t, http.MethodPost, "/api/register", `{"name": }`, 0)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, []string{"Invalid JSON."}, decode(t, rec).Errors[validation.SchemaField])
	})

	t.Run("wrong type", func(t *testing.T) {
		s := newTestServer(t)
		rec := s.do(t, http.MethodPost, "/api/register", `{"name": 5}`, 0)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, []string{"Not a valid string."}, decode(t, rec).Errors["name"])
	})

	t.Run("duplicate email", func(t *testing.T) {
		s := newTestServer(t)
		s.auth.On("Register", mock.Anything, mock.Anything).Return(nil, "", service.ErrDuplicateEmail)

		rec := s.do(t, http.MethodPost, "/api/register", `{"name":"Ali","email":"ali@example.com","password":"secret123"}`, 0)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, []string{"Email is already in use."}, decode(t, rec).Errors["email"])
	})
}

func TestLogin_InvalidCredentials(t *testing.T) {
	s := newTestServer(t)
	s.auth.On("Login", mock.Anything, model.LoginRequest{Email: "ali@example.com", Password: "x"}).
		Return(nil, "", service.ErrInvalidCredentials)

	rec := s.do(t, http.MethodPost, "/api/login", `{"email":"ali@example.com","password":"x"}`, 0)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Email or password is not correct.", decode(t, rec).Message)
}

func TestContacts_RequireToken(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/api/contacts", "", 0)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, decode(t, rec).Message)
}

func TestListContacts(t *testing.T) {
	s := newTestServer(t)
	s.contacts.On("List", mock.Anything, 5).Return([]model.Contact{{ID: 2, UserID: 5, Name: "B", Phones: []model.Phone{}}}, nil)

	rec := s.do(t, http.MethodGet, "/api/contacts", "", 5)
	require.Equal(t, http.StatusOK, rec.Code)

	var data []model.Contact
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &data))
	require.Len(t, data, 1)
	assert.Equal(t, "B", data[0].Name)
}

func TestCreateContact_WithOnePhone(t *testing.T) {
	s := newTestServer(t)
	s.contacts.On("Create", mock.Anything, 5, mock.MatchedBy(func(req model.CreateContactRequest) bool {
		return req.Name == "Ali" && req.Email == nil && len(req.Phones) == 1 && req.Phones[0].Value == "010x" && req.Phones[0].TypeID == 1
	})).Return(&model.Contact{
		ID:     1,
		UserID: 5,
		Name:   "Ali",
		Phones: []model.Phone{{ID: 1, Value: "010x", TypeID: 1, ContactID: 1}},
	}, nil)

	rec := s.do(t, http.MethodPost, "/api/contacts", `{"name":"Ali","phones":[{"value":"010x","type_id":1}]}`, 5)
	require.Equal(t, http.StatusOK, rec.Code)

	var data model.Contact
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &data))
	require.Len(t, data.Phones, 1)
	assert.Equal(t, "010x", data.Phones[0].Value)
}

func TestCreateContact_NestedPhoneErrors(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/contacts", `{"name":"Ali","phones":[{"value":"1","type_id":1},{"type_id":0}]}`, 5)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	b := decode(t, rec)
	assert.Equal(t, []string{"Missing data for required field."}, b.Errors["phones[1].value"])
	assert.Equal(t, []string{"Missing data for required field."}, b.Errors["phones[1].type_id"])
	assert.NotContains(t, b.Errors, "phones[0].value")
}

func TestCreateContact_MissingPhones(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/contacts", `{"name":"Ali","email":"bad"}`, 5)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	b := decode(t, rec)
	assert.Contains(t, b.Errors, "phones")
	assert.Contains(t, b.Errors, "email")
}

func TestUpdateContact(t *testing.T) {
	t.Run("non numeric id", func(t *testing.T) {
		s := newTestServer(t)
		rec := s.do(t, http.MethodPatch, "/api/contacts/abc", `{"name":"x"}`, 5)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		s := newTestServer(t)
		s.contacts.On("Update", mock.Anything, 9, 5, mock.Anything).Return(nil, service.ErrContactNotFound)

		rec := s.do(t, http.MethodPatch, "/api/contacts/9", `{"name":"x"}`, 5)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("forbidden", func(t *testing.T) {
		s := newTestServer(t)
		s.contacts.On("Update", mock.Anything, 3, 5, mock.Anything).Return(nil, service.ErrForbidden)

		rec := s.do(t, http.MethodPatch, "/api/contacts/3", `{"name":"x"}`, 5)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("blank name", func(t *testing.T) {
		s := newTestServer(t)
		rec := s.do(t, http.MethodPatch, "/api/contacts/3", `{"name":" "}`, 5)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, []string{"Field may not be blank."}, decode(t, rec).Errors["name"])
	})

	t.Run("empty email clears it", func(t *testing.T) {
		s := newTestServer(t)
		empty := ""
		s.contacts.On("Update", mock.Anything, 3, 5, model.UpdateContactRequest{Email: &empty}).
			Return(model.UpdateContactRequest{Email: &empty}.Changes(3), nil)

		rec := s.do(t, http.MethodPatch, "/api/contacts/3", `{"email":""}`, 5)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"id":3,"email":null}`, string(decode(t, rec).Data))
	})

	t.Run("invalid email", func(t *testing.T) {
		s := newTestServer(t)
		rec := s.do(t, http.MethodPatch, "/api/contacts/3", `{"email":"nope"}`, 5)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, []string{"Not a valid email address."}, decode(t, rec).Errors["email"])
	})

	t.Run("echoes supplied fields", func(t *testing.T) {
		s := newTestServer(t)
		name := "New"
		s.contacts.On("Update", mock.Anything, 3, 5, model.UpdateContactRequest{Name: &name}).
			Return(map[string]any{"id": 3, "name": "New"}, nil)

		rec := s.do(t, http.MethodPatch, "/api/contacts/3", `{"name":"New"}`, 5)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"id":3,"name":"New"}`, string(decode(t, rec).Data))
	})
}

func TestDeleteContact(t *testing.T) {
	s := newTestServer(t)
	s.contacts.On("Delete", mock.Anything, 3, 5).Return(nil)

	rec := s.do(t, http.MethodDelete, "/api/contacts/3", "", 5)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, decode(t, rec).DeletedID)
}

func TestPhones(t *testing.T) {
	t.Run("create", func(t *testing.T) {
		s := newTestServer(t)
		req := model.CreatePhoneRequest{Value: "0100", TypeID: 1, ContactID: 3}
		s.phones.On("Create", mock.Anything, 5, req).Return(&model.Phone{ID: 8, Value: "0100", TypeID: 1, ContactID: 3}, nil)

		rec := s.do(t, http.MethodPost, "/api/phones", `{"value":"0100","type_id":1,"contact_id":3}`, 5)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"id":8,"value":"0100","type_id":1,"contact_id":3}`, string(decode(t, rec).Data))
	})

	t.Run("create on someone else's contact", func(t *testing.T) {
		s := newTestServer(t)
		s.phones.On("Create", mock.Anything, 5, mock.Anything).Return(nil, service.ErrForbidden)

		rec := s.do(t, http.MethodPost, "/api/phones", `{"value":"0100","type_id":1,"contact_id":3}`, 5)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("create without contact", func(t *testing.T) {
		s := newTestServer(t)
		rec := s.do(t, http.MethodPost, "/api/phones", `{"value":"0100","type_id":1}`, 5)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decode(t, rec).Errors, "contact_id")
	})

	t.Run("unknown type surfaces as field error", func(t *testing.T) {
		s := newTestServer(t)
		s.phones.On("Update", mock.Anything, 8, 5, mock.Anything).Return(nil, validation.Field("type_id", "Type does not exist."))

		rec := s.do(t, http.MethodPatch, "/api/phones/8", `{"type_id":42}`, 5)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, []string{"Type does not exist."}, decode(t, rec).Errors["type_id"])
	})

	t.Run("delete returns contact", func(t *testing.T) {
		s := newTestServer(t)
		s.phones.On("Delete", mock.Anything, 8, 5).Return(3, nil)

		rec := s.do(t, http.MethodDelete, "/api/phones/8", "", 5)
		require.Equal(t, http.StatusOK, rec.Code)
		b := decode(t, rec)
		assert.Equal(t, 8, b.DeletedID)
		assert.Equal(t, 3, b.ContactID)
	})
}

func TestListTypes_Public(t *testing.T) {
	s := newTestServer(t)
	s.types.On("List", mock.Anything).Return([]model.Type{{ID: 1, Value: "mobile"}}, nil)

	rec := s.do(t, http.MethodGet, "/api/types", "", 0)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"value":"mobile"}]`, string(decode(t, rec).Data))
}

func TestUnexpectedErrorIsHidden(t *testing.T) {
	s := newTestServer(t)
	s.types.On("List", mock.Anything).Return(nil, errors.New("relation \"types\" does not exist"))

	rec := s.do(t, http.MethodGet, "/api/types", "", 0)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Something went wrong.", decode(t, rec).Message)
	assert.NotContains(t, rec.Body.String(), "relation")

	require.NotNil(t, s.hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, s.hook.LastEntry().Level)
}

func multipartRequest(t *testing.T, filename string, content []byte, userID int) *http.Request {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	token, err := testJWT.GenerateToken(userID)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestUpload(t *testing.T) {
	t.Run("stored", func(t *testing.T) {
		s := newTestServer(t)
		s.uploads.On("Upload", mock.Anything, 5, mock.MatchedBy(func(fh *multipart.FileHeader) bool {
			return fh.Filename == "me.png"
		})).Return("0a1b.png", nil)

		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, multipartRequest(t, "me.png", []byte("png"), 5))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "0a1b.png", decode(t, rec).Path)
	})

	t.Run("no file part", func(t *testing.T) {
		s := newTestServer(t)
		rec := s.do(t, http.MethodPost, "/api/upload", `{}`, 5)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "No file found.", decode(t, rec).Message)
	})

	t.Run("empty filename", func(t *testing.T) {
		s := newTestServer(t)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, multipartRequest(t, "", []byte("png"), 5))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "No selected file.", decode(t, rec).Message)
	})

	t.Run("spoofed content", func(t *testing.T) {
		s := newTestServer(t)
		s.uploads.On("Upload", mock.Anything, 5, mock.Anything).Return("", service.ErrFakeFileContent)

		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, multipartRequest(t, "evil.jpg", []byte("text"), 5))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("too large", func(t *testing.T) {
		s := newTestServer(t)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, multipartRequest(t, "big.png", bytes.Repeat([]byte("x"), 4096), 5))
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("requires token", func(t *testing.T) {
		s := newTestServer(t)
		rec := s.do(t, http.MethodPost, "/api/upload", "", 0)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestServeUpload(t *testing.T) {
	s := newTestServer(t)
	s.uploads.On("Open", mock.Anything, "a.png").Return(io.NopCloser(strings.NewReader("img")), "image/png", nil)
	s.uploads.On("Open", mock.Anything, "missing.png").Return(nil, "", service.ErrFileNotFound)

	rec := s.do(t, http.MethodGet, "/uploads/a.png", "", 0)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "img", rec.Body.String())

	rec = s.do(t, http.MethodGet, "/uploads/missing.png", "", 0)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFallbacks(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/nope", "", 0)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, msgNotFound, decode(t, rec).Message)

	rec = s.do(t, http.MethodPut, "/api/types", "", 0)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, msgNotAllowed, decode(t, rec).Message)
}

func TestHealth(t *testing.T) {
	r := gin.New()
	r.GET("/ok", Health(fakePinger{}))
	r.GET("/down", Health(fakePinger{err: errors.New("no route to host")}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/down", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"error","db":"unhealthy"}`, rec.Body.String())
}
