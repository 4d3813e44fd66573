package handler

import (
	"context"
	"encoding/json"
	"errors"
	"eyewear_admin/internal/domain/user/model"
	"eyewear_admin/internal/domain/user/service"
	"eyewear_admin/internal/pkg/otp"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserService is a mock of UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Login(ctx context.Context, mobile, code string) (string, error) {
	args := m.Called(mobile, code)
	return args.String(0), args.Error(1)
}

func (m *MockUserService) SendOTP(ctx context.Context, mobile string) error {
	return m.Called(mobile).Error(0)
}

func (m *MockUserService) GetRoster(ctx context.Context) ([]model.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

// failingRepository 所有查询都返回错误
type failingRepository struct {
	err error
}

func (r failingRepository) GetByID(string) (*model.User, error)    { return nil, r.err }
func (r failingRepository) GetByPhone(string) (*model.User, error) { return nil, r.err }
func (r failingRepository) ListActive() ([]model.User, error)      { return nil, r.err }

func setupRouter(svc service.UserService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewUserHandler(svc)
	r.POST("/auth/otp", h.SendOTP)
	r.POST("/auth/login", h.Login)
	r.GET("/admin/getAllUsersList", h.GetAllUsersList)
	return r
}

func perform(r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestGetAllUsersList(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockUserService)
		r := setupRouter(svc)

		u := model.User{FirstName: "Ada", LastName: "Lovelace", Phone: "13800000000", Role: model.RoleAdmin}
		u.ID = "u1"
		svc.On("GetRoster").Return([]model.User{u}, nil)

		w, body := perform(r, http.MethodGet, "/admin/getAllUsersList", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, body["success"])
		users, ok := body["users"].([]interface{})
		require.True(t, ok)
		require.Len(t, users, 1)
		first := users[0].(map[string]interface{})
		assert.Equal(t, "u1", first["id"])
		assert.Equal(t, "Ada", first["firstName"])
		assert.Equal(t, "13800000000", first["phone"])
		// 角色与状态不对外暴露
		assert.NotContains(t, first, "role")
		assert.NotContains(t, first, "status")
	})

	t.Run("Empty roster is an empty list", func(t *testing.T) {
		svc := new(MockUserService)
		r := setupRouter(svc)
		svc.On("GetRoster").Return([]model.User{}, nil)

		w, body := perform(r, http.MethodGet, "/admin/getAllUsersList", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []interface{}{}, body["users"])
	})

	t.Run("Repository failure", func(t *testing.T) {
		svc := service.NewUserService(failingRepository{err: errors.New("connection refused")}, nil)
		r := setupRouter(svc)

		w, body := perform(r, http.MethodGet, "/admin/getAllUsersList", "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Failed to fetch users", body["message"])
	})
}

func TestSendOTPHandler(t *testing.T) {
	svc := new(MockUserService)
	r := setupRouter(svc)
	svc.On("SendOTP", "13800000000").Return(otp.ErrTooOften)

	w, _ := perform(r, http.MethodPost, "/auth/otp", `{"mobile":"13800000000"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w, _ = perform(r, http.MethodPost, "/auth/otp", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginHandler(t *testing.T) {
	svc := new(MockUserService)
	r := setupRouter(svc)
	svc.On("Login", "13800000000", "123456").Return("jwt-token", nil)

	w, body := perform(r, http.MethodPost, "/auth/login", `{"mobile":"13800000000","code":"123456"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jwt-token", body["token"])
}
