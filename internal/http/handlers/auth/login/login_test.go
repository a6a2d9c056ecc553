package login

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/staycation/internal/models"
	"github.com/magabrotheeeer/staycation/internal/services/auth"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Login(ctx context.Context, email, password string) (*auth.Session, error) {
	args := m.Called(ctx, email, password)
	s, _ := args.Get(0).(*auth.Session)
	return s, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestLoginHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		mockSess   *auth.Session
		mockErr    error
		callsMock  bool
		wantStatus int
		wantData   map[string]any
		wantError  string
	}{
		{
			name:      "valid login",
			body:      `{"email":"admin@example.com","password":"pw"}`,
			callsMock: true,
			mockSess: &auth.Session{
				Token:    "tok",
				Customer: models.Customer{Email: "admin@example.com", Name: "Admin", Role: models.RoleAdmin},
			},
			wantStatus: http.StatusOK,
			wantData: map[string]any{
				"token": "tok",
				"email": "admin@example.com",
				"name":  "Admin",
				"role":  "admin",
			},
		},
		{
			name:       "unknown user",
			body:       `{"email":"ghost@example.com","password":"pw"}`,
			callsMock:  true,
			mockErr:    auth.ErrNoSuchUser,
			wantStatus: http.StatusUnauthorized,
			wantError:  "invalid email or password",
		},
		{
			name:       "wrong password",
			body:       `{"email":"admin@example.com","password":"nope"}`,
			callsMock:  true,
			mockErr:    auth.ErrIncorrectPassword,
			wantStatus: http.StatusUnauthorized,
			wantError:  "invalid email or password",
		},
		{
			name:       "service failure",
			body:       `{"email":"admin@example.com","password":"pw"}`,
			callsMock:  true,
			mockErr:    errors.New("db down"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "internal error",
		},
		{
			name:       "invalid json body",
			body:       "not a json",
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid request body",
		},
		{
			name:       "missing password",
			body:       `{"email":"admin@example.com"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "field Password is a required field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.callsMock {
				var in Request
				require.NoError(t, json.Unmarshal([]byte(tt.body), &in))
				svc.On("Login", mock.Anything, in.Email, in.Password).Return(tt.mockSess, tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/login", bytes.NewBufferString(tt.body))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "req-1"))
			rec := httptest.NewRecorder()

			New(newNoopLogger(), svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp struct {
				Status string         `json:"status"`
				Error  string         `json:"error"`
				Data   map[string]any `json:"data"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantError, resp.Error)
			assert.Equal(t, tt.wantData, resp.Data)
			svc.AssertExpectations(t)
		})
	}
}
