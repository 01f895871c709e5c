package api

import (
	"bytes"
	"context"
	"drivent-backend/internal/api/middleware"
	"drivent-backend/internal/logging"
	"drivent-backend/internal/models"
	"drivent-backend/internal/modules/enrollment"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type fakeEnrollmentService struct {
	gotUserID int
	saved     []models.CreateOrUpdateEnrollmentParams
}

func (s *fakeEnrollmentService) GetAddressFromCEP(ctx context.Context, cep string) (*models.AddressFields, error) {
	if cep != "01001000" {
		return nil, models.ErrNotFound
	}
	return &models.AddressFields{Street: "Praça da Sé", Neighborhood: "Sé", City: "São Paulo", State: "SP"}, nil
}

func (s *fakeEnrollmentService) GetOneWithAddressByUserID(ctx context.Context, userID int) (*models.EnrollmentView, error) {
	s.gotUserID = userID
	return &models.EnrollmentView{ID: 1, Name: "Ana"}, nil
}

func (s *fakeEnrollmentService) CreateOrUpdateEnrollmentWithAddress(ctx context.Context, params models.CreateOrUpdateEnrollmentParams) error {
	s.saved = append(s.saved, params)
	return nil
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(ctx context.Context) error { return p.err }

func newTestServer(t *testing.T, svc enrollment.ServiceInterface, db Pinger) (*echo.Echo, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	e := echo.New()
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(logging.NewWithWriter(&logs, "info", "json")))
	SetupRoutes(e, testSecret, enrollment.NewHandler(svc), NewHealthHandler(db))
	return e, &logs
}

func signToken(t *testing.T, secret string, userID int, expiresAt time.Time) string {
	t.Helper()
	claims := &models.JwtCustomClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func do(e *echo.Echo, method, target, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestEnrollmentRoutes_RequireJWT(t *testing.T) {
	e, _ := newTestServer(t, &fakeEnrollmentService{}, nil)

	tests := []struct {
		name    string
		token   string
		message string
	}{
		{name: "missing", token: ""},
		{name: "wrong secret", token: signToken(t, "other-secret", 7, time.Now().Add(time.Hour)), message: "Invalid token signature"},
		{name: "expired", token: signToken(t, testSecret, 7, time.Now().Add(-time.Hour)), message: "Token has expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(e, http.MethodGet, "/enrollments", tt.token, "")
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			var body models.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			if tt.message != "" {
				assert.Equal(t, tt.message, body.Message)
			}
		})
	}
}

func TestEnrollmentRoutes_AuthenticatedUserReachesService(t *testing.T) {
	svc := &fakeEnrollmentService{}
	e, logs := newTestServer(t, svc, nil)
	token := signToken(t, testSecret, 7, time.Now().Add(time.Hour))

	rec := do(e, http.MethodGet, "/enrollments", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7, svc.gotUserID)

	requestID := rec.Header().Get(echo.HeaderXRequestID)
	assert.Len(t, requestID, 36)
	assert.Contains(t, logs.String(), requestID)

	body := `{"name":"Ana","cpf":"12345678909","birthday":"1990-05-17T00:00:00Z","phone":"11987654321",
		"address":{"cep":"01001-000","street":"Praça da Sé","neighborhood":"Sé","city":"São Paulo","state":"SP"}}`
	rec = do(e, http.MethodPost, "/enrollments", token, body)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, svc.saved, 1)
	assert.Equal(t, 7, svc.saved[0].UserID)

	rec = do(e, http.MethodGet, "/enrollments/cep?cep=01001000", token, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/enrollments/cep?cep=99999999", token, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHealth(t *testing.T) {
	e, _ := newTestServer(t, &fakeEnrollmentService{}, fakePinger{})
	rec := do(e, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	e, _ = newTestServer(t, &fakeEnrollmentService{}, fakePinger{err: errors.New("connection refused")})
	rec = do(e, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
