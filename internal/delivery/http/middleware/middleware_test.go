package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-healthcare-booking/config"
	"go-healthcare-booking/pkg/jwt"
	"go-healthcare-booking/pkg/metrics"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJWT() *jwt.JWTService {
	return jwt.NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: time.Minute})
}

// echoUser writes the user from context, or "guest"
var echoUser = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	if id, ok := GetUserIDFromContext(r.Context()); ok {
		w.Write([]byte(id.String()))
		return
	}
	w.Write([]byte("guest"))
})

func serve(h http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticate(t *testing.T) {
	svc := newJWT()
	m := NewAuthMiddleware(svc)
	userID := uuid.New()
	token, err := svc.GenerateAccessToken(userID, jwt.RolePatient)
	require.NoError(t, err)

	rec := serve(m.Authenticate(echoUser), "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID.String(), rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, serve(m.Authenticate(echoUser), "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(m.Authenticate(echoUser), "Token "+token).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(m.Authenticate(echoUser), "Bearer nope").Code)
}

func TestAuthenticate_AttachesRole(t *testing.T) {
	svc := newJWT()
	m := NewAuthMiddleware(svc)
	token, err := svc.GenerateAccessToken(uuid.New(), jwt.RoleAdmin)
	require.NoError(t, err)

	echoRole := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, _ := GetRoleFromContext(r.Context())
		w.Write([]byte(role))
	})

	rec := serve(m.Authenticate(echoRole), "Bearer "+token)
	assert.Equal(t, jwt.RoleAdmin, rec.Body.String())
}

func TestOptionalAuthenticate(t *testing.T) {
	svc := newJWT()
	m := NewAuthMiddleware(svc)
	userID := uuid.New()
	token, err := svc.GenerateAccessToken(userID, jwt.RolePatient)
	require.NoError(t, err)

	guest := serve(m.OptionalAuthenticate(echoUser), "")
	assert.Equal(t, http.StatusOK, guest.Code)
	assert.Equal(t, "guest", guest.Body.String())

	authed := serve(m.OptionalAuthenticate(echoUser), "Bearer "+token)
	assert.Equal(t, userID.String(), authed.Body.String())

	assert.Equal(t, http.StatusUnauthorized, serve(m.OptionalAuthenticate(echoUser), "Bearer broken").Code)
}

func TestRequireAdmin(t *testing.T) {
	svc := newJWT()
	m := NewAuthMiddleware(svc)
	h := m.Authenticate(RequireAdmin(echoUser))

	admin, err := svc.GenerateAccessToken(uuid.New(), jwt.RoleAdmin)
	require.NoError(t, err)
	patient, err := svc.GenerateAccessToken(uuid.New(), jwt.RolePatient)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, serve(h, "Bearer "+admin).Code)
	assert.Equal(t, http.StatusForbidden, serve(h, "Bearer "+patient).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(RequireAdmin(echoUser), "").Code)
}

func TestCORS(t *testing.T) {
	h := NewCORSMiddleware([]string{"https://app.example.com"}).Handle(echoUser)

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	NewCORSMiddleware([]string{"*"}).Handle(echoUser).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetrics_UsesRouteTemplate(t *testing.T) {
	m := metrics.NewMetrics(prometheus.NewRegistry(), "test")
	r := mux.NewRouter()
	r.Use(Metrics(m))
	r.HandleFunc("/doctors/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/doctors/"+id, nil))
	}

	assert.Equal(t, 1, testutil.CollectAndCount(m.HTTPRequestDuration))
}
