package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/config"
	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/domain/models"
	h "github.com/brmdevmarche-gif/sunday-schools-sub000/internal/http/handlers"
	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/http/middleware"
	"github.com/brmdevmarche-gif/sunday-schools-sub000/internal/repositories"
)

const testSecret = "0123456789abcdef-router"

type testServer struct {
	t      *testing.T
	router *gin.Engine
	store  *repositories.MemoryStore
	admin  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repositories.NewMemoryStore()
	store.PutThing(models.SellableThing{ID: 1, Kind: models.KindTrip, Name: "Summer Retreat", Base: models.NewTierPriceTable(100, nil, nil)})
	store.PutThing(models.SellableThing{ID: 2, Kind: models.KindStoreItem, Name: "Notebook", Base: models.NewTierPriceTable(15, nil, nil)})
	store.PutPerson(models.Person{ID: 5, Name: "Mina Adel", Tier: models.TierNormal})

	env := config.Env{JWTSecret: testSecret}
	handlers := &h.Handlers{Store: store, RequireApprovalForPayment: true}

	token, err := middleware.IssueToken([]byte(testSecret), 42, "admin", nil)
	require.NoError(t, err)

	return &testServer{t: t, router: NewRouter(env, handlers, nil), store: store, admin: token}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type errorBody struct {
	Error     string         `json:"error"`
	Code      string         `json:"code"`
	Details   map[string]any `json:"details"`
	RequestID string         `json:"request_id"`
}

func TestRouter_Health(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_HealthReportsStorageFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handlers := &h.Handlers{
		Store: repositories.NewMemoryStore(),
		Ping:  func(context.Context) error { return errors.New("connection refused") },
	}
	r := NewRouter(config.Env{JWTSecret: testSecret}, handlers, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRouter_OffersAndPrice(t *testing.T) {
	s := newTestServer(t)

	offers := map[string]any{"offers": []map[string]any{
		{"tier_prices": map[string]int64{"normal": 50}, "start_at": "2025-06-01", "end_at": "2025-06-08"},
		{"tier_prices": map[string]int64{"normal": 40}, "start_at": "2025-06-08", "end_at": "2025-06-15"},
	}}

	w := s.do(http.MethodPut, "/api/things/1/offers", "", offers)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPut, "/api/things/1/offers", s.admin, offers)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/things/1/price?tier=normal&at=2025-06-08T00:00:00Z", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	q := decode[models.PriceQuote](t, w)
	assert.Equal(t, int64(40), q.Amount)
	assert.Equal(t, models.SourceOffer, q.Source)

	w = s.do(http.MethodGet, "/api/things/1/price?person_id=5&at=2025-07-01", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(100), decode[models.PriceQuote](t, w).Amount)

	w = s.do(http.MethodGet, "/api/things/1/price?tier=gold", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid-tier", decode[errorBody](t, w).Code)

	w = s.do(http.MethodGet, "/api/things/1/offers", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	listed := decode[struct {
		Offers []models.SpecialOffer `json:"offers"`
	}](t, w)
	assert.Len(t, listed.Offers, 2)
}

func TestRouter_RejectedOfferSetReportsReason(t *testing.T) {
	s := newTestServer(t)

	overlap := map[string]any{"offers": []map[string]any{
		{"tier_prices": map[string]int64{"normal": 50}, "start_at": "2025-06-01", "end_at": "2025-06-10"},
		{"tier_prices": map[string]int64{"normal": 45}, "start_at": "2025-06-05", "end_at": "2025-06-12"},
	}}
	w := s.do(http.MethodPut, "/api/things/1/offers", s.admin, overlap)
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[errorBody](t, w)
	assert.Equal(t, "overlap", body.Code)
	assert.NotEmpty(t, body.RequestID)
	assert.Contains(t, body.Details, "index")

	missing := map[string]any{"offers": []map[string]any{
		{"tier_prices": map[string]int64{}, "start_at": "bogus", "end_at": "2025-06-10"},
	}}
	w = s.do(http.MethodPut, "/api/things/1/offers", s.admin, missing)
	assert.Equal(t, "missing-price", decode[errorBody](t, w).Code)

	w = s.do(http.MethodPut, "/api/things/99/offers", s.admin, map[string]any{"offers": []any{}})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_ParticipationFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/trips/1/participations", "", map[string]any{"person_id": 5})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	rec := decode[models.ParticipationRecord](t, w)
	assert.Equal(t, models.ApprovalPending, rec.ApprovalStatus)

	w = s.do(http.MethodPost, "/api/trips/1/participations", "", map[string]any{"person_id": 5})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "already-subscribed", decode[errorBody](t, w).Code)

	path := "/api/participations/" + itoa(rec.ID)

	w = s.do(http.MethodPost, path+"/payments", s.admin, map[string]any{"amount": 60})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "not-approved", decode[errorBody](t, w).Code)

	w = s.do(http.MethodPut, path+"/approve", s.admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	rec = decode[models.ParticipationRecord](t, w)
	require.NotNil(t, rec.ApprovedBy)
	assert.Equal(t, int64(42), *rec.ApprovedBy)

	w = s.do(http.MethodPost, path+"/payments", s.admin, map[string]any{"amount": 60})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.PaymentPartiallyPaid, decode[models.ParticipationRecord](t, w).PaymentStatus)

	w = s.do(http.MethodPost, path+"/payments", s.admin, map[string]any{"amount": 41})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "payment-exceeds-price", decode[errorBody](t, w).Code)

	w = s.do(http.MethodPost, path+"/payments", s.admin, map[string]any{"amount": 40})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.PaymentPaid, decode[models.ParticipationRecord](t, w).PaymentStatus)

	w = s.do(http.MethodGet, path+"/receipt", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))

	w = s.do(http.MethodPut, path+"/reject", s.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	rec = decode[models.ParticipationRecord](t, w)
	assert.Equal(t, models.ApprovalRejected, rec.ApprovalStatus)
	assert.NotNil(t, rec.ApprovedAt)

	w = s.do(http.MethodGet, "/api/reports/demand?kind=trip", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	report := decode[struct {
		Items []models.DemandSummary `json:"items"`
	}](t, w)
	assert.Empty(t, report.Items)
}

func TestRouter_MemberCannotApprove(t *testing.T) {
	s := newTestServer(t)
	member, err := middleware.IssueToken([]byte(testSecret), 9, "member", map[string]any{"exp": time.Now().Add(time.Hour).Unix()})
	require.NoError(t, err)

	w := s.do(http.MethodPut, "/api/participations/1/approve", member, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_BadInput(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/participations/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid-id", decode[errorBody](t, w).Code)

	w = s.do(http.MethodGet, "/api/participations/77", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/api/trips/1/participations", "", map[string]any{"person_id": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/reports/demand?kind=vouchers", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
