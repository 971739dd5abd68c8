package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"schoolgate/internal/platform/middleware"
	"schoolgate/internal/policy/models"
	id "schoolgate/pkg/domain"
	dErrors "schoolgate/pkg/domain-errors"
	"schoolgate/pkg/testutil"
)

type stubService struct {
	bootstrapFn func(ctx context.Context, institutionID id.InstitutionID) ([]*models.PolicyEntry, error)
	listFn      func(ctx context.Context, institutionID id.InstitutionID) ([]*models.PolicyEntry, error)
	updateFn    func(ctx context.Context, institutionID id.InstitutionID, items []models.UpdateItem) (int, error)
}

func (s *stubService) Bootstrap(ctx context.Context, institutionID id.InstitutionID) ([]*models.PolicyEntry, error) {
	return s.bootstrapFn(ctx, institutionID)
}

func (s *stubService) List(ctx context.Context, institutionID id.InstitutionID) ([]*models.PolicyEntry, error) {
	return s.listFn(ctx, institutionID)
}

func (s *stubService) Update(ctx context.Context, institutionID id.InstitutionID, items []models.UpdateItem) (int, error) {
	return s.updateFn(ctx, institutionID, items)
}

type stubValidator struct {
	err error
}

func (v *stubValidator) ValidateToken(string) (*middleware.JWTClaims, error) {
	if v.err != nil {
		return nil, v.err
	}
	return &middleware.JWTClaims{StaffID: "staff-1"}, nil
}

type PolicyHandlerSuite struct {
	suite.Suite
}

func TestPolicyHandlerSuite(t *testing.T) {
	suite.Run(t, new(PolicyHandlerSuite))
}

func newTestRouter(service Service, validator middleware.JWTValidator) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(service, logger, validator)
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func sampleEntry(institutionID id.InstitutionID, appName string, allowed bool) *models.PolicyEntry {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	return &models.PolicyEntry{
		ID:            id.PolicyEntryID(uuid.New()),
		InstitutionID: institutionID,
		AppName:       appName,
		PackageName:   "com.example." + appName,
		Allowed:       allowed,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (s *PolicyHandlerSuite) TestListReturnsEntries() {
	institutionID := id.InstitutionID(uuid.New())
	router := newTestRouter(&stubService{
		listFn: func(_ context.Context, got id.InstitutionID) ([]*models.PolicyEntry, error) {
			assert.Equal(s.T(), institutionID, got)
			return []*models.PolicyEntry{
				sampleEntry(institutionID, "Notes", true),
				sampleEntry(institutionID, "Games", false),
			}, nil
		},
	}, &stubValidator{})

	req := testutil.NewRequest(s.T(), http.MethodGet, "/api/policies/"+institutionID.String())
	rr := testutil.DoRequest(router, req)

	assert.Equal(s.T(), http.StatusOK, rr.Code)
	entries := *testutil.UnmarshalResponse[[]models.PolicyEntry](s.T(), rr)
	require.Len(s.T(), entries, 2)
	assert.Equal(s.T(), "Notes", entries[0].AppName)
}

func (s *PolicyHandlerSuite) TestListEmptyIsJSONArray() {
	router := newTestRouter(&stubService{
		listFn: func(context.Context, id.InstitutionID) ([]*models.PolicyEntry, error) {
			return nil, nil
		},
	}, &stubValidator{})

	req := testutil.NewRequest(s.T(), http.MethodGet, "/api/policies/"+uuid.NewString())
	rr := testutil.DoRequest(router, req)

	assert.Equal(s.T(), http.StatusOK, rr.Code)
	assert.JSONEq(s.T(), "[]", rr.Body.String())
}

func (s *PolicyHandlerSuite) TestListInvalidID() {
	router := newTestRouter(&stubService{}, &stubValidator{})

	req := testutil.NewRequest(s.T(), http.MethodGet, "/api/policies/not-a-uuid")
	rr := testutil.DoRequest(router, req)

	assert.Equal(s.T(), http.StatusBadRequest, rr.Code)
	resp := testutil.UnmarshalErrorResponse(s.T(), rr)
	assert.Equal(s.T(), "invalid_input", resp["error"])
}

func (s *PolicyHandlerSuite) TestBootstrapRequiresAuth() {
	router := newTestRouter(&stubService{}, &stubValidator{})

	req := testutil.NewRequest(s.T(), http.MethodPost, "/api/policies/"+uuid.NewString()+"/bootstrap")
	rr := testutil.DoRequest(router, req)

	assert.Equal(s.T(), http.StatusUnauthorized, rr.Code)
}

func (s *PolicyHandlerSuite) TestBootstrapCreated() {
	institutionID := id.InstitutionID(uuid.New())
	router := newTestRouter(&stubService{
		bootstrapFn: func(_ context.Context, got id.InstitutionID) ([]*models.PolicyEntry, error) {
			assert.Equal(s.T(), institutionID, got)
			return []*models.PolicyEntry{sampleEntry(institutionID, "Notes", true)}, nil
		},
	}, &stubValidator{})

	req := testutil.NewRequest(s.T(), http.MethodPost, "/api/policies/"+institutionID.String()+"/bootstrap")
	req.Header.Set("Authorization", "Bearer token")
	rr := testutil.DoRequest(router, req)

	assert.Equal(s.T(), http.StatusCreated, rr.Code)
	entries := *testutil.UnmarshalResponse[[]models.PolicyEntry](s.T(), rr)
	require.Len(s.T(), entries, 1)
}

func (s *PolicyHandlerSuite) TestBootstrapConflict() {
	router := newTestRouter(&stubService{
		bootstrapFn: func(context.Context, id.InstitutionID) ([]*models.PolicyEntry, error) {
			return nil, dErrors.New(dErrors.CodeConflict, "policy set already bootstrapped")
		},
	}, &stubValidator{})

	req := testutil.NewRequest(s.T(), http.MethodPost, "/api/policies/"+uuid.NewString()+"/bootstrap")
	req.Header.Set("Authorization", "Bearer token")
	rr := testutil.DoRequest(router, req)

	assert.Equal(s.T(), http.StatusConflict, rr.Code)
	resp := testutil.UnmarshalErrorResponse(s.T(), rr)
	assert.Equal(s.T(), "conflict", resp["error"])
}

func (s *PolicyHandlerSuite) TestUpdateReturnsCount() {
	institutionID := id.InstitutionID(uuid.New())
	router := newTestRouter(&stubService{
		updateFn: func(_ context.Context, got id.InstitutionID, items []models.UpdateItem) (int, error) {
			assert.Equal(s.T(), institutionID, got)
			require.Len(s.T(), items, 2)
			assert.Equal(s.T(), "WhatsApp", items[0].AppName)
			assert.True(s.T(), items[0].Allowed)
			return 1, nil
		},
	}, &stubValidator{})

	req := testutil.NewJSONRequest(s.T(), http.MethodPut, "/api/policies/"+institutionID.String(),
		[]models.UpdateItem{
			{AppName: "WhatsApp", Allowed: true},
			{AppName: "TikTok", Allowed: false},
		})
	req.Header.Set("Authorization", "Bearer token")
	rr := testutil.DoRequest(router, req)

	assert.Equal(s.T(), http.StatusOK, rr.Code)
	resp := testutil.UnmarshalResponse[map[string]int](s.T(), rr)
	assert.Equal(s.T(), 1, (*resp)["updated"])
}

func (s *PolicyHandlerSuite) TestUpdateMalformedBody() {
	router := newTestRouter(&stubService{}, &stubValidator{})

	req := testutil.NewRequestWithBody(s.T(), http.MethodPut, "/api/policies/"+uuid.NewString(), `{"not":"an array"}`)
	req.Header.Set("Authorization", "Bearer token")
	rr := testutil.DoRequest(router, req)

	assert.Equal(s.T(), http.StatusBadRequest, rr.Code)
	resp := testutil.UnmarshalErrorResponse(s.T(), rr)
	assert.Equal(s.T(), "bad_request", resp["error"])
}

func (s *PolicyHandlerSuite) TestUpdateRejectedToken() {
	router := newTestRouter(&stubService{}, &stubValidator{err: errors.New("expired")})

	req := testutil.NewJSONRequest(s.T(), http.MethodPut, "/api/policies/"+uuid.NewString(), []models.UpdateItem{})
	req.Header.Set("Authorization", "Bearer stale")
	rr := testutil.DoRequest(router, req)

	assert.Equal(s.T(), http.StatusUnauthorized, rr.Code)
}
