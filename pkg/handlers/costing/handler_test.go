package costing

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/de-tools/lab-costing/pkg/errors"
	"github.com/de-tools/lab-costing/pkg/models/api"
	"github.com/de-tools/lab-costing/pkg/models/domain"
)

type mockDashboardService struct {
	mock.Mock
}

func (m *mockDashboardService) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dashboard), args.Error(1)
}

func (m *mockDashboardService) TestCost(ctx context.Context, testID int64) (*domain.TestCostSummary, error) {
	args := m.Called(ctx, testID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TestCostSummary), args.Error(1)
}

func summary() *domain.TestCostSummary {
	return &domain.TestCostSummary{
		TestID:    4,
		Name:      "Fasting blood sugar",
		Lab:       "Chemistry",
		TotalCost: decimal.NewFromInt(20730),
		Components: []domain.CostComponent{
			{Component: domain.ComponentReagent, Cost: decimal.NewFromInt(730)},
			{Component: domain.ComponentInstrument, Cost: decimal.NewFromInt(20000)},
		},
	}
}

func withID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestHandler_GetDashboard(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*mockDashboardService)
		expectedStatus int
		check          func(t *testing.T, body []byte)
	}{
		{
			name: "success",
			setupMock: func(m *mockDashboardService) {
				m.On("Dashboard", mock.Anything).Return(&domain.Dashboard{
					Counts: domain.CatalogCounts{Tests: 1, Labs: 1, Instruments: 1, Reagents: 1, Users: 2},
					Tests:  []domain.TestCostSummary{*summary()},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var response api.Dashboard
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, int64(2), response.TotalUsers)
				require.Len(t, response.Tests, 1)
				assert.Equal(t, 20730.0, response.Tests[0].TotalCost)
				assert.Equal(t, "instrument", response.Tests[0].Components[1].Component)
			},
		},
		{
			name: "store failure",
			setupMock: func(m *mockDashboardService) {
				m.On("Dashboard", mock.Anything).Return(nil, errors.New("connection refused"))
			},
			expectedStatus: http.StatusInternalServerError,
			check: func(t *testing.T, body []byte) {
				assert.JSONEq(t, `{"error": "internal server error"}`, string(body))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockDashboardService)
			tt.setupMock(svc)
			handler := NewHandler(svc)

			rec := httptest.NewRecorder()
			handler.GetDashboard(rec, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/test-costing", nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			tt.check(t, rec.Body.Bytes())
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_GetTestCost(t *testing.T) {
	tests := []struct {
		name           string
		id             string
		setupMock      func(*mockDashboardService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success",
			id:   "4",
			setupMock: func(m *mockDashboardService) {
				m.On("TestCost", mock.Anything, int64(4)).Return(summary(), nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: `{
				"id": 4, "name": "Fasting blood sugar", "lab": "Chemistry", "total_cost": 20730,
				"components": [
					{"component": "reagent", "cost": 730, "items": []},
					{"component": "instrument", "cost": 20000, "items": []}
				]
			}`,
		},
		{
			name:           "non integer id",
			id:             "abc",
			setupMock:      func(m *mockDashboardService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error": "invalid test id: abc"}`,
		},
		{
			name:           "negative id",
			id:             "-3",
			setupMock:      func(m *mockDashboardService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error": "invalid test id: -3"}`,
		},
		{
			name: "unknown test",
			id:   "99",
			setupMock: func(m *mockDashboardService) {
				m.On("TestCost", mock.Anything, int64(99)).
					Return(nil, apperrors.NewNotFoundError("test 99 not found"))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error": "test 99 not found"}`,
		},
		{
			name: "internal failure",
			id:   "4",
			setupMock: func(m *mockDashboardService) {
				m.On("TestCost", mock.Anything, int64(4)).Return(nil, errors.New("list reagents: timeout"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error": "internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockDashboardService)
			tt.setupMock(svc)
			handler := NewHandler(svc)

			req := withID(httptest.NewRequest(http.MethodGet, "/api/v1/tests/"+tt.id+"/cost", nil), tt.id)
			rec := httptest.NewRecorder()
			handler.GetTestCost(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.JSONEq(t, tt.expectedBody, rec.Body.String())
			svc.AssertExpectations(t)
		})
	}
}
