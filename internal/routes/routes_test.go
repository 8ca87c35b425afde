package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"repair-tracker/internal/dto"
	"repair-tracker/internal/testutil"
	"repair-tracker/pkg/config"
	"repair-tracker/pkg/constants"
	"repair-tracker/pkg/metrics"
	"repair-tracker/pkg/trackingcode"
	"repair-tracker/pkg/utils"
)

const testAdminKey = "test-admin-key"

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type RouterTestSuite struct {
	suite.Suite
	Echo      *echo.Echo
	Store     *testutil.Store
	Publisher *testutil.Publisher
	Config    *config.Config
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func testConfig() *config.Config {
	return &config.Config{
		App:      config.AppConfig{Env: constants.EnvDevelopment, Name: constants.ServiceName, Version: "1.0.0"},
		Admin:    config.AdminConfig{APIKey: testAdminKey},
		Tracking: config.TrackingConfig{Mode: trackingcode.ModeRandom},
		Security: config.SecurityConfig{RateLimitPerMinute: 100},
	}
}

func newTestRouter(cfg *config.Config, store *testutil.Store, publisher *testutil.Publisher, db pinger) *echo.Echo {
	generator, err := trackingcode.New(cfg.Tracking.Mode)
	if err != nil {
		panic(err)
	}
	e := echo.New()
	InitRouter(e, Dependencies{
		Config:     cfg,
		TxManager:  store.TxManager(),
		QuoteRepo:  store.Quotes(),
		StatusRepo: store.Statuses(),
		Generator:  generator,
		Publisher:  publisher,
		Metrics:    metrics.New(constants.ServiceName),
		DB:         db,
		Logger:     zap.NewNop(),
	})
	return e
}

func (s *RouterTestSuite) SetupTest() {
	s.Store = testutil.NewStore()
	s.Publisher = &testutil.Publisher{}
	s.Config = testConfig()
	s.Echo = newTestRouter(s.Config, s.Store, s.Publisher, pinger{})
}

func (s *RouterTestSuite) do(method, target string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

func (s *RouterTestSuite) decode(rec *httptest.ResponseRecorder, v interface{}) {
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func adminHeaders() map[string]string {
	return map[string]string{constants.APIKeyHeader: testAdminKey}
}

func johnDoe() map[string]string {
	return map[string]string{
		"full_name":         "John Doe",
		"email":             "john@example.com",
		"phone":             "+905551234567",
		"city":              "Istanbul",
		"device_type":       "Inverter",
		"brand":             "Huawei",
		"model":             "SUN2000-5KTL",
		"issue_description": "Device is not powering on at all",
	}
}

func (s *RouterTestSuite) submit(body map[string]string) dto.QuoteDTO {
	rec := s.do(http.MethodPost, "/api/v1/submit_quote", body, nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var quote dto.QuoteDTO
	s.decode(rec, &quote)
	return quote
}

func (s *RouterTestSuite) TestJohnDoeFlow() {
	quote := s.submit(johnDoe())
	s.True(trackingcode.Valid(quote.TrackingCode), quote.TrackingCode)
	s.Equal("John Doe", quote.FullName)

	rec := s.do(http.MethodGet, "/api/v1/track/"+quote.TrackingCode, nil, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var status dto.TrackingStatusDTO
	s.decode(rec, &status)
	s.Equal(quote.TrackingCode, status.TrackingCode)
	s.Equal(constants.InitialStatus, status.CurrentStatus)

	rec = s.do(http.MethodPost, "/api/v1/admin/update_status", map[string]string{
		"tracking_code":  quote.TrackingCode,
		"status_message": "Diagnosis in progress",
	}, adminHeaders())
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var msg dto.MessageDTO
	s.decode(rec, &msg)
	s.Equal("Status updated successfully for tracking code "+quote.TrackingCode, msg.Message)

	rec = s.do(http.MethodGet, "/api/v1/track/"+quote.TrackingCode, nil, nil)
	s.decode(rec, &status)
	s.Equal("Diagnosis in progress", status.CurrentStatus)

	rec = s.do(http.MethodGet, "/api/v1/admin/quotes/"+quote.TrackingCode+"/history", nil, adminHeaders())
	s.Require().Equal(http.StatusOK, rec.Code)
	var history dto.QuoteHistoryDTO
	s.decode(rec, &history)
	s.Require().Len(history.History, 2)
	s.Equal(constants.InitialStatus, history.History[0].StatusMessage)
	s.Equal("Diagnosis in progress", history.History[1].StatusMessage)

	s.Len(s.Publisher.Events(), 2)
}

func (s *RouterTestSuite) TestUpdateStatus_RejectsBadKeyWithoutInsert() {
	quote := s.submit(johnDoe())
	before := s.Store.EntryCount()
	body := map[string]string{"tracking_code": quote.TrackingCode, "status_message": "Shipped back"}

	for name, headers := range map[string]map[string]string{
		"missing": nil,
		"wrong":   {constants.APIKeyHeader: "not-the-key"},
	} {
		rec := s.do(http.MethodPost, "/api/v1/admin/update_status", body, headers)
		s.Equal(http.StatusUnauthorized, rec.Code, name)

		var errBody utils.ErrorBody
		s.decode(rec, &errBody)
		s.Equal("Invalid API key", errBody.Detail, name)
	}
	s.Equal(before, s.Store.EntryCount())
}

func (s *RouterTestSuite) TestUpdateStatus_KeyNotConfigured() {
	cfg := testConfig()
	cfg.Admin = config.AdminConfig{}
	s.Echo = newTestRouter(cfg, s.Store, s.Publisher, pinger{})

	rec := s.do(http.MethodPost, "/api/v1/admin/update_status",
		map[string]string{"tracking_code": "QS-A7K9M2P5", "status_message": "Shipped back"},
		map[string]string{constants.APIKeyHeader: ""})
	s.Equal(http.StatusInternalServerError, rec.Code)
	s.Zero(s.Store.EntryCount())
}

func (s *RouterTestSuite) TestUpdateStatus_Validation() {
	cases := []struct {
		name string
		body map[string]string
		want int
	}{
		{"short message", map[string]string{"tracking_code": "QS-A7K9M2P5", "status_message": "ok"}, http.StatusBadRequest},
		{"markup", map[string]string{"tracking_code": "QS-A7K9M2P5", "status_message": "<b>done</b>"}, http.StatusBadRequest},
		{"bad code", map[string]string{"tracking_code": "QS-short", "status_message": "Repair completed"}, http.StatusBadRequest},
		{"unknown code", map[string]string{"tracking_code": "QS-ZZZZZZZZ", "status_message": "Repair completed"}, http.StatusNotFound},
	}
	for _, tc := range cases {
		rec := s.do(http.MethodPost, "/api/v1/admin/update_status", tc.body, adminHeaders())
		s.Equal(tc.want, rec.Code, tc.name)
	}
	s.Zero(s.Store.EntryCount())
}

func (s *RouterTestSuite) TestTrack_Errors() {
	rec := s.do(http.MethodGet, "/api/v1/track/qs-a7k9m2p5", nil, nil)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Zero(s.Store.Lookups)

	rec = s.do(http.MethodGet, "/api/v1/track/QS-ZZZZZZZZ", nil, nil)
	s.Equal(http.StatusNotFound, rec.Code)
	var errBody utils.ErrorBody
	s.decode(rec, &errBody)
	s.Equal("Tracking code not found", errBody.Detail)
}

func (s *RouterTestSuite) TestSubmitQuote_Validation() {
	short := johnDoe()
	short["issue_description"] = "123456789"
	rec := s.do(http.MethodPost, "/api/v1/submit_quote", short, nil)
	s.Equal(http.StatusBadRequest, rec.Code)

	exact := johnDoe()
	exact["issue_description"] = "1234567890"
	rec = s.do(http.MethodPost, "/api/v1/submit_quote", exact, nil)
	s.Equal(http.StatusOK, rec.Code, rec.Body.String())

	router := johnDoe()
	router["device_type"] = "Router"
	rec = s.do(http.MethodPost, "/api/v1/submit_quote", router, nil)
	s.Require().Equal(http.StatusBadRequest, rec.Code)
	var errBody utils.ErrorBody
	s.decode(rec, &errBody)
	s.Require().NotEmpty(errBody.Errors)
	s.Equal("device_type", errBody.Errors[0].Field)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/submit_quote", strings.NewReader("{not json"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	raw := httptest.NewRecorder()
	s.Echo.ServeHTTP(raw, req)
	s.Equal(http.StatusBadRequest, raw.Code)

	s.Equal(1, s.Store.QuoteCount())
}

func (s *RouterTestSuite) TestSubmitQuote_StoreFailureIsGeneric() {
	s.Store.FailStatusInsert = errors.New("connection reset by peer")

	rec := s.do(http.MethodPost, "/api/v1/submit_quote", johnDoe(), nil)
	s.Equal(http.StatusInternalServerError, rec.Code)
	s.NotContains(rec.Body.String(), "connection reset")
	s.Zero(s.Store.QuoteCount())
	s.Empty(s.Publisher.Events())
}

func (s *RouterTestSuite) TestSubmitQuote_RateLimited() {
	cfg := testConfig()
	cfg.Security.RateLimitPerMinute = 2
	s.Echo = newTestRouter(cfg, s.Store, s.Publisher, pinger{})

	s.submit(johnDoe())
	s.submit(johnDoe())
	rec := s.do(http.MethodPost, "/api/v1/submit_quote", johnDoe(), nil)
	s.Equal(http.StatusTooManyRequests, rec.Code)
	s.Equal(2, s.Store.QuoteCount())
}

func (s *RouterTestSuite) TestAdminListStatsExport() {
	first := s.submit(johnDoe())
	second := johnDoe()
	second["device_type"] = "Solar Panel"
	second["city"] = "Ankara"
	s.submit(second)

	rec := s.do(http.MethodGet, "/api/v1/admin/quotes?device_type=Inverter&limit=10", nil, adminHeaders())
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var list dto.QuoteListDTO
	s.decode(rec, &list)
	s.Require().Len(list.List, 1)
	s.Equal(first.TrackingCode, list.List[0].TrackingCode)
	s.Equal(constants.InitialStatus, list.List[0].CurrentStatus)
	s.Equal(uint64(10), list.Pagination.Limit)

	rec = s.do(http.MethodGet, "/api/v1/admin/quotes?limit=abc&date_from=yesterday", nil, adminHeaders())
	s.Require().Equal(http.StatusBadRequest, rec.Code)
	var errBody utils.ErrorBody
	s.decode(rec, &errBody)
	s.Len(errBody.Errors, 2)

	rec = s.do(http.MethodGet, "/api/v1/admin/quotes?device_type=Router", nil, adminHeaders())
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/admin/quotes?limit=0", nil, adminHeaders())
	s.Require().Equal(http.StatusBadRequest, rec.Code, rec.Body.String())
	errBody = utils.ErrorBody{}
	s.decode(rec, &errBody)
	s.Require().Len(errBody.Errors, 1)
	s.Equal("limit", errBody.Errors[0].Field)

	rec = s.do(http.MethodGet, "/api/v1/admin/stats", nil, adminHeaders())
	s.Require().Equal(http.StatusOK, rec.Code)
	var stats dto.QuoteStatsDTO
	s.decode(rec, &stats)
	s.Equal(uint64(2), stats.TotalQuotes)
	s.Equal(uint64(2), stats.QuotesByStatus[constants.InitialStatus])

	rec = s.do(http.MethodGet, "/api/v1/admin/quotes/export", nil, adminHeaders())
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get(echo.HeaderContentType))
	s.Contains(rec.Header().Get(echo.HeaderContentDisposition), "attachment; filename=quotes_")
	s.NotZero(rec.Body.Len())

	rec = s.do(http.MethodGet, "/api/v1/admin/stats", nil, nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *RouterTestSuite) TestHealth() {
	rec := s.do(http.MethodGet, "/api/v1/health", nil, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var health dto.HealthDTO
	s.decode(rec, &health)
	s.Equal("healthy", health.Status)
	s.Equal(constants.ServiceName, health.Service)
	s.Equal("connected", health.DatabaseStatus)
	s.Empty(health.CacheStatus)

	s.Echo = newTestRouter(testConfig(), s.Store, s.Publisher, pinger{err: errors.New("down")})
	rec = s.do(http.MethodGet, "/api/v1/health", nil, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.decode(rec, &health)
	s.Equal("disconnected", health.DatabaseStatus)
}

func (s *RouterTestSuite) TestSecurityHeadersAndErrors() {
	rec := s.do(http.MethodGet, "/api/v1/health", nil, nil)
	s.Equal("nosniff", rec.Header().Get("X-Content-Type-Options"))
	s.Equal("DENY", rec.Header().Get("X-Frame-Options"))
	s.Equal("1; mode=block", rec.Header().Get("X-XSS-Protection"))
	s.NotEmpty(rec.Header().Get("Referrer-Policy"))
	s.Empty(rec.Header().Get("Strict-Transport-Security"))
	s.NotEmpty(rec.Header().Get("X-Request-ID"))

	rec = s.do(http.MethodGet, "/api/v1/nope", nil, nil)
	s.Equal(http.StatusNotFound, rec.Code)
	var errBody utils.ErrorBody
	s.decode(rec, &errBody)
	s.NotEmpty(errBody.Detail)

	cfg := testConfig()
	cfg.Security.AllowedHosts = []string{"track.qsolutions.com"}
	s.Echo = newTestRouter(cfg, s.Store, s.Publisher, pinger{})
	rec = s.do(http.MethodGet, "/api/v1/health", nil, nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *RouterTestSuite) TestMetricsEndpoint() {
	s.submit(johnDoe())

	rec := s.do(http.MethodGet, "/metrics", nil, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "quotes_submitted_total")
	s.Contains(rec.Body.String(), "http_requests_total")
}
