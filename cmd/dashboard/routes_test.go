package main

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sales-dashboard/internal/config"
	"sales-dashboard/internal/pivot"
	excelservice "sales-dashboard/internal/service/generate-excel"
	"sales-dashboard/internal/service/loader"
	"sales-dashboard/internal/service/report"
	"sales-dashboard/internal/storage/mysql"
)

func newTestRouter(t *testing.T) (http.Handler, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := slog.New(slog.DiscardHandler)
	storage := mysql.NewWithDB(db)
	reportService := report.NewService(storage, log, pivot.Calendar)

	cfg := config.Config{
		CORSOrigins: []string{"http://localhost:5173"},
		AdminLogin:  "admin",
		AdminPass:   "secret",
		FrontendDir: filepath.Join(t.TempDir(), "none"),
		Report:      config.Report{KeyOrder: "calendar", RequestTimeout: time.Second, ExcelTimeout: time.Second},
		Loader:      config.Loader{BatchSize: 10, MaxBytes: 1024, Timeout: time.Second},
	}

	return routes(cfg, log, services{
		storage: storage,
		report:  reportService,
		excel:   excelservice.NewGenerateService(reportService),
		loader:  loader.NewService(storage, log, cfg.Loader.BatchSize),
	}), mock
}

func TestHealthz(t *testing.T) {
	router, mock := newTestRouter(t)

	mock.ExpectPing()
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	mock.ExpectPing().WillReturnError(errors.New("gone"))
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMonthsRoute(t *testing.T) {
	router, mock := newTestRouter(t)

	mock.ExpectQuery("SELECT DISTINCT DATE_FORMAT").
		WillReturnRows(sqlmock.NewRows([]string{"month"}).AddRow("2024-01").AddRow("2024-02"))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/sales/months", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"values":["2024-01","2024-02"]`)
	assert.NotEmpty(t, rr.Header().Get("Content-Type"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	router, mock := newTestRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/admin/push/sales", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/push/employees", nil)
	req.SetBasicAuth("admin", "secret")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	// authorised but the body is empty
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnknownRouteWithoutFrontend(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
