package push

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"sales-dashboard/internal/service/loader"
)

type MockLoader struct {
	mock.Mock
}

func (m *MockLoader) call(method string, ctx context.Context, r io.Reader) (*loader.Report, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", loader.ErrInvalidPayload, err)
	}
	args := m.MethodCalled(method, ctx, string(body))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*loader.Report), args.Error(1)
}

func (m *MockLoader) LoadSales(ctx context.Context, r io.Reader) (*loader.Report, error) {
	return m.call("LoadSales", ctx, r)
}

func (m *MockLoader) LoadSalesXLSX(ctx context.Context, r io.Reader) (*loader.Report, error) {
	return m.call("LoadSalesXLSX", ctx, r)
}

func (m *MockLoader) LoadEmployees(ctx context.Context, r io.Reader) (*loader.Report, error) {
	return m.call("LoadEmployees", ctx, r)
}

func okReport() *loader.Report {
	return &loader.Report{BatchID: "b-1", Total: 2, Inserted: 1, Skipped: []int{1}}
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp))
	return resp
}

func TestPushSales_JSON(t *testing.T) {
	l := new(MockLoader)
	l.On("LoadSales", mock.Anything, `[{"Date":"2024-01-01"}]`).Return(okReport(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/push/sales", strings.NewReader(`[{"Date":"2024-01-01"}]`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	PushSales(slog.Default(), l, 1024, time.Second).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	resp := decode(t, rr)
	require.NotNil(t, resp.Report)
	assert.Equal(t, "b-1", resp.Report.BatchID)
	assert.Equal(t, []int{1}, resp.Report.Skipped)
	l.AssertExpectations(t)
}

func TestPushSales_XLSXBody(t *testing.T) {
	l := new(MockLoader)
	l.On("LoadSalesXLSX", mock.Anything, "PK-binary").Return(okReport(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/push/sales", strings.NewReader("PK-binary"))
	req.Header.Set("Content-Type", xlsxContentType)
	rr := httptest.NewRecorder()

	PushSales(slog.Default(), l, 1024, time.Second).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	l.AssertExpectations(t)
	l.AssertNotCalled(t, "LoadSales", mock.Anything, mock.Anything)
}

func TestPushSales_Multipart(t *testing.T) {
	l := new(MockLoader)
	l.On("LoadSalesXLSX", mock.Anything, "sheet-bytes").Return(okReport(), nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "sales.xlsx")
	require.NoError(t, err)
	_, err = part.Write([]byte("sheet-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/push/sales", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()

	PushSales(slog.Default(), l, 1<<20, time.Second).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	l.AssertExpectations(t)
}

func TestPushSales_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "empty", err: fmt.Errorf("op: %w", loader.ErrEmptyPayload), status: http.StatusBadRequest},
		{name: "invalid", err: fmt.Errorf("op: %w: eof", loader.ErrInvalidPayload), status: http.StatusBadRequest},
		{name: "storage", err: errors.New("deadlock"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := new(MockLoader)
			l.On("LoadSales", mock.Anything, mock.Anything).Return(nil, tt.err)

			req := httptest.NewRequest(http.MethodPost, "/api/admin/push/sales", strings.NewReader(`[]`))
			rr := httptest.NewRecorder()

			PushSales(slog.Default(), l, 1024, time.Second).ServeHTTP(rr, req)

			assert.Equal(t, tt.status, rr.Code)
			assert.NotContains(t, rr.Body.String(), "deadlock")
		})
	}
}

func TestPushSales_TooLarge(t *testing.T) {
	l := new(MockLoader)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/push/sales", strings.NewReader(strings.Repeat("x", 64)))
	rr := httptest.NewRecorder()

	PushSales(slog.Default(), l, 16, time.Second).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	l.AssertNotCalled(t, "LoadSales", mock.Anything, mock.Anything)
}

func TestPushEmployees(t *testing.T) {
	l := new(MockLoader)
	l.On("LoadEmployees", mock.Anything, `[{"EmpNo":"E-1"}]`).Return(okReport(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/push/employees", strings.NewReader(`[{"EmpNo":"E-1"}]`))
	rr := httptest.NewRecorder()

	PushEmployees(slog.Default(), l, 1024, time.Second).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	l.AssertExpectations(t)
}
