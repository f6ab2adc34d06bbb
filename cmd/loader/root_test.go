package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"sales-dashboard/internal/config"
	"sales-dashboard/internal/service/loader"
	"sales-dashboard/internal/storage/mysql"
)

type MockFileLoader struct {
	mock.Mock
}

func (m *MockFileLoader) LoadSales(ctx context.Context, r io.Reader) (*loader.Report, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(*loader.Report), args.Error(1)
}

func (m *MockFileLoader) LoadSalesXLSX(ctx context.Context, r io.Reader) (*loader.Report, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(*loader.Report), args.Error(1)
}

func (m *MockFileLoader) LoadEmployees(ctx context.Context, r io.Reader) (*loader.Report, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(*loader.Report), args.Error(1)
}

func writeFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o600))
	return path
}

func TestLoadFile_Dispatch(t *testing.T) {
	rep := &loader.Report{BatchID: "b"}

	tests := []struct {
		kind   string
		file   string
		method string
	}{
		{kind: kindSales, file: "sales.json", method: "LoadSales"},
		{kind: kindSales, file: "Sales.XLSX", method: "LoadSalesXLSX"},
		{kind: kindEmployees, file: "hr.json", method: "LoadEmployees"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			svc := new(MockFileLoader)
			svc.On(tt.method, mock.Anything, mock.Anything).Return(rep, nil)

			got, err := loadFile(t.Context(), svc, tt.kind, writeFile(t, tt.file))
			require.NoError(t, err)
			assert.Same(t, rep, got)
			svc.AssertExpectations(t)
		})
	}
}

func TestLoadFile_Rejects(t *testing.T) {
	svc := new(MockFileLoader)

	_, err := loadFile(t.Context(), svc, kindEmployees, writeFile(t, "hr.xlsx"))
	assert.ErrorIs(t, err, errUnsupportedFile)

	_, err = loadFile(t.Context(), svc, kindSales, writeFile(t, "sales.csv"))
	assert.ErrorIs(t, err, errUnsupportedFile)

	_, err = loadFile(t.Context(), svc, kindSales, filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	printReport(&buf, &loader.Report{BatchID: "b-1", Total: 4, Inserted: 2, Skipped: []int{0, 3}})

	out := buf.String()
	assert.Contains(t, out, "batch:    b-1")
	assert.Contains(t, out, "inserted: 2")
	assert.Contains(t, out, "skipped rows: 0, 3")
}

func TestRootCmd_MissingConfig(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml"), "migrate"})
	cmd.SetOut(io.Discard)

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}

func TestLoad_ClosesStorageOnFailure(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	dbMock.ExpectClose()

	a := &app{
		cfg:     &config.Config{Loader: config.Loader{BatchSize: 10}},
		storage: mysql.NewWithDB(db),
	}

	cmd := &cobra.Command{}
	cmd.SetContext(t.Context())
	cmd.SetOut(io.Discard)

	err = a.load(cmd, kindSales, filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	assert.Nil(t, a.storage)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}
