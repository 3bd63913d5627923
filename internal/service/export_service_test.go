package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nwced/clc-registry-api/internal/models"
	appErrors "github.com/nwced/clc-registry-api/pkg/errors"
	"github.com/nwced/clc-registry-api/pkg/storage"
)

func exportFixture(t *testing.T) (*ExportService, context.Context) {
	t.Helper()
	tables := newTestTables()
	siteSvc := newSiteServiceForTest(tables)
	ctx := context.Background()

	req := validSiteRequest("CLC-400")
	req.Name = "Harbor Learning Center"
	_, err := siteSvc.Create(ctx, req, 1)
	require.NoError(t, err)

	fs, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	svc := NewExportService(tables, fs, signer, ExportConfig{APIPrefix: "/api/v1", ResultTTL: time.Hour}, nil, nil, nil)
	return svc, ctx
}

func TestExportServiceGenerateCSV(t *testing.T) {
	svc, ctx := exportFixture(t)

	result, err := svc.Generate(ctx, models.EntitySite, ExportFormatCSV)
	require.NoError(t, err)

	assert.Equal(t, ExportFormatCSV, result.Format)
	assert.NotEmpty(t, result.Token)
	assert.True(t, strings.HasPrefix(result.URL, "/api/v1/exports/download/"))
	assert.True(t, result.ExpiresAt.After(time.Now()))

	file, _, err := svc.Open(result.Token)
	require.NoError(t, err)
	defer file.Close() //nolint:errcheck

	payload, err := io.ReadAll(file)
	require.NoError(t, err)
	content := string(payload)
	assert.Contains(t, content, "Site ID")
	assert.Contains(t, content, "CLC-400")
	assert.Contains(t, content, "Harbor Learning Center")
}

func TestExportServiceGeneratePDF(t *testing.T) {
	svc, ctx := exportFixture(t)

	result, err := svc.Generate(ctx, models.EntitySite, ExportFormatPDF)
	require.NoError(t, err)

	file, _, err := svc.Open(result.Token)
	require.NoError(t, err)
	defer file.Close() //nolint:errcheck

	header := make([]byte, 4)
	_, err = io.ReadFull(file, header)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(header))
}

func TestExportServiceUnknownFormat(t *testing.T) {
	svc, ctx := exportFixture(t)

	_, err := svc.Generate(ctx, models.EntitySite, "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportServiceOpenRejectsTamperedToken(t *testing.T) {
	svc, ctx := exportFixture(t)

	result, err := svc.Generate(ctx, models.EntitySite, ExportFormatCSV)
	require.NoError(t, err)

	_, _, err = svc.Open(result.Token + "x")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}
