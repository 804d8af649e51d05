package pages

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderBuiltinSuccess(t *testing.T) {
	r, err := NewRenderer("")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, ConnectSuccess, ConnectSuccessData{CompanyUUID: "co_1"}))
	assert.Contains(t, buf.String(), "co_1")
	assert.Contains(t, buf.String(), "<!DOCTYPE html>")
}

func TestRenderEscapesInput(t *testing.T) {
	r, err := NewRenderer("")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, ConnectSuccess, ConnectSuccessData{CompanyUUID: "<script>alert(1)</script>"}))
	assert.NotContains(t, buf.String(), "<script>")
	assert.Contains(t, buf.String(), "&lt;script&gt;")
}

func TestRenderUnknownPage(t *testing.T) {
	r, err := NewRenderer("")
	require.NoError(t, err)
	assert.Error(t, r.Render(&bytes.Buffer{}, "missing", nil))
}

func TestTemplateOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConnectRefresh+".html"),
		[]byte(`<p>custom {{.CompanyUUID}}</p>`), 0o644))

	r, err := NewRenderer(dir)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, ConnectRefresh, ConnectRefreshData{CompanyUUID: "co_7"}))
	assert.Equal(t, "<p>custom co_7</p>", buf.String())

	buf.Reset()
	require.NoError(t, r.Render(&buf, ConnectSuccess, ConnectSuccessData{}))
	assert.Contains(t, buf.String(), "You're all set")
}

func TestInvalidOverrideIsAnError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConnectSuccess+".html"), []byte(`{{.Broken`), 0o644))

	_, err := NewRenderer(dir)
	assert.ErrorContains(t, err, ConnectSuccess+".html")
}

func TestRefreshPageRestartLink(t *testing.T) {
	r, err := NewRenderer("")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, ConnectRefresh, ConnectRefreshData{
		CompanyUUID: "co_1",
		RestartURL:  "/stripe/connect/restart?companyUUID=co_1",
	}))
	assert.Contains(t, buf.String(), `href="/stripe/connect/restart?companyUUID=co_1"`)

	buf.Reset()
	require.NoError(t, r.Render(&buf, ConnectRefresh, ConnectRefreshData{}))
	assert.NotContains(t, buf.String(), "href=")
	assert.Contains(t, buf.String(), "Return to the app")
}
