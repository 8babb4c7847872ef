package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/veranemoloko/doc-converter/internal/config"
	"github.com/veranemoloko/doc-converter/internal/domain"
	"github.com/veranemoloko/doc-converter/internal/storage"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

func waitFor(t *testing.T, timeout time.Duration, check func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if check() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timeout waiting condition")
}

func newTestServer(t *testing.T) (*httptest.Server, *Tracker) {
	t.Helper()

	cfg := &config.Config{
		MaxFileSize:       10 * 1024 * 1024,
		AllowedExtensions: []string{".doc", ".docx"},
		ArtifactExtension: ".pdf",
		ConvertWorkers:    2,
		ConvertStepDelay:  time.Millisecond,
	}

	files := storage.NewFileStorage(t.TempDir())
	tracker := NewTracker()
	converter := NewConverter(files, tracker, cfg, newTestLogger())
	handler := NewHandler(files, tracker, converter, cfg, newTestLogger())

	ts := httptest.NewServer(NewRouter(handler))
	t.Cleanup(ts.Close)
	return ts, tracker
}

func uploadFile(t *testing.T, serverURL, filename string, content []byte) *http.Response {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile error: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part error: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer error: %v", err)
	}

	resp, err := http.Post(serverURL+"/upload", writer.FormDataContentType(), &body)
	if err != nil {
		t.Fatalf("upload request error: %v", err)
	}
	return resp
}

func TestServer_UploadConvertDownloadCycle(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := uploadFile(t, ts.URL, "report.docx", []byte("document-bytes"))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var uploadResp domain.UploadResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&uploadResp))
	assert.Equal(t, "report.docx", uploadResp.OriginalFilename)
	assert.Equal(t, "report.pdf", uploadResp.PDFFilename)

	// Upload progress is recorded immediately.
	progResp, err := http.Get(ts.URL + "/upload-progress/report.docx")
	assert.NoError(t, err)
	defer progResp.Body.Close()
	assert.Equal(t, http.StatusOK, progResp.StatusCode)

	// Wait for the conversion job to run through its milestones.
	waitFor(t, 5*time.Second, func() bool {
		resp, err := http.Get(ts.URL + "/convert-progress/report.docx")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		var progress domain.ProgressResponse
		if err := json.NewDecoder(resp.Body).Decode(&progress); err != nil {
			return false
		}
		return progress.Status == domain.ConvertStatusCompleted
	})

	dlResp, err := http.Get(ts.URL + "/download/report.pdf")
	assert.NoError(t, err)
	defer dlResp.Body.Close()
	assert.Equal(t, http.StatusOK, dlResp.StatusCode)
	assert.Equal(t, "application/pdf", dlResp.Header.Get("Content-Type"))
	assert.Contains(t, dlResp.Header.Get("Content-Disposition"), "report.pdf")

	artifact, err := io.ReadAll(dlResp.Body)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(artifact), "%PDF-1.4"), "expected a PDF body, got %q", artifact)

	// The store is single-shot: everything is cleared after a download.
	secondResp, err := http.Get(ts.URL + "/download/report.pdf")
	assert.NoError(t, err)
	defer secondResp.Body.Close()
	assert.Equal(t, http.StatusNotFound, secondResp.StatusCode)

	clearedProg, err := http.Get(ts.URL + "/convert-progress/report.docx")
	assert.NoError(t, err)
	defer clearedProg.Body.Close()
	assert.Equal(t, http.StatusNotFound, clearedProg.StatusCode)
}

func TestServer_UploadRejectsUnsupportedType(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := uploadFile(t, ts.URL, "image.png", []byte("not a document"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var apiErr domain.ErrorResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&apiErr))
	assert.Contains(t, apiErr.Error, "unsupported file type")
}

func TestServer_UploadRejectsTooLarge(t *testing.T) {
	ts, _ := newTestServer(t)

	oversized := bytes.Repeat([]byte("a"), 10*1024*1024+1)
	resp := uploadFile(t, ts.URL, "huge.docx", oversized)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_ProgressNotFound(t *testing.T) {
	ts, _ := newTestServer(t)

	for _, path := range []string{"/upload-progress/unknown.docx", "/convert-progress/unknown.docx"} {
		resp, err := http.Get(ts.URL + path)
		assert.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, "path %s", path)
	}
}

func TestServer_ConvertProgressReportsError(t *testing.T) {
	ts, tracker := newTestServer(t)

	tracker.SetConvert("broken.docx", progressErr)

	resp, err := http.Get(ts.URL + "/convert-progress/broken.docx")
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var progress domain.ProgressResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&progress))
	assert.Equal(t, domain.ConvertStatusError, progress.Status)
	assert.Equal(t, float64(0), progress.Progress)
}

func TestServer_Health(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
