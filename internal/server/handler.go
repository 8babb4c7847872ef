package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/veranemoloko/doc-converter/internal/config"
	"github.com/veranemoloko/doc-converter/internal/domain"
	"github.com/veranemoloko/doc-converter/internal/storage"
	"github.com/veranemoloko/doc-converter/internal/validation"
)

// Handler serves the converter HTTP API: upload, progress and download.
type Handler struct {
	files     *storage.FileStorage
	tracker   *Tracker
	converter *Converter
	validator *validation.FileValidator
	cfg       *config.Config
	logger    *slog.Logger
}

// NewHandler creates a Handler around the given store and converter.
func NewHandler(files *storage.FileStorage, tracker *Tracker, converter *Converter, cfg *config.Config, logger *slog.Logger) *Handler {
	return &Handler{
		files:     files,
		tracker:   tracker,
		converter: converter,
		validator: validation.NewFileValidator(cfg.AllowedExtensions, cfg.MaxFileSize),
		cfg:       cfg,
		logger:    logger,
	}
}

// Upload handles POST /upload: validates the file, stores it and schedules
// the conversion job.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	// Multipart framing adds overhead on top of the document itself.
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxFileSize+1024*1024)

	file, header, err := r.FormFile("file")
	if err != nil {
		h.logger.Warn("invalid upload request", "error", err)
		writeError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}
	defer file.Close()

	candidate := &domain.FileCandidate{Name: header.Filename, Size: header.Size}
	if err := h.validator.ValidateFile(candidate); err != nil {
		h.logger.Warn("upload rejected", "file", header.Filename, "size", header.Size, "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	pdfName, err := domain.DeriveArtifactName(header.Filename, h.cfg.ArtifactExtension)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.tracker.SetUpload(header.Filename, 0)
	if _, err := h.files.CopyFile(file, header.Filename); err != nil {
		h.logger.Error("failed to store upload", "file", header.Filename, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to store file")
		return
	}
	h.tracker.SetUpload(header.Filename, 100)

	h.converter.Enqueue(header.Filename)

	h.logger.Info("file uploaded", "file", header.Filename, "size", header.Size)
	writeJSON(w, http.StatusOK, domain.UploadResponse{
		Message:          "file uploaded, conversion started",
		OriginalFilename: header.Filename,
		PDFFilename:      pdfName,
	})
}

// UploadProgress handles GET /upload-progress/{filename}.
func (h *Handler) UploadProgress(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")

	percent, ok := h.tracker.Upload(name)
	if !ok {
		writeError(w, http.StatusNotFound, "no upload progress found for this file")
		return
	}

	writeJSON(w, http.StatusOK, domain.ProgressResponse{
		Filename: name,
		Progress: percent,
	})
}

// ConvertProgress handles GET /convert-progress/{filename}.
func (h *Handler) ConvertProgress(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")

	percent, ok := h.tracker.Convert(name)
	if !ok {
		writeError(w, http.StatusNotFound, "no conversion progress found for this file")
		return
	}

	response := domain.ProgressResponse{
		Filename: name,
		Progress: percent,
		Status:   domain.ConvertStatusInProgress,
	}
	switch {
	case percent == progressErr:
		response.Progress = 0
		response.Status = domain.ConvertStatusError
	case percent >= 100:
		response.Status = domain.ConvertStatusCompleted
	}

	writeJSON(w, http.StatusOK, response)
}

// Download handles GET /download/{filename}: serves the artifact and then
// clears all stored files, matching the single-shot bucket behavior.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")

	data, err := h.files.ReadFile(name)
	if err != nil {
		h.logger.Warn("artifact not found", "file", name, "error", err)
		writeError(w, http.StatusNotFound, "file not found")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Error("failed to write artifact response", "file", name, "error", err)
		return
	}

	if err := h.files.Clear(); err != nil {
		h.logger.Error("failed to clear stored files", "error", err)
		return
	}
	h.tracker.Clear()
	h.logger.Info("stored files cleared after download", "file", name)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, domain.ErrorResponse{Error: message})
}
