package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/username/portfolion/backend/src/config"
	"github.com/username/portfolion/backend/src/importer"
	"github.com/username/portfolion/backend/src/logger"
	"github.com/username/portfolion/backend/src/security/validation"
	"github.com/username/portfolion/backend/src/utils"
)

type ImportHandler struct {
	importer *importer.Importer
}

func NewImportHandler(imp *importer.Importer) *ImportHandler {
	return &ImportHandler{importer: imp}
}

// HandleImport accepts a multipart upload of one or more statement files in
// the "files" field and runs them through the import pipeline as one batch.
// The response is the list of per-file results; per-file parse failures are
// reported there, not as an HTTP error.
func (h *ImportHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(config.Cfg.MaxUploadSizeBytes); err != nil {
		logger.L.Warn("Failed to parse multipart form or request too large", "error", err, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("Failed to parse form or request too large (max %d MB)", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	if r.MultipartForm == nil || len(r.MultipartForm.File["files"]) == 0 {
		utils.SendJSONError(w, "No files in request. Ensure 'files' field is used.", http.StatusBadRequest)
		return
	}

	var files []importer.File
	for _, fileHeader := range r.MultipartForm.File["files"] {
		if fileHeader.Size > config.Cfg.MaxUploadSizeBytes {
			logger.L.Warn("Uploaded file header reports size too large", "filename", fileHeader.Filename, "fileSize", fileHeader.Size, "limit", config.Cfg.MaxUploadSizeBytes)
			utils.SendJSONError(w, fmt.Sprintf("File %s too large, max %d MB", fileHeader.Filename, config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
			return
		}

		clientContentType := fileHeader.Header.Get("Content-Type")
		if err := validation.ValidateClientContentType(clientContentType); err != nil {
			logger.L.Warn("Invalid client-declared file type", "filename", fileHeader.Filename, "contentType", clientContentType, "error", err)
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			logger.L.Warn("Failed to open uploaded file", "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, "Failed to read uploaded file", http.StatusBadRequest)
			return
		}

		detectedContentType, err := validation.ValidateFileContentByMagicBytes(file)
		if err != nil {
			file.Close()
			logger.L.Warn("Server-side file content validation failed", "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.L.Debug("File content validated by magic bytes", "filename", fileHeader.Filename, "clientType", clientContentType, "detectedType", detectedContentType)

		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			logger.L.Warn("Failed to read uploaded file", "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, "Failed to read uploaded file", http.StatusBadRequest)
			return
		}

		files = append(files, importer.File{Name: fileHeader.Filename, Data: data})
	}

	logger.L.Info("Processing import request", "fileCount", len(files))
	results, err := h.importer.ImportBatch(r.Context(), files, nil)
	if err != nil {
		if errors.Is(err, importer.ErrEmptyBatch) {
			utils.SendJSONError(w, "No files in request", http.StatusBadRequest)
			return
		}
		logger.L.Error("Import batch failed", "error", err)
		utils.SendJSONError(w, "Failed to process import batch", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, results, http.StatusOK)
}
