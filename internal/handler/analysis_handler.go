package handler

import (
	"encoding/json"
	"io"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/revenueguard/analyzer/internal/domain"
	"github.com/revenueguard/analyzer/internal/orchestrator"
)

// AnalysisHandler handles submission of new analysis sessions.
type AnalysisHandler struct {
	orchestrator *orchestrator.Orchestrator
	maxFileSize  int64
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(o *orchestrator.Orchestrator, maxFileSize int64) *AnalysisHandler {
	return &AnalysisHandler{orchestrator: o, maxFileSize: maxFileSize}
}

// SubmitAnalysisResponse is returned on a successful submission.
type SubmitAnalysisResponse struct {
	SessionID string               `json:"sessionId"`
	Status    domain.SessionStatus `json:"status"`
}

// SubmitAnalysis handles POST /api/analysis
//
// @Summary Submit bank statements for revenue classification
// @Description Accepts one or more multipart files plus optional comment/metadata and starts an asynchronous analysis session
// @Tags analysis
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "One or more PDF/spreadsheet files" collectionFormat(multi)
// @Param comment formData string false "Free-text comment"
// @Param metadata formData string false "JSON-encoded metadata object"
// @Param sessionId formData string false "Existing session id to resume/retry"
// @Success 202 {object} SubmitAnalysisResponse
// @Failure 400 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Failure 413 {object} ProblemDetails
// @Router /analysis [post]
func (h *AnalysisHandler) SubmitAnalysis(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return NewValidationError(c, "Expected a multipart/form-data request", nil)
	}

	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		return NewFilesRequiredError(c, "At least one file is required")
	}

	submitted := make([]orchestrator.SubmittedFile, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		if fh.Size > h.maxFileSize {
			return NewFileTooLargeError(c, "File "+fh.Filename+" exceeds the maximum allowed size")
		}

		src, err := fh.Open()
		if err != nil {
			log.Error().Err(err).Str("filename", fh.Filename).Msg("failed to open uploaded file")
			return NewInternalError(c, "Failed to read uploaded file")
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			log.Error().Err(err).Str("filename", fh.Filename).Msg("failed to read uploaded file")
			return NewInternalError(c, "Failed to read uploaded file")
		}

		submitted = append(submitted, orchestrator.SubmittedFile{
			Name:     fh.Filename,
			MimeType: fh.Header.Get("Content-Type"),
			Size:     fh.Size,
			Data:     data,
		})
	}

	var metadata map[string]string
	if raw := c.FormValue("metadata"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
			return NewValidationError(c, "metadata must be a JSON object of string values", []ValidationError{
				{Field: "metadata", Message: "Invalid JSON"},
			})
		}
	}

	comment := c.FormValue("comment")
	if len(comment) > domain.MaxCommentLength {
		return NewValidationError(c, "comment exceeds the maximum allowed length", []ValidationError{
			{Field: "comment", Message: "Must be at most 10KB"},
		})
	}

	req := orchestrator.SubmissionRequest{
		SessionID: c.FormValue("sessionId"),
		Comment:   comment,
		Metadata:  metadata,
		Files:     submitted,
	}

	sessionID, err := h.orchestrator.Submit(c.Request().Context(), req)
	if err != nil {
		switch err {
		case domain.ErrFilesRequired:
			return NewFilesRequiredError(c, err.Error())
		case domain.ErrSessionInProgress:
			return NewAnalysisInProgressError(c, err.Error())
		default:
			log.Error().Err(err).Msg("failed to submit analysis session")
			return NewInternalError(c, "Failed to start analysis")
		}
	}

	return c.JSON(202, SubmitAnalysisResponse{
		SessionID: sessionID,
		Status:    domain.SessionStatusGenerating,
	})
}
