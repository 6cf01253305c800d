package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"jobvault/pkg/models"
	"jobvault/pkg/utils"
)

// errorCodes maps capture error kinds to stable machine-readable codes.
var errorCodes = map[utils.ErrorKind]string{
	utils.KindInput:             "invalid_url",
	utils.KindUnsupportedSource: "unsupported_source",
	utils.KindFetch:             "fetch_failed",
	utils.KindLLMTransport:      "llm_unavailable",
	utils.KindLLMOutput:         "llm_malformed_output",
	utils.KindPersistence:       "persistence_conflict",
}

// captureErrorResponse maps a pipeline error onto its HTTP status and a
// structured body. Unclassified errors become opaque 500s.
func captureErrorResponse(c echo.Context, requestID string, err error) error {
	code := "internal_error"
	message := "Internal server error"

	if kind, ok := utils.KindOf(err); ok {
		code = errorCodes[kind]
		message = err.Error()
	}

	return c.JSON(utils.HTTPStatus(err), models.ErrorResponse{
		Error:     code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now(),
	})
}

func parseID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

func invalidIDResponse(c echo.Context, requestID string) error {
	return c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:     "invalid_id",
		Message:   "Job ID must be a positive integer",
		RequestID: requestID,
		Timestamp: time.Now(),
	})
}

func notFoundResponse(c echo.Context, requestID string) error {
	return c.JSON(http.StatusNotFound, models.ErrorResponse{
		Error:     "not_found",
		Message:   "Job not found",
		RequestID: requestID,
		Timestamp: time.Now(),
	})
}

func internalErrorResponse(c echo.Context, requestID, message string) error {
	return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:     "internal_error",
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now(),
	})
}
