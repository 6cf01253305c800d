package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"jobvault/internal/capture"
	"jobvault/internal/storage"
	"jobvault/pkg/models"
	"jobvault/pkg/utils"
)

var validate = validator.New()

// ArtifactLoader reads stored capture artifacts.
type ArtifactLoader interface {
	Load(path string) (string, error)
}

// RepoSource hands out repositories; *storage.Store satisfies it.
type RepoSource interface {
	Repo() storage.Repo
}

// CaptureHandler handles job capture requests
func CaptureHandler(svc *capture.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		logger := utils.LogWithRequestID(requestID)

		var req models.CaptureRequest
		if err := c.Bind(&req); err != nil {
			logger.WithError(err).Error("Failed to bind request")
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "invalid_request",
				Message:   "Invalid request format",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		if err := validate.Struct(&req); err != nil {
			logger.WithError(err).Error("Request validation failed")
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "validation_failed",
				Message:   err.Error(),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		logger.WithField("url", req.URL).Info("Processing capture request")

		result, err := svc.Capture(c.Request().Context(), req.URL)
		if err != nil {
			logger.WithError(err).Error("Capture failed")
			return captureErrorResponse(c, requestID, err)
		}

		return c.JSON(http.StatusOK, result)
	}
}

// ListJobsHandler handles job listing requests
func ListJobsHandler(store RepoSource) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		logger := utils.LogWithRequestID(requestID)

		items, err := store.Repo().ListRoles(c.Request().Context())
		if err != nil {
			logger.WithError(err).Error("Failed to list jobs")
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:     "list_failed",
				Message:   "Failed to list jobs",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		if items == nil {
			items = []models.JobListItem{}
		}
		return c.JSON(http.StatusOK, items)
	}
}

// JobDetailHandler handles single job detail requests
func JobDetailHandler(store RepoSource, artifacts ArtifactLoader) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		logger := utils.LogWithRequestID(requestID)
		ctx := c.Request().Context()

		roleID, ok := parseID(c)
		if !ok {
			return invalidIDResponse(c, requestID)
		}

		repo := store.Repo()
		role, err := repo.RoleByID(ctx, roleID)
		if err != nil {
			logger.WithError(err).Error("Failed to load role")
			return internalErrorResponse(c, requestID, "Failed to load job")
		}
		if role == nil {
			return notFoundResponse(c, requestID)
		}

		company, err := repo.CompanyByID(ctx, role.CompanyID)
		if err != nil {
			logger.WithError(err).Error("Failed to load company")
			return internalErrorResponse(c, requestID, "Failed to load job")
		}

		roleSkills, err := repo.SkillsForRole(ctx, role.ID)
		if err != nil {
			logger.WithError(err).Error("Failed to load skills")
			return internalErrorResponse(c, requestID, "Failed to load job")
		}

		detail := models.JobDetail{
			ID:           role.ID,
			Title:        role.Title,
			TeamDivision: role.TeamDivision,
			SalaryMin:    role.SalaryMin,
			SalaryMax:    role.SalaryMax,
			SalaryRange:  models.FormatSalaryRange(role.SalaryMin, role.SalaryMax, role.SalaryCurrency),
			URL:          role.URL,
			Skills:       *roleSkills,
			Status:       role.Status,
			CreatedAt:    role.CreatedAt,
		}
		if company != nil {
			detail.Company = company.Name
			detail.CompanySlug = company.Slug
		}

		// Markdown is best effort; a missing artifact file degrades to an
		// empty description, not an error.
		if role.CleanedMDPath != "" {
			if md, err := artifacts.Load(role.CleanedMDPath); err == nil {
				detail.DescriptionMD = md
			} else {
				logger.WithError(err).Warn("Cleaned Markdown artifact unavailable")
			}
		}

		return c.JSON(http.StatusOK, detail)
	}
}

// UpdateStatusHandler handles role status updates
func UpdateStatusHandler(store RepoSource) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		logger := utils.LogWithRequestID(requestID)

		roleID, ok := parseID(c)
		if !ok {
			return invalidIDResponse(c, requestID)
		}

		var req models.StatusUpdateRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "invalid_request",
				Message:   "Invalid request format",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}
		if err := validate.Struct(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "validation_failed",
				Message:   err.Error(),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		err := store.Repo().UpdateRoleStatus(c.Request().Context(), roleID, req.Status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return notFoundResponse(c, requestID)
			}
			logger.WithError(err).Error("Failed to update status")
			return internalErrorResponse(c, requestID, "Failed to update status")
		}

		logger.WithFields(map[string]interface{}{
			"role_id": roleID,
			"status":  req.Status,
		}).Info("Role status updated")

		return c.JSON(http.StatusOK, map[string]interface{}{
			"id":     roleID,
			"status": req.Status,
		})
	}
}
