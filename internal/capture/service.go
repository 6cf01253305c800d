// Package capture orchestrates the full posting pipeline: fetch, de-noise,
// extract, persist. All database writes of one capture share a single
// transaction.
package capture

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"jobvault/internal/scraper"
	"jobvault/internal/skills"
	"jobvault/internal/storage"
	"jobvault/pkg/models"
	"jobvault/pkg/utils"
)

// slugRetryLimit bounds the uniquifying-suffix loop during company creation.
const slugRetryLimit = 5

// Fetcher produces page content for a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*scraper.FetchResult, error)
}

// Normalizer runs the two model passes.
type Normalizer interface {
	Denoise(ctx context.Context, rawText string) (string, error)
	ExtractJobData(ctx context.Context, markdown string) (*models.JobData, error)
}

// Database is the transactional persistence surface.
type Database interface {
	Repo() storage.Repo
	WithinTx(ctx context.Context, fn func(storage.Repo) error) error
}

// Artifacts persists raw and cleaned posting content.
type Artifacts interface {
	RawHTMLPath(companySlug string, roleID int64) string
	CleanedMDPath(companySlug string, roleID int64) string
	Save(path, content string) error
}

// Service runs captures end to end.
type Service struct {
	fetcher   Fetcher
	llm       Normalizer
	db        Database
	artifacts Artifacts
	logger    *logrus.Logger
}

// NewService wires the capture pipeline.
func NewService(fetcher Fetcher, llm Normalizer, db Database, artifacts Artifacts) *Service {
	return &Service{
		fetcher:   fetcher,
		llm:       llm,
		db:        db,
		artifacts: artifacts,
		logger:    utils.GetLogger(),
	}
}

// Capture processes one posting URL. Re-capturing a URL that already has a
// role is a no-op that returns the existing summary.
func (s *Service) Capture(ctx context.Context, url string) (*models.CaptureResult, error) {
	start := time.Now()
	log := s.logger.WithField("url", url)

	if existing, err := s.existingCapture(ctx, url); err != nil || existing != nil {
		if existing != nil {
			existing.ProcessingTimeSeconds = time.Since(start).Seconds()
			log.WithField("role_id", existing.RoleID).Info("Posting already captured")
		}
		return existing, err
	}

	page, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"engine": page.Engine,
		"chars":  len(page.Text),
	}).Info("Page fetched")

	markdown, err := s.llm.Denoise(ctx, page.Text)
	if err != nil {
		return nil, err
	}

	data, err := s.llm.ExtractJobData(ctx, markdown)
	if err != nil {
		return nil, err
	}

	if data.Title == "" {
		data.Title = "Unknown Title"
	}
	if data.Company == "" {
		data.Company = "Unknown Company"
	}
	if data.SalaryCurrency == "" {
		data.SalaryCurrency = "USD"
	}

	var result *models.CaptureResult
	err = s.db.WithinTx(ctx, func(repo storage.Repo) error {
		var txErr error
		result, txErr = s.persist(ctx, repo, url, page.HTML, markdown, data)
		return txErr
	})
	if err != nil {
		if storage.IsUniqueViolation(err) {
			// Lost the race with a concurrent capture of the same posting.
			// The winner's row is the answer, so report already_exists when
			// we can read it back.
			if existing, lookupErr := s.existingCapture(ctx, url); lookupErr == nil && existing != nil {
				existing.ProcessingTimeSeconds = time.Since(start).Seconds()
				log.WithField("role_id", existing.RoleID).Info("Posting captured concurrently by another request")
				return existing, nil
			}
			return nil, utils.NewPersistenceError("posting was captured concurrently", err)
		}
		return nil, err
	}

	result.ProcessingTimeSeconds = time.Since(start).Seconds()
	log.WithFields(logrus.Fields{
		"role_id": result.RoleID,
		"company": result.Company,
		"skills":  result.SkillsExtracted,
	}).Info("Capture completed")

	return result, nil
}

// existingCapture returns the already_exists summary when the URL has a
// role, nil when it does not.
func (s *Service) existingCapture(ctx context.Context, url string) (*models.CaptureResult, error) {
	repo := s.db.Repo()

	role, err := repo.RoleByURL(ctx, url)
	if err != nil {
		return nil, utils.NewPersistenceError("failed to check for existing role", err)
	}
	if role == nil {
		return nil, nil
	}

	company, err := repo.CompanyByID(ctx, role.CompanyID)
	if err != nil {
		return nil, utils.NewPersistenceError("failed to load company", err)
	}
	companyName := ""
	if company != nil {
		companyName = company.Name
	}

	count, err := repo.CountRoleSkills(ctx, role.ID)
	if err != nil {
		return nil, utils.NewPersistenceError("failed to count role skills", err)
	}

	return &models.CaptureResult{
		Status:          models.CaptureStatusAlreadyExists,
		RoleID:          role.ID,
		Company:         companyName,
		Title:           role.Title,
		SkillsExtracted: count,
	}, nil
}

// persist runs every write of one capture inside the caller's transaction.
func (s *Service) persist(ctx context.Context, repo storage.Repo, url, rawHTML, markdown string, data *models.JobData) (*models.CaptureResult, error) {
	company, err := s.upsertCompany(ctx, repo, data.Company)
	if err != nil {
		return nil, err
	}

	role := &models.Role{
		CompanyID:      company.ID,
		Title:          data.Title,
		TeamDivision:   data.TeamDivision,
		SalaryMin:      data.SalaryMin,
		SalaryMax:      data.SalaryMax,
		SalaryCurrency: data.SalaryCurrency,
		URL:            url,
		Status:         models.StatusActive,
	}

	// Two-phase artifact paths: the row is flushed first so the real paths
	// can embed the assigned ID.
	roleID, err := repo.CreateRole(ctx, role)
	if err != nil {
		return nil, err
	}

	rawPath := s.artifacts.RawHTMLPath(company.Slug, roleID)
	mdPath := s.artifacts.CleanedMDPath(company.Slug, roleID)

	if err := s.artifacts.Save(rawPath, rawHTML); err != nil {
		return nil, utils.NewPersistenceError("failed to store raw HTML artifact", err)
	}
	if err := s.artifacts.Save(mdPath, markdown); err != nil {
		return nil, utils.NewPersistenceError("failed to store cleaned Markdown artifact", err)
	}

	if err := repo.UpdateRoleArtifactPaths(ctx, roleID, rawPath, mdPath); err != nil {
		return nil, err
	}

	linked, err := skills.NewExtractor(repo).LinkSkills(ctx, roleID, data.RequiredSkills, data.PreferredSkills)
	if err != nil {
		return nil, err
	}

	return &models.CaptureResult{
		Status:          models.CaptureStatusSuccess,
		RoleID:          roleID,
		Company:         company.Name,
		Title:           data.Title,
		SkillsExtracted: linked,
	}, nil
}

// upsertCompany finds the company by case-insensitive name, creating it
// with a unique slug on a miss. Slug collisions with other companies get a
// short random suffix, retried a bounded number of times.
func (s *Service) upsertCompany(ctx context.Context, repo storage.Repo, name string) (*models.Company, error) {
	existing, err := repo.CompanyByName(ctx, name)
	if err != nil {
		return nil, utils.NewPersistenceError("failed to look up company", err)
	}
	if existing != nil {
		return existing, nil
	}

	base := utils.Slugify(name)
	if base == "" {
		base = "company"
	}

	candidate := base
	for attempt := 0; attempt < slugRetryLimit; attempt++ {
		taken, err := repo.CompanyBySlug(ctx, candidate)
		if err != nil {
			return nil, utils.NewPersistenceError("failed to check slug", err)
		}
		if taken == nil {
			return repo.CreateCompany(ctx, name, candidate)
		}
		candidate = fmt.Sprintf("%s-%s", base, utils.RandomToken(3))
	}

	return nil, utils.NewPersistenceError(
		fmt.Sprintf("could not find a unique slug for company %q", name), nil)
}
