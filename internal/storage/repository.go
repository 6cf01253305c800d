package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"jobvault/pkg/models"
)

// Repo is the query surface the capture pipeline runs against. A Repo is
// bound either to the pool or to one transaction; see Store.WithinTx.
type Repo interface {
	CompanyByName(ctx context.Context, name string) (*models.Company, error)
	CompanyBySlug(ctx context.Context, slug string) (*models.Company, error)
	CompanyByID(ctx context.Context, id int64) (*models.Company, error)
	CreateCompany(ctx context.Context, name, slug string) (*models.Company, error)

	RoleByURL(ctx context.Context, url string) (*models.Role, error)
	RoleByID(ctx context.Context, id int64) (*models.Role, error)
	CreateRole(ctx context.Context, role *models.Role) (int64, error)
	UpdateRoleArtifactPaths(ctx context.Context, roleID int64, rawHTMLPath, cleanedMDPath string) error
	UpdateRoleStatus(ctx context.Context, roleID int64, status string) error
	ListRoles(ctx context.Context) ([]models.JobListItem, error)

	SkillByName(ctx context.Context, name string) (*models.Skill, error)
	CreateSkill(ctx context.Context, name string, category *string) (*models.Skill, error)
	CreateRoleSkill(ctx context.Context, roleID, skillID int64, level string) error
	SkillsForRole(ctx context.Context, roleID int64) (*models.RoleSkills, error)
	CountRoleSkills(ctx context.Context, roleID int64) (int, error)
}

// Repository implements Repo over any DBTX.
type Repository struct {
	db DBTX
}

// NewRepository binds a repository to a pool or transaction.
func NewRepository(db DBTX) *Repository {
	return &Repository{db: db}
}

// IsUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation, the signature of a concurrent duplicate write.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// CompanyByName finds a company by case-insensitive name match.
func (r *Repository) CompanyByName(ctx context.Context, name string) (*models.Company, error) {
	return r.scanCompany(r.db.QueryRow(ctx,
		`SELECT id, name, slug, website, created_at FROM companies WHERE LOWER(name) = LOWER($1)`,
		name))
}

// CompanyBySlug finds a company by exact slug.
func (r *Repository) CompanyBySlug(ctx context.Context, slug string) (*models.Company, error) {
	return r.scanCompany(r.db.QueryRow(ctx,
		`SELECT id, name, slug, website, created_at FROM companies WHERE slug = $1`,
		slug))
}

// CompanyByID finds a company by primary key.
func (r *Repository) CompanyByID(ctx context.Context, id int64) (*models.Company, error) {
	return r.scanCompany(r.db.QueryRow(ctx,
		`SELECT id, name, slug, website, created_at FROM companies WHERE id = $1`,
		id))
}

// CreateCompany inserts a company and returns the stored row.
func (r *Repository) CreateCompany(ctx context.Context, name, slug string) (*models.Company, error) {
	company, err := r.scanCompany(r.db.QueryRow(ctx,
		`INSERT INTO companies (name, slug) VALUES ($1, $2)
		 RETURNING id, name, slug, website, created_at`,
		name, slug))
	if err != nil {
		return nil, fmt.Errorf("failed to create company %q: %w", name, err)
	}
	return company, nil
}

func (r *Repository) scanCompany(row pgx.Row) (*models.Company, error) {
	var c models.Company
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Website, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

const roleColumns = `id, company_id, title, team_division, salary_min, salary_max,
	salary_currency, url, raw_html_path, cleaned_md_path, status, created_at`

// RoleByURL finds a role by its posting URL. Returns nil when absent; this
// is the idempotence check of the capture pipeline.
func (r *Repository) RoleByURL(ctx context.Context, url string) (*models.Role, error) {
	return r.scanRole(r.db.QueryRow(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE url = $1`, url))
}

// RoleByID finds a role by primary key.
func (r *Repository) RoleByID(ctx context.Context, id int64) (*models.Role, error) {
	return r.scanRole(r.db.QueryRow(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE id = $1`, id))
}

// CreateRole inserts a role and returns its ID. Artifact paths may be
// placeholders; UpdateRoleArtifactPaths fills them once the ID is known.
func (r *Repository) CreateRole(ctx context.Context, role *models.Role) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO roles (company_id, title, team_division, salary_min, salary_max,
		   salary_currency, url, raw_html_path, cleaned_md_path, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id`,
		role.CompanyID, role.Title, role.TeamDivision, role.SalaryMin, role.SalaryMax,
		role.SalaryCurrency, role.URL, role.RawHTMLPath, role.CleanedMDPath, role.Status,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create role %q: %w", role.Title, err)
	}
	return id, nil
}

// UpdateRoleArtifactPaths records where the raw HTML and cleaned Markdown
// were written.
func (r *Repository) UpdateRoleArtifactPaths(ctx context.Context, roleID int64, rawHTMLPath, cleanedMDPath string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE roles SET raw_html_path = $1, cleaned_md_path = $2 WHERE id = $3`,
		rawHTMLPath, cleanedMDPath, roleID)
	if err != nil {
		return fmt.Errorf("failed to update artifact paths for role %d: %w", roleID, err)
	}
	return nil
}

// UpdateRoleStatus sets the tracking status of a role.
func (r *Repository) UpdateRoleStatus(ctx context.Context, roleID int64, status string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE roles SET status = $1 WHERE id = $2`, status, roleID)
	if err != nil {
		return fmt.Errorf("failed to update status for role %d: %w", roleID, err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ListRoles returns all roles newest first, with company name and skill
// count joined in.
func (r *Repository) ListRoles(ctx context.Context) ([]models.JobListItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT r.id, c.name, r.title, r.salary_min, r.salary_max, r.salary_currency,
		        COUNT(rs.id), r.status, r.created_at
		 FROM roles r
		 JOIN companies c ON c.id = r.company_id
		 LEFT JOIN role_skills rs ON rs.role_id = r.id
		 GROUP BY r.id, c.name
		 ORDER BY r.created_at DESC, r.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	defer rows.Close()

	var items []models.JobListItem
	for rows.Next() {
		var item models.JobListItem
		var salaryMin, salaryMax *int
		var currency string
		if err := rows.Scan(&item.ID, &item.Company, &item.Title,
			&salaryMin, &salaryMax, &currency,
			&item.SkillsCount, &item.Status, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan role row: %w", err)
		}
		item.SalaryRange = models.FormatSalaryRange(salaryMin, salaryMax, currency)
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *Repository) scanRole(row pgx.Row) (*models.Role, error) {
	var role models.Role
	err := row.Scan(&role.ID, &role.CompanyID, &role.Title, &role.TeamDivision,
		&role.SalaryMin, &role.SalaryMax, &role.SalaryCurrency, &role.URL,
		&role.RawHTMLPath, &role.CleanedMDPath, &role.Status, &role.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// SkillByName finds a skill by case-insensitive name match.
func (r *Repository) SkillByName(ctx context.Context, name string) (*models.Skill, error) {
	var s models.Skill
	err := r.db.QueryRow(ctx,
		`SELECT id, name, category, created_at FROM skills WHERE LOWER(name) = LOWER($1)`,
		name).Scan(&s.ID, &s.Name, &s.Category, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateSkill inserts a skill and returns the stored row.
func (r *Repository) CreateSkill(ctx context.Context, name string, category *string) (*models.Skill, error) {
	var s models.Skill
	err := r.db.QueryRow(ctx,
		`INSERT INTO skills (name, category) VALUES ($1, $2)
		 RETURNING id, name, category, created_at`,
		name, category).Scan(&s.ID, &s.Name, &s.Category, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create skill %q: %w", name, err)
	}
	return &s, nil
}

// CreateRoleSkill links a skill to a role at the given requirement level.
func (r *Repository) CreateRoleSkill(ctx context.Context, roleID, skillID int64, level string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO role_skills (role_id, skill_id, requirement_level) VALUES ($1, $2, $3)`,
		roleID, skillID, level)
	if err != nil {
		return fmt.Errorf("failed to link skill %d to role %d: %w", skillID, roleID, err)
	}
	return nil
}

// SkillsForRole returns the role's skill names grouped by level, in link
// creation order.
func (r *Repository) SkillsForRole(ctx context.Context, roleID int64) (*models.RoleSkills, error) {
	rows, err := r.db.Query(ctx,
		`SELECT s.name, rs.requirement_level
		 FROM role_skills rs
		 JOIN skills s ON s.id = rs.skill_id
		 WHERE rs.role_id = $1
		 ORDER BY rs.id`,
		roleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load skills for role %d: %w", roleID, err)
	}
	defer rows.Close()

	skills := &models.RoleSkills{}
	for rows.Next() {
		var name, level string
		if err := rows.Scan(&name, &level); err != nil {
			return nil, fmt.Errorf("failed to scan skill row: %w", err)
		}
		if level == models.LevelPreferred {
			skills.Preferred = append(skills.Preferred, name)
		} else {
			skills.Required = append(skills.Required, name)
		}
	}
	return skills, rows.Err()
}

// CountRoleSkills returns the number of skills linked to a role.
func (r *Repository) CountRoleSkills(ctx context.Context, roleID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM role_skills WHERE role_id = $1`, roleID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count skills for role %d: %w", roleID, err)
	}
	return n, nil
}
