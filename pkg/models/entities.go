package models

import "time"

// Company is a row in the companies table.
type Company struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Website   *string   `json:"website,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Role is a row in the roles table.
type Role struct {
	ID             int64     `json:"id"`
	CompanyID      int64     `json:"company_id"`
	Title          string    `json:"title"`
	TeamDivision   *string   `json:"team_division,omitempty"`
	SalaryMin      *int      `json:"salary_min,omitempty"`
	SalaryMax      *int      `json:"salary_max,omitempty"`
	SalaryCurrency string    `json:"salary_currency"`
	URL            string    `json:"url"`
	RawHTMLPath    string    `json:"raw_html_path"`
	CleanedMDPath  string    `json:"cleaned_md_path"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// Skill is a row in the skills table.
type Skill struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Category  *string   `json:"category,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
