package models

import (
	"fmt"
	"time"
)

// Role status values. Status transitions happen only through the status
// update endpoint; captures always create roles as StatusActive.
const (
	StatusActive   = "active"
	StatusApplied  = "applied"
	StatusRejected = "rejected"
	StatusArchived = "archived"
)

// ValidStatus reports whether s is one of the closed status set.
func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusApplied, StatusRejected, StatusArchived:
		return true
	}
	return false
}

// Requirement levels for role-skill links.
const (
	LevelRequired  = "required"
	LevelPreferred = "preferred"
)

// JobData is the structured record the extraction model must return.
// Title, company and both skill lists are the fields the capture pipeline
// depends on unconditionally; everything else may be null.
type JobData struct {
	Title           string   `json:"title"`
	Company         string   `json:"company"`
	TeamDivision    *string  `json:"team_division"`
	SalaryMin       *int     `json:"salary_min"`
	SalaryMax       *int     `json:"salary_max"`
	SalaryCurrency  string   `json:"salary_currency"`
	RequiredSkills  []string `json:"required_skills"`
	PreferredSkills []string `json:"preferred_skills"`
}

// RoleSkills groups a role's skill names by requirement level, in creation
// order.
type RoleSkills struct {
	Required  []string `json:"required"`
	Preferred []string `json:"preferred"`
}

// JobListItem is one row of the job listing endpoint.
type JobListItem struct {
	ID          int64     `json:"id"`
	Company     string    `json:"company"`
	Title       string    `json:"title"`
	SalaryRange string    `json:"salary_range,omitempty"`
	SkillsCount int       `json:"skills_count"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// JobDetail is the full job record returned by the detail endpoint.
type JobDetail struct {
	ID            int64      `json:"id"`
	Company       string     `json:"company"`
	CompanySlug   string     `json:"company_slug"`
	Title         string     `json:"title"`
	TeamDivision  *string    `json:"team_division"`
	SalaryMin     *int       `json:"salary_min"`
	SalaryMax     *int       `json:"salary_max"`
	SalaryRange   string     `json:"salary_range,omitempty"`
	URL           string     `json:"url"`
	Skills        RoleSkills `json:"skills"`
	DescriptionMD string     `json:"description_md"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
}

// FormatSalaryRange builds a human-readable salary string from the stored
// bounds. Returns "" when neither bound is known.
func FormatSalaryRange(min, max *int, currency string) string {
	if min == nil && max == nil {
		return ""
	}
	if currency == "" {
		currency = "USD"
	}
	symbol := ""
	if currency == "USD" {
		symbol = "$"
	}
	switch {
	case min != nil && max != nil:
		return fmt.Sprintf("%s%s - %s%s %s", symbol, groupDigits(*min), symbol, groupDigits(*max), currency)
	case min != nil:
		return fmt.Sprintf("%s%s+ %s", symbol, groupDigits(*min), currency)
	default:
		return fmt.Sprintf("Up to %s%s %s", symbol, groupDigits(*max), currency)
	}
}

// groupDigits renders n with comma thousands separators.
func groupDigits(n int) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return sign + s
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return sign + string(out)
}
