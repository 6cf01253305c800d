// Package skills normalizes skill names and links them to roles with
// case-insensitive deduplication.
package skills

import (
	"context"
	"strings"

	"jobvault/pkg/models"
)

// Repo is the slice of the storage layer this package needs. The storage
// repository satisfies it; tests use small fakes.
type Repo interface {
	SkillByName(ctx context.Context, name string) (*models.Skill, error)
	CreateSkill(ctx context.Context, name string, category *string) (*models.Skill, error)
	CreateRoleSkill(ctx context.Context, roleID, skillID int64, level string) error
	SkillsForRole(ctx context.Context, roleID int64) (*models.RoleSkills, error)
}

// knownCapitalizations maps lowercased aliases to canonical skill names.
// Unknown names pass through trimmed but otherwise unchanged.
var knownCapitalizations = map[string]string{
	"python":       "Python",
	"javascript":   "JavaScript",
	"typescript":   "TypeScript",
	"react":        "React",
	"react.js":     "React",
	"reactjs":      "React",
	"vue":          "Vue.js",
	"vue.js":       "Vue.js",
	"angular":      "Angular",
	"node.js":      "Node.js",
	"nodejs":       "Node.js",
	"fastapi":      "FastAPI",
	"django":       "Django",
	"flask":        "Flask",
	"postgresql":   "PostgreSQL",
	"mysql":        "MySQL",
	"mongodb":      "MongoDB",
	"redis":        "Redis",
	"docker":       "Docker",
	"kubernetes":   "Kubernetes",
	"aws":          "AWS",
	"gcp":          "GCP",
	"azure":        "Azure",
	"git":          "Git",
	"graphql":      "GraphQL",
	"rest":         "REST",
	"sql":          "SQL",
	"html":         "HTML",
	"css":          "CSS",
	"rust":         "Rust",
	"go":           "Go",
	"golang":       "Go",
	"java":         "Java",
	"c++":          "C++",
	"c#":           "C#",
	"ruby":         "Ruby",
	"scala":        "Scala",
	"kafka":        "Apache Kafka",
	"apache kafka": "Apache Kafka",
	"spark":        "Apache Spark",
	"apache spark": "Apache Spark",
}

// Normalize trims a skill name and applies the canonical capitalization for
// known skills. Names outside the table keep their original casing.
func Normalize(name string) string {
	name = strings.TrimSpace(name)
	if canonical, ok := knownCapitalizations[strings.ToLower(name)]; ok {
		return canonical
	}
	return name
}

// Extractor links extracted skills to roles against a transaction-bound
// repository.
type Extractor struct {
	repo Repo
}

// NewExtractor binds an extractor to a repository.
func NewExtractor(repo Repo) *Extractor {
	return &Extractor{repo: repo}
}

// GetOrCreate normalizes the name, finds the matching skill case-
// insensitively, and creates it on a miss.
func (e *Extractor) GetOrCreate(ctx context.Context, name string, category *string) (*models.Skill, error) {
	normalized := Normalize(name)

	existing, err := e.repo.SkillByName(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	return e.repo.CreateSkill(ctx, normalized, category)
}

// LinkSkills links every non-blank skill name to the role at its
// requirement level and returns the number of links created.
func (e *Extractor) LinkSkills(ctx context.Context, roleID int64, required, preferred []string) (int, error) {
	linked := 0

	for _, group := range []struct {
		names []string
		level string
	}{
		{required, models.LevelRequired},
		{preferred, models.LevelPreferred},
	} {
		for _, name := range group.names {
			if strings.TrimSpace(name) == "" {
				continue
			}
			skill, err := e.GetOrCreate(ctx, name, nil)
			if err != nil {
				return linked, err
			}
			if err := e.repo.CreateRoleSkill(ctx, roleID, skill.ID, group.level); err != nil {
				return linked, err
			}
			linked++
		}
	}

	return linked, nil
}

// SkillsForRole returns the role's skill names grouped by requirement
// level.
func (e *Extractor) SkillsForRole(ctx context.Context, roleID int64) (*models.RoleSkills, error) {
	return e.repo.SkillsForRole(ctx, roleID)
}
