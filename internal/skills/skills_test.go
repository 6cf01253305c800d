package skills

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobvault/pkg/models"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"  python  ":  "Python",
		"javascript":  "JavaScript",
		"REACT.JS":    "React",
		"reactjs":     "React",
		"golang":      "Go",
		"GO":          "Go",
		"kafka":       "Apache Kafka",
		"c#":          "C#",
		"Terraform":   "Terraform",
		"REST APIs":   "REST APIs",
		" Snowflake ": "Snowflake",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), "Normalize(%q)", in)
	}
}

// fakeRepo is an in-memory skills repository.
type fakeRepo struct {
	skills []models.Skill
	links  []struct {
		roleID, skillID int64
		level           string
	}
	nextID int64
}

func (f *fakeRepo) SkillByName(ctx context.Context, name string) (*models.Skill, error) {
	for i := range f.skills {
		if strings.EqualFold(f.skills[i].Name, name) {
			return &f.skills[i], nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) CreateSkill(ctx context.Context, name string, category *string) (*models.Skill, error) {
	f.nextID++
	f.skills = append(f.skills, models.Skill{ID: f.nextID, Name: name, Category: category})
	return &f.skills[len(f.skills)-1], nil
}

func (f *fakeRepo) CreateRoleSkill(ctx context.Context, roleID, skillID int64, level string) error {
	f.links = append(f.links, struct {
		roleID, skillID int64
		level           string
	}{roleID, skillID, level})
	return nil
}

func (f *fakeRepo) SkillsForRole(ctx context.Context, roleID int64) (*models.RoleSkills, error) {
	out := &models.RoleSkills{}
	for _, l := range f.links {
		if l.roleID != roleID {
			continue
		}
		for _, s := range f.skills {
			if s.ID == l.skillID {
				if l.level == models.LevelPreferred {
					out.Preferred = append(out.Preferred, s.Name)
				} else {
					out.Required = append(out.Required, s.Name)
				}
			}
		}
	}
	return out, nil
}

func TestGetOrCreateDeduplicatesCaseInsensitively(t *testing.T) {
	repo := &fakeRepo{}
	e := NewExtractor(repo)
	ctx := context.Background()

	first, err := e.GetOrCreate(ctx, "python", nil)
	require.NoError(t, err)

	second, err := e.GetOrCreate(ctx, "  PYTHON  ", nil)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.skills, 1)
	assert.Equal(t, "Python", repo.skills[0].Name)
}

func TestLinkSkillsSkipsBlanks(t *testing.T) {
	repo := &fakeRepo{}
	e := NewExtractor(repo)

	linked, err := e.LinkSkills(context.Background(), 1,
		[]string{"Go", "", "  ", "PostgreSQL"},
		[]string{"Kubernetes", ""})
	require.NoError(t, err)

	assert.Equal(t, 3, linked)
	assert.Len(t, repo.links, 3)
}

func TestLinkSkillsSharesSkillRows(t *testing.T) {
	repo := &fakeRepo{}
	e := NewExtractor(repo)
	ctx := context.Background()

	_, err := e.LinkSkills(ctx, 1, []string{"golang"}, nil)
	require.NoError(t, err)
	_, err = e.LinkSkills(ctx, 2, []string{"Go"}, nil)
	require.NoError(t, err)

	// Two links, one skill row.
	assert.Len(t, repo.skills, 1)
	assert.Len(t, repo.links, 2)
}

func TestSkillsForRoleGrouping(t *testing.T) {
	repo := &fakeRepo{}
	e := NewExtractor(repo)
	ctx := context.Background()

	_, err := e.LinkSkills(ctx, 1, []string{"Go", "SQL"}, []string{"Docker"})
	require.NoError(t, err)

	skills, err := e.SkillsForRole(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "SQL"}, skills.Required)
	assert.Equal(t, []string{"Docker"}, skills.Preferred)
}
