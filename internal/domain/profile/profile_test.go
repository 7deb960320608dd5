package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSkills(t *testing.T) {
	assert.Equal(t, []string{"node", "react", "redux"}, ParseSkills("node, react , redux"))
	assert.Equal(t, []string{"go"}, ParseSkills("go"))
	assert.Equal(t, []string{"a", "", "b"}, ParseSkills("a, ,b"))
	assert.Nil(t, ParseSkills(""))
}

func TestNewOnlySetsSuppliedFields(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	p := New("u1", Patch{
		Status: "Developer",
		Skills: []string{"go"},
		Social: Social{Twitter: "https://twitter.com/dev"},
	}, now)

	assert.Equal(t, "u1", p.UserID)
	assert.Equal(t, "Developer", p.Status)
	assert.Empty(t, p.Company)
	assert.Empty(t, p.Bio)
	assert.Equal(t, []string{"go"}, p.Skills)
	assert.Equal(t, Social{Twitter: "https://twitter.com/dev"}, p.Social)
	assert.Empty(t, p.Experience)
	assert.Empty(t, p.Education)
	assert.Equal(t, now, p.CreatedAt)
}

func TestApplyKeepsAbsentFieldsAndReplacesSocial(t *testing.T) {
	p := New("u1", Patch{
		Company: "Acme",
		Bio:     "old bio",
		Status:  "Junior",
		Skills:  []string{"js"},
		Social:  Social{YouTube: "yt", LinkedIn: "li"},
	}, time.Now())

	p.Apply(Patch{Status: "Senior", Bio: "new bio", Social: Social{LinkedIn: "li2"}})

	assert.Equal(t, "Acme", p.Company, "absent field must survive")
	assert.Equal(t, "new bio", p.Bio)
	assert.Equal(t, "Senior", p.Status)
	assert.Equal(t, []string{"js"}, p.Skills, "nil skills means not supplied")
	assert.Equal(t, Social{LinkedIn: "li2"}, p.Social)
}

func TestApplyIsIdempotent(t *testing.T) {
	patch := Patch{Status: "Dev", Skills: ParseSkills("go, sql"), Website: "https://example.com"}
	p := New("u1", patch, time.Unix(0, 0))
	p.Apply(patch)
	once := *p
	once.Skills = append([]string(nil), p.Skills...)

	p.Apply(patch)
	assert.Equal(t, once, *p)
}

func TestAddExperiencePrepends(t *testing.T) {
	p := New("u1", Patch{Status: "Dev"}, time.Now())

	p.AddExperience(Experience{ID: "a", Title: "A"})
	p.AddExperience(Experience{ID: "b", Title: "B"})

	require.Len(t, p.Experience, 2)
	assert.Equal(t, "b", p.Experience[0].ID)
	assert.Equal(t, "a", p.Experience[1].ID)
}

func TestAddEducationPrepends(t *testing.T) {
	p := New("u1", Patch{Status: "Dev"}, time.Now())

	p.AddEducation(Education{ID: "a"})
	p.AddEducation(Education{ID: "b"})

	assert.Equal(t, []string{"b", "a"}, educationIDs(p))
}

func TestRemoveExperienceMatching(t *testing.T) {
	for _, policy := range []RemovalPolicy{RemovalStrict, RemovalReference} {
		p := profileWithExperience("c", "b", "a")

		removed := p.RemoveExperience("b", policy)

		assert.True(t, removed, policy.String())
		assert.Equal(t, []string{"c", "a"}, experienceIDs(p), policy.String())
	}
}

func TestRemoveExperienceMissStrictIsNoop(t *testing.T) {
	p := profileWithExperience("c", "b", "a")

	removed := p.RemoveExperience("zzz", RemovalStrict)

	assert.False(t, removed)
	assert.Equal(t, []string{"c", "b", "a"}, experienceIDs(p))
}

func TestRemoveExperienceMissReferenceDropsLast(t *testing.T) {
	p := profileWithExperience("c", "b", "a")

	removed := p.RemoveExperience("zzz", RemovalReference)

	assert.True(t, removed)
	assert.Equal(t, []string{"c", "b"}, experienceIDs(p))
}

func TestRemoveFromEmptyListReference(t *testing.T) {
	p := New("u1", Patch{Status: "Dev"}, time.Now())

	assert.False(t, p.RemoveEducation("zzz", RemovalReference))
	assert.Empty(t, p.Education)
}

func TestRemoveEducation(t *testing.T) {
	p := New("u1", Patch{Status: "Dev"}, time.Now())
	p.AddEducation(Education{ID: "a"})
	p.AddEducation(Education{ID: "b"})

	assert.True(t, p.RemoveEducation("a", RemovalStrict))
	assert.Equal(t, []string{"b"}, educationIDs(p))
}

func TestParseRemovalPolicy(t *testing.T) {
	p, err := ParseRemovalPolicy("")
	require.NoError(t, err)
	assert.Equal(t, RemovalStrict, p)

	p, err = ParseRemovalPolicy("Reference")
	require.NoError(t, err)
	assert.Equal(t, RemovalReference, p)

	_, err = ParseRemovalPolicy("random")
	assert.Error(t, err)
}

func profileWithExperience(ids ...string) *Profile {
	p := New("u1", Patch{Status: "Dev"}, time.Now())
	for i := len(ids) - 1; i >= 0; i-- {
		p.AddExperience(Experience{ID: ids[i]})
	}
	return p
}

func experienceIDs(p *Profile) []string {
	ids := make([]string, len(p.Experience))
	for i, e := range p.Experience {
		ids[i] = e.ID
	}
	return ids
}

func educationIDs(p *Profile) []string {
	ids := make([]string, len(p.Education))
	for i, e := range p.Education {
		ids[i] = e.ID
	}
	return ids
}
