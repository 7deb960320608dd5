package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

type Social struct {
	YouTube   string `json:"youtube,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
}

type Experience struct {
	ID          string     `json:"_id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

type Education struct {
	ID           string     `json:"_id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldofstudy"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
}

// Profile is the aggregate: one per user, owning its experience and
// education entries. Both lists are kept most-recent-first.
type Profile struct {
	ID             string       `json:"_id"`
	UserID         string       `json:"user"`
	Company        string       `json:"company,omitempty"`
	Website        string       `json:"website,omitempty"`
	Location       string       `json:"location,omitempty"`
	Bio            string       `json:"bio,omitempty"`
	Status         string       `json:"status"`
	GitHubUsername string       `json:"githubusername,omitempty"`
	Skills         []string     `json:"skills"`
	Social         Social       `json:"social"`
	Experience     []Experience `json:"experience"`
	Education      []Education  `json:"education"`
	CreatedAt      time.Time    `json:"date"`
}

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists for user")
)

// Patch is a partial profile update. Empty strings and a nil Skills slice
// mean "not supplied" and leave the stored value alone. Social is always
// written as a whole: sub-fields missing from the patch are cleared.
type Patch struct {
	Company        string
	Website        string
	Location       string
	Bio            string
	Status         string
	GitHubUsername string
	Skills         []string
	Social         Social
}

// ParseSkills splits a comma separated list and trims every token. Tokens
// that are empty after trimming are kept, so "a,,b" yields three entries.
func ParseSkills(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// New creates a profile for userID holding only what the patch supplies.
func New(userID string, patch Patch, now time.Time) *Profile {
	p := &Profile{
		UserID:     userID,
		Skills:     []string{},
		Experience: []Experience{},
		Education:  []Education{},
		CreatedAt:  now,
	}
	p.Apply(patch)
	return p
}

func (p *Profile) Apply(patch Patch) {
	setIfPresent(&p.Company, patch.Company)
	setIfPresent(&p.Website, patch.Website)
	setIfPresent(&p.Location, patch.Location)
	setIfPresent(&p.Bio, patch.Bio)
	setIfPresent(&p.Status, patch.Status)
	setIfPresent(&p.GitHubUsername, patch.GitHubUsername)
	if patch.Skills != nil {
		p.Skills = append([]string(nil), patch.Skills...)
	}
	p.Social = patch.Social
}

func setIfPresent(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// AddExperience inserts e at the front of the experience list.
func (p *Profile) AddExperience(e Experience) {
	p.Experience = prepend(p.Experience, e)
}

// AddEducation inserts e at the front of the education list.
func (p *Profile) AddEducation(e Education) {
	p.Education = prepend(p.Education, e)
}

// RemoveExperience removes the entry with the given id and reports whether
// anything was removed. See RemovalPolicy for what happens on a miss.
func (p *Profile) RemoveExperience(id string, policy RemovalPolicy) bool {
	idx := indexOf(p.Experience, func(e Experience) bool { return e.ID == id })
	var removed bool
	p.Experience, removed = removeAt(p.Experience, idx, policy)
	return removed
}

func (p *Profile) RemoveEducation(id string, policy RemovalPolicy) bool {
	idx := indexOf(p.Education, func(e Education) bool { return e.ID == id })
	var removed bool
	p.Education, removed = removeAt(p.Education, idx, policy)
	return removed
}

// RemovalPolicy decides what a removal does when the id is not in the list.
type RemovalPolicy int

const (
	// RemovalStrict removes the matching entry or nothing.
	RemovalStrict RemovalPolicy = iota
	// RemovalReference reproduces the legacy API: a miss yields index -1,
	// which was then used as a splice start and dropped the LAST entry.
	// This deviates from RemovalStrict on purpose and only exists for
	// clients that depend on the old behavior.
	RemovalReference
)

func ParseRemovalPolicy(s string) (RemovalPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return RemovalStrict, nil
	case "reference", "legacy":
		return RemovalReference, nil
	}
	return RemovalStrict, fmt.Errorf("unknown removal policy %q", s)
}

func (r RemovalPolicy) String() string {
	if r == RemovalReference {
		return "reference"
	}
	return "strict"
}

func prepend[T any](items []T, item T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, item)
	return append(out, items...)
}

func indexOf[T any](items []T, match func(T) bool) int {
	for i, it := range items {
		if match(it) {
			return i
		}
	}
	return -1
}

func removeAt[T any](items []T, idx int, policy RemovalPolicy) ([]T, bool) {
	if idx < 0 {
		if policy != RemovalReference || len(items) == 0 {
			return items, false
		}
		idx = len(items) - 1
	}
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:idx]...)
	return append(out, items[idx+1:]...), true
}

type Repository interface {
	// FindByUserID returns ErrProfileNotFound when the user has no profile.
	FindByUserID(ctx context.Context, userID string) (*Profile, error)
	List(ctx context.Context) ([]*Profile, error)
	// Create returns ErrProfileExists when the user already has a profile.
	Create(ctx context.Context, p *Profile) error
	// Update applies patch in place and returns the stored result.
	Update(ctx context.Context, userID string, patch Patch) (*Profile, error)
	// Save overwrites the stored profile, embedded lists included.
	Save(ctx context.Context, p *Profile) error
	// DeleteByUserID is a no-op when no profile exists.
	DeleteByUserID(ctx context.Context, userID string) error
}
