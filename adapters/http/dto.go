package http

import (
	"strings"
	"time"

	profileUC "github.com/kartikeya-dewal/devConnector/internal/application/usecase/profile"
	"github.com/kartikeya-dewal/devConnector/internal/domain/post"
	"github.com/kartikeya-dewal/devConnector/internal/domain/profile"
	"github.com/kartikeya-dewal/devConnector/internal/domain/user"
	"github.com/kartikeya-dewal/devConnector/pkg/apperror"
)

// Profile DTOs

type UpsertProfileRequest struct {
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	Status         string `json:"status" binding:"required"`
	GitHubUsername string `json:"githubUsername"`
	Skills         string `json:"skills" binding:"required"`
	YouTube        string `json:"youtube"`
	Facebook       string `json:"facebook"`
	Twitter        string `json:"twitter"`
	Instagram      string `json:"instagram"`
	LinkedIn       string `json:"linkedin"`
}

var upsertProfileMessages = map[string]string{
	"status": "Status is required",
	"skills": "Skills is required",
}

func (r UpsertProfileRequest) ToPatch() profile.Patch {
	return profile.Patch{
		Company:        r.Company,
		Website:        r.Website,
		Location:       r.Location,
		Bio:            r.Bio,
		Status:         r.Status,
		GitHubUsername: r.GitHubUsername,
		Skills:         profile.ParseSkills(r.Skills),
		Social: profile.Social{
			YouTube:   r.YouTube,
			Facebook:  r.Facebook,
			Twitter:   r.Twitter,
			Instagram: r.Instagram,
			LinkedIn:  r.LinkedIn,
		},
	}
}

type ExperienceRequest struct {
	Title       string `json:"title" binding:"required"`
	Company     string `json:"company" binding:"required"`
	Location    string `json:"location"`
	From        string `json:"from" binding:"required"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

var experienceMessages = map[string]string{
	"title":   "Title is required",
	"company": "Company is required",
	"from":    "From date is required",
}

func (r ExperienceRequest) ToDomain() (profile.Experience, error) {
	from, to, err := parseRange(r.From, r.To)
	if err != nil {
		return profile.Experience{}, err
	}
	return profile.Experience{
		Title:       r.Title,
		Company:     r.Company,
		Location:    r.Location,
		From:        from,
		To:          to,
		Current:     r.Current,
		Description: r.Description,
	}, nil
}

type EducationRequest struct {
	School       string `json:"school" binding:"required"`
	Degree       string `json:"degree" binding:"required"`
	FieldOfStudy string `json:"fieldOfStudy" binding:"required"`
	From         string `json:"from" binding:"required"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

var educationMessages = map[string]string{
	"school":       "School is required",
	"degree":       "Degree is required",
	"fieldOfStudy": "Field of study is required",
	"from":         "From date is required",
}

func (r EducationRequest) ToDomain() (profile.Education, error) {
	from, to, err := parseRange(r.From, r.To)
	if err != nil {
		return profile.Education{}, err
	}
	return profile.Education{
		School:       r.School,
		Degree:       r.Degree,
		FieldOfStudy: r.FieldOfStudy,
		From:         from,
		To:           to,
		Current:      r.Current,
		Description:  r.Description,
	}, nil
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func parseRange(rawFrom, rawTo string) (time.Time, *time.Time, error) {
	from, ok := parseDate(rawFrom)
	if !ok {
		return time.Time{}, nil, apperror.NewValidation("From date is invalid", "from")
	}
	if strings.TrimSpace(rawTo) == "" {
		return from, nil, nil
	}
	to, ok := parseDate(rawTo)
	if !ok {
		return time.Time{}, nil, apperror.NewValidation("To date is invalid", "to")
	}
	return from, &to, nil
}

type ExperienceDTO struct {
	ID          string     `json:"_id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

type EducationDTO struct {
	ID           string     `json:"_id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldOfStudy"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
}

type SocialDTO struct {
	YouTube   string `json:"youtube,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
}

type UserSummaryDTO struct {
	ID     string `json:"_id"`
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// ProfileDTO renders user as an id string after writes and as
// {_id, name, avatar} on reads.
type ProfileDTO struct {
	ID             string          `json:"_id"`
	User           any             `json:"user"`
	Company        string          `json:"company,omitempty"`
	Website        string          `json:"website,omitempty"`
	Location       string          `json:"location,omitempty"`
	Bio            string          `json:"bio,omitempty"`
	Status         string          `json:"status"`
	GitHubUsername string          `json:"githubUsername,omitempty"`
	Skills         []string        `json:"skills"`
	Social         SocialDTO       `json:"social"`
	Experience     []ExperienceDTO `json:"experience"`
	Education      []EducationDTO  `json:"education"`
	Date           time.Time       `json:"date"`
}

func ToProfileDTO(p *profile.Profile) ProfileDTO {
	dto := ProfileDTO{
		ID:             p.ID,
		User:           p.UserID,
		Company:        p.Company,
		Website:        p.Website,
		Location:       p.Location,
		Bio:            p.Bio,
		Status:         p.Status,
		GitHubUsername: p.GitHubUsername,
		Skills:         p.Skills,
		Social:         SocialDTO(p.Social),
		Experience:     make([]ExperienceDTO, len(p.Experience)),
		Education:      make([]EducationDTO, len(p.Education)),
		Date:           p.CreatedAt,
	}
	if dto.Skills == nil {
		dto.Skills = []string{}
	}
	for i, e := range p.Experience {
		dto.Experience[i] = ExperienceDTO(e)
	}
	for i, e := range p.Education {
		dto.Education[i] = EducationDTO(e)
	}
	return dto
}

func ToProfileViewDTO(v profileUC.ProfileView) ProfileDTO {
	dto := ToProfileDTO(v.Profile)
	dto.User = UserSummaryDTO(v.User)
	return dto
}

// User DTOs

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

var registerMessages = map[string]string{
	"name":     "Name is required",
	"email":    "Please include a valid email",
	"password": "Please enter a password with 6 or more characters",
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

var loginMessages = map[string]string{
	"email":    "Please include a valid email",
	"password": "Password is required",
}

type UserDTO struct {
	ID     string    `json:"_id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Avatar string    `json:"avatar"`
	Date   time.Time `json:"date"`
}

func ToUserDTO(u *user.User) UserDTO {
	return UserDTO{ID: u.ID, Name: u.Name, Email: u.Email, Avatar: u.Avatar, Date: u.CreatedAt}
}

// Post DTOs

type CreatePostRequest struct {
	Text string `json:"text" binding:"required"`
}

var postTextMessages = map[string]string{
	"text": "Text is required",
}

type LikeDTO struct {
	User string `json:"user"`
}

type CommentDTO struct {
	ID     string    `json:"_id"`
	User   string    `json:"user"`
	Text   string    `json:"text"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
	Date   time.Time `json:"date"`
}

type PostDTO struct {
	ID       string       `json:"_id"`
	User     string       `json:"user"`
	Text     string       `json:"text"`
	Name     string       `json:"name"`
	Avatar   string       `json:"avatar"`
	Likes    []LikeDTO    `json:"likes"`
	Comments []CommentDTO `json:"comments"`
	Date     time.Time    `json:"date"`
}

func ToLikeDTOs(likes []post.Like) []LikeDTO {
	out := make([]LikeDTO, len(likes))
	for i, l := range likes {
		out[i] = LikeDTO{User: l.UserID}
	}
	return out
}

func ToCommentDTOs(comments []post.Comment) []CommentDTO {
	out := make([]CommentDTO, len(comments))
	for i, c := range comments {
		out[i] = CommentDTO{
			ID:     c.ID,
			User:   c.UserID,
			Text:   c.Text,
			Name:   c.Name,
			Avatar: c.Avatar,
			Date:   c.CreatedAt,
		}
	}
	return out
}

func ToPostDTO(p *post.Post) PostDTO {
	return PostDTO{
		ID:       p.ID,
		User:     p.UserID,
		Text:     p.Text,
		Name:     p.Name,
		Avatar:   p.Avatar,
		Likes:    ToLikeDTOs(p.Likes),
		Comments: ToCommentDTOs(p.Comments),
		Date:     p.CreatedAt,
	}
}
