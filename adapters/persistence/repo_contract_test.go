package persistence

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/kartikeya-dewal/devConnector/internal/domain/post"
	"github.com/kartikeya-dewal/devConnector/internal/domain/profile"
	"github.com/kartikeya-dewal/devConnector/internal/domain/user"
)

// repoContract holds the behavior every storage backend must share. The
// backend suites embed it and fill in the repositories.
type repoContract struct {
	suite.Suite
	userRepo    user.Repository
	profileRepo profile.Repository
	postRepo    post.Repository
}

func (s *repoContract) newUser(email string) *user.User {
	u := &user.User{Name: "Tester", Email: email, Avatar: "https://img/t", PasswordHash: "hash"}
	s.Require().NoError(s.userRepo.Create(context.Background(), u))
	s.Require().NotEmpty(u.ID)
	return u
}

func (s *repoContract) Test_User_CreateFindDelete() {
	ctx := context.Background()
	u := s.newUser("contract-user@example.com")

	s.ErrorIs(s.userRepo.Create(ctx, &user.User{Name: "Dup", Email: "CONTRACT-USER@example.com", PasswordHash: "x"}), user.ErrEmailTaken)

	byEmail, err := s.userRepo.FindByEmail(ctx, "Contract-User@Example.com")
	s.Require().NoError(err)
	s.Equal(u.ID, byEmail.ID)
	s.Equal("hash", byEmail.PasswordHash)

	s.Require().NoError(s.userRepo.UpdateAvatar(ctx, u.ID, "https://img/new"))
	sums, err := s.userRepo.FindSummaries(ctx, []string{u.ID, "not-an-id"})
	s.Require().NoError(err)
	s.Equal(user.Summary{ID: u.ID, Name: "Tester", Avatar: "https://img/new"}, sums[u.ID])
	s.Len(sums, 1)

	s.Require().NoError(s.userRepo.Delete(ctx, u.ID))
	s.Require().NoError(s.userRepo.Delete(ctx, u.ID))
	_, err = s.userRepo.FindByID(ctx, u.ID)
	s.ErrorIs(err, user.ErrUserNotFound)
	_, err = s.userRepo.FindByID(ctx, "not-an-id")
	s.ErrorIs(err, user.ErrUserNotFound)
}

func (s *repoContract) Test_Profile_Lifecycle() {
	ctx := context.Background()
	u := s.newUser("contract-profile@example.com")

	_, err := s.profileRepo.Update(ctx, u.ID, profile.Patch{Status: "x"})
	s.ErrorIs(err, profile.ErrProfileNotFound)

	p := profile.New(u.ID, profile.Patch{
		Status:  "Developer",
		Company: "Acme",
		Skills:  []string{"go", "sql"},
		Social:  profile.Social{Twitter: "https://twitter.com/t"},
	}, time.Now().UTC().Truncate(time.Millisecond))
	s.Require().NoError(s.profileRepo.Create(ctx, p))
	s.NotEmpty(p.ID)
	s.ErrorIs(s.profileRepo.Create(ctx, profile.New(u.ID, profile.Patch{Status: "y"}, time.Now())), profile.ErrProfileExists)

	updated, err := s.profileRepo.Update(ctx, u.ID, profile.Patch{Status: "Lead", Social: profile.Social{YouTube: "https://yt/t"}})
	s.Require().NoError(err)
	s.Equal("Lead", updated.Status)
	s.Equal("Acme", updated.Company)
	s.Equal([]string{"go", "sql"}, updated.Skills)
	s.Equal(profile.Social{YouTube: "https://yt/t"}, updated.Social)

	from := time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC)
	updated.AddExperience(profile.Experience{ID: "exp-1", Title: "Dev", Company: "Acme", From: from, Current: true})
	updated.AddEducation(profile.Education{ID: "edu-1", School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: from})
	s.Require().NoError(s.profileRepo.Save(ctx, updated))

	loaded, err := s.profileRepo.FindByUserID(ctx, u.ID)
	s.Require().NoError(err)
	s.Require().Len(loaded.Experience, 1)
	s.Equal("exp-1", loaded.Experience[0].ID)
	s.True(loaded.Experience[0].From.Equal(from))
	s.Require().Len(loaded.Education, 1)
	s.Equal("CS", loaded.Education[0].FieldOfStudy)

	all, err := s.profileRepo.List(ctx)
	s.Require().NoError(err)
	s.NotEmpty(all)

	s.Require().NoError(s.profileRepo.DeleteByUserID(ctx, u.ID))
	_, err = s.profileRepo.FindByUserID(ctx, u.ID)
	s.ErrorIs(err, profile.ErrProfileNotFound)
	_, err = s.profileRepo.FindByUserID(ctx, "not-an-id")
	s.ErrorIs(err, profile.ErrProfileNotFound)
}

func (s *repoContract) Test_Post_Lifecycle() {
	ctx := context.Background()
	u := s.newUser("contract-post@example.com")
	base := time.Now().UTC().Truncate(time.Millisecond)

	older := &post.Post{UserID: u.ID, Text: "older", Name: u.Name, CreatedAt: base.Add(-time.Hour)}
	newer := &post.Post{UserID: u.ID, Text: "newer", Name: u.Name, CreatedAt: base}
	s.Require().NoError(s.postRepo.Create(ctx, older))
	s.Require().NoError(s.postRepo.Create(ctx, newer))

	recent, err := s.postRepo.ListRecent(ctx)
	s.Require().NoError(err)
	s.Require().GreaterOrEqual(len(recent), 2)
	s.Equal(newer.ID, recent[0].ID)

	s.Require().NoError(newer.Like(u.ID))
	newer.AddComment(post.Comment{ID: "c1", UserID: u.ID, Text: "hi", CreatedAt: base})
	s.Require().NoError(s.postRepo.Save(ctx, newer))

	loaded, err := s.postRepo.FindByID(ctx, newer.ID)
	s.Require().NoError(err)
	s.True(loaded.LikedBy(u.ID))
	s.Require().Len(loaded.Comments, 1)
	s.Equal("hi", loaded.Comments[0].Text)

	s.Require().NoError(s.postRepo.Delete(ctx, older.ID))
	_, err = s.postRepo.FindByID(ctx, older.ID)
	s.ErrorIs(err, post.ErrPostNotFound)
	_, err = s.postRepo.FindByID(ctx, "not-an-id")
	s.ErrorIs(err, post.ErrPostNotFound)
}
