package profile_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/kartikeya-dewal/devConnector/adapters/lock"
	"github.com/kartikeya-dewal/devConnector/adapters/persistence/memory"
	"github.com/kartikeya-dewal/devConnector/internal/application/service"
	profileuc "github.com/kartikeya-dewal/devConnector/internal/application/usecase/profile"
	"github.com/kartikeya-dewal/devConnector/internal/domain/profile"
	"github.com/kartikeya-dewal/devConnector/internal/domain/user"
	"github.com/kartikeya-dewal/devConnector/pkg/apperror"
	"github.com/kartikeya-dewal/devConnector/pkg/logger"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []service.DomainEvent
}

func (r *recordingPublisher) Publish(_ context.Context, evt service.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return nil
}

func (r *recordingPublisher) types() []service.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]service.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type ProfileUseCaseSuite struct {
	suite.Suite
	ctx      context.Context
	store    *memory.Store
	events   *recordingPublisher
	uc       *profileuc.ProfileUseCase
	userID   string
	userName string
}

func TestProfileUseCaseSuite(t *testing.T) {
	suite.Run(t, new(ProfileUseCaseSuite))
}

func (s *ProfileUseCaseSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	s.events = &recordingPublisher{}
	s.uc = s.newUseCase(profile.RemovalStrict, lock.NewNoop(), s.store.Profiles(), s.store.Users())

	u := &user.User{Name: "Jane Doe", Email: "jane@example.com", Avatar: "https://img/jane"}
	s.Require().NoError(s.store.Users().Create(s.ctx, u))
	s.userID = u.ID
	s.userName = u.Name
}

func (s *ProfileUseCaseSuite) newUseCase(policy profile.RemovalPolicy, l service.Locker, pRepo profile.Repository, uRepo user.Repository) *profileuc.ProfileUseCase {
	return profileuc.NewProfileUseCase(pRepo, uRepo, l, s.events, policy, logger.NewNop())
}

func (s *ProfileUseCaseSuite) upsert(patch profile.Patch) *profile.Profile {
	p, err := s.uc.ExecuteUpsertProfile(s.ctx, profileuc.UpsertProfileInput{UserID: s.userID, Patch: patch})
	s.Require().NoError(err)
	return p
}

func (s *ProfileUseCaseSuite) experience(title string) profile.Experience {
	return profile.Experience{Title: title, Company: "Acme", From: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (s *ProfileUseCaseSuite) TestUpsertCreatesThenUpdatesInPlace() {
	created := s.upsert(profile.Patch{
		Status:  "Developer",
		Company: "Acme",
		Skills:  profile.ParseSkills("node, react , redux"),
	})
	s.Equal([]string{"node", "react", "redux"}, created.Skills)
	s.Equal(s.userID, created.UserID)

	updated := s.upsert(profile.Patch{Status: "Lead", Skills: profile.ParseSkills("go")})
	s.Equal(created.ID, updated.ID)
	s.Equal("Lead", updated.Status)
	s.Equal("Acme", updated.Company, "fields not re-supplied are left untouched")
	s.Equal([]string{"go"}, updated.Skills)

	view, err := s.uc.GetCurrentProfile(s.ctx, s.userID)
	s.Require().NoError(err)
	s.Equal("Lead", view.Profile.Status)
	s.Equal(user.Summary{ID: s.userID, Name: s.userName, Avatar: "https://img/jane"}, view.User)

	s.Eventually(func() bool { return len(s.events.types()) == 2 }, time.Second, 5*time.Millisecond)
	s.Equal([]service.EventType{service.EventProfileUpserted, service.EventProfileUpserted}, s.events.types())
}

func (s *ProfileUseCaseSuite) TestUpsertIsIdempotent() {
	patch := profile.Patch{
		Status: "Developer",
		Bio:    "hi",
		Skills: []string{"go"},
		Social: profile.Social{Twitter: "https://twitter.com/jane"},
	}
	first := s.upsert(patch)
	second := s.upsert(patch)
	s.Equal(first, second)

	stored, err := s.store.Profiles().FindByUserID(s.ctx, s.userID)
	s.Require().NoError(err)
	s.Equal(second, stored)
}

func (s *ProfileUseCaseSuite) TestGetProfileNotFoundMessages() {
	_, err := s.uc.GetCurrentProfile(s.ctx, s.userID)
	s.ErrorIs(err, apperror.ErrNotFound)
	s.Equal("There is no profile for this user", apperror.Message(err))

	_, err = s.uc.GetProfileByUserID(s.ctx, "not-a-user")
	s.ErrorIs(err, apperror.ErrNotFound)
	s.Equal("Profile not found", apperror.Message(err))
}

func (s *ProfileUseCaseSuite) TestListProfilesJoinsOwners() {
	s.upsert(profile.Patch{Status: "Dev", Skills: []string{"go"}})

	orphan := profile.New("ghost", profile.Patch{Status: "Dev"}, time.Now().Add(time.Hour))
	s.Require().NoError(s.store.Profiles().Create(s.ctx, orphan))

	views, err := s.uc.ListProfiles(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(views, 2)
	s.Equal(s.userName, views[0].User.Name)
	s.Equal(user.Summary{ID: "ghost"}, views[1].User)
}

func (s *ProfileUseCaseSuite) TestAddExperiencePrependsAndAssignsIDs() {
	s.upsert(profile.Patch{Status: "Dev", Skills: []string{"go"}})

	_, err := s.uc.AddExperience(s.ctx, s.userID, s.experience("A"))
	s.Require().NoError(err)
	p, err := s.uc.AddExperience(s.ctx, s.userID, s.experience("B"))
	s.Require().NoError(err)

	s.Require().Len(p.Experience, 2)
	s.Equal("B", p.Experience[0].Title)
	s.Equal("A", p.Experience[1].Title)
	s.NotEmpty(p.Experience[0].ID)
	s.NotEqual(p.Experience[0].ID, p.Experience[1].ID)
}

func (s *ProfileUseCaseSuite) TestAddWithoutProfileIsNotFound() {
	_, err := s.uc.AddExperience(s.ctx, s.userID, s.experience("A"))
	s.ErrorIs(err, apperror.ErrNotFound)
	s.Equal("There is no profile for this user", apperror.Message(err))

	_, err = s.uc.AddEducation(s.ctx, s.userID, profile.Education{School: "MIT"})
	s.ErrorIs(err, apperror.ErrNotFound)

	_, err = s.uc.RemoveEducation(s.ctx, s.userID, "x")
	s.ErrorIs(err, apperror.ErrNotFound)
}

func (s *ProfileUseCaseSuite) TestRemoveExperienceStrict() {
	s.upsert(profile.Patch{Status: "Dev", Skills: []string{"go"}})
	s.uc.AddExperience(s.ctx, s.userID, s.experience("A"))
	p, err := s.uc.AddExperience(s.ctx, s.userID, s.experience("B"))
	s.Require().NoError(err)

	p, err = s.uc.RemoveExperience(s.ctx, s.userID, "does-not-exist")
	s.Require().NoError(err)
	s.Len(p.Experience, 2, "a miss removes nothing")

	p, err = s.uc.RemoveExperience(s.ctx, s.userID, p.Experience[0].ID)
	s.Require().NoError(err)
	s.Require().Len(p.Experience, 1)
	s.Equal("A", p.Experience[0].Title)
}

func (s *ProfileUseCaseSuite) TestRemoveMissReferencePolicyDropsLast() {
	uc := s.newUseCase(profile.RemovalReference, lock.NewNoop(), s.store.Profiles(), s.store.Users())
	s.upsert(profile.Patch{Status: "Dev", Skills: []string{"go"}})
	uc.AddEducation(s.ctx, s.userID, profile.Education{School: "First"})
	uc.AddEducation(s.ctx, s.userID, profile.Education{School: "Second"})

	p, err := uc.RemoveEducation(s.ctx, s.userID, "does-not-exist")
	s.Require().NoError(err)
	s.Require().Len(p.Education, 1)
	s.Equal("Second", p.Education[0].School)

	stored, err := s.store.Profiles().FindByUserID(s.ctx, s.userID)
	s.Require().NoError(err)
	s.Len(stored.Education, 1, "the removal is persisted")
}

func (s *ProfileUseCaseSuite) TestDeleteProfileAndUser() {
	s.upsert(profile.Patch{Status: "Dev", Skills: []string{"go"}})

	s.Require().NoError(s.uc.DeleteProfileAndUser(s.ctx, s.userID))

	_, err := s.store.Profiles().FindByUserID(s.ctx, s.userID)
	s.ErrorIs(err, profile.ErrProfileNotFound)
	_, err = s.store.Users().FindByID(s.ctx, s.userID)
	s.ErrorIs(err, user.ErrUserNotFound)
}

type failingUserDelete struct {
	user.Repository
}

func (failingUserDelete) Delete(context.Context, string) error {
	return errors.New("connection reset")
}

func (s *ProfileUseCaseSuite) TestDeleteIsNotAtomic() {
	s.upsert(profile.Patch{Status: "Dev", Skills: []string{"go"}})
	uc := s.newUseCase(profile.RemovalStrict, lock.NewNoop(), s.store.Profiles(), failingUserDelete{s.store.Users()})

	err := uc.DeleteProfileAndUser(s.ctx, s.userID)
	s.ErrorIs(err, apperror.ErrInternal)
	s.Equal("Server Error", apperror.Message(err))

	_, err = s.store.Profiles().FindByUserID(s.ctx, s.userID)
	s.ErrorIs(err, profile.ErrProfileNotFound, "profile stays deleted")
	u, err := s.store.Users().FindByID(s.ctx, s.userID)
	s.Require().NoError(err)
	s.Equal(s.userName, u.Name, "user record is intact")
}

// barrierRepo holds every reader until n readers have loaded the profile,
// forcing the read-modify-write sequences to interleave.
type barrierRepo struct {
	profile.Repository
	wg *sync.WaitGroup
}

func (b barrierRepo) FindByUserID(ctx context.Context, userID string) (*profile.Profile, error) {
	p, err := b.Repository.FindByUserID(ctx, userID)
	b.wg.Done()
	b.wg.Wait()
	return p, err
}

func (s *ProfileUseCaseSuite) concurrentAdds(uc *profileuc.ProfileUseCase) {
	var wg sync.WaitGroup
	for _, title := range []string{"A", "B"} {
		wg.Add(1)
		go func(title string) {
			defer wg.Done()
			_, err := uc.AddExperience(s.ctx, s.userID, s.experience(title))
			assert.NoError(s.T(), err)
		}(title)
	}
	wg.Wait()
}

func (s *ProfileUseCaseSuite) TestUnlockedWritesLoseUpdates() {
	s.upsert(profile.Patch{Status: "Dev", Skills: []string{"go"}})

	barrier := &sync.WaitGroup{}
	barrier.Add(2)
	uc := s.newUseCase(profile.RemovalStrict, lock.NewNoop(), barrierRepo{s.store.Profiles(), barrier}, s.store.Users())
	s.concurrentAdds(uc)

	stored, err := s.store.Profiles().FindByUserID(s.ctx, s.userID)
	s.Require().NoError(err)
	s.Len(stored.Experience, 1, "the later save overwrites the earlier one")
}

func (s *ProfileUseCaseSuite) TestLockedWritesKeepBothUpdates() {
	s.upsert(profile.Patch{Status: "Dev", Skills: []string{"go"}})

	uc := s.newUseCase(profile.RemovalStrict, lock.NewLocal(), s.store.Profiles(), s.store.Users())
	s.concurrentAdds(uc)

	stored, err := s.store.Profiles().FindByUserID(s.ctx, s.userID)
	s.Require().NoError(err)
	s.Len(stored.Experience, 2)
}

type existsOnCreate struct {
	profile.Repository
	once sync.Once
}

// Update misses once, as if a concurrent request created the profile
// between the update attempt and the create.
func (e *existsOnCreate) Update(ctx context.Context, userID string, patch profile.Patch) (*profile.Profile, error) {
	var raced bool
	e.once.Do(func() {
		raced = true
		_ = e.Repository.Create(ctx, profile.New(userID, profile.Patch{Status: "First"}, time.Now()))
	})
	if raced {
		return nil, profile.ErrProfileNotFound
	}
	return e.Repository.Update(ctx, userID, patch)
}

func TestUpsertFallsBackToUpdateWhenCreateRaces(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := &existsOnCreate{Repository: store.Profiles()}
	uc := profileuc.NewProfileUseCase(repo, store.Users(), lock.NewNoop(), &recordingPublisher{}, profile.RemovalStrict, logger.NewNop())

	p, err := uc.ExecuteUpsertProfile(ctx, profileuc.UpsertProfileInput{UserID: "u1", Patch: profile.Patch{Status: "Second"}})
	require.NoError(t, err)
	assert.Equal(t, "Second", p.Status)
}
