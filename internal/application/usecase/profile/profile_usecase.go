package profile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/kartikeya-dewal/devConnector/internal/application/service"
	"github.com/kartikeya-dewal/devConnector/internal/domain/profile"
	"github.com/kartikeya-dewal/devConnector/internal/domain/user"
	"github.com/kartikeya-dewal/devConnector/pkg/apperror"
	"github.com/kartikeya-dewal/devConnector/pkg/logger"
)

const (
	msgNoProfileForUser = "There is no profile for this user"
	msgProfileNotFound  = "Profile not found"
)

var tracer = otel.Tracer("profile_usecase")

type ProfileUseCase struct {
	profileRepo profile.Repository
	userRepo    user.Repository
	locker      service.Locker
	events      service.EventPublisher
	policy      profile.RemovalPolicy
	logger      logger.Logger
	now         func() time.Time
}

func NewProfileUseCase(
	pRepo profile.Repository,
	uRepo user.Repository,
	locker service.Locker,
	events service.EventPublisher,
	policy profile.RemovalPolicy,
	log logger.Logger,
) *ProfileUseCase {
	return &ProfileUseCase{
		profileRepo: pRepo,
		userRepo:    uRepo,
		locker:      locker,
		events:      events,
		policy:      policy,
		logger:      log.Named("profile_usecase"),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// ProfileView is a profile joined with the reduced view of its owner.
type ProfileView struct {
	Profile *profile.Profile
	User    user.Summary
}

type UpsertProfileInput struct {
	UserID string
	Patch  profile.Patch
}

// ExecuteUpsertProfile creates the caller's profile or updates it in place.
// When a concurrent request creates the profile first, this call falls
// back to an update and the later write wins.
func (uc *ProfileUseCase) ExecuteUpsertProfile(ctx context.Context, input UpsertProfileInput) (*profile.Profile, error) {
	ctx, span := tracer.Start(ctx, "UpsertProfile")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", input.UserID))

	unlock, err := uc.lock(ctx, input.UserID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	defer unlock()

	p, err := uc.profileRepo.Update(ctx, input.UserID, input.Patch)
	if errors.Is(err, profile.ErrProfileNotFound) {
		p = profile.New(input.UserID, input.Patch, uc.now())
		err = uc.profileRepo.Create(ctx, p)
		if errors.Is(err, profile.ErrProfileExists) {
			uc.logger.Debug("Profile created concurrently, applying as update", zap.String("user_id", input.UserID))
			p, err = uc.profileRepo.Update(ctx, input.UserID, input.Patch)
		}
	}
	if err != nil {
		span.RecordError(err)
		return nil, uc.storageError("upsert profile", input.UserID, err)
	}

	uc.publish(service.NewEvent(service.TopicProfileEvents, service.EventProfileUpserted, input.UserID, p.ID))
	return p, nil
}

// GetCurrentProfile answers GET /me.
func (uc *ProfileUseCase) GetCurrentProfile(ctx context.Context, userID string) (*ProfileView, error) {
	return uc.getProfile(ctx, userID, msgNoProfileForUser)
}

// GetProfileByUserID answers the public lookup. A malformed id is treated
// the same as an unknown one.
func (uc *ProfileUseCase) GetProfileByUserID(ctx context.Context, userID string) (*ProfileView, error) {
	return uc.getProfile(ctx, userID, msgProfileNotFound)
}

func (uc *ProfileUseCase) getProfile(ctx context.Context, userID, notFoundMsg string) (*ProfileView, error) {
	ctx, span := tracer.Start(ctx, "GetProfile")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", userID))

	p, err := uc.profileRepo.FindByUserID(ctx, userID)
	if errors.Is(err, profile.ErrProfileNotFound) {
		return nil, apperror.NewNotFound(notFoundMsg, "profile for user "+userID)
	}
	if err != nil {
		span.RecordError(err)
		return nil, uc.storageError("find profile", userID, err)
	}

	views, err := uc.join(ctx, []*profile.Profile{p})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &views[0], nil
}

func (uc *ProfileUseCase) ListProfiles(ctx context.Context) ([]ProfileView, error) {
	ctx, span := tracer.Start(ctx, "ListProfiles")
	defer span.End()

	profiles, err := uc.profileRepo.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, uc.storageError("list profiles", "", err)
	}
	span.SetAttributes(attribute.Int("count", len(profiles)))
	return uc.join(ctx, profiles)
}

// join attaches owner summaries. Profiles whose owner no longer exists
// keep only the owner id.
func (uc *ProfileUseCase) join(ctx context.Context, profiles []*profile.Profile) ([]ProfileView, error) {
	ids := make([]string, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.UserID)
	}
	summaries, err := uc.userRepo.FindSummaries(ctx, ids)
	if err != nil {
		return nil, uc.storageError("load profile owners", "", err)
	}

	views := make([]ProfileView, 0, len(profiles))
	for _, p := range profiles {
		s, ok := summaries[p.UserID]
		if !ok {
			s = user.Summary{ID: p.UserID}
		}
		views = append(views, ProfileView{Profile: p, User: s})
	}
	return views, nil
}

// DeleteProfileAndUser removes the profile and then the user. The two
// deletes are independent: if the second fails the profile stays deleted.
// Posts authored by the user are left in place.
func (uc *ProfileUseCase) DeleteProfileAndUser(ctx context.Context, userID string) error {
	ctx, span := tracer.Start(ctx, "DeleteProfileAndUser")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", userID))

	if err := uc.profileRepo.DeleteByUserID(ctx, userID); err != nil {
		span.RecordError(err)
		return uc.storageError("delete profile", userID, err)
	}
	uc.publish(service.NewEvent(service.TopicProfileEvents, service.EventProfileDeleted, userID, ""))

	if err := uc.userRepo.Delete(ctx, userID); err != nil {
		span.RecordError(err)
		uc.logger.Warn("Profile deleted but user delete failed", zap.String("user_id", userID), zap.Error(err))
		return uc.storageError("delete user", userID, err)
	}
	uc.publish(service.NewEvent(service.TopicUserEvents, service.EventUserDeleted, userID, ""))
	return nil
}

func (uc *ProfileUseCase) AddExperience(ctx context.Context, userID string, e profile.Experience) (*profile.Profile, error) {
	e.ID = uuid.NewString()
	return uc.mutate(ctx, "AddExperience", userID, func(p *profile.Profile) service.DomainEvent {
		p.AddExperience(e)
		return service.NewEvent(service.TopicProfileEvents, service.EventExperienceAdded, userID, e.ID)
	})
}

func (uc *ProfileUseCase) RemoveExperience(ctx context.Context, userID, expID string) (*profile.Profile, error) {
	return uc.mutate(ctx, "RemoveExperience", userID, func(p *profile.Profile) service.DomainEvent {
		if !p.RemoveExperience(expID, uc.policy) {
			uc.logger.Debug("No experience entry matched", zap.String("user_id", userID), zap.String("exp_id", expID))
		}
		return service.NewEvent(service.TopicProfileEvents, service.EventExperienceRemoved, userID, expID)
	})
}

func (uc *ProfileUseCase) AddEducation(ctx context.Context, userID string, e profile.Education) (*profile.Profile, error) {
	e.ID = uuid.NewString()
	return uc.mutate(ctx, "AddEducation", userID, func(p *profile.Profile) service.DomainEvent {
		p.AddEducation(e)
		return service.NewEvent(service.TopicProfileEvents, service.EventEducationAdded, userID, e.ID)
	})
}

func (uc *ProfileUseCase) RemoveEducation(ctx context.Context, userID, eduID string) (*profile.Profile, error) {
	return uc.mutate(ctx, "RemoveEducation", userID, func(p *profile.Profile) service.DomainEvent {
		if !p.RemoveEducation(eduID, uc.policy) {
			uc.logger.Debug("No education entry matched", zap.String("user_id", userID), zap.String("edu_id", eduID))
		}
		return service.NewEvent(service.TopicProfileEvents, service.EventEducationRemoved, userID, eduID)
	})
}

// mutate runs a read-modify-write on the profile under the configured
// lock. The profile is persisted even when fn changed nothing.
func (uc *ProfileUseCase) mutate(ctx context.Context, op, userID string, fn func(*profile.Profile) service.DomainEvent) (*profile.Profile, error) {
	ctx, span := tracer.Start(ctx, op)
	defer span.End()
	span.SetAttributes(attribute.String("user_id", userID))

	unlock, err := uc.lock(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	defer unlock()

	p, err := uc.profileRepo.FindByUserID(ctx, userID)
	if errors.Is(err, profile.ErrProfileNotFound) {
		return nil, apperror.NewNotFound(msgNoProfileForUser, "profile for user "+userID)
	}
	if err != nil {
		span.RecordError(err)
		return nil, uc.storageError("find profile", userID, err)
	}

	evt := fn(p)

	if err := uc.profileRepo.Save(ctx, p); err != nil {
		span.RecordError(err)
		return nil, uc.storageError("save profile", userID, err)
	}
	uc.publish(evt)
	return p, nil
}

func (uc *ProfileUseCase) lock(ctx context.Context, userID string) (func(), error) {
	unlock, err := uc.locker.Lock(ctx, "profile:"+userID)
	if err != nil {
		uc.logger.Error("Failed to acquire profile lock", err, zap.String("user_id", userID))
		return nil, apperror.NewInternal("acquire profile lock", err)
	}
	return unlock, nil
}

func (uc *ProfileUseCase) storageError(action, userID string, err error) error {
	uc.logger.Error("Profile storage failure", err, zap.String("action", action), zap.String("user_id", userID))
	return apperror.NewInternal(action, err)
}

func (uc *ProfileUseCase) publish(evt service.DomainEvent) {
	go func() {
		if err := uc.events.Publish(context.Background(), evt); err != nil {
			uc.logger.Warn("Failed to publish profile event",
				zap.String("event_type", string(evt.Type)),
				zap.String("user_id", evt.UserID),
				zap.Error(err))
		}
	}()
}
