package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/kartikeya-dewal/devConnector/internal/domain/profile"
	"github.com/kartikeya-dewal/devConnector/pkg/logger"
)

type postgresProfileRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresProfileRepo(db *pgxpool.Pool, logger logger.Logger) profile.Repository {
	return &postgresProfileRepo{db: db, logger: logger}
}

var profileColumns = []string{
	"id", "user_id", "company", "website", "location", "bio", "status",
	"githubusername", "skills", "social", "experience", "education", "created_at",
}

func (r *postgresProfileRepo) scan(row pgx.Row) (*profile.Profile, error) {
	p := &profile.Profile{}
	var socialBytes, experienceBytes, educationBytes []byte

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Company,
		&p.Website,
		&p.Location,
		&p.Bio,
		&p.Status,
		&p.GitHubUsername,
		&p.Skills,
		&socialBytes,
		&experienceBytes,
		&educationBytes,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, profile.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to scan profile row: %w", err)
	}

	if err := json.Unmarshal(socialBytes, &p.Social); err != nil {
		r.logger.Warn("Failed to unmarshal social", zap.String("user_id", p.UserID), zap.Error(err))
	}
	if err := json.Unmarshal(experienceBytes, &p.Experience); err != nil || p.Experience == nil {
		p.Experience = []profile.Experience{}
	}
	if err := json.Unmarshal(educationBytes, &p.Education); err != nil || p.Education == nil {
		p.Education = []profile.Education{}
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	return p, nil
}

func (r *postgresProfileRepo) FindByUserID(ctx context.Context, userID string) (*profile.Profile, error) {
	query, args, err := psql.Select(profileColumns...).
		From("profiles").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build profile query: %w", err)
	}
	return r.scan(r.db.QueryRow(ctx, query, args...))
}

func (r *postgresProfileRepo) List(ctx context.Context) ([]*profile.Profile, error) {
	query, args, err := psql.Select(profileColumns...).
		From("profiles").
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build profile list query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]*profile.Profile, 0)
	for rows.Next() {
		p, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profile rows: %w", err)
	}
	return profiles, nil
}

func (r *postgresProfileRepo) Create(ctx context.Context, p *profile.Profile) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	values, err := r.rowValues(p)
	if err != nil {
		return err
	}

	query, args, err := psql.Insert("profiles").
		Columns(profileColumns...).
		Values(values...).
		ToSql()
	if err != nil {
		return fmt.Errorf("build profile insert: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return profile.ErrProfileExists
		}
		return fmt.Errorf("failed to insert profile: %w", err)
	}
	return nil
}

// Update writes only the supplied scalar fields, the skills when given,
// and the social links as a whole.
func (r *postgresProfileRepo) Update(ctx context.Context, userID string, patch profile.Patch) (*profile.Profile, error) {
	socialBytes, err := json.Marshal(patch.Social)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal social: %w", err)
	}

	set := map[string]any{"social": socialBytes}
	for col, v := range map[string]string{
		"company":        patch.Company,
		"website":        patch.Website,
		"location":       patch.Location,
		"bio":            patch.Bio,
		"status":         patch.Status,
		"githubusername": patch.GitHubUsername,
	} {
		if v != "" {
			set[col] = v
		}
	}
	if patch.Skills != nil {
		set["skills"] = patch.Skills
	}

	query, args, err := psql.Update("profiles").
		SetMap(set).
		Where(sq.Eq{"user_id": userID}).
		Suffix("RETURNING " + strings.Join(profileColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build profile update: %w", err)
	}
	return r.scan(r.db.QueryRow(ctx, query, args...))
}

func (r *postgresProfileRepo) Save(ctx context.Context, p *profile.Profile) error {
	values, err := r.rowValues(p)
	if err != nil {
		return err
	}
	set := make(map[string]any, len(profileColumns))
	for i, col := range profileColumns {
		if col == "id" || col == "user_id" || col == "created_at" {
			continue
		}
		set[col] = values[i]
	}

	query, args, err := psql.Update("profiles").
		SetMap(set).
		Where(sq.Eq{"user_id": p.UserID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build profile save: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return profile.ErrProfileNotFound
	}
	return nil
}

func (r *postgresProfileRepo) DeleteByUserID(ctx context.Context, userID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}

// rowValues returns p's column values in profileColumns order.
func (r *postgresProfileRepo) rowValues(p *profile.Profile) ([]any, error) {
	socialBytes, err := json.Marshal(p.Social)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal social: %w", err)
	}
	experienceBytes, err := json.Marshal(nonNil(p.Experience))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal experience: %w", err)
	}
	educationBytes, err := json.Marshal(nonNil(p.Education))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal education: %w", err)
	}
	return []any{
		p.ID, p.UserID, p.Company, p.Website, p.Location, p.Bio, p.Status,
		p.GitHubUsername, nonNil(p.Skills), socialBytes, experienceBytes, educationBytes, p.CreatedAt,
	}, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
