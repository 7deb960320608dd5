package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kartikeya-dewal/devConnector/internal/domain/post"
	"github.com/kartikeya-dewal/devConnector/pkg/logger"
)

type postgresPostRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresPostRepo(db *pgxpool.Pool, log logger.Logger) post.Repository {
	return &postgresPostRepo{db: db, logger: log}
}

var postColumns = []string{"id", "user_id", "text", "name", "avatar", "likes", "comments", "created_at"}

func scanPost(row pgx.Row) (*post.Post, error) {
	p := &post.Post{}
	var likesBytes, commentsBytes []byte

	err := row.Scan(&p.ID, &p.UserID, &p.Text, &p.Name, &p.Avatar, &likesBytes, &commentsBytes, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, post.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to scan post row: %w", err)
	}

	if err := json.Unmarshal(likesBytes, &p.Likes); err != nil || p.Likes == nil {
		p.Likes = []post.Like{}
	}
	if err := json.Unmarshal(commentsBytes, &p.Comments); err != nil || p.Comments == nil {
		p.Comments = []post.Comment{}
	}
	return p, nil
}

func marshalPostLists(p *post.Post) ([]byte, []byte, error) {
	likesBytes, err := json.Marshal(nonNil(p.Likes))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal post likes: %w", err)
	}
	commentsBytes, err := json.Marshal(nonNil(p.Comments))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal post comments: %w", err)
	}
	return likesBytes, commentsBytes, nil
}

func (r *postgresPostRepo) Create(ctx context.Context, p *post.Post) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	likesBytes, commentsBytes, err := marshalPostLists(p)
	if err != nil {
		return err
	}

	query, args, err := psql.Insert("posts").
		Columns(postColumns...).
		Values(p.ID, p.UserID, p.Text, p.Name, p.Avatar, likesBytes, commentsBytes, p.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build post insert: %w", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save post: %w", err)
	}
	return nil
}

func (r *postgresPostRepo) FindByID(ctx context.Context, id string) (*post.Post, error) {
	query, args, err := psql.Select(postColumns...).From("posts").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build post query: %w", err)
	}
	return scanPost(r.db.QueryRow(ctx, query, args...))
}

func (r *postgresPostRepo) ListRecent(ctx context.Context) ([]*post.Post, error) {
	query, args, err := psql.Select(postColumns...).From("posts").OrderBy("created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build post list query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	posts := make([]*post.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}
	return posts, nil
}

// Save rewrites the likes and comments of an existing post.
func (r *postgresPostRepo) Save(ctx context.Context, p *post.Post) error {
	likesBytes, commentsBytes, err := marshalPostLists(p)
	if err != nil {
		return err
	}

	query := `UPDATE posts SET likes = $2, comments = $3 WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, p.ID, likesBytes, commentsBytes)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return post.ErrPostNotFound
	}
	return nil
}

func (r *postgresPostRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}
