package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kartikeya-dewal/devConnector/internal/domain/user"
	"github.com/kartikeya-dewal/devConnector/pkg/logger"
)

type userDocument struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Name     string             `bson:"name"`
	Email    string             `bson:"email"`
	Avatar   string             `bson:"avatar"`
	Password string             `bson:"password"`
	Date     time.Time          `bson:"date"`
}

func (d userDocument) toDomain() *user.User {
	return &user.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		Avatar:       d.Avatar,
		PasswordHash: d.Password,
		CreatedAt:    d.Date,
	}
}

type mongoUserRepo struct {
	coll   *mongo.Collection
	logger logger.Logger
}

func NewMongoUserRepo(db *mongo.Database, log logger.Logger) user.Repository {
	return &mongoUserRepo{coll: db.Collection(usersCollection), logger: log}
}

func (r *mongoUserRepo) Create(ctx context.Context, u *user.User) error {
	oid := primitive.NewObjectID()
	if u.ID != "" {
		var err error
		if oid, err = toObjectID(u.ID); err != nil {
			return err
		}
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	doc := userDocument{
		ID:       oid,
		Name:     u.Name,
		Email:    u.Email,
		Avatar:   u.Avatar,
		Password: u.PasswordHash,
		Date:     u.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return user.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	u.ID = oid.Hex()
	return nil
}

func (r *mongoUserRepo) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*user.User, error) {
	var doc userDocument
	err := r.coll.FindOne(ctx, filter, opts...).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *mongoUserRepo) FindByID(ctx context.Context, id string) (*user.User, error) {
	oid, err := toObjectID(id)
	if err != nil {
		return nil, user.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *mongoUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, options.FindOne().SetCollation(caseInsensitive))
}

func (r *mongoUserRepo) FindSummaries(ctx context.Context, ids []string) (map[string]user.Summary, error) {
	out := make(map[string]user.Summary, len(ids))
	oids := toObjectIDs(ids)
	if len(oids) == 0 {
		return out, nil
	}

	cur, err := r.coll.Find(ctx,
		bson.M{"_id": bson.M{"$in": oids}},
		options.Find().SetProjection(bson.M{"name": 1, "avatar": 1}))
	if err != nil {
		return nil, fmt.Errorf("find user summaries: %w", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var doc userDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode user summary: %w", err)
		}
		out[doc.ID.Hex()] = user.Summary{ID: doc.ID.Hex(), Name: doc.Name, Avatar: doc.Avatar}
	}
	return out, cur.Err()
}

func (r *mongoUserRepo) UpdateAvatar(ctx context.Context, id, avatarURL string) error {
	oid, err := toObjectID(id)
	if err != nil {
		return user.ErrUserNotFound
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"avatar": avatarURL}})
	if err != nil {
		return fmt.Errorf("update avatar: %w", err)
	}
	if res.MatchedCount == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func (r *mongoUserRepo) Delete(ctx context.Context, id string) error {
	oid, err := toObjectID(id)
	if err != nil {
		return nil
	}
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
