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

	"github.com/kartikeya-dewal/devConnector/internal/domain/post"
	"github.com/kartikeya-dewal/devConnector/pkg/logger"
)

type likeDocument struct {
	UserID string `bson:"user"`
}

type commentDocument struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user"`
	Text      string    `bson:"text"`
	Name      string    `bson:"name"`
	Avatar    string    `bson:"avatar"`
	CreatedAt time.Time `bson:"date"`
}

type postDocument struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	User     string             `bson:"user"`
	Text     string             `bson:"text"`
	Name     string             `bson:"name"`
	Avatar   string             `bson:"avatar"`
	Likes    []likeDocument     `bson:"likes"`
	Comments []commentDocument  `bson:"comments"`
	Date     time.Time          `bson:"date"`
}

func newPostDocument(p *post.Post) postDocument {
	doc := postDocument{
		User:     p.UserID,
		Text:     p.Text,
		Name:     p.Name,
		Avatar:   p.Avatar,
		Likes:    make([]likeDocument, 0, len(p.Likes)),
		Comments: make([]commentDocument, 0, len(p.Comments)),
		Date:     p.CreatedAt,
	}
	for _, l := range p.Likes {
		doc.Likes = append(doc.Likes, likeDocument(l))
	}
	for _, c := range p.Comments {
		doc.Comments = append(doc.Comments, commentDocument(c))
	}
	return doc
}

func (d postDocument) toDomain() *post.Post {
	p := &post.Post{
		ID:        d.ID.Hex(),
		UserID:    d.User,
		Text:      d.Text,
		Name:      d.Name,
		Avatar:    d.Avatar,
		Likes:     make([]post.Like, 0, len(d.Likes)),
		Comments:  make([]post.Comment, 0, len(d.Comments)),
		CreatedAt: d.Date,
	}
	for _, l := range d.Likes {
		p.Likes = append(p.Likes, post.Like(l))
	}
	for _, c := range d.Comments {
		p.Comments = append(p.Comments, post.Comment(c))
	}
	return p
}

type mongoPostRepo struct {
	coll   *mongo.Collection
	logger logger.Logger
}

func NewMongoPostRepo(db *mongo.Database, log logger.Logger) post.Repository {
	return &mongoPostRepo{coll: db.Collection(postsCollection), logger: log}
}

func (r *mongoPostRepo) Create(ctx context.Context, p *post.Post) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	doc := newPostDocument(p)
	doc.ID = primitive.NewObjectID()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	p.ID = doc.ID.Hex()
	return nil
}

func (r *mongoPostRepo) FindByID(ctx context.Context, id string) (*post.Post, error) {
	oid, err := toObjectID(id)
	if err != nil {
		return nil, post.ErrPostNotFound
	}

	var doc postDocument
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, post.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find post: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *mongoPostRepo) ListRecent(ctx context.Context) ([]*post.Post, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	var docs []postDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}

	out := make([]*post.Post, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *mongoPostRepo) Save(ctx context.Context, p *post.Post) error {
	oid, err := toObjectID(p.ID)
	if err != nil {
		return post.ErrPostNotFound
	}
	doc := newPostDocument(p)

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"likes":    doc.Likes,
		"comments": doc.Comments,
	}})
	if err != nil {
		return fmt.Errorf("save post: %w", err)
	}
	if res.MatchedCount == 0 {
		return post.ErrPostNotFound
	}
	return nil
}

func (r *mongoPostRepo) Delete(ctx context.Context, id string) error {
	oid, err := toObjectID(id)
	if err != nil {
		return nil
	}
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}
