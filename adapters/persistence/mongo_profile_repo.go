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

	"github.com/kartikeya-dewal/devConnector/internal/domain/profile"
	"github.com/kartikeya-dewal/devConnector/pkg/logger"
)

type socialDocument struct {
	YouTube   string `bson:"youtube,omitempty"`
	Facebook  string `bson:"facebook,omitempty"`
	Twitter   string `bson:"twitter,omitempty"`
	Instagram string `bson:"instagram,omitempty"`
	LinkedIn  string `bson:"linkedin,omitempty"`
}

type experienceDocument struct {
	ID          string     `bson:"_id"`
	Title       string     `bson:"title"`
	Company     string     `bson:"company"`
	Location    string     `bson:"location,omitempty"`
	From        time.Time  `bson:"from"`
	To          *time.Time `bson:"to,omitempty"`
	Current     bool       `bson:"current"`
	Description string     `bson:"description,omitempty"`
}

type educationDocument struct {
	ID           string     `bson:"_id"`
	School       string     `bson:"school"`
	Degree       string     `bson:"degree"`
	FieldOfStudy string     `bson:"fieldofstudy"`
	From         time.Time  `bson:"from"`
	To           *time.Time `bson:"to,omitempty"`
	Current      bool       `bson:"current"`
	Description  string     `bson:"description,omitempty"`
}

type profileDocument struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty"`
	User           primitive.ObjectID   `bson:"user"`
	Company        string               `bson:"company,omitempty"`
	Website        string               `bson:"website,omitempty"`
	Location       string               `bson:"location,omitempty"`
	Bio            string               `bson:"bio,omitempty"`
	Status         string               `bson:"status"`
	GitHubUsername string               `bson:"githubusername,omitempty"`
	Skills         []string             `bson:"skills"`
	Social         socialDocument       `bson:"social"`
	Experience     []experienceDocument `bson:"experience"`
	Education      []educationDocument  `bson:"education"`
	Date           time.Time            `bson:"date"`
}

func toSocialDocument(s profile.Social) socialDocument {
	return socialDocument(s)
}

func newProfileDocument(p *profile.Profile, userOID primitive.ObjectID) profileDocument {
	doc := profileDocument{
		User:           userOID,
		Company:        p.Company,
		Website:        p.Website,
		Location:       p.Location,
		Bio:            p.Bio,
		Status:         p.Status,
		GitHubUsername: p.GitHubUsername,
		Skills:         nonNil(p.Skills),
		Social:         toSocialDocument(p.Social),
		Experience:     make([]experienceDocument, 0, len(p.Experience)),
		Education:      make([]educationDocument, 0, len(p.Education)),
		Date:           p.CreatedAt,
	}
	for _, e := range p.Experience {
		doc.Experience = append(doc.Experience, experienceDocument(e))
	}
	for _, e := range p.Education {
		doc.Education = append(doc.Education, educationDocument(e))
	}
	return doc
}

func (d profileDocument) toDomain() *profile.Profile {
	p := &profile.Profile{
		ID:             d.ID.Hex(),
		UserID:         d.User.Hex(),
		Company:        d.Company,
		Website:        d.Website,
		Location:       d.Location,
		Bio:            d.Bio,
		Status:         d.Status,
		GitHubUsername: d.GitHubUsername,
		Skills:         nonNil(d.Skills),
		Social:         profile.Social(d.Social),
		Experience:     make([]profile.Experience, 0, len(d.Experience)),
		Education:      make([]profile.Education, 0, len(d.Education)),
		CreatedAt:      d.Date,
	}
	for _, e := range d.Experience {
		p.Experience = append(p.Experience, profile.Experience(e))
	}
	for _, e := range d.Education {
		p.Education = append(p.Education, profile.Education(e))
	}
	return p
}

type mongoProfileRepo struct {
	coll   *mongo.Collection
	logger logger.Logger
}

func NewMongoProfileRepo(db *mongo.Database, log logger.Logger) profile.Repository {
	return &mongoProfileRepo{coll: db.Collection(profilesCollection), logger: log}
}

func (r *mongoProfileRepo) FindByUserID(ctx context.Context, userID string) (*profile.Profile, error) {
	oid, err := toObjectID(userID)
	if err != nil {
		return nil, profile.ErrProfileNotFound
	}

	var doc profileDocument
	err = r.coll.FindOne(ctx, bson.M{"user": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, profile.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *mongoProfileRepo) List(ctx context.Context) ([]*profile.Profile, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	var docs []profileDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}

	out := make([]*profile.Profile, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *mongoProfileRepo) Create(ctx context.Context, p *profile.Profile) error {
	userOID, err := toObjectID(p.UserID)
	if err != nil {
		return err
	}
	doc := newProfileDocument(p, userOID)
	doc.ID = primitive.NewObjectID()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return profile.ErrProfileExists
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	p.ID = doc.ID.Hex()
	return nil
}

// Update sets the supplied scalar fields, the skills when given, and the
// social links as one sub-document.
func (r *mongoProfileRepo) Update(ctx context.Context, userID string, patch profile.Patch) (*profile.Profile, error) {
	oid, err := toObjectID(userID)
	if err != nil {
		return nil, profile.ErrProfileNotFound
	}

	set := bson.M{"social": toSocialDocument(patch.Social)}
	for field, v := range map[string]string{
		"company":        patch.Company,
		"website":        patch.Website,
		"location":       patch.Location,
		"bio":            patch.Bio,
		"status":         patch.Status,
		"githubusername": patch.GitHubUsername,
	} {
		if v != "" {
			set[field] = v
		}
	}
	if patch.Skills != nil {
		set["skills"] = patch.Skills
	}

	var doc profileDocument
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"user": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, profile.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *mongoProfileRepo) Save(ctx context.Context, p *profile.Profile) error {
	userOID, err := toObjectID(p.UserID)
	if err != nil {
		return profile.ErrProfileNotFound
	}
	doc := newProfileDocument(p, userOID)
	if doc.ID, err = toObjectID(p.ID); err != nil {
		return err
	}

	res, err := r.coll.ReplaceOne(ctx, bson.M{"user": userOID}, doc)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	if res.MatchedCount == 0 {
		return profile.ErrProfileNotFound
	}
	return nil
}

func (r *mongoProfileRepo) DeleteByUserID(ctx context.Context, userID string) error {
	oid, err := toObjectID(userID)
	if err != nil {
		return nil
	}
	if _, err := r.coll.DeleteOne(ctx, bson.M{"user": oid}); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}
