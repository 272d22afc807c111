package prompts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/JaimeStill/gallery/pkg/pagination"
)

// Collection is the MongoDB collection holding prompt documents.
const Collection = "prompts"

var newestFirst = bson.D{{Key: "createdAt", Value: -1}}

type mongoStore struct {
	coll       *mongo.Collection
	logger     *slog.Logger
	pagination pagination.Config
	now        func() time.Time
}

// NewMongo creates a MongoDB-backed prompt store implementing the System interface.
func NewMongo(
	db *mongo.Database,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &mongoStore{
		coll:       db.Collection(Collection),
		logger:     logger.With("system", "prompts", "store", "mongo"),
		pagination: pagination,
		now:        time.Now,
	}
}

func (m *mongoStore) Handler() *Handler {
	return NewHandler(m, m.logger, m.pagination)
}

func (m *mongoStore) All(ctx context.Context) ([]Prompt, error) {
	return m.find(ctx, bson.M{}, options.Find().SetSort(newestFirst))
}

func (m *mongoStore) List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResult[Prompt], error) {
	page.Normalize(m.pagination)
	filter := searchFilter(page.SearchTerm())

	total, err := m.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count prompts: %w", err)
	}

	page.Page = min(page.Page, pagination.TotalPages(int(total), page.PageSize))

	opts := options.Find().
		SetSort(newestFirst).
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.PageSize))

	prompts, err := m.find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	result := pagination.NewPageResult(prompts, int(total), page.Page, page.PageSize)
	return &result, nil
}

func (m *mongoStore) Find(ctx context.Context, id string) (*Prompt, error) {
	var p Prompt
	if err := m.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, mapMongoError("find", err)
	}
	return &p, nil
}

func (m *mongoStore) Create(ctx context.Context, cmd Command) (*Prompt, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	p := newPrompt(cmd, m.now())
	if _, err := m.coll.InsertOne(ctx, p); err != nil {
		return nil, fmt.Errorf("create prompt: %w", err)
	}

	m.logger.Info("prompt created", "id", p.ID, "title", p.Title)
	return &p, nil
}

func (m *mongoStore) Update(ctx context.Context, id string, cmd Command) (*Prompt, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{
		"title":       cmd.Title,
		"image":       cmd.Image,
		"description": cmd.Description,
		"prompt":      cmd.Prompt,
		"updatedAt":   m.now().UTC(),
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p Prompt
	if err := m.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&p); err != nil {
		return nil, mapMongoError("update", err)
	}

	m.logger.Info("prompt updated", "id", p.ID, "title", p.Title)
	return &p, nil
}

func (m *mongoStore) Delete(ctx context.Context, id string) error {
	res, err := m.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete prompt: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}

	m.logger.Info("prompt deleted", "id", id)
	return nil
}

func (m *mongoStore) find(ctx context.Context, filter any, opts *options.FindOptions) ([]Prompt, error) {
	cursor, err := m.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("query prompts: %w", err)
	}

	prompts := make([]Prompt, 0)
	if err := cursor.All(ctx, &prompts); err != nil {
		return nil, fmt.Errorf("decode prompts: %w", err)
	}
	return prompts, nil
}

// searchFilter matches search as a literal, case-insensitive substring of title or description.
func searchFilter(search string) bson.M {
	if strings.TrimSpace(search) == "" {
		return bson.M{}
	}

	pattern := bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
	return bson.M{"$or": bson.A{
		bson.M{"title": pattern},
		bson.M{"description": pattern},
	}}
}

func mapMongoError(op string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return fmt.Errorf("%s prompt: %w", op, err)
}
