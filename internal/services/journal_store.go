package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnshRaj112/mindcare-backend/internal/models"
	"github.com/AnshRaj112/mindcare-backend/pkg/logger"
)

const journalCollection = "journal_entries"

// JournalPatch lists the fields an update writes. Nil fields are left untouched.
type JournalPatch struct {
	Title     *string
	Content   *string
	Sentiment *models.Sentiment
	UpdatedAt time.Time
}

// JournalRepository persists journal entries. Unknown or malformed ids surface as
// ErrJournalNotFound.
type JournalRepository interface {
	Insert(ctx context.Context, entry *models.JournalEntry) error
	ListByUser(ctx context.Context, userID string) ([]models.JournalEntry, error)
	Get(ctx context.Context, id string) (*models.JournalEntry, error)
	Update(ctx context.Context, id string, patch JournalPatch) error
	Delete(ctx context.Context, id string) error
}

// MongoJournalRepository stores entries in the journal_entries collection.
type MongoJournalRepository struct {
	col *mongo.Collection
}

func NewMongoJournalRepository(db *mongo.Database) *MongoJournalRepository {
	return &MongoJournalRepository{col: db.Collection(journalCollection)}
}

// EnsureJournalIndexes configures indexes for the journal_entries collection.
// Called on startup from main after Mongo has connected.
func EnsureJournalIndexes(ctx context.Context, db *mongo.Database) error {
	col := db.Collection(journalCollection)

	// Compound index on (user_id, created_at) backs the per-user listing.
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_user_created"),
		},
	}

	for _, m := range indexes {
		if _, err := col.Indexes().CreateOne(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (r *MongoJournalRepository) Insert(ctx context.Context, entry *models.JournalEntry) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	_, err := r.col.InsertOne(ctx, entry)
	return err
}

// ListByUser returns the user's entries newest first. Entries created in the same
// instant keep the order the store assigned their ids in, latest first.
func (r *MongoJournalRepository) ListByUser(ctx context.Context, userID string) ([]models.JournalEntry, error) {
	findOptions := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: -1},
		{Key: "_id", Value: -1},
	})

	cursor, err := r.col.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := []models.JournalEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *MongoJournalRepository) Get(ctx context.Context, id string) (*models.JournalEntry, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrJournalNotFound
	}

	var entry models.JournalEntry
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrJournalNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *MongoJournalRepository) Update(ctx context.Context, id string, patch JournalPatch) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrJournalNotFound
	}

	set := bson.M{"updated_at": patch.UpdatedAt}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Content != nil {
		set["content"] = *patch.Content
	}
	if patch.Sentiment != nil {
		set["sentiment"] = patch.Sentiment
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrJournalNotFound
	}
	return nil
}

// Delete removes the entry. Deleting an id that no longer exists is not an error,
// and neither is a malformed id, which can never name a stored entry.
func (r *MongoJournalRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	_, err = r.col.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

// JournalService scores entries with the sentiment analyzer on every content write.
type JournalService struct {
	repo     JournalRepository
	analyzer SentimentAnalyzer
	log      *logger.Logger
	now      func() time.Time
}

func NewJournalService(repo JournalRepository, analyzer SentimentAnalyzer, log *logger.Logger) *JournalService {
	return &JournalService{
		repo:     repo,
		analyzer: analyzer,
		log:      log.With("service", "JournalService"),
		now:      time.Now,
	}
}

// Create analyzes content and stores a new entry with server timestamps.
func (s *JournalService) Create(ctx context.Context, userID, title, content string) (*models.JournalEntry, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(content) == "" {
		return nil, ErrJournalFieldsMissing
	}

	sentiment, err := s.analyzer.Analyze(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze sentiment: %w", err)
	}

	now := s.now().UTC()
	entry := &models.JournalEntry{
		UserID:    userID,
		Title:     title,
		Content:   content,
		Sentiment: sentiment,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}

	s.log.Info("Journal entry created", "entry_id", entry.ID.Hex(), "user_id", userID, "mood", sentiment.Mood.Label)
	return entry, nil
}

func (s *JournalService) ListByUser(ctx context.Context, userID string) ([]models.JournalEntry, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *JournalService) Get(ctx context.Context, id string) (*models.JournalEntry, error) {
	return s.repo.Get(ctx, id)
}

// Update merges the non-empty fields into the entry and refreshes updated_at. Only
// a content change is re-analyzed; the new sentiment is returned, or nil.
func (s *JournalService) Update(ctx context.Context, id, title, content string) (*models.Sentiment, error) {
	patch := JournalPatch{UpdatedAt: s.now().UTC()}
	if title != "" {
		patch.Title = &title
	}
	if content != "" {
		sentiment, err := s.analyzer.Analyze(ctx, content)
		if err != nil {
			return nil, fmt.Errorf("failed to analyze sentiment: %w", err)
		}
		patch.Content = &content
		patch.Sentiment = sentiment
	}

	if err := s.repo.Update(ctx, id, patch); err != nil {
		return nil, err
	}
	return patch.Sentiment, nil
}

func (s *JournalService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("Journal entry deleted", "entry_id", id)
	return nil
}

// AnalyzeMood scores content without storing anything.
func (s *JournalService) AnalyzeMood(ctx context.Context, content string) (*models.Sentiment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrContentRequired
	}
	return s.analyzer.Analyze(ctx, content)
}
