package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Mood is the discrete band a sentiment score falls into.
type Mood struct {
	Label  string  `bson:"label" json:"label"`
	Emoji  string  `bson:"emoji" json:"emoji"`
	Advice string  `bson:"advice" json:"advice"`
	Score  float64 `bson:"score" json:"score"`
}

type Sentiment struct {
	Score     float64 `bson:"score" json:"score"`
	Magnitude float64 `bson:"magnitude" json:"magnitude"`
	Mood      Mood    `bson:"mood" json:"mood"`
}

// JournalEntry is a private journaling entry for a user, stored in journal_entries.
type JournalEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"userId"`
	Title     string             `bson:"title" json:"title"`
	Content   string             `bson:"content" json:"content"`
	Sentiment *Sentiment         `bson:"sentiment,omitempty" json:"sentiment,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}
