package services

import (
	"context"
	"fmt"
	"math"
	"time"

	language "cloud.google.com/go/language/apiv1"
	"cloud.google.com/go/language/apiv1/languagepb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"

	"github.com/AnshRaj112/mindcare-backend/internal/models"
)

// SentimentAnalyzer scores free text and labels it with a mood band.
type SentimentAnalyzer interface {
	Analyze(ctx context.Context, text string) (*models.Sentiment, error)
}

type moodBand struct {
	threshold float64
	label     string
	emoji     string
	advice    string
}

// Ordered from most to least positive; the first band whose threshold the score
// reaches wins.
var moodBands = []moodBand{
	{0.5, "Very Positive", "😊", "Keep up the great energy!"},
	{0.1, "Positive", "🙂", "You're doing well!"},
	{-0.1, "Neutral", "😐", "Consider what might lift your spirits."},
	{-0.5, "Negative", "😔", "Consider talking to someone about your feelings."},
	{math.Inf(-1), "Very Negative", "😢", "Please reach out for support - you're not alone."},
}

// InterpretMood maps a sentiment score to its mood band.
func InterpretMood(score float64) models.Mood {
	band := moodBands[len(moodBands)-1]
	for _, b := range moodBands {
		if score >= b.threshold {
			band = b
			break
		}
	}
	return models.Mood{
		Label:  band.label,
		Emoji:  band.emoji,
		Advice: band.advice,
		Score:  score,
	}
}

type languageClient interface {
	AnalyzeSentiment(ctx context.Context, req *languagepb.AnalyzeSentimentRequest, opts ...gax.CallOption) (*languagepb.AnalyzeSentimentResponse, error)
	Close() error
}

// GoogleSentimentAnalyzer calls the Cloud Natural Language API.
type GoogleSentimentAnalyzer struct {
	client  languageClient
	timeout time.Duration
}

func NewGoogleSentimentAnalyzer(ctx context.Context, opts ...option.ClientOption) (*GoogleSentimentAnalyzer, error) {
	client, err := language.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create language client: %w", err)
	}
	return newGoogleSentimentAnalyzer(client), nil
}

func newGoogleSentimentAnalyzer(client languageClient) *GoogleSentimentAnalyzer {
	return &GoogleSentimentAnalyzer{client: client, timeout: 15 * time.Second}
}

func (a *GoogleSentimentAnalyzer) Analyze(ctx context.Context, text string) (*models.Sentiment, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	resp, err := a.client.AnalyzeSentiment(ctx, &languagepb.AnalyzeSentimentRequest{
		Document: &languagepb.Document{
			Source: &languagepb.Document_Content{Content: text},
			Type:   languagepb.Document_PLAIN_TEXT,
		},
		EncodingType: languagepb.EncodingType_UTF8,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to analyze sentiment: %w", err)
	}

	doc := resp.GetDocumentSentiment()
	score := roundScore(doc.GetScore())
	return &models.Sentiment{
		Score:     score,
		Magnitude: roundScore(doc.GetMagnitude()),
		Mood:      InterpretMood(score),
	}, nil
}

func (a *GoogleSentimentAnalyzer) Close() error {
	return a.client.Close()
}

// roundScore drops float32 noise (0.8 arrives as 0.800000011920929).
func roundScore(v float32) float64 {
	return math.Round(float64(v)*1e6) / 1e6
}
