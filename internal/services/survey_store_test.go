package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/mindcare-backend/pkg/logger"
)

func TestSurveyQuestionsLifecycle(t *testing.T) {
	blobs := newMemBlobStore()
	svc := NewSurveyService(blobs, logger.Nop())
	ctx := context.Background()

	_, err := svc.GetQuestions(ctx)
	assert.ErrorIs(t, err, ErrSurveyQuestionsNotFound)

	questions := json.RawMessage(`[{"id":1,"text":"How did you sleep?","options":["Well","Badly"]}]`)
	require.NoError(t, svc.CreateSurvey(ctx, questions))

	got, err := svc.GetQuestions(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, string(questions), string(got))

	// Creating again replaces the whole set.
	replacement := json.RawMessage(`{"sections":[]}`)
	require.NoError(t, svc.CreateSurvey(ctx, replacement))
	got, err = svc.GetQuestions(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, string(replacement), string(got))
}

func TestSurveyCreateRequiresQuestions(t *testing.T) {
	blobs := newMemBlobStore()
	svc := NewSurveyService(blobs, logger.Nop())

	assert.ErrorIs(t, svc.CreateSurvey(context.Background(), nil), ErrSurveyQuestionsMissing)
	assert.ErrorIs(t, svc.CreateSurvey(context.Background(), json.RawMessage("null")), ErrSurveyQuestionsMissing)
	assert.Zero(t, blobs.uploads)
}

func TestSurveySubmitAndResults(t *testing.T) {
	blobs := newMemBlobStore()
	svc := NewSurveyService(blobs, logger.Nop())
	svc.now = func() time.Time { return time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	_, err := svc.GetResults(ctx, "u1")
	assert.ErrorIs(t, err, ErrSurveyResultsNotFound)

	require.NoError(t, svc.SubmitAnswers(ctx, "u1", json.RawMessage(`{"1":"Well"}`)))
	require.NoError(t, svc.SubmitAnswers(ctx, "u1", json.RawMessage(`{"1":"Badly"}`)))
	assert.True(t, blobs.has("survey_responses/u1_survey_response.json"))

	results, err := svc.GetResults(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "u1", results[0].UserID)
	assert.JSONEq(t, `{"1":"Badly"}`, string(results[0].Answers))
	assert.True(t, svc.now().Equal(results[0].Timestamp))
}

func TestSurveySubmitValidation(t *testing.T) {
	svc := NewSurveyService(newMemBlobStore(), logger.Nop())
	ctx := context.Background()

	assert.ErrorIs(t, svc.SubmitAnswers(ctx, "", json.RawMessage(`{}`)), ErrSurveyAnswersMissing)
	assert.ErrorIs(t, svc.SubmitAnswers(ctx, "u1", nil), ErrSurveyAnswersMissing)
	assert.ErrorIs(t, svc.SubmitAnswers(ctx, "../u1", json.RawMessage(`{}`)), ErrSurveyAnswersMissing)

	_, err := svc.GetResults(ctx, "a/b")
	assert.ErrorIs(t, err, ErrSurveyResultsNotFound)
}

func TestSurveyStorageFailure(t *testing.T) {
	blobs := newMemBlobStore()
	blobs.failPut[surveyQuestionsKey] = errBoom
	svc := NewSurveyService(blobs, logger.Nop())

	err := svc.CreateSurvey(context.Background(), json.RawMessage(`[1]`))
	assert.ErrorIs(t, err, errBoom)
}
