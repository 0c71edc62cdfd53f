package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"seoAnalyzerGO/internal/models"
)

const testNamespace = "seo_analyzer.reports"

var fixedTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func toDocument(t *testing.T, v any) bson.D {
	t.Helper()
	raw, err := bson.Marshal(v)
	require.NoError(t, err)
	var doc bson.D
	require.NoError(t, bson.Unmarshal(raw, &doc))
	return doc
}

func testRepository(mt *mtest.T) *MongoRepository {
	repo := newMongoRepository(mt.Client, mt.Coll)
	repo.now = func() time.Time { return fixedTime }
	return repo
}

func TestMongoRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("SaveReport", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := testRepository(mt)

		report := &models.SEOAnalysis{URL: "https://example.com", Score: 80}
		require.NoError(mt, repo.SaveReport(ctx, report))

		assert.False(mt, report.ID.IsZero())
		assert.Equal(mt, fixedTime, report.CreatedAt)
	})

	mt.Run("SaveReportWriteError", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))
		repo := testRepository(mt)

		err := repo.SaveReport(ctx, &models.SEOAnalysis{URL: "https://example.com"})
		assert.ErrorContains(mt, err, "failed to save report")
	})

	mt.Run("GetReport", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		stored := &models.SEOAnalysis{
			ID:              id,
			URL:             "https://example.com",
			PageFacts:       models.PageFacts{Title: "Stored"},
			Score:           72,
			Recommendations: []string{"Info: Add a canonical URL"},
			CreatedAt:       fixedTime,
		}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch, toDocument(mt.T, stored)))
		repo := testRepository(mt)

		report, err := repo.GetReport(ctx, id.Hex())
		require.NoError(mt, err)
		require.NotNil(mt, report)
		assert.Equal(mt, id, report.ID)
		assert.Equal(mt, "Stored", report.Title)
		assert.Equal(mt, 72, report.Score)
		assert.Equal(mt, []string{"Info: Add a canonical URL"}, report.Recommendations)
	})

	mt.Run("GetReportNotFound", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch))
		repo := testRepository(mt)

		report, err := repo.GetReport(ctx, primitive.NewObjectID().Hex())
		require.NoError(mt, err)
		assert.Nil(mt, report)
	})

	mt.Run("GetReportInvalidID", func(mt *mtest.T) {
		repo := testRepository(mt)

		_, err := repo.GetReport(ctx, "not-an-id")
		assert.ErrorIs(mt, err, ErrInvalidID)
	})

	mt.Run("GetReportsByURL", func(mt *mtest.T) {
		first := toDocument(mt.T, &models.SEOAnalysis{ID: primitive.NewObjectID(), URL: "https://example.com", Score: 90})
		second := toDocument(mt.T, &models.SEOAnalysis{ID: primitive.NewObjectID(), URL: "https://example.com", Score: 70})
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch, first, second))
		repo := testRepository(mt)

		reports, err := repo.GetReportsByURL(ctx, "https://example.com", 10)
		require.NoError(mt, err)
		require.Len(mt, reports, 2)
		assert.Equal(mt, 90, reports[0].Score)
		assert.Equal(mt, 70, reports[1].Score)
	})

	mt.Run("GetRecentReportsEmpty", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch))
		repo := testRepository(mt)

		reports, err := repo.GetRecentReports(ctx, 5)
		require.NoError(mt, err)
		assert.NotNil(mt, reports)
		assert.Empty(mt, reports)
	})

	mt.Run("GetStats", func(mt *mtest.T) {
		facets := bson.D{
			{Key: "totals", Value: bson.A{bson.D{
				{Key: "count", Value: 5},
				{Key: "avg", Value: 72.5},
				{Key: "urls", Value: 3},
			}}},
			{Key: "day", Value: bson.A{bson.D{{Key: "count", Value: 2}}}},
			{Key: "week", Value: bson.A{bson.D{{Key: "count", Value: 4}}}},
			{Key: "top", Value: bson.A{bson.D{{Key: "_id", Value: "https://a.example"}, {Key: "count", Value: 3}}}},
		}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch, facets))
		repo := testRepository(mt)

		stats, err := repo.GetStats(ctx)
		require.NoError(mt, err)
		assert.Equal(mt, &models.Stats{
			TotalReports:    5,
			UniqueURLs:      3,
			AverageScore:    72.5,
			ReportsLast24h:  2,
			ReportsLast7d:   4,
			MostAnalyzedURL: "https://a.example",
			LastUpdated:     fixedTime,
		}, stats)
	})

	mt.Run("GetStatsEmptyCollection", func(mt *mtest.T) {
		facets := bson.D{
			{Key: "totals", Value: bson.A{}},
			{Key: "day", Value: bson.A{}},
			{Key: "week", Value: bson.A{}},
			{Key: "top", Value: bson.A{}},
		}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNamespace, mtest.FirstBatch, facets))
		repo := testRepository(mt)

		stats, err := repo.GetStats(ctx)
		require.NoError(mt, err)
		assert.Equal(mt, &models.Stats{LastUpdated: fixedTime}, stats)
	})
}
