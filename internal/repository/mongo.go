package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"seoAnalyzerGO/internal/config"
	"seoAnalyzerGO/internal/models"
)

// ErrInvalidID is returned for report IDs that are not valid ObjectIDs
var ErrInvalidID = errors.New("invalid report ID")

// Repository defines operations on report history
type Repository interface {
	SaveReport(ctx context.Context, report *models.SEOAnalysis) error
	GetReport(ctx context.Context, id string) (*models.SEOAnalysis, error)
	GetRecentReports(ctx context.Context, limit int) ([]*models.SEOAnalysis, error)
	GetReportsByURL(ctx context.Context, pageURL string, limit int) ([]*models.SEOAnalysis, error)
	GetStats(ctx context.Context) (*models.Stats, error)
	Close(ctx context.Context) error
}

// MongoRepository implements Repository interface for MongoDB
type MongoRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
	now        func() time.Time
}

// NewMongoRepository creates a new MongoDB repository
func NewMongoRepository(ctx context.Context, cfg config.MongoDBConfig) (*MongoRepository, error) {
	clientOptions := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.Timeout)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Check the connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	collection := client.Database(cfg.Database).Collection(cfg.CollectionName)

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "url", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "score", Value: 1}}},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexModels); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	return newMongoRepository(client, collection), nil
}

func newMongoRepository(client *mongo.Client, collection *mongo.Collection) *MongoRepository {
	return &MongoRepository{client: client, collection: collection, now: time.Now}
}

// SaveReport saves a report and sets its ID
func (r *MongoRepository) SaveReport(ctx context.Context, report *models.SEOAnalysis) error {
	if report.CreatedAt.IsZero() {
		report.CreatedAt = r.now()
	}

	result, err := r.collection.InsertOne(ctx, report)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		report.ID = oid
	}
	return nil
}

// GetReport retrieves a report by ID. A missing report yields nil, nil.
func (r *MongoRepository) GetReport(ctx context.Context, id string) (*models.SEOAnalysis, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	var report models.SEOAnalysis
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load report: %w", err)
	}

	return &report, nil
}

// GetRecentReports retrieves the most recent reports
func (r *MongoRepository) GetRecentReports(ctx context.Context, limit int) ([]*models.SEOAnalysis, error) {
	return r.find(ctx, bson.M{}, limit)
}

// GetReportsByURL retrieves the report history of one URL, newest first
func (r *MongoRepository) GetReportsByURL(ctx context.Context, pageURL string, limit int) ([]*models.SEOAnalysis, error) {
	return r.find(ctx, bson.M{"url": pageURL}, limit)
}

func (r *MongoRepository) find(ctx context.Context, filter bson.M, limit int) ([]*models.SEOAnalysis, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer cursor.Close(ctx)

	reports := []*models.SEOAnalysis{}
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, fmt.Errorf("failed to decode reports: %w", err)
	}

	return reports, nil
}

// GetStats aggregates report history statistics
func (r *MongoRepository) GetStats(ctx context.Context) (*models.Stats, error) {
	now := r.now()

	pipeline := mongo.Pipeline{
		{{Key: "$facet", Value: bson.D{
			{Key: "totals", Value: bson.A{
				bson.D{{Key: "$group", Value: bson.D{
					{Key: "_id", Value: nil},
					{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
					{Key: "avg", Value: bson.D{{Key: "$avg", Value: "$score"}}},
					{Key: "urls", Value: bson.D{{Key: "$addToSet", Value: "$url"}}},
				}}},
				bson.D{{Key: "$project", Value: bson.D{
					{Key: "count", Value: 1},
					{Key: "avg", Value: 1},
					{Key: "urls", Value: bson.D{{Key: "$size", Value: "$urls"}}},
				}}},
			}},
			{Key: "day", Value: bson.A{
				bson.D{{Key: "$match", Value: bson.D{{Key: "created_at", Value: bson.D{{Key: "$gte", Value: now.Add(-24 * time.Hour)}}}}}},
				bson.D{{Key: "$count", Value: "count"}},
			}},
			{Key: "week", Value: bson.A{
				bson.D{{Key: "$match", Value: bson.D{{Key: "created_at", Value: bson.D{{Key: "$gte", Value: now.Add(-7 * 24 * time.Hour)}}}}}},
				bson.D{{Key: "$count", Value: "count"}},
			}},
			{Key: "top", Value: bson.A{
				bson.D{{Key: "$group", Value: bson.D{
					{Key: "_id", Value: "$url"},
					{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
				}}},
				bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
				bson.D{{Key: "$limit", Value: 1}},
			}},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate stats: %w", err)
	}
	defer cursor.Close(ctx)

	var facets []struct {
		Totals []struct {
			Count int     `bson:"count"`
			Avg   float64 `bson:"avg"`
			URLs  int     `bson:"urls"`
		} `bson:"totals"`
		Day []struct {
			Count int `bson:"count"`
		} `bson:"day"`
		Week []struct {
			Count int `bson:"count"`
		} `bson:"week"`
		Top []struct {
			URL string `bson:"_id"`
		} `bson:"top"`
	}
	if err := cursor.All(ctx, &facets); err != nil {
		return nil, fmt.Errorf("failed to decode stats: %w", err)
	}

	stats := &models.Stats{LastUpdated: now}
	if len(facets) == 0 {
		return stats, nil
	}

	f := facets[0]
	if len(f.Totals) > 0 {
		stats.TotalReports = f.Totals[0].Count
		stats.AverageScore = f.Totals[0].Avg
		stats.UniqueURLs = f.Totals[0].URLs
	}
	if len(f.Day) > 0 {
		stats.ReportsLast24h = f.Day[0].Count
	}
	if len(f.Week) > 0 {
		stats.ReportsLast7d = f.Week[0].Count
	}
	if len(f.Top) > 0 {
		stats.MostAnalyzedURL = f.Top[0].URL
	}

	return stats, nil
}

// Close closes the MongoDB connection
func (r *MongoRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
