package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"yt-insight/models"
)

type AnalysisRepository struct {
	col *mongo.Collection
}

func NewAnalysisRepository(db *mongo.Database) *AnalysisRepository {
	return &AnalysisRepository{col: db.Collection("analyses")}
}

// FindByVideoID returns the cached analysis of a video
func (r *AnalysisRepository) FindByVideoID(ctx context.Context, videoID string) (*models.Analysis, error) {
	var a models.Analysis
	if err := r.col.FindOne(ctx, bson.M{"video_id": videoID}).Decode(&a); err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

// Insert creates the analysis document. video_id unique 인덱스 위반 시 ErrDuplicateKey.
func (r *AnalysisRepository) Insert(ctx context.Context, a *models.Analysis) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = Now()
	} else {
		a.CreatedAt = StoredTime(a.CreatedAt)
	}
	res, err := r.col.InsertOne(ctx, a)
	if err != nil {
		return translate(err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		a.ID = id
	}
	return nil
}

// UpdateByVideoID overwrites the given fields and refreshes created_at.
// 기존 문서가 없으면 ErrNotFound 를 반환한다.
func (r *AnalysisRepository) UpdateByVideoID(ctx context.Context, videoID string, upd models.AnalysisUpdate) (*models.Analysis, error) {
	set := bson.M{"created_at": Now()}
	if upd.SentimentStats != nil {
		set["sentiment_stats"] = *upd.SentimentStats
	}
	if upd.KeyPoints != nil {
		set["key_points"] = upd.KeyPoints
	}
	if upd.Comprehensive != nil {
		set["comprehensive"] = *upd.Comprehensive
	}
	if upd.CommentsAnalyzed != nil {
		set["comments_analyzed"] = *upd.CommentsAnalyzed
	}
	if upd.ModelName != nil {
		set["model_name"] = *upd.ModelName
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var a models.Analysis
	err := r.col.FindOneAndUpdate(ctx, bson.M{"video_id": videoID}, bson.M{"$set": set}, opts).Decode(&a)
	if err != nil {
		return nil, translate(err)
	}
	return &a, nil
}
