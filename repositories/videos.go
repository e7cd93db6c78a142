package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"yt-insight/models"
)

type VideoRepository struct {
	col *mongo.Collection
}

func NewVideoRepository(db *mongo.Database) *VideoRepository {
	return &VideoRepository{col: db.Collection("videos")}
}

// FindByID returns a video by its YouTube id
func (r *VideoRepository) FindByID(ctx context.Context, id string) (*models.Video, error) {
	var v models.Video
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&v); err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

// Insert creates a new video document. 같은 id 가 이미 있으면 ErrDuplicateKey 를 반환한다.
func (r *VideoRepository) Insert(ctx context.Context, v *models.Video) error {
	now := Now()
	if v.FetchedAt.IsZero() {
		v.FetchedAt = now
	} else {
		v.FetchedAt = StoredTime(v.FetchedAt)
	}
	v.PublishedAt = StoredTime(v.PublishedAt)
	v.UpdatedAt = now
	if v.IngestionStatus == "" {
		v.IngestionStatus = models.IngestionPending
	}
	_, err := r.col.InsertOne(ctx, v)
	return translate(err)
}

// UpdateIngestionStatus sets ingestion_status and updated_at
func (r *VideoRepository) UpdateIngestionStatus(ctx context.Context, id string, status models.IngestionStatus) error {
	res, err := r.col.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"ingestion_status": status, "updated_at": Now()},
	})
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
