package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"yt-insight/models"
)

type GenerationLogRepository struct {
	col *mongo.Collection
}

func NewGenerationLogRepository(db *mongo.Database) *GenerationLogRepository {
	return &GenerationLogRepository{col: db.Collection("generation_logs")}
}

// Insert stores a single LLM call record
func (r *GenerationLogRepository) Insert(ctx context.Context, l *models.GenerationLog) error {
	res, err := r.col.InsertOne(ctx, l)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		l.ID = id
	}
	return nil
}
