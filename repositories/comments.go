package repositories

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"yt-insight/models"
)

type CommentRepository struct {
	col *mongo.Collection
}

func NewCommentRepository(db *mongo.Database) *CommentRepository {
	return &CommentRepository{col: db.Collection("comments")}
}

// InsertMany bulk-inserts comments. 빈 입력은 no-op 이다.
// unordered insert 로 수행하며 이미 저장된 댓글 id(중복 키)는 건너뛴다.
// 수집을 재개할 때 일부가 이미 저장되어 있어도 나머지를 채울 수 있다.
func (r *CommentRepository) InsertMany(ctx context.Context, comments []models.Comment) error {
	if len(comments) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(comments))
	for i := range comments {
		docs = append(docs, comments[i])
	}
	_, err := r.col.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil && !onlyDuplicateKeyErrors(err) {
		return err
	}
	return nil
}

// FindByVideoID returns all comments of a video in rank order
func (r *CommentRepository) FindByVideoID(ctx context.Context, videoID string) ([]models.Comment, error) {
	findOpts := options.Find().SetSort(bson.D{
		{Key: "rank", Value: 1},
		{Key: "_id", Value: 1},
	})
	cur, err := r.col.Find(ctx, bson.M{"video_id": videoID}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	results := []models.Comment{}
	for cur.Next(ctx) {
		var c models.Comment
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		results = append(results, c)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func onlyDuplicateKeyErrors(err error) bool {
	var bwe mongo.BulkWriteException
	if !errors.As(err, &bwe) || bwe.WriteConcernError != nil || len(bwe.WriteErrors) == 0 {
		return false
	}
	for _, we := range bwe.WriteErrors {
		if we.Code != 11000 {
			return false
		}
	}
	return true
}
