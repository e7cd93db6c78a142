package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SentimentStats 는 긍정/중립/부정 비율(0~100)이다. 합이 100 이 되는 것을 기대하지만 강제하지 않는다.
type SentimentStats struct {
	Positive int `bson:"positive" json:"positive"`
	Neutral  int `bson:"neutral" json:"neutral"`
	Negative int `bson:"negative" json:"negative"`
}

// KeyPoint is a single titled insight; slice order is display order.
type KeyPoint struct {
	Title   string `bson:"title" json:"title"`
	Content string `bson:"content" json:"content"`
}

// Analysis is the cached sentiment/summary result per video
// Collection: analyses (unique video_id)
type Analysis struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VideoID          string             `bson:"video_id" json:"video_id"`
	SentimentStats   SentimentStats     `bson:"sentiment_stats" json:"sentiment_stats"`
	KeyPoints        []KeyPoint         `bson:"key_points" json:"key_points"`
	Comprehensive    string             `bson:"comprehensive" json:"comprehensive"`
	CommentsAnalyzed int                `bson:"comments_analyzed" json:"comments_analyzed"`
	ModelName        string             `bson:"model_name" json:"model_name"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
}

// AnalysisUpdate 는 UpdateByVideoID 로 덮어쓸 필드 집합이다. nil 필드는 건드리지 않는다.
type AnalysisUpdate struct {
	SentimentStats   *SentimentStats
	KeyPoints        []KeyPoint
	Comprehensive    *string
	CommentsAnalyzed *int
	ModelName        *string
}
