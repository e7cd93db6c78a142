package models

import "time"

// IngestionStatus 는 영상 수집 파이프라인의 진행 상태다.
//
//	pending:  영상 메타데이터만 저장되고 댓글 수집이 끝나지 않음
//	complete: 댓글 수집/저장까지 완료 (댓글 0개도 complete)
//	failed:   댓글 수집 또는 저장 중 실패
type IngestionStatus string

const (
	IngestionPending  IngestionStatus = "pending"
	IngestionComplete IngestionStatus = "complete"
	IngestionFailed   IngestionStatus = "failed"
)

// Video represents an ingested YouTube video
// Collection: videos (_id = YouTube video id)
type Video struct {
	ID              string          `bson:"_id" json:"id"`
	Title           string          `bson:"title" json:"title"`
	Description     string          `bson:"description" json:"description"`
	ChannelID       string          `bson:"channel_id" json:"channel_id"`
	ChannelTitle    string          `bson:"channel_title" json:"channel_title"`
	PublishedAt     time.Time       `bson:"published_at" json:"published_at"`
	Thumbnail       string          `bson:"thumbnail" json:"thumbnail"`
	ViewCount       int64           `bson:"view_count" json:"view_count"`
	LikeCount       int64           `bson:"like_count" json:"like_count"`
	CommentCount    int64           `bson:"comment_count" json:"comment_count"`
	IngestionStatus IngestionStatus `bson:"ingestion_status" json:"ingestion_status"`
	FetchedAt       time.Time       `bson:"fetched_at" json:"fetched_at"`
	UpdatedAt       time.Time       `bson:"updated_at" json:"updated_at"`
}
