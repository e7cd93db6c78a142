package dto

import "time"

type CommentDTO struct {
	ID                    string    `json:"id" example:"UgxKREWq9-abc"`
	VideoID               string    `json:"videoId" example:"dQw4w9WgXcQ"`
	AuthorDisplayName     string    `json:"authorDisplayName" example:"@viewer"`
	AuthorProfileImageURL *string   `json:"authorProfileImageUrl"`
	AuthorChannelID       *string   `json:"authorChannelId"`
	TextDisplay           string    `json:"textDisplay"`
	TextOriginal          string    `json:"textOriginal"`
	LikeCount             int64     `json:"likeCount"`
	PublishedAt           time.Time `json:"publishedAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// VideoDTO 는 영상 메타데이터와 relevance 순 댓글 목록이다.
type VideoDTO struct {
	ID              string       `json:"id" example:"dQw4w9WgXcQ"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	ChannelID       string       `json:"channelId"`
	ChannelTitle    string       `json:"channelTitle"`
	PublishedAt     time.Time    `json:"publishedAt"`
	Thumbnail       string       `json:"thumbnail"`
	ViewCount       int64        `json:"viewCount"`
	LikeCount       int64        `json:"likeCount"`
	CommentCount    int64        `json:"commentCount"`
	IngestionStatus string       `json:"ingestionStatus" example:"complete"`
	FetchedAt       time.Time    `json:"fetchedAt"`
	Comments        []CommentDTO `json:"comments"`
}

type SentimentStatsDTO struct {
	Positive int `json:"positive" example:"60"`
	Neutral  int `json:"neutral" example:"25"`
	Negative int `json:"negative" example:"15"`
}

type KeyPointDTO struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type AnalysisDTO struct {
	VideoID          string            `json:"videoId" example:"dQw4w9WgXcQ"`
	SentimentStats   SentimentStatsDTO `json:"sentimentStats"`
	KeyPoints        []KeyPointDTO     `json:"keyPoints"`
	Comprehensive    string            `json:"comprehensive"`
	CommentsAnalyzed int               `json:"commentsAnalyzed" example:"100"`
	CreatedAt        time.Time         `json:"createdAt"`
}

// SummarizeRequestDTO 는 POST /api/youtube/summarize 요청 바디다.
type SummarizeRequestDTO struct {
	VideoID      string `json:"videoId" binding:"required,videoid" example:"dQw4w9WgXcQ"`
	ForceRefresh bool   `json:"forceRefresh"`
}

type ChannelUploadDTO struct {
	VideoID      string    `json:"videoId"`
	Title        string    `json:"title"`
	Link         string    `json:"link"`
	ChannelTitle string    `json:"channelTitle"`
	Thumbnail    string    `json:"thumbnail"`
	PublishedAt  time.Time `json:"publishedAt"`
}

type TierDTO struct {
	Name        string `json:"name" example:"pro"`
	MaxComments int    `json:"maxComments" example:"500"`
}
