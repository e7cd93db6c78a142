package events

import "time"

// EventType 이벤트 타입 정의
type EventType string

const (
	VideoIngested     EventType = "video.ingested"
	AnalysisGenerated EventType = "analysis.generated"
)

// BaseEvent 모든 이벤트의 기본 구조
type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
}

// VideoIngestedEvent 영상 메타데이터와 댓글 수집 완료 이벤트
type VideoIngestedEvent struct {
	BaseEvent
	VideoID          string `json:"video_id"`
	ChannelID        string `json:"channel_id"`
	Title            string `json:"title"`
	CommentsIngested int    `json:"comments_ingested"`
}

// AnalysisGeneratedEvent AI 분석 생성 완료 이벤트
type AnalysisGeneratedEvent struct {
	BaseEvent
	VideoID          string `json:"video_id"`
	Positive         int    `json:"positive"`
	Neutral          int    `json:"neutral"`
	Negative         int    `json:"negative"`
	CommentsAnalyzed int    `json:"comments_analyzed"`
	ModelName        string `json:"model_name"`
}
