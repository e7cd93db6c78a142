package models

import "time"

// Comment is a top-level comment of a video
// Collection: comments (_id = YouTube comment id)
//
// Rank 은 수집 시점의 relevance 정렬 순서(0부터)이며 재조회 시 같은 순서를 보장하는 데 쓴다.
type Comment struct {
	ID                    string    `bson:"_id" json:"id"`
	VideoID               string    `bson:"video_id" json:"video_id"`
	Rank                  int       `bson:"rank" json:"rank"`
	AuthorDisplayName     string    `bson:"author_display_name" json:"author_display_name"`
	AuthorProfileImageURL *string   `bson:"author_profile_image_url,omitempty" json:"author_profile_image_url,omitempty"`
	AuthorChannelID       *string   `bson:"author_channel_id,omitempty" json:"author_channel_id,omitempty"`
	TextDisplay           string    `bson:"text_display" json:"text_display"`
	TextOriginal          string    `bson:"text_original" json:"text_original"`
	LikeCount             int64     `bson:"like_count" json:"like_count"`
	PublishedAt           time.Time `bson:"published_at" json:"published_at"`
	UpdatedAt             time.Time `bson:"updated_at" json:"updated_at"`
}
