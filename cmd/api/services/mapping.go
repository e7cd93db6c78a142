package services

import (
	"yt-insight/cmd/api/clients/youtubeclient"
	"yt-insight/cmd/api/dto"
	"yt-insight/feeder"
	"yt-insight/models"
)

func videoFromMetadata(m *youtubeclient.VideoMetadata) *models.Video {
	return &models.Video{
		ID:              m.ID,
		Title:           m.Title,
		Description:     m.Description,
		ChannelID:       m.ChannelID,
		ChannelTitle:    m.ChannelTitle,
		PublishedAt:     m.PublishedAt,
		Thumbnail:       m.Thumbnail,
		ViewCount:       m.ViewCount,
		LikeCount:       m.LikeCount,
		CommentCount:    m.CommentCount,
		IngestionStatus: models.IngestionPending,
	}
}

// commentsFromRecords 는 upstream relevance 순서를 rank 로 보존한다.
func commentsFromRecords(videoID string, recs []youtubeclient.CommentRecord) []models.Comment {
	out := make([]models.Comment, 0, len(recs))
	for i, r := range recs {
		out = append(out, models.Comment{
			ID:                    r.ID,
			VideoID:               videoID,
			Rank:                  i,
			AuthorDisplayName:     r.AuthorDisplayName,
			AuthorProfileImageURL: r.AuthorProfileImageURL,
			AuthorChannelID:       r.AuthorChannelID,
			TextDisplay:           r.TextDisplay,
			TextOriginal:          r.TextOriginal,
			LikeCount:             r.LikeCount,
			PublishedAt:           r.PublishedAt,
			UpdatedAt:             r.UpdatedAt,
		})
	}
	return out
}

func mapVideo(v *models.Video, comments []models.Comment) dto.VideoDTO {
	out := dto.VideoDTO{
		ID:              v.ID,
		Title:           v.Title,
		Description:     v.Description,
		ChannelID:       v.ChannelID,
		ChannelTitle:    v.ChannelTitle,
		PublishedAt:     v.PublishedAt,
		Thumbnail:       v.Thumbnail,
		ViewCount:       v.ViewCount,
		LikeCount:       v.LikeCount,
		CommentCount:    v.CommentCount,
		IngestionStatus: string(v.IngestionStatus),
		FetchedAt:       v.FetchedAt,
		Comments:        make([]dto.CommentDTO, 0, len(comments)),
	}
	for _, c := range comments {
		out.Comments = append(out.Comments, dto.CommentDTO{
			ID:                    c.ID,
			VideoID:               c.VideoID,
			AuthorDisplayName:     c.AuthorDisplayName,
			AuthorProfileImageURL: c.AuthorProfileImageURL,
			AuthorChannelID:       c.AuthorChannelID,
			TextDisplay:           c.TextDisplay,
			TextOriginal:          c.TextOriginal,
			LikeCount:             c.LikeCount,
			PublishedAt:           c.PublishedAt,
			UpdatedAt:             c.UpdatedAt,
		})
	}
	return out
}

func mapAnalysis(a *models.Analysis) dto.AnalysisDTO {
	kps := make([]dto.KeyPointDTO, 0, len(a.KeyPoints))
	for _, kp := range a.KeyPoints {
		kps = append(kps, dto.KeyPointDTO{Title: kp.Title, Content: kp.Content})
	}
	return dto.AnalysisDTO{
		VideoID: a.VideoID,
		SentimentStats: dto.SentimentStatsDTO{
			Positive: a.SentimentStats.Positive,
			Neutral:  a.SentimentStats.Neutral,
			Negative: a.SentimentStats.Negative,
		},
		KeyPoints:        kps,
		Comprehensive:    a.Comprehensive,
		CommentsAnalyzed: a.CommentsAnalyzed,
		CreatedAt:        a.CreatedAt,
	}
}

func mapUploads(items []feeder.UploadItem) []dto.ChannelUploadDTO {
	out := make([]dto.ChannelUploadDTO, 0, len(items))
	for _, it := range items {
		out = append(out, dto.ChannelUploadDTO{
			VideoID:      it.VideoID,
			Title:        it.Title,
			Link:         it.Link,
			ChannelTitle: it.ChannelTitle,
			Thumbnail:    it.Thumbnail,
			PublishedAt:  it.PublishedAt,
		})
	}
	return out
}
