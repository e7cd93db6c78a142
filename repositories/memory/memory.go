// Package memory 는 repositories 패키지와 같은 계약을 갖는 인메모리 저장소다.
// storage.backend 가 memory 일 때와 테스트에서 사용한다. 프로세스가 재시작되면 데이터는 사라진다.
package memory

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"yt-insight/models"
	"yt-insight/repositories"
)

type VideoRepository struct {
	mu     sync.RWMutex
	videos map[string]models.Video
}

func NewVideoRepository() *VideoRepository {
	return &VideoRepository{videos: map[string]models.Video{}}
}

func (r *VideoRepository) FindByID(_ context.Context, id string) (*models.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.videos[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &v, nil
}

func (r *VideoRepository) Insert(_ context.Context, v *models.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.videos[v.ID]; ok {
		return repositories.ErrDuplicateKey
	}
	now := repositories.Now()
	if v.FetchedAt.IsZero() {
		v.FetchedAt = now
	} else {
		v.FetchedAt = repositories.StoredTime(v.FetchedAt)
	}
	v.PublishedAt = repositories.StoredTime(v.PublishedAt)
	v.UpdatedAt = now
	if v.IngestionStatus == "" {
		v.IngestionStatus = models.IngestionPending
	}
	r.videos[v.ID] = *v
	return nil
}

func (r *VideoRepository) UpdateIngestionStatus(_ context.Context, id string, status models.IngestionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.videos[id]
	if !ok {
		return repositories.ErrNotFound
	}
	v.IngestionStatus = status
	v.UpdatedAt = repositories.Now()
	r.videos[id] = v
	return nil
}

type CommentRepository struct {
	mu       sync.RWMutex
	comments map[string]models.Comment
}

func NewCommentRepository() *CommentRepository {
	return &CommentRepository{comments: map[string]models.Comment{}}
}

// InsertMany 는 이미 있는 댓글 id 를 건너뛴다 (mongo unordered insert 와 동일).
func (r *CommentRepository) InsertMany(_ context.Context, comments []models.Comment) error {
	if len(comments) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range comments {
		if _, ok := r.comments[c.ID]; ok {
			continue
		}
		r.comments[c.ID] = c
	}
	return nil
}

func (r *CommentRepository) FindByVideoID(_ context.Context, videoID string) ([]models.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.Comment{}
	for _, c := range r.comments {
		if c.VideoID == videoID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rank != out[j].Rank {
			return out[i].Rank < out[j].Rank
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

type AnalysisRepository struct {
	mu       sync.RWMutex
	analyses map[string]models.Analysis
}

func NewAnalysisRepository() *AnalysisRepository {
	return &AnalysisRepository{analyses: map[string]models.Analysis{}}
}

func (r *AnalysisRepository) FindByVideoID(_ context.Context, videoID string) (*models.Analysis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.analyses[videoID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneAnalysis(a), nil
}

func (r *AnalysisRepository) Insert(_ context.Context, a *models.Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.analyses[a.VideoID]; ok {
		return repositories.ErrDuplicateKey
	}
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = repositories.Now()
	} else {
		a.CreatedAt = repositories.StoredTime(a.CreatedAt)
	}
	r.analyses[a.VideoID] = *cloneAnalysis(*a)
	return nil
}

func (r *AnalysisRepository) UpdateByVideoID(_ context.Context, videoID string, upd models.AnalysisUpdate) (*models.Analysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.analyses[videoID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if upd.SentimentStats != nil {
		a.SentimentStats = *upd.SentimentStats
	}
	if upd.KeyPoints != nil {
		a.KeyPoints = append([]models.KeyPoint(nil), upd.KeyPoints...)
	}
	if upd.Comprehensive != nil {
		a.Comprehensive = *upd.Comprehensive
	}
	if upd.CommentsAnalyzed != nil {
		a.CommentsAnalyzed = *upd.CommentsAnalyzed
	}
	if upd.ModelName != nil {
		a.ModelName = *upd.ModelName
	}
	a.CreatedAt = repositories.Now()
	r.analyses[videoID] = a
	return cloneAnalysis(a), nil
}

func cloneAnalysis(a models.Analysis) *models.Analysis {
	a.KeyPoints = append([]models.KeyPoint(nil), a.KeyPoints...)
	return &a
}

type GenerationLogRepository struct {
	mu   sync.Mutex
	logs []models.GenerationLog
}

func NewGenerationLogRepository() *GenerationLogRepository {
	return &GenerationLogRepository{}
}

func (r *GenerationLogRepository) Insert(_ context.Context, l *models.GenerationLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l.ID.IsZero() {
		l.ID = primitive.NewObjectID()
	}
	r.logs = append(r.logs, *l)
	return nil
}

// List returns a snapshot of all stored logs in insertion order
func (r *GenerationLogRepository) List() []models.GenerationLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.GenerationLog(nil), r.logs...)
}
