package services

import "errors"

var (
	// ErrVideoNotFound 는 upstream 에 영상이 없거나(GetVideo) 아직 수집되지 않은 경우(Summarize)다.
	ErrVideoNotFound = errors.New("Video not found")
	// ErrAnalysisNotFound 는 캐시된 분석이 없는 경우다. 새 영상에 대해서는 정상 상태다.
	ErrAnalysisNotFound = errors.New("Analysis not found")
	// ErrIngestionIncomplete 는 댓글 수집이 끝나지 않은 영상에 분석을 요청한 경우다.
	ErrIngestionIncomplete = errors.New("Video ingestion is not complete; fetch the video again before summarizing")
	// ErrQuotaExceeded 는 분석 생성 분당/일일 한도가 찬 경우다.
	ErrQuotaExceeded = errors.New("Analysis generation quota exceeded; try again later")
)
