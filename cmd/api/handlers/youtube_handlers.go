package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"yt-insight/cmd/api/clients/youtubeclient"
	"yt-insight/cmd/api/dto"
	"yt-insight/cmd/api/middleware"
	"yt-insight/cmd/api/services"
	"yt-insight/cmd/internal/logger"
	"yt-insight/summarizer"
)

const (
	// HeaderQuotaRemaining 은 summarize 응답에 오늘 남은 생성 횟수를 싣는다.
	HeaderQuotaRemaining = "X-Quota-Remaining"

	defaultUploadsLimit = 15
	maxUploadsLimit     = 50
)

type videoQuery struct {
	VideoID string `form:"videoId" binding:"required,videoid"`
}

type channelUploadsQuery struct {
	ChannelID string `form:"channelId" binding:"required"`
	Limit     *int   `form:"limit" binding:"omitempty,min=1,max=50"`
}

// GetVideoHandler godoc
// @Summary      Get video with comments
// @Description  Returns stored video metadata and comments, ingesting them from YouTube on first request.
// @Tags         youtube
// @Security     BearerAuth
// @Param        videoId  query  string  true  "YouTube video id (11 chars)"
// @Produce      json
// @Success      200  {object}  dto.VideoDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /youtube/video [get]
func GetVideoHandler(svc *services.YouTubeService) gin.HandlerFunc {
	registerValidators()
	return func(c *gin.Context) {
		var q videoQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			abortWithBindError(c, err)
			return
		}

		video, err := svc.GetVideo(c.Request.Context(), q.VideoID, middleware.TierFromContext(c))
		if err != nil {
			abortWithServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, video)
	}
}

// SummarizeHandler godoc
// @Summary      Summarize video comments
// @Description  Returns the cached analysis for an ingested video or generates one with the configured LLM.
// @Tags         youtube
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SummarizeRequestDTO  true  "Summarize request"
// @Success      200  {object}  dto.AnalysisDTO
// @Header       200,429  {integer}  X-Quota-Remaining  "Analysis generations left today (omitted when unlimited)"
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Failure      409  {object}  dto.ErrorResponseDTO
// @Failure      429  {object}  dto.ErrorResponseDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /youtube/summarize [post]
func SummarizeHandler(svc *services.YouTubeService) gin.HandlerFunc {
	registerValidators()
	return func(c *gin.Context) {
		var req dto.SummarizeRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithBindError(c, err)
			return
		}

		analysis, err := svc.Summarize(c.Request.Context(), req.VideoID, req.ForceRefresh, middleware.TierFromContext(c))
		if remaining := svc.GenerationQuotaRemaining(); remaining >= 0 {
			c.Header(HeaderQuotaRemaining, strconv.Itoa(remaining))
		}
		if err != nil {
			abortWithServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, analysis)
	}
}

// GetAnalysisHandler godoc
// @Summary      Get cached analysis
// @Description  Returns the stored analysis for a video. 404 means the video has not been analyzed yet.
// @Tags         youtube
// @Param        videoId  query  string  true  "YouTube video id (11 chars)"
// @Produce      json
// @Success      200  {object}  dto.AnalysisDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /youtube/analysis [get]
func GetAnalysisHandler(svc *services.YouTubeService) gin.HandlerFunc {
	registerValidators()
	return func(c *gin.Context) {
		var q videoQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			abortWithBindError(c, err)
			return
		}

		analysis, err := svc.GetAnalysis(c.Request.Context(), q.VideoID)
		if err != nil {
			abortWithServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, analysis)
	}
}

// ListChannelUploadsHandler godoc
// @Summary      List recent channel uploads
// @Description  Lists the latest uploads of a channel from its public feed.
// @Tags         youtube
// @Param        channelId  query  string  true   "YouTube channel id"
// @Param        limit      query  int     false  "Max items (1-50, default 15)"
// @Produce      json
// @Success      200  {array}   dto.ChannelUploadDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /youtube/channel/uploads [get]
func ListChannelUploadsHandler(svc *services.YouTubeService) gin.HandlerFunc {
	registerValidators()
	return func(c *gin.Context) {
		var q channelUploadsQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			abortWithBindError(c, err)
			return
		}
		limit := defaultUploadsLimit
		if q.Limit != nil {
			limit = min(*q.Limit, maxUploadsLimit)
		}

		uploads, err := svc.ChannelUploads(c.Request.Context(), q.ChannelID, limit)
		if err != nil {
			abortWithServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, uploads)
	}
}

// ListTiersHandler godoc
// @Summary      List subscription tiers
// @Description  Returns the comment cap for each subscription tier.
// @Tags         tiers
// @Produce      json
// @Success      200  {array}  dto.TierDTO
// @Router       /tiers [get]
func ListTiersHandler(svc *services.YouTubeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, svc.Tiers())
	}
}

// abortWithServiceError 는 서비스 에러를 HTTP 상태 코드로 매핑한다. 메시지는 그대로 전달한다.
func abortWithServiceError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	var upstreamErr *youtubeclient.UpstreamError
	var genErr *summarizer.GenerationError
	switch {
	case errors.Is(err, services.ErrVideoNotFound), errors.Is(err, services.ErrAnalysisNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrIngestionIncomplete):
		status = http.StatusConflict
	case errors.Is(err, services.ErrQuotaExceeded):
		status = http.StatusTooManyRequests
	case errors.As(err, &upstreamErr):
		logger.ErrorWithFields("upstream error", logger.Fields{"op": upstreamErr.Op, "error": err.Error(), "path": c.FullPath()})
	case errors.As(err, &genErr):
		logger.ErrorWithFields("generation error", logger.Fields{"error": err.Error(), "path": c.FullPath()})
	default:
		logger.ErrorWithFields("request failed", logger.Fields{"error": err.Error(), "path": c.FullPath()})
	}
	c.AbortWithStatusJSON(status, dto.ErrorResponseDTO{Message: err.Error()})
}

func abortWithBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponseDTO{Message: "Invalid request: " + err.Error()})
		return
	}

	fields := make([]dto.FieldErrorDTO, 0, len(verrs))
	for _, fe := range verrs {
		reason := fe.Tag()
		if fe.Param() != "" {
			reason += "=" + fe.Param()
		}
		fields = append(fields, dto.FieldErrorDTO{Field: fe.Field(), Reason: reason})
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponseDTO{
		Message: "Invalid request: " + strconv.Itoa(len(fields)) + " field(s) failed validation",
		Errors:  fields,
	})
}
