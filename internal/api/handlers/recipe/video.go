package recipe

import (
	"net/http"

	"recipe-catalog/internal/core/video"
	"recipe-catalog/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VideoResolveRequest 影片連結解析請求
type VideoResolveRequest struct {
	URL string `json:"url" binding:"required"`
}

// VideoResolveResponse 影片連結解析結果。Resolved 為 false 時其餘欄位為空。
type VideoResolveResponse struct {
	URL          string             `json:"url"`
	Resolved     bool               `json:"resolved"`
	VideoID      string             `json:"video_id,omitempty"`
	ThumbnailURL string             `json:"thumbnail_url,omitempty"`
	EmbedURL     string             `json:"embed_url,omitempty"`
	Probe        *video.ProbeResult `json:"probe,omitempty"`
	ProbeError   string             `json:"probe_error,omitempty"`
}

// HandleResolveVideo 由影片連結推導 ID、縮圖與嵌入網址。
// 無法辨識的連結不是錯誤，只回傳 resolved=false。
func (h *Handler) HandleResolveVideo(c *gin.Context) {
	reqID := requestID(c)

	var req VideoResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, common.NewValidationError(err.Error()))
		return
	}

	resp := VideoResolveResponse{URL: req.URL}

	id, ok := video.ExtractID(req.URL)
	if !ok {
		common.LogDebug("無法辨識影片連結",
			zap.String("request_id", reqID),
			zap.String("url", req.URL),
		)
		c.JSON(http.StatusOK, resp)
		return
	}

	resp.Resolved = true
	resp.VideoID = id
	resp.ThumbnailURL = h.resolver.DeriveThumbnail(id)
	resp.EmbedURL, _ = video.EmbedURL(req.URL)

	if h.probe != nil {
		result, err := h.probe.Verify(c.Request.Context(), id)
		if err != nil {
			common.LogWarn("縮圖探測失敗",
				zap.String("request_id", reqID),
				zap.String("video_id", id),
				zap.Error(err),
			)
			resp.ProbeError = err.Error()
		} else {
			resp.Probe = result
			resp.ThumbnailURL = result.ThumbnailURL
		}
	}

	c.JSON(http.StatusOK, resp)
}
