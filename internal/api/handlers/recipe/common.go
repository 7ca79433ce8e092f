package recipe

import (
	"errors"
	"net/http"

	catalog "recipe-catalog/internal/core/recipe"
	"recipe-catalog/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecipeResponse 食譜與顯示用欄位
type RecipeResponse struct {
	catalog.Recipe
	DisplayImage     string `json:"display_image"`
	EmbedURL         string `json:"embed_url,omitempty"`
	CategoryLabel    string `json:"category_label"`
	SubCategoryLabel string `json:"sub_category_label,omitempty"`
}

// RecipeListResponse 食譜列表
type RecipeListResponse struct {
	Recipes []RecipeResponse   `json:"recipes"`
	Count   int                `json:"count"`
	Filter  *catalog.Selection `json:"filter,omitempty"`
}

func newRecipeResponse(r catalog.Recipe) RecipeResponse {
	resp := RecipeResponse{
		Recipe:           r,
		DisplayImage:     r.DisplayImage(),
		CategoryLabel:    r.Category.Label(),
		SubCategoryLabel: r.SubCategory.Label(),
	}
	if embed, ok := r.EmbedURL(); ok {
		resp.EmbedURL = embed
	}
	return resp
}

func newRecipeListResponse(recipes []catalog.Recipe, filter *catalog.Selection) RecipeListResponse {
	out := RecipeListResponse{
		Recipes: make([]RecipeResponse, 0, len(recipes)),
		Count:   len(recipes),
		Filter:  filter,
	}
	for _, r := range recipes {
		out.Recipes = append(out.Recipes, newRecipeResponse(r))
	}
	return out
}

// requestID 取得 requestid 中間件產生的請求 ID
func requestID(c *gin.Context) string {
	if id := requestid.Get(c); id != "" {
		return id
	}
	return c.GetHeader("X-Request-ID")
}

// respondError 將錯誤轉成統一的 JSON 錯誤響應
func respondError(c *gin.Context, err error) {
	var customErr *common.CustomError
	switch {
	case common.IsValidationError(err),
		errors.Is(err, catalog.ErrInvalidCategory),
		errors.Is(err, catalog.ErrInvalidSubCategory),
		errors.Is(err, catalog.ErrInvalidUnit):
		customErr = common.ErrInvalidRequest.Wrap(err)
	case errors.As(err, &customErr):
	default:
		customErr = common.ErrInternalError.Wrap(err)
	}

	// 5xx 不對外暴露內部錯誤
	details := ""
	if customErr.Err != nil && customErr.Status < http.StatusInternalServerError {
		details = customErr.Err.Error()
	}

	fields := []zap.Field{
		zap.Error(err),
		zap.Int("status", customErr.Status),
		zap.String("request_id", requestID(c)),
		zap.String("path", c.Request.URL.Path),
	}
	if customErr.Status >= http.StatusInternalServerError {
		common.LogError("請求處理失敗", fields...)
	} else {
		common.LogWarn("請求無效", fields...)
	}

	c.AbortWithStatusJSON(customErr.Status, customErr.Response(details))
}
