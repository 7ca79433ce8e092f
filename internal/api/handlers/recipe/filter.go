package recipe

import (
	"net/http"

	catalog "recipe-catalog/internal/core/recipe"
	"recipe-catalog/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FilterRequest 更新篩選條件，空字串表示不變更
type FilterRequest struct {
	Category    string `json:"category,omitempty"`
	SubCategory string `json:"sub_category,omitempty"`
}

// FilterResponse 目前的篩選狀態
type FilterResponse struct {
	catalog.Selection
	SubCategoryVisible bool   `json:"sub_category_visible"`
	CategoryLabel      string `json:"category_label"`
	SubCategoryLabel   string `json:"sub_category_label"`
}

func (h *Handler) filterResponse() FilterResponse {
	sel := h.filter.Selection()
	return FilterResponse{
		Selection:          sel,
		SubCategoryVisible: sel.Category == catalog.CategoryMain,
		CategoryLabel:      sel.Category.Label(),
		SubCategoryLabel:   sel.SubCategory.Label(),
	}
}

// HandleGetFilter 回傳目前的篩選狀態
func (h *Handler) HandleGetFilter(c *gin.Context) {
	c.JSON(http.StatusOK, h.filterResponse())
}

// HandleUpdateFilter 切換大分類及／或小分類。
// 兩者都驗證通過後才套用，任一無效時狀態不變。
func (h *Handler) HandleUpdateFilter(c *gin.Context) {
	var req FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, common.NewValidationError(err.Error()))
		return
	}
	if req.Category == "" && req.SubCategory == "" {
		respondError(c, common.NewValidationError("category or sub_category is required"))
		return
	}

	var (
		category catalog.Category
		sub      catalog.SubCategory
		err      error
	)
	if req.Category != "" {
		if category, err = catalog.ParseCategory(req.Category); err != nil {
			respondError(c, common.NewFieldError("category", err.Error()))
			return
		}
	}
	if req.SubCategory != "" {
		if sub, err = catalog.ParseSubCategory(req.SubCategory); err != nil {
			respondError(c, common.NewFieldError("sub_category", err.Error()))
			return
		}
	}

	if category != "" {
		if err := h.filter.SelectCategory(category); err != nil {
			respondError(c, err)
			return
		}
	}
	if sub != "" {
		if err := h.filter.SelectSubCategory(sub); err != nil {
			respondError(c, err)
			return
		}
	}

	resp := h.filterResponse()
	common.LogDebug("篩選條件已更新",
		zap.String("request_id", requestID(c)),
		zap.String("category", string(resp.Category)),
		zap.String("sub_category", string(resp.SubCategory)),
	)
	c.JSON(http.StatusOK, resp)
}

// HandleFilteredRecipes 以目前篩選條件列出食譜
func (h *Handler) HandleFilteredRecipes(c *gin.Context) {
	pred := h.filter.CompilePredicate()
	sel := h.filter.Selection()
	c.JSON(http.StatusOK, newRecipeListResponse(h.store.Filter(pred), &sel))
}
