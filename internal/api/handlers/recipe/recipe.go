package recipe

import (
	"net/http"

	catalog "recipe-catalog/internal/core/recipe"
	"recipe-catalog/internal/core/video"
	"recipe-catalog/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AddRecipeResponse 新增食譜的響應
type AddRecipeResponse struct {
	Message string         `json:"message"`
	Recipe  RecipeResponse `json:"recipe"`
}

// Handler 食譜目錄處理程序
type Handler struct {
	store    *catalog.Store
	filter   *catalog.FilterModel
	resolver *video.Resolver
	probe    *video.Probe
}

// NewHandler 創建新的食譜處理程序，probe 為 nil 時不做縮圖探測
func NewHandler(store *catalog.Store, filter *catalog.FilterModel, resolver *video.Resolver, probe *video.Probe) *Handler {
	return &Handler{
		store:    store,
		filter:   filter,
		resolver: resolver,
		probe:    probe,
	}
}

// HandleCategories 回傳分類與單位的選項
func (h *Handler) HandleCategories(c *gin.Context) {
	c.JSON(http.StatusOK, catalog.AllOptions())
}

// HandleListRecipes 列出食譜；帶 category 查詢參數時依分類篩選。
// category 為主食但未指定 sub_category 時沿用目前篩選的小分類。
func (h *Handler) HandleListRecipes(c *gin.Context) {
	rawCategory := c.Query("category")
	if rawCategory == "" {
		c.JSON(http.StatusOK, newRecipeListResponse(h.store.List(), nil))
		return
	}

	category, err := catalog.ParseCategory(rawCategory)
	if err != nil {
		respondError(c, common.NewFieldError("category", err.Error()))
		return
	}

	sel := catalog.Selection{Category: category, SubCategory: h.filter.Selection().SubCategory}
	if rawSub := c.Query("sub_category"); rawSub != "" {
		sub, err := catalog.ParseSubCategory(rawSub)
		if err != nil {
			respondError(c, common.NewFieldError("sub_category", err.Error()))
			return
		}
		sel.SubCategory = sub
	}

	recipes := h.store.FilteredBy(sel.Category, sel.SubCategory)
	c.JSON(http.StatusOK, newRecipeListResponse(recipes, &sel))
}

// HandleGetRecipe 依 ID 取得食譜
func (h *Handler) HandleGetRecipe(c *gin.Context) {
	id := c.Param("id")
	r, ok := h.store.Get(id)
	if !ok {
		respondError(c, common.ErrRecipeNotFound)
		return
	}
	c.JSON(http.StatusOK, newRecipeResponse(r))
}

// HandleAddRecipe 驗證表單並新增食譜，未指定的分類沿用目前的篩選
func (h *Handler) HandleAddRecipe(c *gin.Context) {
	reqID := requestID(c)

	var form catalog.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		respondError(c, common.NewValidationError(err.Error()))
		return
	}

	draft, err := form.Draft(h.resolver)
	if err != nil {
		respondError(c, err)
		return
	}

	r := h.store.Add(draft, h.filter.Selection())

	common.LogDebug("食譜已新增",
		zap.String("request_id", reqID),
		zap.String("recipe_id", r.ID),
		zap.Int("ingredients", len(r.Ingredients)),
		zap.Int("steps", len(r.Steps)),
	)

	c.JSON(http.StatusCreated, AddRecipeResponse{
		Message: catalog.AddedMessage,
		Recipe:  newRecipeResponse(r),
	})
}
