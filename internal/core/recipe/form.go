package recipe

import (
	"strings"

	"recipe-catalog/internal/core/video"
	"recipe-catalog/internal/pkg/common"
)

// IngredientInput 表單上的一列材料
type IngredientInput struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
}

// Form 新增食譜表單
type Form struct {
	Title       string            `json:"title" binding:"required"`
	Image       string            `json:"image,omitempty"`
	Ingredients []IngredientInput `json:"ingredients,omitempty"`
	Steps       []string          `json:"steps,omitempty"`
	Notes       string            `json:"notes,omitempty"`
	VideoLink   string            `json:"video_link,omitempty"`
	Category    string            `json:"category,omitempty"`
	SubCategory string            `json:"sub_category,omitempty"`
}

// ThumbnailResolver 由影片連結推導縮圖
type ThumbnailResolver interface {
	ResolveThumbnail(url string) (string, bool)
}

// Draft 驗證表單並轉成 Draft：
// 標題不可空白，去除名稱空白的材料與空白步驟，
// 影片連結可辨識時把縮圖寫入 Image 與 ThumbnailURL。
func (f Form) Draft(resolver ThumbnailResolver) (Draft, error) {
	title := strings.TrimSpace(f.Title)
	if title == "" {
		return Draft{}, common.NewFieldError("title", "must not be empty")
	}

	d := Draft{
		Title:     title,
		Image:     strings.TrimSpace(f.Image),
		Notes:     f.Notes,
		VideoLink: strings.TrimSpace(f.VideoLink),
	}

	if f.Category != "" {
		c, err := ParseCategory(f.Category)
		if err != nil {
			return Draft{}, common.NewFieldError("category", err.Error())
		}
		d.Category = c
	}

	// 表單只在主食時送出小分類
	if f.SubCategory != "" && (d.Category == "" || d.Category == CategoryMain) {
		sc, err := ParseSubCategory(f.SubCategory)
		if err != nil {
			return Draft{}, common.NewFieldError("sub_category", err.Error())
		}
		d.SubCategory = sc
	}

	d.Ingredients = make([]Ingredient, 0, len(f.Ingredients))
	for _, in := range f.Ingredients {
		if common.IsBlank(in.Name) {
			continue
		}
		unit, err := ParseUnit(in.Unit)
		if err != nil {
			return Draft{}, common.NewFieldError("ingredients.unit", err.Error())
		}
		d.Ingredients = append(d.Ingredients, Ingredient{
			Name:   strings.TrimSpace(in.Name),
			Amount: strings.TrimSpace(in.Amount),
			Unit:   unit,
		})
	}

	d.Steps = make([]string, 0, len(f.Steps))
	for _, step := range f.Steps {
		if common.IsBlank(step) {
			continue
		}
		d.Steps = append(d.Steps, step)
	}

	if d.VideoLink != "" && resolver != nil {
		if thumb, ok := resolver.ResolveThumbnail(d.VideoLink); ok {
			d.Image = thumb
			d.ThumbnailURL = thumb
		}
	}

	return d, nil
}

var _ ThumbnailResolver = (*video.Resolver)(nil)
