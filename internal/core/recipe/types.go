package recipe

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"recipe-catalog/internal/core/video"
)

var (
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInvalidSubCategory = errors.New("invalid sub category")
	ErrInvalidUnit        = errors.New("invalid unit")
)

// Category 大分類
type Category string

const (
	CategoryMain  Category = "main"
	CategorySide  Category = "side"
	CategorySoup  Category = "soup"
	CategoryOther Category = "other"
)

// Categories 依顯示順序排列的所有大分類
var Categories = []Category{CategoryMain, CategorySide, CategorySoup, CategoryOther}

// Valid 是否為已定義的大分類
func (c Category) Valid() bool {
	switch c {
	case CategoryMain, CategorySide, CategorySoup, CategoryOther:
		return true
	}
	return false
}

// ParseCategory 解析大分類字串
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}

// SubCategory 主食底下的小分類
type SubCategory string

const (
	SubCategoryNoodles SubCategory = "noodles"
	SubCategoryRice    SubCategory = "rice"
	SubCategoryDonburi SubCategory = "donburi"
	SubCategoryMeat    SubCategory = "meat"
	SubCategoryFish    SubCategory = "fish"
	SubCategoryOther   SubCategory = "other"
)

// SubCategories 依顯示順序排列的所有小分類
var SubCategories = []SubCategory{
	SubCategoryNoodles,
	SubCategoryRice,
	SubCategoryDonburi,
	SubCategoryMeat,
	SubCategoryFish,
	SubCategoryOther,
}

// Valid 是否為已定義的小分類
func (s SubCategory) Valid() bool {
	switch s {
	case SubCategoryNoodles, SubCategoryRice, SubCategoryDonburi, SubCategoryMeat, SubCategoryFish, SubCategoryOther:
		return true
	}
	return false
}

// ParseSubCategory 解析小分類字串
func ParseSubCategory(s string) (SubCategory, error) {
	sc := SubCategory(strings.ToLower(strings.TrimSpace(s)))
	if !sc.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSubCategory, s)
	}
	return sc, nil
}

// Unit 材料單位
type Unit string

const (
	UnitSmall       Unit = "small"
	UnitLarge       Unit = "large"
	UnitGram        Unit = "gram"
	UnitLiter       Unit = "liter"
	UnitPinch       Unit = "pinch"
	UnitPiece       Unit = "piece"
	UnitAppropriate Unit = "appropriate"
	UnitNone        Unit = "none"
)

// Units 依顯示順序排列的所有單位
var Units = []Unit{UnitSmall, UnitLarge, UnitGram, UnitLiter, UnitPinch, UnitPiece, UnitAppropriate, UnitNone}

// Valid 是否為已定義的單位
func (u Unit) Valid() bool {
	switch u {
	case UnitSmall, UnitLarge, UnitGram, UnitLiter, UnitPinch, UnitPiece, UnitAppropriate, UnitNone:
		return true
	}
	return false
}

// ParseUnit 解析單位字串，空字串視為「適量」
func ParseUnit(s string) (Unit, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return UnitAppropriate, nil
	}
	u := Unit(s)
	if !u.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidUnit, s)
	}
	return u, nil
}

// Ingredient 材料
type Ingredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
	Unit   Unit   `json:"unit"`
}

// Label 組出 "名稱 份量 單位" 的顯示字串，沒有份量時只顯示名稱
func (i Ingredient) Label() string {
	if i.Amount == "" {
		return i.Name
	}
	label := i.Name + " " + i.Amount
	if unit := i.Unit.Label(); unit != "" {
		label += " " + unit
	}
	return label
}

// Recipe 食譜
type Recipe struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Image        string       `json:"image"`
	Ingredients  []Ingredient `json:"ingredients"`
	Steps        []string     `json:"steps"`
	Notes        string       `json:"notes,omitempty"`
	Category     Category     `json:"category"`
	SubCategory  SubCategory  `json:"sub_category,omitempty"`
	VideoLink    string       `json:"video_link,omitempty"`
	ThumbnailURL string       `json:"thumbnail_url,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// DisplayImage 優先使用影片縮圖，其次為圖片網址
func (r Recipe) DisplayImage() string {
	if r.ThumbnailURL != "" {
		return r.ThumbnailURL
	}
	return r.Image
}

// EmbedURL 回傳參考影片的嵌入網址
func (r Recipe) EmbedURL() (string, bool) {
	if r.VideoLink == "" {
		return "", false
	}
	return video.EmbedURL(r.VideoLink)
}

// clone 深拷貝切片，避免呼叫者修改 store 內部狀態
func (r Recipe) clone() Recipe {
	out := r
	out.Ingredients = append(make([]Ingredient, 0, len(r.Ingredients)), r.Ingredients...)
	out.Steps = append(make([]string, 0, len(r.Steps)), r.Steps...)
	return out
}

// Draft 新增食譜時的部分欄位，未設定的欄位由 store 補上預設值
type Draft struct {
	Title        string
	Image        string
	Ingredients  []Ingredient
	Steps        []string
	Notes        string
	VideoLink    string
	ThumbnailURL string
	Category     Category
	SubCategory  SubCategory
}
