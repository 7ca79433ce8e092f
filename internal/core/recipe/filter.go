package recipe

import (
	"fmt"
	"sync"
)

// Predicate 判斷食譜是否符合條件
type Predicate func(Recipe) bool

// Selection 目前選取的大分類與小分類
type Selection struct {
	Category    Category    `json:"category"`
	SubCategory SubCategory `json:"sub_category"`
}

// DefaultSelection 初始選取（主食 / 麺類）
var DefaultSelection = Selection{Category: CategoryMain, SubCategory: SubCategoryNoodles}

// Matches 分類相同，且大分類為主食時小分類也必須相同
func (s Selection) Matches(r Recipe) bool {
	if r.Category != s.Category {
		return false
	}
	if s.Category == CategoryMain && r.SubCategory != s.SubCategory {
		return false
	}
	return true
}

// Predicate 將選取狀態轉成 predicate
func (s Selection) Predicate() Predicate {
	return s.Matches
}

// FilterModel 兩層分類的選取狀態。
// 切換大分類不會重設小分類，回到主食時沿用上次的選擇。
type FilterModel struct {
	mu  sync.RWMutex
	sel Selection
}

// NewFilterModel 以初始選取建立 FilterModel，無效值改用 DefaultSelection 對應欄位
func NewFilterModel(initial Selection) *FilterModel {
	if !initial.Category.Valid() {
		initial.Category = DefaultSelection.Category
	}
	if !initial.SubCategory.Valid() {
		initial.SubCategory = DefaultSelection.SubCategory
	}
	return &FilterModel{sel: initial}
}

// Selection 回傳目前的選取狀態
func (m *FilterModel) Selection() Selection {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sel
}

// SelectCategory 替換大分類，小分類維持不變
func (m *FilterModel) SelectCategory(c Category) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, c)
	}
	m.mu.Lock()
	m.sel.Category = c
	m.mu.Unlock()
	return nil
}

// SelectSubCategory 替換小分類
func (m *FilterModel) SelectSubCategory(sc SubCategory) error {
	if !sc.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidSubCategory, sc)
	}
	m.mu.Lock()
	m.sel.SubCategory = sc
	m.mu.Unlock()
	return nil
}

// SubCategoryVisible 小分類選單只在主食時顯示
func (m *FilterModel) SubCategoryVisible() bool {
	return m.Selection().Category == CategoryMain
}

// CompilePredicate 以當下的選取狀態產生 predicate，之後的選取變更不影響已產生的 predicate
func (m *FilterModel) CompilePredicate() Predicate {
	return m.Selection().Predicate()
}
