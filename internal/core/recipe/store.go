// Package recipe 提供食譜目錄的資料模型、記憶體內 store 與分類篩選狀態。
package recipe

import (
	"sync"
	"time"

	"recipe-catalog/internal/pkg/common"
)

// Store 記憶體內的食譜集合，依新增順序保存。可並行使用。
type Store struct {
	mu       sync.RWMutex
	recipes  []Recipe
	index    map[string]int
	newID    func() string
	now      func() time.Time
	notifier Notifier
}

// Option 設定 Store
type Option func(*Store)

// WithIDGenerator 替換 ID 產生器
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

// WithClock 替換時間來源
func WithClock(fn func() time.Time) Option {
	return func(s *Store) {
		s.now = fn
	}
}

// WithNotifier 設定新增成功時的通知對象
func WithNotifier(n Notifier) Option {
	return func(s *Store) {
		s.notifier = n
	}
}

// NewStore 創建空的 store
func NewStore(opts ...Option) *Store {
	s := &Store{
		index:    make(map[string]int),
		newID:    common.GenerateUUID,
		now:      time.Now,
		notifier: NopNotifier{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add 以 draft 建立完整的食譜並附加到尾端。
// 未指定分類時使用 active 的分類；小分類只在最終分類為主食時保留，
// 其餘情況一律清空。空白材料與步驟的過濾由呼叫端負責。
func (s *Store) Add(draft Draft, active Selection) Recipe {
	category := draft.Category
	if category == "" {
		category = active.Category
	}

	var sub SubCategory
	if category == CategoryMain {
		sub = draft.SubCategory
		if sub == "" {
			sub = active.SubCategory
		}
	}

	ingredients := draft.Ingredients
	if ingredients == nil {
		ingredients = []Ingredient{}
	}
	steps := draft.Steps
	if steps == nil {
		steps = []string{}
	}

	s.mu.Lock()
	now := s.now()
	id := s.newID()
	for _, exists := s.index[id]; exists; _, exists = s.index[id] {
		id = s.newID()
	}

	r := Recipe{
		ID:           id,
		Title:        draft.Title,
		Image:        draft.Image,
		Ingredients:  ingredients,
		Steps:        steps,
		Notes:        draft.Notes,
		Category:     category,
		SubCategory:  sub,
		VideoLink:    draft.VideoLink,
		ThumbnailURL: draft.ThumbnailURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}.clone()

	s.index[r.ID] = len(s.recipes)
	s.recipes = append(s.recipes, r)
	s.mu.Unlock()

	s.notifier.RecipeAdded(r)
	return r.clone()
}

// List 依新增順序回傳所有食譜
func (s *Store) List() []Recipe {
	return s.Filter(nil)
}

// FilteredBy 回傳符合分類的食譜；分類不是主食時忽略 sub
func (s *Store) FilteredBy(category Category, sub SubCategory) []Recipe {
	return s.Filter(Selection{Category: category, SubCategory: sub}.Predicate())
}

// Filter 依 predicate 篩選，保持新增順序；predicate 為 nil 時回傳全部
func (s *Store) Filter(pred Predicate) []Recipe {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Recipe, 0, len(s.recipes))
	for _, r := range s.recipes {
		if pred == nil || pred(r) {
			out = append(out, r.clone())
		}
	}
	return out
}

// Get 依 ID 取得食譜
func (s *Store) Get(id string) (Recipe, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return Recipe{}, false
	}
	return s.recipes[i].clone(), true
}

// Len 目前的食譜數量
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.recipes)
}
