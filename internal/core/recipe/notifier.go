package recipe

import (
	"recipe-catalog/internal/pkg/common"

	"go.uber.org/zap"
)

// AddedMessage 新增成功時顯示給使用者的訊息
const AddedMessage = "レシピを追加しました"

// Notifier 接收新增成功的通知
type Notifier interface {
	RecipeAdded(r Recipe)
}

// NopNotifier 不做任何事
type NopNotifier struct{}

// RecipeAdded implements Notifier.
func (NopNotifier) RecipeAdded(Recipe) {}

// LogNotifier 以日誌記錄新增結果
type LogNotifier struct{}

// RecipeAdded implements Notifier.
func (LogNotifier) RecipeAdded(r Recipe) {
	common.LogInfo(AddedMessage,
		zap.String("recipe_id", r.ID),
		zap.String("title", r.Title),
		zap.String("category", string(r.Category)),
		zap.String("sub_category", string(r.SubCategory)),
	)
}
