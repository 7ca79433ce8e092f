package common

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// IsBlank 判斷字串去除空白後是否為空
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
