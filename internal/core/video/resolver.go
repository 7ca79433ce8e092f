// Package video 從各種影片連結格式中取出影片 ID，並推導縮圖與嵌入網址。
package video

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf16"
)

const (
	// DefaultThumbnailHost 預設縮圖主機
	DefaultThumbnailHost = "https://img.youtube.com"
	// EmbedHost 嵌入播放器主機
	EmbedHost = "https://www.youtube.com"

	// IDLength 平台影片 ID 的固定長度（僅 fallback 規則檢查，以字元計）
	IDLength = 11

	maxResSuffix = "maxresdefault.jpg"
	hqSuffix     = "hqdefault.jpg"
)

var (
	// 標準格式：watch?v=、youtu.be/、embed/
	standardPattern = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([^&?/]+)`)

	// 其他格式，只接受長度為 11 的結果
	fallbackPattern = regexp.MustCompile(`^.*(youtu.be/|v/|u/\w/|embed/|watch\?v=|&v=)([^#&?]*).*`)
)

// ExtractID 取出影片 ID。
// 兩段比對依固定順序進行：標準格式不檢查長度，fallback 格式必須剛好 11 字元。
// 無法辨識時回傳 ("", false)，不會回傳錯誤。
func ExtractID(url string) (string, bool) {
	if url == "" {
		return "", false
	}

	if m := standardPattern.FindStringSubmatch(url); m != nil {
		return m[1], true
	}

	// TODO: 標準格式缺少長度檢查是否為刻意設計尚未確認，目前保留原行為
	if m := fallbackPattern.FindStringSubmatch(url); m != nil && charLen(m[2]) == IDLength {
		return m[2], true
	}

	return "", false
}

// charLen 以 UTF-16 code unit 計算長度，與瀏覽器端字串長度一致
func charLen(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// DeriveThumbnail 由影片 ID 組出最高解析度縮圖網址（不做網路驗證）
func DeriveThumbnail(id string) string {
	return defaultResolver.DeriveThumbnail(id)
}

// ResolveThumbnail 先取出 ID 再組出縮圖網址
func ResolveThumbnail(url string) (string, bool) {
	return defaultResolver.ResolveThumbnail(url)
}

// EmbedURL 回傳可嵌入播放器的網址
func EmbedURL(url string) (string, bool) {
	id, ok := ExtractID(url)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%s/embed/%s", EmbedHost, id), true
}

// Resolver 可指定縮圖主機的解析器
type Resolver struct {
	thumbnailHost string
}

var defaultResolver = NewResolver(DefaultThumbnailHost)

// NewResolver 創建解析器，host 為空時使用預設主機
func NewResolver(host string) *Resolver {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if host == "" {
		host = DefaultThumbnailHost
	}
	return &Resolver{thumbnailHost: host}
}

// ThumbnailHost 回傳縮圖主機
func (r *Resolver) ThumbnailHost() string {
	return r.thumbnailHost
}

// DeriveThumbnail 組出 maxresdefault 縮圖網址
func (r *Resolver) DeriveThumbnail(id string) string {
	return r.thumbnailURL(id, maxResSuffix)
}

// fallbackThumbnail 組出一定存在的 hqdefault 縮圖網址
func (r *Resolver) fallbackThumbnail(id string) string {
	return r.thumbnailURL(id, hqSuffix)
}

func (r *Resolver) thumbnailURL(id, suffix string) string {
	return fmt.Sprintf("%s/vi/%s/%s", r.thumbnailHost, id, suffix)
}

// ResolveThumbnail 先取出 ID 再組出縮圖網址
func (r *Resolver) ResolveThumbnail(url string) (string, bool) {
	id, ok := ExtractID(url)
	if !ok {
		return "", false
	}
	return r.DeriveThumbnail(id), true
}
