// Package client 是食譜目錄 HTTP API 的客戶端，供 recipectl 使用。
package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"recipe-catalog/internal/api/handlers/health"
	recipeHandler "recipe-catalog/internal/api/handlers/recipe"
	"recipe-catalog/internal/core/recipe"
	"recipe-catalog/internal/pkg/common"

	"github.com/go-resty/resty/v2"
)

// DefaultBaseURL 預設的 API 位址
const DefaultBaseURL = "http://localhost:8080"

// APIError 服務端回傳的錯誤
type APIError struct {
	Status   int
	Response common.ErrorResponse
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("api error %d", e.Status)
	if e.Response.Code != "" {
		msg += " " + e.Response.Code
	}
	if e.Response.Error != "" {
		msg += ": " + e.Response.Error
	}
	if e.Response.Details != "" {
		msg += " (" + e.Response.Details + ")"
	}
	return msg
}

// Client API 客戶端
type Client struct {
	http *resty.Client
}

// New 創建客戶端，baseURL 為空時使用 DefaultBaseURL
func New(baseURL string, timeout time.Duration) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json").
			SetHeader("User-Agent", "recipectl"),
	}
}

// Health 取得服務健康狀態
func (c *Client) Health(ctx context.Context) (*health.HealthResponse, error) {
	return do[health.HealthResponse](ctx, c, http.MethodGet, "/health", nil, nil)
}

// Categories 取得分類與單位選項
func (c *Client) Categories(ctx context.Context) (*recipe.Options, error) {
	return do[recipe.Options](ctx, c, http.MethodGet, "/api/v1/categories", nil, nil)
}

// ListRecipes 列出食譜，category 為空時列出全部
func (c *Client) ListRecipes(ctx context.Context, category, subCategory string) (*recipeHandler.RecipeListResponse, error) {
	query := map[string]string{}
	if category != "" {
		query["category"] = category
	}
	if subCategory != "" {
		query["sub_category"] = subCategory
	}
	return do[recipeHandler.RecipeListResponse](ctx, c, http.MethodGet, "/api/v1/recipes", nil, query)
}

// GetRecipe 依 ID 取得食譜
func (c *Client) GetRecipe(ctx context.Context, id string) (*recipeHandler.RecipeResponse, error) {
	return do[recipeHandler.RecipeResponse](ctx, c, http.MethodGet, "/api/v1/recipes/{id}", nil, nil, pathParam("id", id))
}

// AddRecipe 新增食譜
func (c *Client) AddRecipe(ctx context.Context, form recipe.Form) (*recipeHandler.AddRecipeResponse, error) {
	return do[recipeHandler.AddRecipeResponse](ctx, c, http.MethodPost, "/api/v1/recipes", form, nil)
}

// Filter 取得目前的篩選狀態
func (c *Client) Filter(ctx context.Context) (*recipeHandler.FilterResponse, error) {
	return do[recipeHandler.FilterResponse](ctx, c, http.MethodGet, "/api/v1/filter", nil, nil)
}

// SetFilter 更新篩選狀態
func (c *Client) SetFilter(ctx context.Context, req recipeHandler.FilterRequest) (*recipeHandler.FilterResponse, error) {
	return do[recipeHandler.FilterResponse](ctx, c, http.MethodPut, "/api/v1/filter", req, nil)
}

// FilteredRecipes 以目前篩選狀態列出食譜
func (c *Client) FilteredRecipes(ctx context.Context) (*recipeHandler.RecipeListResponse, error) {
	return do[recipeHandler.RecipeListResponse](ctx, c, http.MethodGet, "/api/v1/filter/recipes", nil, nil)
}

// ResolveVideo 解析影片連結
func (c *Client) ResolveVideo(ctx context.Context, url string) (*recipeHandler.VideoResolveResponse, error) {
	body := recipeHandler.VideoResolveRequest{URL: url}
	return do[recipeHandler.VideoResolveResponse](ctx, c, http.MethodPost, "/api/v1/video/resolve", body, nil)
}

type requestOption func(*resty.Request)

func pathParam(key, value string) requestOption {
	return func(r *resty.Request) {
		r.SetPathParam(key, value)
	}
}

func do[T any](ctx context.Context, c *Client, method, path string, body interface{}, query map[string]string, opts ...requestOption) (*T, error) {
	var (
		out    T
		apiErr common.ErrorResponse
	)

	req := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&apiErr)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	for _, opt := range opts {
		opt(req)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		return nil, &APIError{Status: resp.StatusCode(), Response: apiErr}
	}
	return &out, nil
}
