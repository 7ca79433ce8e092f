package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"recipe-catalog/internal/api/handlers/health"
	recipeHandler "recipe-catalog/internal/api/handlers/recipe"
	"recipe-catalog/internal/core/recipe"
	"recipe-catalog/internal/core/video"
	"recipe-catalog/internal/infrastructure/config"
	"recipe-catalog/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "recipe-catalog", Version: "test", Debug: true},
		Server: config.ServerConfig{
			Port:           8080,
			RequestTimeout: 5 * time.Second,
			MaxBodyBytes:   1 << 20,
		},
		Catalog: config.CatalogConfig{
			Seed:               true,
			DefaultCategory:    "main",
			DefaultSubCategory: "noodles",
		},
		Video:       config.VideoConfig{ThumbnailHost: video.DefaultThumbnailHost},
		DedupWindow: time.Second,
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) (*gin.Engine, *Services) {
	t.Helper()
	svc, err := NewServices(cfg, nil, nil)
	if err != nil {
		t.Fatalf("NewServices: %v", err)
	}
	router, err := SetupRouter(cfg, svc)
	if err != nil {
		t.Fatalf("SetupRouter: %v", err)
	}
	return router, svc
}

func doRequest(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d, body = %s", w.Code, want, w.Body.String())
	}
}

func TestHealthEndpoints(t *testing.T) {
	router, _ := newTestRouter(t, testConfig())

	w := doRequest(t, router, http.MethodGet, "/health", nil)
	expectStatus(t, w, http.StatusOK)
	resp := decode[health.HealthResponse](t, w)
	if resp.Status != "ok" || resp.Version != "test" {
		t.Fatalf("health = %+v", resp)
	}
	if resp.Catalog.Recipes != 4 || resp.Catalog.Filter != recipe.DefaultSelection {
		t.Fatalf("catalog = %+v", resp.Catalog)
	}

	expectStatus(t, doRequest(t, router, http.MethodGet, "/ready", nil), http.StatusOK)
	expectStatus(t, doRequest(t, router, http.MethodGet, "/live", nil), http.StatusOK)
}

func TestRequestIDHeader(t *testing.T) {
	router, _ := newTestRouter(t, testConfig())
	w := doRequest(t, router, http.MethodGet, "/live", nil)
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected X-Request-ID response header")
	}
}

func TestCategories(t *testing.T) {
	router, _ := newTestRouter(t, testConfig())

	w := doRequest(t, router, http.MethodGet, "/api/v1/categories", nil)
	expectStatus(t, w, http.StatusOK)
	opts := decode[recipe.Options](t, w)
	if len(opts.Categories) != 4 || opts.Categories[0].Label != "主食" {
		t.Fatalf("categories = %+v", opts.Categories)
	}
	if opts.Units[len(opts.Units)-1].Label != "単位なし" {
		t.Fatalf("units = %+v", opts.Units)
	}
}

func TestListRecipes(t *testing.T) {
	router, _ := newTestRouter(t, testConfig())

	tests := []struct {
		name   string
		query  string
		titles []string
	}{
		{"all", "", []string{"醤油ラーメン", "親子丼", "ほうれん草のお浸し", "味噌汁"}},
		{"main noodles", "?category=main&sub_category=noodles", []string{"醤油ラーメン"}},
		{"main donburi", "?category=main&sub_category=donburi", []string{"親子丼"}},
		{"main uses current filter sub category", "?category=main", []string{"醤油ラーメン"}},
		{"side ignores sub category", "?category=side&sub_category=fish", []string{"ほうれん草のお浸し"}},
		{"other is empty", "?category=other", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, router, http.MethodGet, "/api/v1/recipes"+tt.query, nil)
			expectStatus(t, w, http.StatusOK)
			resp := decode[recipeHandler.RecipeListResponse](t, w)
			if resp.Count != len(tt.titles) || len(resp.Recipes) != len(tt.titles) {
				t.Fatalf("got %d recipes, want %d", resp.Count, len(tt.titles))
			}
			for i, title := range tt.titles {
				if resp.Recipes[i].Title != title {
					t.Fatalf("recipe %d = %q, want %q", i, resp.Recipes[i].Title, title)
				}
			}
		})
	}
}

func TestListRecipesInvalidQuery(t *testing.T) {
	router, _ := newTestRouter(t, testConfig())

	for _, q := range []string{"?category=dessert", "?category=main&sub_category=pasta"} {
		w := doRequest(t, router, http.MethodGet, "/api/v1/recipes"+q, nil)
		expectStatus(t, w, http.StatusBadRequest)
		if resp := decode[common.ErrorResponse](t, w); resp.Code != common.ErrCodeInvalidRequest {
			t.Fatalf("code = %s", resp.Code)
		}
	}
}

func TestGetRecipe(t *testing.T) {
	router, svc := newTestRouter(t, testConfig())
	first := svc.Store.List()[0]

	w := doRequest(t, router, http.MethodGet, "/api/v1/recipes/"+first.ID, nil)
	expectStatus(t, w, http.StatusOK)
	resp := decode[recipeHandler.RecipeResponse](t, w)
	if resp.ID != first.ID || resp.CategoryLabel != "主食" || resp.SubCategoryLabel != "麺類" {
		t.Fatalf("recipe = %+v", resp)
	}
	if resp.DisplayImage != first.Image {
		t.Fatalf("display image = %q", resp.DisplayImage)
	}

	w = doRequest(t, router, http.MethodGet, "/api/v1/recipes/missing", nil)
	expectStatus(t, w, http.StatusNotFound)
	if resp := decode[common.ErrorResponse](t, w); resp.Code != "RECIPE_NOT_FOUND" {
		t.Fatalf("code = %s", resp.Code)
	}
}

func TestAddRecipeDefaultsFromFilter(t *testing.T) {
	router, svc := newTestRouter(t, testConfig())

	w := doRequest(t, router, http.MethodPost, "/api/v1/recipes", recipe.Form{
		Title: "つけ麺",
		Ingredients: []recipe.IngredientInput{
			{Name: "中華麺", Amount: "1"},
			{Name: " "},
		},
		Steps: []string{"麺を茹でる", ""},
	})
	expectStatus(t, w, http.StatusCreated)

	resp := decode[recipeHandler.AddRecipeResponse](t, w)
	if resp.Message != "レシピを追加しました" {
		t.Fatalf("message = %q", resp.Message)
	}
	r := resp.Recipe
	if r.Category != recipe.CategoryMain || r.SubCategory != recipe.SubCategoryNoodles {
		t.Fatalf("category = %s/%s", r.Category, r.SubCategory)
	}
	if len(r.Ingredients) != 1 || r.Ingredients[0].Unit != recipe.UnitAppropriate || len(r.Steps) != 1 {
		t.Fatalf("recipe = %+v", r)
	}
	if svc.Store.Len() != 5 {
		t.Fatalf("store has %d recipes", svc.Store.Len())
	}

	w = doRequest(t, router, http.MethodGet, "/api/v1/filter/recipes", nil)
	expectStatus(t, w, http.StatusOK)
	list := decode[recipeHandler.RecipeListResponse](t, w)
	if list.Count != 2 || list.Recipes[1].ID != r.ID {
		t.Fatalf("filtered recipes = %+v", list.Recipes)
	}
}

func TestAddRecipeWithVideoLink(t *testing.T) {
	router, _ := newTestRouter(t, testConfig())

	w := doRequest(t, router, http.MethodPost, "/api/v1/recipes", map[string]interface{}{
		"title":      "担々麺",
		"image":      "https://example.com/tantan.jpg",
		"video_link": "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=10s",
	})
	expectStatus(t, w, http.StatusCreated)

	r := decode[recipeHandler.AddRecipeResponse](t, w).Recipe
	want := "https://img.youtube.com/vi/dQw4w9WgXcQ/maxresdefault.jpg"
	if r.ThumbnailURL != want || r.Image != want || r.DisplayImage != want {
		t.Fatalf("image = %q thumbnail = %q display = %q", r.Image, r.ThumbnailURL, r.DisplayImage)
	}
	if r.EmbedURL != "https://www.youtube.com/embed/dQw4w9WgXcQ" {
		t.Fatalf("embed = %q", r.EmbedURL)
	}
}

func TestAddRecipeValidation(t *testing.T) {
	router, svc := newTestRouter(t, testConfig())

	tests := []struct {
		name string
		body interface{}
	}{
		{"missing title", map[string]string{"notes": "x"}},
		{"blank title", map[string]string{"title": "   "}},
		{"invalid category", map[string]string{"title": "x", "category": "dessert"}},
		{"invalid unit", map[string]interface{}{
			"title":       "x",
			"ingredients": []map[string]string{{"name": "salt", "unit": "cup"}},
		}},
		{"malformed json", `{"title": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, router, http.MethodPost, "/api/v1/recipes", tt.body)
			expectStatus(t, w, http.StatusBadRequest)
			if resp := decode[common.ErrorResponse](t, w); resp.Code != common.ErrCodeInvalidRequest {
				t.Fatalf("code = %s", resp.Code)
			}
		})
	}

	if svc.Store.Len() != 4 {
		t.Fatalf("invalid requests should not add recipes, store has %d", svc.Store.Len())
	}
}

func TestFilterRetainsSubCategory(t *testing.T) {
	router, _ := newTestRouter(t, testConfig())

	w := doRequest(t, router, http.MethodPut, "/api/v1/filter", recipeHandler.FilterRequest{Category: "side"})
	expectStatus(t, w, http.StatusOK)
	f := decode[recipeHandler.FilterResponse](t, w)
	if f.Category != recipe.CategorySide || f.SubCategory != recipe.SubCategoryNoodles || f.SubCategoryVisible {
		t.Fatalf("filter = %+v", f)
	}

	w = doRequest(t, router, http.MethodGet, "/api/v1/filter/recipes", nil)
	list := decode[recipeHandler.RecipeListResponse](t, w)
	if list.Count != 1 || list.Recipes[0].Title != "ほうれん草のお浸し" {
		t.Fatalf("side recipes = %+v", list.Recipes)
	}

	w = doRequest(t, router, http.MethodPut, "/api/v1/filter", recipeHandler.FilterRequest{Category: "main"})
	f = decode[recipeHandler.FilterResponse](t, w)
	if f.SubCategory != recipe.SubCategoryNoodles || !f.SubCategoryVisible || f.SubCategoryLabel != "麺類" {
		t.Fatalf("filter = %+v", f)
	}

	w = doRequest(t, router, http.MethodPut, "/api/v1/filter", recipeHandler.FilterRequest{SubCategory: "donburi"})
	expectStatus(t, w, http.StatusOK)
	w = doRequest(t, router, http.MethodGet, "/api/v1/filter/recipes", nil)
	list = decode[recipeHandler.RecipeListResponse](t, w)
	if list.Count != 1 || list.Recipes[0].Title != "親子丼" {
		t.Fatalf("donburi recipes = %+v", list.Recipes)
	}
}

func TestFilterRejectsInvalidValues(t *testing.T) {
	router, svc := newTestRouter(t, testConfig())

	for _, body := range []recipeHandler.FilterRequest{
		{},
		{Category: "dessert"},
		{Category: "side", SubCategory: "pasta"},
	} {
		w := doRequest(t, router, http.MethodPut, "/api/v1/filter", body)
		expectStatus(t, w, http.StatusBadRequest)
	}

	if got := svc.Filter.Selection(); got != recipe.DefaultSelection {
		t.Fatalf("selection changed to %+v", got)
	}
}

func TestAddRecipeUnderNonMainFilter(t *testing.T) {
	router, _ := newTestRouter(t, testConfig())

	expectStatus(t, doRequest(t, router, http.MethodPut, "/api/v1/filter", recipeHandler.FilterRequest{Category: "soup"}), http.StatusOK)

	w := doRequest(t, router, http.MethodPost, "/api/v1/recipes", map[string]string{
		"title":        "けんちん汁",
		"sub_category": "rice",
	})
	expectStatus(t, w, http.StatusCreated)
	r := decode[recipeHandler.AddRecipeResponse](t, w).Recipe
	if r.Category != recipe.CategorySoup || r.SubCategory != "" {
		t.Fatalf("category = %s/%q", r.Category, r.SubCategory)
	}
}

func TestResolveVideo(t *testing.T) {
	router, _ := newTestRouter(t, testConfig())

	w := doRequest(t, router, http.MethodPost, "/api/v1/video/resolve", recipeHandler.VideoResolveRequest{
		URL: "https://youtu.be/dQw4w9WgXcQ",
	})
	expectStatus(t, w, http.StatusOK)
	resp := decode[recipeHandler.VideoResolveResponse](t, w)
	if !resp.Resolved || resp.VideoID != "dQw4w9WgXcQ" {
		t.Fatalf("resolve = %+v", resp)
	}
	if resp.ThumbnailURL != "https://img.youtube.com/vi/dQw4w9WgXcQ/maxresdefault.jpg" {
		t.Fatalf("thumbnail = %q", resp.ThumbnailURL)
	}
	if resp.EmbedURL != "https://www.youtube.com/embed/dQw4w9WgXcQ" || resp.Probe != nil {
		t.Fatalf("resolve = %+v", resp)
	}

	w = doRequest(t, router, http.MethodPost, "/api/v1/video/resolve", recipeHandler.VideoResolveRequest{
		URL: "https://example.com/recipes/42",
	})
	expectStatus(t, w, http.StatusOK)
	if resp := decode[recipeHandler.VideoResolveResponse](t, w); resp.Resolved || resp.VideoID != "" {
		t.Fatalf("unresolvable link = %+v", resp)
	}

	expectStatus(t, doRequest(t, router, http.MethodPost, "/api/v1/video/resolve", map[string]string{}), http.StatusBadRequest)
}

func TestResolveVideoWithProbe(t *testing.T) {
	thumbs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/hqdefault.jpg") {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer thumbs.Close()

	cfg := testConfig()
	cfg.Video = config.VideoConfig{
		ThumbnailHost:    thumbs.URL,
		VerifyThumbnails: true,
		ProbeTimeout:     time.Second,
	}
	router, _ := newTestRouter(t, cfg)

	w := doRequest(t, router, http.MethodPost, "/api/v1/video/resolve", recipeHandler.VideoResolveRequest{
		URL: "https://www.youtube.com/embed/dQw4w9WgXcQ",
	})
	expectStatus(t, w, http.StatusOK)
	resp := decode[recipeHandler.VideoResolveResponse](t, w)
	if resp.Probe == nil || !resp.Probe.Verified || !resp.Probe.Fallback {
		t.Fatalf("probe = %+v", resp.Probe)
	}
	if resp.ThumbnailURL != thumbs.URL+"/vi/dQw4w9WgXcQ/hqdefault.jpg" {
		t.Fatalf("thumbnail = %q", resp.ThumbnailURL)
	}
}

func TestDuplicateAddRejected(t *testing.T) {
	router, svc := newTestRouter(t, testConfig())
	body := map[string]string{"title": "焼きそば"}

	expectStatus(t, doRequest(t, router, http.MethodPost, "/api/v1/recipes", body), http.StatusCreated)
	w := doRequest(t, router, http.MethodPost, "/api/v1/recipes", body)
	expectStatus(t, w, http.StatusTooManyRequests)
	if resp := decode[common.ErrorResponse](t, w); resp.Code != common.ErrCodeTooManyRequests {
		t.Fatalf("code = %s", resp.Code)
	}
	if svc.Store.Len() != 5 {
		t.Fatalf("store has %d recipes, want 5", svc.Store.Len())
	}
}

func TestDuplicateInvalidAddIsRevalidated(t *testing.T) {
	router, svc := newTestRouter(t, testConfig())
	body := map[string]string{"title": "  "}

	for i := 0; i < 2; i++ {
		w := doRequest(t, router, http.MethodPost, "/api/v1/recipes", body)
		expectStatus(t, w, http.StatusBadRequest)
		if resp := decode[common.ErrorResponse](t, w); resp.Code != common.ErrCodeInvalidRequest {
			t.Fatalf("attempt %d code = %s", i, resp.Code)
		}
	}
	if svc.Store.Len() != 4 {
		t.Fatalf("store has %d recipes, want 4", svc.Store.Len())
	}
}

func TestUnknownRouteNotFound(t *testing.T) {
	router, _ := newTestRouter(t, testConfig())

	w := doRequest(t, router, http.MethodGet, "/api/v1/unknown", nil)
	expectStatus(t, w, http.StatusNotFound)
	if resp := decode[common.ErrorResponse](t, w); resp.Code != common.ErrCodeNotFound {
		t.Fatalf("code = %s", resp.Code)
	}
}

func TestRequestTimeoutReturnsGatewayTimeout(t *testing.T) {
	router := gin.New()
	router.Use(requestTimeout(10 * time.Millisecond))
	router.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})

	w := doRequest(t, router, http.MethodGet, "/slow", nil)
	expectStatus(t, w, http.StatusGatewayTimeout)
	if resp := decode[common.ErrorResponse](t, w); resp.Code != common.ErrCodeGatewayTimeout {
		t.Fatalf("code = %s", resp.Code)
	}
}

func TestRateLimitPerClient(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, Requests: 1, Window: time.Hour}
	router, _ := newTestRouter(t, cfg)

	get := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	if code := get("198.51.100.1:5000"); code != http.StatusOK {
		t.Fatalf("first client status = %d", code)
	}
	if code := get("198.51.100.1:5001"); code != http.StatusTooManyRequests {
		t.Fatalf("first client repeat status = %d", code)
	}
	if code := get("198.51.100.2:5000"); code != http.StatusOK {
		t.Fatalf("second client status = %d", code)
	}
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, Requests: 2, Window: time.Hour}
	router, _ := newTestRouter(t, cfg)

	for i := 0; i < 2; i++ {
		expectStatus(t, doRequest(t, router, http.MethodGet, "/api/v1/recipes", nil), http.StatusOK)
	}
	w := doRequest(t, router, http.MethodGet, "/api/v1/recipes", nil)
	expectStatus(t, w, http.StatusTooManyRequests)
	if w.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}

	// 健康檢查不受限流影響
	expectStatus(t, doRequest(t, router, http.MethodGet, "/live", nil), http.StatusOK)
}

func TestBodySizeLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Server.MaxBodyBytes = 16
	router, _ := newTestRouter(t, cfg)

	w := doRequest(t, router, http.MethodPost, "/api/v1/recipes", map[string]string{
		"title": strings.Repeat("長", 32),
	})
	expectStatus(t, w, http.StatusRequestEntityTooLarge)
}

func TestNewServicesWithoutSeed(t *testing.T) {
	cfg := testConfig()
	cfg.Catalog.Seed = false
	cfg.Catalog.DefaultCategory = "soup"

	svc, err := NewServices(cfg, nil, nil)
	if err != nil {
		t.Fatalf("NewServices: %v", err)
	}
	if svc.Store.Len() != 0 {
		t.Fatalf("store has %d recipes", svc.Store.Len())
	}
	if got := svc.Filter.Selection(); got.Category != recipe.CategorySoup || got.SubCategory != recipe.SubCategoryNoodles {
		t.Fatalf("selection = %+v", got)
	}
	if svc.Probe != nil {
		t.Fatal("probe should be disabled by default")
	}
}

func TestNewServicesInvalidDefaults(t *testing.T) {
	cfg := testConfig()
	cfg.Catalog.DefaultCategory = "dessert"
	if _, err := NewServices(cfg, nil, nil); err == nil {
		t.Fatal("expected error for invalid default category")
	}
}
