package recipe

import (
	_ "embed"
	"fmt"
	"os"

	"recipe-catalog/internal/pkg/common"
)

//go:embed seed.json
var defaultSeed []byte

// LoadSeedForms 讀取種子資料；path 為空時使用內建的範例食譜
func LoadSeedForms(path string) ([]Form, error) {
	var forms []Form
	if path == "" {
		if err := common.ParseJSONBytesStrict(defaultSeed, &forms); err != nil {
			return nil, fmt.Errorf("failed to parse built-in seed: %w", err)
		}
		return forms, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	if err := common.DecodeJSONStrict(f, &forms); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	return forms, nil
}

// Seed 以表單資料填入 store，遇到無效表單即停止
func Seed(s *Store, forms []Form, resolver ThumbnailResolver) (int, error) {
	for i, form := range forms {
		draft, err := form.Draft(resolver)
		if err != nil {
			return i, fmt.Errorf("seed recipe %d: %w", i, err)
		}
		s.Add(draft, DefaultSelection)
	}
	return len(forms), nil
}
