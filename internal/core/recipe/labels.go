package recipe

// Label 大分類的顯示名稱
func (c Category) Label() string {
	switch c {
	case CategoryMain:
		return "主食"
	case CategorySide:
		return "副菜"
	case CategorySoup:
		return "汁物"
	case CategoryOther:
		return "その他"
	}
	return ""
}

// Label 小分類的顯示名稱
func (s SubCategory) Label() string {
	switch s {
	case SubCategoryNoodles:
		return "麺類"
	case SubCategoryRice:
		return "ご飯物"
	case SubCategoryDonburi:
		return "丼もの"
	case SubCategoryMeat:
		return "肉料理"
	case SubCategoryFish:
		return "魚料理"
	case SubCategoryOther:
		return "その他"
	}
	return ""
}

// Label 單位的顯示名稱，「単位なし」在卡片上不顯示
func (u Unit) Label() string {
	switch u {
	case UnitSmall:
		return "小さじ"
	case UnitLarge:
		return "大さじ"
	case UnitGram:
		return "グラム"
	case UnitLiter:
		return "ℓ"
	case UnitPinch:
		return "つまみ"
	case UnitPiece:
		return "個"
	case UnitAppropriate:
		return "適量"
	case UnitNone:
		return ""
	}
	return ""
}

// OptionLabel 單位在選單上的名稱
func (u Unit) OptionLabel() string {
	if u == UnitNone {
		return "単位なし"
	}
	return u.Label()
}

// Option 選單項目
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Options 分類與單位的所有選項
type Options struct {
	Categories    []Option `json:"categories"`
	SubCategories []Option `json:"sub_categories"`
	Units         []Option `json:"units"`
}

// AllOptions 回傳依顯示順序排列的選項
func AllOptions() Options {
	opts := Options{
		Categories:    make([]Option, 0, len(Categories)),
		SubCategories: make([]Option, 0, len(SubCategories)),
		Units:         make([]Option, 0, len(Units)),
	}
	for _, c := range Categories {
		opts.Categories = append(opts.Categories, Option{Value: string(c), Label: c.Label()})
	}
	for _, s := range SubCategories {
		opts.SubCategories = append(opts.SubCategories, Option{Value: string(s), Label: s.Label()})
	}
	for _, u := range Units {
		opts.Units = append(opts.Units, Option{Value: string(u), Label: u.OptionLabel()})
	}
	return opts
}
