package model

import "fmt"

// Reserved keys carried by every aggregated point.
const (
	KeyTimestamp        = "timestamp"
	KeyID               = "id"
	KeyAll              = "all"
	KeyCumulative       = "cumulative"
	KeyMovingAverageAll = "movingAverageAll"
)

// Trade categories for volume and fee series.
const (
	CategorySwap        = "swap"
	CategoryMargin      = "margin"
	CategoryMint        = "mint"
	CategoryBurn        = "burn"
	CategoryLiquidation = "liquidation"
)

var reservedKeys = map[string]struct{}{
	KeyTimestamp:        {},
	KeyID:               {},
	KeyAll:              {},
	KeyCumulative:       {},
	KeyMovingAverageAll: {},
}

// TradeCategories is the category set shared by volume and fee series.
var TradeCategories = MustCategorySet(CategorySwap, CategoryMargin, CategoryMint, CategoryBurn, CategoryLiquidation)

// CategorySet is a closed, ordered set of value keys.
type CategorySet struct {
	keys  []string
	index map[string]int
}

// NewCategorySet validates keys and builds a CategorySet.
func NewCategorySet(keys ...string) (CategorySet, error) {
	if len(keys) == 0 {
		return CategorySet{}, fmt.Errorf("category set is empty")
	}
	index := make(map[string]int, len(keys))
	for i, key := range keys {
		if key == "" {
			return CategorySet{}, fmt.Errorf("category %d is empty", i)
		}
		if _, ok := reservedKeys[key]; ok {
			return CategorySet{}, fmt.Errorf("category %q is a reserved key", key)
		}
		if _, ok := index[key]; ok {
			return CategorySet{}, fmt.Errorf("duplicate category %q", key)
		}
		index[key] = i
	}
	out := make([]string, len(keys))
	copy(out, keys)
	return CategorySet{keys: out, index: index}, nil
}

// MustCategorySet is NewCategorySet for package-level declarations.
func MustCategorySet(keys ...string) CategorySet {
	set, err := NewCategorySet(keys...)
	if err != nil {
		panic(err)
	}
	return set
}

// Keys returns the categories in declaration order.
func (c CategorySet) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

func (c CategorySet) Contains(key string) bool {
	_, ok := c.index[key]
	return ok
}

func (c CategorySet) Len() int {
	return len(c.keys)
}

// IsReserved reports whether key is an identity or aggregate key.
func IsReserved(key string) bool {
	_, ok := reservedKeys[key]
	return ok
}
