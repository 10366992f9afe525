package crafts

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Recipe is one normalized craftable-item record.
type Recipe struct {
	RecipeID      int64           `json:"recipeId"`
	OutputItemID  int64           `json:"outputItemId"`
	Name          json.RawMessage `json:"name"`
	Craft         json.RawMessage `json:"craft"`
	Category      json.RawMessage `json:"category"`
	OutputAmount  int64           `json:"outputAmount"`
	TimeSeconds   int64           `json:"timeSeconds"`
	ChancePercent Percent         `json:"chancePercent"`
	Reward        json.RawMessage `json:"reward"`
	Materials     []Material      `json:"materials"`
	Price         json.RawMessage `json:"price"`

	// Alternatives is only ever set on the primary record of an output item.
	Alternatives []*Recipe `json:"alternatives,omitempty"`
}

type Material struct {
	ItemID int64 `json:"itemId"`
	Amount int64 `json:"amount"`
}

type Meta struct {
	Source        string `json:"source"`
	GeneratedFrom string `json:"generatedFrom"`
}

// Document is the artifact consumed by the static site.
type Document struct {
	Meta                   Meta         `json:"meta"`
	CraftableOutputItemIDs []int64      `json:"craftableOutputItemIds"`
	RecipesByOutputItemID  *RecipeIndex `json:"recipesByOutputItemId"`
	RecipesByRecipeID      *RecipeIndex `json:"recipesByRecipeId"`
}

// Percent always renders with a fractional part (50 -> 50.0).
type Percent float64

func (p Percent) MarshalJSON() ([]byte, error) {
	f := float64(p)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, &json.UnsupportedValueError{Str: strconv.FormatFloat(f, 'g', -1, 64)}
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return []byte(strconv.FormatFloat(f, 'g', -1, 64)), nil
	}
	if f == math.Trunc(f) {
		return []byte(strconv.FormatFloat(f, 'f', 1, 64)), nil
	}
	return []byte(strconv.FormatFloat(f, 'f', -1, 64)), nil
}

// RecipeIndex is a string-keyed map that remembers first-insertion order.
// Replacing an existing key keeps its original position.
type RecipeIndex struct {
	keys []string
	byID map[string]*Recipe
}

func NewRecipeIndex() *RecipeIndex {
	return &RecipeIndex{byID: map[string]*Recipe{}}
}

func (x *RecipeIndex) Get(key string) (*Recipe, bool) {
	r, ok := x.byID[key]
	return r, ok
}

func (x *RecipeIndex) Set(key string, r *Recipe) {
	if _, ok := x.byID[key]; !ok {
		x.keys = append(x.keys, key)
	}
	x.byID[key] = r
}

func (x *RecipeIndex) Len() int { return len(x.keys) }

// Keys returns the keys in insertion order.
func (x *RecipeIndex) Keys() []string {
	out := make([]string, len(x.keys))
	copy(out, x.keys)
	return out
}

func (x *RecipeIndex) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range x.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeRaw(&buf, k); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := encodeRaw(&buf, x.byID[k]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// encodeRaw appends the compact JSON of v to buf without HTML escaping.
func encodeRaw(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Truncate(buf.Len() - 1)
	return nil
}
