package crafts

import (
	"bytes"
	"encoding/json"

	"github.com/tidwall/gjson"
)

// SkipReason names why a payload or material row was left out.
type SkipReason string

// Whole-payload skips.
const (
	SkipNotObject           SkipReason = "not_object"
	SkipInactive            SkipReason = "inactive"
	SkipMissingRecipeID     SkipReason = "missing_recipe_id"
	SkipMissingOutputItemID SkipReason = "missing_output_item_id"
)

// Single-material drops; the recipe itself is still produced.
const (
	DropMaterialNotObject SkipReason = "material_not_object"
	DropMaterialBadAmount SkipReason = "material_bad_amount"
	DropMaterialMissingID SkipReason = "material_missing_id"
)

// Skip records a payload that produced no recipe, or (MaterialIndex >= 0) a
// single material entry dropped from an otherwise valid recipe.
type Skip struct {
	Key           string
	Reason        SkipReason
	MaterialIndex int
}

// IsMaterial reports whether s is a dropped material rather than a skipped payload.
func (s Skip) IsMaterial() bool { return s.MaterialIndex >= 0 }

const (
	defaultOutputAmount  = 1
	defaultTimeSeconds   = 0
	defaultChancePercent = 100.0
)

// Extract normalizes one raw payload. A nil recipe with a nil error means the
// payload was skipped; skips then holds exactly one whole-payload entry.
// Dropped materials are reported alongside a produced recipe.
func Extract(e Entry) (*Recipe, []Skip, error) {
	p := e.Payload
	if !p.IsObject() {
		return nil, []Skip{payloadSkip(e.Key, SkipNotObject)}, nil
	}
	if !Truthy(p.Get("status")) {
		return nil, []Skip{payloadSkip(e.Key, SkipInactive)}, nil
	}

	ci := p.Get("craftableItem")
	if !ci.IsObject() {
		ci = gjson.Result{}
	}
	field := func(name string) gjson.Result { return ci.Get(name) }

	recipeID, ok := AsInt(field("id"))
	if !ok {
		return nil, []Skip{payloadSkip(e.Key, SkipMissingRecipeID)}, nil
	}
	outputID, ok := AsInt(field("itemId"))
	if !ok {
		return nil, []Skip{payloadSkip(e.Key, SkipMissingOutputItemID)}, nil
	}

	var skips []Skip
	mats := make([]Material, 0)
	if list := field("craftMaterials"); list.IsArray() {
		for i, m := range list.Array() {
			if !m.IsObject() {
				skips = append(skips, Skip{Key: e.Key, Reason: DropMaterialNotObject, MaterialIndex: i})
				continue
			}
			amount, ok := AsInt(m.Get("amount"))
			if !ok {
				skips = append(skips, Skip{Key: e.Key, Reason: DropMaterialBadAmount, MaterialIndex: i})
				continue
			}
			itemID, ok := AsInt(m.Get("id"))
			if !ok {
				skips = append(skips, Skip{Key: e.Key, Reason: DropMaterialMissingID, MaterialIndex: i})
				continue
			}
			mats = append(mats, Material{ItemID: itemID, Amount: amount})
		}
	}

	outputAmount, err := intOrDefault(e.Key, "outputAmount", field("outputAmount"), defaultOutputAmount)
	if err != nil {
		return nil, skips, err
	}
	timeSeconds, err := intOrDefault(e.Key, "time", field("time"), defaultTimeSeconds)
	if err != nil {
		return nil, skips, err
	}
	chance, err := floatOrDefault(e.Key, "chance", field("chance"), defaultChancePercent)
	if err != nil {
		return nil, skips, err
	}

	rec := &Recipe{
		RecipeID:      recipeID,
		OutputItemID:  outputID,
		Name:          passThrough(field("itemName")),
		Craft:         passThrough(field("craft")),
		Category:      passThrough(field("category")),
		OutputAmount:  outputAmount,
		TimeSeconds:   timeSeconds,
		ChancePercent: Percent(chance),
		Reward:        passThrough(field("reward")),
		Materials:     mats,
		Price:         passThrough(p.Get("price")),
	}
	return rec, skips, nil
}

func payloadSkip(key string, reason SkipReason) Skip {
	return Skip{Key: key, Reason: reason, MaterialIndex: -1}
}

var jsonNull = json.RawMessage("null")

// passThrough re-encodes a raw value with strings decoded, so escaped
// non-ASCII text comes out as plain UTF-8 at any depth. Object key order is
// kept; a repeated key keeps its first position and takes its last value.
func passThrough(v gjson.Result) json.RawMessage {
	if v.Type == gjson.Null {
		return jsonNull
	}
	var buf bytes.Buffer
	if err := appendValue(&buf, v); err != nil {
		return json.RawMessage(v.Raw)
	}
	return json.RawMessage(buf.Bytes())
}

func appendValue(buf *bytes.Buffer, v gjson.Result) error {
	switch v.Type {
	case gjson.String:
		return encodeRaw(buf, v.Str)
	case gjson.JSON:
		if v.IsArray() {
			return appendArray(buf, v)
		}
		return appendObject(buf, v)
	case gjson.Null:
		buf.WriteString("null")
		return nil
	}
	buf.WriteString(v.Raw)
	return nil
}

func appendArray(buf *bytes.Buffer, v gjson.Result) error {
	buf.WriteByte('[')
	for i, item := range v.Array() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := appendValue(buf, item); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}

func appendObject(buf *bytes.Buffer, v gjson.Result) error {
	var keys []string
	vals := map[string]gjson.Result{}
	v.ForEach(func(k, val gjson.Result) bool {
		if _, ok := vals[k.Str]; !ok {
			keys = append(keys, k.Str)
		}
		vals[k.Str] = val
		return true
	})
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeRaw(buf, k); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := appendValue(buf, vals[k]); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}
