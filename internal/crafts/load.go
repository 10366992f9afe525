package crafts

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/tidwall/gjson"
)

// Shape identifies which top-level layout the raw export used.
type Shape int

const (
	// ShapeMapping is a bare {key: payload} object.
	ShapeMapping Shape = iota + 1
	// ShapePair is the socket frame form [eventName, {key: payload}].
	ShapePair
)

func (s Shape) String() string {
	switch s {
	case ShapeMapping:
		return "mapping"
	case ShapePair:
		return "pair"
	}
	return "unknown"
}

// Entry is one keyed payload of the raw recipe mapping.
type Entry struct {
	Key     string
	Payload gjson.Result
}

// Source is the resolved recipe mapping of a raw export.
type Source struct {
	Path    string
	Shape   Shape
	Digest  string
	Entries []Entry
}

// Load reads and resolves a raw export. Paths ending in .zst are decompressed.
func Load(path string) (*Source, error) {
	raw, err := readInput(path)
	if err != nil {
		return nil, err
	}
	return Parse(path, raw)
}

// Parse resolves the recipe mapping inside raw. Keys repeated in the mapping
// keep their first position and take their last value.
func Parse(path string, raw []byte) (*Source, error) {
	if !gjson.ValidBytes(raw) {
		return nil, &ShapeError{Path: path, Found: "invalid JSON"}
	}
	src := &Source{Path: path, Digest: sha256Hex(raw)}

	root := gjson.ParseBytes(raw)
	var mapping gjson.Result
	switch {
	case root.IsArray():
		arr := root.Array()
		if len(arr) != 2 || !arr[1].IsObject() {
			return nil, &ShapeError{Path: path, Found: describeArray(arr)}
		}
		src.Shape = ShapePair
		mapping = arr[1]
	case root.IsObject():
		src.Shape = ShapeMapping
		mapping = root
	default:
		return nil, &ShapeError{Path: path, Found: typeName(root)}
	}

	pos := map[string]int{}
	mapping.ForEach(func(k, v gjson.Result) bool {
		key := k.String()
		if i, ok := pos[key]; ok {
			src.Entries[i].Payload = v
			return true
		}
		pos[key] = len(src.Entries)
		src.Entries = append(src.Entries, Entry{Key: key, Payload: v})
		return true
	})
	return src, nil
}

func readInput(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		defer dec.Close()
		r = dec
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return raw, nil
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func describeArray(arr []gjson.Result) string {
	if len(arr) == 2 {
		return "array of 2 with " + typeName(arr[1]) + " second element"
	}
	return fmt.Sprintf("array of %d", len(arr))
}

func typeName(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return "null"
	case gjson.False, gjson.True:
		return "boolean"
	case gjson.Number:
		return "number"
	case gjson.String:
		return "string"
	}
	if v.IsArray() {
		return "array"
	}
	return "object"
}
