package skiplog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roidlecraft/internal/crafts"
)

func readRecords(t *testing.T, r io.Reader) []Record {
	t.Helper()
	var out []Record
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		var rec Record
		require.NoError(t, json.Unmarshal(sc.Bytes(), &rec))
		out = append(out, rec)
	}
	require.NoError(t, sc.Err())
	return out
}

func writeSample(t *testing.T, path string) {
	t.Helper()
	w, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, w.RecordSkip(crafts.Skip{Key: "a", Reason: crafts.SkipInactive, MaterialIndex: -1}))
	require.NoError(t, w.RecordSkip(crafts.Skip{Key: "b", Reason: crafts.DropMaterialBadAmount, MaterialIndex: 0}))
	assert.Equal(t, 2, w.Count())
	require.NoError(t, w.Close())
}

func TestWriter_PlainJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit", "skips.jsonl")
	writeSample(t, path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\"key\":\"a\",\"reason\":\"inactive\"}\n{\"key\":\"b\",\"reason\":\"material_bad_amount\",\"index\":0}\n", string(b))
}

func TestWriter_Zstd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skips.jsonl.zst")
	writeSample(t, path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	dec, err := zstd.NewReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer dec.Close()

	recs := readRecords(t, dec)
	require.Len(t, recs, 2)
	assert.Equal(t, "a", recs[0].Key)
	assert.Nil(t, recs[0].Index)
	require.NotNil(t, recs[1].Index)
	assert.Equal(t, 0, *recs[1].Index)
}

func TestWriter_TruncatesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skips.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("old line\nold line\nold line\n"), 0o644))

	w, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(Record{Key: "x", Reason: "inactive"}))
	require.NoError(t, w.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []Record{{Key: "x", Reason: "inactive"}}, readRecords(t, f))
}

func TestWriter_FeedsNormalize(t *testing.T) {
	src, err := crafts.Parse("in.json", []byte(`{"a": {"status": 0}, "b": {"status": true, "craftableItem": {"id": 1, "itemId": 2, "craftMaterials": [{"id": null, "amount": 1}]}}}`))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "skips.jsonl")
	w, err := Open(path)
	require.NoError(t, err)
	_, stats, err := crafts.Normalize(src, "S", w, nil)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Equal(t, 1, stats.DroppedMaterials)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	recs := readRecords(t, f)
	require.Len(t, recs, 2)
	assert.Equal(t, "inactive", recs[0].Reason)
	assert.Equal(t, "material_missing_id", recs[1].Reason)
}
