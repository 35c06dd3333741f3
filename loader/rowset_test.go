package loader

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeRowFile marshals rows to a JSON file under a temp dir.
func writeRowFile(t *testing.T, rows [][]string) string {
	t.Helper()
	data, err := json.Marshal(rows)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "rows.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

type pairRecord struct {
	key   string
	value int
}

func pairSchema() Schema[pairRecord] {
	return Schema[pairRecord]{
		{Name: "key", Set: func(r *pairRecord, v string) error { r.key = v; return nil }},
		{Name: "value", Set: func(r *pairRecord, v string) error {
			n, err := strconv.Atoi(v)
			r.value = n
			return err
		}},
	}
}

func TestReadRowFile(t *testing.T) {
	path := writeRowFile(t, [][]string{{"a", "1"}, {"b", "2"}})

	rows, err := ReadRowFile(path)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "1"}, {"b", "2"}}, rows)
}

func TestReadRowFileMissing(t *testing.T) {
	_, err := ReadRowFile(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestReadRowFileMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not": "rows"}`), 0o644))

	_, err := ReadRowFile(path)
	assert.Error(t, err)
}

func TestDecodeRows(t *testing.T) {
	rows := [][]string{{"a", "1"}, {"b", "2"}}

	records, dropped := DecodeRows(rows, pairSchema(), slog.Default())
	require.Len(t, records, 2)
	assert.Zero(t, dropped)
	assert.Equal(t, "a", records[0].key)
	assert.Equal(t, 1, records[0].value)
	assert.Equal(t, "b", records[1].key)
	assert.Equal(t, 2, records[1].value)
}

func TestDecodeRowsDropsWrongArity(t *testing.T) {
	rows := [][]string{{"a", "1"}, {"too", "many", "fields"}, {"short"}}

	records, dropped := DecodeRows(rows, pairSchema(), slog.Default())
	require.Len(t, records, 1)
	assert.Equal(t, 2, dropped)
	assert.Equal(t, "a", records[0].key)
}

func TestDecodeRowsDropsUnparsableField(t *testing.T) {
	rows := [][]string{{"a", "not-a-number"}, {"b", "7"}}

	records, dropped := DecodeRows(rows, pairSchema(), slog.Default())
	require.Len(t, records, 1)
	assert.Equal(t, 1, dropped)
	assert.Equal(t, "b", records[0].key)
	assert.Equal(t, 7, records[0].value)
}
