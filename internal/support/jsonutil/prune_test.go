package jsonutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestPruneRemovesDefaults(t *testing.T) {
	v := decode(t, `{
		"name": "John Doe",
		"age": 43,
		"phones": ["+44 1234567", "+44 2345678"],
		"testnull": null,
		"testnullarray": [],
		"testnulls": {"testempty": {}, "testdefault": false, "testzero": 0},
		"testnotnulls": {"testempty": {}, "testdefault": false, "testzero": 0, "testone": 1},
		"nullarray": [],
		"notnullarray": [{}]
	}`)

	Prune(v)

	out, err := json.MarshalIndent(v, "", "  ")
	require.NoError(t, err)
	require.JSONEq(t, `{
		"age": 43,
		"name": "John Doe",
		"notnullarray": [{}],
		"phones": ["+44 1234567", "+44 2345678"],
		"testnotnulls": {"testone": 1}
	}`, string(out))
}

func TestPruneKeepsStats(t *testing.T) {
	v := decode(t, `{"stats": {}, "unused": ""}`)
	Prune(v)

	m := v.(map[string]any)
	require.Contains(t, m, "stats")
	require.NotContains(t, m, "unused")
}

func TestPruneIdempotent(t *testing.T) {
	v := decode(t, `{
		"a": {"b": false, "c": "x"},
		"stats": {},
		"list": [{"empty": {}}, {"keep": 1}]
	}`)

	Prune(v)
	once, err := json.Marshal(v)
	require.NoError(t, err)

	Prune(v)
	twice, err := json.Marshal(v)
	require.NoError(t, err)

	require.Equal(t, string(once), string(twice))
}
