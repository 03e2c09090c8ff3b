package jsondelta

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffMarshalWireFormat(t *testing.T) {
	a, err := FromJSON([]byte(`{"keep":1,"gone":2,"val":3,"typ":4,"arr":[1,2,3]}`))
	require.NoError(t, err)
	b, err := FromJSON([]byte(`{"keep":1,"val":30,"typ":"four","arr":[1],"new":true}`))
	require.NoError(t, err)

	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	d := Compare(a, b, WithSources("a.json", "b.json"), WithTimestamp(ts))

	data, err := d.MarshalJSON()
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"metadata": {
			"comparison_timestamp": "2026-03-14T09:26:53Z",
			"file1": "a.json",
			"file2": "b.json",
			"has_differences": true
		},
		"differences": {
			"dictionary_item_added": ["root['new']"],
			"dictionary_item_removed": ["root['gone']"],
			"values_changed": {
				"root['val']": {"old_value": 3, "new_value": 30}
			},
			"type_changes": {
				"root['typ']": {
					"old_value": 4,
					"old_type": "Number",
					"new_value": "four",
					"new_type": "String"
				}
			},
			"iterable_item_added": {},
			"iterable_item_removed": {
				"root['arr'][1]": 2,
				"root['arr'][2]": 3
			}
		},
		"summary": {
			"total_changes": 6,
			"additions": 1,
			"deletions": 1,
			"changes": 1,
			"type_changes": 1,
			"array_additions": 0,
			"array_deletions": 2
		}
	}`, string(data))
}

func TestDiffMarshalEmpty(t *testing.T) {
	a, _ := FromJSON([]byte(`{"a":1}`))
	d := Compare(a, a.Clone(), WithTimestamp(time.Unix(0, 0).UTC()))

	data, err := d.MarshalJSON()
	require.NoError(t, err)

	// every category is present even when empty
	assert.Contains(t, string(data), `"dictionary_item_added":[]`)
	assert.Contains(t, string(data), `"values_changed":{}`)
	assert.Contains(t, string(data), `"has_differences":false`)
	assert.Contains(t, string(data), `"total_changes":0`)
}

func TestParseDiffMissingDifferences(t *testing.T) {
	_, _, err := ParseDiff([]byte(`{"metadata":{},"summary":{}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing differences")

	_, _, err = ParseDiff([]byte(`not json`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid diff document")
}

func TestParseDiffBadPathIsolated(t *testing.T) {
	data := []byte(`{
		"metadata": {"has_differences": true},
		"differences": {
			"dictionary_item_added": ["root['good']", "bogus path"],
			"dictionary_item_removed": [],
			"values_changed": {},
			"type_changes": {},
			"iterable_item_added": {},
			"iterable_item_removed": {}
		},
		"summary": {}
	}`)

	d, warns, err := ParseDiff(data)
	require.NoError(t, err)
	require.Len(t, warns, 1)
	assert.Equal(t, CatDictAdded, warns[0].Category)
	assert.Equal(t, "bogus path", warns[0].Path)
	assert.Contains(t, warns[0].Reason, "unparseable path")

	// the good record survives
	require.Len(t, d.Added, 1)
	assert.Equal(t, "root['good']", d.Added[0].Path.String())
}

func TestParseDiffUnknownTypeName(t *testing.T) {
	data := []byte(`{
		"metadata": {},
		"differences": {
			"dictionary_item_added": [],
			"dictionary_item_removed": [],
			"values_changed": {},
			"type_changes": {
				"root['a']": {"old_value": 1, "old_type": "Integer", "new_value": "x", "new_type": "String"}
			},
			"iterable_item_added": {},
			"iterable_item_removed": {}
		},
		"summary": {}
	}`)

	d, warns, err := ParseDiff(data)
	require.NoError(t, err)
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0].Reason, "unrecognized type name")
	assert.Empty(t, d.TypeChanged)
}

func TestParseDiffDeterministicOrder(t *testing.T) {
	data := []byte(`{
		"metadata": {"has_differences": true},
		"differences": {
			"dictionary_item_added": [],
			"dictionary_item_removed": [],
			"values_changed": {
				"root['b']": {"old_value": 1, "new_value": 2},
				"root['a']": {"old_value": 3, "new_value": 4},
				"root['a'][2]": {"old_value": 5, "new_value": 6}
			},
			"type_changes": {},
			"iterable_item_added": {},
			"iterable_item_removed": {}
		},
		"summary": {}
	}`)

	d, warns, err := ParseDiff(data)
	require.NoError(t, err)
	require.Empty(t, warns)
	require.Len(t, d.Changed, 3)
	assert.Equal(t, "root['a']", d.Changed[0].Path.String())
	assert.Equal(t, "root['a'][2]", d.Changed[1].Path.String())
	assert.Equal(t, "root['b']", d.Changed[2].Path.String())
}

// A literal null on the wire is a value; it must come back as the Null node,
// not as a missing one, or applying the parsed diff loses the change.
func TestParseDiffPreservesNullTypeChange(t *testing.T) {
	a, err := FromJSON([]byte(`{"a":5}`))
	require.NoError(t, err)
	b, err := FromJSON([]byte(`{"a":null}`))
	require.NoError(t, err)

	data, err := Compare(a, b).MarshalJSON()
	require.NoError(t, err)

	parsed, warns, err := ParseDiff(data)
	require.NoError(t, err)
	require.Empty(t, warns)
	require.Len(t, parsed.TypeChanged, 1)
	require.NotNil(t, parsed.TypeChanged[0].NewValue)
	assert.Equal(t, NullType, parsed.TypeChanged[0].NewValue.Type)

	got, warns, err := Apply(a, parsed)
	require.NoError(t, err)
	require.Empty(t, warns)
	assert.True(t, Equal(got, b), "null value lost across the wire")
}

func TestParseDiffPreservesNullSeqAdd(t *testing.T) {
	a, err := FromJSON([]byte(`[1]`))
	require.NoError(t, err)
	b, err := FromJSON([]byte(`[1,null]`))
	require.NoError(t, err)

	data, err := Compare(a, b).MarshalJSON()
	require.NoError(t, err)

	parsed, warns, err := ParseDiff(data)
	require.NoError(t, err)
	require.Empty(t, warns)
	require.Len(t, parsed.SeqAdded, 1)
	require.NotNil(t, parsed.SeqAdded[0].Value)
	assert.Equal(t, NullType, parsed.SeqAdded[0].Value.Type)

	// no target needed: the null is carried by the diff itself
	got, warns, err := Apply(a, parsed)
	require.NoError(t, err)
	require.Empty(t, warns)
	assert.True(t, Equal(got, b), "null value lost across the wire")
}

func TestWarningString(t *testing.T) {
	w := Warning{Category: CatDictAdded, Path: "root['x']", Reason: "cannot add without a target document"}
	assert.Equal(t, "dictionary_item_added at root['x']: cannot add without a target document", w.String())
}
