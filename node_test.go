package jsondelta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMappingKeyOrderPreserved(t *testing.T) {
	n, err := FromJSON([]byte(`{"b":1,"a":2,"z":3}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "z"}, n.Keys)

	out, err := ToJSON(n)
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":1,"a":2,"z":3}`, string(out))

	// insertion order is kept, not re-sorted
	assert.Contains(t, string(out), "\"b\": 1,\n    \"a\": 2,\n    \"z\": 3")
}

func TestNumberLiteralPreserved(t *testing.T) {
	n, err := FromJSON([]byte(`{"price":1.50,"big":12345678901234567890}`))
	require.NoError(t, err)

	out, err := ToJSON(n)
	require.NoError(t, err)
	assert.Contains(t, string(out), "1.50")
	assert.Contains(t, string(out), "12345678901234567890")
}

func TestNodeSetDeleteOrder(t *testing.T) {
	m := Mapping()
	m.Set("a", Number("1"))
	m.Set("b", Number("2"))
	m.Set("c", Number("3"))

	m.Set("b", Number("20"))
	assert.Equal(t, []string{"a", "b", "c"}, m.Keys, "replacing a value must not move the key")

	require.True(t, m.Delete("a"))
	assert.False(t, m.Delete("a"))
	assert.Equal(t, []string{"b", "c"}, m.Keys)

	m.Set("d", Number("4"))
	assert.Equal(t, []string{"b", "c", "d"}, m.Keys, "new keys append at the end")
}

func TestNodeInsertRemove(t *testing.T) {
	s := Sequence(String("a"), String("c"))
	s.Insert(1, String("b"))
	require.Equal(t, 3, s.Len())
	assert.Equal(t, "b", s.Values[1].Str)

	s.Remove(0)
	assert.Equal(t, "b", s.Values[0].Str)
	assert.Equal(t, 2, s.Len())
}

func TestCloneIsIndependent(t *testing.T) {
	orig, err := FromJSON([]byte(`{"a":{"b":[1,2]}}`))
	require.NoError(t, err)

	cp := orig.Clone()
	cp.Value("a").Set("c", Bool(true))
	cp.Value("a").Value("b").Remove(0)

	assert.True(t, Equal(orig.Value("a").Value("b"), Sequence(Number("1"), Number("2"))))
	assert.Nil(t, orig.Value("a").Value("c"))
}

func TestEqualIgnoresMappingOrder(t *testing.T) {
	a, err := FromJSON([]byte(`{"x":1,"y":{"n":true,"m":null}}`))
	require.NoError(t, err)
	b, err := FromJSON([]byte(`{"y":{"m":null,"n":true},"x":1}`))
	require.NoError(t, err)

	assert.True(t, Equal(a, b))
}

func TestEqualNumbers(t *testing.T) {
	assert.True(t, Equal(Number("1.5"), Number("1.50")), "equal values with different literals")
	assert.False(t, Equal(Number("1"), Number("2")))
	assert.False(t, Equal(Number("1"), String("1")))
}

func TestEqualSequences(t *testing.T) {
	assert.False(t, Equal(Sequence(Number("1")), Sequence(Number("1"), Number("2"))))
	assert.False(t, Equal(Sequence(String("a"), String("b")), Sequence(String("b"), String("a"))),
		"sequence order is significant")
}

func TestTypeString(t *testing.T) {
	names := map[Type]string{
		NullType:     "Null",
		BoolType:     "Boolean",
		NumberType:   "Number",
		StringType:   "String",
		MappingType:  "Mapping",
		SequenceType: "Sequence",
	}
	for typ, want := range names {
		assert.Equal(t, want, typ.String())
	}
	assert.True(t, StringType.IsScalar())
	assert.False(t, MappingType.IsScalar())
}
