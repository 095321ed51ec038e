package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeValue(t *testing.T) {
	tests := []struct {
		input   any
		want    any
		name    string
		wantErr bool
	}{
		{name: "string", input: "x", want: "x"},
		{name: "int", input: 5, want: int64(5)},
		{name: "uint32", input: uint32(5), want: int64(5)},
		{name: "float32", input: float32(0.5), want: 0.5},
		{name: "json int", input: json.Number("12"), want: int64(12)},
		{name: "json float", input: json.Number("1.25"), want: 1.25},
		{name: "string slice", input: []string{"a"}, want: []any{"a"}},
		{name: "int slice", input: []int{1, 2}, want: []any{int64(1), int64(2)}},
		{name: "string map", input: map[string]string{"k": "v"}, want: map[string]any{"k": "v"}},
		{name: "nested", input: map[string]any{"l": []any{1}}, want: map[string]any{"l": []any{int64(1)}}},
		{name: "nil", input: nil, want: nil},
		{name: "NaN", input: math.NaN(), wantErr: true},
		{name: "overflow", input: uint64(math.MaxUint64), wantErr: true},
		{name: "struct", input: struct{}{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeValue(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindString, KindOf("x"))
	assert.Equal(t, KindInt, KindOf(int64(1)))
	assert.Equal(t, KindFloat, KindOf(1.5))
	assert.Equal(t, KindBool, KindOf(true))
	assert.Equal(t, KindList, KindOf([]any{}))
	assert.Equal(t, KindMap, KindOf(map[string]any{}))
	assert.Equal(t, KindNull, KindOf(nil))
	assert.Equal(t, Kind(""), KindOf(1), "ненормализованный int не распознается")
	assert.True(t, KindFloat.IsNumeric())
	assert.False(t, KindString.IsNumeric())
}

func TestEqualValues(t *testing.T) {
	assert.True(t, EqualValues(int64(3), 3.0))
	assert.True(t, EqualValues([]any{"a", int64(1)}, []any{"a", int64(1)}))
	assert.False(t, EqualValues([]any{"a", "b"}, []any{"b", "a"}), "порядок списка значим")
	assert.True(t, EqualValues(map[string]any{"a": "1", "b": "2"}, map[string]any{"b": "2", "a": "1"}))
	assert.False(t, EqualValues("1", int64(1)))
}

func TestMarshalCanonical(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{
		"b":    []any{int64(1), 2.5, true, nil},
		"a":    "<&>",
		"zero": -0.0,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"a":"<&>","b":[1,2.5,true,null],"zero":0}`, string(got))
}

func TestMarshalCanonical_UTF16KeyOrder(t *testing.T) {
	// U+E000 (один UTF-16 unit 0xE000) должен идти после U+1F600 (суррогаты 0xD83D...)
	got, err := MarshalCanonical(map[string]any{"\uE000": int64(1), "\U0001F600": int64(2)})
	require.NoError(t, err)
	assert.Equal(t, "{\"\U0001F600\":2,\"\uE000\":1}", string(got))
}
