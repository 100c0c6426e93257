package api

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeParams(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		text    string
		want    Params
		wantMsg string
	}{
		{name: "empty text", text: "", wantMsg: "malformed JSON"},
		{name: "truncated object", text: "{invalid", wantMsg: "malformed JSON"},
		{name: "array root", text: "[1,2,3]", wantMsg: "root must be an object"},
		{name: "scalar root", text: "42", wantMsg: "root must be an object"},
		{name: "string root", text: `"hello"`, wantMsg: "root must be an object"},
		{name: "null root", text: "null", wantMsg: "root must be an object"},
		{name: "empty object", text: "{}", want: Params{}},
		{
			name: "passthrough without coercion",
			text: `{"page":1,"type":"TRANSFER","nested":{"a":[1,2]},"flag":true,"gone":null}`,
			want: Params{
				"page":   float64(1),
				"type":   "TRANSFER",
				"nested": map[string]any{"a": []any{float64(1), float64(2)}},
				"flag":   true,
				"gone":   nil,
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := DecodeParams(tc.text)
			if tc.wantMsg != "" {
				require.Error(t, err)
				apiErr := Classify(err)
				require.Equal(t, KindInvalidInput, apiErr.Kind)
				require.Equal(t, tc.wantMsg, apiErr.Message)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}
