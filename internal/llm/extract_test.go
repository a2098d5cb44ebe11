package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "bare object", in: `{"a":1}`, want: `{"a":1}`},
		{name: "fenced", in: "Here you go:\n```json\n{\"a\": [1, 2]}\n```\nEnjoy!", want: `{"a": [1, 2]}`},
		{name: "prose around", in: `Sure! {"meal":"lunch","note":"use {braces}"} hope that helps`, want: `{"meal":"lunch","note":"use {braces}"}`},
		{name: "escaped quote", in: `x {"q":"say \"hi\" }"} y`, want: `{"q":"say \"hi\" }"}`},
		{name: "array", in: `result: [{"a":1},{"a":2}] done`, want: `[{"a":1},{"a":2}]`},
		{name: "skips invalid first candidate", in: `{not json} then {"ok":true}`, want: `{"ok":true}`},
		{name: "fenced block beats prose brackets", in: "Step [1] of 2:\n```json\n{\"a\": 1}\n```", want: `{"a": 1}`},
		{name: "unlabelled fence", in: "see [note] below\n```\n[{\"a\":2}]\n```", want: `[{"a":2}]`},
		{name: "invalid fence falls back to prose", in: "{\"ok\":true}\n```json\nnot json\n```", want: `{"ok":true}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractJSON(tc.in)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestExtractJSONFailures(t *testing.T) {
	for _, in := range []string{"", "no json here", `{"unterminated": `, "```json\n```"} {
		_, err := ExtractJSON(in)
		require.ErrorIs(t, err, ErrMalformedJSON, "input %q", in)
	}
}

func TestDecodeJSON(t *testing.T) {
	var out struct {
		Calories float64 `json:"calories"`
	}
	require.NoError(t, DecodeJSON("```json\n{\"calories\": 320}\n```", &out))
	require.Equal(t, 320.0, out.Calories)

	err := DecodeJSON(`{"calories": "lots"}`, &out)
	require.True(t, errors.Is(err, ErrMalformedJSON))
}
