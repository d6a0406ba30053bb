package logo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenExpect struct {
	kind tokenKind
	text string
	num  float32
}

func scanAll(t *testing.T, in *Interp, src string) []token {
	t.Helper()
	sc := in.newScanner(src)
	var toks []token
	for {
		tok, err := sc.next()
		require.Nil(t, err, "scan error in %q", src)
		if tok.kind == tkEOF {
			return toks
		}
		toks = append(toks, tok)
	}
}

func assertTokens(t *testing.T, got []token, want []tokenExpect) {
	t.Helper()
	require.Len(t, got, len(want))
	for i, w := range want {
		assert.Equal(t, w.kind, got[i].kind, "token %d kind", i)
		if w.text != "" {
			assert.Equal(t, w.text, got[i].text, "token %d text", i)
		}
		if w.kind == tkNumber {
			assert.InDelta(t, w.num, got[i].num, 1e-6, "token %d value", i)
		}
	}
}

func TestScanBasics(t *testing.T) {
	in := New()
	for _, tc := range []struct {
		name string
		src  string
		want []tokenExpect
	}{
		{"words and literals", `print "hi :x 42`, []tokenExpect{
			{kind: tkWord, text: "print"},
			{kind: tkQuoted, text: "hi"},
			{kind: tkColon, text: "x"},
			{kind: tkNumber, num: 42},
		}},
		{"operators", "1 + 2 * 3 = 7", []tokenExpect{
			{kind: tkNumber, num: 1},
			{kind: tkPlus},
			{kind: tkNumber, num: 2},
			{kind: tkStar},
			{kind: tkNumber, num: 3},
			{kind: tkEquals},
			{kind: tkNumber, num: 7},
		}},
		{"minus after number is infix", "42 -3", []tokenExpect{
			{kind: tkNumber, num: 42},
			{kind: tkMinus},
			{kind: tkNumber, num: 3},
		}},
		{"minus after word starts a literal", "print -3", []tokenExpect{
			{kind: tkWord, text: "print"},
			{kind: tkNumber, num: -3},
		}},
		{"minus after colon is infix", ":n - 1", []tokenExpect{
			{kind: tkColon, text: "n"},
			{kind: tkMinus},
			{kind: tkNumber, num: 1},
		}},
		{"standalone negation", "print - x", []tokenExpect{
			{kind: tkWord, text: "print"},
			{kind: tkUnaryMinus},
			{kind: tkWord, text: "x"},
		}},
		{"negative exponent suffix", "1n4 2e3", []tokenExpect{
			{kind: tkNumber, num: 0.0001},
			{kind: tkNumber, num: 2000},
		}},
		{"comment runs to end of line", "1 ; two 3", []tokenExpect{
			{kind: tkNumber, num: 1},
		}},
		{"parens", "( x )", []tokenExpect{
			{kind: tkLeftParen},
			{kind: tkWord, text: "x"},
			{kind: tkRightParen},
		}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assertTokens(t, scanAll(t, in, tc.src), tc.want)
		})
	}
}

func TestScanListBuildsSublists(t *testing.T) {
	in := New()
	toks := scanAll(t, in, "[a [b] c]")
	require.Len(t, toks, 1)
	require.Equal(t, tkLeftBracket, toks[0].kind)

	v := ListVal(toks[0].list)
	assert.Equal(t, "a [b] c", FormatValue(in.store, v))
	assert.Equal(t, "[a [b] c]", ShowValue(in.store, v))
}

func TestScanUnclosedList(t *testing.T) {
	in := New()
	sc := in.newScanner("[a b")
	_, err := sc.next()
	require.NotNil(t, err)
	assert.Equal(t, ErrUnexpected, err.Code)
}

func TestParseNumber(t *testing.T) {
	for _, tc := range []struct {
		text string
		want float32
		ok   bool
	}{
		{"42", 42, true},
		{"1.5", 1.5, true},
		{"-7", -7, true},
		{"2e3", 2000, true},
		{"1n4", 0.0001, true},
		{"25n2", 0.25, true},
		{"n4", 0, false},
		{"1n", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	} {
		got, ok := parseNumber(tc.text)
		assert.Equal(t, tc.ok, ok, "parseNumber(%q)", tc.text)
		if tc.ok {
			assert.InDelta(t, tc.want, got, 1e-7, "parseNumber(%q)", tc.text)
		}
	}
}

// The list re-tokenizer must classify stored words exactly the way the
// scanner classified the original text.
func TestListReaderMatchesScanner(t *testing.T) {
	in := New()
	const src = `print "a :b 2 + 3 ( x )`

	toks := scanAll(t, in, "["+src+"]")
	require.Len(t, toks, 1)

	lr := in.newListReader(toks[0].list)
	defer lr.close()

	want := scanAll(t, in, src)
	for i, w := range want {
		got, err := lr.next()
		require.Nil(t, err)
		assert.Equal(t, w.kind, got.kind, "token %d kind", i)
		assert.Equal(t, w.text, got.text, "token %d text", i)
		if w.kind == tkNumber {
			assert.InDelta(t, w.num, got.num, 1e-6, "token %d value", i)
		}
	}
	end, err := lr.next()
	require.Nil(t, err)
	assert.Equal(t, tkEOF, end.kind)
}
