package chat

import "testing"

func TestSimilarity(t *testing.T) {
	cases := []struct {
		name string
		a, b string
		want int
	}{
		{name: "identical", a: "jak se resetuje heslo", b: "jak se resetuje heslo", want: 100},
		{name: "empty query", a: "", b: "jak se resetuje heslo", want: 0},
		{name: "empty candidate", a: "jak se resetuje heslo", b: "", want: 0},
		{name: "single edit", a: "abcde", b: "abcd", want: 80},
		{name: "disjoint", a: "xxxx", b: "yyyy", want: 0},
		{name: "substitution", a: "pocasi", b: "pocasy", want: 83},
		{name: "accented runes count once", a: "počasí", b: "pocasi", want: 67},
	}

	for _, tc := range cases {
		if got := similarity(tc.a, tc.b); got != tc.want {
			t.Fatalf("%s: similarity(%q, %q) = %d, want %d", tc.name, tc.a, tc.b, got, tc.want)
		}
	}
}

func TestSimilarityBounds(t *testing.T) {
	for _, pair := range [][2]string{
		{"a", "completely different and much longer"},
		{"práh", "prah"},
		{"žluťoučký kůň", "zlutoucky kun"},
	} {
		got := similarity(pair[0], pair[1])
		if got < 0 || got > 100 {
			t.Fatalf("similarity(%q, %q) = %d, out of [0,100]", pair[0], pair[1], got)
		}
	}
}
