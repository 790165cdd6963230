package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Foo: Bar", "Foo_ Bar"},
		{"a/b\\c", "a_b_c"},
		{`what? "quotes" <and> |pipes|`, "what_ _quotes_ _and_ _pipes_"},
		{"  padded  ", "padded"},
		{"", ""},
		{"plain name", "plain name"},
	}
	for _, tc := range cases {
		if got := SanitizeFileName(tc.in); got != tc.want {
			t.Fatalf("SanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeFileNameNormalizesUnicode(t *testing.T) {
	// e followed by a combining acute accent collapses to the composed form.
	decomposed := "Café"
	composed := "Café"
	if got := SanitizeFileName(decomposed); got != composed {
		t.Fatalf("SanitizeFileName(%q) = %q, want %q", decomposed, got, composed)
	}
}

func TestReplaceColons(t *testing.T) {
	if got := ReplaceColons("2026-08-29 21:00:00"); got != "2026-08-29 21-00-00" {
		t.Fatalf("ReplaceColons = %q", got)
	}
}
