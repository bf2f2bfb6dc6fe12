package proposal

import (
	"testing"

	"github.com/icodeforyou/solarproposal-go/types/maybe"
)

func TestBreakevenText(t *testing.T) {
	tests := []struct {
		breakeven maybe.Maybe[int]
		lang      Language
		expected  string
	}{
		{maybe.Some(72), LanguageSerbian, "6 godina"},
		{maybe.Some(73), LanguageSerbian, "6 godina i 1 mesec"},
		{maybe.Some(74), LanguageSerbian, "6 godina i 2 meseca"},
		{maybe.Some(76), LanguageSerbian, "6 godina i 4 meseca"},
		{maybe.Some(77), LanguageSerbian, "6 godina i 5 meseci"},
		{maybe.Some(11), LanguageSerbian, "0 godina i 11 meseci"},
		{maybe.None[int](), LanguageSerbian, "nije dostignuto za 25 godina"},
		{maybe.Some(74), LanguageEnglish, "6 years and 2 months"},
		{maybe.Some(13), LanguageEnglish, "1 year and 1 month"},
		{maybe.Some(24), LanguageEnglish, "2 years"},
		{maybe.None[int](), LanguageEnglish, "not reached within 25 years"},
	}

	for _, tt := range tests {
		if got := BreakevenText(tt.breakeven, 300, tt.lang); got != tt.expected {
			t.Errorf("got %q, wanted %q", got, tt.expected)
		}
	}
}
