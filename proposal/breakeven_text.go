package proposal

import (
	"fmt"

	"github.com/icodeforyou/solarproposal-go/months"
	"github.com/icodeforyou/solarproposal-go/types/maybe"
)

type Language string

const (
	LanguageSerbian Language = "sr"
	LanguageEnglish Language = "en"
)

// BreakevenText spells out the payback time, i.e. "6 godina i 2 meseca".
func BreakevenText(breakeven maybe.Maybe[int], horizonMonths int, lang Language) string {
	if !breakeven.IsValid() {
		years := months.Years(horizonMonths)
		if lang == LanguageEnglish {
			return fmt.Sprintf("not reached within %d years", years)
		}
		return fmt.Sprintf("nije dostignuto za %d godina", years)
	}

	years := breakeven.Value() / months.PerYear
	extra := breakeven.Value() % months.PerYear

	if lang == LanguageEnglish {
		return englishDuration(years, extra)
	}
	return serbianDuration(years, extra)
}

// Serbian takes "mesec" for 1, "meseca" for 2-4 and "meseci" from 5.
func serbianDuration(years, extra int) string {
	switch {
	case extra == 0:
		return fmt.Sprintf("%d godina", years)
	case extra == 1:
		return fmt.Sprintf("%d godina i %d mesec", years, extra)
	case extra < 5:
		return fmt.Sprintf("%d godina i %d meseca", years, extra)
	default:
		return fmt.Sprintf("%d godina i %d meseci", years, extra)
	}
}

func englishDuration(years, extra int) string {
	plural := func(n int, unit string) string {
		if n == 1 {
			return fmt.Sprintf("%d %s", n, unit)
		}
		return fmt.Sprintf("%d %ss", n, unit)
	}
	if extra == 0 {
		return plural(years, "year")
	}
	return plural(years, "year") + " and " + plural(extra, "month")
}
