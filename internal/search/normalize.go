// Package search builds the normalized text that catalog title matching
// runs against. Titles are stored twice: verbatim for display, and folded
// into content.search_text for substring matching. Queries go through the
// same fold, so matching is case- and (optionally) diacritic-insensitive.
package search

import (
	"strings"
	"unicode"
)

// Options controls how aggressively Arabic text is folded. Stemming is
// deliberately out of scope; folding is a reversible-free character mapping.
type Options struct {
	FoldArabic bool
}

// Fold lowercases s, collapses whitespace, and, when opts.FoldArabic is set,
// strips Arabic diacritics and unifies the letter variants that Arabic
// keyboards use interchangeably (alef forms, teh marbuta, alef maqsura).
func Fold(s string, opts Options) string {
	var b strings.Builder
	b.Grow(len(s))

	lastSpace := true
	for _, r := range strings.ToLower(s) {
		if opts.FoldArabic {
			if isArabicDiacritic(r) || r == tatweel {
				continue
			}
			r = foldArabicRune(r)
		}
		if unicode.IsSpace(r) {
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
			continue
		}
		lastSpace = false
		b.WriteRune(r)
	}
	return strings.TrimRight(b.String(), " ")
}

// Terms builds the stored search_text for a content row from its titles.
func Terms(title, titleAr string, opts Options) string {
	en := Fold(title, opts)
	ar := Fold(titleAr, opts)
	switch {
	case en == "":
		return ar
	case ar == "":
		return en
	default:
		return en + " " + ar
	}
}

const tatweel = 'ـ'

// isArabicDiacritic covers the harakat range plus the superscript alef.
func isArabicDiacritic(r rune) bool {
	return (r >= 'ً' && r <= 'ٟ') || r == 'ٰ'
}

func foldArabicRune(r rune) rune {
	switch r {
	case 'آ', 'أ', 'إ', 'ٱ':
		return 'ا'
	case 'ة':
		return 'ه'
	case 'ى':
		return 'ي'
	case 'ؤ':
		return 'و'
	case 'ئ':
		return 'ي'
	}
	return r
}
