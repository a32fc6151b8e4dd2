package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultSlug được dùng khi title không còn ký tự nào sau khi clean
const DefaultSlug = "livro"

var (
	nonAlnumRun = regexp.MustCompile(`[^a-z0-9]+`)

	// Ký tự không tách được bằng NFD
	ligatures = strings.NewReplacer(
		"đ", "d", "Đ", "D",
		"ø", "o", "Ø", "O",
		"ł", "l", "Ł", "L",
		"ß", "ss",
		"æ", "ae", "Æ", "AE",
		"œ", "oe", "Œ", "OE",
	)
)

// GenerateSlug builds a URL-safe slug.
// "Terra Sonâmbula: Edição Especial" → "terra-sonambula-edicao-especial"
func GenerateSlug(input string) string {
	// Step 1: bỏ dấu (á → a, ç → c)
	ascii := RemoveDiacritics(input)

	// Step 2: lowercase
	lower := strings.ToLower(ascii)

	// Step 3: mọi chuỗi ký tự không phải a-z0-9 → một dấu "-"
	hyphenated := nonAlnumRun.ReplaceAllString(lower, "-")

	// Step 4: trim "-" đầu/cuối
	return strings.Trim(hyphenated, "-")
}

// RemoveDiacritics strips combining marks after canonical decomposition.
func RemoveDiacritics(input string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, ligatures.Replace(input))
	if err != nil {
		return input
	}
	return out
}

// SlugSet hands out unique slugs: the first "x" stays "x", later ones become
// "x-2", "x-3", ... skipping any candidate already taken.
type SlugSet struct {
	used map[string]struct{}
}

func NewSlugSet() *SlugSet {
	return &SlugSet{used: make(map[string]struct{})}
}

// Unique derives a slug from title and reserves it.
func (s *SlugSet) Unique(title string) string {
	base := GenerateSlug(title)
	if base == "" {
		base = DefaultSlug
	}

	if s.reserve(base) {
		return base
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", base, n)
		if s.reserve(candidate) {
			return candidate
		}
	}
}

func (s *SlugSet) reserve(slug string) bool {
	if _, taken := s.used[slug]; taken {
		return false
	}
	s.used[slug] = struct{}{}
	return true
}
