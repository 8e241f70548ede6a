package slugai

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxSlugLength is the longest slug Sanitize returns, in bytes.
const MaxSlugLength = 200

// ligatures covers letters that have no canonical decomposition.
var ligatures = strings.NewReplacer(
	"ß", "ss", "ẞ", "ss",
	"æ", "ae", "Æ", "ae",
	"œ", "oe", "Œ", "oe",
	"ø", "o", "Ø", "o",
	"đ", "d", "Đ", "d",
	"ð", "d", "Ð", "d",
	"ł", "l", "Ł", "l",
	"þ", "th", "Þ", "th",
	"ı", "i",
)

// Sanitize normalizes arbitrary text into a URL-safe slug made of [a-z0-9_-].
// Tags are stripped, accents transliterated, and runs of separators collapse
// into a single hyphen. Sanitize is idempotent.
func Sanitize(text string) string {
	text = stripTags(text)
	text = ligatures.Replace(text)
	text = removeAccents(text)
	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))

	lastWasDash := true // suppresses a leading hyphen
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
			lastWasDash = false
		case isSeparator(r):
			if !lastWasDash {
				b.WriteByte('-')
				lastWasDash = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")
	if len(slug) > MaxSlugLength {
		slug = strings.TrimRight(slug[:MaxSlugLength], "-")
	}
	return slug
}

func isSeparator(r rune) bool {
	switch r {
	case '-', '.', '/', '\\', ' ', '–', '—', '‐', '‑', '−':
		return true
	}
	return unicode.IsSpace(r)
}

// stripTags removes markup and decodes entities.
func stripTags(text string) string {
	if !strings.ContainsAny(text, "<&") {
		return text
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return text
	}
	return doc.Text()
}

func removeAccents(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return result
}
