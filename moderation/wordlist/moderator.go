package wordlist

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/w-h-a/librarian/moderation"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// wordlistModerator rejects text containing any blocked word. Matching is
// whole-word, case-insensitive, and diacritic-insensitive, so "tâmpit" and
// "tampit" hit the same entry.
type wordlistModerator struct {
	options moderation.Options
	blocked map[string]struct{}
}

func (m *wordlistModerator) Allowed(ctx context.Context, text string) (bool, error) {
	for _, word := range wordPattern.FindAllString(fold(text), -1) {
		if _, ok := m.blocked[word]; ok {
			return false, nil
		}
	}
	return true, nil
}

// fold lowercases and strips combining marks, approximating an ASCII
// transliteration of accented input.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

func NewModerator(opts ...moderation.Option) moderation.Moderator {
	options := moderation.NewOptions(opts...)

	words := options.Words
	if len(words) == 0 {
		words = DefaultWords
	}

	blocked := make(map[string]struct{}, len(words))
	for _, w := range words {
		blocked[fold(w)] = struct{}{}
	}

	return &wordlistModerator{
		options: options,
		blocked: blocked,
	}
}
