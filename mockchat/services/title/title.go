// Package title derives a sidebar title from a conversation's first user
// message using ordered keyword rules.
package title

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"mockchat/mockchat/sources/store"
)

const (
	// Default is returned when there is no usable user message.
	Default = "New Chat"
	// PlaceholderPrefix marks titles that may still be replaced automatically.
	PlaceholderPrefix = "New"

	fallbackWords  = 3
	fallbackSuffix = " Chat"
)

type rule struct {
	keywords []string
	label    string
}

// Earlier rules shadow later ones; keep the order.
var rules = []rule{
	{[]string{"hello", "hi", "hey"}, "Casual Greeting"},
	{[]string{"react", ".net", "api"}, "Technical Discussion"},
	{[]string{"travel", "trip"}, "Travel Planning"},
	{[]string{"music", "movie"}, "Entertainment Chat"},
	{[]string{"plan", "task"}, "Work Planning"},
	{[]string{"weather", "forecast"}, "Weather Check"},
}

// Generate returns the title for msgs. It is pure.
func Generate(msgs []store.Message) string {
	var first *store.Message
	for i := range msgs {
		if msgs[i].Role == store.RoleUser {
			first = &msgs[i]
			break
		}
	}
	if first == nil || strings.TrimSpace(first.Content) == "" {
		return Default
	}

	text := strings.ToLower(first.Content)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				return r.label
			}
		}
	}

	words := strings.Fields(text)
	if len(words) > fallbackWords {
		words = words[:fallbackWords]
	}
	return capitalize(strings.Join(words, " ")) + fallbackSuffix
}

// IsPlaceholder reports whether t may be overwritten by Generate.
func IsPlaceholder(t string) bool {
	return t == "" || strings.HasPrefix(t, PlaceholderPrefix)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
