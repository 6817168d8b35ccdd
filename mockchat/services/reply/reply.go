// Package reply builds the canned assistant reply that gets streamed back.
package reply

import (
	"fmt"
	"strings"
)

const (
	ToneConcise  = "Be concise and professional"
	ToneFriendly = "Be friendly and casual"

	// Greeting is sent when the prompt is empty.
	Greeting = "Hello! 👋 This is your new chat — how can I help?"
)

var toneSuffixes = map[string]string{
	ToneConcise:  " (Concise tone)",
	ToneFriendly: " 😊 (Friendly tone)",
}

// ToneSuffix returns the suffix for an exact tone match, or "".
func ToneSuffix(tone string) string {
	return toneSuffixes[tone]
}

// Compose returns the full reply text for prompt and tone.
func Compose(prompt, tone string) string {
	if prompt == "" {
		return Greeting
	}
	return fmt.Sprintf(`Mocked streaming reply to: "%s"%s`, prompt, ToneSuffix(tone))
}

// Tokenize splits a reply into the words that are streamed one per tick.
func Tokenize(text string) []string {
	return strings.Fields(text)
}
