package reply

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompose(t *testing.T) {
	assert.Equal(t, `Mocked streaming reply to: "hello" 😊 (Friendly tone)`, Compose("hello", ToneFriendly))
	assert.Equal(t, `Mocked streaming reply to: "hello" (Concise tone)`, Compose("hello", ToneConcise))
	assert.Equal(t, `Mocked streaming reply to: "hello"`, Compose("hello", "Default assistant behavior"))
	assert.Equal(t, `Mocked streaming reply to: "hello"`, Compose("hello", ""))
	assert.Equal(t, Greeting, Compose("", ToneFriendly))
}

func TestComposeKeepsPromptVerbatim(t *testing.T) {
	assert.Equal(t, `Mocked streaming reply to: "say "cheese""`, Compose(`say "cheese"`, ""))
}

func TestToneSuffixIsExactMatch(t *testing.T) {
	assert.Equal(t, "", ToneSuffix("be friendly and casual"))
	assert.Equal(t, "", ToneSuffix(ToneFriendly+" "))
}

func TestTokenize(t *testing.T) {
	tokens := Tokenize(Compose("plan my  trip", ToneConcise))
	assert.Len(t, tokens, 9)
	assert.Equal(t, `Mocked streaming reply to: "plan my trip" (Concise tone)`, strings.Join(tokens, " "))
	assert.Empty(t, Tokenize("   "))
}
