package title

import (
	"testing"

	"mockchat/mockchat/sources/store"

	"github.com/stretchr/testify/assert"
)

func user(content string) store.Message {
	return store.Message{Role: store.RoleUser, Content: content}
}

func assistant(content string) store.Message {
	return store.Message{Role: store.RoleAssistant, Content: content}
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name string
		msgs []store.Message
		want string
	}{
		{"empty", nil, Default},
		{"assistant only", []store.Message{assistant("hello")}, Default},
		{"blank user", []store.Message{user("   ")}, Default},
		{"greeting", []store.Message{user("hi there")}, "Casual Greeting"},
		{"greeting substring", []store.Message{user("What is this?")}, "Casual Greeting"},
		{"technical", []store.Message{user("Explain React hooks")}, "Technical Discussion"},
		{"dotnet", []store.Message{user("Migrating to .NET 8")}, "Technical Discussion"},
		{"travel", []store.Message{user("Book a TRIP to Rome")}, "Travel Planning"},
		{"entertainment", []store.Message{user("Good movie picks")}, "Entertainment Chat"},
		{"planning", []store.Message{user("Organize my tasks")}, "Work Planning"},
		{"weather", []store.Message{user("Tomorrow's forecast")}, "Weather Check"},
		{"fallback", []store.Message{user("Quantum   computing basics explained")}, "Quantum computing basics Chat"},
		{"fallback short", []store.Message{user("Sourdough")}, "Sourdough Chat"},
		{"first user wins", []store.Message{assistant("welcome"), user("music please"), user("hello")}, "Entertainment Chat"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Generate(tt.msgs))
		})
	}
}

func TestGeneratePriorityOrder(t *testing.T) {
	// "api" (technical) and "trip" (travel) both match; technical comes first.
	assert.Equal(t, "Technical Discussion", Generate([]store.Message{user("trip api")}))
	// "hey" shadows everything after it.
	assert.Equal(t, "Casual Greeting", Generate([]store.Message{user("hey, plan my trip")}))
}

func TestGenerateIsDeterministic(t *testing.T) {
	msgs := []store.Message{user("Quarterly budget review")}
	first := Generate(msgs)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Generate(msgs))
	}
	assert.Equal(t, "Quarterly budget review", msgs[0].Content)
}

func TestIsPlaceholder(t *testing.T) {
	assert.True(t, IsPlaceholder(""))
	assert.True(t, IsPlaceholder(Default))
	assert.False(t, IsPlaceholder("Casual Greeting"))
	assert.False(t, IsPlaceholder("My custom title"))
}
