package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCity(t *testing.T) {
	tests := []struct {
		message string
		want    string
		ok      bool
	}{
		{"What's the weather in Tokyo?", "Tokyo", true},
		{"weather in new york today", "New York", true},
		{"What's the weather in Paris now", "Paris", true},
		{"Temperature in   san   francisco please", "San Francisco", true},
		{"forecast for london", "London", true},
		// "weather X" wins before "in X", so the preposition survives.
		{"What's the weather like in Paris today?", "In Paris", true},
		{"weather", "", false},
		{"weather today", "", false},
		{"weather now please", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.message, func(t *testing.T) {
			got, ok := ExtractCity(tc.message)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExtractQuery(t *testing.T) {
	tests := []struct {
		message string
		want    string
		ok      bool
	}{
		{"search for python tutorials please", "python tutorials", true},
		{"Search golang channels", "golang channels", true},
		{"find vegan recipes for me", "vegan recipes", true},
		{"look up the capital of peru?", "the capital of peru", true},
		{"google rust borrow checker thanks", "rust borrow checker", true},
		{"search for cats thank you", "cats", true},
		{"search please", "", false},
		{"search", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.message, func(t *testing.T) {
			got, ok := ExtractQuery(tc.message)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExtractEmailParts(t *testing.T) {
	t.Run("full request", func(t *testing.T) {
		parts, ok := ExtractEmailParts("Send an email to user@example.com with subject 'Hi' and message 'See you soon'")
		require.True(t, ok)
		assert.Equal(t, EmailParts{To: "user@example.com", Subject: "Hi", Body: "See you soon"}, parts)
	})

	t.Run("defaults", func(t *testing.T) {
		parts, ok := ExtractEmailParts("email first.last@mail.example.org")
		require.True(t, ok)
		assert.Equal(t, "first.last@mail.example.org", parts.To)
		assert.Equal(t, DefaultEmailSubject, parts.Subject)
		assert.Equal(t, DefaultEmailBody, parts.Body)
	})

	t.Run("double quotes and case", func(t *testing.T) {
		parts, ok := ExtractEmailParts(`mail bob@corp.io SUBJECT "Lunch" Message "Noon at Café"`)
		require.True(t, ok)
		assert.Equal(t, "Lunch", parts.Subject)
		assert.Equal(t, "Noon at Café", parts.Body)
	})

	t.Run("no address", func(t *testing.T) {
		_, ok := ExtractEmailParts("send an email to my mom")
		assert.False(t, ok)
	})
}

func TestExtractSetsOnlyMatchingField(t *testing.T) {
	args := Extract(IntentWeather, "weather in Tokyo")
	require.NotNil(t, args.City)
	assert.Equal(t, "Tokyo", *args.City)
	assert.Nil(t, args.Query)
	assert.Nil(t, args.Email)

	args = Extract(IntentSearch, "search for weather in Tokyo")
	require.NotNil(t, args.Query)
	assert.Nil(t, args.City)

	args = Extract(IntentEmail, "send an email to a@b.co")
	require.NotNil(t, args.Email)
	assert.Nil(t, args.City)

	assert.Equal(t, Arguments{}, Extract(IntentNone, "weather in Tokyo"))
	assert.Equal(t, Arguments{}, Extract(IntentWeather, "weather"))
}
