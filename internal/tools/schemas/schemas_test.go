package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaBuilder(t *testing.T) {
	s := NewSchema("send_email", "Send an email").
		AddParam("to", "string", "Recipient address", true).
		AddParam("subject", "string", "Subject line", false).
		AddParam("body", "string", "Message body", false).
		Build()

	assert.Equal(t, "send_email", s.Name)
	assert.Equal(t, []string{"to"}, s.Required())

	props := s.Parameters["properties"].(map[string]any)
	require.Len(t, props, 3)
	assert.Equal(t, "string", props["subject"].(map[string]any)["type"])
}

func TestSchemaToJSON(t *testing.T) {
	data, err := NewSchema("get_weather", "Weather for a city").
		AddParam("city", "string", "City name", true).
		Build().
		ToJSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	params := decoded["parameters"].(map[string]any)
	assert.Equal(t, "object", params["type"])
	assert.Equal(t, []any{"city"}, params["required"])
}
