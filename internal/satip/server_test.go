package satip

import (
	"encoding/json"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestServer_Name(t *testing.T) {
	tests := []struct {
		name   string
		server Server
		want   string
	}{
		{name: "friendly name wins", server: Server{FriendlyName: strPtr("Living room"), Manufacturer: strPtr("ACME")}, want: "Living room"},
		{name: "manufacturer and model", server: Server{Manufacturer: strPtr("ACME"), ModelName: strPtr("Tuner9000")}, want: "ACME Tuner9000"},
		{name: "nothing known", server: Server{}, want: "Unknown SAT>IP server"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.server.Name())
		})
	}
}

func TestServer_MarshalJSON(t *testing.T) {
	location, err := url.Parse("http://10.0.0.5:8080/desc.xml")
	require.NoError(t, err)

	server := &Server{
		Manufacturer:   strPtr("ACME"),
		Response:       &DiscoveryResponse{USN: "uuid:abc", Location: location},
		DescriptionErr: errors.New("broken"),
	}
	assert.Equal(t, "10.0.0.5", server.Host())

	data, err := json.Marshal(server)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "ACME", decoded["manufacturer"])
	assert.Nil(t, decoded["model_name"], "absent model is null, not empty")
	assert.Equal(t, "uuid:abc", decoded["usn"])
	assert.Equal(t, "http://10.0.0.5:8080/desc.xml", decoded["location"])
	assert.Equal(t, "broken", decoded["description_error"])
	assert.NotContains(t, decoded, "udn")
}
