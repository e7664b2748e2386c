package satip

import (
	"encoding/json"
	"fmt"
)

// Server is a discovered SAT>IP server with the metadata read from its
// description document. Optional fields are nil when the document did not
// contain the element.
type Server struct {
	// Manufacturer is <device><manufacturer>
	Manufacturer *string

	// ModelName is <device><modelName>
	ModelName *string

	// FriendlyName is <device><friendlyName>
	FriendlyName *string

	// UDN is the unique device name, e.g. "uuid:..."
	UDN *string

	// Capabilities is the satip:X_SATIPCAP tuner list, e.g. "DVBS2-4,DVBT-2"
	Capabilities *string

	// Response is the discovery reply that led to this server
	Response *DiscoveryResponse

	// DescriptionErr is set when the description was fetched but could not
	// be parsed; the metadata fields are then all nil
	DescriptionErr error
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ManufacturerName returns the manufacturer or "" when absent
func (s *Server) ManufacturerName() string { return value(s.Manufacturer) }

// Model returns the model name or "" when absent
func (s *Server) Model() string { return value(s.ModelName) }

// Name returns the friendly name, falling back to manufacturer and model
func (s *Server) Name() string {
	if name := value(s.FriendlyName); name != "" {
		return name
	}
	if s.Manufacturer != nil || s.ModelName != nil {
		return fmt.Sprintf("%s %s", s.ManufacturerName(), s.Model())
	}
	return "Unknown SAT>IP server"
}

// Host returns the host of the description location
func (s *Server) Host() string {
	if s.Response == nil || s.Response.Location == nil {
		return ""
	}
	return s.Response.Location.Hostname()
}

// String returns a human-readable string representation of the server
func (s *Server) String() string {
	return fmt.Sprintf("SAT>IP Server %s at %s", s.Name(), s.Host())
}

// serverJSON is the stable JSON shape used by the CLI json output
type serverJSON struct {
	Manufacturer *string `json:"manufacturer"`
	ModelName    *string `json:"model_name"`
	FriendlyName *string `json:"friendly_name,omitempty"`
	UDN          *string `json:"udn,omitempty"`
	Capabilities *string `json:"capabilities,omitempty"`
	USN          string  `json:"usn"`
	Location     string  `json:"location"`
	Sender       string  `json:"sender,omitempty"`
	ServerHeader string  `json:"server_header,omitempty"`
	Error        string  `json:"description_error,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (s *Server) MarshalJSON() ([]byte, error) {
	out := serverJSON{
		Manufacturer: s.Manufacturer,
		ModelName:    s.ModelName,
		FriendlyName: s.FriendlyName,
		UDN:          s.UDN,
		Capabilities: s.Capabilities,
	}
	if s.Response != nil {
		out.USN = s.Response.USN
		out.ServerHeader = s.Response.Server
		if s.Response.Location != nil {
			out.Location = s.Response.Location.String()
		}
		if s.Response.Sender != nil {
			out.Sender = s.Response.Sender.String()
		}
	}
	if s.DescriptionErr != nil {
		out.Error = s.DescriptionErr.Error()
	}
	return json.Marshal(out)
}
