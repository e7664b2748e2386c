package ui

import (
	"bytes"
	"encoding/json"
	"errors"
	"net"
	"net/url"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/satip/internal/satip"
)

func strPtr(s string) *string { return &s }

func testServers(t *testing.T) []*satip.Server {
	t.Helper()

	location, err := url.Parse("http://192.168.1.20:8000/desc.xml")
	if err != nil {
		t.Fatal(err)
	}
	return []*satip.Server{
		{
			Manufacturer: strPtr("ACME"),
			ModelName:    strPtr("Tuner9000"),
			Capabilities: strPtr("DVBS2-4"),
			Response: &satip.DiscoveryResponse{
				USN:      "uuid:acme-1::urn:ses-com:device:SatIPServer:1",
				Location: location,
				Sender:   &net.UDPAddr{IP: net.IPv4(192, 168, 1, 20), Port: 1900},
			},
		},
	}
}

func TestHeaderRender(t *testing.T) {
	h := NewHeader("SAT>IP Discovery", "satip-discover scan",
		Param{Key: "Target", Value: "239.255.255.250:1900"},
		Param{Key: "Wait", Value: "3s"},
	).SetWidth(80)

	out := h.Render()
	for _, want := range []string{"SAT>IP DISCOVERY", "satip-discover scan", "Target:", "239.255.255.250:1900"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Target:") > strings.Index(out, "Wait:") {
		t.Error("params should render in the given order")
	}
}

func TestResultAddDetailSkipsEmpty(t *testing.T) {
	r := NewSuccessResult("x").AddDetail("Model", "").AddDetail("Host", "10.0.0.1")
	if len(r.Details) != 1 || r.Details[0].Key != "Host" {
		t.Errorf("Details = %+v, want only Host", r.Details)
	}
}

func TestPrintServersDetailed(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf).SetWidth(80)

	if err := p.PrintServers(testServers(t), "detailed", 3*time.Second); err != nil {
		t.Fatalf("PrintServers() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"ACME Tuner9000", "192.168.1.20", "DVBS2-4", "1 server(s) found"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintServersDetailedEmpty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf).SetWidth(80)

	if err := p.PrintServers(nil, "detailed", 3*time.Second); err != nil {
		t.Fatalf("PrintServers() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No SAT>IP servers found") {
		t.Errorf("expected no-servers warning, got:\n%s", buf.String())
	}
}

func TestPrintServersCompact(t *testing.T) {
	var buf bytes.Buffer
	if err := NewPrinter(&buf).PrintServers(testServers(t), "compact", 0); err != nil {
		t.Fatalf("PrintServers() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if !strings.HasPrefix(lines[0], "192.168.1.20") || !strings.Contains(lines[0], "[DVBS2-4]") {
		t.Errorf("compact line = %q", lines[0])
	}
}

func TestPrintServersJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := NewPrinter(&buf).PrintServers(testServers(t), "json", 0); err != nil {
		t.Fatalf("PrintServers() error = %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if len(decoded) != 1 {
		t.Fatalf("got %d entries, want 1", len(decoded))
	}
	if decoded[0]["manufacturer"] != "ACME" {
		t.Errorf("manufacturer = %v, want ACME", decoded[0]["manufacturer"])
	}
	if decoded[0]["location"] != "http://192.168.1.20:8000/desc.xml" {
		t.Errorf("location = %v", decoded[0]["location"])
	}
}

func TestPrintServersJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewPrinter(&buf).PrintServers(nil, "json", 0); err != nil {
		t.Fatalf("PrintServers() error = %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("empty JSON output = %q, want []", buf.String())
	}
}

func TestPrintDiscoveryError(t *testing.T) {
	var buf bytes.Buffer
	err := satip.NewBindError("0.0.0.0:1900", errors.New("address already in use"))

	NewPrinter(&buf).SetWidth(90).PrintDiscoveryError(err)

	out := buf.String()
	if !strings.Contains(out, "FAILED") || !strings.Contains(out, "Troubleshooting:") {
		t.Errorf("failure box incomplete:\n%s", out)
	}
}

func TestScanModel(t *testing.T) {
	cancelled := false
	cfg := satip.DefaultConfig()
	m := newScanModel(cfg, func() { cancelled = true })

	if !strings.Contains(m.View(), "Preparing discovery") {
		t.Errorf("initial view = %q", m.View())
	}

	next, _ := m.Update(stateMsg(satip.StateCollecting))
	m = next.(scanModel)
	if !strings.Contains(m.View(), "Waiting 3s") {
		t.Errorf("collecting view = %q", m.View())
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = next.(scanModel)
	if !cancelled {
		t.Error("ctrl+c should cancel the discovery context")
	}
	if !strings.Contains(m.View(), "Stopping") {
		t.Errorf("stopping view = %q", m.View())
	}

	next, cmd := m.Update(doneMsg{})
	m = next.(scanModel)
	if cmd == nil {
		t.Fatal("doneMsg should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("doneMsg should quit the program")
	}
	if m.View() != "" {
		t.Errorf("final view = %q, want empty", m.View())
	}
}
