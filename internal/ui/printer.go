package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/muurk/satip/internal/satip"
)

// Printer writes discovery output to a writer.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
	}
}

// SetWidth overrides the detected terminal width
func (p *Printer) SetWidth(width int) *Printer {
	p.width = width
	return p
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader prints the scan banner for cfg
func (p *Printer) PrintHeader(command string, cfg satip.Config) {
	header := NewHeader("SAT>IP Discovery", command,
		Param{Key: "Target", Value: cfg.MulticastAddress},
		Param{Key: "Bind", Value: cfg.BindAddress},
		Param{Key: "Wait", Value: cfg.WaitTime.String()},
	)
	p.Println(header.SetWidth(p.width).Render())
	p.Newline()
}

// PrintServers prints servers in the given format (detailed, compact or json)
func (p *Printer) PrintServers(servers []*satip.Server, format string, elapsed time.Duration) error {
	switch format {
	case "json":
		return p.printJSON(servers)
	case "compact":
		p.printCompact(servers)
		return nil
	default:
		p.printDetailed(servers, elapsed)
		return nil
	}
}

func (p *Printer) printJSON(servers []*satip.Server) error {
	if servers == nil {
		servers = []*satip.Server{}
	}
	encoder := json.NewEncoder(p.out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(servers); err != nil {
		return fmt.Errorf("failed to encode servers: %w", err)
	}
	return nil
}

// printCompact prints one line per server: host, name, capabilities
func (p *Printer) printCompact(servers []*satip.Server) {
	for _, s := range servers {
		line := fmt.Sprintf("%-16s %s", s.Host(), s.Name())
		if s.Capabilities != nil && *s.Capabilities != "" {
			line += "  [" + *s.Capabilities + "]"
		}
		p.Println(line)
	}
}

func (p *Printer) printDetailed(servers []*satip.Server, elapsed time.Duration) {
	if len(servers) == 0 {
		p.PrintNoServers(elapsed)
		return
	}

	for i, s := range servers {
		result := NewSuccessResult(fmt.Sprintf("%s (%d/%d)", s.Name(), i+1, len(servers))).
			AddDetail("Manufacturer", s.ManufacturerName()).
			AddDetail("Model", s.Model()).
			AddDetail("Host", s.Host()).
			AddDetail("Capabilities", valueOf(s.Capabilities)).
			AddDetail("UDN", valueOf(s.UDN))
		if s.Response != nil {
			result.AddDetail("Description", s.Response.Location.String()).
				AddDetail("USN", s.Response.USN).
				AddDetail("Server", s.Response.Server)
		}
		if s.DescriptionErr != nil {
			result.Type = ResultWarning
			result.AddDetail("Problem", satip.ShortMessage(s.DescriptionErr))
		}
		p.Println(result.SetWidth(p.width).Render())
	}
	p.Println(fmt.Sprintf("  %d server(s) found in %s", len(servers), elapsed.Round(time.Millisecond)))
}

// PrintNoServers prints the warning shown when nobody answered
func (p *Printer) PrintNoServers(elapsed time.Duration) {
	result := NewWarningResult("No SAT>IP servers found",
		Detail{Key: "Waited", Value: elapsed.Round(time.Millisecond).String()},
		Detail{Key: "Hint", Value: "Increase --wait or check the network"},
	)
	p.Println(result.SetWidth(p.width).Render())
}

// PrintDiscoveryError prints a failure box with troubleshooting tips
func (p *Printer) PrintDiscoveryError(err error) {
	result := NewFailureResult(satip.ShortMessage(err), err, satip.TroubleshootingTips(err))
	p.Println(result.SetWidth(p.width).Render())
}

// PrintSettings prints settings as key/value lines
func (p *Printer) PrintSettings(path string, cfg satip.Config, format string) {
	result := NewSuccessResult("Configuration")
	result.Label = "SETTINGS"
	result.AddDetail("File", path).
		AddDetail("Bind", cfg.BindAddress).
		AddDetail("Target", cfg.MulticastAddress).
		AddDetail("Wait", cfg.WaitTime.String()).
		AddDetail("User agent", cfg.UserAgent).
		AddDetail("Prefer source", strconv.FormatBool(cfg.PreferSourceAddr)).
		AddDetail("Max responses", strconv.Itoa(cfg.MaxResponses)).
		AddDetail("Fetch timeout", cfg.DescriptionTimeout.String()).
		AddDetail("Concurrency", strconv.Itoa(cfg.FetchConcurrency)).
		AddDetail("Multicast TTL", strconv.Itoa(cfg.MulticastTTL)).
		AddDetail("Interface", cfg.Interface).
		AddDetail("Format", format)
	p.Println(result.SetWidth(p.width).Render())
}

func valueOf(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
