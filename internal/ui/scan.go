package ui

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/satip/internal/satip"
)

// stateMsg reports a discovery state transition to the model
type stateMsg satip.State

// doneMsg signals that discovery returned
type doneMsg struct{}

// scanModel is a Bubble Tea model showing a spinner and the current
// discovery state until the run finishes.
type scanModel struct {
	spinner  spinner.Model
	state    satip.State
	config   satip.Config
	cancel   context.CancelFunc
	stopping bool
	done     bool
}

func newScanModel(config satip.Config, cancel context.CancelFunc) scanModel {
	return scanModel{
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(SpinnerStyle)),
		state:   satip.StateIdle,
		config:  config,
		cancel:  cancel,
	}
}

// Init implements tea.Model
func (m scanModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model
func (m scanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			// Stop collecting; the partial result still arrives as doneMsg
			m.stopping = true
			m.cancel()
		}
		return m, nil

	case stateMsg:
		m.state = satip.State(msg)
		return m, nil

	case doneMsg:
		m.done = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model
func (m scanModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("  %s %s\n", m.spinner.View(), StatusLabelStyle.Render(m.label()))
}

func (m scanModel) label() string {
	if m.stopping {
		return "Stopping..."
	}
	switch m.state {
	case satip.StateBound:
		return "Socket bound, sending search request"
	case satip.StateRequestSent:
		return "Search request sent to " + m.config.MulticastAddress
	case satip.StateCollecting:
		return fmt.Sprintf("Waiting %s for SAT>IP servers to answer", m.config.WaitTime)
	default:
		return "Preparing discovery"
	}
}

type scanResult struct {
	servers []*satip.Server
	err     error
}

// RunScan runs d while showing a spinner on out. Pressing ctrl+c ends
// collection early; replies already received are still resolved and returned.
func RunScan(ctx context.Context, d *satip.Discoverer, out io.Writer) ([]*satip.Server, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newScanModel(d.Config, cancel), tea.WithOutput(out))

	run := *d
	run.OnStateChange = func(s satip.State) {
		if d.OnStateChange != nil {
			d.OnStateChange(s)
		}
		p.Send(stateMsg(s))
	}

	results := make(chan scanResult, 1)
	go func() {
		servers, err := run.Discover(ctx)
		results <- scanResult{servers: servers, err: err}
		p.Send(doneMsg{})
	}()

	// A failed terminal only loses the spinner, not the result
	if _, err := p.Run(); err != nil {
		cancel()
	}

	res := <-results
	return res.servers, res.err
}
