package ui

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/wavescrub/internal/config"
	"github.com/olivier-w/wavescrub/internal/focus"
	"github.com/olivier-w/wavescrub/internal/playback"
	"github.com/olivier-w/wavescrub/internal/player"
	"github.com/olivier-w/wavescrub/internal/waveview"
)

const (
	margin        = 2
	footerLines   = 5
	minWaveHeight = 3
	maxWaveHeight = 16
	seekStep      = 5 * time.Second
	volumeStep    = 0.05
)

// Transport is the player the model drives, including volume control.
type Transport interface {
	playback.Transport
	Volume() float64
	AdjustVolume(delta float64)
}

// Model is the Bubbletea model for the wavescrub TUI.
type Model struct {
	ctrl      *playback.Controller
	view      *waveview.View
	transport Transport
	broker    *focus.Broker
	focusCh   chan focus.Change
	status    *statusSink
	metadata  player.Metadata
	opts      config.Options

	keys    keyMap
	help    help.Model
	spinner spinner.Model

	width    int
	height   int
	quitting bool
}

// New creates a model that loads ex's waveform and plays t.
func New(t Transport, ex playback.Extractor, meta player.Metadata, opts config.Options) Model {
	broker := focus.NewBroker()
	ch := make(chan focus.Change, 8)
	var client *focus.Client
	client = broker.Client(func(c focus.Change) {
		select {
		case ch <- c:
		default:
			log.Printf("ui: dropped focus change %v for client %s", c, client.ID())
		}
	})

	s := spinner.New()
	s.Spinner = spinner.Dot

	sink := &statusSink{}
	view := waveview.New(opts)
	return Model{
		ctrl:      playback.New(t, ex, client, sink, opts),
		view:      view,
		transport: t,
		broker:    broker,
		focusCh:   ch,
		status:    sink,
		metadata:  meta,
		opts:      opts,
		keys:      defaultKeyMap(),
		help:      help.New(),
		spinner:   s,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.ctrl.LoadInto(m.view),
		m.spinner.Tick,
		m.waitForFocus(),
		tea.SetWindowTitle(windowTitle(m.metadata.Title, false)),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = max(msg.Width-2*margin, 0)
		return m, m.layout()

	case tea.MouseMsg:
		return m, m.afterPlayback(m.view.Update(msg))

	case spinner.TickMsg:
		if m.ctrl.State() != playback.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case focus.ChangeMsg:
		return m, tea.Batch(m.afterPlayback(m.ctrl.Update(msg)), m.waitForFocus())

	case tea.ResumeMsg:
		m.broker.Restore()
		return m, nil
	}

	return m, m.afterPlayback(tea.Batch(m.view.Update(msg), m.ctrl.Update(msg)))
}

// afterPlayback starts playback once loading completes and keeps the
// window title in step with the controller.
func (m Model) afterPlayback(cmd tea.Cmd) tea.Cmd {
	if m.status.takeLoaded() {
		cmd = tea.Batch(cmd, m.ctrl.Play())
	}
	return tea.Batch(cmd, m.titleCmd())
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.ctrl.Dispose()
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
	case key.Matches(msg, m.keys.Toggle):
		return m, m.afterPlayback(m.ctrl.Toggle())
	case key.Matches(msg, m.keys.Stop):
		m.ctrl.Stop(true)
		return m, m.titleCmd()
	case key.Matches(msg, m.keys.Back):
		m.ctrl.SeekBy(-seekStep)
	case key.Matches(msg, m.keys.Forward):
		m.ctrl.SeekBy(seekStep)
	case key.Matches(msg, m.keys.VolUp):
		m.transport.AdjustVolume(volumeStep)
	case key.Matches(msg, m.keys.VolDown):
		m.transport.AdjustVolume(-volumeStep)
	case key.Matches(msg, m.keys.Variant):
		m.opts.Variant = m.opts.Variant.Next()
		m.ctrl.SetOptions(m.opts)
		return m, m.view.Configure(m.opts)
	case key.Matches(msg, m.keys.Suspend):
		m.broker.Interrupt()
		return m, tea.Suspend
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, m.layout()
	}
	return m, nil
}

func (m Model) titleCmd() tea.Cmd {
	return tea.SetWindowTitle(windowTitle(m.metadata.Title, m.ctrl.State() != playback.Playing))
}

func (m Model) subtitle() string {
	switch {
	case m.metadata.Artist != "" && m.metadata.Album != "":
		return fmt.Sprintf("%s - %s", m.metadata.Artist, m.metadata.Album)
	case m.metadata.Artist != "":
		return m.metadata.Artist
	default:
		return m.metadata.Album
	}
}

// waveTop returns the screen row the waveform starts on.
func (m Model) waveTop() int {
	if m.subtitle() != "" {
		return 6
	}
	return 5
}

// layout fits the waveform between the header and the footer.
func (m Model) layout() tea.Cmd {
	if m.width == 0 || m.height == 0 {
		return nil
	}
	top := m.waveTop()
	footer := footerLines
	if m.help.ShowAll {
		footer += len(m.keys.FullHelp()[0]) - 1
	}
	h := min(max(m.height-top-footer, minWaveHeight), maxWaveHeight)
	w := max(m.width-2*margin, 1)
	m.view.SetOrigin(margin, top)
	return m.view.SetSize(w, h)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	indent := strings.Repeat(" ", margin)
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(indent + headerStyle.Render("wavescrub") + "\n")
	b.WriteString("\n")
	b.WriteString(indent + titleStyle.Render(m.metadata.Title) + "\n")
	if sub := m.subtitle(); sub != "" {
		b.WriteString(indent + artistStyle.Render(sub) + "\n")
	}
	b.WriteString("\n")

	for _, line := range m.waveLines() {
		b.WriteString(indent + line + "\n")
	}
	b.WriteString("\n")
	b.WriteString(indent + m.statusLine() + "\n")
	if e := m.status.errorText(); e != "" {
		b.WriteString(indent + errorStyle.Render(e) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(indent + m.help.View(m.keys) + "\n")
	return b.String()
}

// waveLines returns the waveform rows, or a spinner while loading.
func (m Model) waveLines() []string {
	w, h := m.view.Size()
	if m.ctrl.State() != playback.Loading {
		if w == 0 || h == 0 {
			return nil
		}
		return strings.Split(m.view.View(), "\n")
	}
	h = max(h, 1)
	lines := make([]string, h)
	lines[h/2] = m.spinner.View() + " loading waveform"
	return lines
}

func (m Model) statusLine() string {
	left := stateIcon(m.ctrl.State()) + "  " + stateText(m.ctrl.State(), m.ctrl.FocusState())
	if m.status.note != "" {
		left += "  " + m.status.note
	}
	right := renderVolumePercent(m.transport.Volume())

	w := m.width - 2*margin
	if w < 30 {
		w = 50
	}
	gap := max(w-len([]rune(left))-len(right), 2)
	return statusStyle.Render(left) + strings.Repeat(" ", gap) + statusStyle.Render(right)
}

func windowTitle(title string, paused bool) string {
	if paused {
		return "⏸ " + title + " — wavescrub"
	}
	return "▶ " + title + " — wavescrub"
}
