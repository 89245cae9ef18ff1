package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/protokoll-app/protokoll/internal/logfile"
	"github.com/protokoll-app/protokoll/internal/prefs"
	"github.com/protokoll-app/protokoll/internal/state"
	"github.com/protokoll-app/protokoll/internal/tracker"
)

// pane identifies the focused UI region.
type pane int

const (
	paneTrackers pane = iota
	paneFiles
	paneViewer
)

// inputMode identifies what the shared text input is collecting.
type inputMode int

const (
	inputNone inputMode = iota
	inputNewTracker
	inputAddDirectory
	inputFilter
	inputSearch
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Registry  *tracker.Registry
	Store     *state.Store
	Prefs     prefs.Prefs
	PrefsPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	registry  *tracker.Registry
	store     *state.Store
	prefs     prefs.Prefs
	prefsPath string

	keys   keyMap
	theme  Theme
	styles Styles

	width  int
	height int
	ready  bool

	focus pane

	// Tracker pane
	trackers   []tracker.Tracker
	trackerIdx int

	// File pane
	fileIdx     int
	filterQuery string

	// Viewer pane
	viewer      viewport.Model
	viewerPath  string
	viewerLines []string
	viewerOpen  bool
	tailing     bool
	following   bool
	wrap        bool

	// In-file search
	searchQuery string
	matches     []int
	matchIdx    int
	lineOffsets []int

	// Shared text input (modal)
	input     textinput.Model
	inputMode inputMode

	// Pending destructive action
	confirmDelete string

	// Background scan
	scanning   string
	cancelScan context.CancelFunc

	// Transient status message
	toastText string
	toastErr  bool
	toastID   int

	showHelp bool
}

// New creates the root model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	theme := themeByName(opts.Prefs.Theme)

	input := textinput.New()
	input.CharLimit = 512

	m := Model{
		ctx:       ctx,
		registry:  opts.Registry,
		store:     opts.Store,
		prefs:     opts.Prefs,
		prefsPath: opts.PrefsPath,
		keys:      defaultKeyMap(),
		theme:     theme,
		styles:    theme.Styles(),
		wrap:      opts.Prefs.LineWrap,
		input:     input,
	}
	m.refresh()
	m.restoreSelection()
	return m
}

// Run starts the Bubble Tea program and blocks until the user quits or the
// context is cancelled.
func Run(opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(opts.Context))
	_, err := p.Run()
	if err != nil && opts.Context != nil && opts.Context.Err() != nil {
		return nil // clean shutdown via signal
	}
	return err
}

// Init schedules the initial rescan of the restored tracker.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd()}
	if name := m.selectedTrackerName(); name != "" {
		cmds = append(cmds, func() tea.Msg { return initScanMsg{tracker: name} })
	}
	return tea.Batch(cmds...)
}

// refresh pushes the registry view through the shared store and re-reads it.
func (m *Model) refresh() {
	m.store.Update(m.registry.List(), m.registry.Session(), nil, nil)
	snap := m.store.Snapshot()
	m.trackers = snap.Trackers
	if m.trackerIdx >= len(m.trackers) {
		m.trackerIdx = len(m.trackers) - 1
	}
	if m.trackerIdx < 0 {
		m.trackerIdx = 0
	}
	m.clampFileIdx()
}

// restoreSelection moves the cursor to the session's last tracker and file.
func (m *Model) restoreSelection() {
	session := m.registry.Session()
	if session.LastTracker == "" {
		return
	}
	for i, t := range m.trackers {
		if t.Name == session.LastTracker {
			m.trackerIdx = i
			m.focus = paneFiles
			break
		}
	}
}

func (m *Model) selectedTracker() *tracker.Tracker {
	if m.trackerIdx < 0 || m.trackerIdx >= len(m.trackers) {
		return nil
	}
	return &m.trackers[m.trackerIdx]
}

func (m *Model) selectedTrackerName() string {
	if t := m.selectedTracker(); t != nil {
		return t.Name
	}
	return ""
}

// Update routes messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutViewer()
		m.ready = true
		return m, nil

	case initScanMsg:
		return m, m.startScan(msg.tracker)

	case tickMsg:
		if m.following && m.viewerOpen {
			return m, tea.Batch(tickCmd(), m.reloadTail(m.viewerPath))
		}
		return m, tickCmd()

	case toastExpiredMsg:
		if msg.id == m.toastID {
			m.toastText = ""
		}
		return m, nil

	case scanDoneMsg:
		return m.handleScanDone(msg)

	case fileLoadedMsg:
		return m.handleFileLoaded(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleScanDone(msg scanDoneMsg) (tea.Model, tea.Cmd) {
	m.scanning = ""
	m.cancelScan = nil
	m.store.SetScanning("")

	res := msg.result
	if res.Err != nil {
		if m.ctx.Err() != nil {
			return m, nil
		}
		if errors.Is(res.Err, context.Canceled) {
			return m, m.toast("scan cancelled", false)
		}
		m.refresh()
		return m, m.toast(fmt.Sprintf("scan failed: %v", res.Err), true)
	}

	m.refresh()
	text := fmt.Sprintf("%s: %d files", res.Tracker, len(res.Files))
	if len(res.Warnings) > 0 {
		text = fmt.Sprintf("%s (%d directories skipped)", text, len(res.Warnings))
	}
	return m, m.toast(text, false)
}

func (m Model) handleFileLoaded(msg fileLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if msg.reload {
			m.following = false
		}
		return m, m.toast(fmt.Sprintf("open failed: %v", msg.err), true)
	}
	if msg.reload {
		if msg.path != m.viewerPath || !m.viewerOpen {
			return m, nil // stale reload for a file no longer open
		}
		m.viewerLines = msg.lines
		m.tailing = msg.tailing
		m.recomputeMatches()
		m.renderViewer()
		m.viewer.GotoBottom()
		return m, nil
	}
	m.viewerPath = msg.path
	m.viewerLines = msg.lines
	m.tailing = msg.tailing
	m.viewerOpen = true
	m.following = false
	m.focus = paneViewer
	m.searchQuery = ""
	m.matches = nil
	m.matchIdx = 0
	m.layoutViewer()
	m.renderViewer()
	m.viewer.GotoBottom()
	return m, nil
}

// startScan kicks off a cancellable background rescan.
func (m *Model) startScan(name string) tea.Cmd {
	if m.cancelScan != nil {
		m.cancelScan()
	}
	scanCtx, cancel := context.WithCancel(m.ctx)
	m.cancelScan = cancel
	m.scanning = name
	m.store.SetScanning(name)

	reg := m.registry
	return func() tea.Msg {
		files, warnings, err := reg.Rescan(scanCtx, name)
		return scanDoneMsg{result: tracker.RescanResult{
			Tracker: name, Files: files, Warnings: warnings, Err: err,
		}}
	}
}

// loadFile reads a log file for the viewer. Small files are loaded fully;
// big ones are tailed to the preferred line count.
func (m *Model) loadFile(path string) tea.Cmd {
	tailLines := m.prefs.TailLines
	return func() tea.Msg {
		info, err := logfile.Stat(path)
		if err != nil {
			return fileLoadedMsg{path: path, err: err}
		}
		if info.Binary {
			return fileLoadedMsg{path: path, err: fmt.Errorf("binary file")}
		}
		if !info.Compressed && info.Large {
			lines, err := logfile.Tail(path, tailLines)
			return fileLoadedMsg{path: path, lines: lines, tailing: true, err: err}
		}
		content, err := logfile.ReadAll(path)
		if err != nil {
			return fileLoadedMsg{path: path, err: err}
		}
		return fileLoadedMsg{path: path, lines: splitLines(content)}
	}
}

// reloadTail re-reads the tail of the followed file without resetting the
// viewer's search state.
func (m *Model) reloadTail(path string) tea.Cmd {
	tailLines := m.prefs.TailLines
	return func() tea.Msg {
		lines, err := logfile.Tail(path, tailLines)
		return fileLoadedMsg{path: path, lines: lines, tailing: true, reload: true, err: err}
	}
}

func (m *Model) toast(text string, isErr bool) tea.Cmd {
	m.toastText = text
	m.toastErr = isErr
	m.toastID++
	id := m.toastID
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
