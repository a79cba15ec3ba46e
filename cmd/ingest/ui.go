package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hayeah/ingest"
	"github.com/hayeah/ingest/filter"
	"github.com/hayeah/ingest/tree"
)

// uiMode is the picker's small closed set of screens.
type uiMode int

const (
	modeMain uiMode = iota
	modeHelp
	modeSave
)

var (
	styleCursor   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	styleIncluded = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	stylePartial  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	styleMatch    = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("14"))
	styleDim      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// pickerOptions carries everything the interactive picker needs.
type pickerOptions struct {
	Tree      *tree.Tree
	Formatter *ingest.Formatter
	Writer    *ingest.Writer
	Counter   ingest.Counter
	Output    string
}

// model is the Bubble Tea model for the picker.
type model struct {
	opts pickerOptions
	t    *tree.Tree

	mode      uiMode
	search    textinput.Model
	saveInput textinput.Model
	viewport  viewport.Model
	ready     bool

	view   []filter.Match // current filtered, scored view of the arena
	cursor int
	query  string

	tokenCache map[int]int // arena index -> token estimate

	pendingContent string // digest waiting for a save path
	status         string // printed after the TUI exits
	aborted        bool
}

// runPicker drives the interactive selection loop and reports the outcome
// on stdout once the terminal is restored.
func runPicker(opts pickerOptions) error {
	search := textinput.New()
	search.Placeholder = "Type to fuzzy-search..."
	search.Prompt = "> "
	search.Focus()

	saveInput := textinput.New()
	saveInput.Placeholder = ingest.DefaultFilename(opts.Tree)

	m := model{
		opts:       opts,
		t:          opts.Tree,
		search:     search,
		saveInput:  saveInput,
		viewport:   viewport.New(0, 0),
		view:       filter.Fuzzy(opts.Tree, ""),
		tokenCache: make(map[int]int),
	}

	// TUI on stderr so a stdout digest ('-o -') stays pipeable.
	p := tea.NewProgram(m, tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		return err
	}
	fm, ok := final.(model)
	if !ok {
		return fmt.Errorf("could not get final model state")
	}
	if fm.status != "" {
		fmt.Println(fm.status)
	}
	return nil
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.EnterAltScreen)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := lipgloss.Height(m.search.View()) + 1
		footerHeight := 3
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - headerHeight - footerHeight
		if !m.ready {
			m.refreshList()
			m.ready = true
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeHelp:
			m.mode = modeMain
			return m, nil
		case modeSave:
			return m.updateSave(msg)
		}
		return m.updateMain(msg)
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.aborted = true
		return m, tea.Quit

	case "esc":
		// Esc clears an active search before it quits.
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.query = ""
			m.view = filter.Fuzzy(m.t, "")
			m.cursor = 0
			m.refreshList()
			return m, nil
		}
		m.aborted = true
		return m, tea.Quit

	case "enter":
		return m.export()

	case "up":
		if m.cursor > 0 {
			m.cursor--
			m.refreshList()
			m.scrollToCursor()
		}
		return m, nil

	case "down":
		if m.cursor < len(m.view)-1 {
			m.cursor++
			m.refreshList()
			m.scrollToCursor()
		}
		return m, nil

	case "pgup":
		m.viewport.HalfViewUp()
		return m, nil

	case "pgdown":
		m.viewport.HalfViewDown()
		return m, nil

	case "home":
		m.cursor = 0
		m.viewport.GotoTop()
		m.refreshList()
		return m, nil

	case "end":
		if len(m.view) > 0 {
			m.cursor = len(m.view) - 1
			m.viewport.GotoBottom()
			m.refreshList()
		}
		return m, nil

	case " ":
		if len(m.view) > 0 {
			m.t.Toggle(m.view[m.cursor].Index)
			m.refreshList()
		}
		return m, nil

	case "ctrl+a":
		m.t.SetState(m.t.Root(), tree.Included)
		m.refreshList()
		return m, nil

	case "ctrl+q":
		m.t.SetState(m.t.Root(), tree.Excluded)
		m.refreshList()
		return m, nil

	case "?":
		if m.search.Value() == "" {
			m.mode = modeHelp
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if q := m.search.Value(); q != m.query {
		m.query = q
		m.view = filter.Fuzzy(m.t, q)
		if m.cursor >= len(m.view) {
			m.cursor = max(0, len(m.view)-1)
		}
		m.refreshList()
	}
	return m, cmd
}

func (m model) updateSave(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.aborted = true
		return m, tea.Quit
	case "esc":
		m.mode = modeMain
		m.pendingContent = ""
		return m, nil
	case "enter":
		path := ingest.NormalizeFilename(strings.TrimSpace(m.saveInput.Value()), m.t)
		if err := ingest.WriteFile(path, m.pendingContent); err != nil {
			m.status = fmt.Sprintf("✗ %v", err)
		} else {
			m.status = fmt.Sprintf("✓ Output saved to: %s", path)
		}
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.saveInput, cmd = m.saveInput.Update(msg)
	return m, cmd
}

// export formats the current selection and delivers it; content that cannot
// reach the clipboard switches to the save prompt.
func (m model) export() (tea.Model, tea.Cmd) {
	content, err := m.opts.Formatter.FormatString(m.t)
	if err != nil {
		m.status = fmt.Sprintf("✗ %v", err)
		return m, tea.Quit
	}
	if strings.TrimSpace(content) == "" {
		m.status = "⚠ No content included. Please include at least one file."
		return m, tea.Quit
	}

	dest, err := m.opts.Writer.Deliver(content, m.opts.Output)
	if err != nil {
		m.status = fmt.Sprintf("✗ %v", err)
		return m, tea.Quit
	}
	switch dest {
	case ingest.DestStdout:
		return m, tea.Quit
	case ingest.DestFile:
		m.status = fmt.Sprintf("✓ Output written to: %s", m.opts.Output)
		return m, tea.Quit
	case ingest.DestClipboard:
		m.status = fmt.Sprintf("✓ Output copied to clipboard (%s, ~%d tokens)",
			ingest.FormatSize(int64(len(content))), m.opts.Counter.Count(content))
		return m, tea.Quit
	}

	m.pendingContent = content
	m.saveInput.SetValue("")
	m.saveInput.Focus()
	m.mode = modeSave
	return m, nil
}

func (m model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	switch m.mode {
	case modeHelp:
		return helpText
	case modeSave:
		return fmt.Sprintf(
			"Output does not fit the clipboard (%s).\n\nEnter file path to save (empty for default):\n%s\n\n(enter to save, esc to cancel)",
			ingest.FormatSize(int64(len(m.pendingContent))),
			m.saveInput.View(),
		)
	}

	files, size := m.selectionStats()
	status := fmt.Sprintf("%d/%d items | %d files selected | %s | ~%d tokens",
		len(m.view), m.t.Len(), files, ingest.FormatSize(size), m.selectionTokens())
	hint := styleDim.Render("space toggle · enter export · ctrl+a all · ctrl+q none · ? help · esc quit")

	return m.search.View() + "\n" + m.viewport.View() + "\n" + status + "\n" + hint
}

// refreshList rebuilds the viewport content from the current view.
func (m *model) refreshList() {
	var sb strings.Builder
	for i, match := range m.view {
		n := m.t.Node(match.Index)

		marker := " "
		if i == m.cursor {
			marker = ">"
		}

		line := fmt.Sprintf("%s %s %s", marker, checkbox(n.State), m.renderPath(match))
		if n.IsDir {
			line += "/"
		}
		if i == m.cursor {
			line = styleCursor.Render(line)
		}
		sb.WriteString(line + "\n")
	}
	m.viewport.SetContent(sb.String())
}

// renderPath highlights the fuzzy-matched character positions.
func (m *model) renderPath(match filter.Match) string {
	rel := m.t.RelPath(match.Index)
	if len(match.Positions) == 0 {
		return rel
	}
	matched := make(map[int]bool, len(match.Positions))
	for _, p := range match.Positions {
		matched[p] = true
	}
	var sb strings.Builder
	for i, r := range rel {
		if matched[i] {
			sb.WriteString(styleMatch.Render(string(r)))
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// checkbox maps a selection state to its marker; the mapping is a closed
// set alongside uiMode.
func checkbox(s tree.State) string {
	switch s {
	case tree.Included:
		return styleIncluded.Render("[x]")
	case tree.Partial:
		return stylePartial.Render("[~]")
	default:
		return "[ ]"
	}
}

func (m *model) selectionStats() (files int, size int64) {
	for _, f := range m.t.IncludedFiles() {
		files++
		if f.Size > 0 {
			size += f.Size
		}
	}
	return files, size
}

// selectionTokens estimates tokens for the selected files, cached per node
// since file content does not change during a session.
func (m *model) selectionTokens() int {
	total := 0
	for _, f := range m.t.IncludedFiles() {
		i, ok := m.t.Index(f.Path)
		if !ok {
			continue
		}
		count, ok := m.tokenCache[i]
		if !ok {
			if data, err := os.ReadFile(f.Path); err == nil {
				count = m.opts.Counter.Count(string(data))
			}
			m.tokenCache[i] = count
		}
		total += count
	}
	return total
}

func (m *model) scrollToCursor() {
	top := m.viewport.YOffset
	bottom := m.viewport.YOffset + m.viewport.Height - 1
	switch {
	case m.cursor < top:
		m.viewport.SetYOffset(m.cursor)
	case m.cursor > bottom:
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}

const helpText = `ingest help

Navigation:
  ↑/↓        move cursor
  pgup/pgdn  scroll
  home/end   jump to top/bottom

Selection:
  space      toggle file or directory (cascades to the whole subtree)
  ctrl+a     select everything
  ctrl+q     deselect everything

Search:
  type       fuzzy-filter the list
  esc        clear the search (quit when the search is empty)

Output:
  enter      export: clipboard when it fits, save prompt otherwise

Press any key to return.
`
