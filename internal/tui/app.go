package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"apttool/internal/ui"
	"apttool/pkg/catalog"
	"apttool/pkg/query"
)

type (
	openedMsg struct {
		gen     uint64
		results *query.Results
		err     error
	}

	batchMsg struct {
		gen     uint64
		results *query.Results
		records []*catalog.Record
		scanned int
		done    bool
		err     error
	}
)

// App wraps the Model with bubbletea components
type App struct {
	*Model
	spinner   spinner.Model
	textInput textinput.Model
	help      help.Model
}

// NewApp creates a new browser application
func NewApp(m *Model) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = m.styles.Spinner

	ti := textinput.New()
	ti.Placeholder = "regular expression"
	ti.CharLimit = 200
	ti.Width = 40
	ti.Prompt = "Search: "
	ti.PromptStyle = m.styles.InputPrompt

	return &App{
		Model:     m,
		spinner:   sp,
		textInput: ti,
		help:      help.New(),
	}
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.spinner.Tick,
		a.search(searchRequest{pattern: a.pattern, filter: a.filter}),
	)
}

// search starts req, or queues it until the in-flight command returns.
func (a *App) search(req searchRequest) tea.Cmd {
	if a.busy {
		a.pending = &req
		a.reset(req)
		return nil
	}
	a.closeResults()
	gen := a.reset(req)
	a.busy = true
	return a.openCmd(gen, req)
}

func (a *App) openCmd(gen uint64, req searchRequest) tea.Cmd {
	open, ctx := a.open, a.ctx
	return func() tea.Msg {
		results, err := open(ctx, req.pattern, req.filter)
		return openedMsg{gen: gen, results: results, err: err}
	}
}

func (a *App) fetchCmd() tea.Cmd {
	gen, results, n := a.gen, a.results, a.batchSize
	a.busy = true
	return func() tea.Msg {
		msg := batchMsg{gen: gen, results: results}
		for len(msg.records) < n {
			if !results.Next() {
				msg.done = true
				msg.err = results.Err()
				break
			}
			msg.records = append(msg.records, results.Record())
		}
		msg.scanned = results.Scanned()
		return msg
	}
}

// resume runs a queued search once nothing is in flight.
func (a *App) resume(stale *query.Results) (tea.Cmd, bool) {
	if a.pending == nil {
		return nil, false
	}
	if stale != nil {
		stale.Close()
	}
	req := *a.pending
	a.pending = nil
	a.results = nil
	a.busy = true
	return a.openCmd(a.gen, req), true
}

func (a *App) maybeFetch() tea.Cmd {
	if a.needMore() {
		return a.fetchCmd()
	}
	return nil
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetSize(msg.Width, msg.Height)
		a.help.Width = msg.Width
		a.ready = true
		cmds = append(cmds, a.maybeFetch())

	case tea.KeyMsg:
		if a.inputMode {
			return a, a.updateInput(msg)
		}
		cmds = append(cmds, a.handleKey(msg))

	case openedMsg:
		a.busy = false
		if cmd, ok := a.resume(msg.results); ok {
			return a, cmd
		}
		if msg.gen != a.gen {
			if msg.results != nil {
				msg.results.Close()
			}
			break
		}
		if msg.err != nil {
			a.done = true
			a.errorMsg = msg.err.Error()
			break
		}
		a.results = msg.results
		cmds = append(cmds, a.fetchCmd())

	case batchMsg:
		a.busy = false
		if cmd, ok := a.resume(msg.results); ok {
			return a, cmd
		}
		if msg.gen != a.gen {
			msg.results.Close()
			break
		}
		a.records = append(a.records, msg.records...)
		a.scanned = msg.scanned
		if msg.done {
			a.done = true
			if msg.err != nil {
				a.errorMsg = msg.err.Error()
			}
			a.closeResults()
		}
		cmds = append(cmds, a.maybeFetch())

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return a, tea.Batch(cmds...)
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Quit):
		a.quitting = true
		a.closeResults()
		return tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.ToggleHelp()
	case key.Matches(msg, a.keys.Back):
		a.GoBack()

	case key.Matches(msg, a.keys.Up):
		a.MoveCursor(-1)
	case key.Matches(msg, a.keys.Down):
		a.MoveCursor(1)
	case key.Matches(msg, a.keys.PageUp):
		a.MoveCursor(-a.VisibleHeight())
	case key.Matches(msg, a.keys.PageDown):
		a.MoveCursor(a.VisibleHeight())
	case key.Matches(msg, a.keys.Home):
		a.GoToTop()
	case key.Matches(msg, a.keys.End):
		a.GoToBottom()

	case key.Matches(msg, a.keys.Enter):
		a.ShowDetails()

	case key.Matches(msg, a.keys.Search):
		a.inputMode = true
		a.textInput.SetValue(a.pattern)
		a.textInput.CursorEnd()
		return a.textInput.Focus()

	case key.Matches(msg, a.keys.Filter):
		return a.search(searchRequest{pattern: a.pattern, filter: nextFilter(a.filter)})
	}

	if a.activeView == ViewList {
		return a.maybeFetch()
	}
	return nil
}

func (a *App) updateInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		a.inputMode = false
		a.textInput.Blur()
		return a.search(searchRequest{pattern: a.textInput.Value(), filter: a.filter})
	case tea.KeyEsc:
		a.inputMode = false
		a.textInput.Blur()
		return nil
	}
	var cmd tea.Cmd
	a.textInput, cmd = a.textInput.Update(msg)
	return cmd
}

// View implements tea.Model
func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}
	if a.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(a.renderHeader())
	b.WriteString("\n")

	var content string
	switch a.activeView {
	case ViewDetails:
		content = a.renderDetails()
	case ViewHelp:
		content = a.help.FullHelpView(a.keys.FullHelp())
	default:
		content = a.renderList()
	}
	b.WriteString(lipgloss.NewStyle().Width(a.width).Height(a.height - 3).Render(content))
	b.WriteString("\n")
	b.WriteString(a.renderFooter())
	return b.String()
}

func (a *App) renderHeader() string {
	title := a.styles.Header.Render(" apttool browse ")

	var right string
	switch {
	case a.errorMsg != "":
		right = a.styles.Error.Render(a.errorMsg)
	case a.busy || !a.done:
		right = a.spinner.View() + " " + a.status()
	default:
		right = a.styles.Success.Render(a.status())
	}

	padding := a.width - lipgloss.Width(title) - lipgloss.Width(right) - 1
	if padding < 0 {
		padding = 0
	}
	return title + strings.Repeat(" ", padding) + right
}

func (a *App) status() string {
	s := fmt.Sprintf("%d matches, %d scanned", len(a.records), a.scanned)
	if a.filter != query.Any {
		s += " (" + a.filter.String() + ")"
	}
	return s
}

func (a *App) renderList() string {
	var b strings.Builder

	if a.inputMode {
		b.WriteString(a.textInput.View())
	} else {
		pattern := a.pattern
		if pattern == "" {
			pattern = "(all packages)"
		}
		b.WriteString(a.styles.Status.Render("Search: " + pattern))
	}
	b.WriteString("\n")

	if len(a.records) == 0 {
		if a.done {
			b.WriteString(a.styles.Description.Render("  No packages found"))
		}
		return b.String()
	}

	end := a.scroll + a.VisibleHeight()
	if end > len(a.records) {
		end = len(a.records)
	}
	for i := a.scroll; i < end; i++ {
		b.WriteString(a.renderRow(a.records[i], i == a.cursor))
		b.WriteString("\n")
	}
	return b.String()
}

func (a *App) renderRow(r *catalog.Record, selected bool) string {
	marker := a.styles.MarkerAvailable.Render("[u]")
	if r.Installed {
		marker = a.styles.MarkerInstalled.Render("[i]")
	}

	name := fmt.Sprintf("%-35s", r.Name)
	desc := r.Synopsis()
	if room := a.width - 48; room > 3 {
		desc = ui.Truncate(desc, room)
	}

	if selected {
		return "> " + marker + " " + a.styles.RowSelected.Render(name) + " " + desc
	}
	return a.styles.Row.Render(marker + " " + a.styles.PackageName.Render(name) + " " + a.styles.Description.Render(desc))
}

func (a *App) renderDetails() string {
	r := a.Selected()
	if r == nil {
		return a.styles.Error.Render("No package selected")
	}

	var b strings.Builder
	b.WriteString(a.styles.Title.Render(r.FullName()))
	b.WriteString("\n\n")

	field := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(a.styles.Subtitle.Render(fmt.Sprintf("%-12s", label)))
		b.WriteString(" ")
		b.WriteString(value)
		b.WriteString("\n")
	}

	status := "not installed"
	if r.Installed {
		status = "installed " + r.InstalledVersion
	}
	field("Status", status)
	field("Latest", a.styles.PackageVersion.Render(r.LatestVersion))
	field("Section", r.Section)
	field("Maintainer", r.Maintainer)
	field("Homepage", r.Homepage)

	b.WriteString("\n")
	b.WriteString(a.styles.Description.Render(r.Description))
	return b.String()
}

func (a *App) renderFooter() string {
	return a.styles.Footer.Width(a.width).Render(a.help.ShortHelpView(a.keys.ShortHelp()))
}

// Run starts the browser and blocks until the user quits.
func Run(m *Model) error {
	p := tea.NewProgram(NewApp(m), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
