package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kakehashi-inc/app-backup-restore/pkg/snapshot"
)

// LoadFunc produces the reconciled list shown by the view
type LoadFunc func(ctx context.Context) ([]snapshot.MergedItem, error)

// Result is what the user chose
type Result struct {
	// Confirmed is false when the user quit without confirming.
	Confirmed bool
	Items     []snapshot.MergedItem
}

type itemsLoadedMsg struct {
	items []snapshot.MergedItem
	err   error
}

// App wraps the Model with bubbletea components
type App struct {
	*Model
	ctx       context.Context
	load      LoadFunc
	spinner   spinner.Model
	textInput textinput.Model
	help      help.Model
}

// NewApp creates the selection view
func NewApp(ctx context.Context, title string, load LoadFunc) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	ti := textinput.New()
	ti.Placeholder = "Type to filter..."
	ti.CharLimit = 100
	ti.Width = 40

	a := &App{
		Model:     NewModel(title),
		ctx:       ctx,
		load:      load,
		spinner:   sp,
		textInput: ti,
		help:      help.New(),
	}
	a.SetLoading(true, "Reconciling "+title+"...")
	return a
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.loadItems())
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetSize(msg.Width, msg.Height)
		a.help.Width = msg.Width
		a.ready = true

	case tea.KeyMsg:
		return a.handleKey(msg)

	case itemsLoadedMsg:
		a.SetLoading(false, "")
		if msg.err != nil {
			a.SetError(msg.err.Error())
		} else {
			a.SetItems(msg.items)
		}

	case spinner.TickMsg:
		if a.loading {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return a, tea.Batch(cmds...)
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.showConfirm {
		switch msg.String() {
		case "y", "Y", "enter":
			a.confirmed = true
			a.quitting = true
			return a, tea.Quit
		case "n", "N", "esc", "q":
			a.showConfirm = false
		}
		return a, nil
	}

	if a.inputMode {
		switch msg.String() {
		case "enter":
			a.inputMode = false
			a.textInput.Blur()
			a.SetFilter(a.textInput.Value())
			return a, nil
		case "esc":
			a.inputMode = false
			a.textInput.Blur()
			return a, nil
		}
		var cmd tea.Cmd
		a.textInput, cmd = a.textInput.Update(msg)
		return a, cmd
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		a.quitting = true
		return a, tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.showHelp = !a.showHelp

	case key.Matches(msg, a.keys.Cancel):
		if a.filterText != "" {
			a.SetFilter("")
		} else {
			a.errorMsg = ""
		}

	case key.Matches(msg, a.keys.PrevTab):
		a.PrevTab()
	case key.Matches(msg, a.keys.NextTab):
		a.NextTab()

	case key.Matches(msg, a.keys.Up):
		a.MoveCursor(-1)
	case key.Matches(msg, a.keys.Down):
		a.MoveCursor(1)
	case key.Matches(msg, a.keys.PageUp):
		a.MoveCursor(-a.VisibleHeight())
	case key.Matches(msg, a.keys.PageDown):
		a.MoveCursor(a.VisibleHeight())
	case key.Matches(msg, a.keys.Top):
		a.GoToTop()
	case key.Matches(msg, a.keys.Bottom):
		a.GoToBottom()

	case key.Matches(msg, a.keys.Toggle):
		a.Toggle()
	case key.Matches(msg, a.keys.All):
		a.SelectVisible()
	case key.Matches(msg, a.keys.None):
		a.ClearVisible()

	case key.Matches(msg, a.keys.Filter):
		a.inputMode = true
		a.textInput.SetValue(a.filterText)
		return a, a.textInput.Focus()

	case key.Matches(msg, a.keys.Restore):
		if len(a.Selection()) > 0 {
			a.showConfirm = true
		}
	}

	return a, nil
}

// View implements tea.Model
func (a *App) View() string {
	if a.quitting {
		return ""
	}
	if !a.ready {
		return "Loading..."
	}
	if a.showConfirm {
		return a.renderConfirm()
	}

	var b strings.Builder
	b.WriteString(a.renderHeader())
	b.WriteString("\n")
	b.WriteString(a.renderTabs())
	b.WriteString("\n\n")
	b.WriteString(a.renderContent())
	b.WriteString("\n")
	b.WriteString(a.renderFooter())
	return b.String()
}

func (a *App) renderHeader() string {
	title := fmt.Sprintf("abr restore: %s", a.title)
	count := fmt.Sprintf("%d selected", len(a.Selection()))
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(count) - 2
	if gap < 1 {
		gap = 1
	}
	return a.styles.Header.Width(a.width).Render(title + strings.Repeat(" ", gap) + count)
}

func (a *App) renderTabs() string {
	var tabs []string
	for i, t := range a.tabs {
		style := a.styles.TabInactive
		if i == a.activeTab {
			style = a.styles.TabActive
		}
		tabs = append(tabs, style.Render(t.Name))
	}
	return strings.Join(tabs, a.styles.TabSeparator.String())
}

func (a *App) renderContent() string {
	if a.loading {
		return a.spinner.View() + " " + a.loadingMsg
	}
	if a.errorMsg != "" {
		return a.styles.Error.Render(a.errorMsg)
	}
	if a.showHelp {
		return a.help.FullHelpView(a.keys.FullHelp())
	}

	items := a.ListItems()
	if len(items) == 0 {
		return a.styles.Description.Render("Nothing to show")
	}

	var lines []string
	start := a.Scroll()
	end := min(start+a.VisibleHeight(), len(items))
	for i := start; i < end; i++ {
		lines = append(lines, a.renderLine(items[i], i == a.Cursor()))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderLine(it snapshot.MergedItem, current bool) string {
	check := "[ ]"
	if a.IsSelected(it.ID) {
		check = a.styles.Success.Render("[x]")
	}

	line := fmt.Sprintf("%s %s %s %s %s",
		check,
		provenanceStyle(it.Provenance).Render(it.Provenance.Symbol()),
		a.styles.ItemName.Render(it.DisplayName),
		a.styles.Description.Render(it.ID),
		a.styles.ItemVersion.Render(it.Version),
	)
	if current {
		return a.styles.ListItemSelected.String() + line
	}
	return a.styles.ListItem.Render(line)
}

func (a *App) renderFooter() string {
	var footer string
	switch {
	case a.inputMode:
		footer = "Filter: " + a.textInput.View()
	case a.filterText != "":
		footer = fmt.Sprintf("filter %q  esc:clear  ", a.filterText) + a.help.ShortHelpView(a.keys.ShortHelp())
	default:
		footer = a.help.ShortHelpView(a.keys.ShortHelp())
	}
	return a.styles.Footer.Width(a.width).Render(footer)
}

func (a *App) renderConfirm() string {
	dialog := a.styles.Dialog.Render(
		a.styles.DialogTitle.Render(fmt.Sprintf("Restore %d items from %s?", len(a.Selection()), a.title)) + "\n\n" +
			a.styles.DialogButton.Render("[Y]es") + " " +
			lipgloss.NewStyle().Foreground(ColorMuted).Render("[N]o"),
	)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, dialog,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(ColorBg))
}

func (a *App) loadItems() tea.Cmd {
	return func() tea.Msg {
		items, err := a.load(a.ctx)
		return itemsLoadedMsg{items: items, err: err}
	}
}

// Result returns the selection once the program has exited
func (a *App) Result() Result {
	if !a.confirmed {
		return Result{}
	}
	return Result{Confirmed: true, Items: a.Selection()}
}

// Run shows the selection view and returns what the user confirmed
func Run(ctx context.Context, title string, load LoadFunc) (Result, error) {
	app := NewApp(ctx, title, load)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return Result{}, err
	}
	return app.Result(), nil
}
