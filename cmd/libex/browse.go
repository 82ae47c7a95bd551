package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/vmunix/libex/internal/browser"
	"github.com/vmunix/libex/internal/catalog"
	"github.com/vmunix/libex/internal/events"
)

const browseHelp = "/ search  s sort  t/T tag  0-5 rating  f favorites only  space favorite  r reset  R retry  q quit"

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "browse",
		Short: "Browse the catalog interactively",
		Args:  cobra.NoArgs,
		RunE:  runBrowse,
	})
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	// Log lines would tear the terminal UI.
	a, err := newApp(io.Discard)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	ctx := cmd.Context()
	a.ledger.Load(ctx)

	bus := events.NewBus(a.logger.With("component", "events"))
	defer func() { _ = bus.Close() }()
	updates := bus.SubscribeAll(64)

	session := browser.New(a.catalog, a.ledger, a.engine, bus, a.logger)
	session.Start(ctx)

	m := newBrowseModel(ctx, session, updates)
	_, err = tea.NewProgram(m, tea.WithContext(ctx), tea.WithOutput(cmd.OutOrStdout())).Run()
	return err
}

// eventMsg carries one bus event into the update loop.
type eventMsg struct{ events.Event }

type busClosedMsg struct{}

func waitForEvent(ch <-chan events.Event) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return busClosedMsg{}
		}
		return eventMsg{e}
	}
}

type browseModel struct {
	ctx     context.Context
	session *browser.Session
	updates <-chan events.Event

	view      browser.View
	cursor    int
	search    textinput.Model
	searching bool
	notice    string
}

func newBrowseModel(ctx context.Context, session *browser.Session, updates <-chan events.Event) browseModel {
	ti := textinput.New()
	ti.Prompt = "Search: "
	ti.Placeholder = "title or author"
	ti.CharLimit = 100
	ti.Width = 40

	return browseModel{
		ctx:     ctx,
		session: session,
		updates: updates,
		view:    session.View(),
		search:  ti,
	}
}

func (m browseModel) Init() tea.Cmd {
	return waitForEvent(m.updates)
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		m.handleEvent(msg.Event)
		return m, waitForEvent(m.updates)

	case busClosedMsg:
		return m, nil

	case tea.WindowSizeMsg:
		m.search.Width = max(10, msg.Width-len(m.search.Prompt)-2)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m *browseModel) handleEvent(e events.Event) {
	switch e := e.(type) {
	case *browser.ViewUpdated:
		m.setView(e.View)
	case *events.CatalogLoaded:
		m.notice = fmt.Sprintf("Loaded %d books", e.Books)
	case *events.CatalogFailed:
		m.notice = ""
	case *events.FavoriteToggled:
		if e.Error != "" {
			m.notice = "Favorite not saved: " + e.Error
		}
	}
}

// setView installs v unless a newer view is already shown.
func (m *browseModel) setView(v browser.View) {
	if v.Seq < m.view.Seq {
		return
	}
	m.view = v
	m.cursor = max(0, min(m.cursor, len(v.Books)-1))
}

func (m browseModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if after := m.search.Value(); after != before {
		m.setView(m.session.SetSearch(m.ctx, after))
	}
	return m, cmd
}

func (m browseModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""

	switch key := msg.String(); key {
	case "q":
		return m, tea.Quit
	case "/":
		m.searching = true
		return m, m.search.Focus()
	case "esc":
		m.search.SetValue("")
		m.setView(m.session.SetSearch(m.ctx, ""))
	case "s":
		m.setView(m.session.CycleSort(m.ctx))
	case "t":
		m.setView(m.session.CycleTag(m.ctx))
	case "T":
		m.setView(m.session.ClearTag(m.ctx))
	case "0", "1", "2", "3", "4", "5":
		v, err := m.session.SetMinRating(m.ctx, int(key[0]-'0'))
		m.setView(v)
		m.setError(err)
	case "f":
		m.setView(m.session.SetFavoritesOnly(m.ctx, !m.view.Criteria.FavoritesOnly))
	case " ", "space", "enter":
		if book, ok := m.current(); ok {
			v, err := m.session.ToggleFavorite(m.ctx, book.ID)
			m.setView(v)
			m.setError(err)
		}
	case "r":
		m.search.SetValue("")
		m.setView(m.session.Reset(m.ctx))
	case "R":
		v, err := m.session.Retry(m.ctx)
		if errors.Is(err, catalog.ErrNotFailed) {
			m.notice = "Catalog is not in a failed state"
			break
		}
		m.setView(v)
		m.setError(err)
	case "up", "k":
		m.cursor = max(0, m.cursor-1)
	case "down", "j":
		m.cursor = max(0, min(m.cursor+1, len(m.view.Books)-1))
	}

	return m, nil
}

func (m *browseModel) setError(err error) {
	if err != nil {
		m.notice = err.Error()
	}
}

func (m browseModel) current() (catalog.Book, bool) {
	if m.cursor < 0 || m.cursor >= len(m.view.Books) {
		return catalog.Book{}, false
	}
	return m.view.Books[m.cursor], true
}

func (m browseModel) View() string {
	v := m.view
	var b strings.Builder

	b.WriteString(titleStyle.Render("libex"))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %d of %d books", len(v.Books), v.Total)))
	b.WriteString("\n")
	b.WriteString(m.search.View())
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(formatCriteria(v.Criteria)))
	b.WriteString("\n\n")

	switch v.Status {
	case catalog.StatusPending:
		b.WriteString("Loading catalog...\n")
	case catalog.StatusFailed:
		b.WriteString(errorStyle.Render(v.Error))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("Press R to retry."))
		b.WriteString("\n")
	default:
		if len(v.Books) == 0 {
			b.WriteString("No books match these filters. Press r to reset.\n")
		}
		for i, book := range v.Books {
			prefix := "  "
			if i == m.cursor {
				prefix = cursorStyle.Render("> ")
			}
			b.WriteString(prefix)
			b.WriteString(formatBook(book, v.IsFavorite(book.ID)))
			b.WriteString("\n")
		}
	}

	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(m.notice)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(browseHelp))
	b.WriteString("\n")

	return b.String()
}
