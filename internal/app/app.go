package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gyansetu/internal/portal"
	"github.com/abhisek/gyansetu/internal/router"
	"github.com/abhisek/gyansetu/internal/screen"
	authscreen "github.com/abhisek/gyansetu/internal/screens/auth"
	"github.com/abhisek/gyansetu/internal/screens/studentdash"
	"github.com/abhisek/gyansetu/internal/screens/teacherdash"
	"github.com/abhisek/gyansetu/internal/session"
	"github.com/abhisek/gyansetu/internal/ui/layout"
)

// Options carries the app's injected dependencies.
type Options struct {
	Store *session.Store
	Repo  portal.Repo
}

// AppModel is the root Bubble Tea model. The session gates everything:
// without an identity the only screen is auth; with one, the router drives
// dashboard -> lesson -> quiz.
type AppModel struct {
	store  *session.Store
	repo   portal.Repo
	router *router.Router
	ident  *portal.Identity
	width  int
	height int
}

// signedOutMsg reports completion of the logout flow.
type signedOutMsg struct{}

// newAppModel creates the root model, starting on the screen matching the
// current session state.
func newAppModel(opts Options) AppModel {
	ident := opts.Store.Current()
	m := AppModel{
		store: opts.Store,
		repo:  opts.Repo,
		ident: ident,
	}
	m.router = router.New(m.screenFor(ident))
	return m
}

// screenFor picks the entry screen for an identity.
func (m AppModel) screenFor(ident *portal.Identity) screen.Screen {
	if ident == nil {
		return authscreen.New(m.store)
	}
	if ident.Role == portal.RoleTeacher {
		return teacherdash.New(m.repo, *ident)
	}
	return studentdash.New(m.repo, *ident)
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case session.ChangedMsg:
		// Sign-in, sign-out, or restore: the whole stack is replaced.
		// The store's subscription and the auth screen can both announce
		// the same sign-in; an unchanged identity is not a transition.
		if sameIdentity(m.ident, msg.Identity) {
			return m, nil
		}
		m.ident = msg.Identity
		return m, m.router.Reset(m.screenFor(msg.Identity))

	case signedOutMsg:
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+l":
			if m.ident != nil {
				return m, m.signOut()
			}
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// signOut runs the logout flow; the store's notification brings the app
// back to the auth screen via ChangedMsg.
func (m AppModel) signOut() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		// Provider-side failures still clear the local session.
		_ = store.SignOut(context.Background())
		return signedOutMsg{}
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	user, role := "", ""
	if m.ident != nil {
		user = m.ident.FullName
		role = roleLabel(m.ident.Role)
	}
	header := layout.RenderHeader(title, user, role, m.width)

	var footerHints []layout.KeyHint
	if provider, ok := active.(screen.KeyHintProvider); ok {
		footerHints = provider.KeyHints()
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

func sameIdentity(a, b *portal.Identity) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID
}

func roleLabel(r portal.Role) string {
	if r == portal.RoleTeacher {
		return "Teacher"
	}
	return "Student"
}

// Run starts the Bubble Tea program. The session store subscription is
// scoped to this call: registered before the program runs, released on
// every exit path.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))

	cancel := opts.Store.Subscribe(func(ident *portal.Identity) {
		p.Send(session.ChangedMsg{Identity: ident})
	})
	defer cancel()

	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
