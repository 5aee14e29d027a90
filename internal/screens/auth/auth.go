// Package auth implements the sign-in / registration screen. It is the only
// screen reachable while no identity is present.
package auth

import (
	"context"
	"errors"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/go-playground/validator/v10"

	"github.com/abhisek/gyansetu/internal/backend"
	"github.com/abhisek/gyansetu/internal/portal"
	"github.com/abhisek/gyansetu/internal/screen"
	"github.com/abhisek/gyansetu/internal/session"
	"github.com/abhisek/gyansetu/internal/ui/components"
	"github.com/abhisek/gyansetu/internal/ui/layout"
	"github.com/abhisek/gyansetu/internal/ui/theme"
)

type mode int

const (
	modeLogin mode = iota
	modeRegister
)

// field indexes for the register form; the login form uses the first two.
const (
	fieldName = iota
	fieldEmail
	fieldPassword
	fieldSchool
	fieldRole
	fieldCount
)

// loginInput is validated before any request leaves the client.
type loginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// registerInput mirrors the registration form.
type registerInput struct {
	FullName string `validate:"required,min=2"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
	School   string `validate:"required"`
}

// authDoneMsg reports the outcome of a sign-in or registration attempt.
type authDoneMsg struct {
	identity *portal.Identity
	err      error
}

// AuthScreen implements screen.Screen for the auth page.
type AuthScreen struct {
	store    *session.Store
	validate *validator.Validate

	mode    mode
	focus   int
	name    components.TextInput
	email   components.TextInput
	passwd  components.TextInput
	school  components.TextInput
	role    portal.Role
	busy    bool
	errText string
}

var _ screen.Screen = (*AuthScreen)(nil)
var _ screen.KeyHintProvider = (*AuthScreen)(nil)

// New creates the auth screen over the given session store.
func New(store *session.Store) *AuthScreen {
	s := &AuthScreen{
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		name:     components.NewTextInput("Full Name", "Your name", 60),
		email:    components.NewTextInput("Email Address", "your@email.com", 80),
		passwd:   components.NewPasswordInput("Password", 72),
		school:   components.NewTextInput("School", "Your school", 80),
		role:     portal.RoleStudent,
		focus:    fieldEmail,
	}
	return s
}

func (s *AuthScreen) Title() string {
	return "Welcome"
}

func (s *AuthScreen) Init() tea.Cmd {
	return s.email.Focus()
}

func (s *AuthScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Submit"},
		{Key: "Ctrl+T", Description: "Login/Register"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *AuthScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case authDoneMsg:
		s.busy = false
		if msg.err != nil {
			s.errText = msg.err.Error()
			return s, nil
		}
		return s, func() tea.Msg {
			return session.ChangedMsg{Identity: msg.identity}
		}

	case tea.KeyMsg:
		if s.busy {
			return s, nil
		}
		switch msg.String() {
		case "ctrl+t":
			s.toggleMode()
			return s, s.focusCurrent()
		case "tab", "shift+tab", "up", "down":
			s.moveFocus(msg.String())
			return s, s.focusCurrent()
		case "left", "right":
			if s.mode == modeRegister && s.focus == fieldRole {
				s.toggleRole()
				return s, nil
			}
		case "enter":
			return s, s.submit()
		}
	}

	return s, s.updateFocused(msg)
}

func (s *AuthScreen) toggleMode() {
	s.errText = ""
	if s.mode == modeLogin {
		s.mode = modeRegister
		s.focus = fieldName
	} else {
		s.mode = modeLogin
		s.focus = fieldEmail
	}
}

func (s *AuthScreen) toggleRole() {
	if s.role == portal.RoleStudent {
		s.role = portal.RoleTeacher
	} else {
		s.role = portal.RoleStudent
	}
}

func (s *AuthScreen) fields() []int {
	if s.mode == modeLogin {
		return []int{fieldEmail, fieldPassword}
	}
	return []int{fieldName, fieldEmail, fieldPassword, fieldSchool, fieldRole}
}

func (s *AuthScreen) moveFocus(key string) {
	fields := s.fields()
	pos := 0
	for i, f := range fields {
		if f == s.focus {
			pos = i
			break
		}
	}
	switch key {
	case "tab", "down":
		pos = (pos + 1) % len(fields)
	case "shift+tab", "up":
		pos = (pos - 1 + len(fields)) % len(fields)
	}
	s.focus = fields[pos]
}

func (s *AuthScreen) focusCurrent() tea.Cmd {
	s.name.Blur()
	s.email.Blur()
	s.passwd.Blur()
	s.school.Blur()
	switch s.focus {
	case fieldName:
		return s.name.Focus()
	case fieldEmail:
		return s.email.Focus()
	case fieldPassword:
		return s.passwd.Focus()
	case fieldSchool:
		return s.school.Focus()
	}
	return nil
}

func (s *AuthScreen) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch s.focus {
	case fieldName:
		s.name, cmd = s.name.Update(msg)
	case fieldEmail:
		s.email, cmd = s.email.Update(msg)
	case fieldPassword:
		s.passwd, cmd = s.passwd.Update(msg)
	case fieldSchool:
		s.school, cmd = s.school.Update(msg)
	}
	return cmd
}

func (s *AuthScreen) submit() tea.Cmd {
	s.errText = ""
	if s.mode == modeLogin {
		in := loginInput{Email: s.email.Value(), Password: s.passwd.Value()}
		if err := s.validate.Struct(in); err != nil {
			s.errText = "Enter a valid email address and password"
			return nil
		}
		s.busy = true
		return s.signIn(in)
	}

	in := registerInput{
		FullName: s.name.Value(),
		Email:    s.email.Value(),
		Password: s.passwd.Value(),
		School:   s.school.Value(),
	}
	if err := s.validate.Struct(in); err != nil {
		s.errText = registerValidationText(err)
		return nil
	}
	s.busy = true
	return s.register(in)
}

func registerValidationText(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].Field() {
		case "FullName":
			return "Enter your full name"
		case "Email":
			return "Enter a valid email address"
		case "Password":
			return "Password must be at least 8 characters"
		case "School":
			return "Enter your school"
		}
	}
	return "Please fill in all fields"
}

func (s *AuthScreen) signIn(in loginInput) tea.Cmd {
	return func() tea.Msg {
		if err := s.store.SignIn(context.Background(), in.Email, in.Password); err != nil {
			return authDoneMsg{err: errors.New("Invalid email or password")}
		}
		return authDoneMsg{identity: s.store.Current()}
	}
}

func (s *AuthScreen) register(in registerInput) tea.Cmd {
	role := s.role
	return func() tea.Msg {
		err := s.store.Register(context.Background(), session.RegisterInput{
			Email:    in.Email,
			Password: in.Password,
			FullName: in.FullName,
			Role:     role,
			School:   in.School,
		})
		if err != nil {
			return authDoneMsg{err: errors.New(registerFailureText(err))}
		}
		return authDoneMsg{identity: s.store.Current()}
	}
}

// registerFailureText picks the user-facing message for a failed
// registration: the service's own message when it has one, otherwise a
// generic fallback.
func registerFailureText(err error) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Registration failed. Please try again."
}

func (s *AuthScreen) View(width, height int) string {
	title := theme.Title.Render(layout.AppName)
	subtitle := theme.Subtitle.Render("Bridge of Knowledge")

	tabs := s.renderTabs()

	var form string
	if s.mode == modeLogin {
		form = s.email.View() + "\n\n" + s.passwd.View()
	} else {
		form = s.name.View() + "\n\n" +
			s.email.View() + "\n\n" +
			s.passwd.View() + "\n\n" +
			s.school.View() + "\n\n" +
			s.renderRolePicker()
	}

	var status string
	if s.busy {
		status = theme.Hint.Render("Please wait...")
	} else if s.errText != "" {
		status = theme.ErrorText.Render(s.errText)
	}

	card := theme.Card.Width(50).Render(
		tabs + "\n\n" + form + "\n\n" + status,
	)

	demo := theme.Hint.Render(
		"Demo Credentials:\n" +
			"Student: student@example.com / password123\n" +
			"Teacher: teacher@example.com / password123",
	)

	body := lipgloss.JoinVertical(lipgloss.Center, title, subtitle, "", card, "", demo)
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(body)
}

func (s *AuthScreen) renderTabs() string {
	login := theme.ButtonInactive.Render("Login")
	register := theme.ButtonInactive.Render("Register")
	if s.mode == modeLogin {
		login = theme.ButtonActive.Render("Login")
	} else {
		register = theme.ButtonActive.Render("Register")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, login, "  ", register)
}

func (s *AuthScreen) renderRolePicker() string {
	label := lipgloss.NewStyle().Foreground(theme.TextDim).Render("I am a")
	if s.focus == fieldRole {
		label = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("I am a")
	}

	student := theme.ButtonInactive.Render("Student")
	teacher := theme.ButtonInactive.Render("Teacher")
	if s.role == portal.RoleStudent {
		student = theme.ButtonActive.Render("Student")
	} else {
		teacher = theme.ButtonActive.Render("Teacher")
	}
	return label + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, student, "  ", teacher)
}
