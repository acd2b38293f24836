package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/arjunks/kharcha/internal/api"
	"github.com/arjunks/kharcha/internal/apiclient"
	"github.com/arjunks/kharcha/internal/session"
)

type loginMode int

const (
	modeLogin loginMode = iota
	modeRegister
)

type LoginModel struct {
	CommonModel
	client  *apiclient.Client
	session *session.Store

	mode loginMode
	form *huh.Form

	formName     string
	formEmail    string
	formPassword string

	submitting bool
	err        error
}

// SignedInMsg tells the root model the session is live.
type SignedInMsg struct {
	User api.User
}

func NewLoginModel(client *apiclient.Client, sess *session.Store) LoginModel {
	m := LoginModel{client: client, session: sess, mode: modeLogin}
	m.form = m.buildForm()

	return m
}

func (m LoginModel) Title() string { return "Sign In" }
func (m LoginModel) ShortHelp() string {
	return "Tab: switch field | Enter: submit | Ctrl+R: toggle register"
}

func (m LoginModel) buildForm() *huh.Form {
	fields := []huh.Field{}

	if m.mode == modeRegister {
		fields = append(fields, huh.NewInput().
			Key("name").
			Title("Name").
			Value(&m.formName))
	}

	fields = append(fields,
		huh.NewInput().
			Key("email").
			Title("Email").
			Value(&m.formEmail).
			Validate(func(s string) error {
				if !strings.Contains(s, "@") {
					return fmt.Errorf("enter a valid email")
				}

				return nil
			}),
		huh.NewInput().
			Key("password").
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&m.formPassword),
	)

	return huh.NewForm(huh.NewGroup(fields...)).WithWidth(45).WithShowHelp(false)
}

func (m LoginModel) Init() tea.Cmd {
	return m.form.Init()
}

type authResultMsg struct {
	resp *api.AuthResponse
	err  error
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case authResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.err = msg.err
			m.form = m.buildForm()

			return m, m.form.Init()
		}

		return m, func() tea.Msg { return SignedInMsg{User: msg.resp.User} }

	case tea.KeyMsg:
		if msg.String() == "ctrl+r" {
			if m.mode == modeLogin {
				m.mode = modeRegister
			} else {
				m.mode = modeLogin
			}

			m.err = nil
			m.form = m.buildForm()

			return m, m.form.Init()
		}
	}

	if m.submitting {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.submitting = true
	m.err = nil

	return m, m.submitCmd()
}

func (m LoginModel) submitCmd() tea.Cmd {
	mode, name, email, password := m.mode, m.formName, m.formEmail, m.formPassword
	client, sess := m.client, m.session

	return func() tea.Msg {
		ctx, cancel := ApiCtx()
		defer cancel()

		var (
			resp *api.AuthResponse
			err  error
		)

		if mode == modeRegister {
			resp, err = client.Register(ctx, name, email, password)
		} else {
			resp, err = client.Login(ctx, email, password)
		}

		if err != nil {
			return authResultMsg{err: err}
		}

		if err := sess.SetProfile(resp.User); err != nil {
			return authResultMsg{err: err}
		}

		return authResultMsg{resp: resp}
	}
}

func (m LoginModel) View() string {
	title := "Sign in to Kharcha"
	if m.mode == modeRegister {
		title = "Create your Kharcha account"
	}

	body := titleStyle.Render(title) + "\n\n" + m.form.View()

	if m.submitting {
		body += "\n" + faintStyle.Render("Signing in...")
	}

	if m.err != nil {
		body += "\n" + errorStyle.Render(m.err.Error())
	}

	body += "\n\n" + faintStyle.Render("Ctrl+R: switch to "+map[loginMode]string{
		modeLogin:    "register",
		modeRegister: "sign in",
	}[m.mode])

	return lipgloss.NewStyle().Padding(1).Render(panelStyle.Render(body))
}
