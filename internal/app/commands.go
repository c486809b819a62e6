package app

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/roadmap-builder/internal/export"
	"github.com/nhle/roadmap-builder/internal/model"
	"github.com/nhle/roadmap-builder/internal/roadmaps"
	"github.com/nhle/roadmap-builder/internal/workspace"
)

// sessionRestoredMsg carries the user remembered from a previous run.
type sessionRestoredMsg struct {
	user *model.User
	err  error
}

// signedInMsg is sent after a sign-in attempt.
type signedInMsg struct {
	user model.User
	err  error
}

// workspaceLoadedMsg carries the signed-in user's workspace. ws is never
// nil; when loading failed it is empty and err says why.
type workspaceLoadedMsg struct {
	ws  *workspace.Workspace
	err error
}

func (m Model) restoreSession() tea.Cmd {
	s := m.session
	return func() tea.Msg {
		ctx, cancel := restoreContext()
		defer cancel()
		u, err := s.Restore(ctx)
		return sessionRestoredMsg{user: u, err: err}
	}
}

func (m Model) signIn(name string) tea.Cmd {
	s := m.session
	return func() tea.Msg {
		ctx, cancel := restoreContext()
		defer cancel()
		u, err := s.SignIn(ctx, name)
		return signedInMsg{user: u, err: err}
	}
}

func (m Model) loadWorkspace(user model.User) tea.Cmd {
	st := m.store
	saver := m.saver
	logger := m.logger
	clock := workspace.WithCollectionOptions(roadmaps.WithClock(m.now))
	return func() tea.Msg {
		ws := workspace.New(user, saver, logger, clock)
		ctx, cancel := restoreContext()
		defer cancel()
		if err := ws.Load(ctx, st); err != nil {
			logger.Error("loading workspace", "user_id", user.ID, "error", err)
			return workspaceLoadedMsg{ws: ws, err: err}
		}
		return workspaceLoadedMsg{ws: ws}
	}
}

// executeCommand handles a command string from the command palette.
func (m Model) executeCommand(input string) (Model, tea.Cmd) {
	fields := strings.Fields(strings.ToLower(input))
	if len(fields) == 0 {
		return m, nil
	}

	switch fields[0] {
	case "quit", "q":
		return m.quit()
	case "help":
		m.previousView = ViewBuilder
		m.currentView = ViewHelp
		return m, nil
	case "logout", "signout":
		return m.signOut()
	case "settings", "config":
		m.previousView = ViewBuilder
		m.currentView = ViewSettings
		var cmd tea.Cmd
		m.settingsView, cmd = m.settingsView.Open()
		return m, cmd
	}

	if m.ws == nil {
		return m, nil
	}

	switch fields[0] {
	case "new":
		m.focus = focusSidebar
		var cmd tea.Cmd
		m.sidebar, cmd = m.sidebar.StartCreate()
		return m, cmd
	case "rename":
		m.focus = focusSidebar
		var cmd tea.Cmd
		m.sidebar, cmd = m.sidebar.StartRename()
		return m, cmd
	case "delete":
		m.focus = focusSidebar
		var cmd tea.Cmd
		m.sidebar, cmd = m.sidebar.StartDelete()
		return m, cmd
	case "upgrade", "plans":
		return m.openUpgrade("")
	case "preview":
		return m.openPreview()
	case "export":
		f := export.FormatMarkdown
		if len(fields) > 1 {
			parsed, err := export.ParseFormat(fields[1])
			if err != nil {
				m.statusMsg = err.Error()
				return m, nil
			}
			f = parsed
		}
		return m.exportActive(f)
	case "phase":
		if _, ok := m.ws.Active(); !ok {
			m.statusMsg = "Select a roadmap first"
			return m, nil
		}
		m.focus = focusBuilder
		return m, m.builderView.AddPhase()
	default:
		m.statusMsg = fmt.Sprintf("Unknown command %q", input)
		return m, nil
	}
}
