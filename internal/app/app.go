package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/roadmap-builder/internal/auth"
	"github.com/nhle/roadmap-builder/internal/export"
	"github.com/nhle/roadmap-builder/internal/keys"
	"github.com/nhle/roadmap-builder/internal/model"
	"github.com/nhle/roadmap-builder/internal/roadmaps"
	"github.com/nhle/roadmap-builder/internal/store"
	appsync "github.com/nhle/roadmap-builder/internal/sync"
	"github.com/nhle/roadmap-builder/internal/ui"
	"github.com/nhle/roadmap-builder/internal/ui/builder"
	"github.com/nhle/roadmap-builder/internal/ui/command"
	helpview "github.com/nhle/roadmap-builder/internal/ui/help"
	"github.com/nhle/roadmap-builder/internal/ui/login"
	"github.com/nhle/roadmap-builder/internal/ui/preview"
	"github.com/nhle/roadmap-builder/internal/ui/roadmaplist"
	"github.com/nhle/roadmap-builder/internal/ui/settings"
	"github.com/nhle/roadmap-builder/internal/ui/upgrade"
	"github.com/nhle/roadmap-builder/internal/workspace"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewLoading ViewState = iota
	ViewLogin
	ViewBuilder
	ViewHelp
	ViewCommand
	ViewUpgrade
	ViewPreview
	ViewSettings
)

// focus is the builder-screen panel receiving keys.
type focus int

const (
	focusSidebar focus = iota
	focusBuilder
)

// Options wires the root model to its collaborators.
type Options struct {
	Config     model.AppConfig
	ConfigPath string
	Store      store.Store
	Session    *auth.Session
	Saver      *appsync.Saver
	Logger     *slog.Logger

	// Now defaults to time.Now.
	Now func() time.Time
}

// Model is the root Bubble Tea model that manages view routing,
// layout, and the signed-in user's workspace.
type Model struct {
	currentView  ViewState
	previousView ViewState
	focus        focus
	layout       ui.Layout
	keys         *keys.KeyMap

	cfg        model.AppConfig
	configPath string
	store      store.Store
	session    *auth.Session
	saver      *appsync.Saver
	logger     *slog.Logger
	now        func() time.Time
	ws         *workspace.Workspace

	loginView    login.Model
	sidebar      roadmaplist.Model
	builderView  builder.Model
	helpView     helpview.Model
	commandView  command.Model
	upgradeView  upgrade.Model
	previewView  preview.Model
	settingsView settings.Model

	statusMsg string
	ready     bool
}

// New creates a new root application model.
func New(opts Options) Model {
	k := keys.DefaultKeyMap()
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return Model{
		currentView:  ViewLoading,
		focus:        focusSidebar,
		keys:         k,
		cfg:          opts.Config,
		configPath:   opts.ConfigPath,
		store:        opts.Store,
		session:      opts.Session,
		saver:        opts.Saver,
		logger:       opts.Logger,
		now:          now,
		loginView:    login.New(80, 24),
		sidebar:      roadmaplist.New(k, 24, 22),
		builderView:  builder.New(k, 56, 22),
		helpView:     newHelpView(k),
		commandView:  command.New(80, 24),
		upgradeView:  upgrade.New(80, 24),
		previewView:  preview.New(k, opts.Config.Display.Theme, 80, 24),
		settingsView: settings.New(opts.ConfigPath, opts.Config, 80, 24),
	}
}

// Init restores the previous session and starts the background saver.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.restoreSession(),
		m.saver.Start(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		m.resize()
		return m.updateActiveView(msg)

	case sessionRestoredMsg:
		if msg.err != nil {
			m.logger.Warn("session restore failed", "error", msg.err)
		}
		if msg.user == nil {
			return m.showLogin()
		}
		return m, m.loadWorkspace(*msg.user)

	case login.SignInMsg:
		return m, m.signIn(msg.Name)

	case signedInMsg:
		if msg.err != nil {
			m.loginView.SetError(msg.err)
			return m, nil
		}
		return m, m.loadWorkspace(msg.user)

	case workspaceLoadedMsg:
		m.ws = msg.ws
		m.currentView = ViewBuilder
		m.focus = focusSidebar
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Could not load saved roadmaps: %v", msg.err)
		} else {
			m.statusMsg = fmt.Sprintf("Welcome, %s", msg.ws.User().Name)
		}
		m.refresh()
		if _, ok := m.ws.Active(); ok {
			m.focus = focusBuilder
		}
		return m, nil

	case appsync.SaveResultMsg:
		if msg.Error != nil {
			m.statusMsg = fmt.Sprintf("Save failed: %v", msg.Error)
		}
		return m, m.saver.WaitForNextResult()

	case roadmaplist.SelectedRoadmapMsg:
		m.ws.SelectRoadmap(msg.ID)
		m.focus = focusBuilder
		m.refresh()
		return m, nil

	case roadmaplist.CreateRoadmapMsg:
		id, err := m.ws.CreateRoadmap(msg.Name, msg.Description)
		if errors.Is(err, workspace.ErrQuotaExceeded) {
			return m.openUpgrade(quotaReason(m.ws.Gate().Plan()))
		}
		if err != nil {
			m.statusMsg = err.Error()
			return m, nil
		}
		r, _ := m.ws.Roadmaps().Get(id)
		m.statusMsg = fmt.Sprintf("Created %q", r.Name)
		m.focus = focusBuilder
		m.refresh()
		return m, nil

	case roadmaplist.RenameRoadmapMsg:
		m.ws.UpdateRoadmap(msg.ID, roadmaps.RoadmapUpdate{}.
			SetName(msg.Name).
			SetDescription(msg.Description))
		m.refresh()
		return m, nil

	case roadmaplist.DeleteRoadmapMsg:
		m.ws.DeleteRoadmap(msg.ID)
		m.statusMsg = "Roadmap deleted"
		m.focus = focusSidebar
		m.refresh()
		return m, nil

	case roadmaplist.UpgradeRequiredMsg:
		return m.openUpgrade(quotaReason(m.ws.Gate().Plan()))

	case builder.EditMsg:
		if err := m.ws.EditActive(msg.Apply); err != nil {
			m.statusMsg = fmt.Sprintf("Could not %s: %v", msg.Label, err)
			return m, nil
		}
		m.refresh()
		if msg.Focus != nil && *msg.Focus != "" {
			m.builderView.FocusID(*msg.Focus)
		}
		return m, nil

	case upgrade.PlanChosenMsg:
		m.currentView = ViewBuilder
		if err := m.ws.UpgradePlan(msg.Plan); err != nil {
			m.statusMsg = err.Error()
			return m, nil
		}
		if p, ok := model.LookupPlan(msg.Plan); ok {
			m.statusMsg = fmt.Sprintf("You are now on %s", p.Name)
		}
		m.refresh()
		return m, nil

	case upgrade.ClosedMsg:
		m.currentView = ViewBuilder
		return m, nil

	case preview.ClosedMsg:
		m.currentView = ViewBuilder
		return m, nil

	case settings.SavedMsg:
		m.cfg = msg.Config
		m.previewView = preview.New(m.keys, m.cfg.Display.Theme, m.layout.ContentWidth(), m.layout.ContentHeight())
		m.currentView = ViewBuilder
		m.statusMsg = "Settings saved"
		return m, nil

	case settings.ClosedMsg:
		m.currentView = ViewBuilder
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		return m.executeCommand(string(msg))

	case tea.KeyMsg:
		// Status feedback lasts until the next keypress.
		m.statusMsg = ""
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		if msg.String() == "esc" && (m.currentView == ViewUpgrade || m.currentView == ViewSettings) {
			m.currentView = ViewBuilder
			return m, nil
		}
		if m.currentView == ViewBuilder && !m.inForm() {
			if next, cmd, handled := m.handleBuilderKeys(msg); handled {
				return next, cmd
			}
		}
		if m.currentView == ViewHelp || m.currentView == ViewCommand {
			if next, cmd, handled := m.handleOverlayKeys(msg); handled {
				return next, cmd
			}
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// handleBuilderKeys processes global keys on the builder screen.
func (m Model) handleBuilderKeys(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch msg.String() {
	case "q":
		next, cmd := m.quit()
		return next, cmd, true
	case "?":
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil, true
	case ":":
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return m, m.commandView.Focus(), true
	case "tab":
		if m.focus == focusSidebar {
			m.focus = focusBuilder
		} else {
			m.focus = focusSidebar
		}
		return m, nil, true
	case "n":
		m.focus = focusSidebar
		var cmd tea.Cmd
		m.sidebar, cmd = m.sidebar.StartCreate()
		return m, cmd, true
	case "u":
		next, cmd := m.openUpgrade("")
		return next, cmd, true
	case "v":
		next, cmd := m.openPreview()
		return next, cmd, true
	case "E":
		next, cmd := m.exportActive(export.FormatMarkdown)
		return next, cmd, true
	}
	return m, nil, false
}

// handleOverlayKeys closes the help and command overlays.
func (m Model) handleOverlayKeys(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch {
	case msg.String() == "esc":
		m.currentView = m.previousView
		return m, nil, true
	case msg.String() == "?" && m.currentView == ViewHelp:
		m.currentView = m.previousView
		return m, nil, true
	case msg.String() == "q" && m.currentView == ViewHelp:
		m.currentView = m.previousView
		return m, nil, true
	}
	return m, nil, false
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewLogin:
		m.loginView, cmd = m.loginView.Update(msg)
	case ViewBuilder:
		if m.focus == focusSidebar || m.sidebar.InForm() {
			m.sidebar, cmd = m.sidebar.Update(msg)
		} else {
			m.builderView, cmd = m.builderView.Update(msg)
		}
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewUpgrade:
		m.upgradeView, cmd = m.upgradeView.Update(msg)
	case ViewPreview:
		m.previewView, cmd = m.previewView.Update(msg)
	case ViewSettings:
		m.settingsView, cmd = m.settingsView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader(m.headerTitle(), m.saveStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewLoading:
		return lipgloss.Place(m.layout.ContentWidth(), m.layout.ContentHeight(),
			lipgloss.Center, lipgloss.Center, "Loading...")
	case ViewLogin:
		return m.loginView.View()
	case ViewBuilder:
		return m.renderBuilderScreen()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewUpgrade:
		return m.upgradeView.View()
	case ViewPreview:
		return m.previewView.View()
	case ViewSettings:
		return m.settingsView.View()
	default:
		return ""
	}
}

func (m Model) renderBuilderScreen() string {
	return m.layout.RenderPanels(m.sidebar.View(), m.builderView.View(), m.focus == focusSidebar)
}

func (m Model) headerTitle() string {
	if m.ws == nil {
		return "Roadmap Builder"
	}
	return fmt.Sprintf("Roadmap Builder · %s", m.ws.User().Name)
}

// saveStatus returns a short string describing the plan and save state.
func (m Model) saveStatus() string {
	if m.ws == nil {
		return ""
	}

	plan := planLabel(m.ws.Gate().Plan())
	st := m.saver.Status()
	switch {
	case st.State == appsync.SaveRunning || st.Pending > 0:
		return fmt.Sprintf("%s | saving (%d)", plan, st.Pending)
	case st.State == appsync.SaveError:
		return plan + " | ⚠ save failed"
	case !st.LastSave.IsZero():
		return fmt.Sprintf("%s | saved %s", plan, st.LastSave.Format("15:04:05"))
	default:
		return plan
	}
}

func (m *Model) resize() {
	w := m.layout.ContentWidth()
	h := m.layout.ContentHeight()

	sideW, mainW, panelH := m.layout.PanelSizes()
	m.sidebar.SetSize(sideW, panelH)
	m.builderView.SetSize(mainW, panelH)
	m.loginView.SetSize(w, h)
	m.helpView.SetSize(w, h)
	m.commandView.SetSize(w, h)
	m.upgradeView.SetSize(w, h)
	m.previewView.SetSize(w, h)
	m.settingsView.SetSize(w, h)
}

// refresh pushes the workspace state into the sidebar and builder.
func (m *Model) refresh() {
	if m.ws == nil {
		return
	}
	m.helpView.SetPlan(m.ws.Gate().Plan())

	c := m.ws.Roadmaps()
	m.sidebar.SetRoadmaps(c.Roadmaps(), c.ActiveID(), m.ws.Gate().CanCreateRoadmap())

	r, ok := m.ws.Active()
	if !ok {
		m.builderView.ClearRoadmap()
		return
	}
	m.builderView.SetRoadmap(r, true)
}

func (m Model) inForm() bool {
	return m.sidebar.InForm() || m.builderView.InForm()
}

func (m Model) showLogin() (Model, tea.Cmd) {
	m.ws = nil
	m.currentView = ViewLogin
	var cmd tea.Cmd
	m.loginView, cmd = m.loginView.Reset()
	return m, cmd
}

func (m Model) openUpgrade(reason string) (Model, tea.Cmd) {
	if m.ws == nil {
		return m, nil
	}
	m.previousView = ViewBuilder
	m.currentView = ViewUpgrade
	var cmd tea.Cmd
	m.upgradeView, cmd = m.upgradeView.Open(m.ws.Gate().Plan(), reason)
	return m, cmd
}

func (m Model) openPreview() (Model, tea.Cmd) {
	if m.ws == nil {
		return m, nil
	}
	out, err := m.ws.Export(export.FormatMarkdown)
	if errors.Is(err, workspace.ErrExportLocked) {
		return m.openUpgrade("Export and preview are available on Pro plans.")
	}
	if err != nil {
		m.statusMsg = err.Error()
		return m, nil
	}
	m.previewView.SetMarkdown(string(out))
	m.previousView = ViewBuilder
	m.currentView = ViewPreview
	return m, nil
}

// exportActive writes the active roadmap into the configured export
// directory.
func (m Model) exportActive(f export.Format) (Model, tea.Cmd) {
	if m.ws == nil {
		return m, nil
	}
	path, err := m.ws.ExportToDir(m.cfg.Export.Dir, f, m.now())
	switch {
	case errors.Is(err, workspace.ErrExportLocked):
		return m.openUpgrade("Export is available on Pro plans.")
	case err != nil:
		m.statusMsg = fmt.Sprintf("Export failed: %v", err)
	default:
		m.statusMsg = "Exported to " + path
	}
	return m, nil
}

func (m Model) quit() (Model, tea.Cmd) {
	m.saver.Stop()
	return m, tea.Quit
}

// signOut ends the session and returns to the sign-in screen.
func (m Model) signOut() (Model, tea.Cmd) {
	if err := m.session.SignOut(); err != nil {
		m.statusMsg = fmt.Sprintf("Sign out failed: %v", err)
		return m, nil
	}
	m.statusMsg = ""
	m.sidebar.SetRoadmaps(nil, "", true)
	m.builderView.ClearRoadmap()
	return m.showLogin()
}

func newHelpView(k *keys.KeyMap) helpview.Model {
	h := helpview.New(k, 80, 24)
	h.SetCommands(command.Commands)
	return h
}

func quotaReason(plan model.PlanType) string {
	p, ok := model.LookupPlan(plan)
	if !ok || p.Limits.MaxRoadmaps < 0 {
		return ""
	}
	return fmt.Sprintf("The %s plan allows %d roadmap(s). Upgrade for unlimited roadmaps.", p.Name, p.Limits.MaxRoadmaps)
}

// restoreContext bounds startup store calls.
func restoreContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}
