package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tgienger/taskdesk/internal/api"
	"github.com/tgienger/taskdesk/internal/config"
	"github.com/tgienger/taskdesk/internal/logging"
	"github.com/tgienger/taskdesk/internal/session"
	"github.com/tgienger/taskdesk/internal/ui/views"
	"github.com/tgienger/taskdesk/internal/workspace"
)

// Currently active view
type View int

const (
	ViewTasks View = iota
	ViewWorkspace
)

type App struct {
	client  *api.Client
	store   *session.Store
	cfg     *config.Config
	log     *logging.Logger
	send    func(tea.Msg)
	current View

	taskList      *views.TaskListView
	workspaceView *views.WorkspaceView
	ws            *workspace.Workspace

	width  int
	height int
}

// NewApp creates the application model
func NewApp(client *api.Client, store *session.Store, cfg *config.Config, log *logging.Logger) *App {
	return &App{
		client:   client,
		store:    store,
		cfg:      cfg,
		log:      log,
		current:  ViewTasks,
		taskList: views.NewTaskListView(client),
	}
}

// SetSend installs the program's Send function so background workspace
// changes can trigger re-renders. Must be called before Run.
func (a *App) SetSend(send func(tea.Msg)) {
	a.send = send
}

func (a *App) Init() tea.Cmd {
	// Reopen the last task's workspace if one is remembered
	if lastTaskID, err := a.store.LastTaskID(); err == nil && lastTaskID != 0 {
		return a.openWorkspace(lastTaskID)
	}
	return a.taskList.Init()
}

func (a *App) openWorkspace(taskID int64) tea.Cmd {
	notify := func() {
		if a.send != nil {
			a.send(views.WorkspaceRefreshMsg{})
		}
	}

	a.ws = workspace.New(a.client, taskID, a.cfg.AutosaveDelay(), a.log, notify)
	a.workspaceView = views.NewWorkspaceView(a.ws, a.client)
	a.current = ViewWorkspace

	if err := a.store.SetLastTaskID(taskID); err != nil {
		a.log.Warn("persist last task failed", "error", err)
	}

	return tea.Batch(
		a.workspaceView.Init(),
		func() tea.Msg {
			return tea.WindowSizeMsg{Width: a.width, Height: a.height}
		},
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// The dashboard persists across workspace visits
		a.taskList.Update(msg)

	case views.SelectedTask:
		return a, a.openWorkspace(msg.TaskID)

	case views.BackToTasks:
		a.current = ViewTasks
		a.ws = nil
		a.workspaceView = nil
		if err := a.store.SetLastTaskID(0); err != nil {
			a.log.Warn("clear last task failed", "error", err)
		}
		return a, tea.Batch(
			a.taskList.Init(),
			func() tea.Msg {
				return tea.WindowSizeMsg{Width: a.width, Height: a.height}
			},
		)
	}

	var cmd tea.Cmd
	switch a.current {
	case ViewTasks:
		_, cmd = a.taskList.Update(msg)
	case ViewWorkspace:
		if a.workspaceView != nil {
			_, cmd = a.workspaceView.Update(msg)
		}
	}

	return a, cmd
}

func (a *App) View() string {
	switch a.current {
	case ViewWorkspace:
		if a.workspaceView != nil {
			return a.workspaceView.View()
		}
	}
	return a.taskList.View()
}
