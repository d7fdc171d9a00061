package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/taskdesk/internal/api"
	"github.com/tgienger/taskdesk/internal/models"
	"github.com/tgienger/taskdesk/internal/ui/keys"
	"github.com/tgienger/taskdesk/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// FocusArea represents which part of the dashboard has focus
type FocusArea int

const (
	FocusOwnTasks FocusArea = iota
	FocusSharedTasks
)

// TaskListView is the dashboard: the caller's own tasks plus tasks
// shared with them.
type TaskListView struct {
	client *api.Client
	styles *styles.Styles
	keys   keys.KeyMap

	tasks  []models.Task
	shared []models.SharedTask

	width  int
	height int

	focus        FocusArea
	ownCursor    int
	sharedCursor int
	loaded       bool
	errMsg       string

	// Task creation
	creating     bool
	newTitle     textinput.Model
	newDeadline  textinput.Model
	newEffort    int // index into effortLevels
	editFocusIdx int // 0=title, 1=deadline, 2=effort, 3=save

	// Delete confirmation
	confirmingDelete bool
	deleteTargetID   int64
	deleteTargetName string
}

var effortLevels = []string{"", models.EffortLow, models.EffortMedium, models.EffortHigh}

// NewTaskListView creates the dashboard view
func NewTaskListView(client *api.Client) *TaskListView {
	s := styles.NewStyles()

	newTitle := textinput.New()
	newTitle.Placeholder = "Task title"
	newTitle.CharLimit = 200

	newDeadline := textinput.New()
	newDeadline.Placeholder = "Deadline YYYY-MM-DD (optional)"
	newDeadline.CharLimit = 10

	return &TaskListView{
		client:      client,
		styles:      s,
		keys:        keys.DefaultKeyMap(),
		focus:       FocusOwnTasks,
		newTitle:    newTitle,
		newDeadline: newDeadline,
	}
}

// SelectedTask signals that a task's workspace should open
type SelectedTask struct {
	TaskID int64
	Title  string
}

type tasksLoadedMsg struct {
	tasks  []models.Task
	shared []models.SharedTask
}

type dashboardErrMsg struct {
	err error
}

// Init initializes the view
func (v *TaskListView) Init() tea.Cmd {
	return v.loadTasks
}

func (v *TaskListView) loadTasks() tea.Msg {
	ctx := context.Background()
	tasks, err := v.client.ListTasks(ctx)
	if err != nil {
		return dashboardErrMsg{err: err}
	}
	shared, err := v.client.SharedWithMe(ctx)
	if err != nil {
		return dashboardErrMsg{err: err}
	}
	return tasksLoadedMsg{tasks: tasks, shared: shared}
}

// Update handles messages
func (v *TaskListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case tasksLoadedMsg:
		v.tasks = msg.tasks
		v.shared = msg.shared
		v.loaded = true
		v.errMsg = ""
		if v.ownCursor >= len(v.tasks) {
			v.ownCursor = max(0, len(v.tasks)-1)
		}
		if v.sharedCursor >= len(v.shared) {
			v.sharedCursor = max(0, len(v.shared)-1)
		}
		return v, nil

	case dashboardErrMsg:
		v.loaded = true
		if api.IsUnauthorized(msg.err) {
			v.errMsg = "Session expired. Run 'taskdesk login' and restart."
		} else {
			v.errMsg = "Failed to load tasks. Is the server running?"
		}
		return v, nil

	case tea.KeyMsg:
		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}
		if v.creating {
			return v.updateCreating(msg)
		}
		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *TaskListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Tab):
		if v.focus == FocusOwnTasks && len(v.shared) > 0 {
			v.focus = FocusSharedTasks
		} else {
			v.focus = FocusOwnTasks
		}
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.focus == FocusOwnTasks && v.ownCursor > 0 {
			v.ownCursor--
		} else if v.focus == FocusSharedTasks && v.sharedCursor > 0 {
			v.sharedCursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.focus == FocusOwnTasks && v.ownCursor < len(v.tasks)-1 {
			v.ownCursor++
		} else if v.focus == FocusSharedTasks && v.sharedCursor < len(v.shared)-1 {
			v.sharedCursor++
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.focus == FocusOwnTasks {
			if task, ok := v.selectedOwn(); ok {
				return v, func() tea.Msg {
					return SelectedTask{TaskID: task.ID, Title: task.Title}
				}
			}
		} else {
			if task, ok := v.selectedShared(); ok {
				return v, func() tea.Msg {
					return SelectedTask{TaskID: task.ID, Title: task.Title}
				}
			}
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		v.creating = true
		v.editFocusIdx = 0
		v.newTitle.Reset()
		v.newDeadline.Reset()
		v.newEffort = 0
		v.newTitle.Focus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Toggle):
		if v.focus != FocusOwnTasks {
			return v, nil
		}
		if task, ok := v.selectedOwn(); ok {
			return v, v.toggleComplete(task)
		}
		return v, nil

	case key.Matches(msg, v.keys.Delete):
		if v.focus != FocusOwnTasks {
			return v, nil
		}
		if task, ok := v.selectedOwn(); ok {
			v.confirmingDelete = true
			v.deleteTargetID = task.ID
			v.deleteTargetName = task.Title
		}
		return v, nil

	case key.Matches(msg, v.keys.Refresh):
		return v, v.loadTasks
	}

	return v, nil
}

func (v *TaskListView) selectedOwn() (models.Task, bool) {
	if v.ownCursor < 0 || v.ownCursor >= len(v.tasks) {
		return models.Task{}, false
	}
	return v.tasks[v.ownCursor], true
}

func (v *TaskListView) selectedShared() (models.SharedTask, bool) {
	if v.sharedCursor < 0 || v.sharedCursor >= len(v.shared) {
		return models.SharedTask{}, false
	}
	return v.shared[v.sharedCursor], true
}

func (v *TaskListView) toggleComplete(task models.Task) tea.Cmd {
	return func() tea.Msg {
		completed := !task.Completed
		_, err := v.client.UpdateTask(context.Background(), task.ID, api.TaskUpdate{Completed: &completed})
		if err != nil {
			return dashboardErrMsg{err: err}
		}
		return v.loadTasks()
	}
}

func (v *TaskListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		id := v.deleteTargetID
		return v, func() tea.Msg {
			if err := v.client.DeleteTask(context.Background(), id); err != nil {
				return dashboardErrMsg{err: err}
			}
			return v.loadTasks()
		}
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *TaskListView) updateCreating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.creating = false
		return v, nil

	case msg.String() == "shift+tab":
		v.editFocusIdx = (v.editFocusIdx + 3) % 4
		v.updateFormFocus()
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.editFocusIdx = (v.editFocusIdx + 1) % 4
		v.updateFormFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.editFocusIdx < 3 {
			v.editFocusIdx++
			v.updateFormFocus()
			return v, nil
		}
		return v.submitCreate()

	case msg.String() == "ctrl+s":
		return v.submitCreate()

	case msg.String() == " " && v.editFocusIdx == 2:
		v.newEffort = (v.newEffort + 1) % len(effortLevels)
		return v, nil
	}

	var cmd tea.Cmd
	switch v.editFocusIdx {
	case 0:
		v.newTitle, cmd = v.newTitle.Update(msg)
	case 1:
		v.newDeadline, cmd = v.newDeadline.Update(msg)
	}
	return v, cmd
}

func (v *TaskListView) submitCreate() (tea.Model, tea.Cmd) {
	title := strings.TrimSpace(v.newTitle.Value())
	if title == "" {
		return v, nil
	}

	create := api.TaskCreate{Title: title, Effort: effortLevels[v.newEffort]}
	if raw := strings.TrimSpace(v.newDeadline.Value()); raw != "" {
		deadline, err := time.Parse("2006-01-02", raw)
		if err != nil {
			v.errMsg = "Deadline must be YYYY-MM-DD"
			return v, nil
		}
		create.Deadline = &deadline
	}

	v.creating = false
	v.errMsg = ""
	return v, func() tea.Msg {
		if _, err := v.client.CreateTask(context.Background(), create); err != nil {
			return dashboardErrMsg{err: err}
		}
		return v.loadTasks()
	}
}

func (v *TaskListView) updateFormFocus() {
	v.newTitle.Blur()
	v.newDeadline.Blur()
	switch v.editFocusIdx {
	case 0:
		v.newTitle.Focus()
	case 1:
		v.newDeadline.Focus()
	}
}

// View renders the dashboard
func (v *TaskListView) View() string {
	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}
	if v.creating {
		return v.renderCreateForm()
	}
	if !v.loaded {
		return v.styles.TitleMuted.Render("Loading...")
	}

	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	var b strings.Builder
	b.WriteString(s.Title.Render("My Tasks"))
	b.WriteString("\n\n")

	if v.errMsg != "" {
		b.WriteString(s.ErrorText.Render(v.errMsg))
		b.WriteString("\n\n")
	}

	if len(v.tasks) == 0 {
		b.WriteString(s.TitleMuted.Render("No tasks yet. Press 'n' to create one."))
		b.WriteString("\n")
	}
	for i, task := range v.tasks {
		b.WriteString(v.renderTaskRow(taskRow{
			title:     task.Title,
			deadline:  task.Deadline,
			effort:    task.Effort,
			completed: task.Completed,
		}, v.focus == FocusOwnTasks && i == v.ownCursor, contentWidth))
		b.WriteString("\n")
	}

	if len(v.shared) > 0 {
		b.WriteString("\n")
		b.WriteString(s.Title.Render("Shared With Me"))
		b.WriteString("\n\n")
		for i, task := range v.shared {
			row := v.renderTaskRow(taskRow{
				title:     task.Title,
				deadline:  task.Deadline,
				effort:    task.Effort,
				completed: task.Completed,
			}, v.focus == FocusSharedTasks && i == v.sharedCursor, contentWidth)
			badge := s.Badge.Render(fmt.Sprintf("%s · %s", task.OwnerEmail, task.Permission))
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row, " ", badge))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

type taskRow struct {
	title     string
	deadline  *time.Time
	effort    string
	completed bool
}

func (v *TaskListView) renderTaskRow(row taskRow, selected bool, contentWidth int) string {
	s := v.styles

	check := "[ ]"
	if row.completed {
		check = "[x]"
	}

	line := check + " " + row.title
	if row.effort != "" {
		line += "  (" + row.effort + ")"
	}
	if row.deadline != nil {
		line += "  due " + row.deadline.Format("Jan 2")
	}

	width := clamp(contentWidth-4, 20, styles.MaxWidth-4)
	if selected {
		return s.ListSelected.Width(width).Render(line)
	}
	return s.ListItem.Width(width).Render(line)
}

func (v *TaskListView) renderCreateForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	titleStyle := s.Input
	deadlineStyle := s.Input
	effortStyle := s.Input
	btnStyle := s.Button

	switch v.editFocusIdx {
	case 0:
		titleStyle = s.InputFocused
	case 1:
		deadlineStyle = s.InputFocused
	case 2:
		effortStyle = s.InputFocused
	case 3:
		btnStyle = s.ButtonFocused
	}

	effort := effortLevels[v.newEffort]
	if effort == "" {
		effort = "none (space to cycle)"
	}

	inputWidth := clamp(contentWidth-6, 20, 50)

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("New Task"),
		"",
		"Title:",
		titleStyle.Width(inputWidth).Render(v.newTitle.View()),
		"",
		"Deadline:",
		deadlineStyle.Width(inputWidth).Render(v.newDeadline.View()),
		"",
		"Effort:",
		effortStyle.Width(inputWidth).Render(effort),
		"",
		btnStyle.Render(" Create "),
		"",
		s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel"),
	)
	if v.errMsg != "" {
		form = lipgloss.JoinVertical(lipgloss.Left, form, "", s.ErrorText.Render(v.errMsg))
	}

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Task?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("\"%s\" and its whole workspace will be removed.", v.deleteTargetName)),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderHelp() string {
	s := v.styles
	return s.Help.Render(
		fmt.Sprintf("%s open • %s new • %s done • %s del • %s refresh • %s quit",
			s.HelpKey.Render("↵"),
			s.HelpKey.Render("n"),
			s.HelpKey.Render("space"),
			s.HelpKey.Render("d"),
			s.HelpKey.Render("r"),
			s.HelpKey.Render("q"),
		),
	)
}
