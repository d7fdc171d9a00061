package views

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/taskdesk/internal/api"
	"github.com/tgienger/taskdesk/internal/models"
	"github.com/tgienger/taskdesk/internal/ui/keys"
	"github.com/tgienger/taskdesk/internal/ui/styles"
	"github.com/tgienger/taskdesk/internal/workspace"
)

// WorkspacePane identifies the focused pane of the workspace view
type WorkspacePane int

const (
	PaneNotes WorkspacePane = iota
	PaneAttachments
	PaneSummary
	PaneResources
	PaneSolutions
)

var paneOrder = []WorkspacePane{PaneNotes, PaneAttachments, PaneSummary, PaneResources, PaneSolutions}

// uploadTarget says which flow the path prompt feeds
type uploadTarget int

const (
	uploadAttachment uploadTarget = iota
	uploadAssignment
)

// WorkspaceView renders one task's workspace: notes with autosave,
// attachments, the AI study guide and resource suggestions, assignment
// solutions, and (for owners) the share modal.
type WorkspaceView struct {
	ws     *workspace.Workspace
	client *api.Client
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	focus        WorkspacePane
	editingNotes bool
	notes        textarea.Model
	spin         spinner.Model
	statusMsg    string

	attachmentCursor int
	solutionCursor   int
	questionCursor   int

	// Path prompt for uploads
	prompting    bool
	promptFor    uploadTarget
	pathInput    textinput.Model
	loadFailed   bool
	loadFailText string

	// Share modal (owner only)
	sharing       bool
	shareEmail    textinput.Model
	sharePermIdx  int // 0=view, 1=edit
	shareCursor   int
	shareFocusIdx int // 0=email, 1=permission, 2=grant list
}

// BackToTasks signals a return to the dashboard
type BackToTasks struct{}

type wsLoadedMsg struct {
	err error
}

// WorkspaceRefreshMsg asks the view to re-read core state. The
// workspace notify callback feeds it through Program.Send.
type WorkspaceRefreshMsg struct{}

type downloadDoneMsg struct {
	filename string
	err      error
}

type statusMsg struct {
	text string
}

// NewWorkspaceView creates the workspace view for an already
// constructed core workspace.
func NewWorkspaceView(ws *workspace.Workspace, client *api.Client) *WorkspaceView {
	s := styles.NewStyles()

	notes := textarea.New()
	notes.Placeholder = "Notes..."
	notes.CharLimit = 0
	notes.SetWidth(60)
	notes.SetHeight(8)
	notes.ShowLineNumbers = false

	pathInput := textinput.New()
	pathInput.Placeholder = "/path/to/file.pdf"
	pathInput.CharLimit = 500

	shareEmail := textinput.New()
	shareEmail.Placeholder = "email@example.com"
	shareEmail.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Current.Primary)

	return &WorkspaceView{
		ws:         ws,
		client:     client,
		styles:     s,
		keys:       keys.DefaultKeyMap(),
		notes:      notes,
		pathInput:  pathInput,
		shareEmail: shareEmail,
		spin:       sp,
	}
}

// Init kicks off the workspace load
func (v *WorkspaceView) Init() tea.Cmd {
	return tea.Batch(v.spin.Tick, func() tea.Msg {
		return wsLoadedMsg{err: v.ws.Load(context.Background())}
	})
}

// Update handles messages
func (v *WorkspaceView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(v.width)
		v.notes.SetWidth(clamp(contentWidth-8, 30, 90))
		return v, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		v.spin, cmd = v.spin.Update(msg)
		return v, cmd

	case wsLoadedMsg:
		if msg.err != nil {
			v.loadFailed = true
			v.loadFailText = "Failed to open workspace."
			if api.IsNotFound(msg.err) {
				v.loadFailText = "Task not found. It may have been deleted or unshared."
			}
			return v, nil
		}
		v.notes.SetValue(v.ws.Notes.Content())
		return v, nil

	case WorkspaceRefreshMsg:
		return v, nil

	case downloadDoneMsg:
		if msg.err != nil {
			v.statusMsg = "Download failed"
		} else {
			v.statusMsg = "Downloaded " + msg.filename
		}
		return v, nil

	case statusMsg:
		v.statusMsg = msg.text
		return v, nil

	case tea.KeyMsg:
		if v.loadFailed {
			return v, func() tea.Msg { return BackToTasks{} }
		}
		if v.sharing {
			return v.updateSharing(msg)
		}
		if v.prompting {
			return v.updatePrompt(msg)
		}
		if v.editingNotes {
			return v.updateEditingNotes(msg)
		}
		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *WorkspaceView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		v.ws.Close()
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		v.ws.Close()
		return v, func() tea.Msg { return BackToTasks{} }

	case key.Matches(msg, v.keys.Tab):
		v.focus = paneOrder[(int(v.focus)+1)%len(paneOrder)]
		return v, nil

	case key.Matches(msg, v.keys.Share):
		if v.ws.Capability().IsOwner() {
			v.sharing = true
			v.shareFocusIdx = 0
			v.shareCursor = 0
			v.shareEmail.Reset()
			v.shareEmail.Focus()
			v.ws.Shares.ClearMessages()
			return v, tea.Batch(textinput.Blink, func() tea.Msg {
				v.ws.Shares.Load(context.Background())
				return WorkspaceRefreshMsg{}
			})
		}
		return v, nil
	}

	switch v.focus {
	case PaneNotes:
		if key.Matches(msg, v.keys.Enter) && v.ws.CanEdit() {
			v.editingNotes = true
			v.notes.Focus()
			return v, textarea.Blink
		}

	case PaneAttachments:
		return v.updateAttachmentKeys(msg)

	case PaneSummary:
		switch {
		case key.Matches(msg, v.keys.Generate):
			return v, v.generateCmd(func(ctx context.Context) bool { return v.ws.Summary.Generate(ctx) })
		case key.Matches(msg, v.keys.Delete):
			if v.ws.CanEdit() && v.ws.Summary.State() == workspace.StateReady {
				return v, func() tea.Msg {
					_ = v.ws.Summary.Delete(context.Background())
					return WorkspaceRefreshMsg{}
				}
			}
		}

	case PaneResources:
		switch {
		case key.Matches(msg, v.keys.Generate):
			return v, v.generateCmd(func(ctx context.Context) bool { return v.ws.Resources.Generate(ctx) })
		case key.Matches(msg, v.keys.Delete):
			if v.ws.CanEdit() && v.ws.Resources.State() == workspace.StateReady {
				return v, func() tea.Msg {
					_ = v.ws.Resources.Delete(context.Background())
					return WorkspaceRefreshMsg{}
				}
			}
		}

	case PaneSolutions:
		return v.updateSolutionKeys(msg)
	}

	return v, nil
}

// generateCmd runs one of the artifact generate calls off the event
// loop. A gate denial surfaces as a status hint.
func (v *WorkspaceView) generateCmd(generate func(context.Context) bool) tea.Cmd {
	return func() tea.Msg {
		if !generate(context.Background()) {
			return statusMsg{text: "Add notes or attachments first"}
		}
		return WorkspaceRefreshMsg{}
	}
}

func (v *WorkspaceView) updateAttachmentKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	attachments := v.ws.Attachments()

	switch {
	case key.Matches(msg, v.keys.Up):
		if v.attachmentCursor > 0 {
			v.attachmentCursor--
		}
	case key.Matches(msg, v.keys.Down):
		if v.attachmentCursor < len(attachments)-1 {
			v.attachmentCursor++
		}
	case key.Matches(msg, v.keys.Upload):
		if v.ws.CanEdit() {
			v.prompting = true
			v.promptFor = uploadAttachment
			v.pathInput.Reset()
			v.pathInput.Focus()
			return v, textinput.Blink
		}
	case key.Matches(msg, v.keys.Download):
		if v.attachmentCursor < len(attachments) {
			return v, v.downloadCmd(attachments[v.attachmentCursor])
		}
	case key.Matches(msg, v.keys.Delete):
		if v.ws.CanEdit() && v.attachmentCursor < len(attachments) {
			id := attachments[v.attachmentCursor].ID
			return v, func() tea.Msg {
				_ = v.ws.DeleteAttachment(context.Background(), id)
				return WorkspaceRefreshMsg{}
			}
		}
	}
	return v, nil
}

func (v *WorkspaceView) downloadCmd(attachment models.TaskAttachment) tea.Cmd {
	taskID := v.ws.Task().ID
	return func() tea.Msg {
		body, err := v.client.DownloadAttachment(context.Background(), taskID, attachment.ID)
		if err != nil {
			return downloadDoneMsg{err: err}
		}
		defer body.Close()

		out, err := os.Create(attachment.Filename)
		if err != nil {
			return downloadDoneMsg{err: err}
		}
		defer out.Close()

		if _, err := io.Copy(out, body); err != nil {
			return downloadDoneMsg{err: err}
		}
		return downloadDoneMsg{filename: attachment.Filename}
	}
}

func (v *WorkspaceView) updateSolutionKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	solutions := v.ws.Solver.Solutions()

	switch {
	case key.Matches(msg, v.keys.Up):
		if v.questionCursor > 0 {
			v.questionCursor--
		} else if v.solutionCursor > 0 {
			v.solutionCursor--
			v.questionCursor = max(0, len(solutions[v.solutionCursor].Questions)-1)
		}
	case key.Matches(msg, v.keys.Down):
		if v.solutionCursor < len(solutions) {
			if v.questionCursor < len(solutions[v.solutionCursor].Questions)-1 {
				v.questionCursor++
			} else if v.solutionCursor < len(solutions)-1 {
				v.solutionCursor++
				v.questionCursor = 0
			}
		}
	case key.Matches(msg, v.keys.Toggle):
		if v.solutionCursor < len(solutions) {
			v.ws.Solver.ToggleQuestion(solutions[v.solutionCursor].ID, v.questionCursor)
		}
	case key.Matches(msg, v.keys.Upload):
		if v.ws.CanEdit() && !v.ws.Solver.Uploading() {
			v.prompting = true
			v.promptFor = uploadAssignment
			v.pathInput.Reset()
			v.pathInput.Focus()
			return v, textinput.Blink
		}
	case key.Matches(msg, v.keys.Delete):
		if v.ws.CanEdit() && v.solutionCursor < len(solutions) {
			id := solutions[v.solutionCursor].ID
			v.solutionCursor = 0
			v.questionCursor = 0
			return v, func() tea.Msg {
				_ = v.ws.Solver.DeleteSolution(context.Background(), id)
				return WorkspaceRefreshMsg{}
			}
		}
	}
	return v, nil
}

func (v *WorkspaceView) updateEditingNotes(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, v.keys.Back) {
		v.editingNotes = false
		v.notes.Blur()
		return v, nil
	}

	var cmd tea.Cmd
	v.notes, cmd = v.notes.Update(msg)
	v.ws.Notes.SetContent(v.notes.Value())
	return v, cmd
}

func (v *WorkspaceView) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.prompting = false
		v.pathInput.Blur()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		path := strings.TrimSpace(v.pathInput.Value())
		if path == "" {
			return v, nil
		}
		v.prompting = false
		v.pathInput.Blur()
		target := v.promptFor
		return v, func() tea.Msg {
			f, err := os.Open(path)
			if err != nil {
				return statusMsg{text: "Cannot open " + path}
			}
			defer f.Close()

			filename := filepath.Base(path)
			switch target {
			case uploadAttachment:
				if err := v.ws.UploadAttachment(context.Background(), filename, f); err != nil {
					return statusMsg{text: "Upload failed"}
				}
				return statusMsg{text: "Uploaded " + filename}
			default:
				v.ws.Solver.UploadAndSolve(context.Background(), filename, f)
				return WorkspaceRefreshMsg{}
			}
		}
	}

	var cmd tea.Cmd
	v.pathInput, cmd = v.pathInput.Update(msg)
	return v, cmd
}

var sharePermissions = []string{models.PermissionView, models.PermissionEdit}

func (v *WorkspaceView) updateSharing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	shares := v.ws.Shares.Shares()

	switch {
	case key.Matches(msg, v.keys.Back):
		v.sharing = false
		v.shareEmail.Blur()
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.shareFocusIdx = (v.shareFocusIdx + 1) % 3
		if v.shareFocusIdx == 0 {
			v.shareEmail.Focus()
		} else {
			v.shareEmail.Blur()
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.shareFocusIdx == 2 {
			return v, nil
		}
		email := strings.TrimSpace(v.shareEmail.Value())
		permission := sharePermissions[v.sharePermIdx]
		return v, func() tea.Msg {
			v.ws.Shares.Share(context.Background(), email, permission)
			return WorkspaceRefreshMsg{}
		}

	case key.Matches(msg, v.keys.Toggle):
		if v.shareFocusIdx == 1 {
			v.sharePermIdx = (v.sharePermIdx + 1) % len(sharePermissions)
			return v, nil
		}

	case key.Matches(msg, v.keys.Up):
		if v.shareFocusIdx == 2 && v.shareCursor > 0 {
			v.shareCursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.shareFocusIdx == 2 && v.shareCursor < len(shares)-1 {
			v.shareCursor++
		}
		return v, nil

	case key.Matches(msg, v.keys.Delete):
		if v.shareFocusIdx == 2 && v.shareCursor < len(shares) {
			share := shares[v.shareCursor]
			return v, func() tea.Msg {
				v.ws.Shares.Revoke(context.Background(), share.ID, share.SharedWithEmail)
				return WorkspaceRefreshMsg{}
			}
		}
	}

	if v.shareFocusIdx == 0 {
		var cmd tea.Cmd
		v.shareEmail, cmd = v.shareEmail.Update(msg)
		return v, cmd
	}
	return v, nil
}

// View renders the workspace
func (v *WorkspaceView) View() string {
	if v.loadFailed {
		return v.renderLoadFailed()
	}
	if !v.ws.Ready() {
		return v.styles.TitleMuted.Render(v.spin.View() + " Opening workspace...")
	}
	if v.sharing {
		return v.renderShareModal()
	}
	if v.prompting {
		return v.renderPrompt()
	}

	contentWidth := styles.ContentWidth(v.width)

	sections := []string{
		v.renderTitleBar(contentWidth),
		v.renderNotesPane(contentWidth),
		v.renderAttachmentsPane(contentWidth),
		v.renderSummaryPane(contentWidth),
		v.renderResourcesPane(contentWidth),
		v.renderSolutionsPane(contentWidth),
		v.renderHelp(),
	}

	return styles.CenterView(lipgloss.JoinVertical(lipgloss.Left, sections...), v.width, v.height)
}

func (v *WorkspaceView) renderLoadFailed() string {
	s := v.styles
	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Workspace Unavailable"),
		"",
		s.TitleMuted.Render(v.loadFailText),
		"",
		s.TitleMuted.Render("Press any key to go back"),
	)
	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, content)
}

func (v *WorkspaceView) renderTitleBar(contentWidth int) string {
	s := v.styles

	title := "Workspace"
	if task := v.ws.Task(); task != nil {
		title = task.Title
	}

	parts := []string{s.Title.Render(title)}

	capability := v.ws.Capability()
	if !capability.CanEdit() {
		parts = append(parts, s.Badge.Render("view only"))
	} else if !capability.IsOwner() {
		parts = append(parts, s.Badge.Render("shared by "+capability.OwnerEmail()))
	}

	parts = append(parts, v.renderSaveStatus())

	if v.statusMsg != "" {
		parts = append(parts, s.TitleMuted.Render(v.statusMsg))
	}

	return s.TitleBar.Width(contentWidth).Render(strings.Join(parts, "  "))
}

func (v *WorkspaceView) renderSaveStatus() string {
	s := v.styles
	switch v.ws.Notes.Status() {
	case workspace.StatusSaving:
		return s.SaveSaving.Render("saving…")
	case workspace.StatusSaved:
		return s.SaveSaved.Render("saved")
	case workspace.StatusError:
		return s.SaveError.Render("save failed")
	default:
		return s.SaveIdle.Render("")
	}
}

func (v *WorkspaceView) paneStyle(pane WorkspacePane) lipgloss.Style {
	if v.focus == pane {
		return v.styles.PaneFocused
	}
	return v.styles.Pane
}

func (v *WorkspaceView) renderNotesPane(contentWidth int) string {
	s := v.styles

	header := s.PaneTitle.Render("Notes")
	if !v.ws.CanEdit() {
		header += "  " + s.TitleMuted.Render("(read-only)")
	} else if v.focus == PaneNotes && !v.editingNotes {
		header += "  " + s.TitleMuted.Render("↵ to edit")
	}

	body := v.notes.View()
	if !v.editingNotes {
		content := v.ws.Notes.Content()
		if content == "" {
			content = s.TitleMuted.Render("No notes yet.")
		}
		body = content
	}

	return v.paneStyle(PaneNotes).Width(contentWidth - 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, body),
	)
}

func (v *WorkspaceView) renderAttachmentsPane(contentWidth int) string {
	s := v.styles
	attachments := v.ws.Attachments()

	lines := []string{s.PaneTitle.Render(fmt.Sprintf("Attachments (%d)", len(attachments)))}
	if len(attachments) == 0 {
		lines = append(lines, s.TitleMuted.Render("No attachments."))
	}
	for i, a := range attachments {
		line := fmt.Sprintf("%s  %s", a.Filename, humanSize(a.FileSize))
		if v.focus == PaneAttachments && i == v.attachmentCursor {
			line = s.ListSelected.Render(line)
		} else {
			line = s.ListItem.Render(line)
		}
		lines = append(lines, line)
	}

	return v.paneStyle(PaneAttachments).Width(contentWidth - 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, lines...),
	)
}

// humanSize formats a byte count for the attachment list
func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/float64(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func (v *WorkspaceView) renderSummaryPane(contentWidth int) string {
	s := v.styles

	lines := []string{s.PaneTitle.Render("Study Guide")}
	switch v.ws.Summary.State() {
	case workspace.StateLoading:
		lines = append(lines, v.spin.View()+" Generating...")
	case workspace.StateError:
		lines = append(lines, s.ErrorText.Render(v.ws.Summary.Err()))
	case workspace.StateReady:
		summary := v.ws.Summary.Data()
		lines = append(lines, summary.Summary)
		if len(summary.KeyPoints) > 0 {
			lines = append(lines, "", s.TitleMuted.Render("Key points:"))
			for _, p := range summary.KeyPoints {
				lines = append(lines, "  • "+p)
			}
		}
		if len(summary.StudyTips) > 0 {
			lines = append(lines, "", s.TitleMuted.Render("Study tips:"))
			for _, tip := range summary.StudyTips {
				lines = append(lines, "  • "+tip)
			}
		}
	default:
		if v.ws.HasContent() && v.ws.CanEdit() {
			lines = append(lines, s.TitleMuted.Render("Press 'g' to generate a study guide."))
		} else {
			lines = append(lines, s.TitleMuted.Render("Add notes or attachments to enable generation."))
		}
	}

	return v.paneStyle(PaneSummary).Width(contentWidth - 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, lines...),
	)
}

func (v *WorkspaceView) renderResourcesPane(contentWidth int) string {
	s := v.styles

	lines := []string{s.PaneTitle.Render("Resources")}
	switch v.ws.Resources.State() {
	case workspace.StateLoading:
		lines = append(lines, v.spin.View()+" Finding resources...")
	case workspace.StateError:
		lines = append(lines, s.ErrorText.Render(v.ws.Resources.Err()))
	case workspace.StateReady:
		for _, r := range v.ws.Resources.Data() {
			lines = append(lines, "• "+r.Title)
			lines = append(lines, "  "+s.TitleMuted.Render(r.URL))
		}
	default:
		if v.ws.HasContent() && v.ws.CanEdit() {
			lines = append(lines, s.TitleMuted.Render("Press 'g' to suggest study resources."))
		} else {
			lines = append(lines, s.TitleMuted.Render("Add notes or attachments to enable generation."))
		}
	}

	return v.paneStyle(PaneResources).Width(contentWidth - 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, lines...),
	)
}

func (v *WorkspaceView) renderSolutionsPane(contentWidth int) string {
	s := v.styles
	solutions := v.ws.Solver.Solutions()

	lines := []string{s.PaneTitle.Render("Assignment Solutions")}

	if v.ws.Solver.Uploading() {
		lines = append(lines, v.spin.View()+" Analyzing assignment...")
	}
	if errText := v.ws.Solver.Err(); errText != "" {
		lines = append(lines, s.ErrorText.Render(errText))
	}
	if len(solutions) == 0 && !v.ws.Solver.Uploading() {
		if v.ws.CanEdit() {
			lines = append(lines, s.TitleMuted.Render("Press 'u' to upload an assignment file."))
		} else {
			lines = append(lines, s.TitleMuted.Render("No solutions."))
		}
	}

	for si, solution := range solutions {
		lines = append(lines, s.Title.Render(solution.AssignmentFilename))
		for qi, q := range solution.Questions {
			label := q.QuestionNumber
			if label == "" {
				label = fmt.Sprintf("Question %d", qi+1)
			}
			marker := "▸"
			expanded := v.ws.Solver.IsExpanded(solution.ID, qi)
			if expanded {
				marker = "▾"
			}

			row := fmt.Sprintf("%s %s", marker, label)
			if v.focus == PaneSolutions && si == v.solutionCursor && qi == v.questionCursor {
				row = s.ListSelected.Render(row)
			} else {
				row = s.ListItem.Render(row)
			}
			lines = append(lines, row)

			if expanded {
				if q.Approach != "" {
					lines = append(lines, "    "+q.Approach)
				}
				for _, step := range q.SolutionSteps {
					lines = append(lines, "      - "+step)
				}
				if q.Tips != "" {
					lines = append(lines, "    "+s.TitleMuted.Render(q.Tips))
				}
			}
		}
	}

	return v.paneStyle(PaneSolutions).Width(contentWidth - 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, lines...),
	)
}

func (v *WorkspaceView) renderPrompt() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	title := "Upload Attachment"
	if v.promptFor == uploadAssignment {
		title = "Solve Assignment"
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(title),
		"",
		"File path:",
		s.InputFocused.Width(clamp(contentWidth-6, 30, 70)).Render(v.pathInput.View()),
		"",
		s.TitleMuted.Render("↵: upload • Esc: cancel"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *WorkspaceView) renderShareModal() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	emailStyle := s.Input
	permStyle := s.Input
	if v.shareFocusIdx == 0 {
		emailStyle = s.InputFocused
	}
	if v.shareFocusIdx == 1 {
		permStyle = s.InputFocused
	}

	inputWidth := clamp(contentWidth-10, 25, 50)

	lines := []string{
		s.Title.Render("Share Task"),
		"",
		"Email:",
		emailStyle.Width(inputWidth).Render(v.shareEmail.View()),
		"",
		"Permission:",
		permStyle.Width(inputWidth).Render(sharePermissions[v.sharePermIdx] + "  (space to cycle)"),
	}

	if errText := v.ws.Shares.Err(); errText != "" {
		lines = append(lines, "", s.ErrorText.Render(errText))
	}
	if success := v.ws.Shares.Success(); success != "" {
		lines = append(lines, "", s.SuccessText.Render(success))
	}

	shares := v.ws.Shares.Shares()
	if len(shares) > 0 {
		lines = append(lines, "", s.PaneTitle.Render("Shared with"))
		for i, share := range shares {
			row := fmt.Sprintf("%s  (%s)", share.SharedWithEmail, share.Permission)
			if v.shareFocusIdx == 2 && i == v.shareCursor {
				row = s.ListSelected.Render(row)
			} else {
				row = s.ListItem.Render(row)
			}
			lines = append(lines, row)
		}
	}

	lines = append(lines, "", s.TitleMuted.Render("Tab: next • ↵: share • d: revoke • Esc: close"))

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Left, lines...),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *WorkspaceView) renderHelp() string {
	s := v.styles

	parts := []string{
		s.HelpKey.Render("tab") + " pane",
	}
	switch v.focus {
	case PaneNotes:
		if v.ws.CanEdit() {
			parts = append(parts, s.HelpKey.Render("↵")+" edit notes")
		}
	case PaneAttachments:
		if v.ws.CanEdit() {
			parts = append(parts, s.HelpKey.Render("u")+" upload", s.HelpKey.Render("d")+" del")
		}
		parts = append(parts, s.HelpKey.Render("o")+" download")
	case PaneSummary, PaneResources:
		if v.ws.CanEdit() {
			parts = append(parts, s.HelpKey.Render("g")+" generate", s.HelpKey.Render("d")+" del")
		}
	case PaneSolutions:
		if v.ws.CanEdit() {
			parts = append(parts, s.HelpKey.Render("u")+" solve", s.HelpKey.Render("d")+" del")
		}
		parts = append(parts, s.HelpKey.Render("space")+" expand")
	}
	if v.ws.Capability().IsOwner() {
		parts = append(parts, s.HelpKey.Render("s")+" share")
	}
	parts = append(parts, s.HelpKey.Render("esc")+" back", s.HelpKey.Render("q")+" quit")

	return s.Help.Render(strings.Join(parts, " • "))
}
