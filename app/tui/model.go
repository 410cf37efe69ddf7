// Package tui renders the browser state in the terminal with bubbletea.
//
// The model only reads state through Browser.Snapshot and re-renders when
// the browser signals an update. It must be driven from the bubbletea
// event loop.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"postbrowser/app/state"
)

type pane int

const (
	paneUsers pane = iota
	panePosts
	paneComments
	paneCount
)

// updateMsg is sent when the browser reports a state change.
type updateMsg struct{}

// Model is the bubbletea model for the browser.
type Model struct {
	ctx     context.Context
	browser *state.Browser
	form    *state.Form

	snap   state.Snapshot
	focus  pane
	cursor [paneCount]int

	name      textinput.Model
	email     textinput.Model
	body      textarea.Model
	formField int
	// submitting is set while a forwarded comment is being created.
	submitting bool

	notice string
	width  int
	height int
}

// New creates a model over browser. ctx is passed to every operation the
// model starts.
func New(ctx context.Context, browser *state.Browser) Model {
	name := textinput.New()
	name.Placeholder = "Name"
	name.CharLimit = 100

	email := textinput.New()
	email.Placeholder = "Email"
	email.CharLimit = 254

	body := textarea.New()
	body.Placeholder = "Write a comment..."
	body.CharLimit = 1000
	body.SetHeight(3)
	body.ShowLineNumbers = false

	return Model{
		ctx:     ctx,
		browser: browser,
		form:    state.NewForm(browser),
		snap:    browser.Snapshot(),
		name:    name,
		email:   email,
		body:    body,
	}
}

// Run starts the terminal program and blocks until the user quits.
func Run(ctx context.Context, browser *state.Browser, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(New(ctx, browser), opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func waitForUpdate(b *state.Browser) tea.Cmd {
	return func() tea.Msg {
		<-b.Updates()
		return updateMsg{}
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	m.browser.LoadUsers(m.ctx)
	return waitForUpdate(m.browser)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.body.SetWidth(max(20, m.width/3-4))
		return m, nil

	case updateMsg:
		m.refresh()
		m.settleSubmit()
		return m, waitForUpdate(m.browser)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.snap.FormOpen {
			return m.updateForm(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m *Model) refresh() {
	m.snap = m.browser.Snapshot()
	lengths := [paneCount]int{
		len(m.snap.Users.Items),
		len(m.snap.Posts.Items),
		len(m.snap.Comments.Items),
	}
	for p, n := range lengths {
		if m.cursor[p] >= n {
			m.cursor[p] = max(0, n-1)
		}
	}
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor[m.focus] > 0 {
			m.cursor[m.focus]--
		}
	case "down", "j":
		if m.cursor[m.focus] < m.paneLen(m.focus)-1 {
			m.cursor[m.focus]++
		}
	case "left", "h", "shift+tab":
		m.focus = (m.focus + paneCount - 1) % paneCount
	case "right", "l", "tab":
		m.focus = (m.focus + 1) % paneCount
	case "enter":
		m.activate()
	case "esc":
		m.browser.ClosePost()
		m.focus = panePosts
	case "w":
		if err := m.browser.OpenForm(); err != nil {
			m.notice = "Open a post first"
			break
		}
		m.formField = 0
		m.refresh()
		cmd := m.focusField()
		return m, cmd
	case "d":
		if m.focus == paneComments && m.paneLen(paneComments) > 0 {
			c := m.snap.Comments.Items[m.cursor[paneComments]]
			if err := m.browser.DeleteComment(m.ctx, c.ID); err != nil {
				m.notice = err.Error()
			}
		}
	case "r":
		m.retry()
	}
	m.refresh()
	return m, nil
}

func (m *Model) activate() {
	switch m.focus {
	case paneUsers:
		if m.paneLen(paneUsers) == 0 {
			return
		}
		m.browser.SelectUser(m.ctx, m.snap.Users.Items[m.cursor[paneUsers]])
		m.cursor[panePosts] = 0
		m.cursor[paneComments] = 0
		m.focus = panePosts
	case panePosts:
		if m.paneLen(panePosts) == 0 {
			return
		}
		if err := m.browser.SelectPost(m.ctx, m.snap.Posts.Items[m.cursor[panePosts]]); err != nil {
			m.notice = err.Error()
			return
		}
		m.cursor[paneComments] = 0
		m.focus = paneComments
	}
}

// retry repeats the fetch of the failed tier.
func (m *Model) retry() {
	switch {
	case m.snap.Users.Err != nil:
		m.browser.LoadUsers(m.ctx)
	case m.snap.Posts.Err != nil && m.snap.Selection.User != nil:
		m.browser.SelectUser(m.ctx, *m.snap.Selection.User)
	case m.snap.Comments.Err != nil && m.snap.Selection.Post != nil:
		post := *m.snap.Selection.Post
		m.browser.ClosePost()
		_ = m.browser.SelectPost(m.ctx, post)
	}
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.submitting = false
		m.browser.CloseForm()
		m.refresh()
		return m, nil
	case "tab":
		m.formField = (m.formField + 1) % len(state.Fields)
		cmd := m.focusField()
		return m, cmd
	case "shift+tab":
		m.formField = (m.formField + len(state.Fields) - 1) % len(state.Fields)
		cmd := m.focusField()
		return m, cmd
	case "ctrl+l":
		m.form.Clear()
		m.resetInputs()
		return m, nil
	case "ctrl+s":
		return m.submit()
	}

	var cmd tea.Cmd
	switch state.Fields[m.formField] {
	case state.FieldName:
		m.name, cmd = m.name.Update(msg)
		m.form.Set(state.FieldName, m.name.Value())
	case state.FieldEmail:
		m.email, cmd = m.email.Update(msg)
		m.form.Set(state.FieldEmail, m.email.Value())
	case state.FieldBody:
		m.body, cmd = m.body.Update(msg)
		m.form.Set(state.FieldBody, m.body.Value())
	}
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	err := m.form.Submit(m.ctx)
	var verrs state.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		return m, nil
	case err != nil:
		m.notice = err.Error()
		return m, nil
	}
	m.notice = ""
	m.submitting = true
	return m, nil
}

// settleSubmit closes and clears the form once a forwarded comment has
// been created. A failed add keeps the form open with its values so it
// can be resubmitted.
func (m *Model) settleSubmit() {
	if !m.submitting || m.snap.Comments.Loading {
		return
	}
	m.submitting = false
	if err := m.snap.Comments.Err; err != nil && err.Kind == state.MutationFailure && err.Subject == state.SubjectAdd {
		m.notice = "ctrl+s to resubmit"
		return
	}
	m.form.Clear()
	m.resetInputs()
	m.browser.CloseForm()
	m.refresh()
}

func (m *Model) resetInputs() {
	m.name.Reset()
	m.email.Reset()
	m.body.Reset()
}

func (m *Model) focusField() tea.Cmd {
	m.name.Blur()
	m.email.Blur()
	m.body.Blur()
	switch state.Fields[m.formField] {
	case state.FieldName:
		return m.name.Focus()
	case state.FieldEmail:
		return m.email.Focus()
	default:
		return m.body.Focus()
	}
}

func (m Model) paneLen(p pane) int {
	switch p {
	case paneUsers:
		return len(m.snap.Users.Items)
	case panePosts:
		return len(m.snap.Posts.Items)
	default:
		return len(m.snap.Comments.Items)
	}
}

// View implements tea.Model.
func (m Model) View() string {
	paneWidth := 30
	if m.width > 0 {
		paneWidth = max(20, m.width/3-4)
	}

	columns := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderPane(paneUsers, "Users", m.userLines(), paneWidth),
		m.renderPane(panePosts, "Posts", m.postLines(), paneWidth),
		m.renderPane(paneComments, "Comments", m.commentLines(), paneWidth),
	)

	var b strings.Builder
	b.WriteString(titleStyle.Render("postbrowser"))
	b.WriteString("\n")
	b.WriteString(columns)
	b.WriteString("\n")
	if m.snap.FormOpen {
		b.WriteString(m.renderForm())
		b.WriteString("\n")
	}
	if m.snap.LastError != nil {
		b.WriteString(errorStyle.Render(m.snap.LastError.Error()))
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString(dimStyle.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(m.help()))
	return b.String()
}

func (m Model) help() string {
	if m.snap.FormOpen {
		return "tab: next field • ctrl+s: submit • ctrl+l: clear • esc: cancel"
	}
	return "↑/↓: move • ←/→: pane • enter: open • esc: close post • w: write • d: delete • r: retry • q: quit"
}

func (m Model) renderPane(p pane, title string, lines []string, width int) string {
	style := paneStyle
	if m.focus == p {
		style = focusedPaneStyle
	}
	body := append([]string{activeStyle.Render(title)}, lines...)
	return style.Width(width).Render(strings.Join(body, "\n"))
}

func (m Model) itemLine(p pane, i int, text string, active bool) string {
	switch {
	case m.focus == p && m.cursor[p] == i:
		return selectedStyle.Render(text)
	case active:
		return activeStyle.Render(text)
	default:
		return text
	}
}

func (m Model) userLines() []string {
	slot := m.snap.Users
	var lines []string
	switch {
	case slot.Err != nil && !slot.Empty():
		// A failed reload keeps the users of the last success.
		lines, _ = statusLines(false, slot.Err, false, "")
	default:
		if status, ok := statusLines(slot.Loading, slot.Err, slot.Empty(), "No users"); ok {
			return status
		}
	}
	for i, u := range slot.Items {
		lines = append(lines, m.itemLine(paneUsers, i, u.Name, u.ID == m.snap.Selection.UserID()))
	}
	return lines
}

func (m Model) postLines() []string {
	if m.snap.Selection.User == nil {
		return []string{dimStyle.Render("No user selected")}
	}
	slot := m.snap.Posts
	if lines, ok := statusLines(slot.Loading, slot.Err, slot.Empty(), "No posts yet"); ok {
		return lines
	}
	lines := make([]string, 0, len(slot.Items))
	for i, p := range slot.Items {
		lines = append(lines, m.itemLine(panePosts, i, p.Title, p.ID == m.snap.Selection.PostID()))
	}
	return lines
}

func (m Model) commentLines() []string {
	post := m.snap.Selection.Post
	if post == nil {
		return []string{dimStyle.Render("No post open")}
	}
	lines := []string{activeStyle.Render(post.Title), post.Body, ""}
	slot := m.snap.Comments
	if len(slot.Items) == 0 {
		status, _ := statusLines(slot.Loading, slot.Err, true, "No comments yet")
		return append(lines, status...)
	}
	for i, c := range slot.Items {
		lines = append(lines, m.itemLine(paneComments, i, fmt.Sprintf("%s <%s>: %s", c.Name, c.Email, c.Body), false))
	}
	if slot.Loading {
		lines = append(lines, dimStyle.Render("Saving..."))
	}
	if slot.Err != nil {
		lines = append(lines, errorStyle.Render(slot.Err.Error()))
	}
	return lines
}

// statusLines renders the loading, error and empty states of a slot. ok is
// false when the slot has items to show.
func statusLines(loading bool, err *state.Failure, empty bool, emptyText string) ([]string, bool) {
	switch {
	case loading:
		return []string{dimStyle.Render("Loading...")}, true
	case err != nil:
		return []string{errorStyle.Render(err.Error()), dimStyle.Render("press r to retry")}, true
	case empty:
		return []string{dimStyle.Render(emptyText)}, true
	}
	return nil, false
}

func (m Model) renderForm() string {
	errs := m.form.Errors()
	field := func(f state.Field, view string) string {
		if msg, ok := errs[f]; ok {
			return view + "\n" + errorStyle.Render(msg)
		}
		return view
	}
	return paneStyle.Render(strings.Join([]string{
		activeStyle.Render("Write a comment"),
		field(state.FieldName, m.name.View()),
		field(state.FieldEmail, m.email.View()),
		field(state.FieldBody, m.body.View()),
	}, "\n"))
}
