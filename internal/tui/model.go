// Package tui renders the parameter form in a terminal with Bubble Tea.
package tui

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"varcvar-api/internal/form"
	"varcvar-api/internal/models"
	"varcvar-api/internal/services"
)

// SubmitFunc receives the form when the submit button is pressed while
// enabled.
type SubmitFunc func(*form.State) (*models.Submission, error)

type field int

const (
	fieldHorizon field = iota
	fieldRolling
	fieldAlpha
	fieldNumFunds
	fieldStart
	fieldEnd
	fieldSelection
	fieldSubmit
	numFields
)

// text inputs, indexed by field
var textFields = []field{fieldAlpha, fieldNumFunds, fieldStart, fieldEnd}

// Model is the Bubble Tea model of one form session.
type Model struct {
	state      *form.State
	focus      field
	inputs     map[field]*textinput.Model
	fundCursor int
	warnings   []string
	result     *models.Submission
	err        error
	submit     SubmitFunc
	styles     styles
	quitting   bool
}

func NewModel(submit SubmitFunc) Model {
	s := form.NewState()
	m := Model{
		state:  s,
		focus:  fieldHorizon,
		inputs: make(map[field]*textinput.Model, len(textFields)),
		submit: submit,
		styles: defaultStyles(),
	}

	initial := map[field]string{
		fieldAlpha:    strconv.FormatFloat(s.Confidence(), 'f', -1, 64),
		fieldNumFunds: strconv.Itoa(s.NumFunds()),
	}
	placeholders := map[field]string{
		fieldAlpha:    "0.05",
		fieldNumFunds: "1-20",
		fieldStart:    form.MinDate().Format(form.DateLayout),
		fieldEnd:      form.MaxDate().Format(form.DateLayout),
	}
	for _, f := range textFields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 10
		ti.Placeholder = placeholders[f]
		ti.SetValue(initial[f])
		ti.CursorEnd()
		m.inputs[f] = &ti
	}
	return m
}

// State exposes the form for inspection.
func (m Model) State() *form.State { return m.state }

// Result is the last accepted submission, if any.
func (m Model) Result() *models.Submission { return m.result }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	case "tab", "down":
		return m.moveFocus(1), nil
	case "shift+tab", "up":
		return m.moveFocus(-1), nil
	}

	switch m.focus {
	case fieldHorizon:
		m.cycleHorizon(key.String())
	case fieldRolling:
		m.cycleRolling(key.String())
	case fieldSelection:
		m.updateSelection(key.String())
	case fieldSubmit:
		if key.String() == "enter" {
			m.doSubmit()
		}
	default:
		if key.String() == "enter" {
			return m.moveFocus(1), nil
		}
		var cmd tea.Cmd
		ti := m.inputs[m.focus]
		*ti, cmd = ti.Update(msg)
		m.applyInput(m.focus)
		return m, cmd
	}
	return m, nil
}

func (m Model) moveFocus(delta int) Model {
	if ti, ok := m.inputs[m.focus]; ok {
		ti.Blur()
	}
	m.focus = field((int(m.focus) + delta + int(numFields)) % int(numFields))
	if ti, ok := m.inputs[m.focus]; ok {
		ti.Focus()
	}
	return m
}

func (m *Model) cycleHorizon(key string) {
	opts := form.Horizons()
	i := indexOf(len(opts), func(i int) bool { return opts[i] == m.state.Horizon() })
	if next, ok := step(key, i, len(opts)); ok {
		_ = m.state.SetHorizon(opts[next])
	}
}

func (m *Model) cycleRolling(key string) {
	opts := form.RollingPeriods()
	i := indexOf(len(opts), func(i int) bool { return opts[i] == m.state.RollingPeriod() })
	if next, ok := step(key, i, len(opts)); ok {
		_ = m.state.SetRollingPeriod(opts[next])
	}
}

func (m *Model) updateSelection(key string) {
	funds := form.Funds()
	switch key {
	case "left", "h":
		m.fundCursor = (m.fundCursor - 1 + len(funds)) % len(funds)
	case "right", "l":
		m.fundCursor = (m.fundCursor + 1) % len(funds)
	case " ", "enter", "x":
		_ = m.state.ToggleFund(funds[m.fundCursor])
	}
}

// applyInput pushes the text of input f through the matching update handler.
func (m *Model) applyInput(f field) {
	v := m.inputs[f].Value()
	var warnings []string
	switch f {
	case fieldAlpha:
		a, w := services.CoerceNumber("confidence level", v)
		m.state.SetConfidence(a)
		warnings = w
	case fieldNumFunds:
		d, w := services.CoerceNumber("fund count", v)
		m.state.SetNumFunds(services.FundCount(d))
		warnings = w
	case fieldStart:
		m.state.ClearStartDate()
		if len(v) == len(form.DateLayout) {
			warnings = services.ApplyDate("start date", v, m.state.SetStartDate)
		}
	case fieldEnd:
		m.state.ClearEndDate()
		if len(v) == len(form.DateLayout) {
			warnings = services.ApplyDate("end date", v, m.state.SetEndDate)
		}
	}
	m.warnings = append(warnings, services.Warnings(m.state)...)
	m.result = nil
	m.err = nil
}

func (m *Model) doSubmit() {
	if !m.state.CanSubmit() || m.submit == nil {
		return
	}
	m.result, m.err = m.submit(m.state)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	st := m.styles
	var b strings.Builder

	b.WriteString(st.Title.Render("VaR/CVaR Stress Test"))
	b.WriteString("\n")

	row := func(f field, label, value string) {
		ls := st.Label
		if m.focus == f {
			ls = st.Focused
		}
		b.WriteString(ls.Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}

	row(fieldHorizon, "Time Horizon (τ)", "‹ "+m.state.Horizon().Label()+" ›")
	row(fieldRolling, "Rolling Period", "‹ "+string(m.state.RollingPeriod())+" › "+
		st.Derived.Render(fmt.Sprintf("δ = %d", m.state.RollingDays())))
	row(fieldAlpha, "Confidence Level (α)", m.inputs[fieldAlpha].View())
	row(fieldNumFunds, "Number of Funds (d)", m.inputs[fieldNumFunds].View())
	row(fieldStart, "Start Date", m.inputs[fieldStart].View())
	row(fieldEnd, "End Date", m.inputs[fieldEnd].View())

	var funds []string
	for i, f := range form.Funds() {
		box := "[ ]"
		if m.state.IsSelected(f) {
			box = "[x]"
		}
		item := box + " " + f
		if m.focus == fieldSelection && i == m.fundCursor {
			item = st.Focused.UnsetWidth().Render(item)
		}
		funds = append(funds, item)
	}
	row(fieldSelection, "Selected Funds (optional)", strings.Join(m.state.SelectedFunds(), ", "))
	b.WriteString(strings.Join(funds, "  "))
	b.WriteString("\n\n")

	button := "Calculate VaR / CVaR"
	if m.state.CanSubmit() {
		button = st.Enabled.Render(button)
	} else {
		button = st.Disabled.Render(button)
	}
	if m.focus == fieldSubmit {
		button = "▶ " + button
	}
	b.WriteString(button)
	b.WriteString("\n")

	for _, w := range m.warnings {
		b.WriteString(st.Warning.Render(w))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(st.Error.Render(m.err.Error()))
		b.WriteString("\n")
	}
	if m.result != nil {
		out, _ := json.MarshalIndent(m.result.Snapshot, "", "  ")
		b.WriteString(st.Result.Render("submitted " + m.result.ID + "\n" + string(out)))
		b.WriteString("\n")
	}

	b.WriteString(st.Help.Render("tab/↑↓ move · ←→ change · space toggle fund · enter submit · esc quit"))
	return b.String()
}

func indexOf(n int, match func(int) bool) int {
	for i := 0; i < n; i++ {
		if match(i) {
			return i
		}
	}
	return 0
}

func step(key string, i, n int) (int, bool) {
	switch key {
	case "right", "l", " ":
		return (i + 1) % n, true
	case "left", "h":
		return (i - 1 + n) % n, true
	}
	return i, false
}
