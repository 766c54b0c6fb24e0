package board

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fyrsmithlabs/projectctl/internal/project"
)

type formField struct {
	key         string
	label       string
	placeholder string
	limit       int
}

// formFields are the create form inputs in tab order.
var formFields = []formField{
	{key: project.FieldName, label: "Name", placeholder: "Roof repair", limit: 64},
	{key: project.FieldDescription, label: "Description", placeholder: "what needs doing", limit: 256},
	{key: project.FieldStartDate, label: "Start date", placeholder: "YYYY-MM-DD", limit: 10},
	{key: project.FieldStartTime, label: "Start time", placeholder: "hh:mm AM", limit: 8},
	{key: project.FieldEndDate, label: "End date", placeholder: "YYYY-MM-DD", limit: 10},
	{key: project.FieldEndTime, label: "End time", placeholder: "hh:mm PM", limit: 8},
}

// createForm collects a project draft. Field errors from the last submit stay
// until that field is edited.
type createForm struct {
	inputs     []textinput.Model
	focus      int
	draft      project.Draft
	errs       project.ErrorSet
	err        error
	submitting bool
}

type createdMsg struct {
	name string
	err  error
}

func newCreateForm() *createForm {
	f := &createForm{
		inputs: make([]textinput.Model, len(formFields)),
		errs:   project.ErrorSet{},
	}
	for i, field := range formFields {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = field.placeholder
		in.CharLimit = field.limit
		f.inputs[i] = in
	}
	f.inputs[0].Focus()
	return f
}

func create(ctx context.Context, ctrl Controller, p project.Project) tea.Cmd {
	return func() tea.Msg {
		return createdMsg{name: p.Name, err: ctrl.Create(ctx, p)}
	}
}

// move shifts focus by delta, wrapping around.
func (f *createForm) move(delta int) tea.Cmd {
	f.inputs[f.focus].Blur()
	n := len(f.inputs)
	f.focus = (f.focus + delta + n) % n
	return f.inputs[f.focus].Focus()
}

// edit forwards msg to the focused input. A changed value is copied into the
// draft and clears that field's error.
func (f *createForm) edit(msg tea.Msg) tea.Cmd {
	before := f.inputs[f.focus].Value()
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)

	after := f.inputs[f.focus].Value()
	if after == before {
		return cmd
	}
	key := formFields[f.focus].key
	if d, err := f.draft.Set(key, after); err == nil {
		f.draft = d
	}
	f.errs = f.errs.Without(key)
	f.err = nil
	return cmd
}

// submit validates the draft. It returns the record to create, or ok=false
// with the errors recorded on the form and focus on the first failing field.
func (f *createForm) submit() (p project.Project, ok bool) {
	if errs := project.Validate(f.draft); !errs.Empty() {
		f.errs = errs
		for i, field := range formFields {
			if _, failed := errs[field.key]; failed {
				f.move(i - f.focus)
				break
			}
		}
		return project.Project{}, false
	}

	p, err := project.FromDraft(f.draft)
	if err != nil {
		f.err = err
		return project.Project{}, false
	}
	f.submitting = true
	return p, true
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyEsc:
		m.form = nil
		return m, nil
	}
	if f.submitting {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		return m, f.move(1)
	case tea.KeyShiftTab, tea.KeyUp:
		return m, f.move(-1)
	case tea.KeyEnter:
		if f.focus < len(f.inputs)-1 {
			return m, f.move(1)
		}
		p, ok := f.submit()
		if !ok {
			return m, nil
		}
		return m, create(m.ctx, m.ctrl, p)
	}

	return m, f.edit(msg)
}

func (f *createForm) view() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(" New project "))
	b.WriteString("\n\n")

	for i, field := range formFields {
		label := dimStyle.Render(field.label)
		if i == f.focus {
			label = columnStyle.Render(field.label)
		}
		b.WriteString(label + "\n")
		b.WriteString("  " + f.inputs[i].View() + "\n")
		if msg, ok := f.errs[field.key]; ok {
			b.WriteString("  " + errorStyle.Render(msg) + "\n")
		}
	}

	if f.err != nil {
		b.WriteString("\n" + errorStyle.Render("✗ "+f.err.Error()) + "\n")
	}
	if f.submitting {
		b.WriteString("\n" + dimStyle.Render("saving...") + "\n")
	}

	footer := footerKeyStyle.Render("[tab]") + footerStyle.Render(" next field  ") +
		footerKeyStyle.Render("[enter]") + footerStyle.Render(" next / create  ") +
		footerKeyStyle.Render("[esc]") + footerStyle.Render(" cancel")
	b.WriteString("\n" + footer)

	return containerStyle.Render(b.String())
}
