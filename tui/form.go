package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"kisan_bazaar/models"
)

type formField struct {
	label string
	input textinput.Model
}

// Form is the add-listing editor. It only collects text; validation happens on submit.
type Form struct {
	fields  []formField
	focused int
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 40
	ti.Prompt = ""
	return ti
}

func NewForm(values models.ListingForm) Form {
	f := Form{fields: []formField{
		{"Crop", newInput("e.g. Basmati Rice", 60)},
		{"Quantity (quintals)", newInput("40", 12)},
		{"Price per quintal (₹)", newInput("4200", 12)},
		{"Grade (A/B/C)", newInput("A", 1)},
		{"Location", newInput("Village, District", 80)},
		{"Contact", newInput("+91 98765 43210", 20)},
		{"Description", newInput("optional", 280)},
		{"Image URL", newInput("optional", 300)},
	}}
	f.fields[0].input.SetValue(values.Crop)
	f.fields[1].input.SetValue(values.Quantity)
	f.fields[2].input.SetValue(values.Price)
	f.fields[3].input.SetValue(values.Grade)
	f.fields[4].input.SetValue(values.Location)
	f.fields[5].input.SetValue(values.Contact)
	f.fields[6].input.SetValue(values.Description)
	f.fields[7].input.SetValue(values.Image)
	f.fields[0].input.Focus()
	return f
}

// Values reads the form back as typed.
func (f Form) Values() models.ListingForm {
	v := func(i int) string { return f.fields[i].input.Value() }
	return models.ListingForm{
		Crop:        v(0),
		Quantity:    v(1),
		Price:       v(2),
		Grade:       strings.ToUpper(v(3)),
		Location:    v(4),
		Contact:     v(5),
		Description: v(6),
		Image:       v(7),
	}
}

func (f Form) Focused() int { return f.focused }

func (f Form) focus(i int) (Form, tea.Cmd) {
	n := len(f.fields)
	i = ((i % n) + n) % n
	f.fields[f.focused].input.Blur()
	f.focused = i
	return f, f.fields[i].input.Focus()
}

func (f Form) Update(msg tea.Msg) (Form, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			return f.focus(f.focused + 1)
		case "shift+tab", "up":
			return f.focus(f.focused - 1)
		}
	}
	var cmd tea.Cmd
	f.fields[f.focused].input, cmd = f.fields[f.focused].input.Update(msg)
	return f, cmd
}

func (f Form) View() string {
	var b strings.Builder
	for i, field := range f.fields {
		label := StatLabel.Render(field.label)
		if i == f.focused {
			label = FilterValue.Render("› " + field.label)
		}
		b.WriteString(label + "\n  " + field.input.View() + "\n")
	}
	return b.String()
}
