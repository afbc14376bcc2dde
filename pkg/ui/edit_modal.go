package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/roadwork/pkg/model"
)

// editFieldType defines how an edit field renders and updates.
type editFieldType int

const (
	editFieldText editFieldType = iota
	editFieldSelect
)

type editField struct {
	Label    string
	Type     editFieldType
	Input    textinput.Model
	Options  []string
	Selected int
	Original string
}

// EditModal is the field-by-field feature editor opened by double-click
// or the edit key. Saving produces a FeatureEdit; the model applies it
// to the repository.
type EditModal struct {
	fields       []editField
	focusedField int
	theme        Theme
	featureID    string

	saveRequested   bool
	cancelRequested bool
}

// FeatureEdit is the modal's result: the edited values for one feature.
type FeatureEdit struct {
	ID              string
	Name            string
	StartDate       time.Time
	EndDate         time.Time
	Status          model.ProgressStatus
	PercentComplete int
}

const editDateLayout = "2006-01-02"

var statusOptions = []string{
	string(model.ProgressNotStarted),
	string(model.ProgressInProgress),
	string(model.ProgressDone),
}

// NewEditModal builds an edit modal pre-populated from a feature.
func NewEditModal(f model.TimedItem, theme Theme) EditModal {
	status := string(model.ProgressNotStarted)
	pct := "0"
	if f.Progress != nil {
		status = string(f.Progress.Status)
		pct = strconv.Itoa(f.Progress.PercentComplete)
	}

	fields := []editField{
		makeTextField("Name", f.Name),
		makeTextField("Start", f.StartDate.Format(editDateLayout)),
		makeTextField("End", f.EndDate.Format(editDateLayout)),
		makeSelectField("Status", status, statusOptions),
		makeTextField("Done %", pct),
	}
	fields[0].Input.Focus()

	return EditModal{
		fields:    fields,
		theme:     theme,
		featureID: f.ID,
	}
}

func makeTextField(label, value string) editField {
	ti := textinput.New()
	ti.SetValue(value)
	ti.CharLimit = 120
	ti.Width = 32
	return editField{Label: label, Type: editFieldText, Input: ti, Original: value}
}

func makeSelectField(label, value string, options []string) editField {
	selected := 0
	for i, opt := range options {
		if opt == value {
			selected = i
		}
	}
	// The select renders its own options, but focus traversal still
	// blurs and focuses Input, so it must be a real textinput.
	return editField{Label: label, Type: editFieldSelect, Input: textinput.New(), Options: options, Selected: selected, Original: value}
}

// Update handles key input routed to the modal.
func (m EditModal) Update(msg tea.Msg) (EditModal, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		m.cancelRequested = true
		return m, nil
	case "enter", "ctrl+s":
		m.saveRequested = true
		return m, nil
	case "tab", "down":
		m.fields[m.focusedField].Input.Blur()
		m.focusedField = (m.focusedField + 1) % len(m.fields)
		m.fields[m.focusedField].Input.Focus()
		return m, nil
	case "shift+tab", "up":
		m.fields[m.focusedField].Input.Blur()
		m.focusedField = (m.focusedField - 1 + len(m.fields)) % len(m.fields)
		m.fields[m.focusedField].Input.Focus()
		return m, nil
	}

	field := &m.fields[m.focusedField]
	switch field.Type {
	case editFieldSelect:
		switch keyMsg.String() {
		case "left", "h":
			field.Selected = (field.Selected - 1 + len(field.Options)) % len(field.Options)
		case "right", "l", " ":
			field.Selected = (field.Selected + 1) % len(field.Options)
		}
		return m, nil
	default:
		var cmd tea.Cmd
		field.Input, cmd = field.Input.Update(msg)
		return m, cmd
	}
}

// IsSaveRequested reports whether the user confirmed the edit.
func (m EditModal) IsSaveRequested() bool { return m.saveRequested }

// IsCancelRequested reports whether the user dismissed the modal.
func (m EditModal) IsCancelRequested() bool { return m.cancelRequested }

// Result parses the field values into a FeatureEdit. Dates must be
// YYYY-MM-DD with end on or after start; percent must be 0-100.
func (m EditModal) Result() (FeatureEdit, error) {
	name := strings.TrimSpace(m.fields[0].Input.Value())
	if name == "" {
		return FeatureEdit{}, fmt.Errorf("name is required")
	}
	start, err := time.ParseInLocation(editDateLayout, strings.TrimSpace(m.fields[1].Input.Value()), time.UTC)
	if err != nil {
		return FeatureEdit{}, fmt.Errorf("start date: %w", err)
	}
	end, err := time.ParseInLocation(editDateLayout, strings.TrimSpace(m.fields[2].Input.Value()), time.UTC)
	if err != nil {
		return FeatureEdit{}, fmt.Errorf("end date: %w", err)
	}
	if end.Before(start) {
		return FeatureEdit{}, fmt.Errorf("end date %s is before start date %s", formatDate(end), formatDate(start))
	}
	pct, err := strconv.Atoi(strings.TrimSpace(m.fields[4].Input.Value()))
	if err != nil || pct < 0 || pct > 100 {
		return FeatureEdit{}, fmt.Errorf("done %% must be a number from 0 to 100")
	}
	return FeatureEdit{
		ID:              m.featureID,
		Name:            name,
		StartDate:       start,
		EndDate:         end,
		Status:          model.ProgressStatus(m.fields[3].Options[m.fields[3].Selected]),
		PercentComplete: pct,
	}, nil
}

// View renders the modal box.
func (m EditModal) View() string {
	var b strings.Builder
	b.WriteString(m.theme.HelpTitle.Render("Edit feature") + "\n\n")

	for i, f := range m.fields {
		label := f.Label
		if i == m.focusedField {
			label = m.theme.StatusKey.Render("> " + label)
		} else {
			label = m.theme.HelpText.Render("  " + label)
		}
		var value string
		switch f.Type {
		case editFieldSelect:
			parts := make([]string, len(f.Options))
			for j, opt := range f.Options {
				if j == f.Selected {
					parts[j] = m.theme.HelpKey.Render("[" + opt + "]")
				} else {
					parts[j] = m.theme.HelpText.Render(opt)
				}
			}
			value = strings.Join(parts, " ")
		default:
			value = f.Input.View()
		}
		b.WriteString(fmt.Sprintf("%s  %s\n", padCells(label, 10), value))
	}

	b.WriteString("\n" + m.theme.HelpText.Render("enter save · esc cancel · tab next field"))
	return m.theme.ModalBorder.Render(b.String())
}

// overlay centers content over a backdrop of the given size.
func overlay(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
