package ui

import (
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/roadwork/pkg/model"
)

func testFeatureItem() model.TimedItem {
	return model.TimedItem{
		ID:        "f1",
		Kind:      model.KindFeature,
		ParentID:  "p1",
		Name:      "Ship onboarding",
		StartDate: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 1, 30, 0, 0, 0, 0, time.UTC),
		Progress:  &model.Progress{Status: model.ProgressInProgress, PercentComplete: 40},
	}
}

func modalTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(io.Discard))
}

func TestEditModalPrepopulates(t *testing.T) {
	em := NewEditModal(testFeatureItem(), modalTheme())

	edit, err := em.Result()
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if edit.ID != "f1" || edit.Name != "Ship onboarding" {
		t.Errorf("edit = %+v", edit)
	}
	if !edit.StartDate.Equal(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", edit.StartDate)
	}
	if edit.Status != model.ProgressInProgress || edit.PercentComplete != 40 {
		t.Errorf("progress = %v %d", edit.Status, edit.PercentComplete)
	}
}

func TestEditModalSaveAndCancelKeys(t *testing.T) {
	em := NewEditModal(testFeatureItem(), modalTheme())
	em, _ = em.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !em.IsSaveRequested() {
		t.Error("enter did not request save")
	}

	em = NewEditModal(testFeatureItem(), modalTheme())
	em, _ = em.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !em.IsCancelRequested() {
		t.Error("esc did not request cancel")
	}
}

func TestEditModalFieldNavigationAndTyping(t *testing.T) {
	em := NewEditModal(testFeatureItem(), modalTheme())

	// Clear the name and type a new one.
	em.fields[0].Input.SetValue("")
	em, _ = em.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("New name")})
	if got := em.fields[0].Input.Value(); got != "New name" {
		t.Errorf("name field = %q", got)
	}

	em, _ = em.Update(tea.KeyMsg{Type: tea.KeyTab})
	if em.focusedField != 1 {
		t.Errorf("focus after tab = %d", em.focusedField)
	}
	em, _ = em.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if em.focusedField != 0 {
		t.Errorf("focus after shift+tab = %d", em.focusedField)
	}
}

func TestEditModalTabTraversesAllFields(t *testing.T) {
	em := NewEditModal(testFeatureItem(), modalTheme())

	// A full loop forward and back crosses the Status select both ways;
	// focus handoff must work for every field type.
	for i := 0; i < len(em.fields); i++ {
		em, _ = em.Update(tea.KeyMsg{Type: tea.KeyTab})
	}
	if em.focusedField != 0 {
		t.Errorf("focus after full loop = %d", em.focusedField)
	}
	for i := 0; i < len(em.fields); i++ {
		em, _ = em.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	}
	if em.focusedField != 0 {
		t.Errorf("focus after reverse loop = %d", em.focusedField)
	}
	if em.IsSaveRequested() || em.IsCancelRequested() {
		t.Error("navigation alone requested save or cancel")
	}
}

func TestEditModalStatusCycling(t *testing.T) {
	em := NewEditModal(testFeatureItem(), modalTheme())
	// Move focus to the status select (field 3).
	for i := 0; i < 3; i++ {
		em, _ = em.Update(tea.KeyMsg{Type: tea.KeyTab})
	}

	start := em.fields[3].Selected
	em, _ = em.Update(tea.KeyMsg{Type: tea.KeyRight})
	if em.fields[3].Selected == start {
		t.Error("right did not advance the status")
	}
	em, _ = em.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if em.fields[3].Selected != start {
		t.Error("left did not go back")
	}
}

func TestEditModalResultValidation(t *testing.T) {
	cases := []struct {
		name  string
		field int
		value string
	}{
		{"empty name", 0, ""},
		{"bad start date", 1, "not-a-date"},
		{"bad end date", 2, "2026-13-45"},
		{"percent out of range", 4, "150"},
		{"percent not a number", 4, "half"},
	}
	for _, tc := range cases {
		em := NewEditModal(testFeatureItem(), modalTheme())
		em.fields[tc.field].Input.SetValue(tc.value)
		if _, err := em.Result(); err == nil {
			t.Errorf("%s: Result accepted %q", tc.name, tc.value)
		}
	}

	em := NewEditModal(testFeatureItem(), modalTheme())
	em.fields[1].Input.SetValue("2026-02-10")
	em.fields[2].Input.SetValue("2026-02-01")
	if _, err := em.Result(); err == nil {
		t.Error("Result accepted end before start")
	}
}

func TestEditModalViewListsFields(t *testing.T) {
	em := NewEditModal(testFeatureItem(), modalTheme())
	out := em.View()
	for _, want := range []string{"Edit feature", "Name", "Start", "End", "Status", "Done %"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
