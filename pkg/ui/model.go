package ui

import (
	"fmt"
	"sort"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/roadwork/pkg/config"
	"github.com/vanderheijden86/roadwork/pkg/debug"
	"github.com/vanderheijden86/roadwork/pkg/layout"
	"github.com/vanderheijden86/roadwork/pkg/model"
	"github.com/vanderheijden86/roadwork/pkg/render"
	"github.com/vanderheijden86/roadwork/pkg/store"
	"github.com/vanderheijden86/roadwork/pkg/timeline"
	"github.com/vanderheijden86/roadwork/pkg/watcher"
)

// Interaction tuning.
const (
	ZoomStep     = 1.25 // multiplicative zoom per keypress or wheel notch
	PanStepCells = 4    // horizontal pan per arrow key, in cells
	WheelRows    = 3    // vertical scroll per wheel notch
)

// FileChangedMsg is sent when the roadmap file changes on disk.
type FileChangedMsg struct{}

// WatchFileCmd returns a command that waits for a file change and sends
// FileChangedMsg. The model re-issues it after every reload.
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{}
	}
}

// ModelConfig wires the TUI to its collaborators.
type ModelConfig struct {
	Repo    *store.Repository
	Reload  func() (model.Snapshot, error) // re-reads the roadmap source; nil disables live reload
	Watcher *watcher.Watcher               // nil disables live reload
	Config  config.Config
	Title   string

	// UI-chrome callbacks. Both receive the resolved item; nil is fine.
	OnItemClick       func(model.TimedItem)
	OnItemDoubleClick func(model.TimedItem)
}

// Model is the bubbletea model for the roadmap view.
type Model struct {
	cfg      ModelConfig
	repo     *store.Repository
	renderer *lipgloss.Renderer
	theme    Theme

	scheduler *Scheduler
	pointer   *Pointer

	view  ViewState
	items []model.TimedItem
	rows  map[string]int
	stats RoadmapStats

	frame     string // cached; rebuilt only on paintMsg
	statusMsg string

	showHelp  bool
	editing   bool
	editModal EditModal

	ready bool
	now   func() time.Time
}

// New builds the roadmap TUI model.
func New(cfg ModelConfig) Model {
	vs := NewViewState()
	if z := cfg.Config.View.ZoomLevel; z > 0 {
		vs.Zoom = timeline.ClampZoom(z)
	}

	m := Model{
		cfg:       cfg,
		repo:      cfg.Repo,
		renderer:  NewRenderer(),
		scheduler: NewScheduler(),
		pointer: NewPointer(PointerLayout{
			LabelColWidth: LabelCells,
			HeaderHeight:  HeaderRows,
			RowHeight:     1,
		}),
		view: vs,
		now:  time.Now,
	}
	m.theme = DefaultTheme(m.renderer)
	m.recompute()
	return m
}

// Init starts the paint loop and, when a watcher is wired, the file
// watch loop.
func (m Model) Init() tea.Cmd {
	m.scheduler.ScheduleRender()
	cmds := []tea.Cmd{WaitPaintCmd(m.scheduler)}
	if m.cfg.Watcher != nil {
		cmds = append(cmds, WatchFileCmd(m.cfg.Watcher))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.view.Width = msg.Width
		m.view.Height = msg.Height - 1 // status bar
		m.ready = true
		m.scheduler.ScheduleResize()
		return m, nil

	case paintMsg:
		m.recompute()
		m.frame = renderFrame(m.renderer, m.theme, frameInput{
			State: m.view,
			Items: m.visibleItems(),
			Rows:  m.rows,
			Now:   m.now(),
		})
		return m, WaitPaintCmd(m.scheduler)

	case FileChangedMsg:
		m.reload()
		if m.cfg.Watcher != nil {
			return m, WatchFileCmd(m.cfg.Watcher)
		}
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if m.editing {
			return m.handleEditKeys(msg)
		}
		if m.showHelp {
			switch msg.String() {
			case "?", "esc", "q":
				m.showHelp = false
			}
			return m, nil
		}
		return m.handleKeys(msg)
	}
	return m, nil
}

func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}
	out := m.frame + "\n" + m.statusLine()
	if m.showHelp {
		return overlay(renderHelp(m.theme), m.view.Width, m.view.Height+1)
	}
	if m.editing {
		return overlay(m.editModal.View(), m.view.Width, m.view.Height+1)
	}
	return out
}

// --- keyboard ----------------------------------------------------------------

func (m Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "?":
		m.showHelp = true
	case "+", "=":
		m.ZoomIn()
	case "-", "_":
		m.ZoomOut()
	case "left":
		m.panBy(-PanStepCells)
	case "right":
		m.panBy(PanStepCells)
	case "up":
		m.scrollBy(-1)
	case "down":
		m.scrollBy(1)
	case "pgup":
		m.scrollBy(-m.view.BodyRows())
	case "pgdown":
		m.scrollBy(m.view.BodyRows())
	case "0":
		m.ResetView()
	case "t":
		m.ScrollToDate(m.now())
	case "tab":
		m.selectFeature(1)
	case "shift+tab":
		m.selectFeature(-1)
	case " ":
		m.toggleCollapse()
	case "e", "enter":
		m.openEditor(m.view.SelectedID)
	case "c":
		m.copySelectedID()
	case "x":
		m.exportSnapshot()
	}
	return m, nil
}

func (m Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.editModal, cmd = m.editModal.Update(msg)
	switch {
	case m.editModal.IsCancelRequested():
		m.editing = false
	case m.editModal.IsSaveRequested():
		edit, err := m.editModal.Result()
		if err != nil {
			m.statusMsg = err.Error()
			m.editModal.saveRequested = false
			return m, cmd
		}
		m.applyEdit(edit)
		m.editing = false
	}
	if !m.editing {
		m.scheduler.ScheduleRender()
	}
	return m, cmd
}

// --- mouse -------------------------------------------------------------------

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.editing || m.showHelp {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if msg.Ctrl {
			m.ZoomIn()
		} else {
			m.scrollBy(-WheelRows)
		}
		return m, nil
	case tea.MouseButtonWheelDown:
		if msg.Ctrl {
			m.ZoomOut()
		} else {
			m.scrollBy(WheelRows)
		}
		return m, nil
	}

	x, y := float64(msg.X), float64(msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.pointer.SetContext(m.pointerContext())
			m.pointer.Down(x, y)
		}
	case tea.MouseActionMotion:
		m.pointer.SetContext(m.pointerContext())
		var pan panCapture
		m.pointer.OnPan = pan.set
		changed := m.pointer.Move(x, y)
		m.pointer.OnPan = nil
		if pan.ok {
			m.view.Scale = m.view.Scale.WithPan(pan.offset)
		}
		if changed {
			m.view.HoverID = m.pointer.HoverID()
			m.scheduler.ScheduleRender()
		}
	case tea.MouseActionRelease:
		m.pointer.SetContext(m.pointerContext())
		events := &pointerEvents{}
		m.pointer.OnSelect = events.selectID
		m.pointer.OnEdit = events.editID
		m.pointer.Up(x, y)
		m.pointer.OnSelect = nil
		m.pointer.OnEdit = nil
		if events.selected != "" {
			m.view.SelectedID = events.selected
			m.emitClick(events.selected, false)
			m.scheduler.ScheduleRender()
		}
		if events.edited != "" {
			m.view.SelectedID = events.edited
			m.emitClick(events.edited, true)
			m.openEditor(events.edited)
		}
	}
	return m, nil
}

// pointerEvents captures callback output for the duration of one Up.
type pointerEvents struct {
	selected string
	edited   string
}

// panCapture captures the pan offset emitted during one Move.
type panCapture struct {
	ok     bool
	offset float64
}

func (c *panCapture) set(offset float64) { c.ok = true; c.offset = offset }

func (e *pointerEvents) selectID(id string) { e.selected = id }
func (e *pointerEvents) editID(id string)   { e.edited = id }

func (m *Model) pointerContext() PointerContext {
	return PointerContext{
		Scale:     m.view.Scale,
		Items:     m.items,
		Rows:      m.rows,
		ScrollTop: m.view.ScrollTop,
	}
}

func (m *Model) emitClick(id string, double bool) {
	for _, it := range m.items {
		if it.ID != id {
			continue
		}
		if double && m.cfg.OnItemDoubleClick != nil {
			m.cfg.OnItemDoubleClick(it)
		}
		if !double && m.cfg.OnItemClick != nil {
			m.cfg.OnItemClick(it)
		}
		return
	}
}

// --- imperative handles ------------------------------------------------------

// ZoomIn raises the zoom one step and schedules a repaint.
func (m *Model) ZoomIn() { m.setZoom(m.view.Zoom * ZoomStep) }

// ZoomOut lowers the zoom one step and schedules a repaint.
func (m *Model) ZoomOut() { m.setZoom(m.view.Zoom / ZoomStep) }

func (m *Model) setZoom(z float64) {
	z = timeline.ClampZoom(z)
	if z == m.view.Zoom {
		return
	}
	// Keep the date at the left edge of the chart fixed while the
	// resolution changes, so zooming feels anchored rather than sliding.
	anchor := m.view.Scale.XToDate(0)
	m.view.Zoom = z
	m.view.Scale = m.computeScale()
	m.view.Scale = m.view.Scale.WithPan(m.view.Scale.WithPan(0).DateToX(anchor))
	m.scheduler.ScheduleRender()
}

// ResetView restores default zoom, pan, and scroll.
func (m *Model) ResetView() {
	m.view.Zoom = 1.0
	m.view.ScrollTop = 0
	m.view.Scale = m.computeScale() // pan 0
	m.statusMsg = ""
	m.scheduler.ScheduleRender()
}

// ScrollToDate pans so the given date sits at the left edge of the
// chart area.
func (m *Model) ScrollToDate(d time.Time) {
	offset := m.view.Scale.WithPan(0).DateToX(model.Day(d))
	m.view.Scale = m.view.Scale.WithPan(offset)
	m.scheduler.ScheduleRender()
}

func (m *Model) panBy(cells float64) {
	m.view.Scale = m.view.Scale.WithPan(m.view.Scale.PanOffset + cells)
	m.scheduler.ScheduleRender()
}

func (m *Model) scrollBy(rows int) {
	top := m.view.ScrollTop + float64(rows)
	max := float64(layout.RowCount(m.rows) - m.view.BodyRows())
	if top > max {
		top = max
	}
	if top < 0 {
		top = 0
	}
	m.view.ScrollTop = top
	m.scheduler.ScheduleRender()
}

// --- selection, collapse, edit ----------------------------------------------

// selectFeature moves the selection to the next or previous feature in
// row order.
func (m *Model) selectFeature(dir int) {
	var features []model.TimedItem
	for _, it := range m.items {
		if it.Kind == model.KindFeature {
			features = append(features, it)
		}
	}
	if len(features) == 0 {
		return
	}
	sort.Slice(features, func(i, j int) bool {
		ri, rj := m.rows[features[i].ID], m.rows[features[j].ID]
		if ri != rj {
			return ri < rj
		}
		return features[i].StartDate.Before(features[j].StartDate)
	})

	idx := -1
	for i, f := range features {
		if f.ID == m.view.SelectedID {
			idx = i
			break
		}
	}
	idx = (idx + dir + len(features)) % len(features)
	m.view.SelectedID = features[idx].ID
	m.ensureRowVisible(m.rows[m.view.SelectedID])
	m.scheduler.ScheduleRender()
}

func (m *Model) ensureRowVisible(row int) {
	top := int(m.view.ScrollTop)
	if row < top {
		m.view.ScrollTop = float64(row)
	} else if row >= top+m.view.BodyRows() {
		m.view.ScrollTop = float64(row - m.view.BodyRows() + 1)
	}
}

// toggleCollapse collapses or expands the subtree the selection belongs
// to. With a feature selected that is its parent product; with nothing
// selected it is a no-op.
func (m *Model) toggleCollapse() {
	id := m.view.SelectedID
	if id == "" {
		return
	}
	for _, it := range m.items {
		if it.ID == id && it.Kind == model.KindFeature {
			id = it.ParentID
			break
		}
	}
	if m.view.Collapsed[id] {
		delete(m.view.Collapsed, id)
	} else {
		m.view.Collapsed[id] = true
	}
	m.scheduler.ScheduleRender()
}

func (m *Model) openEditor(id string) {
	if id == "" {
		return
	}
	for _, it := range m.items {
		if it.ID == id && it.Kind == model.KindFeature {
			m.editModal = NewEditModal(it, m.theme)
			m.editing = true
			return
		}
	}
	m.statusMsg = "only features are editable"
}

func (m *Model) applyEdit(edit FeatureEdit) {
	var progress *model.Progress
	if edit.PercentComplete > 0 || edit.Status != model.ProgressNotStarted {
		progress = &model.Progress{Status: edit.Status, PercentComplete: edit.PercentComplete}
	}
	err := m.repo.UpdateFeature(model.Feature{
		ID:        edit.ID,
		Name:      edit.Name,
		StartDate: edit.StartDate,
		EndDate:   edit.EndDate,
		Progress:  progress,
	})
	if err != nil {
		m.statusMsg = err.Error()
		return
	}
	m.statusMsg = fmt.Sprintf("updated %s", edit.ID)
	m.scheduler.ScheduleRender()
}

func (m *Model) copySelectedID() {
	id := m.view.SelectedID
	if id == "" {
		m.statusMsg = "nothing selected"
		return
	}
	if err := clipboard.WriteAll(id); err != nil {
		m.statusMsg = fmt.Sprintf("clipboard: %v", err)
		return
	}
	m.statusMsg = fmt.Sprintf("copied %s", id)
}

// exportSnapshot writes a canvas snapshot with the configured defaults,
// recomputing the scale at pixel density so the file is not limited to
// terminal resolution.
func (m *Model) exportSnapshot() {
	format := m.cfg.Config.Export.Format
	if format == "" {
		format = "png"
	}
	path := "roadmap." + format

	err := render.SaveSnapshot(m.snapshotOptions(path, format))
	if err != nil {
		m.statusMsg = fmt.Sprintf("export: %v", err)
		return
	}
	m.statusMsg = fmt.Sprintf("exported %s", path)
}

// snapshotOptions assembles a full-roadmap export. The file always gets
// every item: viewport culling is a terminal draw optimization and has
// no business deciding file contents.
func (m *Model) snapshotOptions(path, format string) render.SnapshotOptions {
	return render.SnapshotOptions{
		Path:   path,
		Format: format,
		Title:  m.cfg.Title,
		Items:  m.items,
		Rows:   m.rows,
		Scale:  timeline.Compute(m.items, m.view.Zoom, nil),
		Now:    m.now(),
	}
}

// --- data plumbing -----------------------------------------------------------

// recompute rebuilds the flattened item list, row assignment, and scale
// from the repository snapshot and current view settings. Pan survives
// recomputes; scroll is re-clamped against the new row count.
func (m *Model) recompute() {
	defer debug.LogEnterExit("ui.recompute")()
	snap := m.repo.Snapshot()
	m.items = layout.Collect(snap.Themes, m.view.Collapsed)
	m.rows = layout.AssignRows(m.items)
	m.stats = ComputeStats(m.items)
	pan := m.view.Scale.PanOffset
	m.view.Scale = m.computeScale().WithPan(pan)
	m.pointer.SetContext(m.pointerContext())
}

func (m *Model) computeScale() timeline.Scale {
	return timeline.ComputeWithBase(m.items, m.view.Zoom, nil, BaseCellsPerDay)
}

// visibleItems applies viewport culling when the roadmap is large
// enough to warrant it.
func (m *Model) visibleItems() []model.TimedItem {
	if len(m.items) < m.cullThreshold() {
		return m.items
	}
	vp := layout.Viewport{
		ScrollTop:    m.view.ScrollTop,
		CanvasHeight: float64(m.view.BodyRows()),
		RowHeight:    1,
	}
	return layout.Cull(m.rows, m.items, vp)
}

func (m *Model) cullThreshold() int {
	if t := m.cfg.Config.View.CullThreshold; t > 0 {
		return t
	}
	return layout.CullThreshold
}

func (m *Model) reload() {
	if m.cfg.Reload == nil {
		return
	}
	snap, err := m.cfg.Reload()
	if err != nil {
		m.statusMsg = fmt.Sprintf("reload: %v", err)
		return
	}
	m.repo.Replace(snap)
	m.statusMsg = fmt.Sprintf("reloaded at %s", m.now().Format("15:04:05"))
	m.scheduler.ScheduleRender()
}

// --- status bar --------------------------------------------------------------

func (m Model) statusLine() string {
	left := fmt.Sprintf("zoom %.2gx", m.view.Zoom)
	if id := m.view.SelectedID; id != "" {
		if kind, name, ok := m.repo.Find(id); ok {
			left += fmt.Sprintf(" · %s %s (%s)", kind, name, id)
		}
	} else if id := m.view.HoverID; id != "" {
		if _, name, ok := m.repo.Find(id); ok {
			left += " · " + name
		}
	}
	if m.statusMsg != "" {
		left += " · " + m.statusMsg
	}

	right := m.stats.String() + " · " + m.theme.StatusKey.Render("?") + " help"
	gap := m.view.Width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return m.theme.StatusBar.Render(truncateCells(left, m.view.Width-lipgloss.Width(right)-2, "…")) +
		padCells("", gap) + m.theme.StatusBar.Render(right)
}
