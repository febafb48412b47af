package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	errs "github.com/matzehuels/distortviz/pkg/errors"
	"github.com/matzehuels/distortviz/pkg/region"
	"github.com/matzehuels/distortviz/pkg/view"
)

var (
	regionSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	regionActiveStyle   = lipgloss.NewStyle().Foreground(colorGreen)
	regionNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	regionDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// RegionPicker - interactive region selection
// =============================================================================

// regionRunner selects region and runs one distortion request.
type regionRunner func(ctx context.Context, region int) (*view.Result, error)

// regionResultMsg carries a finished run back into the model.
type regionResultMsg struct {
	region int
	result *view.Result
	err    error
}

// RegionPicker is the bubbletea model for picking a region and re-running
// the distortion service on every change.
type RegionPicker struct {
	ctx     context.Context
	run     regionRunner
	names   []string
	Cursor  int // 1-based region under the cursor
	Active  int // region of the displayed result
	Running bool
	Result  *view.Result
	Err     error
}

// NewRegionPicker creates a picker starting at start. names label the
// colour table rows. Init runs the start region.
func NewRegionPicker(ctx context.Context, start int, names []string, run regionRunner) RegionPicker {
	if region.Validate(start) != nil {
		start = region.Initial
	}
	return RegionPicker{ctx: ctx, run: run, names: names, Cursor: start, Running: true}
}

func (m RegionPicker) Init() tea.Cmd {
	return m.runCmd(m.Cursor)
}

func (m RegionPicker) runCmd(id int) tea.Cmd {
	ctx, run := m.ctx, m.run
	return func() tea.Msg {
		res, err := run(ctx, id)
		return regionResultMsg{region: id, result: res, err: err}
	}
}

func (m RegionPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h", "up", "k":
			if m.Cursor > region.Min {
				m.Cursor--
			}
		case "right", "l", "down", "j":
			if m.Cursor < region.Max {
				m.Cursor++
			}
		case "1", "2", "3", "4", "5", "6", "7", "8", "9", "0":
			n, _ := strconv.Atoi(key)
			if n == 0 {
				n = region.Max
			}
			m.Cursor = n
			return m.start()
		case "enter", " ":
			return m.start()
		}
	case regionResultMsg:
		m.Running = false
		m.Err = msg.err
		if msg.err == nil && !msg.result.Stale {
			m.Result = msg.result
			m.Active = msg.region
		}
	}
	return m, nil
}

// start runs the cursor's region unless a run is in flight.
func (m RegionPicker) start() (tea.Model, tea.Cmd) {
	if m.Running {
		return m, nil
	}
	m.Running = true
	m.Err = nil
	return m, m.runCmd(m.Cursor)
}

func (m RegionPicker) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Region"))
	b.WriteString("\n")
	b.WriteString(regionDimStyle.Render("←/→ move  1-9,0 jump  ⏎ run  q quit"))
	b.WriteString("\n\n")

	cells := make([]string, 0, region.Max)
	for id := region.Min; id <= region.Max; id++ {
		label := fmt.Sprintf(" %d ", id)
		switch {
		case id == m.Cursor:
			cells = append(cells, regionSelectedStyle.Render("["+strings.TrimSpace(label)+"]"))
		case id == m.Active:
			cells = append(cells, regionActiveStyle.Render(label))
		default:
			cells = append(cells, regionNormalStyle.Render(label))
		}
	}
	b.WriteString(strings.Join(cells, " "))
	b.WriteString("\n\n")

	switch {
	case m.Running:
		b.WriteString(regionDimStyle.Render(fmt.Sprintf("running region %d...", m.Cursor)))
	case m.Err != nil:
		b.WriteString(styleIconError.Render(iconError) + " " + errs.UserMessage(m.Err))
	case m.Result != nil:
		mode := "recoloured"
		if m.Result.Redraw {
			mode = "redrawn"
		}
		b.WriteString(regionDimStyle.Render(fmt.Sprintf("region %d · %s · k=%d measure=%s", m.Active, mode, m.Result.Params.K, m.Result.Params.Measure)))
		b.WriteString("\n")
		b.WriteString(colorTable(m.Result.Colors, m.names))
	}
	b.WriteString("\n")
	return b.String()
}
