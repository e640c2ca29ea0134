package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/darkroom/pkg/border"
	"github.com/matzehuels/darkroom/pkg/debounce"
	"github.com/matzehuels/darkroom/pkg/preset"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// Step sizes for the numeric fields, in inches.
const (
	borderStep = 0.125
	offsetStep = 0.0625

	warningQuiet = 300 * time.Millisecond
)

// tuiCommand creates the tui command: an interactive border calculator.
func (c *CLI) tuiCommand() *cobra.Command {
	var in inputFlags
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Adjust paper, ratio, border and offsets interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := in.preset(c.Config.Defaults)
			if err != nil {
				return err
			}
			engine := border.NewEngine(c.Config.Engine.EaselCacheSize)
			model := NewCalculatorModel(engine, p)

			final, err := tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return err
			}
			if m, ok := final.(CalculatorModel); ok && c.Config.Features.PresetSharing {
				if code, err := preset.Encode(m.Preset); err == nil {
					printDetail("share code: %s", code)
				}
			}
			return nil
		},
	}
	in.bind(cmd)
	return cmd
}

// =============================================================================
// CalculatorModel - Interactive border calculator
// =============================================================================

// calcField is one adjustable row of the calculator.
type calcField int

const (
	fieldPaper calcField = iota
	fieldRatio
	fieldBorder
	fieldHorizontal
	fieldVertical
	fieldLandscape
	fieldFlip
	fieldIgnoreBorder
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Paper", "Ratio", "Min border", "H offset", "V offset", "Landscape", "Flip ratio", "Ignore border",
}

// warningTickMsg asks the model to poll the warning coalescer.
type warningTickMsg time.Time

// CalculatorModel is the bubbletea model for the interactive calculator.
// Warnings settle for a short quiet period before they are shown, so
// holding an arrow key does not flicker them.
type CalculatorModel struct {
	Preset   preset.Preset
	Calc     border.PrintCalculation
	Cursor   calcField
	Warnings string

	engine   *border.Engine
	warnings *debounce.Coalescer[string]
	now      func() time.Time
}

// NewCalculatorModel creates a calculator starting from p. Custom paper
// and ratio entries are kept as given but are skipped when cycling.
func NewCalculatorModel(engine *border.Engine, p preset.Preset) CalculatorModel {
	if engine == nil {
		engine = border.NewEngine(0)
	}
	m := CalculatorModel{
		Preset:   p,
		engine:   engine,
		warnings: debounce.New[string](warningQuiet),
		now:      time.Now,
	}
	m.recalculate()
	if w, ok := m.warnings.Flush(); ok {
		m.Warnings = w
	}
	return m
}

func (m CalculatorModel) Init() tea.Cmd {
	return nil
}

func (m CalculatorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < fieldCount-1 {
				m.Cursor++
			}
		case "left", "h", "-":
			return m.adjust(-1)
		case "right", "l", "+", " ", "enter":
			return m.adjust(1)
		case "o":
			m.Preset.MinBorder = m.engine.OptimalMinBorder(m.Preset.Input())
			return m.changed()
		case "r":
			m.Preset.HorizontalOffset, m.Preset.VerticalOffset = 0, 0
			m.Preset.EnableOffset = false
			return m.changed()
		}
	case warningTickMsg:
		if w, ok := m.warnings.Poll(time.Time(msg)); ok {
			m.Warnings = w
			return m, nil
		}
		// A later change restarted the quiet period.
		return m, m.scheduleWarningTick()
	}
	return m, nil
}

// adjust moves the focused field one step in dir (-1 or +1).
func (m CalculatorModel) adjust(dir int) (tea.Model, tea.Cmd) {
	p := &m.Preset
	switch m.Cursor {
	case fieldPaper:
		p.PaperSize = cycleKey(paperKeys(), p.PaperSize, dir)
	case fieldRatio:
		p.AspectRatio = cycleKey(ratioKeys(), p.AspectRatio, dir)
	case fieldBorder:
		p.MinBorder = math.Max(0, p.MinBorder+float64(dir)*borderStep)
	case fieldHorizontal:
		p.HorizontalOffset += float64(dir) * offsetStep
		p.EnableOffset = true
	case fieldVertical:
		p.VerticalOffset += float64(dir) * offsetStep
		p.EnableOffset = true
	case fieldLandscape:
		p.IsLandscape = !p.IsLandscape
	case fieldFlip:
		p.IsRatioFlipped = !p.IsRatioFlipped
	case fieldIgnoreBorder:
		p.IgnoreMinBorder = !p.IgnoreMinBorder
	}
	return m.changed()
}

// changed recalculates and schedules a warning poll after the quiet period.
func (m CalculatorModel) changed() (tea.Model, tea.Cmd) {
	m.recalculate()
	return m, m.scheduleWarningTick()
}

// scheduleWarningTick fires a warningTickMsg when the pending warning is
// due, or returns nil when nothing is pending.
func (m CalculatorModel) scheduleWarningTick() tea.Cmd {
	due, ok := m.warnings.Deadline()
	if !ok {
		return nil
	}
	return tea.Tick(max(due.Sub(m.now()), 0), func(t time.Time) tea.Msg { return warningTickMsg(t) })
}

func (m *CalculatorModel) recalculate() {
	m.Calc = m.engine.Calculate(m.Preset.Input())
	m.warnings.Push(strings.Join(m.Calc.Warnings, "\n"), m.now())
}

func (m CalculatorModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Easel Calculator"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ field  ←/→ adjust  o optimal border  r reset offsets  q quit"))
	b.WriteString("\n\n")

	for f := calcField(0); f < fieldCount; f++ {
		cursor := "  "
		if f == m.Cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%-14s %s", cursor, fieldLabels[f], m.fieldValue(f))
		if f == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	calc := m.Calc
	b.WriteString(fmt.Sprintf("  Print %s on %s\n",
		StyleNumber.Render(fmt.Sprintf("%.2f x %.2f in", calc.PrintWidth, calc.PrintHeight)),
		StyleValue.Render(fmt.Sprintf("%g x %g in", calc.PaperWidth, calc.PaperHeight))))

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Left", "Right", "Top", "Bottom").
		Rows(
			[]string{"Borders", inches(calc.Borders.Left), inches(calc.Borders.Right), inches(calc.Borders.Top), inches(calc.Borders.Bottom)},
			[]string{"Blades", inches(calc.Blades.Left), inches(calc.Blades.Right), inches(calc.Blades.Top), inches(calc.Blades.Bottom)},
		).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			if row == 1 && col > 0 {
				return lipgloss.NewStyle().Padding(0, 1).Foreground(colorCyan)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  easel %s", calc.Easel.EaselSize.Label)))
	b.WriteString("\n")

	if m.Warnings != "" {
		b.WriteString("\n")
		for _, w := range strings.Split(m.Warnings, "\n") {
			b.WriteString(StyleWarning.Render("! " + w))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m CalculatorModel) fieldValue(f calcField) string {
	p := m.Preset
	switch f {
	case fieldPaper:
		if p.PaperSize == border.Custom {
			return fmt.Sprintf("custom %g x %g", p.CustomPaperWidth, p.CustomPaperHeight)
		}
		return p.PaperSize
	case fieldRatio:
		if p.AspectRatio == border.Custom {
			return fmt.Sprintf("custom %g:%g", p.CustomAspectWidth, p.CustomAspectHeight)
		}
		return p.AspectRatio
	case fieldBorder:
		return inches(p.MinBorder)
	case fieldHorizontal:
		return fmt.Sprintf("%+.4g\"", m.Calc.HorizontalOffset)
	case fieldVertical:
		return fmt.Sprintf("%+.4g\"", m.Calc.VerticalOffset)
	case fieldLandscape:
		return onOff(p.IsLandscape)
	case fieldFlip:
		return onOff(p.IsRatioFlipped)
	case fieldIgnoreBorder:
		return onOff(p.IgnoreMinBorder)
	}
	return ""
}

// =============================================================================
// Helpers
// =============================================================================

func paperKeys() []string {
	keys := make([]string, 0, len(border.PaperSizes))
	for _, p := range border.PaperSizes {
		if p.Key != border.Custom {
			keys = append(keys, p.Key)
		}
	}
	return keys
}

func ratioKeys() []string {
	keys := make([]string, 0, len(border.AspectRatios))
	for _, r := range border.AspectRatios {
		if r.Key != border.Custom {
			keys = append(keys, r.Key)
		}
	}
	return keys
}

// cycleKey returns the key dir steps from current, wrapping around. An
// unknown current key starts from the first entry.
func cycleKey(keys []string, current string, dir int) string {
	if len(keys) == 0 {
		return current
	}
	for i, k := range keys {
		if k == current {
			return keys[((i+dir)%len(keys)+len(keys))%len(keys)]
		}
	}
	return keys[0]
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
