package debug

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/valerio/jeebie/jeebie/cpu"
	"github.com/valerio/jeebie/jeebie/disasm"
)

const (
	consoleDisasmLines = 12
	consoleReportWidth = 56
)

var (
	statusStyle  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	reportStyle  = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	disasmStyle  = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	currentStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
)

// Console is a full screen operator view: the state report next to a
// disassembly of the upcoming instructions. It never draws the frame.
//
// Keys: Enter or space resume, s/l/f toggle the step/line/frame pauses,
// c clears every pause and resumes, q or Ctrl-C quit.
type Console struct {
	Breakpoints Breakpoints

	screen tcell.Screen
	mem    disasm.Reader
	last   *Record
}

// NewConsole uses an initialized screen. mem is read for the disassembly.
func NewConsole(screen tcell.Screen, mem disasm.Reader) *Console {
	return &Console{
		Breakpoints: NewBreakpoints(),
		screen:      screen,
		mem:         mem,
	}
}

// Close restores the terminal.
func (c *Console) Close() {
	c.screen.Fini()
}

func (c *Console) ShouldBreak(pc uint16, d cpu.Descriptor) bool {
	return c.Breakpoints.ShouldBreak(pc, d)
}

func (c *Console) Await(p Pause) error {
	if p.Record != nil {
		rec := *p.Record
		c.last = &rec
	}
	flags := p.Flags
	if flags == nil {
		flags = &Flags{}
	}

	for {
		c.draw(p.Point, flags)

		switch ev := c.screen.PollEvent().(type) {
		case nil:
			// screen finalized
			return ErrQuit
		case *tcell.EventResize:
			c.screen.Sync()
		case *tcell.EventKey:
			resume, err := handleConsoleKey(ev, flags)
			if err != nil || resume {
				return err
			}
		}
	}
}

func handleConsoleKey(ev *tcell.EventKey, flags *Flags) (resume bool, err error) {
	switch ev.Key() {
	case tcell.KeyEnter:
		return true, nil
	case tcell.KeyCtrlC, tcell.KeyEscape:
		return false, ErrQuit
	case tcell.KeyRune:
	default:
		return false, nil
	}

	switch ev.Rune() {
	case ' ':
		return true, nil
	case 's':
		flags.StepByStep = !flags.StepByStep
	case 'l':
		flags.LineByLine = !flags.LineByLine
	case 'f':
		flags.ScreenByScreen = !flags.ScreenByScreen
	case 'c':
		flags.ClearPauses()
		return true, nil
	case 'q':
		return false, ErrQuit
	}
	return false, nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func (c *Console) draw(point Point, flags *Flags) {
	c.screen.Clear()

	status := fmt.Sprintf("PAUSED at %s   [s]tep %s  [l]ine %s  [f]rame %s   [c]lear  [q]uit",
		point, onOff(flags.StepByStep), onOff(flags.LineByLine), onOff(flags.ScreenByScreen))
	c.drawText(0, 0, status, statusStyle)

	if c.last == nil {
		c.screen.Show()
		return
	}

	var report bytes.Buffer
	_ = WriteReport(&report, c.last)
	for i, line := range strings.Split(strings.TrimRight(report.String(), "\n"), "\n") {
		c.drawText(0, 2+i, line, reportStyle)
	}

	for i, line := range disasm.Disassemble(c.last.PC, consoleDisasmLines, c.mem) {
		text := "  " + line.String()
		style := disasmStyle
		if line.Address == c.last.PC {
			text = "> " + line.String()
			style = currentStyle
		}
		c.drawText(consoleReportWidth, 2+i, text, style)
	}

	c.screen.Show()
}

func (c *Console) drawText(x, y int, text string, style tcell.Style) {
	width, height := c.screen.Size()
	if y >= height {
		return
	}
	for _, ch := range text {
		if x >= width {
			return
		}
		c.screen.SetContent(x, y, ch, nil, style)
		x++
	}
}
