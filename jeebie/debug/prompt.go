package debug

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/valerio/jeebie/jeebie/cpu"
)

const ctrlC = 0x03

// Prompt pauses on a text stream: it prints the state report when logging,
// then waits for a key. When the input is a terminal a single key resumes,
// otherwise a whole line is consumed.
//
// Input failures never end the session: the prompt logs them once and stops
// pausing. Ctrl-C typed at a raw terminal is reported as ErrQuit, since the
// terminal doesn't raise an interrupt in raw mode.
type Prompt struct {
	Breakpoints Breakpoints

	in       io.Reader
	out      io.Writer
	fd       int
	raw      bool
	disabled bool
}

// NewPrompt creates a prompt reading from in and writing to out.
func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	p := &Prompt{
		Breakpoints: NewBreakpoints(),
		in:          in,
		out:         out,
	}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.fd = int(f.Fd())
		p.raw = true
	}
	return p
}

func (p *Prompt) ShouldBreak(pc uint16, d cpu.Descriptor) bool {
	return p.Breakpoints.ShouldBreak(pc, d)
}

func (p *Prompt) Await(pause Pause) error {
	if p.disabled {
		return nil
	}

	if pause.Record != nil && pause.Flags != nil && pause.Flags.Log {
		if err := WriteReport(p.out, pause.Record); err != nil {
			p.disable(err)
			return nil
		}
	}
	fmt.Fprintf(p.out, "[%s] Press Enter to continue...", pause.Point)

	key, err := p.readKey()
	fmt.Fprintln(p.out)
	if err != nil {
		p.disable(err)
		return nil
	}
	if p.raw && key == ctrlC {
		return ErrQuit
	}
	return nil
}

// Disabled reports whether an input failure turned the prompt off.
func (p *Prompt) Disabled() bool {
	return p.disabled
}

func (p *Prompt) disable(err error) {
	p.disabled = true
	if errors.Is(err, io.EOF) {
		slog.Info("Operator input closed, no longer pausing")
		return
	}
	slog.Warn("Operator input failed, no longer pausing", "error", err)
}

func (p *Prompt) readKey() (byte, error) {
	if p.raw {
		state, err := term.MakeRaw(p.fd)
		if err == nil {
			defer term.Restore(p.fd, state)
			return p.readByte()
		}
		slog.Debug("Raw mode unavailable, reading lines", "error", err)
		p.raw = false
	}

	// consume the rest of the line
	first, err := p.readByte()
	if err != nil {
		return 0, err
	}
	for b := first; b != '\n'; {
		if b, err = p.readByte(); err != nil {
			break
		}
	}
	return first, nil
}

func (p *Prompt) readByte() (byte, error) {
	var buf [1]byte
	for {
		n, err := p.in.Read(buf[:])
		if n == 1 {
			return buf[0], nil
		}
		if err != nil {
			return 0, err
		}
	}
}
