package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/tourflow/pkg/domain"
)

// ErrUnknownCommand is returned by Apply for input it does not understand.
var ErrUnknownCommand = errors.New("unknown command")

const helpText = "commands: [n]ext  [p]revious  [g]oto N  [s]tart  [r]eset  [q]uit  [h]elp"

// Controller is the part of a tour widget the player drives.
type Controller interface {
	Start(ctx context.Context)
	Stop(ctx context.Context)
	Next(ctx context.Context)
	Previous(ctx context.Context)
	GoToStep(ctx context.Context, i int)
	Reset(ctx context.Context)
	State() domain.SessionState
}

// Player reads commands and applies them to a Controller until the tour ends.
type Player struct {
	ctl    Controller
	out    io.Writer
	logger *slog.Logger

	redraw  func(ctx context.Context)
	actions func(ctx context.Context) ([]string, error)
	poll    time.Duration
}

// PlayerOption configures a Player.
type PlayerOption func(*Player)

// WithRedraw is called after every applied command.
func WithRedraw(fn func(ctx context.Context)) PlayerOption {
	return func(p *Player) {
		p.redraw = fn
	}
}

// WithActions polls fn for commands coming from the host surface (button clicks).
func WithActions(fn func(ctx context.Context) ([]string, error), every time.Duration) PlayerOption {
	return func(p *Player) {
		p.actions = fn
		p.poll = every
	}
}

// WithPlayerLogger sets the logger.
func WithPlayerLogger(logger *slog.Logger) PlayerOption {
	return func(p *Player) {
		p.logger = logger
	}
}

// NewPlayer creates a player writing feedback to out.
func NewPlayer(ctl Controller, out io.Writer, opts ...PlayerOption) *Player {
	p := &Player{
		ctl:    ctl,
		out:    out,
		logger: slog.New(slog.DiscardHandler),
		redraw: func(context.Context) {},
		poll:   200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Lines pumps r line by line into a channel that closes at EOF.
// One pump should be shared by every Player reading the same input.
func Lines(ctx context.Context, r io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case ch <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

// Run draws the current step and applies commands until the tour completes
// or is skipped, the input ends, or ctx is done.
func (p *Player) Run(ctx context.Context, lines <-chan string) error {
	fmt.Fprintln(p.out, helpText)
	p.redraw(ctx)

	var tick <-chan time.Time
	if p.actions != nil {
		t := time.NewTicker(p.poll)
		defer t.Stop()
		tick = t.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if p.handle(ctx, line) {
				return nil
			}
		case <-tick:
			acts, err := p.actions(ctx)
			if err != nil {
				p.logger.Warn("Polling surface actions failed", "err", err)
				continue
			}
			for _, a := range acts {
				if p.handle(ctx, a) {
					return nil
				}
			}
		}
	}
}

func (p *Player) handle(ctx context.Context, line string) bool {
	done, err := p.Apply(ctx, line)
	if err != nil {
		fmt.Fprintf(p.out, "%v (type h for help)\n", err)
		return false
	}
	if !done {
		p.redraw(ctx)
	}
	return done
}

// Apply executes one command. It reports done when the tour has ended or the user quit.
// Typed step numbers are 1-based; surface actions ("goto:N") are 0-based.
func (p *Player) Apply(ctx context.Context, line string) (done bool, err error) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(line)))
	if len(fields) == 0 {
		return false, nil
	}

	cmd := fields[0]
	switch {
	case cmd == "n" || cmd == "next":
		p.ctl.Next(ctx)
	case cmd == "p" || cmd == "prev" || cmd == "previous" || cmd == "b" || cmd == "back":
		p.ctl.Previous(ctx)
	case cmd == "g" || cmd == "goto":
		if len(fields) < 2 {
			return false, fmt.Errorf("%w: goto needs a step number", ErrUnknownCommand)
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return false, fmt.Errorf("%w: bad step number %q", ErrUnknownCommand, fields[1])
		}
		p.ctl.GoToStep(ctx, n-1)
	case strings.HasPrefix(cmd, "goto:"):
		n, err := strconv.Atoi(strings.TrimPrefix(cmd, "goto:"))
		if err != nil {
			return false, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
		}
		p.ctl.GoToStep(ctx, n)
	case cmd == "s" || cmd == "start":
		p.ctl.Start(ctx)
	case cmd == "r" || cmd == "reset":
		p.ctl.Reset(ctx)
		fmt.Fprintln(p.out, "completion record cleared")
	case cmd == "q" || cmd == "quit" || cmd == "stop" || cmd == "x":
		if p.ctl.State().Active {
			p.ctl.Stop(ctx)
		}
		return true, nil
	case cmd == "h" || cmd == "help" || cmd == "?":
		fmt.Fprintln(p.out, helpText)
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}

	st := p.ctl.State()
	switch st.Status {
	case domain.StatusCompleted:
		printSystemMessage(p.out, "Tour completed.")
		return true, nil
	case domain.StatusSkipped:
		printSystemMessage(p.out, "Tour skipped at step %d.", st.Index+1)
		return true, nil
	}
	return false, nil
}
