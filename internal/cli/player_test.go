package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/tourflow/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeController records calls and walks a fixed number of steps.
type fakeController struct {
	mu    sync.Mutex
	calls []string
	state domain.SessionState
}

func newFake(steps int) *fakeController {
	return &fakeController{state: domain.SessionState{Status: domain.StatusActive, Active: true, Steps: steps}}
}

func (f *fakeController) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeController) Start(ctx context.Context) { f.record("start") }
func (f *fakeController) Stop(ctx context.Context) {
	f.record("stop")
	f.state.Status, f.state.Active = domain.StatusSkipped, false
}
func (f *fakeController) Next(ctx context.Context) {
	f.record("next")
	if f.state.Index == f.state.Steps-1 {
		f.state.Status, f.state.Active = domain.StatusCompleted, false
		return
	}
	f.state.Index++
}
func (f *fakeController) Previous(ctx context.Context) {
	f.record("previous")
	if f.state.Index > 0 {
		f.state.Index--
	}
}
func (f *fakeController) GoToStep(ctx context.Context, i int) {
	f.record("goto")
	if i >= 0 && i < f.state.Steps {
		f.state.Index = i
	}
}
func (f *fakeController) Reset(ctx context.Context) { f.record("reset") }
func (f *fakeController) State() domain.SessionState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeController) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func TestPlayer_Apply(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		input []string
		calls []string
		index int
		done  bool
		err   bool
	}{
		{name: "Next", input: []string{"n"}, calls: []string{"next"}, index: 1},
		{name: "Long Forms", input: []string{"next", "NEXT", "back"}, calls: []string{"next", "next", "previous"}, index: 1},
		{name: "Goto Is One Based", input: []string{"g 3"}, calls: []string{"goto"}, index: 2},
		{name: "Surface Goto Is Zero Based", input: []string{"goto:1"}, calls: []string{"goto"}, index: 1},
		{name: "Blank Is Ignored", input: []string{"   "}, calls: nil},
		{name: "Help", input: []string{"?"}, calls: nil},
		{name: "Unknown", input: []string{"jump"}, err: true},
		{name: "Goto Without Number", input: []string{"g"}, err: true},
		{name: "Goto Bad Number", input: []string{"g two"}, err: true},
		{name: "Quit Skips", input: []string{"q"}, calls: []string{"stop"}, done: true},
		{name: "Last Next Completes", input: []string{"g 3", "n"}, calls: []string{"goto", "next"}, index: 2, done: true},
		{name: "Reset", input: []string{"r"}, calls: []string{"reset"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFake(3)
			p := NewPlayer(fake, &bytes.Buffer{})

			var (
				done bool
				err  error
			)
			for _, in := range tt.input {
				done, err = p.Apply(ctx, in)
			}
			if tt.err {
				assert.ErrorIs(t, err, ErrUnknownCommand)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.done, done)
			assert.Equal(t, tt.calls, fake.Calls())
			assert.Equal(t, tt.index, fake.State().Index)
		})
	}
}

func TestPlayer_RunUntilComplete(t *testing.T) {
	fake := newFake(2)
	var out bytes.Buffer
	redraws := 0
	p := NewPlayer(fake, &out, WithRedraw(func(context.Context) { redraws++ }))

	err := p.Run(context.Background(), Lines(context.Background(), strings.NewReader("n\nbogus\nn\nn\n")))
	require.NoError(t, err)

	assert.Equal(t, []string{"next", "next"}, fake.Calls())
	assert.Contains(t, out.String(), "Tour completed.")
	assert.Contains(t, out.String(), `unknown command: "bogus"`)
	// Initial draw and after the first next; rejected commands do not redraw.
	assert.Equal(t, 2, redraws)
}

func TestPlayer_RunStopsAtEOF(t *testing.T) {
	fake := newFake(3)
	p := NewPlayer(fake, &bytes.Buffer{})
	require.NoError(t, p.Run(context.Background(), Lines(context.Background(), strings.NewReader("n\n"))))
	assert.True(t, fake.State().Active)
}

func TestPlayer_RunAppliesSurfaceActions(t *testing.T) {
	fake := newFake(3)
	var mu sync.Mutex
	queued := []string{"next", "goto:0", "stop"}
	actions := func(context.Context) ([]string, error) {
		mu.Lock()
		defer mu.Unlock()
		out := queued
		queued = nil
		return out, nil
	}
	p := NewPlayer(fake, &bytes.Buffer{}, WithActions(actions, 5*time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, p.Run(ctx, make(chan string)))

	assert.Equal(t, []string{"next", "goto", "stop"}, fake.Calls())
	assert.Equal(t, domain.StatusSkipped, fake.State().Status)
}

func TestPlayer_RunHonorsContext(t *testing.T) {
	p := NewPlayer(newFake(3), &bytes.Buffer{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Run(ctx, make(chan string)), context.Canceled)
}
