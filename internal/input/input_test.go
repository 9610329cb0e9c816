package input

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/pifi/internal/models"
	"periph.io/x/conn/v3/gpio"
)

type sliceSink struct {
	mu   sync.Mutex
	cmds []models.Command
	full bool
}

func (s *sliceSink) Enqueue(cmd models.Command) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.full {
		return false
	}
	s.cmds = append(s.cmds, cmd)
	return true
}

func (s *sliceSink) commands() []models.Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Command(nil), s.cmds...)
}

// scriptedSource replays events then waits for cancellation.
type scriptedSource struct {
	events []RawEvent
}

func (s scriptedSource) Run(ctx context.Context, events chan<- RawEvent) error {
	for _, ev := range s.events {
		select {
		case events <- ev:
		case <-ctx.Done():
			return nil
		}
	}
	<-ctx.Done()
	return nil
}

// fakePin is an edgePin driven by a channel of levels.
type fakePin struct {
	mu     sync.Mutex
	level  gpio.Level
	edges  chan gpio.Level
	edge   gpio.Edge
	halted bool
}

func newFakePin() *fakePin {
	return &fakePin{level: gpio.High, edges: make(chan gpio.Level, 16)}
}

func (p *fakePin) In(pull gpio.Pull, edge gpio.Edge) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.edge = edge
	return nil
}

func (p *fakePin) WaitForEdge(timeout time.Duration) bool {
	select {
	case l := <-p.edges:
		p.mu.Lock()
		p.level = l
		p.mu.Unlock()
		return true
	case <-time.After(timeout):
		return false
	}
}

func (p *fakePin) Read() gpio.Level {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

func (p *fakePin) Halt() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.halted = true
	return nil
}

func (p *fakePin) set(l gpio.Level) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = l
}

func TestDebouncer(t *testing.T) {
	base := time.Now()

	t.Run("rejects edges inside the interval", func(t *testing.T) {
		d := NewDebouncer(250 * time.Millisecond)
		if !d.AllowAt(PlayButton, base) {
			t.Fatal("expected first press")
		}
		if d.AllowAt(PlayButton, base.Add(100*time.Millisecond)) {
			t.Error("expected bounce to be rejected")
		}
		if !d.AllowAt(PlayButton, base.Add(260*time.Millisecond)) {
			t.Error("expected press after interval")
		}
	})

	t.Run("tracks roles independently", func(t *testing.T) {
		d := NewDebouncer(250 * time.Millisecond)
		if !d.AllowAt(PlayButton, base) || !d.AllowAt(NextButton, base) {
			t.Error("expected both roles to pass")
		}
	})

	t.Run("zero interval allows everything", func(t *testing.T) {
		d := NewDebouncer(0)
		for range 5 {
			if !d.Allow(PlayButton) {
				t.Fatal("expected allow")
			}
		}
	})
}

func TestPump(t *testing.T) {
	t.Run("encoder steps become volume deltas", func(t *testing.T) {
		sink := &sliceSink{}
		p := NewPump(NopSource{}, sink, 5, nil)

		p.Handle(RawEvent{Role: EncoderA, A: false, B: true})
		p.Handle(RawEvent{Role: EncoderB, A: false, B: false})
		p.Handle(RawEvent{Role: EncoderA, A: true, B: false})

		cmds := sink.commands()
		if len(cmds) != 2 {
			t.Fatalf("expected 2 commands, got %d", len(cmds))
		}
		if cmds[0].Kind() != models.VolumeDelta || cmds[0].Delta() != 5 {
			t.Errorf("expected +5, got %s", cmds[0])
		}
		if cmds[1].Delta() != -5 {
			t.Errorf("expected -5, got %s", cmds[1])
		}
	})

	t.Run("buttons map to transport commands", func(t *testing.T) {
		tc := []struct {
			role Role
			want models.CommandKind
		}{
			{EncoderSwitch, models.TogglePlay},
			{PlayButton, models.TogglePlay},
			{NextButton, models.Next},
			{PreviousButton, models.Previous},
		}

		for _, tt := range tc {
			t.Run(tt.role.String(), func(t *testing.T) {
				sink := &sliceSink{}
				p := NewPump(NopSource{}, sink, 5, nil)
				cmd, ok := p.Handle(RawEvent{Role: tt.role, Edge: Falling})
				if !ok || cmd.Kind() != tt.want {
					t.Errorf("expected %s, got %s (%v)", tt.want, cmd, ok)
				}
			})
		}
	})

	t.Run("rising edges are ignored", func(t *testing.T) {
		sink := &sliceSink{}
		p := NewPump(NopSource{}, sink, 5, nil)
		if _, ok := p.Handle(RawEvent{Role: NextButton, Edge: Rising}); ok {
			t.Error("expected no command")
		}
	})

	t.Run("full sink drops", func(t *testing.T) {
		sink := &sliceSink{full: true}
		p := NewPump(NopSource{}, sink, 5, nil)
		if _, ok := p.Handle(RawEvent{Role: NextButton, Edge: Falling}); ok {
			t.Error("expected drop to be reported")
		}
	})

	t.Run("Run forwards source events", func(t *testing.T) {
		sink := &sliceSink{}
		source := scriptedSource{events: []RawEvent{
			{Role: PlayButton, Edge: Falling},
			{Role: EncoderA, A: false, B: true},
		}}
		p := NewPump(source, sink, 10, nil)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- p.Run(ctx) }()

		deadline := time.After(2 * time.Second)
		for len(sink.commands()) < 2 {
			select {
			case <-deadline:
				t.Fatalf("timed out, got %d commands", len(sink.commands()))
			case <-time.After(5 * time.Millisecond):
			}
		}
		cancel()

		if err := <-done; err != nil {
			t.Errorf("expected clean stop, got %v", err)
		}
		cmds := sink.commands()
		if cmds[0].Kind() != models.TogglePlay || cmds[1].Delta() != 10 {
			t.Errorf("unexpected commands %v", cmds)
		}
	})
}

func TestGPIOSource(t *testing.T) {
	setup := func(t *testing.T, debounce time.Duration) (map[Role]*fakePin, chan RawEvent, context.CancelFunc, chan error) {
		t.Helper()
		pins := map[Role]*fakePin{}
		var bindings []binding
		for _, r := range []Role{EncoderA, EncoderB, EncoderSwitch, PlayButton, NextButton, PreviousButton} {
			pins[r] = newFakePin()
			bindings = append(bindings, binding{role: r, pin: pins[r]})
		}

		src := newGPIOSource(bindings, debounce, nil)
		src.poll = 5 * time.Millisecond

		events := make(chan RawEvent, EventBuffer)
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- src.Run(ctx, events) }()
		return pins, events, cancel, done
	}

	next := func(t *testing.T, events chan RawEvent) RawEvent {
		t.Helper()
		select {
		case ev := <-events:
			return ev
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for event")
			return RawEvent{}
		}
	}

	t.Run("configures pins and halts on stop", func(t *testing.T) {
		pins, _, cancel, done := setup(t, DefaultDebounce)
		time.Sleep(20 * time.Millisecond)
		cancel()
		if err := <-done; err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if pins[EncoderA].edge != gpio.BothEdges {
			t.Errorf("expected encoder on both edges, got %v", pins[EncoderA].edge)
		}
		if pins[PlayButton].edge != gpio.FallingEdge {
			t.Errorf("expected button on falling edge, got %v", pins[PlayButton].edge)
		}
		for r, p := range pins {
			if !p.halted {
				t.Errorf("expected %s to be halted", r)
			}
		}
	})

	t.Run("encoder edges carry both levels", func(t *testing.T) {
		pins, events, cancel, done := setup(t, DefaultDebounce)
		defer func() { cancel(); <-done }()

		pins[EncoderB].set(gpio.High)
		pins[EncoderA].edges <- gpio.Low

		ev := next(t, events)
		if ev.Role != EncoderA || ev.Edge != Falling {
			t.Errorf("unexpected event %+v", ev)
		}
		if ev.A || !ev.B {
			t.Errorf("expected A low and B high, got %+v", ev)
		}
	})

	t.Run("buttons are debounced", func(t *testing.T) {
		pins, events, cancel, done := setup(t, time.Hour)
		defer func() { cancel(); <-done }()

		pins[NextButton].edges <- gpio.Low
		pins[NextButton].edges <- gpio.Low
		pins[PlayButton].edges <- gpio.Low

		got := map[Role]int{}
		for range 2 {
			got[next(t, events).Role]++
		}

		select {
		case ev := <-events:
			t.Errorf("unexpected extra event %+v", ev)
		case <-time.After(50 * time.Millisecond):
		}
		if got[NextButton] != 1 || got[PlayButton] != 1 {
			t.Errorf("expected one press per button, got %v", got)
		}
	})
}
