package input

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/pifi/internal/shared"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// edgePin is the part of [gpio.PinIO] the source uses.
type edgePin interface {
	In(pull gpio.Pull, edge gpio.Edge) error
	WaitForEdge(timeout time.Duration) bool
	Read() gpio.Level
	Halt() error
}

type binding struct {
	role Role
	pin  edgePin
}

// GPIOSource reads the encoder and buttons through periph.io.
//
// Every pin gets its own goroutine blocked in WaitForEdge. Encoder lines trigger on both edges, switches on
// falling edges with pull-ups, matching a switch that shorts to ground.
type GPIOSource struct {
	bindings  []binding
	encA      edgePin
	encB      edgePin
	debouncer *Debouncer
	poll      time.Duration
	logger    *log.Logger
}

// NewGPIOSource initializes the host drivers and looks up the configured pins.
//
// It fails with [shared.ErrHardwareUnavailable] when GPIO is disabled or the host has no such pins;
// callers fall back to [NopSource].
func NewGPIOSource(cfg shared.GPIOConfig, logger *log.Logger) (*GPIOSource, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("%w: disabled in configuration", shared.ErrHardwareUnavailable)
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("%w: periph.io init: %v", shared.ErrHardwareUnavailable, err)
	}

	names := []struct {
		role Role
		name string
	}{
		{EncoderA, cfg.EncoderA},
		{EncoderB, cfg.EncoderB},
		{EncoderSwitch, cfg.EncoderSwitch},
		{PlayButton, cfg.Play},
		{NextButton, cfg.Next},
		{PreviousButton, cfg.Previous},
	}

	var bindings []binding
	for _, n := range names {
		p := gpioreg.ByName(n.name)
		if p == nil {
			return nil, fmt.Errorf("%w: pin %q (%s) not found", shared.ErrHardwareUnavailable, n.name, n.role)
		}
		bindings = append(bindings, binding{role: n.role, pin: p})
	}

	debounce := cfg.Debounce()
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return newGPIOSource(bindings, debounce, logger), nil
}

func newGPIOSource(bindings []binding, debounce time.Duration, logger *log.Logger) *GPIOSource {
	s := &GPIOSource{
		bindings:  bindings,
		debouncer: NewDebouncer(debounce),
		poll:      100 * time.Millisecond,
		logger:    shared.WithLogger(logger, "component", "gpio"),
	}
	for _, b := range bindings {
		switch b.role {
		case EncoderA:
			s.encA = b.pin
		case EncoderB:
			s.encB = b.pin
		}
	}
	return s
}

// Run configures the pins and forwards edges until ctx ends. Pins are halted on return.
func (s *GPIOSource) Run(ctx context.Context, events chan<- RawEvent) error {
	for _, b := range s.bindings {
		edge := gpio.FallingEdge
		if b.role.IsEncoder() {
			edge = gpio.BothEdges
		}
		if err := b.pin.In(gpio.PullUp, edge); err != nil {
			s.halt()
			return fmt.Errorf("%w: configure %s: %v", shared.ErrHardwareUnavailable, b.role, err)
		}
	}

	var wg sync.WaitGroup
	for _, b := range s.bindings {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.watch(ctx, b, events)
		}()
	}

	s.logger.Info("gpio input started", "pins", len(s.bindings))
	<-ctx.Done()
	wg.Wait()
	s.halt()
	return nil
}

func (s *GPIOSource) watch(ctx context.Context, b binding, events chan<- RawEvent) {
	for ctx.Err() == nil {
		if !b.pin.WaitForEdge(s.poll) {
			continue
		}

		ev := RawEvent{Role: b.role, Edge: Rising}
		if b.pin.Read() == gpio.Low {
			ev.Edge = Falling
		}

		if b.role.IsEncoder() {
			if s.encA != nil && s.encB != nil {
				ev.A = bool(s.encA.Read())
				ev.B = bool(s.encB.Read())
			}
		} else if ev.Edge == Falling && !s.debouncer.Allow(b.role) {
			continue
		}

		select {
		case events <- ev:
		default:
			s.logger.Debug("event buffer full, dropping edge", "role", b.role)
		}
	}
}

func (s *GPIOSource) halt() {
	for _, b := range s.bindings {
		if err := b.pin.Halt(); err != nil {
			s.logger.Debug("failed to halt pin", "role", b.role, "error", err)
		}
	}
}
