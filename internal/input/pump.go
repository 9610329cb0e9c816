package input

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/pifi/internal/models"
	"github.com/desertthunder/pifi/internal/shared"
)

// EventBuffer bounds the channel between a source and the pump.
const EventBuffer = 64

// Sink accepts commands. Enqueue must not block; it reports false when the command was dropped.
type Sink interface {
	Enqueue(cmd models.Command) bool
}

// Pump owns the decoders and turns raw events into commands.
type Pump struct {
	source     Source
	sink       Sink
	volumeStep int
	logger     *log.Logger

	encoder QuadratureDecoder
	buttons ButtonDecoder
}

// NewPump creates a pump; each encoder step becomes a volume change of volumeStep percent.
func NewPump(source Source, sink Sink, volumeStep int, logger *log.Logger) *Pump {
	return &Pump{
		source:     source,
		sink:       sink,
		volumeStep: volumeStep,
		logger:     shared.WithLogger(logger, "component", "input"),
	}
}

// Run drives the source and decodes its events until ctx ends or the source fails.
func (p *Pump) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan RawEvent, EventBuffer)
	errc := make(chan error, 1)
	go func() {
		errc <- p.source.Run(ctx, events)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errc:
			if err != nil {
				return fmt.Errorf("input source: %w", err)
			}
			return nil
		case ev := <-events:
			p.Handle(ev)
		}
	}
}

// Handle decodes one event and enqueues the resulting command, if any.
func (p *Pump) Handle(ev RawEvent) (models.Command, bool) {
	cmd, ok := p.translate(ev)
	if !ok {
		return models.Command{}, false
	}
	if !p.sink.Enqueue(cmd) {
		p.logger.Warn("command queue full, dropping", "command", cmd)
		return cmd, false
	}
	p.logger.Debug("input", "role", ev.Role, "command", cmd)
	return cmd, true
}

func (p *Pump) translate(ev RawEvent) (models.Command, bool) {
	if ev.Role.IsEncoder() {
		step, ok := p.encoder.Decode(ev.A, ev.B)
		if !ok {
			return models.Command{}, false
		}
		return models.NewVolumeDelta(step * p.volumeStep), true
	}

	press, ok := p.buttons.Decode(ev)
	if !ok {
		return models.Command{}, false
	}
	switch press.Role {
	case EncoderSwitch, PlayButton:
		return models.NewTogglePlay(), true
	case NextButton:
		return models.NewNext(), true
	case PreviousButton:
		return models.NewPrevious(), true
	default:
		return models.Command{}, false
	}
}
