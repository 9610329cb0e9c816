package input

import "context"

// Role names what a pin is wired to.
type Role int

const (
	EncoderA Role = iota
	EncoderB
	EncoderSwitch
	PlayButton
	NextButton
	PreviousButton
)

func (r Role) String() string {
	switch r {
	case EncoderA:
		return "encoder_a"
	case EncoderB:
		return "encoder_b"
	case EncoderSwitch:
		return "encoder_switch"
	case PlayButton:
		return "play"
	case NextButton:
		return "next"
	case PreviousButton:
		return "previous"
	default:
		return "unknown"
	}
}

// IsEncoder reports whether r is one of the two quadrature lines.
func (r Role) IsEncoder() bool {
	return r == EncoderA || r == EncoderB
}

// Edge is the direction of a transition.
type Edge int

const (
	Rising Edge = iota
	Falling
)

// RawEvent is one transition on one pin. Encoder events also carry both line levels sampled at the edge.
type RawEvent struct {
	Role Role
	Edge Edge
	A, B bool
}

// Source produces raw events until ctx ends. Sends must not block the hardware side indefinitely.
type Source interface {
	Run(ctx context.Context, events chan<- RawEvent) error
}

// NopSource is the source for hosts without GPIO. It produces nothing.
type NopSource struct{}

func (NopSource) Run(ctx context.Context, events chan<- RawEvent) error {
	<-ctx.Done()
	return nil
}
