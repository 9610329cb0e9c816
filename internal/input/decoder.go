package input

// Two-bit encoder samples, A as the high bit.
const (
	neutral          uint8 = 0b00
	clockwise        uint8 = 0b01
	counterClockwise uint8 = 0b10
)

// QuadratureDecoder is a one-detent decoder: only transitions that leave the neutral sample emit a step.
//
// The previous sample is the only state. It starts neutral and is never reset. Double-detent encoders may
// under- or over-count with this rule.
type QuadratureDecoder struct {
	last uint8
}

func sample(a, b bool) uint8 {
	var s uint8
	if a {
		s |= 0b10
	}
	if b {
		s |= 0b01
	}
	return s
}

// Decode consumes the current line levels and returns +1 or -1 when they complete a step.
func (d *QuadratureDecoder) Decode(a, b bool) (int, bool) {
	prev, cur := d.last, sample(a, b)
	d.last = cur

	if prev != neutral {
		return 0, false
	}
	switch cur {
	case clockwise:
		return 1, true
	case counterClockwise:
		return -1, true
	default:
		return 0, false
	}
}

// PressEvent is one accepted button press.
type PressEvent struct {
	Role Role
}

// ButtonDecoder emits one press per falling edge on a switch. Edges are assumed debounced.
type ButtonDecoder struct{}

func (ButtonDecoder) Decode(ev RawEvent) (PressEvent, bool) {
	if ev.Role.IsEncoder() || ev.Edge != Falling {
		return PressEvent{}, false
	}
	return PressEvent{Role: ev.Role}, true
}
