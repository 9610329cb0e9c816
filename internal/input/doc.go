// Package input turns electrical transitions from the rotary encoder and push buttons into [models.Command] values.
//
// A [Source] (the periph.io backed [GPIOSource], or [NopSource] where there is no GPIO) pushes [RawEvent] values
// into a bounded channel. One [Pump] goroutine owns the decoders: the [QuadratureDecoder] for the two encoder lines
// and the [ButtonDecoder] for momentary switches. Commands leave through a [Sink]; nothing in this package touches
// playback or display state.
//
// Buttons are debounced by the source (see [Debouncer]), so decoders assume clean edges.
package input
