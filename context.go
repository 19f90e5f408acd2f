// {{{ Copyright (c) Paul R. Tagliamonte <paul@k3xec.com>, 2020
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE. }}}

package vrt

import "math"

// CIF bit positions for the context fields this package understands. Bits
// are consumed/produced in strictly descending order; see Context.cif,
// encodeContextFields and decodeContextFields.
const (
	cifBandwidth     = 29
	cifIFReference   = 28
	cifRFReference   = 27
	cifReferenceLevel = 24
	cifGain          = 23
	cifSampleRate    = 21
	cifStateEvent    = 19
	cifTemperature   = 18
)

// hzFracBits is the fractional radix of the 64-bit fixed-point hertz fields.
const hzFracBits = 20

// dbFracBits is the fractional radix of the 16-bit fixed-point decibel
// fields (gain, reference level).
const dbFracBits = 7

// kelvinFracBits is the fractional radix of the 16-bit fixed-point
// temperature field.
const kelvinFracBits = 6

// absoluteZeroCelsius is used to convert the wire temperature (kelvin) to
// the Celsius value exposed by Context.
const absoluteZeroCelsius = -273.15

// Gain holds the two VRT gain stages: stage1 is nearest the antenna,
// stage2 nearest the digitizer, both in decibels.
type Gain struct {
	Stage1 float64
	Stage2 float64
}

// StateEvent carries the latched state/event flags of a Context packet.
type StateEvent struct {
	CalibratedTime bool
	OverRange      bool
	SampleLoss     bool
}

const (
	stateEventCalibratedTimeBit = 1 << 31
	stateEventOverRangeBit      = 1 << 30
	stateEventSampleLossBit     = 1 << 18
)

func encodeStateEvent(se StateEvent) uint32 {
	var w uint32
	if se.CalibratedTime {
		w |= stateEventCalibratedTimeBit
	}
	if se.OverRange {
		w |= stateEventOverRangeBit
	}
	if se.SampleLoss {
		w |= stateEventSampleLossBit
	}
	return w
}

func decodeStateEvent(w uint32) StateEvent {
	return StateEvent{
		CalibratedTime: w&stateEventCalibratedTimeBit != 0,
		OverRange:      w&stateEventOverRangeBit != 0,
		SampleLoss:     w&stateEventSampleLossBit != 0,
	}
}

// Context is the decoded set of present CIF fields on a Context packet.
// Every field is a pointer: nil means the field was absent.
type Context struct {
	BandwidthHz      *float64
	IFReferenceHz    *float64
	RFReferenceHz    *float64
	ReferenceLevelDb *float64
	Gain             *Gain
	SampleRateHz     *float64
	StateEvent       *StateEvent
	TemperatureC     *float64
}

// cif computes the 32-bit Context Indicator Field for the fields present in
// c.
func (c Context) cif() uint32 {
	var w uint32
	if c.BandwidthHz != nil {
		w |= 1 << cifBandwidth
	}
	if c.IFReferenceHz != nil {
		w |= 1 << cifIFReference
	}
	if c.RFReferenceHz != nil {
		w |= 1 << cifRFReference
	}
	if c.ReferenceLevelDb != nil {
		w |= 1 << cifReferenceLevel
	}
	if c.Gain != nil {
		w |= 1 << cifGain
	}
	if c.SampleRateHz != nil {
		w |= 1 << cifSampleRate
	}
	if c.StateEvent != nil {
		w |= 1 << cifStateEvent
	}
	if c.TemperatureC != nil {
		w |= 1 << cifTemperature
	}
	return w
}

// hzToFixed64 converts a hertz value to a signed Q44.20 fixed-point value.
func hzToFixed64(hz float64) int64 {
	return int64(math.Round(hz * float64(int64(1)<<hzFracBits)))
}

// fixed64ToHz converts a signed Q44.20 fixed-point value back to hertz.
func fixed64ToHz(fixed int64) float64 {
	return float64(fixed) / float64(int64(1)<<hzFracBits)
}

// dbToFixed16 converts a decibel value to a signed Q8.7 fixed-point value.
func dbToFixed16(db float64) int16 {
	return int16(math.Round(db * float64(int16(1)<<dbFracBits)))
}

// fixed16ToDb converts a signed Q8.7 fixed-point value back to decibels.
func fixed16ToDb(fixed int16) float64 {
	return float64(fixed) / float64(int16(1)<<dbFracBits)
}

// kelvinToFixed16 converts a kelvin value to a signed Q10.6 fixed-point
// value.
func kelvinToFixed16(kelvin float64) int16 {
	return int16(math.Round(kelvin * float64(int16(1)<<kelvinFracBits)))
}

// fixed16ToKelvin converts a signed Q10.6 fixed-point value back to kelvin.
func fixed16ToKelvin(fixed int16) float64 {
	return float64(fixed) / float64(int16(1)<<kelvinFracBits)
}

// encodeContextFields appends the words for every field present in c, in
// strictly descending CIF-bit order, matching the order the CIF itself
// enumerates.
func encodeContextFields(c Context) []uint32 {
	words := make([]uint32, 0, 8)

	if c.BandwidthHz != nil {
		f := hzToFixed64(*c.BandwidthHz)
		words = append(words, uint32(uint64(f)>>32), uint32(uint64(f)))
	}
	if c.IFReferenceHz != nil {
		f := hzToFixed64(*c.IFReferenceHz)
		words = append(words, uint32(uint64(f)>>32), uint32(uint64(f)))
	}
	if c.RFReferenceHz != nil {
		f := hzToFixed64(*c.RFReferenceHz)
		words = append(words, uint32(uint64(f)>>32), uint32(uint64(f)))
	}
	if c.ReferenceLevelDb != nil {
		f := dbToFixed16(*c.ReferenceLevelDb)
		words = append(words, uint32(uint16(f)))
	}
	if c.Gain != nil {
		s1 := dbToFixed16(c.Gain.Stage1)
		s2 := dbToFixed16(c.Gain.Stage2)
		words = append(words, uint32(uint16(s1))<<16|uint32(uint16(s2)))
	}
	if c.SampleRateHz != nil {
		f := hzToFixed64(*c.SampleRateHz)
		words = append(words, uint32(uint64(f)>>32), uint32(uint64(f)))
	}
	if c.StateEvent != nil {
		words = append(words, encodeStateEvent(*c.StateEvent))
	}
	if c.TemperatureC != nil {
		f := kelvinToFixed16(*c.TemperatureC - absoluteZeroCelsius)
		words = append(words, uint32(uint16(f)))
	}

	return words
}

// decodeContextFields consumes words according to the set bits of cif, in
// strictly descending bit order, populating c. A set bit outside the set
// this package implements returns a *DecodeError with kind
// UnknownPacketType, since its field width is unknown. A field that runs
// past the end of words, or words left over after the last field, returns
// Truncated. The CIFOutOfOrder check is defensive only: bits are visited
// strictly high to low, so it never fails.
func decodeContextFields(cif uint32, words []uint32) (Context, error) {
	var c Context
	idx := 0
	take := func(n int) ([]uint32, bool) {
		if idx+n > len(words) {
			return nil, false
		}
		w := words[idx : idx+n]
		idx += n
		return w, true
	}

	lastBit := 32 // sentinel higher than any real bit
	checkOrder := func(bit int) error {
		if bit >= lastBit {
			return &DecodeError{Kind: CIFOutOfOrder, Msg: "context field out of descending CIF order"}
		}
		lastBit = bit
		return nil
	}

	for bit := 31; bit >= 0; bit-- {
		if cif&(1<<uint(bit)) == 0 {
			continue
		}
		switch bit {
		case cifBandwidth:
			if err := checkOrder(bit); err != nil {
				return Context{}, err
			}
			w, ok := take(2)
			if !ok {
				return Context{}, &DecodeError{Kind: Truncated, Msg: "bandwidth field truncated"}
			}
			v := fixed64ToHz(int64(uint64(w[0])<<32 | uint64(w[1])))
			c.BandwidthHz = &v
		case cifIFReference:
			if err := checkOrder(bit); err != nil {
				return Context{}, err
			}
			w, ok := take(2)
			if !ok {
				return Context{}, &DecodeError{Kind: Truncated, Msg: "if reference field truncated"}
			}
			v := fixed64ToHz(int64(uint64(w[0])<<32 | uint64(w[1])))
			c.IFReferenceHz = &v
		case cifRFReference:
			if err := checkOrder(bit); err != nil {
				return Context{}, err
			}
			w, ok := take(2)
			if !ok {
				return Context{}, &DecodeError{Kind: Truncated, Msg: "rf reference field truncated"}
			}
			v := fixed64ToHz(int64(uint64(w[0])<<32 | uint64(w[1])))
			c.RFReferenceHz = &v
		case cifReferenceLevel:
			if err := checkOrder(bit); err != nil {
				return Context{}, err
			}
			w, ok := take(1)
			if !ok {
				return Context{}, &DecodeError{Kind: Truncated, Msg: "reference level field truncated"}
			}
			v := fixed16ToDb(int16(uint16(w[0])))
			c.ReferenceLevelDb = &v
		case cifGain:
			if err := checkOrder(bit); err != nil {
				return Context{}, err
			}
			w, ok := take(1)
			if !ok {
				return Context{}, &DecodeError{Kind: Truncated, Msg: "gain field truncated"}
			}
			g := Gain{
				Stage1: fixed16ToDb(int16(uint16(w[0] >> 16))),
				Stage2: fixed16ToDb(int16(uint16(w[0]))),
			}
			c.Gain = &g
		case cifSampleRate:
			if err := checkOrder(bit); err != nil {
				return Context{}, err
			}
			w, ok := take(2)
			if !ok {
				return Context{}, &DecodeError{Kind: Truncated, Msg: "sample rate field truncated"}
			}
			v := fixed64ToHz(int64(uint64(w[0])<<32 | uint64(w[1])))
			c.SampleRateHz = &v
		case cifStateEvent:
			if err := checkOrder(bit); err != nil {
				return Context{}, err
			}
			w, ok := take(1)
			if !ok {
				return Context{}, &DecodeError{Kind: Truncated, Msg: "state/event field truncated"}
			}
			se := decodeStateEvent(w[0])
			c.StateEvent = &se
		case cifTemperature:
			if err := checkOrder(bit); err != nil {
				return Context{}, err
			}
			w, ok := take(1)
			if !ok {
				return Context{}, &DecodeError{Kind: Truncated, Msg: "temperature field truncated"}
			}
			v := fixed16ToKelvin(int16(uint16(w[0]))) + absoluteZeroCelsius
			c.TemperatureC = &v
		default:
			// A bit outside the set this package implements: we cannot
			// know its width, so we cannot keep decoding. Treat it as
			// unsupported rather than guessing.
			return Context{}, &DecodeError{Kind: UnknownPacketType, Msg: "unsupported context indicator bit set"}
		}
	}

	if idx != len(words) {
		return Context{}, &DecodeError{Kind: Truncated, Msg: "trailing bytes after context fields"}
	}

	return c, nil
}

// vim: foldmethod=marker
