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

import "time"

// epochGPSOffsetSeconds is the GPS epoch, 1980-01-06T00:00:00Z, expressed as an offset
// from the POSIX (UTC) epoch in seconds. Used to translate TSIGPS integer
// seconds to/from POSIX time.
const epochGPSOffsetSeconds = 315964800

// picosecondsPerSecond is the fractional-timestamp radix for TSFPicoseconds.
const picosecondsPerSecond = 1_000_000_000_000

// Timestamp is the decoded integer+fractional timestamp of a packet. Which
// fields are meaningful depends on the Header's TSI/TSF; ToSeconds and
// FromSeconds only support TSIUTC/TSIGPS combined with TSFPicoseconds, the
// combination this gateway emits and expects.
type Timestamp struct {
	TSI      TSI
	TSF      TSF
	Integer  uint32 // seconds since the TSI's reference epoch
	Fraction uint64 // meaning depends on TSF; picoseconds in [0, 1e12) for TSFPicoseconds
}

// FromSeconds builds a Timestamp from a float64 POSIX-epoch second count,
// using TSFPicoseconds for the fractional part. t is converted to a whole
// nanosecond count up front and handed to FromUnixNano: at present-day
// epoch magnitudes a float64 second count no longer has enough mantissa
// bits to represent individual nanoseconds exactly, so any caller who can
// instead supply an integer nanosecond timestamp (time.Time.UnixNano, or
// an integer offset computed from one) should call FromUnixNano directly
// rather than route through this function.
func FromSeconds(tsi TSI, t float64) Timestamp {
	return FromUnixNano(tsi, int64(t*1e9))
}

// FromUnixNano builds a Timestamp from an integer POSIX-epoch nanosecond
// count, using TSFPicoseconds for the fractional part. Splitting into
// whole seconds and nanoseconds with integer division/modulo (rather than
// going through FromSeconds' float64 second count) is what preserves
// picosecond fidelity for large values of ns: a float64 second count only
// carries ~15-17 significant decimal digits, which at a 2026-ish Unix
// timestamp (10 digits before the decimal point) leaves well under the 9
// digits needed for whole nanoseconds, let alone the 12 for picoseconds.
func FromUnixNano(tsi TSI, ns int64) Timestamp {
	wholeSeconds := ns / 1_000_000_000
	fracNanos := ns % 1_000_000_000
	if fracNanos < 0 {
		fracNanos += 1_000_000_000
		wholeSeconds--
	}
	frac := uint64(fracNanos) * 1000 // ns -> ps

	integer := uint32(wholeSeconds)
	if tsi == TSIGPS {
		integer = uint32(wholeSeconds - epochGPSOffsetSeconds)
	}

	return Timestamp{
		TSI:      tsi,
		TSF:      TSFPicoseconds,
		Integer:  integer,
		Fraction: frac,
	}
}

// ToSeconds converts the Timestamp back to a float64 POSIX-epoch second
// count. Only TSFPicoseconds fractional parts are interpreted; other TSF
// kinds return just the integer part.
func (ts Timestamp) ToSeconds() float64 {
	wholeSeconds := int64(ts.Integer)
	if ts.TSI == TSIGPS {
		wholeSeconds += epochGPSOffsetSeconds
	}

	if ts.TSF != TSFPicoseconds {
		return float64(wholeSeconds)
	}

	return float64(wholeSeconds) + float64(ts.Fraction)/picosecondsPerSecond
}

// Time converts the Timestamp to a time.Time, valid for TSIUTC/TSIGPS with
// TSFPicoseconds.
func (ts Timestamp) Time() time.Time {
	secs := ts.ToSeconds()
	whole := int64(secs)
	frac := secs - float64(whole)
	return time.Unix(whole, int64(frac*1e9)).UTC()
}

// vim: foldmethod=marker
