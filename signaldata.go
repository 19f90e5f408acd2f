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

// DefaultScale is the default scale factor applied by FromIQSamples and
// ToIQSamples: 2^14, leaving one guard bit of headroom in the signed-16
// range for brief spikes above |1.0| (up to just under |2.0|).
const DefaultScale = 1 << 14

// FromIQSamples scales a slice of normalized complex samples (|i|,|q| <= 1)
// by scale and quantizes to interleaved big-endian signed 16-bit I/Q pairs,
// I first then Q, clamped to the signed-16 range.
func FromIQSamples(samples []complex128, scale float64) []byte {
	out := make([]byte, len(samples)*4)
	for i, s := range samples {
		iVal := clampInt16(real(s) * scale)
		qVal := clampInt16(imag(s) * scale)
		byteOrder.PutUint16(out[i*4:], uint16(iVal))
		byteOrder.PutUint16(out[i*4+2:], uint16(qVal))
	}
	return out
}

// ToIQSamples converts interleaved big-endian signed 16-bit I/Q pairs back
// to normalized complex samples by dividing by scale.
func ToIQSamples(data []byte, scale float64) ([]complex128, error) {
	if len(data)%4 != 0 {
		return nil, &DecodeError{Kind: PayloadMisaligned, Msg: "signal data payload is not a multiple of 4 bytes"}
	}
	n := len(data) / 4
	out := make([]complex128, n)
	for i := 0; i < n; i++ {
		iVal := int16(byteOrder.Uint16(data[i*4:]))
		qVal := int16(byteOrder.Uint16(data[i*4+2:]))
		out[i] = complex(float64(iVal)/scale, float64(qVal)/scale)
	}
	return out, nil
}

func clampInt16(v float64) int16 {
	v = math.Round(v)
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

// padToWord returns data padded with zero bytes to the next multiple of 4.
func padToWord(data []byte) []byte {
	rem := len(data) % 4
	if rem == 0 {
		return data
	}
	return append(data, make([]byte, 4-rem)...)
}

// vim: foldmethod=marker
