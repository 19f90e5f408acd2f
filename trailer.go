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

// Trailer is the optional one-word Signal Data trailer: paired state and
// enable bits, plus an associated-context-packet counter. A state bit is
// only observable by a receiver if its corresponding enable bit is set;
// DecodeTrailer already applies that masking so callers can read the
// state fields directly.
type Trailer struct {
	CalibratedTimeEnable bool
	CalibratedTime       bool

	ValidDataEnable bool
	ValidData       bool

	ReferenceLockEnable bool
	ReferenceLock       bool

	AGCEnable bool
	AGC       bool // true = AGC, false = MGC

	DetectedSignalEnable bool
	DetectedSignal       bool

	SpectralInversionEnable bool
	SpectralInversion       bool

	OverRangeEnable bool
	OverRange       bool

	SampleLossEnable bool
	SampleLoss       bool

	// AssociatedContextPacketCount is a 7-bit counter.
	AssociatedContextPacketCount uint8
}

const (
	trailerCalibratedTimeBit     = 1 << 31
	trailerValidDataBit          = 1 << 30
	trailerReferenceLockBit      = 1 << 29
	trailerAGCBit                = 1 << 28
	trailerDetectedSignalBit     = 1 << 27
	trailerSpectralInversionBit  = 1 << 26
	trailerOverRangeBit          = 1 << 25
	trailerSampleLossBit         = 1 << 24

	trailerCalibratedTimeEnableBit    = 1 << 15
	trailerValidDataEnableBit         = 1 << 14
	trailerReferenceLockEnableBit     = 1 << 13
	trailerAGCEnableBit               = 1 << 12
	trailerDetectedSignalEnableBit    = 1 << 11
	trailerSpectralInversionEnableBit = 1 << 10
	trailerOverRangeEnableBit         = 1 << 9
	trailerSampleLossEnableBit        = 1 << 8

	trailerContextCountMask = 0x7F
)

// EncodeTrailer packs a Trailer into its one-word wire representation.
func EncodeTrailer(t Trailer) uint32 {
	var word uint32

	setPair := func(enable, state bool, enableBit, stateBit uint32) {
		if enable {
			word |= enableBit
			if state {
				word |= stateBit
			}
		}
	}

	setPair(t.CalibratedTimeEnable, t.CalibratedTime, trailerCalibratedTimeEnableBit, trailerCalibratedTimeBit)
	setPair(t.ValidDataEnable, t.ValidData, trailerValidDataEnableBit, trailerValidDataBit)
	setPair(t.ReferenceLockEnable, t.ReferenceLock, trailerReferenceLockEnableBit, trailerReferenceLockBit)
	setPair(t.AGCEnable, t.AGC, trailerAGCEnableBit, trailerAGCBit)
	setPair(t.DetectedSignalEnable, t.DetectedSignal, trailerDetectedSignalEnableBit, trailerDetectedSignalBit)
	setPair(t.SpectralInversionEnable, t.SpectralInversion, trailerSpectralInversionEnableBit, trailerSpectralInversionBit)
	setPair(t.OverRangeEnable, t.OverRange, trailerOverRangeEnableBit, trailerOverRangeBit)
	setPair(t.SampleLossEnable, t.SampleLoss, trailerSampleLossEnableBit, trailerSampleLossBit)

	word |= uint32(t.AssociatedContextPacketCount&trailerContextCountMask) << 1

	return word
}

// DecodeTrailer unpacks a Trailer from its one-word wire representation. A
// state bit is only copied out if its enable bit is set; otherwise it reads
// as false regardless of what was on the wire, per the "observable only if
// enabled" rule.
func DecodeTrailer(word uint32) Trailer {
	var t Trailer

	getPair := func(enableBit, stateBit uint32) (enable, state bool) {
		enable = word&enableBit != 0
		state = enable && word&stateBit != 0
		return
	}

	t.CalibratedTimeEnable, t.CalibratedTime = getPair(trailerCalibratedTimeEnableBit, trailerCalibratedTimeBit)
	t.ValidDataEnable, t.ValidData = getPair(trailerValidDataEnableBit, trailerValidDataBit)
	t.ReferenceLockEnable, t.ReferenceLock = getPair(trailerReferenceLockEnableBit, trailerReferenceLockBit)
	t.AGCEnable, t.AGC = getPair(trailerAGCEnableBit, trailerAGCBit)
	t.DetectedSignalEnable, t.DetectedSignal = getPair(trailerDetectedSignalEnableBit, trailerDetectedSignalBit)
	t.SpectralInversionEnable, t.SpectralInversion = getPair(trailerSpectralInversionEnableBit, trailerSpectralInversionBit)
	t.OverRangeEnable, t.OverRange = getPair(trailerOverRangeEnableBit, trailerOverRangeBit)
	t.SampleLossEnable, t.SampleLoss = getPair(trailerSampleLossEnableBit, trailerSampleLossBit)

	t.AssociatedContextPacketCount = uint8((word >> 1) & trailerContextCountMask)

	return t
}

// vim: foldmethod=marker
