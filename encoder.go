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

// Encoder owns the 4-bit packet counter for one VRT stream. The codec
// itself is stateless; the counter belongs here, to the producer, not to
// the package (see the decode/encode invariant in the package doc).
//
// An Encoder is not safe for concurrent use: the streaming server keeps one
// per channel stream ID, and only the streaming task ever touches it.
type Encoder struct {
	StreamID uint32
	counter  uint8
}

// NewEncoder creates an Encoder for streamID, with its packet counter
// starting at zero.
func NewEncoder(streamID uint32) *Encoder {
	return &Encoder{StreamID: streamID}
}

// Counter returns the next packet count this Encoder will stamp.
func (e *Encoder) Counter() uint8 {
	return e.counter
}

// EncodeSignalData builds and serializes a Signal Data packet carrying
// samples, scaled by scale (use DefaultScale unless the caller has a
// reason not to), stamped with ts and, if non-nil, classID and trailer.
// The packet counter advances on success.
func (e *Encoder) EncodeSignalData(
	samples []complex128,
	ts Timestamp,
	classID *ClassID,
	trailer *Trailer,
	scale float64,
) ([]byte, error) {
	hdr := Header{
		Type:           PacketTypeSignalData,
		ClassIDPresent: classID != nil,
		TrailerPresent: trailer != nil,
		TSI:            ts.TSI,
		TSF:            ts.TSF,
		PacketCount:    e.counter,
	}
	p := Packet{
		Header:     hdr,
		StreamID:   e.StreamID,
		ClassID:    classID,
		Timestamp:  &ts,
		SignalData: &SignalDataPacket{Payload: FromIQSamples(samples, scale)},
		Trailer:    trailer,
	}
	out, err := Encode(p)
	if err != nil {
		return nil, err
	}
	e.counter = (e.counter + 1) % 16
	return out, nil
}

// EncodeContext builds and serializes a Context packet carrying fields,
// stamped with ts and, if non-nil, classID. The packet counter advances on
// success.
func (e *Encoder) EncodeContext(fields Context, ts Timestamp, classID *ClassID) ([]byte, error) {
	hdr := Header{
		Type:           PacketTypeContext,
		ClassIDPresent: classID != nil,
		TSI:            ts.TSI,
		TSF:            ts.TSF,
		PacketCount:    e.counter,
	}
	p := Packet{
		Header:    hdr,
		StreamID:  e.StreamID,
		ClassID:   classID,
		Timestamp: &ts,
		Context:   &ContextPacket{Fields: fields},
	}
	out, err := Encode(p)
	if err != nil {
		return nil, err
	}
	e.counter = (e.counter + 1) % 16
	return out, nil
}

// vim: foldmethod=marker
