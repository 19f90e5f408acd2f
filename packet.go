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

import (
	"math"
)

// SignalDataPacket is the payload of a PacketTypeSignalData Packet: raw,
// interleaved, big-endian signed-16 I/Q bytes, zero-padded to a 32-bit word
// boundary. Use FromIQSamples/ToIQSamples to convert to/from normalized
// complex samples.
type SignalDataPacket struct {
	Payload []byte
}

// ContextPacket is the payload of a PacketTypeContext Packet.
type ContextPacket struct {
	Fields Context
}

// Packet is a decoded VRT packet: exactly one of SignalData or Context is
// non-nil, selected by Header.Type.
type Packet struct {
	Header     Header
	StreamID   uint32
	ClassID    *ClassID
	Timestamp  *Timestamp
	SignalData *SignalDataPacket
	Context    *ContextPacket
	Trailer    *Trailer
}

// Encode serializes p to its wire representation. The caller is
// responsible for Header.PacketCount (see Encoder for the common case of a
// per-stream monotonic counter) and for Header.Size, which Encode
// recomputes from the packet's actual contents and overwrites.
func Encode(p Packet) ([]byte, error) {
	if (p.Header.Type == PacketTypeSignalData) == (p.SignalData == nil) {
		return nil, &EncodeError{Kind: EncodeInvalid, Msg: "signal data presence does not match header type"}
	}
	if (p.Header.Type == PacketTypeContext) == (p.Context == nil) {
		return nil, &EncodeError{Kind: EncodeInvalid, Msg: "context presence does not match header type"}
	}
	if p.Header.ClassIDPresent != (p.ClassID != nil) {
		return nil, &EncodeError{Kind: EncodeInvalid, Msg: "class id flag does not match class id presence"}
	}
	if p.Header.TrailerPresent != (p.Trailer != nil) {
		return nil, &EncodeError{Kind: EncodeInvalid, Msg: "trailer flag does not match trailer presence"}
	}
	wantTSI := p.Timestamp != nil && p.Timestamp.TSI != TSINone
	wantTSF := p.Timestamp != nil && p.Timestamp.TSF != TSFNone
	if (p.Header.TSI != TSINone) != wantTSI {
		return nil, &EncodeError{Kind: EncodeInvalid, Msg: "header TSI does not match timestamp presence"}
	}
	if (p.Header.TSF != TSFNone) != wantTSF {
		return nil, &EncodeError{Kind: EncodeInvalid, Msg: "header TSF does not match timestamp presence"}
	}

	words := make([]uint32, 1) // reserve header word, filled in at the end

	words = append(words, p.StreamID)

	if p.ClassID != nil {
		cw := encodeClassID(*p.ClassID)
		words = append(words, cw[0], cw[1])
	}

	if p.Timestamp != nil {
		if p.Header.TSI != TSINone {
			words = append(words, p.Timestamp.Integer)
		}
		if p.Header.TSF != TSFNone {
			frac := p.Timestamp.Fraction
			words = append(words, uint32(frac>>32), uint32(frac))
		}
	}

	switch p.Header.Type {
	case PacketTypeSignalData:
		payload := padToWord(append([]byte(nil), p.SignalData.Payload...))
		for i := 0; i < len(payload); i += 4 {
			words = append(words, byteOrder.Uint32(payload[i:i+4]))
		}
	case PacketTypeContext:
		words = append(words, p.Context.Fields.cif())
		words = append(words, encodeContextFields(p.Context.Fields)...)
	default:
		return nil, &EncodeError{Kind: EncodeInvalid, Msg: "unsupported packet type"}
	}

	if p.Trailer != nil {
		words = append(words, EncodeTrailer(*p.Trailer))
	}

	if len(words) > math.MaxUint16 {
		return nil, &EncodeError{Kind: EncodeOverflow, Msg: "packet word count exceeds 16-bit size field"}
	}

	hdr := p.Header
	hdr.Size = uint16(len(words))
	words[0] = EncodeHeader(hdr)

	out := make([]byte, len(words)*4)
	for i, w := range words {
		byteOrder.PutUint32(out[i*4:], w)
	}
	return out, nil
}

// Decode parses a wire-format VRT packet. The slice's length must equal
// exactly 4 times the header's Size field.
func Decode(data []byte) (Packet, error) {
	if len(data) < 4 {
		return Packet{}, &DecodeError{Kind: Truncated, Msg: "packet shorter than one word"}
	}
	hdr := DecodeHeader(byteOrder.Uint32(data))
	wantLen := int(hdr.Size) * 4
	if len(data) != wantLen {
		return Packet{}, &DecodeError{Kind: Truncated, Msg: "datagram length does not match header size field"}
	}

	words := make([]uint32, hdr.Size)
	for i := range words {
		words[i] = byteOrder.Uint32(data[i*4:])
	}

	idx := 1 // skip header word
	need := func(n int) bool { return idx+n <= len(words) }

	if !need(1) {
		return Packet{}, &DecodeError{Kind: Truncated, Msg: "missing stream id"}
	}
	streamID := words[idx]
	idx++

	var classID *ClassID
	if hdr.ClassIDPresent {
		if !need(2) {
			return Packet{}, &DecodeError{Kind: Truncated, Msg: "missing class id"}
		}
		c := decodeClassID(words[idx], words[idx+1])
		classID = &c
		idx += 2
	}

	var ts *Timestamp
	if hdr.TSI != TSINone || hdr.TSF != TSFNone {
		t := Timestamp{TSI: hdr.TSI, TSF: hdr.TSF}
		if hdr.TSI != TSINone {
			if !need(1) {
				return Packet{}, &DecodeError{Kind: Truncated, Msg: "missing integer timestamp"}
			}
			t.Integer = words[idx]
			idx++
		}
		if hdr.TSF != TSFNone {
			if !need(2) {
				return Packet{}, &DecodeError{Kind: Truncated, Msg: "missing fractional timestamp"}
			}
			t.Fraction = uint64(words[idx])<<32 | uint64(words[idx+1])
			idx += 2
		}
		ts = &t
	}

	trailerWords := 0
	if hdr.TrailerPresent {
		trailerWords = 1
	}
	bodyEnd := len(words) - trailerWords
	if bodyEnd < idx {
		return Packet{}, &DecodeError{Kind: Truncated, Msg: "trailer does not fit"}
	}

	p := Packet{
		Header:    hdr,
		StreamID:  streamID,
		ClassID:   classID,
		Timestamp: ts,
	}

	switch hdr.Type {
	case PacketTypeSignalData:
		payload := make([]byte, (bodyEnd-idx)*4)
		for i := idx; i < bodyEnd; i++ {
			byteOrder.PutUint32(payload[(i-idx)*4:], words[i])
		}
		p.SignalData = &SignalDataPacket{Payload: payload}
	case PacketTypeContext:
		if idx >= bodyEnd {
			return Packet{}, &DecodeError{Kind: Truncated, Msg: "missing cif"}
		}
		cif := words[idx]
		idx++
		fields, err := decodeContextFields(cif, words[idx:bodyEnd])
		if err != nil {
			return Packet{}, err
		}
		p.Context = &ContextPacket{Fields: fields}
	default:
		return Packet{}, &DecodeError{Kind: UnknownPacketType, Msg: "unsupported packet type"}
	}

	if hdr.TrailerPresent {
		trailer := DecodeTrailer(words[bodyEnd])
		p.Trailer = &trailer
	}

	return p, nil
}

// vim: foldmethod=marker
