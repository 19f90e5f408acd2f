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
	"encoding/binary"
	"fmt"
)

// PacketType identifies which VRT packet shape a Header describes.
type PacketType uint8

const (
	// PacketTypeSignalData is a VRT packet carrying interleaved I/Q samples.
	PacketTypeSignalData PacketType = 0x1

	// PacketTypeContext is a VRT packet carrying a CIF and its fields.
	PacketTypeContext PacketType = 0x4
)

// String implements fmt.Stringer.
func (pt PacketType) String() string {
	switch pt {
	case PacketTypeSignalData:
		return "SignalData"
	case PacketTypeContext:
		return "Context"
	default:
		return fmt.Sprintf("Unknown(0x%x)", uint8(pt))
	}
}

// TSI selects how the integer part of a packet's timestamp is interpreted.
type TSI uint8

const (
	// TSINone means no integer-seconds timestamp field is present.
	TSINone TSI = 0
	// TSIUTC means the integer field holds POSIX seconds since 1970-01-01 UTC.
	TSIUTC TSI = 1
	// TSIGPS means the integer field holds seconds since 1980-01-06 UTC.
	TSIGPS TSI = 2
	// TSIOther means the integer field holds an implementation-defined epoch.
	TSIOther TSI = 3
)

// TSF selects how the fractional part of a packet's timestamp is interpreted.
type TSF uint8

const (
	// TSFNone means no fractional timestamp field is present.
	TSFNone TSF = 0
	// TSFSampleCount means the fractional field is a count of samples.
	TSFSampleCount TSF = 1
	// TSFPicoseconds means the fractional field is picoseconds, in [0, 1e12).
	TSFPicoseconds TSF = 2
	// TSFFreeRunning means the fractional field is a free-running count.
	TSFFreeRunning TSF = 3
)

// Header is the one-word VRT packet header, decoded into its component
// fields. Size is in 32-bit words and includes the header word itself.
type Header struct {
	Type            PacketType
	ClassIDPresent  bool
	TrailerPresent  bool
	TSI             TSI
	TSF             TSF
	PacketCount     uint8 // 4 bits, 0-15
	Size            uint16
}

const (
	headerTypeShift        = 28
	headerTypeMask         = 0xF
	headerClassIDBit       = 1 << 27
	headerTrailerBit       = 1 << 26
	headerTSIShift         = 22
	headerTSIMask          = 0x3
	headerTSFShift         = 20
	headerTSFMask          = 0x3
	headerPacketCountShift = 16
	headerPacketCountMask  = 0xF
	headerSizeMask         = 0xFFFF
)

// EncodeHeader packs a Header into its one-word wire representation.
func EncodeHeader(h Header) uint32 {
	word := uint32(h.Type&headerTypeMask) << headerTypeShift
	if h.ClassIDPresent {
		word |= headerClassIDBit
	}
	if h.TrailerPresent {
		word |= headerTrailerBit
	}
	word |= uint32(h.TSI&headerTSIMask) << headerTSIShift
	word |= uint32(h.TSF&headerTSFMask) << headerTSFShift
	word |= uint32(h.PacketCount&headerPacketCountMask) << headerPacketCountShift
	word |= uint32(h.Size) & headerSizeMask
	return word
}

// DecodeHeader unpacks the one-word wire representation of a Header. This
// function is infallible on any 32-bit word; reserved bits are ignored.
func DecodeHeader(word uint32) Header {
	return Header{
		Type:           PacketType((word >> headerTypeShift) & headerTypeMask),
		ClassIDPresent: word&headerClassIDBit != 0,
		TrailerPresent: word&headerTrailerBit != 0,
		TSI:            TSI((word >> headerTSIShift) & headerTSIMask),
		TSF:            TSF((word >> headerTSFShift) & headerTSFMask),
		PacketCount:    uint8((word >> headerPacketCountShift) & headerPacketCountMask),
		Size:           uint16(word & headerSizeMask),
	}
}

// byteOrder is the wire byte order for every multi-byte VRT field.
var byteOrder = binary.BigEndian

// vim: foldmethod=marker
