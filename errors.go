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

import "fmt"

// EncodeError is returned by Encode when a packet cannot be serialized.
type EncodeError struct {
	Kind EncodeErrorKind
	Msg  string
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("vrt: encode error (%s): %s", e.Kind, e.Msg)
}

// EncodeErrorKind enumerates the distinguishable EncodeError causes.
type EncodeErrorKind uint8

const (
	// EncodeOverflow means the packet's word count exceeds the 16-bit size
	// field.
	EncodeOverflow EncodeErrorKind = iota
	// EncodeInvalid means the packet's optional-field flags disagree with
	// which fields are actually present.
	EncodeInvalid
)

func (k EncodeErrorKind) String() string {
	switch k {
	case EncodeOverflow:
		return "overflow"
	case EncodeInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// DecodeError is returned by Decode when a datagram cannot be parsed.
type DecodeError struct {
	Kind DecodeErrorKind
	Msg  string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("vrt: decode error (%s): %s", e.Kind, e.Msg)
}

// DecodeErrorKind enumerates the distinguishable DecodeError causes.
type DecodeErrorKind uint8

const (
	// Truncated means fewer bytes were available than the header promised.
	Truncated DecodeErrorKind = iota
	// UnknownPacketType means the packet type is not one this package
	// supports, or a Context packet's CIF sets a bit whose field this
	// package does not implement.
	UnknownPacketType
	// PayloadMisaligned means a signal-data payload's byte length is not a
	// multiple of 2.
	PayloadMisaligned
	// CIFOutOfOrder means a context field was encountered for a CIF bit
	// higher than one already consumed, violating the descending-bit-order
	// invariant.
	CIFOutOfOrder
)

func (k DecodeErrorKind) String() string {
	switch k {
	case Truncated:
		return "truncated"
	case UnknownPacketType:
		return "unknown-type"
	case PayloadMisaligned:
		return "payload-misaligned"
	case CIFOutOfOrder:
		return "cif-out-of-order"
	default:
		return "unknown"
	}
}

// vim: foldmethod=marker
