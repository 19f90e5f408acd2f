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

// ClassID is the optional two-word Class Identifier: a 24-bit OUI plus a
// 16-bit information-class code and a 16-bit packet-class code.
type ClassID struct {
	OUI               uint32 // low 24 bits significant
	InformationClass  uint16
	PacketClass       uint16
}

func encodeClassID(c ClassID) [2]uint32 {
	word0 := (c.OUI & 0x00FFFFFF)
	word1 := uint32(c.InformationClass)<<16 | uint32(c.PacketClass)
	return [2]uint32{word0, word1}
}

func decodeClassID(word0, word1 uint32) ClassID {
	return ClassID{
		OUI:              word0 & 0x00FFFFFF,
		InformationClass: uint16(word1 >> 16),
		PacketClass:      uint16(word1 & 0xFFFF),
	}
}

// vim: foldmethod=marker
