// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

package p256

import (
	"errors"

	"gitlab.com/yawning/p256-voi/internal/curve"
	"gitlab.com/yawning/p256-voi/internal/disalloweq"
	"gitlab.com/yawning/p256-voi/internal/fp"
)

// Coordinate is a field element (an x or y coordinate, or an ECDH
// shared secret's x-coordinate), represented as eight 32-bit limbs in
// little-endian limb order, in the plain (non-Montgomery) domain. A
// Coordinate that a caller obtains from this package always satisfies
// `0 <= v < p`; Coordinates built from untrusted bytes must be checked
// with InRange before use, exactly as the protocol entry points below
// do internally.
type Coordinate [8]uint32

// InRange returns true iff `0 <= c < p`.
func (c *Coordinate) InRange() bool {
	e := fp.Elem(*c)
	return fp.CheckRangeP(&e)
}

// Bytes returns the big-endian 32-byte encoding of c.
func (c *Coordinate) Bytes() [32]byte {
	e := fp.Elem(*c)
	return fp.Bytes(&e)
}

// CoordinateFromBytes decodes the big-endian 32-byte encoding b into a
// Coordinate, reporting via ok whether the decoded value lies in the
// canonical range `[0, p)`.
func CoordinateFromBytes(b *[32]byte) (c Coordinate, ok bool) {
	var e fp.Elem
	ok = fp.SetBytes(&e, b)
	c = Coordinate(e)
	return c, ok
}

func coordToMont(c *Coordinate) fp.Elem {
	var out fp.Elem
	e := fp.Elem(*c)
	fp.ToMont(&out, &e)
	return out
}

func montToCoord(e *fp.Elem) Coordinate {
	var out fp.Elem
	fp.FromMont(&out, e)
	return Coordinate(out)
}

const (
	// UncompressedPointSize is the size, in bytes, of a SEC1
	// uncompressed (or hybrid) point encoding.
	UncompressedPointSize = 65
	// CompressedPointSize is the size, in bytes, of a SEC1 compressed
	// point encoding.
	CompressedPointSize = 33

	tagUncompressed = 0x04
	tagCompressedY0 = 0x02
	tagCompressedY1 = 0x03
	tagHybridY0     = 0x06
	tagHybridY1     = 0x07
)

// Point is a point on the P-256 curve, stored in affine coordinates.
// The zero value is NOT a valid Point; use NewPoint or
// NewPointFromOctetString to construct one.
type Point struct {
	_ disalloweq.DisallowEqual

	x, y    fp.Elem // Montgomery form
	isValid bool
}

// NewPoint validates that (x, y) is an affine point on the curve and
// returns the corresponding Point.
func NewPoint(x, y *Coordinate) (*Point, error) {
	if !x.InRange() || !y.InRange() {
		return nil, errors.New("p256: coordinate out of range")
	}

	xMont, yMont := coordToMont(x), coordToMont(y)
	if !curve.IsOnCurve(&xMont, &yMont) {
		return nil, errors.New("p256: point is not on the curve")
	}

	return &Point{x: xMont, y: yMont, isValid: true}, nil
}

// XY returns the affine coordinates of p.
func (p *Point) XY() (x, y Coordinate) {
	assertPointValid(p)
	return montToCoord(&p.x), montToCoord(&p.y)
}

// Uncompressed returns the SEC1 uncompressed encoding of p
// (`0x04 || X || Y`).
func (p *Point) Uncompressed() []byte {
	assertPointValid(p)

	x, y := p.XY()
	xb, yb := x.Bytes(), y.Bytes()

	out := make([]byte, 0, UncompressedPointSize)
	out = append(out, tagUncompressed)
	out = append(out, xb[:]...)
	out = append(out, yb[:]...)
	return out
}

// Compressed returns the SEC1 compressed encoding of p
// (`(0x02 | lsb(y)) || X`).
func (p *Point) Compressed() []byte {
	assertPointValid(p)

	x, y := p.XY()
	xb, yb := x.Bytes(), y.Bytes()

	tag := byte(tagCompressedY0)
	if yb[31]&1 == 1 {
		tag = tagCompressedY1
	}

	out := make([]byte, 0, CompressedPointSize)
	out = append(out, tag)
	out = append(out, xb[:]...)
	return out
}

// Hybrid returns the SEC1/X9.62 hybrid encoding of p
// (`(0x06 | lsb(y)) || X || Y`).
func (p *Point) Hybrid() []byte {
	assertPointValid(p)

	x, y := p.XY()
	xb, yb := x.Bytes(), y.Bytes()

	tag := byte(tagHybridY0)
	if yb[31]&1 == 1 {
		tag = tagHybridY1
	}

	out := make([]byte, 0, UncompressedPointSize)
	out = append(out, tag)
	out = append(out, xb[:]...)
	out = append(out, yb[:]...)
	return out
}

// NewPointFromOctetString decodes src, a SEC1 uncompressed, compressed,
// or hybrid point encoding, validating the tag, length, curve
// membership, and (for the hybrid encoding) the parity bit, and
// returns the corresponding Point.
func NewPointFromOctetString(src []byte) (*Point, error) {
	if len(src) == 0 {
		return nil, errors.New("p256: empty point encoding")
	}

	switch tag := src[0]; tag {
	case tagUncompressed, tagHybridY0, tagHybridY1:
		if len(src) != UncompressedPointSize {
			return nil, errors.New("p256: invalid uncompressed/hybrid point length")
		}

		var xBytes, yBytes [32]byte
		copy(xBytes[:], src[1:33])
		copy(yBytes[:], src[33:65])

		x, xOk := CoordinateFromBytes(&xBytes)
		y, yOk := CoordinateFromBytes(&yBytes)
		if !xOk || !yOk {
			return nil, errors.New("p256: coordinate out of range")
		}

		if tag == tagHybridY0 || tag == tagHybridY1 {
			wantOdd := tag == tagHybridY1
			gotOdd := yBytes[31]&1 == 1
			if wantOdd != gotOdd {
				return nil, errors.New("p256: hybrid tag/parity mismatch")
			}
		}

		return NewPoint(&x, &y)
	case tagCompressedY0, tagCompressedY1:
		if len(src) != CompressedPointSize {
			return nil, errors.New("p256: invalid compressed point length")
		}

		var xBytes [32]byte
		copy(xBytes[:], src[1:33])
		x, xOk := CoordinateFromBytes(&xBytes)
		if !xOk {
			return nil, errors.New("p256: coordinate out of range")
		}

		xMont := coordToMont(&x)
		parity := uint32(tag & 1)

		var yMont fp.Elem
		if ok := curve.DecompressPoint(&yMont, &xMont, parity); !ok {
			return nil, errors.New("p256: x has no square root on the curve")
		}

		return &Point{x: xMont, y: yMont, isValid: true}, nil
	default:
		return nil, errors.New("p256: unrecognized point encoding tag")
	}
}

func assertPointValid(p *Point) {
	if !p.isValid {
		panic("p256: use of uninitialized Point")
	}
}
