package curve

import (
	"gitlab.com/yawning/p256-voi/internal/fn"
	"gitlab.com/yawning/p256-voi/internal/fp"
)

// Slide257 recodes the little-endian byte string a (32 bytes) into a
// signed-digit representation r such that
// `r[0] + 2*r[1] + 2^2*r[2] + ... + 2^256*r[256] == a`, where every
// r[i] is one of -15, -13, ..., -1, 0, 1, ..., 13, 15. Around 1/5.5 of
// the digits end up non-zero. Used only on public values (a verifier's
// u1, u2), so this need not run in constant time.
func Slide257(a *[32]byte) [257]int8 {
	var r [257]int8
	for i := 0; i < 256; i++ {
		r[i] = int8(1 & (a[i>>3] >> uint(i&7)))
	}
	r[256] = 0

	for i := 0; i < 256; i++ {
		if r[i] == 0 {
			continue
		}
		for b := 1; b <= 4 && i+b < 256; b++ {
			if r[i+b] == 0 {
				continue
			}
			if int(r[i])+(int(r[i+b])<<uint(b)) <= 15 {
				r[i] += r[i+b] << uint(b)
				r[i+b] = 0
			} else if int(r[i])-(int(r[i+b])<<uint(b)) >= -15 {
				r[i] -= r[i+b] << uint(b)
				for {
					r[i+b] = 0
					b++
					if r[i+b] == 0 {
						r[i+b] = 1
						b--
						break
					}
				}
			} else {
				break
			}
		}
	}
	return r
}

// elemToLEBytes renders z as 32 little-endian bytes, matching the
// limb order the sliding-window recoder expects (limb 0, the least
// significant 32 bits, first).
func elemToLEBytes(z *fn.Elem) [32]byte {
	var out [32]byte
	for i, limb := range z {
		out[i*4+0] = byte(limb)
		out[i*4+1] = byte(limb >> 8)
		out[i*4+2] = byte(limb >> 16)
		out[i*4+3] = byte(limb >> 24)
	}
	return out
}

// buildOddMultiplesTable builds the Jacobian table of P, 3P, 5P, ...,
// 15P from the affine point (x, y), both in Montgomery form.
func buildOddMultiplesTable(x, y *fp.Elem) [8]JacobianPoint {
	var table [8]JacobianPoint
	table[0] = FromAffine(&AffinePoint{X: *x, Y: *y})
	DoubleJ(&table[7], &table[0])
	for i := 1; i < 8; i++ {
		table[i] = table[7]
		prev := table[i-1]
		AddSubJ(&table[i], &prev.X, &prev.Y, &prev.Z, false, false)
	}
	return table
}

// DualScalarMultVartime computes `u1*G + u2*Q` (Q being the affine
// point (qx, qy), Montgomery form) using a 5-bit sliding-window
// recoding of both scalars. Not constant time: intended only for
// ECDSA verification, where every input is public.
func DualScalarMultVartime(u1, u2 *fn.Elem, qx, qy *fp.Elem) JacobianPoint {
	pkTable := buildOddMultiplesTable(qx, qy)

	u1Bytes := elemToLEBytes(u1)
	u2Bytes := elemToLEBytes(u2)
	slideG := Slide257(&u1Bytes)
	slideQ := Slide257(&u2Bytes)

	var cp JacobianPoint
	for i := 256; i >= 0; i-- {
		DoubleJ(&cp, &cp)

		if slideG[i] > 0 {
			entry := VerifyTable[slideG[i]/2]
			AddSubJ(&cp, &entry.X, &entry.Y, nil, false, true)
		} else if slideG[i] < 0 {
			entry := VerifyTable[(-slideG[i])/2]
			AddSubJ(&cp, &entry.X, &entry.Y, nil, true, true)
		}

		if slideQ[i] > 0 {
			entry := pkTable[slideQ[i]/2]
			AddSubJ(&cp, &entry.X, &entry.Y, &entry.Z, false, false)
		} else if slideQ[i] < 0 {
			entry := pkTable[(-slideQ[i])/2]
			AddSubJ(&cp, &entry.X, &entry.Y, &entry.Z, true, false)
		}
	}
	return cp
}

// VerifyLastStep reports whether the affine x-coordinate of p, reduced
// mod n, equals r. p is the point at infinity iff every signature
// verification on it must fail.
func VerifyLastStep(r *fn.Elem, p *JacobianPoint) bool {
	if p.IsInfinity() == 1 {
		return false
	}

	var x, y fp.Elem
	ToAffine(&x, &y, p)

	var xNonMont fp.Elem
	fp.FromMont(&xNonMont, &x)

	xModN := fn.Elem(xNonMont)
	if !fn.CheckRangeN(&xModN) {
		// p's x-coordinate lies in [0, p), and p < 2n, so a single
		// subtraction of n always suffices to bring it into [0, n).
		n := fn.N()
		var reduced fn.Elem
		borrow := uint64(0)
		for i := 0; i < 8; i++ {
			d := uint64(xModN[i]) - uint64(n[i]) - borrow
			reduced[i] = uint32(d)
			borrow = (d >> 63) & 1
		}
		xModN = reduced
	}

	return fn.Equal(&xModN, r) == 1
}
