package curve

import (
	"gitlab.com/yawning/p256-voi/internal/fn"
	"gitlab.com/yawning/p256-voi/internal/fp"
)

func getBit(arr *fn.Elem, i int) uint32 {
	return (arr[i/32] >> uint(i%32)) & 1
}

// ScalarBaseMult sets outX, outY to the affine (Montgomery form)
// coordinates of `scalar*G`, the fixed generator point, using the
// precomputed tables in FixedBaseTables.
//
// Negate-if-even, as in ScalarMult, reduces to an odd scalar. The odd
// scalar is then conceptually rewritten as 256 signed +-1 digits
// `s[i]`, where `s[i] = S[i+1] == 1 ? 1 : -1` for `i < 255` and
// `s[255] = 1` (S being the original scalar's bits); the 32-round loop
// below forms, for each `0 <= j < 32`, the two combined digit groups
// `s[j] + s[j+64]*2^64 + s[j+128]*2^128 + s[j+192]*2^192` and
// `s[j+32] + s[j+96]*2^64 + s[j+160]*2^128 + s[j+224]*2^192`, each of
// which is already a precomputed multiple of G in FixedBaseTables,
// needing only 31 doublings and 63 additions total.
func ScalarBaseMult(outX, outY *fp.Elem, scalar *fn.Elem) {
	even := 1 ^ (scalar[0] & 1)
	var scalar2 fn.Elem
	fn.NegateModNIf(&scalar2, scalar, even)

	var current JacobianPoint

	for i := 31; i >= 0; i-- {
		{
			mask := getBit(&scalar2, i+32+1) | (getBit(&scalar2, i+64+32+1) << 1) | (getBit(&scalar2, i+2*64+32+1) << 2)
			if i == 31 {
				var selected AffinePoint
				SelectAffine(&selected, FixedBaseTables[1][:], mask)
				current = FromAffine(&selected)
			} else {
				DoubleJ(&current, &current)

				sign := getBit(&scalar2, i+3*64+32+1) - 1 // 0 if positive, 0xffffffff if negative
				mask = (mask ^ sign) & 7

				var selected AffinePoint
				SelectAffine(&selected, FixedBaseTables[1][:], mask)
				fp.NegateModPIf(&selected.Y, &selected.Y, sign&1)
				AddSubJ(&current, &selected.X, &selected.Y, nil, false, true)
			}
		}
		{
			mask := getBit(&scalar2, i+1) | (getBit(&scalar2, i+64+1) << 1) | (getBit(&scalar2, i+2*64+1) << 2)
			sign := getBit(&scalar2, i+3*64+1) - 1
			mask = (mask ^ sign) & 7

			var selected AffinePoint
			SelectAffine(&selected, FixedBaseTables[0][:], mask)
			fp.NegateModPIf(&selected.Y, &selected.Y, sign&1)
			AddSubJ(&current, &selected.X, &selected.Y, nil, false, true)
		}
	}

	ToAffine(outX, outY, &current)
	fp.NegateModPIf(outY, outY, even)

	fn.Zeroize(&scalar2)
	current = JacobianPoint{}
}
