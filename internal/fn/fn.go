// Package fn implements constant-time arithmetic modulo the NIST P-256
// curve order
// `n = 0xffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632551`.
//
// Elements are represented as eight 32-bit limbs in little-endian limb
// order, the same convention used by package fp. Unlike fp, n's least
// significant limb is not all-ones, so the Montgomery reduction constant
// `n0' = -n^-1 mod 2^32` is not 1 and every reduction step performs a
// genuine 32x32 multiply.
package fn

import "gitlab.com/yawning/p256-voi/internal/helpers"

// Elem is a scalar, eight 32-bit limbs, little-endian.
//
// Every Elem a caller can observe satisfies `0 <= v < n`.
type Elem [8]uint32

// n is the curve order, little-endian limbs.
var n = Elem{0xfc632551, 0xf3b9cac2, 0xa7179e84, 0xbce6faad, 0xffffffff, 0xffffffff, 0x00000000, 0xffffffff}

// n0Prime is `-n^-1 mod 2^32`, the Montgomery reduction constant for n.
const n0Prime = 0xee00bc4f

// rModN is `R mod n`, R = 2^256.
var rModN = Elem{0x039cdaaf, 0x0c46353d, 0x58e8617b, 0x43190552, 0x00000000, 0x00000000, 0xffffffff, 0x00000000}

// rSquaredModN is `R^2 mod n`, used by ToMont.
var rSquaredModN = Elem{0xbe79eea2, 0x83244c95, 0x49bd6fa6, 0x4699799c, 0x2b6bec59, 0x2845b239, 0xf3d95620, 0x66e12d94}

// N returns the curve order.
func N() Elem { return n }

// RModN returns the Montgomery-domain representation of 1 mod n.
func RModN() Elem { return rModN }

// MulMont sets `z = a*b*R^-1 mod n` and returns z.
func MulMont(z, a, b *Elem) *Elem {
	*z = montMul(a, b)
	return z
}

// ToMont sets `z = a*R mod n` and returns z.
func ToMont(z, a *Elem) *Elem {
	return MulMont(z, a, &rSquaredModN)
}

// MulModN sets `z = a*b mod n` (plain, non-Montgomery domain) and
// returns z, by bridging through the Montgomery domain MulMont is
// built on: `to_mont(a) * to_mont(b) * R^-1 == a*b*R mod n`, and a
// second FromMont strips the remaining factor of R.
func MulModN(z, a, b *Elem) *Elem {
	var aMont, bMont, prodMont Elem
	ToMont(&aMont, a)
	ToMont(&bMont, b)
	MulMont(&prodMont, &aMont, &bMont)
	return FromMont(z, &prodMont)
}

// FromMont sets `z = a*R^-1 mod n` and returns z.
func FromMont(z, a *Elem) *Elem {
	var nonMont Elem
	nonMont[0] = 1
	return MulMont(z, a, &nonMont)
}

// AddModN sets `z = a+b mod n` and returns z.
func AddModN(z, a, b *Elem) *Elem {
	var sum [9]uint32
	var carry uint64
	for i := 0; i < 8; i++ {
		s := uint64(a[i]) + uint64(b[i]) + carry
		sum[i] = uint32(s)
		carry = s >> 32
	}
	sum[8] = uint32(carry)

	reduced := subN(&sum)
	for i := 0; i < 8; i++ {
		z[i] = reduced[i]
	}
	return z
}

// SubModN sets `z = a-b mod n` and returns z.
func SubModN(z, a, b *Elem) *Elem {
	var diff [8]uint32
	var borrow uint64
	for i := 0; i < 8; i++ {
		d := uint64(a[i]) - uint64(b[i]) - borrow
		diff[i] = uint32(d)
		borrow = (d >> 63) & 1
	}

	var added [8]uint32
	var carry uint64
	for i := 0; i < 8; i++ {
		s := uint64(diff[i]) + uint64(n[i])*borrow + carry
		added[i] = uint32(s)
		carry = s >> 32
	}
	*z = added
	return z
}

// NegateModNIf sets `z = n-a mod n` iff flag == 1, `z = a` iff flag == 0,
// and returns z, in constant time in both a and flag.
func NegateModNIf(z, a *Elem, flag uint32) *Elem {
	var negated, zero Elem
	SubModN(&negated, &n, a)
	// n - 0 = n is not in [0, n); select 0 instead when a == 0.
	ConditionalSelect(&negated, &negated, &zero, IsZero(a))
	helpers.CondSelectLimbs((*[8]uint32)(z), (*[8]uint32)(a), (*[8]uint32)(&negated), flag)
	return z
}

// CheckRangeN returns true iff `0 <= a < n`.
func CheckRangeN(a *Elem) bool {
	return !isGreaterOrEqualN(a)
}

// IsGreaterThanHalfN returns true iff `a > n/2`, i.e. a's canonical
// representative is in the upper half of the scalar range. Used by
// signature malleability normalization (low-s enforcement is left to
// callers; this primitive just answers the range question).
func IsGreaterThanHalfN(a *Elem) bool {
	// halfN = (n-1)/2, computed once.
	var halfN = halfNValue()
	var diff Elem
	borrow := subNoWrap(&diff, a, &halfN)
	return borrow == 0 && !(Equal(a, &halfN) == 1)
}

func halfNValue() Elem {
	// n is odd, so floor(n/2) = (n-1)/2, computed via a one-bit
	// right shift across limbs.
	var half Elem
	var carry uint32
	for i := 7; i >= 0; i-- {
		v := n[i]
		half[i] = (v >> 1) | (carry << 31)
		carry = v & 1
	}
	return half
}

// subNoWrap computes a-b without modular reduction, returning the
// borrow (0 or 1). diff holds the raw two's-complement difference.
func subNoWrap(diff, a, b *Elem) uint64 {
	var borrow uint64
	for i := 0; i < 8; i++ {
		d := uint64(a[i]) - uint64(b[i]) - borrow
		diff[i] = uint32(d)
		borrow = (d >> 63) & 1
	}
	return borrow
}

// ConditionalSelect sets `z = a` iff ctrl == 0, `z = b` iff ctrl == 1.
func ConditionalSelect(z, a, b *Elem, ctrl uint32) *Elem {
	helpers.CondSelectLimbs((*[8]uint32)(z), (*[8]uint32)(a), (*[8]uint32)(b), ctrl)
	return z
}

// Equal returns 1 iff a == b, 0 otherwise.
func Equal(a, b *Elem) uint32 {
	return helpers.LimbsAreEqual((*[8]uint32)(a), (*[8]uint32)(b))
}

// IsZero returns 1 iff a == 0, 0 otherwise.
func IsZero(a *Elem) uint32 {
	return helpers.LimbsAreZero((*[8]uint32)(a))
}

// Zeroize overwrites a with zeros.
func Zeroize(a *Elem) {
	helpers.Zeroize((*[8]uint32)(a))
}

// SetBytes decodes a big-endian 32-byte octet string into a scalar, and
// reports via ok whether the decoded value is in canonical range
// `[0, n)`. Out-of-range inputs still populate z (with the raw decoded
// value) so callers that intend to reduce mod n (e.g. nonce derivation)
// can do so explicitly; ok gates callers that require strict range
// checking (e.g. ECDSA r, s components).
func SetBytes(z *Elem, b *[32]byte) (ok bool) {
	limbs := helpers.BytesToLimbsBE(b)
	*z = Elem(limbs)
	return CheckRangeN(z)
}

// Bytes encodes z as a big-endian 32-byte octet string.
func Bytes(z *Elem) [32]byte {
	limbs := [8]uint32(*z)
	return helpers.LimbsToBytesBE(&limbs)
}

func montMul(a, b *Elem) Elem {
	var t [9]uint32

	for i := 0; i < 8; i++ {
		var carry uint64
		for j := 0; j < 8; j++ {
			s := uint64(t[j]) + uint64(a[i])*uint64(b[j]) + carry
			t[j] = uint32(s)
			carry = s >> 32
		}
		s := uint64(t[8]) + carry
		t[8] = uint32(s)
		t9 := uint32(s >> 32)

		m := uint32((uint64(t[0]) * uint64(n0Prime)) & 0xffffffff)
		s = uint64(t[0]) + uint64(m)*uint64(n[0])
		carry = s >> 32
		for j := 1; j < 8; j++ {
			s = uint64(t[j]) + uint64(m)*uint64(n[j]) + carry
			t[j-1] = uint32(s)
			carry = s >> 32
		}
		s = uint64(t[8]) + carry
		t[7] = uint32(s)
		carry = s >> 32
		t[8] = t9 + uint32(carry)
	}

	// t is a 9-limb value < 2n (t[8] is 0 or 1). t[8] == 1 means the
	// full 9-limb value is >= n regardless of what the low-limb borrow
	// below says, so it must be folded into the reduce decision
	// directly rather than discarded.
	var diff [8]uint32
	var borrow uint64
	for i := 0; i < 8; i++ {
		d := uint64(t[i]) - uint64(n[i]) - borrow
		diff[i] = uint32(d)
		borrow = (d >> 63) & 1
	}
	noBorrow := t[8] | uint32(1-borrow)

	var low [8]uint32
	copy(low[:], t[:8])

	var result Elem
	helpers.CondSelectLimbs((*[8]uint32)(&result), &low, &diff, noBorrow)
	return result
}

func isGreaterOrEqualN(a *Elem) bool {
	var borrow uint64
	for i := 0; i < 8; i++ {
		d := uint64(a[i]) - uint64(n[i]) - borrow
		borrow = (d >> 63) & 1
	}
	return borrow == 0
}

// subN computes a 9-limb value minus n once if the value is >= n,
// folding the carry/borrow out of the top limb. Used by AddModN, which
// can produce a sum up to one n over range; sum[8] holds the add carry
// out of the low 8 limbs and must be folded into the reduce decision
// the same way montMul's t[8] is.
func subN(sum *[9]uint32) [8]uint32 {
	var diff [8]uint32
	var borrow uint64
	for i := 0; i < 8; i++ {
		d := uint64(sum[i]) - uint64(n[i]) - borrow
		diff[i] = uint32(d)
		borrow = (d >> 63) & 1
	}
	noBorrow := sum[8] | uint32(1-borrow)

	var result [8]uint32
	var src [8]uint32
	copy(src[:], sum[:8])
	helpers.CondSelectLimbs(&result, &src, &diff, noBorrow)
	return result
}
