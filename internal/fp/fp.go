// Package fp implements constant-time arithmetic modulo the NIST P-256
// prime `p = 2^256 - 2^224 + 2^192 + 2^96 - 1`.
//
// Elements are represented as eight 32-bit limbs in little-endian limb
// order (limb 0 is least significant), matching the wire/API convention
// used throughout the engine. Unless documented otherwise, values are
// carried in Montgomery form (`a*R mod p`, `R = 2^256`); ToMont/FromMont
// bridge to and from the plain representation.
package fp

import "gitlab.com/yawning/p256-voi/internal/helpers"

// Elem is a field element, eight 32-bit limbs, little-endian.
//
// All arguments and receivers may alias. Every Elem that a caller can
// observe satisfies `0 <= v < p`; this is the invariant every routine
// below is responsible for preserving.
type Elem [8]uint32

// p is the field modulus, little-endian limbs.
var p = Elem{0xffffffff, 0xffffffff, 0xffffffff, 0x00000000, 0x00000000, 0x00000000, 0x00000001, 0xffffffff}

// rSquared is R^2 mod p, used by ToMont.
var rSquared = Elem{0x00000003, 0x00000000, 0xffffffff, 0xfffffffb, 0xfffffffe, 0xffffffff, 0xfffffffd, 0x00000004}

// one is the Montgomery-domain representation of 1 (i.e. `R mod p`).
var one = Elem{0x00000001, 0x00000000, 0x00000000, 0xffffffff, 0xffffffff, 0xffffffff, 0xfffffffe, 0x00000000}

// B is the curve equation's `b` coefficient, in Montgomery form.
var B = Elem{0x29c4bddf, 0xd89cdf62, 0x78843090, 0xacf005cd, 0xf7212ed6, 0xe5a220ab, 0x04874834, 0xdc30061d}

// GeneratorX and GeneratorY are the base point's affine coordinates,
// in Montgomery form.
var (
	GeneratorX = Elem{0x18a9143c, 0x79e730d4, 0x5fedb601, 0x75ba95fc, 0x77622510, 0x79fb732b, 0xa53755c6, 0x18905f76}
	GeneratorY = Elem{0xce95560a, 0xddf25357, 0xba19e45c, 0x8b4ab8e4, 0xdd21f325, 0xd2e88688, 0x25885d85, 0x8571ff18}
)

// OneMontgomery returns the Montgomery-domain representation of 1.
func OneMontgomery() Elem { return one }

// UseMulForSqr mirrors the original config knob of the same name: when
// true (the choice made here, see DESIGN.md), SqrMont is implemented on
// top of MulMont, trading a modest amount of performance for less code
// to get right. There is no dedicated squaring routine: the false
// branch also computes the square with the general multiply.
const UseMulForSqr = true

// MulMont sets `z = a*b*R^-1 mod p` (Montgomery multiplication) and
// returns z. This is the single building block every other conversion
// (ToMont, FromMont) is expressed in terms of.
func MulMont(z, a, b *Elem) *Elem {
	*z = montMul(a, b)
	return z
}

// SqrMont sets `z = a*a*R^-1 mod p` and returns z.
func SqrMont(z, a *Elem) *Elem {
	if UseMulForSqr {
		return MulMont(z, a, a)
	}
	*z = montMul(a, a)
	return z
}

// AddModP sets `z = a+b mod p` and returns z. Works identically whether
// operands are in Montgomery form or not, since Montgomery form is a
// ring isomorphism compatible with addition.
func AddModP(z, a, b *Elem) *Elem {
	var sum [9]uint32
	var carry uint64
	for i := 0; i < 8; i++ {
		s := uint64(a[i]) + uint64(b[i]) + carry
		sum[i] = uint32(s)
		carry = s >> 32
	}
	sum[8] = uint32(carry)

	reduced := subP(&sum)
	for i := 0; i < 8; i++ {
		z[i] = reduced[i]
	}
	return z
}

// SubModP sets `z = a-b mod p` and returns z.
func SubModP(z, a, b *Elem) *Elem {
	var diff [8]uint32
	var borrow uint64
	for i := 0; i < 8; i++ {
		d := uint64(a[i]) - uint64(b[i]) - borrow
		diff[i] = uint32(d)
		borrow = (d >> 63) & 1
	}

	// If a borrow occurred, diff underflowed by one p; add it back.
	var added [8]uint32
	var carry uint64
	for i := 0; i < 8; i++ {
		s := uint64(diff[i]) + uint64(p[i])*borrow + carry
		added[i] = uint32(s)
		carry = s >> 32
	}
	*z = added
	return z
}

// ToMont sets `z = a*R mod p` (converts a to Montgomery form) and
// returns z.
func ToMont(z, a *Elem) *Elem {
	return MulMont(z, a, &rSquared)
}

// FromMont sets `z = a*R^-1 mod p` (converts a out of Montgomery form)
// and returns z.
func FromMont(z, a *Elem) *Elem {
	var nonMont Elem
	nonMont[0] = 1
	return MulMont(z, a, &nonMont)
}

// CheckRangeP returns true iff `0 <= a < p`.
func CheckRangeP(a *Elem) bool {
	return !isGreaterOrEqualP(a)
}

// NegateModPIf sets `z = p-a mod p` iff flag == 1, `z = a` iff flag == 0,
// and returns z, in constant time in both a and flag.
func NegateModPIf(z, a *Elem, flag uint32) *Elem {
	var negated, zero Elem
	SubModP(&negated, &p, a)
	// SubModP only adds p back on a borrow, so for a == 0 it returns p
	// itself, which is outside [0, p). Select 0 instead in that case, in
	// constant time.
	ConditionalSelect(&negated, &negated, &zero, IsZero(a))

	helpers.CondSelectLimbs((*[8]uint32)(z), (*[8]uint32)(a), (*[8]uint32)(&negated), flag)
	return z
}

// ConditionalSelect sets `z = a` iff ctrl == 0, `z = b` iff ctrl == 1,
// and returns z.
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

// IsOdd returns 1 iff the non-Montgomery value that a represents is odd.
// a MUST already be in non-Montgomery form.
func IsOdd(a *Elem) uint32 {
	return a[0] & 1
}

// Zeroize overwrites a with zeros.
func Zeroize(a *Elem) {
	helpers.Zeroize((*[8]uint32)(a))
}

// SetBytes decodes a big-endian 32-byte octet string into a (non-
// Montgomery) field element, reporting via ok whether the decoded
// value lies in the canonical range `[0, p)`.
func SetBytes(z *Elem, b *[32]byte) (ok bool) {
	limbs := helpers.BytesToLimbsBE(b)
	*z = Elem(limbs)
	return CheckRangeP(z)
}

// Bytes encodes z, a non-Montgomery field element, as a big-endian
// 32-byte octet string.
func Bytes(z *Elem) [32]byte {
	limbs := [8]uint32(*z)
	return helpers.LimbsToBytesBE(&limbs)
}

// montMul computes CIOS Montgomery multiplication over eight 32-bit
// limbs. P-256's modulus has a least-significant limb of all-ones
// (`p[0] == 0xffffffff`), which makes the Montgomery constant
// `n0' = -p^-1 mod 2^32` equal to 1; the reduction step below relies on
// that directly (`m := t[0]`, no multiply needed to compute it).
func montMul(a, b *Elem) Elem {
	var t [9]uint32

	for i := 0; i < 8; i++ {
		// Multiply-accumulate row i: t += a[i]*b.
		var carry uint64
		for j := 0; j < 8; j++ {
			s := uint64(t[j]) + uint64(a[i])*uint64(b[j]) + carry
			t[j] = uint32(s)
			carry = s >> 32
		}
		s := uint64(t[8]) + carry
		t[8] = uint32(s)
		t9 := uint32(s >> 32)

		// Reduction: m = t[0] * n0' mod 2^32 = t[0], since n0' = 1.
		m := t[0]
		s = uint64(t[0]) + uint64(m)*uint64(p[0])
		carry = s >> 32
		for j := 1; j < 8; j++ {
			s = uint64(t[j]) + uint64(m)*uint64(p[j]) + carry
			t[j-1] = uint32(s)
			carry = s >> 32
		}
		s = uint64(t[8]) + carry
		t[7] = uint32(s)
		carry = s >> 32
		t[8] = t9 + uint32(carry)
	}

	// t now holds a value < 2p, as a 9-limb (t[8] is 0 or 1) quantity.
	// One conditional subtraction of p brings it into [0, p). The
	// low-8-limb subtraction alone only tells us whether t[0:8] < p;
	// the 9th limb still needs folding in, since t[8] == 1 means the
	// full 9-limb value is always >= p regardless of what the low-limb
	// borrow says.
	var diff [8]uint32
	var borrow uint64
	for i := 0; i < 8; i++ {
		d := uint64(t[i]) - uint64(p[i]) - borrow
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

// isGreaterOrEqualP returns true iff a >= p.
func isGreaterOrEqualP(a *Elem) bool {
	var borrow uint64
	for i := 0; i < 8; i++ {
		d := uint64(a[i]) - uint64(p[i]) - borrow
		borrow = (d >> 63) & 1
	}
	return borrow == 0
}

// subP computes a 9-limb value minus p once if the value is >= p,
// folding the carry/borrow out of the top limb. Used by AddModP, which
// can produce a sum up to one p over range. sum[8] holds the add
// carry out of the low 8 limbs and, like montMul's t[8], must be
// folded into the reduce decision directly: sum[8] == 1 means the
// 9-limb value is >= p regardless of the low-limb borrow.
func subP(sum *[9]uint32) [8]uint32 {
	var diff [8]uint32
	var borrow uint64
	for i := 0; i < 8; i++ {
		d := uint64(sum[i]) - uint64(p[i]) - borrow
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
