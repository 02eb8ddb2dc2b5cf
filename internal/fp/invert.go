package fp

// Invert sets `z = a^-1 mod p` in constant time and returns z. a MUST
// be in `[0, p)`; a == 0 has no inverse and Invert(0) returns 0
// (`0^(p-2) mod p == 0`).
//
// Unlike scalar inversion (see package fn), this does not need a
// safegcd-style divstep construction: the exponent `p-2` is a fixed
// public constant, so an ordinary square-and-multiply over its bits
// is already constant-time with respect to the secret base a, as long
// as the underlying multiply (MulMont) is. Every bit performs a
// squaring and an unconditional multiply-into-scratch followed by a
// constant-time select, so the instruction trace never depends on a.
func Invert(z, a *Elem) *Elem {
	// p-2, little-endian limbs.
	pMinus2 := Elem{0xfffffffd, 0xffffffff, 0xffffffff, 0x00000000, 0x00000000, 0x00000000, 0x00000001, 0xffffffff}

	result := one // Montgomery-domain representation of 1.
	base := *a

	for bit := 255; bit >= 0; bit-- {
		limb := bit / 32
		off := uint(bit % 32)

		SqrMont(&result, &result)

		var withMul Elem
		MulMont(&withMul, &result, &base)

		bitSet := (pMinus2[limb] >> off) & 1
		ConditionalSelect(&result, &result, &withMul, bitSet)
	}

	*z = result
	return z
}
