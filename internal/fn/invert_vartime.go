package fn

// InvertVartime sets `z = a^-1 mod n` and returns z, using Fermat's
// little theorem (n is prime, so `a^-1 == a^(n-2) mod n`). Its only
// branch follows the bits of the public exponent n-2, not of a, but
// unlike Invert it carries no constant-time guarantee and is only used
// for values that are already public, such as the verifier's `s^-1`
// during signature verification.
//
// Grounded in the same square-and-multiply structure the teacher uses
// for its own (secp256k1-order) Fermat-exponentiation inverter.
func InvertVartime(z, a *Elem) *Elem {
	aMont := toMontVartime(a)

	// n-2, as a fixed bit pattern (not data-dependent: n is public).
	exponent := n
	// Subtract 2 from n in place.
	borrow := uint64(2)
	for i := 0; i < 8 && borrow != 0; i++ {
		d := uint64(exponent[i]) - borrow
		exponent[i] = uint32(d)
		borrow = (d >> 63) & 1
	}

	result := rModN // Montgomery-domain representation of 1.
	for bit := 255; bit >= 0; bit-- {
		limb := bit / 32
		off := uint(bit % 32)
		MulMont(&result, &result, &result)
		if (exponent[limb]>>off)&1 == 1 {
			MulMont(&result, &result, &aMont)
		}
	}

	FromMont(z, &result)
	return z
}

func toMontVartime(a *Elem) Elem {
	var out Elem
	ToMont(&out, a)
	return out
}
