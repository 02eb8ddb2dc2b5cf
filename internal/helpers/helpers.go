// Package helpers provides small constant-time primitives shared by the
// field, scalar, and curve packages.
package helpers

// Uint32IsZero returns 1 iff v == 0, 0 otherwise, in constant time.
func Uint32IsZero(v uint32) uint32 {
	return 1 - Uint32IsNonzero(v)
}

// Uint32IsNonzero returns 1 iff v != 0, 0 otherwise, in constant time.
func Uint32IsNonzero(v uint32) uint32 {
	return (v | -v) >> 31
}

// Uint32Equal returns 1 iff a == b, 0 otherwise, in constant time.
func Uint32Equal(a, b uint32) uint32 {
	return Uint32IsZero(a ^ b)
}

// Uint64IsZero returns 1 iff v == 0, 0 otherwise, in constant time.
func Uint64IsZero(v uint64) uint64 {
	return 1 - Uint64IsNonzero(v)
}

// Uint64IsNonzero returns 1 iff v != 0, 0 otherwise, in constant time.
func Uint64IsNonzero(v uint64) uint64 {
	return (v | -v) >> 63
}

// Uint64Equal returns 1 iff a == b, 0 otherwise, in constant time.
func Uint64Equal(a, b uint64) uint64 {
	return Uint64IsZero(a ^ b)
}

// Uint32Mask returns 0xffffffff iff ctrl != 0, 0 otherwise.
func Uint32Mask(ctrl uint32) uint32 {
	return -Uint32IsNonzero(ctrl)
}

// LimbsAreEqual returns 1 iff a == b (as 8x32-bit little-endian limb
// arrays), 0 otherwise, in constant time.
func LimbsAreEqual(a, b *[8]uint32) uint32 {
	var acc uint32
	for i := range a {
		acc |= a[i] ^ b[i]
	}
	return Uint32IsZero(acc)
}

// LimbsAreZero returns 1 iff every limb of a is zero, 0 otherwise, in
// constant time.
func LimbsAreZero(a *[8]uint32) uint32 {
	var acc uint32
	for _, v := range a {
		acc |= v
	}
	return Uint32IsZero(acc)
}

// SelectUint32 returns b iff ctrl == 1, a iff ctrl == 0. ctrl MUST be 0 or 1.
func SelectUint32(ctrl, a, b uint32) uint32 {
	mask := Uint32Mask(ctrl)
	return a ^ (mask & (a ^ b))
}

// CondSelectLimbs sets dst = a iff ctrl == 0, dst = b iff ctrl == 1, in
// constant time. dst may alias a or b.
func CondSelectLimbs(dst, a, b *[8]uint32, ctrl uint32) {
	mask := Uint32Mask(ctrl)
	for i := range dst {
		dst[i] = a[i] ^ (mask & (a[i] ^ b[i]))
	}
}

// ReverseBytes reverses the order of b in place, and returns b.  This
// implements the engine's big-endian/little-endian octet-string
// conversion (`convert_endianness`).
func ReverseBytes(b []byte) []byte {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return b
}

// BytesToLimbsBE decodes a 32-byte big-endian octet string into the
// canonical little-endian 8x32-bit limb representation used throughout
// the engine.
func BytesToLimbsBE(b *[32]byte) [8]uint32 {
	var out [8]uint32
	for i := 0; i < 8; i++ {
		off := 28 - 4*i
		out[i] = uint32(b[off])<<24 | uint32(b[off+1])<<16 | uint32(b[off+2])<<8 | uint32(b[off+3])
	}
	return out
}

// LimbsToBytesBE encodes the canonical little-endian limb representation
// as a 32-byte big-endian octet string.
func LimbsToBytesBE(l *[8]uint32) [32]byte {
	var out [32]byte
	for i := 0; i < 8; i++ {
		off := 28 - 4*i
		v := l[i]
		out[off] = byte(v >> 24)
		out[off+1] = byte(v >> 16)
		out[off+2] = byte(v >> 8)
		out[off+3] = byte(v)
	}
	return out
}

// Zeroize overwrites l with zeros.  Used to clear secret scratch state
// on every exit path (success or failure) per the engine's resource
// policy.
func Zeroize(l *[8]uint32) {
	for i := range l {
		l[i] = 0
	}
}
