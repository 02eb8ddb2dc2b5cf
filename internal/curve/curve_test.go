package curve

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gitlab.com/yawning/p256-voi/internal/fp"
)

func toMont(nonMont fp.Elem) fp.Elem {
	var out fp.Elem
	fp.ToMont(&out, &nonMont)
	return out
}

func generatorAffine() AffinePoint {
	return AffinePoint{X: fp.GeneratorX, Y: fp.GeneratorY}
}

func TestDoubleJMatchesKnown2G(t *testing.T) {
	gAffine := generatorAffine()
	g := FromAffine(&gAffine)

	var doubled JacobianPoint
	DoubleJ(&doubled, &g)

	var x, y fp.Elem
	ToAffine(&x, &y, &doubled)

	var xNonMont, yNonMont fp.Elem
	fp.FromMont(&xNonMont, &x)
	fp.FromMont(&yNonMont, &y)

	wantX := fp.Elem{0x47669978, 0xa60b48fc, 0x77f21b35, 0xc08969e2, 0x04b51ac3, 0x8a523803, 0x8d034f7e, 0x7cf27b18}
	wantY := fp.Elem{0x227873d1, 0x9e04b79d, 0x3ce98229, 0xba7dade6, 0x9f7430db, 0x293d9ac6, 0xdb8ed040, 0x07775510}

	require.Equal(t, wantX, xNonMont)
	require.Equal(t, wantY, yNonMont)
	require.True(t, IsOnCurve(&x, &y))
}

func TestAddSubJMatchesKnown3G(t *testing.T) {
	g := generatorAffine()
	gJ := FromAffine(&g)

	var twoG JacobianPoint
	DoubleJ(&twoG, &gJ)

	gMontX, gMontY := g.X, g.Y
	AddSubJ(&twoG, &gMontX, &gMontY, nil, false, true)

	var x, y fp.Elem
	ToAffine(&x, &y, &twoG)
	var xNonMont, yNonMont fp.Elem
	fp.FromMont(&xNonMont, &x)
	fp.FromMont(&yNonMont, &y)

	wantX := fp.Elem{0xc6e7fd6c, 0xfb41661b, 0xefada985, 0xe6c6b721, 0x1d4bf165, 0xc8f7ef95, 0xa6330a44, 0x5ecbe4d1}
	wantY := fp.Elem{0xa27d5032, 0x9a79b127, 0x384fb83d, 0xd82ab036, 0x1a64a2ec, 0x374b06ce, 0x4998ff7e, 0x8734640c}

	require.Equal(t, wantX, xNonMont)
	require.Equal(t, wantY, yNonMont)
	require.True(t, IsOnCurve(&x, &y))
}

func TestDecompressPointRoundTrip(t *testing.T) {
	g := generatorAffine()

	var yNonMont fp.Elem
	fp.FromMont(&yNonMont, &g.Y)
	parity := fp.IsOdd(&yNonMont)

	var y fp.Elem
	ok := DecompressPoint(&y, &g.X, parity)
	require.True(t, ok)
	require.Equal(t, g.Y, y)

	var yOther fp.Elem
	ok = DecompressPoint(&yOther, &g.X, 1-parity)
	require.True(t, ok)

	var negY fp.Elem
	fp.NegateModPIf(&negY, &g.Y, 1)
	require.Equal(t, negY, yOther)
}

func TestDecompressPointRejectsNonResidue(t *testing.T) {
	// Clearing bit 1 of the generator's X (non-Montgomery domain) gives
	// Gx - 2, for which x^3 - 3x + b is not a quadratic residue mod p,
	// so no curve point has that x. (Flipping bit 0 instead, Gx + 1,
	// would not work: that x is on the curve.)
	g := generatorAffine()
	var xNonMont fp.Elem
	fp.FromMont(&xNonMont, &g.X)
	xNonMont[0] ^= 2

	var xBad fp.Elem
	fp.ToMont(&xBad, &xNonMont)

	var y fp.Elem
	ok := DecompressPoint(&y, &xBad, 0)
	require.False(t, ok)
}

func TestIsInfinity(t *testing.T) {
	inf := Infinity()
	require.Equal(t, uint32(1), inf.IsInfinity())

	g := FromAffine(&AffinePoint{X: fp.GeneratorX, Y: fp.GeneratorY})
	require.Equal(t, uint32(0), g.IsInfinity())
}
