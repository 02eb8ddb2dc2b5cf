package curve

import (
	"gitlab.com/yawning/p256-voi/internal/fp"
	"gitlab.com/yawning/p256-voi/internal/helpers"
)

// VerifyTable holds 1G, 3G, 5G, ..., 15G in affine coordinates,
// Montgomery form, for use by the dual-scalar verification ladder.
// The same table shape (built at runtime from the variable base) is
// used for the untrusted public key's odd multiples.
//
// Literal values copied verbatim from the basepoint precomputation
// table of the Cortex-M4 reference this engine is ported from.
var VerifyTable = [8]AffinePoint{
	{
		X: fp.Elem{0x18a9143c, 0x79e730d4, 0x5fedb601, 0x75ba95fc, 0x77622510, 0x79fb732b, 0xa53755c6, 0x18905f76},
		Y: fp.Elem{0xce95560a, 0xddf25357, 0xba19e45c, 0x8b4ab8e4, 0xdd21f325, 0xd2e88688, 0x25885d85, 0x8571ff18},
	},
	{
		X: fp.Elem{0x4eebc127, 0xffac3f90, 0x087d81fb, 0xb027f84a, 0x87cbbc98, 0x66ad77dd, 0xb6ff747e, 0x26936a3f},
		Y: fp.Elem{0xc983a7eb, 0xb04c5c1f, 0x0861fe1a, 0x583e47ad, 0x1a2ee98e, 0x78820831, 0xe587cc07, 0xd5f06a29},
	},
	{
		X: fp.Elem{0xc45c61f5, 0xbe1b8aae, 0x94b9537d, 0x90ec649a, 0xd076c20c, 0x941cb5aa, 0x890523c8, 0xc9079605},
		Y: fp.Elem{0xe7ba4f10, 0xeb309b4a, 0xe5eb882b, 0x73c568ef, 0x7e7a1f68, 0x3540a987, 0x2dd1e916, 0x73a076bb},
	},
	{
		X: fp.Elem{0xa0173b4f, 0x0746354e, 0xd23c00f7, 0x2bd20213, 0x0c23bb08, 0xf43eaab5, 0xc3123e03, 0x13ba5119},
		Y: fp.Elem{0x3f5b9d4d, 0x2847d030, 0x5da67bdd, 0x6742f2f2, 0x77c94195, 0xef933bdc, 0x6e240867, 0xeaedd915},
	},
	{
		X: fp.Elem{0x264e20e8, 0x75c96e8f, 0x59a7a841, 0xabe6bfed, 0x44c8eb00, 0x2cc09c04, 0xf0c4e16b, 0xe05b3080},
		Y: fp.Elem{0xa45f3314, 0x1eb7777a, 0xce5d45e3, 0x56af7bed, 0x88b12f1a, 0x2b6e019a, 0xfd835f9b, 0x086659cd},
	},
	{
		X: fp.Elem{0x6245e404, 0xea7d260a, 0x6e7fdfe0, 0x9de40795, 0x8dac1ab5, 0x1ff3a415, 0x649c9073, 0x3e7090f1},
		Y: fp.Elem{0x2b944e88, 0x1a768561, 0xe57f61c8, 0x250f939e, 0x1ead643d, 0x0c0daa89, 0xe125b88e, 0x68930023},
	},
	{
		X: fp.Elem{0x4b2ed709, 0xccc42563, 0x856fd30d, 0x0e356769, 0x559e9811, 0xbcbcd43f, 0x5395b759, 0x738477ac},
		Y: fp.Elem{0xc00ee17f, 0x35752b90, 0x742ed2e3, 0x68748390, 0xbd1f5bc1, 0x7cd06422, 0xc9e7b797, 0xfbc08769},
	},
	{
		X: fp.Elem{0xbc60055b, 0x72bcd8b7, 0x56e27e4b, 0x03cc23ee, 0xe4819370, 0xee337424, 0x0ad3da09, 0xe2aa0e43},
		Y: fp.Elem{0x6383c45d, 0x40b8524f, 0x42a41b25, 0xd7663554, 0x778a4797, 0x64efa6de, 0x7079adf4, 0x2042170a},
	},
}

// FixedBaseTables holds two tables of 8 affine points each (Montgomery
// form), used by the fixed-base ladder. Table 0 holds
// `(2^192 + e0*2^128 + e1*2^64 + e2)*G` for `e0,e1,e2 in {-1,+1}`
// indexed by their sign bits; table 1 holds the same eight points
// scaled by `2^32`.
var FixedBaseTables = [2][8]AffinePoint{
	{
		{X: fp.Elem{0x670844e0, 0x52d8a7c9, 0xef68a29d, 0x00e33bdc, 0x4bdb7361, 0x0f3d2848, 0x91c5304d, 0x5222c821},
			Y: fp.Elem{0xdf73fc25, 0xea6d2944, 0x0255c81b, 0xa04c0f55, 0xefe488a8, 0x29acdc97, 0x80a560de, 0xbe2e158f}},
		{X: fp.Elem{0x2b13e673, 0xfc8511ee, 0xd103ed24, 0xffc58dee, 0xea7e99b8, 0x1022523a, 0x4afc8a17, 0x8f43ea39},
			Y: fp.Elem{0xc5f33d0b, 0x8f4e2dbc, 0xd0aa1681, 0x3bc099fa, 0x79ff9df1, 0xffbb7b41, 0xd58b57c4, 0x180de09d}},
		{X: fp.Elem{0x8bd1cda5, 0x56430752, 0x8e05eda5, 0x1807577f, 0x956896e9, 0x099c699b, 0xf1f0efb5, 0x83d6093d},
			Y: fp.Elem{0xed97061c, 0xef5af17e, 0x030d4c3c, 0x35b977b8, 0x49229439, 0x81fa75a2, 0xa0b6d35d, 0xf5a22070}},
		{X: fp.Elem{0x74f81cf1, 0x814c5365, 0x0120065b, 0xe30baff7, 0x15132621, 0x80ae1256, 0x36a80788, 0x16d2b8cb},
			Y: fp.Elem{0xecc50bca, 0x33d14697, 0x17aedd21, 0x19a9dfb0, 0xedc3f766, 0x523fbcc7, 0xb2cf5afd, 0x9c4de6dd}},
		{X: fp.Elem{0xcf0d9f6d, 0x5305a9e6, 0x81a9b021, 0x5839172f, 0x75c687cf, 0xcca7a4dd, 0x844be22f, 0x36d59b3e},
			Y: fp.Elem{0x111a53e9, 0xcace7e62, 0xf063f3a1, 0x91c843d4, 0x0da812da, 0xbf77e5f0, 0x437f3176, 0x0e64af9c}},
		{X: fp.Elem{0xcf07517d, 0xdbd568bb, 0xba6830b9, 0x2f1afba2, 0xe6c4c2a6, 0x15b6807c, 0xe4966aef, 0x91c7eabc},
			Y: fp.Elem{0xd6b2b6e6, 0x716dea1b, 0x19f85b4b, 0x248c43d1, 0x4a315e2a, 0x16dcfd60, 0xc72b3d0b, 0x15fdd303}},
		{X: fp.Elem{0x42b7dfd5, 0xe40bf9f4, 0x2d934f2a, 0x673689f3, 0x30a6f50b, 0x8314beb4, 0x976ec64e, 0xd17af2bc},
			Y: fp.Elem{0x1ee7ddf1, 0x39f66c4f, 0x68ea373c, 0x7f68e18b, 0x53d0b186, 0x5166c1f2, 0x7be58f14, 0x95dda601}},
		{X: fp.Elem{0x42913074, 0x0d5ae356, 0x48a542b1, 0x55491b27, 0xb310732a, 0x469ca665, 0x5f1a4cc1, 0x29591d52},
			Y: fp.Elem{0xb84f983f, 0xe76f5b6b, 0x9f5f84e1, 0xbe7eef41, 0x80baa189, 0x1200d496, 0x18ef332c, 0x6376551f}},
	},
	{
		{X: fp.Elem{0x7c4e54f5, 0xb9e5cbc0, 0xe1410e34, 0xc53a1a17, 0xec454425, 0x3e199130, 0x1700902e, 0xb029c97e},
			Y: fp.Elem{0x786423b6, 0x2de66e11, 0xb41a95be, 0x262dc914, 0x0451b683, 0x51766abd, 0x85bb6fb1, 0x55ad5f34}},
		{X: fp.Elem{0x9066cb79, 0x074f4f1c, 0x30c8b94e, 0x1ab31bd6, 0xd74275b3, 0x6d3f012f, 0x9ddcce40, 0xa214d0b1},
			Y: fp.Elem{0xd165050a, 0x24aedf74, 0xe0e5dc3e, 0x95f17ece, 0xd9224456, 0x6ada9cda, 0x2dd60eea, 0x1fadb2d1}},
		{X: fp.Elem{0xe20cfb9b, 0xa3d83091, 0xba76e0cb, 0xae79c975, 0xc8858a6e, 0xa5f2a588, 0x874a3168, 0xe897a5f4},
			Y: fp.Elem{0x7d48f096, 0xf6c1ef40, 0xc35b132c, 0x1f9c516b, 0x53c479fd, 0xe1040f91, 0x9df06743, 0x060e881f}},
		{X: fp.Elem{0x52a90e51, 0x09e0ad72, 0x38c50a96, 0xb7e66ea3, 0x7d997770, 0xab32ad05, 0x445671cb, 0x0ceaffe2},
			Y: fp.Elem{0x5d37cc99, 0xdfbe753c, 0xe0fea2d5, 0x95d068cc, 0x4dd77cb6, 0x1e37cdda, 0x55530688, 0x88c5a4bb}},
		{X: fp.Elem{0x0c7744f1, 0x3413f033, 0xbc816702, 0x23c05c89, 0x1192b5ac, 0x2322ee9a, 0x373180bb, 0x0c1636a0},
			Y: fp.Elem{0xbdde0207, 0x0fe2f3d4, 0xc23578d8, 0x0e1a093a, 0x0c888ead, 0x06e5f0d1, 0x52a2b660, 0x9ca285a5}},
		{X: fp.Elem{0xce923964, 0xdae76995, 0xa34c7993, 0xcc96493a, 0xea73d9e7, 0xd19b5144, 0x311e6e34, 0x04a5c263},
			Y: fp.Elem{0xd9a2a443, 0x7db5b32b, 0x2cfd960c, 0x3754bd33, 0x0a430f15, 0x0c5bcc98, 0xd9a94574, 0x5651201f}},
		{X: fp.Elem{0xfc0418fe, 0xebdd8921, 0x34e20036, 0x37015b39, 0xdf03a353, 0xcf4fcd8f, 0xf12cab16, 0xdc2de6e1},
			Y: fp.Elem{0xd071df14, 0x9c17cc1a, 0x63415530, 0xd7c5e6a3, 0x68f3fb1e, 0xb5301660, 0x18269301, 0xb5f70bc9}},
		{X: fp.Elem{0x79ec1a0f, 0x2d8daefd, 0xceb39c97, 0x3bbcd6fd, 0x58f61a95, 0xf5575ffc, 0xadf7b420, 0xdbd986c4},
			Y: fp.Elem{0x15f39eb7, 0x81aa8814, 0xb98d976c, 0x6ee2fcf5, 0xcf2f717d, 0x5465475d, 0x6860bbd0, 0x8e24d3c4}},
	},
}

// SelectAffine constant-time-selects table[index] into out, scanning
// every entry so the access pattern does not depend on index. index
// must be in `[0, len(table))`.
func SelectAffine(out *AffinePoint, table []AffinePoint, index uint32) {
	var x, y fp.Elem
	for i, entry := range table {
		ctrl := helpers.Uint32Equal(uint32(i), index)
		fp.ConditionalSelect(&x, &x, &entry.X, ctrl)
		fp.ConditionalSelect(&y, &y, &entry.Y, ctrl)
	}
	out.X, out.Y = x, y
}

// SelectJacobian constant-time-selects table[index] into out, scanning
// every entry. index must be in `[0, len(table))`.
func SelectJacobian(out *JacobianPoint, table []JacobianPoint, index uint32) {
	var x, y, z fp.Elem
	for i, entry := range table {
		ctrl := helpers.Uint32Equal(uint32(i), index)
		fp.ConditionalSelect(&x, &x, &entry.X, ctrl)
		fp.ConditionalSelect(&y, &y, &entry.Y, ctrl)
		fp.ConditionalSelect(&z, &z, &entry.Z, ctrl)
	}
	out.X, out.Y, out.Z = x, y, z
}
