package apu

// pulseMixLUT and tndMixLUT are the precomputed nonlinear mixer curves.
// Real 2A03 hardware mixes its five DACs through a resistor network that
// is non-additive; these tables reproduce that response so two channels
// at half volume don't sum to one channel at full volume. Both are
// built once at package init from the reference formulas and scaled into
// the full uint32 range, then combined and re-centered to a signed
// sample in mix.
var (
	pulseMixLUT [31]uint32
	tndMixLUT   [203]uint32
)

func init() {
	for n := 0; n < len(pulseMixLUT); n++ {
		pulseMixLUT[n] = uint32((95.52 / (8128.0/float64(n) + 100.0)) * 0xFFFFFFFF)
	}
	for n := 0; n < len(tndMixLUT); n++ {
		tndMixLUT[n] = uint32((163.67 / (24329.0/float64(n) + 100.0)) * 0xFFFFFFFF)
	}
}

// mix folds the five channel outputs into one signed 32-bit sample using
// the nonlinear lookup tables. pulse1/pulse2 and noise are 0..15, tri is
// 0..15, dmc is 0..127.
func mix(pulse1, pulse2, tri, noise, dmc uint8) int32 {
	pulseIdx := uint32(pulse1) + uint32(pulse2)
	tndIdx := uint32(tri)*3 + uint32(noise)*2 + uint32(dmc)
	sum := uint64(pulseMixLUT[pulseIdx]) + uint64(tndMixLUT[tndIdx])
	return int32(int64(sum) - 0x7FFFFFFF)
}
