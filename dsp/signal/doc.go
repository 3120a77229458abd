// Package signal synthesizes deterministic test waveforms block by block.
//
// Each channel owns a [Generator] that carries its phase position and, for
// pink noise, the filter taps across blocks. Consecutive calls to
// [Generator.Generate] therefore continue the waveform exactly where the
// previous block ended: concatenating N blocks equals the first N blocks of
// any longer run.
//
// Six waveform kinds are supported: sine, square, ramp, triangle, white
// noise and pink noise. The noise kinds are driven by raw 32-bit values from
// an external entropy source rather than an internal PRNG.
package signal
