// Package spectrum holds spectrum-domain helpers that sit next to an FFT:
// magnitude and power of complex bins, and the Goertzel single-bin
// analyzer for checking one known frequency.
package spectrum
