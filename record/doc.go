// Package record drives the generation of fixed-size records.
//
// A [Driver] owns one [signal.Generator] per channel. Each record it asks
// every generator, in channel order, for one block of SampleRate samples,
// fetching an entropy block first for noise channels, and hands the block
// to a [Sink]. In merge mode the blocks of a record are summed into a single
// accumulator and the sink receives one block per record on channel 0.
//
// Generation is strictly sequential. Any entropy or sink failure ends the
// run; the driver never retries and never substitutes data.
package record
