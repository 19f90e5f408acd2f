// Package sdrcap defines the narrow SDR capability interface the
// streaming gateway depends on: connect, apply a configuration record,
// acquire the next buffer, and tear down. It provides two
// implementations: Hardware, which adapts the broader hz.tools/vrt/sdr
// device interface, and Simulated, which synthesizes a tone-plus-noise
// signal and throttles itself to real time.
package sdrcap
