// Package gwserver implements the streaming server: it drives an
// sdrcap.Capability's acquisition loop, carves acquired buffers into
// MTU-sized VRT Signal Data packets with linearly interpolated per-packet
// timestamps, emits periodic and on-demand VRT Context packets, and fans
// both out to a bounded registry.Registry of subscribers over UDP.
package gwserver
