// Package vrtstream composes and parses VRT stream identifiers and
// computes the largest even number of I/Q samples that fit in one VRT
// Signal Data packet for a given path MTU.
package vrtstream
