// Package gwcontrol implements the gateway's control listener: a UDP
// socket that accepts Context packets describing a desired SDR
// configuration, translates and validates them into an
// sdrcap.ConfigPatch, and hands the patch to the streaming server while
// registering the sender as a data-plane subscriber. No reply is ever sent
// on the control socket; acknowledgement is the next Context packet the
// streaming server emits on the data channel.
package gwcontrol

// vim: foldmethod=marker
