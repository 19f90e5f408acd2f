// Package gwclient implements the gateway's receiver client: it binds the
// data port, demultiplexes incoming VRT packets by type, and delivers
// Signal Data samples and Context updates to caller-supplied callbacks.
// Signal Data delivery runs through a bounded internal queue so a slow
// consumer sheds load instead of stalling the socket read loop; Context
// delivery is immediate, since it is low-rate and callers typically just
// store the latest snapshot.
package gwclient

// vim: foldmethod=marker
