//go:build !unix

package gwserver

import "net"

// setDataSocketOptions is a no-op on non-unix platforms: SO_REUSEPORT and a
// widened SO_SNDBUF are both best-effort tuning, not correctness
// requirements.
func setDataSocketOptions(conn *net.UDPConn) error {
	return nil
}

// vim: foldmethod=marker
