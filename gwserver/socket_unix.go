//go:build unix

package gwserver

import (
	"net"

	"golang.org/x/sys/unix"
)

// setDataSocketOptions sets SO_REUSEPORT (so a restarted gateway can rebind
// the data port before the previous process's socket fully closes) and
// widens SO_SNDBUF to absorb bursts from a full 16-subscriber fan-out,
// mirroring ptp4u/server's use of unix.SetsockoptInt on its event/general
// sockets.
func setDataSocketOptions(conn *net.UDPConn) error {
	sc, err := conn.SyscallConn()
	if err != nil {
		return err
	}
	var sockErr error
	err = sc.Control(func(fd uintptr) {
		if sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1); sockErr != nil {
			return
		}
		sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_SNDBUF, dataSocketSendBufferBytes)
	})
	if err != nil {
		return err
	}
	return sockErr
}

// dataSocketSendBufferBytes is the requested SO_SNDBUF size for the data
// socket. The kernel may cap this; callers only log a failure, they never
// treat it as fatal.
const dataSocketSendBufferBytes = 1 << 20

// vim: foldmethod=marker
