package mcp

import (
	"fmt"
	"net"
	"strconv"
)

// ListenAddr returns ":port" for the first port in [start, start+span] that
// can be bound on all interfaces.
func ListenAddr(start, span int) (string, error) {
	if start <= 0 || start > 65535 {
		return "", fmt.Errorf("mcp: invalid port %d", start)
	}
	last := min(start+max(span, 0), 65535)
	for port := start; port <= last; port++ {
		addr := ":" + strconv.Itoa(port)
		l, err := net.Listen("tcp", addr)
		if err != nil {
			continue
		}
		l.Close()
		return addr, nil
	}
	return "", fmt.Errorf("%w in %d-%d", ErrNoFreePort, start, last)
}
