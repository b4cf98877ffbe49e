package transport

import (
	"net"
	"strconv"
)

// PrimeStatefulFirewall sends a fixed short UDP payload from conn's
// bound port to the controller's well-known sender port, convincing an
// intermediate stateful firewall or NAT to accept the measurement
// datagrams that follow as replies. A single best-effort UDP write,
// nothing more.
func PrimeStatefulFirewall(conn interface {
	WriteTo(b []byte, addr net.Addr) (int, error)
}, controllerHost string, senderPort int, token string) error {
	addr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(controllerHost, strconv.Itoa(senderPort)))
	if err != nil {
		return err
	}
	_, err = conn.WriteTo([]byte(token), addr)
	return err
}
