package format

import (
	"fmt"
	"net/netip"
)

// checkIPv4 requires s to be a valid dotted-decimal IPv4 address.
func checkIPv4(s string) error {
	addr, err := netip.ParseAddr(s)
	if err != nil || !addr.Is4() {
		return fmt.Errorf("%q is not a valid IPv4 address", s)
	}
	return nil
}

// checkIPv6 requires s to be a valid IPv6 address, without a zone.
func checkIPv6(s string) error {
	addr, err := netip.ParseAddr(s)
	if err != nil || !addr.Is6() || addr.Zone() != "" {
		return fmt.Errorf("%q is not a valid IPv6 address", s)
	}
	return nil
}
