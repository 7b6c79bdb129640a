package format

import (
	"fmt"
	"net/netip"
	"net/url"
	"strings"
)

// checkURI requires s to be a valid URI. When reference is true, a
// relative reference is also accepted (uri-reference); otherwise s
// must be absolute (uri).
func checkURI(s string, reference bool) error {
	if reference && strings.HasPrefix(s, `\\`) {
		return fmt.Errorf(`%q starts with \\`, s)
	}

	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("%q is not a valid URI: %v", s, err)
	}
	if !reference && !u.IsAbs() {
		return fmt.Errorf("%q is not an absolute URI", s)
	}
	if !checkURIValue(u) {
		return fmt.Errorf("%q is not a valid URI", s)
	}
	return nil
}

func checkURIValue(u *url.URL) bool {
	if addr, err := netip.ParseAddr(u.Host); err == nil && addr.Is6() {
		return false
	}
	if strings.Contains(u.Fragment, `\`) {
		return false
	}
	for i := 0; i < len(u.RawPath); i++ {
		c := u.RawPath[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			continue
		}
		switch c {
		case '-', '_', '.', '~', '@', '&', '=', '+', '$', '/', ';', ',', '(', ')', '#':
			continue
		default:
			return false
		}
	}
	return true
}
