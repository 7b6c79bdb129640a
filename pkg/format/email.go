package format

import (
	"fmt"
	"net/mail"
	"strings"
)

// checkEmail requires s to be a valid RFC5321 mailbox. As the teacher
// notes: rather than hand-parse the grammar, this defers to net/mail,
// which is more likely to match what a caller actually expects. When
// idn is false, the domain part is additionally required to be plain
// ASCII — idn-email is the escape hatch for internationalized domains.
func checkEmail(s string, idn bool) error {
	if !isValidEmail(s, idn) {
		if idn {
			return fmt.Errorf("%q is not a valid extended email address", s)
		}
		return fmt.Errorf("%q is not a valid email address", s)
	}
	return nil
}

func isValidEmail(s string, idn bool) bool {
	s = strings.Replace(s, "[IPv6:", "[", 1)

	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Name != "" {
		return false
	}

	if !idn {
		idx := strings.LastIndex(addr.Address, "@")
		if idx >= 0 {
			domain := addr.Address[idx+1:]
			if len(domain) > 0 && domain[0] != '[' && !isASCIIDomain(domain) {
				return false
			}
		}
	}

	return true
}

func isASCIIDomain(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z':
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '.' || c == '-':
		default:
			return false
		}
	}
	return true
}
