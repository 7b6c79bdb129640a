package format

import (
	"fmt"
	"net/netip"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/net/idna"
)

// checkHostname requires s to be a valid hostname. When idn is true,
// internationalized hostnames are permitted, and the extra RFC5892
// contextual rules the idna package doesn't itself enforce are
// checked as well.
func checkHostname(s string, idn bool) error {
	if !isValidHostname(s, idn) {
		if idn {
			return fmt.Errorf("%q is not a valid internationalized hostname", s)
		}
		return fmt.Errorf("%q is not a valid hostname", s)
	}
	return nil
}

var hostnameProfile = sync.OnceValue(func() *idna.Profile {
	return idna.New(idna.ValidateForRegistration())
})

func isValidHostname(s string, idn bool) bool {
	if _, err := netip.ParseAddr(s); err == nil {
		return true
	}

	if strings.Contains(s, "_") {
		return false
	}

	if !idn {
		for i := 0; i < len(s); i++ {
			if s[i]&0x80 != 0 {
				return false
			}
		}
	} else {
		s = strings.ReplaceAll(s, "。", ".")
		s = strings.ReplaceAll(s, "．", ".")
		s = strings.ReplaceAll(s, "｡", ".")

		var last, nextMustBe rune
		var nextMustBeGreek bool
		for _, c := range s {
			if nextMustBe != 0 && nextMustBe != c {
				return false
			}
			nextMustBe = 0

			if nextMustBeGreek && !unicode.Is(unicode.Greek, c) {
				return false
			}
			nextMustBeGreek = false

			switch c {
			case 'ـ', 'ߺ', '〮', '〯',
				'〱', '〲', '〳', '〴',
				'〵', '〻':
				return false
			case '·':
				if last != 'l' {
					return false
				}
				nextMustBe = 'l'
			case '͵':
				nextMustBeGreek = true
			case '׳', '״':
				if !unicode.Is(unicode.Hebrew, last) {
					return false
				}
			case '・':
				found := false
				for _, r := range s {
					if unicode.Is(unicode.Hiragana, r) || unicode.Is(unicode.Katakana, r) || unicode.Is(unicode.Han, r) {
						found = true
						break
					}
				}
				if !found {
					return false
				}
			}
			last = c
		}
		if nextMustBe != 0 || nextMustBeGreek {
			return false
		}
	}

	if _, err := hostnameProfile().ToASCII(s); err != nil {
		return false
	}
	return true
}
