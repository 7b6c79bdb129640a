package format_test

import (
	"testing"

	"github.com/arborvalid/jsonschema/pkg/format"
)

func check(t *testing.T, name, value string, wantOK bool) {
	t.Helper()
	err := format.Check(name, value)
	if wantOK && err != nil {
		t.Errorf("Check(%q, %q) = %v, want nil", name, value, err)
	}
	if !wantOK && err == nil {
		t.Errorf("Check(%q, %q) = nil, want error", name, value)
	}
}

func TestDate(t *testing.T) {
	check(t, "date", "2020-02-29", true)
	check(t, "date", "2021-02-29", false)
	check(t, "date", "2020-13-01", false)
	check(t, "date", "2020-02-29T00:00:00Z", false)
}

func TestTime(t *testing.T) {
	check(t, "time", "20:20:39+00:00", true)
	check(t, "time", "20:20:39Z", true)
	check(t, "time", "23:59:60Z", true)
	check(t, "time", "24:00:00Z", false)
	check(t, "time", "20:20:39", false)
}

func TestDateTime(t *testing.T) {
	check(t, "date-time", "2018-11-13T20:20:39+00:00", true)
	check(t, "date-time", "2018-11-13t20:20:39z", true)
	check(t, "date-time", "2018-11-13", false)
	check(t, "date-time", "2018-11-13 20:20:39Z", false)
}

func TestDuration(t *testing.T) {
	check(t, "duration", "P4DT12H30M5S", true)
	check(t, "duration", "P2W", true)
	check(t, "duration", "P1Y2M3D", true)
	check(t, "duration", "P", false)
	check(t, "duration", "1Y2M3D", false)
}

func TestEmail(t *testing.T) {
	check(t, "email", "joe.bloggs@example.com", true)
	check(t, "email", "2962", false)
	check(t, "email", "John Doe <joe@example.com>", false)
}

func TestHostname(t *testing.T) {
	check(t, "hostname", "example.com", true)
	check(t, "hostname", "-a-host-name-that-starts-with--", true)
	check(t, "hostname", "not_a_valid_host_name", false)
}

func TestIDNHostname(t *testing.T) {
	check(t, "idn-hostname", "example.com", true)
	check(t, "idn-hostname", "≠", false)
}

func TestIPv4(t *testing.T) {
	check(t, "ipv4", "192.168.0.1", true)
	check(t, "ipv4", "192.168.0.1.1", false)
	check(t, "ipv4", "::1", false)
}

func TestIPv6(t *testing.T) {
	check(t, "ipv6", "::1", true)
	check(t, "ipv6", "12345::", false)
	check(t, "ipv6", "192.168.0.1", false)
}

func TestURI(t *testing.T) {
	check(t, "uri", "http://example.com/foo", true)
	check(t, "uri", "//example.com/foo", false)
	check(t, "uri", "foo/bar", false)
}

func TestURIReference(t *testing.T) {
	check(t, "uri-reference", "/foo/bar", true)
	check(t, "uri-reference", "#fragment", true)
	check(t, "uri-reference", `\\foo`, false)
}

func TestRegex(t *testing.T) {
	check(t, "regex", `^[a-z]+\d*$`, true)
	check(t, "regex", `[a-z`, false)
}

func TestJSONPointer(t *testing.T) {
	check(t, "json-pointer", "", true)
	check(t, "json-pointer", "/foo/0/bar~1baz~0qux", true)
	check(t, "json-pointer", "foo", false)
	check(t, "json-pointer", "/foo~2", false)
}

func TestRelativeJSONPointer(t *testing.T) {
	check(t, "relative-json-pointer", "1", true)
	check(t, "relative-json-pointer", "0/foo/bar", true)
	check(t, "relative-json-pointer", "2#", true)
	check(t, "relative-json-pointer", "/foo/bar", false)
}

func TestUUID(t *testing.T) {
	check(t, "uuid", "2eb8aa08-aa98-11ea-b4aa-73b441d16380", true)
	check(t, "uuid", "not-a-uuid", false)
}

func TestUnknownFormatNameIsAccepted(t *testing.T) {
	check(t, "some-made-up-format", "anything goes", true)
}
