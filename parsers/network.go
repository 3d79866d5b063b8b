package parsers

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/netip"
	"strings"

	"github.com/zoobzio/knex"
)

// IPNetwork returns the network containing an address in CIDR notation,
// e.g. "192.168.1.55/24" becomes "192.168.1.0/24". A bare address is
// treated as a host network. It is registered as "IpNetwork".
type IPNetwork struct{}

// Name implements knex.Transform.
func (IPNetwork) Name() knex.Name { return "IpNetwork" }

// Process implements knex.Transform.
func (IPNetwork) Process(_ context.Context, in any) (any, error) {
	s, err := asString(in)
	if err != nil {
		return nil, err
	}
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "/") {
		addr, err := netip.ParseAddr(s)
		if err != nil {
			return nil, knex.FormatError("network address", err)
		}
		return netip.PrefixFrom(addr, addr.BitLen()).String(), nil
	}
	prefix, err := netip.ParsePrefix(s)
	if err != nil {
		return nil, knex.FormatError("network address", err)
	}
	return prefix.Masked().String(), nil
}

// MAC address dialects understood by MacAddress.
const (
	MacEUI48        = "eui48"         // 00-1B-77-49-54-FD
	MacUnix         = "unix"          // 0:1b:77:49:54:fd
	MacUnixExpanded = "unix_expanded" // 00:1b:77:49:54:fd
	MacCisco        = "cisco"         // 001b.7749.54fd
	MacBare         = "bare"          // 001B774954FD
	MacPgSQL        = "pgsql"         // 001b77:4954fd
)

// MacAddress normalises a MAC address into Format (eui48 by default).
// Accepted inputs are six groups of one or two hex digits, three groups
// of four, two groups of six or twelve bare digits, separated by ':',
// '-' or '.'.
type MacAddress struct {
	Format string `json:"format" mapstructure:"format"`
}

// Name implements knex.Transform.
func (MacAddress) Name() knex.Name { return "MacAddress" }

// Process implements knex.Transform.
func (m MacAddress) Process(_ context.Context, in any) (any, error) {
	s, err := asString(in)
	if err != nil {
		return nil, err
	}
	b, err := parseMAC(s)
	if err != nil {
		return nil, err
	}
	digits := hex.EncodeToString(b)

	switch m.Format {
	case "", MacEUI48:
		return strings.ToUpper(joinGroups(digits, 2, "-")), nil
	case MacUnix:
		groups := make([]string, len(b))
		for i, octet := range b {
			groups[i] = fmt.Sprintf("%x", octet)
		}
		return strings.Join(groups, ":"), nil
	case MacUnixExpanded:
		return joinGroups(digits, 2, ":"), nil
	case MacCisco:
		return joinGroups(digits, 4, "."), nil
	case MacBare:
		return strings.ToUpper(digits), nil
	case MacPgSQL:
		return joinGroups(digits, 6, ":"), nil
	}
	return nil, knex.FormatError(fmt.Sprintf("unknown MAC dialect %q", m.Format), nil)
}

func parseMAC(s string) ([]byte, error) {
	trimmed := strings.TrimSpace(s)
	groups := []string{trimmed}
	if i := strings.IndexAny(trimmed, ":-."); i >= 0 {
		sep := trimmed[i : i+1]
		if strings.ContainsAny(strings.ReplaceAll(trimmed, sep, ""), ":-.") {
			return nil, knex.FormatError(fmt.Sprintf("MAC address %q mixes separators", s), nil)
		}
		groups = strings.Split(trimmed, sep)
	}

	var width int
	switch len(groups) {
	case 6:
		width = 2
	case 3:
		width = 4
	case 2:
		width = 6
	case 1:
		width = 12
	default:
		return nil, knex.FormatError(fmt.Sprintf("MAC address %q", s), nil)
	}

	var digits strings.Builder
	for _, g := range groups {
		if len(g) == 0 || len(g) > width || (width != 2 && len(g) != width) {
			return nil, knex.FormatError(fmt.Sprintf("MAC address %q", s), nil)
		}
		digits.WriteString(strings.Repeat("0", width-len(g)))
		digits.WriteString(g)
	}
	b, err := hex.DecodeString(digits.String())
	if err != nil {
		return nil, knex.FormatError(fmt.Sprintf("MAC address %q", s), err)
	}
	return b, nil
}

func joinGroups(digits string, size int, sep string) string {
	groups := make([]string, 0, len(digits)/size)
	for i := 0; i < len(digits); i += size {
		groups = append(groups, digits[i:i+size])
	}
	return strings.Join(groups, sep)
}
