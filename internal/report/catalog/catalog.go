// Package catalog defines the supported client companies and their
// deterministic chart colors.
package catalog

import (
	"strings"
	"sync"

	"github.com/shiftpay/shiftpay-backend/internal/report/domain"
)

// Client is one supported company: a stable key and its display name.
type Client struct {
	Key  string
	Name string
}

// Clients lists the supported companies. Order matters: color assignment
// walks this list and resolves collisions first come first served.
var Clients = []Client{
	{"ALASKA_COMMUNICATIONS", "Alaska Communications Systems Holdings Inc"},
	{"YMCA", "National Council of Young Men's Christian Association of the USA of America"},
	{"MOURITECH_LLC", "MOURI Tech LLC"},
	{"ILC_DOVER", "ILC Dover"},
	{"LAZARD", "Lazard Freres & Co LLC"},
	{"MOURITECH", "MOURI Tech Limited"},
	{"CHEP", "CHEP USA Inc"},
	{"HUDSON", "Hudson Advisors L.P"},
	{"NAT_GRID", "National Grid USA Service Company Inc"},
	{"LEASELOCK", "LeaseLock Inc"},
	{"DZS", "DZS Inc"},
	{"SOUL_CYCLE", "SoulCycle Inc"},
	{"VERTISYSTEMS", "Vertisystem Inc"},
	{"CLAIR_SOURCE", "Clair Source Group"},
	{"ATD", "American Tire Distributors Inc"},
	{"SVI", "Storage Vault Canada Inc"},
	{"TRINET", "TriNet USA Inc"},
	{"HFT", "Harbor Freight Tools USA Inc"},
	{"ICON", "Citizens Icon Holdings LLC"},
	{"VERTEXONE", "VERTEXONE SOFTWARE LLC"},
	{"EBOS", "Symbion Pty Ltd (EBOS)"},
	{"HARRIS_FARM", "Harris Farm Markets Pty Ltd"},
	{"GLOBUS", "Globus Medical Inc"},
	{"DELOITTE", "Deloitte Consulting India Private Limited"},
	{"FREEMAN", "Freeman Corporation"},
	{"SWIFT", "Swift Beef Company"},
	{"GCG", "Goddard Catering Group"},
	{"SEPHORA", "Sephora"},
	{"DEVFI", "Devfi Inc"},
	{"LACTALIS", "LACTALIS AUSTRALIA PTY LTD"},
	{"ENERSYS", "EnerSys Delaware Inc"},
	{"LENOVO", "Lenovo PC HK LTD"},
	{"HUMMING_BIRD", "Humming Bird Education Limited"},
	{"NWN", "NWN Corporation"},
	{"RITCHIE", "Ritchie Bros. Auctioneers Inc"},
	{"INGERSOLL_RAND", "Ingersoll Rand"},
	{"BINGO", "Bingo Industries"},
	{"ESTABLISHMENT_LABS", "Establishment Labs SA"},
	{"ONESTREAM", "OneStream Software LLC"},
	{"EQUINOX", "Equinox Holdings Inc"},
	{"STRADA", "Strada U.S. Payroll LLC"},
	{"SIPEF", "SIPEF Singapore Pte Ltd"},
	{"SUNTEX", "Suntex Marinas LLC"},
	{"SAMSARA", "Samsara Inc"},
	{"SIGNIA", "Signia Aerospace"},
	{"ATNI", "ATN International Services LLC"},
	{"ANICA", "Anica Inc"},
	{"ELF", "ELF Cosmetics Inc"},
	{"TOYOTA", "Toyota Canada Inc"},
	{"REGAL", "Regal Rexnord Corporation"},
	{"UWF", "University of Wisconsin Foundation"},
	{"DELEK", "Delek US Holdings Inc"},
}

// CanonicalName resolves a client filter value against the catalog by key,
// case-insensitively. Values that match no key pass through unchanged.
func CanonicalName(client string) string {
	if client == "" {
		return client
	}
	upper := strings.ToUpper(client)
	for _, c := range Clients {
		if c.Key == upper {
			return c.Name
		}
	}
	return client
}

var (
	entriesOnce sync.Once
	entries     []domain.ClientColor
)

// Entries returns the catalog with its assigned colors.
func Entries() []domain.ClientColor {
	entriesOnce.Do(func() {
		colors := assignColors(Clients)
		entries = make([]domain.ClientColor, 0, len(Clients))
		for _, c := range Clients {
			entries = append(entries, domain.ClientColor{
				Key:   c.Key,
				Name:  c.Name,
				Color: colors[c.Key],
			})
		}
	})
	return entries
}
