package catalog

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalName(t *testing.T) {
	assert.Equal(t, "DZS Inc", CanonicalName("DZS"))
	assert.Equal(t, "DZS Inc", CanonicalName("dzs"))
	assert.Equal(t, "MOURI Tech Limited", CanonicalName("MouriTech"))
	assert.Equal(t, "Unknown Client", CanonicalName("Unknown Client"))
	assert.Equal(t, "", CanonicalName(""))
}

func TestEntries_CoversCatalog(t *testing.T) {
	got := Entries()
	require.Len(t, got, len(Clients))

	for i, entry := range got {
		assert.Equal(t, Clients[i].Key, entry.Key)
		assert.Equal(t, Clients[i].Name, entry.Name)
	}
}

func TestEntries_ColorsUniqueAndWellFormed(t *testing.T) {
	hexRe := regexp.MustCompile(`^#[0-9A-F]{6}$`)
	seen := make(map[string]string)

	for _, entry := range Entries() {
		assert.Regexp(t, hexRe, entry.Color, entry.Key)
		if prev, dup := seen[entry.Color]; dup {
			t.Fatalf("color %s assigned to both %s and %s", entry.Color, prev, entry.Key)
		}
		seen[entry.Color] = entry.Key
	}
}

func TestEntries_Deterministic(t *testing.T) {
	first := Entries()
	second := Entries()
	assert.Equal(t, first, second)

	// Recomputing from scratch yields the same assignment.
	recomputed := assignColors(Clients)
	for _, entry := range first {
		assert.Equal(t, entry.Color, recomputed[entry.Key], entry.Key)
	}
}
