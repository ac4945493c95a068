package editors

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVLANSchemaFromRows(t *testing.T) {
	labels, order, err := vlanSchemaFromRows([]vlanRow{
		{key: "VLAN_100", display: "Main"},
		{key: " VLAN_200 ", display: ""},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"VLAN_100", "VLAN_200"}, order)
	require.Equal(t, "Main", labels["VLAN_100"])
	require.Equal(t, "VLAN_200", labels["VLAN_200"], "empty display falls back to the key")
}

func TestVLANSchemaFromRowsRejectsBadKeys(t *testing.T) {
	tests := []struct {
		name string
		rows []vlanRow
	}{
		{"empty key", []vlanRow{{key: "  "}}},
		// Addresses are stored under the key as a top-level field in the
		// map file and only VLAN_-prefixed fields are read back, so an
		// unprefixed key would be written once and never loaded again.
		{"missing prefix", []vlanRow{{key: "Mgmt"}}},
		{"lowercase prefix", []vlanRow{{key: "vlan_100"}}},
		{"duplicate", []vlanRow{{key: "VLAN_100"}, {key: "VLAN_100"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := vlanSchemaFromRows(tt.rows)
			require.Error(t, err)
		})
	}
}
