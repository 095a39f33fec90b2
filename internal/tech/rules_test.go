package tech

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSG13G2RuleTable(t *testing.T) {
	rs := SG13G2()
	assert.Equal(t, "sg13g2", rs.Name)

	byName := make(map[string]Rule, len(rs.Rules))
	for _, r := range rs.Rules {
		_, dup := byName[r.Name]
		require.False(t, dup, "duplicate rule %s", r.Name)
		byName[r.Name] = r
	}

	m1w, ok := byName["M1.a"]
	require.True(t, ok)
	assert.Equal(t, Width, m1w.Kind)
	assert.Equal(t, Metal1, m1w.Layer)
	assert.Equal(t, 0.16, m1w.Value)

	nwc, ok := byName["NW.c"]
	require.True(t, ok)
	assert.Equal(t, Enclosure, nwc.Kind)
	assert.Equal(t, Activ, nwc.Inner)
	assert.Equal(t, NWell, nwc.Outer)
	assert.Equal(t, 0.31, nwc.Value)
}

func TestLayerString(t *testing.T) {
	assert.Equal(t, "8/0", Metal1.String())
	assert.Equal(t, "10/25", Metal2Label.String())
	assert.Equal(t, "189/0", Boundary.String())
}

func TestRuleKindString(t *testing.T) {
	assert.Equal(t, "width", Width.String())
	assert.Equal(t, "space", Space.String())
	assert.Equal(t, "enclosure", Enclosure.String())
}

func TestDerivedConstantsConsistent(t *testing.T) {
	rs := SG13G2()
	// The generator enclosures carry a margin over the checkable minima.
	assert.Greater(t, rs.ContEncActiv, 0.07)
	assert.Greater(t, rs.ContEncM1, rs.Via1EncM1)
	// Contact pad on poly must clear the M1 width rule.
	assert.GreaterOrEqual(t, rs.ContactSize+2*rs.ContEncM1, rs.M1Width)
}
