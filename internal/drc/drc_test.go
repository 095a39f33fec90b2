package drc

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"analog-macros/internal/cell"
	"analog-macros/internal/macro"
	"analog-macros/internal/primitive"
	"analog-macros/internal/tech"
)

func resultFor(t *testing.T, rep Report, name string) Result {
	t.Helper()
	for _, r := range rep.Results {
		if r.Rule.Name == name {
			return r
		}
	}
	t.Fatalf("rule %s not in report", name)
	return Result{}
}

func TestWidthViolation(t *testing.T) {
	rs := tech.SG13G2()
	c := cell.New("narrow")
	c.InsertUM(tech.Metal1, 0, 0, 0.1, 1.0) // below the 0.16 minimum

	rep := Check(c, rs)
	r := resultFor(t, rep, "M1.a")
	assert.Equal(t, Fail, r.Status)
	assert.Greater(t, r.Count(), 0)

	assert.Equal(t, Pass, resultFor(t, rep, "M1.b").Status)
	assert.Equal(t, Skipped, resultFor(t, rep, "M2.a").Status)
	assert.False(t, rep.Clean())
}

func TestSpaceViolation(t *testing.T) {
	rs := tech.SG13G2()
	c := cell.New("close")
	c.InsertUM(tech.GatPoly, 0, 0, 2.0, 0.5)
	c.InsertUM(tech.GatPoly, 0, 0.6, 2.0, 1.1) // 0.1 gap, minimum is 0.18

	rep := Check(c, rs)
	assert.Equal(t, Pass, resultFor(t, rep, "Gat.a").Status)
	assert.Equal(t, Fail, resultFor(t, rep, "Gat.b").Status)
	assert.Equal(t, 1, resultFor(t, rep, "Gat.b").Count())

	for _, r := range rep.Results {
		if r.Rule.Name != "Gat.b" {
			assert.NotEqual(t, Fail, r.Status, r.Rule.Name)
		}
	}
}

func TestTouchingShapesAreOneNet(t *testing.T) {
	rs := tech.SG13G2()
	c := cell.New("abutted")
	c.InsertUM(tech.Metal1, 0, 0, 1.0, 0.2)
	c.InsertUM(tech.Metal1, 1.0, 0, 2.0, 0.2) // shares an edge, no gap

	rep := Check(c, rs)
	assert.Equal(t, Pass, resultFor(t, rep, "M1.b").Status)
}

func TestEnclosureSkippedWhenLayerAbsent(t *testing.T) {
	rs := tech.SG13G2()
	c := cell.New("no-vias")
	c.InsertUM(tech.Metal1, 0, 0, 1.0, 1.0)

	rep := Check(c, rs)
	// No Via1 shapes at all: the rule must not silently count as Pass.
	assert.Equal(t, Skipped, resultFor(t, rep, "V1.c").Status)
	assert.Equal(t, Skipped, resultFor(t, rep, "M2.c").Status)
}

func TestEnclosureSkippedWhenDisjoint(t *testing.T) {
	rs := tech.SG13G2()
	c := cell.New("resistor-contact")
	// A contact on poly only: not subject to the Activ enclosure rule.
	c.InsertUM(tech.Cont, 1.0, 1.0, 1.16, 1.16)
	c.InsertUM(tech.GatPoly, 0.9, 0.9, 1.3, 1.3)
	c.InsertUM(tech.Activ, 5.0, 5.0, 6.0, 6.0)

	rep := Check(c, rs)
	assert.Equal(t, Skipped, resultFor(t, rep, "Cnt.c").Status)
	assert.Equal(t, Pass, resultFor(t, rep, "Cnt.d").Status)
}

func TestEnclosureViolation(t *testing.T) {
	rs := tech.SG13G2()
	c := cell.New("flush")
	// Metal1 flush with the via: zero margin against the 0.01 minimum.
	c.InsertUM(tech.Via1, 0, 0, 0.19, 0.19)
	c.InsertUM(tech.Metal1, 0, 0, 0.19, 0.19)
	c.InsertUM(tech.Metal2, -0.1, -0.1, 0.29, 0.29)

	rep := Check(c, rs)
	assert.Equal(t, Fail, resultFor(t, rep, "V1.c").Status)
	assert.Equal(t, Pass, resultFor(t, rep, "M2.c").Status)
}

func TestViaPrimitivesAreClean(t *testing.T) {
	rs := tech.SG13G2()
	c := cell.New("vias")
	primitive.Via1(c, rs, 1.0, 1.0)
	primitive.Via2(c, rs, 1.0, 3.0)

	rep := Check(c, rs)
	assert.True(t, rep.Clean())
	assert.Equal(t, Pass, resultFor(t, rep, "V1.c").Status)
	assert.Equal(t, Pass, resultFor(t, rep, "M2.c").Status)
}

func TestGeneratedMacrosAreClean(t *testing.T) {
	rs := tech.SG13G2()
	for _, m := range macro.Catalog() {
		t.Run(m.Name, func(t *testing.T) {
			c, err := m.Build(rs)
			require.NoError(t, err)

			rep := Check(c, rs)
			if !rep.Clean() {
				var buf bytes.Buffer
				rep.WriteText(&buf)
				t.Errorf("%s not clean:\n%s", m.Name, buf.String())
			}
		})
	}
}

func TestReportIsDeterministic(t *testing.T) {
	rs := tech.SG13G2()
	m, err := macro.ByName("r2r_dac_8bit")
	require.NoError(t, err)
	c, err := m.Build(rs)
	require.NoError(t, err)

	a, b := Check(c, rs), Check(c, rs)
	assert.Equal(t, a, b)

	var wa, wb bytes.Buffer
	a.WriteText(&wa)
	b.WriteText(&wb)
	assert.Equal(t, wa.String(), wb.String())
}

func TestWriteTextFormat(t *testing.T) {
	rs := tech.SG13G2()
	c := cell.New("narrow")
	c.InsertUM(tech.Metal1, 0, 0, 0.1, 1.0)

	rep := Check(c, rs)
	var buf bytes.Buffer
	rep.WriteText(&buf)
	out := buf.String()
	assert.Contains(t, out, "M1.a")
	assert.Contains(t, out, "*** FAIL ***")
	assert.Contains(t, out, "DRC ERRORS")
	assert.Contains(t, out, "Violations by rule:")

	clean := Check(cell.New("empty"), rs)
	buf.Reset()
	clean.WriteText(&buf)
	assert.Contains(t, buf.String(), "DRC CLEAN")
	assert.True(t, clean.Clean())
}
