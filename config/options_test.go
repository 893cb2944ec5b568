package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	o := Defaults()
	require.Equal(t, 8000, o.CoreSize)
	require.Equal(t, 80000, o.MaxCycles)
	require.Equal(t, 1, o.Rounds)
}

func TestValidateMutualExclusion(t *testing.T) {
	pos := 500
	o := Defaults()
	o.FixedSeries = true
	o.FixedPosition = &pos
	require.Error(t, o.Validate())
}

func TestValidateFixedPositionBelowSeparation(t *testing.T) {
	pos := 10
	o := Defaults()
	o.FixedPosition = &pos
	require.Error(t, o.Validate())
}

func TestNormalizeRejectsTooManyWarriors(t *testing.T) {
	o := Defaults()
	_, err := o.Normalize(37)
	require.Error(t, err)
}

func TestNormalizeRaisesSeparationToMaxLength(t *testing.T) {
	o := Defaults()
	o.MinSeparation = 1
	o.MaxLength = 50
	n, err := o.Normalize(2)
	require.NoError(t, err)
	require.Equal(t, 50, n.MinSeparation)
}

func TestNormalizeLowersSeparationWhenCoreTooSmall(t *testing.T) {
	o := Defaults()
	o.CoreSize = 100
	o.MinSeparation = 50
	o.MaxLength = 10
	n, err := o.Normalize(10)
	require.NoError(t, err)
	require.Equal(t, 10, n.MinSeparation)
}

func TestNormalizeDerivesPSpaceSize(t *testing.T) {
	o := Defaults()
	n, err := o.Normalize(2)
	require.NoError(t, err)
	require.Equal(t, 500, n.PSpaceSize)
}

func TestPredefinedIdentifiers(t *testing.T) {
	o := Defaults()
	ids := o.PredefinedIdentifiers()
	require.EqualValues(t, 8000, ids["CORESIZE"])
	require.EqualValues(t, 96, ids["VERSION"])
}
