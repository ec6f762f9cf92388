package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStationMap_Label(t *testing.T) {
	m, err := NewStationMap(DefaultStationLabels)
	require.NoError(t, err)
	require.Equal(t, 7, m.Len())

	label, ok := m.Label(1)
	require.True(t, ok)
	require.Equal(t, "A1", label)

	label, ok = m.Label(0)
	require.True(t, ok)
	require.Equal(t, "X", label)

	for _, s := range []Signal{-1, 7, 100} {
		_, ok := m.Label(s)
		require.False(t, ok, "signal %d", s)
		require.False(t, m.Contains(s))
	}
}

func TestStationMap_Immutable(t *testing.T) {
	labels := []string{"X", "A1"}
	m, err := NewStationMap(labels)
	require.NoError(t, err)

	labels[1] = "changed"
	out := m.Labels()
	out[0] = "changed"

	label, _ := m.Label(1)
	require.Equal(t, "A1", label)
	label, _ = m.Label(0)
	require.Equal(t, "X", label)
}

func TestNewStationMap_Invalid(t *testing.T) {
	_, err := NewStationMap(nil)
	require.Error(t, err)

	_, err = NewStationMap([]string{"X", ""})
	require.Error(t, err)
}
