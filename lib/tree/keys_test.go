package tree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type score int16

func TestParseKey(t *testing.T) {
	i, err := ParseKey[int](" 42 ")
	require.NoError(t, err)
	require.Equal(t, 42, i)

	i, err = ParseKey[int]("-7")
	require.NoError(t, err)
	require.Equal(t, -7, i)

	u, err := ParseKey[uint8]("255")
	require.NoError(t, err)
	require.Equal(t, uint8(255), u)

	f, err := ParseKey[float64]("2.5")
	require.NoError(t, err)
	require.Equal(t, 2.5, f)

	s, err := ParseKey[string](" kiwi ")
	require.NoError(t, err)
	require.Equal(t, "kiwi", s)

	sc, err := ParseKey[score]("300")
	require.NoError(t, err)
	require.Equal(t, score(300), sc)
}

func TestParseKeyRejects(t *testing.T) {
	testcases := []struct {
		name string
		fn   func() error
	}{
		{"empty", func() error { _, err := ParseKey[int]("   "); return err }},
		{"letters", func() error { _, err := ParseKey[int]("abc"); return err }},
		{"trailing garbage", func() error { _, err := ParseKey[int]("12abc"); return err }},
		{"int8 overflow", func() error { _, err := ParseKey[int8]("128"); return err }},
		{"negative uint", func() error { _, err := ParseKey[uint]("-1"); return err }},
		{"nan", func() error { _, err := ParseKey[float64]("NaN"); return err }},
		{"empty string key", func() error { _, err := ParseKey[string](""); return err }},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			require.ErrorIs(tt, tc.fn(), ErrNonOrderableKey)
		})
	}
}
