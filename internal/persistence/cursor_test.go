package persistence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/fittrack/internal/domain"
)

func TestCursorRoundTrip(t *testing.T) {
	at := time.Date(2026, 3, 4, 5, 6, 7, 890, time.FixedZone("x", 3600))
	token := EncodeCursor(&domain.Cursor{At: at, ID: "abc"})

	decoded, err := DecodeCursor(token)
	require.NoError(t, err)
	require.True(t, decoded.At.Equal(at))
	require.Equal(t, "abc", decoded.ID)
}

func TestDecodeCursorEdgeCases(t *testing.T) {
	c, err := DecodeCursor("  ")
	require.NoError(t, err)
	require.Nil(t, c)
	require.Empty(t, EncodeCursor(nil))

	_, err = DecodeCursor("%%%")
	require.Error(t, err)

	_, err = DecodeCursor(EncodeCursor(&domain.Cursor{At: time.Now()})[:8])
	require.Error(t, err)
}
