package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashToken(t *testing.T) {
	// SHA-256 hex, stable et jamais égal au token en clair
	h := HashToken("my-refresh-token")
	require.Len(t, h, 64)
	require.Equal(t, h, HashToken("my-refresh-token"))
	require.NotEqual(t, h, HashToken("other-token"))
	require.NotEqual(t, "my-refresh-token", h)
}

func TestDefaultAvatarURL(t *testing.T) {
	url := DefaultAvatarURL("Jane Doe")
	require.Contains(t, url, "dicebear.com")
	require.Contains(t, url, "Jane+Doe")
}
