package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// rfcSecret is the RFC 6238 appendix B test secret, the ASCII bytes of
// "12345678901234567890" in base32.
const rfcSecret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

func TestGenerateCodeAt_RFC6238Vectors(t *testing.T) {
	vectors := []struct {
		unix int64
		code string
	}{
		{59, "287082"},
		{1111111109, "081804"},
		{1111111111, "050471"},
		{1234567890, "005924"},
		{2000000000, "279037"},
		{20000000000, "353130"},
	}

	for _, v := range vectors {
		code, err := GenerateCodeAt(rfcSecret, time.Unix(v.unix, 0))

		require.NoError(t, err)
		require.Equalf(t, v.code, code, "at unix time %d", v.unix)
	}
}

func TestGenerateCodeAt_StableWithinWindow(t *testing.T) {
	base := time.Unix(1111111110, 0)

	first, err := GenerateCodeAt(rfcSecret, base)
	require.NoError(t, err)

	second, err := GenerateCodeAt(rfcSecret, base.Add(19*time.Second))
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestGenerateCodeAt_ChangesAcrossWindows(t *testing.T) {
	first, err := GenerateCodeAt(rfcSecret, time.Unix(1111111109, 0))
	require.NoError(t, err)

	second, err := GenerateCodeAt(rfcSecret, time.Unix(1111111111, 0))
	require.NoError(t, err)

	require.NotEqual(t, first, second)
}

func TestGenerateCodeAt_NormalizesSecret(t *testing.T) {
	want, err := GenerateCodeAt(rfcSecret, time.Unix(59, 0))
	require.NoError(t, err)

	got, err := GenerateCodeAt("  gezdgnbvgy3tqojqgezdgnbvgy3tqojq  ", time.Unix(59, 0))
	require.NoError(t, err)
	require.Equal(t, want, got)

	got, err = GenerateCodeAt(rfcSecret+"======", time.Unix(59, 0))
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestGenerateCodeAt_EmptySecret(t *testing.T) {
	_, err := GenerateCodeAt("   ", time.Unix(59, 0))
	require.ErrorIs(t, err, ErrEmptySecret)
}

func TestGenerateCodeAt_InvalidBase32(t *testing.T) {
	_, err := GenerateCodeAt("not!base32", time.Unix(59, 0))
	require.Error(t, err)
}
