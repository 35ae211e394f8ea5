package worker

import (
	"testing"

	"github.com/damiolat/onboardly/internal/kyc"
	"github.com/stretchr/testify/require"
)

func TestParsePayload_VerifiedPrefix(t *testing.T) {
	payload := ParsePayload("KYC_VERIFIED:123")

	require.Equal(t, PayloadPrefixed, payload.Kind)
	require.Equal(t, kyc.EventKindVerified, payload.EventKind)
	require.Equal(t, int64(123), payload.CustomerID)
}

func TestParsePayload_RejectedPrefix(t *testing.T) {
	payload := ParsePayload("KYC_REJECTED:9")

	require.Equal(t, PayloadPrefixed, payload.Kind)
	require.Equal(t, kyc.EventKindRejected, payload.EventKind)
	require.Equal(t, int64(9), payload.CustomerID)
}

func TestParsePayload_BareInteger(t *testing.T) {
	payload := ParsePayload(" 456 ")

	require.Equal(t, PayloadBare, payload.Kind)
	require.Equal(t, int64(456), payload.CustomerID)
}

func TestParsePayload_StructuredJSON(t *testing.T) {
	payload := ParsePayload(`{"customerId": 77, "eventType": "KYC_VERIFIED"}`)

	require.Equal(t, PayloadStructured, payload.Kind)
	require.Equal(t, int64(77), payload.CustomerID)
}

func TestParsePayload_Malformed(t *testing.T) {
	cases := []string{
		"not-a-valid-payload",
		"",
		"{}",
		`{"id": 1}`,
		"KYC_VERIFIED:abc",
		"KYC_REJECTED:",
	}

	for _, message := range cases {
		payload := ParsePayload(message)
		require.Equalf(t, PayloadMalformed, payload.Kind, "payload %q", message)
	}
}

func TestParsePayload_PrefixWithBadDigitsDoesNotFallThrough(t *testing.T) {
	// A recognized prefix claims the message even when the digits are junk;
	// it must not be re-parsed as JSON or a bare integer.
	payload := ParsePayload("KYC_VERIFIED:12x")
	require.Equal(t, PayloadMalformed, payload.Kind)
}
