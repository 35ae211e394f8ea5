package worker

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/damiolat/onboardly/internal/kyc"
)

type PayloadKind int

const (
	// PayloadPrefixed is the canonical wire form, "KYC_VERIFIED:<digits>" or
	// "KYC_REJECTED:<digits>".
	PayloadPrefixed PayloadKind = iota

	// PayloadBare is a bare integer customer id.
	PayloadBare

	// PayloadStructured is a JSON object carrying a customerId field, accepted
	// for forward compatibility.
	PayloadStructured

	// PayloadMalformed means nothing parsed. Malformed messages are logged and
	// acknowledged, never retried.
	PayloadMalformed
)

type Payload struct {
	Kind       PayloadKind
	EventKind  string
	CustomerID int64
}

type structuredEvent struct {
	CustomerID *int64 `json:"customerId"`
}

// ParsePayload tries the known payload shapes in order; the first one that
// parses wins. A recognized prefix with unparsable digits is malformed, not a
// candidate for the later shapes.
func ParsePayload(message string) Payload {
	message = strings.TrimSpace(message)

	for _, kind := range []string{kyc.EventKindVerified, kyc.EventKindRejected} {
		prefix := kind + ":"
		if strings.HasPrefix(message, prefix) {
			id, err := strconv.ParseInt(strings.TrimSpace(strings.TrimPrefix(message, prefix)), 10, 64)
			if err != nil {
				return Payload{Kind: PayloadMalformed}
			}
			return Payload{Kind: PayloadPrefixed, EventKind: kind, CustomerID: id}
		}
	}

	if id, err := strconv.ParseInt(message, 10, 64); err == nil {
		return Payload{Kind: PayloadBare, CustomerID: id}
	}

	var event structuredEvent
	if err := json.Unmarshal([]byte(message), &event); err == nil && event.CustomerID != nil {
		return Payload{Kind: PayloadStructured, CustomerID: *event.CustomerID}
	}

	return Payload{Kind: PayloadMalformed}
}
