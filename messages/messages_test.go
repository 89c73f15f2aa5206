package messages

import (
	"testing"
	"time"
)

func TestValidateSend(t *testing.T) {
	tests := []struct {
		name    string
		req     sendMessageRequest
		wantErr error
	}{
		{
			name: "direct message ok",
			req:  sendMessageRequest{SenderID: "user_a", ReceiverID: "user_b", Message: "hi"},
		},
		{
			name: "group message ok",
			req:  sendMessageRequest{SenderID: "user_a", GroupID: "group_1", Message: "hi"},
		},
		{
			name:    "missing sender",
			req:     sendMessageRequest{ReceiverID: "user_b", Message: "hi"},
			wantErr: errMissingFields,
		},
		{
			name:    "missing body",
			req:     sendMessageRequest{SenderID: "user_a", ReceiverID: "user_b"},
			wantErr: errMissingFields,
		},
		{
			name:    "no addressing",
			req:     sendMessageRequest{SenderID: "user_a", Message: "hi"},
			wantErr: errMissingFields,
		},
		{
			name:    "both addressing modes",
			req:     sendMessageRequest{SenderID: "user_a", ReceiverID: "user_b", GroupID: "group_1", Message: "hi"},
			wantErr: errBothAddressing,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := validateSend(tc.req); err != tc.wantErr {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	got := parseTimestamp("2024-06-01T10:00:00Z")
	want, _ := time.Parse(time.RFC3339, "2024-06-01T10:00:00Z")
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}

	// Garbage and empty both fall back to roughly now.
	for _, raw := range []string{"", "not-a-time"} {
		if d := time.Since(parseTimestamp(raw)); d < 0 || d > time.Minute {
			t.Fatalf("fallback timestamp for %q too far from now: %s", raw, d)
		}
	}
}
