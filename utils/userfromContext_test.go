package utils

import (
	"context"
	"net/http/httptest"
	"testing"

	"telecare/globals"
)

func TestGetUserIDFromRequest(t *testing.T) {
	r := httptest.NewRequest("POST", "/message/send", nil)
	if got := GetUserIDFromRequest(r); got != "" {
		t.Fatalf("expected empty id without auth context, got %q", got)
	}

	ctx := context.WithValue(r.Context(), globals.UserIDKey, "user_abc")
	if got := GetUserIDFromRequest(r.WithContext(ctx)); got != "user_abc" {
		t.Fatalf("got %q, want user_abc", got)
	}
}
