package sessions

import (
	"errors"
	"testing"
	"time"

	"telecare/models"
)

func mustParse(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse %s: %v", value, err)
	}
	return ts
}

func TestInstant(t *testing.T) {
	got, err := Instant("2024-06-01", " 10:00 ")
	if err != nil {
		t.Fatalf("Instant: %v", err)
	}
	want := mustParse(t, "2024-06-01T10:00:00Z")
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestWindowBounds(t *testing.T) {
	instant := mustParse(t, "2024-06-01T10:00:00Z")
	open, close := Window(instant)
	if !open.Equal(mustParse(t, "2024-06-01T09:00:00Z")) {
		t.Fatalf("open: got %s", open)
	}
	if !close.Equal(mustParse(t, "2024-06-01T12:00:00Z")) {
		t.Fatalf("close: got %s", close)
	}
}

func TestAuthorizeWindows(t *testing.T) {
	session := models.Session{
		RequesterID: "user_a",
		ReceiverID:  "user_b",
		Date:        "2024-06-01",
		Time:        "10:00",
		IsAccepted:  true,
	}

	tests := []struct {
		name     string
		sessions []models.Session
		now      string
		override bool
		allowed  bool
		noSess   bool
	}{
		{
			name:     "inside window",
			sessions: []models.Session{session},
			now:      "2024-06-01T09:30:00Z",
			allowed:  true,
		},
		{
			name:     "exactly at open",
			sessions: []models.Session{session},
			now:      "2024-06-01T09:00:00Z",
			allowed:  true,
		},
		{
			name:     "exactly at close",
			sessions: []models.Session{session},
			now:      "2024-06-01T12:00:00Z",
			allowed:  true,
		},
		{
			name:     "too early",
			sessions: []models.Session{session},
			now:      "2024-06-01T07:00:00Z",
			allowed:  false,
		},
		{
			name:     "too late",
			sessions: []models.Session{session},
			now:      "2024-06-01T12:00:01Z",
			allowed:  false,
		},
		{
			name:     "override skips window",
			sessions: []models.Session{session},
			now:      "2024-06-01T07:00:00Z",
			override: true,
			allowed:  true,
		},
		{
			name:     "no sessions at all",
			sessions: nil,
			now:      "2024-06-01T09:30:00Z",
			allowed:  false,
			noSess:   true,
		},
		{
			name:     "override without session still fails",
			sessions: nil,
			now:      "2024-06-01T09:30:00Z",
			override: true,
			allowed:  false,
			noSess:   true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := authorizeWindows(tc.sessions, mustParse(t, tc.now), tc.override)
			if tc.allowed {
				if err != nil {
					t.Fatalf("expected allowed, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected rejection, got nil")
			}
			if tc.noSess && !errors.Is(err, ErrNoAcceptedSession) {
				t.Fatalf("expected ErrNoAcceptedSession, got %v", err)
			}
		})
	}
}

func TestAuthorizeWindowsDiagnostics(t *testing.T) {
	session := models.Session{Date: "2024-06-01", Time: "10:00", IsAccepted: true}
	err := authorizeWindows([]models.Session{session}, mustParse(t, "2024-06-01T07:00:00Z"), false)

	var winErr *WindowError
	if !errors.As(err, &winErr) {
		t.Fatalf("expected *WindowError, got %v", err)
	}
	if !winErr.Open.Equal(mustParse(t, "2024-06-01T09:00:00Z")) {
		t.Fatalf("open: got %s", winErr.Open)
	}
	if !winErr.Close.Equal(mustParse(t, "2024-06-01T12:00:00Z")) {
		t.Fatalf("close: got %s", winErr.Close)
	}
	if !winErr.SessionTime.Equal(mustParse(t, "2024-06-01T10:00:00Z")) {
		t.Fatalf("session time: got %s", winErr.SessionTime)
	}
}

func TestAuthorizeWindowsAnyMatchingSession(t *testing.T) {
	// Two accepted sessions between the same pair; the later one covers now
	// even though the earlier one does not.
	morning := models.Session{Date: "2024-06-01", Time: "08:00", IsAccepted: true}
	evening := models.Session{Date: "2024-06-01", Time: "18:00", IsAccepted: true}

	if err := authorizeWindows([]models.Session{morning, evening}, mustParse(t, "2024-06-01T17:30:00Z"), false); err != nil {
		t.Fatalf("expected allowed via second session, got %v", err)
	}

	// Outside both windows the error should describe the nearest session.
	err := authorizeWindows([]models.Session{morning, evening}, mustParse(t, "2024-06-01T14:00:00Z"), false)
	var winErr *WindowError
	if !errors.As(err, &winErr) {
		t.Fatalf("expected *WindowError, got %v", err)
	}
	if !winErr.SessionTime.Equal(mustParse(t, "2024-06-01T18:00:00Z")) {
		t.Fatalf("expected nearest session 18:00, got %s", winErr.SessionTime)
	}
}
