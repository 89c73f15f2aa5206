package sessions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"telecare/db"
	"telecare/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Direct messages are only allowed from one hour before a booked session
// until two hours after it.
const (
	windowBefore = time.Hour
	windowAfter  = 2 * time.Hour
)

// ErrNoAcceptedSession means the two users have no accepted session at all.
var ErrNoAcceptedSession = errors.New("no accepted session exists")

// WindowError reports a send attempt outside the messaging window. The
// timing fields go back to the caller for diagnostics.
type WindowError struct {
	SessionTime time.Time
	Open        time.Time
	Close       time.Time
	Now         time.Time
}

func (e *WindowError) Error() string {
	return fmt.Sprintf("messaging window is %s to %s, now is %s",
		e.Open.Format(time.RFC3339), e.Close.Format(time.RFC3339), e.Now.Format(time.RFC3339))
}

// Instant combines a session's calendar date and wall-clock time into a
// single UTC instant.
func Instant(date, hhmm string) (time.Time, error) {
	return time.Parse(time.RFC3339, date+"T"+strings.TrimSpace(hhmm)+":00Z")
}

// Window returns the open and close bounds of a session's messaging window.
func Window(instant time.Time) (open, close time.Time) {
	return instant.Add(-windowBefore), instant.Add(windowAfter)
}

// Authorize decides whether a direct message between sender and receiver is
// currently permitted. It is side-effect free. The override flag skips the
// time-window check (dev/testing contexts) but still requires an accepted
// session to exist.
func Authorize(ctx context.Context, senderID, receiverID string, now time.Time, override bool) error {
	cur, err := db.SessionsCollection.Find(ctx, bson.M{
		"isAccepted": true,
		"$or": []bson.M{
			{"requesterId": senderID, "receiverId": receiverID},
			{"requesterId": receiverID, "receiverId": senderID},
		},
	})
	if err != nil {
		return err
	}
	defer cur.Close(ctx)

	var accepted []models.Session
	if err := cur.All(ctx, &accepted); err != nil {
		return err
	}

	return authorizeWindows(accepted, now, override)
}

// authorizeWindows allows the send if now falls inside any accepted
// session's window. The original behavior checked whichever session the
// store returned first; checking all of them makes the decision
// deterministic without ever rejecting a send the old rule would allow.
// When every window misses, the error reports the session nearest in time.
func authorizeWindows(accepted []models.Session, now time.Time, override bool) error {
	if len(accepted) == 0 {
		return ErrNoAcceptedSession
	}
	if override {
		return nil
	}

	var nearest *WindowError
	var nearestGap time.Duration
	for _, s := range accepted {
		instant, err := Instant(s.Date, s.Time)
		if err != nil {
			continue
		}
		open, close := Window(instant)
		if !now.Before(open) && !now.After(close) {
			return nil
		}

		gap := now.Sub(instant)
		if gap < 0 {
			gap = -gap
		}
		if nearest == nil || gap < nearestGap {
			nearest = &WindowError{SessionTime: instant, Open: open, Close: close, Now: now}
			nearestGap = gap
		}
	}

	if nearest == nil {
		// Every candidate had an unparseable date/time.
		return ErrNoAcceptedSession
	}
	return nearest
}
