package utils

import (
	"net/http"

	"telecare/globals"
)

// GetUserIDFromRequest returns the authenticated user id placed on the
// request context by the auth middleware, or "" when there is none.
func GetUserIDFromRequest(r *http.Request) string {
	ctx := r.Context()
	requestingUserID, ok := ctx.Value(globals.UserIDKey).(string)
	if !ok || requestingUserID == "" {
		return ""
	}
	return requestingUserID
}
