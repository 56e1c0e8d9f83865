package auth

// IsOwner reports whether the session's user owns the resource. A missing
// session (zero user id) never owns anything; flashing and redirecting on a
// refusal is up to the caller.
func IsOwner(sessionUserID, resourceOwnerID int64) bool {
	if sessionUserID == 0 {
		return false
	}
	return sessionUserID == resourceOwnerID
}
