package auth

// Authorize compares the caller's user id with the owner reference of a
// fetched resource. Exact equality is the only rule.
func Authorize(identity Identity, ownerID string) Decision {
	if identity.UserID == "" || identity.UserID != ownerID {
		return Decision{Outcome: Forbidden, Identity: identity}
	}

	return Decision{Outcome: Proceed, Identity: identity}
}
