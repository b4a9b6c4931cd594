// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package identity describes who is calling a service operation.
//
// Services never read the caller from ambient state; handlers resolve an
// [Identity] from the verified token and pass it explicitly.
package identity

// Identity is either an authenticated user or anonymous.
// The zero value is anonymous.
type Identity struct {
	userID   string
	username string
}

// Anonymous returns the identity of an unauthenticated caller.
func Anonymous() Identity {
	return Identity{}
}

// User returns the identity of an authenticated caller.
// An empty userID yields [Anonymous].
func User(userID, username string) Identity {
	return Identity{userID: userID, username: username}
}

// IsAnonymous reports whether the caller is unauthenticated.
func (i Identity) IsAnonymous() bool {
	return i.userID == ""
}

// UserID returns the caller's user id, or "" when anonymous.
func (i Identity) UserID() string {
	return i.userID
}

// Username returns the username carried by the token, if any.
func (i Identity) Username() string {
	return i.username
}

// Owns reports whether the caller is the authenticated owner userID.
func (i Identity) Owns(ownerID string) bool {
	return !i.IsAnonymous() && i.userID == ownerID
}
