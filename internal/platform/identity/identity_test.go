// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/stargazer/internal/platform/identity"
)

func TestIdentity(t *testing.T) {
	anonymous := identity.Anonymous()
	assert.True(t, anonymous.IsAnonymous())
	assert.False(t, anonymous.Owns(""))

	var zero identity.Identity
	assert.True(t, zero.IsAnonymous())

	user := identity.User("u-1", "nova")
	assert.False(t, user.IsAnonymous())
	assert.Equal(t, "u-1", user.UserID())
	assert.Equal(t, "nova", user.Username())
	assert.True(t, user.Owns("u-1"))
	assert.False(t, user.Owns("u-2"))

	assert.True(t, identity.User("", "ghost").IsAnonymous())
}
