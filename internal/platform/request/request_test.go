// Copyright (c) 2026 Stargazer. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/stargazer/internal/platform/apperr"
	"github.com/taibuivan/stargazer/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/stargazer/internal/platform/request"
	"github.com/taibuivan/stargazer/internal/platform/sec"
)

/*
TestRequiredUserID returns the caller's id or UNAUTHORIZED without claims.
*/
func TestRequiredUserID(t *testing.T) {
	tests := []struct {
		name   string
		claims *sec.AuthClaims
		want   string
		code   string
	}{
		{"authenticated", &sec.AuthClaims{UserID: "u-1", Username: "alice"}, "u-1", ""},
		{"anonymous", nil, "", apperr.CodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/", nil)
			if tt.claims != nil {
				request = request.WithContext(ctxutil.WithAuthUser(request.Context(), tt.claims))
			}

			userID, err := requestutil.RequiredUserID(request)
			assert.Equal(t, tt.want, userID)
			if tt.code == "" {
				assert.NoError(t, err)
			} else {
				assert.True(t, apperr.HasCode(err, tt.code))
			}
		})
	}
}
