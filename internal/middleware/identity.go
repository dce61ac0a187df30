package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// identityKey returns a per-user key for rate limiting and caching.
// Authenticated requests are keyed by user ID, everything else shares
// the "guest" bucket.
func identityKey(c echo.Context) string {
	if id := UserID(c); id != 0 {
		return strconv.FormatUint(id, 10)
	}
	return "guest"
}
