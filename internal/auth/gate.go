// Package auth holds the access control gate: a single chokepoint deciding,
// per request, whether the path is public, device-or-session, or
// session-only. Paths not listed anywhere require a session, so a new route
// added without updating the tables is protected by default.
package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"absensi/internal/respond"
	"absensi/internal/session"
)

// Policy classifies a request path.
type Policy int

const (
	// PolicySessionRequired is the default for any unlisted path.
	PolicySessionRequired Policy = iota
	// PolicyPublic bypasses all checks.
	PolicyPublic
	// PolicyDualAuth accepts either a valid session or the device secret.
	PolicyDualAuth
)

// DeviceTokenHeader carries the shared device secret on hardware requests.
const DeviceTokenHeader = "X-Device-Token"

var publicExact = map[string]bool{
	"/login":     true,
	"/api/login": true,
	"/healthz":   true,
	"/metrics":   true,
}

var publicPrefixes = []string{"/static/"}

// Hardware-facing endpoints reachable by reader terminals.
var dualAuthExact = map[string]bool{
	"/api/absen":              true,
	"/api/students":           true,
	"/api/device/ping":        true,
	"/api/device/report-scan": true,
}

// Normalize strips the trailing slash from a request path. Query strings are
// already excluded from URL.Path.
func Normalize(path string) string {
	if path != "/" {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

// Decide maps a normalized path to its access policy. Unmatched paths fall
// through to session-required: the gate fails closed.
func Decide(path string) Policy {
	if publicExact[path] {
		return PolicyPublic
	}
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return PolicyPublic
		}
	}
	if dualAuthExact[path] {
		return PolicyDualAuth
	}
	return PolicySessionRequired
}

// Gate returns the middleware enforcing the policy table.
func Gate(sessions *session.Manager, deviceKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := Normalize(c.Request.URL.Path)

		switch Decide(path) {
		case PolicyPublic:
			c.Next()
			return

		case PolicyDualAuth:
			if HasSession(c, sessions) {
				c.Next()
				return
			}
			token := c.GetHeader(DeviceTokenHeader)
			if token != "" && subtle.ConstantTimeCompare([]byte(token), []byte(deviceKey)) == 1 {
				c.Next()
				return
			}
			respond.Fail(c, http.StatusForbidden, respond.KindDeviceToken, "invalid device token")
			c.Abort()
			return

		default: // PolicySessionRequired
			if HasSession(c, sessions) {
				c.Next()
				return
			}
			if strings.HasPrefix(path, "/api") {
				respond.Fail(c, http.StatusUnauthorized, respond.KindUnauthorized, "unauthorized session")
				c.Abort()
				return
			}
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
		}
	}
}

// HasSession reports whether the request carries a live authenticated
// session cookie.
func HasSession(c *gin.Context, sessions *session.Manager) bool {
	cookie, err := c.Cookie(session.CookieName)
	if err != nil {
		return false
	}
	return sessions.Validate(c.Request.Context(), cookie)
}
