package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "/dashboard", Normalize("/dashboard/"))
	assert.Equal(t, "/dashboard", Normalize("/dashboard"))
	assert.Equal(t, "/", Normalize("/"))
}

func TestDecide(t *testing.T) {
	cases := []struct {
		path string
		want Policy
	}{
		{"/login", PolicyPublic},
		{"/api/login", PolicyPublic},
		{"/static/app.js", PolicyPublic},
		{"/healthz", PolicyPublic},
		{"/metrics", PolicyPublic},

		{"/api/absen", PolicyDualAuth},
		{"/api/students", PolicyDualAuth},
		{"/api/device/ping", PolicyDualAuth},
		{"/api/device/report-scan", PolicyDualAuth},

		{"/", PolicySessionRequired},
		{"/dashboard", PolicySessionRequired},
		{"/settings", PolicySessionRequired},
		{"/api/logs", PolicySessionRequired},
		{"/api/students/12345678", PolicySessionRequired},
		{"/api/students/bulk-delete", PolicySessionRequired},
		{"/api/admin/devices", PolicySessionRequired},
		{"/api/admin/recap-bulanan", PolicySessionRequired},

		// fail closed: unknown paths are never implicitly allowed
		{"/api/brand-new-endpoint", PolicySessionRequired},
		{"/totally/unknown", PolicySessionRequired},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Decide(tc.path), "path %s", tc.path)
	}
}

func TestDecideNormalizedVariants(t *testing.T) {
	// the gate normalizes before deciding; the table holds normalized paths
	assert.Equal(t, PolicyDualAuth, Decide(Normalize("/api/absen/")))
	assert.Equal(t, PolicyPublic, Decide(Normalize("/login/")))
}

func TestCredentialsVerify(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	creds := Credentials{Username: "admin", PasswordHash: hash}

	assert.True(t, creds.Verify("admin", "s3cret"))
	assert.True(t, creds.Verify("  admin  ", " s3cret "), "inputs are trimmed")
	assert.False(t, creds.Verify("admin", "wrong"))
	assert.False(t, creds.Verify("root", "s3cret"))
	assert.False(t, creds.Verify("", ""))
}
