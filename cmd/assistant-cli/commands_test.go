package main

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwtPkg "LundyVoice/pkg/jwt"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	color.NoColor = true

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestClassifyCommand(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"classify", "take", "me", "to", "navigator"}, "navigate -> /navigator"},
		{[]string{"classify", "book a demo"}, "book_demo"},
		{[]string{"classify", "--path", "/navigator", "is centralized knowledge live"}, "compliance"},
		{[]string{"classify", "--path", "/", "xyzzy"}, "no rule matched"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Contains(t, execute(t, tt.args...), tt.want)
		})
	}
}

func TestReportCommand(t *testing.T) {
	out := execute(t, "report")
	assert.Contains(t, out, "# Navigator Compliance Report")
	assert.Contains(t, out, "- Web speech active: Pass")
}

func TestAdminTokenCommand(t *testing.T) {
	t.Setenv(jwtPkg.AccessTokenSecret, "cli-secret")

	out := execute(t, "admin-token", "--subject", "ops")

	token, err := jwt.Parse(string(bytes.TrimSpace([]byte(out))), func(*jwt.Token) (interface{}, error) {
		return []byte("cli-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "ops", claims["sub"])
	assert.Equal(t, "admin", claims["role"])
}
