package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/id"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	instID := id.New()

	token, expires, err := issuer.Issue(instID, "cruzazul", "Cruz Azul", true)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	claims, err := issuer.Verify(token)
	assert.NoError(t, err)
	assert.Equal(t, instID.String(), claims.InstitutionID)
	assert.Equal(t, instID.String(), claims.Subject)
	assert.Equal(t, "cruzazul", claims.Username)
	assert.Equal(t, "Cruz Azul", claims.Name)
	assert.True(t, claims.IsAdmin)
}

func TestVerifyExpiredToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Hour)

	token, _, err := issuer.Issue(id.New(), "cruzazul", "Cruz Azul", false)
	assert.NoError(t, err)

	_, err = issuer.Verify(token)
	assert.Error(t, err)
}

func TestVerifyWrongSecret(t *testing.T) {
	token, _, err := NewTokenIssuer("secret-a", time.Hour).
		Issue(id.New(), "cruzazul", "Cruz Azul", false)
	assert.NoError(t, err)

	_, err = NewTokenIssuer("secret-b", time.Hour).Verify(token)
	assert.Error(t, err)
}

func TestVerifyGarbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	_, err := issuer.Verify("not.a.token")
	assert.Error(t, err)

	_, err = issuer.Verify("")
	assert.Error(t, err)
}
