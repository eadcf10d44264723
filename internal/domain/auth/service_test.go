package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/apperror"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/id"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/domain/catalogs/institution"
)

type fakeFinder struct {
	inst *institution.Institution
}

func (f *fakeFinder) FindByUsername(ctx context.Context, username string) (*institution.Institution, error) {
	if f.inst != nil && f.inst.Username == username {
		return f.inst, nil
	}
	return nil, nil
}

func testInstitution(t *testing.T, approved, active bool) *institution.Institution {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("segredo1"), bcrypt.MinCost)
	assert.NoError(t, err)
	return &institution.Institution{
		ID:           id.New(),
		Name:         "Cruz Azul",
		Username:     "cruzazul",
		PasswordHash: string(hash),
		Approved:     approved,
		Active:       active,
	}
}

func newLoginService(inst *institution.Institution) *Service {
	return NewService(&fakeFinder{inst: inst}, NewTokenIssuer("test-secret", time.Hour))
}

func TestLoginSuccess(t *testing.T) {
	inst := testInstitution(t, true, true)
	svc := newLoginService(inst)

	session, err := svc.Login(context.Background(), "cruzazul", "segredo1")
	assert.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, inst, session.Institution)
	assert.True(t, session.ExpiresAt.After(time.Now()))
}

func TestLoginUnknownUsername(t *testing.T) {
	svc := newLoginService(nil)

	_, err := svc.Login(context.Background(), "ghost", "segredo1")
	appErr, ok := apperror.AsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newLoginService(testInstitution(t, true, true))

	_, err := svc.Login(context.Background(), "cruzazul", "errada")
	appErr, ok := apperror.AsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestLoginPendingApproval(t *testing.T) {
	svc := newLoginService(testInstitution(t, false, false))

	_, err := svc.Login(context.Background(), "cruzazul", "segredo1")
	appErr, ok := apperror.AsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)
	assert.Contains(t, appErr.Message, "pending")
}

func TestLoginDeactivated(t *testing.T) {
	svc := newLoginService(testInstitution(t, true, false))

	_, err := svc.Login(context.Background(), "cruzazul", "segredo1")
	appErr, ok := apperror.AsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)
	assert.Contains(t, appErr.Message, "deactivated")
}
