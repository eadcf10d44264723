package institution

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistrationValidate(t *testing.T) {
	valid := Registration{
		Name:        "Cruz Azul",
		Username:    "cruzazul",
		Password:    "segredo1",
		Email:       "contato@cruzazul.org",
		ContactName: "João Mendes",
		Type:        "ong",
	}

	tests := []struct {
		name   string
		mutate func(*Registration)
		ok     bool
	}{
		{"valid", func(r *Registration) {}, true},
		{"valid with phone", func(r *Registration) { r.Phone = "+238 991 23 45" }, true},
		{"missing name", func(r *Registration) { r.Name = " " }, false},
		{"missing contact", func(r *Registration) { r.ContactName = "" }, false},
		{"short username", func(r *Registration) { r.Username = "ab" }, false},
		{"username with spaces", func(r *Registration) { r.Username = "cruz azul" }, false},
		{"short password", func(r *Registration) { r.Password = "12345" }, false},
		{"bad email", func(r *Registration) { r.Email = "not-an-email" }, false},
		{"bad type", func(r *Registration) { r.Type = "clube" }, false},
		{"bad phone", func(r *Registration) { r.Phone = "liga depois" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			err := r.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestNewFromRegistrationNormalizes(t *testing.T) {
	inst, err := NewFromRegistration(Registration{
		Name:        "  Cruz Azul  ",
		Username:    "  CruzAzul  ",
		Password:    "segredo1",
		Email:       "Contato@CruzAzul.org",
		ContactName: "João Mendes",
		Type:        "ong",
	})
	assert.NoError(t, err)
	assert.Equal(t, "Cruz Azul", inst.Name)
	assert.Equal(t, "cruzazul", inst.Username)
	assert.Equal(t, "contato@cruzazul.org", inst.Email)
	assert.False(t, inst.Approved)
	assert.False(t, inst.Active)
	assert.True(t, inst.CheckPassword("segredo1"))
	assert.False(t, inst.CheckPassword("errada"))
}

func TestCanLogin(t *testing.T) {
	inst := &Institution{}
	assert.False(t, inst.CanLogin())

	inst.Approve("admin")
	assert.True(t, inst.CanLogin())
	assert.True(t, inst.Approved)
	assert.NotNil(t, inst.ApprovedAt)

	inst.Active = false
	assert.False(t, inst.CanLogin())
}
