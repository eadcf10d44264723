// Package institution provides the multi-tenant institution catalog:
// self-service registration, administrative approval, and removal with
// orphan reassignment of beneficiaries and ledger attribution.
package institution

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/apperror"
	"github.com/Edmilson-999/Sistema-stock-sv/internal/core/id"
)

// Types an institution can register as.
var Types = []string{
	"ong",
	"governo",
	"religiosa",
	"empresa",
	"cooperativa",
	"associacao",
	"fundacao",
	"outro",
}

// Institution represents one relief organization (tenant).
type Institution struct {
	ID id.ID `db:"id" json:"id"`

	Name     string `db:"name" json:"name"`
	Username string `db:"username" json:"username"`
	Email    string `db:"email" json:"email"`

	Phone       string `db:"phone" json:"phone,omitempty"`
	Address     string `db:"address" json:"address,omitempty"`
	ContactName string `db:"contact_name" json:"contactName"`

	// Type is one of Types
	Type          string `db:"type" json:"type"`
	LegalDocument string `db:"legal_document" json:"legalDocument,omitempty"`
	Description   string `db:"description" json:"description,omitempty"`

	PasswordHash string `db:"password_hash" json:"-"`

	// Approval workflow: created pending, activated by an administrator
	Approved   bool       `db:"approved" json:"approved"`
	Active     bool       `db:"active" json:"active"`
	ApprovedBy string     `db:"approved_by" json:"approvedBy,omitempty"`
	ApprovedAt *time.Time `db:"approved_at" json:"approvedAt,omitempty"`

	// IsAdmin marks the administrative tenant; the fallback owner for
	// orphaned beneficiaries must be an admin institution.
	IsAdmin bool `db:"is_admin" json:"isAdmin"`

	AdminNotes string    `db:"admin_notes" json:"-"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// Registration is the self-service signup payload.
type Registration struct {
	Name          string `json:"name"`
	Username      string `json:"username"`
	Password      string `json:"password"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	ContactName   string `json:"contactName"`
	Type          string `json:"type"`
	LegalDocument string `json:"legalDocument"`
	Description   string `json:"description"`
}

var (
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	phonePattern    = regexp.MustCompile(`^[\d\s\+\-\(\)]+$`)
)

// Validate checks the registration payload and returns every problem at once.
func (r Registration) Validate() error {
	var problems []string

	if strings.TrimSpace(r.Name) == "" {
		problems = append(problems, "name is required")
	}
	if strings.TrimSpace(r.ContactName) == "" {
		problems = append(problems, "contact name is required")
	}

	username := strings.TrimSpace(r.Username)
	switch {
	case username == "":
		problems = append(problems, "username is required")
	case len(username) < 3:
		problems = append(problems, "username must have at least 3 characters")
	case !usernamePattern.MatchString(username):
		problems = append(problems, "username may contain only letters, digits and underscore")
	}

	if r.Password == "" {
		problems = append(problems, "password is required")
	} else if len(r.Password) < 6 {
		problems = append(problems, "password must have at least 6 characters")
	}

	email := strings.TrimSpace(r.Email)
	if email == "" {
		problems = append(problems, "email is required")
	} else if !emailPattern.MatchString(email) {
		problems = append(problems, "email is invalid")
	}

	if !validType(r.Type) {
		problems = append(problems, "institution type is invalid")
	}

	if phone := strings.TrimSpace(r.Phone); phone != "" && !phonePattern.MatchString(phone) {
		problems = append(problems, "phone is invalid")
	}

	if len(problems) > 0 {
		return apperror.NewValidation(strings.Join(problems, "; ")).
			WithDetail("problems", problems)
	}
	return nil
}

func validType(t string) bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

// NewFromRegistration builds a pending, inactive institution.
func NewFromRegistration(r Registration) (*Institution, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(r.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	return &Institution{
		ID:            id.New(),
		Name:          strings.TrimSpace(r.Name),
		Username:      strings.ToLower(strings.TrimSpace(r.Username)),
		Email:         strings.ToLower(strings.TrimSpace(r.Email)),
		Phone:         strings.TrimSpace(r.Phone),
		Address:       strings.TrimSpace(r.Address),
		ContactName:   strings.TrimSpace(r.ContactName),
		Type:          r.Type,
		LegalDocument: strings.TrimSpace(r.LegalDocument),
		Description:   strings.TrimSpace(r.Description),
		PasswordHash:  string(hash),
		Approved:      false,
		Active:        false,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

// CheckPassword verifies a login attempt.
func (i *Institution) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(i.PasswordHash), []byte(password)) == nil
}

// CanLogin reports whether the institution may authenticate.
func (i *Institution) CanLogin() bool {
	return i.Active && i.Approved
}

// Approve transitions a pending institution to approved and active.
func (i *Institution) Approve(approvedBy string) {
	now := time.Now().UTC()
	i.Approved = true
	i.Active = true
	i.ApprovedBy = approvedBy
	i.ApprovedAt = &now
}
