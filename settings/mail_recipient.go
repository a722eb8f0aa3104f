package settings

import (
	"fmt"
	"net/mail"
	"strings"

	consoleerrors "github.com/jrsteele09/sop-console/internal/errors"
)

// RecipientType is how a recipient is addressed.
type RecipientType string

const (
	RecipientTo  RecipientType = "TO"
	RecipientCC  RecipientType = "CC"
	RecipientBCC RecipientType = "BCC"
)

// ParseRecipientType accepts TO, CC or BCC in any case.
func ParseRecipientType(s string) (RecipientType, error) {
	switch t := RecipientType(strings.ToUpper(strings.TrimSpace(s))); t {
	case RecipientTo, RecipientCC, RecipientBCC:
		return t, nil
	default:
		return "", consoleerrors.Wrapf(consoleerrors.ErrInvalidRequest, "recipient type %q", s)
	}
}

// MailRecipient receives the backend's scheduled mail.
type MailRecipient struct {
	ID      int64         `json:"id,omitempty"`
	Email   string        `json:"email"`
	Type    RecipientType `json:"type"`
	Enabled bool          `json:"enabled"`
	Note    string        `json:"note,omitempty"`
}

// Validate normalises the type and checks the address.
func (r *MailRecipient) Validate() error {
	t, err := ParseRecipientType(string(r.Type))
	if err != nil {
		return err
	}
	r.Type = t

	r.Email = strings.TrimSpace(r.Email)
	addr, err := mail.ParseAddress(r.Email)
	if err != nil || addr.Address != r.Email {
		return consoleerrors.Wrapf(consoleerrors.ErrInvalidRequest, "email %q", r.Email)
	}
	return nil
}

func validateAll(recipients []MailRecipient) error {
	for i := range recipients {
		if err := recipients[i].Validate(); err != nil {
			return fmt.Errorf("recipient %d: %w", i, err)
		}
	}
	return nil
}
