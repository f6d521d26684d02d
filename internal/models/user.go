package models

import (
	"fmt"
	"time"

	"github.com/GregMSThompson/decision-backend/internal/errs"
)

// UserPreferences are per-user defaults applied to new decisions. They are
// stored on the user document under "preferences".
type UserPreferences struct {
	UID             string    `firestore:"uid" json:"uid"`
	DefaultRoles    []Role    `firestore:"defaultRoles" json:"defaultRoles"`
	DefaultDepth    Depth     `firestore:"defaultDepth" json:"defaultDepth"`
	DefaultLevel    Level     `firestore:"defaultLevel" json:"defaultLevel"`
	DefaultLanguage Language  `firestore:"defaultLanguage" json:"defaultLanguage"`
	UpdatedAt       time.Time `firestore:"updatedAt" json:"updatedAt"`
}

func BuiltinPreferences(uid string) *UserPreferences {
	return &UserPreferences{
		UID:             uid,
		DefaultRoles:    append([]Role(nil), DefaultRoles...),
		DefaultDepth:    DefaultDepth,
		DefaultLevel:    DefaultLevel,
		DefaultLanguage: DefaultLanguage,
	}
}

// Validate allows empty fields (meaning "use the built-in default") but
// rejects unknown values.
func (p UserPreferences) Validate() error {
	for _, r := range p.DefaultRoles {
		if !r.Valid() {
			return errs.NewValidationError(fmt.Sprintf("invalid role: %s", r))
		}
	}
	if p.DefaultDepth != "" && !p.DefaultDepth.Valid() {
		return errs.NewValidationError(fmt.Sprintf("invalid depth: %s", p.DefaultDepth))
	}
	if p.DefaultLevel != "" && !p.DefaultLevel.Valid() {
		return errs.NewValidationError(fmt.Sprintf("invalid level: %s", p.DefaultLevel))
	}
	if p.DefaultLanguage != "" && !p.DefaultLanguage.Valid() {
		return errs.NewValidationError(fmt.Sprintf("invalid language: %s", p.DefaultLanguage))
	}
	return nil
}
