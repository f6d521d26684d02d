package models

import (
	"fmt"
	"strings"

	"github.com/GregMSThompson/decision-backend/internal/errs"
	"github.com/GregMSThompson/decision-backend/pkg/helpers"
)

var DefaultRoles = []Role{RoleAnalyst, RoleRealist, RoleSkeptic}

const (
	DefaultDepth    = DepthDeep
	DefaultLevel    = LevelDetailed
	DefaultLanguage = LanguageEnglish
)

// ApplyDefaults fills empty settings from the user's preferences first and
// the built-in defaults second. prefs may be nil.
func (in *DecisionInput) ApplyDefaults(prefs *UserPreferences) {
	var p UserPreferences
	if prefs != nil {
		p = *prefs
	}
	if in.EnabledRoles == nil {
		switch {
		case len(p.DefaultRoles) > 0:
			in.EnabledRoles = append([]Role(nil), p.DefaultRoles...)
		default:
			in.EnabledRoles = append([]Role(nil), DefaultRoles...)
		}
	}
	in.Depth = helpers.FirstNonZero(in.Depth, p.DefaultDepth, DefaultDepth)
	in.Level = helpers.FirstNonZero(in.Level, p.DefaultLevel, DefaultLevel)
	in.Language = helpers.FirstNonZero(in.Language, p.DefaultLanguage, DefaultLanguage)
}

// Validate reports the first problem with the input as a ValidationError.
// An explicitly empty role list is rejected; a nil one is defaulted by
// ApplyDefaults.
func (in DecisionInput) Validate() error {
	if strings.TrimSpace(in.Question) == "" {
		return errs.NewValidationError("Question is required.")
	}
	if strings.TrimSpace(in.Context) == "" {
		return errs.NewValidationError("Context is required.")
	}
	if len(in.EnabledRoles) == 0 {
		return errs.NewValidationError("Enable at least one reasoning agent.")
	}
	for _, r := range in.EnabledRoles {
		if !r.Valid() {
			return errs.NewValidationError(fmt.Sprintf("invalid role: %s", r))
		}
	}
	if !in.Depth.Valid() {
		return errs.NewValidationError(fmt.Sprintf("invalid depth: %s", in.Depth))
	}
	if !in.Level.Valid() {
		return errs.NewValidationError(fmt.Sprintf("invalid level: %s", in.Level))
	}
	if !in.Language.Valid() {
		return errs.NewValidationError(fmt.Sprintf("invalid language: %s", in.Language))
	}
	for _, m := range in.Media {
		if m.MIMEType == "" || m.Payload() == "" {
			return errs.NewValidationError("invalid media attachment")
		}
	}
	return nil
}
