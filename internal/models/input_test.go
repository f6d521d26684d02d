package models

import (
	"errors"
	"testing"

	"github.com/GregMSThompson/decision-backend/internal/errs"
)

func validInput() DecisionInput {
	return DecisionInput{
		Question: "Should we expand to Pune?",
		Context:  "Revenue flat, hiring costs rising.",
	}
}

func TestApplyDefaultsBuiltin(t *testing.T) {
	in := validInput()
	in.ApplyDefaults(nil)

	if len(in.EnabledRoles) != 3 || in.EnabledRoles[0] != RoleAnalyst || in.EnabledRoles[1] != RoleRealist || in.EnabledRoles[2] != RoleSkeptic {
		t.Fatalf("unexpected default roles: %v", in.EnabledRoles)
	}
	if in.Depth != DepthDeep || in.Level != LevelDetailed || in.Language != LanguageEnglish {
		t.Fatalf("unexpected defaults: %+v", in)
	}
}

func TestApplyDefaultsPrefersUserPreferences(t *testing.T) {
	in := validInput()
	in.Level = LevelTechnical
	in.ApplyDefaults(&UserPreferences{
		DefaultRoles:    []Role{RoleEthicist},
		DefaultDepth:    DepthQuick,
		DefaultLevel:    LevelSimple,
		DefaultLanguage: LanguageHindi,
	})

	if len(in.EnabledRoles) != 1 || in.EnabledRoles[0] != RoleEthicist {
		t.Fatalf("roles = %v", in.EnabledRoles)
	}
	if in.Depth != DepthQuick || in.Language != LanguageHindi {
		t.Fatalf("preferences not applied: %+v", in)
	}
	if in.Level != LevelTechnical {
		t.Fatalf("explicit level overwritten: %s", in.Level)
	}
}

func TestApplyDefaultsKeepsExplicitEmptyRoles(t *testing.T) {
	in := validInput()
	in.EnabledRoles = []Role{}
	in.ApplyDefaults(nil)

	err := in.Validate()
	var valErr *errs.ValidationError
	if !errors.As(err, &valErr) || valErr.Message != "Enable at least one reasoning agent." {
		t.Fatalf("expected roles validation error, got %v", err)
	}
}

func TestValidateOrder(t *testing.T) {
	cases := []struct {
		name string
		in   DecisionInput
		want string
	}{
		{"missing question", DecisionInput{Question: "  ", Context: ""}, "Question is required."},
		{"missing context", DecisionInput{Question: "q", Context: "\n"}, "Context is required."},
		{"bad role", DecisionInput{Question: "q", Context: "c", EnabledRoles: []Role{"Oracle"}}, "invalid role: Oracle"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := tc.in
			in.ApplyDefaults(nil)
			err := in.Validate()
			var valErr *errs.ValidationError
			if !errors.As(err, &valErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if valErr.Message != tc.want {
				t.Fatalf("message = %q, want %q", valErr.Message, tc.want)
			}
		})
	}
}

func TestValidateMedia(t *testing.T) {
	in := validInput()
	in.ApplyDefaults(nil)
	in.Media = []MediaAttachment{{Data: "aGVsbG8=", MIMEType: ""}}

	if err := in.Validate(); err == nil {
		t.Fatalf("expected error for media without mime type")
	}

	in.Media = []MediaAttachment{{MIMEType: "image/png", URL: "https://media.example/x.png"}}
	if err := in.Validate(); err == nil {
		t.Fatalf("expected error for media with a url but no data")
	}

	in.Media = []MediaAttachment{{Data: "data:image/png;base64,", MIMEType: "image/png"}}
	if err := in.Validate(); err == nil {
		t.Fatalf("expected error for a data url with no payload")
	}

	in.Media = []MediaAttachment{{Data: "data:image/png;base64,aGVsbG8=", MIMEType: "image/png"}}
	if err := in.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMediaPayloadStripsDataURL(t *testing.T) {
	m := MediaAttachment{Data: "data:image/png;base64,aGVsbG8=", MIMEType: "image/png"}
	if m.Payload() != "aGVsbG8=" {
		t.Fatalf("payload = %q", m.Payload())
	}
	raw, err := m.Bytes()
	if err != nil || string(raw) != "hello" {
		t.Fatalf("bytes = %q, err = %v", raw, err)
	}

	bare := MediaAttachment{Data: "aGVsbG8=", MIMEType: "image/png"}
	if bare.Payload() != "aGVsbG8=" {
		t.Fatalf("bare payload changed: %q", bare.Payload())
	}
}

func TestNextStepClamps(t *testing.T) {
	last := len(LoadingSteps) - 1
	if NextStep(0) != 1 {
		t.Fatalf("NextStep(0) = %d", NextStep(0))
	}
	if NextStep(last) != last {
		t.Fatalf("NextStep(last) = %d", NextStep(last))
	}
	if LoadingSteps[0].Agent != "System" || LoadingSteps[last].Agent != "Arbiter" || LoadingSteps[last].Progress != 95 {
		t.Fatalf("unexpected step table: %+v", LoadingSteps)
	}
}

func TestPreferencesValidate(t *testing.T) {
	if err := (UserPreferences{}).Validate(); err != nil {
		t.Fatalf("empty preferences should be valid: %v", err)
	}
	if err := (UserPreferences{DefaultLanguage: "Klingon"}).Validate(); err == nil {
		t.Fatalf("expected invalid language error")
	}
}
