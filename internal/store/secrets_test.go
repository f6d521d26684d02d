package store

import "testing"

func TestSecretVersionName(t *testing.T) {
	s := &secretsStore{projectID: "decido"}

	cases := map[string]string{
		"gemini-api-key":                        "projects/decido/secrets/gemini-api-key/versions/latest",
		"projects/other/secrets/key":            "projects/other/secrets/key/versions/latest",
		"projects/other/secrets/key/versions/3": "projects/other/secrets/key/versions/3",
	}
	for in, want := range cases {
		if got := s.versionName(in); got != want {
			t.Fatalf("versionName(%q) = %q, want %q", in, got, want)
		}
	}
}
