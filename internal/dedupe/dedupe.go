// Package dedupe decides whether a newly parsed profile is already stored for its owner.
package dedupe

import (
	"github.com/google/uuid"

	"github.com/muhammadolammi/resumind/internal/analyzer"
)

// Stored is an existing profile together with the owner it belongs to.
type Stored struct {
	OwnerID uuid.UUID
	Profile analyzer.Profile
}

type identityField struct {
	name string
	get  func(analyzer.Profile) string
}

var identityFields = []identityField{
	{"email", func(p analyzer.Profile) string { return p.Email }},
	{"phone", func(p analyzer.Profile) string { return p.Phone }},
	{"linkedin", func(p analyzer.Profile) string { return p.LinkedInURL }},
	{"github", func(p analyzer.Profile) string { return p.GitHubURL }},
	{"name", func(p analyzer.Profile) string { return p.Name }},
}

// Match reports the first identity field (email, phone, linkedin, github, name) on which
// candidate exactly equals a stored profile of the same owner. Empty fields never match.
func Match(candidate analyzer.Profile, ownerID uuid.UUID, existing []Stored) (string, bool) {
	for _, f := range identityFields {
		want := f.get(candidate)
		if want == "" {
			continue
		}
		for _, s := range existing {
			if s.OwnerID != ownerID {
				continue
			}
			if f.get(s.Profile) == want {
				return f.name, true
			}
		}
	}
	return "", false
}

func IsDuplicate(candidate analyzer.Profile, ownerID uuid.UUID, existing []Stored) bool {
	_, ok := Match(candidate, ownerID, existing)
	return ok
}
