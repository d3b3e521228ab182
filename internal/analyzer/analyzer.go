// Package analyzer extracts a structured candidate profile from resume plain text.
//
// The heuristics are deliberately simple and their quirks are part of the contract:
// report consumers rely on them (for example projects are counted by keyword).
package analyzer

import (
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxRawTextLength bounds Profile.RawText, in runes.
const MaxRawTextLength = 20000

type EducationLevel string

const (
	EducationNone     EducationLevel = "none"
	EducationDiploma  EducationLevel = "diploma"
	EducationBachelor EducationLevel = "bachelor"
	EducationMaster   EducationLevel = "master"
	EducationPhD      EducationLevel = "phd"
)

// Profile is the structured result of parsing one resume. Empty strings mean "not found".
type Profile struct {
	Name            string         `json:"name,omitempty"`
	Email           string         `json:"email,omitempty"`
	Phone           string         `json:"phone,omitempty"`
	LinkedInURL     string         `json:"linkedin,omitempty"`
	GitHubURL       string         `json:"github,omitempty"`
	Skills          []string       `json:"skills"`
	Education       EducationLevel `json:"education"`
	ProjectsCount   int            `json:"projects_count"`
	Certifications  []string       `json:"certifications"`
	ExperienceYears float64        `json:"experience_years"`
	RawText         string         `json:"-"`
}

var (
	emailRe    = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phoneRe    = regexp.MustCompile(`\+?\d[\d\s\-()]{8,}`)
	linkedinRe = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?linkedin\.com/[^\s)]+`)
	githubRe   = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?github\.com/[^\s)]+`)
	nameRe     = regexp.MustCompile(`^[A-Za-z .'-]+$`)
	certRe     = regexp.MustCompile(`(?i)(?:certified in|certificate in|certification in)\s+([A-Za-z &]+)`)
)

// educationTokens is checked in order; the first level with any token present wins.
var educationTokens = []struct {
	level  EducationLevel
	tokens []string
}{
	{EducationPhD, []string{"phd", "doctorate"}},
	{EducationMaster, []string{"master", "msc"}},
	{EducationBachelor, []string{"bachelor", "bsc", "be"}},
	{EducationDiploma, []string{"diploma"}},
}

// Analyzer holds the clock used to resolve "Present"/"Current" date ranges.
type Analyzer struct {
	now func() time.Time
}

type Option func(*Analyzer)

func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		a.now = now
	}
}

func New(opts ...Option) *Analyzer {
	a := &Analyzer{now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var defaultAnalyzer = New()

// Analyze parses text with the wall clock.
func Analyze(text string) Profile {
	return defaultAnalyzer.Analyze(text)
}

// Analyze never fails; fields that find nothing keep their zero value.
func (a *Analyzer) Analyze(text string) Profile {
	lower := strings.ToLower(text)

	p := Profile{
		Email:           emailRe.FindString(text),
		Phone:           strings.TrimSpace(phoneRe.FindString(text)),
		LinkedInURL:     normalizeURL(linkedinRe.FindString(text)),
		GitHubURL:       normalizeURL(githubRe.FindString(text)),
		Name:            GuessName(text),
		Skills:          ExtractSkills(text),
		Education:       DetectEducation(lower),
		ProjectsCount:   strings.Count(lower, "project"),
		Certifications:  ExtractCertifications(text),
		ExperienceYears: a.ExperienceYears(text),
		RawText:         truncateRunes(text, MaxRawTextLength),
	}
	return p
}

func normalizeURL(u string) string {
	if u == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(u), "http") {
		return "https://" + u
	}
	return u
}

// GuessName returns the first line that looks like a 2–3 word personal name.
// Best effort only.
func GuessName(text string) string {
	for _, line := range strings.Split(text, "\n") {
		cand := strings.TrimSpace(line)
		n := utf8.RuneCountInString(cand)
		if n < 5 || n > 60 {
			continue
		}
		words := len(strings.Fields(cand))
		if words != 2 && words != 3 {
			continue
		}
		if nameRe.MatchString(cand) {
			return cand
		}
	}
	return ""
}

// ExtractSkills matches the vocabulary case-insensitively as substrings and returns the
// canonical names ordered by where they first occur in the text.
func ExtractSkills(text string) []string {
	lower := strings.ToLower(text)
	type hit struct {
		skill string
		pos   int
	}
	seen := make(map[string]bool, len(skillVocabulary))
	hits := make([]hit, 0)
	for _, skill := range skillVocabulary {
		if seen[skill] {
			continue
		}
		pos := strings.Index(lower, strings.ToLower(skill))
		if pos < 0 {
			continue
		}
		seen[skill] = true
		hits = append(hits, hit{skill: skill, pos: pos})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	skills := make([]string, len(hits))
	for i, h := range hits {
		skills[i] = h.skill
	}
	return skills
}

// DetectEducation expects lowercased text.
func DetectEducation(lower string) EducationLevel {
	for _, e := range educationTokens {
		for _, tok := range e.tokens {
			if strings.Contains(lower, tok) {
				return e.level
			}
		}
	}
	return EducationNone
}

func ExtractCertifications(text string) []string {
	matches := certRe.FindAllStringSubmatch(text, -1)
	certs := make([]string, 0, len(matches))
	for _, m := range matches {
		if c := strings.TrimSpace(m[1]); c != "" {
			certs = append(certs, c)
		}
	}
	return certs
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max])
}
