// Package jobs holds the active job requirement and the catalogue of known job titles.
package jobs

import "sync"

// Requirement is the active job title and the skills a resume is scored against.
type Requirement struct {
	JobTitle       string   `json:"job_title"`
	RequiredSkills []string `json:"skills"`
}

func (r Requirement) clone() Requirement {
	skills := make([]string, len(r.RequiredSkills))
	copy(skills, r.RequiredSkills)
	return Requirement{JobTitle: r.JobTitle, RequiredSkills: skills}
}

// Store is the process-wide requirement. It starts empty and is replaced wholesale.
type Store struct {
	mu      sync.RWMutex
	current Requirement
}

func NewStore() *Store {
	return &Store{current: Requirement{RequiredSkills: []string{}}}
}

// Current returns a copy safe to hold across a whole scoring pass.
func (s *Store) Current() Requirement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.clone()
}

func (s *Store) Replace(r Requirement) {
	next := r.clone()
	s.mu.Lock()
	s.current = next
	s.mu.Unlock()
}
