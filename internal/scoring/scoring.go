// Package scoring computes the weighted match between a profile and the job requirement.
package scoring

import (
	"math"
	"sort"
	"strings"

	"github.com/muhammadolammi/resumind/internal/analyzer"
	"github.com/muhammadolammi/resumind/internal/jobs"
)

// Component weights; they sum to 1.
const (
	skillsWeight         = 0.50
	experienceWeight     = 0.20
	educationWeight      = 0.10
	certificationsWeight = 0.10
	projectsWeight       = 0.10
)

const (
	experienceCapYears  = 10
	certificationsCap   = 5
	projectsCap         = 10
	maxScore            = 100
	componentScoreScale = 100.0
)

var educationScores = map[analyzer.EducationLevel]int{
	analyzer.EducationPhD:      100,
	analyzer.EducationMaster:   80,
	analyzer.EducationBachelor: 60,
	analyzer.EducationDiploma:  40,
	analyzer.EducationNone:     0,
}

// Breakdown is the per-component detail stored with a report.
type Breakdown struct {
	TotalScore            int                     `json:"total_score"`
	RequiredSkillsMatched []string                `json:"required_skills_matched"`
	RequiredSkillsMissing []string                `json:"required_skills_missing"`
	ExperienceYears       float64                 `json:"experience_years"`
	EducationLevel        analyzer.EducationLevel `json:"education_level"`
	EducationScore        int                     `json:"education_score"`
	CertificationsCount   int                     `json:"certifications_count"`
	ProjectsCount         int                     `json:"projects_count"`

	SkillScore          float64 `json:"skill_score"`
	ExperienceScore     float64 `json:"experience_score"`
	CertificationsScore float64 `json:"certifications_score"`
	ProjectsScore       float64 `json:"projects_score"`
}

// Score is deterministic; it is rerun for every resume whenever the requirement changes.
func Score(p analyzer.Profile, req jobs.Requirement) Breakdown {
	matched, missing := compareSkills(p.Skills, req.RequiredSkills)

	skillScore := 0.0
	if required := len(matched) + len(missing); required > 0 {
		skillScore = float64(len(matched)) / float64(required) * componentScoreScale
	}

	expScore := math.Min(math.Max(p.ExperienceYears, 0), experienceCapYears) / experienceCapYears * componentScoreScale
	eduScore := educationScores[p.Education]
	certScore := float64(min(len(p.Certifications), certificationsCap)) / certificationsCap * componentScoreScale
	projScore := float64(min(max(p.ProjectsCount, 0), projectsCap)) / projectsCap * componentScoreScale

	total := skillScore*skillsWeight +
		expScore*experienceWeight +
		float64(eduScore)*educationWeight +
		certScore*certificationsWeight +
		projScore*projectsWeight

	education := p.Education
	if education == "" {
		education = analyzer.EducationNone
	}

	return Breakdown{
		TotalScore:            clamp(int(total)),
		RequiredSkillsMatched: matched,
		RequiredSkillsMissing: missing,
		ExperienceYears:       p.ExperienceYears,
		EducationLevel:        education,
		EducationScore:        eduScore,
		CertificationsCount:   len(p.Certifications),
		ProjectsCount:         p.ProjectsCount,
		SkillScore:            skillScore,
		ExperienceScore:       expScore,
		CertificationsScore:   certScore,
		ProjectsScore:         projScore,
	}
}

// compareSkills works on lowercase sets; both results are sorted.
func compareSkills(have, required []string) (matched, missing []string) {
	haveSet := make(map[string]bool, len(have))
	for _, s := range have {
		haveSet[strings.ToLower(s)] = true
	}

	seen := make(map[string]bool, len(required))
	matched = []string{}
	missing = []string{}
	for _, s := range required {
		key := strings.ToLower(s)
		if seen[key] {
			continue
		}
		seen[key] = true
		if haveSet[key] {
			matched = append(matched, key)
		} else {
			missing = append(missing, key)
		}
	}
	sort.Strings(matched)
	sort.Strings(missing)
	return matched, missing
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > maxScore {
		return maxScore
	}
	return score
}
