package analyzer

// skillVocabulary is the fixed list of canonical skill names searched in resume text.
// "Social Media Strategy" appears twice; matching deduplicates it.
var skillVocabulary = []string{
	"Python", "Java", "Git", "Problem Solving", "C++", "SQL", "Excel", "Communication", "Tableau", "Planning",
	"Leadership", "Risk Management", "Budgeting", "Scrum", "Time Management", "Conflict Resolution", "Figma",
	"Adobe XD", "Wireframing", "Creativity", "AWS", "Docker", "Kubernetes", "CI/CD", "Terraform", "Requirement Gathering",
	"Process Mapping", "Roadmap Planning", "Stakeholder Management", "Analytics", "Logistics", "Process Improvement",
	"Recruitment", "Payroll", "Employee Engagement", "Onboarding", "Candidate Sourcing", "Interviewing", "Networking",
	"ATS", "Job Descriptions", "SEO", "Content Marketing", "Brand Management", "Social Media Strategy", "Email Marketing",
	"Campaign Planning", "Writing", "Research", "Editing", "Copywriting", "Blogging", "Storytelling", "Content Strategy",
	"Adobe Photoshop", "Illustrator", "Branding", "Typography", "Layout Design", "Motion Graphics", "Color Theory",
	"Premiere Pro", "After Effects", "Color Grading", "Sound Editing", "Transitions", "Social Media Strategy",
	"Content Creation", "Community Management", "Advertising", "Accounting", "Financial Modeling", "Forecasting",
	"Valuation", "Investment Analysis", "Regulations", "Audit", "Policy", "Risk Assessment", "Internal Controls",
	"Training", "Legal Compliance", "Contract Law", "Negotiation", "Compliance", "Intellectual Property", "Corporate Law",
	"Litigation Support", "Drafting Legal Documents", "CRM", "Patience", "Troubleshooting", "Hardware/Software Knowledge",
	"Remote Assistance", "System Configuration", "Technical Writing", "Organization", "Scheduling", "Office Management",
	"Meeting Coordination", "Data Entry",
}

// Vocabulary returns a copy of the canonical skill list.
func Vocabulary() []string {
	out := make([]string, len(skillVocabulary))
	copy(out, skillVocabulary)
	return out
}
