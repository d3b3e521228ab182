package jobs

type entry struct {
	title  string
	skills []string
}

var catalogue = []entry{
	{"Software Engineer", []string{"Python", "Java", "Git", "Problem Solving", "C++"}},
	{"Data Analyst", []string{"Python", "SQL", "Excel", "Communication", "Tableau"}},
	{"Project Manager", []string{"Planning", "Leadership", "Communication", "Risk Management", "Budgeting", "Scrum", "Time Management", "Conflict Resolution"}},
	{"UI/UX Designer", []string{"Figma", "Adobe XD", "Wireframing", "Creativity"}},
	{"DevOps Engineer", []string{"AWS", "Docker", "Kubernetes", "CI/CD", "Terraform"}},
	{"Business Analyst", []string{"Requirement Gathering", "SQL", "Communication", "Process Mapping"}},
	{"Product Manager", []string{"Roadmap Planning", "Stakeholder Management", "Analytics"}},
	{"Operations Manager", []string{"Logistics", "Planning", "Process Improvement", "Leadership"}},
	{"HR Specialist", []string{"Recruitment", "Payroll", "Communication", "Employee Engagement", "Onboarding"}},
	{"Recruiter", []string{"Candidate Sourcing", "Interviewing", "Networking", "ATS", "Job Descriptions"}},
	{"Marketing Manager", []string{"SEO", "Content Marketing", "Analytics", "Creativity", "Brand Management", "Social Media Strategy", "Email Marketing", "Campaign Planning"}},
	{"Content Writer", []string{"Writing", "Research", "SEO", "Editing", "Copywriting", "Blogging", "Storytelling", "Content Strategy"}},
	{"Graphic Designer", []string{"Adobe Photoshop", "Illustrator", "Creativity", "Branding", "Typography", "Layout Design", "Motion Graphics", "Color Theory"}},
	{"Video Editor", []string{"Premiere Pro", "After Effects", "Storytelling", "Creativity", "Color Grading", "Sound Editing", "Motion Graphics", "Transitions"}},
	{"Social Media Manager", []string{"Social Media Strategy", "Content Creation", "Analytics", "Community Management", "Advertising"}},
	{"Accountant", []string{"Accounting", "Excel", "Taxation", "Reporting", "Bookkeeping", "Financial Statements", "Budgeting", "Audit Compliance"}},
	{"Financial Analyst", []string{"Excel", "Financial Modeling", "Analytics", "Forecasting", "Valuation", "Investment Analysis", "Budgeting", "Power BI"}},
	{"Compliance Officer", []string{"Regulations", "Audit", "Policy", "Reporting", "Risk Assessment", "Internal Controls", "Training", "Legal Compliance"}},
	{"Legal Advisor", []string{"Contract Law", "Negotiation", "Compliance", "Research", "Intellectual Property", "Corporate Law", "Litigation Support", "Drafting Legal Documents"}},
	{"Customer Support", []string{"Communication", "Problem Solving", "CRM", "Patience", "Conflict Resolution", "Product Knowledge", "Active Listening", "Ticketing Systems"}},
	{"Sales Executive", []string{"Negotiation", "CRM", "Networking", "Communication", "Lead Generation", "Customer Retention"}},
	{"Technical Support", []string{"Troubleshooting", "Communication", "Hardware/Software Knowledge", "Patience", "Remote Assistance", "Documentation", "System Configuration", "Technical Writing"}},
	{"Administrative Assistant", []string{"Organization", "Communication", "Scheduling", "Documentation", "Time Management", "Office Management", "Meeting Coordination", "Data Entry"}},
}

// Title is a catalogue listing entry; IDs are 1-based catalogue positions.
type Title struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

func Titles() []Title {
	out := make([]Title, len(catalogue))
	for i, e := range catalogue {
		out[i] = Title{ID: i + 1, Title: e.title}
	}
	return out
}

// SkillsFor returns the default skills for title, or an empty list for unknown titles.
func SkillsFor(title string) []string {
	for _, e := range catalogue {
		if e.title == title {
			out := make([]string, len(e.skills))
			copy(out, e.skills)
			return out
		}
	}
	return []string{}
}
