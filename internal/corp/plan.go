package corp

// SkillPlan is one technical skill in the development plan
type SkillPlan struct {
	Skill        string   `json:"skill"`
	CurrentLevel string   `json:"current_level"`
	TargetLevel  string   `json:"target_level"`
	Activities   []string `json:"activities"`
	Deadline     string   `json:"deadline"`
}

// SoftSkillPlan is one soft skill with suggested activities
type SoftSkillPlan struct {
	Skill      string   `json:"skill"`
	Activities []string `json:"activities"`
}

// DevelopmentPlan is an employee's individual growth plan
type DevelopmentPlan struct {
	CurrentLevel    string          `json:"current_level"`
	TargetLevel     string          `json:"target_level"`
	SkillsToDevelop []SkillPlan     `json:"skills_to_develop"`
	SoftSkills      []SoftSkillPlan `json:"soft_skills"`
	NextReviewDate  string          `json:"next_review_date"`
}

// GetDevelopmentPlan returns the demo employee's plan
func GetDevelopmentPlan() DevelopmentPlan {
	return DevelopmentPlan{
		CurrentLevel: "Junior Developer",
		TargetLevel:  "Middle Developer",
		SkillsToDevelop: []SkillPlan{
			{
				Skill:        "Go",
				CurrentLevel: "Intermediate",
				TargetLevel:  "Advanced",
				Activities: []string{
					"Study advanced concurrency patterns (pipelines, worker pools)",
					"Build a pet project with a real service layout",
					"Read 'The Go Programming Language' by Donovan and Kernighan",
				},
				Deadline: "2024-03-01",
			},
			{
				Skill:        "Software Architecture",
				CurrentLevel: "Beginner",
				TargetLevel:  "Intermediate",
				Activities: []string{
					"Study common design patterns",
					"Read 'Clean Architecture' by Robert Martin",
					"Take part in the team's architecture reviews",
				},
				Deadline: "2024-04-01",
			},
			{
				Skill:        "Testing",
				CurrentLevel: "Beginner",
				TargetLevel:  "Intermediate",
				Activities: []string{
					"Get comfortable with table-driven tests",
					"Write integration tests for current projects",
					"Study the TDD workflow",
				},
				Deadline: "2024-02-15",
			},
		},
		SoftSkills: []SoftSkillPlan{
			{
				Skill: "Communication",
				Activities: []string{
					"Give technical presentations",
					"Leave constructive code review comments",
					"Mentor junior developers",
				},
			},
		},
		NextReviewDate: "2024-02-01",
	}
}
