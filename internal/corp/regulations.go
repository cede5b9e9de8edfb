package corp

import "strings"

// Regulation is one corporate policy entry
type Regulation struct {
	Topic    string `json:"topic"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// regulationOrder keeps search results in a stable, documented order
var regulationOrder = []string{
	"working_hours",
	"vacation_policy",
	"remote_work",
	"dress_code",
	"sick_leave",
	"equipment_policy",
	"learning_budget",
}

var regulations = map[string]Regulation{
	"working_hours": {
		Topic:    "working_hours",
		Question: "What are the company working hours?",
		Answer:   "Working hours are 9:00-18:00 local time. A flexible schedule of up to 2 hours either way can be agreed with your manager. Lunch break is 13:00-14:00.",
	},
	"vacation_policy": {
		Topic:    "vacation_policy",
		Question: "How do I request vacation?",
		Answer:   "Vacation is requested through the HR system at least 2 weeks in advance. You are entitled to 28 calendar days of vacation per year. Vacations longer than 5 days require manager approval.",
	},
	"remote_work": {
		Topic:    "remote_work",
		Question: "What is the remote work policy?",
		Answer:   "Remote work is allowed up to 3 days per week with manager approval. Fully remote arrangements are reviewed case by case. Office attendance is mandatory on Tuesdays and Thursdays.",
	},
	"dress_code": {
		Topic:    "dress_code",
		Question: "Is there a dress code?",
		Answer:   "The dress code is business casual. Client meetings require business attire. Fridays are casual. Not allowed: shorts, open footwear, printed tank tops.",
	},
	"sick_leave": {
		Topic:    "sick_leave",
		Question: "How do I report sick leave?",
		Answer:   "If you are ill, notify your manager before 10:00. Provide a doctor's note within 3 days. Short absences of 1-2 days can be taken without a note, up to 5 days per year.",
	},
	"equipment_policy": {
		Topic:    "equipment_policy",
		Question: "What is the policy on work equipment?",
		Answer:   "Work laptops may be taken home for remote work. Installing unlicensed software is prohibited. Personal internet use should stay within reason. Any configuration changes must be agreed with IT.",
	},
	"learning_budget": {
		Topic:    "learning_budget",
		Question: "Is there a learning budget?",
		Answer:   "The annual learning budget is $1,000 per employee. It covers courses, books and conferences. Prior approval from your manager and HR is required. After the training, share a short report on what you learned.",
	},
}

// synonyms widens a query with related terms so short questions still
// land on the right topic
var synonyms = map[string][]string{
	"dress code":    {"clothing", "attire", "outfit", "what to wear"},
	"clothing":      {"dress code", "attire", "outfit"},
	"vacation":      {"holiday", "pto", "time off", "days off"},
	"remote":        {"work from home", "wfh", "telecommute", "home office"},
	"sick":          {"sick leave", "illness", "doctor"},
	"working hours": {"schedule", "office hours", "work day"},
	"learning":      {"training", "courses", "education", "budget"},
	"equipment":     {"laptop", "hardware", "computer"},
}

// normalizeText lowercases, folds dashes and underscores to spaces and
// collapses whitespace
func normalizeText(text string) string {
	text = strings.ToLower(text)
	text = strings.ReplaceAll(text, "-", " ")
	text = strings.ReplaceAll(text, "_", " ")
	return strings.Join(strings.Fields(text), " ")
}

// searchKeywords expands a query into the keyword set used for matching:
// the normalized query, the synonyms of the first matching entry, and
// the individual words of a multi-word query.
func searchKeywords(query string) []string {
	normalized := normalizeText(query)
	keywords := []string{normalized}

	for key, values := range synonyms {
		if strings.Contains(normalized, key) || strings.Contains(key, normalized) {
			keywords = append(keywords, values...)
			break
		}
	}

	words := strings.Fields(normalized)
	if len(words) > 1 {
		keywords = append(keywords, words...)
	}

	return keywords
}

// SearchRegulations finds every policy entry matching the query by
// keyword containment over the question, the answer and the topic key.
// Results come back in catalog order, one entry per topic. An empty
// query matches nothing.
func SearchRegulations(query string) []Regulation {
	if strings.TrimSpace(query) == "" {
		return nil
	}

	keywords := searchKeywords(query)
	var results []Regulation

	for _, topic := range regulationOrder {
		reg := regulations[topic]
		question := normalizeText(reg.Question)
		answer := normalizeText(reg.Answer)
		topicText := strings.ReplaceAll(topic, "_", " ")

		for _, keyword := range keywords {
			if strings.Contains(question, keyword) ||
				strings.Contains(answer, keyword) ||
				strings.Contains(topicText, keyword) {
				results = append(results, reg)
				break
			}
		}
	}

	return results
}

// AllRegulations returns the full catalog in stable order
func AllRegulations() []Regulation {
	results := make([]Regulation, 0, len(regulationOrder))
	for _, topic := range regulationOrder {
		results = append(results, regulations[topic])
	}
	return results
}
