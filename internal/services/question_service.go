package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/augentlabs/innovation-hub/internal/jsonutil"
)

// DevQuestion is one POC-validation question for the submitter.
type DevQuestion struct {
	Category  string   `json:"category"`
	Question  string   `json:"question"`
	Priority  string   `json:"priority"`
	Key       string   `json:"key"`
	FollowUps []string `json:"follow_ups"`
}

var validPriorities = map[string]bool{
	"Must Answer":   true,
	"Should Answer": true,
	"Nice to Have":  true,
}

// QuestionService generates development questions from research context.
type QuestionService struct {
	LLM Generator
}

func NewQuestionService(llm Generator) *QuestionService {
	return &QuestionService{LLM: llm}
}

const maxQuestions = 5

const questionPrompt = `You are an AI system generating development questions STRICTLY for a Proof of Concept (POC).

POC CONTEXT:
- POC Title: %s
- POC Description: %s

MARKET CONTEXT (for reference only - DO NOT ask questions about this):
- Similar solutions exist: %s

TASK:
Generate ONLY the ESSENTIAL questions (between 3-5 questions) needed to validate this POC. Generate FEWER questions if the POC is simple or straightforward. Only ask what is truly necessary.

QUESTION CATEGORIES (pick only the most relevant ones):
1. **Problem & Use Case** - What specific problem does this POC solve and for whom?
2. **Data & Inputs** - What data/inputs are needed to demonstrate the POC?
3. **Success Criteria** - What outcome proves the POC works?
4. **Technical Approach** - What is the core technical approach or method?
5. **Scope Boundaries** - What is explicitly in-scope vs out-of-scope?

CRITICAL RULES:
- Generate 3-5 questions MAXIMUM (fewer is better if sufficient)
- Focus ONLY on the POC itself - what needs to be built and demonstrated
- DO NOT mention company names in questions
- DO NOT ask about business strategy, ROI, competitors, or market positioning
- DO NOT ask about scaling, production deployment, or long-term plans
- Questions must be answerable by the person building the POC
- Keep questions short, clear, and actionable

GOOD EXAMPLES:
- "What specific problem does this POC solve?"
- "What data or inputs will be used to test the POC?"
- "What output or result will demonstrate that the POC works?"
- "What is the core technical approach (e.g., API, ML model, automation script)?"

Return questions in this JSON format (3-5 questions only):
[
  {
    "category": "Problem & Use Case",
    "question": "Clear, direct POC question",
    "priority": "Must Answer",
    "key": "problem_1",
    "follow_ups": []
  }
]

Generate ONLY essential POC questions now (3-5 maximum):`

// GenerateQuestions asks for 3-5 POC-validation questions and normalizes
// the reply: missing fields are defaulted, priorities are whitelisted and
// the list is capped at five.
func (s *QuestionService) GenerateQuestions(ctx context.Context, company *CompanyResearch, idea *IdeaResearch, ideaTitle, ideaDescription string) []DevQuestion {
	if s.LLM == nil {
		log.Println("⚠️ Question generation skipped: AI service not available")
		return []DevQuestion{}
	}
	log.Println("❓ Generating AI-powered development questions")

	existing := summarizeImplementers(idea)
	reply, err := s.LLM.Generate(ctx, fmt.Sprintf(questionPrompt, ideaTitle, ideaDescription, existing))
	if err != nil {
		log.Printf("❌ Question generation failed: %v", err)
		return []DevQuestion{}
	}

	var questions []DevQuestion
	if err := jsonutil.Extract(reply, &questions); err != nil || len(questions) == 0 {
		log.Printf("❌ Question generation produced no usable questions")
		return []DevQuestion{}
	}

	if len(questions) > maxQuestions {
		questions = questions[:maxQuestions]
	}

	for i := range questions {
		q := &questions[i]
		if q.Category == "" {
			q.Category = "General"
		}
		if !validPriorities[q.Priority] {
			q.Priority = "Must Answer"
		}
		if q.Key == "" {
			q.Key = fmt.Sprintf("question_%d", i+1)
		}
		if q.FollowUps == nil {
			q.FollowUps = []string{}
		}
	}

	log.Printf("✅ Generated %d personalized development questions", len(questions))
	return questions
}

func summarizeImplementers(idea *IdeaResearch) string {
	if idea == nil || len(idea.WhoIsImplementing) == 0 {
		return "None found"
	}
	var lines []string
	for i, impl := range idea.WhoIsImplementing {
		if i >= 15 {
			break
		}
		lines = append(lines, fmt.Sprintf("- %s: %s", impl.Name, impl.Description))
	}
	return strings.Join(lines, "\n")
}
