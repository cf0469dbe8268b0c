package dtos

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type IdeaSubmissionRequest struct {
	Title        string `json:"title" binding:"required"`
	OriginalIdea string `json:"original_idea" binding:"required"`
	CompanyName  string `json:"company_name" binding:"required"`

	// Optional Fields
	RephrasedIdea string `json:"rephrased_idea"`
	SubmittedBy   string `json:"submitted_by"`
	Department    string `json:"department"`
	Role          string `json:"role"`
	Location      string `json:"location"`
	Language      string `json:"language"` // Defaults to "en" if empty
}

type IdeaUpdateRequest struct {
	Title         string            `json:"title"`
	OriginalIdea  string            `json:"original_idea"`
	RephrasedIdea string            `json:"rephrased_idea"`
	CompanyName   string            `json:"company_name"`
	Status        string            `json:"status"`
	Drafts        map[string]string `json:"drafts"`
}

type CompleteIdeaRequest struct {
	Drafts map[string]string `json:"drafts" binding:"required"`
}

type ReviewRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approved rejected under_review"`
	Score    int    `json:"score" binding:"min=0,max=100"`
	Feedback string `json:"feedback"`
}

type ResearchRequest struct {
	IdeaDescription string `json:"idea_description"`
}

type DocumentRequest struct {
	Answers map[string]string `json:"answers"`
}
