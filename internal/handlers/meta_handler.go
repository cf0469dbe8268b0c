package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Subsection is one prompt inside a proposal section.
type Subsection struct {
	Heading    string `json:"subsection_heading"`
	Definition string `json:"subsection_definition"`
}

// Section is one block of the idea proposal structure.
type Section struct {
	Heading     string       `json:"section_heading"`
	Purpose     string       `json:"section_purpose"`
	Subsections []Subsection `json:"subsections"`
}

// Sections is the proposal structure submitters draft against.
var Sections = []Section{
	{
		Heading: "Executive Summary",
		Purpose: "Brief overview of the idea and its value proposition",
		Subsections: []Subsection{
			{Heading: "Problem Statement", Definition: "What problem does this idea solve?"},
			{Heading: "Proposed Solution", Definition: "How does your idea address the problem?"},
		},
	},
	{
		Heading: "Business Value",
		Purpose: "Explain the potential business impact and benefits",
		Subsections: []Subsection{
			{Heading: "Value Proposition", Definition: "Why is this valuable for the company?"},
			{Heading: "Expected Outcomes", Definition: "What benefits will result from implementation?"},
		},
	},
	{
		Heading: "Implementation Plan",
		Purpose: "Outline how the idea will be implemented",
		Subsections: []Subsection{
			{Heading: "Key Steps", Definition: "What are the main implementation steps?"},
			{Heading: "Resource Requirements", Definition: "What resources are needed?"},
		},
	},
	{
		Heading: "Risk Analysis",
		Purpose: "Identify and mitigate potential risks",
		Subsections: []Subsection{
			{Heading: "Potential Risks", Definition: "What could go wrong?"},
			{Heading: "Mitigation Strategies", Definition: "How will you address these risks?"},
		},
	},
}

// Departments submitters can tag their ideas with.
var Departments = []string{
	"Engineering",
	"Manufacturing",
	"Sales",
	"Marketing",
	"Finance",
	"Human Resources",
	"IT",
	"Operations",
	"Supply Chain",
	"Other",
}

// GetSections is the GET /sections endpoint.
func GetSections(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"sections":    Sections,
		"departments": Departments,
	}})
}

// HealthCheck is the GET /health endpoint.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
