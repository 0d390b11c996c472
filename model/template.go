package model

type TemplateCategory string

const (
	CategoryProspection  TemplateCategory = "prospection"
	CategorySuivi        TemplateCategory = "suivi"
	CategoryCommercial   TemplateCategory = "commercial"
	CategorySupport      TemplateCategory = "support"
	CategoryNotification TemplateCategory = "notification"
)

// EmailTemplate holds {{placeholder}} tokens in Subject, HTMLContent and
// TextContent. Every token used should be listed in Variables.
type EmailTemplate struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Category    TemplateCategory `json:"category"`
	Subject     string           `json:"subject"`
	HTMLContent string           `json:"htmlContent"`
	TextContent string           `json:"textContent"`
	Variables   []string         `json:"variables"`
	IsActive    bool             `json:"isActive"`
}
