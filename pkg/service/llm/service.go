package llm

import (
	"bytes"
	"embed"
	"strings"
	"text/template"

	"context"

	"github.com/deskops-lab/ticketboard/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

// Error tags for categorization
var (
	ErrTagEmptyResponse   = goerr.NewTag("empty_response")
	ErrTagTemplateFailure = goerr.NewTag("template_failure")
)

//go:embed templates/*.md
var templateFS embed.FS

// NarrativeService turns board metrics into a short prose summary for
// report delivery. It is optional: report posting works without it.
type NarrativeService struct {
	llmClient gollem.LLMClient
}

// NewNarrativeService creates a new NarrativeService instance
func NewNarrativeService(llmClient gollem.LLMClient) *NarrativeService {
	return &NarrativeService{
		llmClient: llmClient,
	}
}

// reportTemplateData contains data for the report narrative template
type reportTemplateData struct {
	WindowLabel string
	KPI         *model.KpiSet
	TopIssues   []*model.TicketRecord
}

// Summarize asks the LLM for a short narrative paragraph over the window's
// metrics and top issues.
func (s *NarrativeService) Summarize(ctx context.Context, windowLabel string, kpi *model.KpiSet, topIssues []*model.TicketRecord) (string, error) {
	if kpi == nil {
		return "", goerr.New("kpi set is required for narrative")
	}

	prompt, err := s.renderReportTemplate(reportTemplateData{
		WindowLabel: windowLabel,
		KPI:         kpi,
		TopIssues:   topIssues,
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to render report template",
			goerr.T(ErrTagTemplateFailure))
	}

	session, err := s.llmClient.NewSession(ctx)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	response, err := session.GenerateContent(ctx, gollem.Text(prompt))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate report narrative")
	}

	if len(response.Texts) == 0 || response.Texts[0] == "" {
		return "", goerr.New("empty response from LLM",
			goerr.T(ErrTagEmptyResponse))
	}
	return strings.TrimSpace(response.Texts[0]), nil
}

func (s *NarrativeService) renderReportTemplate(data reportTemplateData) (string, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/report.md")
	if err != nil {
		return "", goerr.Wrap(err, "failed to parse report template")
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to execute report template")
	}
	return buf.String(), nil
}
