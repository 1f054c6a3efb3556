package usecase

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"tenk/internal/adapter/analyzer"
	"tenk/internal/domain"
	"tenk/internal/port"
)

// Tool names as reported in Response.ToolsUsed.
const (
	ToolDocumentQA = "Document QA"
	ToolWebSearch  = "Tavily Search"
)

// Plan descriptions, one per routing outcome.
const (
	planHybrid   = "Plan: (1) Query 10-K for historical data (2) Search web for current data (3) Synthesize both sources"
	planWebOnly  = "Plan: Search web for current market information"
	planDocument = "Plan: Query the 10-K filing for requested information"
)

// documentTool is the agent-facing surface of the document QA use case.
type documentTool interface {
	Answer(question string) (domain.ToolResult, error)
}

// Agent orchestrates one query: plan, route, execute the selected tools
// sequentially, then synthesize a single response. No error escapes
// AnswerQuery; total failure comes back as a degraded Response.
type Agent struct {
	docQA      documentTool
	web        port.WebSearcher
	llm        port.LLM
	classifier *analyzer.IntentClassifier
	system     string
	maxResults int
	log        *zap.Logger
}

func NewAgent(
	docQA documentTool,
	web port.WebSearcher,
	llm port.LLM,
	classifier *analyzer.IntentClassifier,
	systemPrompt string,
	maxResults int,
	log *zap.Logger,
) *Agent {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &Agent{
		docQA:      docQA,
		web:        web,
		llm:        llm,
		classifier: classifier,
		system:     systemPrompt,
		maxResults: maxResults,
		log:        log,
	}
}

// Route returns the tool subset for a query. Pure function of the query
// text: every query maps to a non-empty set, defaulting to document-only.
func (a *Agent) Route(query string) []string {
	intent := a.classifier.Classify(query)
	switch {
	case intent.NeedsCurrent && intent.NeedsDocument:
		return []string{ToolDocumentQA, ToolWebSearch}
	case intent.NeedsCurrent:
		return []string{ToolWebSearch}
	default:
		return []string{ToolDocumentQA}
	}
}

// Plan returns the one-line strategy description for a query, driven by
// the same classifier as Route.
func (a *Agent) Plan(query string) string {
	intent := a.classifier.Classify(query)
	switch {
	case intent.NeedsCurrent && intent.NeedsDocument:
		return planHybrid
	case intent.NeedsCurrent:
		return planWebOnly
	default:
		return planDocument
	}
}

// AnswerQuery processes one query end to end and always returns a
// Response: per-tool failures become warning strings, and only
// all-tools-failed degrades the answer itself to the aggregated error.
func (a *Agent) AnswerQuery(query string) domain.Response {
	a.log.Info("processing query", zap.String("query", query))

	plan := a.Plan(query)
	a.log.Info("created plan", zap.String("plan", plan))

	tools := a.Route(query)
	a.log.Info("routed tools", zap.Strings("tools", tools))

	var (
		docResult   *domain.ToolResult
		webResult   *domain.SearchResult
		webDegraded *domain.SearchResult
		errs        []string
	)

	for _, tool := range tools {
		switch tool {
		case ToolDocumentQA:
			res, err := a.docQA.Answer(query)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s failed: %v", ToolDocumentQA, err))
				a.log.Warn("document qa failed", zap.Error(err))
				continue
			}
			docResult = &res
		case ToolWebSearch:
			res, err := a.web.Search(query, a.maxResults)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s failed: %v", ToolWebSearch, err))
				a.log.Warn("web search failed", zap.Error(err))
				continue
			}
			// A degraded result (no sources) carries a user-facing message
			// but nothing worth synthesizing.
			if len(res.Sources) == 0 {
				webDegraded = &res
				a.log.Warn("web search degraded", zap.String("message", res.Answer))
				continue
			}
			webResult = &res
		}
	}

	if docResult == nil && webResult == nil {
		// A degraded web result is still a result: surface its message
		// as the answer rather than failing the query.
		if webDegraded != nil {
			return domain.Response{
				Answer:    webDegraded.Answer,
				Citations: []domain.Citation{},
				ToolsUsed: []string{ToolWebSearch},
				Errors:    errs,
				Plan:      plan,
			}
		}
		msg := fmt.Sprintf("Error processing query: all tools failed: %s", strings.Join(errs, "; "))
		a.log.Error("all tools failed", zap.Strings("errors", errs))
		return domain.Response{
			Answer:    msg,
			Citations: []domain.Citation{},
			ToolsUsed: []string{},
			Errors:    errs,
			Plan:      plan,
		}
	}

	if webDegraded != nil {
		errs = append(errs, fmt.Sprintf("%s: %s", ToolWebSearch, webDegraded.Answer))
	}

	return a.synthesize(query, plan, docResult, webResult, errs)
}

// synthesize merges whatever succeeded into the final response. Document
// citations always precede web citations, matching tool declaration order.
func (a *Agent) synthesize(query, plan string, doc *domain.ToolResult, web *domain.SearchResult, errs []string) domain.Response {
	var answers []string
	citations := []domain.Citation{}
	toolsUsed := []string{}

	if doc != nil {
		answers = append(answers, "From 10-K Document:\n"+doc.Answer)
		citations = append(citations, doc.Citations...)
		toolsUsed = append(toolsUsed, ToolDocumentQA)
	}
	if web != nil {
		answers = append(answers, "From Web Search:\n"+web.Answer)
		citations = append(citations, web.Sources...)
		toolsUsed = append(toolsUsed, ToolWebSearch)
	}

	var finalAnswer string
	switch len(answers) {
	case 0:
		finalAnswer = "No answer generated."
	case 1:
		finalAnswer = answers[0]
	default:
		finalAnswer = a.combineSources(query, answers)
	}

	return domain.Response{
		Answer:    finalAnswer,
		Citations: citations,
		ToolsUsed: toolsUsed,
		Errors:    errs,
		Plan:      plan,
	}
}

// combineSources asks the model to merge both tool outputs into one
// narrative. A failed synthesis falls back to concatenating the raw
// answers; the query never fails over a synthesis error.
func (a *Agent) combineSources(query string, answers []string) string {
	prompt := fmt.Sprintf(`Question: %s

Information gathered from multiple sources:

%s

Please synthesize this information into a comprehensive answer that:
1. Directly answers the question
2. Combines insights from both sources where relevant
3. Clearly distinguishes between historical data (from 10-K) and current data (from web)
4. Provides any relevant comparisons or calculations

Your answer:`, query, strings.Join(answers, "\n\n"))

	combined, err := a.llm.GenerateWithSystem(a.system, prompt)
	if err != nil {
		a.log.Warn("synthesis failed, falling back to concatenation", zap.Error(err))
		return strings.Join(answers, "\n\n---\n\n")
	}
	return combined
}
