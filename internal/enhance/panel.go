// Package enhance implements the AI suggestion verification workflow: it
// gates AI-proposed rewrites behind a trust check before they can modify
// the document, because proposed text may assert unverified facts about the
// user's experience.
package enhance

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"github.com/careerpilot/resume-studio/internal/types"
)

// Suggester produces enhancement suggestions for one piece of section text.
// The production implementation is Gemini-backed (internal/llm).
type Suggester interface {
	SuggestEnhancements(ctx context.Context, text string, kind types.EnhancementKind) ([]types.AISuggestion, error)
}

// DocumentWriter is the document store surface the workflow commits into.
type DocumentWriter interface {
	ApplyEnhancedText(sectionID string, kind types.EnhancementKind, text string) error
}

// metricTokenRe matches {{metric_name}} placeholders inside enhanced text.
// Suggestions needing confirmation carry unconfirmed metrics as tokens so
// the confirmed value can be substituted verbatim.
var metricTokenRe = regexp.MustCompile(`\{\{([A-Za-z0-9_]+)\}\}`)

// Confirmation is an open confirmation step for one needs_confirmation
// suggestion. Every metric listed must be answered before the suggestion
// may be committed.
type Confirmation struct {
	SuggestionIndex int      `json:"suggestion_index"`
	SectionID       string   `json:"section_id"`
	Prompt          string   `json:"prompt,omitempty"`
	Metrics         []string `json:"metrics"`
}

// Panel holds the transient suggestion list for one piece of text. The list
// lives as long as the panel is open; closing the panel or regenerating
// discards it entirely.
type Panel struct {
	suggester Suggester
	doc       DocumentWriter

	mu           sync.Mutex
	kind         types.EnhancementKind
	originalText string
	suggestions  []types.AISuggestion
	applied      map[int]bool
	pending      *Confirmation
}

// NewPanel creates a panel backed by the given suggester and document store.
func NewPanel(suggester Suggester, doc DocumentWriter) *Panel {
	return &Panel{
		suggester: suggester,
		doc:       doc,
		applied:   make(map[int]bool),
	}
}

// Fetch requests a suggestion list for one piece of text. It is a no-op
// when a list already exists and no explicit regenerate was requested,
// which avoids redundant provider calls on panel re-open.
func (p *Panel) Fetch(ctx context.Context, text string, kind types.EnhancementKind) error {
	p.mu.Lock()
	if len(p.suggestions) > 0 {
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()
	return p.refresh(ctx, text, kind)
}

// Regenerate forces a fresh suggestion list, discarding the previous one
// along with any applied marks and pending confirmation.
func (p *Panel) Regenerate(ctx context.Context, text string, kind types.EnhancementKind) error {
	return p.refresh(ctx, text, kind)
}

func (p *Panel) refresh(ctx context.Context, text string, kind types.EnhancementKind) error {
	suggestions, err := p.suggester.SuggestEnhancements(ctx, text, kind)
	if err != nil {
		return &SuggestError{Message: "provider call failed", Cause: err}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.originalText = text
	p.kind = kind
	p.suggestions = suggestions
	p.applied = make(map[int]bool)
	p.pending = nil
	return nil
}

// Suggestions returns a copy of the current suggestion list.
func (p *Panel) Suggestions() []types.AISuggestion {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]types.AISuggestion, len(p.suggestions))
	copy(out, p.suggestions)
	return out
}

// Pending returns the open confirmation step, or nil.
func (p *Panel) Pending() *Confirmation {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pending == nil {
		return nil
	}
	pending := *p.pending
	pending.Metrics = append([]string(nil), p.pending.Metrics...)
	return &pending
}

// Applied reports whether the suggestion at index was already applied.
func (p *Panel) Applied(index int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.applied[index]
}

// Close discards the suggestion list; the panel was closed by the user.
func (p *Panel) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.suggestions = nil
	p.applied = make(map[int]bool)
	p.pending = nil
}

// Apply applies the suggestion at index to the target section. A
// needs_confirmation suggestion opens a confirmation step instead of
// mutating the document; the returned Confirmation is non-nil in that case.
// Re-applying an already-applied suggestion is a no-op.
func (p *Panel) Apply(index int, sectionID string) (*Confirmation, error) {
	p.mu.Lock()
	if index < 0 || index >= len(p.suggestions) {
		p.mu.Unlock()
		return nil, &ErrNoSuggestion{Index: index}
	}
	if p.applied[index] {
		p.mu.Unlock()
		return nil, nil
	}
	sug := p.suggestions[index]

	switch {
	case sug.VerificationStatus == types.StatusRejected:
		p.mu.Unlock()
		return nil, &ErrSuggestionRejected{}

	case sug.Applicable():
		kind := p.kind
		p.mu.Unlock()
		if err := p.doc.ApplyEnhancedText(sectionID, kind, sug.EnhancedText); err != nil {
			return nil, err
		}
		p.mu.Lock()
		p.applied[index] = true
		p.mu.Unlock()
		return nil, nil

	default:
		// needs_confirmation, and anything the provider left unlabeled.
		pending := &Confirmation{
			SuggestionIndex: index,
			SectionID:       sectionID,
			Prompt:          sug.ConfirmationPrompt,
			Metrics:         extractMetricTokens(sug.EnhancedText),
		}
		p.pending = pending
		confirmation := *pending
		confirmation.Metrics = append([]string(nil), pending.Metrics...)
		p.mu.Unlock()
		return &confirmation, nil
	}
}

// ConfirmMetrics substitutes each metric token in the pending suggestion's
// enhanced text with its user-confirmed value, commits the result exactly
// as Apply would, and upgrades the suggestion to verified. Every question
// the confirmation step raised must be answered; partial responses block
// confirmation without mutating the document.
func (p *Panel) ConfirmMetrics(responses map[string]string) error {
	p.mu.Lock()
	if p.pending == nil {
		p.mu.Unlock()
		return &ErrNoConfirmationPending{}
	}

	var missing []string
	for _, metric := range p.pending.Metrics {
		if _, ok := responses[metric]; !ok {
			missing = append(missing, metric)
		}
	}
	if len(missing) > 0 {
		p.mu.Unlock()
		return &ErrMissingResponses{Missing: missing}
	}

	index := p.pending.SuggestionIndex
	sectionID := p.pending.SectionID
	kind := p.kind
	text := p.suggestions[index].EnhancedText
	for metric, value := range responses {
		text = strings.ReplaceAll(text, "{{"+metric+"}}", value)
	}
	p.mu.Unlock()

	if err := p.doc.ApplyEnhancedText(sectionID, kind, text); err != nil {
		return err
	}

	p.mu.Lock()
	p.suggestions[index].EnhancedText = text
	p.suggestions[index].VerificationStatus = types.StatusVerified
	p.applied[index] = true
	p.pending = nil
	p.mu.Unlock()
	return nil
}

// extractMetricTokens returns the distinct metric names appearing as
// {{token}} placeholders, in order of first appearance.
func extractMetricTokens(text string) []string {
	matches := metricTokenRe.FindAllStringSubmatch(text, -1)
	seen := make(map[string]bool)
	var metrics []string
	for _, m := range matches {
		if !seen[m[1]] {
			seen[m[1]] = true
			metrics = append(metrics, m[1])
		}
	}
	return metrics
}
