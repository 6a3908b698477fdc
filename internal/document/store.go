// Package document implements the in-memory resume document store: the
// single authoritative copy of the document being edited, its load/save
// lifecycle, and every mutation the editing session can perform on it.
package document

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/careerpilot/resume-studio/internal/mapping"
	"github.com/careerpilot/resume-studio/internal/types"
)

// State is the document lifecycle state.
type State string

// Lifecycle states: unloaded -> loading -> loaded <-> saving -> loaded.
// Failures during loading or saving return to the last good state with the
// store's error string set.
const (
	StateUnloaded State = "unloaded"
	StateLoading  State = "loading"
	StateLoaded   State = "loaded"
	StateSaving   State = "saving"
)

// ResumeAPI is the remote persona/resume service contract the store depends
// on. Transport specifics live behind this interface (see internal/apiclient).
type ResumeAPI interface {
	GetResume(ctx context.Context, id string) (*types.ResumeMeta, error)
	GetRenderedResume(ctx context.Context, id string) (*types.RenderedResume, error)
	UpdateResume(ctx context.Context, id string, req types.UpdateResumeRequest) error
	AnalyzeResume(ctx context.Context, id string, req types.AnalyzeRequest) (*types.AnalyzeResponse, error)
	DownloadResume(ctx context.Context, id, format string) (io.ReadCloser, error)
}

// Store holds the one mutable document of an editing session. It is an
// explicitly constructed, dependency-injected object so multiple sessions
// and tests run in isolation; it is never a package-level singleton.
//
// Synchronous edits take only the state mutex and never block on the
// network; load and save additionally serialize on an operation mutex so
// overlapping load/save against the same document cannot interleave.
type Store struct {
	api ResumeAPI

	mu    sync.Mutex // guards doc, state, flags, errMsg
	netMu sync.Mutex // serializes load/save network operations

	doc       *types.ResumeDocument
	state     State
	analyzing bool
	errMsg    string
}

// NewStore creates a store bound to one remote API client.
func NewStore(api ResumeAPI) *Store {
	return &Store{
		api:   api,
		state: StateUnloaded,
	}
}

// State returns the current lifecycle state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the last human-readable error, or empty string.
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// DismissError clears the error banner without retrying anything.
func (s *Store) DismissError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = ""
}

// Document returns a deep copy of the current document, or nil when
// unloaded. Display reads always see the latest synchronous state
// regardless of pending network calls.
func (s *Store) Document() *types.ResumeDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Load fetches resume metadata and the rendered persona view, merges them
// through the mapper, and replaces the entire in-memory document. Only one
// load may be in flight per store; a second call while loading is a caller
// error.
func (s *Store) Load(ctx context.Context, id string) error {
	s.mu.Lock()
	if s.state == StateLoading {
		s.mu.Unlock()
		return &ErrLoadInFlight{ResumeID: id}
	}
	prev := s.state
	s.state = StateLoading
	s.mu.Unlock()

	s.netMu.Lock()
	defer s.netMu.Unlock()

	var meta *types.ResumeMeta
	var rendered *types.RenderedResume

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := s.api.GetResume(gctx, id)
		if err != nil {
			return fmt.Errorf("failed to fetch resume %s: %w", id, err)
		}
		meta = m
		return nil
	})
	g.Go(func() error {
		r, err := s.api.GetRenderedResume(gctx, id)
		if err != nil {
			return fmt.Errorf("failed to fetch rendered resume %s: %w", id, err)
		}
		rendered = r
		return nil
	})

	if err := g.Wait(); err != nil {
		s.mu.Lock()
		s.errMsg = fmt.Sprintf("Failed to load resume: %v", err)
		if prev == StateUnloaded {
			s.state = StateUnloaded
		} else {
			s.state = StateLoaded
		}
		s.mu.Unlock()
		return err
	}

	doc := &types.ResumeDocument{
		ID:         id,
		Title:      meta.Name,
		TemplateID: meta.TemplateID,
		PersonaID:  meta.PersonaID,
		Sections:   mapping.MapRenderedResume(rendered, types.DefaultSections()),
		ATSScore:   meta.ATSScore,
	}
	if meta.UpdatedAt != "" {
		if t, err := time.Parse(time.RFC3339, meta.UpdatedAt); err == nil {
			doc.LastModified = t
		}
	}

	s.mu.Lock()
	s.doc = doc
	s.state = StateLoaded
	s.errMsg = ""
	s.mu.Unlock()
	return nil
}

// Save serializes the current sections through the mapper and issues a
// single update request. On failure the error string is set and local state
// is left unchanged; nothing was optimistically mutated, so no rollback is
// needed.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	if s.doc == nil {
		s.mu.Unlock()
		return &ErrNotLoaded{}
	}
	id := s.doc.ID
	payload := mapping.SavePayload(s.doc)
	unsaved := mapping.UnsavedSectionTypes(s.doc)
	s.state = StateSaving
	s.mu.Unlock()

	if len(unsaved) > 0 {
		log.Printf("[store] save contract does not round-trip section types: %v", unsaved)
	}

	s.netMu.Lock()
	err := s.api.UpdateResume(ctx, id, payload)
	s.netMu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateLoaded
	if err != nil {
		s.errMsg = fmt.Sprintf("Failed to save resume: %v", err)
		return err
	}
	s.doc.LastModified = time.Now()
	return nil
}

// UpdateSection shallow-merges the patch into the section matching id.
// An unknown id is silently ignored: a stale reference after a reorder or
// delete must not crash the UI.
func (s *Store) UpdateSection(id string, patch types.SectionPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil
	}
	sec := s.doc.SectionByID(id)
	if sec == nil {
		return nil
	}

	if patch.Content != nil {
		candidate := *sec
		candidate.Content = *patch.Content
		if err := candidate.CheckContent(); err != nil {
			return err
		}
		sec.Content = *patch.Content
	}
	if patch.Title != nil {
		sec.Title = *patch.Title
	}
	if patch.IsVisible != nil {
		sec.IsVisible = *patch.IsVisible
	}
	s.doc.LastModified = time.Now()
	return nil
}

// ReorderSections moves the section at activeID's position to overID's
// position with standard array-move semantics: remove, then reinsert at the
// target index, shifting everything between. If either id is unknown the
// operation is a no-op. The result is a pure permutation; order values stay
// dense.
func (s *Store) ReorderSections(activeID, overID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return
	}

	from, to := -1, -1
	for i := range s.doc.Sections {
		switch s.doc.Sections[i].ID {
		case activeID:
			from = i
		case overID:
			to = i
		}
	}
	if from < 0 || to < 0 || from == to {
		return
	}

	orig := s.doc.Sections
	moved := orig[from]
	sections := make([]types.ResumeSection, 0, len(orig))
	sections = append(sections, orig[:from]...)
	sections = append(sections, orig[from+1:]...)
	sections = append(sections, types.ResumeSection{})
	copy(sections[to+1:], sections[to:])
	sections[to] = moved

	for i := range sections {
		sections[i].Order = i
	}
	s.doc.Sections = sections
}

// ToggleSectionVisibility flips the section's visibility flag. Visibility
// is advisory to rendering and export; content is never deleted.
func (s *Store) ToggleSectionVisibility(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return
	}
	if sec := s.doc.SectionByID(id); sec != nil {
		sec.IsVisible = !sec.IsVisible
	}
}

// AnalyzeATS sends the currently visible sections to the scoring service.
// Success replaces the score and analysis; failure keeps the previous score
// intact (stale-but-valid beats blank) and sets the error string.
func (s *Store) AnalyzeATS(ctx context.Context) error {
	s.mu.Lock()
	if s.doc == nil {
		s.mu.Unlock()
		return &ErrNotLoaded{}
	}
	if s.analyzing {
		s.mu.Unlock()
		return nil
	}
	s.analyzing = true
	id := s.doc.ID
	visible := s.doc.VisibleSections()
	s.mu.Unlock()

	resp, err := s.api.AnalyzeResume(ctx, id, types.AnalyzeRequest{Sections: visible})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyzing = false
	if err != nil {
		s.errMsg = fmt.Sprintf("Failed to analyze resume: %v", err)
		return err
	}
	score := resp.Score
	s.doc.ATSScore = &score
	s.doc.ATSAnalysis = &types.ATSAnalysis{
		Score:     resp.Score,
		Breakdown: resp.Breakdown,
		Issues:    resp.Issues,
	}
	return nil
}

// Download streams the rendered artifact for the persisted resume into w
// and returns the suggested filename ({title}.{format}). Only the error
// string mutates; the document is read-only here.
func (s *Store) Download(ctx context.Context, format string, w io.Writer) (string, error) {
	if format != "pdf" && format != "docx" {
		return "", &ErrInvalidFormat{Format: format}
	}

	s.mu.Lock()
	if s.doc == nil {
		s.mu.Unlock()
		return "", &ErrNotLoaded{}
	}
	id := s.doc.ID
	title := s.doc.Title
	s.mu.Unlock()

	body, err := s.api.DownloadResume(ctx, id, format)
	if err != nil {
		s.mu.Lock()
		s.errMsg = fmt.Sprintf("Failed to download resume: %v", err)
		s.mu.Unlock()
		return "", err
	}
	defer func() { _ = body.Close() }()

	if _, err := io.Copy(w, body); err != nil {
		s.mu.Lock()
		s.errMsg = fmt.Sprintf("Failed to download resume: %v", err)
		s.mu.Unlock()
		return "", err
	}

	if title == "" {
		title = "resume"
	}
	return fmt.Sprintf("%s.%s", title, format), nil
}
