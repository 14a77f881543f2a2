package intelligence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/costvar/internal/llm"
)

const maxDrivers = 3

// Source tells where generated text came from.
type Source string

const (
	SourceLLM           Source = "llm"
	SourceDeterministic Source = "deterministic"
)

// ReportChunk is one piece of a streamed report. A chunk with Err set is
// the last one sent.
type ReportChunk struct {
	Text   string
	Source Source
	Err    error
}

// Highlights is a short machine-readable summary of a report context.
type Highlights struct {
	Headline string   `json:"headline"`
	Drivers  []string `json:"drivers"`
	Source   Source   `json:"source"`
}

// ReportService generates variance narratives for an uploaded sheet.
type ReportService interface {
	// StreamReport streams a Markdown report. The channel is closed when
	// the report is complete or ctx ends. promptOverride replaces the
	// default instructions when non-empty.
	StreamReport(ctx context.Context, rc ReportContext, promptOverride string) <-chan ReportChunk

	// Highlights returns a headline and the item ids driving the gap.
	Highlights(ctx context.Context, rc ReportContext) *Highlights
}

type reportService struct {
	client llm.LLMClient
}

// NewReportService creates a ReportService. A nil client always uses the
// deterministic fallback.
func NewReportService(client llm.LLMClient) ReportService {
	return &reportService{client: client}
}

func (s *reportService) StreamReport(ctx context.Context, rc ReportContext, promptOverride string) <-chan ReportChunk {
	out := make(chan ReportChunk)

	go func() {
		defer close(out)

		send := func(c ReportChunk) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			select {
			case out <- c:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		fallback := func() {
			_ = send(ReportChunk{Text: DeterministicReport(rc), Source: SourceDeterministic})
		}

		if s.client == nil {
			fallback()
			return
		}

		prompt, err := reportPrompt(rc, promptOverride)
		if err != nil {
			fallback()
			return
		}

		delivered := false
		_, err = s.client.GenerateStream(ctx, llm.GenerateRequest{
			Task:         llm.TaskReport,
			SystemPrompt: reportSystemPrompt,
			UserPrompt:   prompt,
		}, func(text string) error {
			delivered = true
			return send(ReportChunk{Text: text, Source: SourceLLM})
		})

		switch {
		case err == nil, ctx.Err() != nil:
		case delivered || errors.Is(err, llm.ErrStreamInterrupted):
			_ = send(ReportChunk{Source: SourceLLM, Err: err})
		default:
			fallback()
		}
	}()

	return out
}

func (s *reportService) Highlights(ctx context.Context, rc ReportContext) *Highlights {
	if s.client == nil {
		return DeterministicHighlights(rc)
	}

	snapshot, err := json.MarshalIndent(rc, "", "  ")
	if err != nil {
		return DeterministicHighlights(rc)
	}

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskHighlights,
		SystemPrompt: highlightsSystemPrompt,
		UserPrompt:   "Snapshot:\n\n" + string(snapshot),
	})
	if err != nil {
		return DeterministicHighlights(rc)
	}

	h, err := llm.ExtractJSON[Highlights](resp.Text, validateHighlights(rc))
	if err != nil {
		return DeterministicHighlights(rc)
	}
	h.Source = SourceLLM
	return &h
}

// validateHighlights rejects drivers that do not appear in the context.
func validateHighlights(rc ReportContext) llm.Validator[Highlights] {
	known := rc.itemIDs()
	return func(h Highlights) error {
		if strings.TrimSpace(h.Headline) == "" {
			return errors.New("headline is empty")
		}
		if len(h.Drivers) > maxDrivers {
			return fmt.Errorf("%d drivers, at most %d allowed", len(h.Drivers), maxDrivers)
		}
		for _, id := range h.Drivers {
			if !known[id] {
				return fmt.Errorf("unknown driver %q", id)
			}
		}
		return nil
	}
}

func reportPrompt(rc ReportContext, override string) (string, error) {
	snapshot, err := json.MarshalIndent(rc, "", "  ")
	if err != nil {
		return "", err
	}
	instructions := strings.TrimSpace(override)
	if instructions == "" {
		instructions = defaultReportTemplate
	}
	return fmt.Sprintf("%s\n\nData snapshot:\n```json\n%s\n```\n", instructions, snapshot), nil
}
