package conversation

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"replog/app/client/extraction"
	"replog/app/service/record"
	"replog/app/service/transcript"

	"github.com/samber/do"
)

const (
	// Greeting seeds every fresh transcript.
	Greeting = "Hello! I am your AI Assistant. Describe your interaction."

	// FailureReply is what the user sees when a round trip fails; raw
	// transport errors stay in the logs.
	FailureReply = "Sorry, I couldn't reach the assistant. Please try again."
)

// Service coordinates the transcript, the record and the extraction backend.
// It is the only mutator of both stores. At most one extraction round trip is
// in flight at a time; submits arriving while busy are dropped, not queued,
// so transcript order always equals submit order.
type Service struct {
	extractor     extraction.Extractor
	transcriptSvc *transcript.Service
	recordSvc     *record.Service

	mu       sync.Mutex
	awaiting bool
}

func New(di *do.Injector) (*Service, error) {
	s := &Service{
		extractor:     do.MustInvoke[extraction.Extractor](di),
		transcriptSvc: do.MustInvoke[*transcript.Service](di),
		recordSvc:     do.MustInvoke[*record.Service](di),
	}

	s.transcriptSvc.Append(transcript.Entry{
		Sender: transcript.SenderAssistant,
		Text:   Greeting,
	})

	return s, nil
}

// Submit runs one conversation turn: append the user's message, ask the
// extraction backend, then append the reply and merge the structured update.
// Empty input and re-entrant calls are no-ops. Submit never returns an error;
// every failure ends as a single assistant entry and a return to idle.
func (s *Service) Submit(ctx context.Context, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		slog.Debug("Ignoring empty submit")
		return
	}

	if !s.begin() {
		slog.Debug("Ignoring submit while a request is in flight", "text", text)
		return
	}
	defer s.finish()

	s.transcriptSvc.Append(transcript.Entry{
		Sender: transcript.SenderUser,
		Text:   text,
	})

	result, err := s.extractor.Extract(ctx, text)
	if err != nil {
		slog.Error("Extraction failed", "text", text, "error", err)

		s.transcriptSvc.Append(transcript.Entry{
			Sender: transcript.SenderAssistant,
			Text:   FailureReply,
		})

		return
	}

	s.transcriptSvc.Append(transcript.Entry{
		Sender: transcript.SenderAssistant,
		Text:   result.Reply,
	})

	if result.UpdatedForm != nil {
		s.recordSvc.Merge(result.UpdatedForm)
	}
}

func (s *Service) AwaitingResponse() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.awaiting
}

func (s *Service) Transcript() []transcript.Entry {
	return s.transcriptSvc.Entries()
}

func (s *Service) Record() record.Interaction {
	return s.recordSvc.Current()
}

func (s *Service) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.awaiting {
		return false
	}
	s.awaiting = true

	return true
}

func (s *Service) finish() {
	s.mu.Lock()
	s.awaiting = false
	s.mu.Unlock()
}
