package engine

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jaysmobilewash/detailbrain/internal/convo"
	"github.com/jaysmobilewash/detailbrain/internal/knowledge"
	"github.com/jaysmobilewash/detailbrain/internal/training"
)

// LearnFromExternalResponse evaluates an answer obtained from an external API
// and, when it carries knowledge value, stores a normalized chunk of it.
// Every call is a learning event, counted whether or not anything is learned.
// Returns whether a new entry was stored.
func (e *Engine) LearnFromExternalResponse(ctx context.Context, query, externalResponse, apiSource string) (bool, error) {
	_ = ctx

	e.stats.mu.Lock()
	e.stats.learningEvents++
	e.stats.mu.Unlock()

	assessment := e.assessor.AssessExternal(externalResponse, e.store.All())

	now := e.now()
	turn := convo.Turn{
		Role:       convo.RoleAssistant,
		Content:    externalResponse,
		Timestamp:  now.UnixMilli(),
		Confidence: assessment.Confidence,
		Source:     apiSource,
	}

	if !assessment.ShouldLearn {
		e.memory.Append(turn)
		e.observeLearning("rejected")
		e.enqueueLearnEvent(learnEvent{query: query, at: now})
		return false, nil
	}

	content := firstChunk(externalResponse)
	source := fmt.Sprintf("%s_learned", apiSource)
	entry := knowledge.Entry{
		ID:         knowledge.NewEntryID(source, now),
		Content:    content,
		Category:   e.assessor.Categorize(content),
		Confidence: assessment.Confidence,
		Source:     source,
		Tags:       training.ExtractTags(query + " " + content),
		LearnedAt:  now.UnixMilli(),
		Metadata:   map[string]string{"query": query, "reason": assessment.Reason},
	}
	e.store.Add(entry)

	turn.Learned = 1
	e.memory.Append(turn)
	e.observeLearning("learned")
	e.enqueueLearnEvent(learnEvent{query: query, learned: true, confidence: assessment.Confidence, at: now})
	e.syncEntriesGauge()
	return true, nil
}

// TrainingResult reports a bulk training submission. A submission with no
// qualifying content fails cleanly rather than erroring.
type TrainingResult struct {
	Success      bool   `json:"success"`
	EntriesAdded int    `json:"entriesAdded,omitempty"`
	Message      string `json:"message,omitempty"`
}

// SubmitTrainingContent ingests bulk content: plain text, a video transcript,
// website content, or a conversation log. Structurally invalid input (unknown
// type, conversation without a message list) returns training.ErrInvalidInput;
// empty or valueless content returns a failed result with a nil error.
func (e *Engine) SubmitTrainingContent(ctx context.Context, in training.Input) (TrainingResult, error) {
	_ = ctx

	if in.Type != training.TypeConversation && strings.TrimSpace(in.Text) == "" &&
		strings.TrimSpace(in.Transcript) == "" && strings.TrimSpace(in.URL) == "" {
		return TrainingResult{Success: false, Message: "no content provided"}, nil
	}

	chunks, err := in.Normalize()
	if err != nil {
		return TrainingResult{}, err
	}

	source := in.Metadata["source"]
	if source == "" {
		source = fmt.Sprintf("%s_training", in.Type)
	}

	now := e.now()
	added := 0
	for _, chunk := range chunks {
		assessment := e.assessor.AssessChunk(chunk)
		if !assessment.ShouldLearn {
			continue
		}
		category := e.assessor.Categorize(chunk)
		if in.Type == training.TypeConversation {
			category = knowledge.CategoryQAPair
		}
		e.store.Add(knowledge.Entry{
			ID:          knowledge.NewEntryID(source, now),
			Content:     chunk,
			Category:    category,
			Confidence:  assessment.Confidence,
			Source:      source,
			Tags:        training.ExtractTags(chunk),
			SubmittedAt: now.UnixMilli(),
			Metadata:    in.Metadata,
		})
		added++
	}

	if added == 0 {
		return TrainingResult{Success: false, Message: "no qualifying content found"}, nil
	}

	if e.obs != nil {
		e.obs.TrainingEntries.Add(float64(added))
	}
	e.syncEntriesGauge()
	return TrainingResult{
		Success:      true,
		EntriesAdded: added,
		Message:      fmt.Sprintf("added %d knowledge entries", added),
	}, nil
}

// enqueueLearnEvent batches learning events; every tenth event forces a
// snapshot save and logs a digest.
func (e *Engine) enqueueLearnEvent(ev learnEvent) {
	e.queueMu.Lock()
	e.queue = append(e.queue, ev)
	if len(e.queue) < learningQueueFlushAt {
		e.queueMu.Unlock()
		return
	}
	batch := e.queue
	e.queue = nil
	e.queueMu.Unlock()

	learned := 0
	for _, b := range batch {
		if b.learned {
			learned++
		}
	}
	log.Printf("learning queue flushed: %d events, %d learned", len(batch), learned)
	e.persistNow(context.Background())
}

// firstChunk normalizes an external response down to one storable chunk.
func firstChunk(text string) string {
	chunks := training.Chunks(text, training.ChunkSize)
	if len(chunks) == 0 {
		return strings.TrimSpace(text)
	}
	return chunks[0]
}

func (e *Engine) observeLearning(result string) {
	if e.obs == nil {
		return
	}
	e.obs.LearningEvents.WithLabelValues(result).Inc()
}
