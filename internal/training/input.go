package training

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jaysmobilewash/detailbrain/internal/convo"
)

// ErrInvalidInput marks structurally invalid training submissions: empty
// content, or conversation input without a message list.
var ErrInvalidInput = errors.New("invalid training input")

// ContentType selects the normalization path for bulk training content.
type ContentType string

const (
	TypeText         ContentType = "text"
	TypeVideo        ContentType = "video"
	TypeWebsite      ContentType = "website"
	TypeConversation ContentType = "conversation"
)

// ChunkSize caps normalized training chunks.
const ChunkSize = 500

// Input is one bulk training submission. Exactly the fields matching Type are
// consulted: Text for text, Transcript (or Text) for video, Text or URL for
// website, Messages for conversation.
type Input struct {
	Type       ContentType
	Text       string
	Transcript string
	URL        string
	Messages   []convo.Turn
	Metadata   map[string]string
}

// Normalize reduces the input to plain-text pieces ready for per-chunk value
// assessment. Conversations become "Q: ...\nA: ..." exchanges; the other
// types are sentence-chunked.
func (in Input) Normalize() ([]string, error) {
	switch in.Type {
	case TypeText:
		return chunkNonEmpty(in.Text)
	case TypeVideo:
		text := in.Transcript
		if strings.TrimSpace(text) == "" {
			text = in.Text
		}
		return chunkNonEmpty(text)
	case TypeWebsite:
		text := in.Text
		if strings.TrimSpace(text) == "" && strings.TrimSpace(in.URL) != "" {
			// Fetching is the caller's job; an unfetched URL normalizes to
			// placeholder text that the value assessment rejects.
			text = fmt.Sprintf("Website %s (content not fetched)", strings.TrimSpace(in.URL))
		}
		return chunkNonEmpty(text)
	case TypeConversation:
		if in.Messages == nil {
			return nil, fmt.Errorf("%w: conversation content must be a list of messages", ErrInvalidInput)
		}
		return pairExchanges(in.Messages), nil
	default:
		return nil, fmt.Errorf("%w: unknown content type %q", ErrInvalidInput, in.Type)
	}
}

func chunkNonEmpty(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty content", ErrInvalidInput)
	}
	return Chunks(text, ChunkSize), nil
}

// pairExchanges folds consecutive user/assistant messages into Q/A pairs.
// Unpaired trailing user messages are dropped.
func pairExchanges(messages []convo.Turn) []string {
	var out []string
	for i := 0; i+1 < len(messages); i++ {
		if messages[i].Role != convo.RoleUser || messages[i+1].Role != convo.RoleAssistant {
			continue
		}
		q := strings.TrimSpace(messages[i].Content)
		a := strings.TrimSpace(messages[i+1].Content)
		if q == "" || a == "" {
			continue
		}
		out = append(out, fmt.Sprintf("Q: %s\nA: %s", q, a))
	}
	return out
}

// Chunks splits text into pieces of at most max characters, preferring
// sentence boundaries (. ! ?). A single oversized sentence is hard-split.
func Chunks(text string, max int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if max <= 0 {
		max = ChunkSize
	}

	var chunks []string
	var current strings.Builder
	for _, sentence := range splitSentences(text) {
		for len(sentence) > max {
			if current.Len() > 0 {
				chunks = append(chunks, strings.TrimSpace(current.String()))
				current.Reset()
			}
			chunks = append(chunks, strings.TrimSpace(sentence[:max]))
			sentence = sentence[max:]
		}
		if current.Len() > 0 && current.Len()+len(sentence)+1 > max {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(sentence)
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		chunks = append(chunks, s)
	}
	return chunks
}

func splitSentences(text string) []string {
	var out []string
	start := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			s := strings.TrimSpace(text[start : i+1])
			if s != "" {
				out = append(out, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}
