package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/Krish01agrawal/Lifafa-B/pkg/memory"

	"github.com/sirupsen/logrus"
)

const searchLimit = 25

const systemPrompt = `You are an intelligent email assistant. You answer questions about the user's mailbox using the email snippets provided as context. Be concise and specific. When the context does not contain the answer, say so instead of guessing. Never invent email contents.`

// Completer is the slice of the LLM client the chat path needs.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Reply is the chat answer payload. Error marks degraded answers so the
// frontend can render them differently.
type Reply struct {
	Reply []string `json:"reply"`
	Error bool     `json:"error,omitempty"`
}

type ChatUsecase interface {
	// Answer runs retrieval over the user's email memories and asks the LLM
	// with the hits as context.
	Answer(ctx context.Context, userID, question string) *Reply
}

type chatUsecase struct {
	memory    memory.Store // nil when the memory platform is disabled
	completer Completer
	log       *logrus.Logger
}

func NewChatUsecase(mem memory.Store, completer Completer, log *logrus.Logger) ChatUsecase {
	return &chatUsecase{memory: mem, completer: completer, log: log}
}

func (u *chatUsecase) Answer(ctx context.Context, userID, question string) *Reply {
	snippets := u.search(ctx, userID, question)

	prompt := question
	if len(snippets) > 0 {
		var b strings.Builder
		b.WriteString("Relevant email snippets:\n")
		for i, s := range snippets {
			fmt.Fprintf(&b, "%d. %s\n", i+1, s)
		}
		b.WriteString("\nUser Query: ")
		b.WriteString(question)
		prompt = b.String()
	}

	answer, err := u.completer.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		u.log.WithError(err).WithField("user_id", userID).Error("chat completion failed")
		return &Reply{Reply: []string{"Sorry, I could not generate a reply right now."}, Error: true}
	}
	return &Reply{Reply: []string{answer}}
}

// search never fails the chat turn: retrieval errors degrade to an
// uncontextualized answer.
func (u *chatUsecase) search(ctx context.Context, userID, question string) []string {
	if u.memory == nil {
		return nil
	}
	snippets, err := u.memory.Search(ctx, userID, question, searchLimit)
	if err != nil {
		u.log.WithError(err).WithField("user_id", userID).Warn("memory search failed")
		return nil
	}
	return snippets
}
