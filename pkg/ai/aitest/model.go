// Package aitest provides a scripted ai.Model for tests.
package aitest

import (
	"context"
	"fmt"
	"sync"

	"craftfolio/pkg/ai"
)

// Reply is one scripted model answer. A non-nil Err is returned instead of
// Text.
type Reply struct {
	Text string
	Err  error
}

// ScriptedModel answers Generate calls with its replies in order and records
// every request it receives.
type ScriptedModel struct {
	mu       sync.Mutex
	replies  []Reply
	Requests []ai.Request
}

func NewScriptedModel(replies ...Reply) *ScriptedModel {
	return &ScriptedModel{replies: replies}
}

// Texts scripts plain successful replies.
func Texts(texts ...string) *ScriptedModel {
	replies := make([]Reply, len(texts))
	for i, t := range texts {
		replies[i] = Reply{Text: t}
	}
	return NewScriptedModel(replies...)
}

func (m *ScriptedModel) Generate(ctx context.Context, req ai.Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests = append(m.Requests, req)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(m.replies) == 0 {
		return "", fmt.Errorf("aitest: no scripted reply for call %d", len(m.Requests))
	}
	r := m.replies[0]
	m.replies = m.replies[1:]
	return r.Text, r.Err
}

// Calls reports how many requests were made.
func (m *ScriptedModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}

// Prompt returns the prompt of the i-th request.
func (m *ScriptedModel) Prompt(i int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Requests[i].Prompt
}
