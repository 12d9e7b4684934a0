package llm

import (
	"context"
	"sync"
)

// ProviderStub answers every completion with a canned reply and records the prompts it saw.
type ProviderStub struct {
	mu      sync.Mutex
	reply   string
	err     error
	Systems []string
	Prompts []string
}

func NewProviderStub(reply string) *ProviderStub {
	return &ProviderStub{reply: reply}
}

func (p *ProviderStub) Name() string {
	return "stub"
}

func (p *ProviderStub) Complete(ctx context.Context, system string, prompt string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Systems = append(p.Systems, system)
	p.Prompts = append(p.Prompts, prompt)
	if p.err != nil {
		return "", p.err
	}
	return p.reply, nil
}

func (p *ProviderStub) SetReply(reply string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reply = reply
}

func (p *ProviderStub) FailWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}
