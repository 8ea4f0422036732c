package core

import (
	"context"
	"errors"
	"sync"

	"renovo-backend-go/internal/mailer"
	"renovo-backend-go/internal/models"
	"renovo-backend-go/internal/payments"
)

type publishedEvent struct {
	Type string
	Data interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, data interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, publishedEvent{Type: eventType, Data: data})
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type recordingMailer struct {
	sent []mailer.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg mailer.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type fakeGateway struct {
	requests []payments.CheckoutRequest
	event    *payments.Event
	err      error
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, req payments.CheckoutRequest) (*payments.CheckoutSession, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.requests = append(g.requests, req)
	return &payments.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.com/c/pay/cs_test_1"}, nil
}

func (g *fakeGateway) ParseWebhook(_ []byte, signature string) (*payments.Event, error) {
	if signature != "valid" {
		return nil, payments.ErrInvalidSignature
	}
	if g.event == nil {
		return nil, errors.New("no event configured")
	}
	return g.event, nil
}

type fakeSearcher struct {
	results []models.ServiceOffering
	calls   int
	err     error
}

func (s *fakeSearcher) Search(_ context.Context, _ string, limit int) ([]models.ServiceOffering, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if len(s.results) > limit {
		return s.results[:limit], nil
	}
	return s.results, nil
}
