package metrics

import (
	"context"
	"time"

	"github.com/agentstation/stargazer/pkg/github"
)

// instrumentedGateway records every call of the wrapped gateway.
type instrumentedGateway struct {
	next    github.Gateway
	metrics *Metrics
	now     func() time.Time
}

// InstrumentGateway wraps gw so each call is counted and timed.
func (m *Metrics) InstrumentGateway(gw github.Gateway) github.Gateway {
	return &instrumentedGateway{next: gw, metrics: m, now: time.Now}
}

func (g *instrumentedGateway) observe(op github.Operation, start time.Time, err error) {
	g.metrics.ObserveUpstream(op.String(), err, g.now().Sub(start))
}

func (g *instrumentedGateway) Search(ctx context.Context, params github.SearchParams) (*github.SearchResult, error) {
	start := g.now()
	result, err := g.next.Search(ctx, params)
	g.observe(github.OpSearch, start, err)
	return result, err
}

func (g *instrumentedGateway) CheckStar(ctx context.Context, ref github.RepoRef, token string) (bool, error) {
	start := g.now()
	starred, err := g.next.CheckStar(ctx, ref, token)
	g.observe(github.OpCheckStar, start, err)
	return starred, err
}

func (g *instrumentedGateway) AddStar(ctx context.Context, ref github.RepoRef, token string) error {
	start := g.now()
	err := g.next.AddStar(ctx, ref, token)
	g.observe(github.OpAddStar, start, err)
	return err
}

func (g *instrumentedGateway) RemoveStar(ctx context.Context, ref github.RepoRef, token string) error {
	start := g.now()
	err := g.next.RemoveStar(ctx, ref, token)
	g.observe(github.OpRemoveStar, start, err)
	return err
}
