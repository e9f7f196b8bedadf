package driver

import (
	"context"

	"golang.org/x/time/rate"
)

// Paced wraps a Driver and rate-limits every remote action. Boards throttle
// (or flag) sessions that click faster than a human could.
type Paced struct {
	inner Driver
	lim   *rate.Limiter
}

func NewPaced(inner Driver, actionsPerSec float64, burst int) *Paced {
	if actionsPerSec <= 0 {
		actionsPerSec = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &Paced{inner: inner, lim: rate.NewLimiter(rate.Limit(actionsPerSec), burst)}
}

func (p *Paced) Navigate(ctx context.Context, url string) error {
	if err := p.lim.Wait(ctx); err != nil {
		return err
	}
	return p.inner.Navigate(ctx, url)
}

func (p *Paced) WaitFor(ctx context.Context, selector string) (Handle, error) {
	if err := p.lim.Wait(ctx); err != nil {
		return nil, err
	}
	return p.inner.WaitFor(ctx, selector)
}

func (p *Paced) Find(ctx context.Context, selector string) (Handle, error) {
	if err := p.lim.Wait(ctx); err != nil {
		return nil, err
	}
	return p.inner.Find(ctx, selector)
}

func (p *Paced) All(ctx context.Context, selector string) ([]Handle, error) {
	if err := p.lim.Wait(ctx); err != nil {
		return nil, err
	}
	return p.inner.All(ctx, selector)
}

func (p *Paced) Click(ctx context.Context, selector string) error {
	if err := p.lim.Wait(ctx); err != nil {
		return err
	}
	return p.inner.Click(ctx, selector)
}

func (p *Paced) ClickHandle(ctx context.Context, h Handle) error {
	if err := p.lim.Wait(ctx); err != nil {
		return err
	}
	return p.inner.ClickHandle(ctx, h)
}

func (p *Paced) ScrollToEnd(ctx context.Context, h Handle) error {
	if err := p.lim.Wait(ctx); err != nil {
		return err
	}
	return p.inner.ScrollToEnd(ctx, h)
}

func (p *Paced) ExtractFields(ctx context.Context, h Handle, fields map[string]string) (map[string]string, error) {
	if err := p.lim.Wait(ctx); err != nil {
		return nil, err
	}
	return p.inner.ExtractFields(ctx, h, fields)
}

func (p *Paced) NumericAttr(ctx context.Context, h Handle, attr string) (int, error) {
	if err := p.lim.Wait(ctx); err != nil {
		return 0, err
	}
	return p.inner.NumericAttr(ctx, h, attr)
}
