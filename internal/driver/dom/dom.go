// Package dom implements driver.Driver over static HTML snapshots.
//
// It can fetch over HTTP or read file:// paths, and resolves selectors with
// goquery. Snapshots have no script, so "waiting" is just finding, scrolling
// is a no-op (everything is already rendered), and a click only does
// something when the element carries an href. That is enough for screen-only
// dry runs against saved result pages, and for tests.
package dom

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"autoapply-engine/internal/driver"
)

type Driver struct {
	client *http.Client
	cookie string

	doc *goquery.Document
	cur *url.URL
}

type Option func(*Driver)

// WithCookie sends the authenticated board session cookie with every
// fetch, so snapshots of logged-in pages resolve.
func WithCookie(cookie string) Option {
	return func(d *Driver) { d.cookie = cookie }
}

func WithClient(c *http.Client) Option {
	return func(d *Driver) { d.client = c }
}

func New(opts ...Option) *Driver {
	d := &Driver{
		client: &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

func (d *Driver) Navigate(ctx context.Context, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("dom navigate: %w", err)
	}

	var doc *goquery.Document
	switch u.Scheme {
	case "file":
		b, err := os.ReadFile(u.Path)
		if err != nil {
			return fmt.Errorf("dom navigate %s: %w", raw, err)
		}
		doc, err = goquery.NewDocumentFromReader(strings.NewReader(string(b)))
		if err != nil {
			return fmt.Errorf("dom parse %s: %w", raw, err)
		}
	default:
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, raw, nil)
		if err != nil {
			return fmt.Errorf("dom navigate %s: %w", raw, err)
		}
		if d.cookie != "" {
			req.Header.Set("Cookie", d.cookie)
		}
		resp, err := d.client.Do(req)
		if err != nil {
			return fmt.Errorf("dom navigate %s: %w", raw, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 400 {
			return fmt.Errorf("dom navigate %s: status %d", raw, resp.StatusCode)
		}
		doc, err = goquery.NewDocumentFromReader(resp.Body)
		if err != nil {
			return fmt.Errorf("dom parse %s: %w", raw, err)
		}
	}

	d.doc = doc
	d.cur = u
	return nil
}

// LoadHTML installs a document directly, bypassing Navigate. Used by tests
// and by callers that already hold the page bytes.
func (d *Driver) LoadHTML(html string) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return err
	}
	d.doc = doc
	d.cur = nil
	return nil
}

func (d *Driver) find(selector string) (*goquery.Selection, error) {
	if d.doc == nil {
		return nil, fmt.Errorf("dom: no page loaded")
	}
	sel := d.doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil, fmt.Errorf("dom find %q: %w", selector, driver.ErrNotFound)
	}
	return sel, nil
}

// WaitFor is Find: a snapshot never changes, so there is nothing to wait on.
func (d *Driver) WaitFor(ctx context.Context, selector string) (driver.Handle, error) {
	return d.Find(ctx, selector)
}

func (d *Driver) Find(_ context.Context, selector string) (driver.Handle, error) {
	return d.find(selector)
}

func (d *Driver) All(_ context.Context, selector string) ([]driver.Handle, error) {
	if d.doc == nil {
		return nil, fmt.Errorf("dom: no page loaded")
	}
	var out []driver.Handle
	d.doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, s)
	})
	return out, nil
}

func (d *Driver) Click(ctx context.Context, selector string) error {
	sel, err := d.find(selector)
	if err != nil {
		return err
	}
	return d.ClickHandle(ctx, sel)
}

func (d *Driver) ClickHandle(ctx context.Context, h driver.Handle) error {
	sel, ok := h.(*goquery.Selection)
	if !ok || sel == nil {
		return fmt.Errorf("dom click: bad handle")
	}
	href, ok := sel.Attr("href")
	if !ok {
		// Not a link; nothing a snapshot can do with the click.
		return nil
	}
	target, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return fmt.Errorf("dom click: %w", err)
	}
	if d.cur != nil {
		target = d.cur.ResolveReference(target)
	}
	return d.Navigate(ctx, target.String())
}

func (d *Driver) ScrollToEnd(_ context.Context, _ driver.Handle) error {
	return nil
}

func (d *Driver) ExtractFields(_ context.Context, h driver.Handle, fields map[string]string) (map[string]string, error) {
	sel, ok := h.(*goquery.Selection)
	if !ok || sel == nil {
		return nil, fmt.Errorf("dom extract: bad handle")
	}
	out := make(map[string]string, len(fields))
	for name, sub := range fields {
		out[name] = cleanText(sel.Find(sub).First().Text())
	}
	return out, nil
}

func (d *Driver) NumericAttr(_ context.Context, h driver.Handle, attr string) (int, error) {
	sel, ok := h.(*goquery.Selection)
	if !ok || sel == nil {
		return 0, fmt.Errorf("dom attr: bad handle")
	}
	v, ok := sel.Attr(attr)
	if !ok {
		return 0, fmt.Errorf("dom attr %q: %w", attr, driver.ErrNotFound)
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("dom attr %q=%q: %w", attr, v, err)
	}
	return n, nil
}

func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}
