// Package browser owns the Chrome session used by the research agent.
// The session is a scoped resource: acquired once, closed exactly once.
package browser

import (
	"context"
	"strings"
	"sync"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
)

type Options struct {
	Headless bool
	Width    int
	Height   int
}

type Page struct {
	URL   string
	Title string
	Text  string
}

type Link struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// keep page observations small enough to feed back into a chat turn
const maxPageText = 12000

const linksJS = `Array.from(document.querySelectorAll('a[href]'))
	.slice(0, 80)
	.map(a => ({text: a.innerText.trim().slice(0, 120), url: a.href}))`

type Session struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	closeOnce   sync.Once
	log         zerolog.Logger
}

// New starts a Chrome process and verifies it is usable before returning.
func New(parent context.Context, opts Options, log zerolog.Logger) (*Session, error) {
	if opts.Width == 0 {
		opts.Width = 1280
	}
	if opts.Height == 0 {
		opts.Height = 1100
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.WindowSize(opts.Width, opts.Height),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, allocOpts...)
	ctx, cancel := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(ctx); err != nil {
		cancel()
		allocCancel()
		log.Error().Err(err).Msg("browser_start_failed")
		return nil, err
	}

	log.Info().Bool("headless", opts.Headless).Msg("browser_started")
	return &Session{ctx: ctx, cancel: cancel, allocCancel: allocCancel, log: log}, nil
}

func (s *Session) Navigate(url string) error {
	s.log.Debug().Str("url", url).Msg("browser_navigate")
	return chromedp.Run(s.ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

// Page reads the current location, title and visible text, truncated.
func (s *Session) Page() (Page, error) {
	var p Page
	err := chromedp.Run(s.ctx,
		chromedp.Location(&p.URL),
		chromedp.Title(&p.Title),
		chromedp.Text("body", &p.Text, chromedp.NodeVisible, chromedp.ByQuery),
	)
	if err != nil {
		return Page{}, err
	}
	p.Text = strings.TrimSpace(p.Text)
	if len(p.Text) > maxPageText {
		p.Text = p.Text[:maxPageText]
	}
	return p, nil
}

func (s *Session) Links() ([]Link, error) {
	var links []Link
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(linksJS, &links)); err != nil {
		return nil, err
	}
	return links, nil
}

// Close releases the Chrome process. Safe to call on every exit path.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		s.allocCancel()
		s.log.Info().Msg("browser_closed")
	})
}
