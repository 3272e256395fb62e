// Package ui renders import progress on the terminal.
package ui

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"
)

// ProgressBar shows pages completed out of the resolved range.
type ProgressBar struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

// NewProgressBar writes to w, normally os.Stderr.
func NewProgressBar(w io.Writer) *ProgressBar {
	return &ProgressBar{w: w}
}

// Start begins a bar for total pages.
func (p *ProgressBar) Start(total int) {
	w := p.w
	p.bar = progressbar.NewOptions(
		total,
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Processing pages"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("pages"),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// PageDone advances the bar by one page.
func (p *ProgressBar) PageDone(page int) {
	if p.bar == nil {
		return
	}
	p.bar.Describe(fmt.Sprintf("Page %d", page))
	_ = p.bar.Add(1)
}

// Finish completes the bar.
func (p *ProgressBar) Finish() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()
}

// Abort stops the bar where it is, leaving the partial count on screen.
func (p *ProgressBar) Abort() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Exit()
}
