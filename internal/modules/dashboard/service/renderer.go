package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	statsDto "anoa.com/playstats/internal/modules/stats/dto"
	"anoa.com/playstats/pkg/apperror"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type State int

const (
	StatePending State = iota
	StateRendered
	StateError
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateRendered:
		return "rendered"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Result is the outcome of one Load.
type Result struct {
	State State
	Err   error
}

// Renderer fills a Page from a stats document. It is not safe for
// concurrent use; build one per page.
type Renderer struct {
	page    *Page
	fetcher Fetcher
	state   State
	err     error
}

func NewRenderer(page *Page, fetcher Fetcher) *Renderer {
	return &Renderer{
		page:    page,
		fetcher: fetcher,
		state:   StatePending,
	}
}

func (r *Renderer) State() State { return r.state }

func (r *Renderer) Err() error { return r.err }

// Load fetches the document once and renders it. Any failure moves the
// renderer to StateError and shows a message in the status element; the
// stats targets are left as they were.
func (r *Renderer) Load(ctx context.Context) Result {
	doc, err := r.fetcher.Fetch(ctx)
	if err == nil {
		err = r.Render(doc)
	}
	if err != nil {
		r.fail(err)
	}
	return Result{State: r.state, Err: r.err}
}

// Render writes doc into the page. The board is cleared first so rendering
// the same document twice gives the same page.
func (r *Renderer) Render(doc *statsDto.StatsDocument) error {
	if doc == nil {
		return fmt.Errorf("%w: empty document", apperror.ErrMalformedBody)
	}

	cards := r.page.Find(SelectorCards).First()
	board := r.page.Find(SelectorBoard).First()
	invite := r.page.Find(SelectorInvite).First()

	var missing []string
	for _, target := range []struct {
		selector string
		found    int
	}{
		{SelectorCards, cards.Length()},
		{SelectorBoard, board.Length()},
		{SelectorInvite, invite.Length()},
	} {
		if target.found == 0 {
			missing = append(missing, target.selector)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", apperror.ErrDomTargetMissing, strings.Join(missing, ", "))
	}

	cards.SetText(TotalPlaysText(doc.TotalPlays))

	board.Empty()
	items := make([]*html.Node, 0, len(doc.TopUsers))
	for _, u := range doc.TopUsers {
		items = append(items, newTextElement(atom.Li, EntryText(u)))
	}
	board.AppendNodes(items...)

	invite.SetAttr("href", doc.InviteURL)

	r.clearStatus()
	r.state = StateRendered
	r.err = nil
	return nil
}

func (r *Renderer) fail(err error) {
	r.state = StateError
	r.err = err
	log.Printf("❌ Dashboard render failed: %v", err)
	r.showStatus(ErrorMessage(err))
}

func (r *Renderer) showStatus(msg string) {
	status := r.page.Find(SelectorStatus).First()
	if status.Length() == 0 {
		n := newTextElement(atom.P, "")
		n.Attr = []html.Attribute{
			{Key: "id", Val: strings.TrimPrefix(SelectorStatus, "#")},
			{Key: "role", Val: "alert"},
		}
		r.page.Find("body").First().PrependNodes(n)
		status = r.page.Find(SelectorStatus).First()
	}
	status.SetText(msg)
	status.RemoveAttr("hidden")
	status.SetAttr("class", "error")
}

func (r *Renderer) clearStatus() {
	status := r.page.Find(SelectorStatus).First()
	if status.Length() == 0 {
		return
	}
	status.SetText("")
	status.SetAttr("hidden", "")
	status.RemoveAttr("class")
}

// TotalPlaysText formats the headline without locale grouping.
func TotalPlaysText(total int64) string {
	return "Total plays: " + strconv.FormatInt(total, 10)
}

func EntryText(u statsDto.TopUser) string {
	return u.Name + " — " + strconv.FormatInt(u.Plays, 10)
}

// ErrorMessage is the user-facing text for a failed load.
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, apperror.ErrNetworkFailure):
		return "Could not reach the stats service. Please try again later."
	case errors.Is(err, apperror.ErrBadStatus):
		return "The stats service returned an error. Please try again later."
	case errors.Is(err, apperror.ErrMalformedBody):
		return "The stats service sent data we could not read."
	case errors.Is(err, apperror.ErrDomTargetMissing):
		return "This page is missing the elements needed to show stats."
	default:
		return "Something went wrong while loading stats."
	}
}
