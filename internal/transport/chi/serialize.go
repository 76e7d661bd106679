package chi

import (
	"net/url"
	"strconv"
	"time"

	domaward "github.com/kailas-cloud/vocabdex/internal/domain/award"
	domfunder "github.com/kailas-cloud/vocabdex/internal/domain/funder"
	"github.com/kailas-cloud/vocabdex/internal/domain/search/request"
	"github.com/kailas-cloud/vocabdex/internal/domain/search/result"
	awarduc "github.com/kailas-cloud/vocabdex/internal/usecase/award"
)

// awardRequest is the body of create and update calls. Read-only fields of
// a previously fetched record (links, timestamps, revision) are ignored.
type awardRequest struct {
	ID          string                `json:"id"`
	PID         string                `json:"pid"`
	Number      string                `json:"number"`
	Title       map[string]string     `json:"title"`
	Identifiers []domaward.Identifier `json:"identifiers"`
	Funder      *funderLink           `json:"funder"`
}

type funderLink struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

func (r *awardRequest) draft() domaward.Draft {
	d := domaward.Draft{
		PID:         r.PID,
		Number:      r.Number,
		Title:       r.Title,
		Identifiers: r.Identifiers,
	}
	if d.PID == "" {
		d.PID = r.ID
	}
	if r.Funder != nil {
		d.FunderID = r.Funder.ID
	}
	return d
}

type links struct {
	Self string `json:"self"`
	Next string `json:"next,omitempty"`
	Prev string `json:"prev,omitempty"`
}

// awardResponse is the public envelope of a live award.
type awardResponse struct {
	ID          string                `json:"id"`
	PID         string                `json:"pid"`
	Number      string                `json:"number"`
	Title       map[string]string     `json:"title"`
	Identifiers []domaward.Identifier `json:"identifiers"`
	Funder      *funderLink           `json:"funder,omitempty"`
	Links       links                 `json:"links"`
	Created     time.Time             `json:"created"`
	Updated     time.Time             `json:"updated"`
	RevisionID  int                   `json:"revision_id"`
}

// tombstoneResponse is the envelope of a soft-deleted award.
type tombstoneResponse struct {
	Created    time.Time `json:"created"`
	Updated    time.Time `json:"updated"`
	ID         string    `json:"id"`
	Links      links     `json:"links"`
	RevisionID int       `json:"revision_id"`
	PID        string    `json:"pid"`
}

func (s *Server) awardSelf(pid string) string {
	return s.opts.BaseURL + "/awards/" + url.PathEscape(pid)
}

// renderAward serializes an award, as a tombstone when deleted.
func (s *Server) renderAward(a domaward.Award) any {
	self := links{Self: s.awardSelf(a.PID())}
	if a.IsDeleted() {
		return tombstoneResponse{
			Created:    a.Created(),
			Updated:    a.Updated(),
			ID:         a.PID(),
			Links:      self,
			RevisionID: a.Revision(),
			PID:        a.PID(),
		}
	}

	resp := awardResponse{
		ID:          a.PID(),
		PID:         a.PID(),
		Number:      a.Number(),
		Title:       a.Title(),
		Identifiers: a.Identifiers(),
		Links:       self,
		Created:     a.Created(),
		Updated:     a.Updated(),
		RevisionID:  a.Revision(),
	}
	if resp.Title == nil {
		resp.Title = map[string]string{}
	}
	if resp.Identifiers == nil {
		resp.Identifiers = []domaward.Identifier{}
	}
	if f := a.Funder(); f != nil {
		resp.Funder = &funderLink{ID: f.ID, Name: f.Name}
	}
	return resp
}

type hitsEnvelope struct {
	Hits  []any `json:"hits"`
	Total int   `json:"total"`
}

type searchResponse struct {
	Hits   hitsEnvelope `json:"hits"`
	SortBy string       `json:"sortBy"`
	Links  links        `json:"links"`
}

func (s *Server) renderSearch(res awarduc.SearchResult, funders []string) searchResponse {
	hits := make([]any, 0, len(res.Page.Hits))
	for _, h := range res.Page.Hits {
		hits = append(hits, s.renderAward(h.Award()))
	}
	return searchResponse{
		Hits:   hitsEnvelope{Hits: hits, Total: res.Page.Total},
		SortBy: string(res.Request.Sort()),
		Links:  s.searchLinks(res.Request, res.Page, funders),
	}
}

// searchLinks renders self/next/prev page links preserving the query.
func (s *Server) searchLinks(req request.Request, page result.Page, funders []string) links {
	pageURL := func(n int) string {
		v := url.Values{}
		v.Set("page", strconv.Itoa(n))
		v.Set("size", strconv.Itoa(req.Size()))
		v.Set("sort", string(req.Sort()))
		if req.Query() != "" {
			v.Set("q", req.Query())
		}
		if req.Suggest() != "" {
			v.Set("suggest", req.Suggest())
		}
		for _, f := range funders {
			v.Add("funders", f)
		}
		return s.opts.BaseURL + "/awards?" + v.Encode()
	}

	l := links{Self: pageURL(req.Page())}
	if page.HasNext(req.Offset()) && (req.Page()+1)*req.Size() <= request.MaxWindow {
		l.Next = pageURL(req.Page() + 1)
	}
	if req.Page() > 1 {
		l.Prev = pageURL(req.Page() - 1)
	}
	return l
}

type funderRequest struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

type funderResponse struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Country string    `json:"country,omitempty"`
	Links   links     `json:"links"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
}

func (s *Server) renderFunder(f domfunder.Funder) funderResponse {
	return funderResponse{
		ID:      f.ID(),
		Name:    f.Name(),
		Country: f.Country(),
		Links:   links{Self: s.opts.BaseURL + "/funders/" + url.PathEscape(f.ID())},
		Created: f.Created(),
		Updated: f.Updated(),
	}
}
