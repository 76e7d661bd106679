package vocabdex

import (
	domaward "github.com/kailas-cloud/vocabdex/internal/domain/award"
	domfunder "github.com/kailas-cloud/vocabdex/internal/domain/funder"
	awarduc "github.com/kailas-cloud/vocabdex/internal/usecase/award"
)

func toDraft(in AwardInput) domaward.Draft {
	d := domaward.Draft{
		PID:      in.PID,
		Number:   in.Number,
		Title:    in.Title,
		FunderID: in.Funder,
	}
	for _, id := range in.Identifiers {
		d.Identifiers = append(d.Identifiers, domaward.Identifier{
			Identifier: id.Value,
			Scheme:     domaward.Scheme(id.Scheme),
		})
	}
	return d
}

func fromAward(a domaward.Award) Award {
	out := Award{
		PID:      a.PID(),
		Number:   a.Number(),
		Title:    a.Title(),
		Created:  a.Created(),
		Updated:  a.Updated(),
		Revision: a.Revision(),
		Deleted:  a.IsDeleted(),
	}
	for _, id := range a.Identifiers() {
		out.Identifiers = append(out.Identifiers, Identifier{Value: id.Identifier, Scheme: string(id.Scheme)})
	}
	if f := a.Funder(); f != nil {
		out.Funder = &FunderRef{ID: f.ID, Name: f.Name}
	}
	return out
}

func fromFunder(f domfunder.Funder) Funder {
	return Funder{
		ID:      f.ID(),
		Name:    f.Name(),
		Country: f.Country(),
		Created: f.Created(),
		Updated: f.Updated(),
	}
}

func fromSearch(res awarduc.SearchResult) SearchResult {
	out := SearchResult{
		Hits:   make([]Hit, 0, len(res.Page.Hits)),
		Total:  res.Page.Total,
		SortBy: string(res.Request.Sort()),
		Page:   res.Request.Page(),
		Size:   res.Request.Size(),
	}
	for _, h := range res.Page.Hits {
		out.Hits = append(out.Hits, Hit{Award: fromAward(h.Award()), Score: h.Score()})
	}
	return out
}
