package inbox

import (
	"strings"

	"github.com/masa23/crmmail/model"
)

// Filter narrows a snapshot. Zero fields match everything.
type Filter struct {
	Direction model.Direction
	Status    model.Status
	// Search is a case-insensitive substring of subject or sender address.
	Search string
}

func (f Filter) Match(e model.EmailRecord) bool {
	if f.Direction != "" && e.Direction != f.Direction {
		return false
	}
	if f.Status != "" && e.Status != f.Status {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(e.Subject), q) && !strings.Contains(strings.ToLower(e.FromEmail), q) {
			return false
		}
	}
	return true
}

func (f Filter) Apply(emails []model.EmailRecord) []model.EmailRecord {
	out := []model.EmailRecord{}
	for _, e := range emails {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

type Stats struct {
	Total     int `json:"total"`
	NonLus    int `json:"nonLus"`
	Favoris   int `json:"favoris"`
	Important int `json:"important"`
	Recus     int `json:"recus"`
	Envoyes   int `json:"envoyes"`
}

func ComputeStats(emails []model.EmailRecord) Stats {
	s := Stats{Total: len(emails)}
	for _, e := range emails {
		if !e.IsRead {
			s.NonLus++
		}
		if e.IsStarred {
			s.Favoris++
		}
		if e.IsImportant {
			s.Important++
		}
		switch e.Direction {
		case model.DirectionInbound:
			s.Recus++
		case model.DirectionOutbound:
			s.Envoyes++
		}
	}
	return s
}
