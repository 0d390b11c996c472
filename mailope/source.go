package mailope

import (
	"context"
	"time"

	"github.com/masa23/crmmail/classifier"
	"github.com/masa23/crmmail/mailfetch"
	"github.com/masa23/crmmail/model"
)

type Fetcher interface {
	Fetch(ctx context.Context, limit int) ([]mailfetch.RawMessage, error)
}

// MailboxSource fetches and normalizes one account's inbox.
type MailboxSource struct {
	Fetcher    Fetcher
	Account    model.EmailAccount
	Classifier *classifier.Classifier
	Limit      int
	Timeout    time.Duration
	Now        func() time.Time
}

func NewMailboxSource(account model.EmailAccount, limit int, timeout time.Duration) *MailboxSource {
	return &MailboxSource{
		Fetcher:    mailfetch.NewClient(account),
		Account:    account,
		Classifier: classifier.Default(),
		Limit:      limit,
		Timeout:    timeout,
		Now:        time.Now,
	}
}

func (s *MailboxSource) Fetch(ctx context.Context) ([]model.EmailRecord, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	raws, err := s.Fetcher.Fetch(ctx, s.Limit)
	if err != nil {
		return nil, err
	}
	return NormalizeAll(raws, s.Account.Email, s.Classifier, s.Now()), nil
}
