package mailope

import (
	"context"
	"errors"
	"testing"

	"github.com/masa23/crmmail/model"
)

func TestDisabledJournal(t *testing.T) {
	j := NewJournal(nil, nil)
	if j != nil {
		t.Fatalf("NewJournal(nil) = %v; want nil", j)
	}

	ctx := context.Background()
	if err := j.Record(ctx, &model.SentMessage{}, []byte("x")); !errors.Is(err, ErrJournalDisabled) {
		t.Errorf("Record() = %v", err)
	}
	if _, err := j.List(ctx, 10); !errors.Is(err, ErrJournalDisabled) {
		t.Errorf("List() = %v", err)
	}
	if _, err := j.Get(ctx, 1); !errors.Is(err, ErrJournalDisabled) {
		t.Errorf("Get() = %v", err)
	}
	if _, err := j.Raw(ctx, 1); !errors.Is(err, ErrJournalDisabled) {
		t.Errorf("Raw() = %v", err)
	}
}
