package mailope

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/masa23/crmmail/model"
	"github.com/masa23/crmmail/objectstorage"
	"gorm.io/gorm"
)

var (
	ErrJournalDisabled = errors.New("sent journal is disabled")
	ErrSentNotFound    = errors.New("sent message not found")
)

// ObjectStore archives raw messages. Put returns the key actually written.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader) (string, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// Journal records outbound messages in the database and, when a store is
// configured, archives their raw form.
type Journal struct {
	db    *gorm.DB
	store ObjectStore
	now   func() time.Time
}

// NewJournal returns nil when db is nil; a nil Journal reports
// ErrJournalDisabled from every method.
func NewJournal(db *gorm.DB, store ObjectStore) *Journal {
	if db == nil {
		return nil
	}
	return &Journal{db: db, store: store, now: time.Now}
}

// Record saves sent. The raw message is uploaded first and removed again if
// the database insert fails.
func (j *Journal) Record(ctx context.Context, sent *model.SentMessage, raw []byte) error {
	if j == nil {
		return ErrJournalDisabled
	}
	sent.Size = int64(len(raw))

	if j.store != nil && len(raw) > 0 {
		key, err := j.store.Put(ctx, objectstorage.GenerateObjectKey(j.now()), bytes.NewReader(raw))
		if err != nil {
			return fmt.Errorf("error archiving message: %w", err)
		}
		sent.ObjectStorageKey = key
	}

	err := j.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(sent).Error
	})
	if err != nil {
		if sent.ObjectStorageKey != "" {
			if derr := j.store.Delete(ctx, sent.ObjectStorageKey); derr != nil {
				log.Printf("Error deleting orphan object %s: %v", sent.ObjectStorageKey, derr)
			}
			sent.ObjectStorageKey = ""
		}
		return fmt.Errorf("error saving sent message to database: %w", err)
	}
	log.Printf("Sent message saved with ID: %d", sent.ID)
	return nil
}

// List returns up to limit entries, newest first.
func (j *Journal) List(ctx context.Context, limit int) ([]model.SentMessage, error) {
	if j == nil {
		return nil, ErrJournalDisabled
	}
	messages := []model.SentMessage{}
	q := j.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("error listing sent messages: %w", err)
	}
	return messages, nil
}

func (j *Journal) Get(ctx context.Context, id uint64) (model.SentMessage, error) {
	if j == nil {
		return model.SentMessage{}, ErrJournalDisabled
	}
	var sent model.SentMessage
	if err := j.db.WithContext(ctx).First(&sent, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return sent, fmt.Errorf("%d: %w", id, ErrSentNotFound)
		}
		return sent, err
	}
	return sent, nil
}

// Raw returns the archived RFC 822 form of entry id.
func (j *Journal) Raw(ctx context.Context, id uint64) ([]byte, error) {
	sent, err := j.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if j.store == nil || sent.ObjectStorageKey == "" {
		return nil, fmt.Errorf("%d has no archived body: %w", id, ErrSentNotFound)
	}

	rc, err := j.store.Get(ctx, sent.ObjectStorageKey)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
