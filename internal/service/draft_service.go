package service

import (
	"context"
	"time"

	"leap_assessment_backend/internal/util"
)

// DraftStore is the cache behind the draft service; the Redis-backed
// implementation lives in the repository package.
type DraftStore interface {
	GetContact(ctx context.Context, clientID string) (map[string]string, error)
	SetContact(ctx context.Context, clientID string, fields map[string]string) error
	SetReceiptOnce(ctx context.Context, clientID string, receipt interface{}) (bool, error)
	GetReceipt(ctx context.Context, clientID string, dst interface{}) (bool, error)
}

// SubmissionReceipt marks a completed submission from one browser. Its
// presence short-circuits the UI into an "already submitted" state; it is
// the first, weak line of duplicate defense ahead of the server-side
// idempotency key.
type SubmissionReceipt struct {
	SubmittedEmail string    `json:"submittedEmail"`
	ResponseID     string    `json:"responseId"`
	SubmittedAt    time.Time `json:"submittedAt"`
	CallScheduled  bool      `json:"callScheduled"`
}

// DraftService is a convenience cache for in-progress contact info and
// submission receipts, keyed by an opaque client ID. Never authoritative.
type DraftService struct {
	Store DraftStore
}

func NewDraftService(store DraftStore) *DraftService {
	return &DraftService{Store: store}
}

var contactFields = []string{"full_name", "email", "company", "role", "phone"}

// UpdateContact merge-writes incoming prefill fields: a stored value that is
// strictly longer than the incoming one is preserved, everything else is
// overwritten. Unknown field names are dropped.
func (s *DraftService) UpdateContact(ctx context.Context, clientID string, incoming map[string]string) (map[string]string, error) {
	stored, err := s.Store.GetContact(ctx, clientID)
	if err != nil {
		return nil, err
	}

	merged := make(map[string]string, len(contactFields))
	for _, field := range contactFields {
		cur, next := stored[field], incoming[field]
		switch {
		case next == "":
			if cur != "" {
				merged[field] = cur
			}
		case len(cur) > len(next):
			merged[field] = cur
		default:
			merged[field] = next
		}
	}

	if err := s.Store.SetContact(ctx, clientID, merged); err != nil {
		return nil, err
	}
	return merged, nil
}

func (s *DraftService) GetContact(ctx context.Context, clientID string) (map[string]string, error) {
	return s.Store.GetContact(ctx, clientID)
}

// RecordReceipt writes the submission receipt exactly once per client.
func (s *DraftService) RecordReceipt(ctx context.Context, clientID string, receipt SubmissionReceipt) error {
	ok, err := s.Store.SetReceiptOnce(ctx, clientID, receipt)
	if err != nil {
		return err
	}
	if !ok {
		return util.ErrReceiptAlreadySet
	}
	return nil
}

// GetReceipt returns the stored receipt, if any.
func (s *DraftService) GetReceipt(ctx context.Context, clientID string) (*SubmissionReceipt, error) {
	var receipt SubmissionReceipt
	found, err := s.Store.GetReceipt(ctx, clientID, &receipt)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &receipt, nil
}
