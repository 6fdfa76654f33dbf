package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

const draftTTL = 30 * 24 * time.Hour

// DraftRepository keeps the per-client draft cache in Redis: a contact
// prefill hash and a write-once submission receipt, both keyed by the opaque
// client ID the browser sends. Never the system of record.
type DraftRepository struct {
	Redis *redis.Client
}

func NewDraftRepository(rdb *redis.Client) *DraftRepository {
	return &DraftRepository{Redis: rdb}
}

func contactKey(clientID string) string { return "draft:contact:" + clientID }
func receiptKey(clientID string) string { return "draft:receipt:" + clientID }

func (r *DraftRepository) GetContact(ctx context.Context, clientID string) (map[string]string, error) {
	fields, err := r.Redis.HGetAll(ctx, contactKey(clientID)).Result()
	if err != nil {
		return nil, err
	}
	return fields, nil
}

func (r *DraftRepository) SetContact(ctx context.Context, clientID string, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	key := contactKey(clientID)
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	pipe := r.Redis.TxPipeline()
	pipe.HSet(ctx, key, args...)
	pipe.Expire(ctx, key, draftTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// SetReceiptOnce stores the receipt only if none exists yet. Returns false
// when a receipt was already present.
func (r *DraftRepository) SetReceiptOnce(ctx context.Context, clientID string, receipt interface{}) (bool, error) {
	raw, err := json.Marshal(receipt)
	if err != nil {
		return false, err
	}
	return r.Redis.SetNX(ctx, receiptKey(clientID), raw, draftTTL).Result()
}

// GetReceipt unmarshals the stored receipt into dst; found reports whether a
// receipt exists.
func (r *DraftRepository) GetReceipt(ctx context.Context, clientID string, dst interface{}) (bool, error) {
	raw, err := r.Redis.Get(ctx, receiptKey(clientID)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(raw, dst)
}
