package service

import (
	"context"
	"testing"
	"time"

	"leap_assessment_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateContactMergeWrite(t *testing.T) {
	store := newMemDraftStore()
	svc := NewDraftService(store)
	ctx := context.Background()

	first, err := svc.UpdateContact(ctx, "client-1", map[string]string{
		"full_name": "Jonathan Smith",
		"email":     "jon@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Jonathan Smith", first["full_name"])

	// shorter name and an added company: the stored longer name survives
	second, err := svc.UpdateContact(ctx, "client-1", map[string]string{
		"full_name": "Jon",
		"company":   "Acme Corp",
	})
	require.NoError(t, err)
	assert.Equal(t, "Jonathan Smith", second["full_name"])
	assert.Equal(t, "jon@example.com", second["email"])
	assert.Equal(t, "Acme Corp", second["company"])
}

func TestUpdateContactDropsUnknownFields(t *testing.T) {
	svc := NewDraftService(newMemDraftStore())

	merged, err := svc.UpdateContact(context.Background(), "client-1", map[string]string{
		"email":       "jon@example.com",
		"fingerprint": "not-a-contact-field",
	})

	require.NoError(t, err)
	assert.Equal(t, "jon@example.com", merged["email"])
	assert.NotContains(t, merged, "fingerprint")
}

func TestRecordReceiptWriteOnce(t *testing.T) {
	svc := NewDraftService(newMemDraftStore())
	ctx := context.Background()

	first := SubmissionReceipt{
		SubmittedEmail: "jon@example.com",
		ResponseID:     "resp-1",
		SubmittedAt:    time.Now(),
	}
	require.NoError(t, svc.RecordReceipt(ctx, "client-1", first))

	second := first
	second.ResponseID = "resp-2"
	err := svc.RecordReceipt(ctx, "client-1", second)
	assert.ErrorIs(t, err, util.ErrReceiptAlreadySet)

	got, err := svc.GetReceipt(ctx, "client-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "resp-1", got.ResponseID, "the first receipt must win")
}

func TestGetReceiptMissing(t *testing.T) {
	svc := NewDraftService(newMemDraftStore())

	got, err := svc.GetReceipt(context.Background(), "client-unknown")

	require.NoError(t, err)
	assert.Nil(t, got)
}
