package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"leap_assessment_backend/internal/config"
	"leap_assessment_backend/internal/model"
	"leap_assessment_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeResponseStore struct {
	byKey        map[string]*model.AssessmentResponse
	usersByEmail map[string]uint
	nextUserID   uint
	createCalls  int
}

func newFakeResponseStore() *fakeResponseStore {
	return &fakeResponseStore{
		byKey:        make(map[string]*model.AssessmentResponse),
		usersByEmail: make(map[string]uint),
		nextUserID:   1,
	}
}

func (f *fakeResponseStore) FindByIdempotencyKey(key string) (*model.AssessmentResponse, error) {
	resp, ok := f.byKey[key]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return resp, nil
}

func (f *fakeResponseStore) CreateWithOwner(contact model.ContactData, explicitUserID uint, resp *model.AssessmentResponse) error {
	f.createCalls++

	owner := explicitUserID
	if owner == 0 {
		email := strings.ToLower(contact.Email)
		id, ok := f.usersByEmail[email]
		if !ok {
			id = f.nextUserID
			f.nextUserID++
			f.usersByEmail[email] = id
		}
		owner = id
	}

	resp.UserID = owner
	if resp.ID == "" {
		resp.ID = model.GenerateUUID()
	}
	f.byKey[resp.IdempotencyKey] = resp
	return nil
}

type fakeCaptcha struct {
	valid bool
	calls int
}

func (f *fakeCaptcha) ValidateToken(ctx context.Context, token string) bool {
	f.calls++
	return f.valid
}

type memDraftStore struct {
	contacts map[string]map[string]string
	receipts map[string][]byte
}

func newMemDraftStore() *memDraftStore {
	return &memDraftStore{
		contacts: make(map[string]map[string]string),
		receipts: make(map[string][]byte),
	}
}

func (m *memDraftStore) GetContact(ctx context.Context, clientID string) (map[string]string, error) {
	fields, ok := m.contacts[clientID]
	if !ok {
		return map[string]string{}, nil
	}
	return fields, nil
}

func (m *memDraftStore) SetContact(ctx context.Context, clientID string, fields map[string]string) error {
	m.contacts[clientID] = fields
	return nil
}

func (m *memDraftStore) SetReceiptOnce(ctx context.Context, clientID string, receipt interface{}) (bool, error) {
	if _, exists := m.receipts[clientID]; exists {
		return false, nil
	}
	raw, err := json.Marshal(receipt)
	if err != nil {
		return false, err
	}
	m.receipts[clientID] = raw
	return true, nil
}

func (m *memDraftStore) GetReceipt(ctx context.Context, clientID string, dst interface{}) (bool, error) {
	raw, ok := m.receipts[clientID]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func validRequest() SubmitAssessmentRequest {
	return SubmitAssessmentRequest{
		ContactData: model.ContactData{
			FullName: "Jordan Lee",
			Email:    "Jordan@Example.com",
		},
		AssessmentType: model.AssessmentIndividual,
		Answers: []model.AnswerRecord{
			{QuestionID: 1, Category: "habit", Score: 3},
			{QuestionID: 2, Category: "habit", Score: 2},
			{QuestionID: 3, Category: "ability", Score: 3},
			{QuestionID: 4, Category: "ability", Score: 2},
			{QuestionID: 5, Category: "talent", Score: 4},
			{QuestionID: 6, Category: "talent", Score: 1},
			{QuestionID: 7, Category: "skill", Score: 3},
			{QuestionID: 8, Category: "skill", Score: 2},
		},
	}
}

func submissionServiceForTest(store ResponseStore, captcha CaptchaVerifier, drafts DraftStore, required bool) *SubmissionService {
	cfg := &config.Config{}
	cfg.Captcha.Required = required
	return NewSubmissionService(store, captcha, NewDraftService(drafts), cfg)
}

func TestSubmitRecomputesScoresFromAnswers(t *testing.T) {
	store := newFakeResponseStore()
	svc := submissionServiceForTest(store, &fakeCaptcha{valid: true}, newMemDraftStore(), false)

	req := validRequest()
	// deliberately wrong client scores: the answer trace wins
	req.HabitScore = 99
	req.Scores.Leadership = 99

	resp, err := svc.Submit(context.Background(), "client-1", req)

	require.NoError(t, err)
	assert.Equal(t, 5, resp.HabitScore)
	assert.Equal(t, 5, resp.AbilityScore)
	assert.Equal(t, 5, resp.TalentScore)
	assert.Equal(t, 5, resp.SkillScore)
	assert.Equal(t, 10, resp.Leadership)
	assert.Equal(t, 10, resp.Effectiveness)
	assert.Equal(t, 10, resp.Accountability)
	assert.Equal(t, 10, resp.Productivity)
}

func TestSubmitTrustsClientScoresWithoutCategories(t *testing.T) {
	store := newFakeResponseStore()
	svc := submissionServiceForTest(store, &fakeCaptcha{valid: true}, newMemDraftStore(), false)

	req := validRequest()
	for i := range req.Answers {
		req.Answers[i].Category = ""
	}
	req.HabitScore, req.AbilityScore, req.TalentScore, req.SkillScore = 6, 7, 8, 5
	req.Scores.Leadership = 14

	resp, err := svc.Submit(context.Background(), "client-1", req)

	require.NoError(t, err)
	assert.Equal(t, 6, resp.HabitScore)
	assert.Equal(t, 14, resp.Leadership)
}

func TestSubmitReceiptShortCircuitsBeforeAnyCall(t *testing.T) {
	store := newFakeResponseStore()
	captcha := &fakeCaptcha{valid: true}
	drafts := newMemDraftStore()
	drafts.receipts["client-1"], _ = json.Marshal(SubmissionReceipt{ResponseID: "resp-prev"})
	svc := submissionServiceForTest(store, captcha, drafts, false)

	_, err := svc.Submit(context.Background(), "client-1", validRequest())

	var dup *util.DuplicateSubmissionError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "resp-prev", dup.ResponseID)
	assert.Zero(t, captcha.calls, "captcha must not run after the receipt hit")
	assert.Zero(t, store.createCalls, "nothing may be persisted after the receipt hit")
}

func TestSubmitFailedVerificationPersistsNothing(t *testing.T) {
	store := newFakeResponseStore()
	svc := submissionServiceForTest(store, &fakeCaptcha{valid: false}, newMemDraftStore(), false)

	req := validRequest()
	req.CaptchaToken = "bad-token"

	_, err := svc.Submit(context.Background(), "client-1", req)

	assert.ErrorIs(t, err, util.ErrVerificationFailed)
	assert.Zero(t, store.createCalls)
}

func TestSubmitMissingTokenWhenRequired(t *testing.T) {
	store := newFakeResponseStore()
	captcha := &fakeCaptcha{valid: true}
	svc := submissionServiceForTest(store, captcha, newMemDraftStore(), true)

	_, err := svc.Submit(context.Background(), "client-1", validRequest())

	assert.ErrorIs(t, err, util.ErrVerificationFailed)
	assert.Zero(t, captcha.calls)
	assert.Zero(t, store.createCalls)
}

func TestSubmitIdempotencyKeyReusesExistingRow(t *testing.T) {
	store := newFakeResponseStore()
	svc := submissionServiceForTest(store, &fakeCaptcha{valid: true}, newMemDraftStore(), false)

	req := validRequest()
	req.IdempotencyKey = "retry-key"

	first, err := svc.Submit(context.Background(), "", req)
	require.NoError(t, err)

	second, err := svc.Submit(context.Background(), "", req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, store.createCalls)
}

func TestSubmitSameEmailResolvesOneOwner(t *testing.T) {
	store := newFakeResponseStore()
	svc := submissionServiceForTest(store, &fakeCaptcha{valid: true}, newMemDraftStore(), false)

	first := validRequest()
	first.IdempotencyKey = "key-1"
	second := validRequest()
	second.IdempotencyKey = "key-2"
	second.ContactData.Email = "JORDAN@example.com" // same address, different casing

	r1, err := svc.Submit(context.Background(), "", first)
	require.NoError(t, err)
	r2, err := svc.Submit(context.Background(), "", second)
	require.NoError(t, err)

	assert.NotEqual(t, r1.ID, r2.ID)
	assert.Equal(t, r1.UserID, r2.UserID, "repeat submission must not mint a second owner")
}

func TestSubmitRecordsReceipt(t *testing.T) {
	store := newFakeResponseStore()
	drafts := newMemDraftStore()
	svc := submissionServiceForTest(store, &fakeCaptcha{valid: true}, drafts, false)

	resp, err := svc.Submit(context.Background(), "client-1", validRequest())
	require.NoError(t, err)

	var receipt SubmissionReceipt
	found, err := drafts.GetReceipt(context.Background(), "client-1", &receipt)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, resp.ID, receipt.ResponseID)
	assert.Equal(t, "jordan@example.com", receipt.SubmittedEmail)
}

func TestDeriveIdempotencyKeyNormalizesEmail(t *testing.T) {
	a := DeriveIdempotencyKey("  Jordan@Example.com ", "client-1")
	b := DeriveIdempotencyKey("jordan@example.com", "client-1")
	c := DeriveIdempotencyKey("jordan@example.com", "client-2")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}

func TestSubmitStoreErrorSurfaces(t *testing.T) {
	svc := submissionServiceForTest(&erroringStore{}, &fakeCaptcha{valid: true}, newMemDraftStore(), false)

	_, err := svc.Submit(context.Background(), "client-1", validRequest())

	assert.Error(t, err)
}

type erroringStore struct{}

func (erroringStore) FindByIdempotencyKey(key string) (*model.AssessmentResponse, error) {
	return nil, gorm.ErrRecordNotFound
}

func (erroringStore) CreateWithOwner(contact model.ContactData, explicitUserID uint, resp *model.AssessmentResponse) error {
	return errors.New("connection reset")
}
