package service

import (
	"context"
	"testing"
	"time"

	"leap_assessment_backend/internal/config"
	"leap_assessment_backend/internal/model"
	"leap_assessment_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeResponseReader struct {
	responses map[string]*model.AssessmentResponse
}

func (f *fakeResponseReader) FindByID(id string) (*model.AssessmentResponse, error) {
	resp, ok := f.responses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return resp, nil
}

func (f *fakeResponseReader) ListByUser(userID uint) ([]model.AssessmentResponse, error) {
	var out []model.AssessmentResponse
	for _, r := range f.responses {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeResponseReader) List(page, limit int, assessmentType string) ([]model.AssessmentResponse, int64, error) {
	var out []model.AssessmentResponse
	for _, r := range f.responses {
		out = append(out, *r)
	}
	return out, int64(len(out)), nil
}

type fakeLimiter struct {
	allowed    bool
	retryAfter int
}

func (f *fakeLimiter) Allow(ctx context.Context, clientAddr string) (bool, int, error) {
	return f.allowed, f.retryAfter, nil
}

func responseCreatedAt(age time.Duration, owner uint) *model.AssessmentResponse {
	resp := &model.AssessmentResponse{
		UserID:         owner,
		AssessmentType: model.AssessmentIndividual,
	}
	resp.ID = "resp-1"
	resp.CreatedAt = time.Now().Add(-age)
	return resp
}

func TestDecideAnonymousWithinWindow(t *testing.T) {
	resp := responseCreatedAt(5*time.Minute, 1)

	err := Decide(nil, resp, time.Now(), 10*time.Minute)

	assert.NoError(t, err)
}

func TestDecideAnonymousPastWindow(t *testing.T) {
	resp := responseCreatedAt(15*time.Minute, 1)

	err := Decide(nil, resp, time.Now(), 10*time.Minute)

	assert.ErrorIs(t, err, util.ErrUnauthorized)
}

func TestDecideOwnerAtAnyAge(t *testing.T) {
	resp := responseCreatedAt(72*time.Hour, 42)
	claims := &util.Claims{UserID: 42, Role: model.RoleMember}

	assert.NoError(t, Decide(claims, resp, time.Now(), 10*time.Minute))
}

func TestDecideNonOwnerDeniedEvenWithinWindow(t *testing.T) {
	resp := responseCreatedAt(time.Minute, 42)
	claims := &util.Claims{UserID: 7, Role: model.RoleMember}

	assert.ErrorIs(t, Decide(claims, resp, time.Now(), 10*time.Minute), util.ErrUnauthorized)
}

func TestDecideAdminReadsAnything(t *testing.T) {
	resp := responseCreatedAt(30*24*time.Hour, 42)
	claims := &util.Claims{UserID: 7, Role: model.RoleAdmin}

	assert.NoError(t, Decide(claims, resp, time.Now(), 10*time.Minute))
}

func resultServiceForTest(responses map[string]*model.AssessmentResponse, limiter ResultRateLimiter) *ResultService {
	cfg := &config.Config{}
	cfg.Results.AnonymousWindow = 10 * time.Minute
	return NewResultService(&fakeResponseReader{responses: responses}, limiter, cfg)
}

func TestGetResponseNotFound(t *testing.T) {
	svc := resultServiceForTest(map[string]*model.AssessmentResponse{}, &fakeLimiter{allowed: true})

	_, err := svc.GetResponse(context.Background(), "missing", nil, "10.0.0.1")

	assert.ErrorIs(t, err, util.ErrResponseNotFound)
}

func TestGetResponseRateLimited(t *testing.T) {
	resp := responseCreatedAt(time.Minute, 1)
	svc := resultServiceForTest(map[string]*model.AssessmentResponse{resp.ID: resp}, &fakeLimiter{allowed: false, retryAfter: 37})

	_, err := svc.GetResponse(context.Background(), resp.ID, nil, "10.0.0.1")

	var rle *util.RateLimitedError
	require.ErrorAs(t, err, &rle)
	assert.Equal(t, 37, rle.RetryAfterSeconds)
}

func TestGetResponseAnonymousFreshResult(t *testing.T) {
	resp := responseCreatedAt(time.Minute, 1)
	svc := resultServiceForTest(map[string]*model.AssessmentResponse{resp.ID: resp}, &fakeLimiter{allowed: true})

	got, err := svc.GetResponse(context.Background(), resp.ID, nil, "10.0.0.1")

	require.NoError(t, err)
	assert.Equal(t, resp.ID, got.ID)
}

func TestListMineRequiresAuth(t *testing.T) {
	svc := resultServiceForTest(map[string]*model.AssessmentResponse{}, &fakeLimiter{allowed: true})

	_, err := svc.ListMine(nil)

	assert.ErrorIs(t, err, util.ErrUnauthorized)
}

func TestListMineFiltersByOwner(t *testing.T) {
	mine := responseCreatedAt(time.Hour, 5)
	other := responseCreatedAt(time.Hour, 6)
	other.ID = "resp-2"
	svc := resultServiceForTest(map[string]*model.AssessmentResponse{
		mine.ID:  mine,
		other.ID: other,
	}, &fakeLimiter{allowed: true})

	got, err := svc.ListMine(&util.Claims{UserID: 5, Role: model.RoleMember})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, mine.ID, got[0].ID)
}
