package screening

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hr360/screening-agent/internal/db"
)

type fakeStore struct {
	existing      map[string]bool      // emails that already have records
	ids           map[string]uuid.UUID // stable id per email, like the real upsert
	failEmails    map[string]bool      // emails whose upsert should error
	hrUser        *db.User
	hrErr         error
	notifications []string // notification types created
	messages      []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		existing:   map[string]bool{},
		ids:        map[string]uuid.UUID{},
		failEmails: map[string]bool{},
		hrUser:     &db.User{ID: uuid.New(), Role: "hr", IsActive: true},
	}
}

func (f *fakeStore) UpsertCandidateByEmail(ctx context.Context, data db.CandidateData) (*db.UpsertResult, error) {
	if f.failEmails[data.Email] {
		return nil, errors.New("failed to upsert candidate: connection reset")
	}
	action := "created"
	if f.existing[data.Email] {
		action = "updated"
	}
	f.existing[data.Email] = true
	id, ok := f.ids[data.Email]
	if !ok {
		id = uuid.New()
		f.ids[data.Email] = id
	}
	return &db.UpsertResult{ID: id, Action: action}, nil
}

func (f *fakeStore) FirstHRUser(ctx context.Context) (*db.User, error) {
	return f.hrUser, f.hrErr
}

func (f *fakeStore) CreateNotification(ctx context.Context, userID uuid.UUID, title, message, notifyType string) (uuid.UUID, error) {
	f.notifications = append(f.notifications, notifyType)
	f.messages = append(f.messages, message)
	return uuid.New(), nil
}

func payload(email string) db.CandidateData {
	return db.CandidateData{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     email,
		Position:  "Software Engineer",
	}
}

func TestProcessBatchMixedCreatedAndUpdated(t *testing.T) {
	store := newFakeStore()
	store.existing["repeat@example.com"] = true

	result, err := NewProcessor(store).ProcessBatch(context.Background(), []db.CandidateData{
		payload("repeat@example.com"),
		payload("new1@example.com"),
		payload("new2@example.com"),
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Processed)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.Updated)
	assert.Empty(t, result.Errors)

	require.Len(t, store.notifications, 1, "exactly one HR notification per batch")
	assert.Equal(t, db.NotifySuccess, store.notifications[0])
	assert.Contains(t, store.messages[0], "2 new, 1 updated")
}

func TestProcessBatchReturnsPerItemResults(t *testing.T) {
	store := newFakeStore()
	store.existing["repeat@example.com"] = true

	result, err := NewProcessor(store).ProcessBatch(context.Background(), []db.CandidateData{
		payload("repeat@example.com"),
		payload("new@example.com"),
	})
	require.NoError(t, err)

	require.Len(t, result.Results, 2, "one result per processed item")
	assert.Equal(t, "updated", result.Results[0].Action)
	assert.Equal(t, "created", result.Results[1].Action)

	seen := map[uuid.UUID]bool{}
	for _, r := range result.Results {
		assert.NotEqual(t, uuid.Nil, r.ID)
		assert.False(t, seen[r.ID], "candidate ids must be unique within a batch")
		seen[r.ID] = true
	}

	// The ids travel through the JSON surface.
	raw, err := json.Marshal(result)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"results"`)
	assert.Contains(t, string(raw), result.Results[0].ID.String())
}

func TestProcessBatchIsolatesFailures(t *testing.T) {
	store := newFakeStore()
	store.failEmails["broken@example.com"] = true

	result, err := NewProcessor(store).ProcessBatch(context.Background(), []db.CandidateData{
		payload("ok1@example.com"),
		payload("broken@example.com"),
		payload("ok2@example.com"),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Processed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "broken@example.com", result.Errors[0].Email)
	assert.Equal(t, 3, result.Processed+len(result.Errors), "accounting must cover every item")

	require.Len(t, store.notifications, 1)
	assert.Equal(t, db.NotifyWarning, store.notifications[0])
	assert.Contains(t, store.messages[0], "1 failed")
}

func TestProcessBatchRejectsInvalidPayloads(t *testing.T) {
	store := newFakeStore()

	invalid := payload("not-an-email")
	missing := db.CandidateData{Email: "ok@example.com"} // no name or position

	result, err := NewProcessor(store).ProcessBatch(context.Background(), []db.CandidateData{
		invalid,
		missing,
		payload("valid@example.com"),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Processed)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0].Error, "invalid candidate data")
	assert.True(t, store.existing["valid@example.com"], "valid sibling must still be upserted")
}

func TestProcessBatchEmptyBatchSkipsNotification(t *testing.T) {
	store := newFakeStore()

	result, err := NewProcessor(store).ProcessBatch(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Processed)
	assert.Empty(t, store.notifications)
}

func TestProcessBatchNoHRUser(t *testing.T) {
	store := newFakeStore()
	store.hrUser = nil

	result, err := NewProcessor(store).ProcessBatch(context.Background(), []db.CandidateData{
		payload("jane@example.com"),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Processed, "missing HR user must not fail the batch")
	assert.Empty(t, store.notifications)
}

func TestProcessBatchHRLookupError(t *testing.T) {
	store := newFakeStore()
	store.hrErr = errors.New("db down")

	result, err := NewProcessor(store).ProcessBatch(context.Background(), []db.CandidateData{
		payload("jane@example.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
}

func TestProcessBatchUpsertIdempotence(t *testing.T) {
	store := newFakeStore()
	processor := NewProcessor(store)

	first, err := processor.ProcessBatch(context.Background(), []db.CandidateData{payload("jane@example.com")})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Created)

	second, err := processor.ProcessBatch(context.Background(), []db.CandidateData{payload("jane@example.com")})
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 1, second.Updated)
}
