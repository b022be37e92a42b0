package anthropic

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient serves canned batch responses.
type fakeClient struct {
	statuses []string
	calls    atomic.Int64
	err      error
}

func (f *fakeClient) CreateMessage(context.Context, MessageRequest) (*MessageResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeClient) CreateBatch(context.Context, BatchRequest) (*BatchResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeClient) GetBatch(_ context.Context, batchID string) (*BatchResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	n := int(f.calls.Add(1)) - 1
	if n >= len(f.statuses) {
		n = len(f.statuses) - 1
	}
	return &BatchResponse{ID: batchID, ProcessingStatus: f.statuses[n]}, nil
}

func (f *fakeClient) GetBatchResults(context.Context, string) (BatchResultIterator, error) {
	return nil, errors.New("not implemented")
}

func TestPollBatchEnds(t *testing.T) {
	client := &fakeClient{statuses: []string{"in_progress", "in_progress", "ended"}}

	batch, err := PollBatch(context.Background(), client, "batch_1",
		WithPollInterval(time.Millisecond),
		WithPollTimeout(time.Second),
	)
	require.NoError(t, err)
	assert.Equal(t, "ended", batch.ProcessingStatus)
	assert.Equal(t, int64(3), client.calls.Load())
}

func TestPollBatchExpired(t *testing.T) {
	client := &fakeClient{statuses: []string{"expired"}}

	_, err := PollBatch(context.Background(), client, "batch_1",
		WithPollInterval(time.Millisecond))
	assert.Error(t, err)
}

func TestPollBatchCanceled(t *testing.T) {
	client := &fakeClient{statuses: []string{"canceled"}}

	_, err := PollBatch(context.Background(), client, "batch_1",
		WithPollInterval(time.Millisecond))
	assert.Error(t, err)
}

func TestPollBatchTimeout(t *testing.T) {
	client := &fakeClient{statuses: []string{"in_progress"}}

	_, err := PollBatch(context.Background(), client, "batch_1",
		WithPollInterval(10*time.Millisecond),
		WithPollTimeout(30*time.Millisecond),
	)
	assert.Error(t, err)
}

// sliceIterator replays a fixed set of batch result items.
type sliceIterator struct {
	items []BatchResultItem
	pos   int
	err   error
}

func (s *sliceIterator) Next() bool {
	if s.pos >= len(s.items) {
		return false
	}
	s.pos++
	return true
}

func (s *sliceIterator) Item() BatchResultItem { return s.items[s.pos-1] }
func (s *sliceIterator) Err() error            { return s.err }
func (s *sliceIterator) Close() error          { return nil }

func TestCollectBatchResults(t *testing.T) {
	iter := &sliceIterator{items: []BatchResultItem{
		{CustomID: "chunk-0", Type: "succeeded", Message: &MessageResponse{Content: []ContentBlock{{Type: "text", Text: "family, hiding"}}}},
		{CustomID: "chunk-1", Type: "errored"},
		{CustomID: "chunk-2", Type: "succeeded", Message: &MessageResponse{Content: []ContentBlock{{Type: "text", Text: "other"}}}},
	}}

	got, err := CollectBatchResults(iter)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "family, hiding", got["chunk-0"].Text())
	assert.Equal(t, "other", got["chunk-2"].Text())
}

func TestCollectBatchResultsIterError(t *testing.T) {
	iter := &sliceIterator{err: errors.New("stream broke")}
	_, err := CollectBatchResults(iter)
	assert.Error(t, err)
}

func TestMessageResponseText(t *testing.T) {
	resp := &MessageResponse{Content: []ContentBlock{
		{Type: "text", Text: "Male"},
		{Type: "tool_use", Text: "ignored"},
		{Type: "text", Text: "."},
	}}
	assert.Equal(t, "Male.", resp.Text())
}

func TestTokenUsageAdd(t *testing.T) {
	u := TokenUsage{InputTokens: 10, OutputTokens: 5}
	u.Add(TokenUsage{InputTokens: 3, OutputTokens: 2})
	assert.Equal(t, int64(13), u.InputTokens)
	assert.Equal(t, int64(7), u.OutputTokens)
}
