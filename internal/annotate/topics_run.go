package annotate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/oral-history-lab/transcript-cli/internal/config"
	"github.com/oral-history-lab/transcript-cli/internal/model"
	"github.com/oral-history-lab/transcript-cli/internal/store"
	"github.com/oral-history-lab/transcript-cli/pkg/anthropic"
)

// Request kinds issued per chunk.
const (
	reqTopics   = "topics"
	reqGender   = "gender"
	reqSpeakers = "speakers"
)

const (
	topicsMaxTokens   = 200
	speakersMaxTokens = 200
)

var chunkTemperature = 0.1

// TopicsAnnotator runs the chunked topic/speaker extraction over a
// directory of cleaned transcripts.
type TopicsAnnotator struct {
	Client anthropic.Client
	Store  store.Store
	Cfg    config.AnnotateConfig
}

// TopicsResult summarizes a completed topics run.
type TopicsResult struct {
	Files    int
	Reused   int // summaries served from the store
	Chunks   int
	Requests int
	Batched  bool // true when the message-batches API carried the run
	Usage    anthropic.TokenUsage
}

// chunkRequest is one prompt destined for the model, addressed back to
// its file and chunk.
type chunkRequest struct {
	file  string
	chunk int
	kind  string
	req   anthropic.MessageRequest
}

// Run chunks every .txt file in inputDir, extracts topics, gender and
// speaker structure per chunk, aggregates per file, and writes the
// summary CSV. Files with a stored summary are reused without new API
// calls. The message-batches API is used when the request count reaches
// Cfg.BatchThreshold; below it, requests run as direct concurrent calls.
func (a *TopicsAnnotator) Run(ctx context.Context, inputDir, outputCSV string) (*TopicsResult, error) {
	names, err := listTxtFiles(inputDir)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, eris.Errorf("annotate: no .txt files in %s", inputDir)
	}

	res := &TopicsResult{Files: len(names)}
	summaries := make(map[string]model.TopicSummary)
	fileChunks := make(map[string][]string)

	for _, name := range names {
		if a.Store != nil {
			var cached model.TopicSummary
			found, err := a.Store.GetAnnotation(ctx, store.KindTopics, name, &cached)
			if err != nil {
				return nil, err
			}
			if found {
				summaries[name] = cached
				res.Reused++
				continue
			}
		}

		data, err := os.ReadFile(filepath.Join(inputDir, name))
		if err != nil {
			return nil, eris.Wrapf(err, "annotate: read %s", name)
		}
		chunks := ChunkWords(string(data), a.Cfg.ChunkWords, a.Cfg.ChunkOverlap)
		if len(chunks) == 0 {
			zap.L().Warn("empty transcript", zap.String("filename", name))
			summaries[name] = AggregateFile(name, nil)
			continue
		}
		fileChunks[name] = chunks
		res.Chunks += len(chunks)
	}

	requests := a.buildRequests(fileChunks)
	res.Requests = len(requests)
	zap.L().Info("starting topic annotation",
		zap.Int("files", res.Files),
		zap.Int("reused", res.Reused),
		zap.Int("chunks", res.Chunks),
		zap.Int("requests", res.Requests),
	)

	var responses []*anthropic.MessageResponse
	if len(requests) > 0 {
		threshold := a.Cfg.BatchThreshold
		if threshold <= 0 {
			threshold = 15
		}
		if len(requests) >= threshold {
			res.Batched = true
			responses, err = a.runBatched(ctx, requests)
		} else {
			responses, err = a.runDirect(ctx, requests)
		}
		if err != nil {
			return res, err
		}
	}

	annotations := make(map[string][]model.ChunkAnnotation)
	for name, chunks := range fileChunks {
		anns := make([]model.ChunkAnnotation, len(chunks))
		for i := range anns {
			anns[i] = model.ChunkAnnotation{Filename: name, ChunkIndex: i}
		}
		annotations[name] = anns
	}
	for i, req := range requests {
		resp := responses[i]
		if resp == nil {
			continue
		}
		res.Usage.Add(resp.Usage)

		ann := &annotations[req.file][req.chunk]
		switch req.kind {
		case reqTopics:
			ann.TopicCategories = ParseCategories(resp.Text())
		case reqGender:
			ann.Gender = ParseGender(resp.Text())
		case reqSpeakers:
			ann.Speakers = ParseSpeakerInfo(resp.Text())
		}
	}

	for name, anns := range annotations {
		summary := AggregateFile(name, anns)
		summaries[name] = summary
		if a.Store != nil {
			if err := a.Store.SaveAnnotation(ctx, store.KindTopics, name, summary); err != nil {
				zap.L().Warn("store checkpoint failed", zap.String("filename", name), zap.Error(err))
			}
		}
	}

	ordered := make([]model.TopicSummary, 0, len(summaries))
	for _, name := range names {
		if s, ok := summaries[name]; ok {
			ordered = append(ordered, s)
		}
	}
	if err := WriteTopicSummaries(outputCSV, ordered); err != nil {
		return res, err
	}

	res.Usage.LogUsage(a.Cfg.Model, "topics")
	zap.L().Info("topic annotation complete",
		zap.Int("files", len(ordered)),
		zap.String("output", outputCSV),
	)
	return res, nil
}

// buildRequests produces the three extraction prompts for every chunk,
// in deterministic file/chunk order.
func (a *TopicsAnnotator) buildRequests(fileChunks map[string][]string) []chunkRequest {
	names := make([]string, 0, len(fileChunks))
	for name := range fileChunks {
		names = append(names, name)
	}
	sort.Strings(names)

	var requests []chunkRequest
	for _, name := range names {
		for i, chunk := range fileChunks[name] {
			prompts := []struct {
				kind      string
				prompt    string
				maxTokens int64
			}{
				{reqTopics, TopicPrompt(chunk), topicsMaxTokens},
				{reqGender, GenderPrompt("the interviewee", chunk), genderMaxTokens},
				{reqSpeakers, SpeakerPrompt(chunk), speakersMaxTokens},
			}
			for _, p := range prompts {
				requests = append(requests, chunkRequest{
					file:  name,
					chunk: i,
					kind:  p.kind,
					req: anthropic.MessageRequest{
						Model:       a.Cfg.Model,
						MaxTokens:   p.maxTokens,
						Temperature: &chunkTemperature,
						Messages: []anthropic.Message{
							{Role: "user", Content: p.prompt},
						},
					},
				})
			}
		}
	}
	return requests
}

// runBatched sends all requests through the message-batches API and
// waits for completion.
func (a *TopicsAnnotator) runBatched(ctx context.Context, requests []chunkRequest) ([]*anthropic.MessageResponse, error) {
	items := make([]anthropic.BatchRequestItem, len(requests))
	for i, req := range requests {
		items[i] = anthropic.BatchRequestItem{
			CustomID: fmt.Sprintf("r%d", i),
			Params:   req.req,
		}
	}

	batch, err := a.Client.CreateBatch(ctx, anthropic.BatchRequest{Requests: items})
	if err != nil {
		return nil, err
	}
	zap.L().Info("batch submitted",
		zap.String("batch_id", batch.ID),
		zap.Int("requests", len(items)),
	)

	if _, err := anthropic.PollBatch(ctx, a.Client, batch.ID); err != nil {
		return nil, err
	}
	iter, err := a.Client.GetBatchResults(ctx, batch.ID)
	if err != nil {
		return nil, err
	}
	byID, err := anthropic.CollectBatchResults(iter)
	if err != nil {
		return nil, err
	}

	responses := make([]*anthropic.MessageResponse, len(requests))
	for i := range requests {
		responses[i] = byID[fmt.Sprintf("r%d", i)]
	}
	return responses, nil
}

// runDirect issues the requests as concurrent single messages. Failed
// requests log and leave a nil response; the chunk just contributes
// nothing to the aggregate.
func (a *TopicsAnnotator) runDirect(ctx context.Context, requests []chunkRequest) ([]*anthropic.MessageResponse, error) {
	concurrency := a.Cfg.MaxConcurrency
	if concurrency <= 0 {
		concurrency = 8
	}

	responses := make([]*anthropic.MessageResponse, len(requests))
	var mu sync.Mutex
	var failed int

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, req := range requests {
		i, req := i, req
		g.Go(func() error {
			resp, err := a.Client.CreateMessage(gctx, req.req)
			if err != nil {
				if gctx.Err() != nil {
					return eris.Wrap(err, "annotate: chunk request")
				}
				zap.L().Warn("chunk request failed",
					zap.String("filename", req.file),
					zap.Int("chunk", req.chunk),
					zap.String("kind", req.kind),
					zap.Error(err),
				)
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}
			responses[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if failed == len(requests) {
		return nil, eris.New("annotate: every chunk request failed")
	}
	return responses, nil
}

func listTxtFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "annotate: read dir %s", dir)
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), ".txt") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
