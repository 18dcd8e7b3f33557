package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/halcyonworks/chatgauge/internal/conversation"
	"github.com/halcyonworks/chatgauge/internal/extract"
	"github.com/halcyonworks/chatgauge/internal/platform"
)

// Publisher emits run lifecycle events. Publishing is best-effort; a failed
// publish never fails the run.
type Publisher interface {
	Publish(subject string, data any) error
}

// Event subjects emitted during a run.
const (
	SubjectRunCompleted        = "chatgauge.run.completed"
	SubjectConversationSkipped = "chatgauge.conversation.skipped"
)

// Options configures a pipeline. Enabled lists are resolved against the
// registry at construction time so a typoed name fails before any work runs.
type Options struct {
	Normalizer      *conversation.Normalizer
	Rules           *conversation.RoleRules
	Filter          *conversation.Filter
	Registry        *extract.Registry
	EnabledFeatures []string
	EnabledTargets  []string
	Workers         int
	Publisher       Publisher
	Logger          *slog.Logger
}

// Pipeline drives raw conversations through normalization, role transfer,
// filtering, and extraction. Per-conversation failures are recorded as skips;
// only setup failures abort a run.
type Pipeline struct {
	normalizer *conversation.Normalizer
	rules      *conversation.RoleRules
	filter     *conversation.Filter
	features   map[string]extract.ComputeFunc
	targets    map[string]extract.ComputeFunc
	workers    int
	publisher  Publisher
	logger     *slog.Logger
}

// Result is the extraction output for a single conversation.
type Result struct {
	ConversationID string                   `json:"conversation_id"`
	Features       map[string]extract.Value `json:"features"`
	Targets        map[string]extract.Value `json:"targets"`

	Conversation conversation.Conversation `json:"-"`
}

// Skip records a conversation dropped during a run and why.
type Skip struct {
	ConversationID string `json:"conversation_id"`
	Reason         string `json:"reason"`
}

// BatchResult is the outcome of one pipeline run.
type BatchResult struct {
	RunID   uuid.UUID
	Results []Result
	Skips   []Skip
}

// New builds a pipeline, resolving enabled extractor names up front.
func New(opts Options) (*Pipeline, error) {
	features, err := opts.Registry.SelectFeatures(opts.EnabledFeatures)
	if err != nil {
		return nil, fmt.Errorf("selecting features: %w", err)
	}
	targets, err := opts.Registry.SelectTargets(opts.EnabledTargets)
	if err != nil {
		return nil, fmt.Errorf("selecting targets: %w", err)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Pipeline{
		normalizer: opts.Normalizer,
		rules:      opts.Rules,
		filter:     opts.Filter,
		features:   features,
		targets:    targets,
		workers:    workers,
		publisher:  opts.Publisher,
		logger:     logger,
	}, nil
}

// Run processes the batch. Every raw conversation yields exactly one result
// or one skip. Results are ordered by conversation ID so repeated runs over
// the same export produce identical output.
func (p *Pipeline) Run(ctx context.Context, raws []platform.RawConversation) (*BatchResult, error) {
	batch := &BatchResult{RunID: uuid.New()}

	type outcome struct {
		result *Result
		skip   *Skip
	}

	jobs := make(chan platform.RawConversation)
	outcomes := make(chan outcome)

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for raw := range jobs {
				if ctx.Err() != nil {
					return
				}
				res, skip := p.processOne(raw)
				select {
				case outcomes <- outcome{result: res, skip: skip}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, raw := range raws {
			select {
			case jobs <- raw:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	for o := range outcomes {
		if o.result != nil {
			batch.Results = append(batch.Results, *o.result)
		}
		if o.skip != nil {
			batch.Skips = append(batch.Skips, *o.skip)
			p.publish(SubjectConversationSkipped, *o.skip)
		}
	}

	if err := ctx.Err(); err != nil {
		return batch, fmt.Errorf("pipeline run aborted: %w", err)
	}

	sort.Slice(batch.Results, func(i, j int) bool {
		return batch.Results[i].ConversationID < batch.Results[j].ConversationID
	})
	sort.Slice(batch.Skips, func(i, j int) bool {
		return batch.Skips[i].ConversationID < batch.Skips[j].ConversationID
	})

	p.publish(SubjectRunCompleted, map[string]any{
		"run_id":  batch.RunID.String(),
		"results": len(batch.Results),
		"skipped": len(batch.Skips),
	})

	p.logger.Info("pipeline run complete",
		"run_id", batch.RunID,
		"results", len(batch.Results),
		"skipped", len(batch.Skips))

	return batch, nil
}

func (p *Pipeline) processOne(raw platform.RawConversation) (*Result, *Skip) {
	conv, err := p.normalizer.Normalize(raw)
	if err != nil {
		p.logger.Warn("skipping conversation", "conversation_id", raw.ID, "error", err)
		return nil, &Skip{ConversationID: raw.ID, Reason: err.Error()}
	}

	msgs := conv.Messages
	if p.rules != nil {
		msgs = p.rules.Apply(msgs)
	}
	if p.filter != nil {
		msgs = p.filter.Apply(msgs)
	}
	conv.Messages = msgs
	// Role transfer or filtering can remove a role entirely; the participant
	// list must describe the messages that remain.
	conv.Participants = conversation.Participants(msgs)

	res := &Result{
		ConversationID: conv.ID,
		Features:       make(map[string]extract.Value, len(p.features)),
		Targets:        make(map[string]extract.Value, len(p.targets)),
		Conversation:   *conv,
	}
	for name, fn := range p.features {
		res.Features[name] = p.compute(conv.ID, name, fn, *conv)
	}
	for name, fn := range p.targets {
		res.Targets[name] = p.compute(conv.ID, name, fn, *conv)
	}
	return res, nil
}

// compute shields the batch from a single extractor failure; the cell is
// recorded as missing and the run carries on.
func (p *Pipeline) compute(convID, name string, fn extract.ComputeFunc, conv conversation.Conversation) extract.Value {
	v, err := fn(conv)
	if err != nil {
		p.logger.Error("extractor failed",
			"conversation_id", convID,
			"extractor", name,
			"error", err)
		return extract.None()
	}
	return v
}

func (p *Pipeline) publish(subject string, data any) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.Publish(subject, data); err != nil {
		p.logger.Error("publishing event", "subject", subject, "error", err)
	}
}
