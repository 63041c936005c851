// Package publish keeps the published knowledge bases and their search
// projections in step with the authoring side.
package publish

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/faqplusplus/faqplusplus/internal/domain/configuration"
	"github.com/faqplusplus/faqplusplus/internal/domain/knowledgebase"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/metrics"
	sharedConfig "github.com/faqplusplus/faqplusplus/internal/shared/config"
	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
)

// Stage is the last step a language reached in one pass.
type Stage string

const (
	StageSkipped      Stage = "skipped"
	StageCheckPending Stage = "check_pending"
	StageNoChanges    Stage = "no_changes"
	StagePublish      Stage = "publish"
	StageDownload     Stage = "download"
	StageStore        Stage = "store"
	StageReindex      Stage = "reindex"
	StageDone         Stage = "done"
)

// Outcome of one language. Err is set when Stage failed.
type Outcome struct {
	Stage Stage
	Err   error
}

// Published reports whether the projection blob was rewritten.
func (o Outcome) Published() bool {
	return o.Stage == StageDone || (o.Stage == StageReindex && o.Err != nil)
}

// Report maps language code to its outcome.
type Report map[string]Outcome

type Languages interface {
	Languages() []sharedConfig.LanguageQnAMakerKey
	Resolve(code string) (knowledgebase.Client, bool)
}

type LanguageConfigs interface {
	GetLanguageConfig(ctx context.Context, languageCode string) (*configuration.LanguageKBConfiguration, error)
}

type ProjectionStore interface {
	Store(ctx context.Context, languageCode string, entities []knowledgebase.SearchEntity) error
}

type SearchIndex interface {
	Replace(ctx context.Context, languageCode string, entities []knowledgebase.SearchEntity) error
}

type Observer interface {
	ObservePublish(language, outcome string)
	ObservePublishPass(d time.Duration)
}

// Job publishes every configured language whose knowledge base has pending
// edits and rewrites its search projection. Languages are independent: a
// failure in one never stops the others. There is no cross-instance lock.
type Job struct {
	languages Languages
	configs   LanguageConfigs
	store     ProjectionStore
	index     SearchIndex
	observer  Observer
	logger    logger.Interface
}

// NewJob builds the job. index and observer may be nil.
func NewJob(languages Languages, configs LanguageConfigs, store ProjectionStore, index SearchIndex, observer Observer, logger logger.Interface) *Job {
	return &Job{
		languages: languages,
		configs:   configs,
		store:     store,
		index:     index,
		observer:  observer,
		logger:    logger,
	}
}

// Execute runs one pass and returns the number of languages published.
func (j *Job) Execute(ctx context.Context) (int, error) {
	report := j.Run(ctx)

	published := 0
	var errs []error
	for lang, o := range report {
		if o.Published() {
			published++
		}
		if o.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %s: %w", lang, o.Stage, o.Err))
		}
	}
	return published, errors.Join(errs...)
}

// Run runs one pass over every configured language.
func (j *Job) Run(ctx context.Context) Report {
	start := time.Now()
	report := make(Report)
	for _, lang := range j.languages.Languages() {
		if err := ctx.Err(); err != nil {
			report[lang.LanguageCode] = Outcome{Stage: StageSkipped, Err: err}
			continue
		}
		o := j.runLanguage(ctx, lang.LanguageCode)
		report[lang.LanguageCode] = o
		j.observe(lang.LanguageCode, o)
	}
	if j.observer != nil {
		j.observer.ObservePublishPass(time.Since(start))
	}
	return report
}

func (j *Job) runLanguage(ctx context.Context, lang string) Outcome {
	log := j.logger.With("language", lang)

	client, ok := j.languages.Resolve(lang)
	if !ok {
		log.Warnw("no knowledge base client for language")
		return Outcome{Stage: StageSkipped}
	}

	cfg, err := j.configs.GetLanguageConfig(ctx, lang)
	if err != nil {
		log.Errorw("failed to load language configuration", "error", err)
		return Outcome{Stage: StageSkipped, Err: err}
	}
	if cfg == nil || cfg.KnowledgeBaseID == "" {
		log.Debugw("knowledge base is not configured, skipping")
		return Outcome{Stage: StageSkipped}
	}
	kbID := cfg.KnowledgeBaseID

	pending, err := client.HasPendingChanges(ctx, kbID)
	if err != nil {
		log.Errorw("failed to check pending changes", "knowledge_base_id", kbID, "error", err)
		return Outcome{Stage: StageCheckPending, Err: err}
	}
	if !pending {
		return Outcome{Stage: StageNoChanges}
	}

	if err := client.Publish(ctx, kbID); err != nil {
		log.Errorw("failed to publish knowledge base", "knowledge_base_id", kbID, "error", err)
		return Outcome{Stage: StagePublish, Err: err}
	}

	docs, err := client.Download(ctx, kbID)
	if err != nil {
		log.Errorw("failed to download knowledge base", "knowledge_base_id", kbID, "error", err)
		return Outcome{Stage: StageDownload, Err: err}
	}

	entities := knowledgebase.ProjectDocuments(lang, docs)
	if err := j.store.Store(ctx, lang, entities); err != nil {
		log.Errorw("failed to store search projection", "error", err)
		return Outcome{Stage: StageStore, Err: err}
	}

	if j.index != nil {
		if err := j.index.Replace(ctx, lang, entities); err != nil {
			log.Errorw("failed to reindex knowledge base", "error", err)
			return Outcome{Stage: StageReindex, Err: err}
		}
	}

	log.Infow("knowledge base published", "knowledge_base_id", kbID, "entries", len(entities))
	return Outcome{Stage: StageDone}
}

func (j *Job) observe(lang string, o Outcome) {
	if j.observer == nil {
		return
	}
	j.observer.ObservePublish(lang, metricOutcome(o))
}

func metricOutcome(o Outcome) string {
	switch {
	case o.Stage == StageDone:
		return metrics.OutcomePublished
	case o.Stage == StageReindex && o.Err != nil:
		return metrics.OutcomeIndexFailed
	case o.Err != nil:
		return metrics.OutcomeFailed
	case o.Stage == StageNoChanges:
		return metrics.OutcomeNoChanges
	default:
		return metrics.OutcomeSkipped
	}
}
