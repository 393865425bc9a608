// Package orchestrator drives one speech-translation pipeline run through its
// four stages: transcription, translation, refinement, and deduplicated
// persistence. It is the only stateful coordinator in the system.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/valpere/voxlate/internal/chunker"
	"github.com/valpere/voxlate/internal/detector"
	"github.com/valpere/voxlate/internal/languages"
	"github.com/valpere/voxlate/internal/refiner"
	"github.com/valpere/voxlate/internal/store"
	"github.com/valpere/voxlate/internal/transcriber"
	"github.com/valpere/voxlate/internal/translator"
	"github.com/valpere/voxlate/internal/validator"
)

// ErrRunInFlight is returned when Run is called while another run is active.
var ErrRunInFlight = errors.New("a pipeline run is already in flight")

// ErrRunSuperseded marks a run whose results arrived after it stopped being
// the current run; its results are discarded, never applied.
var ErrRunSuperseded = errors.New("pipeline run superseded")

// ErrTranscriptionFailed is fatal: the run moves to Failed.
var ErrTranscriptionFailed = errors.New("transcription failed")

// ErrTranslationFailed is fatal: the run moves to Failed.
var ErrTranslationFailed = errors.New("translation failed")

// ErrUnsupportedTarget rejects a target language outside the candidate set,
// including the source language itself (a no-op translation).
var ErrUnsupportedTarget = errors.New("unsupported target language")

// Stage is a pipeline run's position in the state machine.
type Stage string

const (
	StageIdle         Stage = "idle"
	StageTranscribing Stage = "transcribing"
	StageTranslating  Stage = "translating"
	StageRefining     Stage = "refining"
	StagePersisting   Stage = "persisting"
	StageDone         Stage = "done"
	StageFailed       Stage = "failed"
)

// validTransition enforces the allowed state machine edges. Refinement
// failure does not lead to Failed: the refining stage always proceeds to
// persisting, and persisting always ends in Done.
func validTransition(from, to Stage) bool {
	switch from {
	case StageIdle:
		return to == StageTranscribing
	case StageTranscribing:
		return to == StageTranslating || to == StageFailed
	case StageTranslating:
		return to == StageRefining || to == StageFailed
	case StageRefining:
		return to == StagePersisting
	case StagePersisting:
		return to == StageDone
	default:
		return false
	}
}

// Run is the transient state of one pipeline execution. It is owned by the
// orchestrator for the duration of the run and discarded at Done/Failed.
type Run struct {
	ID                 string
	AudioPath          string
	SourceLanguage     string
	TargetLanguage     string
	Stage              Stage
	Transcript         string
	Translation        string
	RefinedTranslation string
}

// Persistence reports how a run's result relates to the store.
type Persistence string

const (
	PersistenceNew      Persistence = "new"      // a fresh record was written
	PersistenceExisting Persistence = "existing" // an identical record already existed
	PersistenceFailed   Persistence = "failed"   // the write failed; result still usable
)

// Result is what a completed run hands back to the presentation layer.
type Result struct {
	Text        string
	Language    string
	Persistence Persistence
	RecordID    int64 // 0 when persistence failed
	Transcript  string
}

// Config bounds the pipeline's external calls.
type Config struct {
	StageTimeout time.Duration // per external call; default 30s
	MaxAttempts  int           // total attempts for transcription/translation; default 3
	RetryBackoff time.Duration // initial backoff between attempts; default 1s
	Platform     string        // capture platform for encoding lookup; "" = current
}

func (c *Config) fillDefaults() {
	if c.StageTimeout <= 0 {
		c.StageTimeout = 30 * time.Second
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = time.Second
	}
}

// Orchestrator executes one end-to-end run per invocation. Only one run may
// be active at a time; concurrent Run calls are rejected, never interleaved.
type Orchestrator struct {
	db          *store.Store
	transcriber transcriber.Client
	translator  translator.TranslationService
	svcCfg      translator.ServiceConfig
	refiner     refiner.Refiner // nil disables the refinement stage
	det         *detector.Detector
	val         *validator.Validator
	cfg         Config
	logw        io.Writer

	mu      sync.Mutex
	current *Run
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRefiner enables the refinement stage.
func WithRefiner(r refiner.Refiner) Option {
	return func(o *Orchestrator) { o.refiner = r }
}

// WithDetector supplies a language detector for the "auto" source setting and
// the post-translation sanity check.
func WithDetector(d *detector.Detector) Option {
	return func(o *Orchestrator) {
		o.det = d
		o.val = validator.NewWithDetector(d)
	}
}

// WithServiceConfig passes backend credentials to the translation client.
func WithServiceConfig(cfg translator.ServiceConfig) Option {
	return func(o *Orchestrator) { o.svcCfg = cfg }
}

// WithLogWriter redirects progress and warning lines (default os.Stderr).
func WithLogWriter(w io.Writer) Option {
	return func(o *Orchestrator) { o.logw = w }
}

// New wires an orchestrator from its collaborators. The store handle is
// shared and owned by the caller.
func New(db *store.Store, t transcriber.Client, tr translator.TranslationService, cfg Config, opts ...Option) *Orchestrator {
	cfg.fillDefaults()
	o := &Orchestrator{
		db:          db,
		transcriber: t,
		translator:  tr,
		cfg:         cfg,
		logw:        os.Stderr,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) warnf(format string, args ...interface{}) {
	fmt.Fprintf(o.logw, format+"\n", args...)
}

// begin admits a new run or rejects it while another is in flight.
func (o *Orchestrator) begin(audioPath, targetLang string) (*Run, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.current != nil {
		return nil, ErrRunInFlight
	}

	run := &Run{
		ID:             uuid.New().String(),
		AudioPath:      audioPath,
		TargetLanguage: targetLang,
		Stage:          StageIdle,
	}
	o.current = run
	return run, nil
}

// finish releases the active-run slot if run still holds it.
func (o *Orchestrator) finish(run *Run) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.current == run {
		o.current = nil
	}
}

// transition applies a state change, refusing to touch shared state when the
// run has been superseded (e.g. the session was torn down mid-run).
func (o *Orchestrator) transition(run *Run, to Stage) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.current != run {
		return ErrRunSuperseded
	}
	if !validTransition(run.Stage, to) {
		return fmt.Errorf("invalid transition: %s -> %s", run.Stage, to)
	}
	run.Stage = to
	return nil
}

// Abandon discards the current run, if any. In-flight network calls complete
// but their results are dropped instead of being applied.
func (o *Orchestrator) Abandon() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.current = nil
}

// CurrentStage reports the active run's stage, or StageIdle when none.
func (o *Orchestrator) CurrentStage() Stage {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.current == nil {
		return StageIdle
	}
	return o.current.Stage
}

// Run executes one complete pipeline pass: load audio, transcribe, translate,
// refine (best effort), persist (deduplicated). Fatal stage failures return
// an error; refinement and persistence failures degrade instead.
func (o *Orchestrator) Run(ctx context.Context, audioPath, targetLang string) (*Result, error) {
	targetLang = languages.Normalize(targetLang)
	if !languages.IsSupported(targetLang) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedTarget, targetLang)
	}

	run, err := o.begin(audioPath, targetLang)
	if err != nil {
		return nil, err
	}
	defer o.finish(run)

	fail := func(stageErr error) (*Result, error) {
		if err := o.transition(run, StageFailed); err != nil {
			return nil, err
		}
		return nil, stageErr
	}

	// Audio is checked before any network call.
	audio, err := transcriber.LoadAudio(audioPath)
	if err != nil {
		return nil, err
	}

	run.SourceLanguage = o.resolveSourceLanguage(ctx)
	if strings.EqualFold(run.SourceLanguage, targetLang) {
		return nil, fmt.Errorf("%w: %s is the source language", ErrUnsupportedTarget, targetLang)
	}

	// Stage 1: transcription.
	if err := o.transition(run, StageTranscribing); err != nil {
		return nil, err
	}
	transcript, err := o.transcribe(ctx, audio, run.SourceLanguage)
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrTranscriptionFailed, err))
	}
	run.Transcript = transcript

	// An "auto" source is resolved from the transcript itself.
	if run.SourceLanguage == "auto" {
		run.SourceLanguage = o.detectLanguage(transcript)
		if strings.EqualFold(run.SourceLanguage, targetLang) {
			return fail(fmt.Errorf("%w: %s is the source language", ErrUnsupportedTarget, targetLang))
		}
	}

	// Stage 2: translation.
	if err := o.transition(run, StageTranslating); err != nil {
		return nil, err
	}
	translation, err := o.translate(ctx, transcript, run.SourceLanguage, targetLang)
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrTranslationFailed, err))
	}
	run.Translation = translation

	if o.val != nil {
		if ok, verr := o.val.IsValid(translation, targetLang); !ok {
			o.warnf("Warning: translation may be wrong: %v", verr)
		}
	}

	// Stage 3: refinement, best effort.
	if err := o.transition(run, StageRefining); err != nil {
		return nil, err
	}
	final := o.refine(ctx, translation, targetLang)
	run.RefinedTranslation = final

	// Stage 4: deduplicated persistence.
	if err := o.transition(run, StagePersisting); err != nil {
		return nil, err
	}
	result := &Result{
		Text:       final,
		Language:   targetLang,
		Transcript: transcript,
	}

	rec, existed, perr := o.db.SaveUnique(ctx, transcript, targetLang, final)
	switch {
	case perr != nil:
		o.warnf("Warning: failed to save translation: %v", perr)
		result.Persistence = PersistenceFailed
	case existed:
		// The stored text wins so repeated runs return identical results.
		result.Text = rec.TranslatedText
		result.RecordID = rec.ID
		result.Persistence = PersistenceExisting
	default:
		result.RecordID = rec.ID
		result.Persistence = PersistenceNew
	}

	if err := o.transition(run, StageDone); err != nil {
		return nil, err
	}
	return result, nil
}

// resolveSourceLanguage reads the settings row, degrading to the default on
// store errors so a run is never blocked by preferences.
func (o *Orchestrator) resolveSourceLanguage(ctx context.Context) string {
	cfg, err := o.db.GetSettings(ctx)
	if err != nil || cfg.Language == "" {
		if err != nil {
			o.warnf("Warning: failed to read settings: %v", err)
		}
		return store.DefaultSourceLanguage
	}
	return cfg.Language
}

func (o *Orchestrator) detectLanguage(text string) string {
	if o.det == nil {
		return store.DefaultSourceLanguage
	}
	code, ok := o.det.DetectISO(text)
	if !ok {
		return store.DefaultSourceLanguage
	}
	return code
}

func (o *Orchestrator) transcribe(ctx context.Context, audio []byte, sourceLang string) (string, error) {
	enc := transcriber.EncodingFor(o.cfg.Platform)
	req := transcriber.Request{
		Audio:           audio,
		Encoding:        enc.Encoding,
		SampleRateHertz: enc.SampleRateHertz,
		LanguageCode:    transcriber.LocaleFor(sourceLang),
	}

	var transcript string
	err := o.withRetry(ctx, "transcription", func(stageCtx context.Context) error {
		var terr error
		transcript, terr = o.transcriber.Transcribe(stageCtx, req)
		return terr
	})
	return transcript, err
}

// translate splits the transcript to the backend's per-request limit and
// translates piece by piece.
func (o *Orchestrator) translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	parts := chunker.Split(text, o.translator.MaxTextChars())
	translated := make([]string, 0, len(parts))

	for _, part := range parts {
		req := translator.TranslateRequest{
			Text:       part,
			SourceLang: sourceLang,
			TargetLang: targetLang,
		}

		var out string
		err := o.withRetry(ctx, "translation", func(stageCtx context.Context) error {
			res, terr := o.translator.Translate(stageCtx, o.svcCfg, req)
			if terr != nil {
				return terr
			}
			if res.TranslatedText == "" {
				return fmt.Errorf("empty translation from %s", res.ServiceName)
			}
			out = res.TranslatedText
			return nil
		})
		if err != nil {
			return "", err
		}
		translated = append(translated, out)
	}

	return strings.Join(translated, "\n"), nil
}

// refine runs the optional polish pass. Any failure or empty response falls
// back to the draft; refinement never fails a run.
func (o *Orchestrator) refine(ctx context.Context, draft, targetLang string) string {
	if o.refiner == nil {
		return draft
	}

	stageCtx, cancel := context.WithTimeout(ctx, o.cfg.StageTimeout)
	defer cancel()

	refined, err := o.refiner.Refine(stageCtx, targetLang, draft)
	if err != nil {
		o.warnf("Warning: refinement failed, keeping draft: %v", err)
		return draft
	}
	if strings.TrimSpace(refined) == "" {
		return draft
	}
	return refined
}

// withRetry runs op with a per-attempt timeout and exponential backoff.
// Attempts beyond the first only happen for the fatal, costly-to-repeat
// stages; cancellation of the parent context stops the loop.
func (o *Orchestrator) withRetry(ctx context.Context, stage string, op func(ctx context.Context) error) error {
	delay := o.cfg.RetryBackoff

	var err error
	for attempt := 1; attempt <= o.cfg.MaxAttempts; attempt++ {
		stageCtx, cancel := context.WithTimeout(ctx, o.cfg.StageTimeout)
		err = op(stageCtx)
		cancel()

		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return err
		}
		if attempt == o.cfg.MaxAttempts {
			break
		}

		o.warnf("Warning: %s attempt %d/%d failed: %v", stage, attempt, o.cfg.MaxAttempts, err)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
	return err
}

// ListHistory returns the stored translations, most recent first. Store
// failures degrade to an empty history.
func (o *Orchestrator) ListHistory(ctx context.Context) []store.TranslationRecord {
	records, err := o.db.ListTranslations(ctx)
	if err != nil {
		o.warnf("Warning: failed to list history: %v", err)
		return nil
	}
	return records
}

// DeleteHistoryItem removes one stored translation. Missing ids are a no-op.
func (o *Orchestrator) DeleteHistoryItem(ctx context.Context, id int64) error {
	return o.db.DeleteTranslation(ctx, id)
}

// SourceLanguage resolves the user's configured source language.
func (o *Orchestrator) SourceLanguage(ctx context.Context) string {
	return o.resolveSourceLanguage(ctx)
}

// SetSourceLanguage updates the settings row. "auto" enables detection from
// the transcript.
func (o *Orchestrator) SetSourceLanguage(ctx context.Context, code string) error {
	code = languages.Normalize(code)
	if code != "auto" && !languages.IsSupported(code) {
		return fmt.Errorf("unsupported language: %s", code)
	}
	return o.db.UpdateSettings(ctx, code)
}

// TargetCandidates lists the target languages offered for the current source
// language; the source itself is excluded.
func (o *Orchestrator) TargetCandidates(ctx context.Context) []languages.Language {
	return languages.Candidates(o.resolveSourceLanguage(ctx))
}
