// Package resolve turns a schema into resolved configuration values.
//
// Resolution runs five stages in a fixed order:
//
//  1. [ApplyProfile] overlays profile overrides.
//  2. [ApplyEnvironment] overlays environment variables, coerced by declared type.
//  3. [FilterNamespaces] prunes keys whose namespace is not active.
//  4. [Validate] reports required and type violations.
//  5. [Flatten] collapses the schema into [Values].
//
// Every stage works on a copy, so the caller's schema is never modified.
// Problems with individual keys are returned as diagnostics and never stop
// the other keys from resolving. [Pipeline] chains the stages, logs what
// they report, and lets an observer see the schema after each one.
package resolve

import (
	"context"
	"log/slog"

	"github.com/thoreinstein/confpipe/internal/diag"
	"github.com/thoreinstein/confpipe/internal/errors"
	"github.com/thoreinstein/confpipe/internal/logging"
	"github.com/thoreinstein/confpipe/internal/profile"
	"github.com/thoreinstein/confpipe/internal/schema"
)

// Stage names a pipeline stage.
type Stage string

const (
	StageProfile     Stage = "profile"
	StageEnvironment Stage = "environment"
	StageNamespace   Stage = "namespace"
	StageValidate    Stage = "validate"
	StageFlatten     Stage = "flatten"
)

// Stages lists the stages in execution order.
var Stages = []Stage{StageProfile, StageEnvironment, StageNamespace, StageValidate, StageFlatten}

// Observer is called after each stage with the schema that stage produced.
// For StageValidate and StageFlatten it receives the schema they consumed.
// Observers must treat the schema as read-only.
type Observer func(stage Stage, s schema.Schema)

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. Without it the logger carried by the context
// passed to Run is used.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// WithObserver registers an observer. Multiple observers run in the order
// they were added.
func WithObserver(o Observer) Option {
	return func(p *Pipeline) {
		if o != nil {
			p.observers = append(p.observers, o)
		}
	}
}

// Pipeline runs the resolution stages. It holds no per-run state and is
// safe for concurrent use.
type Pipeline struct {
	logger    *slog.Logger
	observers []Observer
}

// New creates a Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Input holds the sources a run resolves against.
type Input struct {
	// Profile supplies overrides. Nil behaves like profile.None.
	Profile profile.Source

	// Environment supplies variables for env-bound keys.
	Environment Environment

	// Namespaces selects which tagged keys survive. Empty keeps every tagged key.
	Namespaces Namespaces
}

// Result is the outcome of a run.
type Result struct {
	// Schema is the filtered schema that was validated and flattened.
	Schema schema.Schema

	// Values is the flattened configuration.
	Values Values

	// Diagnostics are the problems reported by every stage, in stage order.
	Diagnostics diag.List
}

// Err returns the diagnostics joined into one error, or nil when there are none.
func (r *Result) Err() error {
	return r.Diagnostics.Err()
}

// Run resolves s against in. The returned error is reserved for faults that
// prevent resolution, such as a profile that cannot be loaded; per-key
// problems are reported in Result.Diagnostics.
func (p *Pipeline) Run(ctx context.Context, s schema.Schema, in Input) (*Result, error) {
	log := p.logger
	if log == nil {
		log = logging.FromContext(ctx)
	}

	data, err := loadProfile(ctx, in.Profile)
	if err != nil {
		return nil, err
	}

	res := &Result{}

	cur := ApplyProfile(s, data)
	log.Debug("stage complete", "stage", StageProfile, "overrides", len(data))
	p.notify(StageProfile, cur)

	cur, diags := ApplyEnvironment(cur, in.Environment)
	p.collect(ctx, log, res, StageEnvironment, diags)
	p.notify(StageEnvironment, cur)

	cur, diags = FilterNamespaces(cur, in.Namespaces)
	p.collect(ctx, log, res, StageNamespace, diags)
	p.notify(StageNamespace, cur)

	p.collect(ctx, log, res, StageValidate, Validate(cur))
	p.notify(StageValidate, cur)

	res.Schema = cur
	res.Values = Flatten(cur)
	p.notify(StageFlatten, cur)

	log.Debug("resolution complete", "keys", len(res.Values), "diagnostics", res.Diagnostics.Len())
	return res, nil
}

func loadProfile(ctx context.Context, src profile.Source) (profile.Data, error) {
	if profile.IsNone(src) {
		return nil, nil
	}
	data, err := src.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "loading profile")
	}
	return data, nil
}

func (p *Pipeline) collect(ctx context.Context, log *slog.Logger, res *Result, stage Stage, diags diag.List) {
	for _, d := range diags {
		log.LogAttrs(ctx, slog.LevelWarn, d.Message, d.LogAttrs()...)
	}
	res.Diagnostics.Append(diags)
	log.Debug("stage complete", "stage", stage, "diagnostics", diags.Len())
}

func (p *Pipeline) notify(stage Stage, s schema.Schema) {
	for _, o := range p.observers {
		o(stage, s)
	}
}
