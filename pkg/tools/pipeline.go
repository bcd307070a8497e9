package tools

import (
	"context"

	"github.com/arthur-debert/provision/pkg/errors"
	"github.com/arthur-debert/provision/pkg/logging"
	"github.com/arthur-debert/provision/pkg/output"
	"github.com/rs/zerolog"
)

// Step is one named bootstrap action
type Step struct {
	Name  string
	Title string
	Run   func(ctx context.Context) error
}

// StepResult is the outcome of one step; Err is nil on success
type StepResult struct {
	Name string
	Err  error
}

// Pipeline runs steps strictly in order
type Pipeline struct {
	steps    []Step
	reporter *output.Reporter
	logger   zerolog.Logger
}

// NewPipeline creates a pipeline over steps
func NewPipeline(reporter *output.Reporter, steps ...Step) *Pipeline {
	return &Pipeline{
		steps:    steps,
		reporter: reporter,
		logger:   logging.GetLogger("tools"),
	}
}

// Names returns the step names in execution order
func (p *Pipeline) Names() []string {
	names := make([]string, 0, len(p.steps))
	for _, s := range p.steps {
		names = append(names, s.Name)
	}
	return names
}

// Run executes every step and returns one result per step that ran.
// It stops early only on a SPAWN_FAILED error or a cancelled context.
func (p *Pipeline) Run(ctx context.Context) ([]StepResult, error) {
	results := make([]StepResult, 0, len(p.steps))

	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		p.reporter.Section(step.Title)
		done := logging.LogOperationStart(p.logger, step.Name)
		err := step.Run(ctx)
		done()

		results = append(results, StepResult{Name: step.Name, Err: err})

		if err == nil {
			p.reporter.Success("%s done", step.Name)
			continue
		}
		if errors.IsErrorCode(err, errors.ErrSpawnFailed) {
			p.reporter.Error("%s: %v", step.Name, err)
			return results, errors.Wrapf(err, errors.ErrSpawnFailed, "step %s", step.Name)
		}
		p.logger.Warn().Err(err).Str("step", step.Name).Msg("Step failed")
		p.reporter.Warn("%s failed: %v", step.Name, err)
	}

	return results, nil
}
