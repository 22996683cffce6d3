// Package openaiaddon connects a form-processing host to the OpenAI API:
// submitted field values feed a per-form request pipeline whose result is
// routed back into the workflow as an audit note, a field write, a spam
// flag, a validation block or a merge-tag substitution.
package openaiaddon

import (
	"github.com/formflow/openai-addon/internal/addon"
	"github.com/formflow/openai-addon/internal/config"
	"github.com/formflow/openai-addon/internal/host"
	"github.com/formflow/openai-addon/internal/logger"
	"github.com/formflow/openai-addon/internal/mergetags"
	"github.com/formflow/openai-addon/internal/models"
	"go.uber.org/zap"
)

// Core surface. The host wires its collaborators into Dependencies and
// drives Processor from its own submission, validation, spam and rendering
// hooks.
type (
	Processor        = addon.Processor
	Dependencies     = addon.Dependencies
	ValidationResult = addon.ValidationResult

	Config        = config.Config
	OpenAIConfig  = config.OpenAIConfig
	LoggingConfig = config.LoggingConfig

	Feed  = models.Feed
	Entry = models.Entry
	Form  = models.Form

	TemplateResolver = host.TemplateResolver
	NoteStore        = host.NoteStore
	EntryStore       = host.EntryStore
	FeedStore        = host.FeedStore
	TransientStore   = host.TransientStore
	CategoryFilter   = host.CategoryFilter

	MergeTagOptions = mergetags.Options
)

// New creates a processor from the addon configuration and host wiring.
func New(cfg *Config, deps Dependencies, logger *zap.Logger) *Processor {
	return addon.New(cfg, deps, logger)
}

// LoadConfig loads the addon configuration from file and environment.
func LoadConfig() (*Config, error) {
	return config.Load()
}

// NewLogger builds the zap logger described by the logging configuration.
func NewLogger(cfg LoggingConfig) (*zap.Logger, error) {
	return logger.New(cfg)
}
