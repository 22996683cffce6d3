// Package addon is the feed processor: it translates feed configurations
// into OpenAI requests and routes results back into the form workflow as
// notes, field writes, spam flags or validation blocks.
package addon

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/formflow/openai-addon/internal/config"
	"github.com/formflow/openai-addon/internal/host"
	"github.com/formflow/openai-addon/internal/mergetags"
	"github.com/formflow/openai-addon/internal/models"
	"github.com/formflow/openai-addon/internal/openai"
	"go.uber.org/zap"
)

// DefaultModerationMessage is shown when a moderation feed blocks a
// submission and no custom message is configured.
const DefaultModerationMessage = "This submission violates our content policy."

// Dependencies are the host collaborators and transport the processor is
// wired with at construction time.
type Dependencies struct {
	Resolver   host.TemplateResolver
	Notes      host.NoteStore
	Entries    host.EntryStore
	Feeds      host.FeedStore
	Transients host.TransientStore

	// Transport overrides the default resty client when set.
	Transport openai.Transport

	// CategoryFilter overrides per-category moderation rejection. Nil means
	// reject every flagged category.
	CategoryFilter host.CategoryFilter

	// ModernMarkup selects the host's newer validation markup when true.
	ModernMarkup bool
}

// Processor orchestrates one feed's pipeline: template resolution, request
// building, cache-or-fetch, response interpretation and effect application.
// Execution is synchronous and request-scoped; only the transport blocks.
type Processor struct {
	resolver       host.TemplateResolver
	notes          host.NoteStore
	entries        host.EntryStore
	feeds          host.FeedStore
	builder        *openai.Builder
	cache          *openai.ResponseCache
	transport      openai.Transport
	categoryFilter host.CategoryFilter
	modernMarkup   bool
	logger         *zap.Logger
}

// New creates a processor from the addon configuration and host wiring.
func New(cfg *config.Config, deps Dependencies, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}

	transport := deps.Transport
	if transport == nil {
		transport = openai.NewClient(cfg.OpenAI, logger)
	}

	return &Processor{
		resolver:       deps.Resolver,
		notes:          deps.Notes,
		entries:        deps.Entries,
		feeds:          deps.Feeds,
		builder:        openai.NewBuilder(cfg.OpenAI),
		cache:          openai.NewResponseCache(deps.Transients, cfg.OpenAI.CacheTTL),
		transport:      transport,
		categoryFilter: deps.CategoryFilter,
		modernMarkup:   deps.ModernMarkup,
		logger:         logger,
	}
}

// ProcessFeed runs one feed against a saved entry and returns the updated
// entry. Failures stay local to the feed: they are recorded as feed errors
// and never abort sibling feeds.
func (p *Processor) ProcessFeed(ctx context.Context, feed *models.Feed, entry *models.Entry, form *models.Form) *models.Entry {
	endpoint, err := models.ParseEndpoint(feed.Endpoint())
	if err != nil {
		p.addFeedError(feed, entry, fmt.Sprintf("Unknown endpoint: %s", feed.Endpoint()))
		return entry
	}

	switch endpoint {
	case models.EndpointCompletions:
		entry = p.processCompletions(ctx, feed, entry, form)
	case models.EndpointEdits:
		entry = p.processEdits(ctx, feed, entry, form)
	case models.EndpointImages:
		p.processImages(ctx, feed, entry, form)
	case models.EndpointModerations:
		p.processModerations(ctx, feed, entry, form)
	}

	return entry
}

func (p *Processor) processCompletions(ctx context.Context, feed *models.Feed, entry *models.Entry, form *models.Form) *models.Entry {
	model := feed.Setting("model")
	prompt := p.resolver.Resolve(feed.Setting("prompt"), form, entry, "text")

	p.notes.AddNote(entry.ID, 0, requestNoteTitle(feed), "Sent request to OpenAI completions endpoint.")
	p.logger.Debug("Sent request to OpenAI",
		zap.String("feed", feed.Name),
		zap.String("endpoint", "completions"),
		zap.String("model", model),
		zap.String("prompt", prompt))

	req := p.builder.Build(models.EndpointCompletions, feed, openai.Resolved{Prompt: prompt})

	resp, err := p.fetch(ctx, req)
	if err != nil {
		p.addFeedError(feed, entry, err.Error())
		return entry
	}

	if text, err := openai.ExtractText(resp.Body); err == nil {
		p.notes.AddNote(entry.ID, 0, responseNoteTitle(feed), text)
		entry = p.maybeSaveResultToField(feed, entry, text)
	} else {
		p.addFeedError(feed, entry, err.Error())
	}

	p.entries.AddMeta(entry.ID, responseMetaKey(feed), string(resp.Body))

	return entry
}

func (p *Processor) processEdits(ctx context.Context, feed *models.Feed, entry *models.Entry, form *models.Form) *models.Entry {
	model := feed.Setting("model")
	input := p.resolver.Resolve(feed.Setting("input"), form, entry, "text")
	instruction := p.resolver.Resolve(feed.Setting("instruction"), form, entry, "text")

	p.notes.AddNote(entry.ID, 0, requestNoteTitle(feed), "Sent request to OpenAI edits endpoint.")
	p.logger.Debug("Sent request to OpenAI",
		zap.String("feed", feed.Name),
		zap.String("endpoint", "edits"),
		zap.String("model", model),
		zap.String("input", input),
		zap.String("instruction", instruction))

	req := p.builder.Build(models.EndpointEdits, feed, openai.Resolved{Input: input, Instruction: instruction})

	resp, err := p.fetch(ctx, req)
	if err != nil {
		p.addFeedError(feed, entry, err.Error())
		return entry
	}

	if text, err := openai.ExtractText(resp.Body); err == nil {
		p.notes.AddNote(entry.ID, 0, responseNoteTitle(feed), text)
		entry = p.maybeSaveResultToField(feed, entry, text)
	} else {
		p.addFeedError(feed, entry, err.Error())
	}

	p.entries.AddMeta(entry.ID, responseMetaKey(feed), string(resp.Body))

	return entry
}

func (p *Processor) processImages(ctx context.Context, feed *models.Feed, entry *models.Entry, form *models.Form) {
	prompt := p.resolver.Resolve(feed.Setting("prompt"), form, entry, "text")

	p.notes.AddNote(entry.ID, 0, requestNoteTitle(feed), "Sent request to OpenAI images/generations endpoint.")
	p.logger.Debug("Sent request to OpenAI",
		zap.String("feed", feed.Name),
		zap.String("endpoint", "images/generations"),
		zap.String("prompt", prompt))

	req := p.builder.Build(models.EndpointImages, feed, openai.Resolved{Prompt: prompt})

	resp, err := p.fetch(ctx, req)
	if err != nil {
		p.addFeedError(feed, entry, err.Error())
		return
	}

	if text, err := openai.ExtractText(resp.Body); err == nil {
		html := `<img src="data:image/png;base64,` + text + `" />`
		// Raw note path: the host sanitizer would strip the data URI.
		p.notes.AddNoteRaw(entry.ID, 0, responseNoteTitle(feed), html)
	} else {
		p.addFeedError(feed, entry, err.Error())
	}

	p.entries.AddMeta(entry.ID, responseMetaKey(feed), string(resp.Body))
}

// processModerations returns whether the content violates policy. This path
// fails open: a transport failure or an uninterpretable response never
// blocks a legitimate submission, unlike completions/edits which surface
// every failure as a feed error.
func (p *Processor) processModerations(ctx context.Context, feed *models.Feed, entry *models.Entry, form *models.Form) bool {
	model := feed.Setting("model")
	template := feed.Setting("input")
	if template == "" {
		template = "{all_fields}"
	}
	input := p.resolver.Resolve(template, form, entry, "text")

	p.logger.Debug("Sent request to OpenAI",
		zap.String("feed", feed.Name),
		zap.String("endpoint", "moderations"),
		zap.String("model", model),
		zap.String("input", input))

	req := p.builder.Build(models.EndpointModerations, feed, openai.Resolved{Input: input})

	resp, err := p.fetch(ctx, req)
	if err != nil {
		return false
	}

	categories, ok := openai.Categories(resp.Body)
	if !ok {
		return false
	}

	// A dry-run validation entry has no id yet; nothing to note against.
	if entry.ID != 0 {
		p.notes.AddNote(entry.ID, 0, responseNoteTitle(feed), moderationNoteBody(resp.Body))
	}

	for category, flagged := range categories {
		if flagged && p.rejectCategory(category) {
			return true
		}
	}

	return false
}

func (p *Processor) rejectCategory(category string) bool {
	if p.categoryFilter == nil {
		return true
	}
	return p.categoryFilter(true, category)
}

// maybeSaveResultToField writes the result into the configured target field.
// A non-numeric target is a misconfiguration and is silently skipped.
func (p *Processor) maybeSaveResultToField(feed *models.Feed, entry *models.Entry, text string) *models.Entry {
	inputID := feed.Setting("map_result_to_field")
	if !isNumericInputID(inputID) {
		return entry
	}

	entry.SetValue(inputID, text)
	if entry.ID != 0 {
		p.entries.UpdateField(entry.ID, inputID, text)
	}

	return entry
}

// fetch runs the request through the cache, falling back to the transport.
func (p *Processor) fetch(ctx context.Context, req *openai.Request) (*openai.Response, error) {
	return p.cache.GetOrFetch(req, func(r *openai.Request) (*openai.Response, error) {
		return p.transport.Do(ctx, r)
	})
}

// addFeedError records a feed-level error as a note and in the log. Errors
// never escalate to the host as a hard fault.
func (p *Processor) addFeedError(feed *models.Feed, entry *models.Entry, message string) {
	p.logger.Error("Feed processing error",
		zap.Int64("feed_id", feed.ID),
		zap.String("feed", feed.Name),
		zap.String("error", message))

	if entry != nil && entry.ID != 0 {
		p.notes.AddNote(entry.ID, 0, "OpenAI Error ("+feed.Name+")", message)
	}
}

func requestNoteTitle(feed *models.Feed) string {
	return "OpenAI Request (" + feed.Name + ")"
}

func responseNoteTitle(feed *models.Feed) string {
	return "OpenAI Response (" + feed.Name + ")"
}

func responseMetaKey(feed *models.Feed) string {
	return fmt.Sprintf("openai_response_%d", feed.ID)
}

// moderationNoteBody renders the raw category results for the audit note.
func moderationNoteBody(body []byte) string {
	var resp models.ResponseBody
	if err := json.Unmarshal(body, &resp); err != nil {
		return string(body)
	}
	pretty, err := json.MarshalIndent(resp.Results, "", "  ")
	if err != nil {
		return string(body)
	}
	return string(pretty)
}

func isNumericInputID(s string) bool {
	if s == "" {
		return false
	}
	dot := false
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] >= '0' && s[i] <= '9':
		case s[i] == '.' && !dot && i > 0 && i < len(s)-1:
			dot = true
		default:
			return false
		}
	}
	return true
}

var _ mergetags.FeedResolver = (*Processor)(nil)
