// Package mergetags scans free text for feed-result placeholders and
// substitutes live values. Two grammars are resolved in order: field-scoped
// tags like {Field:3:openai_feed_7} and bare tags like {openai_feed_7} or
// {all_fields:openai_feed_7}.
package mergetags

import (
	"context"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/formflow/openai-addon/internal/models"
	"github.com/microcosm-cc/bluemonday"
)

const feedModifierPrefix = "openai_feed_"

var (
	// {<anything>:<numeric field id>(:modifiers)?}
	fieldTagRe = regexp.MustCompile(`(?i)\{[^{]*?:(\d+(\.\d+)?)(:(.*?))?\}`)
	// {(all_fields:)?openai_feed_<numeric id>}
	bareTagRe = regexp.MustCompile(`(?i)\{(all_fields:)?openai_feed_(\d+)\}`)

	newlineRe = regexp.MustCompile(`\r\n|\r|\n`)

	htmlPolicy  = bluemonday.UGCPolicy()
	stripPolicy = bluemonday.StrictPolicy()
)

// Options control how a substituted value is formatted for its destination.
type Options struct {
	URLEncode bool
	Nl2br     bool
	Format    string // "html", "text" or "url"
}

// FeedResolver produces the substitution value for a feed: it re-runs the
// request pipeline for that feed's endpoint and formats the result.
type FeedResolver interface {
	Replacement(ctx context.Context, form *models.Form, entry *models.Entry, feedID int64, opts Options) string
}

// Replacer substitutes feed-result placeholders in text.
type Replacer struct {
	resolver FeedResolver
}

// New creates a Replacer over the given resolver.
func New(resolver FeedResolver) *Replacer {
	return &Replacer{resolver: resolver}
}

// Replace resolves both placeholder grammars in text: all field-scoped
// matches first, left to right, then all bare matches. Each substitution
// replaces every occurrence of the literal matched span.
func (r *Replacer) Replace(ctx context.Context, text string, form *models.Form, entry *models.Entry, opts Options) string {
	for _, match := range fieldTagRe.FindAllStringSubmatch(text, -1) {
		literal := match[0]
		inputID := match[1]
		modifiers := parseModifiers(match[4])

		// A field-scoped tag whose field is empty is deleted outright.
		if entry.Value(inputID) == "" {
			text = strings.ReplaceAll(text, literal, "")
			continue
		}

		feedID, ok := modifiers.feedID()
		if !ok {
			// No feed modifier: not a tag this system recognizes.
			continue
		}

		replacement := r.resolver.Replacement(ctx, form, entry, feedID, opts)
		text = strings.ReplaceAll(text, literal, replacement)
	}

	for _, match := range bareTagRe.FindAllStringSubmatch(text, -1) {
		literal := match[0]
		feedID, err := strconv.ParseInt(match[2], 10, 64)
		if err != nil {
			continue
		}

		replacement := r.resolver.Replacement(ctx, form, entry, feedID, opts)
		text = strings.ReplaceAll(text, literal, replacement)
	}

	return text
}

// Format applies the requested output formatting to a substitution value:
// URL-encoding, then markup handling (the html format keeps a constrained
// safe subset, anything else strips all markup), then newline conversion.
func Format(text string, opts Options) string {
	if opts.URLEncode {
		text = url.QueryEscape(text)
	}

	if opts.Format == "html" {
		text = htmlPolicy.Sanitize(text)
	} else {
		text = stripPolicy.Sanitize(text)
	}

	if opts.Nl2br {
		text = newlineRe.ReplaceAllString(text, "<br />")
	}

	return text
}
