package addon

import (
	"context"

	"github.com/formflow/openai-addon/internal/mergetags"
	"github.com/formflow/openai-addon/internal/models"
	"github.com/formflow/openai-addon/internal/openai"
)

// ReplaceMergeTags substitutes feed-result placeholders in text rendered by
// the host. Substitution re-runs the request pipeline synchronously; the
// cache keeps repeated evaluation of the same tag to one upstream call.
func (p *Processor) ReplaceMergeTags(ctx context.Context, text string, form *models.Form, entry *models.Entry, opts mergetags.Options) string {
	return mergetags.New(p).Replace(ctx, text, form, entry, opts)
}

// Replacement produces the substitution value for one feed's merge tag. Only
// completions and edits support merge tags; anything else, a disabled feed
// or a failed request yields the empty string.
func (p *Processor) Replacement(ctx context.Context, form *models.Form, entry *models.Entry, feedID int64, opts mergetags.Options) string {
	feed, err := p.feeds.Feed(feedID)
	if err != nil || feed.Endpoint() == "" {
		return ""
	}

	if !feed.BoolSetting("enable_merge_tag") {
		return ""
	}

	var req *openai.Request

	switch feed.Endpoint() {
	case models.EndpointCompletions.String():
		prompt := p.resolver.Resolve(feed.Setting("prompt"), form, entry, "text")
		req = p.builder.Build(models.EndpointCompletions, feed, openai.Resolved{Prompt: prompt})

	case models.EndpointEdits.String():
		input := p.resolver.Resolve(feed.Setting("input"), form, entry, "text")
		instruction := p.resolver.Resolve(feed.Setting("instruction"), form, entry, "text")
		req = p.builder.Build(models.EndpointEdits, feed, openai.Resolved{Input: input, Instruction: instruction})

	default:
		return ""
	}

	resp, err := p.fetch(ctx, req)
	if err != nil {
		return ""
	}

	text, err := openai.ExtractText(resp.Body)
	if err != nil {
		return ""
	}

	return mergetags.Format(text, opts)
}
