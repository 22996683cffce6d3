package addon

import (
	"context"
	"fmt"
	"html"

	"github.com/formflow/openai-addon/internal/models"
	"go.uber.org/zap"
)

// ValidationResult is the outcome of the submission-time moderation check.
type ValidationResult struct {
	Valid   bool
	Message string
}

// ValidateSubmission runs every moderation feed configured with the
// validation_error behavior against the in-flight submission. The entry is
// provisional (unsaved, no id); the first violating feed invalidates the
// submission and supplies its configured message.
func (p *Processor) ValidateSubmission(ctx context.Context, form *models.Form, fields map[string]string) ValidationResult {
	feeds, err := p.feeds.FeedsForForm(form.ID)
	if err != nil {
		p.logger.Warn("Failed to load feeds for validation", zap.Int64("form_id", form.ID), zap.Error(err))
		return ValidationResult{Valid: true}
	}

	entry := &models.Entry{FormID: form.ID, Fields: fields}

	for _, feed := range feeds {
		if feed.Endpoint() != models.EndpointModerations.String() {
			continue
		}
		if feed.Behavior() != models.BehaviorValidationError {
			continue
		}

		if p.processModerations(ctx, feed, entry, form) {
			message := feed.Meta["moderations_validation_message"]
			if message == "" {
				message = DefaultModerationMessage
			}
			return ValidationResult{Valid: false, Message: message}
		}
	}

	return ValidationResult{Valid: true}
}

// IsSpam runs every moderation feed configured with the spam behavior. A
// positive verdict flags the entry as spam; disposition stays with the
// host's spam policy.
func (p *Processor) IsSpam(ctx context.Context, entry *models.Entry, form *models.Form) bool {
	feeds, err := p.feeds.FeedsForForm(form.ID)
	if err != nil {
		p.logger.Warn("Failed to load feeds for spam check", zap.Int64("form_id", form.ID), zap.Error(err))
		return false
	}

	for _, feed := range feeds {
		if feed.Endpoint() != models.EndpointModerations.String() {
			continue
		}
		if feed.Behavior() != models.BehaviorSpam {
			continue
		}

		if p.processModerations(ctx, feed, entry, form) {
			return true
		}
	}

	return false
}

// ValidationErrorMarkup renders the user-facing policy-violation message.
// The class set and element differ between the host's legacy and modern
// rendering modes.
func (p *Processor) ValidationErrorMarkup(message string) string {
	classes := p.validationErrorCSSClasses()

	if !p.modernMarkup {
		return fmt.Sprintf(`<div class="%s">%s</div>`, classes, html.EscapeString(message))
	}

	return fmt.Sprintf(
		`<h2 class="%s"><span class="gform-icon gform-icon--close"></span>%s</h2>`,
		classes, html.EscapeString(message))
}

func (p *Processor) validationErrorCSSClasses() string {
	container := "validation_error"
	if p.modernMarkup {
		container = "gform_submission_error"
	}
	return container + " hide_summary"
}
