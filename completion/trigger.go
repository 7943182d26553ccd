package completion

import (
	"strings"

	"github.com/bernabedev/autogem/code_analyzer/models"
	"github.com/bernabedev/autogem/language"
)

// TriggerKind distinguishes a user-requested completion from one raised by
// the editor while typing.
type TriggerKind int

const (
	TriggerAutomatic TriggerKind = iota
	TriggerExplicit
)

// Reason explains a trigger decision so callers can surface or log it.
type Reason string

const (
	ReasonExplicit         Reason = "explicit-request"
	ReasonTriggerCharacter Reason = "trigger-character"
	ReasonTypingThreshold  Reason = "typing-threshold"
	ReasonBlockStart       Reason = "block-start"
	ReasonInComment        Reason = "in-comment"
	ReasonInString         Reason = "in-string"
	ReasonLineTooShort     Reason = "line-too-short"
	ReasonNoBlockSite      Reason = "no-block-site"
)

// Decision is the outcome of evaluating a potential completion site.
type Decision struct {
	Fire   bool
	Reason Reason
}

// TriggerOptions tunes the policy per user configuration.
type TriggerOptions struct {
	TriggerCharacters []string
	MultilineTriggers []string
	MinTriggerLength  int
	SkipInComments    bool
	SkipInStrings     bool
}

// Policy decides whether a cursor position warrants asking the model for a
// completion. It never inspects file contents beyond the snapshot it is
// handed, so decisions are cheap and deterministic.
type Policy struct {
	registry *language.Registry
	opts     TriggerOptions
}

func NewPolicy(registry *language.Registry, opts TriggerOptions) *Policy {
	return &Policy{registry: registry, opts: opts}
}

// Decide evaluates a single-line completion site. Explicit requests always
// fire; automatic ones must pass the comment/string skips and then either
// end on a trigger character or meet the typing threshold.
func (p *Policy) Decide(kind TriggerKind, snapshot models.DocumentSnapshot) Decision {
	if kind == TriggerExplicit {
		return Decision{Fire: true, Reason: ReasonExplicit}
	}

	strategy := p.registry.Lookup(snapshot.LanguageID)
	line := snapshot.CurrentLine()
	column := snapshot.Position.Character

	if skip, reason := p.skipSite(strategy, line, column); skip {
		return Decision{Reason: reason}
	}

	before := snapshot.TextBeforeCursor()
	for _, ch := range p.opts.TriggerCharacters {
		if ch != "" && strings.HasSuffix(before, ch) {
			return Decision{Fire: true, Reason: ReasonTriggerCharacter}
		}
	}
	// a minimum of zero is trivially met
	if len(strings.TrimSpace(before)) >= p.opts.MinTriggerLength {
		return Decision{Fire: true, Reason: ReasonTypingThreshold}
	}
	return Decision{Reason: ReasonLineTooShort}
}

// DecideMultiline evaluates a block completion site. Automatic requests need
// the line to end with a multiline trigger token and the language strategy to
// confirm the site opens a block; explicit requests only need the latter.
func (p *Policy) DecideMultiline(kind TriggerKind, snapshot models.DocumentSnapshot) Decision {
	strategy := p.registry.Lookup(snapshot.LanguageID)
	before := snapshot.TextBeforeCursor()

	if kind == TriggerExplicit {
		if strategy.IsGoodCompletionSite(before) {
			return Decision{Fire: true, Reason: ReasonExplicit}
		}
		return Decision{Reason: ReasonNoBlockSite}
	}

	line := snapshot.CurrentLine()
	if skip, reason := p.skipSite(strategy, line, snapshot.Position.Character); skip {
		return Decision{Reason: reason}
	}

	trimmed := strings.TrimRight(before, " \t")
	for _, token := range p.opts.MultilineTriggers {
		if token != "" && strings.HasSuffix(trimmed, token) && strategy.IsGoodCompletionSite(before) {
			return Decision{Fire: true, Reason: ReasonBlockStart}
		}
	}
	return Decision{Reason: ReasonNoBlockSite}
}

func (p *Policy) skipSite(strategy language.Strategy, line string, column int) (bool, Reason) {
	if p.opts.SkipInComments && strategy.IsInComment(line, column) {
		return true, ReasonInComment
	}
	if p.opts.SkipInStrings && strategy.IsInString(line, column) {
		return true, ReasonInString
	}
	return false, ""
}
