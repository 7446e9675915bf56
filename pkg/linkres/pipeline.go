package linkres

import (
	"log"
	"regexp"
)

// urlPattern matches URL-shaped substrings in free text.
var urlPattern = regexp.MustCompile(`https?://[^\s<>"{}|\\^[\]` + "`" + `]+`)

// SettingsSource supplies the user's opening preferences. It is read on
// every resolve, never cached, so preference changes take effect on the
// next join attempt.
type SettingsSource interface {
	// StrategyFor returns the explicit per-platform override, if any.
	StrategyFor(p Platform) (OpenStrategy, bool)
	// GlobalStrategy is the fallback when neither an override nor a
	// platform recommendation applies. May be empty.
	GlobalStrategy() OpenStrategy
	// Browser names the browser for web opens; empty means the system
	// default.
	Browser() string
}

// Pipeline orchestrates normalization, classification, validation and
// opening of conferencing links.
type Pipeline struct {
	rules    *Rules
	settings SettingsSource
	env      Environment
}

// NewPipeline wires a pipeline from its collaborators. rules may be nil
// for the compiled-in defaults.
func NewPipeline(rules *Rules, settings SettingsSource, env Environment) *Pipeline {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Pipeline{rules: rules, settings: settings, env: env}
}

// Resolve scans text for URL candidates in order of appearance and
// returns the first one that normalizes, classifies and validates.
// A nil return means the text carries no usable conferencing link,
// which is not an error.
func (p *Pipeline) Resolve(text string) *ResolvedLink {
	for _, candidate := range urlPattern.FindAllString(text, -1) {
		u, err := NormalizeWithRules(candidate, p.rules)
		if err != nil {
			continue
		}

		if err := ValidateWithRules(u, p.rules); err != nil {
			log.Printf("Link candidate rejected: %v", err)
			continue
		}

		platform := Classify(u)
		meetingID, password := extractParams(u, platform)

		return &ResolvedLink{
			URL:       u,
			Platform:  platform,
			MeetingID: meetingID,
			Password:  password,
			Strategy:  p.strategyFor(platform),
		}
	}

	return nil
}

// strategyFor resolves the effective opening strategy: explicit user
// override, else the platform recommendation, else the global default.
func (p *Pipeline) strategyFor(platform Platform) OpenStrategy {
	if p.settings != nil {
		if override, ok := p.settings.StrategyFor(platform); ok {
			return override
		}
	}
	if rec := RecommendedStrategy(platform); rec != StrategySystemDefault {
		return rec
	}
	if p.settings != nil {
		if global := p.settings.GlobalStrategy(); global != "" {
			return global
		}
	}
	return StrategySystemDefault
}
