package linkres

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Rules holds the link policy: which schemes and hosts are acceptable
// and which query parameters are stripped as tracking noise. A deny-list
// entry ending in "*" matches by prefix.
type Rules struct {
	AllowedSchemes []string `yaml:"allowed_schemes"`
	TrustedHosts   []string `yaml:"trusted_hosts"`
	TrackingParams []string `yaml:"tracking_params"`
}

// DefaultRules returns the compiled-in link policy.
func DefaultRules() *Rules {
	return &Rules{
		AllowedSchemes: []string{"https", "zoommtg", "zoomus", "msteams"},
		TrustedHosts: []string{
			"zoom.us",
			"zoomgov.com",
			"meet.google.com",
			"teams.microsoft.com",
			"teams.live.com",
			"webex.com",
			"gotomeeting.com",
			"gotomeet.me",
			"meet.jit.si",
			"8x8.vc",
			"whereby.com",
			"around.co",
			"chime.aws",
			"bluejeans.com",
			"join.skype.com",
		},
		TrackingParams: []string{
			"utm_*",
			"fbclid",
			"gclid",
			"dclid",
			"msclkid",
			"yclid",
			"igshid",
			"mc_cid",
			"mc_eid",
			"mkt_tok",
			"_hsenc",
			"_hsmi",
			"vero_id",
			"wickedid",
			"ref",
			"ref_src",
			"referrer",
		},
	}
}

// LoadRules reads a YAML rules file. A missing file is not an error and
// yields the defaults; empty sections fall back to the defaults so a
// user can override one list without restating the others.
func LoadRules(path string) (*Rules, error) {
	defaults := DefaultRules()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	loaded := &Rules{}
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("failed to parse rules file: %w", err)
	}

	if len(loaded.AllowedSchemes) == 0 {
		loaded.AllowedSchemes = defaults.AllowedSchemes
	}
	if len(loaded.TrustedHosts) == 0 {
		loaded.TrustedHosts = defaults.TrustedHosts
	}
	if len(loaded.TrackingParams) == 0 {
		loaded.TrackingParams = defaults.TrackingParams
	}

	return loaded, nil
}
