package fetch

import (
	"net/url"
	"strings"
)

// Platform is a known job board.
type Platform string

const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformAshby      Platform = "ashby"
	PlatformUnknown    Platform = "unknown"
)

type profile struct {
	hosts   []string
	content []string
	noise   []string
}

var profiles = map[Platform]profile{
	PlatformGreenhouse: {
		hosts: []string{"greenhouse.io"},
		content: []string{
			".job__description.body",
			".job__description",
			".job-description__content",
			"#content",
			".job-post-container",
		},
		noise: []string{
			".application--wrapper",
			".voluntary-self-id",
			".voluntary-self-id-wrapper",
			"#usa_self_id_section",
			".post-apply",
		},
	},
	PlatformLever: {
		hosts: []string{"lever.co"},
		content: []string{
			".posting-page",
			".section-wrapper.page-full-width",
			".posting-description",
			".content",
		},
		noise: []string{".apply-section", ".lever-application-form", ".posting-apply"},
	},
	PlatformWorkday: {
		hosts: []string{"workday.com", "myworkdayjobs.com"},
		content: []string{
			"[data-automation-id='jobDescription']",
			".job-description",
		},
		noise: []string{"[data-automation-id='applyButton']", ".application-section"},
	},
	PlatformAshby: {
		hosts:   []string{"ashbyhq.com"},
		content: []string{"._descriptionText", "[data-testid='job-posting-description']", "main"},
		noise:   []string{"._applicationForm"},
	},
}

// commonNoise is removed on every platform.
var commonNoise = []string{
	"form",
	"#application-form",
	".application-form",
	".apply-button-container",
	".eeo-statement",
	".eeo-section",
	".legal-disclosure",
	".social-share",
	".share-buttons",
	".cookie-consent",
	".gdpr-notice",
}

// DetectPlatform identifies the job board from a URL host.
func DetectPlatform(rawURL string) Platform {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return PlatformUnknown
	}
	host := strings.ToLower(parsed.Hostname())
	for name, p := range profiles {
		for _, h := range p.hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return name
			}
		}
	}
	return PlatformUnknown
}

// ContentSelectors returns content selectors for a platform, most specific first.
func ContentSelectors(p Platform) []string {
	if prof, ok := profiles[p]; ok {
		return append(append([]string{}, prof.content...), JobPostingSelectors()...)
	}
	return JobPostingSelectors()
}

// NoiseSelectors returns the selectors removed before extraction on a platform.
func NoiseSelectors(p Platform) []string {
	out := append([]string{}, commonNoise...)
	if prof, ok := profiles[p]; ok {
		out = append(out, prof.noise...)
	}
	return out
}
