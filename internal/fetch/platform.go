package fetch

import (
	"net/url"
	"strings"
)

// Platform is a recruiting site with known page structure
type Platform string

const (
	PlatformBoss    Platform = "boss"
	PlatformLagou   Platform = "lagou"
	PlatformLiepin  Platform = "liepin"
	Platform51Job   Platform = "51job"
	PlatformZhaopin Platform = "zhaopin"
	PlatformUnknown Platform = "unknown"
)

var platformHosts = []struct {
	suffix   string
	platform Platform
}{
	{"zhipin.com", PlatformBoss},
	{"lagou.com", PlatformLagou},
	{"liepin.com", PlatformLiepin},
	{"51job.com", Platform51Job},
	{"zhaopin.com", PlatformZhaopin},
}

// DetectPlatform identifies the recruiting site from a URL
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Hostname())
	for _, ph := range platformHosts {
		if host == ph.suffix || strings.HasSuffix(host, "."+ph.suffix) {
			return ph.platform
		}
	}
	return PlatformUnknown
}

// RendersClientSide reports whether the platform builds its job detail in the
// browser, so a plain HTTP fetch returns an empty shell.
func RendersClientSide(platform Platform) bool {
	switch platform {
	case PlatformBoss, PlatformLagou:
		return true
	default:
		return false
	}
}

var genericContent = []string{
	".job-description",
	".job-detail",
	".job-sec-text",
	".job-content",
	"#job-description",
	".position-content",
	".describtion",
	"[data-testid='job-description']",
	"main",
	"article",
	".content",
	"#content",
}

var sharedNoise = []string{
	"form",
	".login-dialog",
	".sign-wrap",
	".qrcode",
	".share",
	".social-share",
	".recommend-job",
	".similar-job",
	".job-recommend",
	".footer-wrapper",
}

// SelectorsFor returns where the job detail lives on a platform. Site
// specific selectors come first and the generic ones are the fallback.
func SelectorsFor(platform Platform) Selectors {
	var content, noise []string
	switch platform {
	case PlatformBoss:
		content = []string{".job-detail-section", ".job-sec-text", ".job-box"}
		noise = []string{".job-boss-info", ".btn-container", ".sider-company"}
	case PlatformLagou:
		content = []string{".job-detail", "#job_detail", ".job_bt"}
		noise = []string{".resume-deliver", ".position-head-wrap-apply"}
	case PlatformLiepin:
		content = []string{".job-intro-container", ".job-description", ".content-word"}
		noise = []string{".apply-box", ".job-apply-container"}
	case Platform51Job:
		content = []string{".bmsg.job_msg", ".job_msg", ".tCompany_main"}
		noise = []string{".tHeader .op", ".apply"}
	case PlatformZhaopin:
		content = []string{".describtion", ".job-detail", ".describtion__detail-content"}
		noise = []string{".a-job__apply", ".company-card"}
	}
	return Selectors{
		Content: append(content, genericContent...),
		Noise:   append(append([]string(nil), sharedNoise...), noise...),
	}
}
