package validator

import (
	"net"
	"net/url"

	"github.com/joseph-ayodele/ocr-service/constants"
	"github.com/joseph-ayodele/ocr-service/internal/common"
)

var ssrfBlockedNets []*net.IPNet

func init() {
	for _, cidr := range constants.SSRFBlockedCIDRs {
		_, n, err := net.ParseCIDR(cidr)
		if err == nil {
			ssrfBlockedNets = append(ssrfBlockedNets, n)
		}
	}
}

// ValidateWebhookURL is a best-effort SSRF block: literal-IP and
// hostname matching only, no DNS resolution. A hostname resolving to
// a private IP is accepted here; blocking it would require resolution
// this check deliberately avoids.
func ValidateWebhookURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return common.NewAppError(common.CodeInvalidInput, "callbackWebhook is not a valid URL", common.ErrInvalidInput)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return common.NewAppError(common.CodeInvalidInput, "callbackWebhook must be http or https", common.ErrInvalidInput)
	}
	host := u.Hostname()
	if host == "" {
		return common.NewAppError(common.CodeInvalidInput, "callbackWebhook has no host", common.ErrInvalidInput)
	}
	if _, blocked := constants.SSRFBlockedHosts[host]; blocked {
		return common.NewAppError(common.CodeInvalidInput, "callbackWebhook targets a local or private host", common.ErrInvalidInput)
	}
	if ip := net.ParseIP(host); ip != nil {
		for _, n := range ssrfBlockedNets {
			if n.Contains(ip) {
				return common.NewAppError(common.CodeInvalidInput, "callbackWebhook targets a private network", common.ErrInvalidInput)
			}
		}
	}
	return nil
}
