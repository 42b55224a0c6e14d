package proxy

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"resty.dev/v3"
)

// ProxySupplier hands out the proxy the taxonomy client should use
type ProxySupplier interface {
	Get() string
}

type proxySupplier struct {
	proxy string
}

// Checker reports whether a proxy can reach the test URL
type Checker func(ctx context.Context, proxyURL, testURL string) bool

// NewProxySupplier tries the configured proxies one after another and keeps
// the first that reaches testURL. With no working proxy, Get returns "".
func NewProxySupplier(ctx context.Context, proxies []string, testURL string, check Checker) ProxySupplier {
	if check == nil {
		check = isProxyValid
	}

	for i, proxyURL := range proxies {
		log.Debugf("🔄 Testing proxy %d/%d: %s", i+1, len(proxies), proxyURL)
		if check(ctx, proxyURL, testURL) {
			log.Infof("✅ Proxy %s is working", proxyURL)
			return &proxySupplier{proxy: proxyURL}
		}
		log.Infof("❌ Proxy %s is not working, skipping", proxyURL)
	}

	if len(proxies) > 0 {
		log.Warnf("⚠️ None of %d proxies answered, connecting directly", len(proxies))
	}
	return &proxySupplier{}
}

func (p *proxySupplier) Get() string {
	return p.proxy
}

// isProxyValid checks that a request through the proxy gets any HTTP answer.
// The taxonomy API answers unauthenticated requests with 401, which still
// proves the proxy works.
func isProxyValid(ctx context.Context, proxyURL, testURL string) bool {
	client := resty.New().
		SetTimeout(5 * time.Second).
		SetRetryCount(0).
		SetProxy(proxyURL)
	defer client.Close()

	resp, err := client.R().
		SetContext(ctx).
		Get(testURL)
	if err != nil {
		log.Infof("Proxy test failed for %s: %v", proxyURL, err)
		return false
	}

	if resp.StatusCode() >= 500 {
		log.Infof("Proxy test failed for %s with status: %s", proxyURL, resp.Status())
		return false
	}

	return true
}
