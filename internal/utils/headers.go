package utils

import (
	"math/rand/v2"
	"net/http"
	"strings"

	"github.com/corpix/uarand"
)

// HeaderProvider supplies the request headers for one outbound call.
type HeaderProvider interface {
	Headers() http.Header
}

const fallbackUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// how many random agents to draw before settling for the fallback
const userAgentAttempts = 50

var acceptLanguages = []string{
	"ru-RU,ru;q=0.9,en-US;q=0.8,en;q=0.7",
	"ru-RU,ru;q=0.9",
	"ru,en;q=0.9",
	"en-US,en;q=0.9,ru;q=0.8",
}

// BrowserHeaders generates a plausible Chrome-on-Windows header set per call.
type BrowserHeaders struct {
	userAgent func() string
}

func NewBrowserHeaders() *BrowserHeaders {
	return &BrowserHeaders{userAgent: uarand.GetRandom}
}

func (b *BrowserHeaders) Headers() http.Header {
	h := http.Header{}
	h.Set("User-Agent", b.pickUserAgent())
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	h.Set("Accept-Language", acceptLanguages[rand.IntN(len(acceptLanguages))])
	h.Set("Connection", "keep-alive")
	if rand.IntN(2) == 0 {
		h.Set("Upgrade-Insecure-Requests", "1")
	}
	if rand.IntN(2) == 0 {
		h.Set("DNT", "1")
	}
	return h
}

func (b *BrowserHeaders) pickUserAgent() string {
	for range userAgentAttempts {
		ua := b.userAgent()
		if strings.Contains(ua, "Windows") && strings.Contains(ua, "Chrome/") && !strings.Contains(ua, "Edg") {
			return ua
		}
	}
	return fallbackUserAgent
}
