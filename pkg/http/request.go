package http

import (
	"net"
	"net/http"
	"strings"
	"sync"
)

// IPConfig lists the proxies whose forwarding headers are trusted.
// CIDRs are parsed once on first use; invalid entries are skipped.
type IPConfig struct {
	TrustedProxies []string

	once sync.Once
	nets []*net.IPNet
}

// NewIPConfig builds an IPConfig from CIDR strings such as "10.0.0.0/8"
func NewIPConfig(trustedProxies []string) *IPConfig {
	return &IPConfig{TrustedProxies: trustedProxies}
}

func (c *IPConfig) trusted(ip net.IP) bool {
	c.once.Do(func() {
		for _, cidr := range c.TrustedProxies {
			if _, ipNet, err := net.ParseCIDR(strings.TrimSpace(cidr)); err == nil {
				c.nets = append(c.nets, ipNet)
			}
		}
	})

	for _, ipNet := range c.nets {
		if ipNet.Contains(ip) {
			return true
		}
	}
	return false
}

// ExtractClientIP returns the address of the client that sent r.
// X-Forwarded-For and X-Real-IP are honored only when the direct peer is a
// trusted proxy, otherwise any client could choose its own address.
func ExtractClientIP(r *http.Request, config *IPConfig) string {
	remoteIP := remoteAddrIP(r)

	peer := net.ParseIP(remoteIP)
	if config == nil || peer == nil || !config.trusted(peer) {
		return remoteIP
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for _, candidate := range strings.Split(xff, ",") {
			candidate = strings.TrimSpace(candidate)
			if net.ParseIP(candidate) != nil {
				return candidate
			}
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(xri) != nil {
		return xri
	}

	return remoteIP
}

// remoteAddrIP strips the port from RemoteAddr
func remoteAddrIP(r *http.Request) string {
	if r.RemoteAddr == "" {
		return "unknown"
	}
	if ip, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return ip
	}
	return r.RemoteAddr
}
