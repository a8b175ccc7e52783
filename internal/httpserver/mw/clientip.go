package mw

import (
	"net"
	"net/http"
	"strings"
)

// hostNoPort returns the host part of "ip:port", "[v6]:port" or "ip".
func hostNoPort(s string) string {
	if s == "" {
		return ""
	}
	if h, _, err := net.SplitHostPort(s); err == nil {
		return h
	}
	return s
}

// firstForwardedFor returns the left-most address of X-Forwarded-For.
func firstForwardedFor(xff string) string {
	xff = strings.TrimSpace(xff)
	if i := strings.IndexByte(xff, ','); i >= 0 {
		xff = xff[:i]
	}
	return strings.TrimSpace(xff)
}

// ClientIP resolves the caller address. With trustProxy it prefers
// X-Forwarded-For (first) then X-Real-IP, otherwise only RemoteAddr counts.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if v := firstForwardedFor(r.Header.Get("X-Forwarded-For")); v != "" {
			return hostNoPort(v)
		}
		if v := strings.TrimSpace(r.Header.Get("X-Real-IP")); v != "" {
			return hostNoPort(v)
		}
	}
	return hostNoPort(r.RemoteAddr)
}

// ipMatcher matches exact IPs and CIDRs.
type ipMatcher struct {
	ips  []net.IP
	nets []*net.IPNet
}

func newIPMatcher(list []string) *ipMatcher {
	m := &ipMatcher{}
	for _, raw := range list {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		if _, ipnet, err := net.ParseCIDR(s); err == nil {
			m.nets = append(m.nets, ipnet)
			continue
		}
		if ip := net.ParseIP(s); ip != nil {
			m.ips = append(m.ips, ip)
		}
	}
	return m
}

func (m *ipMatcher) empty() bool {
	return len(m.ips) == 0 && len(m.nets) == 0
}

func (m *ipMatcher) allow(ipStr string) bool {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}
	for _, v := range m.ips {
		if v.Equal(ip) {
			return true
		}
	}
	for _, n := range m.nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
