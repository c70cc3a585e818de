package utils

import (
	"fmt"
	"net"
	"net/http"
	"regexp"
	"strings"
)

// Subdomains are the tenant address space, so the rules are strict: length
// 3-50, lowercase alphanumerics and hyphens, no edge hyphens, and none of
// the reserved infrastructure words. Uniqueness against existing weddings is
// enforced at insert time, not here.

var subdomainPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

var reservedSubdomains = []string{
	"www", "app", "api", "admin", "mail", "ftp", "blog", "shop", "store",
	"support", "help", "docs", "status", "dev", "test", "staging", "prod",
	"cdn", "static", "assets", "images", "files", "download", "upload",
}

func ValidateSubdomain(s string) error {
	if len(s) < 3 || len(s) > 50 {
		return fmt.Errorf("subdomain must be between 3 and 50 characters")
	}
	if !subdomainPattern.MatchString(s) {
		return fmt.Errorf("subdomain may only contain lowercase letters, numbers and hyphens")
	}
	if strings.HasPrefix(s, "-") || strings.HasSuffix(s, "-") {
		return fmt.Errorf("subdomain may not start or end with a hyphen")
	}
	for _, reserved := range reservedSubdomains {
		if s == reserved {
			return fmt.Errorf("subdomain %q is reserved", s)
		}
	}
	return nil
}

// ExtractSubdomain pulls the tenant label out of a request host. Local
// development hosts (localhost and loopback addresses) treat the first label
// as the subdomain; production hosts need at least three labels so the apex
// domain resolves to no tenant. www and app are never tenants.
func ExtractSubdomain(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(host)

	if host == "localhost" || host == "127.0.0.1" || host == "::1" {
		return ""
	}

	labels := strings.Split(host, ".")
	var sub string
	if labels[len(labels)-1] == "localhost" {
		sub = labels[0]
	} else if len(labels) >= 3 {
		sub = labels[0]
	} else {
		return ""
	}

	if sub == "www" || sub == "app" {
		return ""
	}
	return sub
}

// Paths that are never tenant-scoped, regardless of host.
var reservedPathPrefixes = []string{
	"/api", "/static", "/assets", "/auth", "/admin", "/pricing",
	"/invite", "/join", "/test", "/debug", "/demo", "/w",
}

func IsReservedPath(path string) bool {
	if path == "/" {
		return true
	}
	for _, prefix := range reservedPathPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// RewriteTenantHost is a router wrapper: requests arriving on a tenant
// subdomain get their path prefixed with the tenant route segment before the
// router runs. Whether the wedding actually exists is the tenant route's
// problem, not the resolver's.
func RewriteTenantHost(w http.ResponseWriter, r *http.Request, router http.HandlerFunc) {
	if !IsReservedPath(r.URL.Path) {
		if sub := ExtractSubdomain(r.Host); sub != "" {
			r.URL.Path = "/w/" + sub + strings.TrimSuffix(r.URL.Path, "/")
		}
	}
	router(w, r)
}
