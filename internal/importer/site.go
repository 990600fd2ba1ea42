package importer

import (
	"net/url"
	"strings"
)

// SiteKind identifies which extraction strategies apply to a page
type SiteKind int

const (
	SiteGeneric SiteKind = iota
	SiteNajeeb
	SiteDvago
	SiteSehat
)

// partners lists known partner sites in detection order
var partners = []struct {
	kind     SiteKind
	fragment string
	name     string
}{
	{SiteNajeeb, "najeeb", "Najeeb Pharmacy"},
	{SiteDvago, "dvago", "DVAGO"},
	{SiteSehat, "sehat", "Sehat"},
}

// String returns the display name reported as an import source
func (k SiteKind) String() string {
	for _, p := range partners {
		if p.kind == k {
			return p.name
		}
	}
	return "Generic"
}

// DetectSite classifies a URL by its hostname. Unknown or unparseable URLs
// are SiteGeneric.
func DetectSite(rawURL string) SiteKind {
	u, err := url.Parse(rawURL)
	if err != nil {
		return SiteGeneric
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return SiteGeneric
	}
	for _, p := range partners {
		if strings.Contains(host, p.fragment) {
			return p.kind
		}
	}
	return SiteGeneric
}
