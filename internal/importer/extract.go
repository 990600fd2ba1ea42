package importer

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Extraction is the outcome of running a strategy cascade over a document
type Extraction struct {
	Strategy   string
	Candidates []RawCandidate
}

// pricePattern matches a currency-prefixed amount in free text
var pricePattern = regexp.MustCompile(`(?i)(?:\brs\.?|\bpkr|₨|₹|\$)\s*\d[\d,]*(?:\.\d+)?`)

var imageAttrs = []string{"src", "data-src", "data-lazy-src", "data-original", "srcset", "data-srcset"}

// ExtractProducts runs the product strategies for kind, then the generic
// platform strategies, then the class-contains heuristic.
func ExtractProducts(doc *goquery.Document, kind SiteKind, base *url.URL) Extraction {
	return extract(doc, productStrategies, kind, "product", true, base)
}

// ExtractGeneric ignores partner strategies and applies the generic cascade
func ExtractGeneric(doc *goquery.Document, base *url.URL) Extraction {
	return ExtractProducts(doc, SiteGeneric, base)
}

// ExtractBrands is ExtractProducts for brand listings; the image is the logo
// and no price is read.
func ExtractBrands(doc *goquery.Document, kind SiteKind, base *url.URL) Extraction {
	return extract(doc, brandStrategies, kind, "brand", false, base)
}

func extract(doc *goquery.Document, table map[SiteKind][]Strategy, kind SiteKind, fragment string, wantPrice bool, base *url.URL) Extraction {
	if ext := runCascade(doc, table[kind], base); len(ext.Candidates) > 0 {
		return ext
	}
	if kind != SiteGeneric {
		if ext := runCascade(doc, table[SiteGeneric], base); len(ext.Candidates) > 0 {
			return ext
		}
	}
	return extractByClass(doc, fragment, wantPrice, base)
}

// runCascade returns the result of the first strategy producing at least
// one accepted candidate.
func runCascade(doc *goquery.Document, strategies []Strategy, base *url.URL) Extraction {
	for _, st := range strategies {
		var candidates []RawCandidate
		doc.Find(st.Container).Each(func(_ int, s *goquery.Selection) {
			if c, ok := st.candidate(s, base); ok {
				candidates = append(candidates, c)
			}
		})
		if len(candidates) > 0 {
			return Extraction{Strategy: st.Name, Candidates: candidates}
		}
	}
	return Extraction{}
}

// candidate maps one container onto a RawCandidate
func (st Strategy) candidate(s *goquery.Selection, base *url.URL) (RawCandidate, bool) {
	var name string
	for _, sel := range st.Title {
		name, _ = fieldValue(s, sel)
		if sel == "" {
			// whole-container text also carries the price label
			name = cleanText(pricePattern.ReplaceAllString(name, " "))
		}
		if name != "" {
			break
		}
	}
	if !acceptableName(name) {
		return RawCandidate{}, false
	}

	var priceText string
	for _, sel := range st.Price {
		if text, _ := fieldValue(s, sel); text != "" {
			priceText = firstPrice(text)
			break
		}
	}
	if priceText == "" && len(st.Price) > 0 {
		priceText = pricePattern.FindString(containerText(s))
	}

	return RawCandidate{
		Name:      name,
		PriceText: priceText,
		ImageURL:  firstImage(s, st.Image, base),
		Strategy:  st.Name,
	}, true
}

// fieldValue resolves one selector of a field mapping against a container
func fieldValue(s *goquery.Selection, selector string) (string, bool) {
	sel, attr, hasAttr := strings.Cut(selector, "@")
	target := s
	if sel != "" {
		target = s.Find(sel).First()
	}
	if target.Length() == 0 {
		return "", false
	}

	if hasAttr {
		value, ok := target.Attr(attr)
		return cleanText(value), ok
	}
	if sel == "" {
		return containerText(target), true
	}
	if title, ok := target.Attr("title"); ok && strings.TrimSpace(title) != "" {
		return cleanText(title), true
	}
	return cleanText(target.Text()), true
}

// firstImage returns the first usable image URL, resolved against base
func firstImage(s *goquery.Selection, selectors []string, base *url.URL) string {
	for _, sel := range selectors {
		target := s
		if sel != "" {
			target = s.Find(sel)
		}

		var found string
		target.EachWithBreak(func(_ int, img *goquery.Selection) bool {
			for _, attr := range imageAttrs {
				value, ok := img.Attr(attr)
				if !ok {
					continue
				}
				if strings.HasSuffix(attr, "srcset") {
					value = firstSrcsetEntry(value)
				}
				value = strings.TrimSpace(value)
				if value == "" || strings.HasPrefix(value, "data:") {
					continue
				}
				found = resolveURL(base, value)
				return false
			}
			return true
		})
		if found != "" {
			return found
		}
	}
	return ""
}

// extractByClass treats every element whose class contains fragment as a
// container. A container is skipped when it wraps a more specific one that
// has both a name and (when wanted) a price, so that grid wrappers do not
// swallow individual cards.
func extractByClass(doc *goquery.Document, fragment string, wantPrice bool, base *url.URL) Extraction {
	selector := "[class*='" + fragment + "']"
	strategy := heuristicStrategy + ":" + fragment

	complete := func(s *goquery.Selection) bool {
		if heuristicName(s) == "" {
			return false
		}
		return !wantPrice || pricePattern.MatchString(containerText(s))
	}

	var candidates []RawCandidate
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		name := heuristicName(s)
		if !acceptableName(name) {
			return
		}
		text := containerText(s)
		if wantPrice && !pricePattern.MatchString(text) && s.Find("img").Length() == 0 {
			return
		}
		if s.Find(selector).FilterFunction(func(_ int, inner *goquery.Selection) bool {
			return complete(inner)
		}).Length() > 0 {
			return
		}

		c := RawCandidate{
			Name:     name,
			ImageURL: firstImage(s, []string{"img"}, base),
			Strategy: strategy,
		}
		if wantPrice {
			c.PriceText = pricePattern.FindString(text)
		}
		candidates = append(candidates, c)
	})

	if len(candidates) == 0 {
		return Extraction{}
	}
	return Extraction{Strategy: strategy, Candidates: candidates}
}

// heuristicName picks the first heading, title/name element, anchor text or
// image alt inside s.
func heuristicName(s *goquery.Selection) string {
	for _, sel := range []string{"h1, h2, h3, h4, h5, h6", "[class*='title'], [class*='name']", "a", "img@alt"} {
		if name, _ := fieldValue(s, sel); name != "" {
			return cleanText(pricePattern.ReplaceAllString(name, " "))
		}
	}
	return ""
}

// acceptableName drops short names and navigation labels
func acceptableName(name string) bool {
	if utf8.RuneCountInString(name) < minNameLength {
		return false
	}
	return !disallowedNames[strings.ToLower(name)]
}

// firstPrice keeps only the first amount of texts such as "Rs. 900 Rs. 750"
func firstPrice(text string) string {
	if match := pricePattern.FindString(text); match != "" {
		return match
	}
	return text
}

func firstSrcsetEntry(srcset string) string {
	first, _, _ := strings.Cut(srcset, ",")
	fields := strings.Fields(first)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// resolveURL converts protocol-relative and relative references to absolute URLs
func resolveURL(base *url.URL, ref string) string {
	parsed, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if base == nil {
		return parsed.String()
	}
	return base.ResolveReference(parsed).String()
}

// containerText joins the text nodes under s with spaces, so that adjacent
// elements such as <h4>Name</h4><span>Rs. 90</span> stay separate words.
// Script and style contents are skipped.
func containerText(s *goquery.Selection) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			parts = append(parts, n.Data)
			return
		case n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style"):
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return cleanText(strings.Join(parts, " "))
}

// cleanText trims and collapses whitespace
func cleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
