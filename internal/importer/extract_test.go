package importer

import (
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const najeebListing = `
<html><body>
<nav><a class="product-link" href="/collections/all">All</a></nav>
<div class="collection">
	<a class="product-link" href="/products/panadol-500mg">
		<img src="//cdn.najeeb.pk/panadol.jpg" alt="Panadol">
		<h3 class="product-title">Panadol 500mg</h3>
		<span class="price">Rs. 120</span>
	</a>
	<a class="product-link" href="/products/brufen-400mg">
		<img data-src="/files/brufen.jpg">
		<h3 class="product-title">Brufen 400mg</h3>
		<span class="price"><s>Rs. 300</s> Rs. 280</span>
	</a>
	<a class="product-link" href="/products/surbex-z" title="Surbex Z Tablets">
		<h3 class="product-title">Surbex Z</h3>
		<span class="price">Rs. 1,250</span>
	</a>
	<a class="product-link" href="/products/arinac-forte">
		<img src="data:image/gif;base64,R0lGOD" srcset="/files/arinac-small.jpg 1x, /files/arinac.jpg 2x">
		<h3 class="product-title">Arinac Forte</h3>
		<span class="money">PKR 95.50</span>
	</a>
	<a class="product-link" href="/products/calpol-syrup">
		<h3 class="product-title">Calpol Syrup</h3>
		<span class="price">₨ 210</span>
	</a>
</div>
</body></html>`

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestExtractProducts_NajeebAnchors(t *testing.T) {
	base := mustURL(t, "https://www.najeebpharmacy.com/collections/all")
	require.Equal(t, SiteNajeeb, DetectSite(base.String()))

	ext := ExtractProducts(parseDoc(t, najeebListing), SiteNajeeb, base)
	assert.Equal(t, "najeeb-anchor-listing", ext.Strategy)
	require.Len(t, ext.Candidates, 5)

	for _, c := range ext.Candidates {
		assert.Greater(t, NormalizePrice(c.PriceText), 0.0, c.Name)
		assert.Equal(t, "najeeb-anchor-listing", c.Strategy)
	}

	assert.Equal(t, "Panadol 500mg", ext.Candidates[0].Name)
	assert.Equal(t, "https://cdn.najeeb.pk/panadol.jpg", ext.Candidates[0].ImageURL)

	assert.Equal(t, "Rs. 300", ext.Candidates[1].PriceText)
	assert.Equal(t, "https://www.najeebpharmacy.com/files/brufen.jpg", ext.Candidates[1].ImageURL)

	assert.Equal(t, "Surbex Z Tablets", ext.Candidates[2].Name)
	assert.Equal(t, 1250.0, NormalizePrice(ext.Candidates[2].PriceText))
	assert.Empty(t, ext.Candidates[2].ImageURL)

	assert.Equal(t, "https://www.najeebpharmacy.com/files/arinac-small.jpg", ext.Candidates[3].ImageURL)
	assert.Equal(t, "PKR 95.50", ext.Candidates[3].PriceText)
}

func TestExtractProducts_PartnerFallsBackToGeneric(t *testing.T) {
	html := `
	<ul class="products">
		<li class="product">
			<img src="https://cdn.example.com/a.jpg">
			<h2 class="woocommerce-loop-product__title">Ponstan Forte</h2>
			<span class="price"><span class="amount">Rs. 180</span></span>
		</li>
	</ul>`

	ext := ExtractProducts(parseDoc(t, html), SiteDvago, mustURL(t, "https://www.dvago.pk/"))
	assert.Equal(t, "woocommerce", ext.Strategy)
	require.Len(t, ext.Candidates, 1)
	assert.Equal(t, "Ponstan Forte", ext.Candidates[0].Name)
	assert.Equal(t, "Rs. 180", ext.Candidates[0].PriceText)
}

func TestExtractGeneric_ClassHeuristic(t *testing.T) {
	html := `
	<div class="product-grid">
		<div class="product-tile"><h4>Surbex Z</h4><span>Rs. 650</span><img data-src="/img/surbex.jpg"></div>
		<div class="product-tile"><h4>Arinac Forte</h4><span>PKR 1,250</span></div>
		<div class="product-tile"><a href="/all">All</a><span>Rs. 5</span></div>
		<div class="product-tile"><h4>No Price Here</h4></div>
	</div>`

	ext := ExtractGeneric(parseDoc(t, html), mustURL(t, "https://shop.example.com/catalog"))
	assert.Equal(t, "class-contains:product", ext.Strategy)
	require.Len(t, ext.Candidates, 2)

	assert.Equal(t, "Surbex Z", ext.Candidates[0].Name)
	assert.Equal(t, "Rs. 650", ext.Candidates[0].PriceText)
	assert.Equal(t, "https://shop.example.com/img/surbex.jpg", ext.Candidates[0].ImageURL)

	assert.Equal(t, "Arinac Forte", ext.Candidates[1].Name)
	assert.Equal(t, 1250.0, NormalizePrice(ext.Candidates[1].PriceText))
}

func TestExtractGeneric_IgnoresPartnerStrategies(t *testing.T) {
	// najeeb markup does not match any generic platform strategy, so the
	// heuristic has to find it by class
	ext := ExtractGeneric(parseDoc(t, najeebListing), mustURL(t, "https://www.najeebpharmacy.com/"))
	assert.Equal(t, "class-contains:product", ext.Strategy)
	assert.Len(t, ext.Candidates, 5)
}

func TestExtractProducts_Empty(t *testing.T) {
	ext := ExtractProducts(parseDoc(t, ""), SiteNajeeb, mustURL(t, "https://www.najeebpharmacy.com/"))
	assert.Empty(t, ext.Candidates)
	assert.Empty(t, ext.Strategy)

	ext = ExtractGeneric(parseDoc(t, "<html><body><p>Nothing to see</p></body></html>"), nil)
	assert.Empty(t, ext.Candidates)
}

func TestExtractBrands(t *testing.T) {
	html := `
	<div class="brands">
		<a href="/brands/gsk" title="GSK"><img src="/logos/gsk.png"></a>
		<a href="/brands/abbott"><img src="/logos/abbott.png" alt="Abbott"></a>
		<a href="/brands/getz">Getz Pharma</a>
		<a href="/brands/">Brands</a>
		<a href="/brands/x">X</a>
	</div>`

	ext := ExtractBrands(parseDoc(t, html), SiteGeneric, mustURL(t, "https://shop.example.com/brands"))
	assert.Equal(t, "brand-links", ext.Strategy)
	require.Len(t, ext.Candidates, 3)

	assert.Equal(t, "GSK", ext.Candidates[0].Name)
	assert.Equal(t, "https://shop.example.com/logos/gsk.png", ext.Candidates[0].ImageURL)
	assert.Equal(t, "Abbott", ext.Candidates[1].Name)
	assert.Equal(t, "Getz Pharma", ext.Candidates[2].Name)
	assert.Empty(t, ext.Candidates[2].ImageURL)

	for _, c := range ext.Candidates {
		assert.Empty(t, c.PriceText)
	}
}

func TestExtractBrands_SehatManufacturers(t *testing.T) {
	html := `
	<div id="content">
		<a href="index.php?route=product/manufacturer.info&amp;manufacturer_id=11">Searle</a>
		<a href="index.php?route=product/manufacturer.info&amp;manufacturer_id=12">Hilton Pharma</a>
	</div>`

	ext := ExtractBrands(parseDoc(t, html), SiteSehat, mustURL(t, "https://sehat.com.pk/index.php?route=product/manufacturer"))
	assert.Equal(t, "sehat-manufacturer-links", ext.Strategy)
	require.Len(t, ext.Candidates, 2)
	assert.Equal(t, "Searle", ext.Candidates[0].Name)
	assert.Equal(t, "Hilton Pharma", ext.Candidates[1].Name)
}

func TestExtractBrands_ClassHeuristic(t *testing.T) {
	html := `
	<div class="brand-wall">
		<div class="brand-logo"><img src="/l/nestle.png" alt="Nestle"></div>
		<div class="brand-logo"><h5>Reckitt</h5></div>
	</div>`

	ext := ExtractBrands(parseDoc(t, html), SiteGeneric, mustURL(t, "https://shop.example.com/"))
	assert.Equal(t, "class-contains:brand", ext.Strategy)
	require.Len(t, ext.Candidates, 2)
	assert.Equal(t, "Nestle", ext.Candidates[0].Name)
	assert.Equal(t, "https://shop.example.com/l/nestle.png", ext.Candidates[0].ImageURL)
	assert.Equal(t, "Reckitt", ext.Candidates[1].Name)
}

func TestAcceptableName(t *testing.T) {
	assert.True(t, acceptableName("ORS"))
	assert.False(t, acceptableName("Zn"))
	assert.False(t, acceptableName(""))
	assert.False(t, acceptableName("All"))
	assert.False(t, acceptableName("VIEW ALL"))
	assert.False(t, acceptableName("Add to Cart"))
}

func TestContainerText(t *testing.T) {
	doc := parseDoc(t, `<div id="c"><h4>Surbex Z</h4><span>Rs.&nbsp;650</span><script>var x = "Rs. 1";</script></div>`)
	assert.Equal(t, "Surbex Z Rs. 650", containerText(doc.Find("#c")))
}

func TestResolveURL(t *testing.T) {
	base := mustURL(t, "https://www.dvago.pk/cat/medicine")
	assert.Equal(t, "https://cdn.dvago.pk/a.jpg", resolveURL(base, "//cdn.dvago.pk/a.jpg"))
	assert.Equal(t, "https://www.dvago.pk/img/a.jpg", resolveURL(base, "/img/a.jpg"))
	assert.Equal(t, "https://www.dvago.pk/cat/a.jpg", resolveURL(base, "a.jpg"))
	assert.Equal(t, "https://other.example.com/a.jpg", resolveURL(base, "https://other.example.com/a.jpg"))
	assert.Equal(t, "/img/a.jpg", resolveURL(nil, "/img/a.jpg"))
}
