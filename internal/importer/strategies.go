package importer

// Strategy is one extraction rule for a listing page. Field selectors are
// tried in order until one yields a value. An empty selector targets the
// container itself; a "selector@attr" form reads the attribute instead of
// the text (so "@title" is the container's own title attribute).
type Strategy struct {
	Name      string
	Container string
	Title     []string
	Price     []string
	Image     []string
}

// heuristicStrategy names the class-contains fallback in logs and candidates
const heuristicStrategy = "class-contains"

var productStrategies = map[SiteKind][]Strategy{
	SiteNajeeb: {
		{
			// Collection grid where the whole card is one anchor
			Name:      "najeeb-anchor-listing",
			Container: "a.product-link[href*='/products/'], a.grid-product__link[href*='/products/']",
			Title:     []string{"@title", ".product-title", ".grid-product__title", "h3", "h2", ""},
			Price:     []string{".price-item--sale", ".product-price", ".grid-product__price", ".price", ".money"},
			Image:     []string{"img"},
		},
		{
			Name:      "najeeb-product-card",
			Container: "div.product-card, div.product-item, div.grid-product",
			Title:     []string{".product-card__title", ".product-item__title", ".grid-product__title", "h3 a", "h3", "a@title"},
			Price:     []string{".price-item--sale", ".price-item--regular", ".product-price", ".price", ".money"},
			Image:     []string{".product-card__image img", "img"},
		},
		{
			Name:      "najeeb-product-links",
			Container: "a[href*='/products/']",
			Title:     []string{"@title", "h3", "h2", ""},
			Price:     []string{".price", ".money"},
			Image:     []string{"img"},
		},
	},
	SiteDvago: {
		{
			Name:      "dvago-product-card",
			Container: "div[class*='ProductCard_container'], div[class*='productCard'], div.product-card",
			Title:     []string{"[class*='ProductCard_title']", "[class*='productTitle']", "h2", "h3", "a@title"},
			Price:     []string{"[class*='ProductCard_price']", "[class*='productPrice']", ".price"},
			Image:     []string{"img"},
		},
		{
			Name:      "dvago-anchor-listing",
			Container: "a[href*='/p/']",
			Title:     []string{"@title", "h2", "h3", "p", ""},
			Price:     []string{"[class*='price']"},
			Image:     []string{"img"},
		},
	},
	SiteSehat: {
		{
			// OpenCart product thumbs
			Name:      "sehat-product-thumb",
			Container: "div.product-thumb, div.product-layout",
			Title:     []string{".caption h4 a", ".name a", "h4 a", "h4"},
			Price:     []string{".price-new", ".price"},
			Image:     []string{".image img", "img"},
		},
		{
			// WooCommerce loop items
			Name:      "sehat-woocommerce",
			Container: "li.product, div.product.type-product",
			Title:     []string{".woocommerce-loop-product__title", "h2", "h3"},
			Price:     []string{".price ins .amount", ".price .amount", ".price"},
			Image:     []string{"img"},
		},
	},
	SiteGeneric: genericProductStrategies,
}

// genericProductStrategies cover common storefront platforms before the
// class-contains heuristic is applied.
var genericProductStrategies = []Strategy{
	{
		Name:      "woocommerce",
		Container: "li.product, div.product.type-product",
		Title:     []string{".woocommerce-loop-product__title", "h2", "h3"},
		Price:     []string{".price ins .amount", ".price .amount", ".price"},
		Image:     []string{"img"},
	},
	{
		Name:      "shopify-card",
		Container: "div.product-card, div.card-wrapper, div.grid-product",
		Title:     []string{".card__heading a", ".card__heading", ".product-card__title", ".grid-product__title", "h3"},
		Price:     []string{".price-item--sale", ".price-item--regular", ".price", ".money"},
		Image:     []string{"img"},
	},
	{
		Name:      "opencart-thumb",
		Container: "div.product-thumb",
		Title:     []string{".caption h4 a", "h4 a", "h4"},
		Price:     []string{".price-new", ".price"},
		Image:     []string{".image img", "img"},
	},
}

var brandStrategies = map[SiteKind][]Strategy{
	SiteNajeeb: {
		{
			Name:      "najeeb-brand-tile",
			Container: "div.brand-item, li.brand-item, div.logo-bar__item",
			Title:     []string{".brand-name", "a@title", "img@alt", ""},
			Image:     []string{"img"},
		},
		{
			Name:      "najeeb-vendor-links",
			Container: "a[href*='/collections/vendors'], a[href*='/brands/']",
			Title:     []string{"@title", "", "img@alt"},
			Image:     []string{"img"},
		},
	},
	SiteDvago: {
		{
			Name:      "dvago-brand-card",
			Container: "div[class*='BrandCard'], div[class*='brandCard']",
			Title:     []string{"[class*='title']", "[class*='name']", "img@alt", ""},
			Image:     []string{"img"},
		},
		{
			Name:      "dvago-brand-links",
			Container: "a[href*='/brand/']",
			Title:     []string{"@title", "", "img@alt"},
			Image:     []string{"img"},
		},
	},
	SiteSehat: {
		{
			// OpenCart manufacturer index
			Name:      "sehat-manufacturer-links",
			Container: "a[href*='manufacturer_id']",
			Title:     []string{"@title", "", "img@alt"},
			Image:     []string{"img"},
		},
		{
			Name:      "sehat-brand-list",
			Container: ".brand-list li, .brands-list li",
			Title:     []string{"a@title", "a", "img@alt", ""},
			Image:     []string{"img"},
		},
	},
	SiteGeneric: {
		{
			Name:      "brand-links",
			Container: "a[href*='/brands/'], a[href*='/brand/']",
			Title:     []string{"@title", "", "img@alt"},
			Image:     []string{"img"},
		},
	},
}

// disallowedNames are navigation labels that look like names in listings
var disallowedNames = map[string]bool{
	"all":         true,
	"view all":    true,
	"shop all":    true,
	"see all":     true,
	"more":        true,
	"load more":   true,
	"add to cart": true,
	"brands":      true,
	"products":    true,
}

// minNameLength is the shortest accepted candidate name, in runes
const minNameLength = 3
