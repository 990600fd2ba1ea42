package importer

import "strings"

// CategoryRule maps a category slug to the name fragments that select it
type CategoryRule struct {
	Slug     string
	Keywords []string
}

// DefaultCategoryRules are evaluated in order; the first match wins
var DefaultCategoryRules = []CategoryRule{
	{Slug: "baby-care", Keywords: []string{"baby", "infant", "diaper", "nappy", "kids", "feeder"}},
	{Slug: "skin-care", Keywords: []string{"skin", "face", "facial", "cleanser", "moistur", "sunscreen", "sunblock", "serum", "acne", "lotion", "cream"}},
	{Slug: "hair-care", Keywords: []string{"hair", "shampoo", "conditioner", "scalp"}},
	{Slug: "vitamins-supplements", Keywords: []string{"vitamin", "supplement", "multivit", "omega", "calcium", "zinc", "iron", "protein", "probiotic"}},
	{Slug: "medical-devices", Keywords: []string{"thermometer", "glucometer", "glucose meter", "blood pressure", "bp monitor", "nebulizer", "oximeter", "syringe", "test strip"}},
	{Slug: "personal-care", Keywords: []string{"deodorant", "toothpaste", "toothbrush", "mouthwash", "soap", "body wash", "sanitizer", "razor", "wipes"}},
	{Slug: "medicines", Keywords: []string{"tablet", "tab ", "capsule", "syrup", "suspension", "injection", "drops", "ointment", "mg"}},
}

// Classifier assigns a category slug to a product name
type Classifier struct {
	Rules   []CategoryRule
	Default string
}

// NewClassifier returns a classifier over the default rules falling back to defaultSlug
func NewClassifier(defaultSlug string) *Classifier {
	return &Classifier{Rules: DefaultCategoryRules, Default: defaultSlug}
}

// Classify returns the slug of the first rule with a keyword contained in
// name, or the default slug (possibly empty, meaning uncategorized).
func (c *Classifier) Classify(name string) string {
	lower := strings.ToLower(name)
	for _, rule := range c.Rules {
		for _, keyword := range rule.Keywords {
			if keyword != "" && strings.Contains(lower, strings.ToLower(keyword)) {
				return rule.Slug
			}
		}
	}
	return c.Default
}
