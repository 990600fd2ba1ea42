package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"sjsage522/pharmaimport/helpers"
	"sjsage522/pharmaimport/internal/catalog"
	"sjsage522/pharmaimport/logger"
	importerrors "sjsage522/pharmaimport/pkg/errors"
	"sjsage522/pharmaimport/services/cache"
	"sjsage522/pharmaimport/services/publisher"
)

const (
	// DefaultFetchTimeout bounds the single page fetch of a run
	DefaultFetchTimeout = 30 * time.Second

	defaultMaxRecords = 50
	maxRecordsLimit   = 200
)

// Config holds the importer's collaborators and limits. Zero values fall
// back to defaults; nil Blocklist and Publisher disable those features.
type Config struct {
	HTTPClient         *http.Client
	FetchTimeout       time.Duration
	FetchRatePerSecond float64
	Blocklist          *cache.PartnerBlocklist
	Publisher          publisher.Publisher
	DefaultCategory    string
	DefaultMaxRecords  int
	MaxRecordsLimit    int
}

// Importer runs partner-site imports into a catalog store. Runs are
// sequential internally; separate runs may execute concurrently.
type Importer struct {
	store      catalog.Store
	client     *http.Client
	limiter    *rate.Limiter
	blocklist  *cache.PartnerBlocklist
	publisher  publisher.Publisher
	classifier *Classifier
	defaultMax int
	maxLimit   int
}

// New creates an importer persisting into store
func New(store catalog.Store, cfg Config) *Importer {
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.FetchTimeout
		if timeout <= 0 {
			timeout = DefaultFetchTimeout
		}
		client = helpers.NewHTTPClient(timeout)
	}

	var limiter *rate.Limiter
	if cfg.FetchRatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.FetchRatePerSecond), 1)
	}

	maxLimit := cfg.MaxRecordsLimit
	if maxLimit <= 0 {
		maxLimit = maxRecordsLimit
	}
	defaultMax := cfg.DefaultMaxRecords
	if defaultMax <= 0 || defaultMax > maxLimit {
		defaultMax = min(defaultMaxRecords, maxLimit)
	}

	return &Importer{
		store:      store,
		client:     client,
		limiter:    limiter,
		blocklist:  cfg.Blocklist,
		publisher:  cfg.Publisher,
		classifier: NewClassifier(cfg.DefaultCategory),
		defaultMax: defaultMax,
		maxLimit:   maxLimit,
	}
}

// ImportProducts imports products using the strategies of the partner
// detected from the URL's hostname. The result carries the partner as source.
func (i *Importer) ImportProducts(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	return i.importProducts(ctx, req, false)
}

// ImportGeneric imports products from any storefront with the generic cascade
func (i *Importer) ImportGeneric(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	return i.importProducts(ctx, req, true)
}

func (i *Importer) importProducts(ctx context.Context, req ImportRequest, generic bool) (*ImportResult, error) {
	started := time.Now()

	target, maxRecords, err := i.parseRequest(req, i.defaultMax)
	if err != nil {
		return nil, err
	}

	kind := SiteGeneric
	if !generic {
		kind = DetectSite(target.String())
	}
	source := kind.String()
	log := logger.ForImporter(source).WithField("url", target.String())

	doc, err := i.fetchDocument(ctx, target, source, log)
	if err != nil {
		log.Error().Err(err).Msg("Product import aborted")
		return nil, err
	}

	var extraction Extraction
	if generic {
		extraction = ExtractGeneric(doc, target)
	} else {
		extraction = ExtractProducts(doc, kind, target)
	}
	log.Debug().
		Str("strategy", extraction.Strategy).
		Int("candidates", len(extraction.Candidates)).
		Msg("Extraction finished")

	if len(extraction.Candidates) == 0 {
		result := &ImportResult{
			Message: "No products found on the page. The site structure may have changed.",
		}
		if !generic {
			result.Source = source
		}
		log.Warn().Msg("No product candidates found")
		i.publish(ctx, "products", target, result)
		return result, nil
	}
	candidates := truncate(extraction.Candidates, maxRecords)

	existing, err := i.store.GetProducts(ctx)
	if err != nil {
		return nil, importerrors.NewStore(source, "failed to load existing products", err)
	}
	names := make([]string, len(existing))
	for idx, p := range existing {
		names[idx] = p.Name
	}

	reporter := &Reporter{}
	dedup := NewDeduplicator(names)
	duplicates := markIntraRunDuplicates(candidates)
	categories := newCategoryResolver(i.store, log)
	description := "Imported from " + target.Hostname()

	for idx, c := range candidates {
		price := NormalizePrice(c.PriceText)

		switch {
		case duplicates[idx]:
			reporter.Skipped(c.Name, price, c.ImageURL, "Duplicate of an earlier item on the page")
		case price <= 0:
			reporter.Failed(c.Name, 0, c.ImageURL, "Invalid price")
		case dedup.Admit(c.Name) == DecisionSkipDuplicate:
			reporter.Skipped(c.Name, price, c.ImageURL, "Product already exists")
		default:
			product := catalog.Product{
				Name:        c.Name,
				Slug:        catalog.SlugFor(c.Name),
				Description: description,
				Price:       price,
				Images:      imageList(c.ImageURL),
				CategoryID:  categories.resolve(ctx, i.classifier.Classify(c.Name)),
				Stock:       catalog.DefaultStock,
				IsActive:    true,
				IsFeatured:  false,
			}
			if _, err := i.store.CreateProduct(ctx, product); err != nil {
				log.Warn().Err(err).Str("product", c.Name).Msg("Failed to create product")
				reporter.Failed(c.Name, price, c.ImageURL, err.Error())
				continue
			}
			reporter.Success(c.Name, price, c.ImageURL)
		}
	}

	result := reporter.Result()
	result.Products = reporter.Items()
	if !generic {
		result.Source = source
	}
	result.Message = fmt.Sprintf("Imported %d products, skipped %d, failed %d", result.Imported, result.Skipped, result.Failed)

	log.Info().
		Str("strategy", extraction.Strategy).
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Dur("elapsed", time.Since(started)).
		Msg("Product import finished")

	i.publish(ctx, "products", target, &result)
	return &result, nil
}

// ImportBrands imports brands from a partner brand listing. With
// DeleteExisting every catalog brand is removed first, but only once the
// page has yielded at least one candidate.
func (i *Importer) ImportBrands(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	started := time.Now()

	// brand runs are capped by the configured limit only
	req.MaxRecords = 0
	target, maxRecords, err := i.parseRequest(req, i.maxLimit)
	if err != nil {
		return nil, err
	}

	kind := DetectSite(target.String())
	source := kind.String()
	log := logger.ForImporter(source).WithField("url", target.String())

	doc, err := i.fetchDocument(ctx, target, source, log)
	if err != nil {
		log.Error().Err(err).Msg("Brand import aborted")
		return nil, err
	}

	extraction := ExtractBrands(doc, kind, target)
	log.Debug().
		Str("strategy", extraction.Strategy).
		Int("candidates", len(extraction.Candidates)).
		Msg("Extraction finished")

	if len(extraction.Candidates) == 0 {
		result := &ImportResult{
			Message: "No brands found on the page. The site structure may have changed.",
		}
		log.Warn().Msg("No brand candidates found")
		i.publish(ctx, "brands", target, result)
		return result, nil
	}
	candidates := truncate(extraction.Candidates, maxRecords)

	if req.DeleteExisting {
		deleted, err := i.deleteAllBrands(ctx)
		if err != nil {
			return nil, importerrors.NewStore(source, "failed to delete existing brands", err)
		}
		log.Info().Int("deleted", deleted).Msg("Deleted existing brands")
	}

	existing, err := i.store.GetBrands(ctx)
	if err != nil {
		return nil, importerrors.NewStore(source, "failed to load existing brands", err)
	}
	names := make([]string, len(existing))
	for idx, b := range existing {
		names[idx] = b.Name
	}

	reporter := &Reporter{}
	dedup := NewDeduplicator(names)
	duplicates := markIntraRunDuplicates(candidates)

	for idx, c := range candidates {
		switch {
		case duplicates[idx]:
			reporter.Skipped(c.Name, 0, c.ImageURL, "Duplicate of an earlier item on the page")
		case dedup.Admit(c.Name) == DecisionSkipDuplicate:
			reporter.Skipped(c.Name, 0, c.ImageURL, "Brand already exists")
		default:
			brand := catalog.Brand{
				Name:        c.Name,
				Slug:        catalog.SlugFor(c.Name),
				Logo:        c.ImageURL,
				Description: c.Name + " products, imported from " + target.Hostname(),
			}
			if _, err := i.store.CreateBrand(ctx, brand); err != nil {
				log.Warn().Err(err).Str("brand", c.Name).Msg("Failed to create brand")
				reporter.Failed(c.Name, 0, c.ImageURL, err.Error())
				continue
			}
			reporter.Success(c.Name, 0, c.ImageURL)
		}
	}

	result := reporter.Result()
	result.Brands = reporter.Items()
	result.Message = fmt.Sprintf("Imported %d brands, skipped %d, failed %d", result.Imported, result.Skipped, result.Failed)

	log.Info().
		Str("strategy", extraction.Strategy).
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Dur("elapsed", time.Since(started)).
		Msg("Brand import finished")

	i.publish(ctx, "brands", target, &result)
	return &result, nil
}

// parseRequest validates the URL and clamps the record limit
func (i *Importer) parseRequest(req ImportRequest, fallbackMax int) (*url.URL, int, error) {
	raw := strings.TrimSpace(req.URL)
	if raw == "" {
		return nil, 0, importerrors.NewValidation("", "URL is required")
	}

	target, err := url.Parse(raw)
	if err != nil || !target.IsAbs() || target.Hostname() == "" ||
		(target.Scheme != "http" && target.Scheme != "https") {
		return nil, 0, importerrors.NewValidation("", fmt.Sprintf("invalid URL %q", raw))
	}

	maxRecords := req.MaxRecords
	switch {
	case maxRecords == 0:
		maxRecords = fallbackMax
	case maxRecords < 1:
		maxRecords = 1
	case maxRecords > i.maxLimit:
		maxRecords = i.maxLimit
	}
	return target, maxRecords, nil
}

func (i *Importer) deleteAllBrands(ctx context.Context) (int, error) {
	brands, err := i.store.GetBrands(ctx)
	if err != nil {
		return 0, err
	}
	for n, b := range brands {
		if err := i.store.DeleteBrand(ctx, b.ID); err != nil && !errors.Is(err, catalog.ErrNotFound) {
			return n, fmt.Errorf("deleting brand %q: %w", b.Name, err)
		}
	}
	return len(brands), nil
}

// reportEnvelope is the message published for every finished run
type reportEnvelope struct {
	URL        string        `json:"url"`
	FinishedAt time.Time     `json:"finishedAt"`
	Result     *ImportResult `json:"result"`
}

func (i *Importer) publish(ctx context.Context, kind string, target *url.URL, result *ImportResult) {
	if i.publisher == nil {
		return
	}
	log := logger.ForPublisher().WithFields(logger.Fields{"kind": kind, "url": target.String()})

	data, err := json.Marshal(reportEnvelope{
		URL:        target.String(),
		FinishedAt: time.Now().UTC(),
		Result:     result,
	})
	if err != nil {
		log.WithError(err).Warn().Msg("Failed to encode import report")
		return
	}
	if err := i.publisher.Publish(ctx, kind, data); err != nil {
		log.WithError(err).Warn().Msg("Failed to publish import report")
		return
	}
	log.Debug().Int("bytes", len(data)).Msg("Import report published")
}

// categoryResolver memoizes slug -> category ID lookups for one run. A slug
// missing from the catalog resolves to "" (uncategorized).
type categoryResolver struct {
	store catalog.Store
	ids   map[string]string
	log   *logger.Logger
}

func newCategoryResolver(store catalog.Store, log *logger.Logger) *categoryResolver {
	return &categoryResolver{store: store, ids: make(map[string]string), log: log}
}

func (r *categoryResolver) resolve(ctx context.Context, slug string) string {
	if slug == "" {
		return ""
	}
	if id, ok := r.ids[slug]; ok {
		return id
	}

	category, err := r.store.GetCategoryBySlug(ctx, slug)
	switch {
	case err == nil:
		r.ids[slug] = category.ID
	case errors.Is(err, catalog.ErrNotFound):
		r.ids[slug] = ""
	default:
		r.log.Warn().Err(err).Str("category", slug).Msg("Category lookup failed, leaving product uncategorized")
		return ""
	}
	return r.ids[slug]
}

func truncate(candidates []RawCandidate, limit int) []RawCandidate {
	if len(candidates) > limit {
		return candidates[:limit]
	}
	return candidates
}

func imageList(image string) []string {
	if image == "" {
		return []string{}
	}
	return []string{image}
}
