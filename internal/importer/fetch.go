package importer

import (
	"context"
	"errors"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"sjsage522/pharmaimport/helpers"
	"sjsage522/pharmaimport/logger"
	importerrors "sjsage522/pharmaimport/pkg/errors"
)

// fetchDocument downloads and parses target. A partner host that answered
// with a rate-limit status stays blocked for the blocklist's block time.
func (i *Importer) fetchDocument(ctx context.Context, target *url.URL, source string, log *logger.Logger) (*goquery.Document, error) {
	host := target.Hostname()

	if i.blocklist != nil {
		blocked, err := i.blocklist.Blocked(host)
		if err != nil {
			log.Warn().Err(err).Str("host", host).Msg("Partner blocklist unavailable, fetching anyway")
		}
		if blocked {
			return nil, importerrors.NewRateLimit(source, i.blocklist.BlockTime())
		}
	}

	if i.limiter != nil {
		if err := i.limiter.Wait(ctx); err != nil {
			return nil, importerrors.NewNetwork(source, "waiting for fetch slot", err)
		}
	}

	body, err := helpers.FetchWithBrowserHeaders(ctx, i.client, target.String())
	if err != nil {
		if errors.Is(err, helpers.ErrRateLimited) {
			if i.blocklist != nil {
				if blockErr := i.blocklist.Block(host); blockErr != nil {
					log.Warn().Err(blockErr).Str("host", host).Msg("Failed to record partner block")
				}
			}
			return nil, importerrors.New(importerrors.ErrorTypeRateLimit, source, "partner rate limited the request", err)
		}
		return nil, importerrors.NewNetwork(source, "failed to fetch page", err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, importerrors.NewParsing(source, "failed to parse HTML", err)
	}
	return doc, nil
}
