package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/vacancy-scraper/internal/logging"
	"github.com/vacancy-scraper/internal/models"
	"github.com/vacancy-scraper/internal/utils"
)

// ErrResultsContainerMissing means the search page no longer has the expected layout.
var ErrResultsContainerMissing = errors.New("search results container not found")

const (
	resultsContainerSelector = "div#a11y-main-content"
	cardSelector             = "div.serp-item"
	nextPageSelector         = `a[data-qa="pager-next"]`
	descriptionSelector      = `div[data-qa="vacancy-description"]`

	titleSelector   = "span.serp-item__title"
	linkSelector    = "a.bloko-link"
	salarySelector  = "span.bloko-header-section-2"
	companySelector = `a[data-qa="vacancy-serp__vacancy-employer"]`
	citySelector    = `div[data-qa="vacancy-serp__vacancy-address"]`
)

type Config struct {
	BaseURL        string        // e.g. "https://spb.hh.ru"
	RequestTimeout time.Duration // Timeout for individual HTTP requests
}

// Fetcher performs one GET. Implementations return *utils.RequestError for non-2xx responses.
type Fetcher interface {
	Get(ctx context.Context, url string) (*http.Response, error)
}

type Scraper struct {
	config  Config
	base    *url.URL
	fetcher Fetcher
	log     *logging.Logger
}

// SearchPage is what one search results page yields.
type SearchPage struct {
	Vacancies   []models.Vacancy // search-page fields only, description is nil
	HasNextPage bool
}

func NewScraper(config Config, headers utils.HeaderProvider, log *logging.Logger) (*Scraper, error) {
	if config.BaseURL == "" {
		config.BaseURL = "https://spb.hh.ru"
	}
	if config.RequestTimeout == 0 {
		config.RequestTimeout = 30 * time.Second
	}

	return NewScraperWithFetcher(config, utils.NewHTTPRequest(config.RequestTimeout, headers), log)
}

func NewScraperWithFetcher(config Config, fetcher Fetcher, log *logging.Logger) (*Scraper, error) {
	base, err := url.Parse(config.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", config.BaseURL)
	}
	if log == nil {
		log = logging.Nop()
	}

	return &Scraper{
		config:  config,
		base:    base,
		fetcher: fetcher,
		log:     log,
	}, nil
}

// ScrapeSearchPage fetches one results page and extracts every card on it.
func (s *Scraper) ScrapeSearchPage(ctx context.Context, query models.SearchQuery, page int) (*SearchPage, error) {
	searchURL := s.buildSearchURL(query, page)

	doc, err := s.fetchDocument(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	container := doc.Find(resultsContainerSelector).First()
	if container.Length() == 0 {
		return nil, fmt.Errorf("page %d: %w", page, ErrResultsContainerMissing)
	}

	result := &SearchPage{
		Vacancies:   make([]models.Vacancy, 0, 20),
		HasNextPage: doc.Find(nextPageSelector).Length() > 0,
	}

	container.Find(cardSelector).Each(func(i int, card *goquery.Selection) {
		result.Vacancies = append(result.Vacancies, parseVacancyCard(card, s.base))
	})

	return result, nil
}

// ScrapeVacancyDescription fetches a vacancy page and returns its description text,
// or nil when the page has no description block or answered with a non-2xx status.
// Transport failures are returned as errors.
func (s *Scraper) ScrapeVacancyDescription(ctx context.Context, link string) (*string, error) {
	doc, err := s.fetchDocument(ctx, link)
	if err != nil {
		var reqErr *utils.RequestError
		if errors.As(err, &reqErr) && reqErr.StatusCode != 0 {
			s.log.Warn("vacancy page returned an error status", "link", link, "status", reqErr.StatusCode)
			return nil, nil
		}
		return nil, err
	}

	return textOrNil(doc.Find(descriptionSelector)), nil
}

func (s *Scraper) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	res, err := s.fetcher.Get(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, &utils.RequestError{URL: pageURL, Cause: fmt.Errorf("failed to read body: %w", err)}
	}
	return doc, nil
}

func (s *Scraper) buildSearchURL(query models.SearchQuery, page int) string {
	params := url.Values{}

	for _, area := range query.Areas {
		params.Add("area", area)
	}
	params.Set("enable_snippets", "true")
	params.Set("order_by", query.OrderBy)
	params.Set("ored_clusters", "true")
	params.Set("text", query.Text)
	params.Set("search_period", strconv.Itoa(query.SearchPeriod))

	// Pagination
	params.Set("page", strconv.Itoa(page))

	return fmt.Sprintf("%s/search/vacancy?%s", strings.TrimRight(s.config.BaseURL, "/"), params.Encode())
}

// parseVacancyCard reads the search-page fields of one result card. A missing
// marker leaves its field nil.
func parseVacancyCard(card *goquery.Selection, base *url.URL) models.Vacancy {
	return models.Vacancy{
		Name:    textOrNil(card.Find(titleSelector)),
		Link:    linkOrNil(card.Find(linkSelector), base),
		Salary:  textOrNil(card.Find(salarySelector)),
		Company: textOrNil(card.Find(companySelector)),
		City:    textOrNil(card.Find(citySelector)),
	}
}

func textOrNil(sel *goquery.Selection) *string {
	if sel.Length() == 0 {
		return nil
	}
	text := strings.TrimSpace(sel.First().Text())
	return &text
}

func linkOrNil(sel *goquery.Selection, base *url.URL) *string {
	href, ok := sel.First().Attr("href")
	if !ok {
		return nil
	}
	href = strings.TrimSpace(href)

	if ref, err := url.Parse(href); err == nil && base != nil {
		href = base.ResolveReference(ref).String()
	}
	return &href
}
