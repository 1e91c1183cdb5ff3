package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vacancy-scraper/internal/logging"
	"github.com/vacancy-scraper/internal/models"
	"github.com/vacancy-scraper/internal/utils"
)

// Outcome classifies how a run ended.
type Outcome int

const (
	OutcomeCompleted Outcome = iota
	OutcomeTransportFailure
	OutcomeStructureFailure
	OutcomeUnexpectedFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeTransportFailure:
		return "transport failure"
	case OutcomeStructureFailure:
		return "structure failure"
	default:
		return "unexpected failure"
	}
}

// RunResult is everything a run produced. Vacancies holds the matches collected
// before Err stopped the run, if it did.
type RunResult struct {
	Vacancies    []models.Vacancy
	PagesVisited int
	Err          error
}

func (r RunResult) Outcome() Outcome {
	if r.Err == nil {
		return OutcomeCompleted
	}

	var reqErr *utils.RequestError
	switch {
	case errors.As(r.Err, &reqErr):
		return OutcomeTransportFailure
	case errors.Is(r.Err, ErrResultsContainerMissing):
		return OutcomeStructureFailure
	default:
		return OutcomeUnexpectedFailure
	}
}

// VacancyPipeline walks the search result pages one at a time and keeps
// the vacancies whose description mentions one of the keywords.
type VacancyPipeline struct {
	scraperService *Scraper
	query          models.SearchQuery
	maxPages       int
	keywords       []string
	log            *logging.Logger
}

// NewVacancyPipeline creates a new vacancy processing pipeline
func NewVacancyPipeline(scraperService *Scraper, query models.SearchQuery, maxPages int, keywords []string, log *logging.Logger) *VacancyPipeline {
	if log == nil {
		log = logging.Nop()
	}

	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			lowered = append(lowered, k)
		}
	}

	return &VacancyPipeline{
		scraperService: scraperService,
		query:          query,
		maxPages:       maxPages,
		keywords:       lowered,
		log:            log,
	}
}

// Run never returns an error directly: failures, including panics, end up in RunResult.Err.
func (p *VacancyPipeline) Run(ctx context.Context) (result RunResult) {
	result.Vacancies = make([]models.Vacancy, 0, 20)

	defer func() {
		if r := recover(); r != nil {
			result.Err = fmt.Errorf("panic during scraping: %v", r)
		}
	}()

	for page := 0; page < p.maxPages; page++ {
		log := p.log.With("page", page)

		searchPage, err := p.scraperService.ScrapeSearchPage(ctx, p.query, page)
		if err != nil {
			result.Err = fmt.Errorf("error scraping page %d: %w", page, err)
			return result
		}
		result.PagesVisited++
		log.Info("fetched search page", "cards", len(searchPage.Vacancies), "has_next", searchPage.HasNextPage)

		for _, vacancy := range searchPage.Vacancies {
			matched, err := p.processVacancy(ctx, &vacancy, log)
			if err != nil {
				result.Err = fmt.Errorf("error scraping vacancy on page %d: %w", page, err)
				return result
			}
			if matched {
				result.Vacancies = append(result.Vacancies, vacancy)
			}
		}

		if !searchPage.HasNextPage {
			log.Info("no next page, stopping")
			break
		}
	}

	return result
}

// processVacancy fills in the description and reports whether the vacancy passes the keyword filter.
func (p *VacancyPipeline) processVacancy(ctx context.Context, vacancy *models.Vacancy, log *logging.Logger) (bool, error) {
	*vacancy = normalizeVacancy(*vacancy)

	if vacancy.Link == nil {
		log.Warn("vacancy has no link, skipping description", "name", deref(vacancy.Name))
		return false, nil
	}

	description, err := p.scraperService.ScrapeVacancyDescription(ctx, *vacancy.Link)
	if err != nil {
		return false, err
	}
	vacancy.Description = description
	*vacancy = normalizeVacancy(*vacancy)

	matched := matchesKeywords(vacancy.Description, p.keywords)
	log.Debug("filtered vacancy", "link", *vacancy.Link, "matched", matched)
	return matched, nil
}

func normalizeVacancy(v models.Vacancy) models.Vacancy {
	return models.Vacancy{
		Name:        utils.NormalizeTextPtr(v.Name),
		Link:        utils.NormalizeTextPtr(v.Link),
		Salary:      utils.NormalizeTextPtr(v.Salary),
		Company:     utils.NormalizeTextPtr(v.Company),
		City:        utils.NormalizeTextPtr(v.City),
		Description: utils.NormalizeTextPtr(v.Description),
	}
}

// matchesKeywords expects lower-cased keywords. A nil description never matches.
func matchesKeywords(description *string, keywords []string) bool {
	if description == nil {
		return false
	}
	text := strings.ToLower(*description)
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
