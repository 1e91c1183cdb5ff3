package pipeline

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vacancy-scraper/internal/logging"
	"github.com/vacancy-scraper/internal/models"
)

type fixtureCard struct {
	Name, Link, Salary, Company, City string
	NoLink                            bool
}

func cardHTML(c fixtureCard) string {
	var b strings.Builder
	b.WriteString(`<div class="serp-item">`)
	b.WriteString(`<h3><span class="serp-item__title">` + c.Name + `</span></h3>`)
	if !c.NoLink {
		b.WriteString(`<a class="bloko-link" href="` + c.Link + `">open</a>`)
	}
	b.WriteString(`<span class="bloko-header-section-2">` + c.Salary + `</span>`)
	b.WriteString(`<a data-qa="vacancy-serp__vacancy-employer" href="/employer/1">` + c.Company + `</a>`)
	b.WriteString(`<div data-qa="vacancy-serp__vacancy-address">` + c.City + `</div>`)
	b.WriteString(`</div>`)
	return b.String()
}

func searchPageHTML(cards []fixtureCard, hasNext bool) string {
	var b strings.Builder
	b.WriteString(`<html><body><div id="a11y-main-content">`)
	for _, c := range cards {
		b.WriteString(cardHTML(c))
	}
	b.WriteString(`</div>`)
	if hasNext {
		b.WriteString(`<a data-qa="pager-next" href="?page=next">дальше</a>`)
	}
	b.WriteString(`</body></html>`)
	return b.String()
}

func vacancyPageHTML(description string) string {
	return `<html><body><div data-qa="vacancy-description">` + description + `</div></body></html>`
}

// hhServer imitates the search and vacancy pages of hh.ru.
type hhServer struct {
	*httptest.Server

	mu            sync.Mutex
	pages         map[int]string // page index -> HTML
	searchStatus  int
	vacancies     map[string]string // path -> HTML
	searchHits    []int
	vacancyHits   []string
	lastSearchURL string
}

func newHHServer(t *testing.T) *hhServer {
	t.Helper()
	s := &hhServer{
		pages:     map[int]string{},
		vacancies: map[string]string{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/search/vacancy", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		s.searchHits = append(s.searchHits, page)
		s.lastSearchURL = r.URL.String()

		if s.searchStatus != 0 {
			w.WriteHeader(s.searchStatus)
			return
		}
		html, ok := s.pages[page]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, html)
	})
	mux.HandleFunc("/vacancy/", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.vacancyHits = append(s.vacancyHits, r.URL.Path)
		html, ok := s.vacancies[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, html)
	})

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func (s *hhServer) searchPages() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.searchHits...)
}

func (s *hhServer) vacancyPaths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.vacancyHits...)
}

func newTestScraper(t *testing.T, baseURL string) *Scraper {
	t.Helper()
	s, err := NewScraper(Config{BaseURL: baseURL}, nil, logging.Nop())
	require.NoError(t, err)
	return s
}

func newTestPipeline(t *testing.T, baseURL string, maxPages int) *VacancyPipeline {
	t.Helper()
	query := models.SearchQuery{
		Areas:        []string{"1", "2"},
		Text:         "python",
		SearchPeriod: 1,
		OrderBy:      "publication_time",
	}
	return NewVacancyPipeline(newTestScraper(t, baseURL), query, maxPages, []string{"django", "flask"}, logging.Nop())
}

func strPtr(s string) *string {
	return &s
}
