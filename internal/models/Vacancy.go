package models

// Vacancy is one hh.ru listing. Every field is optional: nil is written as null.
type Vacancy struct {
	Name        *string `json:"name"`
	Link        *string `json:"link"`
	Salary      *string `json:"salary"`
	Company     *string `json:"company"`
	City        *string `json:"city"`
	Description *string `json:"description"` // filled after the detail page fetch
}

type SearchQuery struct {
	Areas        []string `json:"area"`          // hh.ru area IDs (1=Moscow, 2=Saint Petersburg)
	Text         string   `json:"text"`          // search keyword
	SearchPeriod int      `json:"search_period"` // only vacancies published in the last N days
	OrderBy      string   `json:"order_by"`
}
