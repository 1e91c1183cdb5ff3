package repo

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/vacancy-scraper/internal/models"
)

// VacancyRepository mirrors a run's matches into Postgres. Every run inserts its
// own rows under a fresh run ID; nothing is merged with earlier runs.
type VacancyRepository struct {
	db *sql.DB
}

func NewVacancyRepository(db *sql.DB) *VacancyRepository {
	return &VacancyRepository{db: db}
}

func (r *VacancyRepository) SaveVacancies(vacancies []models.Vacancy) (uuid.UUID, error) {
	runID := uuid.New()
	if len(vacancies) == 0 {
		return runID, nil
	}

	// Create the value placeholders for all vacancies
	valueStrings := make([]string, 0, len(vacancies))
	vals := make([]interface{}, 0, len(vacancies)*8)
	for i, v := range vacancies {
		n := i * 8
		valueStrings = append(valueStrings, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4, n+5, n+6, n+7, n+8))
		vals = append(vals, runID, i, v.Name, v.Link, v.Salary, v.Company, v.City, v.Description)
	}

	sqlStatement := fmt.Sprintf(`
        INSERT INTO vacancies (run_id, position, name, link, salary, company, city, description)
        VALUES %s
    `, strings.Join(valueStrings, ","))

	_, err := r.db.Exec(sqlStatement, vals...)
	if err != nil {
		return runID, fmt.Errorf("error inserting vacancies: %v", err)
	}

	return runID, nil
}

// GetVacanciesByRunID returns a run's vacancies in the order they were found.
func (r *VacancyRepository) GetVacanciesByRunID(runID uuid.UUID) ([]models.Vacancy, error) {
	rows, err := r.db.Query(`
		SELECT name, link, salary, company, city, description
		FROM vacancies
		WHERE run_id = $1
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("error querying vacancies: %v", err)
	}
	defer rows.Close()

	var vacancies []models.Vacancy
	for rows.Next() {
		var (
			v                                              models.Vacancy
			name, link, salary, company, city, description sql.NullString
		)
		if err := rows.Scan(&name, &link, &salary, &company, &city, &description); err != nil {
			return nil, fmt.Errorf("error scanning vacancy row: %v", err)
		}
		v.Name = nullable(name)
		v.Link = nullable(link)
		v.Salary = nullable(salary)
		v.Company = nullable(company)
		v.City = nullable(city)
		v.Description = nullable(description)
		vacancies = append(vacancies, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over vacancy rows: %v", err)
	}

	return vacancies, nil
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
