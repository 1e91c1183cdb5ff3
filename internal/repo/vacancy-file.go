package repo

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vacancy-scraper/internal/models"
)

type VacancyFileRepository struct {
	path string
}

func NewVacancyFileRepository(path string) *VacancyFileRepository {
	return &VacancyFileRepository{path: path}
}

// SaveVacancies replaces the file with a JSON array of vacancies. The array is
// written to a temp file next to the target and renamed over it, so a previous
// run's output is never appended to or left half-written.
func (r *VacancyFileRepository) SaveVacancies(vacancies []models.Vacancy) error {
	if vacancies == nil {
		vacancies = []models.Vacancy{}
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("error creating temp file for %s: %w", r.path, err)
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	enc := json.NewEncoder(tmp)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(vacancies); err != nil {
		tmp.Close()
		return fmt.Errorf("error encoding vacancies: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error closing temp file: %w", err)
	}

	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("error setting permissions on %s: %w", tmp.Name(), err)
	}

	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("error replacing %s: %w", r.path, err)
	}

	return nil
}

func (r *VacancyFileRepository) GetAllVacancies() ([]models.Vacancy, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", r.path, err)
	}

	var vacancies []models.Vacancy
	if err := json.Unmarshal(data, &vacancies); err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", r.path, err)
	}

	return vacancies, nil
}
