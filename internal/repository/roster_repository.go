package repository

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/evergreen-hs/hallpass-api/internal/models"
)

// ErrNotFound is returned by lookups that find no matching record.
var ErrNotFound = errors.New("not found")

// RosterRepository serves the student masterlist. The CSV is read once at
// construction; lookups afterwards are immutable map reads and need no
// locking.
type RosterRepository struct {
	byID  map[int64]models.Student
	order []int64
}

// NewRosterRepository loads the masterlist CSV (columns ID, Name, Period).
func NewRosterRepository(path string) (*RosterRepository, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roster %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	return loadRoster(f)
}

func loadRoster(r io.Reader) (*RosterRepository, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read roster header: %w", err)
	}
	col := map[string]int{}
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"id", "name", "period"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("roster is missing column %q", required)
		}
	}

	repo := &RosterRepository{byID: make(map[int64]models.Student)}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read roster line %d: %w", line, err)
		}
		id, err := strconv.ParseInt(strings.TrimSpace(record[col["id"]]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("roster line %d: invalid id %q", line, record[col["id"]])
		}
		period, err := models.ParsePeriod(record[col["period"]])
		if err != nil {
			return nil, fmt.Errorf("roster line %d: %w", line, err)
		}
		if _, dup := repo.byID[id]; dup {
			return nil, fmt.Errorf("roster line %d: duplicate id %d", line, id)
		}
		repo.byID[id] = models.Student{
			ID:     id,
			Name:   strings.TrimSpace(record[col["name"]]),
			Period: period,
		}
		repo.order = append(repo.order, id)
	}
	sort.Slice(repo.order, func(i, j int) bool { return repo.order[i] < repo.order[j] })

	return repo, nil
}

// Lookup finds a student by exact id.
func (r *RosterRepository) Lookup(id int64) (*models.Student, error) {
	student, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &student, nil
}

// All returns every student in ascending id order.
func (r *RosterRepository) All() []models.Student {
	students := make([]models.Student, 0, len(r.order))
	for _, id := range r.order {
		students = append(students, r.byID[id])
	}
	return students
}

// Size reports roster cardinality, logged at startup.
func (r *RosterRepository) Size() int {
	return len(r.byID)
}
