// Package catalog reads task catalogs from YAML and seeds them into the store.
package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"

	"scavenger-hunt-api/internal/models"
	"scavenger-hunt-api/internal/rules"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultCatalog []byte

// ErrInvalid is returned for catalogs that cannot be played.
var ErrInvalid = errors.New("invalid catalog")

type file struct {
	Tasks []entry `yaml:"tasks"`
}

// entry is one task as written in a catalog file. Validation is either the
// structured form or a compact rule string ("text:equals:13").
type entry struct {
	ID          string            `yaml:"id"`
	Title       string            `yaml:"title"`
	Description string            `yaml:"description"`
	Order       int               `yaml:"order"`
	Points      int               `yaml:"points"`
	Active      *bool             `yaml:"active"`
	Rule        string            `yaml:"rule"`
	Validation  *rules.Validation `yaml:"validation"`
}

// Parse decodes and checks a catalog.
func Parse(r io.Reader) ([]models.Task, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f file
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	tasks := make([]models.Task, 0, len(f.Tasks))
	ids := make(map[string]bool)
	orders := make(map[int]string)
	for i, e := range f.Tasks {
		task, err := e.task()
		if err != nil {
			return nil, fmt.Errorf("%w: task #%d: %v", ErrInvalid, i+1, err)
		}
		if ids[task.ID] {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalid, task.ID)
		}
		ids[task.ID] = true
		if task.Active {
			if other, taken := orders[task.Order]; taken {
				return nil, fmt.Errorf("%w: %q and %q share order %d", ErrInvalid, other, task.ID, task.Order)
			}
			orders[task.Order] = task.ID
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (e entry) task() (models.Task, error) {
	if strings.TrimSpace(e.ID) == "" {
		return models.Task{}, errors.New("id is required")
	}
	if strings.TrimSpace(e.Title) == "" {
		return models.Task{}, fmt.Errorf("%s: title is required", e.ID)
	}

	var v rules.Validation
	switch {
	case e.Validation != nil && e.Rule != "":
		return models.Task{}, fmt.Errorf("%s: set either rule or validation, not both", e.ID)
	case e.Validation != nil:
		v = *e.Validation
	default:
		parsed, err := rules.ParseRule(e.Rule)
		if err != nil {
			return models.Task{}, fmt.Errorf("%s: %w", e.ID, err)
		}
		v = parsed
	}
	if v.Kind == "" {
		v.Kind = rules.KindNone
	}
	if err := v.Check(e.Points); err != nil {
		return models.Task{}, fmt.Errorf("%s: %w", e.ID, err)
	}

	active := true
	if e.Active != nil {
		active = *e.Active
	}
	return models.Task{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Order:       e.Order,
		Points:      e.Points,
		Active:      active,
		Validation:  v,
	}, nil
}

// LoadFile parses a catalog file; an empty path selects the built-in game.
func LoadFile(path string) ([]models.Task, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(bytes.NewReader(data))
}

// Default returns the built-in game.
func Default() ([]models.Task, error) {
	return Parse(bytes.NewReader(defaultCatalog))
}

// Writer is the part of the store seeding needs.
type Writer interface {
	ListAllTasks(ctx context.Context) ([]models.Task, error)
	UpsertTask(ctx context.Context, task *models.Task) error
	DeactivateTasksExcept(ctx context.Context, keep []string) (int64, error)
}

// Seed upserts tasks by ID. With replace, active tasks missing from the catalog are
// deactivated rather than deleted, so existing progress still resolves. Seeding is
// refused with ErrInvalid when it would leave two active tasks on the same order.
func Seed(ctx context.Context, w Writer, tasks []models.Task, replace bool) error {
	existing, err := w.ListAllTasks(ctx)
	if err != nil {
		return err
	}
	if err := checkOrders(existing, tasks, replace); err != nil {
		return err
	}

	keep := make([]string, 0, len(tasks))
	for i := range tasks {
		if err := w.UpsertTask(ctx, &tasks[i]); err != nil {
			return err
		}
		keep = append(keep, tasks[i].ID)
	}
	log.Printf("Seeded %d tasks", len(tasks))

	if replace {
		n, err := w.DeactivateTasksExcept(ctx, keep)
		if err != nil {
			return err
		}
		log.Printf("Deactivated %d tasks missing from the catalog", n)
	}
	return nil
}

// checkOrders merges incoming tasks over the stored ones and rejects a result in
// which two active tasks share an order.
func checkOrders(existing, incoming []models.Task, replace bool) error {
	active := make(map[string]int)
	if !replace {
		for _, t := range existing {
			if t.Active {
				active[t.ID] = t.Order
			}
		}
	}
	for _, t := range incoming {
		delete(active, t.ID)
		if t.Active {
			active[t.ID] = t.Order
		}
	}

	ids := make([]string, 0, len(active))
	for id := range active {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	owner := make(map[int]string, len(ids))
	for _, id := range ids {
		order := active[id]
		if other, taken := owner[order]; taken {
			return fmt.Errorf("%w: %q and %q would share order %d", ErrInvalid, other, id, order)
		}
		owner[order] = id
	}
	return nil
}
