// Package catalog holds the static exercise and serving-size reference tables.
package catalog

import (
	"sort"
	"strings"
	"sync"

	"example.com/fittrack/internal/domain"
)

// Category groups exercises by training type.
type Category string

const (
	Strength Category = "strength"
	Cardio   Category = "cardio"
	Mobility Category = "mobility"
)

// Exercise is a reference exercise.
type Exercise struct {
	Name      string
	Category  Category
	Muscles   []string
	Equipment string
	Aliases   []string
}

// Serving is a reference food with the macros of one serving.
type Serving struct {
	Name        string
	ServingSize string
	Grams       float64
	Macros      domain.Macros
	Aliases     []string
}

// Catalog indexes the reference tables for lookups.
type Catalog struct {
	mu        sync.RWMutex
	exercises map[string]Exercise
	servings  map[string]Serving
}

// New returns a catalog seeded with the built-in tables.
func New() *Catalog {
	c := &Catalog{
		exercises: make(map[string]Exercise),
		servings:  make(map[string]Serving),
	}
	c.seed()
	return c
}

func (c *Catalog) seed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ex := range exerciseTable {
		c.exercises[normalize(ex.Name)] = ex
		for _, alias := range ex.Aliases {
			c.exercises[normalize(alias)] = ex
		}
	}
	for _, s := range servingTable {
		c.servings[normalize(s.Name)] = s
		for _, alias := range s.Aliases {
			c.servings[normalize(alias)] = s
		}
	}
}

// Exercises returns every exercise sorted by name.
func (c *Catalog) Exercises() []Exercise {
	out := make([]Exercise, len(exerciseTable))
	copy(out, exerciseTable)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LookupExercise finds an exercise by name or alias, ignoring case and spacing.
func (c *Catalog) LookupExercise(name string) (Exercise, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ex, ok := c.exercises[normalize(name)]
	return ex, ok
}

// CanonicalExercise implements domain.ExerciseCatalog.
func (c *Catalog) CanonicalExercise(name string) (string, bool) {
	ex, ok := c.LookupExercise(name)
	if !ok {
		return "", false
	}
	return ex.Name, true
}

// SearchExercises returns exercises whose name, alias or muscles contain query,
// optionally restricted to one category.
func (c *Catalog) SearchExercises(query string, category Category) []Exercise {
	query = normalize(query)
	out := make([]Exercise, 0)
	for _, ex := range c.Exercises() {
		if category != "" && ex.Category != category {
			continue
		}
		if query == "" || matchesExercise(ex, query) {
			out = append(out, ex)
		}
	}
	return out
}

func matchesExercise(ex Exercise, query string) bool {
	if strings.Contains(normalize(ex.Name), query) {
		return true
	}
	for _, alias := range ex.Aliases {
		if strings.Contains(normalize(alias), query) {
			return true
		}
	}
	for _, muscle := range ex.Muscles {
		if strings.Contains(muscle, query) {
			return true
		}
	}
	return false
}

// Servings returns every reference food sorted by name.
func (c *Catalog) Servings() []Serving {
	out := make([]Serving, len(servingTable))
	copy(out, servingTable)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LookupServing finds a food by exact name or alias.
func (c *Catalog) LookupServing(name string) (Serving, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.servings[normalize(name)]
	return s, ok
}

// MatchServing finds the reference food whose name or alias is the longest
// whole-word match inside a free-text description.
func (c *Catalog) MatchServing(description string) (Serving, bool) {
	text := " " + normalize(description) + " "
	c.mu.RLock()
	defer c.mu.RUnlock()

	var (
		best    Serving
		bestKey string
	)
	for key, s := range c.servings {
		if !strings.Contains(text, " "+key+" ") {
			continue
		}
		if len(key) > len(bestKey) || (len(key) == len(bestKey) && key < bestKey) {
			best, bestKey = s, key
		}
	}
	return best, bestKey != ""
}

func normalize(value string) string {
	value = strings.ToLower(value)
	value = strings.NewReplacer("-", " ", "_", " ", ",", " ", ".", " ").Replace(value)
	return strings.Join(strings.Fields(value), " ")
}
