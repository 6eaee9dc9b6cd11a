package dictionary

import (
	"context"
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/curbz/notam-composer/internal/notam"
	"github.com/curbz/notam-composer/pkg/geometry"
	"github.com/jszwec/csvutil"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"
)

const maxAirportResults = 10

type Category struct {
	Key      string   `yaml:"key"`
	Name     string   `yaml:"name"`
	Subjects []string `yaml:"subjects"`
}

type Subject struct {
	Key        string      `yaml:"key"`
	Name       string      `yaml:"name"`
	Conditions []Condition `yaml:"conditions"`
}

// Condition is a selectable condition. Code is the text that goes into the record.
type Condition struct {
	Code        string `yaml:"code"`
	Description string `yaml:"description"`
}

type Airport struct {
	ICAO    string  `csv:"icao"`
	IATA    string  `csv:"iata"`
	Name    string  `csv:"name"`
	City    string  `csv:"city"`
	Country string  `csv:"country"`
	Lat     float64 `csv:"lat"`
	Lon     float64 `csv:"lon"`
}

type document struct {
	Categories          []Category       `yaml:"categories"`
	Subjects            []Subject        `yaml:"subjects"`
	Templates           []notam.Template `yaml:"templates"`
	ScheduleFrequencies []string         `yaml:"schedule_frequencies"`
}

type airportEntry struct {
	Airport
	folded [4]string
}

type snapshot struct {
	doc       document
	subjects  map[string]Subject
	templates map[string]notam.Template
	airports  []airportEntry
}

// Dictionary serves the reference data the composer offers the user.
// It is safe for concurrent use, including during Reload.
type Dictionary struct {
	dictionaryPath string
	airportsPath   string

	mu   sync.RWMutex
	data *snapshot
}

var _ notam.TemplateSource = (*Dictionary)(nil)

// Load reads the dictionary YAML and the airports CSV.
func Load(ctx context.Context, dictionaryPath, airportsPath string) (*Dictionary, error) {
	d := &Dictionary{
		dictionaryPath: dictionaryPath,
		airportsPath:   airportsPath,
	}
	if err := d.Reload(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

// Reload re-reads both files. On error the data already loaded is kept.
func (d *Dictionary) Reload(ctx context.Context) error {
	var (
		doc      document
		airports []Airport
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		var err error
		doc, err = readDocument(d.dictionaryPath)
		return err
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		var err error
		airports, err = readAirports(d.airportsPath)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	// the reads finished, but a reload cancelled meanwhile is not applied
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("dictionary reload cancelled: %w", err)
	}

	snap, err := buildSnapshot(doc, airports)
	if err != nil {
		return fmt.Errorf("invalid dictionary %s: %w", d.dictionaryPath, err)
	}

	d.mu.Lock()
	d.data = snap
	d.mu.Unlock()

	logrus.Infof("Dictionary loaded: %d categories, %d subjects, %d templates, %d airports",
		len(doc.Categories), len(doc.Subjects), len(doc.Templates), len(airports))
	return nil
}

func readDocument(path string) (document, error) {
	var doc document
	data, err := os.ReadFile(path)
	if err != nil {
		return doc, fmt.Errorf("could not read dictionary file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("could not unmarshal dictionary file %s: %w", path, err)
	}
	return doc, nil
}

func readAirports(path string) ([]Airport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read airports file %s: %w", path, err)
	}
	var airports []Airport
	if err := csvutil.Unmarshal(data, &airports); err != nil {
		return nil, fmt.Errorf("failed to decode airports CSV %s: %w", path, err)
	}
	return airports, nil
}

func buildSnapshot(doc document, airports []Airport) (*snapshot, error) {
	snap := &snapshot{
		doc:       doc,
		subjects:  make(map[string]Subject, len(doc.Subjects)),
		templates: make(map[string]notam.Template, len(doc.Templates)),
		airports:  make([]airportEntry, 0, len(airports)),
	}

	for _, s := range doc.Subjects {
		if _, dup := snap.subjects[s.Key]; dup {
			return nil, fmt.Errorf("duplicate subject %q", s.Key)
		}
		snap.subjects[s.Key] = s
	}
	for _, c := range doc.Categories {
		for _, key := range c.Subjects {
			if _, ok := snap.subjects[key]; !ok {
				return nil, fmt.Errorf("category %q references unknown subject %q", c.Key, key)
			}
		}
	}
	for _, t := range doc.Templates {
		if _, dup := snap.templates[t.Key]; dup {
			return nil, fmt.Errorf("duplicate template %q", t.Key)
		}
		snap.templates[t.Key] = t
	}

	fold := cases.Fold()
	for _, a := range airports {
		a.ICAO = strings.ToUpper(strings.TrimSpace(a.ICAO))
		a.IATA = strings.ToUpper(strings.TrimSpace(a.IATA))
		snap.airports = append(snap.airports, airportEntry{
			Airport: a,
			folded: [4]string{
				fold.String(a.ICAO), fold.String(a.IATA), fold.String(a.Name), fold.String(a.City),
			},
		})
	}
	sort.Slice(snap.airports, func(i, j int) bool {
		return snap.airports[i].ICAO < snap.airports[j].ICAO
	})

	return snap, nil
}

func (d *Dictionary) snapshot() *snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.data
}

func (d *Dictionary) Categories() []Category {
	return slices.Clone(d.snapshot().doc.Categories)
}

// SubjectsForCategory returns the subjects offered under category, in
// dictionary order. An unknown category has no subjects.
func (d *Dictionary) SubjectsForCategory(category string) []Subject {
	snap := d.snapshot()
	for _, c := range snap.doc.Categories {
		if c.Key != category {
			continue
		}
		subjects := make([]Subject, 0, len(c.Subjects))
		for _, key := range c.Subjects {
			subjects = append(subjects, snap.subjects[key])
		}
		return subjects
	}
	return nil
}

func (d *Dictionary) ConditionsForSubject(subject string) []Condition {
	s, ok := d.snapshot().subjects[subject]
	if !ok {
		return nil
	}
	return slices.Clone(s.Conditions)
}

func (d *Dictionary) Templates() []notam.Template {
	return slices.Clone(d.snapshot().doc.Templates)
}

// GetTemplate implements notam.TemplateSource.
func (d *Dictionary) GetTemplate(key string) (notam.Template, bool) {
	t, ok := d.snapshot().templates[key]
	return t, ok
}

func (d *Dictionary) ScheduleFrequencies() []string {
	return slices.Clone(d.snapshot().doc.ScheduleFrequencies)
}

// SearchAirports matches term, ignoring case, against the ICAO and IATA codes,
// name and city of every airport. Results are ordered by ICAO code and capped
// at ten. A blank term matches nothing.
func (d *Dictionary) SearchAirports(term string) []Airport {
	needle := cases.Fold().String(strings.TrimSpace(term))
	if needle == "" {
		return nil
	}

	var results []Airport
	for _, a := range d.snapshot().airports {
		for _, key := range a.folded {
			if key != "" && strings.Contains(key, needle) {
				results = append(results, a.Airport)
				break
			}
		}
		if len(results) == maxAirportResults {
			break
		}
	}
	return results
}

// Airport looks up an airport by ICAO code, ignoring case.
func (d *Dictionary) Airport(code string) (Airport, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	airports := d.snapshot().airports
	i := sort.Search(len(airports), func(i int) bool { return airports[i].ICAO >= code })
	if i < len(airports) && airports[i].ICAO == code {
		return airports[i].Airport, true
	}
	return Airport{}, false
}

// Position returns the airport reference point.
func (a Airport) Position() geometry.Point {
	return geometry.Point{Lat: a.Lat, Lon: a.Lon}
}

// NearbyAirport is an airport with its distance from a query point.
type NearbyAirport struct {
	Airport
	DistanceNM float64
}

// NearestAirports returns up to n airports closest to p, nearest first.
func (d *Dictionary) NearestAirports(p geometry.Point, n int) []NearbyAirport {
	airports := d.snapshot().airports
	nearby := make([]NearbyAirport, 0, len(airports))
	for _, a := range airports {
		nearby = append(nearby, NearbyAirport{Airport: a.Airport, DistanceNM: geometry.DistNM(p, a.Position())})
	}
	sort.SliceStable(nearby, func(i, j int) bool {
		return nearby[i].DistanceNM < nearby[j].DistanceNM
	})
	if n >= 0 && len(nearby) > n {
		nearby = nearby[:n]
	}
	return nearby
}
