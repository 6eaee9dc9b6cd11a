package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/curbz/notam-composer/internal/dictionary"
	"github.com/curbz/notam-composer/internal/metrics"
	"github.com/curbz/notam-composer/internal/notam"
	"github.com/curbz/notam-composer/internal/session"
	"github.com/curbz/notam-composer/pkg/geometry"
	"github.com/curbz/notam-composer/pkg/icao"
	"github.com/curbz/notam-composer/pkg/util"
	"gopkg.in/yaml.v3"
)

const prompt = "notam> "

var errUsage = errors.New("usage")

// Console is a line oriented front end over a session registry. It is not
// safe for concurrent use; each Console drives one current session at a time.
type Console struct {
	sessions  *session.Registry
	dict      *dictionary.Dictionary
	metrics   *metrics.Registry
	exportDir string

	out     io.Writer
	current *notam.Session
}

type Options struct {
	Sessions   *session.Registry
	Dictionary *dictionary.Dictionary
	Metrics    *metrics.Registry
	ExportDir  string
	// Session is the session to start on. A new one is created when nil.
	Session *notam.Session
}

func New(opts Options, out io.Writer) *Console {
	c := &Console{
		sessions:  opts.Sessions,
		dict:      opts.Dictionary,
		metrics:   opts.Metrics,
		exportDir: opts.ExportDir,
		out:       out,
		current:   opts.Session,
	}
	if c.current == nil {
		c.current = c.sessions.Create()
	}
	return c
}

// Current returns the session commands apply to.
func (c *Console) Current() *notam.Session {
	return c.current
}

// Run reads commands from in until quit, end of input or ctx is cancelled.
// Command errors are printed and do not stop the loop.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprintf(c.out, "NOTAM composer. Session %s. Type 'help' for commands.\n", c.current.ID)

	for {
		fmt.Fprint(c.out, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(c.out)
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		quit, err := c.Execute(scanner.Text())
		if err != nil {
			fmt.Fprintf(c.out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

// Execute runs a single command line. quit is true for the quit command.
func (c *Console) Execute(line string) (quit bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, nil
	}
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	if !c.sessions.Touch(c.current) {
		fmt.Fprintf(c.out, "warning: session %s had expired and was reopened\n", c.current.ID)
	}

	util.DebugWithLabel(c.current.ID, "console command %q", cmd)

	switch strings.ToLower(cmd) {
	case "set":
		return false, c.set(rest)
	case "detail":
		return false, c.detail(rest)
	case "schedule":
		return false, c.schedule(rest)
	case "template":
		return false, c.loadTemplate(rest)
	case "templates":
		c.listTemplates()
	case "reset":
		c.current.Reset()
		c.countMutation("reset")
		fmt.Fprintln(c.out, "record reset")
	case "show":
		c.show()
	case "etext":
		fmt.Fprintln(c.out, c.current.AutoEText())
	case "record":
		return false, c.printRecord()
	case "export":
		return false, c.export(rest)
	case "airports":
		c.searchAirports(rest)
	case "nearby":
		return false, c.nearby(rest)
	case "locate":
		return false, c.locate()
	case "categories":
		c.listCategories()
	case "subjects":
		c.listSubjects(rest)
	case "conditions":
		c.listConditions(rest)
	case "frequencies":
		fmt.Fprintln(c.out, strings.Join(c.dict.ScheduleFrequencies(), ", "))
	case "new":
		c.current = c.sessions.Create()
		fmt.Fprintf(c.out, "session %s\n", c.current.ID)
	case "use":
		return false, c.use(rest)
	case "sessions":
		c.listSessions()
	case "help":
		fmt.Fprint(c.out, helpText)
	case "quit", "exit":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q, type 'help'", cmd)
	}
	return false, nil
}

// splitNameValue splits "name value with spaces". The value may be empty.
func splitNameValue(args string) (string, string, error) {
	name, value, _ := strings.Cut(args, " ")
	if name == "" {
		return "", "", errUsage
	}
	return name, strings.TrimSpace(value), nil
}

func (c *Console) set(args string) error {
	name, value, err := splitNameValue(args)
	if err != nil {
		return fmt.Errorf("%w: set <field> <value>", err)
	}
	field, err := notam.ParseField(name)
	if err != nil {
		return err
	}

	if field == notam.FieldLocation {
		value = icao.NormalizeLocation(value)
		if value != "" && !icao.IsLocationIndicator(value) {
			fmt.Fprintf(c.out, "warning: %q is not a four letter location indicator\n", value)
		} else if country, ok := icao.CountryCode(value); ok {
			fmt.Fprintf(c.out, "location %s (%s)\n", value, country)
		}
	}

	if err := c.current.UpdateField(field, value); err != nil {
		return err
	}
	c.countMutation("field")
	return nil
}

// ParseDetailValue converts console or flag input to the value type the
// detail field takes.
func ParseDetailValue(field notam.DetailField, raw string) (any, error) {
	if field != notam.DetailLighting {
		return raw, nil
	}
	switch strings.ToLower(raw) {
	case "yes", "y", "on", "lgtd":
		return true, nil
	case "no", "n", "off":
		return false, nil
	}
	lit, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: lighting takes yes or no, got %q", notam.ErrDetailValueType, raw)
	}
	return lit, nil
}

func (c *Console) detail(args string) error {
	name, raw, err := splitNameValue(args)
	if err != nil {
		return fmt.Errorf("%w: detail <field> <value>", err)
	}
	field, err := notam.ParseDetailField(name)
	if err != nil {
		return err
	}
	value, err := ParseDetailValue(field, raw)
	if err != nil {
		return err
	}
	if err := c.current.UpdateDetailField(field, value); err != nil {
		return err
	}
	c.countMutation("detail")
	return nil
}

func (c *Console) schedule(args string) error {
	name, value, err := splitNameValue(args)
	if err != nil {
		return fmt.Errorf("%w: schedule <frequency|startTime|endTime> <value>", err)
	}
	field, err := notam.ParseScheduleField(name)
	if err != nil {
		return err
	}
	if err := c.current.UpdateScheduleField(field, value); err != nil {
		return err
	}
	c.countMutation("schedule")

	sched := c.current.Record().ItemDSchedule
	fmt.Fprintf(c.out, "schedule %s %s-%s\n",
		orBlank(sched.Frequency, "-"),
		orBlank(notam.FormatScheduleTime(sched.StartTime), "--:--"),
		orBlank(notam.FormatScheduleTime(sched.EndTime), "--:--"))
	return nil
}

func orBlank(v, blank string) string {
	if v == "" {
		return blank
	}
	return v
}

func (c *Console) loadTemplate(key string) error {
	if key == "" {
		return fmt.Errorf("%w: template <key>", errUsage)
	}
	hit := c.current.LoadTemplate(key)
	if c.metrics != nil {
		c.metrics.RecordTemplateLoad(hit)
	}
	if !hit {
		fmt.Fprintf(c.out, "no template %q, record unchanged\n", key)
		return nil
	}
	c.countMutation("template")
	fmt.Fprintf(c.out, "template %s loaded\n", key)
	return nil
}

func (c *Console) listTemplates() {
	for _, t := range c.dict.Templates() {
		fmt.Fprintf(c.out, "%-16s %s\n", t.Key, t.Name)
	}
}

func (c *Console) show() {
	fmt.Fprintln(c.out, c.current.FinalNotam())
	if c.metrics != nil {
		c.metrics.CompositionsTotal.Inc()
	}
}

func (c *Console) printRecord() error {
	data, err := yaml.Marshal(c.current.Record())
	if err != nil {
		return fmt.Errorf("could not marshal record: %w", err)
	}
	_, err = c.out.Write(data)
	return err
}

func (c *Console) export(args string) error {
	if args == "" {
		args = string(notam.FormatText)
	}
	format, err := notam.ParseExportFormat(args)
	if err != nil {
		return err
	}
	path, err := notam.WriteExport(c.exportDir, c.current.Record(), format)
	if err != nil {
		return err
	}
	if c.metrics != nil {
		c.metrics.ExportsTotal.WithLabelValues(string(format)).Inc()
	}
	fmt.Fprintf(c.out, "exported %s\n", path)
	return nil
}

func (c *Console) searchAirports(term string) {
	results := c.dict.SearchAirports(term)
	if len(results) == 0 {
		fmt.Fprintln(c.out, "no airports found")
		return
	}
	for _, a := range results {
		fmt.Fprintf(c.out, "%s %-3s %s, %s (%s)\n", a.ICAO, a.IATA, a.Name, a.City, a.Country)
	}
}

const nearbyResults = 5

func (c *Console) nearby(coord string) error {
	if coord == "" {
		return fmt.Errorf("%w: nearby <DDMMN DDDMME>", errUsage)
	}
	p, err := geometry.ParseCoordinate(coord)
	if err != nil {
		return err
	}
	for _, a := range c.dict.NearestAirports(p, nearbyResults) {
		fmt.Fprintf(c.out, "%s %6.1f NM  %s, %s\n", a.ICAO, a.DistanceNM, a.Name, a.City)
	}
	return nil
}

// locate reports where the obstacle lies relative to the aerodrome in item A
// and to the airspace in the details, where those are known.
func (c *Console) locate() error {
	r := c.current.Record()
	if r.Details.ObstacleCoords == "" {
		return errors.New("no obstacle coordinates set")
	}
	obstacle, err := geometry.ParseCoordinate(r.Details.ObstacleCoords)
	if err != nil {
		return err
	}

	if airport, ok := c.dict.Airport(r.ItemALocation); ok {
		fmt.Fprintf(c.out, "obstacle %.1f NM from %s\n", geometry.DistNM(airport.Position(), obstacle), airport.ICAO)
	} else {
		fmt.Fprintf(c.out, "aerodrome %q not in the airport table\n", r.ItemALocation)
	}

	if r.Details.AirspaceCoords == "" {
		return nil
	}
	polygon, err := geometry.ParseCoordinates(r.Details.AirspaceCoords)
	if err != nil {
		return err
	}
	where := "outside"
	if geometry.InPolygon(obstacle, polygon) {
		where = "inside"
	}
	fmt.Fprintf(c.out, "obstacle %s airspace %s\n", where, r.Details.AirspaceName)
	return nil
}

func (c *Console) listCategories() {
	for _, cat := range c.dict.Categories() {
		fmt.Fprintf(c.out, "%-10s %s\n", cat.Key, cat.Name)
	}
}

func (c *Console) listSubjects(category string) {
	if category == "" {
		category = c.current.Record().Category
	}
	subjects := c.dict.SubjectsForCategory(category)
	if len(subjects) == 0 {
		fmt.Fprintf(c.out, "no subjects for category %q\n", category)
		return
	}
	for _, s := range subjects {
		fmt.Fprintf(c.out, "%-10s %s\n", s.Key, s.Name)
	}
}

func (c *Console) listConditions(subject string) {
	if subject == "" {
		subject = c.current.Record().Subject
	}
	conditions := c.dict.ConditionsForSubject(subject)
	if len(conditions) == 0 {
		fmt.Fprintf(c.out, "no conditions for subject %q\n", subject)
		return
	}
	for _, cond := range conditions {
		fmt.Fprintf(c.out, "%-20s %s\n", cond.Code, cond.Description)
	}
}

func (c *Console) use(id string) error {
	if id == "" {
		return fmt.Errorf("%w: use <session id>", errUsage)
	}
	s, err := c.sessions.Get(id)
	if err != nil {
		return err
	}
	c.current = s
	fmt.Fprintf(c.out, "session %s\n", s.ID)
	return nil
}

func (c *Console) listSessions() {
	for _, id := range c.sessions.List() {
		marker := " "
		if id == c.current.ID {
			marker = "*"
		}
		fmt.Fprintf(c.out, "%s %s\n", marker, id)
	}
}

func (c *Console) countMutation(op string) {
	if c.metrics != nil {
		c.metrics.MutationsTotal.WithLabelValues(op).Inc()
	}
}

const helpText = `Commands:
  set <field> <value>         messageType referenceNotam category subject condition
                              itemA_location itemB_start itemC_end itemE_text
                              itemF_lower itemG_upper
  detail <field> <value>      designator navaidId airspaceName airspaceCoords
                              obstacleType obstacleCoords obstacleHeight lighting (yes|no)
  schedule <field> <value>    frequency startTime endTime (HH:mm or HHmm)
  template <key>              reset and prefill from a template
  templates                   list templates
  reset                       start over from the default record
  show                        print the composed NOTAM
  etext                       print the generated item E text
  record                      print the raw record
  export [txt|json|yaml]      write the record to the export directory
  airports <term>             search airports by ICAO, IATA, name or city
  nearby <coordinate>         list the airports nearest to DDMMN DDDMME
  locate                      place the obstacle relative to the aerodrome and airspace
  categories                  list categories
  subjects [category]         list subjects, defaults to the record's category
  conditions [subject]        list conditions, defaults to the record's subject
  frequencies                 list schedule frequencies
  new                         open a new session and switch to it
  use <id>                    switch to another session
  sessions                    list open sessions
  help                        show this text
  quit                        leave
`
