// Package ingest reads the two tab-separated curriculum tables into a
// resolver: first every topic, so names resolve, then every event.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/vk/courseflow/internal/event"
	"github.com/vk/courseflow/internal/report"
	"github.com/vk/courseflow/internal/resolver"
	"github.com/vk/courseflow/internal/topic"
)

// Parser loads the topics and events tables into a resolver.
type Parser struct {
	res      *resolver.Resolver
	reporter *report.Reporter
}

// New creates a parser filling res.
func New(res *resolver.Resolver, reporter *report.Reporter) *Parser {
	return &Parser{res: res, reporter: reporter}
}

// Read ingests both tables. Topics are read completely before events so
// that every event's topic references can be resolved.
func (p *Parser) Read(topics, events io.Reader) error {
	if err := p.readTopics(topics); err != nil {
		return fmt.Errorf("reading topics: %w", err)
	}
	if err := p.readEvents(events); err != nil {
		return fmt.Errorf("reading events: %w", err)
	}
	return nil
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr
}

// readTopics reads the topics table: name, semicolon-separated dependency
// names, description. The header row is skipped. Dependency edges are
// linked in a second pass, after every name is registered.
func (p *Parser) readTopics(r io.Reader) error {
	cr := newReader(r)
	type row struct {
		name string
		deps []string
	}
	var rows []row
	first := true
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if first {
			first = false
			continue
		}
		if len(record) < 3 {
			return fmt.Errorf("topics row has %d columns, want at least 3: %v", len(record), record)
		}
		name := strings.TrimSpace(record[0])
		deps := p.parseNames(record[1], fmt.Sprintf("dependency of '%s'", name))
		if _, err := p.res.Topics().Register(name, strings.TrimSpace(record[2])); err != nil {
			return err
		}
		rows = append(rows, row{name: name, deps: deps})
	}
	for _, row := range rows {
		if err := p.res.Topics().Link(row.name, row.deps); err != nil {
			return err
		}
	}
	return nil
}

// readEvents reads the events table: unit label (informational), display
// name, taught topics, required topics. The header row is skipped. Events
// with no topics at all are reported and dropped.
func (p *Parser) readEvents(r io.Reader) error {
	cr := newReader(r)
	lastTaughtIn := make(map[string]string)
	first := true
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if first {
			first = false
			continue
		}
		if len(record) < 4 {
			return fmt.Errorf("events row has %d columns, want at least 4: %v", len(record), record)
		}
		name := strings.TrimSpace(record[1])
		taught, err := p.parseTopics(record[2], fmt.Sprintf("taught in '%s'", name))
		if err != nil {
			return err
		}
		for _, t := range taught.Sorted() {
			if previous, ok := lastTaughtIn[t.Name]; ok {
				p.reporter.Warningf("topic '%s' is taught in '%s', but it is already taught in '%s'",
					t.Name, name, previous)
			}
			lastTaughtIn[t.Name] = name
		}
		required, err := p.parseTopics(record[3], fmt.Sprintf("required in '%s'", name))
		if err != nil {
			return err
		}
		if taught.Len() == 0 && required.Len() == 0 {
			p.reporter.Warningf("ignoring event '%s' because no topics are taught or required by it", name)
			continue
		}
		ev, err := event.New(name, taught, required)
		if err != nil {
			return err
		}
		if err := p.res.Events().Add(ev); err != nil {
			return err
		}
	}
	return nil
}

// parseNames splits a semicolon-separated list of topic names, trimming
// entries, dropping blanks, and deduplicating with a report.
func (p *Parser) parseNames(list, comment string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, raw := range splitList(list) {
		if seen[raw] {
			p.reporter.Errorf("ignoring duplicate topic '%s' %s", raw, comment)
			continue
		}
		seen[raw] = true
		out = append(out, raw)
	}
	return out
}

// parseTopics resolves a semicolon-separated list against the registry. A
// name that was never registered as a topic is fatal here: events depend on
// it as a hard reference.
func (p *Parser) parseTopics(list, comment string) (topic.Set, error) {
	set := make(topic.Set)
	for _, raw := range splitList(list) {
		t, ok := p.res.Topics().Get(raw)
		if !ok {
			return nil, fmt.Errorf("topic '%s' %s: %w", raw, comment, &topic.UnknownTopicError{Name: raw})
		}
		if !set.Add(t) {
			p.reporter.Errorf("ignoring duplicate topic '%s' %s", raw, comment)
		}
	}
	return set, nil
}

func splitList(list string) []string {
	var out []string
	for _, entry := range strings.Split(list, ";") {
		if entry = strings.TrimSpace(entry); entry != "" {
			out = append(out, entry)
		}
	}
	return out
}
