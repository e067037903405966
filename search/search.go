// Package search evaluates criteria against in-memory records.
package search

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/golang/groupcache/lru"
	"github.com/pkg/errors"

	"sifter/criteria"
	nt "sifter/entity"
)

const defaultRegexCache = 64

// Config holds search options.
type Config struct {
	CaseSensitive bool `yaml:"case_sensitive"`
	RegexCache    int  `yaml:"regex_cache"`
}

// Search filters records by a criteria group.
// It reads but never modifies the records or the group, and holds no
// lock: give each concurrent evaluation its own Search and group.
type Search struct {
	data          []nt.Record
	group         *criteria.Group
	caseSensitive bool
	patterns      *lru.Cache

	ctx    context.Context
	logger nt.Logger
}

// New creates a Search over data.
func (cfg *Config) New(data []nt.Record, group *criteria.Group, lgr nt.Logger) *Search {

	size := cfg.RegexCache
	if size <= 0 {
		size = defaultRegexCache
	}

	return &Search{
		data:          data,
		group:         group,
		caseSensitive: cfg.CaseSensitive,
		patterns:      lru.New(size),
		ctx:           context.Background(),
		logger:        lgr,
	}
}

// Search returns the records satisfying every list in the group.
// The returned slice is new while the records themselves are shared.
func (srch *Search) Search() []nt.Record {

	if srch.group == nil || srch.group.Size() == 0 {
		return append([]nt.Record{}, srch.data...)
	}

	lists := srch.validLists()

	found := []nt.Record{}
	for _, rec := range srch.data {
		if srch.matchesAll(rec, lists) {
			found = append(found, rec)
		}
	}
	return found
}

// unexported

// validLists gathers the valid filters of each list, dropping lists that
// have none since those are satisfied by any record.
func (srch *Search) validLists() (lists [][]nt.Filter) {

	for _, list := range srch.group.All() {
		if list == nil {
			continue
		}

		valid := list.Valid()
		if len(valid) == 0 {
			continue
		}
		lists = append(lists, valid)
	}
	return
}

func (srch *Search) matchesAll(rec nt.Record, lists [][]nt.Filter) bool {

	for _, filters := range lists {
		if !srch.matchesAny(rec, filters) {
			return false
		}
	}
	return true
}

func (srch *Search) matchesAny(rec nt.Record, filters []nt.Filter) bool {

	for _, flt := range filters {
		if srch.evaluate(rec, flt) {
			return true
		}
	}
	return false
}

// evaluate tests one filter, counting any fault as no match.
func (srch *Search) evaluate(rec nt.Record, flt nt.Filter) (matched bool) {

	defer func() {
		if r := recover(); r != nil {
			matched = false
			srch.logError("recovered while evaluating filter", errors.Errorf("%v", r), flt)
		}
	}()

	val, ok := rec.Lookup(flt.LeftCondition)
	if !ok || val.IsNil() {
		return false
	}

	return srch.apply(val, flt.Operator, flt.Value)
}

func (srch *Search) apply(val nt.Value, op nt.Operator, value string) bool {

	switch op {
	case nt.Eq:
		return srch.equals(val, value)
	case nt.Gt:
		return compare(val, value, func(a, b float64) bool { return a > b })
	case nt.Lt:
		return compare(val, value, func(a, b float64) bool { return a < b })
	case nt.Contains:
		return srch.contains(val, value)
	case nt.Excludes:
		return !srch.contains(val, value)
	case nt.Regex:
		return srch.matches(val, value)
	default:
		return false
	}
}

func (srch *Search) equals(val nt.Value, value string) bool {

	if val.IsBool() {
		return val.String() == strings.ToLower(value)
	}

	if val.IsNumber() {
		want, ok := nt.ParseNumber(value)
		if !ok {
			return false
		}
		got, ok := val.Number()
		return ok && got == want
	}

	if srch.caseSensitive {
		return val.String() == value
	}
	return strings.ToLower(val.String()) == strings.ToLower(value)
}

func compare(val nt.Value, value string, cmp func(a, b float64) bool) bool {

	got, ok := val.Number()
	if !ok {
		return false
	}

	want, ok := nt.ParseNumber(value)
	if !ok {
		return false
	}

	return cmp(got, want)
}

func (srch *Search) contains(val nt.Value, value string) bool {

	if srch.caseSensitive {
		return strings.Contains(val.String(), value)
	}
	return strings.Contains(strings.ToLower(val.String()), strings.ToLower(value))
}

func (srch *Search) matches(val nt.Value, value string) bool {

	rgx, err := srch.pattern(value)
	if err != nil {
		return false
	}
	return rgx.MatchString(val.String())
}

// pattern compiles value, caching compiled patterns and failures alike.
func (srch *Search) pattern(value string) (rgx *regexp.Regexp, err error) {

	if cached, ok := srch.patterns.Get(value); ok {
		switch got := cached.(type) {
		case *regexp.Regexp:
			return got, nil
		case error:
			return nil, got
		}
	}

	expr := value
	if !srch.caseSensitive {
		expr = "(?i)" + value
	}

	rgx, err = regexp.Compile(expr)
	if err != nil {
		err = errors.Wrapf(err, "failed to compile pattern %q", value)
		srch.patterns.Add(value, err)
		return
	}

	srch.patterns.Add(value, rgx)
	return
}

func (srch *Search) logError(msg string, err error, flt nt.Filter) {
	if srch.logger == nil {
		return
	}
	srch.logger.Error(srch.ctx, msg, err,
		"field", flt.LeftCondition,
		"operator", flt.Operator.String(),
		"value", fmt.Sprintf("%q", flt.Value),
	)
}
