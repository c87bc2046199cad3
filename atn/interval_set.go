package atn

import (
	"fmt"
	"sort"
	"strings"

	"github.com/antlr4-go/antlr/v4"
)

// Interval is a closed range of symbols [Start, Stop].
type Interval struct {
	Start int
	Stop  int
}

func (i Interval) Len() int {
	return i.Stop - i.Start + 1
}

// IntervalSet is an ordered set of disjoint, non-adjacent intervals of symbols. Symbols are
// token types in a parser ATN and code points in a lexer ATN.
type IntervalSet struct {
	intervals []Interval
}

func NewIntervalSet() *IntervalSet {
	return &IntervalSet{}
}

// NewIntervalSetOf returns a set holding the given symbols.
func NewIntervalSetOf(symbols ...int) *IntervalSet {
	s := &IntervalSet{}
	for _, v := range symbols {
		s.Add(v)
	}
	return s
}

// NewIntervalSetRange returns a set holding [start, stop].
func NewIntervalSetRange(start, stop int) *IntervalSet {
	s := &IntervalSet{}
	s.AddRange(start, stop)
	return s
}

func (s *IntervalSet) Add(v int) {
	s.AddRange(v, v)
}

// AddRange adds [start, stop]. Overlapping and adjacent intervals are merged.
func (s *IntervalSet) AddRange(start, stop int) {
	if stop < start {
		return
	}
	i := sort.Search(len(s.intervals), func(i int) bool {
		return s.intervals[i].Stop+1 >= start
	})
	j := i
	for j < len(s.intervals) && s.intervals[j].Start <= stop+1 {
		if s.intervals[j].Start < start {
			start = s.intervals[j].Start
		}
		if s.intervals[j].Stop > stop {
			stop = s.intervals[j].Stop
		}
		j++
	}
	merged := make([]Interval, 0, len(s.intervals)-(j-i)+1)
	merged = append(merged, s.intervals[:i]...)
	merged = append(merged, Interval{Start: start, Stop: stop})
	merged = append(merged, s.intervals[j:]...)
	s.intervals = merged
}

// AddSet adds every symbol of other to s.
func (s *IntervalSet) AddSet(other *IntervalSet) {
	if other == nil {
		return
	}
	for _, iv := range other.intervals {
		s.AddRange(iv.Start, iv.Stop)
	}
}

// Union returns a new set holding the symbols of s and other.
func (s *IntervalSet) Union(other *IntervalSet) *IntervalSet {
	u := s.Copy()
	u.AddSet(other)
	return u
}

// Remove deletes one symbol from the set.
func (s *IntervalSet) Remove(v int) {
	for i, iv := range s.intervals {
		if v < iv.Start || v > iv.Stop {
			continue
		}
		var repl []Interval
		if iv.Start < v {
			repl = append(repl, Interval{Start: iv.Start, Stop: v - 1})
		}
		if v < iv.Stop {
			repl = append(repl, Interval{Start: v + 1, Stop: iv.Stop})
		}
		rest := append(repl, s.intervals[i+1:]...)
		s.intervals = append(s.intervals[:i:i], rest...)
		return
	}
}

// Complement returns the symbols of [min, max] that are not in s.
func (s *IntervalSet) Complement(min, max int) *IntervalSet {
	c := &IntervalSet{}
	next := min
	for _, iv := range s.intervals {
		if iv.Stop < min {
			continue
		}
		if iv.Start > max {
			break
		}
		if iv.Start > next {
			c.AddRange(next, iv.Start-1)
		}
		next = iv.Stop + 1
	}
	if next <= max {
		c.AddRange(next, max)
	}
	return c
}

// And returns the symbols in both s and other.
func (s *IntervalSet) And(other *IntervalSet) *IntervalSet {
	r := &IntervalSet{}
	if other == nil {
		return r
	}
	i, j := 0, 0
	for i < len(s.intervals) && j < len(other.intervals) {
		a, b := s.intervals[i], other.intervals[j]
		start, stop := a.Start, a.Stop
		if b.Start > start {
			start = b.Start
		}
		if b.Stop < stop {
			stop = b.Stop
		}
		if start <= stop {
			r.intervals = append(r.intervals, Interval{Start: start, Stop: stop})
		}
		if a.Stop < b.Stop {
			i++
		} else {
			j++
		}
	}
	return r
}

func (s *IntervalSet) Contains(v int) bool {
	i := sort.Search(len(s.intervals), func(i int) bool {
		return s.intervals[i].Stop >= v
	})
	return i < len(s.intervals) && s.intervals[i].Start <= v
}

// Len returns the number of symbols in the set.
func (s *IntervalSet) Len() int {
	n := 0
	for _, iv := range s.intervals {
		n += iv.Len()
	}
	return n
}

func (s *IntervalSet) IsEmpty() bool {
	return len(s.intervals) == 0
}

// MinElement returns the smallest symbol, or antlr.TokenInvalidType for an empty set.
func (s *IntervalSet) MinElement() int {
	if len(s.intervals) == 0 {
		return antlr.TokenInvalidType
	}
	return s.intervals[0].Start
}

// Intervals returns a copy of the intervals in ascending order.
func (s *IntervalSet) Intervals() []Interval {
	ivs := make([]Interval, len(s.intervals))
	copy(ivs, s.intervals)
	return ivs
}

// Symbols lists every symbol of the set in ascending order.
func (s *IntervalSet) Symbols() []int {
	var syms []int
	for _, iv := range s.intervals {
		for v := iv.Start; v <= iv.Stop; v++ {
			syms = append(syms, v)
		}
	}
	return syms
}

func (s *IntervalSet) Copy() *IntervalSet {
	return &IntervalSet{
		intervals: s.Intervals(),
	}
}

func (s *IntervalSet) Equal(other *IntervalSet) bool {
	if other == nil || len(s.intervals) != len(other.intervals) {
		return false
	}
	for i, iv := range s.intervals {
		if iv != other.intervals[i] {
			return false
		}
	}
	return true
}

// String prints the set as `{1, 3..5}`; a single symbol is printed without braces.
func (s *IntervalSet) String() string {
	return s.StringWith(func(v int) string {
		return fmt.Sprint(v)
	})
}

// StringWith is like String but prints each symbol with name.
func (s *IntervalSet) StringWith(name func(v int) string) string {
	if len(s.intervals) == 0 {
		return "{}"
	}
	var elems []string
	for _, iv := range s.intervals {
		switch {
		case iv.Start == iv.Stop:
			elems = append(elems, name(iv.Start))
		default:
			elems = append(elems, fmt.Sprintf("%v..%v", name(iv.Start), name(iv.Stop)))
		}
	}
	if len(elems) == 1 && s.intervals[0].Start == s.intervals[0].Stop {
		return elems[0]
	}
	return "{" + strings.Join(elems, ", ") + "}"
}
