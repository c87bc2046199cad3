package atn

import (
	"fmt"
	"strings"

	"github.com/antlr4-go/antlr/v4"
)

// lookContext is the stack of states the analysis returns to when it leaves a rule. A context
// that is not global has an unknown bottom: leaving the outermost rule yields
// antlr.TokenEpsilon. A global context follows the rule stop states' own transitions instead.
type lookContext struct {
	returns []*State
	global  bool
}

func (c lookContext) isUnknown() bool {
	return !c.global && len(c.returns) == 0
}

func (c lookContext) push(follow *State) lookContext {
	rs := make([]*State, len(c.returns)+1)
	copy(rs, c.returns)
	rs[len(c.returns)] = follow
	return lookContext{
		returns: rs,
		global:  c.global,
	}
}

func (c lookContext) pop() (*State, lookContext) {
	n := len(c.returns)
	return c.returns[n-1], lookContext{
		returns: c.returns[:n-1],
		global:  c.global,
	}
}

func (c lookContext) key(s *State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v:%v", s.Number, c.global)
	for _, r := range c.returns {
		fmt.Fprintf(&b, ",%v", r.Number)
	}
	return b.String()
}

type lookAnalyzer struct {
	atn          *ATN
	seeThruPreds bool
	busy         map[string]struct{}
	calledRules  map[int]bool

	// hitPred is set when the analysis ran into a predicate it does not see through.
	hitPred bool
}

func newLookAnalyzer(a *ATN, seeThruPreds bool) *lookAnalyzer {
	return &lookAnalyzer{
		atn:          a,
		seeThruPreds: seeThruPreds,
		busy:         map[string]struct{}{},
		calledRules:  map[int]bool{},
	}
}

func (la *lookAnalyzer) look(s *State, ctx lookContext, set *IntervalSet) {
	key := ctx.key(s)
	if _, ok := la.busy[key]; ok {
		return
	}
	la.busy[key] = struct{}{}

	if s.Type == StateRuleStop {
		if ctx.isUnknown() {
			set.Add(antlr.TokenEpsilon)
			return
		}
		if len(ctx.returns) > 0 {
			ret, parent := ctx.pop()
			called := la.calledRules[s.RuleIndex]
			delete(la.calledRules, s.RuleIndex)
			la.look(ret, parent, set)
			if called {
				la.calledRules[s.RuleIndex] = true
			}
			return
		}
	}

	for _, t := range s.Transitions {
		switch {
		case t.Type == TransitionRule:
			if la.calledRules[t.Target.RuleIndex] {
				continue
			}
			la.calledRules[t.Target.RuleIndex] = true
			la.look(t.Target, ctx.push(t.FollowState), set)
			delete(la.calledRules, t.Target.RuleIndex)
		case t.Type == TransitionPredicate || t.Type == TransitionPrecedence:
			if la.seeThruPreds {
				la.look(t.Target, ctx, set)
			} else {
				la.hitPred = true
			}
		case t.IsEpsilon():
			la.look(t.Target, ctx, set)
		case t.Type == TransitionWildcard:
			set.AddRange(la.atn.MinVocab(), la.atn.MaxVocab())
		case t.Type == TransitionNotSet:
			set.AddSet(t.Label.Complement(la.atn.MinVocab(), la.atn.MaxVocab()))
		default:
			set.AddSet(t.Label)
		}
	}
}

// Look returns the symbols that can come next at s within its rule. When the end of the rule
// is reachable the set holds antlr.TokenEpsilon. Predicates are seen through.
func (a *ATN) Look(s *State) *IntervalSet {
	set := NewIntervalSet()
	newLookAnalyzer(a, true).look(s, lookContext{}, set)
	return set
}

// DecisionLookahead returns the LL(1) lookahead of each alternative of decision state s. Leaving
// the rule follows the rule stop state's transitions, so the sets include what follows the rule
// anywhere in the grammar. An alternative that runs into a predicate, or whose lookahead is
// empty, gets nil.
func (a *ATN) DecisionLookahead(s *State) []*IntervalSet {
	look := make([]*IntervalSet, len(s.Transitions))
	for i, t := range s.Transitions {
		set := NewIntervalSet()
		la := newLookAnalyzer(a, false)
		la.look(t.Target, lookContext{global: true}, set)
		if set.IsEmpty() || la.hitPred {
			continue
		}
		look[i] = set
	}
	return look
}

// IsLL1 reports whether one symbol of lookahead always tells the alternatives apart: every set is
// known and no two sets share a symbol.
func IsLL1(look []*IntervalSet) bool {
	if len(look) == 0 {
		return false
	}
	union := NewIntervalSet()
	for _, set := range look {
		if set == nil {
			return false
		}
		if !union.And(set).IsEmpty() {
			return false
		}
		union.AddSet(set)
	}
	return true
}
