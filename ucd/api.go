package ucd

import (
	"fmt"
	"sort"
	"unicode"
)

// CodePointRange is an inclusive range of code points.
type CodePointRange struct {
	From rune
	To   rune
}

func IsContributoryProperty(propName string) bool {
	if propName == "" {
		return false
	}

	name, ok := propertyNameAbbs[normalizeSymbolicValue(propName)]
	if !ok {
		return false
	}
	for _, p := range contributoryProperties {
		if name == p {
			return true
		}
	}
	return false
}

// FindCodePointRanges returns the code points whose property propName has the value propVal.
// When inverse is true, the answer is the complement of the returned ranges. An empty propName
// lets propVal name a General_Category value, a script, or a binary property holding `yes`.
// The ranges are sorted and may overlap.
func FindCodePointRanges(propName, propVal string) ([]*CodePointRange, bool, error) {
	if propName == "" {
		return findCodePointRangesByValue(propVal)
	}

	name, ok := propertyNameAbbs[normalizeSymbolicValue(propName)]
	if !ok {
		if t, ok := binaryPropertyTables[normalizeSymbolicValue(propName)]; ok {
			return binaryRanges(propVal, t)
		}
		return nil, false, fmt.Errorf("unsupported character property name: %v", propName)
	}
	switch name {
	case "gc":
		ranges, inverse, ok := generalCategoryRanges(propVal)
		if !ok {
			return nil, false, fmt.Errorf("unsupported character property value: %v", propVal)
		}
		return ranges, inverse, nil
	case "sc":
		t, ok := scriptValueAbbs[normalizeSymbolicValue(propVal)]
		if !ok {
			return nil, false, fmt.Errorf("unsupported character property value: %v", propVal)
		}
		return fromTables(t), false, nil
	}
	if ts, ok := derivedCoreProperties[name]; ok {
		return binaryRanges(propVal, ts...)
	}
	t, ok := otherPropertyTables[name]
	if !ok {
		// If the process reaches this code, it's a bug. We must handle all of the properties
		// registered with the `propertyNameAbbs`.
		return nil, false, fmt.Errorf("character property '%v' is unavailable", propName)
	}
	return binaryRanges(propVal, t)
}

func findCodePointRangesByValue(propVal string) ([]*CodePointRange, bool, error) {
	if ranges, inverse, ok := generalCategoryRanges(propVal); ok {
		return ranges, inverse, nil
	}
	v := normalizeSymbolicValue(propVal)
	if t, ok := scriptValueAbbs[v]; ok {
		return fromTables(t), false, nil
	}
	if name, ok := propertyNameAbbs[v]; ok && name != "gc" && name != "sc" {
		return FindCodePointRanges(name, "yes")
	}
	if t, ok := binaryPropertyTables[v]; ok {
		return fromTables(t), false, nil
	}
	return nil, false, fmt.Errorf("unsupported character property: %v", propVal)
}

func binaryRanges(propVal string, ts ...*unicode.RangeTable) ([]*CodePointRange, bool, error) {
	yes, ok := binaryValues[normalizeSymbolicValue(propVal)]
	if !ok {
		return nil, false, fmt.Errorf("unsupported character property value: %v", propVal)
	}
	return fromTables(ts...), !yes, nil
}

func generalCategoryRanges(propVal string) ([]*CodePointRange, bool, bool) {
	val, ok := generalCategoryValueAbbs[normalizeSymbolicValue(propVal)]
	if !ok {
		return nil, false, false
	}
	// Unassigned code points are the ones no other category holds.
	if val == "Cn" {
		var ts []*unicode.RangeTable
		for _, c := range []string{"C", "L", "M", "N", "P", "S", "Z"} {
			ts = append(ts, unicode.Categories[c])
		}
		return fromTables(ts...), true, true
	}
	vals, ok := compositGeneralCategories[val]
	if !ok {
		vals = []string{val}
	}
	var ts []*unicode.RangeTable
	for _, v := range vals {
		t, ok := unicode.Categories[v]
		if !ok {
			return nil, false, false
		}
		ts = append(ts, t)
	}
	return fromTables(ts...), false, true
}

func fromTables(ts ...*unicode.RangeTable) []*CodePointRange {
	var ranges []*CodePointRange
	add := func(lo, hi, stride rune) {
		if stride == 1 {
			ranges = append(ranges, &CodePointRange{
				From: lo,
				To:   hi,
			})
			return
		}
		for cp := lo; cp <= hi; cp += stride {
			ranges = append(ranges, &CodePointRange{
				From: cp,
				To:   cp,
			})
		}
	}
	for _, t := range ts {
		for _, r := range t.R16 {
			add(rune(r.Lo), rune(r.Hi), rune(r.Stride))
		}
		for _, r := range t.R32 {
			add(rune(r.Lo), rune(r.Hi), rune(r.Stride))
		}
	}
	sort.Slice(ranges, func(i, j int) bool {
		return ranges[i].From < ranges[j].From
	})
	return ranges
}
