package ucd

import (
	"strings"
	"unicode"
)

// contributoryProperties is a set of contributory properties. A char set cannot refer to them.
// Property statuses are defined in the following table.
//
// https://unicode.org/reports/tr44/#Property_List_Table
var contributoryProperties = []string{
	"oalpha",
	"olower",
	"oupper",
}

func ContributoryProperties() []string {
	return contributoryProperties
}

// https://www.unicode.org/reports/tr44/#GC_Values_Table
var compositGeneralCategories = map[string][]string{
	// Cased_Letter
	"LC": {"Lu", "Ll", "Lt"},
}

// generalCategoryValueAbbs maps the normalized aliases of the General_Category values to the
// names of the tables in unicode.Categories.
//
// https://www.unicode.org/Public/13.0.0/ucd/PropertyValueAliases.txt
var generalCategoryValueAbbs = map[string]string{}

// https://www.unicode.org/Public/13.0.0/ucd/PropertyValueAliases.txt
var generalCategoryAliases = [][]string{
	{"C", "Other"},
	{"Cc", "Control", "cntrl"},
	{"Cf", "Format"},
	{"Cn", "Unassigned"},
	{"Co", "Private_Use"},
	{"Cs", "Surrogate"},
	{"L", "Letter"},
	{"LC", "Cased_Letter"},
	{"Ll", "Lowercase_Letter"},
	{"Lm", "Modifier_Letter"},
	{"Lo", "Other_Letter"},
	{"Lt", "Titlecase_Letter"},
	{"Lu", "Uppercase_Letter"},
	{"M", "Mark", "Combining_Mark"},
	{"Mc", "Spacing_Mark"},
	{"Me", "Enclosing_Mark"},
	{"Mn", "Nonspacing_Mark"},
	{"N", "Number"},
	{"Nd", "Decimal_Number", "digit"},
	{"Nl", "Letter_Number"},
	{"No", "Other_Number"},
	{"P", "Punctuation", "punct"},
	{"Pc", "Connector_Punctuation"},
	{"Pd", "Dash_Punctuation"},
	{"Pe", "Close_Punctuation"},
	{"Pf", "Final_Punctuation"},
	{"Pi", "Initial_Punctuation"},
	{"Po", "Other_Punctuation"},
	{"Ps", "Open_Punctuation"},
	{"S", "Symbol"},
	{"Sc", "Currency_Symbol"},
	{"Sk", "Modifier_Symbol"},
	{"Sm", "Math_Symbol"},
	{"So", "Other_Symbol"},
	{"Z", "Separator"},
	{"Zl", "Line_Separator"},
	{"Zp", "Paragraph_Separator"},
	{"Zs", "Space_Separator"},
}

// scriptValueAbbs maps the normalized script names to the tables of unicode.Scripts.
var scriptValueAbbs = map[string]*unicode.RangeTable{}

// binaryPropertyTables maps the normalized names of the binary properties to the tables of
// unicode.Properties.
var binaryPropertyTables = map[string]*unicode.RangeTable{}

func init() {
	for _, aliases := range generalCategoryAliases {
		for _, a := range aliases {
			generalCategoryValueAbbs[normalizeSymbolicValue(a)] = aliases[0]
		}
	}
	for name, t := range unicode.Scripts {
		scriptValueAbbs[normalizeSymbolicValue(name)] = t
	}
	for name, t := range unicode.Properties {
		binaryPropertyTables[normalizeSymbolicValue(name)] = t
	}
}

// https://www.unicode.org/Public/13.0.0/ucd/DerivedCoreProperties.txt
var derivedCoreProperties = map[string][]*unicode.RangeTable{
	// Alphabetic
	"alpha": {
		unicode.Ll,
		unicode.Other_Lowercase,
		unicode.Lu,
		unicode.Other_Uppercase,
		unicode.Lt,
		unicode.Lm,
		unicode.Lo,
		unicode.Nl,
		unicode.Other_Alphabetic,
	},
	// Lowercase
	"lower": {
		unicode.Ll,
		unicode.Other_Lowercase,
	},
	// Uppercase
	"upper": {
		unicode.Lu,
		unicode.Other_Uppercase,
	},
}

// https://www.unicode.org/Public/13.0.0/ucd/PropertyAliases.txt
var propertyNameAbbs = map[string]string{
	"generalcategory": "gc",
	"gc":              "gc",
	"script":          "sc",
	"sc":              "sc",
	"alphabetic":      "alpha",
	"alpha":           "alpha",
	"otheralphabetic": "oalpha",
	"oalpha":          "oalpha",
	"lowercase":       "lower",
	"lower":           "lower",
	"uppercase":       "upper",
	"upper":           "upper",
	"otherlowercase":  "olower",
	"olower":          "olower",
	"otheruppercase":  "oupper",
	"oupper":          "oupper",
	"whitespace":      "wspace",
	"wspace":          "wspace",
	"space":           "wspace",
}

// otherPropertyTables holds the binary properties propertyNameAbbs names that are not
// derived.
var otherPropertyTables = map[string]*unicode.RangeTable{
	"oalpha": unicode.Other_Alphabetic,
	"olower": unicode.Other_Lowercase,
	"oupper": unicode.Other_Uppercase,
	"wspace": unicode.White_Space,
}

// https://www.unicode.org/reports/tr44/#Type_Key_Table
// https://www.unicode.org/reports/tr44/#Binary_Values_Table
var binaryValues = map[string]bool{
	"yes":   true,
	"y":     true,
	"true":  true,
	"t":     true,
	"no":    false,
	"n":     false,
	"false": false,
	"f":     false,
}

var symValReplacer = strings.NewReplacer("_", "", "-", "", "\x20", "")

// normalizeSymbolicValue normalizes a symbolic value. The normalized value meets UAX44-LM3.
//
// https://www.unicode.org/reports/tr44/#UAX44-LM3
func normalizeSymbolicValue(s string) string {
	v := strings.ToLower(symValReplacer.Replace(s))
	if strings.HasPrefix(v, "is") && v != "is" {
		return v[2:]
	}
	return v
}
