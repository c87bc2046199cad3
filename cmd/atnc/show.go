package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/nihei9/atnc/atn"
	"github.com/nihei9/atnc/compiler"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newShowCommand(gs *globalState) *cobra.Command {
	return &cobra.Command{
		Use:     "show",
		Short:   "Print an ATN in a readable format",
		Example: `  atnc show expr.json`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			desc, err := readDescription(gs.fs, args[0])
			if err != nil {
				return err
			}
			return writeDescriptionReport(gs.stdout, desc)
		},
	}
}

func readDescription(fs afero.Fs, path string) (*compiler.Description, error) {
	d, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the ATN %s: %w", path, err)
	}

	desc := &compiler.Description{}
	err = json.Unmarshal(d, desc)
	if err != nil {
		return nil, err
	}
	if desc.ATN == nil {
		return nil, fmt.Errorf("%s contains no ATN", path)
	}

	return desc, nil
}

const descriptionTemplate = `# Grammar

{{ .Name }} ({{ .Type }})
{{ if .Lexer }}
# Lexer
{{ template "atn" .Lexer }}{{ end }}
# {{ if .Lexer }}Parser{{ else }}ATN{{ end }}
{{ template "atn" .ATN }}`

const atnTemplate = `{{ define "atn" }}
## Rules

{{ range .Rules -}}
{{ printRule . }}
{{ end -}}
{{ if .Modes }}
## Modes

{{ range .Modes -}}
{{ printMode . }}
{{ end -}}
{{ end }}
## Decisions

{{ printDecisionSummary .Decisions }}
{{ range .Decisions -}}
{{ printDecision . }}
{{ end -}}
{{ if .LexerActions }}
## Lexer Actions

{{ range $i, $a := .LexerActions -}}
{{ printf "%4v %v" $i $a }}
{{ end -}}
{{ end }}
## States
{{ $atn := . }}{{ range .States }}
### State {{ .Number }} {{ .Type }}{{ if ge .Decision 0 }} (decision {{ .Decision }}){{ end }}{{ if .NonGreedy }} non-greedy{{ end }}

{{ range .Transitions -}}
{{ printTransition $atn . }}
{{ end -}}
{{ end -}}
{{ end }}`

func writeDescriptionReport(w io.Writer, desc *compiler.Description) error {
	ruleName := func(d *atn.Description, index int) string {
		if index < 0 || index >= len(d.Rules) {
			return fmt.Sprintf("#%v", index)
		}
		return d.Rules[index].Name
	}

	fns := template.FuncMap{
		"printRule": func(r *atn.RuleDescription) string {
			if r.TokenType != nil {
				return fmt.Sprintf("%4v %v (token %v) %v → %v", r.Index, r.Name, *r.TokenType, r.StartState, r.StopState)
			}
			return fmt.Sprintf("%4v %v %v → %v", r.Index, r.Name, r.StartState, r.StopState)
		},
		"printMode": func(m *atn.ModeDescription) string {
			return fmt.Sprintf("%4v %v %v", m.Index, m.Name, m.StartState)
		},
		"printDecisionSummary": func(decs []*atn.DecisionDescription) string {
			var ll1 int
			for _, d := range decs {
				if d.LL1 {
					ll1++
				}
			}
			switch {
			case len(decs) == 0:
				return "No decision"
			case len(decs) == 1:
				return fmt.Sprintf("1 decision (%v LL(1))", ll1)
			default:
				return fmt.Sprintf("%v decisions (%v LL(1))", len(decs), ll1)
			}
		},
		"printDecision": func(d *atn.DecisionDescription) string {
			var b strings.Builder
			for i, look := range d.Lookahead {
				if i > 0 {
					fmt.Fprintf(&b, " |")
				}
				if look == "" {
					fmt.Fprintf(&b, " ?")
				} else {
					fmt.Fprintf(&b, " %v", look)
				}
			}
			ll1 := ""
			if !d.LL1 {
				ll1 = " (not LL(1))"
			}
			rule := d.Rule
			if rule == "" {
				rule = "-"
			}
			return fmt.Sprintf("%4v state %v in %v:%v%v", d.Number, d.State, rule, b.String(), ll1)
		},
		"printTransition": func(d *atn.Description, t *atn.TransitionDescription) string {
			var b strings.Builder
			fmt.Fprintf(&b, "%-10v → %v", t.Type, t.Target)
			if t.Label != "" {
				fmt.Fprintf(&b, " on %v", t.Label)
			}
			if t.Rule != nil {
				fmt.Fprintf(&b, " call %v", ruleName(d, *t.Rule))
				if t.FollowState != nil {
					fmt.Fprintf(&b, " follow %v", *t.FollowState)
				}
			}
			if t.Predicate != nil {
				fmt.Fprintf(&b, " predicate %v", *t.Predicate)
			}
			if t.Action != nil {
				fmt.Fprintf(&b, " action %v", *t.Action)
			}
			if t.Precedence != nil && *t.Precedence != 0 {
				fmt.Fprintf(&b, " precedence %v", *t.Precedence)
			}
			return b.String()
		},
	}

	tmpl, err := template.New("").Funcs(fns).Parse(atnTemplate + descriptionTemplate)
	if err != nil {
		return err
	}

	err = tmpl.Execute(w, desc)
	if err != nil {
		return err
	}

	return nil
}
