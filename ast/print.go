package ast

import (
	"fmt"
	"io"
)

// PrintTree writes t to w as a ruled tree.
func PrintTree(w io.Writer, t *Node) {
	printTree(w, t, "", "")
}

func printTree(w io.Writer, t *Node, ruledLine string, childRuledLinePrefix string) {
	if t == nil {
		return
	}
	label := t.String()
	if t.AltLabel != "" {
		label = fmt.Sprintf("%v #%v", label, t.AltLabel)
	}
	if t.NonGreedy {
		label = fmt.Sprintf("%v (non-greedy)", label)
	}
	fmt.Fprintf(w, "%v%v\n", ruledLine, label)
	num := len(t.children)
	for i, child := range t.children {
		line := "└─ "
		prefix := "   "
		if i < num-1 {
			line = "├─ "
			prefix = "│  "
		}
		printTree(w, child, childRuledLinePrefix+line, childRuledLinePrefix+prefix)
	}
}
