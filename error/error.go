package error

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

type SpecErrors []*SpecError

func (e SpecErrors) Error() string {
	if len(e) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%v", e[0])
	for _, err := range e[1:] {
		fmt.Fprintf(&b, "\n%v", err)
	}

	return b.String()
}

// Sort orders the errors by their positions. Errors without a position come first.
func (e SpecErrors) Sort() {
	sort.SliceStable(e, func(i, j int) bool {
		if e[i].Row != e[j].Row {
			return e[i].Row < e[j].Row
		}
		return e[i].Col < e[j].Col
	})
}

type SpecError struct {
	Cause      error
	Detail     string
	FilePath   string
	SourceName string
	Row        int
	Col        int

	// Rule is the name of the grammar rule the error belongs to, if any.
	Rule string

	// Source holds the grammar text. When it is set, the offending line is read from it
	// instead of the file at FilePath.
	Source []byte
}

func (e *SpecError) Error() string {
	var b strings.Builder
	if e.SourceName != "" {
		fmt.Fprintf(&b, "%v: ", e.SourceName)
	}
	if e.Row != 0 {
		fmt.Fprintf(&b, "%v: ", e.Row)
	}
	if e.Col != 0 {
		fmt.Fprintf(&b, "%v: ", e.Col)
	}
	fmt.Fprintf(&b, "error: %v", e.Cause)
	if e.Detail != "" {
		fmt.Fprintf(&b, ": %v", e.Detail)
	}

	line := e.readLine()
	if line != "" {
		fmt.Fprintf(&b, "\n    %v", line)
	}

	return b.String()
}

func (e *SpecError) Unwrap() error {
	return e.Cause
}

func (e *SpecError) readLine() string {
	if e.Row <= 0 {
		return ""
	}
	if e.Source != nil {
		return readLine(strings.NewReader(string(e.Source)), e.Row)
	}
	if e.FilePath == "" {
		return ""
	}

	f, err := os.Open(e.FilePath)
	if err != nil {
		return ""
	}
	defer f.Close()

	return readLine(f, e.Row)
}

func readLine(r io.Reader, row int) string {
	i := 1
	s := bufio.NewScanner(r)
	for s.Scan() {
		if i == row {
			return s.Text()
		}
		i++
	}

	return ""
}
