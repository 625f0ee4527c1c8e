// Package debian reads Debian control data: dpkg status files, APT
// Packages lists and the dependency relations declared inside them.
package debian

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// maxLineSize bounds a single control-file line. Some Description fields
// in the archive are long.
const maxLineSize = 1024 * 1024

// Field is a single "Name: value" entry of a paragraph.
type Field struct {
	Name  string
	Value string
}

// Paragraph is one stanza of a control file. Field names are matched
// case-insensitively.
type Paragraph struct {
	fields []Field
	index  map[string]int
}

// Get returns the value of the named field, or "" if it is absent.
func (p Paragraph) Get(name string) string {
	if i, ok := p.index[strings.ToLower(name)]; ok {
		return p.fields[i].Value
	}
	return ""
}

// Len returns the number of fields.
func (p Paragraph) Len() int {
	return len(p.fields)
}

func (p *Paragraph) set(name, value string) {
	if p.index == nil {
		p.index = make(map[string]int)
	}
	key := strings.ToLower(name)
	if i, ok := p.index[key]; ok {
		p.fields[i].Value = value
		return
	}
	p.index[key] = len(p.fields)
	p.fields = append(p.fields, Field{Name: name, Value: value})
}

func (p *Paragraph) appendLast(line string) {
	last := &p.fields[len(p.fields)-1]
	if line == "." {
		line = ""
	}
	last.Value += "\n" + line
}

// SyntaxError reports a malformed line. The paragraph containing it is
// skipped; reading can continue with the next paragraph.
type SyntaxError struct {
	Line int
	Text string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("control data line %d: malformed field %q", e.Line, e.Text)
}

// Reader reads paragraphs one at a time from a control file.
type Reader struct {
	scanner *bufio.Scanner
	line    int
	err     error
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Reader{scanner: scanner}
}

// Next returns the next paragraph. It returns io.EOF when the input is
// exhausted, and a *SyntaxError for a paragraph with a malformed line.
// Any other error is sticky.
func (r *Reader) Next() (Paragraph, error) {
	if r.err != nil {
		return Paragraph{}, r.err
	}

	var (
		para   Paragraph
		synErr *SyntaxError
	)
	for r.scanner.Scan() {
		r.line++
		line := r.scanner.Text()

		if strings.TrimSpace(line) == "" {
			if para.Len() == 0 && synErr == nil {
				continue
			}
			if synErr != nil {
				return Paragraph{}, synErr
			}
			return para, nil
		}
		if synErr != nil {
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}

		// Continuation line (starts with space or tab)
		if line[0] == ' ' || line[0] == '\t' {
			if para.Len() == 0 {
				synErr = &SyntaxError{Line: r.line, Text: line}
				continue
			}
			para.appendLast(strings.TrimSpace(line))
			continue
		}

		name, value, ok := strings.Cut(line, ":")
		if !ok || strings.TrimSpace(name) == "" {
			synErr = &SyntaxError{Line: r.line, Text: line}
			continue
		}
		para.set(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	if err := r.scanner.Err(); err != nil {
		r.err = fmt.Errorf("scanning control data: %w", err)
		return Paragraph{}, r.err
	}
	if synErr != nil {
		r.err = io.EOF
		return Paragraph{}, synErr
	}
	if para.Len() > 0 {
		r.err = io.EOF
		return para, nil
	}
	r.err = io.EOF
	return Paragraph{}, io.EOF
}

// CountPackages counts the "Package:" fields in r. It does not parse
// paragraphs and is used for quick size estimates.
func CountPackages(r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	count := 0
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) > 8 && (line[0] == 'P' || line[0] == 'p') &&
			strings.EqualFold(string(line[:8]), "Package:") {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("counting packages: %w", err)
	}
	return count, nil
}
