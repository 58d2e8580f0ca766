package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// WriteEDN writes v as EDN. Values go through JSON first so json tags decide
// key names; only maps, vectors, strings, numbers, booleans and nil come out.
func WriteEDN(w io.Writer, v any, pretty bool) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var x any
	if err := dec.Decode(&x); err != nil {
		return err
	}

	p := ednPrinter{pretty: pretty}
	p.value(x, 0)
	p.buf.WriteByte('\n')
	_, err = w.Write(p.buf.Bytes())
	return err
}

type ednPrinter struct {
	buf    bytes.Buffer
	pretty bool
}

func (p *ednPrinter) value(v any, depth int) {
	switch t := v.(type) {
	case nil:
		p.buf.WriteString("nil")
	case bool:
		p.buf.WriteString(strconv.FormatBool(t))
	case string:
		p.buf.WriteString(strconv.Quote(t))
	case json.Number:
		p.buf.WriteString(t.String())
	case []any:
		p.collection('[', ']', len(t), depth, func(i int) {
			p.value(t[i], depth+1)
		})
	case map[string]any:
		keys := slices.Sorted(maps.Keys(t))
		p.collection('{', '}', len(keys), depth, func(i int) {
			p.buf.WriteString(ednKeyword(keys[i]))
			p.buf.WriteByte(' ')
			p.value(t[keys[i]], depth+1)
		})
	default:
		p.buf.WriteString(strconv.Quote(fmt.Sprint(v)))
	}
}

// collection writes n entries between open and end. Compact output
// separates entries with a space; pretty output puts each on its own line.
func (p *ednPrinter) collection(open, end byte, n, depth int, entry func(i int)) {
	p.buf.WriteByte(open)
	for i := range n {
		switch {
		case p.pretty:
			p.buf.WriteByte('\n')
			p.buf.WriteString(strings.Repeat("  ", depth+1))
		case i > 0:
			p.buf.WriteByte(' ')
		}
		entry(i)
	}
	if p.pretty && n > 0 {
		p.buf.WriteByte('\n')
		p.buf.WriteString(strings.Repeat("  ", depth))
	}
	p.buf.WriteByte(end)
}

// ednKeyword turns a json key into a keyword: snake_case becomes kebab-case.
func ednKeyword(s string) string {
	s = strings.TrimSpace(s)
	return ":" + strings.NewReplacer(" ", "-", "_", "-").Replace(s)
}
