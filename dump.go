package logo

import (
	"fmt"
	"io"
	"strings"
)

// workspace printout: procedures and globals written back out in a form the
// line pump accepts again, so a dump is also a save file.

type dumper struct {
	in  *Interp
	out io.Writer
}

// DumpWorkspace writes every unburied procedure and every global variable
// to w as loadable source.
func (in *Interp) DumpWorkspace(w io.Writer) error {
	d := dumper{in: in, out: w}
	for _, p := range in.Procedures() {
		if err := d.proc(p); err != nil {
			return err
		}
	}
	return d.globals()
}

func (d dumper) proc(p *Procedure) error {
	var sb strings.Builder
	sb.WriteString("to ")
	sb.WriteString(p.Name())
	for _, param := range p.params {
		sb.WriteString(" :")
		sb.WriteString(d.in.store.WordText(param))
	}
	sb.WriteByte('\n')
	for lines := p.Body(); lines.IsList(); lines = d.in.store.Cdr(lines) {
		sb.WriteString(FormatValue(d.in.store, ListVal(d.in.store.Car(lines))))
		sb.WriteByte('\n')
	}
	sb.WriteString("end\n")
	_, err := io.WriteString(d.out, sb.String())
	return err
}

func (d dumper) globals() error {
	for _, name := range d.in.globalOrder {
		val := d.in.globals[name]
		_, err := fmt.Fprintf(d.out, "make \"%s %s\n",
			d.in.store.WordText(name), dumpSpelling(d.in.store, val))
		if err != nil {
			return err
		}
	}
	return nil
}

// dumpSpelling writes a value so MAKE reads it back: lists keep their
// brackets, words get re-quoted.
func dumpSpelling(st *Store, v Value) string {
	switch v.Kind {
	case KindList:
		return ShowValue(st, v)
	case KindWord:
		return `"` + st.WordText(v.Node)
	}
	return FormatValue(st, v)
}

func registerWorkspace(in *Interp) {
	in.Register("po", 1, primPo)
	in.Register("printout", 1, primPo)
	in.Register("poall", 0, primPoAll)
}

func primPo(in *Interp, args []Value) Result {
	name, res := needWord(in, "po", args[0])
	if res.abnormal() {
		return res
	}
	p := in.Proc(name)
	if p == nil {
		return Failf(ErrDontKnowHow, name, "")
	}
	var sb strings.Builder
	if err := (dumper{in: in, out: &sb}).proc(p); err != nil {
		return Fail(&Error{Code: ErrConsole})
	}
	return in.consoleWrite(sb.String())
}

func primPoAll(in *Interp, args []Value) Result {
	var sb strings.Builder
	if err := in.DumpWorkspace(&sb); err != nil {
		return Fail(&Error{Code: ErrConsole})
	}
	return in.consoleWrite(sb.String())
}
