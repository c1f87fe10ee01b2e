package procedure

import (
	"context"
	"fmt"
	"strings"
)

// ParamType is the kind of widget/value a parameter takes.
type ParamType int

const (
	File ParamType = iota
	String
	Int
	Bool
	Radio
)

func (t ParamType) String() string {
	switch t {
	case File:
		return "file"
	case String:
		return "string"
	case Int:
		return "int"
	case Bool:
		return "bool"
	case Radio:
		return "radio"
	default:
		return fmt.Sprintf("ParamType(%d)", int(t))
	}
}

// RadioOption is one choice of a Radio parameter. Value is what the procedure
// receives; Label is what the user sees.
type RadioOption struct {
	Label string
	Value string
}

// ParamDef declares one procedure parameter. Default is kept in its string
// form and converted at bind time.
type ParamDef struct {
	Type        ParamType
	Name        string
	Description string
	Default     string
	Options     []RadioOption
}

// RunMode mirrors how the host invoked the procedure.
type RunMode int

const (
	Interactive RunMode = iota
	NonInteractive
	WithLastVals
)

func (m RunMode) String() string {
	switch m {
	case Interactive:
		return "interactive"
	case NonInteractive:
		return "non-interactive"
	case WithLastVals:
		return "with-last-vals"
	default:
		return fmt.Sprintf("RunMode(%d)", int(m))
	}
}

// Call is passed to a running procedure.
type Call struct {
	Procedure *Procedure
	Mode      RunMode
	Args      Args
}

// RunFunc is the body of a procedure.
type RunFunc func(ctx context.Context, call *Call) error

// Procedure is everything a plugin registers with the host.
type Procedure struct {
	Name      string
	Blurb     string
	Help      string
	Author    string
	Copyright string
	Date      string

	// MenuLabel is the item text, MenuPath the location it is placed under,
	// e.g. "<Image>/Image/Craig's Utilities/".
	MenuLabel string
	MenuPath  string

	// ImageTypes is empty for procedures that create new images rather than
	// working on an open one.
	ImageTypes string

	// Interpreter runs script-backed procedures. Empty means the procedure
	// chooses its own.
	Interpreter string

	Params []ParamDef
	Run    RunFunc
}

// Param returns the definition of the named parameter.
func (p *Procedure) Param(name string) (ParamDef, bool) {
	for _, def := range p.Params {
		if def.Name == name {
			return def, true
		}
	}
	return ParamDef{}, false
}

// clone returns a copy that shares no slices with p.
func (p *Procedure) clone() *Procedure {
	cp := *p
	cp.Params = make([]ParamDef, len(p.Params))
	for i, def := range p.Params {
		def.Options = append([]RadioOption(nil), def.Options...)
		cp.Params[i] = def
	}
	return &cp
}

func splitMenuPath(path string) (string, []string) {
	parts := strings.Split(path, "/")
	var segments []string
	for _, part := range parts[1:] {
		if part = strings.TrimSpace(part); part != "" {
			segments = append(segments, part)
		}
	}
	return parts[0], segments
}
