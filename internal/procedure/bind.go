package procedure

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Bind converts raw string arguments to typed values. Parameters missing from
// raw take their default.
func Bind(p *Procedure, raw map[string]string) (Args, error) {
	return bind(p, raw, true)
}

// BindStrict is Bind without defaults: every parameter must be supplied, as a
// non-interactive caller has no dialog to fill the gaps.
func BindStrict(p *Procedure, raw map[string]string) (Args, error) {
	return bind(p, raw, false)
}

// Positional maps ordered values onto the procedure's parameters.
func Positional(p *Procedure, values []string) (map[string]string, error) {
	if len(values) > len(p.Params) {
		return nil, fmt.Errorf("%w: %s takes %d arguments, got %d",
			ErrInvalidArgument, p.Name, len(p.Params), len(values))
	}
	raw := make(map[string]string, len(values))
	for i, v := range values {
		raw[p.Params[i].Name] = v
	}
	return raw, nil
}

func bind(p *Procedure, raw map[string]string, useDefaults bool) (Args, error) {
	var unknown []string
	for name := range raw {
		if _, ok := p.Param(name); !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%w: %s has no parameter %s",
			ErrInvalidArgument, p.Name, strings.Join(unknown, ", "))
	}

	args := make(Args, len(p.Params))
	var missing []string
	for _, def := range p.Params {
		s, ok := raw[def.Name]
		if !ok {
			if !useDefaults {
				missing = append(missing, def.Name)
				continue
			}
			s = def.Default
		}

		v, err := convert(def, s)
		if err != nil {
			return nil, err
		}
		args[def.Name] = v
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s is missing %s",
			ErrCalledWithoutArgs, p.Name, strings.Join(missing, ", "))
	}
	return args, nil
}

func convert(def ParamDef, s string) (interface{}, error) {
	switch def.Type {
	case File, String:
		return s, nil
	case Int:
		if strings.TrimSpace(s) == "" {
			return 0, nil
		}
		i, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %q is not an integer", ErrInvalidArgument, def.Name, s)
		}
		return i, nil
	case Bool:
		if strings.TrimSpace(s) == "" {
			return false, nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %q is not a boolean", ErrInvalidArgument, def.Name, s)
		}
		return b, nil
	case Radio:
		return resolveRadio(def, s)
	default:
		return nil, fmt.Errorf("%w: %s has unsupported type %s", ErrInvalidArgument, def.Name, def.Type)
	}
}

// resolveRadio accepts an option value, an option label, or the option's
// index, which is how batch callers usually pass radio choices.
func resolveRadio(def ParamDef, s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, opt := range def.Options {
		if opt.Value == s {
			return opt.Value, nil
		}
	}
	for _, opt := range def.Options {
		if strings.EqualFold(opt.Value, s) || strings.EqualFold(opt.Label, s) {
			return opt.Value, nil
		}
	}
	if i, err := strconv.Atoi(s); err == nil && i >= 0 && i < len(def.Options) {
		return def.Options[i].Value, nil
	}
	return "", fmt.Errorf("%w: %s: %q is not one of %s",
		ErrInvalidArgument, def.Name, s, optionValues(def.Options))
}

func optionValues(opts []RadioOption) string {
	values := make([]string, len(opts))
	for i, opt := range opts {
		values[i] = opt.Value
	}
	return strings.Join(values, ", ")
}
