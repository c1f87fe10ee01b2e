package procedure

import "fmt"

// Args holds bound argument values keyed by parameter name. File, String and
// Radio values are strings, Int values are ints and Bool values are bools.
type Args map[string]interface{}

func (a Args) String(name string) (string, error) {
	v, ok := a[name]
	if !ok {
		return "", fmt.Errorf("%w: missing argument %q", ErrInvalidArgument, name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: argument %q is %T, not string", ErrInvalidArgument, name, v)
	}
	return s, nil
}

func (a Args) Int(name string) (int, error) {
	v, ok := a[name]
	if !ok {
		return 0, fmt.Errorf("%w: missing argument %q", ErrInvalidArgument, name)
	}
	i, ok := v.(int)
	if !ok {
		return 0, fmt.Errorf("%w: argument %q is %T, not int", ErrInvalidArgument, name, v)
	}
	return i, nil
}

func (a Args) Bool(name string) (bool, error) {
	v, ok := a[name]
	if !ok {
		return false, fmt.Errorf("%w: missing argument %q", ErrInvalidArgument, name)
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: argument %q is %T, not bool", ErrInvalidArgument, name, v)
	}
	return b, nil
}

func (a Args) clone() Args {
	cp := make(Args, len(a))
	for k, v := range a {
		cp[k] = v
	}
	return cp
}
