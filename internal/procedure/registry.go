package procedure

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/c-sanders/FaceDetect-Plugin/internal/logger"
)

var (
	ErrNotFound          = errors.New("procedure not found")
	ErrDuplicate         = errors.New("procedure already registered")
	ErrInvalidProcedure  = errors.New("invalid procedure")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrCalledWithoutArgs = errors.New("procedure called without required arguments")
)

// MenuRoots are the menu trees a procedure may be placed in.
var MenuRoots = []string{"<Image>", "<Toolbox>"}

type Registry struct {
	mu       sync.RWMutex
	procs    map[string]*Procedure
	lastArgs map[string]Args
	logger   logger.Logger
}

func NewRegistry(log logger.Logger) *Registry {
	if log == nil {
		log = logger.Nop()
	}
	return &Registry{
		procs:    make(map[string]*Procedure),
		lastArgs: make(map[string]Args),
		logger:   log,
	}
}

// Register validates p and stores a copy of it.
func (r *Registry) Register(p *Procedure) error {
	if p == nil {
		return fmt.Errorf("%w: nil procedure", ErrInvalidProcedure)
	}
	if err := validate(p); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.procs[p.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, p.Name)
	}
	r.procs[p.Name] = p.clone()

	r.logger.Debug("Registry", "procedure registered", map[string]interface{}{
		"procedure": p.Name,
		"menu":      p.MenuPath + p.MenuLabel,
		"params":    len(p.Params),
	})
	return nil
}

// Update applies fn to a copy of the named procedure and stores the result if
// it still validates. The name cannot be changed.
func (r *Registry) Update(name string, fn func(p *Procedure) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.procs[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	updated := current.clone()
	if err := fn(updated); err != nil {
		return fmt.Errorf("update %s: %w", name, err)
	}
	if updated.Name != name {
		return fmt.Errorf("%w: %s cannot be renamed to %s", ErrInvalidProcedure, name, updated.Name)
	}
	if err := validate(updated); err != nil {
		return err
	}

	r.procs[name] = updated
	delete(r.lastArgs, name)
	return nil
}

func (r *Registry) Lookup(name string) (*Procedure, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.procs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return p.clone(), nil
}

// List returns every procedure ordered by menu path, then label, then name.
func (r *Registry) List() []*Procedure {
	r.mu.RLock()
	procs := make([]*Procedure, 0, len(r.procs))
	for _, p := range r.procs {
		procs = append(procs, p.clone())
	}
	r.mu.RUnlock()

	sort.Slice(procs, func(i, j int) bool {
		a, b := procs[i], procs[j]
		if a.MenuPath != b.MenuPath {
			return a.MenuPath < b.MenuPath
		}
		if a.MenuLabel != b.MenuLabel {
			return a.MenuLabel < b.MenuLabel
		}
		return a.Name < b.Name
	})
	return procs
}

// LastArgs returns the arguments of the last successful run of name.
func (r *Registry) LastArgs(name string) (Args, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	args, ok := r.lastArgs[name]
	if !ok {
		return nil, false
	}
	return args.clone(), true
}

// Run binds raw according to mode and invokes the procedure.
func (r *Registry) Run(ctx context.Context, name string, mode RunMode, raw map[string]string) error {
	proc, err := r.Lookup(name)
	if err != nil {
		return err
	}

	var args Args
	switch mode {
	case NonInteractive:
		args, err = BindStrict(proc, raw)
	case WithLastVals:
		if last, ok := r.LastArgs(name); ok {
			args = last
		} else {
			args, err = Bind(proc, raw)
		}
	default:
		args, err = Bind(proc, raw)
	}
	if err != nil {
		return err
	}

	r.logger.Info("Registry", "running procedure", map[string]interface{}{
		"procedure": name,
		"mode":      mode.String(),
	})

	if err := proc.Run(ctx, &Call{Procedure: proc, Mode: mode, Args: args}); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	r.mu.Lock()
	r.lastArgs[name] = args.clone()
	r.mu.Unlock()
	return nil
}

// RunPositional is Run with the arguments given in parameter order.
func (r *Registry) RunPositional(ctx context.Context, name string, mode RunMode, values []string) error {
	proc, err := r.Lookup(name)
	if err != nil {
		return err
	}
	raw, err := Positional(proc, values)
	if err != nil {
		return err
	}
	return r.Run(ctx, name, mode, raw)
}

func validate(p *Procedure) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidProcedure)
	}
	if p.Run == nil {
		return fmt.Errorf("%w: %s has no run function", ErrInvalidProcedure, p.Name)
	}

	if p.MenuPath != "" {
		root, _ := splitMenuPath(p.MenuPath)
		known := false
		for _, r := range MenuRoots {
			if root == r {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("%w: %s: menu path %q must start with one of %s",
				ErrInvalidProcedure, p.Name, p.MenuPath, strings.Join(MenuRoots, ", "))
		}
	}

	seen := make(map[string]bool, len(p.Params))
	for _, def := range p.Params {
		if strings.TrimSpace(def.Name) == "" {
			return fmt.Errorf("%w: %s has a parameter without a name", ErrInvalidProcedure, p.Name)
		}
		if seen[def.Name] {
			return fmt.Errorf("%w: %s: duplicate parameter %s", ErrInvalidProcedure, p.Name, def.Name)
		}
		seen[def.Name] = true

		if def.Type == Radio {
			if len(def.Options) == 0 {
				return fmt.Errorf("%w: %s: radio parameter %s has no options", ErrInvalidProcedure, p.Name, def.Name)
			}
			values := make(map[string]bool, len(def.Options))
			for _, opt := range def.Options {
				if values[opt.Value] {
					return fmt.Errorf("%w: %s: radio parameter %s repeats option %s",
						ErrInvalidProcedure, p.Name, def.Name, opt.Value)
				}
				values[opt.Value] = true
			}
		}

		if _, err := convert(def, def.Default); err != nil {
			return fmt.Errorf("%w: %s: bad default: %v", ErrInvalidProcedure, p.Name, err)
		}
	}
	return nil
}
