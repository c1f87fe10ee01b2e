// Package manifest reads HCL plugin manifests. A manifest adjusts how an
// already registered procedure is presented (menu placement, labels, default
// argument values, interpreter) without rebuilding the plugin:
//
//	plugin "runPlugin" {
//	  menu_path   = "<Image>/Filters/Faces/"
//	  interpreter = "python3"
//
//	  param "filename_cascade" {
//	    default = "${home}/haarcascades/haarcascade_frontalface_default.xml"
//	  }
//	}
//
// Expressions can reference home, config_dir and env (a map of the process
// environment).
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// Manifest is the decoded, format-agnostic content of one or more files.
type Manifest struct {
	Plugins []*Plugin
}

// Plugin holds the overrides for one procedure. Nil fields are left as
// registered.
type Plugin struct {
	Name        string
	Source      string
	Blurb       *string
	MenuPath    *string
	MenuLabel   *string
	Interpreter *string
	Params      []*Param
}

type Param struct {
	Name        string
	Default     *string
	Description *string
}

// Vars are the values exposed to manifest expressions.
type Vars struct {
	Home      string
	ConfigDir string
	Env       map[string]string
}

// DefaultVars reads the variables from the running process.
func DefaultVars() Vars {
	home, _ := os.UserHomeDir()
	configDir, _ := os.UserConfigDir()

	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			env[k] = v
		}
	}
	return Vars{Home: home, ConfigDir: configDir, Env: env}
}

func (v Vars) evalContext() *hcl.EvalContext {
	env := cty.MapValEmpty(cty.String)
	if len(v.Env) > 0 {
		vals := make(map[string]cty.Value, len(v.Env))
		for k, val := range v.Env {
			vals[k] = cty.StringVal(val)
		}
		env = cty.MapVal(vals)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"home":       cty.StringVal(v.Home),
			"config_dir": cty.StringVal(v.ConfigDir),
			"env":        env,
		},
	}
}

// fileSchema is the top level of a manifest file.
type fileSchema struct {
	Plugins []*pluginBlock `hcl:"plugin,block"`
}

type pluginBlock struct {
	Name        string        `hcl:"name,label"`
	Blurb       *string       `hcl:"blurb,optional"`
	MenuPath    *string       `hcl:"menu_path,optional"`
	MenuLabel   *string       `hcl:"menu_label,optional"`
	Interpreter *string       `hcl:"interpreter,optional"`
	Params      []*paramBlock `hcl:"param,block"`
}

type paramBlock struct {
	Name        string  `hcl:"name,label"`
	Default     *string `hcl:"default,optional"`
	Description *string `hcl:"description,optional"`
}

// Load parses each path. Directories contribute every *.hcl file they
// contain, in lexical order.
func Load(vars Vars, paths ...string) (*Manifest, error) {
	files, err := expand(paths)
	if err != nil {
		return nil, err
	}

	parser := hclparse.NewParser()
	m := &Manifest{}
	var allDiags hcl.Diagnostics

	for _, path := range files {
		hclFile, diags := parser.ParseHCLFile(path)
		allDiags = append(allDiags, diags...)
		if diags.HasErrors() {
			continue
		}
		plugins, diags := decode(hclFile, path, vars)
		allDiags = append(allDiags, diags...)
		m.Plugins = append(m.Plugins, plugins...)
	}

	if allDiags.HasErrors() {
		return nil, allDiags
	}
	if err := m.check(); err != nil {
		return nil, err
	}
	return m, nil
}

// Parse decodes manifest source held in memory.
func Parse(src []byte, filename string, vars Vars) (*Manifest, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diags
	}
	plugins, diags := decode(hclFile, filename, vars)
	if diags.HasErrors() {
		return nil, diags
	}

	m := &Manifest{Plugins: plugins}
	if err := m.check(); err != nil {
		return nil, err
	}
	return m, nil
}

func decode(hclFile *hcl.File, path string, vars Vars) ([]*Plugin, hcl.Diagnostics) {
	var schema fileSchema
	diags := gohcl.DecodeBody(hclFile.Body, vars.evalContext(), &schema)
	if diags.HasErrors() {
		return nil, diags
	}

	plugins := make([]*Plugin, 0, len(schema.Plugins))
	for _, block := range schema.Plugins {
		p := &Plugin{
			Name:        block.Name,
			Source:      path,
			Blurb:       block.Blurb,
			MenuPath:    block.MenuPath,
			MenuLabel:   block.MenuLabel,
			Interpreter: block.Interpreter,
		}
		for _, pb := range block.Params {
			p.Params = append(p.Params, &Param{
				Name:        pb.Name,
				Default:     pb.Default,
				Description: pb.Description,
			})
		}
		plugins = append(plugins, p)
	}
	return plugins, diags
}

// check rejects the same plugin or parameter being described twice.
func (m *Manifest) check() error {
	seen := make(map[string]string)
	for _, p := range m.Plugins {
		if prev, ok := seen[p.Name]; ok {
			return fmt.Errorf("plugin %q declared in both %s and %s", p.Name, prev, p.Source)
		}
		seen[p.Name] = p.Source

		params := make(map[string]bool)
		for _, param := range p.Params {
			if params[param.Name] {
				return fmt.Errorf("%s: plugin %q declares param %q twice", p.Source, p.Name, param.Name)
			}
			params[param.Name] = true
		}
	}
	return nil
}

func expand(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("manifest %s: %w", path, err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(path, "*.hcl"))
		if err != nil {
			return nil, err
		}
		sort.Strings(matches)
		files = append(files, matches...)
	}
	return files, nil
}
