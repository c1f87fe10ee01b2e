package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c-sanders/FaceDetect-Plugin/internal/procedure"
)

var testVars = Vars{
	Home:      "/home/tester",
	ConfigDir: "/home/tester/.config",
	Env:       map[string]string{"CASCADES": "/opt/cascades"},
}

const sample = `
plugin "runPlugin" {
  menu_path   = "<Image>/Filters/Faces/"
  interpreter = "python3.11"

  param "filename_input" {
    default = "${home}/Pictures/group.jpg"
  }

  param "filename_cascade" {
    default     = "${env.CASCADES}/haarcascade_frontalface_default.xml"
    description = "Haar cascade"
  }
}
`

func registerSample(t *testing.T) *procedure.Registry {
	t.Helper()
	reg := procedure.NewRegistry(nil)
	require.NoError(t, reg.Register(&procedure.Procedure{
		Name:      "runPlugin",
		MenuLabel: "Detect Faces",
		MenuPath:  "<Image>/Image/Craig's Utilities/",
		Params: []procedure.ParamDef{
			{Type: procedure.File, Name: "filename_input", Default: "in.jpg"},
			{Type: procedure.File, Name: "filename_cascade", Default: "cascade.xml"},
		},
		Run: func(context.Context, *procedure.Call) error { return nil },
	}))
	return reg
}

func TestParse(t *testing.T) {
	m, err := Parse([]byte(sample), "faces.hcl", testVars)
	require.NoError(t, err)
	require.Len(t, m.Plugins, 1)

	p := m.Plugins[0]
	assert.Equal(t, "runPlugin", p.Name)
	assert.Equal(t, "faces.hcl", p.Source)
	require.NotNil(t, p.MenuPath)
	assert.Equal(t, "<Image>/Filters/Faces/", *p.MenuPath)
	assert.Nil(t, p.MenuLabel)
	assert.Nil(t, p.Blurb)

	require.Len(t, p.Params, 2)
	assert.Equal(t, "/home/tester/Pictures/group.jpg", *p.Params[0].Default)
	assert.Nil(t, p.Params[0].Description)
	assert.Equal(t, "/opt/cascades/haarcascade_frontalface_default.xml", *p.Params[1].Default)
	assert.Equal(t, "Haar cascade", *p.Params[1].Description)
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name string
		src  string
	}{
		{name: "syntax", src: `plugin "x" {`},
		{name: "unknown attribute", src: `plugin "x" { colour = "red" }`},
		{name: "unknown variable", src: `plugin "x" { menu_path = "${nowhere}/x" }`},
		{name: "duplicate plugin", src: "plugin \"x\" {}\nplugin \"x\" {}"},
		{name: "duplicate param", src: `plugin "x" {
  param "a" {}
  param "a" {}
}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.src), "bad.hcl", testVars)
			assert.Error(t, err)
		})
	}
}

func TestLoad_Directory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.hcl"), []byte(`plugin "first" {}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.hcl"), []byte(`plugin "second" {}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	m, err := Load(testVars, dir)
	require.NoError(t, err)
	require.Len(t, m.Plugins, 2)
	assert.Equal(t, "first", m.Plugins[0].Name)
	assert.Equal(t, "second", m.Plugins[1].Name)
}

func TestLoad_MissingPath(t *testing.T) {
	_, err := Load(testVars, filepath.Join(t.TempDir(), "missing.hcl"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestApply(t *testing.T) {
	reg := registerSample(t)
	m, err := Parse([]byte(sample), "faces.hcl", testVars)
	require.NoError(t, err)

	require.NoError(t, m.Apply(reg))

	p, err := reg.Lookup("runPlugin")
	require.NoError(t, err)
	assert.Equal(t, "<Image>/Filters/Faces/", p.MenuPath)
	assert.Equal(t, "Detect Faces", p.MenuLabel)
	assert.Equal(t, "python3.11", p.Interpreter)

	input, _ := p.Param("filename_input")
	assert.Equal(t, "/home/tester/Pictures/group.jpg", input.Default)
	cascade, _ := p.Param("filename_cascade")
	assert.Equal(t, "Haar cascade", cascade.Description)
}

func TestApply_UnknownNames(t *testing.T) {
	reg := registerSample(t)

	m, err := Parse([]byte(`plugin "other" {}`), "x.hcl", testVars)
	require.NoError(t, err)
	assert.ErrorIs(t, m.Apply(reg), procedure.ErrNotFound)

	m, err = Parse([]byte(`plugin "runPlugin" {
  param "filename_colour" { default = "red" }
}`), "y.hcl", testVars)
	require.NoError(t, err)
	err = m.Apply(reg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "filename_colour")
}

func TestApply_InvalidMenuRoot(t *testing.T) {
	reg := registerSample(t)
	m, err := Parse([]byte(`plugin "runPlugin" { menu_path = "Filters/" }`), "z.hcl", testVars)
	require.NoError(t, err)
	assert.ErrorIs(t, m.Apply(reg), procedure.ErrInvalidProcedure)
}
