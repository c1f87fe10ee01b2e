package facedetect

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c-sanders/FaceDetect-Plugin/internal/detector"
	"github.com/c-sanders/FaceDetect-Plugin/internal/host"
	"github.com/c-sanders/FaceDetect-Plugin/internal/procedure"
)

// fakeHost records every host call as "op path".
type fakeHost struct {
	events  []string
	missing map[string]bool
}

func (h *fakeHost) FileLoad(_ context.Context, filename, _ string) (*host.Image, error) {
	h.events = append(h.events, "load "+filename)
	if h.missing[filename] {
		return nil, fmt.Errorf("%w: %s: %w", host.ErrFileNotFound, filename, fs.ErrNotExist)
	}
	return &host.Image{Path: filename}, nil
}

func (h *fakeHost) DisplayNew(img *host.Image) (int, error) {
	h.events = append(h.events, "display "+img.Path)
	return len(h.events), nil
}

func (h *fakeHost) ImageCleanAll(img *host.Image) error {
	h.events = append(h.events, "clean "+img.Path)
	return nil
}

type fakeRunner struct {
	host *fakeHost
	inv  []detector.Invocation
	err  error
}

func (r *fakeRunner) Run(_ context.Context, inv detector.Invocation) error {
	r.inv = append(r.inv, inv)
	if r.host != nil {
		r.host.events = append(r.host.events, "run "+inv.String())
	}
	return r.err
}

func exampleParams() Params {
	return Params{
		InputPath:    "in.jpg",
		ResultPath:   "out.jpg",
		DetectorPath: "detect.py",
		CascadePath:  "cascade.xml",
		Colour:       ColourRed,
	}
}

func TestPlugin_Run(t *testing.T) {
	h := &fakeHost{}
	r := &fakeRunner{host: h}
	p := New(h, r, nil)

	require.NoError(t, p.Run(context.Background(), exampleParams(), "python3"))

	require.Len(t, r.inv, 1)
	assert.Equal(t,
		[]string{"python3", "detect.py", "cascade.xml", "in.jpg", "out.jpg", "COLOUR_RED"},
		r.inv[0].Argv())

	assert.Equal(t, []string{
		"load in.jpg",
		"display in.jpg",
		"clean in.jpg",
		"run python3 detect.py cascade.xml in.jpg out.jpg COLOUR_RED",
		"load out.jpg",
		"display out.jpg",
		"clean out.jpg",
	}, h.events)
}

func TestPlugin_RunDetectorFailure(t *testing.T) {
	h := &fakeHost{}
	exitErr := &detector.ExitError{Code: 1, Stderr: []string{"no cascade"}}
	r := &fakeRunner{host: h, err: exitErr}
	p := New(h, r, nil)

	err := p.Run(context.Background(), exampleParams(), "python3")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDetectorFailed)
	var target *detector.ExitError
	assert.ErrorAs(t, err, &target)
	assert.NotContains(t, h.events, "load out.jpg")
}

func TestPlugin_RunMissingOutput(t *testing.T) {
	h := &fakeHost{missing: map[string]bool{"out.jpg": true}}
	p := New(h, &fakeRunner{host: h}, nil)

	err := p.Run(context.Background(), exampleParams(), "python3")

	assert.ErrorIs(t, err, host.ErrFileNotFound)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.NotContains(t, h.events, "display out.jpg")
}

func TestPlugin_RunMissingInput(t *testing.T) {
	h := &fakeHost{missing: map[string]bool{"in.jpg": true}}
	r := &fakeRunner{host: h}
	p := New(h, r, nil)

	err := p.Run(context.Background(), exampleParams(), "python3")

	assert.ErrorIs(t, err, host.ErrFileNotFound)
	assert.Empty(t, r.inv)
}

func TestPlugin_RunInvalidParams(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Params)
	}{
		{"empty input", func(p *Params) { p.InputPath = "" }},
		{"empty result", func(p *Params) { p.ResultPath = "" }},
		{"empty detector", func(p *Params) { p.DetectorPath = "" }},
		{"empty cascade", func(p *Params) { p.CascadePath = "" }},
		{"unknown colour", func(p *Params) { p.Colour = "COLOUR_ORANGE" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := &fakeHost{}
			p := New(h, &fakeRunner{host: h}, nil)
			params := exampleParams()
			tc.mutate(&params)

			err := p.Run(context.Background(), params, "python3")

			assert.ErrorIs(t, err, ErrInvalidParams)
			assert.Empty(t, h.events)
		})
	}
}

func TestPlugin_Registration(t *testing.T) {
	p := New(&fakeHost{}, &fakeRunner{}, nil, WithDefaults(DefaultParams("/home/craig")))
	reg := procedure.NewRegistry(nil)
	require.NoError(t, p.Register(reg))

	proc, err := reg.Lookup(ProcedureName)
	require.NoError(t, err)

	assert.Equal(t, "runPlugin", proc.Name)
	assert.Equal(t, "Detect Faces in an Image.", proc.Blurb)
	assert.Equal(t, "Detect Faces in an Image.", proc.Help)
	assert.Equal(t, "Craig Sanders", proc.Author)
	assert.Equal(t, "Craig Sanders", proc.Copyright)
	assert.Equal(t, "2019", proc.Date)
	assert.Equal(t, "Detect Faces", proc.MenuLabel)
	assert.Equal(t, "<Image>/Image/Craig's Utilities/", proc.MenuPath)
	assert.Empty(t, proc.ImageTypes)
	assert.Equal(t, "python3", proc.Interpreter)

	names := make([]string, len(proc.Params))
	for i, def := range proc.Params {
		names[i] = def.Name
	}
	assert.Equal(t, []string{
		"filename_input",
		"filename_result",
		"filename_face_detect",
		"filename_cascade",
		"filename_manipulation_method",
	}, names)

	colour, ok := proc.Param(ParamColour)
	require.True(t, ok)
	assert.Equal(t, procedure.Radio, colour.Type)
	assert.Equal(t, "COLOUR_GREEN", colour.Default)
	require.Len(t, colour.Options, 6)
	assert.Equal(t, procedure.RadioOption{Label: "Red", Value: "COLOUR_RED"}, colour.Options[0])

	input, _ := proc.Param(ParamInput)
	assert.Equal(t, procedure.File, input.Type)
	assert.Equal(t, "/home/craig/Pictures/input.jpg", input.Default)

	assert.Error(t, p.Register(reg), "second registration must fail")
}

func TestPlugin_RunThroughRegistry(t *testing.T) {
	h := &fakeHost{}
	r := &fakeRunner{host: h}
	p := New(h, r, nil, WithInterpreter("python3.11"))
	reg := procedure.NewRegistry(nil)
	require.NoError(t, p.Register(reg))

	err := reg.RunPositional(context.Background(), ProcedureName, procedure.NonInteractive,
		[]string{"in.jpg", "out.jpg", "detect.py", "cascade.xml", "Red"})
	require.NoError(t, err)

	require.Len(t, r.inv, 1)
	assert.Equal(t, "python3.11 detect.py cascade.xml in.jpg out.jpg COLOUR_RED", r.inv[0].String())

	require.NoError(t, reg.Update(ProcedureName, func(proc *procedure.Procedure) error {
		proc.Interpreter = "/usr/bin/python3"
		return nil
	}))
	require.NoError(t, reg.Run(context.Background(), ProcedureName, procedure.Interactive, map[string]string{
		ParamInput:    "a.png",
		ParamResult:   "b.png",
		ParamDetector: "detect.py",
		ParamCascade:  "cascade.xml",
	}))
	require.Len(t, r.inv, 2)
	assert.Equal(t, "/usr/bin/python3", r.inv[1].Interpreter)
	assert.Equal(t, "COLOUR_GREEN", r.inv[1].Args[3])
}

func TestColours(t *testing.T) {
	assert.Equal(t, []Colour{ColourRed, ColourGreen, ColourBlue, ColourCyan, ColourMagenta, ColourYellow}, Colours())
	assert.Equal(t, "Cyan", ColourCyan.Label())
	assert.True(t, DefaultColour.Valid())
	assert.False(t, Colour("COLOUR_ORANGE").Valid())
	assert.Equal(t, "COLOUR_ORANGE", Colour("COLOUR_ORANGE").Label())
}

func TestDetectorFailureWrapsCause(t *testing.T) {
	cause := errors.New("boom")
	h := &fakeHost{}
	p := New(h, &fakeRunner{host: h, err: cause}, nil)

	err := p.Run(context.Background(), exampleParams(), "")
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrDetectorFailed)
}
