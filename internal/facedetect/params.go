package facedetect

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/c-sanders/FaceDetect-Plugin/internal/procedure"
)

// Parameter names as registered with the host.
const (
	ParamInput    = "filename_input"
	ParamResult   = "filename_result"
	ParamDetector = "filename_face_detect"
	ParamCascade  = "filename_cascade"
	ParamColour   = "filename_manipulation_method"
)

var ErrInvalidParams = errors.New("invalid face detect parameters")

// Params is one face detection request.
type Params struct {
	InputPath    string
	ResultPath   string
	DetectorPath string
	CascadePath  string
	Colour       Colour
}

// DefaultParams returns the registration defaults rooted at home.
func DefaultParams(home string) Params {
	pluginDir := filepath.Join(home, "plug-ins", "FaceDetect")
	return Params{
		InputPath:    filepath.Join(home, "Pictures", "input.jpg"),
		ResultPath:   filepath.Join(home, "Pictures", "result.jpg"),
		DetectorPath: filepath.Join(pluginDir, "face_detect_cv3.py"),
		CascadePath:  filepath.Join(pluginDir, "haarcascade_frontalface_default.xml"),
		Colour:       DefaultColour,
	}
}

func (p Params) Validate() error {
	required := []struct {
		name, value string
	}{
		{ParamInput, p.InputPath},
		{ParamResult, p.ResultPath},
		{ParamDetector, p.DetectorPath},
		{ParamCascade, p.CascadePath},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%w: %s is empty", ErrInvalidParams, r.name)
		}
	}
	if !p.Colour.Valid() {
		return fmt.Errorf("%w: unknown colour %q", ErrInvalidParams, p.Colour)
	}
	return nil
}

// DetectorArgs are the script arguments in the order the detector expects.
func (p Params) DetectorArgs() []string {
	return []string{p.CascadePath, p.InputPath, p.ResultPath, string(p.Colour)}
}

// ParamsFromArgs reads bound procedure arguments.
func ParamsFromArgs(args procedure.Args) (Params, error) {
	var p Params
	fields := []struct {
		name string
		dst  *string
	}{
		{ParamInput, &p.InputPath},
		{ParamResult, &p.ResultPath},
		{ParamDetector, &p.DetectorPath},
		{ParamCascade, &p.CascadePath},
	}
	for _, f := range fields {
		v, err := args.String(f.name)
		if err != nil {
			return Params{}, err
		}
		*f.dst = v
	}

	colour, err := args.String(ParamColour)
	if err != nil {
		return Params{}, err
	}
	p.Colour = Colour(colour)
	return p, nil
}

func paramDefs(defaults Params) []procedure.ParamDef {
	colours := Colours()
	options := make([]procedure.RadioOption, len(colours))
	for i, c := range colours {
		options[i] = procedure.RadioOption{Label: c.Label(), Value: string(c)}
	}
	return []procedure.ParamDef{
		{Type: procedure.File, Name: ParamInput, Description: "Filename of Input Image", Default: defaults.InputPath},
		{Type: procedure.File, Name: ParamResult, Description: "Filename of Resulting Image", Default: defaults.ResultPath},
		{Type: procedure.File, Name: ParamDetector, Description: "Filename of Face detect Python code", Default: defaults.DetectorPath},
		{Type: procedure.File, Name: ParamCascade, Description: "Filename of Cascade file", Default: defaults.CascadePath},
		{Type: procedure.Radio, Name: ParamColour, Description: "Colour for face detect rectangles", Default: string(defaults.Colour), Options: options},
	}
}
