package components

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/c-sanders/FaceDetect-Plugin/internal/procedure"
)

// BrowseFunc asks the user for a file and reports the chosen path.
type BrowseFunc func(onPicked func(path string))

// ParameterForm holds one input widget per procedure parameter.
type ParameterForm struct {
	items  []*widget.FormItem
	values map[string]func() string
	order  []string
}

// NewParameterForm builds widgets for defs, pre-filled from current. Missing
// entries in current fall back to the parameter default.
func NewParameterForm(defs []procedure.ParamDef, current map[string]string, browse BrowseFunc) *ParameterForm {
	pf := &ParameterForm{
		values: make(map[string]func() string, len(defs)),
	}

	for _, def := range defs {
		value, ok := current[def.Name]
		if !ok {
			value = def.Default
		}

		var obj fyne.CanvasObject
		switch def.Type {
		case procedure.File:
			obj = pf.addFile(def, value, browse)
		case procedure.Radio:
			obj = pf.addRadio(def, value)
		case procedure.Bool:
			obj = pf.addCheck(def, value)
		default:
			obj = pf.addEntry(def, value)
		}

		item := widget.NewFormItem(def.Description, obj)
		if def.Description == "" {
			item.Text = def.Name
		}
		pf.items = append(pf.items, item)
		pf.order = append(pf.order, def.Name)
	}

	return pf
}

func (pf *ParameterForm) Items() []*widget.FormItem {
	return pf.items
}

// Values returns the raw argument for every parameter.
func (pf *ParameterForm) Values() map[string]string {
	out := make(map[string]string, len(pf.values))
	for _, name := range pf.order {
		out[name] = pf.values[name]()
	}
	return out
}

func (pf *ParameterForm) addFile(def procedure.ParamDef, value string, browse BrowseFunc) fyne.CanvasObject {
	entry := widget.NewEntry()
	entry.SetText(value)
	pf.values[def.Name] = func() string { return entry.Text }

	if browse == nil {
		return entry
	}
	button := widget.NewButton("Browse...", func() {
		browse(func(path string) { entry.SetText(path) })
	})
	return container.NewBorder(nil, nil, nil, button, entry)
}

func (pf *ParameterForm) addRadio(def procedure.ParamDef, value string) fyne.CanvasObject {
	labels := make([]string, len(def.Options))
	byLabel := make(map[string]string, len(def.Options))
	selected := ""
	for i, opt := range def.Options {
		labels[i] = opt.Label
		byLabel[opt.Label] = opt.Value
		if opt.Value == value {
			selected = opt.Label
		}
	}

	radio := widget.NewRadioGroup(labels, nil)
	radio.Required = true
	radio.SetSelected(selected)
	pf.values[def.Name] = func() string { return byLabel[radio.Selected] }
	return radio
}

func (pf *ParameterForm) addCheck(def procedure.ParamDef, value string) fyne.CanvasObject {
	checked, _ := strconv.ParseBool(value)
	check := widget.NewCheck("", nil)
	check.SetChecked(checked)
	pf.values[def.Name] = func() string { return strconv.FormatBool(check.Checked) }
	return check
}

func (pf *ParameterForm) addEntry(def procedure.ParamDef, value string) fyne.CanvasObject {
	entry := widget.NewEntry()
	entry.SetText(value)
	if def.Type == procedure.Int {
		entry.Validator = func(s string) error {
			_, err := strconv.Atoi(s)
			return err
		}
	}
	pf.values[def.Name] = func() string { return entry.Text }
	return entry
}
