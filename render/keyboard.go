package render

import (
	"github.com/pevans/jobwizard/prefs"
	"github.com/pevans/jobwizard/wizard"
)

// buttonsPerRow is how many buttons share a keyboard row.
const buttonsPerRow = 2

// Button is an inline button. It carries either callback data or a URL.
type Button struct {
	Text string `json:"text"`
	Data string `json:"data,omitempty"`
	URL  string `json:"url,omitempty"`
}

// Keyboard is a grid of buttons, row by row.
type Keyboard [][]Button

// Buttons returns every button in display order.
func (k Keyboard) Buttons() []Button {
	var out []Button
	for _, row := range k {
		out = append(out, row...)
	}
	return out
}

// Button labels.
const (
	LabelBack   = "⬅️ Back"
	LabelReset  = "♻️ Reset"
	LabelSearch = "🔎 Find jobs"
	LabelEdit   = "✏️ Change selection"
	LabelSave   = "💾 Save preset"
)

// OptionsKeyboard lays out one button per option, followed by the
// navigation buttons.
func OptionsKeyboard(opts prefs.Options, kind wizard.Kind, back, reset bool) Keyboard {
	buttons := make([]Button, 0, len(opts))
	for _, opt := range opts {
		a := wizard.Action{Kind: kind, Value: opt.Code}
		buttons = append(buttons, Button{Text: opt.Label, Data: a.Data()})
	}
	kb := layout(buttons)

	var nav []Button
	if back {
		nav = append(nav, Button{Text: LabelBack, Data: wizard.Back.Data()})
	}
	if reset {
		nav = append(nav, Button{Text: LabelReset, Data: wizard.Reset.Data()})
	}
	return append(kb, layout(nav)...)
}

// ReviewKeyboard offers the actions available once every choice is made.
func ReviewKeyboard(owner Owner) Keyboard {
	buttons := []Button{
		{Text: LabelSearch, Data: wizard.Search.Data()},
		{Text: LabelEdit, Data: wizard.Edit.Data()},
		{Text: LabelSave, Data: wizard.Save.Data()},
		{Text: LabelReset, Data: wizard.Reset.Data()},
	}
	if owner.URL != "" {
		buttons = append(buttons, Button{Text: "👤 Author: " + owner.Name, URL: owner.URL})
	}
	return layout(buttons)
}

// StepKeyboard returns the keyboard shown at state.
func StepKeyboard(state wizard.State, owner Owner) Keyboard {
	switch state {
	case wizard.StateSphere:
		return OptionsKeyboard(prefs.Spheres, wizard.KindSphere, true, true)
	case wizard.StateFormat:
		return OptionsKeyboard(prefs.Formats, wizard.KindFormat, true, true)
	case wizard.StateReview:
		return ReviewKeyboard(owner)
	default:
		return OptionsKeyboard(prefs.Countries, wizard.KindCountry, false, true)
	}
}

func layout(buttons []Button) Keyboard {
	var kb Keyboard
	for start := 0; start < len(buttons); start += buttonsPerRow {
		end := min(start+buttonsPerRow, len(buttons))
		kb = append(kb, buttons[start:end:end])
	}
	return kb
}
