package wizard

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidAction     = errors.New("invalid action")
	ErrInvalidTransition = errors.New("action not allowed in current step")
)

// Kind identifies what an action does.
type Kind string

const (
	KindCountry Kind = "country"
	KindSphere  Kind = "sphere"
	KindFormat  Kind = "format"
	KindBack    Kind = "back"
	KindReset   Kind = "reset"
	KindEdit    Kind = "edit"
	KindSearch  Kind = "search"
	KindSave    Kind = "save"
)

// Action prefixes in the callback data form "prefix:value".
const (
	prefixCountry = "country"
	prefixSphere  = "sphere"
	prefixFormat  = "format"
	prefixNav     = "nav"
	prefixDo      = "do"
)

// Action is one user choice, parsed from callback data.
type Action struct {
	Kind  Kind
	Value string
}

// Constructors for the callback data attached to buttons.
func CountryAction(code string) Action { return Action{Kind: KindCountry, Value: code} }
func SphereAction(code string) Action  { return Action{Kind: KindSphere, Value: code} }
func FormatAction(code string) Action  { return Action{Kind: KindFormat, Value: code} }

var (
	Back   = Action{Kind: KindBack}
	Reset  = Action{Kind: KindReset}
	Edit   = Action{Kind: KindEdit}
	Search = Action{Kind: KindSearch}
	Save   = Action{Kind: KindSave}
)

var navKinds = map[string]Kind{
	"back":  KindBack,
	"reset": KindReset,
	"edit":  KindEdit,
}

var doKinds = map[string]Kind{
	"search": KindSearch,
	"save":   KindSave,
}

// ParseAction parses callback data such as "country:UA" or "nav:back".
func ParseAction(data string) (Action, error) {
	prefix, value, ok := strings.Cut(strings.TrimSpace(data), ":")
	if !ok || value == "" {
		return Action{}, fmt.Errorf("%w: %q", ErrInvalidAction, data)
	}

	switch prefix {
	case prefixCountry:
		return CountryAction(value), nil
	case prefixSphere:
		return SphereAction(value), nil
	case prefixFormat:
		return FormatAction(value), nil
	case prefixNav:
		if kind, ok := navKinds[value]; ok {
			return Action{Kind: kind}, nil
		}
	case prefixDo:
		if kind, ok := doKinds[value]; ok {
			return Action{Kind: kind}, nil
		}
	}
	return Action{}, fmt.Errorf("%w: %q", ErrInvalidAction, data)
}

// Data encodes the action back into callback data.
func (a Action) Data() string {
	switch a.Kind {
	case KindCountry, KindSphere, KindFormat:
		return string(a.Kind) + ":" + a.Value
	case KindBack, KindReset, KindEdit:
		return prefixNav + ":" + string(a.Kind)
	case KindSearch, KindSave:
		return prefixDo + ":" + string(a.Kind)
	}
	return ""
}

func (a Action) String() string {
	return a.Data()
}
