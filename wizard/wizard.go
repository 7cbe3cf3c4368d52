// Package wizard implements the step-by-step dialogue that collects search
// preferences: country, then sphere, then format, then a review step from
// which the search is started.
package wizard

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pevans/jobwizard/diagnostics"
	"github.com/pevans/jobwizard/prefs"
)

// State is the current step of the dialogue.
type State int

const (
	StateCountry State = iota
	StateSphere
	StateFormat
	StateReview
)

func (s State) String() string {
	switch s {
	case StateCountry:
		return "country"
	case StateSphere:
		return "sphere"
	case StateFormat:
		return "format"
	case StateReview:
		return "review"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Effect is work the caller must do after a transition.
type Effect int

const (
	EffectNone Effect = iota
	EffectSearch
	EffectSave
)

// Session is one user's dialogue. It is not safe for concurrent use;
// callers serialize actions per session.
type Session struct {
	ID    uuid.UUID
	State State
	Prefs prefs.Prefs
	// Trail records the queries of the session's searches.
	Trail diagnostics.Log
}

// NewSession starts a dialogue at the country step. A nil trail selects an
// in-memory one.
func NewSession(id uuid.UUID, trail diagnostics.Log) *Session {
	if trail == nil {
		trail = diagnostics.NewTrail()
	}
	return &Session{
		ID:    id,
		State: StateCountry,
		Trail: trail,
	}
}

type transitionKey struct {
	state State
	kind  Kind
}

type transitionFunc func(s *Session, a Action) (State, Effect, error)

var transitions = map[transitionKey]transitionFunc{
	{StateCountry, KindCountry}: chooseCountry,
	{StateSphere, KindSphere}:   chooseSphere,
	{StateFormat, KindFormat}:   chooseFormat,

	{StateSphere, KindBack}: goTo(StateCountry, EffectNone),
	{StateFormat, KindBack}: goTo(StateSphere, EffectNone),
	{StateReview, KindBack}: goTo(StateFormat, EffectNone),

	{StateCountry, KindReset}: reset,
	{StateSphere, KindReset}:  reset,
	{StateFormat, KindReset}:  reset,
	{StateReview, KindReset}:  reset,

	{StateReview, KindEdit}:   goTo(StateCountry, EffectNone),
	{StateReview, KindSearch}: goTo(StateReview, EffectSearch),
	{StateReview, KindSave}:   goTo(StateReview, EffectSave),
}

// Apply performs a. On error the session is left unchanged.
func (s *Session) Apply(a Action) (Effect, error) {
	t, ok := transitions[transitionKey{s.State, a.Kind}]
	if !ok {
		return EffectNone, fmt.Errorf("%w: %s at %s step", ErrInvalidTransition, a, s.State)
	}
	next, effect, err := t(s, a)
	if err != nil {
		return EffectNone, err
	}
	s.State = next
	return effect, nil
}

// ApplyData parses callback data and applies it.
func (s *Session) ApplyData(data string) (Effect, error) {
	a, err := ParseAction(data)
	if err != nil {
		return EffectNone, err
	}
	return s.Apply(a)
}

func chooseCountry(s *Session, a Action) (State, Effect, error) {
	if !prefs.Countries.Has(a.Value) {
		return 0, EffectNone, fmt.Errorf("%w: %w: %q", ErrInvalidAction, prefs.ErrUnknownCountry, a.Value)
	}
	s.Prefs.Country = prefs.Country(a.Value)
	return StateSphere, EffectNone, nil
}

func chooseSphere(s *Session, a Action) (State, Effect, error) {
	if !prefs.Spheres.Has(a.Value) {
		return 0, EffectNone, fmt.Errorf("%w: %w: %q", ErrInvalidAction, prefs.ErrUnknownSphere, a.Value)
	}
	s.Prefs.Sphere = prefs.Sphere(a.Value)
	return StateFormat, EffectNone, nil
}

func chooseFormat(s *Session, a Action) (State, Effect, error) {
	if !prefs.Formats.Has(a.Value) {
		return 0, EffectNone, fmt.Errorf("%w: %w: %q", ErrInvalidAction, prefs.ErrUnknownFormat, a.Value)
	}
	s.Prefs.Format = prefs.Format(a.Value)
	return StateReview, EffectNone, nil
}

func reset(s *Session, _ Action) (State, Effect, error) {
	s.Prefs = prefs.Prefs{}
	s.Trail.Reset()
	return StateCountry, EffectNone, nil
}

func goTo(state State, effect Effect) transitionFunc {
	return func(*Session, Action) (State, Effect, error) {
		return state, effect, nil
	}
}
