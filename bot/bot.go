// Package bot drives the job search dialogue: it applies user actions to a
// wizard session, runs searches and renders the replies. It does not depend
// on any particular chat transport.
package bot

import (
	"context"

	"github.com/pevans/jobwizard/diagnostics"
	"github.com/pevans/jobwizard/prefs"
	"github.com/pevans/jobwizard/render"
	"github.com/pevans/jobwizard/search"
	"github.com/pevans/jobwizard/wizard"
	"go.uber.org/zap"
)

// Searcher runs a job search.
type Searcher interface {
	Search(ctx context.Context, p prefs.Prefs, rec diagnostics.Recorder) search.Result
}

// Reply is the message to show after an action, plus an optional short
// alert. Result is set when the action ran a search.
type Reply struct {
	render.Message
	Alert  string         `json:"alert,omitempty"`
	Result *search.Result `json:"result,omitempty"`
}

// Service handles dialogue actions. Sessions are owned by the caller, which
// must not apply actions to one session concurrently.
type Service struct {
	searcher Searcher
	owner    render.Owner
	logger   *zap.Logger
}

// New creates a dialogue service.
func New(searcher Searcher, owner render.Owner, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		searcher: searcher,
		owner:    owner,
		logger:   logger,
	}
}

// Start restarts the dialogue of sess with empty preferences.
func (s *Service) Start(sess *wizard.Session) Reply {
	if _, err := sess.Apply(wizard.Reset); err != nil {
		// Reset is allowed from every step.
		s.logger.Error("failed to reset session", zap.Stringer("session", sess.ID), zap.Error(err))
	}
	return Reply{Message: render.Start(s.owner)}
}

// Current renders the step sess is at.
func (s *Service) Current(sess *wizard.Session) Reply {
	return Reply{Message: render.Step(sess.State, sess.Prefs, s.owner)}
}

// Handle applies the callback data to sess and returns the reply. Invalid
// data or an action not allowed at the current step leaves sess unchanged
// and returns the wizard error.
func (s *Service) Handle(ctx context.Context, sess *wizard.Session, data string) (Reply, error) {
	action, err := wizard.ParseAction(data)
	if err != nil {
		return Reply{}, err
	}

	effect, err := sess.Apply(action)
	if err != nil {
		s.logger.Debug("rejected action",
			zap.Stringer("session", sess.ID),
			zap.Stringer("state", sess.State),
			zap.String("action", data),
			zap.Error(err),
		)
		return Reply{}, err
	}

	switch effect {
	case wizard.EffectSearch:
		return s.search(ctx, sess), nil
	case wizard.EffectSave:
		return Reply{Message: render.Step(sess.State, sess.Prefs, s.owner), Alert: render.SavedPreset}, nil
	}

	switch action.Kind {
	case wizard.KindReset:
		return Reply{Message: render.Start(s.owner), Alert: render.ResetDone}, nil
	case wizard.KindEdit:
		return Reply{Message: render.Edit(s.owner)}, nil
	}
	return s.Current(sess), nil
}

func (s *Service) search(ctx context.Context, sess *wizard.Session) Reply {
	res := s.searcher.Search(ctx, sess.Prefs, sess.Trail)
	s.logger.Info("search finished",
		zap.Stringer("session", sess.ID),
		zap.String("origin", string(res.Origin)),
		zap.String("variant", res.Variant),
		zap.Int("listings", len(res.Listings)),
		zap.Bool("failed", res.Failure != ""),
	)
	return Reply{
		Message: render.Results(sess.Prefs, res, s.owner),
		Alert:   render.SearchDone,
		Result:  &res,
	}
}

// Debug lists the recent queries of sess.
func (s *Service) Debug(sess *wizard.Session) string {
	return render.Debug(sess.Trail.Last(diagnostics.DefaultLast))
}

// About credits the bot author.
func (s *Service) About() string {
	return render.About(s.owner)
}

// Ping answers a liveness check.
func (s *Service) Ping() string {
	return render.Pong
}
