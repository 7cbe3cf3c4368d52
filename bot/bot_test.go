package bot

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pevans/jobwizard/diagnostics"
	"github.com/pevans/jobwizard/listing"
	"github.com/pevans/jobwizard/prefs"
	"github.com/pevans/jobwizard/render"
	"github.com/pevans/jobwizard/search"
	"github.com/pevans/jobwizard/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeSearcher struct {
	result search.Result
	calls  []prefs.Prefs
}

func (f *fakeSearcher) Search(ctx context.Context, p prefs.Prefs, rec diagnostics.Recorder) search.Result {
	f.calls = append(f.calls, p)
	rec.Record("https://feed.test/?category=QA")
	return f.result
}

var testOwner = render.Owner{Name: "Jane Doe", URL: "https://www.linkedin.com/in/jane-doe"}

func newTestService(t *testing.T, searcher *fakeSearcher) *Service {
	return New(searcher, testOwner, zaptest.NewLogger(t))
}

// Test helper: apply callback data in order
func handleAll(t *testing.T, svc *Service, sess *wizard.Session, data ...string) Reply {
	t.Helper()
	var reply Reply
	for _, d := range data {
		var err error
		reply, err = svc.Handle(context.Background(), sess, d)
		require.NoError(t, err, "handling %s", d)
	}
	return reply
}

// TestService_Dialogue verifies prompts along the forward path
func TestService_Dialogue(t *testing.T) {
	svc := newTestService(t, &fakeSearcher{})
	sess := wizard.NewSession(uuid.New(), nil)

	start := svc.Start(sess)
	assert.Contains(t, start.Text, render.PromptCountry)

	reply := handleAll(t, svc, sess, "country:UA")
	assert.Equal(t, render.PromptSphere, reply.Text)
	assert.Equal(t, "sphere:QA", reply.Keyboard[0][0].Data)

	reply = handleAll(t, svc, sess, "sphere:QA")
	assert.Equal(t, render.PromptFormat, reply.Text)

	reply = handleAll(t, svc, sess, "format:REMOTE")
	assert.Contains(t, reply.Text, "Selection saved")
	assert.Contains(t, reply.Text, render.PrefsText(sess.Prefs))
	assert.Nil(t, reply.Result)
}

// TestService_Search verifies the search runs with the session trail
func TestService_Search(t *testing.T) {
	searcher := &fakeSearcher{result: search.Result{
		Origin:   search.OriginPrimary,
		Variant:  "canonical",
		Listings: []listing.Listing{{Title: "QA Engineer", Link: "https://jobs.test/1"}},
	}}
	svc := newTestService(t, searcher)
	sess := wizard.NewSession(uuid.New(), nil)

	reply := handleAll(t, svc, sess, "country:UA", "sphere:QA", "format:REMOTE", "do:search")

	require.Len(t, searcher.calls, 1)
	assert.Equal(t, prefs.Prefs{Country: prefs.CountryUA, Sphere: prefs.SphereQA, Format: prefs.FormatRemote}, searcher.calls[0])
	assert.Contains(t, reply.Text, `<a href="https://jobs.test/1">QA Engineer</a>`)
	assert.Equal(t, render.SearchDone, reply.Alert)
	require.NotNil(t, reply.Result)
	assert.Equal(t, "canonical", reply.Result.Variant)
	assert.Equal(t, wizard.StateReview, sess.State)

	assert.Contains(t, svc.Debug(sess), "<code>https://feed.test/?category=QA</code>")
}

// TestService_Save verifies the stub acknowledgement
func TestService_Save(t *testing.T) {
	searcher := &fakeSearcher{}
	svc := newTestService(t, searcher)
	sess := wizard.NewSession(uuid.New(), nil)

	reply := handleAll(t, svc, sess, "country:UA", "sphere:QA", "format:ANY", "do:save")

	assert.Equal(t, render.SavedPreset, reply.Alert)
	assert.Empty(t, searcher.calls)
}

// TestService_ResetClearsTrail verifies reset restarts the dialogue
func TestService_ResetClearsTrail(t *testing.T) {
	svc := newTestService(t, &fakeSearcher{})
	sess := wizard.NewSession(uuid.New(), nil)
	handleAll(t, svc, sess, "country:UA", "sphere:QA", "format:ANY", "do:search")

	reply := handleAll(t, svc, sess, "nav:reset")

	assert.Equal(t, render.ResetDone, reply.Alert)
	assert.Contains(t, reply.Text, "Hi!")
	assert.Equal(t, prefs.Prefs{}, sess.Prefs)
	assert.Contains(t, svc.Debug(sess), "Nothing to show yet")
}

// TestService_Edit verifies the edit prompt
func TestService_Edit(t *testing.T) {
	svc := newTestService(t, &fakeSearcher{})
	sess := wizard.NewSession(uuid.New(), nil)

	reply := handleAll(t, svc, sess, "country:UA", "sphere:QA", "format:ANY", "nav:edit")

	assert.Equal(t, render.PromptEdit, reply.Text)
	assert.Equal(t, wizard.StateCountry, sess.State)
}

// TestService_Back verifies back renders the previous step
func TestService_Back(t *testing.T) {
	svc := newTestService(t, &fakeSearcher{})
	sess := wizard.NewSession(uuid.New(), nil)

	reply := handleAll(t, svc, sess, "country:UA", "sphere:QA", "nav:back")

	assert.Equal(t, render.PromptSphere, reply.Text)
}

// TestService_InvalidActions verifies wizard errors are returned
func TestService_InvalidActions(t *testing.T) {
	svc := newTestService(t, &fakeSearcher{})
	sess := wizard.NewSession(uuid.New(), nil)

	_, err := svc.Handle(context.Background(), sess, "bogus")
	assert.ErrorIs(t, err, wizard.ErrInvalidAction)

	_, err = svc.Handle(context.Background(), sess, "do:search")
	assert.ErrorIs(t, err, wizard.ErrInvalidTransition)
	assert.Equal(t, wizard.StateCountry, sess.State)
}

// TestService_StartResets verifies start discards earlier choices
func TestService_StartResets(t *testing.T) {
	svc := newTestService(t, &fakeSearcher{})
	sess := wizard.NewSession(uuid.New(), nil)
	handleAll(t, svc, sess, "country:UA", "sphere:QA")

	svc.Start(sess)

	assert.Equal(t, wizard.StateCountry, sess.State)
	assert.Equal(t, prefs.Prefs{}, sess.Prefs)
}

// TestService_AboutAndPing verifies the static replies
func TestService_AboutAndPing(t *testing.T) {
	svc := newTestService(t, &fakeSearcher{})

	assert.Contains(t, svc.About(), "Jane Doe")
	assert.Equal(t, render.Pong, svc.Ping())
}
