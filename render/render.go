// Package render formats the wizard's messages as HTML text with inline
// keyboards.
package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/pevans/jobwizard/diagnostics"
	"github.com/pevans/jobwizard/prefs"
	"github.com/pevans/jobwizard/search"
	"github.com/pevans/jobwizard/wizard"
)

// Unset is shown for a preference that has not been chosen.
const Unset = "—"

// Owner is the bot author credited in messages.
type Owner struct {
	Name string
	URL  string
}

// Link renders the owner as an HTML link, or the bare name without a URL.
func (o Owner) Link() string {
	if o.URL == "" {
		return html.EscapeString(o.Name)
	}
	return fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(o.URL), html.EscapeString(o.Name))
}

// Message is a reply: HTML text with an optional keyboard.
type Message struct {
	Text     string   `json:"text"`
	Keyboard Keyboard `json:"keyboard,omitempty"`
}

// Prompts shown at each step.
const (
	PromptCountry = "Choose a country or platform:"
	PromptSphere  = "Great! Now choose a sphere:"
	PromptFormat  = "One last step: choose a work format:"
	PromptEdit    = "OK, let's change it. Choose a country or platform:"
	PromptReview  = "What next?"

	NothingFound = "Nothing found 🙈 Try relaxing the filters."
	Pong         = "pong ✅"
)

// Short acknowledgements shown as alerts. Saving a preset persists nothing
// yet.
const (
	ResetDone   = "Reset"
	SearchDone  = "Done!"
	SavedPreset = "Preset saved (demo)."
)

// PrefsText summarizes p, one preference per line.
func PrefsText(p prefs.Prefs) string {
	return fmt.Sprintf("🌍 Country: %s\n🧭 Sphere: %s\n🧩 Format: %s",
		label(prefs.Countries, string(p.Country)),
		label(prefs.Spheres, string(p.Sphere)),
		label(prefs.Formats, string(p.Format)),
	)
}

func label(opts prefs.Options, code string) string {
	if code == "" {
		return Unset
	}
	return html.EscapeString(opts.LabelOr(code))
}

// Start greets the user and asks for the first choice.
func Start(owner Owner) Message {
	text := "🦉 Hi! I'm a job search wizard.\n" +
		"Author: " + owner.Link() + "\n\n" +
		PromptCountry
	return Message{Text: text, Keyboard: StepKeyboard(wizard.StateCountry, owner)}
}

// Step renders the prompt and keyboard of state.
func Step(state wizard.State, p prefs.Prefs, owner Owner) Message {
	var text string
	switch state {
	case wizard.StateSphere:
		text = PromptSphere
	case wizard.StateFormat:
		text = PromptFormat
	case wizard.StateReview:
		text = "✅ Selection saved!\n\n" + PrefsText(p) + "\n\n" + PromptReview
	default:
		text = PromptCountry
	}
	return Message{Text: text, Keyboard: StepKeyboard(state, owner)}
}

// Edit asks for the choices again, starting from the country.
func Edit(owner Owner) Message {
	return Message{Text: PromptEdit, Keyboard: StepKeyboard(wizard.StateCountry, owner)}
}

// Results renders the outcome of a search.
func Results(p prefs.Prefs, res search.Result, owner Owner) Message {
	var b strings.Builder
	b.WriteString("🔎 Here is what I found for your filters:\n\n")
	b.WriteString(PrefsText(p))
	b.WriteString("\n\n")

	switch {
	case res.Failure != "":
		b.WriteString("• Could not fetch vacancies: ")
		b.WriteString(html.EscapeString(res.Failure))
	case res.Found():
		for i, l := range res.Listings {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString("• ")
			b.WriteString(l.Anchor())
		}
	default:
		b.WriteString(NothingFound)
	}

	b.WriteString("\n\nSend /debug to see the queries that were sent.")
	b.WriteString("\nBot author: ")
	b.WriteString(owner.Link())

	return Message{Text: b.String(), Keyboard: ReviewKeyboard(owner)}
}

// Debug lists the most recent queries of a session.
func Debug(entries []string) string {
	if len(entries) == 0 {
		return "Nothing to show yet. Press “Find jobs”, then ask for /debug."
	}
	if len(entries) > diagnostics.DefaultLast {
		entries = entries[len(entries)-diagnostics.DefaultLast:]
	}

	lines := make([]string, 0, len(entries)+1)
	lines = append(lines, "Recent queries:")
	for _, e := range entries {
		lines = append(lines, "• <code>"+html.EscapeString(e)+"</code>")
	}
	return strings.Join(lines, "\n")
}

// About credits the author.
func About(owner Owner) string {
	return "Bot author: " + owner.Link() + " (LinkedIn)"
}
