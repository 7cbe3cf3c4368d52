package query

import "github.com/pevans/jobwizard/prefs"

// Rung describes one step of the primary fallback ladder.
type Rung struct {
	Name         string
	Terms        []string
	DropCategory bool
}

// Ladder is the ordered list of feed queries tried before falling back to
// the listings page. The first rung with results wins.
var Ladder = []Rung{
	{Name: "canonical"},
	{Name: "part-time", Terms: []string{PartTimeTerms}},
	{Name: "contract", Terms: []string{ContractTerms}},
	{Name: "part-time-alt", Terms: []string{PartTimeAltTerms}},
	{Name: "no-category", DropCategory: true},
}

// Ladder builds one variant per rung of the ladder, in order.
func (b *Builder) Ladder(p prefs.Prefs) ([]Variant, error) {
	variants := make([]Variant, 0, len(Ladder))
	for _, rung := range Ladder {
		v, err := b.build(rung.Name, p, rung.Terms, rung.DropCategory)
		if err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	return variants, nil
}
