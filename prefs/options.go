package prefs

// Option pairs a display label with the code stored in Prefs.
type Option struct {
	Label string
	Code  string
}

// Options is an ordered option table as shown by the wizard.
type Options []Option

// Countries lists the platform choices in wizard order.
var Countries = Options{
	{Label: "🇺🇦 Ukraine (DOU.ua)", Code: string(CountryUA)},
	{Label: "🇪🇺 EU / abroad (DOU.ua)", Code: string(CountryINTL)},
	{Label: "🌍 EU job boards (dou.eu)", Code: string(CountryEU)},
	{Label: "Any", Code: string(CountryAny)},
}

// Spheres lists the professional areas in wizard order.
var Spheres = Options{
	{Label: "QA / Testing", Code: string(SphereQA)},
	{Label: "Backend", Code: string(SphereBackend)},
	{Label: "Frontend", Code: string(SphereFrontend)},
	{Label: "Data / ML", Code: string(SphereData)},
	{Label: "DevOps / SRE", Code: string(SphereDevOps)},
	{Label: "PM / BA", Code: string(SpherePMBA)},
	{Label: "Design / UX", Code: string(SphereDesign)},
	{Label: "Any", Code: string(SphereAny)},
}

// Formats lists the work formats in wizard order.
var Formats = Options{
	{Label: "🧑‍💻 Remote", Code: string(FormatRemote)},
	{Label: "🏢 Office / Hybrid", Code: string(FormatOffice)},
	{Label: "🧩 Part-time", Code: string(FormatPartTime)},
	{Label: "📄 Contract", Code: string(FormatContract)},
	{Label: "Any", Code: string(FormatAny)},
}

// Label returns the display label of code and whether the code is known.
func (o Options) Label(code string) (string, bool) {
	for _, opt := range o {
		if opt.Code == code {
			return opt.Label, true
		}
	}
	return "", false
}

// LabelOr returns the label of code, or code itself when it is unknown.
func (o Options) LabelOr(code string) string {
	if label, ok := o.Label(code); ok {
		return label
	}
	return code
}

// Has reports whether code is in the table.
func (o Options) Has(code string) bool {
	_, ok := o.Label(code)
	return ok
}
