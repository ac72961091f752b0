package formatter

// DerivedFormatter renders a method that parsed.
type DerivedFormatter struct{}

func (f *DerivedFormatter) ResultTemplate() string {
	return `{{signature .Method .Arguments .Padding -}}
{{finder .Finder .Padding -}}
{{statement .Statement .Padding -}}
{{settings .Settings .Padding -}}
`
}

// FailureFormatter renders a method that did not parse, with a caret under
// the failing token when the position is known.
type FailureFormatter struct{}

func (f *FailureFormatter) ResultTemplate() string {
	return `{{signature .Method .Arguments .Padding -}}
{{failure .Error .Machine .Padding -}}
{{underline .Input .Column .Width .Padding -}}
`
}
