package formatter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/gnolang/dynfinder/parser"
	"github.com/gnolang/dynfinder/repository"
)

var (
	errorStyle      = color.New(color.FgRed, color.Bold)
	repositoryStyle = color.New(color.FgCyan, color.Bold)
	methodStyle     = color.New(color.FgYellow, color.Bold)
	lineStyle       = color.New(color.FgHiBlue, color.Bold)
	messageStyle    = color.New(color.FgRed, color.Bold)
	statementStyle  = color.New(color.FgGreen)
	settingStyle    = color.New(color.FgHiBlack)
	noStyle         = color.New(color.FgWhite)
)

// resultFormatter is the interface that wraps the ResultTemplate method.
type resultFormatter interface {
	ResultTemplate() string
}

// getResultFormatter picks the template for a result.
func getResultFormatter(r repository.Result) resultFormatter {
	if r.Err != nil {
		return &FailureFormatter{}
	}
	return &DerivedFormatter{}
}

// FormatResults renders results grouped by repository, in the order given.
func FormatResults(results []repository.Result) string {
	var builder strings.Builder
	current := ""
	for i, r := range results {
		if i == 0 || r.Repository != current {
			current = r.Repository
			if i > 0 {
				builder.WriteByte('\n')
			}
			builder.WriteString(repositoryStyle.Sprintf("%s", r.Repository))
			builder.WriteString(noStyle.Sprintf(" (%s)\n", r.Entity))
		}
		builder.WriteString(FormatResult(r))
	}
	return builder.String()
}

// FormatResult renders a single result without its repository header.
func FormatResult(r repository.Result) string {
	return buildResult(newResultData(r), getResultFormatter(r))
}

// FormatError renders a parse failure of a single method name.
func FormatError(method string, err error) string {
	data := newResultData(repository.Result{Method: repository.Method{Name: method}, Err: err})
	return buildResult(data, &FailureFormatter{})
}

/***** Result Formatter Builder *****/

type ResultData struct {
	Method    string
	Arguments []string
	Finder    string
	Statement string
	Settings  []string

	Error   string
	Machine string
	Input   string
	Column  int // 1-based rune column of the failing token, 0 without position
	Width   int // underline width in runes
	Padding string
}

func newResultData(r repository.Result) ResultData {
	data := ResultData{
		Method:    r.Method.Name,
		Arguments: r.Method.Arguments,
		Statement: r.Statement,
		Settings:  r.Settings,
		Padding:   "  ",
	}
	if r.Finder != nil {
		data.Finder = r.Finder.String()
	}
	if r.Err == nil {
		return data
	}

	data.Error = r.Err.Error()
	var se *parser.SyntaxError
	if errors.As(r.Err, &se) {
		data.Error = se.Err.Error()
		data.Machine = se.Machine
		data.Input = se.Input
		data.Column, data.Width = caretSpan(se.Input, se.Pos, se.At)
	}
	return data
}

// caretSpan converts the byte offsets of a syntax error into a 1-based rune
// column and a rune width of at least one.
func caretSpan(input string, pos, at int) (column, width int) {
	pos = min(max(pos, 0), len(input))
	at = min(max(at, pos), len(input))
	column = utf8.RuneCountInString(input[:pos]) + 1
	width = max(utf8.RuneCountInString(input[pos:at]), 1)
	return column, width
}

func buildResult(data ResultData, formatter resultFormatter) string {
	funcMap := template.FuncMap{
		"signature": signature,
		"finder":    finder,
		"statement": statement,
		"settings":  settings,
		"failure":   failure,
		"underline": underline,
	}

	tmpl := template.Must(template.New("result").Funcs(funcMap).Parse(formatter.ResultTemplate()))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("Error formatting result: %v", err)
	}
	return buf.String()
}

// utils functions used in the text templates

func signature(method string, args []string, padding string) string {
	return padding + methodStyle.Sprintf("%s", method) + noStyle.Sprintf("(%s)", strings.Join(args, ", ")) + "\n"
}

func finder(f string, padding string) string {
	return padding + lineStyle.Sprint("  = ") + noStyle.Sprintf("%s\n", f)
}

func statement(s string, padding string) string {
	return padding + lineStyle.Sprint("  > ") + statementStyle.Sprintf("%s\n", s)
}

func settings(s []string, padding string) string {
	if len(s) == 0 {
		return ""
	}
	return padding + lineStyle.Sprint("  # ") + settingStyle.Sprintf("%s\n", strings.Join(s, ", "))
}

func failure(msg string, machine string, padding string) string {
	out := padding + errorStyle.Sprint("  error: ") + messageStyle.Sprint(msg)
	if machine != "" {
		out += noStyle.Sprintf(" (%s)", machine)
	}
	return out + "\n"
}

// underline repeats the input and marks the failing token with carets.
func underline(input string, column int, width int, padding string) string {
	if column <= 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(padding + lineStyle.Sprint("  | ") + noStyle.Sprintf("%s\n", input))
	b.WriteString(padding + lineStyle.Sprint("  | "))
	b.WriteString(strings.Repeat(" ", column-1))
	b.WriteString(messageStyle.Sprintf("%s\n", strings.Repeat("^", width)))
	return b.String()
}
