package ui

import (
	"html/template"

	"winesense/adapters/excel"
)

// templateHTML marks pre-rendered markup as safe for templating.
// Only ever fed from the bundled model card, never from user input.
func templateHTML(b []byte) template.HTML {
	return template.HTML(b)
}

// excelFilename suggests a download name for a history export
func excelFilename(n int) string {
	return excel.Filename(n)
}
