// Package ui holds apttool's terminal output: colored messages, package
// lines, prompts and the load spinner.
package ui

import (
	"os"

	"github.com/fatih/color"
)

var (
	Success = color.New(color.FgGreen, color.Bold)
	Error   = color.New(color.FgRed, color.Bold)
	Warning = color.New(color.FgYellow, color.Bold)
	Info    = color.New(color.FgCyan)
	Header  = color.New(color.FgMagenta, color.Bold)
	Muted   = color.New(color.FgHiBlack)

	PackageName    = color.New(color.FgMagenta, color.Bold)
	PackageMissing = color.New(color.FgRed, color.Bold)
	PackageVersion = color.New(color.FgBlue)
	Relation       = color.New(color.FgGreen)
	Installed      = color.New(color.FgGreen, color.Bold)
	NotInstalled   = color.New(color.Reset)
	Unknown        = color.New(color.FgRed, color.Bold)
)

// UseColors represents whether colors should be used.
var UseColors = true

// UseUnicode represents whether unicode symbols should be used.
var UseUnicode = true

var (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "!"
	SymbolInfo    = "→"
	SymbolArrow   = "→"
)

// Init applies the output settings. Colors are also off when NO_COLOR is
// set or stdout is not a terminal.
func Init(useColors, useUnicode bool) {
	UseColors = useColors && os.Getenv("NO_COLOR") == ""
	UseUnicode = useUnicode

	if !UseColors {
		color.NoColor = true
	}

	if !useUnicode {
		SymbolSuccess = "[OK]"
		SymbolError = "[ERROR]"
		SymbolWarning = "[WARN]"
		SymbolInfo = "->"
		SymbolArrow = "->"
	}
}

// SuccessMsg prints a success message.
func SuccessMsg(format string, args ...interface{}) {
	Success.Printf(SymbolSuccess+" "+format+"\n", args...)
}

// ErrorMsg prints an error message to stderr.
func ErrorMsg(format string, args ...interface{}) {
	Error.Fprintf(color.Error, SymbolError+" "+format+"\n", args...)
}

// WarningMsg prints a warning message to stderr.
func WarningMsg(format string, args ...interface{}) {
	Warning.Fprintf(color.Error, SymbolWarning+" "+format+"\n", args...)
}

// InfoMsg prints an info message.
func InfoMsg(format string, args ...interface{}) {
	Info.Printf(SymbolInfo+" "+format+"\n", args...)
}

// HeaderMsg prints a header message.
func HeaderMsg(format string, args ...interface{}) {
	Header.Printf("\n"+format+"\n", args...)
}

// MutedMsg prints a muted (dim) message.
func MutedMsg(format string, args ...interface{}) {
	Muted.Printf(format+"\n", args...)
}

// Bold returns a bold string.
func Bold(s string) string {
	return color.New(color.Bold).Sprint(s)
}

// Cyan returns a cyan string.
func Cyan(s string) string {
	return color.CyanString(s)
}
