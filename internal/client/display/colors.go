// FILE: internal/client/display/colors.go
package display

import (
	"fmt"
	"io"
)

// Terminal color codes
const (
	Reset   = "\033[0m"
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"
)

// Prompt returns a colored prompt string
func Prompt(text string) string {
	return Yellow + text + Yellow + " > " + Reset
}

// Println writes text in color followed by a newline
func Println(w io.Writer, color, text string) {
	fmt.Fprintf(w, "%s%s%s\n", color, text, Reset)
}

// Printf writes a formatted line in color; format carries its own newline
func Printf(w io.Writer, color, format string, args ...any) {
	fmt.Fprintf(w, "%s%s%s", color, fmt.Sprintf(format, args...), Reset)
}
