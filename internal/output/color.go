package output

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// ResolveColorMode turns a --color value into a yes/no decision.
// Anything other than "always" or "never" follows the terminal.
func ResolveColorMode(colorMode string, terminal bool) bool {
	switch colorMode {
	case "always":
		return true
	case "never":
		return false
	}
	return terminal
}

// IsTTY reports whether writer is a terminal, including Cygwin and MSYS
// consoles on Windows.
func IsTTY(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
