package display

import (
	"fmt"
	"os"
)

// PrintBanner prints the ASCII art banner.
func PrintBanner() {
	fmt.Fprint(os.Stdout, ` ____        _ _
/ ___| _ __ | (_) ___ ___ _ __
\___ \| '_ \| | |/ __/ _ \ '__|
 ___) | |_) | | | (_|  __/ |
|____/| .__/|_|_|\___\___|_|
      |_|
`)
}
