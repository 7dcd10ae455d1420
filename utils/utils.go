package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Commands understood by the CLI. "run" is implied when none is given.
var commands = map[string]bool{
	"run":    true,
	"report": true,
}

// ParseArguments converts command-line arguments into a map of flags and
// values. The first bare word naming a command is stored under "command";
// any other bare word is returned in extra so the caller can reject it.
func ParseArguments(argv []string) (args map[string]string, extra []string) {
	args = make(map[string]string)

	// First, identify the command (run/report)
	commandIndex := -1
	for i, a := range argv {
		if strings.HasPrefix(a, "-") {
			continue
		}
		if commands[a] {
			args["command"] = a
			commandIndex = i
		}
		break
	}

	// Process all arguments, skipping the command
	for i := 0; i < len(argv); i++ {
		if i == commandIndex {
			continue
		}

		arg := argv[i]

		// -h and --help are the only single-dash forms
		if arg == "-h" {
			args["help"] = "true"
			continue
		}

		// Handle flags with equals sign (--key=value)
		if strings.HasPrefix(arg, "--") && strings.Contains(arg, "=") {
			parts := strings.SplitN(arg, "=", 2)
			flagName := strings.TrimPrefix(parts[0], "--")
			args[flagName] = parts[1]
			continue
		}

		// Handle flags without equals sign (--key value)
		if strings.HasPrefix(arg, "--") {
			flagName := strings.TrimPrefix(arg, "--")

			// Check if this is a boolean flag (no value)
			if i+1 >= len(argv) || strings.HasPrefix(argv[i+1], "--") {
				args[flagName] = "true"
			} else {
				// The next argument is the value
				args[flagName] = argv[i+1]
				i++ // Skip the value in the next iteration
			}
			continue
		}

		extra = append(extra, arg)
	}

	return args, extra
}

// GetDefaultManifestPath returns the default manifest location for the
// report command: thumbnails.db in the current directory.
func GetDefaultManifestPath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "thumbnails.db"
	}
	return filepath.Join(cwd, "thumbnails.db")
}

// PrintUsage outputs the command-line usage instructions
func PrintUsage(w io.Writer) {
	name := filepath.Base(os.Args[0])
	fmt.Fprintf(w, "Usage:\n")
	fmt.Fprintf(w, "  %s [run] --input=DIR --output=DIR [--width=N] [--height=N] [--workers=N]\n", name)
	fmt.Fprintf(w, "      [--format=jpeg|png|webp] [--quality=0-100] [--benchmark] [--progress]\n")
	fmt.Fprintf(w, "      [--manifest=PATH] [--exif] [--debug] [--logfile=PATH]\n")
	fmt.Fprintf(w, "  %s report [--manifest=PATH] [--run=ID]\n", name)
	fmt.Fprintf(w, "\nParameters:\n")
	fmt.Fprintf(w, "  --input       : Root directory to scan for images\n")
	fmt.Fprintf(w, "  --output      : Root directory thumbnails are mirrored into\n")
	fmt.Fprintf(w, "  --width       : Maximum thumbnail width in pixels (default: 240)\n")
	fmt.Fprintf(w, "  --height      : Maximum thumbnail height in pixels (default: 160)\n")
	fmt.Fprintf(w, "  --workers     : Number of parallel workers (default: number of CPUs)\n")
	fmt.Fprintf(w, "  --format      : Output format: jpeg, png or webp (default: jpeg)\n")
	fmt.Fprintf(w, "  --quality     : JPEG quality 0-100, ignored for png/webp (default: 85)\n")
	fmt.Fprintf(w, "  --benchmark   : Print elapsed time with the summary\n")
	fmt.Fprintf(w, "  --progress    : Show a live progress line on stderr\n")
	fmt.Fprintf(w, "  --manifest    : Record every outcome in an SQLite manifest (alias: --db)\n")
	fmt.Fprintf(w, "  --exif        : Store camera metadata in the manifest (needs exiftool)\n")
	fmt.Fprintf(w, "  --debug       : Enable debug logging\n")
	fmt.Fprintf(w, "  --logfile     : Log file path (default with --debug: thumbnailer.log)\n")
	fmt.Fprintf(w, "  --run         : Run id for the report command (default: latest run)\n")
	fmt.Fprintf(w, "\nEnvironment (also read from ./.env): THUMBNAILER_WIDTH, THUMBNAILER_HEIGHT,\n")
	fmt.Fprintf(w, "  THUMBNAILER_WORKERS, THUMBNAILER_FORMAT, THUMBNAILER_QUALITY, THUMBNAILER_MANIFEST\n")
	fmt.Fprintf(w, "\nExamples:\n")
	fmt.Fprintf(w, "  %s --input=photos --output=thumbs --format=webp --benchmark\n", name)
	fmt.Fprintf(w, "  %s report --manifest=thumbs.db\n", name)
}
