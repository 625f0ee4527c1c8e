package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ParsePackageArgs expands package arguments. Each argument is a package
// name, "-" to read whitespace-separated names from stdin, or the path of
// a file holding names. Stdin is read at most once.
func ParsePackageArgs(args []string, stdin io.Reader) ([]string, error) {
	var names []string
	readStdin := false

	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		switch {
		case arg == "":
			continue

		case arg == "-":
			if readStdin {
				continue
			}
			readStdin = true
			words, err := readWords(stdin)
			if err != nil {
				return nil, fmt.Errorf("reading package names from stdin: %w", err)
			}
			names = append(names, words...)

		case isRegularFile(arg):
			f, err := os.Open(arg)
			if err != nil {
				return nil, err
			}
			words, err := readWords(f)
			f.Close()
			if err != nil {
				return nil, fmt.Errorf("reading package names from %s: %w", arg, err)
			}
			names = append(names, words...)

		default:
			names = append(names, arg)
		}
	}
	return names, nil
}

func readWords(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	return words, scanner.Err()
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
