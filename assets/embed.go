// Package assets embeds the offline fallback word lists.
package assets

import (
	"bufio"
	"embed"
	"fmt"
	"strings"
)

//go:embed fallback_5.txt fallback_6.txt
var FS embed.FS

func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// FallbackList returns the embedded words for the given length.
func FallbackList(length int) ([]string, error) {
	return readLines(fmt.Sprintf("fallback_%d.txt", length))
}
