// Package data embeds the map files and Lua scripts shipped with the game.
package data

import (
	"bufio"
	"embed"
	"fmt"
	"io/fs"
	"strings"
)

// dataFS embeds the maps and scripts directories at build time.
//
//go:embed maps/*.txt scripts/*.lua
var dataFS embed.FS

// FS returns the embedded filesystem containing game data.
func FS() embed.FS {
	return dataFS
}

// Scripts returns the embedded scripts directory.
func Scripts() fs.FS {
	sub, err := fs.Sub(dataFS, "scripts")
	if err != nil {
		panic(err) // the directory is embedded at build time
	}
	return sub
}

// Map returns the rows of an embedded map, e.g. Map("workshop").
func Map(name string) ([]string, error) {
	content, err := dataFS.ReadFile("maps/" + name + ".txt")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded map %s: %w", name, err)
	}
	return ParseRows(string(content)), nil
}

// ParseRows splits map text into rows, dropping trailing blank lines and
// carriage returns.
func ParseRows(text string) []string {
	var rows []string
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		rows = append(rows, strings.TrimRight(scanner.Text(), "\r"))
	}
	for len(rows) > 0 && strings.TrimSpace(rows[len(rows)-1]) == "" {
		rows = rows[:len(rows)-1]
	}
	return rows
}
