// Package gamedata provides the entity catalog, crafting recipes and the
// object registry, all backed by JSON embedded at build time.
package gamedata

import "embed"

// dataFS embeds all JSON files and schemas from this directory at build time.
//
//go:embed *.json
var dataFS embed.FS
