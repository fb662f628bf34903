package main

import (
	"embed"
	"io/fs"
)

//go:embed help/*.md
var helpFS embed.FS

// helpTopics returns the embedded help documents rooted at help/
func helpTopics() fs.FS {
	sub, err := fs.Sub(helpFS, "help")
	if err != nil {
		return nil
	}
	return sub
}
