// Chromapath - a colour analysis toolkit for image collections
//
// Chromapath extracts weighted colour palettes from images, measures how
// colours co-occur across folders, renders palette cards and relationship
// networks, and evolves colour schemes through scored generations.
//
// Copyright (c) 2025 Chromapath Contributors
// Licensed under the MIT License
package main

import (
	"os"

	"github.com/code-soul/chromapath/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
