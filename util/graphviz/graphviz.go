// Copyright 2019 eBay Inc.
// Primary authors: Simon Fell, Diego Ongaro,
//                  Raymond Kroeker, and Sathish Kandasamy.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package graphviz renders dot input into images using the "dot" program.
package graphviz

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Format is an output format understood by "dot -T".
type Format string

// Supported Formats. Dot writes the graph source unchanged and doesn't need
// Graphviz to be installed.
const (
	Dot Format = "dot"
	PDF Format = "pdf"
	PNG Format = "png"
	SVG Format = "svg"
)

// FormatOf guesses the Format from a filename's extension.
func FormatOf(filename string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	switch f := Format(ext); f {
	case Dot, PDF, PNG, SVG:
		return f, nil
	case "gv":
		return Dot, nil
	}
	return "", fmt.Errorf("could not determine graphviz format from filename: %v", filename)
}

// Render writes the graph produced by 'generate' to 'out' in the given format.
// 'generate' may ignore errors from the writer it's given.
func Render(out io.Writer, format Format, generate func(io.Writer)) error {
	if format == Dot {
		generate(out)
		return nil
	}
	cmd := exec.Command("dot", "-T"+string(format))
	cmd.Stdout = out
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return err
	}
	go func() {
		defer stdin.Close()
		generate(stdin)
	}()
	var errOut strings.Builder
	cmd.Stderr = &errOut
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("error executing dot: %v. Stderr: %v", err, errOut.String())
	}
	return nil
}

// Create is like Render but writes to the named file, choosing the format from
// its extension.
func Create(filename string, generate func(io.Writer)) error {
	format, err := FormatOf(filename)
	if err != nil {
		return err
	}
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	err = Render(file, format, generate)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	return err
}
