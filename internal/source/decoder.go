// Package source decodes the SourceCode field returned by the explorer API.
//
// The field has shipped in three historical encodings: plain Solidity text,
// bare Standard-JSON-Input, and Standard-JSON-Input wrapped in an extra pair
// of braces ("{{...}}") that makes it invalid JSON as-is. Decode normalizes
// all three into a flat list of relative file paths and contents.
package source

import (
	"encoding/json"
	"path"
	"regexp"
	"sort"
	"strings"
)

// DefaultFileName is used when the source is a single unstructured blob.
const DefaultFileName = "Contract.sol"

// File is one decoded source file. Path is relative, POSIX-style, and may
// contain subdirectories.
type File struct {
	Path    string
	Content string
}

// standardInput mirrors the subset of the compiler Standard-JSON-Input format
// the explorer returns. Entries without a content field decode to "".
type standardInput struct {
	Language string `json:"language"`
	Sources  map[string]struct {
		Content string `json:"content"`
	} `json:"sources"`
}

// Some uploads prefix every path with a compiler-version directory such as
// "solc_0.8.19/". The segment is an artifact of the upload tooling, not part
// of the compilation layout, so it is stripped.
var wrapperPrefix = regexp.MustCompile(`^solc_[0-9][^/]*/`)

// Decode converts a raw SourceCode string into decoded files. It is total:
// input that cannot be interpreted as a multi-file layout is returned as a
// single file named Contract.sol with the content unchanged.
func Decode(raw string) []File {
	switch {
	case strings.HasPrefix(raw, "{{"):
		// Double-brace variant: strip exactly one brace from each end and
		// parse the remainder. The fallback uses the original raw string,
		// not the stripped one.
		if files, ok := decodeStandardInput(raw[1:len(raw)-1], false); ok {
			return files
		}
	case strings.HasPrefix(raw, "{"):
		// Bare JSON only counts as multi-file source when it declares the
		// Solidity language; anything else is treated as opaque text.
		if files, ok := decodeStandardInput(raw, true); ok {
			return files
		}
	}
	return []File{{Path: DefaultFileName, Content: raw}}
}

func decodeStandardInput(s string, requireSolidity bool) ([]File, bool) {
	var input standardInput
	if err := json.Unmarshal([]byte(s), &input); err != nil {
		return nil, false
	}
	if requireSolidity && input.Language != "Solidity" {
		return nil, false
	}
	if len(input.Sources) == 0 {
		return nil, false
	}

	files := make([]File, 0, len(input.Sources))
	for name, entry := range input.Sources {
		files = append(files, File{
			Path:    cleanPath(wrapperPrefix.ReplaceAllString(name, "")),
			Content: entry.Content,
		})
	}
	// JSON object order is not observable through a map; sort so the caller
	// sees and writes files in a deterministic order.
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, true
}

// cleanPath normalizes a source path so it can never escape the output root.
// Nested directory segments are preserved exactly; only leading slashes and
// parent-directory traversal are removed.
func cleanPath(p string) string {
	p = path.Clean(strings.TrimLeft(p, "/"))
	for strings.HasPrefix(p, "../") {
		p = strings.TrimPrefix(p, "../")
	}
	if p == "" || p == "." || p == ".." {
		return DefaultFileName
	}
	return p
}
