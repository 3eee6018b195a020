// Package config handles the declarative cut-sheet configuration documents:
// parsing YAML into raw document trees, resolving template inheritance
// chains, and deep-merging the chain into one effective document.
package config

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Document is a raw, untyped configuration mapping. Nested mappings decode
// as nested Documents.
type Document = map[string]any

// modeKey tags the operation variant a document configures. Two mappings
// carrying different mode tags are never merged field-by-field.
const modeKey = "mode"

// ParseDocument reads one YAML document into a raw mapping.
func ParseDocument(r io.Reader) (Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	if doc == nil {
		doc = Document{}
	}
	return doc, nil
}

// Decode re-marshals a resolved document into a typed config struct.
func Decode(doc Document, out any) error {
	raw, err := yaml.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "re-marshal document")
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return errors.Wrap(err, "decode document")
	}
	return nil
}

// DeepMerge folds src over dst and returns the result. Mapping values merge
// recursively, with entries from src overriding or extending dst and
// unmatched keys from either side preserved. Every other pairing, including
// two mappings whose mode tags differ, is a full replacement by src.
func DeepMerge(dst, src any) any {
	dstMap, dstOK := dst.(Document)
	srcMap, srcOK := src.(Document)
	if !dstOK || !srcOK {
		return src
	}
	if tagMismatch(dstMap, srcMap) {
		return src
	}
	out := make(Document, len(dstMap)+len(srcMap))
	for k, v := range dstMap {
		out[k] = v
	}
	for k, v := range srcMap {
		if existing, ok := out[k]; ok {
			out[k] = DeepMerge(existing, v)
		} else {
			out[k] = v
		}
	}
	return out
}

func tagMismatch(dst, src Document) bool {
	dstMode, dstOK := dst[modeKey].(string)
	srcMode, srcOK := src[modeKey].(string)
	return dstOK && srcOK && dstMode != srcMode
}
