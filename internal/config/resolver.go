package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// templateKey names the optional ancestor reference in a document. The
// resolver consumes and strips it before any typed decoding happens.
const templateKey = "template"

// templateRecursionCap bounds template chain length. Hitting it means a
// reference cycle; surfaced as an error, never silent truncation.
const templateRecursionCap = 100

// Resolver turns a template reference into the referenced raw document.
// Implementations must be safe for concurrent use: multiple files resolve
// against the same template directory in parallel.
type Resolver interface {
	Resolve(ref string) (Document, error)
}

// NotFoundError reports an unresolvable template reference together with the
// location that was searched, so the caller can build a precise message.
type NotFoundError struct {
	Ref      string
	Searched string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("template %q not found (searched %s)", e.Ref, e.Searched)
}

// RecursionError reports a template chain that exceeded the recursion cap.
type RecursionError struct {
	Ref string
}

func (e *RecursionError) Error() string {
	return fmt.Sprintf("template chain exceeded %d links resolving %q; reference cycle?",
		templateRecursionCap, e.Ref)
}

// FileResolver loads templates from a directory, trying <dir>/<ref>.yaml
// then <dir>/<ref>.yml.
type FileResolver struct {
	dir string
}

// NewFileResolver validates that dir exists and returns a resolver over it.
func NewFileResolver(dir string) (*FileResolver, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve template dir %s", dir)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("template dir not found: %s", abs)
	}
	return &FileResolver{dir: abs}, nil
}

func (f *FileResolver) Resolve(ref string) (Document, error) {
	base := filepath.Join(f.dir, ref)
	var path string
	for _, ext := range []string{".yaml", ".yml"} {
		if _, err := os.Stat(base + ext); err == nil {
			path = base + ext
			break
		}
	}
	if path == "" {
		return nil, &NotFoundError{Ref: ref, Searched: base + ".{yaml,yml}"}
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open template %s", path)
	}
	defer file.Close()
	return ParseDocument(file)
}

// NullResolver resolves every reference to an empty document. Useful when a
// caller wants template declarations ignored outright.
type NullResolver struct{}

func (NullResolver) Resolve(string) (Document, error) {
	return Document{}, nil
}

// extractTemplate removes and returns the template reference from a
// document, if one is declared.
func extractTemplate(doc Document) (string, bool) {
	ref, ok := doc[templateKey].(string)
	if ok {
		delete(doc, templateKey)
	}
	return ref, ok
}

// ResolveTemplates flattens a document's template inheritance chain into one
// effective document. The chain is walked child to ancestor, then folded in
// reverse so that each child's keys win over its ancestors' under DeepMerge.
func ResolveTemplates(root Document, resolver Resolver) (Document, error) {
	current := root
	ref, hasRef := extractTemplate(current)
	stack := []Document{current}

	for depth := 0; hasRef; depth++ {
		if depth >= templateRecursionCap {
			return nil, &RecursionError{Ref: ref}
		}
		next, err := resolver.Resolve(ref)
		if err != nil {
			return nil, err
		}
		ref, hasRef = extractTemplate(next)
		stack = append(stack, next)
	}

	merged := any(Document{})
	for i := len(stack) - 1; i >= 0; i-- {
		merged = DeepMerge(merged, stack[i])
	}
	return merged.(Document), nil
}
