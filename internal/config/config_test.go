package config

import (
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"
)

// memResolver serves templates from a fixed in-memory set of YAML strings.
type memResolver map[string]string

func (m memResolver) Resolve(ref string) (Document, error) {
	src, ok := m[ref]
	if !ok {
		return nil, &NotFoundError{Ref: ref, Searched: "memory"}
	}
	return ParseDocument(strings.NewReader(src))
}

func mustParse(t *testing.T, src string) Document {
	t.Helper()
	doc, err := ParseDocument(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	return doc
}

func TestDeepMergeSimple(t *testing.T) {
	left := mustParse(t, "foo: left\nbar: left\n")
	right := mustParse(t, "bar: right\nbaz: right\n")

	got := DeepMerge(left, right)

	want := mustParse(t, "foo: left\nbar: right\nbaz: right\n")
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DeepMerge = %v, want %v", got, want)
	}
}

func TestDeepMergeNested(t *testing.T) {
	left := mustParse(t, `
foo: left
inner:
  foo: left
  bar: left
`)
	right := mustParse(t, `
bar: right
inner:
  bar: right
  baz: right
`)

	got := DeepMerge(left, right)

	want := mustParse(t, `
foo: left
bar: right
inner:
  foo: left
  bar: right
  baz: right
`)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DeepMerge = %v, want %v", got, want)
	}
}

func TestDeepMergeSequencesReplace(t *testing.T) {
	left := mustParse(t, "delays: [1, 2, 3]\n")
	right := mustParse(t, "delays: [9]\n")

	got := DeepMerge(left, right).(Document)

	want := mustParse(t, "delays: [9]\n")
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sequence should replace wholesale, got %v", got)
	}
}

func TestDeepMergeModeTagMismatchReplaces(t *testing.T) {
	left := mustParse(t, "mode: bitmask_slice\nicon_size: {x: 32, y: 32}\n")
	right := mustParse(t, "mode: bitmask_windows\nicon_size_x: 64\n")

	got := DeepMerge(left, right)

	if !reflect.DeepEqual(got, right) {
		t.Errorf("mode mismatch should replace outright, got %v", got)
	}
}

func TestDeepMergeIdempotent(t *testing.T) {
	doc := mustParse(t, `
mode: bitmask_slice
icon_size: {x: 32, y: 32}
positions:
  convex: 0
  concave: 1
`)
	got := DeepMerge(doc, doc)
	if !reflect.DeepEqual(got, doc) {
		t.Errorf("merge with self should be a no-op, got %v", got)
	}
}

func TestResolveTemplatesChain(t *testing.T) {
	resolver := memResolver{
		"A": "template: B\ny: 2\n",
		"B": "z: 3\n",
	}
	root := mustParse(t, "template: A\nx: 1\n")

	got, err := ResolveTemplates(root, resolver)
	if err != nil {
		t.Fatalf("ResolveTemplates: %v", err)
	}

	want := mustParse(t, "x: 1\ny: 2\nz: 3\n")
	if !reflect.DeepEqual(got, want) {
		t.Errorf("flattened = %v, want %v", got, want)
	}
}

func TestResolveTemplatesChildWins(t *testing.T) {
	resolver := memResolver{
		"parent": `
second: 2
third: 2
inner:
  inner1: 2
  inner2: 2
`,
	}
	root := mustParse(t, `
template: parent
second: 1
inner:
  inner1: 1
`)

	got, err := ResolveTemplates(root, resolver)
	if err != nil {
		t.Fatalf("ResolveTemplates: %v", err)
	}

	want := mustParse(t, `
second: 1
third: 2
inner:
  inner1: 1
  inner2: 2
`)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("flattened = %v, want %v", got, want)
	}
}

func TestResolveTemplatesCycleHitsCap(t *testing.T) {
	resolver := memResolver{
		"self": "template: self\nx: 1\n",
	}
	root := mustParse(t, "template: self\n")

	_, err := ResolveTemplates(root, resolver)

	var recErr *RecursionError
	if !errors.As(err, &recErr) {
		t.Fatalf("expected RecursionError, got %v", err)
	}
}

func TestResolveTemplatesNotFound(t *testing.T) {
	root := mustParse(t, "template: missing\n")

	_, err := ResolveTemplates(root, memResolver{})

	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.Ref != "missing" {
		t.Errorf("NotFoundError.Ref = %q, want %q", nf.Ref, "missing")
	}
}

func TestResolveTemplatesNoTemplate(t *testing.T) {
	root := mustParse(t, "x: 1\n")

	got, err := ResolveTemplates(root, memResolver{})
	if err != nil {
		t.Fatalf("ResolveTemplates: %v", err)
	}
	want := mustParse(t, "x: 1\n")
	if !reflect.DeepEqual(got, want) {
		t.Errorf("flattened = %v, want %v", got, want)
	}
}

func TestDecode(t *testing.T) {
	doc := mustParse(t, "name: wall\ncount: 3\n")
	var out struct {
		Name  string `yaml:"name"`
		Count int    `yaml:"count"`
	}
	if err := Decode(doc, &out); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.Name != "wall" || out.Count != 3 {
		t.Errorf("Decode = %+v", out)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestFileResolverMissingDir(t *testing.T) {
	if _, err := NewFileResolver("/definitely/not/a/dir"); err == nil {
		t.Error("expected error for missing template dir")
	}
}

func TestFileResolver(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir+"/base.yaml", "x: 1\n")

	resolver, err := NewFileResolver(dir)
	if err != nil {
		t.Fatalf("NewFileResolver: %v", err)
	}

	doc, err := resolver.Resolve("base")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if doc["x"] != 1 {
		t.Errorf("resolved doc = %v", doc)
	}

	_, err = resolver.Resolve("absent")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}
