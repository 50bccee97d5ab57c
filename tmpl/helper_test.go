package tmpl

import (
	"errors"
	"testing"

	"github.com/ardnew/tdict/pkg"
)

func attr(t *testing.T, err error, key string) (string, bool) {
	t.Helper()

	var e *pkg.Error
	if !errors.As(err, &e) {
		t.Fatalf("error %T is not *pkg.Error: %v", err, err)
	}

	v, ok := e.Attr(key)

	return v.String(), ok
}

func attrInt(t *testing.T, err error, key string) int64 {
	t.Helper()

	var e *pkg.Error
	if !errors.As(err, &e) {
		t.Fatalf("error %T is not *pkg.Error: %v", err, err)
	}

	v, ok := e.Attr(key)
	if !ok {
		t.Fatalf("error %v has no %q attribute", err, key)
	}

	return v.Int64()
}

func compileNode(t *testing.T, src string, opts ...Option) *Node {
	t.Helper()

	tm, err := New(src, opts...)
	if err != nil {
		t.Fatalf("New(%q): %v", src, err)
	}

	e, ok := tm.root.(expression)
	if !ok {
		t.Fatalf("New(%q) root is %T, want a single expression", src, tm.root)
	}

	return e.node
}
