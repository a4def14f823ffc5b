//go:build e2e

// Package e2e verifies that generated code compiles and behaves as
// documented.
//
// Run with: go test -tags e2e ./e2e/... -v
package e2e

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const bookSource = `package main

type Book struct {
	title string
	//marco:name(cost)
	price  float64
	author string ` + "`marco:\"exclude\"`" + `
}

//marco:derive Getter,Setter,Wither,Builder
type Pair[K comparable, V any] struct {
	key   K
	value V
}
`

const mainSource = `package main

import "fmt"

func main() {
	b := NewBookBuilder().Title("Dune").Price(9.5).Author("Herbert").Build()
	check(b.GetTitle() == "Dune", "getter")
	check(b.GetCost() == 9.5, "renamed getter")
	check(NewBookBuilder().Author("Herbert").Price(9.5).Title("Dune").Build() == Book{title: "Dune", price: 9.5, author: "Herbert"}, "builder in any order")

	b.SetTitle("Dune Messiah")
	check(b.GetTitle() == "Dune Messiah", "setter")

	calls := 0
	same := b.WithCost(func(c float64) float64 { calls++; return c })
	check(same == b && calls == 1, "identity wither")
	doubled := b.WithCost(func(c float64) float64 { return c * 2 })
	check(doubled.GetCost() == 19 && b.GetCost() == 9.5, "wither returns a copy")

	check(Book{}.Builder() == NewBookBuilder(), "builder factory")

	func() {
		defer func() {
			check(recover() == "price field is not set in Book struct", "missing field panic")
		}()
		NewBookBuilder().Title("x").Author("y").Build()
	}()

	p := NewPairBuilder[string, int]().Key("a").Value(1).Build()
	p.SetValue(2)
	check(p.GetKey() == "a" && p.GetValue() == 2, "generic pair")
	check(p.WithKey(func(k string) string { return k + "b" }).GetKey() == "ab", "generic wither")

	fmt.Println("ok")
}

func check(ok bool, what string) {
	if !ok {
		panic("check failed: " + what)
	}
}
`

func requireGo(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("go"); err != nil {
		t.Fatalf("go not found in PATH. Install from https://go.dev/dl/")
	}
}

// findModuleRoot walks up from the working directory to the marco go.mod.
func findModuleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found")
		}
		dir = parent
	}
}

func run(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s %s: %w\n%s", name, strings.Join(args, " "), err, stderr.String())
	}
	return stdout.String(), nil
}

// TestGeneratedCodeRuns generates the library example into an isolated
// module and runs a program exercising every generated member.
func TestGeneratedCodeRuns(t *testing.T) {
	requireGo(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	moduleRoot, err := findModuleRoot()
	if err != nil {
		t.Fatalf("find module root: %v", err)
	}
	tmpDir := t.TempDir()

	binaryPath := filepath.Join(tmpDir, "marco")
	if _, err := run(ctx, moduleRoot, "go", "build", "-o", binaryPath, "./cmd/marco"); err != nil {
		t.Fatalf("build binary: %v", err)
	}

	modDir := filepath.Join(tmpDir, "library")
	if err := os.MkdirAll(modDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	files := map[string]string{
		"go.mod":  "module library\n\ngo 1.24\n",
		"book.go": bookSource,
		"main.go": mainSource,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(modDir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	if _, err := run(ctx, modDir, binaryPath, "generate", "book.go", "--type=Book"); err != nil {
		t.Fatalf("marco generate: %v", err)
	}
	if _, err := run(ctx, modDir, binaryPath, "generate", "book.go"); err != nil {
		t.Fatalf("marco generate: %v", err)
	}

	generated, err := os.ReadFile(filepath.Join(modDir, "book_marco.go"))
	if err != nil {
		t.Fatalf("read generated file: %v", err)
	}
	for _, absent := range []string{"GetAuthor", "SetAuthor", "WithAuthor"} {
		if bytes.Contains(generated, []byte(absent)) {
			t.Errorf("excluded member %s was generated", absent)
		}
	}

	t.Run("go_vet", func(t *testing.T) {
		if _, err := run(ctx, modDir, "go", "vet", "./..."); err != nil {
			t.Fatalf("go vet failed: %v", err)
		}
	})

	t.Run("go_run", func(t *testing.T) {
		out, err := run(ctx, modDir, "go", "run", ".")
		if err != nil {
			t.Fatalf("go run failed: %v", err)
		}
		if strings.TrimSpace(out) != "ok" {
			t.Fatalf("unexpected output: %q", out)
		}
	})
}
