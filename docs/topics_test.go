package docs

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/etnz/warehouse"
	"github.com/etnz/warehouse/storage"
	"github.com/google/go-cmp/cmp"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

func TestTopics(t *testing.T) {
	files, err := fs.Glob(manual, "*.md")
	if err != nil {
		t.Fatal(err)
	}
	var embedded []string
	for _, f := range files {
		if name := strings.TrimSuffix(f, ".md"); name != Index {
			embedded = append(embedded, name)
		}
	}

	listed := make(map[string]bool)
	for _, topic := range Topics() {
		if listed[topic.Name] {
			t.Errorf("topic %q is listed twice", topic.Name)
		}
		listed[topic.Name] = true
		if topic.Summary == "" {
			t.Errorf("topic %q has no summary", topic.Name)
		}
	}
	for _, name := range embedded {
		if !listed[name] {
			t.Errorf("%s.md is not listed in readme.md", name)
		}
	}
	if len(listed) != len(embedded) {
		t.Errorf("readme.md lists %v, the manual has %v", Names(), embedded)
	}
}

func TestRead(t *testing.T) {
	all, err := Read(All)
	if err != nil {
		t.Fatalf("Read(All) error: %v", err)
	}
	// titles follow the index order
	var titles []string
	for _, line := range strings.Split(all, "\n") {
		if strings.HasPrefix(line, "# ") {
			titles = append(titles, line)
		}
	}
	var want []string
	for _, name := range append([]string{Index}, Names()...) {
		doc, err := Read(name)
		if err != nil {
			t.Fatalf("Read(%q) error: %v", name, err)
		}
		want = append(want, strings.SplitN(doc, "\n", 2)[0])
	}
	if diff := cmp.Diff(want, titles); diff != "" {
		t.Errorf("Read(All) titles mismatch (-want +got):\n%s", diff)
	}

	if _, err := Read("items", "pricing"); !errors.Is(err, ErrUnknownTopic) {
		t.Errorf("Read(pricing) error = %v, want ErrUnknownTopic", err)
	}
}

// TestExamples runs the examples of the manual and of the README against a
// fresh whs binary. A "bash setup" block starts a scenario in an empty
// folder, "bash run" records its output for the next "console check", and
// "bash check" must succeed. At the end of each scenario the saved inventory
// must still be consistent.
func TestExamples(t *testing.T) {
	bin := t.TempDir()
	build := exec.Command("go", "build", "-o", filepath.Join(bin, "whs"), "../whs/")
	if out, err := build.CombinedOutput(); err != nil {
		t.Fatalf("cannot build whs: %v\n%s", err, out)
	}
	env := append(os.Environ(),
		"PATH="+bin+string(os.PathListSeparator)+os.Getenv("PATH"),
		"WHS_DATA_DIR=.warehouse", "WHS_STORAGE=dir", "WHS_TIMEZONE=UTC", "WHS_VERBOSE=false",
	)

	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatal(err)
	}
	for _, file := range append(files, "../README.md") {
		t.Run(filepath.Base(file), func(t *testing.T) {
			s := &scenario{env: env}
			for _, ex := range examples(t, file) {
				if ex.kind == "bash setup" && s.dir != "" {
					checkInventory(t, s.dir)
					s.dir = ""
				}
				s.run(t, ex)
			}
			if s.dir != "" {
				checkInventory(t, s.dir)
			}
		})
	}
}

// example is a fenced block of a markdown file.
type example struct {
	kind string
	code string
	pos  string // file:line
}

// examples returns the executable blocks of a markdown file.
func examples(t *testing.T, file string) []example {
	t.Helper()
	src, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	var list []example
	doc := goldmark.DefaultParser().Parse(text.NewReader(src))
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		block, ok := n.(*ast.FencedCodeBlock)
		if !entering || !ok || block.Info == nil {
			return ast.WalkContinue, nil
		}
		kind := string(block.Info.Segment.Value(src))
		switch kind {
		case "bash setup", "bash run", "bash check", "console check":
		default:
			return ast.WalkContinue, nil
		}
		var code bytes.Buffer
		for i := 0; i < block.Lines().Len(); i++ {
			line := block.Lines().At(i)
			code.Write(line.Value(src))
		}
		line := bytes.Count(src[:block.Info.Segment.Start], []byte("\n")) + 1
		list = append(list, example{kind: kind, code: code.String(), pos: file + ":" + strconv.Itoa(line)})
		return ast.WalkContinue, nil
	})
	return list
}

// scenario is a sequence of examples sharing a folder.
type scenario struct {
	env  []string
	dir  string
	last string // output of the last "bash run"
}

func (s *scenario) run(t *testing.T, ex example) {
	t.Helper()
	if ex.kind == "console check" {
		got := strings.ReplaceAll(strings.TrimSpace(s.last), "\t", "        ")
		if want := strings.TrimSpace(ex.code); got != want {
			t.Errorf("%s: output mismatch:\ngot:\n%s\nwant:\n%s\ngot: %q\nwant:%q", ex.pos, got, want, got, want)
		}
		return
	}
	if ex.kind == "bash setup" || s.dir == "" {
		s.dir = t.TempDir()
	}
	cmd := exec.Command("bash", "-c", "set -e; "+ex.code)
	cmd.Dir = s.dir
	cmd.Env = s.env
	out, err := cmd.CombinedOutput()
	if ex.kind == "bash run" {
		s.last = string(out)
	}
	if err == nil {
		return
	}
	if ex.kind == "bash check" {
		t.Errorf("%s: check failed: %v\n%s", ex.pos, err, out)
		return
	}
	t.Fatalf("%s: %s failed: %v\n%s", ex.pos, ex.kind, err, out)
}

// checkInventory loads the inventory a scenario saved in the dir storage and
// checks the properties every operation preserves.
func checkInventory(t *testing.T, dir string) {
	t.Helper()
	data := filepath.Join(dir, ".warehouse")
	if _, err := os.Stat(data); err != nil {
		return // nothing saved
	}
	slots, err := storage.NewDir(data)
	if err != nil {
		t.Fatal(err)
	}
	st, err := storage.Load(context.Background(), slots)
	if err != nil {
		t.Fatalf("scenario in %s left an unreadable inventory: %v", dir, err)
	}

	items := make(map[string]bool)
	for _, it := range st.Items {
		items[it.ID] = true
	}
	inStock := make(map[string]string)
	for _, a := range st.Assets {
		if !items[a.ItemID] {
			t.Errorf("unit %s refers to the missing item %s", a.ID, a.ItemID)
		}
		if a.Status != warehouse.Available {
			continue
		}
		if other, dup := inStock[a.SignalNumber]; dup {
			t.Errorf("signal %s is in stock twice: %s and %s", a.SignalNumber, other, a.ID)
		}
		inStock[a.SignalNumber] = a.ID
	}
	logs := make(map[string]bool)
	for _, e := range st.Logs {
		if logs[e.ID] {
			t.Errorf("log entry %s is recorded twice", e.ID)
		}
		logs[e.ID] = true
	}
}
