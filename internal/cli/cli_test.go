package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/arbor/pkg/config"
	"github.com/matzehuels/arbor/pkg/errors"
	"github.com/matzehuels/arbor/pkg/graph"
	"github.com/matzehuels/arbor/pkg/store"
)

const treeJSON = `{"id": "root", "children": [{"id": "a"}, {"id": "b"}]}`

// isolate points every XDG directory at a temp dir and returns a working
// directory for test files.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	work := filepath.Join(dir, "work")
	if err := os.MkdirAll(work, 0755); err != nil {
		t.Fatal(err)
	}
	return work
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	old := stdout
	stdout = &out
	defer func() { stdout = old }()

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&out)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeTree(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "tree.json")
	if err := os.WriteFile(path, []byte(treeJSON), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLayoutCommand(t *testing.T) {
	work := isolate(t)
	input := writeTree(t, work)

	out, err := runCLI(t, "layout", input)
	if err != nil {
		t.Fatalf("layout: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Layout complete") || !strings.Contains(out, iconFresh) {
		t.Errorf("unexpected output:\n%s", out)
	}

	l, err := graph.ReadLayoutFile(filepath.Join(work, "tree.layout.json"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if l.Algorithm != "cluster" || l.Orientation != graph.LeftRight || l.Width != 960 || l.Height != 500 {
		t.Errorf("layout header = %s %s %vx%v", l.Algorithm, l.Orientation, l.Width, l.Height)
	}
	if len(l.Nodes) != 3 || l.Nodes[1].ScreenX != 960 || l.Nodes[1].ScreenY != 125 {
		t.Errorf("nodes = %+v", l.Nodes)
	}

	out, err = runCLI(t, "layout", input)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, iconCached) {
		t.Errorf("second run should be served from the cache:\n%s", out)
	}
}

func TestLayoutCommandFlags(t *testing.T) {
	work := isolate(t)
	input := writeTree(t, work)
	output := filepath.Join(work, "out.json")

	out, err := runCLI(t, "layout", input,
		"-o", output,
		"--algorithm", "tidy",
		"--orientation", "top-down",
		"--width", "100",
		"--height", "40",
		"--print",
	)
	if err != nil {
		t.Fatalf("layout: %v\n%s", err, out)
	}
	if !strings.Contains(out, "NODE") || !strings.Contains(out, "root") {
		t.Errorf("--print should render a node table:\n%s", out)
	}

	l, err := graph.ReadLayoutFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if l.Algorithm != "tidy" || l.Nodes[1].ScreenX != 25 || l.Nodes[1].ScreenY != 40 {
		t.Errorf("layout = %s, node a = %+v", l.Algorithm, l.Nodes[1])
	}
}

func TestDefaultOutput(t *testing.T) {
	tests := map[string]string{
		"tree.json":           "tree.layout.json",
		"data/iris.tree.json": "data/iris.tree.layout.json",
		"noext":               "noext.layout.json",
	}
	for in, want := range tests {
		if got := defaultOutput(in); got != want {
			t.Errorf("defaultOutput(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLayoutCommandErrors(t *testing.T) {
	work := isolate(t)
	input := writeTree(t, work)

	_, err := runCLI(t, "layout", input, "--algorithm", "radial")
	if !errors.Is(err, errors.ErrCodeInvalidAlgorithm) {
		t.Errorf("unknown algorithm: %v", err)
	}

	_, err = runCLI(t, "layout", input, "--node-width", "5")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("half node size: %v", err)
	}

	if _, err := runCLI(t, "layout", filepath.Join(work, "missing.json")); err == nil {
		t.Error("missing input should fail")
	}
}

func TestConfigFile(t *testing.T) {
	work := isolate(t)
	input := writeTree(t, work)
	cfgPath := filepath.Join(work, "arbor.toml")
	cfg := "[layout]\nalgorithm = \"tidy\"\norientation = \"top-down\"\n\n[cache]\nbackend = \"none\"\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := runCLI(t, "--config", cfgPath, "layout", input); err != nil {
		t.Fatal(err)
	}
	l, _ := graph.ReadLayoutFile(filepath.Join(work, "tree.layout.json"))
	if l.Algorithm != "tidy" || l.Orientation != graph.TopDown {
		t.Errorf("config not applied: %s %s", l.Algorithm, l.Orientation)
	}

	if _, err := runCLI(t, "--config", cfgPath, "layout", input, "-a", "cluster"); err != nil {
		t.Fatal(err)
	}
	l, _ = graph.ReadLayoutFile(filepath.Join(work, "tree.layout.json"))
	if l.Algorithm != "cluster" {
		t.Errorf("flag should override config, got %s", l.Algorithm)
	}

	bad := filepath.Join(work, "arbor.json")
	os.WriteFile(bad, []byte("{}"), 0644)
	if _, err := runCLI(t, "--config", bad, "layout", input); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("json config: %v, want UNSUPPORTED", err)
	}
}

func TestConfigFromXDG(t *testing.T) {
	work := isolate(t)
	input := writeTree(t, work)
	path := config.DefaultPath()
	os.MkdirAll(filepath.Dir(path), 0755)
	if err := os.WriteFile(path, []byte("[layout]\nseparation = \"sibling\"\nalgorithm = \"tidy\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := runCLI(t, "layout", input); err != nil {
		t.Fatal(err)
	}
	l, _ := graph.ReadLayoutFile(filepath.Join(work, "tree.layout.json"))
	if l.Algorithm != "tidy" {
		t.Errorf("config at %s not picked up", path)
	}
}

func TestIrisCommand(t *testing.T) {
	work := isolate(t)

	out, err := runCLI(t, "iris", "--dir", work, "--max-depth", "2")
	if err != nil {
		t.Fatalf("iris: %v\n%s", err, out)
	}

	root, err := graph.ReadTreeFile(filepath.Join(work, "iris.tree.json"))
	if err != nil {
		t.Fatalf("read tree: %v", err)
	}
	if !strings.Contains(root.Label, "<=") {
		t.Errorf("root label = %q, want a split", root.Label)
	}

	l, err := graph.ReadLayoutFile(filepath.Join(work, "iris.layout.json"))
	if err != nil {
		t.Fatalf("read layout: %v", err)
	}
	if l.MaxDepth > 2 || len(l.Nodes) < 3 {
		t.Errorf("layout depth %d with %d nodes", l.MaxDepth, len(l.Nodes))
	}
}

func TestIrisCommandCustomSamples(t *testing.T) {
	work := isolate(t)
	samples := filepath.Join(work, "samples.json")
	data := `[{"features":[1],"label":"lo"},{"features":[2],"label":"lo"},{"features":[8],"label":"hi"},{"features":[9],"label":"hi"}]`
	os.WriteFile(samples, []byte(data), 0644)

	if _, err := runCLI(t, "iris", "--dir", work, "--samples", samples, "--criterion", "entropy"); err != nil {
		t.Fatal(err)
	}
	root, _ := graph.ReadTreeFile(filepath.Join(work, "iris.tree.json"))
	if root.Label != "x[0] <= 5" || len(root.Children) != 2 {
		t.Errorf("root = %q with %d children", root.Label, len(root.Children))
	}

	os.WriteFile(samples, []byte("not json"), 0644)
	if _, err := runCLI(t, "iris", "--dir", work, "--samples", samples); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad samples: %v", err)
	}
	if _, err := runCLI(t, "iris", "--dir", work, "--criterion", "chi2"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad criterion: %v", err)
	}
}

func TestStoredLayouts(t *testing.T) {
	work := isolate(t)
	input := writeTree(t, work)

	out, err := runCLI(t, "layout", input, "--save")
	if err != nil {
		t.Fatalf("layout --save: %v\n%s", err, out)
	}

	st, err := store.NewFileStore(config.DefaultStoreDir())
	if err != nil {
		t.Fatal(err)
	}
	recs, _ := st.List(context.Background(), 0)
	if len(recs) != 1 {
		t.Fatalf("stored %d layouts, want 1", len(recs))
	}
	id := recs[0].ID
	if !strings.Contains(out, id) {
		t.Errorf("output should mention stored id %s:\n%s", id, out)
	}

	out, err = runCLI(t, "layouts", "list")
	if err != nil || !strings.Contains(out, id) {
		t.Errorf("list: %v\n%s", err, out)
	}

	exported := filepath.Join(work, "exported.json")
	if _, err := runCLI(t, "layouts", "export", id, exported); err != nil {
		t.Fatalf("export: %v", err)
	}
	if l, err := graph.ReadLayoutFile(exported); err != nil || len(l.Nodes) != 3 {
		t.Errorf("exported layout: %v", err)
	}

	if _, err := runCLI(t, "layouts", "rm", id); err != nil {
		t.Fatalf("rm: %v", err)
	}
	if _, err := runCLI(t, "layouts", "rm", id); err == nil {
		t.Error("deleting twice should fail")
	}
	out, _ = runCLI(t, "layouts", "list")
	if !strings.Contains(out, "No stored layouts") {
		t.Errorf("list after rm:\n%s", out)
	}
}

func TestCacheCommands(t *testing.T) {
	work := isolate(t)
	input := writeTree(t, work)

	out, err := runCLI(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != config.DefaultCacheDir() {
		t.Errorf("cache path = %q, want %q", out, config.DefaultCacheDir())
	}

	runCLI(t, "layout", input)
	out, err = runCLI(t, "cache", "clear")
	if err != nil || !strings.Contains(out, "Cleared file cache") {
		t.Fatalf("clear: %v\n%s", err, out)
	}
	out, _ = runCLI(t, "layout", input)
	if !strings.Contains(out, iconFresh) {
		t.Errorf("layout after clear should be recomputed:\n%s", out)
	}
}

func TestCompletionCommand(t *testing.T) {
	isolate(t)
	out, err := runCLI(t, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "arbor") {
		t.Error("bash completion should mention the binary")
	}
	for _, shell := range []string{"zsh", "fish", "powershell"} {
		if out, err := runCLI(t, "completion", shell); err != nil || out == "" {
			t.Errorf("%s completion: %v", shell, err)
		}
	}
	if _, err := runCLI(t, "completion", "tcsh"); err == nil {
		t.Error("unknown shell should fail")
	}
}

func TestVerboseFlag(t *testing.T) {
	isolate(t)
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"-v", "cache", "path"})
	root.SetOut(io.Discard)
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if c.Logger.GetLevel() != LogDebug {
		t.Errorf("level = %v, want debug", c.Logger.GetLevel())
	}
}

func TestExampleTrees(t *testing.T) {
	work := isolate(t)
	inputs, err := filepath.Glob(filepath.Join("..", "..", "examples", "trees", "*.json"))
	if err != nil || len(inputs) == 0 {
		t.Fatalf("no example trees: %v", err)
	}
	for _, input := range inputs {
		t.Run(filepath.Base(input), func(t *testing.T) {
			output := filepath.Join(work, filepath.Base(input))
			if _, err := runCLI(t, "layout", input, "-o", output, "-a", "tidy"); err != nil {
				t.Fatalf("layout: %v", err)
			}
			l, err := graph.ReadLayoutFile(output)
			if err != nil {
				t.Fatal(err)
			}
			if l.Nodes[0].Parent != -1 || len(l.Links) != len(l.Nodes)-1 {
				t.Errorf("malformed layout for %s", input)
			}
		})
	}
}
