package graph_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/arbor/pkg/graph"
	"github.com/matzehuels/arbor/pkg/hierarchy"
	"github.com/matzehuels/arbor/pkg/layout"
)

func ExampleWriteTree() {
	// Build a small hierarchy
	leaf := hierarchy.New("lib")
	leaf.Meta = hierarchy.Metadata{"version": "1.0.0"}
	root := hierarchy.New("app", leaf)

	// Write to a buffer (or any io.Writer)
	var buf bytes.Buffer
	if err := graph.WriteTree(root, &buf); err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Println(buf.String())
	// Output:
	// {
	//   "id": "app",
	//   "children": [
	//     {
	//       "id": "lib",
	//       "meta": {
	//         "version": "1.0.0"
	//       }
	//     }
	//   ]
	// }
}

func ExampleReadTree() {
	jsonData := `{
		"id": "root",
		"children": [
			{"id": "left", "children": [{"id": "x"}, {"id": "y"}]},
			{"id": "right"}
		]
	}`

	root, err := graph.ReadTree(strings.NewReader(jsonData))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Println("Nodes:", hierarchy.Count(root))
	fmt.Println("Height:", hierarchy.Height(root))
	fmt.Println("Leaves:", len(hierarchy.Leaves(root)))
	// Output:
	// Nodes: 5
	// Height: 2
	// Leaves: 3
}

func ExampleExport() {
	root := hierarchy.New("root", hierarchy.New("a"), hierarchy.New("b"))
	size := layout.Size{Height: 500, Width: 960}
	if err := layout.Apply(root, size); err != nil {
		fmt.Println("Error:", err)
		return
	}

	// Left-to-right: the depth axis runs horizontally
	l, err := graph.Export(root, size, layout.Cluster, graph.LeftRight)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Printf("frame %vx%v\n", l.Width, l.Height)
	for _, n := range l.Nodes {
		fmt.Printf("%d %s parent=%d screen=(%v, %v)\n", n.Index, n.ID, n.Parent, n.ScreenX, n.ScreenY)
	}
	// Output:
	// frame 960x500
	// 0 root parent=-1 screen=(0, 250)
	// 1 a parent=0 screen=(960, 125)
	// 2 b parent=0 screen=(960, 375)
}

func ExampleWriteLayoutFile() {
	root := hierarchy.New("server", hierarchy.New("database"))
	size := layout.Size{Height: 100, Width: 100}
	_ = layout.Apply(root, size, layout.WithAlgorithm(layout.Tidy))
	l, _ := graph.Export(root, size, layout.Tidy, graph.TopDown)

	path := filepath.Join(os.TempDir(), "example.layout.json")
	defer os.Remove(path)

	if err := graph.WriteLayoutFile(l, path); err != nil {
		fmt.Println("Error:", err)
		return
	}

	back, err := graph.ReadLayoutFile(path)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Nodes:", len(back.Nodes), "Links:", len(back.Links))
	// Output:
	// Nodes: 2 Links: 1
}
