package snapshot_test

import (
	"bytes"
	"fmt"

	"github.com/peoplesfeelings/mindmap/pkg/item"
	"github.com/peoplesfeelings/mindmap/pkg/layout"
	"github.com/peoplesfeelings/mindmap/pkg/snapshot"
	"github.com/peoplesfeelings/mindmap/pkg/viewport"
)

func ExampleWrite() {
	frame := layout.Frame{
		Nodes: []layout.NodeFrame{
			{ID: "root", Item: item.Item{ID: "root", IsFirst: true}, X: -100, Y: -40, Width: 200, Height: 80, Pinned: true},
		},
		Transform: viewport.Identity,
	}

	var buf bytes.Buffer
	if err := snapshot.Write(snapshot.FromFrame(frame, nil), &buf); err != nil {
		fmt.Println("Error:", err)
		return
	}

	s, err := snapshot.Read(&buf)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	n := s.Nodes[0]
	fmt.Printf("%s at (%g, %g), pinned=%v\n", n.ID, n.X, n.Y, n.Pinned)
	// Output:
	// root at (0, 0), pinned=true
}
