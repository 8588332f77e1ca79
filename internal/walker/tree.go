package walker

import (
	"fmt"
	"strings"
)

// NodeType distinguishes directories from files in the tree view.
type NodeType string

const (
	NodeDir  NodeType = "dir"
	NodeFile NodeType = "file"
)

// TreeNode is one entry of the directory tree view. Directory nodes list at
// most MaxItemsPerDir children; FileCount always covers every file beneath
// the directory, listed or not.
type TreeNode struct {
	Name       string      `json:"name"`
	Type       NodeType    `json:"type"`
	Path       string      `json:"path"`
	Size       int64       `json:"size,omitempty"`
	Children   []*TreeNode `json:"children,omitempty"`
	Truncated  bool        `json:"truncated,omitempty"`
	Omitted    int         `json:"omitted,omitempty"`
	TotalItems int         `json:"total_items,omitempty"`
	FileCount  int         `json:"file_count,omitempty"`
	Unreadable bool        `json:"unreadable,omitempty"`
}

// IsDir reports whether the node is a directory.
func (n *TreeNode) IsDir() bool {
	return n.Type == NodeDir
}

// Render draws the children of n as an indented text tree:
//
//	├── cmd/
//	│   └── main.go
//	└── ... and 3 more
func (n *TreeNode) Render() string {
	if n == nil {
		return ""
	}
	var lines []string
	renderChildren(n, "", &lines)
	return strings.Join(lines, "\n")
}

func renderChildren(n *TreeNode, prefix string, lines *[]string) {
	if n.Unreadable {
		*lines = append(*lines, prefix+"└── [permission denied]")
		return
	}
	for i, child := range n.Children {
		last := i == len(n.Children)-1 && !n.Truncated
		branch, indent := "├── ", "│   "
		if last {
			branch, indent = "└── ", "    "
		}
		if child.IsDir() {
			*lines = append(*lines, prefix+branch+child.Name+"/")
			renderChildren(child, prefix+indent, lines)
		} else {
			*lines = append(*lines, prefix+branch+child.Name)
		}
	}
	if n.Truncated {
		*lines = append(*lines, fmt.Sprintf("%s└── ... and %d more", prefix, n.Omitted))
	}
}

// TopLevel returns the directory children of n mapped to the names of up
// to perDir files listed directly beneath each of them.
func (n *TreeNode) TopLevel(perDir int) (dirs []string, files map[string][]string) {
	files = make(map[string][]string)
	if n == nil {
		return nil, files
	}
	for _, child := range n.Children {
		if !child.IsDir() {
			continue
		}
		dirs = append(dirs, child.Name)
		for _, f := range child.Children {
			if f.IsDir() || len(files[child.Name]) >= perDir {
				continue
			}
			files[child.Name] = append(files[child.Name], f.Name)
		}
	}
	return dirs, files
}
