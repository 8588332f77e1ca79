// Package diagrams renders Mermaid flowcharts of a repository's layout,
// external systems and HTTP routes.
package diagrams

import (
	"fmt"
	"strings"

	"github.com/ziadkadry99/repo-onboarder/internal/integrations"
	"github.com/ziadkadry99/repo-onboarder/internal/routes"
	"github.com/ziadkadry99/repo-onboarder/internal/walker"
)

// Limits keep the diagrams readable.
const (
	MaxStructureDirs = 8
	MaxFilesPerDir   = 3
	MaxSystems       = 12
	MaxRoutes        = 20
)

// Structure draws the top-level directories of tree with the first files
// listed in each.
func Structure(tree *walker.TreeNode) string {
	var b strings.Builder
	b.WriteString("graph TD\n")
	b.WriteString("    subgraph Structure [Project Structure]\n")

	rootName := "."
	if tree != nil {
		rootName = tree.Name
	}
	fmt.Fprintf(&b, "        root[\"%s/\"]\n", escapeMermaid(rootName))

	dirs, files := tree.TopLevel(MaxFilesPerDir)
	for i, dir := range dirs[:min(len(dirs), MaxStructureDirs)] {
		dirID := fmt.Sprintf("dir%d", i)
		fmt.Fprintf(&b, "        %s[\"%s/\"]\n", dirID, escapeMermaid(dir))
		fmt.Fprintf(&b, "        root --> %s\n", dirID)
		for j, name := range files[dir] {
			fileID := fmt.Sprintf("file%d_%d", i, j)
			fmt.Fprintf(&b, "        %s[\"%s\"]\n", fileID, escapeMermaid(name))
			fmt.Fprintf(&b, "        %s --> %s\n", dirID, fileID)
		}
	}

	b.WriteString("    end\n")
	return b.String()
}

// Systems draws the application connected to each external system.
func Systems(systems []integrations.System) string {
	var b strings.Builder
	b.WriteString("graph TD\n")
	b.WriteString("    subgraph Systems [External Systems]\n")
	if len(systems) == 0 {
		b.WriteString("        none[No external systems detected]\n")
		b.WriteString("    end\n")
		return b.String()
	}

	b.WriteString("        app[Application]\n")
	for _, s := range systems[:min(len(systems), MaxSystems)] {
		id := "sys_" + sanitizeID(s.Name)
		if s.Description != "" {
			fmt.Fprintf(&b, "        %s[\"%s<br/>%s\"]\n", id, escapeMermaid(s.Name), escapeMermaid(s.Description))
		} else {
			fmt.Fprintf(&b, "        %s[\"%s\"]\n", id, escapeMermaid(s.Name))
		}
		fmt.Fprintf(&b, "        app --> %s\n", id)
	}
	b.WriteString("    end\n")
	return b.String()
}

// Routes draws the first MaxRoutes routes.
func Routes(rs []routes.Route) string {
	var b strings.Builder
	b.WriteString("graph TD\n")
	b.WriteString("    subgraph Routes [HTTP Routes]\n")
	if len(rs) == 0 {
		b.WriteString("        none[No routes detected]\n")
		b.WriteString("    end\n")
		return b.String()
	}

	b.WriteString("        api[API]\n")
	for i, r := range rs[:min(len(rs), MaxRoutes)] {
		id := fmt.Sprintf("route%d", i)
		fmt.Fprintf(&b, "        %s[\"%s %s<br/>%s\"]\n", id, r.Method, escapeMermaid(r.Path), escapeMermaid(r.Framework))
		fmt.Fprintf(&b, "        api --> %s\n", id)
	}
	if len(rs) > MaxRoutes {
		fmt.Fprintf(&b, "        more[\"... and %d more\"]\n", len(rs)-MaxRoutes)
		b.WriteString("        api --> more\n")
	}
	b.WriteString("    end\n")
	return b.String()
}

var idReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	".", "_",
	"-", "_",
	" ", "_",
	"(", "_",
	")", "_",
	"[", "_",
	"]", "_",
	"{", "_",
	"}", "_",
	":", "_",
)

// sanitizeID converts a string into a safe mermaid node ID.
func sanitizeID(s string) string {
	return idReplacer.Replace(s)
}

var labelReplacer = strings.NewReplacer(
	"\"", "#quot;",
	"(", "#lpar;",
	")", "#rpar;",
	"[", "#lsqb;",
	"]", "#rsqb;",
	"{", "#lbrace;",
	"}", "#rbrace;",
	"<", "#lt;",
	">", "#gt;",
)

// escapeMermaid escapes characters that have special meaning in mermaid labels.
func escapeMermaid(s string) string {
	return labelReplacer.Replace(s)
}
