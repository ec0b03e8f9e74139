package graph

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/warriorguo/depflow/types"
)

/**
 * RenderDOT returns the Graphviz DOT document of g.
 * records is optional, it is keyed by node construction index and colours each
 * node by how far its execution got.
 */
func RenderDOT(name string, g types.DAG, records map[int]*types.NodeTraceRecord) string {
	renderer := newDAGRenderer(records)
	return renderer.generateDOT(name, g)
}

func newDAGRenderer(records map[int]*types.NodeTraceRecord) *dagRenderer {
	if records == nil {
		records = make(map[int]*types.NodeTraceRecord)
	}
	return &dagRenderer{records, &strings.Builder{}}
}

type dagRenderer struct {
	records map[int]*types.NodeTraceRecord
	sb      *strings.Builder
}

func (d *dagRenderer) generateDOT(name string, g types.DAG) string {
	d.write("digraph D {")
	for i, n := range g.Nodes() {
		d.drawNode(i, n)
	}
	for _, e := range g.Edges() {
		from, _ := g.Index(e.From)
		to, _ := g.Index(e.To)
		d.write("%s -> %s", nodeID(from), nodeID(to))
	}
	d.write("label=%s", quoteString(name))
	d.write("}")
	return d.sb.String()
}

func packToComment(r *types.NodeTraceRecord) string {
	s, _ := json.Marshal(r)
	return formatNL(addSlashes(string(s)))
}

func (d *dagRenderer) calcAttr(index int) string {
	record, exists := d.records[index]
	if !exists {
		return ""
	}

	color := ""
	switch record.Status {
	case types.Completed:
		color = "green"
	case types.Failed:
		color = "red"
	case types.Running, types.Waiting:
		color = "yellow"
	case types.Skipped, types.Cancelled:
		color = "grey"
	default:
		color = "white"
	}
	return fmt.Sprintf(" style=\"filled\" color=\"%s\" comment=\"%s\"", color, packToComment(record))
}

func (d *dagRenderer) drawNode(index int, n *types.Node) {
	d.write("%s [label=%s shape=\"record\"%s]", nodeID(index), quoteString(n.Label), d.calcAttr(index))
}

func (d *dagRenderer) write(format string, s ...any) {
	d.sb.WriteString(fmt.Sprintf(format+"\n", s...))
}

var (
	slashesToken = []string{"\\", "\"", "'", " "}
)

func addSlashes(s string) string {
	for _, token := range slashesToken {
		s = strings.ReplaceAll(s, token, "\\"+token)
	}
	return s
}

func formatNL(s string) string {
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

func quoteString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	return "\"" + strings.ReplaceAll(s, "\"", "\\\"") + "\""
}

func nodeID(index int) string {
	return fmt.Sprintf("n%d", index)
}
