package exporter

import (
	"bytes"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

// Table renders the statistics as a text table.
func (s *Stats) Table() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Element", "Count"})
	table.Append([]string{"Nodes", strconv.Itoa(s.Nodes)})
	table.Append([]string{"Meshes", strconv.Itoa(s.Meshes)})
	table.Append([]string{"Lights", strconv.Itoa(s.Lights)})
	table.Append([]string{"Cameras", strconv.Itoa(s.Cameras)})
	table.Append([]string{"Bones", strconv.Itoa(s.Bones)})
	table.Append([]string{"Groups", strconv.Itoa(s.Groups)})
	table.Append([]string{"Materials", strconv.Itoa(s.Materials)})
	table.Append([]string{"Instances", strconv.Itoa(s.Instances)})
	table.Render()
	return buf.String()
}
