package main

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/term"

	"github.com/katalvlaran/civicindex/index"
	"github.com/katalvlaran/civicindex/infer"
	"github.com/katalvlaran/civicindex/request"
)

type userSummary struct {
	Owner      string `json:"owner"`
	Requests   int    `json:"requests"`
	Open       int    `json:"open"`
	MostUrgent string `json:"most_urgent,omitempty"`
}

type globalSummary struct {
	Requests int `json:"requests"`
	Links    int `json:"links"`
	Clusters int `json:"clusters"`
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newTable returns a writer mirrored to w, rounded when w is a terminal.
func newTable(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleLight)
	}
	return tw
}

func renderRequests(w io.Writer, reqs []*request.Request) {
	tw := newTable(w)
	tw.AppendHeader(table.Row{"ID", "Tracking", "Title", "Status", "Priority", "Category", "Location", "Submitted"})
	for _, r := range reqs {
		tw.AppendRow(table.Row{r.ID, r.TrackingCode, r.Title, r.Status, r.Priority, r.Category, r.Location, r.SubmittedAt.Format(time.DateTime)})
	}
	tw.Render()
}

func renderUserSummaries(w io.Writer, rows []userSummary) {
	tw := newTable(w)
	tw.AppendHeader(table.Row{"Owner", "Requests", "Open", "Most urgent"})
	for _, s := range rows {
		tw.AppendRow(table.Row{s.Owner, s.Requests, s.Open, s.MostUrgent})
	}
	tw.Render()
}

// renderRelations prints one row per relation using Relation.Fields as
// the columns.
func renderRelations(w io.Writer, rels []index.Relation) {
	tw := newTable(w)
	var header table.Row
	for _, f := range rels[0].Fields() {
		header = append(header, f.Name)
	}
	tw.AppendHeader(header)
	for _, rel := range rels {
		var row table.Row
		for _, f := range rel.Fields() {
			row = append(row, f.Value)
		}
		tw.AppendRow(row)
	}
	tw.Render()
}

func renderProximity(w io.Writer, near []index.Proximity) {
	tw := newTable(w)
	tw.AppendHeader(table.Row{"ID", "Title", "Status", "Priority", "Distance", "Hops"})
	for _, p := range near {
		tw.AppendRow(table.Row{p.Request.ID, p.Request.Title, p.Request.Status, p.Request.Priority, p.Distance, p.Hops})
	}
	tw.Render()
}

func renderInference(w io.Writer, res infer.Result) {
	tw := newTable(w)
	tw.AppendRows([]table.Row{
		{"Priority", res.Priority},
		{"Category", res.Category},
		{"Score", res.Score},
		{"Reason", res.Reason},
	})
	tw.Render()
}
