package cli

import (
	"strings"

	"hackspace/internal/filetree"
	"hackspace/internal/model"
	"hackspace/internal/store"

	"github.com/jedib0t/go-pretty/v6/table"
)

// treeView renders as the node list in json/yaml and as visible rows in a table.
type treeView []*model.Node

func (v treeView) TableHeader() table.Row { return table.Row{"Name", "Kind", "Language", "Errors"} }

func (v treeView) TableRows() []table.Row {
	rows := filetree.New(v...).Flatten()
	out := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		name := strings.Repeat("  ", r.Depth) + r.Node.Name
		if r.Node.IsFolder() {
			if r.Node.Expanded {
				name += "/ (open)"
			} else {
				name += "/"
			}
		}
		out = append(out, table.Row{name, r.Node.Kind.String(), r.Node.Language, mark(r.Node.HasErrors)})
	}
	return out
}

type tabsView struct {
	Tabs   []model.TabEntry `json:"tabs" yaml:"tabs"`
	Active string           `json:"activeTab,omitempty" yaml:"activeTab,omitempty"`
}

func (v tabsView) TableHeader() table.Row {
	return table.Row{"", "Tab", "Language", "Modified", "Errors", "Path"}
}

func (v tabsView) TableRows() []table.Row {
	out := make([]table.Row, 0, len(v.Tabs))
	for _, t := range v.Tabs {
		active := ""
		if t.Name == v.Active {
			active = ">"
		}
		out = append(out, table.Row{active, t.Name, t.Language, mark(t.Modified), mark(t.HasErrors), t.Path})
	}
	return out
}

// snapshotView is a Snapshot whose table form is its tab bar.
type snapshotView model.Snapshot

func (v snapshotView) TableHeader() table.Row { return tabsView{}.TableHeader() }

func (v snapshotView) TableRows() []table.Row {
	return tabsView{Tabs: v.OpenTabs, Active: v.ActiveTab}.TableRows()
}

type eventsView []store.EventRecord

func (v eventsView) TableHeader() table.Row {
	return table.Row{"Seq", "Time", "Type", "Subject", "Active", "Tabs"}
}

func (v eventsView) TableRows() []table.Row {
	out := make([]table.Row, 0, len(v))
	for _, e := range v {
		out = append(out, table.Row{e.Seq, e.IssuedAt.Local().Format("2006-01-02 15:04:05"), e.Type, e.Subject, e.ActiveTab, e.OpenTabs})
	}
	return out
}

type bufferView struct {
	Name     string `json:"name" yaml:"name"`
	Path     string `json:"path,omitempty" yaml:"path,omitempty"`
	Modified bool   `json:"modified" yaml:"modified"`
	Content  string `json:"content" yaml:"content"`
}

func (v bufferView) TableHeader() table.Row { return table.Row{"Tab", "Modified", "Bytes"} }

func (v bufferView) TableRows() []table.Row {
	return []table.Row{{v.Name, mark(v.Modified), len(v.Content)}}
}

type resetView struct {
	Workspace string `json:"workspace" yaml:"workspace"`
	Reset     bool   `json:"reset" yaml:"reset"`
}

func (v resetView) TableHeader() table.Row { return table.Row{"Workspace", "Reset"} }
func (v resetView) TableRows() []table.Row { return []table.Row{{v.Workspace, mark(v.Reset)}} }

func mark(b bool) string {
	if b {
		return "*"
	}
	return ""
}
