package main

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jmgilman/sysfs/fsobj"
)

var (
	dirStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	linkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
	specialStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// marker returns the ls -F style suffix for an entry type.
func marker(obj *fsobj.Object) string {
	if obj.IsSymbolicLink() {
		return "@"
	}

	switch obj.Type() {
	case fsobj.TypeDirectory:
		return "/"
	case fsobj.TypeFIFO:
		return "|"
	case fsobj.TypeSocket:
		return "="
	case fsobj.TypeRegularFile:
		if obj.Mode()&0o111 != 0 {
			return "*"
		}
	}
	return ""
}

// renderEntry styles an entry name by its type and appends its marker.
func renderEntry(obj *fsobj.Object) string {
	name := obj.FileName() + marker(obj)

	switch {
	case obj.IsSymbolicLink():
		return linkStyle.Render(name)
	case obj.Type() == fsobj.TypeDirectory:
		return dirStyle.Render(name)
	case obj.Type() != fsobj.TypeRegularFile:
		return specialStyle.Render(name)
	default:
		return name
	}
}

func label(s string) string {
	return labelStyle.Render(s)
}
