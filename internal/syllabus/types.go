package syllabus

import "strings"

// Course is one catalog entry: a course code, its name, and its units in
// syllabus order.
type Course struct {
	Code  string   `yaml:"code" json:"code"`
	Name  string   `yaml:"name" json:"name"`
	Units []string `yaml:"units" json:"units"`
}

// SyllabusText joins the unit titles one per line.
func (c Course) SyllabusText() string {
	return strings.Join(c.Units, "\n")
}

// clone returns a copy that shares no slice with c.
func (c Course) clone() Course {
	c.Units = append([]string(nil), c.Units...)
	return c
}

// File is the on-disk YAML layout of a catalog.
type File struct {
	Courses []Course `yaml:"courses"`
}
