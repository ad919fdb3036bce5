// Package syllabus provides the course catalog: a read-only mapping from
// course code to course name and ordered unit titles.
package syllabus

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

var (
	ErrDuplicateCode = errors.New("duplicate course code")
	ErrInvalidCourse = errors.New("invalid course")
)

// Catalog looks up courses by code. Implementations are safe for concurrent
// use and never change after construction.
type Catalog interface {
	// Lookup returns the course for code, or false when the code is unknown.
	Lookup(code string) (Course, bool)
	// Courses returns every course ordered by code.
	Courses() []Course
}

// NormalizeCode strips all whitespace and upper-cases code.
func NormalizeCode(code string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToUpper(r)
	}, code)
}

// StaticCatalog is an in-memory Catalog.
type StaticCatalog struct {
	courses map[string]Course
	ordered []Course
}

var _ Catalog = (*StaticCatalog)(nil)

// NewStatic builds a catalog from courses. Codes are normalized and must be
// unique; every course needs a code and a name.
func NewStatic(courses []Course) (*StaticCatalog, error) {
	c := &StaticCatalog{
		courses: make(map[string]Course, len(courses)),
	}
	for _, course := range courses {
		course = course.clone()
		course.Code = NormalizeCode(course.Code)
		course.Name = strings.TrimSpace(course.Name)
		if course.Code == "" {
			return nil, fmt.Errorf("%w: empty code for %q", ErrInvalidCourse, course.Name)
		}
		if course.Name == "" {
			return nil, fmt.Errorf("%w: empty name for %s", ErrInvalidCourse, course.Code)
		}
		if _, exists := c.courses[course.Code]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCode, course.Code)
		}
		c.courses[course.Code] = course
		c.ordered = append(c.ordered, course)
	}
	sort.Slice(c.ordered, func(i, j int) bool {
		return c.ordered[i].Code < c.ordered[j].Code
	})
	return c, nil
}

// Lookup normalizes code and returns a copy of the matching course.
func (c *StaticCatalog) Lookup(code string) (Course, bool) {
	course, ok := c.courses[NormalizeCode(code)]
	if !ok {
		return Course{}, false
	}
	return course.clone(), true
}

// Courses returns copies of all courses ordered by code.
func (c *StaticCatalog) Courses() []Course {
	out := make([]Course, len(c.ordered))
	for i, course := range c.ordered {
		out[i] = course.clone()
	}
	return out
}

// Len returns the number of courses.
func (c *StaticCatalog) Len() int {
	return len(c.ordered)
}

var builtinCourses = []Course{
	{
		Code: "CS301",
		Name: "Operating Systems",
		Units: []string{
			"Introduction to Operating Systems",
			"Process Management",
			"Memory Management",
			"File Systems",
		},
	},
	{
		Code: "CS302",
		Name: "Database Management Systems",
		Units: []string{
			"Introduction to DBMS",
			"Relational Model",
			"SQL and Queries",
			"Normalization and Transactions",
		},
	},
}

// Builtin returns the catalog compiled into the binary.
func Builtin() *StaticCatalog {
	c, err := NewStatic(builtinCourses)
	if err != nil {
		panic(fmt.Sprintf("syllabus: builtin catalog: %v", err))
	}
	return c
}
