package taxonomy

// Package taxonomy flattens the platform's category tree into class id lookups.

import (
	"errors"
	"fmt"
	"sort"
)

// BackgroundName is the synthetic class that owns id 0 in a segmentation class map
const BackgroundName = "background"

var ErrBackgroundConflict = errors.New("Taxonomy already contains a category named 'background'")

// Node is one category of the taxonomy tree
type Node struct {
	Name     string  `json:"name"`
	ClassID  int     `json:"classId"`
	Children []*Node `json:"children"`
}

// Taxonomy is a named, versioned tree of categories.
// The first entry of Categories is the root. The root itself is not a class.
type Taxonomy struct {
	Name       string  `json:"name"`
	Version    int     `json:"version"`
	Categories []*Node `json:"categories"`
}

// ClassMap holds the two inverse maps of a flattened taxonomy
type ClassMap struct {
	NameToID map[string]int
	IDToName map[int]string
}

// Flatten walks the tree depth first and builds the class map.
// Names and class ids must both be unique.
func (t *Taxonomy) Flatten() (*ClassMap, error) {
	m := &ClassMap{
		NameToID: map[string]int{},
		IDToName: map[int]string{},
	}
	if len(t.Categories) == 0 {
		return m, nil
	}
	if err := m.addNodes(t.Categories[0].Children); err != nil {
		return nil, fmt.Errorf("Taxonomy '%v': %w", t.Name, err)
	}
	return m, nil
}

func (m *ClassMap) addNodes(nodes []*Node) error {
	for _, n := range nodes {
		if err := m.add(n.Name, n.ClassID); err != nil {
			return err
		}
		if err := m.addNodes(n.Children); err != nil {
			return err
		}
	}
	return nil
}

func (m *ClassMap) add(name string, id int) error {
	if _, ok := m.NameToID[name]; ok {
		return fmt.Errorf("Duplicate category name '%v'", name)
	}
	if other, ok := m.IDToName[id]; ok {
		return fmt.Errorf("Class id %v used by both '%v' and '%v'", id, other, name)
	}
	m.NameToID[name] = id
	m.IDToName[id] = name
	return nil
}

// NewClassMap builds a ClassMap from a name->classId map
func NewClassMap(nameToID map[string]int) (*ClassMap, error) {
	m := &ClassMap{
		NameToID: map[string]int{},
		IDToName: map[int]string{},
	}
	// Sort so that the duplicate error is deterministic
	names := make([]string, 0, len(nameToID))
	for name := range nameToID {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := m.add(name, nameToID[name]); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ClassID returns the class id of the category with the given name
func (m *ClassMap) ClassID(name string) (int, bool) {
	id, ok := m.NameToID[name]
	return id, ok
}

// Name returns the category name of the given class id
func (m *ClassMap) Name(id int) (string, bool) {
	name, ok := m.IDToName[id]
	return name, ok
}

// Len is the number of classes
func (m *ClassMap) Len() int {
	return len(m.NameToID)
}

// ForSegmentation returns a copy where every class id is shifted up by one, and
// 'background' is assigned id 0. The receiver is not modified.
func (m *ClassMap) ForSegmentation() (*ClassMap, error) {
	if _, ok := m.NameToID[BackgroundName]; ok {
		return nil, ErrBackgroundConflict
	}
	s := &ClassMap{
		NameToID: make(map[string]int, len(m.NameToID)+1),
		IDToName: make(map[int]string, len(m.IDToName)+1),
	}
	s.NameToID[BackgroundName] = 0
	s.IDToName[0] = BackgroundName
	for name, id := range m.NameToID {
		s.NameToID[name] = id + 1
		s.IDToName[id+1] = name
	}
	return s, nil
}
