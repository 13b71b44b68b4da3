package taxonomy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testTaxonomy = `{
	"name": "vehicles",
	"version": 2,
	"categories": [{
		"name": "object",
		"classId": -1,
		"children": [
			{"name": "car", "classId": 0, "children": [
				{"name": "sedan", "classId": 2, "children": []}
			]},
			{"name": "person", "classId": 1, "children": []}
		]
	}]
}`

func writeFile(t *testing.T, name, content string) string {
	filename := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(filename, []byte(content), 0644))
	return filename
}

func TestFlatten(t *testing.T) {
	tax, err := LoadTaxonomy(writeFile(t, "tax.json", testTaxonomy))
	require.NoError(t, err)
	require.Equal(t, "vehicles", tax.Name)
	require.Equal(t, 2, tax.Version)

	m, err := tax.Flatten()
	require.NoError(t, err)
	require.Equal(t, map[string]int{"car": 0, "sedan": 2, "person": 1}, m.NameToID)
	require.Equal(t, map[int]string{0: "car", 2: "sedan", 1: "person"}, m.IDToName)
	_, ok := m.ClassID("object")
	require.False(t, ok)
}

func TestFlattenDuplicates(t *testing.T) {
	tax := &Taxonomy{
		Name: "dup",
		Categories: []*Node{{Name: "object", Children: []*Node{
			{Name: "car", ClassID: 0},
			{Name: "truck", ClassID: 0},
		}}},
	}
	_, err := tax.Flatten()
	require.Error(t, err)

	tax.Categories[0].Children[1] = &Node{Name: "car", ClassID: 1}
	_, err = tax.Flatten()
	require.Error(t, err)
}

func TestForSegmentation(t *testing.T) {
	m, err := NewClassMap(map[string]int{"car": 0, "person": 1})
	require.NoError(t, err)
	s, err := m.ForSegmentation()
	require.NoError(t, err)
	require.Equal(t, map[string]int{"background": 0, "car": 1, "person": 2}, s.NameToID)
	name, ok := s.Name(0)
	require.True(t, ok)
	require.Equal(t, BackgroundName, name)
	// The source map is untouched
	require.Equal(t, 0, m.NameToID["car"])

	m, err = NewClassMap(map[string]int{"background": 0, "car": 1})
	require.NoError(t, err)
	_, err = m.ForSegmentation()
	require.ErrorIs(t, err, ErrBackgroundConflict)
}

func TestLoadClassFile(t *testing.T) {
	m, err := LoadClassMap(writeFile(t, "names.txt", "person\n\n car \ndog\n"))
	require.NoError(t, err)
	require.Equal(t, map[string]int{"person": 0, "car": 1, "dog": 2}, m.NameToID)

	_, err = LoadClassFile(writeFile(t, "dup.txt", "car\ncar\n"))
	require.Error(t, err)
}
