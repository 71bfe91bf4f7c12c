package align

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed categories.yaml
var categoriesYAML []byte

// loadCategories parses the embedded category table into a word→category
// lookup. A word appearing in several categories keeps the first one in
// sorted category order; in practice membership lists are disjoint.
func loadCategories() (map[string]string, error) {
	var raw map[string][]string
	if err := yaml.Unmarshal(categoriesYAML, &raw); err != nil {
		return nil, fmt.Errorf("parse category table: %w", err)
	}
	byWord := make(map[string]string)
	for category, words := range raw {
		for _, w := range words {
			if _, ok := byWord[w]; !ok || category < byWord[w] {
				byWord[w] = category
			}
		}
	}
	return byWord, nil
}
