package registry

import "fmt"

// sortConfigurables orders configurables so that everything a configurable
// extends comes before it. The sort is a stable depth-first walk: input
// order is preserved among configurables with no dependency relation, and
// shared ancestors appear exactly once. A cycle in the extends graph fails
// with ErrExtendsCycle instead of recursing forever.
func sortConfigurables(input []*Configurable) ([]*Configurable, error) {
	result := make([]*Configurable, 0, len(input))
	visiting := make(map[*Configurable]bool)
	visited := make(map[*Configurable]bool)

	var visit func(c *Configurable) error
	visit = func(c *Configurable) error {
		visiting[c] = true
		for _, parent := range c.extends {
			if visiting[parent] {
				return fmt.Errorf("%w: involving %q", ErrExtendsCycle, parent.Name())
			}
			if !visited[parent] {
				if err := visit(parent); err != nil {
					return err
				}
			}
		}
		delete(visiting, c)
		visited[c] = true
		result = append(result, c)
		return nil
	}

	for _, c := range input {
		if !visited[c] {
			if err := visit(c); err != nil {
				return nil, err
			}
		}
	}
	return result, nil
}
