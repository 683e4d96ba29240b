package dag

import "github.com/specialistvlad/stagegrid/internal/model"

// Select returns the subgraph needed to run the single stage only. With
// withDeps it also keeps every transitive ancestor: stages named in `after`
// lists and stages that name the current one in their `before` list. The
// returned stages have before/after filtered to retained names, so the result
// has no dangling edges. The input map is not modified.
func Select(stages map[string]model.ResolvedStage, only string, withDeps bool) (map[string]model.ResolvedStage, error) {
	if _, ok := stages[only]; !ok {
		return nil, &UnknownNodeError{ID: only}
	}

	selected := map[string]bool{only: true}
	if withDeps {
		// beforeOf maps a stage to the stages listing it in `before`.
		beforeOf := make(map[string][]string)
		for id, stage := range stages {
			for _, child := range stage.Before {
				beforeOf[child] = append(beforeOf[child], id)
			}
		}

		stack := []string{only}
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			parents := append(append([]string(nil), stages[id].After...), beforeOf[id]...)
			for _, parent := range parents {
				if selected[parent] {
					continue
				}
				if _, ok := stages[parent]; !ok {
					continue
				}
				selected[parent] = true
				stack = append(stack, parent)
			}
		}
	}

	out := make(map[string]model.ResolvedStage, len(selected))
	for id := range selected {
		stage := stages[id].Clone()
		stage.Before = retain(stage.Before, selected)
		stage.After = retain(stage.After, selected)
		out[id] = stage
	}
	return out, nil
}

func retain(names []string, keep map[string]bool) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if keep[name] {
			out = append(out, name)
		}
	}
	return out
}
