package slp

import "fmt"

// symmetryTypeID is the pickle-encoded EdgeType value marking a link as a
// symmetry rather than a skeletal edge.
const symmetryTypeID = 2

// defaultEdgeTypeID is used whenever a link's "type" field has an unknown or
// unparseable shape, per spec.md §9's forward-compatibility rule.
const defaultEdgeTypeID = 1

// pickleTypeResolver decodes the small pickle-style object SLEAP uses to
// encode an EdgeType enum value inside JSON: {py/reduce: […, {py/tuple:
// [typeId, …]}]}, {py/tuple: [typeId]}, or a {py/id: n} back-reference to a
// previously assigned id. Ids are assigned sequentially starting at 1 in
// traversal order; py/id resolution is NOT guarded against forward
// references, matching the source's own behavior (see DESIGN.md).
type pickleTypeResolver struct {
	nextID int
	table  map[int]int // assigned id -> resolved typeId
}

func newPickleTypeResolver() *pickleTypeResolver {
	return &pickleTypeResolver{nextID: 1, table: make(map[int]int)}
}

func (r *pickleTypeResolver) resolve(raw interface{}) int {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return defaultEdgeTypeID
	}

	if idVal, ok := m["py/id"]; ok {
		n := toInt(idVal)
		if typeID, ok := r.table[n]; ok {
			return typeID
		}
		return defaultEdgeTypeID
	}

	if tupleVal, ok := m["py/tuple"]; ok {
		typeID := firstTupleInt(tupleVal)
		id := r.nextID
		r.nextID++
		r.table[id] = typeID
		return typeID
	}

	if reduceVal, ok := m["py/reduce"]; ok {
		arr, ok := reduceVal.([]interface{})
		if !ok || len(arr) < 2 {
			return defaultEdgeTypeID
		}
		argsTuple, ok := arr[1].(map[string]interface{})
		if !ok {
			return defaultEdgeTypeID
		}
		inner, ok := argsTuple["py/tuple"]
		if !ok {
			return defaultEdgeTypeID
		}
		typeID := firstTupleInt(inner)
		id := r.nextID
		r.nextID++
		r.table[id] = typeID
		return typeID
	}

	return defaultEdgeTypeID
}

func firstTupleInt(v interface{}) int {
	arr, ok := v.([]interface{})
	if !ok || len(arr) == 0 {
		return defaultEdgeTypeID
	}
	return toInt(arr[0])
}

func toInt(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}

// globalNode is one entry of metadata.json's top-level "nodes" table.
type globalNode struct {
	Name string
}

// decodeGlobalNodes parses metadata.json's "nodes" array: a flat list of
// node descriptors shared across all skeletons, referenced by position.
func decodeGlobalNodes(metadata map[string]interface{}) ([]globalNode, error) {
	raw, ok := metadata["nodes"].([]interface{})
	if !ok {
		return nil, nil
	}
	nodes := make([]globalNode, 0, len(raw))
	for _, item := range raw {
		switch v := item.(type) {
		case map[string]interface{}:
			name, _ := v["name"].(string)
			nodes = append(nodes, globalNode{Name: name})
		case string:
			nodes = append(nodes, globalNode{Name: v})
		default:
			nodes = append(nodes, globalNode{})
		}
	}
	return nodes, nil
}

// resolveNodeRef maps one entry of a skeleton's local "nodes"/link
// "source"/"target" fields to a position in the global node table. SLEAP
// encodes these as either a {py/id: n} back-reference (1-based index into
// the global table), a bare integer index (0-based), or an inline object
// carrying its own "name".
func resolveNodeRef(ref interface{}, global []globalNode) (string, bool) {
	switch v := ref.(type) {
	case map[string]interface{}:
		if idVal, ok := v["py/id"]; ok {
			idx := toInt(idVal) - 1
			if idx >= 0 && idx < len(global) {
				return global[idx].Name, true
			}
			return "", false
		}
		if name, ok := v["name"].(string); ok {
			return name, true
		}
		return "", false
	case float64:
		idx := int(v)
		if idx >= 0 && idx < len(global) {
			return global[idx].Name, true
		}
		return "", false
	case string:
		return v, true
	default:
		return "", false
	}
}

// decodeSkeletons builds the document's Skeletons from metadata.json's
// top-level "nodes" and "skeletons" arrays, reconstructing each skeleton's
// own node order, edges, and deduplicated symmetries.
func decodeSkeletons(metadata map[string]interface{}) ([]*Skeleton, error) {
	global, err := decodeGlobalNodes(metadata)
	if err != nil {
		return nil, err
	}

	rawSkeletons, ok := metadata["skeletons"].([]interface{})
	if !ok {
		return nil, nil
	}

	skeletons := make([]*Skeleton, 0, len(rawSkeletons))
	for _, rawEntry := range rawSkeletons {
		entry, ok := rawEntry.(map[string]interface{})
		if !ok {
			continue
		}

		sk, err := decodeSkeletonEntry(entry, global)
		if err != nil {
			return nil, err
		}
		skeletons = append(skeletons, sk)
	}
	return skeletons, nil
}

func decodeSkeletonEntry(entry map[string]interface{}, global []globalNode) (*Skeleton, error) {
	localNames := make([]string, 0)
	localIndex := make(map[string]int)

	if rawNodes, ok := entry["nodes"].([]interface{}); ok {
		for _, n := range rawNodes {
			name, ok := resolveNodeRef(n, global)
			if !ok {
				return nil, newError(InvalidSlp, "skeleton node reference could not be resolved", nil)
			}
			localIndex[name] = len(localNames)
			localNames = append(localNames, name)
		}
	}

	nodes := make([]Node, len(localNames))
	for i, name := range localNames {
		nodes[i] = Node{Name: name, Index: i}
	}

	var edges []Edge
	var symmetries []Symmetry
	seenSymmetry := make(map[[2]int]bool)
	resolver := newPickleTypeResolver()

	if rawLinks, ok := entry["links"].([]interface{}); ok {
		for _, rawLink := range rawLinks {
			link, ok := rawLink.(map[string]interface{})
			if !ok {
				continue
			}

			srcName, ok := resolveNodeRef(link["source"], global)
			if !ok {
				return nil, newError(InvalidSlp, "skeleton link source could not be resolved", nil)
			}
			dstName, ok := resolveNodeRef(link["target"], global)
			if !ok {
				return nil, newError(InvalidSlp, "skeleton link target could not be resolved", nil)
			}

			srcIdx, ok := localIndex[srcName]
			if !ok {
				return nil, fmt.Errorf("skeleton link source %q is not one of this skeleton's nodes", srcName)
			}
			dstIdx, ok := localIndex[dstName]
			if !ok {
				return nil, fmt.Errorf("skeleton link target %q is not one of this skeleton's nodes", dstName)
			}

			typeID := resolver.resolve(link["type"])
			if typeID == symmetryTypeID {
				sym := Symmetry{A: srcIdx, B: dstIdx}
				a, b := sym.key()
				k := [2]int{a, b}
				if !seenSymmetry[k] {
					seenSymmetry[k] = true
					symmetries = append(symmetries, sym)
				}
			} else {
				edges = append(edges, Edge{Source: srcIdx, Target: dstIdx})
			}
		}
	}

	name := skeletonName(entry)
	return NewSkeleton(name, nodes, edges, symmetries), nil
}

func skeletonName(entry map[string]interface{}) string {
	if graph, ok := entry["graph"].(map[string]interface{}); ok {
		if name, ok := graph["name"].(string); ok && name != "" {
			return name
		}
	}
	if name, ok := entry["name"].(string); ok {
		return name
	}
	return ""
}
