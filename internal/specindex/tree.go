package specindex

// Node is a section together with the sections nested under it.
type Node struct {
	Section  *Section
	Children []*Node
}

// BuildTree converts a flat list of sections into a hierarchical tree.
// It uses the dotted section id (e.g., "1.2.3") to determine parent-child relationships.
func BuildTree(sections []Section) []*Node {
	if len(sections) == 0 {
		return nil
	}

	// Map to track nodes by their section id
	nodeMap := make(map[string]*Node)
	var rootNodes []*Node

	for i := range sections {
		node := &Node{Section: &sections[i]}
		id := sections[i].SectionID
		nodeMap[id] = node

		parentID := ParentID(id)
		if parentID == "" {
			// Top-level node
			rootNodes = append(rootNodes, node)
		} else if parent, ok := nodeMap[parentID]; ok {
			// Add as child to existing parent
			parent.Children = append(parent.Children, node)
		} else {
			// Parent not found, treat as root
			rootNodes = append(rootNodes, node)
		}
	}

	return rootNodes
}

// Walk visits every node depth-first in document order. Returning false from
// fn skips the node's children.
func Walk(nodes []*Node, fn func(n *Node, depth int) bool) {
	var walk func([]*Node, int)
	walk = func(nodes []*Node, depth int) {
		for _, n := range nodes {
			if fn(n, depth) {
				walk(n.Children, depth+1)
			}
		}
	}
	walk(nodes, 0)
}

// CountNodes returns the total number of nodes in the tree.
func CountNodes(nodes []*Node) int {
	count := 0
	Walk(nodes, func(*Node, int) bool {
		count++
		return true
	})
	return count
}

// MaxDepth returns the number of levels in the tree.
func MaxDepth(nodes []*Node) int {
	depth := 0
	Walk(nodes, func(_ *Node, d int) bool {
		depth = max(depth, d+1)
		return true
	})
	return depth
}

// FindNode returns the node with the given section id, or nil.
func FindNode(nodes []*Node, sectionID string) *Node {
	var found *Node
	Walk(nodes, func(n *Node, _ int) bool {
		if found != nil {
			return false
		}
		if n.Section.SectionID == sectionID {
			found = n
			return false
		}
		return IsDescendant(sectionID, n.Section.SectionID)
	})
	return found
}
