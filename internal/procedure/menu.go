package procedure

// MenuNode is one entry of the menu tree built from registered procedures.
// Leaves carry the procedure name; inner nodes only a label.
type MenuNode struct {
	Label     string
	Procedure string
	Children  []*MenuNode
}

func (n *MenuNode) IsLeaf() bool { return n.Procedure != "" }

func (n *MenuNode) child(label string) *MenuNode {
	for _, c := range n.Children {
		if !c.IsLeaf() && c.Label == label {
			return c
		}
	}
	c := &MenuNode{Label: label}
	n.Children = append(n.Children, c)
	return c
}

// Menu returns one tree per menu root, e.g. "<Image>", with submenus in the
// order their first procedure appears in List. Procedures without a menu path
// are left out.
func (r *Registry) Menu() []*MenuNode {
	top := &MenuNode{}
	for _, p := range r.List() {
		if p.MenuPath == "" {
			continue
		}
		root, segments := splitMenuPath(p.MenuPath)
		node := top.child(root)
		for _, seg := range segments {
			node = node.child(seg)
		}

		label := p.MenuLabel
		if label == "" {
			label = p.Name
		}
		node.Children = append(node.Children, &MenuNode{Label: label, Procedure: p.Name})
	}
	return top.Children
}
