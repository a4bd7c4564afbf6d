package document

// ComponentType is the coarse functional family of a placed component.
type ComponentType string

const (
	TypeLayout      ComponentType = "layout"
	TypeUI          ComponentType = "ui"
	TypeNavigation  ComponentType = "navigation"
	TypeForm        ComponentType = "form"
	TypeDataDisplay ComponentType = "data-display"
	TypeMedia       ComponentType = "media"
	TypeContent     ComponentType = "content"
)

// Component is a single placed element in the builder document.
// Ownership flows strictly through Children; ParentID is a lookup
// back-reference maintained by the tree, never traversed for ownership.
type Component struct {
	ID       string                 `json:"id"`
	Name     string                 `json:"name"`
	Type     ComponentType          `json:"type"`
	Category string                 `json:"category"`
	Props    map[string]interface{} `json:"props,omitempty"`
	Styles   map[string]interface{} `json:"styles,omitempty"`
	Children []*Component           `json:"children,omitempty"`
	ParentID string                 `json:"parentId,omitempty"`
	IsLocked bool                   `json:"isLocked"`
	IsHidden bool                   `json:"isHidden"`
}

// Clone returns a deep copy of the component and its subtree.
// IDs are preserved; callers that need fresh identity rewrite them.
func (c *Component) Clone() *Component {
	if c == nil {
		return nil
	}
	out := &Component{
		ID:       c.ID,
		Name:     c.Name,
		Type:     c.Type,
		Category: c.Category,
		ParentID: c.ParentID,
		IsLocked: c.IsLocked,
		IsHidden: c.IsHidden,
	}
	if c.Props != nil {
		out.Props = make(map[string]interface{}, len(c.Props))
		for k, v := range c.Props {
			out.Props[k] = v
		}
	}
	if c.Styles != nil {
		out.Styles = make(map[string]interface{}, len(c.Styles))
		for k, v := range c.Styles {
			out.Styles[k] = v
		}
	}
	if len(c.Children) > 0 {
		out.Children = make([]*Component, len(c.Children))
		for i, child := range c.Children {
			out.Children[i] = child.Clone()
		}
	}
	return out
}

// walk visits the component and every descendant, depth first.
func (c *Component) walk(fn func(*Component)) {
	fn(c)
	for _, child := range c.Children {
		child.walk(fn)
	}
}

// CloneList deep-copies a whole forest of components.
func CloneList(components []*Component) []*Component {
	if components == nil {
		return nil
	}
	out := make([]*Component, len(components))
	for i, c := range components {
		out[i] = c.Clone()
	}
	return out
}

// CountNodes returns the total number of nodes in the forest.
func CountNodes(components []*Component) int {
	total := 0
	for _, c := range components {
		c.walk(func(*Component) { total++ })
	}
	return total
}
