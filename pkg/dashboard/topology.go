package dashboard

// Node names of the stream topology, in pipeline order.
const (
	NodeParser = "parser"
	NodeFilter = "filter"
	NodeAgg    = "agg"
	NodeAlert  = "alert"
)

var NodeNames = []string{NodeParser, NodeFilter, NodeAgg, NodeAlert}

type Node struct {
	Name  string `json:"name"`
	Inode uint64 `json:"inode"`
}

type Topology []Node

// NewTopology assigns an inode to each pipeline node using next.
func NewTopology(next func() uint64) Topology {
	t := make(Topology, 0, len(NodeNames))
	for _, name := range NodeNames {
		t = append(t, Node{Name: name, Inode: next()})
	}
	return t
}

func (t Topology) Inode(name string) uint64 {
	for _, n := range t {
		if n.Name == name {
			return n.Inode
		}
	}
	return 0
}
