//Package chemgraph exposes the bonds of a molecule as a gonum graph, so
//the gonum graph algorithms can be used on it.
package chemgraph

import (
	"fmt"
	"slices"

	sketch "github.com/rmera/molsketch"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/spatial/r3"
)

//Atom is a graph node wrapping an atom of the molecule.
type Atom struct {
	*sketch.Atom
	Bonds []*Bond
}

//ID returns the node id, which is the atom id.
func (A *Atom) ID() int64 {
	return int64(A.Atom.ID())
}

//AtID returns the atom id as an int.
func (A *Atom) AtID() int {
	return A.Atom.ID()
}

//Bond is a weighted, undirected graph edge wrapping a bond.
type Bond struct {
	*sketch.Bond
	At1, At2   *Atom
	Weightfunc func(*Bond) float64
}

//Weight returns the weight of the bond. By default it is the current
//distance between the two atoms.
func (B *Bond) Weight() float64 {
	if B.Weightfunc == nil {
		return Distance(B)
	}
	return B.Weightfunc(B)
}

func (B *Bond) From() graph.Node {
	return B.At1
}

func (B *Bond) To() graph.Node {
	return B.At2
}

//ReversedEdge returns a copy of the bond with its ends swapped.
func (B *Bond) ReversedEdge() graph.Edge {
	return &Bond{Bond: B.Bond, At1: B.At2, At2: B.At1, Weightfunc: B.Weightfunc}
}

//Distance is the default bond weight.
func Distance(B *Bond) float64 {
	return r3.Norm(r3.Sub(B.At1.Pos(), B.At2.Pos()))
}

//Unit gives every bond a weight of 1, so path lengths count bonds.
func Unit(*Bond) float64 {
	return 1
}

//Topology is the bond graph of a molecule at the time it was built. It
//implements the gonum graph.Undirected and graph.Weighted interfaces.
type Topology struct {
	*simple.WeightedUndirectedGraph
	atoms map[int]*Atom
}

//TopologyFromMolecule builds the graph of mol. Every atom is a node,
//every bond an edge weighted by weightfunc, or by Distance if weightfunc
//is nil. Repeated bonds between the same atoms give a single edge.
func TopologyFromMolecule(mol *sketch.Molecule, weightfunc func(*Bond) float64) *Topology {
	if weightfunc == nil {
		weightfunc = Distance
	}
	T := &Topology{
		WeightedUndirectedGraph: simple.NewWeightedUndirectedGraph(0, 0),
		atoms:                   make(map[int]*Atom, mol.Len()),
	}
	for _, at := range mol.Atoms() {
		a := &Atom{Atom: at}
		T.atoms[at.ID()] = a
		T.AddNode(a)
	}
	for _, b := range mol.Bonds() {
		At1, At2 := T.atoms[b.Left()], T.atoms[b.Right()]
		if At1 == nil || At2 == nil {
			panic(fmt.Sprintf("TopologyFromMolecule: Bond %d has at least one non-existent atom", b.ID()))
		}
		if T.HasEdgeBetween(At1.ID(), At2.ID()) {
			continue
		}
		nb := &Bond{Bond: b, At1: At1, At2: At2, Weightfunc: weightfunc}
		At1.Bonds = append(At1.Bonds, nb)
		At2.Bonds = append(At2.Bonds, nb)
		T.SetWeightedEdge(nb)
	}
	return T
}

//Atom returns the node for the atom id, or nil.
func (T *Topology) Atom(id int) *Atom {
	return T.atoms[id]
}

//Neighbors returns the ids of the atoms bonded to id, sorted.
func (T *Topology) Neighbors(id int) []int {
	if T.atoms[id] == nil {
		return nil
	}
	return nodeIDs(graph.NodesOf(T.From(int64(id))))
}

//Fragments returns the connected parts of the molecule as sorted lists of
//atom ids. Fragments are ordered by their lowest atom id.
func (T *Topology) Fragments() [][]int {
	return components(T)
}

//ShortestPath returns the atoms on the lightest path between from and to,
//both included, and the total weight of the path.
func (T *Topology) ShortestPath(from, to int) ([]int, float64, error) {
	if T.atoms[from] == nil {
		return nil, 0, &Error{fmt.Sprintf("Atom %d not in topology", from), []string{"ShortestPath"}}
	}
	if T.atoms[to] == nil {
		return nil, 0, &Error{fmt.Sprintf("Atom %d not in topology", to), []string{"ShortestPath"}}
	}
	sh := path.DijkstraFrom(T.atoms[from], T)
	nodes, w := sh.To(int64(to))
	if len(nodes) == 0 {
		return nil, 0, &Error{fmt.Sprintf("No path between atoms %d and %d", from, to), []string{"ShortestPath"}}
	}
	ret := make([]int, len(nodes))
	for i, n := range nodes {
		ret[i] = int(n.ID())
	}
	return ret, w, nil
}

//Fragments is a shortcut for TopologyFromMolecule(mol, nil).Fragments().
func Fragments(mol *sketch.Molecule) [][]int {
	return TopologyFromMolecule(mol, nil).Fragments()
}

func nodeIDs(nodes []graph.Node) []int {
	ret := make([]int, len(nodes))
	for i, n := range nodes {
		ret[i] = int(n.ID())
	}
	slices.Sort(ret)
	return ret
}

//Error is the error type for this package.
type Error struct {
	message string
	deco    []string
}

func (err *Error) Error() string {
	return err.message
}

//Decorate will add the dec string to the decoration slice of strings of the error,
//and return the resulting slice.
func (err *Error) Decorate(dec string) []string {
	if dec == "" {
		return err.deco
	}
	err.deco = append(err.deco, dec)
	return err.deco
}

//FrameFragments returns the connected parts of a frame, in the same form
//as Topology.Fragments. It lets renderers group atoms without access to
//the molecule.
func FrameFragments(f *sketch.Frame) [][]int {
	g := simple.NewUndirectedGraph()
	for _, a := range f.Atoms {
		g.AddNode(simple.Node(a.ID))
	}
	for _, b := range f.Bonds {
		if b.Left == b.Right || g.Node(int64(b.Left)) == nil || g.Node(int64(b.Right)) == nil {
			continue
		}
		g.SetEdge(simple.Edge{F: simple.Node(b.Left), T: simple.Node(b.Right)})
	}
	return components(g)
}

//components returns the sorted ids of each connected component of g,
//ordered by their lowest id.
func components(g graph.Undirected) [][]int {
	cc := topo.ConnectedComponents(g)
	ret := make([][]int, 0, len(cc))
	for _, c := range cc {
		ret = append(ret, nodeIDs(c))
	}
	slices.SortFunc(ret, func(a, b []int) int { return a[0] - b[0] })
	return ret
}
