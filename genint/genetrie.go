package genint

// GeneTrie indexes display-order genome strings in a compressed trie.
// Shared leading bits collapse into single node segments, which makes the
// trie double as a convergence index: terminal nodes count distinct
// genomes, and the sibling-free spine measures the population's common
// prefix.
type GeneTrie struct {
	root     geneTrieNode
	distinct int
}

type geneTrieNode struct {
	segment  string
	terminal bool
	next     *geneTrieNode
	child    *geneTrieNode
}

func NewGeneTrie() GeneTrie {
	return GeneTrie{}
}

// Insert records one genome. Duplicates leave the distinct count unchanged.
func (tr *GeneTrie) Insert(genome string) {
	start := 0

Traversal:
	for node := &tr.root; node != nil; {
		s := genome[start:]
		for i := 0; i < len(s) && i < len(node.segment); i++ {
			kc, nc := s[i], node.segment[i]
			if kc < nc {

				// genome sorts below the segment -- split node into children, us first
				// e.g. "010" into {"011"}
				child_b := geneTrieNode{
					segment:  node.segment[i:],
					terminal: node.terminal,
					child:    node.child,
				}

				child_a := geneTrieNode{
					segment:  s[i:],
					terminal: true,
					next:     &child_b,
				}

				node.child = &child_a
				node.segment = node.segment[:i]
				node.terminal = false
				tr.distinct++
				return
			} else if kc > nc {
				if node.next == nil {
					// there is no next node -- split node into children, us last
					// e.g. "011" into {"010"}
					child_b := geneTrieNode{
						segment:  s[i:],
						terminal: true,
					}

					child_a := geneTrieNode{
						segment:  node.segment[i:],
						terminal: node.terminal,
						next:     &child_b,
						child:    node.child,
					}

					node.child = &child_a
					node.segment = node.segment[:i]
					node.terminal = false
					tr.distinct++
					return
				}
				// e.g. "011" into {"001", "010"}
				node = node.next
				continue Traversal
			}
		}

		// if control reaches here, the segment at least partially matched
		if len(s) > len(node.segment) {
			// genome is longer than segment -- traverse children, or add new child
			if node.child != nil {
				start += len(node.segment)
				node = node.child
				continue Traversal
			} else {
				node.child = &geneTrieNode{
					segment:  s[len(node.segment):],
					terminal: true,
				}
				tr.distinct++
				return
			}
		} else if len(s) < len(node.segment) {
			// genome is shorter than segment -- split, ending here
			// e.g. "01" into {"010"}
			child := geneTrieNode{
				segment:  node.segment[len(s):],
				terminal: node.terminal,
				child:    node.child,
			}

			node.segment = s
			node.terminal = true
			node.child = &child
			tr.distinct++
			return
		} else {
			// segment matched completely -- the genome was already recorded,
			// or ends on an interior split point
			if !node.terminal {
				node.terminal = true
				tr.distinct++
			}
			return
		}
	}
}

// Distinct returns the number of unique genomes recorded.
func (tr *GeneTrie) Distinct() int {
	return tr.distinct
}

// CommonPrefix returns how many leading symbols every recorded genome
// shares. A trie holding a single genome shares all of it.
func (tr *GeneTrie) CommonPrefix() int {
	prefix := 0
	for node := tr.root.child; node != nil && node.next == nil; node = node.child {
		prefix += len(node.segment)
		if node.terminal {
			break
		}
	}
	return prefix
}
