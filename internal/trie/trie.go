// Package trie stores path prefixes split into segments.
//
// Nodes live in one slice and refer to their children by index.
package trie

import (
	"path/filepath"
	"sort"
	"strings"
)

type NodeIndex int

const root NodeIndex = 0

type node struct {
	children map[string]NodeIndex
	isEnd    bool
}

// Trie is a set of segment sequences that answers prefix queries.
// It is not safe for concurrent writes.
type Trie struct {
	nodes []node
}

func New() *Trie {
	t := &Trie{nodes: make([]node, 0, 64)}
	t.newNode()
	return t
}

func (t *Trie) newNode() NodeIndex {
	idx := NodeIndex(len(t.nodes))
	t.nodes = append(t.nodes, node{children: make(map[string]NodeIndex)})
	return idx
}

// Insert adds sequence to the set.
func (t *Trie) Insert(sequence []string) {
	current := root
	for _, part := range sequence {
		childIdx, exists := t.nodes[current].children[part]
		if !exists {
			childIdx = t.newNode()
			t.nodes[current].children[part] = childIdx
		}
		current = childIdx
	}
	t.nodes[current].isEnd = true
}

// Contains reports whether sequence itself was inserted.
func (t *Trie) Contains(sequence []string) bool {
	current := root
	for _, part := range sequence {
		next, ok := t.nodes[current].children[part]
		if !ok {
			return false
		}
		current = next
	}
	return t.nodes[current].isEnd
}

// HasPrefixOf reports whether some inserted sequence is a prefix of
// sequence, sequence included.
func (t *Trie) HasPrefixOf(sequence []string) bool {
	current := root
	if t.nodes[current].isEnd {
		return true
	}
	for _, part := range sequence {
		next, ok := t.nodes[current].children[part]
		if !ok {
			return false
		}
		current = next
		if t.nodes[current].isEnd {
			return true
		}
	}
	return false
}

// Len returns the number of nodes, root included.
func (t *Trie) Len() int { return len(t.nodes) }

// InsertPath adds a file system path split on the separator.
func (t *Trie) InsertPath(path string) {
	t.Insert(SplitPath(path))
}

// HasPathPrefix reports whether path is an inserted path or lies below one.
func (t *Trie) HasPathPrefix(path string) bool {
	return t.HasPrefixOf(SplitPath(path))
}

// SplitPath cleans path and splits it into its segments.
func SplitPath(path string) []string {
	clean := filepath.ToSlash(filepath.Clean(path))
	parts := strings.Split(clean, "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" && p != "." {
			out = append(out, p)
		}
	}
	if strings.HasPrefix(clean, "/") {
		out = append([]string{"/"}, out...)
	}
	return out
}

// DebugString renders the trie as name(children) with '*' marking the end
// of an inserted sequence, keys sorted.
func (t *Trie) DebugString() string {
	return t.debugStringNode(root)
}

func (t *Trie) debugStringNode(idx NodeIndex) string {
	n := t.nodes[idx]
	var sb strings.Builder

	if n.isEnd {
		sb.WriteString("*")
	}

	keys := make([]string, 0, len(n.children))
	for key := range n.children {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		sb.WriteString(key)
		sb.WriteString("(")
		sb.WriteString(t.debugStringNode(n.children[key]))
		sb.WriteString(")")
	}

	return sb.String()
}
