package slp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSkeletonReindexesNodes(t *testing.T) {
	nodes := []Node{{Name: "head"}, {Name: "thorax"}, {Name: "tail"}}
	edges := []Edge{{Source: 0, Target: 1}, {Source: 1, Target: 2}}
	sk := NewSkeleton("fly", nodes, edges, nil)

	require.Equal(t, "fly", sk.Name)
	for i, n := range sk.Nodes {
		require.Equal(t, i, n.Index)
	}
}

func TestSkeletonNodeIndex(t *testing.T) {
	tests := []struct {
		name    string
		lookup  string
		wantIdx int
		wantOK  bool
	}{
		{name: "present head", lookup: "head", wantIdx: 0, wantOK: true},
		{name: "present tail", lookup: "tail", wantIdx: 2, wantOK: true},
		{name: "absent", lookup: "wing", wantIdx: 0, wantOK: false},
	}

	sk := NewSkeleton("fly", []Node{{Name: "head"}, {Name: "thorax"}, {Name: "tail"}}, nil, nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, ok := sk.NodeIndex(tt.lookup)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				require.Equal(t, tt.wantIdx, idx)
			}
		})
	}
}

func TestSkeletonNodeNames(t *testing.T) {
	sk := NewSkeleton("fly", []Node{{Name: "head"}, {Name: "thorax"}}, nil, nil)
	require.Equal(t, []string{"head", "thorax"}, sk.NodeNames())
}

func TestAddSymmetryUniqueDeduplicatesRegardlessOfOrder(t *testing.T) {
	sk := NewSkeleton("fly", []Node{{Name: "l-wing"}, {Name: "r-wing"}}, nil, nil)
	seen := make(map[[2]int]bool)

	sk.addSymmetryUnique(Symmetry{A: 0, B: 1}, seen)
	sk.addSymmetryUnique(Symmetry{A: 1, B: 0}, seen)

	require.Len(t, sk.Symmetries, 1)
	require.Equal(t, Symmetry{A: 0, B: 1}, sk.Symmetries[0])
}
