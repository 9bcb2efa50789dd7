package entity

import (
	"image"
	"math/rand"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// cluster вертикальные отрезки с шагом 4 пикселя, начиная с x0.
func cluster(x0, y0, n int) []Segment {
	lines := make([]Segment, 0, n)
	for i := 0; i < n; i++ {
		lines = append(lines, NewSegment(x0+4*i, y0, x0+4*i+1, y0+60))
	}
	return lines
}

func TestGroupLinesByDist_Empty(t *testing.T) {
	require.Empty(t, GroupLinesByDist(nil, 10))
	require.Empty(t, GroupLinesByDist([]Segment{}, 10))
}

func TestGroupLinesByDist_TransitiveChain(t *testing.T) {
	// a-b и b-c близки, a-c далеки: все три должны оказаться в одной группе
	lines := []Segment{
		NewSegment(0, 0, 0, 50),
		NewSegment(20, 0, 20, 50),
		NewSegment(10, 0, 10, 50),
	}
	groups := GroupLinesByDist(lines, 10)
	require.Len(t, groups, 1)
	require.Equal(t, 3, groups[0].Size())
	require.Equal(t, lines[0], groups[0].At(0))
}

func TestGroupLinesByDist_DisjointClustersAnyOrder(t *testing.T) {
	var lines []Segment
	lines = append(lines, cluster(0, 0, 6)...)
	lines = append(lines, cluster(200, 10, 4)...)
	lines = append(lines, cluster(100, 300, 7)...)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		perm := make([]Segment, len(lines))
		for j, k := range rng.Perm(len(lines)) {
			perm[j] = lines[k]
		}
		groups := GroupLinesByDist(perm, 10)
		require.Len(t, groups, 3)

		sizes := []int{groups[0].Size(), groups[1].Size(), groups[2].Size()}
		sort.Ints(sizes)
		if diff := cmp.Diff([]int{4, 6, 7}, sizes); diff != "" {
			t.Fatalf("group sizes mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestDelLinesGroupBySize(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for iter := 0; iter < 100; iter++ {
		var groups []LineGroup
		n := rng.Intn(12)
		for i := 0; i < n; i++ {
			groups = append(groups, NewLineGroup(cluster(i*100, 0, 1+rng.Intn(9))...))
		}
		minSize := rng.Intn(10)
		small := 0
		for _, g := range groups {
			if g.Size() < minSize {
				small++
			}
		}
		total := len(groups)

		kept := DelLinesGroupBySize(groups, minSize)
		require.Equal(t, total-small, len(kept))
		for _, g := range kept {
			require.GreaterOrEqual(t, g.Size(), minSize)
		}
	}
}

func TestLineGroup_BboxContainsEveryEndpoint(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for iter := 0; iter < 200; iter++ {
		var g LineGroup
		for i := 0; i < 1+rng.Intn(20); i++ {
			g.Add(NewSegment(rng.Intn(600)-100, rng.Intn(600)-100, rng.Intn(600)-100, rng.Intn(600)-100))
		}
		box := g.Bbox()
		for _, s := range g.Segments() {
			require.True(t, box.Contains(s.Pt1), "bbox %v pt %v", box, s.Pt1)
			require.True(t, box.Contains(s.Pt2), "bbox %v pt %v", box, s.Pt2)
		}
	}
}

func TestLineGroup_BboxExact(t *testing.T) {
	g := NewLineGroup(NewSegment(10, 50, 12, 5), NewSegment(30, 20, 8, 40))
	require.Equal(t, NewWindow(image.Pt(8, 5), image.Pt(30, 50)), g.Bbox())
	require.Equal(t, 2, g.Size())
}

func TestLineGroup_AngleMean(t *testing.T) {
	require.Zero(t, LineGroup{}.AngleMean())

	g := NewLineGroup(NewSegment(0, 0, 10, 0), NewSegment(0, 0, 0, 10))
	require.InDelta(t, NewSegment(0, 0, 0, 10).AngleOX()/2, g.AngleMean(), 1e-12)
}
