// Package diffreport renders side-by-side HTML diffs of transcript
// files before and after cleaning, plus an index page, and serves the
// report directory for review.
package diffreport

// OpKind classifies a single diff operation.
type OpKind int

const (
	OpEqual OpKind = iota
	OpDelete
	OpInsert
)

// Op is one line-level edit.
type Op struct {
	Kind OpKind
	Text string
}

// DiffLines computes a minimal line diff between a and b using Myers'
// greedy O(ND) algorithm.
func DiffLines(a, b []string) []Op {
	n, m := len(a), len(b)
	max := n + m
	if max == 0 {
		return nil
	}
	offset := max

	v := make([]int, 2*max+2)
	var trace [][]int

search:
	for d := 0; d <= max; d++ {
		snapshot := make([]int, len(v))
		copy(snapshot, v)
		trace = append(trace, snapshot)

		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
				x = v[offset+k+1]
			} else {
				x = v[offset+k-1] + 1
			}
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[offset+k] = x
			if x >= n && y >= m {
				break search
			}
		}
	}

	// Backtrack from (n, m), emitting ops in reverse.
	var reversed []Op
	x, y := n, m
	for d := len(trace) - 1; d >= 0; d-- {
		vd := trace[d]
		k := x - y

		var prevK int
		if k == -d || (k != d && vd[offset+k-1] < vd[offset+k+1]) {
			prevK = k + 1
		} else {
			prevK = k - 1
		}
		prevX := vd[offset+prevK]
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			reversed = append(reversed, Op{OpEqual, a[x-1]})
			x--
			y--
		}
		if d > 0 {
			if x == prevX {
				reversed = append(reversed, Op{OpInsert, b[prevY]})
			} else {
				reversed = append(reversed, Op{OpDelete, a[prevX]})
			}
			x, y = prevX, prevY
		}
	}

	ops := make([]Op, len(reversed))
	for i, op := range reversed {
		ops[len(reversed)-1-i] = op
	}
	return ops
}
