// Package report aggregates time records into per-project summaries.
//
// A report walks the project tree in path order and rolls each project's
// recorded time up into its ancestors, so a parent row always shows at
// least the sum of its children. Optionally the period is divided into
// day, week or month buckets with a per-bucket breakdown on every row.
package report

import (
	"time"

	"github.com/tnorth/worktime/internal/store"
	"github.com/tnorth/worktime/internal/timeexpr"
)

// Row is one project line in a report.
type Row struct {
	Project store.Project
	Depth   int             // nesting depth relative to the report root
	Self    time.Duration   // time recorded directly on this project
	Total   time.Duration   // Self plus all descendants
	Buckets []time.Duration // per-bucket totals (with descendants), empty when unbucketed
}

// Report is the aggregated result for one period.
type Report struct {
	Period       timeexpr.Period
	Buckets      []timeexpr.Period // empty when unbucketed
	Rows         []Row             // path order, zero-total rows omitted
	GrandTotal   time.Duration
	BucketTotals []time.Duration
}

// Params selects what goes into a report.
type Params struct {
	Period timeexpr.Period
	Width  timeexpr.BucketWidth
	Opts   timeexpr.Options

	// Root restricts the report to one project and its descendants.
	// Zero means the whole tree.
	Root int64

	// Now caps open records. Zero means time.Now.
	Now time.Time
}

// Build queries the store and aggregates a report.
func Build(s *store.Store, p Params) (*Report, error) {
	now := p.Now
	if now.IsZero() {
		now = time.Now()
	}

	tree, err := s.Tree()
	if err != nil {
		return nil, err
	}

	buckets := p.Period.Buckets(p.Width, p.Opts)
	if len(buckets) == 0 {
		buckets = []timeexpr.Period{p.Period}
	}
	perBucket := make([]map[int64]time.Duration, len(buckets))
	for i, b := range buckets {
		totals, err := s.PeriodTotals(b, now)
		if err != nil {
			return nil, err
		}
		perBucket[i] = totals
	}

	return assemble(tree, p, buckets, perBucket), nil
}

func assemble(tree *store.Tree, p Params, buckets []timeexpr.Period, perBucket []map[int64]time.Duration) *Report {
	r := &Report{Period: p.Period}
	if p.Width != timeexpr.BucketNone {
		r.Buckets = buckets
		r.BucketTotals = make([]time.Duration, len(buckets))
	}

	included := func(id int64) bool { return true }
	baseDepth := 0
	if p.Root != 0 {
		in := make(map[int64]bool)
		in[p.Root] = true
		for _, id := range tree.Subtree(p.Root) {
			in[id] = true
		}
		included = func(id int64) bool { return in[id] }
		if n, ok := tree.ByID(p.Root); ok {
			d := 0
			for cur := n; cur.Parent != nil; d++ {
				cur, _ = tree.ByID(*cur.Parent)
			}
			baseDepth = d
		}
	}

	// Roll self times up the tree bottom-up, then emit rows in path order.
	totals := make(map[int64]time.Duration)
	bucketed := make(map[int64][]time.Duration)
	var roll func(n *store.Node) (time.Duration, []time.Duration)
	roll = func(n *store.Node) (time.Duration, []time.Duration) {
		total := perBucket[0][n.ID]
		bt := make([]time.Duration, len(buckets))
		for i, m := range perBucket {
			bt[i] = m[n.ID]
		}
		if len(perBucket) > 1 {
			total = 0
			for _, d := range bt {
				total += d
			}
		}
		for _, c := range n.Children {
			ct, cb := roll(c)
			total += ct
			for i := range bt {
				bt[i] += cb[i]
			}
		}
		totals[n.ID] = total
		bucketed[n.ID] = bt
		return total, bt
	}
	for _, root := range tree.Roots {
		roll(root)
	}

	tree.Walk(func(n *store.Node, depth int) {
		if !included(n.ID) || totals[n.ID] == 0 {
			return
		}
		self := perBucket[0][n.ID]
		if len(perBucket) > 1 {
			self = 0
			for _, m := range perBucket {
				self += m[n.ID]
			}
		}
		row := Row{
			Project: n.Project,
			Depth:   depth - baseDepth,
			Self:    self,
			Total:   totals[n.ID],
		}
		if p.Width != timeexpr.BucketNone {
			row.Buckets = bucketed[n.ID]
		}
		r.Rows = append(r.Rows, row)
	})

	// Grand totals over root rows only, so nested projects are not
	// counted twice.
	for _, row := range r.Rows {
		if row.Depth != 0 {
			continue
		}
		r.GrandTotal += row.Total
		for i, d := range row.Buckets {
			r.BucketTotals[i] += d
		}
	}

	return r
}

// MaxTotal returns the largest row total, for scaling bar graphs.
func (r *Report) MaxTotal() time.Duration {
	var max time.Duration
	for _, row := range r.Rows {
		if row.Total > max {
			max = row.Total
		}
	}
	return max
}
