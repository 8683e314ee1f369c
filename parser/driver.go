package parser

import (
	"runtime"

	"github.com/jamplate/jamplate"
)

// Driver repeatedly applies a parser to the compilation root and offers found trees,
// until a pass finds nothing or changes nothing.
type Driver struct {
	maxPasses int
	workers   int
}

type DriverOption func(d *Driver)

// WithMaxPasses limits the number of passes, zero (the default) means no limit.
func WithMaxPasses(n int) DriverOption {
	return func(d *Driver) {
		if n >= 0 {
			d.maxPasses = n
		}
	}
}

// WithWorkers sets the maximum number of sub-parsers evaluated concurrently,
// default is the number of CPUs.
func WithWorkers(n int) DriverOption {
	return func(d *Driver) {
		if n > 0 {
			d.workers = n
		}
	}
}

func NewDriver(opts ...DriverOption) *Driver {
	d := &Driver{workers: runtime.NumCPU()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run parses c with p until fixpoint.
// Candidates of each pass are offered in reference order.
// Errors returned by p or by offering are returned as is, nothing is retried.
func (d *Driver) Run(c *Compilation, p Parser) error {
	c.workers = d.workers
	log := logger()

	for pass := 1; ; pass++ {
		if d.maxPasses > 0 && pass > d.maxPasses {
			return jamplate.FormatError(ErrPassLimit, "%s: no fixpoint after %d passes", c.document.Name(), d.maxPasses)
		}

		found, e := p.Parse(c, c.root)
		if e != nil {
			return e
		}

		grafted := 0
		for _, t := range found.Sorted() {
			if t.Parent() != nil {
				continue
			}

			changed, e := c.Offer(t)
			if e != nil {
				return e
			}
			if changed {
				grafted++
			}
		}

		log.Debugf("%s: pass %d: %d candidates, %d grafted", c.document.Name(), pass, found.Len(), grafted)
		if grafted == 0 {
			return nil
		}
	}
}
