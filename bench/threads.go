package bench

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/inferlab/ortbench/config"
)

// ThreadResult is one row of the thread scaling comparison: the
// averaged repeats for a single intra-op thread count.
type ThreadResult struct {
	Threads   int
	Aggregate Result
	Runs      []Result
}

// Sweep runs the repeated measurement protocol once per intra-op thread
// count and returns one row per count, in sweep order. The sweep aborts
// on the first failing configuration; a scaling table with holes cannot
// be charted against the other binding's.
func Sweep(cfg config.Run, counts []int, build SessionFactory, mem MemorySource) ([]ThreadResult, error) {
	if len(counts) == 0 {
		return nil, errors.New("bench: empty thread count sweep")
	}

	results := make([]ThreadResult, 0, len(counts))
	for _, threads := range counts {
		runCfg := cfg.WithThreads(threads)
		log.WithField("intra_op_threads", threads).Info("sweeping thread configuration")

		rep, err := Repeat(runCfg, build, mem)
		if err != nil {
			return nil, errors.Wrapf(err, "thread count %d", threads)
		}

		results = append(results, ThreadResult{
			Threads:   threads,
			Aggregate: rep.Average,
			Runs:      rep.Runs,
		})
	}
	return results, nil
}
