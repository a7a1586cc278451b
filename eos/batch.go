package eos

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"
)

// Job is one density-from-(T, P) request.
type Job struct {
	Mixture     *Mixture
	Temperature float64 // K
	Pressure    float64 // Pa
	Phase       Phase   // phase tried first
}

// JobResult pairs a job with its outcome. Err holds per-job failures such as
// *ConvergenceError; they do not stop the batch.
type JobResult struct {
	Index  int
	Result *DensityResult
	Err    error
}

/*
複数の状態点を並列に計算する。

	Args:
		ctx: キャンセル用のコンテキスト (ジョブの開始前に確認する)
		jobs: 計算条件, [k]
		opts: 反復の設定
		workers: 並列数 (1 未満は 1)

	Returns:
		ジョブと同じ順序の結果, [k]
		コンテキストがキャンセルされた場合はそのエラー

	Notes:
		評価は共有状態を書き換えないため、ロックなしで並列に実行できる。
*/
func BatchSolve(ctx context.Context, jobs []Job, opts SolverOptions, workers int) ([]JobResult, error) {
	if workers < 1 {
		workers = 1
	}

	results := make([]JobResult, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, job := range jobs {
		if gctx.Err() != nil {
			break
		}
		i, job := i, job
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := SolveDensityAnyPhase(job.Mixture, job.Temperature, job.Pressure, job.Phase, opts)
			if err != nil {
				log.Printf("job %d (%s, T=%g K, P=%g Pa): %v", i, job.Mixture, job.Temperature, job.Pressure, err)
			}
			results[i] = JobResult{Index: i, Result: r, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}
