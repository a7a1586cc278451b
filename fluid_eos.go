package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"fluid_eos/eos"
	"fluid_eos/peakfit"
)

// 出力ファイル名
const (
	result_file_name    = "result.csv"
	deviation_file_name = "reference_deviation.csv"
	peak_file_name      = "peaks.csv"
)

// 1つの計算条件の結果
type query_result struct {
	mixture    *eos.Mixture
	point      *eos.ThermodynamicPoint
	iterations int
	err        error
}

/*
計算条件を解く。

	Args:
		ctx: キャンセル用のコンテキスト
		queries: 計算条件, [k]
		reg: 純物質の一覧
		table: 2成分系パラメータの表
		cfg: 設定

	Returns:
		計算条件と同じ順序の結果, [k]

	Notes:
		密度が指定された条件はそのまま評価し、圧力が指定された条件は並列に密度を求める。
*/
func solve_queries(ctx context.Context, queries []Query, reg *eos.Registry, table *eos.ParameterTable, cfg Config) ([]query_result, error) {
	results := make([]query_result, len(queries))

	var jobs []eos.Job
	var job_index []int
	for k := range queries {
		q := &queries[k]
		m, err := q.mixture(reg, table)
		if err != nil {
			results[k].err = err
			continue
		}
		results[k].mixture = m

		if q.Density != nil {
			results[k].point, results[k].err = eos.Evaluate(m, q.Temperature, *q.Density)
			continue
		}
		jobs = append(jobs, eos.Job{Mixture: m, Temperature: q.Temperature, Pressure: *q.Pressure, Phase: q.phase()})
		job_index = append(job_index, k)
	}

	solved, err := eos.BatchSolve(ctx, jobs, cfg.Solver.options(), cfg.Workers)
	if err != nil {
		return nil, err
	}
	for i, r := range solved {
		k := job_index[i]
		if r.Err != nil {
			results[k].err = r.Err
			continue
		}
		results[k].point = r.Result.Point
		results[k].iterations = r.Result.Iterations
	}
	return results, nil
}

/*
状態方程式の計算処理の実行

	Args:
		input_path: 計算条件 JSON ファイルへのパス (空の場合は計算しない)
		config_path: 設定 YAML ファイルへのパス (空の場合は既定値)
		output_data_dir: 出力フォルダへのパス
		reference_path: 参照データ CSV ファイルへのパス (空の場合は比較しない)
		peaks_path: ピークの当てはめ条件 JSON ファイルへのパス (空の場合は当てはめない)
		cfg_override: コマンドラインで指定された設定の上書き
*/
func run(
	input_path string,
	config_path string,
	output_data_dir string,
	reference_path string,
	peaks_path string,
	cfg_override func(*Config),
) error {
	// ---- 事前準備 ----

	cfg, err := load_config(config_path)
	if err != nil {
		return err
	}
	if cfg_override != nil {
		cfg_override(&cfg)
		if err := cfg.validate(); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(output_data_dir, 0755); err != nil {
		return err
	}

	reg := eos.DefaultRegistry()
	table := eos.DefaultParameterTable()
	rec := NewRecorder(cfg.pressure_unit())

	// ---- 計算 ----

	if input_path != "" {
		log.Printf("計算条件JSONファイルの読み込み開始")
		queries, err := load_queries(input_path)
		if err != nil {
			return err
		}

		log.Printf("%d 件の状態点の計算開始", len(queries))
		results, err := solve_queries(context.Background(), queries, reg, table, cfg)
		if err != nil {
			return err
		}
		for k, r := range results {
			if r.err != nil {
				log.Printf("query %q: %v", queries[k].Name, r.err)
				rec.recording_error(queries[k].Name, r.err)
				continue
			}
			if err := rec.recording(queries[k].Name, r.mixture, r.point, r.iterations); err != nil {
				return err
			}
		}
	}

	if reference_path != "" {
		log.Printf("参照データとの比較開始")
		f, err := os.Open(reference_path)
		if err != nil {
			return err
		}
		defer f.Close()
		points, err := eos.LoadReferencePoints(f)
		if err != nil {
			return err
		}
		rec.recording_deviations(eos.CompareReference(reg, table, points, cfg.Solver.options()))
	}

	if peaks_path != "" {
		log.Printf("ピークの当てはめ開始")
		if err := fit_peaks(peakfit.NewLeastSquaresFitter(), peaks_path, rec); err != nil {
			return err
		}
	}

	// ---- 計算結果ファイルの保存 ----

	log.Printf("Save results to `%s`", output_data_dir)
	return rec.export(
		filepath.Join(output_data_dir, result_file_name),
		filepath.Join(output_data_dir, deviation_file_name),
		filepath.Join(output_data_dir, peak_file_name),
	)
}

func main() {
	var input_path string
	flag.StringVar(&input_path, "input", "", "計算条件のJSONファイル")

	var config_path string
	flag.StringVar(&config_path, "config", "", "反復計算の設定YAMLファイル")

	var output_data_dir string
	flag.StringVar(&output_data_dir, "o", ".", "出力フォルダ")

	var reference_path string
	flag.StringVar(&reference_path, "reference", "", "参照データのCSVファイル。指定した場合は計算値との偏差を出力します。")

	var peaks_path string
	flag.StringVar(&peaks_path, "peaks", "", "ピークの当てはめ条件のJSONファイル")

	var workers int
	flag.IntVar(&workers, "workers", 0, "並列数を指定します。0の場合は設定ファイルの値を使います。")

	var pressure_unit string
	flag.StringVar(&pressure_unit, "pressure_unit", "", "圧力の出力単位 (Pa, kPa, MPa, bar) を指定します。")

	// 引数を受け取る
	flag.Parse()

	if input_path == "" && reference_path == "" && peaks_path == "" {
		fmt.Fprintln(os.Stderr, "one of -input, -reference and -peaks is required")
		flag.Usage()
		os.Exit(2)
	}

	start := time.Now()

	err := run(input_path, config_path, output_data_dir, reference_path, peaks_path, func(cfg *Config) {
		if workers > 0 {
			cfg.Workers = workers
		}
		if pressure_unit != "" {
			cfg.PressureUnit = pressure_unit
		}
	})
	if err != nil {
		log.Fatal(err)
	}

	elapsedTime := time.Since(start)
	log.Printf("elapsed_time: %v [sec]", elapsedTime)
}
