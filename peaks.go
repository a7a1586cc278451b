package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"fluid_eos/peakfit"
)

type peak_input struct {
	X     []float64 `json:"x"`
	Y     []float64 `json:"y"`
	Peaks []struct {
		Shape    string  `json:"shape"`
		Position float64 `json:"position"`
		Height   float64 `json:"height"`
		Width    float64 `json:"width"`
	} `json:"peaks"`
}

/*
ピークの当てはめ条件 JSON ファイルを読み込む。

	Returns:
		(1) 横軸の値, [k]
		(2) 縦軸の値, [k]
		(3) ピークの初期値, [j]
*/
func load_peak_input(path string) ([]float64, []float64, []peakfit.PeakDescription, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, nil, err
	}
	var in peak_input
	if err := json.Unmarshal(b, &in); err != nil {
		return nil, nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}

	peaks := make([]peakfit.PeakDescription, len(in.Peaks))
	for j, p := range in.Peaks {
		shape, err := peakfit.ParsePeakShape(p.Shape)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("%s: peak %d: %w", path, j, err)
		}
		peaks[j] = peakfit.PeakDescription{Shape: shape, Position: p.Position, Height: p.Height, Width: p.Width}
	}
	return in.X, in.Y, peaks, nil
}

func fit_peaks(fitter peakfit.Fitter, path string, rec *Recorder) error {
	x, y, peaks, err := load_peak_input(path)
	if err != nil {
		return err
	}
	res, err := fitter.Execute(x, y, peaks)
	if err != nil {
		return err
	}
	if res.Warning != "" {
		log.Printf("peak fitting stopped early (%s): %s", res.Status, res.Warning)
	}
	log.Printf("fitted %d peaks in %d iterations, residual sum of squares %g", len(res.Peaks), res.Iterations, res.SumSquares)
	rec.recording_peaks(res)
	return nil
}
