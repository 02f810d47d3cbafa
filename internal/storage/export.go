package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/dipview/internal/dipole"
)

type ExportData struct {
	SimPrefix   string               `json:"sim_prefix"`
	Trials      int                  `json:"trials"`
	ScaleFactor float64              `json:"dipole_scalefctr"`
	Steps       int                  `json:"steps"`
	Times       []float64            `json:"times"`
	Data        map[string][]float64 `json:"data"`
}

func ExportJSON(w io.Writer, simPrefix string, trials int, scale float64, d *dipole.Dipole) error {
	data := ExportData{
		SimPrefix:   simPrefix,
		Trials:      trials,
		ScaleFactor: scale,
		Steps:       d.Len(),
		Times:       d.Times,
		Data:        make(map[string][]float64, len(d.Data)),
	}
	for ch, v := range d.Data {
		data.Data[string(ch)] = v
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportCSV writes a header row followed by one row per time point.
func ExportCSV(w io.Writer, d *dipole.Dipole) error {
	cw := csv.NewWriter(w)

	header := []string{"time"}
	for _, ch := range dipole.Channels {
		header = append(header, string(ch))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, t := range d.Times {
		row := []string{strconv.FormatFloat(t, 'f', 6, 64)}
		for _, ch := range dipole.Channels {
			row = append(row, strconv.FormatFloat(d.Data[ch][i], 'f', 6, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
