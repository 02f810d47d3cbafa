package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/dipview/internal/dipole"
)

// Column order of a trial file, as written by the simulator.
var columns = []dipole.Channel{dipole.Agg, dipole.L2, dipole.L5}

var trialFile = regexp.MustCompile(`^dpl(_\d+)?\.txt$`)

// Store reads and writes simulation output under <root>/data.
type Store struct {
	baseDir string
}

func New(outputRoot string) *Store {
	return &Store{baseDir: filepath.Join(outputRoot, "data")}
}

// SimDir is the directory holding the trial files of one simulation.
func (s *Store) SimDir(simPrefix string) string {
	return filepath.Join(s.baseDir, simPrefix)
}

func TrialPath(dir string, trial int) string {
	return filepath.Join(dir, fmt.Sprintf("dpl_%d.txt", trial))
}

// SimInfo summarises one simulation directory.
type SimInfo struct {
	Prefix   string
	Trials   int
	Modified time.Time
}

func (s *Store) SaveTrial(dir string, trial int, d *dipole.Dipole) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	file, err := os.Create(TrialPath(dir, trial))
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	w.Comma = '\t'

	for i, t := range d.Times {
		row := []string{strconv.FormatFloat(t, 'f', 6, 64)}
		for _, ch := range columns {
			row = append(row, strconv.FormatFloat(d.Data[ch][i], 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// LoadTrial parses one trial file: tab-separated time, agg, L2, L5 columns.
func LoadTrial(path string) (*dipole.Dipole, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.Comma = '\t'
	r.Comment = '#'
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	d := &dipole.Dipole{Data: make(map[dipole.Channel][]float64, len(columns))}
	for n, record := range records {
		if len(record) < len(columns)+1 {
			return nil, fmt.Errorf("%s:%d: expected %d columns, got %d", path, n+1, len(columns)+1, len(record))
		}
		vals := make([]float64, len(columns)+1)
		for j := range vals {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", path, n+1, err)
			}
			vals[j] = v
		}
		d.Times = append(d.Times, vals[0])
		for j, ch := range columns {
			d.Data[ch] = append(d.Data[ch], vals[j+1])
		}
	}

	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// LoadTrials reads dpl_0.txt through dpl_<n-1>.txt from dir, skipping any
// file that is missing or unreadable. A single-trial simulation may instead
// have written dpl.txt. Only a missing directory is an error.
func (s *Store) LoadTrials(dir string, n int) ([]*dipole.Dipole, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: not a directory", dir)
	}

	trials := make([]*dipole.Dipole, 0, n)
	for i := 0; i < n; i++ {
		d, err := LoadTrial(TrialPath(dir, i))
		if err != nil {
			continue
		}
		trials = append(trials, d)
	}

	if len(trials) == 0 && n == 1 {
		if d, err := LoadTrial(filepath.Join(dir, "dpl.txt")); err == nil {
			trials = append(trials, d)
		}
	}

	return trials, nil
}

func (s *Store) List() ([]SimInfo, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SimInfo{}, nil
		}
		return nil, err
	}

	sims := make([]SimInfo, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		files, err := os.ReadDir(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			continue
		}

		info := SimInfo{Prefix: entry.Name()}
		if fi, err := entry.Info(); err == nil {
			info.Modified = fi.ModTime()
		}
		for _, f := range files {
			if !f.IsDir() && trialFile.MatchString(f.Name()) {
				info.Trials++
			}
		}
		sims = append(sims, info)
	}

	sort.Slice(sims, func(i, j int) bool { return sims[i].Prefix < sims[j].Prefix })
	return sims, nil
}
