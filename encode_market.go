package stocks

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/etnz/stocks/date"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// A market lives in a folder, in a human-readable and git-friendly layout:
//
//	definition.jsonl  one stock per line: {"ticker":..,"name":..,"exchange":..,"ipo":..}
//	2022.jsonl        one trading day per line: {"on":"2022-10-27","GOOG":92.6,...}
//
// Decode reads the definition, then every yearly file line by line. Encode
// writes the yearly files from the union of all quoted days and deletes the
// yearly files that are no longer needed.

const (
	attrOn               = "on"
	marketDefinitionFile = "definition.jsonl"
	marketDataFilesGlob  = "[0-9][0-9][0-9][0-9].jsonl"
)

// jstock is a line of the definition file.
type jstock struct {
	Ticker   string    `json:"ticker"`
	Name     string    `json:"name"`
	Exchange string    `json:"exchange,omitempty"`
	IPO      date.Date `json:"ipo,omitempty"`
}

// decodeDefinitions parses the definition file. filename is for error message only.
func (m *Market) decodeDefinitions(filename string, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	i := 0
	for scanner.Scan() {
		i++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var js jstock
		if err := json.Unmarshal(line, &js); err != nil {
			return fmt.Errorf("format error %s:%d: %w", filename, i, err)
		}
		if js.Ticker == "" {
			return fmt.Errorf("format error %s:%d: missing ticker", filename, i)
		}
		if err := m.Add(NewPriceSeries(js.Ticker, js.Name, js.Exchange, js.IPO)); err != nil {
			log.Warn().Err(err).Str("file", filename).Int("line", i).Msg("duplicate stock definition ignored")
		}
	}
	return scanner.Err()
}

// fileLine is a line from a collection of files.
type fileLine struct {
	filename string
	i        int
	txt      string
}

// loadLines reads all lines from a set of files.
func loadLines(filenames ...string) ([]fileLine, error) {
	var list []fileLine
	for _, filename := range filenames {
		f, err := os.Open(filename)
		if err != nil {
			return nil, fmt.Errorf("cannot open %q for reading: %w", filename, err)
		}
		scanner := bufio.NewScanner(f)
		i := 0
		for scanner.Scan() {
			i++
			list = append(list, fileLine{filename, i, scanner.Text()})
		}
		err = scanner.Err()
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("cannot read %q: %w", filename, err)
		}
	}
	return list, nil
}

// decodeDailyPrices decodes a single line of a yearly file.
func (m *Market) decodeDailyPrices(l fileLine) error {
	if strings.TrimSpace(l.txt) == "" {
		return nil
	}

	jobj := make(map[string]any)
	if err := json.Unmarshal([]byte(l.txt), &jobj); err != nil {
		return fmt.Errorf("parse error %s:%v: not a correct json: %w", l.filename, l.i, err)
	}

	jvalue, ok := jobj[attrOn]
	if !ok {
		return fmt.Errorf("parse error %s:%v: missing the property %q with a date", l.filename, l.i, attrOn)
	}
	jstring, ok := jvalue.(string)
	if !ok {
		return fmt.Errorf("parse error %s:%v: property %q must be of type 'string'", l.filename, l.i, attrOn)
	}
	on, err := date.Parse(jstring)
	if err != nil {
		return fmt.Errorf("parse error %s:%v: property %q must be a valid date: %w", l.filename, l.i, attrOn, err)
	}

	for ticker, price := range jobj {
		if ticker == attrOn {
			continue
		}
		p, ok := price.(float64)
		if !ok {
			return fmt.Errorf("parse error %s:%v: property %q must be of type 'number'", l.filename, l.i, ticker)
		}
		if p <= 0 {
			return fmt.Errorf("parse error %s:%v: close of %q must be positive", l.filename, l.i, ticker)
		}
		s, ok := m.index[ticker]
		if !ok {
			return fmt.Errorf("parse error %s:%v: property %q must be an existing ticker", l.filename, l.i, ticker)
		}
		s.Append(on, p)
	}
	return nil
}

// DecodeMarket reads a market folder. A folder without definition file is an
// empty market.
func DecodeMarket(folder string) (*Market, error) {
	m := NewMarket()

	definition := filepath.Join(folder, marketDefinitionFile)
	f, err := os.Open(definition)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return nil, fmt.Errorf("load error: cannot open market definition file %q: %w", definition, err)
	}
	defer f.Close()
	if err := m.decodeDefinitions(definition, f); err != nil {
		return nil, fmt.Errorf("load error: cannot read market definition file: %w", err)
	}

	filenames, err := filepath.Glob(filepath.Join(folder, marketDataFilesGlob))
	if err != nil {
		return nil, fmt.Errorf("load error: cannot scan folder %q for market data files: %w", folder, err)
	}
	lines, err := loadLines(filenames...)
	if err != nil {
		return nil, err
	}
	for _, line := range lines {
		if err := m.decodeDailyPrices(line); err != nil {
			return nil, err
		}
	}
	log.Debug().Str("folder", folder).Int("stocks", len(m.series)).Int("lines", len(lines)).Msg("market loaded")
	return m, nil
}

// encodeDefinitions writes the definition file, sorted by ticker.
func encodeDefinitions(w io.Writer, series []*PriceSeries) error {
	for _, s := range series {
		data, err := json.Marshal(jstock{Ticker: s.Ticker(), Name: s.Name(), Exchange: s.Exchange(), IPO: s.IPO()})
		if err != nil {
			return fmt.Errorf("persist error: cannot marshal stock %q: %w", s.Ticker(), err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("persist error: cannot write to file: %w", err)
		}
	}
	return nil
}

// encodeDailyPrices writes a single line of a yearly file.
func encodeDailyPrices(w io.Writer, day date.Date, tickers []string, values []float64) error {
	var jw jsonObjectWriter
	jw.Append(attrOn, day.String())
	for i, ticker := range tickers {
		jw.Append(ticker, values[i])
	}
	b, err := jw.MarshalJSON()
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

// EncodeMarket writes m into folder.
func EncodeMarket(folder string, m *Market) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sorted := slices.Clone(m.series)
	slices.SortFunc(sorted, func(a, b *PriceSeries) int { return strings.Compare(a.Ticker(), b.Ticker()) })

	if err := os.MkdirAll(folder, 0o755); err != nil {
		return fmt.Errorf("persist error: cannot create folder %q: %w", folder, err)
	}
	definition := filepath.Join(folder, marketDefinitionFile)
	f, err := os.Create(definition)
	if err != nil {
		return fmt.Errorf("persist error: cannot create file %q: %w", definition, err)
	}
	defer f.Close()
	if err := encodeDefinitions(f, sorted); err != nil {
		return err
	}

	// Union of all quoted days, in order.
	var days []date.Date
	for _, s := range sorted {
		for on := range s.Quotes() {
			days = append(days, on)
		}
	}
	slices.SortFunc(days, date.Date.Compare)
	days = slices.Compact(days)

	created := make(map[string]struct{})
	var current *os.File
	var currentName string
	defer func() {
		if current != nil {
			current.Close()
		}
	}()
	for _, day := range days {
		name := filepath.Join(folder, fmt.Sprintf("%d.jsonl", day.Year()))
		if name != currentName {
			if current != nil {
				if err := current.Close(); err != nil {
					return fmt.Errorf("persist error: cannot close file %q: %w", currentName, err)
				}
			}
			if current, err = os.Create(name); err != nil {
				return fmt.Errorf("persist error: cannot create file %q: %w", name, err)
			}
			currentName = name
			created[name] = struct{}{}
			log.Debug().Str("file", name).Msg("market data file created")
		}

		var tickers []string
		var values []float64
		for _, s := range sorted {
			if v, ok := s.closes.Get(day); ok {
				tickers = append(tickers, s.Ticker())
				values = append(values, v)
			}
		}
		if err := encodeDailyPrices(current, day, tickers, values); err != nil {
			return fmt.Errorf("persist error: write error on file %q: %w", name, err)
		}
	}

	filenames, err := filepath.Glob(filepath.Join(folder, marketDataFilesGlob))
	if err != nil {
		return fmt.Errorf("persist error: cannot scan folder %q for market data files to be deleted: %w", folder, err)
	}
	for _, filename := range filenames {
		if _, ok := created[filename]; ok {
			continue
		}
		if err := os.Remove(filename); err != nil {
			return fmt.Errorf("persist error: cannot delete file %q: %w", filename, err)
		}
		log.Debug().Str("file", filename).Msg("market data file deleted")
	}
	return nil
}
