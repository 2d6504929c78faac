package stocks

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/etnz/stocks/date"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Store persists the portfolios of one user in a folder, one <id>.json file
// per portfolio. Portfolio names are unique per user.
type Store struct {
	dir  string
	feed PriceFeed
	// Today returns the date strategies are executed through on Load.
	Today func() date.Date
}

// Summary describes a stored portfolio without loading its positions.
type Summary struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Kind    string    `json:"kind"`
	Created time.Time `json:"created"`
	path    string
}

// NewStore opens the store of user under root, creating its folder if needed.
func NewStore(root, user string, feed PriceFeed) (*Store, error) {
	user = strings.TrimSpace(user)
	if user == "" || user != filepath.Base(user) || strings.HasPrefix(user, ".") {
		return nil, fmt.Errorf("invalid user name %q", user)
	}
	dir := filepath.Join(root, user)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create store folder %q: %w", dir, err)
	}
	return &Store{dir: dir, feed: feed, Today: date.Today}, nil
}

// Dir returns the folder of the store.
func (s *Store) Dir() string { return s.dir }

// List returns the stored portfolios sorted by name.
func (s *Store) List() ([]Summary, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("cannot scan store folder %q: %w", s.dir, err)
	}
	list := make([]Summary, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read %q: %w", path, err)
		}
		var sum Summary
		if err := json.Unmarshal(data, &sum); err != nil {
			log.Warn().Err(err).Str("file", path).Msg("skipping unreadable portfolio file")
			continue
		}
		sum.path = path
		list = append(list, sum)
	}
	slices.SortFunc(list, func(a, b Summary) int { return strings.Compare(a.Name, b.Name) })
	return list, nil
}

// find returns the summary of the portfolio named name.
func (s *Store) find(name string) (Summary, bool, error) {
	list, err := s.List()
	if err != nil {
		return Summary{}, false, err
	}
	i := slices.IndexFunc(list, func(sum Summary) bool { return sum.Name == name })
	if i < 0 {
		return Summary{}, false, nil
	}
	return list[i], true, nil
}

func (s *Store) path(id uuid.UUID) string {
	return filepath.Join(s.dir, id.String()+".json")
}

// Create saves a new portfolio. It fails if the name is already used.
func (s *Store) Create(p Portfolio) error {
	_, found, err := s.find(p.Name())
	if err != nil {
		return err
	}
	if found {
		return fmt.Errorf("%w: %q", ErrPortfolioExists, p.Name())
	}
	return s.Save(p)
}

// Save writes p, replacing its previous version.
func (s *Store) Save(p Portfolio) error {
	var buf bytes.Buffer
	if err := EncodePortfolio(&buf, p); err != nil {
		return err
	}
	path := s.path(p.ID())
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("cannot write portfolio %q: %w", p.Name(), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("cannot write portfolio %q: %w", p.Name(), err)
	}
	log.Info().Str("portfolio", p.Name()).Str("file", path).Msg("portfolio saved")
	return nil
}

// Load reads the portfolio named name. Strategies of a strategic portfolio are
// executed through Today, adding the occurrences that came due since the last
// save.
func (s *Store) Load(name string) (Portfolio, error) {
	sum, found, err := s.find(name)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrPortfolioNotFound, name)
	}
	f, err := os.Open(sum.path)
	if err != nil {
		return nil, fmt.Errorf("cannot open portfolio %q: %w", name, err)
	}
	defer f.Close()

	p, err := DecodePortfolio(f, s.feed)
	if err != nil {
		return nil, fmt.Errorf("cannot load %q: %w", sum.path, err)
	}
	if sp, ok := p.(*Strategic); ok {
		if err := sp.ExecuteStrategies(s.Today()); err != nil {
			return nil, err
		}
	}
	log.Info().Str("portfolio", name).Str("kind", p.Kind().String()).Msg("portfolio loaded")
	return p, nil
}

// Delete removes the portfolio named name.
func (s *Store) Delete(name string) error {
	sum, found, err := s.find(name)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %q", ErrPortfolioNotFound, name)
	}
	if err := os.Remove(sum.path); err != nil {
		return fmt.Errorf("cannot delete portfolio %q: %w", name, err)
	}
	log.Info().Str("portfolio", name).Msg("portfolio deleted")
	return nil
}
