// Package codelist loads the supplementary allowed-value lists (other
// language, nationality, country codes) from the spreadsheet assets that
// ship with the application. Loading failures degrade silently to the
// hardcoded default ranges; a reload must be requested explicitly.
package codelist

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// Spreadsheet assets and the columns read from them.
const (
	languageOtherFile   = "language_other.xlsx"
	languageOtherColumn = "LanguageOther_Code"
	nationalityFile     = "nationality.xlsx"
	nationalityColumn   = "Nationality_Code_Numeric-3"
	countryFile         = "country.xlsx"
	countryColumn       = "Countries_Code_Num-3"
)

// specialNationalityCodes are always valid regardless of what the
// spreadsheet contains.
var specialNationalityCodes = []string{"000", "910", "920", "930", "940", "990", "997", "998", "999"}

// Lists holds the three loaded code lists.
type Lists struct {
	LanguageOther []string
	Nationality   []string
	Country       []string
}

// Loader reads the code-list spreadsheets with an explicit in-process
// cache. Construct once at startup and inject into consumers.
type Loader struct {
	assetsDir string
	log       zerolog.Logger

	mu     sync.Mutex
	cached *Lists
}

// NewLoader creates a loader for the given assets directory.
func NewLoader(assetsDir string, log zerolog.Logger) *Loader {
	return &Loader{assetsDir: assetsDir, log: log}
}

// Load returns the code lists, reading the spreadsheets on first call and
// the cached result afterwards. Spreadsheet changes require Reload.
func (l *Loader) Load() Lists {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cached == nil {
		lists := l.read()
		l.cached = &lists
	}
	return *l.cached
}

// Reload discards the cache and re-reads the spreadsheets.
func (l *Loader) Reload() Lists {
	l.mu.Lock()
	l.cached = nil
	l.mu.Unlock()
	return l.Load()
}

func (l *Loader) read() Lists {
	lists := Lists{
		LanguageOther: defaultLanguageOther(),
		Nationality:   defaultNationality(),
		Country:       defaultCountry(),
	}

	if codes, err := l.readColumn(languageOtherFile, languageOtherColumn); err != nil {
		l.log.Warn().Err(err).Str("file", languageOtherFile).Msg("code list fallback to defaults")
	} else if len(codes) > 0 {
		lists.LanguageOther = dedupe(codes)
	}

	if codes, err := l.readColumn(nationalityFile, nationalityColumn); err != nil {
		l.log.Warn().Err(err).Str("file", nationalityFile).Msg("code list fallback to defaults")
	} else if len(codes) > 0 {
		// The special codes are unioned in regardless of load success.
		lists.Nationality = dedupe(append(codes, specialNationalityCodes...))
	}

	if codes, err := l.readColumn(countryFile, countryColumn); err != nil {
		l.log.Warn().Err(err).Str("file", countryFile).Msg("code list fallback to defaults")
	} else if len(codes) > 0 {
		lists.Country = dedupe(codes)
	}

	return lists
}

// readColumn pulls the non-blank trimmed values of one named column from
// the first sheet of a workbook.
func (l *Loader) readColumn(file, column string) ([]string, error) {
	path := filepath.Join(l.assetsDir, file)
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", file, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: empty sheet", file)
	}

	colIdx := -1
	for i, header := range rows[0] {
		if strings.TrimSpace(header) == column {
			colIdx = i
			break
		}
	}
	if colIdx < 0 {
		return nil, fmt.Errorf("%s: column %q not found", file, column)
	}

	var codes []string
	for _, row := range rows[1:] {
		if colIdx >= len(row) {
			continue
		}
		if v := strings.TrimSpace(row[colIdx]); v != "" {
			codes = append(codes, v)
		}
	}
	return codes, nil
}

func dedupe(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

func defaultLanguageOther() []string {
	codes := make([]string, 0, 80)
	for i := 2; i <= 80; i++ {
		codes = append(codes, fmt.Sprintf("%02d", i))
	}
	return append(codes, "99")
}

func defaultNationality() []string {
	codes := make([]string, 0, 915)
	for i := 4; i <= 909; i++ {
		codes = append(codes, fmt.Sprintf("%03d", i))
	}
	return dedupe(append(codes, specialNationalityCodes...))
}

func defaultCountry() []string {
	codes := make([]string, 0, 1000)
	for i := 0; i <= 999; i++ {
		codes = append(codes, fmt.Sprintf("%03d", i))
	}
	return codes
}
