// Package importer turns a vCard address book, local file or CardDAV
// export, into an import batch ready for cadence distribution.
package importer

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-cadence/internal/config"
	"github.com/tartampluch/go-cadence/internal/engine"
)

// SourceConfig describes where the vCards come from and which cadence
// the imported contacts start on.
type SourceConfig struct {
	Mode      string
	LocalPath string
	WebURL    string
	WebUser   string
	WebPass   string

	Cadence    engine.Cadence
	CustomDays int
}

// Importer reads vCard streams into import batches.
type Importer struct {
	Fetcher VCardFetcher
}

// Read resolves the configured source and decodes every parseable card.
// Malformed cards are skipped with a warning rather than aborting the
// batch.
func (im *Importer) Read(ctx context.Context, cfg SourceConfig) ([]engine.ImportContact, error) {
	reader, err := im.acquireStream(ctx, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
	}
	defer func() { _ = reader.Close() }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return im.decode(ctx, reader, cfg)
}

// acquireStream opens the appropriate data source based on configuration.
func (im *Importer) acquireStream(ctx context.Context, cfg SourceConfig) (io.ReadCloser, error) {
	switch cfg.Mode {
	case config.SourceModeLocal:
		if cfg.LocalPath == "" {
			return nil, errors.New(config.ErrLocalPathEmpty)
		}
		return os.Open(cfg.LocalPath)
	case config.SourceModeWeb:
		if cfg.WebURL == "" {
			return nil, errors.New(config.ErrWebURLEmpty)
		}
		if im.Fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return im.Fetcher.Fetch(ctx, cfg.WebURL, cfg.WebUser, cfg.WebPass)
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrModeUnsupport, cfg.Mode)
	}
}

func (im *Importer) decode(ctx context.Context, r io.Reader, cfg SourceConfig) ([]engine.ImportContact, error) {
	decoder := vcard.NewDecoder(r)

	var batch []engine.ImportContact
	processed := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Keep going to maximize data recovery.
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompImporter,
				config.LogKeyError, err)
			continue
		}
		processed++

		// Name strategy: FN (formatted) > N (structured) > fallback.
		name := config.FallbackContactName
		if fn := card.Get(config.VCardFN); fn != nil && fn.Value != "" {
			name = fn.Value
		} else if n := card.Get(config.VCardN); n != nil && n.Value != "" {
			name = n.Value
		}

		c := engine.ImportContact{
			ID:         contactID(name, card),
			Name:       name,
			Cadence:    cfg.Cadence,
			CustomDays: cfg.CustomDays,
		}

		if prop := card.Get(config.VCardBDAY); prop != nil && prop.Value != "" {
			if bd, err := parseBirthdate(prop.Value); err == nil {
				c.Birthday = &bd
			} else {
				slog.Debug(config.MsgSkippedDate,
					config.LogKeyComponent, config.CompImporter,
					config.LogKeyValue, prop.Value)
			}
		}

		batch = append(batch, c)
	}

	slog.Info(config.MsgImportDone,
		config.LogKeyComponent, config.CompImporter,
		config.LogKeyProcessed, processed,
		config.LogKeyCount, len(batch),
	)
	return batch, nil
}

// contactID derives a stable id from the card content so re-importing the
// same address book does not create duplicates.
func contactID(name string, card vcard.Card) string {
	bday := ""
	if prop := card.Get(config.VCardBDAY); prop != nil {
		bday = prop.Value
	}
	input := fmt.Sprintf(config.FormatHashInput, name, bday, config.UIDSalt)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf("%x", hash[:config.UIDHashLength])
}

// parseBirthdate handles the vCard date shapes: full dates in dashed,
// basic, and timestamp forms, plus year-less truncated dates.
func parseBirthdate(value string) (engine.Birthday, error) {
	formatsWithYear := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}
	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			return engine.Birthday{
				Month:     t.Month(),
				Day:       t.Day(),
				Year:      t.Year(),
				YearKnown: true,
			}, nil
		}
	}

	formatsWithoutYear := []string{config.DateFormatNoYearD, config.DateFormatNoYearB}
	for _, f := range formatsWithoutYear {
		if t, err := time.Parse(f, value); err == nil {
			return engine.Birthday{Month: t.Month(), Day: t.Day()}, nil
		}
	}

	return engine.Birthday{}, errors.New(config.ErrDateParse)
}
