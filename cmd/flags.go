package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/whereisit-project/whereisit/internal/domain"
	"github.com/whereisit-project/whereisit/internal/thumbnail"
)

// DateFlagLayout is the layout of --date values.
const DateFlagLayout = "2006-01-02"

// parseDate reads a --date value as a local calendar day. Empty means today.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local), nil
	}
	t, err := time.ParseInLocation(DateFlagLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must look like 2024-06-14", domain.ErrValidation, s)
	}
	return t, nil
}

func newProber() (*thumbnail.Prober, error) {
	return thumbnail.New(thumbnail.Options{
		MaxBytes:  cfg.Thumbnail.MaxBytes,
		CacheSize: cfg.Thumbnail.CacheSize,
		Timeout:   cfg.Thumbnail.Timeout,
		Logger:    logger,
	})
}

// checkThumbnail makes sure rawURL serves a decodable image and prints what
// it found.
func checkThumbnail(ctx context.Context, rawURL string) error {
	prober, err := newProber()
	if err != nil {
		return err
	}
	info, err := prober.Probe(ctx, rawURL)
	if err != nil {
		return err
	}
	printer.Thumbnail(info, "")
	return nil
}

// confirm asks a yes/no question on in. Anything but y or yes is no.
func confirm(in io.Reader, question string) bool {
	fmt.Fprintf(printer.Out(), "%s [y/N]: ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
