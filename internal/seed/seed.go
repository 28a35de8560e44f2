// Package seed bulk-loads cards into a deck from markdown sources:
// local directories or git repositories containing Q:/A: card files.
// Seeded cards go through the same ingestion pipeline as generated
// candidates, so re-seeding an unchanged source adds nothing.
package seed

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/conorfennell/recall/internal/deck"
	"github.com/conorfennell/recall/internal/domain"
	"github.com/conorfennell/recall/internal/gitsource"
	"github.com/conorfennell/recall/internal/parser"
)

// Run seeds the deck from every source and returns the combined
// ingestion report. Sources ending in .git or using a git URL scheme
// are cloned (or pulled) under reposDir first; everything else is
// treated as a local directory.
func Run(d *deck.Deck, sources []string, reposDir string, log *slog.Logger) (deck.IngestReport, error) {
	if log == nil {
		log = slog.Default()
	}

	var total deck.IngestReport
	for _, source := range sources {
		dir := source
		if IsGitSource(source) {
			localPath, err := gitURLToLocalPath(reposDir, source)
			if err != nil {
				return total, fmt.Errorf("failed to resolve git source %s: %w", source, err)
			}
			if err := gitsource.Sync(source, localPath); err != nil {
				return total, fmt.Errorf("failed to sync git source %s: %w", source, err)
			}
			dir = localPath
		}

		batch, err := collect(dir, log)
		if err != nil {
			return total, fmt.Errorf("failed to read source %s: %w", source, err)
		}

		report := d.Ingest(batch, domain.SourceManual)
		log.Info("seeded source",
			"source", source,
			"cards", len(batch),
			"accepted", report.Accepted,
			"rejected", report.Rejected,
			"duplicates", report.Duplicates,
		)
		total.Accepted += report.Accepted
		total.Rejected += report.Rejected
		total.Duplicates += report.Duplicates
	}
	return total, nil
}

// IsGitSource reports whether a source string refers to a git
// repository rather than a local directory.
func IsGitSource(source string) bool {
	return strings.HasSuffix(source, ".git") ||
		strings.HasPrefix(source, "git@") ||
		strings.HasPrefix(source, "https://") ||
		strings.HasPrefix(source, "http://")
}

// collect walks a directory for .md files and parses them into
// candidates. Parse failures skip the file and keep walking; a bad file
// should not abort the whole seed.
func collect(dir string, log *slog.Logger) ([]domain.Candidate, error) {
	var batch []domain.Candidate
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}

		cards, parseErr := parser.ParseFile(path)
		if parseErr != nil {
			log.Warn("skipping unparseable card file", "path", path, "error", parseErr)
			return nil
		}
		for _, card := range cards {
			c := domain.Candidate{
				Kind:   string(domain.KindBasic),
				Front:  card.Front,
				Back:   card.Back,
				Reason: "seeded from " + path,
			}
			if card.Context != "" {
				c.Tags = []string{card.Context}
			}
			batch = append(batch, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// gitURLToLocalPath maps a git URL onto a stable path under baseDir so
// repeated seeds reuse the same clone.
func gitURLToLocalPath(baseDir, repoURL string) (string, error) {
	parsed, err := url.Parse(repoURL)
	if err == nil && (parsed.Scheme == "https" || parsed.Scheme == "http") {
		return filepath.Join(baseDir, parsed.Host, strings.TrimSuffix(parsed.Path, ".git")), nil
	}

	// scp-like syntax: git@host:user/repo.git
	if strings.Contains(repoURL, "@") {
		parts := strings.SplitN(repoURL, ":", 2)
		if len(parts) == 2 {
			hostAndUser := strings.SplitN(parts[0], "@", 2)
			if len(hostAndUser) == 2 {
				return filepath.Join(baseDir, hostAndUser[1], strings.TrimSuffix(parts[1], ".git")), nil
			}
		}
	}

	return "", fmt.Errorf("could not parse git URL: %s", repoURL)
}
