// package formatter renders movie pages, details and saved lists as terminal tables, JSON, Markdown, CSV or plain text
package formatter

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/movieplex/internal/models"
	"github.com/desertthunder/movieplex/internal/shared"
)

// Format selects an output renderer.
type Format string

const (
	Table    Format = "table"
	JSON     Format = "json"
	Markdown Format = "markdown"
	CSV      Format = "csv"
	Text     Format = "txt"
)

// ParseFormat maps a --format flag value to a [Format]. Empty input selects [Table].
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "table":
		return Table, nil
	case "json":
		return JSON, nil
	case "markdown", "md":
		return Markdown, nil
	case "csv":
		return CSV, nil
	case "txt", "text":
		return Text, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (table, json, markdown, csv, txt)", shared.ErrInvalidFlag, s)
	}
}

var movieHeaders = []string{"ID", "Title", "Year", "Rating", "Votes", "Genres", "Director", "Runtime", "Source"}

func movieRecord(m models.Movie) []string {
	return []string{
		m.ID.String(),
		m.Title,
		m.DisplayYear(),
		strconv.FormatFloat(m.VoteAverage, 'f', 1, 64),
		strconv.Itoa(m.VoteCount),
		strings.Join(m.Genres, ";"),
		m.Director,
		strconv.Itoa(m.RuntimeMinutes),
		string(m.Source),
	}
}

// ExportToCSV converts movies to CSV with columns: ID, Title, Year, Rating, Votes, Genres, Director, Runtime, Source
func ExportToCSV(movies []models.Movie) ([]byte, error) {
	rows := make([][]string, 0, len(movies))
	for _, m := range movies {
		rows = append(rows, movieRecord(m))
	}
	return writeCSV(movieHeaders, rows)
}

// EntriesToCSV converts saved list entries to CSV.
func EntriesToCSV(entries []models.ListEntry) ([]byte, error) {
	headers := []string{"List", "Movie ID", "Title", "Year", "Rating", "Added"}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			string(e.List),
			e.MovieID,
			e.Title,
			displayYear(e.Year),
			strconv.FormatFloat(e.Rating, 'f', 1, 64),
			e.AddedAt.UTC().Format(time.RFC3339),
		})
	}
	return writeCSV(headers, rows)
}

func writeCSV(headers []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, record := range rows {
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportToMarkdown renders a page as a numbered Markdown list under heading.
func ExportToMarkdown(heading string, p models.Page) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", heading)
	if p.Fallback() {
		buf.WriteString("> Demo mode: results come from the offline catalog.\n\n")
	}
	fmt.Fprintf(&buf, "**Page**: %d of %d (%d results)\n\n", p.Page, p.TotalPages, p.TotalResults)

	for i, m := range p.Results {
		fmt.Fprintf(&buf, "%d. **%s** (%s) ★ %.1f", i+1, m.Title, m.DisplayYear(), m.VoteAverage)
		if len(m.Genres) > 0 {
			fmt.Fprintf(&buf, " · %s", strings.Join(m.Genres, ", "))
		}
		buf.WriteString("\n")
	}
	return buf.Bytes()
}

// MovieToMarkdown renders one movie, with an optional poster image reference.
func MovieToMarkdown(m models.Movie, posterFilename string) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s (%s)\n\n", m.Title, m.DisplayYear())
	if posterFilename != "" {
		fmt.Fprintf(&buf, "![Poster](%s)\n\n", posterFilename)
	}
	fmt.Fprintf(&buf, "%s\n\n", m.Overview)

	fmt.Fprintf(&buf, "**Rating**: %.1f (%d votes)\n", m.VoteAverage, m.VoteCount)
	if len(m.Genres) > 0 {
		fmt.Fprintf(&buf, "**Genres**: %s\n", strings.Join(m.Genres, ", "))
	}
	if m.RuntimeMinutes > 0 {
		fmt.Fprintf(&buf, "**Runtime**: %s\n", FormatRuntime(m.RuntimeMinutes))
	}
	fmt.Fprintf(&buf, "**Director**: %s\n", m.Director)
	if m.Writer != "Unknown" {
		fmt.Fprintf(&buf, "**Writer**: %s\n", m.Writer)
	}
	buf.WriteString("\n")

	if len(m.Cast) > 0 {
		buf.WriteString("## Cast\n\n")
		for _, c := range m.Cast {
			if c.Character != "" {
				fmt.Fprintf(&buf, "- %s as %s\n", c.Name, c.Character)
			} else {
				fmt.Fprintf(&buf, "- %s\n", c.Name)
			}
		}
		buf.WriteString("\n")
	}

	if len(m.Videos) > 0 {
		buf.WriteString("## Videos\n\n")
		for _, v := range m.Videos {
			fmt.Fprintf(&buf, "- [%s](%s) (%s)\n", v.Name, v.YouTubeURL(), v.Type)
		}
		buf.WriteString("\n")
	}

	if len(m.Reviews) > 0 {
		buf.WriteString("## Reviews\n\n")
		for _, r := range m.Reviews {
			fmt.Fprintf(&buf, "> %s\n>\n> _%s_\n\n", r.Content, r.Author)
		}
	}

	if len(m.Similar) > 0 {
		buf.WriteString("## Similar\n\n")
		for _, s := range m.Similar {
			fmt.Fprintf(&buf, "- %s (%s)\n", s.Title, s.DisplayYear())
		}
	}
	return buf.Bytes()
}

// EntriesToMarkdown renders saved list entries under heading.
func EntriesToMarkdown(heading string, entries []models.ListEntry) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", heading)
	fmt.Fprintf(&buf, "**Movies**: %d\n\n", len(entries))
	for i, e := range entries {
		fmt.Fprintf(&buf, "%d. %s (%s) ★ %.1f, added %s\n", i+1, e.Title, displayYear(e.Year), e.Rating, e.AddedAt.Format("2006-01-02"))
	}
	return buf.Bytes()
}

// ExportToText renders a page as plain text.
func ExportToText(heading string, p models.Page) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%s\n", heading)
	fmt.Fprintf(&buf, "Page %d of %d, %d results (%s)\n\n", p.Page, p.TotalPages, p.TotalResults, p.Source)
	for i, m := range p.Results {
		fmt.Fprintf(&buf, "%d. %s (%s) - %.1f\n", i+1, m.Title, m.DisplayYear(), m.VoteAverage)
	}
	return buf.Bytes()
}

// MovieToText renders one movie as plain text.
func MovieToText(m models.Movie) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Title: %s\n", m.Title)
	fmt.Fprintf(&buf, "Year: %s\n", m.DisplayYear())
	fmt.Fprintf(&buf, "Rating: %.1f (%d votes)\n", m.VoteAverage, m.VoteCount)
	fmt.Fprintf(&buf, "Genres: %s\n", strings.Join(m.Genres, ", "))
	fmt.Fprintf(&buf, "Director: %s\n", m.Director)
	if m.RuntimeMinutes > 0 {
		fmt.Fprintf(&buf, "Runtime: %s\n", FormatRuntime(m.RuntimeMinutes))
	}
	fmt.Fprintf(&buf, "Source: %s\n\n%s\n", m.Source, m.Overview)
	return buf.Bytes()
}

// FormatRuntime renders minutes as "2h 22m".
func FormatRuntime(minutes int) string {
	if minutes <= 0 {
		return "N/A"
	}
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}

func displayYear(y int) string {
	if y <= 0 {
		return "N/A"
	}
	return strconv.Itoa(y)
}

// WritePage renders p to w in format f.
func WritePage(w io.Writer, heading string, p models.Page, f Format) error {
	var (
		data []byte
		err  error
	)
	switch f {
	case JSON:
		data, err = shared.MarshalJSON(p, true)
	case CSV:
		data, err = ExportToCSV(p.Results)
	case Markdown:
		data = ExportToMarkdown(heading, p)
	case Text:
		data = ExportToText(heading, p)
	default:
		data = []byte(PageTable(heading, p) + "\n")
	}
	if err != nil {
		return err
	}
	return write(w, data)
}

// WriteMovie renders m to w in format f.
func WriteMovie(w io.Writer, m models.Movie, f Format) error {
	var (
		data []byte
		err  error
	)
	switch f {
	case JSON:
		data, err = shared.MarshalJSON(m, true)
	case CSV:
		data, err = ExportToCSV([]models.Movie{m})
	case Markdown:
		data = MovieToMarkdown(m, "")
	case Text:
		data = MovieToText(m)
	default:
		data = []byte(MovieCard(m) + "\n")
	}
	if err != nil {
		return err
	}
	return write(w, data)
}

// WriteEntries renders saved list entries to w in format f.
func WriteEntries(w io.Writer, heading string, entries []models.ListEntry, f Format) error {
	var (
		data []byte
		err  error
	)
	switch f {
	case JSON:
		data, err = shared.MarshalJSON(entries, true)
	case CSV:
		data, err = EntriesToCSV(entries)
	case Markdown, Text:
		data = EntriesToMarkdown(heading, entries)
	default:
		data = []byte(EntriesTable(heading, entries) + "\n")
	}
	if err != nil {
		return err
	}
	return write(w, data)
}

// WriteStatus renders an API status report to w.
func WriteStatus(w io.Writer, st models.Status, f Format) error {
	if f == JSON {
		return WriteJSON(w, st)
	}
	return write(w, []byte(StatusCard(st)+"\n"))
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	data, err := shared.MarshalJSON(v, true)
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return write(w, append(data, '\n'))
}

func write(w io.Writer, data []byte) error {
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build image request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	return imageData, nil
}

var unsafeChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slug builds a filesystem-safe base name for m, e.g. "155-the-dark-knight".
func Slug(m models.Movie) string {
	title := strings.Trim(unsafeChars.ReplaceAllString(strings.ToLower(m.Title), "-"), "-")
	id := strings.Trim(unsafeChars.ReplaceAllString(strings.ToLower(m.ID.String()), "-"), "-")
	switch {
	case id == "" || id == "0":
		if title == "" {
			return "movie"
		}
		return title
	case title == "":
		return id
	default:
		return id + "-" + title
	}
}

// MovieExportResult lists the files created by [WriteMovieExport].
type MovieExportResult struct {
	MovieID string   `json:"movie_id"`
	Title   string   `json:"title"`
	Files   []string `json:"files"`
	Poster  string   `json:"poster,omitempty"`
}

// ImageFetcher downloads poster images. [DownloadImage] satisfies it.
type ImageFetcher func(ctx context.Context, url string) ([]byte, error)

// WriteMovieExport writes m into dir in format f.
//
// Markdown exports get their own directory, {dir}/{slug}/README.md, plus poster.jpg when fetch is non-nil and
// the movie has a poster. Other formats write {dir}/{slug}.{ext}. A failed poster download does not fail the export.
func WriteMovieExport(ctx context.Context, m models.Movie, dir string, f Format, fetch ImageFetcher) (*MovieExportResult, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	base := Slug(m)
	result := &MovieExportResult{MovieID: m.ID.String(), Title: m.Title, Files: []string{}}

	var (
		data []byte
		path string
		err  error
	)
	switch f {
	case Markdown:
		movieDir := filepath.Join(dir, base)
		if err := os.MkdirAll(movieDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}

		var posterFilename string
		if fetch != nil && m.PosterURL != nil {
			if img, ferr := fetch(ctx, *m.PosterURL); ferr == nil {
				posterPath := filepath.Join(movieDir, "poster.jpg")
				if werr := os.WriteFile(posterPath, img, 0644); werr == nil {
					posterFilename = "poster.jpg"
					result.Poster = posterPath
					result.Files = append(result.Files, posterPath)
				}
			}
		}
		data = MovieToMarkdown(m, posterFilename)
		path = filepath.Join(movieDir, "README.md")
	case CSV:
		data, err = ExportToCSV([]models.Movie{m})
		path = filepath.Join(dir, base+".csv")
	case Text:
		data = MovieToText(m)
		path = filepath.Join(dir, base+".txt")
	default:
		data, err = shared.MarshalJSON(m, true)
		path = filepath.Join(dir, base+".json")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", f, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write export file: %w", err)
	}
	result.Files = append(result.Files, path)
	return result, nil
}

// ManifestEntry records the outcome of one prefetched movie.
type ManifestEntry struct {
	MovieID string   `json:"movie_id"`
	Title   string   `json:"title,omitempty"`
	Source  string   `json:"source,omitempty"`
	Status  string   `json:"status"`
	Files   []string `json:"files,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// Manifest summarizes a prefetch run.
type Manifest struct {
	Format      Format          `json:"format"`
	Total       int             `json:"total_movies"`
	Successful  int             `json:"successful"`
	Failed      int             `json:"failed"`
	GeneratedAt time.Time       `json:"generated_at"`
	Movies      []ManifestEntry `json:"movies"`
}

// WriteManifest writes m as {dir}/manifest.json and returns the path.
func WriteManifest(m Manifest, dir string) (string, error) {
	data, err := shared.MarshalJSON(m, true)
	if err != nil {
		return "", fmt.Errorf("failed to encode manifest: %w", err)
	}

	path := filepath.Join(dir, "manifest.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}
	return path, nil
}
