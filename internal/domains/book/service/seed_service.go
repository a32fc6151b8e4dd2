package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bookstore-migrator/internal/domains/book/model"
	"bookstore-migrator/internal/domains/book/repository"
	"bookstore-migrator/internal/shared/utils"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	DefaultInputPath  = "data/books.json"
	DefaultOutputPath = "supabase/seed/books_seed.sql"
)

// ErrApplyUnavailable: --apply nhưng không có DATABASE_URL
var ErrApplyUnavailable = errors.New("seed apply requested without a database connection")

type SeedServiceInterface interface {
	Generate(ctx context.Context, opts GenerateOptions) (*GenerateResult, error)
}

type GenerateOptions struct {
	Input  string
	Output string
	Apply  bool
}

type GenerateResult struct {
	Entries int    `json:"entries"`
	Books   int    `json:"books"`
	Authors int    `json:"authors"`
	Links   int    `json:"links"`
	Output  string `json:"output"`
	Applied bool   `json:"applied"`
}

type seedService struct {
	reader  repository.EntryReader
	writer  repository.SeedWriter
	applier repository.SeedApplier // nil khi không có database
}

func NewSeedService(reader repository.EntryReader, writer repository.SeedWriter, applier repository.SeedApplier) SeedServiceInterface {
	return &seedService{
		reader:  reader,
		writer:  writer,
		applier: applier,
	}
}

// Generate reads the input, writes the seed script and optionally applies
// the same statements in one transaction.
func (s *seedService) Generate(ctx context.Context, opts GenerateOptions) (*GenerateResult, error) {
	if opts.Input == "" {
		opts.Input = DefaultInputPath
	}
	if opts.Output == "" {
		opts.Output = DefaultOutputPath
	}
	if opts.Apply && s.applier == nil {
		return nil, ErrApplyUnavailable
	}

	entries, err := s.reader.ReadEntries(opts.Input)
	if err != nil {
		return nil, err
	}

	books, err := BuildSeedBooks(entries)
	if err != nil {
		return nil, err
	}
	statements := Statements(books)

	if err := s.writer.WriteSeed(opts.Output, Render(statements)); err != nil {
		return nil, err
	}

	result := &GenerateResult{
		Entries: len(entries),
		Books:   len(books),
		Authors: len(distinctAuthors(books)),
		Links:   countLinks(books),
		Output:  opts.Output,
	}

	if opts.Apply {
		log.Info().Int("statements", len(statements)).Msg("Applying seed to database")
		if err := s.applier.Apply(ctx, statements); err != nil {
			return nil, fmt.Errorf("failed to apply seed: %w", err)
		}
		result.Applied = true
	}
	return result, nil
}

// ========================================
// TRANSFORM
// ========================================

// BuildSeedBooks normalizes entries in input order. Slugs are unique
// across the whole input.
func BuildSeedBooks(entries []model.BookEntry) ([]model.SeedBook, error) {
	slugs := utils.NewSlugSet()
	books := make([]model.SeedBook, 0, len(entries))

	for _, e := range entries {
		title := strings.TrimSpace(e.Title)
		if title == "" {
			return nil, fmt.Errorf("entry %d: %w", e.Row, model.ErrMissingTitle)
		}
		if e.Price.IsNegative() {
			return nil, fmt.Errorf("entry %d: %w: %s", e.Row, model.ErrInvalidPrice, e.Price)
		}

		books = append(books, model.SeedBook{
			Title:    title,
			Slug:     slugs.Unique(title),
			PriceMZN: e.Price.Round(2),
			Stock:    model.StockFromNote(e.Note),
			Language: model.DefaultLanguage,
			IsActive: true,
			Authors:  model.SplitAuthors(e.Author),
		})
	}
	return books, nil
}

// ========================================
// SQL
// ========================================

// Statements returns the seed body without begin/commit: author inserts,
// one books upsert, then author_books links.
func Statements(books []model.SeedBook) []string {
	var stmts []string

	for _, name := range distinctAuthors(books) {
		lit := pq.QuoteLiteral(name)
		stmts = append(stmts, fmt.Sprintf(
			"insert into public.authors (name)\nselect %s\nwhere not exists (select 1 from public.authors where name = %s);",
			lit, lit,
		))
	}

	if len(books) > 0 {
		values := make([]string, len(books))
		for i, b := range books {
			values[i] = fmt.Sprintf("  (%s, %s, %s, %d, %s, %t)",
				pq.QuoteLiteral(b.Title),
				pq.QuoteLiteral(b.Slug),
				b.PriceMZN.StringFixed(2),
				b.Stock,
				pq.QuoteLiteral(b.Language),
				b.IsActive,
			)
		}
		stmts = append(stmts, "insert into public.books (title, slug, price_mzn, stock, language, is_active)\nvalues\n"+
			strings.Join(values, ",\n")+
			"\non conflict (slug) do update set\n"+
			"  title = excluded.title,\n"+
			"  price_mzn = excluded.price_mzn,\n"+
			"  stock = excluded.stock,\n"+
			"  language = excluded.language,\n"+
			"  is_active = excluded.is_active;")
	}

	for _, b := range books {
		for _, name := range b.Authors {
			stmts = append(stmts, fmt.Sprintf(
				"insert into public.author_books (author_id, book_id)\n"+
					"select a.id, b.id\n"+
					"from public.authors a\n"+
					"join public.books b on b.slug = %s\n"+
					"where a.name = %s\n"+
					"  and not exists (select 1 from public.author_books ab where ab.author_id = a.id and ab.book_id = b.id);",
				pq.QuoteLiteral(b.Slug), pq.QuoteLiteral(name),
			))
		}
	}
	return stmts
}

// Render wraps the statements in a single transaction.
func Render(statements []string) string {
	var sb strings.Builder
	sb.WriteString("-- generated by migrator generate-books-seed\n")
	sb.WriteString("begin;\n\n")
	for _, stmt := range statements {
		sb.WriteString(stmt)
		sb.WriteString("\n\n")
	}
	sb.WriteString("commit;\n")
	return sb.String()
}

// distinctAuthors theo thứ tự xuất hiện đầu tiên
func distinctAuthors(books []model.SeedBook) []string {
	names := utils.NewOrderedSet[string]()
	for _, b := range books {
		for _, name := range b.Authors {
			names.Add(name)
		}
	}
	return names.Items()
}

func countLinks(books []model.SeedBook) int {
	n := 0
	for _, b := range books {
		n += len(b.Authors)
	}
	return n
}
