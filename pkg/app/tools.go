package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"grocerease/pkg/inventory"
	"grocerease/pkg/logging"
	"grocerease/pkg/storage"

	catalogdb "grocerease/internal/inventory"
)

// DefaultCSVFile is where generate-inventory writes and convert-inventory reads.
const DefaultCSVFile = "inventory.csv"

type generateConfig struct {
	faces      int
	maxPerFace int
	seed       uint64
	out        string
}

// Generate synthesizes a catalog and writes it as CSV. An -out of "-" writes to stdout.
func Generate(args []string, stdout io.Writer, logger *logrus.Logger) error {
	if logger == nil {
		logger = logging.Discard()
	}
	set := flag.NewFlagSet("generate-inventory", flag.ContinueOnError)
	set.SetOutput(io.Discard)

	var cfg generateConfig
	set.IntVar(&cfg.faces, "faces", inventory.DefaultFaceCount, "Number of store faces to fill")
	set.IntVar(&cfg.maxPerFace, "max-per-face", inventory.DefaultItemsPerFace, "Upper bound of items drawn per face")
	set.Uint64Var(&cfg.seed, "seed", 0, "Random seed; 0 picks a fresh one")
	set.StringVar(&cfg.out, "out", DefaultCSVFile, "CSV destination, or - for stdout")
	if err := set.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	gen := inventory.NewGenerator(inventory.DefaultAssortment, nil)
	if cfg.seed != 0 {
		gen = inventory.NewSeededGenerator(cfg.seed)
	}
	items, err := gen.Generate(cfg.faces, cfg.maxPerFace)
	if err != nil {
		return fmt.Errorf("generate inventory: %w", err)
	}

	if err := writeTo(cfg.out, stdout, func(w io.Writer) error { return inventory.WriteCSV(w, items) }); err != nil {
		return err
	}
	logSummary(logger, inventory.Summarize(items), cfg.out)
	return nil
}

type convertConfig struct {
	in     string
	out    string
	faces  int
	xlsx   string
	dbType string
	dbDSN  string
}

// Convert reads the CSV catalog, attaches face colors and writes the JSON document.
// It can also export a workbook and load the catalog into a database.
func Convert(ctx context.Context, args []string, logger *logrus.Logger) error {
	if logger == nil {
		logger = logging.Discard()
	}
	set := flag.NewFlagSet("convert-inventory", flag.ContinueOnError)
	set.SetOutput(io.Discard)

	var cfg convertConfig
	set.StringVar(&cfg.in, "in", DefaultCSVFile, "CSV catalog to read")
	set.StringVar(&cfg.out, "out", DefaultDataFile, "JSON document to write")
	set.IntVar(&cfg.faces, "faces", inventory.DefaultFaceCount, "Number of faces that get a color")
	set.StringVar(&cfg.xlsx, "xlsx", "", "Also export the catalog to this workbook")
	set.StringVar(&cfg.dbType, "db-type", "", "Also store the catalog in sqlite, postgres or mysql")
	set.StringVar(&cfg.dbDSN, "db-dsn", "", "Database DSN; sqlite defaults to "+storage.DefaultSQLiteFile)
	if err := set.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	items, err := readCSVFile(cfg.in)
	if err != nil {
		return err
	}
	colors, err := inventory.BuildFaceColorMap(cfg.faces, inventory.DefaultPalette)
	if err != nil {
		return err
	}
	doc := inventory.Document{Items: items, FaceColors: colors}

	if err := inventory.SaveDocument(cfg.out, doc); err != nil {
		return fmt.Errorf("write %s: %w", cfg.out, err)
	}
	logger.WithField("file", cfg.out).Info("catalog document written")

	if cfg.xlsx != "" {
		if err := writeTo(cfg.xlsx, nil, func(w io.Writer) error { return inventory.WriteWorkbook(w, doc) }); err != nil {
			return err
		}
		logger.WithField("file", cfg.xlsx).Info("catalog workbook written")
	}

	if cfg.dbType != "" {
		if err := storeCatalog(ctx, cfg, doc); err != nil {
			return err
		}
		logger.WithField("db_type", cfg.dbType).Info("catalog stored in database")
	}

	logSummary(logger, inventory.Summarize(items), cfg.out)
	return nil
}

func readCSVFile(path string) ([]inventory.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	items, err := inventory.ReadCSV(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return items, nil
}

func storeCatalog(ctx context.Context, cfg convertConfig, doc inventory.Document) error {
	db, err := storage.Open(cfg.dbType, cfg.dbDSN)
	if err != nil {
		return err
	}
	defer storage.Close(db)

	repo := catalogdb.NewRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		return err
	}
	return repo.Replace(ctx, doc)
}

// writeTo creates path, or uses stdout when path is "-".
func writeTo(path string, stdout io.Writer, write func(io.Writer) error) error {
	if path == "-" && stdout != nil {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	if err := write(w); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}

func logSummary(logger *logrus.Logger, s inventory.Summary, dest string) {
	for _, fc := range s.PerFace {
		logger.WithFields(logrus.Fields{"face": fc.FaceID, "items": fc.Items}).Debug("face filled")
	}
	logger.WithFields(logrus.Fields{
		"items":            s.Total,
		"faces":            s.UniqueFaces(),
		"average_per_face": fmt.Sprintf("%.1f", s.AveragePerFace()),
		"destination":      dest,
	}).Info("inventory summary")
}
