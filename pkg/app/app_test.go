package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocerease/pkg/inventory"
	"grocerease/pkg/logging"
)

func TestParseFlagsDefaults(t *testing.T) {
	cfg, err := parseFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, 8765, cfg.port)
	assert.Equal(t, DefaultDataFile, cfg.dataFile)
	assert.Empty(t, cfg.dbType)
	assert.Equal(t, 2*time.Hour, cfg.sessionTTL)
	assert.Equal(t, 10, cfg.sampleSize)
	assert.Equal(t, "info", cfg.logLevel)
}

func TestParseFlagsReadsEnvironment(t *testing.T) {
	t.Setenv("DATA_FILE", "/srv/catalog.json")
	t.Setenv("DB_TYPE", "postgres")
	t.Setenv("SESSION_TTL", "15m")
	t.Setenv("SAMPLE_SIZE", "4")

	cfg, err := parseFlags([]string{"-sample-size", "6"})
	require.NoError(t, err)
	assert.Equal(t, "/srv/catalog.json", cfg.dataFile)
	assert.Equal(t, "postgres", cfg.dbType)
	assert.Equal(t, 15*time.Minute, cfg.sessionTTL)
	assert.Equal(t, 6, cfg.sampleSize, "flags win over environment")
}

func TestParseFlagsLoadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("REDIS_ADDR=cache:6379\n"), 0o600))
	t.Setenv("REDIS_ADDR", "")
	os.Unsetenv("REDIS_ADDR")

	cfg, err := parseFlags([]string{"-env-file=" + path})
	require.NoError(t, err)
	assert.Equal(t, "cache:6379", cfg.redisAddr)
}

func TestParseFlagsRejectsBadValues(t *testing.T) {
	for _, args := range [][]string{
		{"-sample-size", "0"},
		{"-session-ttl", "-1m"},
		{"-port", "abc"},
		{"-unknown"},
	} {
		_, err := parseFlags(args)
		assert.Error(t, err, strings.Join(args, " "))
	}
}

func TestAddress(t *testing.T) {
	t.Setenv("PORT", "")
	assert.Equal(t, ":8765", Config{port: 8765}.address())
	t.Setenv("PORT", "9000")
	assert.Equal(t, ":9000", Config{port: 8765}.address())
}

func TestRunVersion(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithOutput(&buf, "info", "text")
	require.NoError(t, Run(context.Background(), []string{"-version"}, logger))
	assert.Contains(t, buf.String(), "grocerease version")
}

func TestRunAppliesLogFlagsToPassedLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithOutput(&buf, "info", "text")
	require.NoError(t, Run(context.Background(), []string{"-version", "-log-format", "json"}, logger))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry), buf.String())
	assert.Contains(t, entry["msg"], "grocerease version")

	buf.Reset()
	require.NoError(t, Run(context.Background(), []string{"-version", "-log-level", "warn"}, logger))
	assert.Empty(t, buf.String())
}

func TestRunHelp(t *testing.T) {
	assert.NoError(t, Run(context.Background(), []string{"-h"}, logging.Discard()))
}

func TestRunFailsWithoutCatalog(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.json")
	err := Run(context.Background(), []string{"-data-file", missing}, logging.Discard())
	assert.Error(t, err)
}

func TestGenerateAndConvertPipeline(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "inventory.csv")
	jsonPath := filepath.Join(dir, "inventory.json")
	xlsxPath := filepath.Join(dir, "inventory.xlsx")
	dbPath := filepath.Join(dir, "catalog.db")
	logger := logging.Discard()

	require.NoError(t, Generate([]string{"-faces", "10", "-max-per-face", "5", "-seed", "9", "-out", csvPath}, nil, logger))
	require.NoError(t, Convert(context.Background(), []string{
		"-in", csvPath, "-out", jsonPath, "-faces", "10",
		"-xlsx", xlsxPath, "-db-type", "sqlite", "-db-dsn", dbPath,
	}, logger))

	doc, err := inventory.LoadDocument(jsonPath)
	require.NoError(t, err)
	assert.Len(t, doc.Items, 50)
	assert.Len(t, doc.FaceColors, 10)
	assert.Equal(t, inventory.DefaultPalette[3], doc.FaceColors["face_003"])

	f, err := os.Open(xlsxPath)
	require.NoError(t, err)
	defer f.Close()
	book, err := inventory.ReadWorkbook(f)
	require.NoError(t, err)
	assert.Len(t, book.Items, 50)

	fromJSON, err := loadCatalog(context.Background(), Config{dataFile: jsonPath}, logger)
	require.NoError(t, err)
	fromDB, err := loadCatalog(context.Background(), Config{dbType: "sqlite", dbDSN: dbPath}, logger)
	require.NoError(t, err)
	assert.Equal(t, fromJSON.Len(), fromDB.Len())
	assert.Equal(t, fromJSON.UniqueFaceIDs(), fromDB.UniqueFaceIDs())
}

func TestGenerateToStdout(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Generate([]string{"-faces", "2", "-max-per-face", "3", "-seed", "1", "-out", "-"}, &out, logging.Discard()))

	items, err := inventory.ReadCSV(&out)
	require.NoError(t, err)
	assert.Len(t, items, 6)
}

func TestGenerateRejectsNegativeFaces(t *testing.T) {
	assert.Error(t, Generate([]string{"-faces", "-1", "-out", "-"}, &bytes.Buffer{}, nil))
}

func TestConvertRejectsMalformedCSV(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "broken.csv")
	content := strings.Join(inventory.CSVHeader, ",") + "\n" +
		"dai_001_1234,Whole Milk,301234567,face_001,Premium whole milk,abc,each,Dairy,Horizon,x\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(content), 0o600))

	err := Convert(context.Background(), []string{"-in", csvPath, "-out", filepath.Join(dir, "out.json")}, nil)
	var perr *inventory.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "price", perr.Field)

	_, statErr := os.Stat(filepath.Join(dir, "out.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestLoadCatalogRejectsEmptyDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "empty.db")
	require.NoError(t, Convert(context.Background(), []string{
		"-in", writeEmptyCSV(t), "-out", filepath.Join(t.TempDir(), "empty.json"),
		"-db-type", "sqlite", "-db-dsn", dbPath,
	}, nil))

	_, err := loadCatalog(context.Background(), Config{dbType: "sqlite", dbDSN: dbPath}, logging.Discard())
	assert.Error(t, err)
}

func writeEmptyCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(inventory.CSVHeader, ",")+"\n"), 0o600))
	return path
}

func TestSweepInterval(t *testing.T) {
	assert.Equal(t, 30*time.Minute, sweepInterval(2*time.Hour))
	assert.Equal(t, time.Second, sweepInterval(time.Second))
	assert.Equal(t, 30*time.Minute, sweepInterval(0))
}
