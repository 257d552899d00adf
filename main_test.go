package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product-reviews/config"
	"product-reviews/models"
	"product-reviews/utils"
)

func testConfig() *config.Config {
	return &config.Config{
		MaxConcurrency:  1,
		MaxRetries:      1,
		SummaryProvider: "none",
		SummaryTimeout:  time.Second,
		LogLevel:        "error",
	}
}

func run(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(cfg, utils.NewNopLogger())
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestOpenStore_DefaultsToSampleCatalog(t *testing.T) {
	store, err := openStore(context.Background(), testConfig(), utils.NewNopLogger())
	require.NoError(t, err)
	defer store.Close()

	products, err := store.ListProducts(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, products)
}

func TestOpenStore_SQLite(t *testing.T) {
	cfg := testConfig()
	cfg.SQLitePath = filepath.Join(t.TempDir(), "reviews.db")

	store, err := openStore(context.Background(), cfg, utils.NewNopLogger())
	require.NoError(t, err)
	defer store.Close()

	products, err := store.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestListCommand(t *testing.T) {
	out, err := run(t, testConfig(), "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Gooseneck Pour-Over Kettle")
	assert.Contains(t, out, "Bamboo Cutting Board")
}

func TestShowCommand_Filtered(t *testing.T) {
	out, err := run(t, testConfig(), "show", "kitchen", "pour-over-kettle", "--stars", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Based on 5 customer ratings")
	assert.Contains(t, out, "Showing 2 of 5 reviews")
	assert.Contains(t, out, "AI summary unavailable.")
}

func TestShowCommand_RepeatedStarsAreAUnion(t *testing.T) {
	out, err := run(t, testConfig(), "show", "kitchen", "pour-over-kettle", "--stars", "5", "--stars", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Showing 2 of 5 reviews")

	out, err = run(t, testConfig(), "show", "kitchen", "pour-over-kettle", "--stars", "5,4,5")
	require.NoError(t, err)
	assert.Contains(t, out, "Showing 4 of 5 reviews")
}

func TestCommands_UnbuildableSummaryProviderStillRenders(t *testing.T) {
	cfg := testConfig()
	cfg.SummaryProvider = "gemini"
	cfg.GeminiAPIKey = ""

	out, err := run(t, cfg, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Gooseneck Pour-Over Kettle")

	out, err = run(t, cfg, "show", "kitchen", "pour-over-kettle", "--stars", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "Based on 5 customer ratings")
	assert.Contains(t, out, "Showing 2 of 5 reviews")
	assert.Contains(t, out, "AI summary unavailable.")
}

func TestShowCommand_NoMatchAndEmpty(t *testing.T) {
	out, err := run(t, testConfig(), "show", "kitchen", "pour-over-kettle", "--stars", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "No 1-star reviews yet.")

	out, err = run(t, testConfig(), "show", "kitchen", "bamboo-cutting-board")
	require.NoError(t, err)
	assert.Contains(t, out, "No reviews yet.")
}

func TestShowCommand_NotFound(t *testing.T) {
	_, err := run(t, testConfig(), "show", "outdoor", "pour-over-kettle")
	assert.ErrorIs(t, err, models.ErrProductNotFound)

	_, err = run(t, testConfig(), "show", "kitchen", "missing")
	assert.ErrorIs(t, err, models.ErrProductNotFound)
}

func TestShowCommand_InvalidStars(t *testing.T) {
	_, err := run(t, testConfig(), "show", "kitchen", "pour-over-kettle", "--stars", "6")
	assert.ErrorIs(t, err, models.ErrInvalidRating)
}

func TestImportCommand_SQLite(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "raw.csv")
	csv := "category,product_slug,product_name,author,raw_stars,body\n" +
		"outdoor,camp-stove,Camp Stove,Ada,5,Boils fast\n" +
		"outdoor,camp-stove,Camp Stove,Bob,2 out of 5,Wobbly\n" +
		"outdoor,camp-stove,Camp Stove,Cy,9,Broken row\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(csv), 0o600))

	cfg := testConfig()
	cfg.SQLitePath = filepath.Join(dir, "reviews.db")

	out, err := run(t, cfg, "import", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Saved 1 products from 3 raw reviews")

	out, err = run(t, cfg, "show", "outdoor", "camp-stove")
	require.NoError(t, err)
	assert.Contains(t, out, "Based on 2 customer ratings")
	assert.Contains(t, out, "3.5 out of 5")
}
