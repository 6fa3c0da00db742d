package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	_ "gocloud.dev/docstore/awsdynamodb"
	_ "gocloud.dev/docstore/gcpfirestore"
	_ "gocloud.dev/docstore/memdocstore"
	_ "gocloud.dev/docstore/mongodocstore"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/future-architect/pinyintower"
	"github.com/future-architect/pinyintower/nlp"
)

const defaultIndexFile = "pinyintower.idx"

var (
	configFile  = kingpin.Flag("config", "Analyzer definition file (YAML)").ExistingFile()
	documentUrl = kingpin.Flag("document-url", "Document store URL. The index is kept in a file when empty").Envar("PINYINTOWER_DOCUMENT_URL").String()
	verbose     = kingpin.Flag("verbose", "Verbose log").Short('v').Bool()

	analyzeCmd   = kingpin.Command("analyze", "Print the tokens an analyzer produces")
	analyzerName = analyzeCmd.Flag("analyzer", "Analyzer name").Default(pinyintower.IndexAnalyzerName).String()
	analyzeTexts = analyzeCmd.Arg("TEXT", "Text to analyze").Required().Strings()

	analyzersCmd = kingpin.Command("analyzers", "List analyzers")

	generateCmd   = kingpin.Command("create-index", "Generate Index")
	outputFile    = generateCmd.Flag("output", "Output file").Default(defaultIndexFile).String()
	indexAnalyzer = generateCmd.Flag("index-analyzer", "Analyzer for documents").String()
	inputFolder   = generateCmd.Arg("INPUT", "Input Folder").Required().ExistingDir()

	searchCmd     = kingpin.Command("search", "Search")
	inputFile     = searchCmd.Flag("input", "Input index file").Default(defaultIndexFile).String()
	queryAnalyzer = searchCmd.Flag("query-analyzer", "Analyzer for search words").String()
	tags          = searchCmd.Flag("tag", "Tags").Short('t').Strings()
	searchWords   = searchCmd.Arg("WORDS", "Search words").Strings()
)

func loadConfig(logger *slog.Logger) error {
	if *configFile == "" {
		return nil
	}
	f, err := os.Open(*configFile)
	if err != nil {
		return err
	}
	defer f.Close()
	analyzers, err := nlp.LoadAnalyzers(f)
	if err != nil {
		return err
	}
	for _, analyzer := range analyzers {
		logger.Debug("analyzer loaded", "name", analyzer.Name(), "file", *configFile)
	}
	return nil
}

func analyze() error {
	analyzer, err := nlp.FindAnalyzer(*analyzerName)
	if err != nil {
		return err
	}
	for _, text := range *analyzeTexts {
		color.Blue("# %s", text)
		position := -1
		for _, token := range analyzer.Analyze(text) {
			position += token.PositionIncrement
			fmt.Printf("%d[%d,%d] (%s) %s\n", position, token.StartOffset, token.EndOffset, token.Type, token.Text)
		}
	}
	return nil
}

func listAnalyzers() error {
	for _, name := range nlp.AnalyzerNames() {
		fmt.Println(name)
	}
	return nil
}

func generate(ctx context.Context, logger *slog.Logger) error {
	pt, err := pinyintower.NewPinyinTower(ctx, pinyintower.Option{
		DocumentUrl:   *documentUrl,
		IndexAnalyzer: *indexAnalyzer,
		Logger:        logger,
	})
	if err != nil {
		return err
	}
	defer pt.Close()

	err = filepath.Walk(*inputFolder, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		var doc pinyintower.Document
		if err := json.NewDecoder(f).Decode(&doc); err != nil {
			logger.Warn("parse file error", "path", path, "error", err)
			return nil
		}
		if doc.UniqueKey == "" {
			doc.UniqueKey = path
		}
		if _, err := pt.PostDocument(doc.UniqueKey, &doc); err != nil {
			logger.Error("register document error", "path", path, "error", err)
			return nil
		}
		fmt.Printf("  adding %s (path=%s)\n", doc.Title, path)
		return nil
	})
	if err != nil {
		return err
	}

	if *documentUrl != "" {
		return nil
	}
	f, err := os.Create(*outputFile)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := pt.WriteIndex(f); err != nil {
		return fmt.Errorf("write index error: %w", err)
	}
	count, err := pt.DocCount()
	if err != nil {
		return err
	}
	color.Green("%d documents are written to %s", count, *outputFile)
	return nil
}

func search(ctx context.Context, logger *slog.Logger) error {
	pt, err := pinyintower.NewPinyinTower(ctx, pinyintower.Option{
		DocumentUrl:   *documentUrl,
		QueryAnalyzer: *queryAnalyzer,
		Logger:        logger,
	})
	if err != nil {
		return err
	}
	defer pt.Close()

	if *documentUrl == "" {
		f, err := os.Open(*inputFile)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := pt.ReadIndex(f); err != nil {
			return fmt.Errorf("open index error: %w", err)
		}
	}

	docs, err := pt.Search(strings.Join(*searchWords, " "), *tags)
	if err != nil {
		return fmt.Errorf("search error: %w", err)
	}

	if len(docs) == 0 {
		color.Cyan("No Match")
	}
	for i, doc := range docs {
		if i != 0 {
			color.Green("\n-----------------------------------------------------------\n\n")
		}
		color.Blue("# %s (score=%.0f)\n\n", doc.Title, doc.Score)
		color.Cyan(doc.Content)
	}
	return nil
}

func main() {
	ctx := context.Background()

	command := kingpin.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := loadConfig(logger); err != nil {
		color.Red("config error: %s", err.Error())
		os.Exit(1)
	}

	var err error
	switch command {
	case analyzeCmd.FullCommand():
		err = analyze()
	case analyzersCmd.FullCommand():
		err = listAnalyzers()
	case generateCmd.FullCommand():
		err = generate(ctx, logger)
	case searchCmd.FullCommand():
		err = search(ctx, logger)
	}
	if err != nil {
		color.Red(err.Error())
		os.Exit(1)
	}
}
