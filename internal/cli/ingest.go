package cli

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"tenk/internal/adapter/chunker"
	"tenk/internal/adapter/fs"
	"tenk/internal/adapter/parser"
	"tenk/internal/usecase"
)

var ingestForce bool

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Parse, chunk, embed and index the 10-K filing",
	Long: `Locate the 10-K HTML filing, extract its text and financial tables,
split them into overlapping chunks, embed each chunk and store the vectors
in the local index. Ingestion is skipped when an index already exists;
use --force to rebuild from scratch.

Examples:
  tenk ingest
  tenk ingest --force`,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().BoolVar(&ingestForce, "force", false, "rebuild the index even if one exists")
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	rootDir := GetRootDir()

	// Find the filing: explicit path wins, otherwise search the data dir.
	docPath := resolvePath(rootDir, cfg.Document.Path)
	if docPath == "" {
		var err error
		docPath, err = fs.LocateFiling(resolvePath(rootDir, cfg.Document.DataDir), cfg.Document.Patterns)
		if err != nil {
			return err
		}
	}

	raw, err := fs.ReadDocument(docPath)
	if err != nil {
		return err
	}

	embedder, err := buildEmbedder(cfg.Embedding)
	if err != nil {
		return err
	}

	if ingestForce {
		cfg.Store.Path = resolvePath(rootDir, cfg.Store.Path)
		if err := os.Remove(cfg.Store.Path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove existing index: %w", err)
		}
	}

	st, err := openStore(cfg, rootDir, embedder.Dimension())
	if err != nil {
		return fmt.Errorf("failed to open vector store: %w", err)
	}
	defer st.Close()

	htmlParser := parser.NewHTMLParser(cfg.Chunking, logger)
	sectionChunker := chunker.NewSectionChunker(cfg.Chunking)

	ingestUC := usecase.NewIngestUseCase(htmlParser, sectionChunker, embedder, st, cfg.Embedding.BatchSize, logger)

	fmt.Printf("Ingesting %s (model: %s)...\n", docPath, embedder.ModelName())

	var bar *progressbar.ProgressBar
	ingestUC.Progress = func(done, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Embedding[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}
		bar.Set(done)
	}

	result, err := ingestUC.Ingest(raw)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	if result.Skipped {
		fmt.Printf("Index already contains %d chunks, skipping. Use --force to rebuild.\n", result.Chunks)
		return nil
	}

	fmt.Printf("Indexed %d chunks from %d sections into %s\n", result.Chunks, result.Sections, cfg.Store.Path)
	return nil
}
