// Command chatedit runs the content pipelines against local files, without
// the HTTP server or a database. Useful for trying prompts against a real
// model.
package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"craftfolio/config"
	"craftfolio/internal/domain"
	"craftfolio/internal/render"
	"craftfolio/internal/usecase"
	"craftfolio/pkg/ai"
	"craftfolio/pkg/catalog"
	"craftfolio/pkg/infrastructure"
	"craftfolio/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	memoryPath string
	outPath    string
	pdfPath    string
	timeout    time.Duration
)

var rootCmd = &cobra.Command{
	Use:          "chatedit",
	Short:        "Run the portfolio content pipelines on local files",
	SilenceUsage: true,
}

var applyCmd = &cobra.Command{
	Use:   "apply <portfolio.json> <instruction>",
	Short: "Apply one chat instruction to a portfolio document",
	Args:  cobra.ExactArgs(2),
	RunE:  runApply,
}

var extractCmd = &cobra.Command{
	Use:   "extract <resume.png|jpg|pdf>",
	Short: "Extract a resume image into a portfolio document",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

var previewCmd = &cobra.Command{
	Use:   "preview <portfolio.json>",
	Short: "Render a portfolio document to HTML, or PDF with --pdf",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outPath, "out", "o", "", "Write the result to this file instead of stdout")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Give up after this long")
	applyCmd.Flags().StringVar(&memoryPath, "memory", "", "JSON file with prior messages ([{\"text\": ...}])")
	previewCmd.Flags().StringVar(&pdfPath, "pdf", "", "Print the preview to this PDF file")
	rootCmd.AddCommand(applyCmd, extractCmd, previewCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newProcessor(ctx context.Context) (*usecase.Processor, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.LogLevel)
	model, err := ai.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiTemperature)
	if err != nil {
		return nil, err
	}
	return usecase.NewProcessor(model, catalog.Default(), cfg.MemoryWindow, nil, nil, nil), nil
}

func runApply(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	var doc domain.Document
	if err := readJSON(args[0], &doc); err != nil {
		return err
	}
	var memory []domain.MessageMemory
	if memoryPath != "" {
		if err := readJSON(memoryPath, &memory); err != nil {
			return err
		}
	}

	p, err := newProcessor(ctx)
	if err != nil {
		return err
	}
	res, err := p.ApplyChatEdit(ctx, usecase.ChatRequest{
		PortfolioData: doc,
		InputValue:    args[1],
		MessageMemory: memory,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), res.UserReply)
	return writeJSON(cmd, res.UpdatedData)
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	b, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read resume: %w", err)
	}
	mimeType := mime.TypeByExtension(filepath.Ext(args[0]))
	if mimeType == "" {
		return fmt.Errorf("unknown file type %q", filepath.Ext(args[0]))
	}

	p, err := newProcessor(ctx)
	if err != nil {
		return err
	}
	uri := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(b)
	doc, err := p.ExtractResume(ctx, uri, nil)
	if err != nil {
		return err
	}
	return writeJSON(cmd, doc)
}

func runPreview(cmd *cobra.Command, args []string) error {
	var doc domain.Document
	if err := readJSON(args[0], &doc); err != nil {
		return err
	}
	html, err := render.HTML(doc)
	if err != nil {
		return err
	}
	if pdfPath == "" {
		return writeOut(cmd, []byte(html))
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	pdf, err := infrastructure.NewChromedpRenderer(cfg.ChromePath).RenderHTMLToPDF(ctx, html)
	if err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	if err := os.WriteFile(pdfPath, pdf, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", pdfPath)
	return nil
}

func readJSON(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return writeOut(cmd, append(b, '\n'))
}

func writeOut(cmd *cobra.Command, b []byte) error {
	if outPath == "" {
		_, err := cmd.OutOrStdout().Write(b)
		return err
	}
	return os.WriteFile(outPath, b, 0o644)
}
