package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/andrew/clickup-rag/pkg/clickup"
	"github.com/andrew/clickup-rag/pkg/config"
	"github.com/andrew/clickup-rag/pkg/ingest"
	"github.com/andrew/clickup-rag/pkg/llm"
	"github.com/andrew/clickup-rag/pkg/rag"
	"github.com/andrew/clickup-rag/pkg/vector"
)

// pipeline bundles the clients both commands share.
type pipeline struct {
	source *clickup.Client
	llm    llm.Client
	store  vector.Store
	log    *slog.Logger
}

func (p *pipeline) close() {
	_ = p.llm.Close()
	_ = p.store.Close()
}

// buildPipeline constructs every external client from settings.
func buildPipeline(settings *config.Settings) (*pipeline, error) {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	source, err := clickup.NewClient(clickup.Config{
		APIKey:            settings.ClickUp.APIKey,
		BaseURL:           settings.ClickUp.BaseURL,
		RequestsPerMinute: settings.ClickUp.RequestsPerMinute,
	})
	if err != nil {
		return nil, fmt.Errorf("create clickup client: %w", err)
	}

	llmClient, err := llm.NewClient(llm.Config{
		Provider:       settings.LLM.Provider,
		OllamaHost:     settings.LLM.OllamaHost,
		OpenAIAPIKey:   settings.LLM.OpenAIAPIKey,
		OpenAIBaseURL:  settings.LLM.OpenAIBaseURL,
		ChatModel:      settings.LLM.ChatModel,
		EmbeddingModel: settings.LLM.EmbeddingModel,
		Dimensions:     settings.LLM.Dimensions,
	})
	if err != nil {
		return nil, fmt.Errorf("create llm client: %w", err)
	}

	store, err := vector.NewQdrantStore(vector.Config{
		Host:      settings.Qdrant.Host,
		Port:      settings.Qdrant.Port,
		Dimension: settings.LLM.Dimensions,
	}, llmClient)
	if err != nil {
		_ = llmClient.Close()
		return nil, fmt.Errorf("create vector store: %w", err)
	}

	return &pipeline{source: source, llm: llmClient, store: store, log: log}, nil
}

// RunIngest discovers every team/space pair and ingests each into its
// own namespace. Per-space failures are warnings; the run continues.
func RunIngest(ctx context.Context, settings *config.Settings) error {
	p, err := buildPipeline(settings)
	if err != nil {
		return err
	}
	defer p.close()

	namespaces, err := p.source.Namespaces(ctx)
	if err != nil {
		return fmt.Errorf("discover namespaces: %w", err)
	}
	if len(namespaces) == 0 {
		fmt.Println("No teams or spaces visible to this API token.")
		return nil
	}

	fetcher := ingest.NewReplyFetcher(p.source, ingest.DefaultRetryPolicy(), p.log)
	orchestrator := ingest.NewOrchestrator(p.source, fetcher, p.store, p.log)

	total := 0
	for _, ns := range namespaces {
		fmt.Printf("Ingesting %s > %s (%s)\n", ns.TeamName, ns.SpaceName, ns.Namespace)
		stored, err := orchestrator.Ingest(ctx, ns.TeamID, ns.SpaceID, ns.Namespace)
		if err != nil {
			p.log.Warn("ingestion incomplete for namespace", "namespace", ns.Namespace, "error", err)
			continue
		}
		fmt.Printf("  stored %d documents\n", stored)
		total += stored
	}

	fmt.Printf("Done. %d documents stored across %d namespaces.\n", total, len(namespaces))
	return nil
}

// RunQuery prompts for a namespace, then answers questions in a loop
// until the exit sentinel.
func RunQuery(ctx context.Context, settings *config.Settings) error {
	return runQuery(ctx, settings, os.Stdin)
}

func runQuery(ctx context.Context, settings *config.Settings, in io.Reader) error {
	p, err := buildPipeline(settings)
	if err != nil {
		return err
	}
	defer p.close()

	namespaces, err := p.source.Namespaces(ctx)
	if err != nil {
		return fmt.Errorf("discover namespaces: %w", err)
	}
	if len(namespaces) == 0 {
		fmt.Println("No namespaces found. Have you ingested any data yet?")
		return nil
	}

	boldGreen := color.New(color.FgGreen, color.Bold).SprintFunc()
	boldCyan := color.New(color.FgCyan, color.Bold).SprintFunc()

	fmt.Println(boldGreen("Available namespaces:"))
	for i, ns := range namespaces {
		fmt.Printf("%d. %s > %s (%s)\n", i+1, ns.TeamName, ns.SpaceName, ns.Namespace)
	}

	scanner := bufio.NewScanner(in)
	fmt.Print(boldGreen("Select a namespace by number: "))
	if !scanner.Scan() {
		return nil
	}
	choice, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil || choice < 1 || choice > len(namespaces) {
		return fmt.Errorf("invalid selection")
	}
	namespace := namespaces[choice-1].Namespace

	retriever := rag.NewRetriever(p.llm, p.store)
	retriever.TopK = settings.Retrieval.TopK

	fmt.Println("Ask a question, or type 'exit' to quit.")
	for {
		fmt.Print(boldGreen("\nYou: "))
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if strings.ToLower(question) == "exit" {
			break
		}

		answer, err := answerQuestion(ctx, p, retriever, question, namespace)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		fmt.Printf("%s %s\n", boldCyan("Assistant:"), answer)
	}
	return nil
}

// answerQuestion runs the full query path for one question.
func answerQuestion(ctx context.Context, p *pipeline, retriever *rag.Retriever, question, namespace string) (string, error) {
	now := time.Now()

	filters := rag.ExtractFilters(ctx, p.llm, question, now)
	nativeFilter := vector.CompileFilter(filters)

	docs, err := retriever.Retrieve(ctx, question, namespace, nativeFilter)
	if err != nil {
		return "", err
	}

	return rag.Synthesize(ctx, p.llm, question, docs, now)
}
