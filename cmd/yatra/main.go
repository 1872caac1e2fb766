package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"

	"github.com/priyansh/yatra/internal/agent"
	"github.com/priyansh/yatra/internal/export"
	"github.com/priyansh/yatra/internal/observability"
	"github.com/priyansh/yatra/internal/providers"
	"github.com/priyansh/yatra/internal/rag"
	"github.com/priyansh/yatra/internal/usage"
	"github.com/priyansh/yatra/pkg/config"
)

const version = "0.1.0"

var (
	cfgPath string
	cfg     *config.Config
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "yatra",
		Short:        "AI travel itinerary planner",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.LoadConfig(cfgPath)
			return err
		},
	}
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "path to the config file")

	rootCmd.AddCommand(newPlanCmd(), newChatCmd(), newIngestCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newPlanCmd() *cobra.Command {
	var (
		params    agent.TripParams
		interests []string
		stream    bool
		outPath   string
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Gather trip data and generate a structured itinerary",
		RunE: func(cmd *cobra.Command, args []string) error {
			observability.PrintBanner(cfg.App.Name, version)

			planner, closeFn, err := buildPlanner(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			params.Interests = interests
			text, err := runRequest(cmd.Context(), planner, agent.TripRequest{Params: params}, stream)
			if err != nil {
				return err
			}

			if outPath != "" {
				return writeDocument(outPath, params.Destination, text)
			}
			if !stream {
				fmt.Println(text)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&params.Origin, "origin", "", "origin city or airport code")
	cmd.Flags().StringVar(&params.Destination, "destination", "", "destination city")
	cmd.Flags().StringVar(&params.DestinationCode, "code", "", "destination IATA code (resolved from a static table when empty)")
	cmd.Flags().StringVar(&params.Country, "country", "", "destination country")
	cmd.Flags().IntVar(&params.Days, "days", 3, "trip length in days")
	cmd.Flags().StringVar(&params.Date, "date", "", "travel date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&params.BudgetCurrency, "budget-currency", "USD", "currency the budget is held in")
	cmd.Flags().StringVar(&params.TargetCurrency, "currency", "USD", "currency for itinerary costs")
	cmd.Flags().StringSliceVar(&interests, "interests", nil, "interest tags, e.g. trekking,food")
	cmd.Flags().StringVar(&params.UserPrompt, "prompt", "", "free-text refinement request")
	cmd.Flags().BoolVar(&stream, "stream", false, "stream the itinerary as it is generated")
	cmd.Flags().StringVar(&outPath, "out", "", "write the itinerary to a markdown file")

	return cmd
}

func newChatCmd() *cobra.Command {
	var stream bool

	cmd := &cobra.Command{
		Use:   "chat [prompt]",
		Short: "Ask the planner a free-form travel question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			planner, closeFn, err := buildPlanner(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			req := agent.ChatRequest{Prompt: strings.Join(args, " ")}
			text, err := runRequest(cmd.Context(), planner, req, stream)
			if err != nil {
				return err
			}
			if !stream {
				fmt.Println(text)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&stream, "stream", false, "stream the answer as it is generated")
	return cmd
}

func newIngestCmd() *cobra.Command {
	var (
		dir  string
		urls []string
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Index travel notes into the retrieval corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			_, embedderClient, err := newLLM(ctx)
			if err != nil {
				return err
			}
			embedder, err := embeddings.NewEmbedder(embedderClient)
			if err != nil {
				return err
			}

			store, err := rag.Open(cfg.Memory.CorpusPath, embedder)
			if err != nil {
				return err
			}
			defer store.Close()

			var docs []schema.Document
			if dir != "" {
				loaded, err := rag.LoadTextDir(ctx, dir)
				if err != nil {
					return err
				}
				docs = append(docs, loaded...)
			}
			for _, u := range urls {
				loaded, err := rag.LoadURL(ctx, u)
				if err != nil {
					log.Printf("Warning: skipping %s: %v", u, err)
					continue
				}
				docs = append(docs, loaded...)
			}

			if len(docs) == 0 {
				return fmt.Errorf("nothing to ingest: pass --dir and/or --url")
			}

			ids, err := store.AddDocuments(ctx, docs)
			if err != nil {
				return err
			}
			fmt.Printf("Ingested %d chunks into %s\n", len(ids), cfg.Memory.CorpusPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "data/travel_blogs", "directory of .txt travel notes")
	cmd.Flags().StringSliceVar(&urls, "url", nil, "travel article URLs to scrape and index")
	return cmd
}

func runRequest(ctx context.Context, planner *agent.Planner, req agent.Request, stream bool) (string, error) {
	if !stream {
		return planner.GenerateItinerary(ctx, req)
	}

	s := planner.GenerateItineraryStream(ctx, req)
	for chunk := range s.Chunks() {
		fmt.Print(chunk)
	}
	fmt.Println()
	if err := s.Err(); err != nil {
		return "", err
	}
	return s.Text(), nil
}

func writeDocument(path, destination, text string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	title := "Travel Itinerary"
	if destination != "" {
		title = destination + " Itinerary"
	}
	return export.WriteMarkdown(f, title, export.Parse(text))
}

// buildPlanner wires the providers, retrieval store, generation engine,
// and usage recorder into one Planner. The returned func releases the
// corpus store.
func buildPlanner(ctx context.Context) (*agent.Planner, func(), error) {
	model, embedderClient, err := newLLM(ctx)
	if err != nil {
		return nil, nil, err
	}

	tracker := usage.NewTracker(model, usage.Pricing{
		InputPer1K:  cfg.Pricing.InputPer1K,
		OutputPer1K: cfg.Pricing.OutputPer1K,
	})

	logger := observability.NewLogger()

	pipeline := &agent.Pipeline{
		Weather:  providers.NewWeatherClient(cfg.Provider("weather").APIKey),
		Places:   providers.NewPlacesClient(cfg.Provider("serpapi").APIKey),
		Exchange: providers.NewExchangeClient(cfg.Provider("exchange").APIKey),
		Travel:   providers.NewAmadeusClient(cfg.Provider("amadeus").APIKey, cfg.Provider("amadeus").APISecret),
		Activity: providers.NewGooglePlacesClient(cfg.Provider("google_places").APIKey),
		Country:  providers.NewCountryClient(),
		Photos:   providers.NewUnsplashClient(cfg.Provider("unsplash").APIKey),
		Logger:   logger,
	}

	if webSearch, err := providers.NewWebSearchClient(); err != nil {
		log.Printf("Warning: failed to initialize web search fallback: %v", err)
	} else {
		pipeline.WebSearch = webSearch
	}

	closeFn := func() {}
	embedder, err := embeddings.NewEmbedder(embedderClient)
	if err != nil {
		log.Printf("Warning: embeddings unavailable, retrieval disabled: %v", err)
	} else {
		store, err := rag.Open(cfg.Memory.CorpusPath, embedder)
		if err != nil {
			log.Printf("Warning: corpus store unavailable, retrieval disabled: %v", err)
		} else {
			pipeline.Retriever = rag.NewRetriever(store, cfg.Retrieval.TopK)
			closeFn = func() { store.Close() }
		}
	}

	planner := &agent.Planner{
		Model:    tracker,
		Pipeline: pipeline,
		Usage:    usage.NewRecorder(cfg.Memory.UsageLog, tracker),
		Costs:    tracker,
		Logger:   logger,
		Timeout:  5 * time.Minute,
	}
	return planner, closeFn, nil
}

// newLLM builds the generation engine named in config. The second return
// is the same client in its embedder role.
func newLLM(ctx context.Context) (llms.Model, embeddings.EmbedderClient, error) {
	c := cfg.LLM
	switch c.Provider {
	case "openai", "openrouter":
		opts := []openai.Option{
			openai.WithToken(c.APIKey),
			openai.WithModel(c.Model),
		}
		if c.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(c.BaseURL))
		}
		if c.EmbeddingModel != "" {
			opts = append(opts, openai.WithEmbeddingModel(c.EmbeddingModel))
		}
		llm, err := openai.New(opts...)
		if err != nil {
			return nil, nil, err
		}
		return llm, llm, nil
	case "googleai":
		opts := []googleai.Option{googleai.WithAPIKey(c.APIKey)}
		if c.Model != "" {
			opts = append(opts, googleai.WithDefaultModel(c.Model))
		}
		if c.EmbeddingModel != "" {
			opts = append(opts, googleai.WithDefaultEmbeddingModel(c.EmbeddingModel))
		}
		llm, err := googleai.New(ctx, opts...)
		if err != nil {
			return nil, nil, err
		}
		return llm, llm, nil
	default:
		return nil, nil, fmt.Errorf("unsupported llm provider %q", c.Provider)
	}
}
