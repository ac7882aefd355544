package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "leadradar",
		Short: "Find and score sales leads on Reddit and X for your product",
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")

	root.AddCommand(productCmd())
	root.AddCommand(discoverCmd())
	root.AddCommand(suggestionsCmd())
	root.AddCommand(watchCmd())
	root.AddCommand(ingestCmd())
	root.AddCommand(leadsCmd())
	root.AddCommand(monitorCmd())
	root.AddCommand(serveCmd())

	return root
}

func productCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Manage products",
	}

	var (
		id          string
		name        string
		description string
		keywords    []string
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Register a product (keywords are extracted from the description when omitted)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProductAdd(id, name, description, keywords)
		},
	}
	add.Flags().StringVar(&id, "id", "", "product id (default: generated)")
	add.Flags().StringVar(&name, "name", "", "product name")
	add.Flags().StringVar(&description, "description", "", "what the product does")
	add.Flags().StringSliceVar(&keywords, "keywords", nil, "keywords to match leads against")
	add.MarkFlagRequired("name")
	add.MarkFlagRequired("description")
	cmd.AddCommand(add)

	show := &cobra.Command{
		Use:   "show <product-id>",
		Short: "Show a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProductShow(args[0])
		},
	}
	cmd.AddCommand(show)

	return cmd
}

func discoverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "discover <product-id>",
		Short: "Discover subreddits worth monitoring for a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiscover(args[0])
		},
	}
}

func suggestionsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "suggestions <product-id>",
		Short: "Show suggested subreddits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuggestions(args[0], jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}

func watchCmd() *cobra.Command {
	var off bool

	cmd := &cobra.Command{
		Use:   "watch <suggestion-id>",
		Short: "Start or stop monitoring a suggested subreddit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(args[0], !off)
		},
	}

	cmd.Flags().BoolVar(&off, "off", false, "stop monitoring")
	return cmd
}

func ingestCmd() *cobra.Command {
	var (
		subreddits []string
		limit      int
		tweets     bool
	)

	cmd := &cobra.Command{
		Use:   "ingest <product-id>",
		Short: "Scrape and score fresh leads",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(args[0], subreddits, limit, tweets)
		},
	}

	cmd.Flags().StringSliceVar(&subreddits, "subreddits", nil, "subreddits to scrape (default: monitored ones)")
	cmd.Flags().IntVar(&limit, "limit", 0, "max leads to store (default: from config)")
	cmd.Flags().BoolVar(&tweets, "tweets", false, "ingest tweets instead of reddit posts")
	return cmd
}

func leadsCmd() *cobra.Command {
	var (
		jsonOutput bool
		limit      int
		tweets     bool
	)

	cmd := &cobra.Command{
		Use:   "leads <product-id>",
		Short: "Show stored leads, best first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLeads(args[0], jsonOutput, limit, tweets)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	cmd.Flags().IntVar(&limit, "limit", 20, "max leads to show")
	cmd.Flags().BoolVar(&tweets, "tweets", false, "show tweets instead of reddit posts")
	return cmd
}

func monitorCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "monitor <product-id>",
		Short: "Run one sweep over monitored subreddits and alert on hot leads",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMonitor(args[0], limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "max leads to store (default: from config)")
	return cmd
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "server port (default: from config)")
	return cmd
}
