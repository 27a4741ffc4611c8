package main

import (
	"strconv"

	"github.com/spf13/cobra"
)

var (
	recentDays  int
	recentLimit int

	importantMinImportance float64
	importantLimit         int

	similarLimit int

	chainMaxDepth int

	tagLimit int
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recent episodic memories",
	Run: func(cmd *cobra.Command, args []string) {
		svc, s, err := newService()
		if err != nil {
			fatal(err)
		}
		defer s.Close()

		results, err := svc.GetRecentEpisodes(recentDays, recentLimit)
		if err != nil {
			fatal(err)
		}
		for _, r := range results {
			cmd.Printf("%d\t%s\t%s\n", r.ID, r.Timestamp.Format("2006-01-02T15:04:05"), r.EventDescription)
		}
	},
}

var importantCmd = &cobra.Command{
	Use:   "important",
	Short: "List important episodic memories after decay and retrieval boost",
	Run: func(cmd *cobra.Command, args []string) {
		svc, s, err := newService()
		if err != nil {
			fatal(err)
		}
		defer s.Close()

		results, err := svc.GetImportantEpisodes(importantMinImportance, importantLimit)
		if err != nil {
			fatal(err)
		}
		for _, r := range results {
			cmd.Printf("%d\t%.2f\t%s\n", r.ID, r.Score, r.EventDescription)
		}
	},
}

var similarCmd = &cobra.Command{
	Use:   "similar <episode-id>",
	Short: "Find episodic memories similar to the given one",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, s, err := newService()
		if err != nil {
			fatal(err)
		}
		defer s.Close()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fatal(err)
		}

		results, err := svc.FindSimilarEpisodic(id, similarLimit)
		if err != nil {
			fatal(err)
		}
		for _, r := range results {
			cmd.Printf("%d\t%.3f\t%s\n", r.ID, r.Score, r.EventDescription)
		}
	},
}

var chainCmd = &cobra.Command{
	Use:   "chain <episode-id>",
	Short: "Follow the associative chain from a seed episode",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, s, err := newService()
		if err != nil {
			fatal(err)
		}
		defer s.Close()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fatal(err)
		}

		chain, err := svc.GetMemoryChain(id, chainMaxDepth)
		if err != nil {
			fatal(err)
		}
		for _, r := range chain {
			cmd.Printf("%d\t%s\n", r.ID, r.EventDescription)
		}
	},
}

var tagCmd = &cobra.Command{
	Use:   "tag <tag>",
	Short: "Find memories across all kinds carrying the given tag",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, s, err := newService()
		if err != nil {
			fatal(err)
		}
		defer s.Close()

		results, err := svc.SearchByTag(args[0], tagLimit)
		if err != nil {
			fatal(err)
		}
		for _, r := range results.Episodic {
			cmd.Printf("episodic\t%d\t%s\n", r.ID, r.EventDescription)
		}
		for _, r := range results.Semantic {
			cmd.Printf("semantic\t%d\t%s\n", r.ID, r.ConceptName)
		}
		for _, r := range results.Procedural {
			cmd.Printf("procedural\t%d\t%s\n", r.ID, r.ProcedureName)
		}
	},
}

func init() {
	recentCmd.Flags().IntVar(&recentDays, "days", 7, "window size in days")
	recentCmd.Flags().IntVar(&recentLimit, "limit", 20, "maximum results")

	importantCmd.Flags().Float64Var(&importantMinImportance, "min-importance", 70.0, "minimum adjusted importance")
	importantCmd.Flags().IntVar(&importantLimit, "limit", 20, "maximum results")

	similarCmd.Flags().IntVar(&similarLimit, "limit", 5, "maximum results")

	chainCmd.Flags().IntVar(&chainMaxDepth, "max-depth", 5, "maximum number of steps beyond the seed episode")

	tagCmd.Flags().IntVar(&tagLimit, "limit", 50, "maximum results per kind")

	rootCmd.AddCommand(recentCmd, importantCmd, similarCmd, chainCmd, tagCmd)
}
