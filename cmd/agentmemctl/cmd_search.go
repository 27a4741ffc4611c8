package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Substring-search memories",
}

var searchEpisodesCmd = &cobra.Command{
	Use:   "episodes <query>",
	Short: "Search episodic memories",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, s, err := newService()
		if err != nil {
			fatal(err)
		}
		defer s.Close()

		results, err := svc.SearchEpisodes(strings.Join(args, " "), searchLimit)
		if err != nil {
			fatal(err)
		}
		for _, r := range results {
			cmd.Printf("%d\t%s\n", r.ID, r.EventDescription)
		}
	},
}

var searchConceptsCmd = &cobra.Command{
	Use:   "concepts <query>",
	Short: "Search semantic memories",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, s, err := newService()
		if err != nil {
			fatal(err)
		}
		defer s.Close()

		results, err := svc.SearchConcepts(strings.Join(args, " "), searchLimit)
		if err != nil {
			fatal(err)
		}
		for _, r := range results {
			cmd.Printf("%d\t%s\n", r.ID, r.ConceptName)
		}
	},
}

var searchProceduresCmd = &cobra.Command{
	Use:   "procedures <query>",
	Short: "Search procedural memories",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, s, err := newService()
		if err != nil {
			fatal(err)
		}
		defer s.Close()

		results, err := svc.SearchProcedures(strings.Join(args, " "), searchLimit)
		if err != nil {
			fatal(err)
		}
		for _, r := range results {
			cmd.Printf("%d\t%s\n", r.ID, r.ProcedureName)
		}
	},
}

func init() {
	searchCmd.PersistentFlags().IntVar(&searchLimit, "limit", 10, "maximum results")
	searchCmd.AddCommand(searchEpisodesCmd, searchConceptsCmd, searchProceduresCmd)
	rootCmd.AddCommand(searchCmd)
}
