package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentcortex/agentmemory/internal/memory"
)

var (
	rememberEpisodeContext     string
	rememberEpisodeImportance  float64
	rememberEpisodeValence     float64
	rememberEpisodeTags        []string
	rememberEpisodeCategories  []string

	rememberConceptConfidence float64
	rememberConceptSource     string
	rememberConceptTags       []string

	rememberProcedureSteps   []string
	rememberProcedurePurpose string
	rememberProcedureTags    []string
)

var rememberCmd = &cobra.Command{
	Use:   "remember",
	Short: "Store a new memory",
}

var rememberEpisodeCmd = &cobra.Command{
	Use:   "episode <description>",
	Short: "Store an episodic memory",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, s, err := newService()
		if err != nil {
			fatal(err)
		}
		defer s.Close()

		description := strings.Join(args, " ")
		id, err := svc.StoreEpisode(description, memory.EpisodeInput{
			Context:         rememberEpisodeContext,
			ImportanceScore: &rememberEpisodeImportance,
			EmotionalValence: &rememberEpisodeValence,
			Tags:            rememberEpisodeTags,
			Categories:      rememberEpisodeCategories,
		})
		if err != nil {
			fatal(err)
		}
		cmd.Printf("stored episode %d\n", id)
	},
}

var rememberConceptCmd = &cobra.Command{
	Use:   "concept <name> <definition>",
	Short: "Store a semantic memory",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		svc, s, err := newService()
		if err != nil {
			fatal(err)
		}
		defer s.Close()

		name := args[0]
		definition := strings.Join(args[1:], " ")
		id, err := svc.StoreConcept(name, definition, memory.ConceptInput{
			ConfidenceScore: &rememberConceptConfidence,
			Source:          rememberConceptSource,
			Tags:            rememberConceptTags,
		})
		if err != nil {
			fatal(err)
		}
		cmd.Printf("stored concept %d\n", id)
	},
}

var rememberProcedureCmd = &cobra.Command{
	Use:   "procedure <name> <description>",
	Short: "Store a procedural memory",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		svc, s, err := newService()
		if err != nil {
			fatal(err)
		}
		defer s.Close()

		name := args[0]
		description := strings.Join(args[1:], " ")
		id, err := svc.StoreProcedure(name, description, rememberProcedureSteps, memory.ProcedureInput{
			Purpose: rememberProcedurePurpose,
			Tags:    rememberProcedureTags,
		})
		if err != nil {
			fatal(err)
		}
		cmd.Printf("stored procedure %d\n", id)
	},
}

func init() {
	rememberEpisodeCmd.Flags().StringVar(&rememberEpisodeContext, "context", "", "surrounding context")
	rememberEpisodeCmd.Flags().Float64Var(&rememberEpisodeImportance, "importance", 50.0, "importance score (0-100)")
	rememberEpisodeCmd.Flags().Float64Var(&rememberEpisodeValence, "valence", 0.0, "emotional valence (-1 to 1)")
	rememberEpisodeCmd.Flags().StringSliceVar(&rememberEpisodeTags, "tags", nil, "tags (auto-extracted if omitted)")
	rememberEpisodeCmd.Flags().StringSliceVar(&rememberEpisodeCategories, "categories", nil, "categories")

	rememberConceptCmd.Flags().Float64Var(&rememberConceptConfidence, "confidence", 0.5, "confidence score (0-1)")
	rememberConceptCmd.Flags().StringVar(&rememberConceptSource, "source", "", "source of the concept")
	rememberConceptCmd.Flags().StringSliceVar(&rememberConceptTags, "tags", nil, "tags (auto-extracted if omitted)")

	rememberProcedureCmd.Flags().StringSliceVar(&rememberProcedureSteps, "steps", nil, "ordered steps (required)")
	rememberProcedureCmd.Flags().StringVar(&rememberProcedurePurpose, "purpose", "", "purpose of the procedure")
	rememberProcedureCmd.Flags().StringSliceVar(&rememberProcedureTags, "tags", nil, "tags (auto-extracted if omitted)")

	rememberCmd.AddCommand(rememberEpisodeCmd, rememberConceptCmd, rememberProcedureCmd)
	rootCmd.AddCommand(rememberCmd)
}
