package main

import (
	"strconv"

	"github.com/spf13/cobra"
)

var recallCmd = &cobra.Command{
	Use:   "recall",
	Short: "Recall a memory by id or name",
}

var recallEpisodeCmd = &cobra.Command{
	Use:   "episode <id>",
	Short: "Recall an episodic memory (increments its retrieval count)",
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

		episode, ok, err := svc.RecallEpisode(id)
		if err != nil {
			fatal(err)
		}
		if !ok {
			cmd.Println("not found")
			return
		}
		cmd.Printf("%+v\n", episode)
	},
}

var recallConceptCmd = &cobra.Command{
	Use:   "concept <name>",
	Short: "Recall a semantic memory by concept name",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, s, err := newService()
		if err != nil {
			fatal(err)
		}
		defer s.Close()

		concept, ok, err := svc.RecallConcept(args[0])
		if err != nil {
			fatal(err)
		}
		if !ok {
			cmd.Println("not found")
			return
		}
		cmd.Printf("%+v\n", concept)
	},
}

var recallProcedureCmd = &cobra.Command{
	Use:   "procedure <name>",
	Short: "Recall a procedural memory by name",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, s, err := newService()
		if err != nil {
			fatal(err)
		}
		defer s.Close()

		procedure, ok, err := svc.RecallProcedure(args[0])
		if err != nil {
			fatal(err)
		}
		if !ok {
			cmd.Println("not found")
			return
		}
		cmd.Printf("%+v\n", procedure)
	},
}

func init() {
	recallCmd.AddCommand(recallEpisodeCmd, recallConceptCmd, recallProcedureCmd)
	rootCmd.AddCommand(recallCmd)
}
