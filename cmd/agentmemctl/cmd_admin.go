package main

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agentcortex/agentmemory/internal/model"
	"github.com/agentcortex/agentmemory/internal/store"
)

var consolidateDryRun bool

var consolidateCmd = &cobra.Command{
	Use:   "consolidate",
	Short: "Merge near-duplicate episodic memories",
	Run: func(cmd *cobra.Command, args []string) {
		svc, s, err := newService()
		if err != nil {
			fatal(err)
		}
		defer s.Close()

		result, err := svc.ConsolidateMemories(consolidateDryRun)
		if err != nil {
			fatal(err)
		}
		cmd.Printf("merged=%d archived=%d candidates=%d\n", result.MergedCount, result.ArchivedCount, len(result.Candidates))
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show memory system statistics",
	Run: func(cmd *cobra.Command, args []string) {
		svc, s, err := newService()
		if err != nil {
			fatal(err)
		}
		defer s.Close()

		stats, err := svc.GetStatistics()
		if err != nil {
			fatal(err)
		}
		cmd.Printf("episodic=%d semantic=%d procedural=%d total=%d size_bytes=%d size_mb=%.2f avg_importance=%.2f\n",
			stats.EpisodicCount, stats.SemanticCount, stats.ProceduralCount, stats.TotalCount,
			stats.FileSizeBytes, stats.FileSizeMB, stats.AvgImportance)
		if stats.MostRetrieved != nil {
			cmd.Printf("most_retrieved: id=%d count=%d description=%q\n",
				stats.MostRetrieved.ID, stats.MostRetrieved.Count, stats.MostRetrieved.Description)
		}
	},
}

var backupCmd = &cobra.Command{
	Use:   "backup <dest-path>",
	Short: "Write a checkpointed copy of the database",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, s, err := newService()
		if err != nil {
			fatal(err)
		}
		defer s.Close()

		if err := svc.Backup(args[0]); err != nil {
			fatal(err)
		}
		cmd.Println("backup written to", args[0])
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <output-path>",
	Short: "Export all memories to a JSON file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, s, err := newService()
		if err != nil {
			fatal(err)
		}
		defer s.Close()

		snap, err := svc.ExportAll()
		if err != nil {
			fatal(err)
		}

		f, err := os.Create(args[0])
		if err != nil {
			fatal(err)
		}
		defer f.Close()

		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			fatal(err)
		}
		cmd.Println("exported to", args[0])
	},
}

var importCmd = &cobra.Command{
	Use:   "import <input-path>",
	Short: "Import memories from a JSON file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc, s, err := newService()
		if err != nil {
			fatal(err)
		}
		defer s.Close()

		f, err := os.Open(args[0])
		if err != nil {
			fatal(err)
		}
		defer f.Close()

		var snap store.Snapshot
		if err := json.NewDecoder(f).Decode(&snap); err != nil {
			fatal(err)
		}

		result := svc.ImportMemories(&snap)
		cmd.Printf("imported episodic=%d semantic=%d procedural=%d errors=%d\n",
			result.EpisodicImported, result.SemanticImported, result.ProceduralImported, len(result.Errors))
		for _, e := range result.Errors {
			cmd.Println("warning:", e)
		}
	},
}

var forgetCmd = &cobra.Command{
	Use:   "forget <kind> <id>",
	Short: "Delete a memory by kind and id",
	Long:  "kind is one of: episodic, semantic, procedural",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		svc, s, err := newService()
		if err != nil {
			fatal(err)
		}
		defer s.Close()

		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			fatal(err)
		}

		deleted, err := svc.DeleteMemory(id, model.Kind(args[0]))
		if err != nil {
			fatal(err)
		}
		if deleted {
			cmd.Println("deleted")
		} else {
			cmd.Println("not found")
		}
	},
}

func init() {
	consolidateCmd.Flags().BoolVar(&consolidateDryRun, "dry-run", true, "report candidates without merging")

	rootCmd.AddCommand(consolidateCmd, statsCmd, backupCmd, exportCmd, importCmd, forgetCmd)
}
