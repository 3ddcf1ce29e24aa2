package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/fentz26/missionlog/internal/query"
)

var (
	historyOwner    string
	historyStatus   string
	historyCategory string
	historySearch   string
	historySort     string
	historyJSON     bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List mission results with statistics",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyOwner, "owner", "", "Only show results for this client")
	historyCmd.Flags().StringVar(&historyStatus, "status", "all", "Filter by status (all, completed, expired, failed)")
	historyCmd.Flags().StringVar(&historyCategory, "category", "all", "Filter by category (all, fitness, nutrition, lifestyle, challenge)")
	historyCmd.Flags().StringVar(&historySearch, "search", "", "Only show titles containing this text")
	historyCmd.Flags().StringVar(&historySort, "sort", "", "Sort by date, points or performance")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Print results and stats as JSON")
}

// viewParams builds the initial query parameters from config defaults and
// command flags.
func viewParams(owner, status, category, search, sortKey string) query.Params {
	if sortKey == "" {
		sortKey = cfg.DefaultSort
	}
	if owner == "" {
		owner = cfg.DefaultOwner
	}
	return query.Params{
		OwnerID:  owner,
		Status:   query.ParseStatusFilter(status),
		Category: query.ParseCategoryFilter(category),
		Search:   search,
		Sort:     query.ParseSortKey(sortKey),
	}
}

func runHistory(cmd *cobra.Command, args []string) error {
	provider, closeFn, err := openProvider()
	if err != nil {
		return err
	}
	defer closeFn()

	p := viewParams(historyOwner, historyStatus, historyCategory, historySearch, historySort)
	session := query.NewSession(provider, p.OwnerID, query.WithParams(p))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	view, err := session.Load(ctx)
	if err != nil {
		return err
	}

	if historyJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}
	writeHistory(cmd.OutOrStdout(), view)
	return nil
}

// writeHistory prints view as a table followed by a stats footer.
func writeHistory(out io.Writer, view query.View) {
	if len(view.Records) == 0 {
		fmt.Fprintln(out, "No mission results found")
	} else {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCLIENT\tTITLE\tCATEGORY\tSTATUS\tPROGRESS\tPOINTS\tSTARTED")
		for _, r := range view.Records {
			client := r.ClientID
			if client == "" {
				client = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d%%\t%d\t%s\n",
				truncateID(r.ID), client, truncate(r.MissionTitle, 40), r.Category, r.Status,
				r.Progress, r.PointsEarned, r.StartDate.Format("2006-01-02"))
		}
		w.Flush()
	}

	st := view.Stats
	fmt.Fprintf(out, "\n%d missions, %d completed, %d points, %.1f%% average progress, %.1f%% success rate\n",
		st.TotalMissions, st.CompletedMissions, st.TotalPointsEarned, st.AveragePerformance, st.SuccessRate)
}

// --- Helpers ---

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func truncateID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
