package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/sidata/backend/internal/repository"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <dosen|taruna>",
	Short: "Show record counts grouped by status and program",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

var statsUptFlag string

func init() {
	statsCmd.Flags().StringVar(&statsUptFlag, "upt", "", "Restrict to one unit code")
}

func runStats(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := context.Background()
	switch strings.ToLower(args[0]) {
	case "dosen":
		stats, err := repository.NewDosenRepository(e.db).Stats(ctx, statsUptFlag)
		if err != nil {
			return err
		}
		color.Cyan("\nDosen: %d", stats.Total)
		printCounts("Status", stats.ByStatus)
		printCounts("Pendidikan Terakhir", stats.ByPendidikan)
	case "taruna":
		stats, err := repository.NewTarunaRepository(e.db).Stats(ctx, statsUptFlag)
		if err != nil {
			return err
		}
		color.Cyan("\nTaruna: %d", stats.Total)
		printCounts("Status", stats.ByStatus)
		printCounts("Program Studi", stats.ByProgramStudi)
		printCounts("Jurusan", stats.ByJurusan)
		printCounts("UPT", stats.ByUpt)
	default:
		return fmt.Errorf("entity tidak dikenal: %s (dosen atau taruna)", args[0])
	}
	return nil
}

// printCounts renders one grouping, largest group first.
func printCounts(title string, counts map[string]int64) {
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if counts[labels[i]] != counts[labels[j]] {
			return counts[labels[i]] > counts[labels[j]]
		}
		return labels[i] < labels[j]
	})

	color.Yellow("\n%s", title)
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{title, "Jumlah"})
	for _, label := range labels {
		name := label
		if name == "" {
			name = "-"
		}
		table.Append([]string{name, strconv.FormatInt(counts[label], 10)})
	}
	table.Render()
}
