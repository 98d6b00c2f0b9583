package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lukaszgryglicki/detsim/internal/catalog"
)

func runsCmd() *cobra.Command {
	var (
		dbPath string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List runs recorded in a catalog",
		RunE: func(_ *cobra.Command, _ []string) error {
			store, err := catalog.NewStore(dbPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			runs, err := store.ListRuns(limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("No runs found")
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tFRAME\tCREATED\tSEED\tSIZE\tBITS\tMEAN DN\tSTD DN\tCLIPPED\tCONFIG")
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%dx%d\t%d\t%.2f\t%.2f\t%d/%d/%d\t%s\n",
					r.ID, r.FrameIndex, r.CreatedAt.Local().Format("2006-01-02 15:04:05"), r.Seed,
					r.Rows, r.Cols, r.BitDepth, r.MeanDN, r.StdDN, r.Saturated, r.ADCHigh, r.ADCLow, r.ConfigPath)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&dbPath, "catalog", "out/runs.db", "Catalog database path")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of frames to list (0: all)")
	return cmd
}
