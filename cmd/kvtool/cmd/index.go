package cmd

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mantoudev/hbase/blockindex"
	"github.com/mantoudev/hbase/common"
	"github.com/mantoudev/hbase/compression"
	"github.com/mantoudev/hbase/filter"
	"github.com/mantoudev/hbase/keyvalue"
)

func newIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index <file>",
		Short: "Build the block index and bloom filter of a sorted stream",
		Long: `Build the block index and bloom filter of a sorted stream.

Offsets address the uncompressed stream. With --out the encoded index is
written compressed with the configured compression, with --filter the bloom
filter is written as is. --lookup prints the block that may hold a row.

Example:
  kvtool index --out cells.idx --lookup row42 cells.kv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFrom(cmd)
			cmp, err := cfg.Comparer()
			if err != nil {
				return err
			}
			fw, err := cfg.FilterWriter(cmp)
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			b := blockindex.NewBuilder(cmp, append(cfg.IndexOptions(), blockindex.WithRegisterer(reg))...)
			err = forEachRecord(cfg, args[0], func(kv *keyvalue.KeyValue) error {
				if err := b.Add(kv); err != nil {
					return err
				}
				return fw.Add(kv)
			})
			if err != nil {
				return err
			}
			ix := b.Finish()
			bloom := fw.Build()

			out := cmd.OutOrStdout()
			for i := 0; i < ix.Len(); i++ {
				fmt.Fprintf(out, "%d\t%s\n", i, ix.Entry(i))
			}
			if err := printCounters(cmd, reg); err != nil {
				return err
			}

			if path, _ := cmd.Flags().GetString("out"); path != "" {
				typ, err := cfg.CompressionType()
				if err != nil {
					return err
				}
				encoded, err := compression.EncodeBlock(typ, ix.Encode())
				if err != nil {
					return err
				}
				if err := os.WriteFile(path, encoded, 0644); err != nil {
					return fmt.Errorf("failed to write index: %w", err)
				}
			}
			if path, _ := cmd.Flags().GetString("filter"); path != "" {
				if err := os.WriteFile(path, bloom, 0644); err != nil {
					return fmt.Errorf("failed to write filter: %w", err)
				}
			}

			if row, _ := cmd.Flags().GetString("lookup"); row != "" {
				rowBytes := common.ToBytesBinary(row)
				first, err := keyvalue.FirstOnRow(rowBytes)
				if err != nil {
					return err
				}
				e, ok := ix.Search(first.Key())
				switch {
				case cfg.Filter.Type == filter.BloomRow.String() && !filter.MayContain(bloom, rowBytes):
					fmt.Fprintf(out, "lookup %s: not present\n", row)
				case !ok:
					// the row sorts before the first block
					fmt.Fprintf(out, "lookup %s: not present\n", row)
				default:
					// scanning starts here, the row may continue into later blocks
					fmt.Fprintf(out, "lookup %s: block at %d\n", row, e.Offset)
				}
			}

			zap.L().Info("Built block index",
				zap.String("file", args[0]),
				zap.Int("blocks", ix.Len()),
				zap.Int("filter_bytes", len(bloom)))
			return nil
		},
	}
	cmd.Flags().String("out", "", "Write the encoded index to this path")
	cmd.Flags().String("filter", "", "Write the bloom filter to this path")
	cmd.Flags().String("lookup", "", "Print the block that may hold this row")
	return cmd
}

func printCounters(cmd *cobra.Command, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %v\n", mf.GetName(), m.GetCounter().GetValue())
		}
	}
	return nil
}
