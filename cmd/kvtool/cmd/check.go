package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mantoudev/hbase/comparer"
	"github.com/mantoudev/hbase/keyvalue"
)

var errStop = errors.New("stop")

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Report records that are out of order",
		Long: `Report records that are out of order under the configured comparator.
Records with equal keys must be ordered by descending sequence number.

Example:
  kvtool check --comparator catalog catalog.kv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFrom(cmd)
			cmp, err := cfg.Comparer()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var prev *keyvalue.KeyValue
			records, violations := 0, 0
			err = forEachRecord(cfg, args[0], func(kv *keyvalue.KeyValue) error {
				if prev != nil && comparer.CompareWithSeqNum(cmp, prev, kv) > 0 {
					violations++
					fmt.Fprintf(out, "record %d: %s sorts before %s\n", records, kv.Key(), prev.Key())
				}
				prev = kv
				records++
				return nil
			})
			if err != nil {
				return err
			}

			zap.L().Info("Checked record order",
				zap.String("file", args[0]),
				zap.String("comparator", cmp.Name()),
				zap.Int("records", records),
				zap.Int("violations", violations))
			if violations > 0 {
				return fmt.Errorf("%d of %d records out of order", violations, records)
			}
			fmt.Fprintf(out, "%d records in order\n", records)
			return nil
		},
	}
}
