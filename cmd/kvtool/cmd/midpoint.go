package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mantoudev/hbase/common"
	"github.com/mantoudev/hbase/comparer"
	"github.com/mantoudev/hbase/keyvalue"
)

func newMidpointCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "midpoint <left-row> <right-row>",
		Short: "Print the shortest index key between two keys",
		Long: `Print the shortest index key between two keys on the given rows.

Both keys use the same column and timestamp unless overridden.

Example:
  kvtool midpoint 'the quick' 'the who'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmp, err := configFrom(cmd).Comparer()
			if err != nil {
				return err
			}
			family, _ := cmd.Flags().GetString("family")
			qualifier, _ := cmd.Flags().GetString("qualifier")
			rightQualifier, _ := cmd.Flags().GetString("right-qualifier")
			ts, _ := cmd.Flags().GetInt64("timestamp")
			if !cmd.Flags().Changed("right-qualifier") {
				rightQualifier = qualifier
			}

			left, err := keyvalue.New(common.ToBytesBinary(args[0]), []byte(family), []byte(qualifier),
				ts, keyvalue.TypePut, nil)
			if err != nil {
				return err
			}
			right, err := keyvalue.New(common.ToBytesBinary(args[1]), []byte(family), []byte(rightQualifier),
				ts, keyvalue.TypePut, nil)
			if err != nil {
				return err
			}

			mid, err := cmp.ShortMidpointKey(left.Key(), right.Key())
			if err != nil {
				return err
			}
			_, fellBack := comparer.IndexKey(cmp, left.Key(), right.Key())

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "left:     %s\n", left.Key())
			fmt.Fprintf(out, "right:    %s\n", right.Key())
			fmt.Fprintf(out, "midpoint: %s (%d bytes, right is %d)\n", mid, len(mid), len(right.Key()))
			if fellBack {
				fmt.Fprintln(out, "index key falls back to the right key")
			}
			return nil
		},
	}
	cmd.Flags().StringP("family", "f", "cf", "Column family of both keys")
	cmd.Flags().StringP("qualifier", "q", "", "Column qualifier of both keys")
	cmd.Flags().String("right-qualifier", "", "Column qualifier of the right key")
	cmd.Flags().Int64("timestamp", 1, "Timestamp of both keys")
	return cmd
}
